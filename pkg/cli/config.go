package cli

import "github.com/adrg/xdg"

// Configuration files looked up in the XDG config directories when the
// matching flag is not set.
const (
	pkgDepsConfig = "adectl/pkgdeps.yaml"
	dbRefsConfig  = "adectl/macros.yaml"
)

// configFile returns flagValue when set, otherwise the path of the named
// file in the XDG config directories, or "" when there is none.
func configFile(flagValue, name string) string {
	if flagValue != "" {
		return flagValue
	}
	path, err := xdg.SearchConfigFile(name)
	if err != nil {
		return ""
	}
	return path
}
