package cli

import (
	"github.com/spf13/cobra"
	"sigs.k8s.io/release-utils/version"
)

func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:               "adectl",
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		Short:             "Operational helpers for EPICS support packages and IOCs",
	}

	cmd.AddCommand(
		cmdAgWfs(),
		cmdAlarms(),
		cmdComa(),
		cmdDBRefs(),
		cmdPkgDeps(),
		version.Version(),
	)

	return cmd
}
