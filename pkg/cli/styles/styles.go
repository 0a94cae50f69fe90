package styles

import "github.com/charmbracelet/lipgloss"

var darkMode = lipgloss.HasDarkBackground()

var (
	packageName = lipgloss.NewStyle().Bold(true)
	label       = lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))
	labelLight  = lipgloss.NewStyle().Foreground(lipgloss.Color("#444444"))
	external    = lipgloss.NewStyle().Foreground(lipgloss.Color("#999999"))
	externLight = lipgloss.NewStyle().Foreground(lipgloss.Color("#aaaaaa"))
)

// PackageName styles the name of a package heading a listing.
func PackageName() lipgloss.Style {
	return packageName
}

// Label styles the field labels of a listing.
func Label() lipgloss.Style {
	if !darkMode {
		return labelLight
	}
	return label
}

// External styles names that are outside the dependency graph.
func External() lipgloss.Style {
	if !darkMode {
		return externLight
	}
	return external
}
