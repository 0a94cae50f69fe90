package cli

import (
	"log/slog"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

// newLogger returns a logger writing to stderr. Warnings and errors are
// always shown; each -v adds a level of detail.
func newLogger(verbosity int) *slog.Logger {
	level := charmlog.WarnLevel
	switch {
	case verbosity == 1:
		level = charmlog.InfoLevel
	case verbosity >= 2:
		level = charmlog.DebugLevel
	}

	return slog.New(charmlog.NewWithOptions(os.Stderr, charmlog.Options{
		ReportTimestamp: verbosity >= 2,
		Level:           level,
	}))
}

func addVerboseFlag(verbosity *int, cmd *cobra.Command) {
	cmd.Flags().CountVarP(verbosity, "verbose", "v", "logging verbosity (v = info, vv = debug)")
}
