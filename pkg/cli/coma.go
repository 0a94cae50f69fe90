package cli

import (
	"fmt"
	"os"

	"github.com/ade-tools/adectl/pkg/coma"
	"github.com/spf13/cobra"
)

func cmdComa() *cobra.Command {
	var start, end string
	cmd := &cobra.Command{
		Use:   "coma <capture-file>",
		Short: "Tabulate captures of the M2 comatic aberration channels as CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rng, err := coma.ParseRange(start, end)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening capture file: %w", err)
			}
			defer f.Close()

			rows, err := coma.Parse(f, rng)
			if err != nil {
				return fmt.Errorf("%s: %w", args[0], err)
			}

			return coma.WriteCSV(cmd.OutOrStdout(), rows)
		},
	}

	cmd.Flags().StringVarP(&start, "start", "s", "", "only captures after this date (YYYYMMDD-HHMMSS)")
	cmd.Flags().StringVarP(&end, "end", "e", "", "only captures before this date (YYYYMMDD-HHMMSS)")
	return cmd
}
