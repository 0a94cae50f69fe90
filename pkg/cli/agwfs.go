package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/ade-tools/adectl/pkg/agwfs"
	"github.com/spf13/cobra"
)

func cmdAgWfs() *cobra.Command {
	var c1, c2, wfs string
	cmd := &cobra.Command{
		Use:   "agwfs <camonitor-log>",
		Short: "Extract wavefront sensor follow and interpolation series from a camonitor log",
		Long: `Extract up to two series from a camonitor log of the wavefront sensor follow
and interpolation records, as "series,seconds,value" CSV. Seconds count from
the first timestamp read.

Series:
` + agwfs.SeriesHelp,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			table, err := agwfs.Table(wfs)
			if err != nil {
				return err
			}

			var selected []agwfs.Series
			for _, name := range []string{c1, c2} {
				if name == "" {
					continue
				}
				s, ok := table[name]
				if !ok {
					names := agwfs.Names(table)
					if closest, found := agwfs.Closest(name, names); found {
						return fmt.Errorf("unknown series %q, did you mean %q?", name, closest)
					}
					return fmt.Errorf("unknown series %q, expected one of: %s", name, strings.Join(names, ", "))
				}
				selected = append(selected, s)
			}
			if len(selected) == 0 {
				return errors.New("nothing to extract")
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("reading log: %w", err)
			}

			var tl agwfs.Timeline
			for i, s := range selected {
				points, err := agwfs.Extract(bytes.NewReader(data), &tl, s)
				if err != nil {
					return fmt.Errorf("%s: %w", args[0], err)
				}
				if err := agwfs.WriteCSV(cmd.OutOrStdout(), s.Name, points, i == 0); err != nil {
					return err
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&c1, "c1", "", "first series to extract")
	cmd.Flags().StringVar(&c2, "c2", "", "second series to extract")
	cmd.Flags().StringVar(&wfs, "wfs", "p1", fmt.Sprintf("wavefront sensor, one of %v", agwfs.WavefrontSensors))
	return cmd
}
