package cli

import (
	"github.com/ade-tools/adectl/pkg/dbrefs"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func cmdDBRefs() *cobra.Command {
	p := &dbRefsParams{}
	cmd := &cobra.Command{
		Use:   "dbrefs <db-file>...",
		Short: "List the records that database files link to without defining them",
		Long: `List the records linked to from the input link fields (INP, OUT, DOL, LNK,
FLNK, SELL, NVL, SxLK) of the given database files that none of the files
define, with the fields used on each. The last line is the number of records.

Macros are expanded before parsing. The defaults can be overridden from a YAML
file and then from the command line:

  adectl dbrefs ag_top.db ag_sadtop.db -m ag=ag: -m tcs=tc1:
`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fsys := afero.NewOsFs()

			macros := dbrefs.DefaultMacros()
			if path := configFile(p.macrosFile, dbRefsConfig); path != "" {
				loaded, err := dbrefs.LoadMacros(fsys, path)
				if err != nil {
					return err
				}
				for k, v := range loaded {
					macros[k] = v
				}
			}
			for k, v := range p.macros {
				macros[k] = v
			}

			files, err := dbrefs.Load(fsys, args, macros)
			if err != nil {
				return err
			}

			return dbrefs.External(files).Write(cmd.OutOrStdout(), p.csv)
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

type dbRefsParams struct {
	csv        bool
	macros     map[string]string
	macrosFile string
}

func (p *dbRefsParams) addFlagsTo(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&p.csv, "csv", false, "write one comma separated line per record")
	cmd.Flags().StringToStringVarP(&p.macros, "macro", "m", nil, "macro definition as name=value (can be repeated)")
	cmd.Flags().StringVar(&p.macrosFile, "macros", "", "YAML file of macro definitions (default $XDG_CONFIG_HOME/"+dbRefsConfig+" when present)")
}
