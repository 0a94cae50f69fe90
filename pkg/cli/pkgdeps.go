package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/ade-tools/adectl/pkg/cli/internal"
	"github.com/ade-tools/adectl/pkg/cli/styles"
	"github.com/ade-tools/adectl/pkg/dag"
	"github.com/ade-tools/adectl/pkg/internal/errorhelpers"
	"github.com/ade-tools/adectl/pkg/specfile"
	"github.com/chainguard-dev/clog"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

func cmdPkgDeps() *cobra.Command {
	p := &pkgDepsParams{}
	cmd := &cobra.Command{
		Use:   "pkgdeps <package-list>",
		Short: "Print the order in which support packages must be built",
		Long: `Read the spec files of the packages named in a package list, one name per
line, and print the level at which each package can be built. Packages at
level zero have no build dependencies among the listed packages; every other
package only depends on packages at lower levels.

Generate a graph of the build dependencies and render it as an SVG

  adectl pkgdeps packages.txt --dot
  dot -Tsvg output.dot > graph.svg
`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := clog.NewLogger(newLogger(p.verbosity))
			ctx := clog.WithLogger(cmd.Context(), logger)
			fsys := afero.NewOsFs()

			rules, err := specfile.LoadRules(fsys, configFile(p.rulesFile, pkgDepsConfig))
			if err != nil {
				return err
			}

			f, err := fsys.Open(args[0])
			if err != nil {
				return fmt.Errorf("opening package list: %w", err)
			}
			defer f.Close()

			g, err := specfile.NewScraper(fsys, p.path, rules).ScrapeList(ctx, f)
			if g == nil {
				return err
			}
			if err != nil {
				failed := errorhelpers.Labels(err)
				logger.Warnf("%s could not be processed and %s treated as external: %s",
					internal.Count(len(failed), "package", "packages"),
					internal.SelectPlurality(len(failed), "is", "are"),
					strings.Join(failed, ", "))
			}
			logger.Infof("%s in the dependency graph", internal.Count(g.Len(), "package", "packages"))

			if p.dot {
				if err := afero.WriteFile(fsys, p.dotFile, []byte(dag.Dot(g)), 0o644); err != nil {
					return fmt.Errorf("writing dot file: %w", err)
				}
				logger.Infof("wrote %s", p.dotFile)
			}

			if p.deps {
				return writeDependencies(cmd.OutOrStdout(), g)
			}

			order, err := dag.Resolve(g, dag.WithMaxLevels(p.maxLevels))
			if err != nil {
				return err
			}
			return writeBuildOrder(cmd.OutOrStdout(), order)
		},
	}

	p.addFlagsTo(cmd)
	return cmd
}

type pkgDepsParams struct {
	path      string
	deps      bool
	dot       bool
	dotFile   string
	rulesFile string
	maxLevels int
	verbosity int
}

func (p *pkgDepsParams) addFlagsTo(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&p.path, "path", "p", ".", "directory holding one directory per package with its spec file")
	cmd.Flags().BoolVarP(&p.deps, "deps", "d", false, "print the dependencies of each package instead of the build order")
	cmd.Flags().BoolVar(&p.dot, "dot", false, "also write the build dependencies as a graphviz dot file")
	cmd.Flags().StringVar(&p.dotFile, "dotfile", "output.dot", "dot file written with --dot")
	cmd.Flags().StringVar(&p.rulesFile, "rules", "", "YAML file overriding the spec file rules (default $XDG_CONFIG_HOME/"+pkgDepsConfig+" when present)")
	cmd.Flags().IntVar(&p.maxLevels, "max-levels", dag.DefaultMaxLevels, "highest build level before giving up")
	addVerboseFlag(&p.verbosity, cmd)
}

// writeBuildOrder prints one "<level>: <package>" line per package.
func writeBuildOrder(w io.Writer, order dag.BuildOrder) error {
	if _, err := fmt.Fprintln(w, "Build order. Packages with no dependencies have level zero:"); err != nil {
		return err
	}
	for level, names := range order {
		for _, name := range names {
			if _, err := fmt.Fprintf(w, "%d: %s\n", level, name); err != nil {
				return err
			}
		}
	}
	return nil
}

// writeDependencies lists the runtime and build dependencies of every package
// that has any.
func writeDependencies(w io.Writer, g *dag.Graph) error {
	for _, name := range g.Nodes() {
		p, _ := g.Package(name)
		if len(p.Requires) == 0 && len(p.BuildRequires) == 0 {
			continue
		}

		_, err := fmt.Fprintf(w, "%s\n  %s %s\n  %s %s\n",
			styles.PackageName().Render(name),
			styles.Label().Render("Requires:     "), renderNames(g, p.Requires),
			styles.Label().Render("BuildRequires:"), renderNames(g, p.BuildRequires),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func renderNames(g *dag.Graph, names []string) string {
	rendered := make([]string, 0, len(names))
	for _, name := range names {
		if !g.Has(name) {
			name = styles.External().Render(name)
		}
		rendered = append(rendered, name)
	}
	return "[" + strings.Join(rendered, " ") + "]"
}
