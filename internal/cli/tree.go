package cli

import (
	"fmt"
	"io"
	"path"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/eclaireur/pkg/cluster"
	"github.com/matzehuels/eclaireur/pkg/deps"
)

type treeFlags struct {
	buildFlags
	interactive bool
}

// treeCommand creates the tree command.
func (c *CLI) treeCommand() *cobra.Command {
	var flags treeFlags

	cmd := &cobra.Command{
		Use:   "tree [entry]",
		Short: "Print the folder cluster tree of the dependency map",
		Long: `Build the dependency map of an entry point and print the nested folder
clusters it is grouped into, with the files of each cluster.

With --interactive, browse the tree in the terminal and inspect the imports of
each file.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := flags.load(cmd, args)
			if err != nil {
				return err
			}

			runner, err := c.newRunner(ctx, cfg, flags.noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			opts := options(cfg)
			opts.Logger = loggerFromContext(ctx)
			m, err := runner.Build(ctx, opts)
			if err != nil {
				return err
			}
			if opts.Sorted {
				m = m.Sorted()
			}
			tree := cluster.Build(m.Keys())

			if flags.interactive {
				p := tea.NewProgram(NewTreeModel(m, tree), tea.WithContext(ctx), tea.WithAltScreen())
				_, err := p.Run()
				return err
			}
			return writeTree(cmd.OutOrStdout(), flattenTree(m, tree))
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVarP(&flags.interactive, "interactive", "I", false, "browse the tree interactively")

	return cmd
}

// treeRow is one line of the cluster tree: a cluster or a file.
type treeRow struct {
	depth   int
	label   string
	cluster string   // Cluster path, empty for files
	key     string   // Map key, empty for clusters
	parents []string // Enclosing cluster paths, outermost first
}

func (r treeRow) isCluster() bool { return r.cluster != "" }

// flattenTree lists clusters depth-first. Each cluster is followed by its
// nested clusters, then by its own files.
func flattenTree(m *deps.Map, tree *cluster.Tree) []treeRow {
	files := make(map[string][]string)
	for _, k := range m.Keys() {
		dir := cluster.Dir(k)
		files[dir] = append(files[dir], k)
	}

	var rows []treeRow
	var walk func(cs []*cluster.Cluster, depth int, parents []string)
	walk = func(cs []*cluster.Cluster, depth int, parents []string) {
		for _, c := range cs {
			rows = append(rows, treeRow{depth: depth, label: c.Label() + "/", cluster: c.Path, parents: parents})
			inner := append(append([]string(nil), parents...), c.Path)
			walk(c.Children(), depth+1, inner)
			for _, k := range files[c.Path] {
				rows = append(rows, treeRow{depth: depth + 1, label: path.Base(k), key: k, parents: inner})
			}
		}
	}
	walk(tree.Roots(), 0, nil)
	return rows
}

func writeTree(w io.Writer, rows []treeRow) error {
	var b strings.Builder
	for _, r := range rows {
		b.WriteString(strings.Repeat("  ", r.depth))
		b.WriteString(r.label)
		b.WriteString("\n")
	}
	_, err := fmt.Fprint(w, b.String())
	return err
}
