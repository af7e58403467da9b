package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	eio "github.com/matzehuels/eclaireur/pkg/io"
)

type depsFlags struct {
	buildFlags
	full   bool
	output string
}

// depsCommand creates the deps command.
func (c *CLI) depsCommand() *cobra.Command {
	var flags depsFlags

	cmd := &cobra.Command{
		Use:   "deps [entry]",
		Short: "Print the dependency map as JSON",
		Long: `Build the dependency map of an entry point and print it as a JSON object
mapping each file to the files it imports.

With --full, the output keeps absolute paths, abstraction folders and unmatched
files, and can be reloaded by other tools with the eclaireur io package.`,
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
			// Only animate when the JSON goes to a file.
			var spinner *Spinner
			if flags.output != "" {
				spinner = newSpinnerWithContext(ctx, "Extracting imports...")
				spinner.Start()
			}
			m, err := runner.Build(ctx, opts)
			if spinner != nil {
				if err != nil {
					spinner.Stop()
				} else {
					spinner.StopWithSuccess(fmt.Sprintf("Extracted %d files", m.Len()))
				}
			}
			if err != nil {
				return err
			}
			if opts.Sorted {
				m = m.Sorted()
			}

			var w io.Writer = cmd.OutOrStdout()
			if flags.output != "" {
				f, err := os.Create(flags.output)
				if err != nil {
					return err
				}
				defer f.Close()
				w = f
			}

			if flags.full {
				err = eio.WriteJSON(m, w)
			} else {
				err = eio.WriteDependencies(m, w)
			}
			if err != nil {
				return err
			}
			if flags.output != "" {
				printFile(flags.output)
			}
			printUnmatched(m.Unmatched())
			return nil
		},
	}

	flags.register(cmd)
	cmd.Flags().BoolVar(&flags.full, "full", false, "write the full document instead of the key to dependencies object")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output file (stdout if omitted)")

	return cmd
}
