// Package cli provides the command-line interface for dustdoc.
package cli

import (
	"context"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// Execute creates and runs the root command.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return NewRootCommand(os.Stdout, os.Stderr).ExecuteContext(ctx)
}

// NewRootCommand builds the command tree. Rendered documents go to stdout;
// help, usage and logs go to stderr.
func NewRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var config GenerateConfig

	cmd := &cobra.Command{
		Use:   "dustdoc [--html] <source> [<output>]",
		Short: "Generate documentation from Dust source files",
		Long: `dustdoc reads a Dust source file (.dust or .dpaper), extracts its
documentation comments and writes a formatted document. It produces Markdown
by default; pass --html for HTML. When <source> is a directory every source
file below it is documented. Without <output> the result goes to stdout.`,
		Args:          cobra.MaximumNArgs(2),
		SilenceErrors: true,
		SilenceUsage:  true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			config.SourcePath = args[0]
			if len(args) > 1 {
				config.OutputPath = args[1]
			}
			config.setFlags = map[string]bool{"output": len(args) > 1}
			for _, name := range []string{"format", "name", "workers", "html"} {
				config.setFlags[name] = cmd.Flags().Changed(name)
			}
			logger := newLogger(stderr, config.Verbose)
			return GenerateDocs(cmd.Context(), &config, stdout, logger)
		},
	}

	cmd.Flags().BoolVar(&config.HTML, "html", false, "Generate HTML instead of Markdown")
	cmd.Flags().StringVar(&config.Format, "format", defaultFormat, "Output format: markdown, html, json or yaml")
	cmd.Flags().StringVar(&config.Name, "name", "", "Display name used in the document heading (defaults to the source file name)")
	cmd.Flags().IntVar(&config.Workers, "workers", 0, "Parallel extractions for directory sources (0 = number of CPUs)")
	cmd.Flags().StringVar(&config.ConfigPath, "config", "", "Path to a .dustdoc.yml or .toml config file")
	cmd.Flags().BoolVarP(&config.Verbose, "verbose", "v", false, "Log progress to stderr")

	// Source files may be named help or completion.
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})

	cmd.SetOut(stderr)
	cmd.SetErr(stderr)
	cmd.AddCommand(newServeCommand(stderr))

	return cmd
}
