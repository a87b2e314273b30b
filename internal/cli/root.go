// Package cli implements the paperfig command-line interface.
//
// This package provides commands for building the multi-page PDF deliverable
// from a JSON figure spec, validating a spec without rendering, and listing
// the figures a spec declares. The CLI is built using cobra; logging uses the
// charmbracelet/log library with the logger carried through context.Context.
//
// # Commands
//
//   - build: render all figures (or one target) and concatenate the pages
//   - validate: load and schema-check a spec file
//   - list: print the figures in a spec, optionally as an interactive picker
//
// # Verbosity
//
// All commands share --verbose (-v): 0 warnings only, 1 progress (default),
// 2 debug. The value is also passed through to renderers.
package cli

import (
	"context"
	"os"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/paperfig/paperfig/pkg/buildinfo"
)

// Execute runs the paperfig CLI with the given base context and returns an
// error if any command fails.
func Execute(ctx context.Context) error {
	var verbose int

	root := &cobra.Command{
		Use:           "paperfig",
		Short:         "paperfig builds multi-page PDF documents from JSON figure specs",
		Long:          `paperfig reads a declarative JSON specification mapping figure ids to typed configuration blocks, dispatches each entry to a renderer, and concatenates the resulting single-page PDFs into one deliverable. Composite "multi" figures tile their children onto a row/column grid.`,
		Version:       buildinfo.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			cmd.SetContext(withLogger(cmd.Context(), newLogger(os.Stderr, logLevel(verbose))))
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().IntVarP(&verbose, "verbose", "v", 1, "verbosity level (0, 1, or 2)")

	root.AddCommand(newBuildCmd(&verbose))
	root.AddCommand(newValidateCmd())
	root.AddCommand(newListCmd(&verbose))

	return root.ExecuteContext(ctx)
}

// logLevel maps renderer verbosity to a log level:
// 0 warnings only, 1 progress, 2 and above debug.
func logLevel(verbose int) charmlog.Level {
	switch {
	case verbose <= 0:
		return charmlog.WarnLevel
	case verbose == 1:
		return charmlog.InfoLevel
	default:
		return charmlog.DebugLevel
	}
}
