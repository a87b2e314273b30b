package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/paperfig/paperfig/pkg/spec"
)

// listOpts holds the command-line flags for the list command.
type listOpts struct {
	interactive bool   // pick a figure interactively and build it
	outdir      string // output directory for the triggered build
}

// newListCmd creates the list command: print the figures a spec declares.
// With --interactive, a picker lets the user select one figure and build it
// as a single target.
func newListCmd(verbose *int) *cobra.Command {
	var opts listOpts

	cmd := &cobra.Command{
		Use:   "list <spec-file>",
		Short: "List figures in a JSON spec",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd.Context(), args[0], opts, *verbose)
		},
	}

	cmd.Flags().BoolVarP(&opts.interactive, "interactive", "i", false, "pick a figure and build it")
	cmd.Flags().StringVarP(&opts.outdir, "outdir", "d", "fig", "output directory for interactive builds")

	return cmd
}

func runList(ctx context.Context, path string, opts listOpts, verbose int) error {
	tree, err := spec.Load(path)
	if err != nil {
		return err
	}

	items := collectItems(tree)

	if opts.interactive {
		selected, err := pickFigure(items)
		if err != nil {
			return err
		}
		if selected == nil {
			return nil // user quit without selecting
		}
		return runBuild(ctx, path, buildOpts{outdir: opts.outdir, target: selected.ID}, verbose)
	}

	for _, item := range items {
		line := styleFigureID.Render(item.ID) + "\t" + styleFigureType.Render(item.Type)
		if item.Children > 0 {
			line += " " + StyleDim.Render(fmt.Sprintf("(%d sub-figures)", item.Children))
		}
		fmt.Println(line)
	}
	return nil
}

// collectItems flattens the top-level entries into picker rows.
// Entries with a broken shape still show up, with an empty type; validate
// reports them properly.
func collectItems(tree *spec.Tree) []figureItem {
	items := make([]figureItem, 0, tree.Len())
	for _, fig := range tree.Figures() {
		item := figureItem{ID: fig.ID()}
		item.Type, _ = fig.Type()
		if fig.IsMulti() {
			if subs, err := fig.Subfigures(); err == nil {
				item.Children = len(subs)
			}
		}
		items = append(items, item)
	}
	return items
}
