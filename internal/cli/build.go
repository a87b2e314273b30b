package cli

import (
	"context"
	"fmt"
	"time"

	charmlog "github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/paperfig/paperfig/pkg/compose"
	"github.com/paperfig/paperfig/pkg/concat"
	"github.com/paperfig/paperfig/pkg/renderer"
	"github.com/paperfig/paperfig/pkg/renderers/graphviz"
	"github.com/paperfig/paperfig/pkg/spec"
)

// buildOpts holds the command-line flags for the build command.
type buildOpts struct {
	output string // final deliverable filename inside outdir
	outdir string // output directory for artifacts
	target string // single figure id; empty builds everything
}

// newBuildCmd creates the build command: render every figure in the spec (or
// one target id) and concatenate the pages into the deliverable.
func newBuildCmd(verbose *int) *cobra.Command {
	opts := buildOpts{
		output: compose.DefaultOutput,
		outdir: compose.DefaultOutDir,
	}

	cmd := &cobra.Command{
		Use:   "build <spec-file>",
		Short: "Build figures from a JSON spec and concatenate them into one PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			applyConfig(cmd, &opts)
			return runBuild(cmd.Context(), args[0], opts, *verbose)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output PDF filename")
	cmd.Flags().StringVarP(&opts.outdir, "outdir", "d", opts.outdir, "output directory")
	cmd.Flags().StringVarP(&opts.target, "target", "t", "", "build a single figure id (skips concatenation)")

	return cmd
}

// applyConfig fills flag defaults from the optional TOML config file.
// Explicitly set flags win.
func applyConfig(cmd *cobra.Command, opts *buildOpts) {
	cfg, err := loadConfig()
	if err != nil {
		printWarning("ignoring config file: %v", err)
		return
	}
	if cfg.OutDir != "" && !cmd.Flags().Changed("outdir") {
		opts.outdir = cfg.OutDir
	}
	if cfg.Output != "" && !cmd.Flags().Changed("output") {
		opts.output = cfg.Output
	}
}

// runBuild loads and validates the spec, then executes the build.
func runBuild(ctx context.Context, path string, opts buildOpts, verbose int) error {
	logger := loggerFromContext(ctx)

	tree, err := spec.Load(path)
	if err != nil {
		return err
	}
	if err := tree.Validate(); err != nil {
		return err
	}

	engine := newEngine(opts.outdir, logger)

	// In quiet mode the log lines are suppressed, so show a spinner instead.
	if verbose <= 0 {
		sp := newSpinnerWithContext(ctx, "building figures")
		sp.Start()
		defer sp.Stop()
	}

	track := newProgress(logger)
	result, err := engine.Build(ctx, tree, compose.Options{
		OutDir:  opts.outdir,
		Output:  opts.output,
		Verbose: verbose,
		Target:  opts.target,
		Logger:  logger,
	})
	if err != nil {
		return err
	}
	track.done(fmt.Sprintf("rendered %d pages", len(result.Pages)))

	if opts.target != "" {
		if len(result.Pages) == 0 {
			printWarning("no figure matched target %q", opts.target)
			return nil
		}
		printSuccess("built figure %s", opts.target)
		printFile(renderer.ArtifactPath(opts.outdir, opts.target))
		return nil
	}

	printSuccess("built %d figures", len(result.Results))
	printFile(result.Output)
	printDetail("render %s · concat %s", result.Stats.RenderTime.Round(time.Millisecond), result.Stats.ConcatTime.Round(time.Millisecond))
	return nil
}

// newEngine wires the composition engine with the built-in renderers and the
// configured plugin namespace.
func newEngine(outDir string, logger *charmlog.Logger) *compose.Engine {
	registry := renderer.NewRegistry()
	registry.Register(graphviz.Type, graphviz.New(outDir))

	var ropts []renderer.ResolverOption
	if cfg, err := loadConfig(); err == nil && cfg.PluginDir != "" {
		dir := cfg.PluginDir
		ropts = append(ropts, renderer.WithDiscovery(func() map[string]renderer.Renderer {
			return renderer.DiscoverPlugins(dir)
		}))
	}

	resolver := renderer.NewResolver(registry, ropts...)
	return compose.New(resolver, concat.NewPDFCPU(), logger)
}
