package compose

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/paperfig/paperfig/pkg/concat"
	"github.com/paperfig/paperfig/pkg/errors"
	"github.com/paperfig/paperfig/pkg/renderer"
	"github.com/paperfig/paperfig/pkg/spec"
)

// Engine orchestrates one build: resolve → render → verify artifact →
// (multi: recurse and merge) → concatenate.
//
// The Engine is stateless across builds; per-run state lives in [Result].
// Correctness rests on sequential ordering: every renderer and the engine
// write into the shared fig<id>.pdf namespace of the output directory.
type Engine struct {
	resolver *renderer.Resolver
	concat   concat.Concatenator
	logger   *log.Logger
}

// New creates an engine. A nil resolver gets an empty registry, a nil
// concatenator falls back to the pdfcpu CLI, and a nil logger falls back to
// log.Default.
func New(resolver *renderer.Resolver, cat concat.Concatenator, logger *log.Logger) *Engine {
	if resolver == nil {
		resolver = renderer.NewResolver(nil)
	}
	if cat == nil {
		cat = concat.NewPDFCPU()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{resolver: resolver, concat: cat, logger: logger}
}

// Resolver returns the engine's renderer resolver, exposing its registry for
// explicit registrations.
func (e *Engine) Resolver() *renderer.Resolver {
	return e.resolver
}

// Build executes the spec tree in entry order and produces the deliverable.
//
// With opts.Target set, only that top-level id is rendered and no
// concatenation happens. Otherwise every entry is rendered, the ordered page
// list is concatenated linearly (col=1, row=1) into OutDir/Output, and an
// empty page list fails with EMPTY_OUTPUT.
func (e *Engine) Build(ctx context.Context, tree *spec.Tree, opts Options) (*Result, error) {
	opts.setDefaults()
	logger := opts.Logger
	if logger == nil {
		logger = e.logger
	}

	if err := os.MkdirAll(opts.OutDir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeIO, "", err, "cannot create output directory %s", opts.OutDir)
	}

	result := &Result{
		RunID:   uuid.NewString(),
		Results: make(map[string]any),
	}
	logger.Debug("starting build", "run", result.RunID, "figures", tree.Len(), "outdir", opts.OutDir)

	renderStart := time.Now()
	for _, id := range tree.IDs() {
		if opts.Target != "" && opts.Target != id {
			continue
		}
		fig, ok := tree.Figure(id)
		if !ok {
			return nil, errors.New(errors.ErrCodeValidation, id, "spec must be an object")
		}
		typ, ok := fig.Type()
		if !ok {
			return nil, errors.New(errors.ErrCodeValidation, id, "must have a string %q field", spec.FieldType)
		}

		if typ == spec.TypeMulti {
			subResults, err := e.buildMulti(ctx, fig, opts, logger)
			if err != nil {
				return nil, err
			}
			// Flat union: a child id equal to any other id silently wins.
			for k, v := range subResults {
				result.Results[k] = v
			}
			page := renderer.ArtifactPath(opts.OutDir, id)
			if _, err := os.Stat(page); err != nil {
				return nil, errors.New(errors.ErrCodeMissingArtifact, id, "composite page not produced: %s", page)
			}
			result.Pages = append(result.Pages, page)
			continue
		}

		page, res, err := e.renderOne(fig, typ, opts, logger)
		if err != nil {
			return nil, err
		}
		result.Results[id] = res
		result.Pages = append(result.Pages, page)
	}
	result.Stats.RenderTime = time.Since(renderStart)

	if opts.Target != "" {
		logger.Info("finished single-target build", "id", opts.Target, "pages", len(result.Pages))
		return result, nil
	}

	if len(result.Pages) == 0 {
		return nil, errors.New(errors.ErrCodeEmptyOutput, "", "no figures were produced; nothing to concatenate")
	}

	out := filepath.Join(opts.OutDir, opts.Output)
	logger.Info("concatenating pages", "count", len(result.Pages), "output", out)

	concatStart := time.Now()
	if err := e.concat.Concat(ctx, result.Pages, out, 1, 1); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConcat, "", err, "concatenation failed")
	}
	result.Stats.ConcatTime = time.Since(concatStart)
	result.Output = out

	logger.Info("finished build", "output", out, "duration", result.Stats.RenderTime+result.Stats.ConcatTime)
	return result, nil
}

// renderOne resolves and invokes the renderer for a simple figure entry and
// verifies the artifact contract.
func (e *Engine) renderOne(fig *spec.Figure, typ string, opts Options, logger *log.Logger) (page string, res any, err error) {
	id := fig.ID()

	ren, err := e.resolve(id, typ)
	if err != nil {
		return "", nil, err
	}

	logger.Info("rendering figure", "id", id, "type", typ)
	res, err = ren(id, fig.Fields(), opts.Verbose)
	if err != nil {
		return "", nil, fmt.Errorf("render figure %q: %w", id, err)
	}

	page = renderer.ArtifactPath(opts.OutDir, id)
	if _, err := os.Stat(page); err != nil {
		return "", nil, errors.New(errors.ErrCodeMissingArtifact, id, "renderer completed but expected file not found: %s", page)
	}
	return page, res, nil
}

// resolve runs the resolution chain, scoping failures to the figure id.
func (e *Engine) resolve(id, typ string) (renderer.Renderer, error) {
	ren, ok, err := e.resolver.Resolve(typ)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeResolution, id, err, "cannot resolve renderer for type %q", typ)
	}
	if !ok {
		return nil, errors.New(errors.ErrCodeResolution, id, "type %q not defined or resolvable", typ)
	}
	return ren, nil
}
