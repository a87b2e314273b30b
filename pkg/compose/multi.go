package compose

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/log"

	"github.com/paperfig/paperfig/pkg/errors"
	"github.com/paperfig/paperfig/pkg/renderer"
	"github.com/paperfig/paperfig/pkg/spec"
)

// buildMulti renders every child of a composite figure with the same
// simple-entry logic, then tiles the child artifacts into one page at
// fig<parent>.pdf using the parent's column/row grid.
//
// It returns its own results mapping rather than writing into shared state;
// the caller performs the merge. A "multi" child is not recursively expanded;
// validation rejects it up front.
func (e *Engine) buildMulti(ctx context.Context, fig *spec.Figure, opts Options, logger *log.Logger) (map[string]any, error) {
	parent := fig.ID()

	// row/column are type-checked here, at use time.
	row, col, err := fig.Grid()
	if err != nil {
		return nil, err
	}
	subs, err := fig.Subfigures()
	if err != nil {
		return nil, err
	}

	results := make(map[string]any, len(subs))
	pages := make([]string, 0, len(subs))

	for _, sub := range subs {
		id := sub.ID()
		typ, ok := sub.Type()
		if !ok {
			return nil, errors.New(errors.ErrCodeValidation, parent, "sub-figure %q must have a string %q field", id, spec.FieldType)
		}

		ren, err := e.resolve(id, typ)
		if err != nil {
			return nil, err
		}

		logger.Info("rendering sub-figure", "id", id, "parent", parent, "type", typ)
		res, err := ren(id, sub.Fields(), opts.Verbose)
		if err != nil {
			return nil, fmt.Errorf("render sub-figure %q of %q: %w", id, parent, err)
		}

		page := renderer.ArtifactPath(opts.OutDir, id)
		if _, err := os.Stat(page); err != nil {
			return nil, errors.New(errors.ErrCodeMissingArtifact, id, "sub-figure renderer completed but expected file not found: %s", page)
		}
		results[id] = res
		pages = append(pages, page)
	}

	output := renderer.ArtifactPath(opts.OutDir, parent)
	logger.Debug("composing grid", "parent", parent, "pages", len(pages), "grid", fmt.Sprintf("%dx%d", col, row))
	if err := e.concat.Concat(ctx, pages, output, col, row); err != nil {
		return nil, errors.Wrap(errors.ErrCodeConcat, parent, err, "grid composition failed")
	}

	return results, nil
}
