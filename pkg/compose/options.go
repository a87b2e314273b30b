// Package compose implements the composition engine: it walks a validated
// spec tree in entry order, dispatches each figure to its resolved renderer,
// recurses into composite "multi" entries, and hands the ordered page
// artifacts to the concatenation collaborator.
//
// Execution is single-threaded and fully synchronous. Renderer calls are
// opaque blocking operations with no timeout; the engine aborts the whole
// build on the first error and finalizes no partial output.
package compose

import (
	"time"

	"github.com/charmbracelet/log"
)

// Default output locations, matching the spec file conventions.
const (
	// DefaultOutDir is the directory receiving fig<id>.pdf artifacts.
	DefaultOutDir = "fig"

	// DefaultOutput is the final deliverable filename inside OutDir.
	DefaultOutput = "figures.pdf"
)

// Options configures one build run.
type Options struct {
	// OutDir is the output directory for per-figure artifacts and the final
	// deliverable. Created idempotently before the first render.
	OutDir string

	// Output is the final deliverable filename inside OutDir.
	Output string

	// Verbose is the verbosity level passed through to renderers
	// (0 warnings, 1 info, 2 debug).
	Verbose int

	// Target restricts the build to a single top-level figure id.
	// In target mode no final concatenation happens.
	Target string

	// Logger receives build progress. Defaults to the engine's logger.
	Logger *log.Logger
}

// setDefaults applies default values for unset fields.
func (o *Options) setDefaults() {
	if o.OutDir == "" {
		o.OutDir = DefaultOutDir
	}
	if o.Output == "" {
		o.Output = DefaultOutput
	}
}

// Stats contains build timing information.
type Stats struct {
	RenderTime time.Duration
	ConcatTime time.Duration
}

// Result contains the outputs of one build run.
// It is built fresh on every execution and never persisted.
type Result struct {
	// RunID identifies this run in logs.
	RunID string

	// Results maps figure ids, flattened across nesting levels, to the
	// opaque values their renderers returned. Id collisions across scopes
	// silently overwrite.
	Results map[string]any

	// Pages lists the ordered page artifacts produced at the top level.
	Pages []string

	// Output is the final deliverable path, empty in target mode.
	Output string

	// Stats contains timing information.
	Stats Stats
}
