// Package renderer defines the pluggable rendering capability and the
// three-tier resolution chain that finds a renderer for a figure type.
//
// A renderer turns one figure spec entry into a single-page PDF artifact.
// Resolution tries, in fixed priority order:
//
//  1. Explicit registration on a [Registry]
//  2. Renderers discovered from plugin .so files under one fixed namespace,
//     scanned lazily and memoized per [Resolver] instance
//  3. Dynamic addresses of the form "path/to/plugin.so:Symbol"
//
// The first hit wins; an explicitly registered renderer always shadows a
// same-named discovered or addressed one.
package renderer

import (
	"path/filepath"

	"github.com/paperfig/paperfig/pkg/spec"
)

// Renderer renders one figure spec entry into a single-page PDF.
//
// The mandatory side effect is writing the artifact to
// ArtifactPath(outDir, id) before returning; renderers learn the output
// directory at construction time. The returned value is opaque to the
// orchestrator and collected into the per-run results map.
type Renderer func(id string, fields *spec.Object, verbose int) (any, error)

// ArtifactPath returns the fixed path a renderer must write for the given
// figure id: <outDir>/fig<id>.pdf.
func ArtifactPath(outDir, id string) string {
	return filepath.Join(outDir, "fig"+id+".pdf")
}
