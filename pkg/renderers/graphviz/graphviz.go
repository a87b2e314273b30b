// Package graphviz provides the built-in renderer for "graph" figures.
//
// A graph figure carries Graphviz DOT source in its "dot" field; the renderer
// lays it out, rasterizes it to SVG, and converts the SVG to the single-page
// PDF artifact the renderer contract requires.
package graphviz

import (
	"bytes"
	"context"
	"fmt"
	"os"

	gv "github.com/goccy/go-graphviz"

	"github.com/paperfig/paperfig/pkg/renderer"
	"github.com/paperfig/paperfig/pkg/spec"
)

// Type is the figure type name this renderer serves.
const Type = "graph"

// fieldDOT holds the Graphviz DOT source of a graph figure.
const fieldDOT = "dot"

// New returns a renderer that writes DOT-described graphs as single-page
// PDFs into outDir, honoring the fig<id>.pdf artifact contract.
func New(outDir string) renderer.Renderer {
	return func(id string, fields *spec.Object, verbose int) (any, error) {
		dot, ok := fields.String(fieldDOT)
		if !ok {
			return nil, fmt.Errorf("%q renderer requires a string %q field", Type, fieldDOT)
		}

		svg, err := renderSVG(dot)
		if err != nil {
			return nil, fmt.Errorf("render graph: %w", err)
		}
		pdf, err := svgToPDF(svg)
		if err != nil {
			return nil, fmt.Errorf("convert graph to PDF: %w", err)
		}

		path := renderer.ArtifactPath(outDir, id)
		if err := os.WriteFile(path, pdf, 0o644); err != nil {
			return nil, fmt.Errorf("write artifact %s: %w", path, err)
		}
		return map[string]any{"artifact": path, "bytes": len(pdf)}, nil
	}
}

// renderSVG lays out DOT source and renders it to SVG using Graphviz.
func renderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	g, err := gv.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer g.Close()

	graph, err := gv.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer graph.Close()

	var buf bytes.Buffer
	if err := g.Render(ctx, graph, gv.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
