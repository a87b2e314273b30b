// Package concat defines the page-concatenation collaborator boundary.
//
// The composition engine hands ordered single-page PDF artifacts to a
// [Concatenator] to produce one combined document: pure linear multi-page
// concatenation when col and row are both 1, otherwise a col x row grid
// tiling of the pages onto a single composite page.
package concat

import "context"

// Concatenator merges ordered page files into one PDF.
type Concatenator interface {
	// Concat writes the combined document to output. Pages are placed in
	// order: appended as whole pages when col == row == 1, else tiled into
	// a grid with the given column and row counts.
	Concat(ctx context.Context, pages []string, output string, col, row int) error
}

// Func adapts a plain function to the Concatenator interface.
type Func func(ctx context.Context, pages []string, output string, col, row int) error

// Concat implements Concatenator.
func (f Func) Concat(ctx context.Context, pages []string, output string, col, row int) error {
	return f(ctx, pages, output, col, row)
}
