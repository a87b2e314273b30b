package compose

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/paperfig/paperfig/pkg/concat"
	"github.com/paperfig/paperfig/pkg/errors"
	"github.com/paperfig/paperfig/pkg/renderer"
	"github.com/paperfig/paperfig/pkg/spec"
)

// exampleSpec mirrors the canonical two-entry spec: one simple figure and one
// composite with two children on a 1x2 grid.
const exampleSpec = `{
  "1": {"type": "graph", "dot": "digraph { a -> b }"},
  "2": {
    "type": "multi",
    "figures": {
      "2a": {"type": "graph", "dot": "digraph { c }"},
      "2b": {"type": "graph", "dot": "digraph { d }"}
    },
    "row": 1,
    "column": 2
  }
}`

// pageRenderer fulfills the artifact contract: it writes fig<id>.pdf into
// outDir and records the invocation order.
func pageRenderer(t *testing.T, outDir string, order *[]string) renderer.Renderer {
	t.Helper()
	return func(id string, fields *spec.Object, verbose int) (any, error) {
		if order != nil {
			*order = append(*order, id)
		}
		path := renderer.ArtifactPath(outDir, id)
		if err := os.WriteFile(path, []byte("%PDF-1.4\n"), 0o644); err != nil {
			return nil, err
		}
		return map[string]any{"rendered": id}, nil
	}
}

// fakeConcat records calls and writes the output file so the engine's
// post-composition artifact check passes.
type fakeConcat struct {
	calls []concatCall
	err   error
}

type concatCall struct {
	pages  []string
	output string
	col    int
	row    int
}

func (f *fakeConcat) Concat(ctx context.Context, pages []string, output string, col, row int) error {
	f.calls = append(f.calls, concatCall{pages: pages, output: output, col: col, row: row})
	if f.err != nil {
		return f.err
	}
	return os.WriteFile(output, []byte("%PDF-1.4\n"), 0o644)
}

func parseTree(t *testing.T, input string) *spec.Tree {
	t.Helper()
	tree, err := spec.Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return tree
}

func newTestEngine(t *testing.T, outDir string, cat concat.Concatenator, order *[]string) *Engine {
	t.Helper()
	reg := renderer.NewRegistry()
	reg.Register("graph", pageRenderer(t, outDir, order))
	resolver := renderer.NewResolver(reg, renderer.WithDiscovery(func() map[string]renderer.Renderer {
		return nil
	}))
	return New(resolver, cat, nil)
}

func TestBuildFull(t *testing.T) {
	outDir := t.TempDir()
	cat := &fakeConcat{}
	var order []string
	engine := newTestEngine(t, outDir, cat, &order)

	result, err := engine.Build(context.Background(), parseTree(t, exampleSpec), Options{OutDir: outDir})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	// Renderers ran in spec order, children in their declared order.
	if diff := cmp.Diff([]string{"1", "2a", "2b"}, order); diff != "" {
		t.Errorf("render order mismatch (-want +got):\n%s", diff)
	}

	// Every per-figure artifact exists, composite included.
	for _, id := range []string{"1", "2a", "2b", "2"} {
		if _, err := os.Stat(renderer.ArtifactPath(outDir, id)); err != nil {
			t.Errorf("artifact fig%s.pdf missing: %v", id, err)
		}
	}

	// Results hold renderer values for every rendered figure, flattened. The
	// composite parent itself produces no renderer value.
	for _, id := range []string{"1", "2a", "2b"} {
		if _, ok := result.Results[id]; !ok {
			t.Errorf("Results missing id %q", id)
		}
	}
	if _, ok := result.Results["2"]; ok {
		t.Error("Results contains composite parent id 2")
	}

	// Two calls: the 1x2 grid for figure 2, then the linear final merge.
	if len(cat.calls) != 2 {
		t.Fatalf("concat calls = %d, want 2", len(cat.calls))
	}
	grid := cat.calls[0]
	if grid.col != 2 || grid.row != 1 {
		t.Errorf("grid call = %dx%d (col x row), want 2x1", grid.col, grid.row)
	}
	wantGridPages := []string{
		renderer.ArtifactPath(outDir, "2a"),
		renderer.ArtifactPath(outDir, "2b"),
	}
	if diff := cmp.Diff(wantGridPages, grid.pages); diff != "" {
		t.Errorf("grid pages mismatch (-want +got):\n%s", diff)
	}

	final := cat.calls[1]
	if final.col != 1 || final.row != 1 {
		t.Errorf("final call = %dx%d (col x row), want 1x1", final.col, final.row)
	}
	wantPages := []string{
		renderer.ArtifactPath(outDir, "1"),
		renderer.ArtifactPath(outDir, "2"),
	}
	if diff := cmp.Diff(wantPages, final.pages); diff != "" {
		t.Errorf("final pages mismatch (-want +got):\n%s", diff)
	}

	wantOutput := filepath.Join(outDir, DefaultOutput)
	if final.output != wantOutput {
		t.Errorf("final output = %q, want %q", final.output, wantOutput)
	}
	if result.Output != wantOutput {
		t.Errorf("Result.Output = %q, want %q", result.Output, wantOutput)
	}
	if result.RunID == "" {
		t.Error("Result.RunID is empty")
	}
}

func TestBuildTarget(t *testing.T) {
	outDir := t.TempDir()
	cat := &fakeConcat{}
	var order []string
	engine := newTestEngine(t, outDir, cat, &order)

	result, err := engine.Build(context.Background(), parseTree(t, exampleSpec), Options{
		OutDir: outDir,
		Target: "1",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if diff := cmp.Diff([]string{"1"}, order); diff != "" {
		t.Errorf("render order mismatch (-want +got):\n%s", diff)
	}
	if len(cat.calls) != 0 {
		t.Errorf("concat calls = %d, want 0 in target mode", len(cat.calls))
	}
	if result.Output != "" {
		t.Errorf("Result.Output = %q, want empty in target mode", result.Output)
	}
}

func TestBuildTargetMulti(t *testing.T) {
	// Targeting a composite still renders its children and composes the grid,
	// but skips the final merge.
	outDir := t.TempDir()
	cat := &fakeConcat{}
	var order []string
	engine := newTestEngine(t, outDir, cat, &order)

	_, err := engine.Build(context.Background(), parseTree(t, exampleSpec), Options{
		OutDir: outDir,
		Target: "2",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}

	if diff := cmp.Diff([]string{"2a", "2b"}, order); diff != "" {
		t.Errorf("render order mismatch (-want +got):\n%s", diff)
	}
	if len(cat.calls) != 1 {
		t.Fatalf("concat calls = %d, want 1 (grid only)", len(cat.calls))
	}
	if got := cat.calls[0].output; got != renderer.ArtifactPath(outDir, "2") {
		t.Errorf("grid output = %q, want %q", got, renderer.ArtifactPath(outDir, "2"))
	}
}

func TestBuildTargetNoMatch(t *testing.T) {
	// A target matching no entry renders nothing; the engine leaves reporting
	// to the caller instead of failing.
	outDir := t.TempDir()
	cat := &fakeConcat{}
	engine := newTestEngine(t, outDir, cat, nil)

	result, err := engine.Build(context.Background(), parseTree(t, exampleSpec), Options{
		OutDir: outDir,
		Target: "99",
	})
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if len(result.Pages) != 0 {
		t.Errorf("Pages = %v, want empty", result.Pages)
	}
	if len(cat.calls) != 0 {
		t.Errorf("concat calls = %d, want 0", len(cat.calls))
	}
}

func TestBuildEmptySpec(t *testing.T) {
	outDir := t.TempDir()
	cat := &fakeConcat{}
	engine := newTestEngine(t, outDir, cat, nil)

	_, err := engine.Build(context.Background(), parseTree(t, `{}`), Options{OutDir: outDir})
	if !errors.Is(err, errors.ErrCodeEmptyOutput) {
		t.Errorf("Build() error = %v, want code %v", err, errors.ErrCodeEmptyOutput)
	}
	if len(cat.calls) != 0 {
		t.Errorf("concat calls = %d, want 0", len(cat.calls))
	}
}

func TestBuildUnresolvableType(t *testing.T) {
	outDir := t.TempDir()
	cat := &fakeConcat{}
	engine := newTestEngine(t, outDir, cat, nil)

	input := `{"1": {"type": "nonexistent"}}`
	_, err := engine.Build(context.Background(), parseTree(t, input), Options{OutDir: outDir})
	if !errors.Is(err, errors.ErrCodeResolution) {
		t.Fatalf("Build() error = %v, want code %v", err, errors.ErrCodeResolution)
	}
	if got := errors.FigureID(err); got != "1" {
		t.Errorf("FigureID() = %q, want 1", got)
	}
	if !strings.Contains(err.Error(), "nonexistent") {
		t.Errorf("error %q does not name the type", err)
	}
}

func TestBuildMissingArtifact(t *testing.T) {
	// A renderer that returns success without writing its artifact must fail
	// the build before any concatenation attempt.
	outDir := t.TempDir()
	cat := &fakeConcat{}

	reg := renderer.NewRegistry()
	reg.Register("graph", func(id string, fields *spec.Object, verbose int) (any, error) {
		return "ok", nil
	})
	resolver := renderer.NewResolver(reg, renderer.WithDiscovery(func() map[string]renderer.Renderer {
		return nil
	}))
	engine := New(resolver, cat, nil)

	_, err := engine.Build(context.Background(), parseTree(t, exampleSpec), Options{OutDir: outDir})
	if !errors.Is(err, errors.ErrCodeMissingArtifact) {
		t.Fatalf("Build() error = %v, want code %v", err, errors.ErrCodeMissingArtifact)
	}
	if got := errors.FigureID(err); got != "1" {
		t.Errorf("FigureID() = %q, want 1", got)
	}
	if len(cat.calls) != 0 {
		t.Errorf("concat calls = %d, want 0 after missing artifact", len(cat.calls))
	}
}

func TestBuildRendererError(t *testing.T) {
	outDir := t.TempDir()
	cat := &fakeConcat{}

	rendererErr := stderrors.New("dot syntax error")
	reg := renderer.NewRegistry()
	reg.Register("graph", func(id string, fields *spec.Object, verbose int) (any, error) {
		return nil, rendererErr
	})
	resolver := renderer.NewResolver(reg, renderer.WithDiscovery(func() map[string]renderer.Renderer {
		return nil
	}))
	engine := New(resolver, cat, nil)

	input := `{"1": {"type": "graph"}}`
	_, err := engine.Build(context.Background(), parseTree(t, input), Options{OutDir: outDir})
	if !stderrors.Is(err, rendererErr) {
		t.Errorf("Build() error = %v, want wrapped %v", err, rendererErr)
	}
	if len(cat.calls) != 0 {
		t.Errorf("concat calls = %d, want 0 after renderer failure", len(cat.calls))
	}
}

func TestBuildConcatFailure(t *testing.T) {
	outDir := t.TempDir()
	cat := &fakeConcat{err: stderrors.New("merge failed")}
	engine := newTestEngine(t, outDir, cat, nil)

	input := `{"1": {"type": "graph"}}`
	_, err := engine.Build(context.Background(), parseTree(t, input), Options{OutDir: outDir})
	if !errors.Is(err, errors.ErrCodeConcat) {
		t.Errorf("Build() error = %v, want code %v", err, errors.ErrCodeConcat)
	}
}

func TestBuildGridConcatFailureNamesParent(t *testing.T) {
	outDir := t.TempDir()
	cat := &fakeConcat{err: stderrors.New("grid failed")}
	engine := newTestEngine(t, outDir, cat, nil)

	input := `{"2": {"type": "multi", "figures": {"2a": {"type": "graph"}}, "row": 1, "column": 1}}`
	_, err := engine.Build(context.Background(), parseTree(t, input), Options{OutDir: outDir})
	if !errors.Is(err, errors.ErrCodeConcat) {
		t.Fatalf("Build() error = %v, want code %v", err, errors.ErrCodeConcat)
	}
	if got := errors.FigureID(err); got != "2" {
		t.Errorf("FigureID() = %q, want 2", got)
	}
}

func TestBuildSubfigureMissingType(t *testing.T) {
	outDir := t.TempDir()
	engine := newTestEngine(t, outDir, &fakeConcat{}, nil)

	input := `{"2": {"type": "multi", "figures": {"2a": {"dot": "x"}}, "row": 1, "column": 1}}`
	_, err := engine.Build(context.Background(), parseTree(t, input), Options{OutDir: outDir})
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Fatalf("Build() error = %v, want code %v", err, errors.ErrCodeValidation)
	}
	if got := errors.FigureID(err); got != "2" {
		t.Errorf("FigureID() = %q, want 2", got)
	}
}

func TestBuildNonIntegerGrid(t *testing.T) {
	outDir := t.TempDir()
	engine := newTestEngine(t, outDir, &fakeConcat{}, nil)

	input := `{"2": {"type": "multi", "figures": {"2a": {"type": "graph"}}, "row": "one", "column": 1}}`
	_, err := engine.Build(context.Background(), parseTree(t, input), Options{OutDir: outDir})
	if !errors.Is(err, errors.ErrCodeValidation) {
		t.Errorf("Build() error = %v, want code %v", err, errors.ErrCodeValidation)
	}
}

func TestBuildCreatesOutDir(t *testing.T) {
	base := t.TempDir()
	outDir := filepath.Join(base, "nested", "fig")
	cat := &fakeConcat{}
	engine := newTestEngine(t, outDir, cat, nil)

	input := `{"1": {"type": "graph"}}`
	if _, err := engine.Build(context.Background(), parseTree(t, input), Options{OutDir: outDir}); err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if _, err := os.Stat(outDir); err != nil {
		t.Errorf("output directory not created: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	var opts Options
	opts.setDefaults()

	if opts.OutDir != DefaultOutDir {
		t.Errorf("OutDir = %q, want %q", opts.OutDir, DefaultOutDir)
	}
	if opts.Output != DefaultOutput {
		t.Errorf("Output = %q, want %q", opts.Output, DefaultOutput)
	}

	// Explicit values survive.
	opts = Options{OutDir: "out", Output: "doc.pdf"}
	opts.setDefaults()
	if opts.OutDir != "out" || opts.Output != "doc.pdf" {
		t.Errorf("setDefaults() overwrote explicit values: %+v", opts)
	}
}

func TestNewNilCollaborators(t *testing.T) {
	engine := New(nil, concat.Func(func(ctx context.Context, pages []string, output string, col, row int) error {
		return nil
	}), nil)
	if engine.Resolver() == nil {
		t.Error("Resolver() = nil")
	}
}
