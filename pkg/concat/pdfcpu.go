package concat

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
)

// PDFCPU concatenates pages by shelling out to the pdfcpu CLI.
// Requires pdfcpu on PATH:
//
//	macOS:  brew install pdfcpu
//	other:  go install github.com/pdfcpu/pdfcpu/cmd/pdfcpu@latest
type PDFCPU struct{}

// NewPDFCPU creates the default pdfcpu-backed concatenator.
func NewPDFCPU() *PDFCPU {
	return &PDFCPU{}
}

// Concat merges pages into output. With col == row == 1 it appends the pages
// in order ("pdfcpu merge"); otherwise it tiles them onto a col x row grid
// ("pdfcpu grid").
func (p *PDFCPU) Concat(ctx context.Context, pages []string, output string, col, row int) error {
	if len(pages) == 0 {
		return fmt.Errorf("no pages to concatenate")
	}
	if col < 1 || row < 1 {
		return fmt.Errorf("invalid grid %dx%d", col, row)
	}

	var args []string
	if col == 1 && row == 1 {
		args = append([]string{"merge", output}, pages...)
	} else {
		// pdfcpu grid takes rows then columns.
		args = append([]string{"grid", "--", output, fmt.Sprint(row), fmt.Sprint(col)}, pages...)
	}
	return runPDFCPU(ctx, args)
}

// runPDFCPU shells out to pdfcpu, surfacing stderr on failure.
func runPDFCPU(ctx context.Context, args []string) error {
	if _, err := exec.LookPath("pdfcpu"); err != nil {
		return fmt.Errorf("concatenation requires pdfcpu. Install with:\n  macOS:  brew install pdfcpu\n  other:  go install github.com/pdfcpu/pdfcpu/cmd/pdfcpu@latest")
	}

	cmd := exec.CommandContext(ctx, "pdfcpu", args...)
	var errBuf bytes.Buffer
	cmd.Stderr = &errBuf

	if err := cmd.Run(); err != nil {
		return fmt.Errorf("pdfcpu %s: %v: %s", args[0], err, errBuf.String())
	}
	return nil
}
