// Package observability provides formatted output utilities for verbose CLI mode.
package observability

import (
	"fmt"
	"io"
	"strings"

	"github.com/yaman1337/neo-data/internal/compile"
	"github.com/yaman1337/neo-data/internal/kernels"
)

const (
	// boxWidth is the default width for formatted output boxes
	boxWidth = 60
	// maxItemsToShow is the default number of items to display in lists
	maxItemsToShow = 5
)

// Printer handles formatted output for verbose mode
type Printer struct {
	out io.Writer
}

// NewPrinter creates a new Printer that writes to the given writer
func NewPrinter(out io.Writer) *Printer {
	return &Printer{out: out}
}

// printBox prints a formatted box with a title and content
//
//nolint:errcheck // writing to stdout; errors are not recoverable
func (p *Printer) printBox(title string, content string) {
	border := strings.Repeat("─", boxWidth-2)
	fmt.Fprintf(p.out, "┌%s┐\n", border)
	fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, title)
	fmt.Fprintf(p.out, "├%s┤\n", border)

	lines := strings.Split(content, "\n")
	for _, line := range lines {
		// Truncate long lines
		if len(line) > boxWidth-4 {
			line = line[:boxWidth-7] + "..."
		}
		fmt.Fprintf(p.out, "│ %-*s │\n", boxWidth-4, line)
	}

	fmt.Fprintf(p.out, "└%s┘\n", border)
}

// PrintCompileResult outputs a human-readable summary of a finished compile run.
func (p *Printer) PrintCompileResult(outputPath string, result *compile.Result) {
	if result == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Output:   %s\n", outputPath))
	sb.WriteString(fmt.Sprintf("Entries:  %d\n", result.Entries))
	sb.WriteString(fmt.Sprintf("Skipped:  %d\n", len(result.Skipped)))

	if len(result.Skipped) > 0 {
		sb.WriteString("\nSkipped identifiers:\n")
		count := min(len(result.Skipped), maxItemsToShow)
		for i := 0; i < count; i++ {
			sb.WriteString(fmt.Sprintf("  • %s\n", result.Skipped[i]))
		}
		if len(result.Skipped) > maxItemsToShow {
			sb.WriteString(fmt.Sprintf("  ... and %d more\n", len(result.Skipped)-maxItemsToShow))
		}
	}

	p.printBox("Compile Summary", strings.TrimRight(sb.String(), "\n"))
}

// PrintFetchReport outputs a summary of a kernel fetch run.
func (p *Printer) PrintFetchReport(dir string, report *kernels.FetchReport) {
	if report == nil {
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("Directory:  %s\n", dir))
	sb.WriteString(fmt.Sprintf("Downloaded: %d\n", len(report.Downloaded)))
	sb.WriteString(fmt.Sprintf("Present:    %d\n", len(report.Present)))

	for _, name := range report.Downloaded {
		sb.WriteString(fmt.Sprintf("  + %s\n", name))
	}
	for _, name := range report.Present {
		sb.WriteString(fmt.Sprintf("  = %s\n", name))
	}

	p.printBox("Kernel Fetch", strings.TrimRight(sb.String(), "\n"))
}
