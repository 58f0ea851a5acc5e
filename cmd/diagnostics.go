package cmd

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/pable/go-league-stats/internal/inference"
	"github.com/pable/go-league-stats/internal/pipeline"
)

var (
	cHeader = color.New(color.FgCyan, color.Bold)
	cOK     = color.New(color.FgGreen)
	cWarn   = color.New(color.FgYellow)
	cError  = color.New(color.FgRed, color.Bold)
	cMuted  = color.New(color.Faint)
)

func kindColor(k pipeline.Kind) *color.Color {
	switch k {
	case pipeline.KindProcessed:
		return cOK
	case pipeline.KindDuplicate:
		return cMuted
	case pipeline.KindUndecodable:
		return cError
	default:
		return cWarn
	}
}

// printRunSummary prints the per-kind tallies of a batch run.
func printRunSummary(w io.Writer, rep *pipeline.Report) {
	cHeader.Fprintf(w, "\n=== Run %s ===\n\n", rep.RunID)
	for _, k := range pipeline.Kinds {
		n := rep.Counts[k]
		if n == 0 && k != pipeline.KindProcessed {
			continue
		}
		kindColor(k).Fprintf(w, "  %-17s %d\n", k, n)
	}
	fmt.Fprintln(w)
}

// printDiagnostics prints one line per diagnostic.
func printDiagnostics(w io.Writer, diags []pipeline.Diagnostic) {
	for _, d := range diags {
		kindColor(d.Kind).Fprintf(w, "%-17s", d.Kind)
		fmt.Fprintf(w, " %s: %s\n", d.File, d.Message)
	}
}

// printContradictionLines prints contradictions as operator warnings.
func printContradictionLines(w io.Writer, cs []inference.Contradiction) {
	for _, c := range cs {
		cError.Fprint(w, "contradiction ")
		fmt.Fprintln(w, c.String())
	}
}
