// Package report renders classification results for human consumption.
package report

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

var (
	fileStyle      = color.New(color.FgCyan, color.Bold)
	recordStyle    = color.New(color.FgYellow, color.Bold)
	generatedStyle = color.New(color.FgGreen, color.Bold)
	handStyle      = color.New(color.FgRed, color.Bold)
	noteStyle      = color.New(color.FgHiBlack)
)

// MemberVerdict is the classification of one member.
type MemberVerdict struct {
	Name      string `json:"name"`
	Kind      string `json:"kind"`
	Generated bool   `json:"generated"`
}

// RecordReport collects the verdicts for one record type.
type RecordReport struct {
	File       string          `json:"file"`
	Record     string          `json:"record"`
	OrderKnown bool            `json:"orderKnown"`
	Members    []MemberVerdict `json:"members"`
}

// Render formats one record report as a colored block.
func Render(r RecordReport) string {
	var builder strings.Builder

	builder.WriteString(fileStyle.Sprint(r.File))
	builder.WriteString(": ")
	builder.WriteString(recordStyle.Sprint(r.Record))
	builder.WriteString("\n")
	if !r.OrderKnown {
		builder.WriteString(noteStyle.Sprint("  member order unknown: order-dependent matchers disabled"))
		builder.WriteString("\n")
	}

	width := 0
	for _, m := range r.Members {
		if len(m.Name) > width {
			width = len(m.Name)
		}
	}
	for _, m := range r.Members {
		verdict := handStyle.Sprint("hand-written")
		if m.Generated {
			verdict = generatedStyle.Sprint("generated")
		}
		builder.WriteString(fmt.Sprintf("  %-*s  %-8s  %s\n", width, m.Name, m.Kind, verdict))
	}
	return builder.String()
}
