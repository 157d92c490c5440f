package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/qabench/internal/core/domain"
)

// Colour palette of the run summary.
var (
	colourPrimary = lipgloss.Color("#7C3AED") // Purple
	colourMuted   = lipgloss.Color("#6C7086") // Medium gray
	colourSuccess = lipgloss.Color("#A6E3A1") // Green
	colourWarning = lipgloss.Color("#F9E2AF") // Yellow
	colourBorder  = lipgloss.Color("#45475A") // Border gray
)

// summaryStyles holds the lipgloss styles of the run summary.
type summaryStyles struct {
	title   lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	warning lipgloss.Style
	box     lipgloss.Style
}

func newSummaryStyles() summaryStyles {
	return summaryStyles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(colourPrimary),
		label:   lipgloss.NewStyle().Foreground(colourMuted).Width(22),
		value:   lipgloss.NewStyle().Foreground(colourSuccess),
		warning: lipgloss.NewStyle().Foreground(colourWarning),
		box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colourBorder).
			Padding(0, 1),
	}
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderSummary prints aggregate statistics of a run, styled on terminals.
func renderSummary(w io.Writer, results *domain.RunResults, styled bool) {
	s := results.Summarise()

	rows := [][2]string{
		{"Run", results.RunID()},
		{"Books", fmt.Sprintf("%d", s.Books)},
		{"Documents", fmt.Sprintf("%d", s.Documents)},
		{"Questions", fmt.Sprintf("%d", s.Questions)},
		{"Answered", fmt.Sprintf("%d", s.Answered)},
		{"Avg set up time", fmt.Sprintf("%.3fs", s.AvgIndexSeconds)},
		{"Avg answer time", fmt.Sprintf("%.3fs", s.AvgAnswerSeconds)},
		{"Avg probability", fmt.Sprintf("%.3f", s.AvgProbability)},
	}
	location := results.Location()
	if location != "" {
		rows = append(rows, [2]string{"Results", location})
	}

	if !styled {
		fmt.Fprintln(w, "Benchmark summary")
		for _, r := range rows {
			fmt.Fprintf(w, "  %-18s %s\n", r[0]+":", r[1])
		}
		if s.EmptyBooks > 0 {
			fmt.Fprintf(w, "  %d book(s) had an empty corpus\n", s.EmptyBooks)
		}
		return
	}

	st := newSummaryStyles()
	var b strings.Builder
	b.WriteString(st.title.Render("Benchmark summary"))
	for _, r := range rows {
		b.WriteString("\n" + st.label.Render(r[0]) + st.value.Render(r[1]))
	}
	if s.EmptyBooks > 0 {
		b.WriteString("\n" + st.warning.Render(fmt.Sprintf("%d book(s) had an empty corpus", s.EmptyBooks)))
	}
	fmt.Fprintln(w, st.box.Render(b.String()))
}
