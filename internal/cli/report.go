package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/catkoreabeauty/shopcheck/internal/models"
)

// runReport is the JSON shape of a finished run
type runReport struct {
	ID         string         `json:"id"`
	Target     string         `json:"target"`
	Status     string         `json:"status"`
	Passed     bool           `json:"passed"`
	StartedAt  time.Time      `json:"started_at"`
	FinishedAt time.Time      `json:"finished_at"`
	DurationMS int64          `json:"duration_ms"`
	Results    []resultReport `json:"results"`
}

type resultReport struct {
	Name       string `json:"name"`
	Outcome    string `json:"outcome"`
	Message    string `json:"message,omitempty"`
	DurationMS int64  `json:"duration_ms"`
}

func newRunReport(run *models.Run) runReport {
	rep := runReport{
		ID:         run.ID,
		Target:     run.TargetURL,
		Status:     string(run.Status),
		Passed:     run.Passed(),
		StartedAt:  run.StartedAt,
		FinishedAt: run.FinishedAt,
		DurationMS: run.Duration().Milliseconds(),
		Results:    make([]resultReport, 0, len(run.Results)),
	}
	for _, r := range run.Results {
		rep.Results = append(rep.Results, resultReport{
			Name:       r.Name,
			Outcome:    string(r.Outcome),
			Message:    r.Message,
			DurationMS: r.Duration().Milliseconds(),
		})
	}
	return rep
}

// reportStyles are bound to the writer's renderer, so output to a pipe or
// file carries no escape codes.
type reportStyles struct {
	pass   lipgloss.Style
	fail   lipgloss.Style
	dim    lipgloss.Style
	header lipgloss.Style
}

func newReportStyles(w io.Writer) reportStyles {
	r := lipgloss.NewRenderer(w)
	return reportStyles{
		pass:   r.NewStyle().Foreground(lipgloss.Color("2")).Bold(true),
		fail:   r.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
		dim:    r.NewStyle().Foreground(lipgloss.Color("8")),
		header: r.NewStyle().Bold(true),
	}
}

// WriteReport prints run either as indented JSON or as a human summary
func WriteReport(w io.Writer, run *models.Run, asJSON bool) error {
	if asJSON {
		return writeJSON(w, newRunReport(run))
	}

	st := newReportStyles(w)
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", st.header.Render("Run "+run.ID), st.dim.Render(run.TargetURL))
	width := 0
	for _, r := range run.Results {
		width = max(width, len(r.Name))
	}
	for _, r := range run.Results {
		mark := st.pass.Render("PASS")
		if !r.Passed() {
			mark = st.fail.Render("FAIL")
		}
		fmt.Fprintf(&b, "  %s  %-*s  %s", mark, width, r.Name, st.dim.Render(r.Duration().Round(time.Millisecond).String()))
		if !r.Passed() {
			fmt.Fprintf(&b, "  %s: %s", r.Outcome, r.Message)
		}
		b.WriteString("\n")
	}

	counts := run.Counts()
	passed := counts[models.OutcomePassed]
	summary := fmt.Sprintf("%d passed, %d failed", passed, len(run.Results)-passed)
	if run.Status == models.RunStatusAborted {
		summary += " (aborted)"
	}
	style := st.pass
	if !run.Passed() {
		style = st.fail
	}
	fmt.Fprintf(&b, "%s in %s\n", style.Render(summary), run.Duration().Round(time.Millisecond))

	_, err := io.WriteString(w, b.String())
	return err
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
