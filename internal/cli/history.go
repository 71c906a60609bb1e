package cli

import (
	"fmt"
	"io"
	"text/tabwriter"
	"time"

	"github.com/catkoreabeauty/shopcheck/internal/models"
)

// RunHistory reads recorded runs
type RunHistory interface {
	ListRuns(limit int) ([]*models.Run, error)
	GetRun(id string) (*models.Run, error)
}

// WriteHistory lists the latest runs, newest first. When id is set the full
// report of that single run is printed instead.
func WriteHistory(w io.Writer, history RunHistory, id string, limit int, asJSON bool) error {
	if id != "" {
		run, err := history.GetRun(id)
		if err != nil {
			return err
		}
		return WriteReport(w, run, asJSON)
	}

	if limit <= 0 {
		limit = 20
	}
	runs, err := history.ListRuns(limit)
	if err != nil {
		return err
	}

	if asJSON {
		reports := make([]runReport, 0, len(runs))
		for _, run := range runs {
			reports = append(reports, newRunReport(run))
		}
		return writeJSON(w, reports)
	}

	if len(runs) == 0 {
		_, err := fmt.Fprintln(w, "No runs recorded.")
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tSTATUS\tSTARTED\tDURATION\tTARGET")
	for _, run := range runs {
		duration := "-"
		if run.IsFinished() {
			duration = run.Duration().Round(time.Millisecond).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			run.ID, run.Status, run.StartedAt.Format(time.RFC3339), duration, run.TargetURL)
	}
	return tw.Flush()
}
