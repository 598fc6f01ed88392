package export

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/jimezsa/jobber/internal/pipeline"
	"github.com/muesli/termenv"
)

// WriteReport renders the counts of a pipeline run followed by one line per
// application attempt.
func WriteReport(w io.Writer, report pipeline.Report, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatCSV:
		return writeCSV(w, outcomeHeader(), outcomeRows(report.Outcomes), ',')
	case FormatTSV:
		return writeCSV(w, outcomeHeader(), outcomeRows(report.Outcomes), '\t')
	case FormatMarkdown:
		return writeReportMarkdown(w, report)
	default:
		return writeReportTable(w, report, opts)
	}
}

// WriteOutcome renders a single application attempt.
func WriteOutcome(w io.Writer, outcome models.Outcome, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, outcome)
	case FormatCSV:
		return writeCSV(w, outcomeHeader(), outcomeRows([]models.Outcome{outcome}), ',')
	case FormatTSV:
		return writeCSV(w, outcomeHeader(), outcomeRows([]models.Outcome{outcome}), '\t')
	case FormatMarkdown:
		return writeOutcomesMarkdown(w, []models.Outcome{outcome})
	default:
		return writeOutcomesTable(w, []models.Outcome{outcome}, termenv.NewOutput(w), opts)
	}
}

func summaryLines(report pipeline.Report) [][2]string {
	return [][2]string{
		{"scanned", strconv.Itoa(report.Scanned)},
		{"enriched", strconv.Itoa(report.Enriched)},
		{"enrich failures", strconv.Itoa(report.FailedAt(pipeline.StageEnrich))},
		{"cover letter failures", strconv.Itoa(report.FailedAt(pipeline.StageCoverLetter))},
		{"applied", strconv.Itoa(report.Applied)},
		{"not applied", strconv.Itoa(report.NotApplied)},
		{"apply errors", strconv.Itoa(report.FailedAt(pipeline.StageApply))},
	}
}

func writeReportTable(w io.Writer, report pipeline.Report, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, line := range summaryLines(report) {
		fmt.Fprintf(tw, "%s:\t%s\n", line[0], line[1])
	}
	if err := tw.Flush(); err != nil {
		return err
	}
	if len(report.Outcomes) > 0 {
		fmt.Fprintln(w)
		if err := writeOutcomesTable(w, report.Outcomes, termenv.NewOutput(w), opts); err != nil {
			return err
		}
	}
	if len(report.Failures) > 0 {
		fmt.Fprintln(w)
		tw = tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "job\tstage\terror")
		for _, f := range report.Failures {
			fmt.Fprintf(tw, "%s\t%s\t%s\n", shortID(f.JobID), f.Stage, f.Error)
		}
		return tw.Flush()
	}
	return nil
}

func writeOutcomesTable(w io.Writer, outcomes []models.Outcome, output *termenv.Output, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "job\ttitle\tresult\tstate\temails\tsource")
	for _, o := range outcomes {
		result := string(o.Result)
		if opts.ColorEnabled {
			color := "1"
			if o.Applied() {
				color = "2"
			}
			result = output.String(result).Foreground(output.Color(color)).String()
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
			shortID(o.JobID), safe(o.Title), result, o.State, dash(strings.Join(o.Emails, ", ")), dash(o.Source))
	}
	return tw.Flush()
}

func writeReportMarkdown(w io.Writer, report pipeline.Report) error {
	for _, line := range summaryLines(report) {
		if _, err := fmt.Fprintf(w, "- %s: %s\n", line[0], line[1]); err != nil {
			return err
		}
	}
	if len(report.Outcomes) == 0 {
		return nil
	}
	fmt.Fprintln(w)
	return writeOutcomesMarkdown(w, report.Outcomes)
}

func writeOutcomesMarkdown(w io.Writer, outcomes []models.Outcome) error {
	for _, o := range outcomes {
		line := fmt.Sprintf("- **%s** `%s`: %s (%s)", safe(o.Title), o.JobID, o.Result, o.State)
		if len(o.Emails) > 0 {
			line += " to " + strings.Join(o.Emails, ", ")
		}
		if _, err := fmt.Fprintln(w, line); err != nil {
			return err
		}
	}
	return nil
}

func outcomeHeader() []string {
	return []string{"job_id", "title", "result", "state", "emails", "source", "visited"}
}

func outcomeRows(outcomes []models.Outcome) [][]string {
	rows := make([][]string, 0, len(outcomes))
	for _, o := range outcomes {
		rows = append(rows, []string{
			o.JobID,
			o.Title,
			string(o.Result),
			string(o.State),
			strings.Join(o.Emails, ";"),
			o.Source,
			strconv.Itoa(len(o.Visited)),
		})
	}
	return rows
}

func dash(value string) string {
	if strings.TrimSpace(value) == "" {
		return "-"
	}
	return value
}
