package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"net/url"
	"strings"
	"text/tabwriter"

	"github.com/jimezsa/jobber/internal/models"
	"github.com/muesli/termenv"
)

type Format string

const (
	FormatTable    Format = "table"
	FormatCSV      Format = "csv"
	FormatJSON     Format = "json"
	FormatMarkdown Format = "md"
	FormatTSV      Format = "tsv"
)

type WriteOptions struct {
	ColorEnabled bool
	Hyperlinks   bool
	LinkStyle    LinkStyle
}

type LinkStyle string

const (
	LinkStyleShort LinkStyle = "short"
	LinkStyleFull  LinkStyle = "full"
)

func WriteJobs(w io.Writer, jobs []models.Job, format Format, opts WriteOptions) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, jobs)
	case FormatCSV:
		return writeCSV(w, csvHeader(), jobRows(jobs), ',')
	case FormatTSV:
		return writeCSV(w, csvHeader(), jobRows(jobs), '\t')
	case FormatMarkdown:
		return writeMarkdown(w, jobs)
	default:
		return writeTable(w, jobs, opts)
	}
}

// WriteJob renders a single job with its description.
func WriteJob(w io.Writer, job models.Job, format Format) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, job)
	case FormatCSV, FormatTSV, FormatTable:
		tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
		for _, field := range jobFields(job) {
			fmt.Fprintf(tw, "%s:\t%s\n", field[0], field[1])
		}
		if err := tw.Flush(); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%s\n", models.Deref(job.Description, models.NotAvailable))
		return err
	default:
		if err := writeMarkdown(w, []models.Job{job}); err != nil {
			return err
		}
		_, err := fmt.Fprintf(w, "\n%s\n", models.Deref(job.Description, models.NotAvailable))
		return err
	}
}

func writeJSON(w io.Writer, value any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(value)
}

func writeCSV(w io.Writer, header []string, rows [][]string, delim rune) error {
	writer := csv.NewWriter(w)
	writer.Comma = delim
	if err := writer.Write(header); err != nil {
		return err
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

func writeTable(w io.Writer, jobs []models.Job, opts WriteOptions) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(tableHeader(), "\t"))
	output := termenv.NewOutput(w)
	for _, job := range jobs {
		fmt.Fprintln(tw, strings.Join(tableRow(job, output, opts), "\t"))
	}
	return tw.Flush()
}

func writeMarkdown(w io.Writer, jobs []models.Job) error {
	if len(jobs) == 0 {
		_, err := fmt.Fprintln(w, "No jobs.")
		return err
	}
	for _, job := range jobs {
		urlLine := "  URL: -"
		if link := safe(job.URL); link != "" {
			urlLine = fmt.Sprintf("  URL: [Open listing](<%s>)", link)
		}
		lines := []string{
			fmt.Sprintf("- **%s** (%s)", safe(job.Title), optional(job.Company)),
			fmt.Sprintf("  ID: %s", job.ID),
			fmt.Sprintf("  Status: %s", job.Status),
			fmt.Sprintf("  Location: %s", optional(job.Location)),
			urlLine,
		}
		if job.Salary != nil {
			lines = append(lines, fmt.Sprintf("  Salary: %s", safe(*job.Salary)))
		}
		if len(job.Benefits) > 0 {
			lines = append(lines, fmt.Sprintf("  Benefits: %s", strings.Join(job.Benefits, ", ")))
		}
		if job.ApplyAction != nil {
			lines = append(lines, fmt.Sprintf("  Apply: <%s>", safe(*job.ApplyAction)))
		}
		for _, line := range lines {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
	}
	return nil
}

func csvHeader() []string {
	return []string{
		"id",
		"status",
		"title",
		"company",
		"location",
		"salary",
		"benefits",
		"url",
		"apply_action",
	}
}

func jobRows(jobs []models.Job) [][]string {
	rows := make([][]string, 0, len(jobs))
	for _, job := range jobs {
		rows = append(rows, []string{
			job.ID,
			string(job.Status),
			job.Title,
			models.Deref(job.Company, ""),
			models.Deref(job.Location, ""),
			models.Deref(job.Salary, ""),
			strings.Join(job.Benefits, "; "),
			job.URL,
			models.Deref(job.ApplyAction, ""),
		})
	}
	return rows
}

func jobFields(job models.Job) [][2]string {
	return [][2]string{
		{"id", job.ID},
		{"status", string(job.Status)},
		{"title", safe(job.Title)},
		{"company", optional(job.Company)},
		{"location", optional(job.Location)},
		{"salary", optional(job.Salary)},
		{"benefits", benefits(job.Benefits)},
		{"url", safe(job.URL)},
		{"apply_action", optional(job.ApplyAction)},
	}
}

func benefits(values []string) string {
	if values == nil {
		return "-"
	}
	if len(values) == 0 {
		return "none"
	}
	return strings.Join(values, ", ")
}

func optional(value *string) string {
	if value == nil || strings.TrimSpace(*value) == "" {
		return "-"
	}
	return safe(*value)
}

func safe(value string) string {
	return strings.TrimSpace(value)
}

func tableHeader() []string {
	return []string{
		"id",
		"status",
		"title",
		"company",
		"url",
	}
}

func tableRow(job models.Job, output *termenv.Output, opts WriteOptions) []string {
	return []string{
		shortID(job.ID),
		string(job.Status),
		safe(job.Title),
		optional(job.Company),
		displayLink(job.URL, output, opts),
	}
}

func displayLink(raw string, output *termenv.Output, opts WriteOptions) string {
	const linkColor = "#87CEEB"

	link := safe(raw)
	if link == "" {
		return "-"
	}
	display := link
	if opts.LinkStyle == LinkStyleShort && opts.Hyperlinks {
		display = shortURLLabel(link)
	}
	if opts.ColorEnabled {
		display = output.String(display).Foreground(output.Color(linkColor)).String()
	}
	if opts.Hyperlinks {
		display = hyperlink(link, display)
	}
	return display
}

// shortID is the first block of a uuid.
func shortID(id string) string {
	if i := strings.IndexByte(id, '-'); i > 0 {
		return id[:i]
	}
	return id
}

func hyperlink(url string, text string) string {
	const esc = "\x1b"
	return esc + "]8;;" + url + esc + "\\" + text + esc + "]8;;" + esc + "\\"
}

func shortURLLabel(raw string) string {
	const maxLen = 60
	label := strings.TrimSpace(raw)
	if parsed, err := url.Parse(raw); err == nil {
		host := strings.TrimPrefix(parsed.Host, "www.")
		if host != "" {
			label = host + parsed.Path
		}
	}
	label = strings.TrimSpace(label)
	if label == "" {
		label = raw
	}
	if len(label) > maxLen {
		label = label[:maxLen-3] + "..."
	}
	return label
}
