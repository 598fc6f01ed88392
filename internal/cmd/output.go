package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/jimezsa/jobber/internal/export"
	"github.com/muesli/termenv"
)

type OutputOptions struct {
	Format string `help:"Output format: table, csv, tsv, json, md." enum:",table,csv,tsv,json,md" default:""`
	Links  string `help:"Table link display: short or full." enum:"short,full" default:"full"`
	Output string `name:"output" short:"o" help:"Write output to a file."`
}

// output is where a command renders its result.
type output struct {
	w       io.Writer
	format  export.Format
	opts    export.WriteOptions
	closeFn func() error
}

func (o *output) Close() error {
	if o.closeFn == nil {
		return nil
	}
	return o.closeFn()
}

func openOutput(ctx *Context, opts OutputOptions) (*output, error) {
	format, err := resolveFormat(ctx, opts, opts.Output)
	if err != nil {
		return nil, err
	}
	if opts.Output == "" {
		tty := isTTY(ctx.Out)
		return &output{
			w:      ctx.Out,
			format: format,
			opts: export.WriteOptions{
				ColorEnabled: ctx.UI != nil && ctx.UI.ColorEnabled,
				Hyperlinks:   tty && format == export.FormatTable,
				LinkStyle:    export.LinkStyle(opts.Links),
			},
		}, nil
	}

	file, err := os.Create(opts.Output)
	if err != nil {
		return nil, err
	}
	return &output{
		w:       file,
		format:  format,
		opts:    export.WriteOptions{LinkStyle: export.LinkStyleFull},
		closeFn: file.Close,
	}, nil
}

func resolveFormat(ctx *Context, opts OutputOptions, outputPath string) (export.Format, error) {
	if outputPath != "" {
		if ctx.JSONOutput {
			return export.FormatJSON, nil
		}
		if ctx.PlainText {
			return export.FormatTSV, nil
		}
		if opts.Format == "" {
			return export.FormatCSV, nil
		}
		return parseFormat(opts.Format)
	}

	if ctx.JSONOutput {
		return export.FormatJSON, nil
	}
	if ctx.PlainText {
		return export.FormatTSV, nil
	}
	if opts.Format != "" {
		return parseFormat(opts.Format)
	}
	if isTTY(ctx.Out) {
		return export.FormatTable, nil
	}
	return export.FormatCSV, nil
}

func parseFormat(value string) (export.Format, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "csv":
		return export.FormatCSV, nil
	case "json":
		return export.FormatJSON, nil
	case "md", "markdown":
		return export.FormatMarkdown, nil
	case "tsv":
		return export.FormatTSV, nil
	case "table", "":
		return export.FormatTable, nil
	default:
		return "", fmt.Errorf("unknown format: %s", value)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}

func isTTY(out io.Writer) bool {
	output := termenv.NewOutput(out)
	return output.ColorProfile() != termenv.Ascii
}

// startIndicator draws a spinner on stderr until the returned func is
// called. It does nothing when stderr is not a terminal.
func startIndicator(ctx *Context, label string) func() {
	if ctx == nil || ctx.Err == nil || ctx.UI == nil || !isTTY(ctx.Err) {
		return func() {}
	}

	done := make(chan struct{})
	stopped := make(chan struct{})

	go func() {
		defer close(stopped)
		start := time.Now()
		frames := []string{"|", "/", "-", "\\"}
		ticker := time.NewTicker(200 * time.Millisecond)
		defer ticker.Stop()
		index := 0

		for {
			select {
			case <-done:
				fmt.Fprint(ctx.Err, "\r\033[2K")
				return
			case <-ticker.C:
				seconds := int(time.Since(start).Seconds())
				frame := frames[index%len(frames)]
				fmt.Fprintf(ctx.Err, "\r\033[2K%s... %ds %s", label, seconds, frame)
				index++
			}
		}
	}()

	return func() {
		close(done)
		<-stopped
	}
}
