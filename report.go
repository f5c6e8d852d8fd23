// Query report output.
//
// Two formats are supported. Text writes one sentence per query in the
// Requests.txt layout, with 1/0 for the result. JSON
// writes one object per line so reports can be streamed into other tools.
package kmerbloom

import (
	"bufio"
	"fmt"
	"io"

	"github.com/fatih/color"
	json "github.com/goccy/go-json"
)

// ReportFormat selects the report layout.
type ReportFormat int

const (
	FormatText ReportFormat = iota
	FormatJSON
)

// ParseReportFormat maps "text" or "json" to its constant.
func ParseReportFormat(name string) (ReportFormat, error) {
	switch name {
	case "text", "":
		return FormatText, nil
	case "json":
		return FormatJSON, nil
	}
	return 0, fmt.Errorf("unknown report format %q", name)
}

// ReportOptions controls WriteReport.
type ReportOptions struct {
	Format ReportFormat
	Color  bool // colour the result digit in text mode
}

// WriteReport writes one line per result to w.
func WriteReport(w io.Writer, results []Result, opts ReportOptions) error {
	bw := bufio.NewWriter(w)
	switch opts.Format {
	case FormatJSON:
		enc := json.NewEncoder(bw)
		for _, r := range results {
			if err := enc.Encode(r); err != nil {
				return err
			}
		}
	default:
		present, absent := paint(opts.Color)
		for _, r := range results {
			digit := absent("0")
			if r.Present {
				digit = present("1")
			}
			if _, err := fmt.Fprintf(bw, "Test if kmer (or its reverse complement) : %s is present : %s\n", r.Kmer, digit); err != nil {
				return err
			}
		}
	}
	return bw.Flush()
}

// paint returns the formatters for present and absent results.
func paint(enabled bool) (present, absent func(a ...any) string) {
	green := color.New(color.FgGreen, color.Bold)
	red := color.New(color.FgRed)
	if enabled {
		green.EnableColor()
		red.EnableColor()
	} else {
		green.DisableColor()
		red.DisableColor()
	}
	return green.SprintFunc(), red.SprintFunc()
}
