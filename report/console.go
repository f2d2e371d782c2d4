package report

import (
	"bytes"
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// Table renders the summary as a console table, one row per feature and
// scenario.
func Table(title string, s Summary) string {
	var buf bytes.Buffer

	t := table.NewWriter()
	t.SetOutputMirror(&buf)
	t.SetTitle(title)

	t.AppendHeader(table.Row{"Type", "Name", "Duration", "Passed", "Failed", "Pending", "Status"})
	t.SetColumnConfigs([]table.ColumnConfig{
		{Name: "Type", AutoMerge: true},
		{Name: "Name", WidthMax: 80, WidthMaxEnforcer: text.WrapSoft},
		{Name: "Duration", Align: text.AlignRight},
		{Name: "Passed", Align: text.AlignRight},
		{Name: "Failed", Align: text.AlignRight},
		{Name: "Pending", Align: text.AlignRight},
	})

	for _, f := range s.Features {
		t.AppendRow(table.Row{
			"Feature",
			f.Name,
			formatDuration(f.Duration),
			f.Passed,
			f.Failed,
			f.Pending,
			statusText(f.Status()),
		})
		for _, sc := range f.Scenarios {
			t.AppendRow(table.Row{
				"Scenario",
				fmt.Sprintf("├── %s", sc.Name),
				formatDuration(sc.Duration),
				"", "", "",
				statusText(sc.Status),
			})
		}
		t.AppendSeparator()
	}

	switch {
	case s.Failed > 0:
		t.SetStyle(table.StyleColoredBlackOnRedWhite)
	case s.Pending > 0:
		t.SetStyle(table.StyleColoredBlackOnYellowWhite)
	default:
		t.SetStyle(table.StyleColoredBlackOnGreenWhite)
	}

	overall := StatusPassed
	if s.Failed > 0 {
		overall = StatusFailed
	} else if s.Pending > 0 {
		overall = StatusPending
	}
	t.AppendFooter(table.Row{
		"TOTAL",
		fmt.Sprintf("%d scenarios", s.Total),
		formatDuration(s.Duration),
		s.Passed,
		s.Failed,
		s.Pending,
		statusText(overall),
	})

	t.Render()
	return buf.String()
}

// PrintFailures writes the error of every failed scenario to w.
func PrintFailures(w io.Writer, s Summary) {
	for _, sc := range s.Failures() {
		fmt.Fprintf(w, "\n%s: %s (%s:%d)\n", sc.Feature, sc.Name, sc.URI, sc.Line)
		if sc.Error != "" {
			fmt.Fprintf(w, "  %s\n", sc.Error)
		}
	}
}

func statusText(s Status) string {
	switch s {
	case StatusPassed:
		return "PASS"
	case StatusFailed:
		return "FAIL"
	}
	return "PENDING"
}
