package cmd

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"LyricRec/model"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

// renderTable draws rounded borders on a terminal and plain ASCII
// otherwise.
func renderTable(w io.Writer, headers []string, rows [][]string, aligns []columnAlignment) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	if isTerminal(w) {
		tw.SetStyle(table.StyleRounded)
	} else {
		tw.SetStyle(table.StyleDefault)
	}

	header := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		header[i] = headers[i]
	}
	tw.AppendHeader(header)

	for _, row := range rows {
		r := make(table.Row, columns)
		for i := 0; i < columns; i++ {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	columnConfigs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(aligns) && aligns[i] == alignRight {
			align = text.AlignRight
		}
		columnConfigs = append(columnConfigs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(columnConfigs)

	return tw.Render()
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// trackRows lists one row per item of the document.
func trackRows(doc *model.RecommendationDocument) [][]string {
	if doc == nil {
		return nil
	}
	rows := make([][]string, 0, len(doc.Recommendations))
	for i, item := range doc.Recommendations {
		sources, genres, popularity := "-", "-", "-"
		if e := item.Enrichment; e != nil {
			if len(e.DataSources) > 0 {
				sources = strings.Join(e.DataSources, ", ")
			}
			if len(e.Metadata.Genres) > 0 {
				genres = strings.Join(e.Metadata.Genres, ", ")
			}
			if e.HasSource(model.SourceLastfm) {
				popularity = fmt.Sprintf("%.2f", e.Metadata.Popularity)
			}
		}
		rows = append(rows, []string{
			fmt.Sprintf("%d", i+1),
			item.Title(),
			item.Artist(),
			genres,
			popularity,
			sources,
		})
	}
	return rows
}

// printSummary writes the per-track table and the run totals.
func printSummary(w io.Writer, summary *model.RunSummary) {
	if rows := trackRows(summary.Document); len(rows) > 0 {
		fmt.Fprintln(w, renderTable(w,
			[]string{"#", "Title", "Artist", "Genres", "Popularity", "Sources"},
			rows,
			[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignRight, alignLeft}))
	}

	labels := make([]string, 0, len(summary.SourceCounts))
	for label := range summary.SourceCounts {
		labels = append(labels, label)
	}
	sort.Strings(labels)
	counts := make([]string, 0, len(labels))
	for _, label := range labels {
		counts = append(counts, fmt.Sprintf("%s=%d", label, summary.SourceCounts[label]))
	}

	rows := [][]string{
		{"Run", summary.RunID},
		{"Tracks processed", fmt.Sprintf("%d", summary.Total)},
		{"Enriched", fmt.Sprintf("%d", summary.Enriched)},
		{"Sources", strings.Join(counts, ", ")},
		{"Written to", strings.Join(summary.SinksWritten, ", ")},
	}
	if len(summary.SinksFailed) > 0 {
		rows = append(rows, []string{"Failed exports", strings.Join(summary.SinksFailed, ", ")})
	}
	rows = append(rows, []string{"Elapsed", summary.FinishedAt.Sub(summary.StartedAt).Round(time.Millisecond).String()})
	fmt.Fprintln(w, renderTable(w, []string{"Summary", ""}, rows, nil))
	fmt.Fprintf(w, "Results saved to '%s'\n", summary.OutputPath)
}
