package main

import (
	"encoding/json"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/spf13/cobra"
)

type columnAlignment int

const (
	alignLeft columnAlignment = iota
	alignRight
)

type tableLayout struct {
	aligns   []columnAlignment
	maxWidth map[int]int
	footer   []string
}

type tableOption func(*tableLayout)

// withAligns sets per-column alignment; missing entries stay left aligned.
func withAligns(aligns ...columnAlignment) tableOption {
	return func(l *tableLayout) { l.aligns = aligns }
}

// withMaxWidth wraps column (zero based) at width runes.
func withMaxWidth(column, width int) tableOption {
	return func(l *tableLayout) {
		if l.maxWidth == nil {
			l.maxWidth = map[int]int{}
		}
		l.maxWidth[column] = width
	}
}

func withFooter(cells ...string) tableOption {
	return func(l *tableLayout) { l.footer = cells }
}

func renderTable(headers []string, rows [][]string, opts ...tableOption) string {
	columns := len(headers)
	if columns == 0 {
		return ""
	}
	var layout tableLayout
	for _, opt := range opts {
		opt(&layout)
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(toRow(headers, columns))
	for _, row := range rows {
		tw.AppendRow(toRow(row, columns))
	}
	if len(layout.footer) > 0 {
		tw.AppendFooter(toRow(layout.footer, columns))
	}

	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if i < len(layout.aligns) && layout.aligns[i] == alignRight {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			Align:            align,
			AlignHeader:      text.AlignLeft,
			AlignFooter:      align,
			WidthMax:         layout.maxWidth[i],
			WidthMaxEnforcer: text.WrapSoft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}

func toRow(cells []string, columns int) table.Row {
	r := make(table.Row, columns)
	for i := 0; i < columns; i++ {
		if i < len(cells) {
			r[i] = cells[i]
		} else {
			r[i] = ""
		}
	}
	return r
}

// writeJSON encodes v as indented JSON to the command's stdout.
func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
