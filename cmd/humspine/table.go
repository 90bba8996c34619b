package main

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
)

// tableView is a rendered-once table: a header row, string cells, and the
// zero-based columns that hold numbers and should align right.
type tableView struct {
	title   string
	headers []string
	rows    [][]string
	numeric []int
}

func (v tableView) render() string {
	columns := len(v.headers)
	if columns == 0 {
		return ""
	}

	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	if v.title != "" {
		tw.SetTitle(v.title)
	}

	header := make(table.Row, columns)
	for i, h := range v.headers {
		header[i] = h
	}
	tw.AppendHeader(header)

	for _, row := range v.rows {
		r := make(table.Row, columns)
		for i := range r {
			if i < len(row) {
				r[i] = row[i]
			} else {
				r[i] = ""
			}
		}
		tw.AppendRow(r)
	}

	right := make(map[int]bool, len(v.numeric))
	for _, i := range v.numeric {
		right[i] = true
	}
	configs := make([]table.ColumnConfig, 0, columns)
	for i := 0; i < columns; i++ {
		align := text.AlignLeft
		if right[i] {
			align = text.AlignRight
		}
		configs = append(configs, table.ColumnConfig{
			Number:      i + 1,
			Align:       align,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)

	return tw.Render()
}
