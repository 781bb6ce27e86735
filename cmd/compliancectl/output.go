package main

import (
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
)

// renderTable prints rows under headers to stdout.
func renderTable(headers []string, rows [][]interface{}) {
	t := table.NewWriter()
	t.SetOutputMirror(os.Stdout)
	t.SetStyle(table.StyleLight)

	header := table.Row{}
	for _, h := range headers {
		header = append(header, h)
	}
	t.AppendHeader(header)
	for _, row := range rows {
		t.AppendRow(table.Row(row))
	}
	t.Render()
}
