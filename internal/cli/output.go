package cli

import (
	"io"

	"github.com/fatih/color"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// table accumulates rows and renders them borderless and left-aligned.
type table struct {
	t      *tablewriter.Table
	header []string
	rows   [][]string
}

func newTable(w io.Writer, headers []string) *table {
	t := tablewriter.NewTable(w,
		tablewriter.WithConfig(tablewriter.Config{
			Row: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoWrap: tw.WrapNone,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
			Header: tw.CellConfig{
				Formatting: tw.CellFormatting{
					AutoFormat: tw.On,
				},
				Alignment: tw.CellAlignment{
					Global: tw.AlignLeft,
				},
			},
		}),
		tablewriter.WithRendition(tw.Rendition{
			Borders: tw.BorderNone,
			Settings: tw.Settings{
				Separators: tw.Separators{
					ShowHeader: tw.Off,
				},
			},
		}),
	)
	return &table{t: t, header: headers}
}

func (t *table) addRow(row ...string) {
	t.rows = append(t.rows, row)
}

func (t *table) render() {
	t.t.Header(t.header)
	t.t.Bulk(t.rows)
	t.t.Render()
}

// heading prints a bold section title. Colors are suppressed automatically
// on non-terminals and under NO_COLOR.
func heading(w io.Writer, title string) {
	color.New(color.Bold).Fprintln(w, title)
}
