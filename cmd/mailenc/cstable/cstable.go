// Package cstable renders the tabular output of the mailenc commands.
package cstable

import (
	"fmt"
	"io"
	"os"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	isatty "github.com/mattn/go-isatty"
)

const widthMax = 60

// shouldWeColorize resolves the color setting (yes, no, auto) against the
// terminal the output goes to.
func shouldWeColorize(wantColor string) bool {
	switch wantColor {
	case "yes":
		return true
	case "no":
		return false
	default:
		return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
	}
}

type Table struct {
	Writer table.Writer
	output io.Writer
	align  []text.Align
}

func New(out io.Writer, wantColor string) *Table {
	if out == nil {
		panic("cstable.New: out is nil")
	}

	t := table.NewWriter()

	fancy := shouldWeColorize(wantColor)

	colorOptions := table.ColorOptions{}
	box := table.StyleBoxDefault

	if fancy {
		colorOptions.Header = text.Colors{text.Italic}
		colorOptions.Border = text.Colors{text.FgHiBlack}
		colorOptions.Separator = text.Colors{text.FgHiBlack}
		box = table.StyleBoxRounded
	}

	t.SetStyle(table.Style{
		Box:     box,
		Color:   colorOptions,
		Format:  table.FormatOptions{},
		HTML:    table.DefaultHTMLOptions,
		Options: table.OptionsDefault,
		Title:   table.TitleOptionsDefault,
	})

	return &Table{
		Writer: t,
		output: out,
	}
}

// NewLight returns a table without outer borders or column separators.
func NewLight(out io.Writer, wantColor string) *Table {
	t := New(out, wantColor)
	s := t.Writer.Style()
	s.Box.Left = ""
	s.Box.LeftSeparator = ""
	s.Box.TopLeft = ""
	s.Box.BottomLeft = ""
	s.Box.Right = ""
	s.Box.RightSeparator = ""
	s.Box.TopRight = ""
	s.Box.BottomRight = ""
	s.Options.SeparateRows = false
	s.Options.SeparateFooter = false
	s.Options.SeparateHeader = true
	s.Options.SeparateColumns = false

	return t
}

func (t *Table) SetHeaders(headers ...string) {
	row := make(table.Row, 0, len(headers))
	t.align = make([]text.Align, len(headers))

	for i, h := range headers {
		row = append(row, h)
		t.align[i] = text.AlignLeft
	}

	t.Writer.AppendHeader(row)
}

// SetAlignment overrides the alignment of the first columns. It must be
// called after SetHeaders.
func (t *Table) SetAlignment(align ...text.Align) {
	copy(t.align, align)
}

func (t *Table) AddRow(cells ...string) {
	row := make(table.Row, 0, len(cells))
	for _, c := range cells {
		row = append(row, c)
	}

	t.Writer.AppendRow(row)
}

func (t *Table) Render() {
	configs := make([]table.ColumnConfig, 0, len(t.align))

	for i, align := range t.align {
		configs = append(configs, table.ColumnConfig{
			Number:           i + 1,
			AlignHeader:      text.AlignCenter,
			Align:            align,
			WidthMax:         widthMax,
			WidthMaxEnforcer: text.WrapSoft,
		})
	}

	t.Writer.SetColumnConfigs(configs)
	fmt.Fprintln(t.output, t.Writer.Render())
}
