// Package dump renders supplementary compiler debug dumps (tokens,
// constants, variables, the line-equivalence map) as fixed-width text
// tables. It draws a tview.Table onto an off-screen tcell
// SimulationScreen — the same screen type the host project's own
// debugger tests use to drive tview widgets without a real terminal — and
// reads the rendered cell grid back into plain text.
package dump

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

// Table holds a dump's column headers and rows before rendering.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
}

// Render draws t as a bordered tview.Table onto a headless simulation
// screen sized to fit every row and column, then returns the rendered
// text, one line per screen row, trailing spaces trimmed.
func Render(t Table) (string, error) {
	width, height := tableDimensions(t)

	screen := tcell.NewSimulationScreen("UTF-8")
	if err := screen.Init(); err != nil {
		return "", fmt.Errorf("dump: failed to init simulation screen: %w", err)
	}
	defer screen.Fini()
	screen.SetSize(width, height)

	table := tview.NewTable().SetBorders(true)
	table.SetTitle(" " + t.Title + " ").SetBorder(true)

	for col, header := range t.Headers {
		table.SetCell(0, col, tview.NewTableCell(header).SetSelectable(false))
	}
	for r, row := range t.Rows {
		for c, value := range row {
			table.SetCell(r+1, c, tview.NewTableCell(value))
		}
	}

	table.SetRect(0, 0, width, height)
	table.Draw(screen)
	screen.Show()

	return renderScreenText(screen, width, height), nil
}

// tableDimensions picks a simulation-screen size generous enough to fit
// every header and cell without truncation, plus room for the table's
// border.
func tableDimensions(t Table) (width, height int) {
	colWidths := make([]int, len(t.Headers))
	for i, h := range t.Headers {
		colWidths[i] = len(h)
	}
	for _, row := range t.Rows {
		for i, v := range row {
			if i < len(colWidths) && len(v) > colWidths[i] {
				colWidths[i] = len(v)
			}
		}
	}
	width = 2 // borders
	for _, w := range colWidths {
		width += w + 3 // cell padding + column separator
	}
	if width < len(t.Title)+4 {
		width = len(t.Title) + 4
	}
	// With row borders on, the header and every row take two lines each,
	// plus the table's top border and the box border (which carries the title).
	height = 2*(len(t.Rows)+1) + 1 + 2
	if height < 4 {
		height = 4
	}
	return width, height
}

// renderScreenText reads back the simulation screen's character buffer and
// joins it into lines of plain text.
func renderScreenText(screen tcell.SimulationScreen, width, height int) string {
	cells, _, _ := screen.GetContents()
	var b strings.Builder
	for row := 0; row < height; row++ {
		var line strings.Builder
		for col := 0; col < width; col++ {
			idx := row*width + col
			if idx >= len(cells) {
				break
			}
			runes := cells[idx].Runes
			if len(runes) == 0 {
				line.WriteRune(' ')
				continue
			}
			line.WriteRune(runes[0])
		}
		b.WriteString(strings.TrimRight(line.String(), " "))
		b.WriteByte('\n')
	}
	return b.String()
}
