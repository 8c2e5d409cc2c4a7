package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/qcviz/qcviz/pkg/layout"
)

// Cell width of one schedule column in the terminal grid.
const termCellW = 7

var (
	termWireStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	termGateStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("86"))
	termLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("117"))
	termCbitStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("179"))
)

// TermOption configures the terminal sink.
type TermOption func(*termRenderer)

type termRenderer struct {
	theme   Theme
	noColor bool
}

// WithTermTheme overrides the default theme; only Labels are consulted
// by the terminal sink.
func WithTermTheme(t Theme) TermOption {
	return func(r *termRenderer) { r.theme = t }
}

// WithoutColor disables ANSI styling, for non-TTY output.
func WithoutColor() TermOption {
	return func(r *termRenderer) { r.noColor = true }
}

// termSymbol is one occupied grid position.
type termSymbol struct {
	glyph   string // box label when boxed, else a single-rune marker
	boxed   bool
	spanTop int // topmost display row of the owning record's vertical span
	spanBot int
}

// RenderText draws a layout as a unicode wire grid, one text row per
// wire plus interleaved connector rows for multi-wire operations. Wires
// appear in index order, qubit 0 on top and classical wires below.
func RenderText(l layout.Layout, opts ...TermOption) string {
	r := termRenderer{theme: DefaultTheme()}
	for _, opt := range opts {
		opt(&r)
	}

	nWires := len(l.Wires)
	cols := 0
	for _, rec := range l.Records {
		if rec.Level+1 > cols {
			cols = rec.Level + 1
		}
	}

	// grid[w][col] is the symbol on wire w in schedule column col;
	// vert[w][col] marks a connector passing between rows w and w+1.
	grid := make([][]termSymbol, nWires)
	vert := make([][]bool, nWires)
	for w := range grid {
		grid[w] = make([]termSymbol, cols)
		vert[w] = make([]bool, cols)
	}

	for _, rec := range l.Records {
		r.place(grid, vert, rec)
	}

	var sb strings.Builder
	for w := 0; w < nWires; w++ {
		r.wireRow(&sb, l.Wires[w], grid[w], cols)
		if w < nWires-1 {
			r.connectorRow(&sb, vert[w], cols)
		}
	}
	return sb.String()
}

// place fills the grid cells for one record and marks the vertical span
// between its topmost and bottommost wires.
func (r *termRenderer) place(grid [][]termSymbol, vert [][]bool, rec layout.Record) {
	top, bot := -1, -1
	for _, p := range rec.Points {
		if top == -1 || p.Wire < top {
			top = p.Wire
		}
		if p.Wire > bot {
			bot = p.Wire
		}
	}
	if top == -1 {
		return
	}

	for _, p := range rec.Points {
		grid[p.Wire][rec.Level] = r.symbol(rec, p)
	}
	for w := top; w < bot; w++ {
		vert[w][rec.Level] = true
	}
}

// symbol picks the glyph for one endpoint, by record kind and point role.
func (r *termRenderer) symbol(rec layout.Record, p layout.Point) termSymbol {
	switch p.Role {
	case layout.RoleCtrl, layout.RoleCtrl2:
		return termSymbol{glyph: "●"}
	case layout.RoleClassical:
		return termSymbol{glyph: "╩"}
	case layout.RoleQubit: // measurement source
		return termSymbol{glyph: "M", boxed: true}
	}

	// Target role.
	switch rec.Kind {
	case "CNOT", "Toffoli":
		return termSymbol{glyph: "⊕"}
	case "CZ":
		return termSymbol{glyph: "●"}
	case "Conditional":
		return termSymbol{glyph: r.theme.Label(rec.Inner), boxed: true}
	default:
		return termSymbol{glyph: r.theme.Label(rec.Kind), boxed: true}
	}
}

// wireRow writes one wire's label and its grid cells.
func (r *termRenderer) wireRow(sb *strings.Builder, w layout.Wire, cells []termSymbol, cols int) {
	label := fmt.Sprintf("%-4s", w.Label)
	wire := "─"
	labelStyle := termLabelStyle
	if w.Classical {
		wire = "═"
		labelStyle = termCbitStyle
	}

	sb.WriteString(r.style(labelStyle, label))
	sb.WriteString(r.style(termWireStyle, strings.Repeat(wire, 2)))

	for col := 0; col < cols; col++ {
		sb.WriteString(r.cell(cells[col], wire))
	}
	sb.WriteString("\n")
}

// cell renders one grid position as exactly termCellW visible columns.
func (r *termRenderer) cell(s termSymbol, wire string) string {
	if s.glyph == "" {
		return r.style(termWireStyle, strings.Repeat(wire, termCellW))
	}
	if s.boxed {
		name := padCenter(s.glyph, termCellW-4)
		return r.style(termWireStyle, wire) +
			r.style(termGateStyle, "┤"+name+"├") +
			r.style(termWireStyle, strings.Repeat(wire, 2))
	}
	half := (termCellW - 1) / 2
	return r.style(termWireStyle, strings.Repeat(wire, half)) +
		r.style(termGateStyle, s.glyph) +
		r.style(termWireStyle, strings.Repeat(wire, termCellW-half-1))
}

// connectorRow writes the in-between row carrying vertical connectors.
func (r *termRenderer) connectorRow(sb *strings.Builder, vert []bool, cols int) {
	sb.WriteString(strings.Repeat(" ", 6))
	half := (termCellW - 1) / 2
	for col := 0; col < cols; col++ {
		if vert[col] {
			sb.WriteString(strings.Repeat(" ", half))
			sb.WriteString(r.style(termWireStyle, "│"))
			sb.WriteString(strings.Repeat(" ", termCellW-half-1))
		} else {
			sb.WriteString(strings.Repeat(" ", termCellW))
		}
	}
	sb.WriteString("\n")
}

func (r *termRenderer) style(s lipgloss.Style, text string) string {
	if r.noColor {
		return text
	}
	return s.Render(text)
}

// padCenter centers a string within width, truncating when too long.
func padCenter(s string, width int) string {
	if len([]rune(s)) >= width {
		return string([]rune(s)[:width])
	}
	total := width - len([]rune(s))
	left := total / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", total-left)
}
