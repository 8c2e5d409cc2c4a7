package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/layout"
	"github.com/qcviz/qcviz/pkg/qasm"
	"github.com/qcviz/qcviz/pkg/render"
	"github.com/qcviz/qcviz/pkg/schedule"
)

// viewCommand creates the view command, an interactive terminal viewer
// for circuit diagrams.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [file]",
		Short: "View a circuit diagram interactively in the terminal",
		Long: `View parses an OpenQASM file (or stdin with "-") and opens the
circuit diagram in an interactive pager. Arrow keys scroll, "w"
toggles overlap suppression, "q" quits.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source, err := readSource(args[0])
			if err != nil {
				return err
			}

			circ, err := qasm.DecodeString(source)
			if err != nil {
				return err
			}

			model := newCircuitViewModel(args[0], circ)
			p := tea.NewProgram(model, tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

var listDimStyle = lipgloss.NewStyle().Foreground(colorDim)

// circuitViewModel is the bubbletea model for the interactive circuit viewer.
type circuitViewModel struct {
	title   string
	circ    *circuit.Circuit
	widen   bool
	lines   []string
	offsetX int
	offsetY int
	width   int
	height  int
}

func newCircuitViewModel(title string, circ *circuit.Circuit) circuitViewModel {
	m := circuitViewModel{
		title:  title,
		circ:   circ,
		widen:  true,
		width:  80,
		height: 24,
	}
	m.rerender()
	return m
}

func (m *circuitViewModel) rerender() {
	var opts []schedule.Option
	if !m.widen {
		opts = append(opts, schedule.WithoutWidening())
	}
	levels := schedule.Levels(m.circ, opts...)
	l := layout.Compute(m.circ, levels, layout.Geometry{})
	// Plain text only: clipLine slices by rune, which would cut ANSI
	// escape sequences mid-stream when scrolled horizontally.
	text := strings.TrimRight(render.RenderText(l, render.WithoutColor()), "\n")
	m.lines = strings.Split(text, "\n")
	m.offsetX = 0
	m.offsetY = 0
}

func (m circuitViewModel) Init() tea.Cmd {
	return nil
}

func (m circuitViewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.offsetY > 0 {
				m.offsetY--
			}
		case "down", "j":
			if m.offsetY < len(m.lines)-1 {
				m.offsetY++
			}
		case "left", "h":
			m.offsetX -= 4
			if m.offsetX < 0 {
				m.offsetX = 0
			}
		case "right", "l":
			m.offsetX += 4
		case "g":
			m.offsetY = 0
		case "w":
			m.widen = !m.widen
			m.rerender()
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m circuitViewModel) View() string {
	var b strings.Builder

	mode := "overlap suppression on"
	if !m.widen {
		mode = "overlap suppression off"
	}
	b.WriteString(StyleTitle.Render(m.title))
	b.WriteString("  ")
	b.WriteString(listDimStyle.Render(mode))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓/←/→ scroll  w toggle overlap  q quit"))
	b.WriteString("\n\n")

	visible := m.height - 5
	if visible < 1 {
		visible = 1
	}
	end := m.offsetY + visible
	if end > len(m.lines) {
		end = len(m.lines)
	}
	for _, line := range m.lines[m.offsetY:end] {
		b.WriteString(clipLine(line, m.offsetX, m.width))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.offsetY+1, len(m.lines))))

	return b.String()
}

// clipLine cuts a rendered line to the visible horizontal window,
// counting runes rather than bytes. Lines must be free of escape
// sequences; rerender produces unstyled text for exactly this reason.
func clipLine(line string, offset, width int) string {
	runes := []rune(line)
	if offset >= len(runes) {
		return ""
	}
	runes = runes[offset:]
	if width > 0 && len(runes) > width {
		runes = runes[:width]
	}
	return string(runes)
}
