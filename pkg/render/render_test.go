package render

import (
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
	"testing"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/layout"
	"github.com/qcviz/qcviz/pkg/schedule"
)

func testLayout(t *testing.T) (*circuit.Circuit, layout.Layout) {
	t.Helper()
	c := circuit.New()
	c.AllocateQubits(3)
	c.AllocateClassicalBit()
	mustAdd(t, c.AddH(0))
	mustAdd(t, c.AddCNOT(0, 1))
	mustAdd(t, c.AddToffoli(0, 1, 2))
	mustAdd(t, c.AddMeasure(2, 0))
	mustAdd(t, c.AddConditionalX(0, 1))
	levels := schedule.Levels(c)
	return c, layout.Compute(c, levels, layout.Geometry{})
}

func mustAdd(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("add gate: %v", err)
	}
}

func TestRenderSVG(t *testing.T) {
	_, l := testLayout(t)
	svg := string(RenderSVG(l))

	if !strings.HasPrefix(svg, `<svg xmlns="http://www.w3.org/2000/svg"`) {
		t.Fatalf("missing svg header: %.80s", svg)
	}
	if !strings.HasSuffix(svg, "</svg>\n") {
		t.Error("missing closing tag")
	}
	for _, want := range []string{
		">q0<", ">q1<", ">q2<", ">c0<", // wire labels
		">H<", ">M<", ">X<", // box and marker labels
		"<circle", "<rect", "<line",
	} {
		if !strings.Contains(svg, want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestRenderSVGWireOrientation(t *testing.T) {
	c := circuit.New()
	c.AllocateQubits(2)
	c.AllocateClassicalBit()
	mustAdd(t, c.AddH(0))
	mustAdd(t, c.AddMeasure(0, 0))

	l := layout.Compute(c, schedule.Levels(c), layout.Geometry{})
	svg := string(RenderSVG(l))

	if labelY(t, svg, "q0") >= labelY(t, svg, "c0") {
		t.Errorf("q0 must be drawn above c0:\n%s", svg)
	}
}

// labelY extracts the y coordinate of a wire label text element.
func labelY(t *testing.T, svg, label string) float64 {
	t.Helper()
	re := regexp.MustCompile(`y="([0-9.]+)"[^>]*>` + label + `<`)
	m := re.FindStringSubmatch(svg)
	if m == nil {
		t.Fatalf("label %q not found in svg", label)
	}
	y, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		t.Fatal(err)
	}
	return y
}

func TestRenderSVGUsesThemeColors(t *testing.T) {
	_, l := testLayout(t)

	theme := DefaultTheme()
	theme.Colors["Hadamard"] = "#123456"
	svg := string(RenderSVG(l, WithTheme(theme)))

	if !strings.Contains(svg, "#123456") {
		t.Error("custom Hadamard color not applied")
	}
}

func TestRenderSVGEmptyLayout(t *testing.T) {
	c := circuit.New()
	c.AllocateQubit()
	l := layout.Compute(c, nil, layout.Geometry{})

	svg := string(RenderSVG(l))
	if !strings.Contains(svg, ">q0<") {
		t.Error("expected bare wire for empty circuit")
	}
}

func TestRenderText(t *testing.T) {
	_, l := testLayout(t)
	out := RenderText(l, WithoutColor())

	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	// 4 wires plus 3 connector rows.
	if len(lines) != 7 {
		t.Fatalf("got %d lines, want 7:\n%s", len(lines), out)
	}
	for _, want := range []string{"q0", "q1", "q2", "c0", "●", "⊕", "╩", "┤"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
	// Classical wire uses the double-line glyph.
	if !strings.Contains(lines[6], "═") {
		t.Errorf("classical wire not double-lined: %s", lines[6])
	}
}

func TestDependencyDOT(t *testing.T) {
	c, _ := testLayout(t)
	dot := DependencyDOT(c, schedule.Levels(c))

	if !strings.HasPrefix(dot, "digraph circuit {") {
		t.Fatalf("bad header: %.40s", dot)
	}
	for _, want := range []string{
		`op0 [label="0: Hadamard"`,
		`op4 [label="4: Conditional[PauliX]"`,
		"op0 -> op1;",
		"op1 -> op2;",
		"op3 -> op4;",
	} {
		if !strings.Contains(dot, want) {
			t.Errorf("dot missing %q:\n%s", want, dot)
		}
	}
	// Linear chain: no same-rank group has two members.
	if strings.Contains(dot, "rank=same") {
		t.Error("unexpected rank grouping in serial circuit")
	}
}

func TestDependencyDOTRanksParallelOps(t *testing.T) {
	c := circuit.New()
	c.AllocateQubits(4)
	mustAdd(t, c.AddH(0))
	mustAdd(t, c.AddH(1))
	mustAdd(t, c.AddCNOT(2, 3))

	dot := DependencyDOT(c, schedule.Levels(c))
	if !strings.Contains(dot, "rank=same") {
		t.Errorf("parallel ops not ranked together:\n%s", dot)
	}
}

func TestThemeColorAndLabel(t *testing.T) {
	theme := DefaultTheme()

	if got := theme.Color("CNOT", "black"); got != "royalblue" {
		t.Errorf("Color(CNOT) = %q", got)
	}
	if got := theme.Color("Nope", "black"); got != "black" {
		t.Errorf("Color fallback = %q", got)
	}
	if got := theme.Label("Tdg"); got != "T" {
		t.Errorf("Label(Tdg) = %q", got)
	}
	if got := theme.Label("Mystery"); got != "Mystery" {
		t.Errorf("Label fallback = %q", got)
	}
}

func TestDefaultThemeIsolation(t *testing.T) {
	a := DefaultTheme()
	a.Colors["CNOT"] = "red"

	if got := DefaultTheme().Colors["CNOT"]; got != "royalblue" {
		t.Errorf("default theme mutated: %q", got)
	}
}

func TestLoadConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "theme.toml")
	// Top-level keys must precede tables in TOML.
	src := "wire_color = \"silver\"\n\n[geometry]\ncolumn_width = 48.0\n\n[colors]\nCNOT = \"#1f77b4\"\n\n[labels]\nTdg = \"T†\"\n"
	if err := os.WriteFile(path, []byte(src), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Geometry.ColumnWidth != 48 {
		t.Errorf("ColumnWidth = %v", cfg.Geometry.ColumnWidth)
	}
	if got := cfg.Theme.Colors["CNOT"]; got != "#1f77b4" {
		t.Errorf("CNOT color = %q", got)
	}
	if got := cfg.Theme.Colors["CZ"]; got != "purple" {
		t.Errorf("default CZ color lost: %q", got)
	}
	if got := cfg.Theme.Labels["Tdg"]; got != "T†" {
		t.Errorf("Tdg label = %q", got)
	}
	if cfg.Theme.WireColor != "silver" {
		t.Errorf("WireColor = %q", cfg.Theme.WireColor)
	}
}

func TestLoadConfigMissingFile(t *testing.T) {
	if _, err := LoadConfig(filepath.Join(t.TempDir(), "absent.toml")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
