// Package layout converts a scheduled circuit into 2D draw geometry.
//
// The layout engine is a stateless transform: given a circuit, its level
// schedule, and a geometry configuration it produces per-wire baselines
// and one draw record per operation, each carrying the resolved (x, y)
// coordinate of every wire endpoint the operation touches. Rendering
// backends (pkg/render) consume the records without re-deriving any
// positions.
//
// Columns map to x (level L sits at MarginX + L*ColumnWidth), wires map
// to y with qubit 0 topmost and classical wires below all qubit wires.
package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/schedule"
)

// Default geometry constants, in abstract canvas units (pixels for the
// SVG sink).
const (
	DefaultColumnWidth = 40.0
	DefaultRowHeight   = 50.0
	DefaultMarginX     = 25.0
	DefaultMarginY     = 25.0
	DefaultMarkerSize  = 16.0
)

// Geometry configures the coordinate derivation. Zero-valued fields take
// the package defaults, so Geometry{} is a valid configuration.
type Geometry struct {
	ColumnWidth float64 `json:"column_width,omitempty" bson:"column_width,omitempty" toml:"column_width"`
	RowHeight   float64 `json:"row_height,omitempty" bson:"row_height,omitempty" toml:"row_height"`
	MarginX     float64 `json:"margin_x,omitempty" bson:"margin_x,omitempty" toml:"margin_x"`
	MarginY     float64 `json:"margin_y,omitempty" bson:"margin_y,omitempty" toml:"margin_y"`
	MarkerSize  float64 `json:"marker_size,omitempty" bson:"marker_size,omitempty" toml:"marker_size"`
}

// WithDefaults returns g with every zero field replaced by its default.
func (g Geometry) WithDefaults() Geometry {
	if g.ColumnWidth == 0 {
		g.ColumnWidth = DefaultColumnWidth
	}
	if g.RowHeight == 0 {
		g.RowHeight = DefaultRowHeight
	}
	if g.MarginX == 0 {
		g.MarginX = DefaultMarginX
	}
	if g.MarginY == 0 {
		g.MarginY = DefaultMarginY
	}
	if g.MarkerSize == 0 {
		g.MarkerSize = DefaultMarkerSize
	}
	return g
}

// Role names the operand role of a point within a draw record.
type Role string

const (
	RoleCtrl      Role = "ctrl"
	RoleCtrl2     Role = "ctrl2"
	RoleTarget    Role = "target"
	RoleQubit     Role = "qubit"
	RoleClassical Role = "classical"
)

// Point is a resolved wire endpoint of an operation.
type Point struct {
	Role Role    `json:"role" bson:"role"`
	Wire int     `json:"wire" bson:"wire"` // unified wire index
	X    float64 `json:"x" bson:"x"`
	Y    float64 `json:"y" bson:"y"`
}

// Record is the draw instruction for one operation. Kind (and Inner, for
// conditionals) key the marker shape, color, and label in the rendering
// backend; Points carry every endpoint the operation touches.
type Record struct {
	Op     int     `json:"op" bson:"op"` // operation index in program order
	Kind   string  `json:"kind" bson:"kind"`
	Inner  string  `json:"inner,omitempty" bson:"inner,omitempty"`
	Level  int     `json:"level" bson:"level"`
	X      float64 `json:"x" bson:"x"`
	Points []Point `json:"points" bson:"points"`
}

// Point returns the record's point with the given role and true, or a
// zero Point and false when the role is absent.
func (r Record) Point(role Role) (Point, bool) {
	for _, p := range r.Points {
		if p.Role == role {
			return p, true
		}
	}
	return Point{}, false
}

// Wire is a horizontal baseline. Classical wires render as a twin line
// pair; X1 ends at the wire's last occupied column so trailing unused
// wire is not drawn, except that untouched wires span the full canvas.
type Wire struct {
	Index     int     `json:"index" bson:"index"`
	Label     string  `json:"label" bson:"label"`
	Classical bool    `json:"classical,omitempty" bson:"classical,omitempty"`
	Y         float64 `json:"y" bson:"y"`
	X0        float64 `json:"x0" bson:"x0"`
	X1        float64 `json:"x1" bson:"x1"`
}

// Layout is the complete draw geometry for one circuit: canvas extent,
// per-wire baselines, and one record per operation.
type Layout struct {
	Width      float64  `json:"width" bson:"width"`
	Height     float64  `json:"height" bson:"height"`
	MarkerSize float64  `json:"marker_size" bson:"marker_size"`
	Wires      []Wire   `json:"wires" bson:"wires"`
	Records    []Record `json:"records" bson:"records"`
}

// Compute derives the layout for a scheduled circuit. levels must be the
// schedule of c (see [schedule.Levels]); geom zero fields take defaults.
func Compute(c *circuit.Circuit, levels []int, geom Geometry) Layout {
	geom = geom.WithDefaults()

	nWires := c.NumWires()
	cols := schedule.MaxLevel(levels) + 1
	if cols < 1 {
		cols = 1
	}

	width := float64(cols)*geom.ColumnWidth + 2*geom.MarginX
	rows := nWires
	if rows < 1 {
		rows = 1
	}
	height := float64(rows-1)*geom.RowHeight + 2*geom.MarginY

	// wireY maps a unified wire index to its row position. The canvas
	// y axis grows downward (SVG convention), so qubit 0 takes the
	// smallest y and classical wires sit below all qubit wires.
	wireY := func(w int) float64 {
		return float64(w)*geom.RowHeight + geom.MarginY
	}
	colX := func(level int) float64 {
		return geom.MarginX + float64(level)*geom.ColumnWidth
	}

	l := Layout{
		Width:      width,
		Height:     height,
		MarkerSize: geom.MarkerSize,
		Records:    make([]Record, c.NumGates()),
	}

	// Last occupied column per wire, for baseline spans.
	lastX := make([]float64, nWires)
	for i := range lastX {
		lastX[i] = -1
	}

	for i := range l.Records {
		g := c.Gate(i)
		x := colX(levels[i])

		rec := Record{
			Op:    i,
			Kind:  g.Kind().String(),
			Level: levels[i],
			X:     x,
		}
		if cond, ok := g.(circuit.Conditional); ok {
			rec.Inner = cond.Inner.String()
		}
		rec.Points = points(c, g, x, wireY)
		l.Records[i] = rec

		for _, p := range rec.Points {
			if x > lastX[p.Wire] {
				lastX[p.Wire] = x
			}
		}
	}

	l.Wires = make([]Wire, nWires)
	for w := range l.Wires {
		classical := w >= c.NumQubits()
		label := fmt.Sprintf("q%d", w)
		if classical {
			label = fmt.Sprintf("c%d", w-c.NumQubits())
		}
		x1 := width - geom.MarginX
		if lastX[w] >= 0 {
			x1 = lastX[w]
		}
		l.Wires[w] = Wire{
			Index:     w,
			Label:     label,
			Classical: classical,
			Y:         wireY(w),
			X0:        geom.MarginX,
			X1:        x1,
		}
	}
	return l
}

// points resolves every endpoint of a gate at column x.
func points(c *circuit.Circuit, g circuit.Gate, x float64, wireY func(int) float64) []Point {
	at := func(role Role, wire int) Point {
		return Point{Role: role, Wire: wire, X: x, Y: wireY(wire)}
	}

	switch g := g.(type) {
	case circuit.CNOT:
		return []Point{at(RoleCtrl, g.Ctrl), at(RoleTarget, g.Target)}
	case circuit.CZ:
		return []Point{at(RoleCtrl, g.Ctrl), at(RoleTarget, g.Target)}
	case circuit.Toffoli:
		return []Point{at(RoleCtrl, g.Ctrl1), at(RoleCtrl2, g.Ctrl2), at(RoleTarget, g.Target)}
	case circuit.Measure:
		return []Point{
			at(RoleQubit, g.Qubit),
			at(RoleClassical, c.UnifiedIndex(true, g.ClassicalBit)),
		}
	case circuit.Conditional:
		pts := make([]Point, 0, 3)
		if g.Ctrl != circuit.NoCtrl {
			pts = append(pts, at(RoleCtrl, g.Ctrl))
		}
		pts = append(pts,
			at(RoleTarget, g.Target),
			at(RoleClassical, c.UnifiedIndex(true, g.ClassicalBit)))
		return pts
	default:
		// Single-qubit gates all expose exactly one operand wire.
		wires := circuit.OperandWires(g)
		pts := make([]Point, len(wires))
		for i, w := range wires {
			pts[i] = at(RoleTarget, w)
		}
		return pts
	}
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Wires) == 0 && len(l.Records) > 0 {
		return Layout{}, fmt.Errorf("layout has records but no wires")
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
