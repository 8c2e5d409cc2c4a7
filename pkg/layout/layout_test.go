package layout

import (
	"path/filepath"
	"testing"

	"github.com/qcviz/qcviz/pkg/circuit"
	"github.com/qcviz/qcviz/pkg/schedule"
)

func buildCircuit(t *testing.T) *circuit.Circuit {
	t.Helper()
	c := circuit.New()
	c.AllocateQubits(3)
	c.AllocateClassicalBits(1)
	if err := c.AddH(0); err != nil {
		t.Fatal(err)
	}
	if err := c.AddCNOT(0, 2); err != nil {
		t.Fatal(err)
	}
	if err := c.AddMeasure(2, 0); err != nil {
		t.Fatal(err)
	}
	return c
}

func TestGeometryWithDefaults(t *testing.T) {
	g := Geometry{ColumnWidth: 100}.WithDefaults()
	if g.ColumnWidth != 100 {
		t.Errorf("ColumnWidth = %v, want 100", g.ColumnWidth)
	}
	if g.RowHeight != DefaultRowHeight || g.MarginX != DefaultMarginX {
		t.Errorf("defaults not applied: %+v", g)
	}
}

func TestComputeCanvasExtent(t *testing.T) {
	c := buildCircuit(t)
	levels := schedule.Levels(c)
	l := Compute(c, levels, Geometry{})

	cols := schedule.MaxLevel(levels) + 1
	wantW := float64(cols)*DefaultColumnWidth + 2*DefaultMarginX
	wantH := float64(c.NumWires()-1)*DefaultRowHeight + 2*DefaultMarginY
	if l.Width != wantW {
		t.Errorf("Width = %v, want %v", l.Width, wantW)
	}
	if l.Height != wantH {
		t.Errorf("Height = %v, want %v", l.Height, wantH)
	}
	if l.MarkerSize != DefaultMarkerSize {
		t.Errorf("MarkerSize = %v, want %v", l.MarkerSize, DefaultMarkerSize)
	}
}

func TestComputeWireOrder(t *testing.T) {
	// Qubit 0 is topmost, the classical wire bottom-most.
	c := buildCircuit(t)
	l := Compute(c, schedule.Levels(c), Geometry{})

	if len(l.Wires) != 4 {
		t.Fatalf("len(Wires) = %d, want 4", len(l.Wires))
	}
	if l.Wires[0].Label != "q0" || l.Wires[3].Label != "c0" {
		t.Errorf("labels = %q, %q, want q0, c0", l.Wires[0].Label, l.Wires[3].Label)
	}
	if !l.Wires[3].Classical || l.Wires[0].Classical {
		t.Error("classical flags wrong")
	}
	// y grows downward on the canvas, so topmost means smallest y.
	if l.Wires[0].Y >= l.Wires[3].Y {
		t.Errorf("q0 at y=%v must be above c0 at y=%v", l.Wires[0].Y, l.Wires[3].Y)
	}
}

func TestComputeWireYIncreasesDownward(t *testing.T) {
	c := buildCircuit(t)
	l := Compute(c, schedule.Levels(c), Geometry{})

	if l.Wires[0].Y != DefaultMarginY {
		t.Errorf("q0 y = %v, want %v", l.Wires[0].Y, DefaultMarginY)
	}
	for i := 1; i < len(l.Wires); i++ {
		if l.Wires[i].Y <= l.Wires[i-1].Y {
			t.Errorf("wire %d y = %v, not below wire %d y = %v",
				i, l.Wires[i].Y, i-1, l.Wires[i-1].Y)
		}
	}
	last := l.Wires[len(l.Wires)-1]
	if last.Y != l.Height-DefaultMarginY {
		t.Errorf("bottom wire y = %v, want %v", last.Y, l.Height-DefaultMarginY)
	}
}

func TestComputeRecordPoints(t *testing.T) {
	c := buildCircuit(t)
	levels := schedule.Levels(c)
	l := Compute(c, levels, Geometry{})

	cnot := l.Records[1]
	if cnot.Kind != "CNOT" {
		t.Errorf("Kind = %q, want CNOT", cnot.Kind)
	}
	ctrl, ok := cnot.Point(RoleCtrl)
	if !ok || ctrl.Wire != 0 {
		t.Errorf("ctrl point = %+v, ok=%v", ctrl, ok)
	}
	target, ok := cnot.Point(RoleTarget)
	if !ok || target.Wire != 2 {
		t.Errorf("target point = %+v, ok=%v", target, ok)
	}
	if ctrl.X != cnot.X || target.X != cnot.X {
		t.Error("all points of a record share its column x")
	}
	if ctrl.Y >= target.Y {
		t.Errorf("ctrl (wire 0) y=%v must be above target (wire 2) y=%v", ctrl.Y, target.Y)
	}

	meas := l.Records[2]
	cl, ok := meas.Point(RoleClassical)
	if !ok || cl.Wire != 3 {
		t.Errorf("classical point = %+v, ok=%v", cl, ok)
	}
}

func TestComputeConditionalRecord(t *testing.T) {
	c := circuit.New()
	c.AllocateQubits(2)
	c.AllocateClassicalBits(1)
	_ = c.AddConditionalCNOT(0, 0, 1)

	l := Compute(c, schedule.Levels(c), Geometry{})
	rec := l.Records[0]
	if rec.Kind != "Conditional" || rec.Inner != "CNOT" {
		t.Errorf("Kind/Inner = %q/%q, want Conditional/CNOT", rec.Kind, rec.Inner)
	}
	if _, ok := rec.Point(RoleCtrl); !ok {
		t.Error("conditional CNOT must carry a ctrl point")
	}
	if _, ok := rec.Point(RoleClassical); !ok {
		t.Error("conditional must carry a classical point")
	}
}

func TestComputeWireSpans(t *testing.T) {
	c := circuit.New()
	c.AllocateQubits(2)
	_ = c.AddH(0)
	_ = c.AddX(0)

	levels := schedule.Levels(c)
	l := Compute(c, levels, Geometry{})

	// Wire 0's baseline ends at its last occupied column.
	lastX := l.Records[1].X
	if l.Wires[0].X1 != lastX {
		t.Errorf("wire 0 X1 = %v, want %v", l.Wires[0].X1, lastX)
	}
	// Wire 1 is untouched and spans the full canvas.
	if l.Wires[1].X1 != l.Width-DefaultMarginX {
		t.Errorf("wire 1 X1 = %v, want %v", l.Wires[1].X1, l.Width-DefaultMarginX)
	}
}

func TestComputeEmptyCircuit(t *testing.T) {
	c := circuit.New()
	l := Compute(c, nil, Geometry{})
	if len(l.Wires) != 0 || len(l.Records) != 0 {
		t.Errorf("empty circuit layout = %+v", l)
	}
	if l.Width <= 0 || l.Height <= 0 {
		t.Errorf("canvas must keep positive extent, got %vx%v", l.Width, l.Height)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	c := buildCircuit(t)
	l := Compute(c, schedule.Levels(c), Geometry{})

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout() error: %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout() error: %v", err)
	}
	if len(got.Wires) != len(l.Wires) || len(got.Records) != len(l.Records) {
		t.Errorf("round trip lost wires or records")
	}
	if got.Width != l.Width || got.Height != l.Height {
		t.Errorf("round trip extent = %vx%v, want %vx%v", got.Width, got.Height, l.Width, l.Height)
	}
}

func TestUnmarshalLayoutRejectsRecordsWithoutWires(t *testing.T) {
	if _, err := UnmarshalLayout([]byte(`{"records":[{"op":0}]}`)); err == nil {
		t.Error("UnmarshalLayout should reject records without wires")
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	c := buildCircuit(t)
	l := Compute(c, schedule.Levels(c), Geometry{})

	path := filepath.Join(t.TempDir(), "layout.json")
	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile() error: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile() error: %v", err)
	}
	if len(got.Records) != len(l.Records) {
		t.Errorf("Records = %d, want %d", len(got.Records), len(l.Records))
	}
}
