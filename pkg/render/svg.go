package render

import (
	"bytes"
	"fmt"

	"github.com/qcviz/qcviz/pkg/layout"
)

// SVGOption configures the SVG sink.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	theme Theme
}

// WithTheme overrides the default theme for one render.
func WithTheme(t Theme) SVGOption {
	return func(r *svgRenderer) { r.theme = t }
}

// RenderSVG draws a computed layout as a standalone SVG document: wire
// baselines with labels (classical wires as twin lines), then one mark
// per draw record. The sink consumes coordinates as-is; all positioning
// decisions were made by the layout engine.
func RenderSVG(l layout.Layout, opts ...SVGOption) []byte {
	r := svgRenderer{theme: DefaultTheme()}
	for _, opt := range opts {
		opt(&r)
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		l.Width, l.Height, l.Width, l.Height)

	for _, w := range l.Wires {
		r.wire(&buf, w)
	}
	for _, rec := range l.Records {
		r.mark(&buf, l, rec)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func (r *svgRenderer) line(buf *bytes.Buffer, x0, y0, x1, y1 float64, color string, width float64) {
	fmt.Fprintf(buf, `  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="%s" stroke-width="%.1f"/>`+"\n",
		x0, y0, x1, y1, color, width)
}

func (r *svgRenderer) text(buf *bytes.Buffer, x, y float64, s, color, anchor string, size float64) {
	fmt.Fprintf(buf, `  <text x="%.1f" y="%.1f" fill="%s" font-size="%.0f" text-anchor="%s" dominant-baseline="central" font-family="sans-serif">%s</text>`+"\n",
		x, y, color, size, anchor, s)
}

// wire draws one baseline with its label. Classical wires get the
// conventional twin-line rendering and a colored label.
func (r *svgRenderer) wire(buf *bytes.Buffer, w layout.Wire) {
	t := r.theme
	if w.Classical {
		off := t.ClassicalLineOffset / 2
		r.line(buf, w.X0, w.Y-off, w.X1, w.Y-off, t.WireColor, t.LineWidth)
		r.line(buf, w.X0, w.Y+off, w.X1, w.Y+off, t.WireColor, t.LineWidth)
		r.text(buf, w.X0-6, w.Y, w.Label, t.ClassicalLabelColor, "end", t.FontSize)
		return
	}
	r.line(buf, w.X0, w.Y, w.X1, w.Y, t.WireColor, t.LineWidth)
	r.text(buf, w.X0-6, w.Y, w.Label, "black", "end", t.FontSize)
}

// mark draws one operation record, keyed by its kind.
func (r *svgRenderer) mark(buf *bytes.Buffer, l layout.Layout, rec layout.Record) {
	switch rec.Kind {
	case "CNOT":
		r.controlled(buf, l, rec, true)
	case "CZ":
		r.controlled(buf, l, rec, false)
	case "Toffoli":
		r.toffoli(buf, l, rec)
	case "Measure":
		r.measure(buf, l, rec)
	case "Conditional":
		r.conditional(buf, l, rec)
	default:
		r.box(buf, l, rec)
	}
}

// controlled draws CNOT (dot and cross) or CZ (dot and dot).
func (r *svgRenderer) controlled(buf *bytes.Buffer, l layout.Layout, rec layout.Record, cross bool) {
	color := r.theme.Color(rec.Kind, "royalblue")
	ctrl, _ := rec.Point(layout.RoleCtrl)
	target, _ := rec.Point(layout.RoleTarget)

	r.line(buf, ctrl.X, ctrl.Y, target.X, target.Y, color, r.theme.LineWidth)
	r.dot(buf, ctrl, color, l.MarkerSize/4)
	if cross {
		r.cross(buf, target, color, l.MarkerSize/2)
	} else {
		r.dot(buf, target, color, l.MarkerSize/2)
	}
}

func (r *svgRenderer) toffoli(buf *bytes.Buffer, l layout.Layout, rec layout.Record) {
	color := r.theme.Color(rec.Kind, "green")
	target, _ := rec.Point(layout.RoleTarget)
	for _, role := range []layout.Role{layout.RoleCtrl, layout.RoleCtrl2} {
		ctrl, _ := rec.Point(role)
		r.line(buf, ctrl.X, ctrl.Y, target.X, target.Y, color, r.theme.LineWidth)
		r.dot(buf, ctrl, color, l.MarkerSize/4)
	}
	r.cross(buf, target, color, l.MarkerSize/2)
}

func (r *svgRenderer) measure(buf *bytes.Buffer, l layout.Layout, rec layout.Record) {
	t := r.theme
	qubit, _ := rec.Point(layout.RoleQubit)
	classical, _ := rec.Point(layout.RoleClassical)

	// Double vertical connector down to the classical wire, drawn first
	// so the marker covers the joint.
	off := t.ConnectorOffset
	r.line(buf, qubit.X, qubit.Y, classical.X, classical.Y, t.ConnectorColor, t.LineWidth)
	r.line(buf, qubit.X+off, qubit.Y, classical.X+off, classical.Y, t.ConnectorColor, t.LineWidth)

	color := t.Color("Measure", "orange")
	fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		qubit.X, qubit.Y, l.MarkerSize/2, color, t.GateEdgeColor, t.GateEdgeWidth)
	r.text(buf, qubit.X, qubit.Y, "M", "black", "middle", t.GateFontSize)
}

func (r *svgRenderer) conditional(buf *bytes.Buffer, l layout.Layout, rec layout.Record) {
	t := r.theme
	target, _ := rec.Point(layout.RoleTarget)
	classical, _ := rec.Point(layout.RoleClassical)

	off := t.ConnectorOffset
	spacing := t.ClassicalLineOffset / 2
	r.line(buf, target.X, target.Y, classical.X, classical.Y-spacing, t.ConnectorColor, t.LineWidth)
	r.line(buf, target.X+off, target.Y, classical.X+off, classical.Y+spacing, t.ConnectorColor, t.LineWidth)

	color := t.Color(rec.Inner, "purple")
	if ctrl, ok := rec.Point(layout.RoleCtrl); ok {
		r.line(buf, ctrl.X, ctrl.Y, target.X, target.Y, color, t.LineWidth)
		r.dot(buf, ctrl, color, l.MarkerSize/4)
	}

	r.square(buf, target, color, l.MarkerSize)
	r.text(buf, target.X, target.Y, t.Label(rec.Inner), "white", "middle", t.GateFontSize)
}

// box draws the generic labeled-square marker used by all single-qubit
// gates and by unrecognized kinds.
func (r *svgRenderer) box(buf *bytes.Buffer, l layout.Layout, rec layout.Record) {
	t := r.theme
	target, ok := rec.Point(layout.RoleTarget)
	if !ok && len(rec.Points) > 0 {
		target = rec.Points[0]
	}

	color := t.Color(rec.Kind, "black")
	r.square(buf, target, color, l.MarkerSize)
	r.text(buf, target.X, target.Y, t.Label(rec.Kind), "white", "middle", t.GateFontSize)
}

func (r *svgRenderer) dot(buf *bytes.Buffer, p layout.Point, color string, radius float64) {
	fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="%s"/>`+"\n", p.X, p.Y, radius, color)
}

// cross draws the diagonal x target marker.
func (r *svgRenderer) cross(buf *bytes.Buffer, p layout.Point, color string, half float64) {
	r.line(buf, p.X-half, p.Y-half, p.X+half, p.Y+half, color, r.theme.LineWidth*2)
	r.line(buf, p.X-half, p.Y+half, p.X+half, p.Y-half, color, r.theme.LineWidth*2)
}

func (r *svgRenderer) square(buf *bytes.Buffer, p layout.Point, color string, size float64) {
	fmt.Fprintf(buf, `  <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" fill="%s" stroke="%s" stroke-width="%.1f"/>`+"\n",
		p.X-size/2, p.Y-size/2, size, size, color, r.theme.GateEdgeColor, r.theme.GateEdgeWidth)
}
