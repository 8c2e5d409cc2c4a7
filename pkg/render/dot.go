package render

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"

	"github.com/goccy/go-graphviz"

	"github.com/qcviz/qcviz/pkg/circuit"
)

// DependencyDOT converts a circuit's operation dependency graph to
// Graphviz DOT format. Each operation becomes a node labeled with its
// index and kind; an edge runs from operation A to operation B when B
// is the next operation touching one of A's wires. Nodes on the same
// schedule level share a rank, so the rendered graph reads left to
// right in schedule order.
//
// The resulting DOT string can be rendered with [RenderDOTSVG].
func DependencyDOT(c *circuit.Circuit, levels []int) string {
	var buf bytes.Buffer
	buf.WriteString("digraph circuit {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.15,0.08\"];\n")
	buf.WriteString("  ranksep=0.4;\n")
	buf.WriteString("  nodesep=0.25;\n")
	buf.WriteString("\n")

	theme := DefaultTheme()
	for i := 0; i < c.NumGates(); i++ {
		g := c.Gate(i)
		kind := g.Kind().String()
		label := fmt.Sprintf("%d: %s", i, kind)
		if cond, ok := g.(circuit.Conditional); ok {
			label = fmt.Sprintf("%d: %s[%s]", i, kind, cond.Inner)
		}
		attrs := fmt.Sprintf("label=%q", label)
		if color, ok := theme.Colors[kind]; ok {
			attrs += fmt.Sprintf(", color=%q", color)
		}
		fmt.Fprintf(&buf, "  op%d [%s];\n", i, attrs)
	}

	// Edges from the last writer of each wire, deduplicated per pair.
	buf.WriteString("\n")
	lastOp := make(map[int]int)
	for i := 0; i < c.NumGates(); i++ {
		seen := make(map[int]bool)
		for _, w := range c.DependencyWires(c.Gate(i)) {
			if prev, ok := lastOp[w]; ok && !seen[prev] {
				seen[prev] = true
				fmt.Fprintf(&buf, "  op%d -> op%d;\n", prev, i)
			}
			lastOp[w] = i
		}
	}

	// Rank operations by schedule level.
	if len(levels) == c.NumGates() {
		byLevel := make(map[int][]int)
		maxLevel := -1
		for i, lvl := range levels {
			byLevel[lvl] = append(byLevel[lvl], i)
			if lvl > maxLevel {
				maxLevel = lvl
			}
		}
		buf.WriteString("\n")
		for lvl := 0; lvl <= maxLevel; lvl++ {
			ops := byLevel[lvl]
			if len(ops) < 2 {
				continue
			}
			buf.WriteString("  { rank=same;")
			for _, i := range ops {
				fmt.Fprintf(&buf, " op%d;", i)
			}
			buf.WriteString(" }\n")
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

// RenderDOTSVG renders a DOT graph to SVG using Graphviz.
func RenderDOTSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox rewrites the Graphviz SVG header to a zero-origin
// viewBox with explicit pixel dimensions.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}
