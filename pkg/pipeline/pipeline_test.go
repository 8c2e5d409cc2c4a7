package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/qcviz/qcviz/pkg/cache"
	"github.com/qcviz/qcviz/pkg/errors"
)

const bellSource = `OPENQASM 2.0;
include "qelib1.inc";
qreg q[2];
h q[0];
cx q[0], q[1];
`

func TestValidateFormat(t *testing.T) {
	for _, f := range []string{"svg", "txt", "dot", "json"} {
		if err := ValidateFormat(f); err != nil {
			t.Errorf("ValidateFormat(%q): %v", f, err)
		}
	}
	err := ValidateFormat("png")
	if err == nil {
		t.Fatal("png should be rejected")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %s", errors.GetCode(err))
	}
}

func TestValidateVizType(t *testing.T) {
	if err := ValidateVizType("circuit"); err != nil {
		t.Errorf("circuit: %v", err)
	}
	if err := ValidateVizType("depgraph"); err != nil {
		t.Errorf("depgraph: %v", err)
	}
	if err := ValidateVizType("tower"); err == nil {
		t.Error("tower should be rejected")
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{Source: bellSource}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}
	if opts.VizType != VizTypeCircuit {
		t.Errorf("VizType = %q", opts.VizType)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != FormatSVG {
		t.Errorf("Formats = %v", opts.Formats)
	}
	if opts.Logger == nil {
		t.Error("Logger should default")
	}
}

func TestOptionsRequireSource(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err == nil {
		t.Fatal("empty source should be rejected")
	}
}

func TestLayoutKeyOptsReflectWidening(t *testing.T) {
	a := (&Options{Source: "x"}).LayoutKeyOpts()
	b := (&Options{Source: "x", NoWiden: true}).LayoutKeyOpts()
	if a == b {
		t.Error("widening flag should change layout key opts")
	}
	if !a.Widen || b.Widen {
		t.Errorf("Widen flags: %v %v", a.Widen, b.Widen)
	}
}

func TestExecute(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Source:  bellSource,
		Formats: []string{"svg", "txt", "json", "dot"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}

	if result.Stats.GateCount != 2 {
		t.Errorf("GateCount = %d", result.Stats.GateCount)
	}
	if result.Stats.WireCount != 2 {
		t.Errorf("WireCount = %d", result.Stats.WireCount)
	}
	if result.Stats.MaxLevel != 1 {
		t.Errorf("MaxLevel = %d", result.Stats.MaxLevel)
	}
	if len(result.CircuitHash) != 64 {
		t.Errorf("CircuitHash = %q", result.CircuitHash)
	}

	for _, format := range []string{"svg", "txt", "json", "dot"} {
		if len(result.Artifacts[format]) == 0 {
			t.Errorf("missing %s artifact", format)
		}
	}
	if !strings.Contains(string(result.Artifacts["svg"]), "<svg") {
		t.Error("svg artifact malformed")
	}
	if !strings.Contains(string(result.Artifacts["dot"]), "digraph circuit") {
		t.Error("dot artifact malformed")
	}
}

func TestExecuteInvalidSource(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{Source: "qreg q[1];\nbogus q[0];\n"})
	if err == nil {
		t.Fatal("expected decode error")
	}
}

func TestExecuteCaching(t *testing.T) {
	fc, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	runner := NewRunner(fc, nil, nil)
	defer runner.Close()

	opts := Options{Source: bellSource, Formats: []string{"svg"}}

	first, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("first run: %v", err)
	}
	if first.CacheInfo.DecodeHit || first.CacheInfo.LayoutHit || first.CacheInfo.RenderHit {
		t.Errorf("first run should miss everywhere: %+v", first.CacheInfo)
	}

	second, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("second run: %v", err)
	}
	if !second.CacheInfo.DecodeHit || !second.CacheInfo.LayoutHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run should hit everywhere: %+v", second.CacheInfo)
	}
	if string(first.Artifacts["svg"]) != string(second.Artifacts["svg"]) {
		t.Error("cached artifact differs from rendered one")
	}

	// Refresh bypasses the decode cache.
	opts.Refresh = true
	third, err := runner.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("refresh run: %v", err)
	}
	if third.CacheInfo.DecodeHit {
		t.Error("refresh should skip decode cache")
	}
}

func TestExecuteDepgraph(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	result, err := runner.Execute(context.Background(), Options{
		Source:  bellSource,
		VizType: VizTypeDepgraph,
		Formats: []string{"dot"},
	})
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	dot := string(result.Artifacts["dot"])
	if !strings.Contains(dot, "op0 -> op1;") {
		t.Errorf("missing dependency edge:\n%s", dot)
	}
}

func TestDepgraphRejectsTextFormat(t *testing.T) {
	runner := NewRunner(nil, nil, nil)
	defer runner.Close()

	_, err := runner.Execute(context.Background(), Options{
		Source:  bellSource,
		VizType: VizTypeDepgraph,
		Formats: []string{"txt"},
	})
	if err == nil {
		t.Fatal("txt depgraph should fail")
	}
	if errors.GetCode(err) != errors.ErrCodeInvalidFormat {
		t.Errorf("code = %s", errors.GetCode(err))
	}
}
