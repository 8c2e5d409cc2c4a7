package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	p := NoopPipelineHooks{}
	p.OnDecodeStart(ctx, "qasm")
	p.OnDecodeComplete(ctx, "qasm", 12, time.Second, nil)
	p.OnScheduleStart(ctx, 12)
	p.OnScheduleComplete(ctx, 12, 4, time.Second, nil)
	p.OnLayoutStart(ctx, 5)
	p.OnLayoutComplete(ctx, 5, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "circuit")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)

	s := NoopServerHooks{}
	s.OnRequest(ctx, "POST", "/render")
	s.OnResponse(ctx, "POST", "/render", 200, time.Second)
	s.OnError(ctx, "POST", "/render", nil)
}

type testPipelineHooks struct {
	NoopPipelineHooks
	scheduleStarts int
}

func (h *testPipelineHooks) OnScheduleStart(context.Context, int) {
	h.scheduleStarts++
}

type testCacheHooks struct {
	NoopCacheHooks
	hits int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string) { h.hits++ }

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()
	t.Cleanup(Reset)

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should default to NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should default to NoopCacheHooks")
	}
	if _, ok := Server().(NoopServerHooks); !ok {
		t.Error("Server() should default to NoopServerHooks")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should install custom hooks")
	}
	Pipeline().OnScheduleStart(context.Background(), 3)
	if customPipeline.scheduleStarts != 1 {
		t.Errorf("scheduleStarts = %d", customPipeline.scheduleStarts)
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	Cache().OnCacheHit(context.Background(), "layout")
	if customCache.hits != 1 {
		t.Errorf("hits = %d", customCache.hits)
	}

	// Nil registrations are ignored.
	SetPipelineHooks(nil)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks(nil) should keep existing hooks")
	}

	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset should restore noop hooks")
	}
}
