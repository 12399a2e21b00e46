package target

import (
	"context"
	"errors"
	"testing"

	"github.com/morezero/capabilities-bridge/pkg/surface"
)

func TestLoopback_CanceledContext(t *testing.T) {
	lb := NewLoopback(NewDispatcher(testHost()))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := lb.Execute(ctx, callReq(t, surface.Window, "", "getTitle"))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("target:loopback_test - err = %v, want context.Canceled", err)
	}
}

func TestLoopback_ValuesCrossAsJSON(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}
	h := &Host{Process: NewTable().Set("origin", point{X: 3})}
	env, err := NewLoopback(NewDispatcher(h)).Execute(context.Background(), callReq(t, surface.Process, "", "origin"))
	if err != nil {
		t.Fatalf("target:loopback_test - execute: %v", err)
	}
	if string(env.Value) != `{"x":3}` {
		t.Errorf("target:loopback_test - value = %s", env.Value)
	}
}
