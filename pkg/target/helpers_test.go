package target

import (
	"context"
	"testing"

	"github.com/morezero/capabilities-bridge/pkg/protocol"
	"github.com/morezero/capabilities-bridge/pkg/surface"
)

func constFunc(v any) Func {
	return func(context.Context, []any) (any, error) { return v, nil }
}

// echoFunc returns its arguments unchanged.
func echoFunc(_ context.Context, args []any) (any, error) { return args, nil }

// testHost builds a host covering every category and filtering rule.
func testHost() *Host {
	dialog := NewTable().
		SetFunc("showMessageBox", echoFunc).
		Set("_private", 1).
		Set("prototype", "x")
	app := NewTable().
		Set("name", "demo").
		SetFunc("getName", constFunc("demo"))

	primary := NewTable().
		Set("dialog", dialog).
		Set("app", app).
		Set("empty", NewTable()).
		Set("remote", NewTable().SetFunc("require", constFunc(nil))).
		Set("CallbacksRegistry", NewTable().SetFunc("add", constFunc(nil))).
		Set("deprecations", NewTable().SetFunc("warn", constFunc(nil))).
		Set("version", "1.0")

	privileged := NewTable().
		Set("app", NewTable().SetFunc("quit", constFunc(true))).
		Set("process", NewTable().Set("shadowed", true)).
		Set("hideInternalModules", NewTable().SetFunc("hide", constFunc(nil)))

	hostProcess := NewTable().
		Set("platform", "linux").
		SetFunc("cwd", constFunc("/srv")).
		Set("_hidden", true)

	window := NewTable().
		SetFunc("getTitle", constFunc("Main")).
		SetFunc("_internalFocus", constFunc(nil)).
		Set("id", 1)

	content := NewTable().
		SetFunc("getURL", constFunc("about:blank")).
		Set("session", "default")

	process := NewTable().
		Set("pid", 42).
		SetFunc("uptime", constFunc(1.5)).
		Set("_startTime", 0)

	return &Host{
		Primary:        primary,
		Privileged:     privileged,
		HostProcess:    hostProcess,
		Process:        process,
		CurrentWindow:  func() Object { return window },
		CurrentContent: func() Object { return content },
	}
}

func callReq(t *testing.T, c surface.Category, ns, member string, args ...any) *protocol.ExecuteRequest {
	t.Helper()
	req, err := protocol.NewRequest("r1", c.Procedure(), protocol.CallParams{Namespace: ns, Member: member, Args: args})
	if err != nil {
		t.Fatalf("target:helpers_test - NewRequest: %v", err)
	}
	return req
}
