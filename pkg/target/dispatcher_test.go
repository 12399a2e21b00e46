package target

import (
	"context"
	"encoding/json"
	"errors"
	"reflect"
	"testing"

	"github.com/morezero/capabilities-bridge/pkg/protocol"
	"github.com/morezero/capabilities-bridge/pkg/surface"
)

func unwrapInto(t *testing.T, env *protocol.Envelope, out any) {
	t.Helper()
	raw, err := env.Unwrap()
	if err != nil {
		t.Fatalf("target:dispatcher_test - unexpected failure: %v", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("target:dispatcher_test - decode %s: %v", raw, err)
	}
}

func expectCode(t *testing.T, env *protocol.Envelope, code string) {
	t.Helper()
	if env.Ok {
		t.Fatalf("target:dispatcher_test - expected %s, got ok with %s", code, env.Value)
	}
	if env.Error.Code != code {
		t.Fatalf("target:dispatcher_test - code = %s (%s), want %s", env.Error.Code, env.Error.Message, code)
	}
}

func TestDispatch_Discover(t *testing.T) {
	h := testHost()
	env := NewDispatcher(h).Dispatch(context.Background(), &protocol.ExecuteRequest{ID: "d1", Procedure: protocol.ProcedureDiscover})

	if env.ID != "d1" {
		t.Errorf("target:dispatcher_test - ID = %q, want d1", env.ID)
	}
	var got surface.Mapping
	unwrapInto(t, env, &got)
	if !reflect.DeepEqual(got.CommandIDs(), Discover(h).CommandIDs()) {
		t.Errorf("target:dispatcher_test - discover = %v", got.CommandIDs())
	}
}

func TestDispatch_EveryDiscoveredCommandResolves(t *testing.T) {
	h := testHost()
	d := NewDispatcher(h)
	for _, desc := range Discover(h).Descriptors() {
		env := d.Dispatch(context.Background(), callReq(t, desc.Category, desc.Namespace, desc.Member))
		if !env.Ok {
			t.Errorf("target:dispatcher_test - %s failed: %+v", desc.CommandID(), env.Error)
		}
	}
}

func TestDispatch_ValueAndCall(t *testing.T) {
	d := NewDispatcher(testHost())
	ctx := context.Background()

	var name string
	unwrapInto(t, d.Dispatch(ctx, callReq(t, surface.Local, "app", "name")), &name)
	if name != "demo" {
		t.Errorf("target:dispatcher_test - app.name = %q", name)
	}

	var title string
	unwrapInto(t, d.Dispatch(ctx, callReq(t, surface.Window, "", "getTitle")), &title)
	if title != "Main" {
		t.Errorf("target:dispatcher_test - getTitle = %q", title)
	}

	var pid int
	unwrapInto(t, d.Dispatch(ctx, callReq(t, surface.Process, "", "pid")), &pid)
	if pid != 42 {
		t.Errorf("target:dispatcher_test - pid = %d", pid)
	}
}

func TestDispatch_ForwardsArgumentsInOrder(t *testing.T) {
	lb := NewLoopback(NewDispatcher(testHost()))
	env, err := lb.Execute(context.Background(), callReq(t, surface.Local, "dialog", "showMessageBox", "hi", 2, true, map[string]any{"k": "v"}))
	if err != nil {
		t.Fatalf("target:dispatcher_test - execute: %v", err)
	}
	var got []any
	unwrapInto(t, env, &got)
	want := []any{"hi", 2.0, true, map[string]any{"k": "v"}}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("target:dispatcher_test - args = %#v, want %#v", got, want)
	}
}

func TestDispatch_NoArgsIsEmptySlice(t *testing.T) {
	var seen []any
	primary := NewTable().Set("ns", NewTable().SetFunc("f", func(_ context.Context, args []any) (any, error) {
		seen = args
		return len(args), nil
	}))
	env := NewDispatcher(&Host{Primary: primary}).Dispatch(context.Background(), callReq(t, surface.Local, "ns", "f"))
	if !env.Ok || seen == nil || len(seen) != 0 {
		t.Errorf("target:dispatcher_test - expected empty non-nil args, got %#v (%+v)", seen, env.Error)
	}
}

func TestDispatch_RemoteProcessUsesHostProcess(t *testing.T) {
	d := NewDispatcher(testHost())

	var platform string
	unwrapInto(t, d.Dispatch(context.Background(), callReq(t, surface.Remote, "process", "platform")), &platform)
	if platform != "linux" {
		t.Errorf("target:dispatcher_test - platform = %q", platform)
	}
	expectCode(t, d.Dispatch(context.Background(), callReq(t, surface.Remote, "process", "shadowed")), protocol.CodeMemberNotFound)
}

func TestDispatch_MemberRemovedAfterDiscovery(t *testing.T) {
	dialog := NewTable().SetFunc("showMessageBox", echoFunc)
	h := &Host{Primary: NewTable().Set("dialog", dialog)}
	d := NewDispatcher(h)

	if Discover(h).Local["dialog"]["showMessageBox"] == "" {
		t.Fatal("target:dispatcher_test - member should be discovered")
	}
	dialog.Delete("showMessageBox")
	expectCode(t, d.Dispatch(context.Background(), callReq(t, surface.Local, "dialog", "showMessageBox")), protocol.CodeMemberNotFound)
}

func TestDispatch_HiddenAndIgnored(t *testing.T) {
	d := NewDispatcher(testHost())
	ctx := context.Background()

	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Local, "dialog", "_private")), protocol.CodeMemberNotFound)
	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Local, "dialog", "prototype")), protocol.CodeMemberNotFound)
	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Process, "", "_startTime")), protocol.CodeMemberNotFound)
	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Local, "remote", "require")), protocol.CodeNamespaceNotFound)
	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Local, "CallbacksRegistry", "add")), protocol.CodeNamespaceNotFound)
	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Remote, "hideInternalModules", "hide")), protocol.CodeNamespaceNotFound)
	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Local, "version", "x")), protocol.CodeNamespaceNotFound)

	// Window members are not name-filtered.
	if env := d.Dispatch(ctx, callReq(t, surface.Window, "", "_internalFocus")); !env.Ok {
		t.Errorf("target:dispatcher_test - window _internalFocus should resolve: %+v", env.Error)
	}
}

func TestDispatch_NoCurrentWindow(t *testing.T) {
	d := NewDispatcher(&Host{})
	expectCode(t, d.Dispatch(context.Background(), callReq(t, surface.Window, "", "getTitle")), protocol.CodeNamespaceNotFound)
	expectCode(t, d.Dispatch(context.Background(), callReq(t, surface.Content, "", "getURL")), protocol.CodeNamespaceNotFound)
	expectCode(t, d.Dispatch(context.Background(), callReq(t, surface.Process, "", "pid")), protocol.CodeNamespaceNotFound)
}

func TestDispatch_BadRequests(t *testing.T) {
	d := NewDispatcher(testHost())
	ctx := context.Background()

	expectCode(t, d.Dispatch(ctx, &protocol.ExecuteRequest{ID: "1", Procedure: "call.nowhere"}), protocol.CodeProcedureNotFound)
	expectCode(t, d.Dispatch(ctx, &protocol.ExecuteRequest{ID: "2", Procedure: "call.local", Params: json.RawMessage(`"oops"`)}), protocol.CodeInvalidArgument)
	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Local, "", "showMessageBox")), protocol.CodeInvalidArgument)
	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Window, "", "")), protocol.CodeInvalidArgument)
}

func TestDispatch_Failures(t *testing.T) {
	ns := NewTable().
		SetFunc("fails", func(context.Context, []any) (any, error) { return nil, errors.New("boom") }).
		SetFunc("panics", func(context.Context, []any) (any, error) { panic("kaboom") }).
		SetFunc("internal", func(context.Context, []any) (any, error) {
			return nil, protocol.NewRemoteError(protocol.CodeInternalError, "try again")
		}).
		SetFunc("unencodable", constFunc(make(chan int)))
	d := NewDispatcher(&Host{Primary: NewTable().Set("ns", ns)})
	ctx := context.Background()

	env := d.Dispatch(ctx, callReq(t, surface.Local, "ns", "fails"))
	expectCode(t, env, protocol.CodeInvocationFailed)
	if env.Error.Message != "boom" || env.Error.Retryable {
		t.Errorf("target:dispatcher_test - fails error = %+v", env.Error)
	}

	env = d.Dispatch(ctx, callReq(t, surface.Local, "ns", "panics"))
	expectCode(t, env, protocol.CodeInvocationFailed)

	env = d.Dispatch(ctx, callReq(t, surface.Local, "ns", "internal"))
	expectCode(t, env, protocol.CodeInternalError)
	if !env.Error.Retryable {
		t.Errorf("target:dispatcher_test - INTERNAL_ERROR should be retryable")
	}

	expectCode(t, d.Dispatch(ctx, callReq(t, surface.Local, "ns", "unencodable")), protocol.CodeInternalError)
}
