package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/morezero/capabilities-bridge/internal/demo"
	"github.com/morezero/capabilities-bridge/internal/server"
	"github.com/morezero/capabilities-bridge/pkg/commsutil"
	"github.com/morezero/capabilities-bridge/pkg/protocol"
	"github.com/morezero/capabilities-bridge/pkg/proxy"
	"github.com/morezero/capabilities-bridge/pkg/session"
)

// runDemo starts an embedded COMMS server and a demo target, then drives the
// target through every public tree.
func runDemo() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := context.Background()

	ns, err := server.StartBroker(-1)
	if err != nil {
		return err
	}
	defer ns.Shutdown()
	cfg.COMMSURL = ns.ClientURL()

	targetConn, err := commsutil.Connect(cfg.COMMSURL, cfg.COMMSName+"-target")
	if err != nil {
		return err
	}
	defer targetConn.Close()

	profile, err := demo.LoadProfile()
	if err != nil {
		return err
	}
	app := demo.New(profile)
	srv := server.New(cfg, app.Host())
	if err := srv.Start(ctx, targetConn); err != nil {
		return err
	}
	defer srv.Shutdown(ctx)

	d, err := openDriver(ctx, cfg)
	if err != nil {
		return err
	}
	defer d.Close()

	return walkthrough(ctx, d.session, app)
}

func walkthrough(ctx context.Context, sess *session.Session, app *demo.App) error {
	out := os.Stdout
	step := func(label string, node *proxy.Node, args ...any) error {
		v, err := node.Call(ctx, args...)
		if err != nil {
			return fmt.Errorf("%s: %w", label, err)
		}
		fmt.Fprintf(out, "%-40s %v\n", label, v)
		return nil
	}
	lookup := func(root *proxy.Node, path string) *proxy.Node {
		n, _ := root.Lookup(path)
		return n
	}

	fmt.Fprintf(out, "Session %s discovered %d commands on %s\n", sess.ID(), len(sess.Mapping().CommandIDs()), sess.Target())

	steps := []struct {
		label string
		node  *proxy.Node
		args  []any
	}{
		{"electron.dialog.showMessageBox", lookup(sess.Electron(), "dialog.showMessageBox"), []any{"hi"}},
		{"electron.app.getName", lookup(sess.Electron(), "app.getName"), nil},
		{"electron.remote.screen.getPrimaryDisplay", lookup(sess.Electron(), "remote.screen.getPrimaryDisplay"), nil},
		{"browserWindow.setTitle", sess.BrowserWindow().Child("setTitle"), []any{"Driven over COMMS"}},
		{"browserWindow.getTitle", sess.BrowserWindow().Child("getTitle"), nil},
		{"webContents.loadURL", sess.WebContents().Child("loadURL"), []any{"https://example.com/"}},
		{"webContents.getURL", sess.WebContents().Child("getURL"), nil},
		{"mainProcess.type", sess.MainProcess().Child("type"), nil},
		{"rendererProcess.type", sess.RendererProcess().Child("type"), nil},
	}
	for _, s := range steps {
		if err := step(s.label, s.node, s.args...); err != nil {
			return err
		}
	}

	// A plain handle picks up the trees of an async call.
	source := sess.Go(ctx, func(ctx context.Context) (any, error) {
		return sess.BrowserWindow().Child("isVisible").Call(ctx)
	})
	plain := proxy.NewHandle(nil, proxy.Trees{})
	sess.TransferPromiseness(plain, source)
	visible, err := plain.Await(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "%-40s %v\n", "transferred browserWindow.isVisible", visible)
	if err := step("transferred mainProcess.platform", plain.MainProcess().Child("platform")); err != nil {
		return err
	}

	// Window members are resolved at call time.
	app.CloseWindow()
	_, err = sess.BrowserWindow().Child("getTitle").Call(ctx)
	var remoteErr *protocol.RemoteError
	if !errors.As(err, &remoteErr) {
		return fmt.Errorf("expected a remote error after closing the window, got %v", err)
	}
	fmt.Fprintf(out, "%-40s %s\n", "browserWindow.getTitle (closed)", remoteErr.Code)
	return nil
}
