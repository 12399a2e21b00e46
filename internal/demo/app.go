package demo

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/morezero/capabilities-bridge/pkg/target"
)

const appLogPrefix = "demo:app"

// MessageBox is a message shown through dialog.showMessageBox.
type MessageBox struct {
	Message string `json:"message"`
	Title   string `json:"title,omitempty"`
	Type    string `json:"type,omitempty"`
}

// App is the demo application. Its main window can be closed and reopened
// while serving; window and content calls always reach the current one.
type App struct {
	profile *Profile

	mu        sync.Mutex
	window    *Window
	content   *Content
	nextID    int
	clipboard string
	messages  []MessageBox
	opened    []string

	host *target.Host
}

// New creates an App with an open main window.
func New(p *Profile) *App {
	if p == nil {
		p = DefaultProfile()
	}
	a := &App{profile: p}
	a.OpenWindow()

	hostProcess := target.NewProcessTable()
	hostProcess.Set("type", "browser")

	a.host = &target.Host{
		Primary:     a.primary(),
		Privileged:  a.privileged(),
		HostProcess: hostProcess,
		Process:     target.NewProcessTable(),
		CurrentWindow: func() target.Object {
			if w := a.Window(); w != nil {
				return w.Object()
			}
			return nil
		},
		CurrentContent: func() target.Object {
			if c := a.Content(); c != nil {
				return c.Object()
			}
			return nil
		},
	}
	return a
}

// Host returns the registered capability surface.
func (a *App) Host() *target.Host { return a.host }

// Window returns the current main window, or nil when closed.
func (a *App) Window() *Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.window
}

// Content returns the current web contents, or nil when the window is closed.
func (a *App) Content() *Content {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.content
}

// OpenWindow replaces the main window with a fresh one.
func (a *App) OpenWindow() *Window {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.nextID++
	a.window = NewWindow(a.nextID, a.profile.Window)
	a.content = NewContent(a.profile.Content.URL)
	slog.Debug(fmt.Sprintf("%s - opened window %d", appLogPrefix, a.nextID))
	return a.window
}

// CloseWindow closes the main window and its contents.
func (a *App) CloseWindow() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.window = nil
	a.content = nil
}

// Messages returns every message box shown so far.
func (a *App) Messages() []MessageBox {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]MessageBox(nil), a.messages...)
}

// Opened returns every URL passed to shell.openExternal.
func (a *App) Opened() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]string(nil), a.opened...)
}

func (a *App) primary() *target.Table {
	root := target.NewTable()
	root.Set("app", a.appModule())
	root.Set("clipboard", a.clipboardModule())
	root.Set("dialog", a.dialogModule())
	root.Set("shell", a.shellModule())
	// Reached through the privileged surface instead.
	root.Set("remote", target.NewTable().SetFunc("getCurrentWindow", a.noop))
	root.Set("deprecate", target.NewTable().SetFunc("warn", a.noop))
	root.Set("CallbacksRegistry", target.NewTable().SetFunc("add", a.noop))
	root.Set("isDevMode", false)
	return root
}

func (a *App) privileged() *target.Table {
	root := target.NewTable()
	root.Set("app", a.appModule())
	root.Set("dialog", a.dialogModule())
	root.Set("screen", a.screenModule())
	// Shadowed by the host process namespace.
	root.Set("process", target.NewTable().Set("type", "privileged"))
	root.Set("hideInternalModules", target.NewTable().SetFunc("hide", a.noop))
	return root
}

func (a *App) noop(_ context.Context, _ []any) (any, error) { return nil, nil }

func (a *App) appModule() *target.Table {
	t := target.NewTable()
	t.Set("name", a.profile.Name)
	t.Set("_events", map[string]any{})
	t.SetFunc("getName", func(_ context.Context, _ []any) (any, error) {
		return a.profile.Name, nil
	})
	t.SetFunc("getVersion", func(_ context.Context, _ []any) (any, error) {
		return a.profile.Version, nil
	})
	t.SetFunc("getLocale", func(_ context.Context, _ []any) (any, error) {
		return a.profile.Locale, nil
	})
	t.SetFunc("getPath", func(_ context.Context, args []any) (any, error) {
		name, err := stringArg(args, 0, "name")
		if err != nil {
			return nil, err
		}
		p, ok := a.profile.Paths[name]
		if !ok {
			return nil, fmt.Errorf("failed to get '%s' path", name)
		}
		return p, nil
	})
	return t
}

func (a *App) clipboardModule() *target.Table {
	t := target.NewTable()
	t.SetFunc("readText", func(_ context.Context, _ []any) (any, error) {
		a.mu.Lock()
		defer a.mu.Unlock()
		return a.clipboard, nil
	})
	t.SetFunc("writeText", func(_ context.Context, args []any) (any, error) {
		text, err := stringArg(args, 0, "text")
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.clipboard = text
		a.mu.Unlock()
		return nil, nil
	})
	t.SetFunc("clear", func(_ context.Context, _ []any) (any, error) {
		a.mu.Lock()
		a.clipboard = ""
		a.mu.Unlock()
		return nil, nil
	})
	return t
}

// dialogModule answers every message box with the first button.
func (a *App) dialogModule() *target.Table {
	t := target.NewTable()
	t.SetFunc("showMessageBox", func(_ context.Context, args []any) (any, error) {
		if len(args) == 0 {
			return nil, invalidArg("missing argument options")
		}
		var box MessageBox
		switch opts := args[0].(type) {
		case string:
			box.Message = opts
		case map[string]any:
			box.Message, _ = opts["message"].(string)
			box.Title, _ = opts["title"].(string)
			box.Type, _ = opts["type"].(string)
		default:
			return nil, invalidArg("options must be a string or an object")
		}
		a.mu.Lock()
		a.messages = append(a.messages, box)
		a.mu.Unlock()
		slog.Info(fmt.Sprintf("%s - message box: %s", appLogPrefix, box.Message))
		return map[string]any{"response": 0, "checkboxChecked": false}, nil
	})
	t.SetFunc("showErrorBox", func(_ context.Context, args []any) (any, error) {
		title, err := stringArg(args, 0, "title")
		if err != nil {
			return nil, err
		}
		content, _ := stringArg(args, 1, "content")
		a.mu.Lock()
		a.messages = append(a.messages, MessageBox{Title: title, Message: content, Type: "error"})
		a.mu.Unlock()
		return nil, nil
	})
	return t
}

func (a *App) shellModule() *target.Table {
	t := target.NewTable()
	t.SetFunc("openExternal", func(_ context.Context, args []any) (any, error) {
		u, err := stringArg(args, 0, "url")
		if err != nil {
			return nil, err
		}
		a.mu.Lock()
		a.opened = append(a.opened, u)
		a.mu.Unlock()
		return true, nil
	})
	return t
}

func (a *App) screenModule() *target.Table {
	t := target.NewTable()
	t.SetFunc("getPrimaryDisplay", func(_ context.Context, _ []any) (any, error) {
		return map[string]any{
			"id":          1,
			"scaleFactor": 1,
			"bounds":      Bounds{Width: 1920, Height: 1080},
		}, nil
	})
	t.SetFunc("getCursorScreenPoint", func(_ context.Context, _ []any) (any, error) {
		return map[string]int{"x": 0, "y": 0}, nil
	})
	return t
}
