package demo

import (
	"context"
	"sync"

	"github.com/morezero/capabilities-bridge/pkg/target"
)

// Bounds is a window rectangle.
type Bounds struct {
	X      int `json:"x"`
	Y      int `json:"y"`
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Window is the demo main window.
type Window struct {
	id int

	mu      sync.Mutex
	title   string
	bounds  Bounds
	visible bool
	focused bool

	table *target.Table
}

// NewWindow creates a visible window from p.
func NewWindow(id int, p WindowProfile) *Window {
	w := &Window{
		id:      id,
		title:   p.Title,
		bounds:  Bounds{Width: p.Width, Height: p.Height},
		visible: true,
	}
	w.table = w.build()
	return w
}

// Object returns the window's member table.
func (w *Window) Object() target.Object { return w.table }

// Title returns the current title.
func (w *Window) Title() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.title
}

func (w *Window) build() *target.Table {
	t := target.NewTable()
	// Plain values are not part of the window surface; only callables are.
	t.Set("id", w.id)

	t.SetFunc("getTitle", func(_ context.Context, _ []any) (any, error) {
		return w.Title(), nil
	})
	t.SetFunc("setTitle", func(_ context.Context, args []any) (any, error) {
		title, err := stringArg(args, 0, "title")
		if err != nil {
			return nil, err
		}
		w.mu.Lock()
		w.title = title
		w.mu.Unlock()
		return nil, nil
	})
	t.SetFunc("isVisible", func(_ context.Context, _ []any) (any, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.visible, nil
	})
	t.SetFunc("show", func(_ context.Context, _ []any) (any, error) {
		w.mu.Lock()
		w.visible = true
		w.mu.Unlock()
		return nil, nil
	})
	t.SetFunc("hide", func(_ context.Context, _ []any) (any, error) {
		w.mu.Lock()
		w.visible = false
		w.focused = false
		w.mu.Unlock()
		return nil, nil
	})
	t.SetFunc("focus", func(_ context.Context, _ []any) (any, error) {
		w.mu.Lock()
		w.focused = w.visible
		w.mu.Unlock()
		return nil, nil
	})
	t.SetFunc("isFocused", func(_ context.Context, _ []any) (any, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.focused, nil
	})
	t.SetFunc("getBounds", func(_ context.Context, _ []any) (any, error) {
		w.mu.Lock()
		defer w.mu.Unlock()
		return w.bounds, nil
	})
	t.SetFunc("setBounds", func(_ context.Context, args []any) (any, error) {
		if len(args) == 0 {
			return nil, invalidArg("missing argument bounds")
		}
		in, ok := args[0].(map[string]any)
		if !ok {
			return nil, invalidArg("bounds must be an object")
		}
		w.mu.Lock()
		defer w.mu.Unlock()
		b := w.bounds
		for key, dst := range map[string]*int{"x": &b.X, "y": &b.Y, "width": &b.Width, "height": &b.Height} {
			v, present := in[key]
			if !present {
				continue
			}
			n, ok := numberOf(v)
			if !ok {
				return nil, invalidArg("bounds.%s must be a number", key)
			}
			*dst = n
		}
		w.bounds = b
		return nil, nil
	})
	return t
}
