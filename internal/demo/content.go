package demo

import (
	"context"
	"net/url"
	"sync"

	"github.com/morezero/capabilities-bridge/pkg/target"
)

// Content is the demo web contents of the main window.
type Content struct {
	mu      sync.Mutex
	history []string
	index   int
	reloads int

	table *target.Table
}

// NewContent creates web contents showing startURL.
func NewContent(startURL string) *Content {
	c := &Content{history: []string{startURL}}
	c.table = c.build()
	return c
}

// Object returns the contents' member table.
func (c *Content) Object() target.Object { return c.table }

// URL returns the current URL.
func (c *Content) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.history[c.index]
}

func (c *Content) build() *target.Table {
	t := target.NewTable()
	t.SetFunc("getURL", func(_ context.Context, _ []any) (any, error) {
		return c.URL(), nil
	})
	t.SetFunc("loadURL", func(_ context.Context, args []any) (any, error) {
		raw, err := stringArg(args, 0, "url")
		if err != nil {
			return nil, err
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" {
			return nil, invalidArg("invalid url %q", raw)
		}
		c.mu.Lock()
		c.history = append(c.history[:c.index+1], u.String())
		c.index = len(c.history) - 1
		c.mu.Unlock()
		return nil, nil
	})
	t.SetFunc("reload", func(_ context.Context, _ []any) (any, error) {
		c.mu.Lock()
		c.reloads++
		c.mu.Unlock()
		return nil, nil
	})
	t.SetFunc("canGoBack", func(_ context.Context, _ []any) (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.index > 0, nil
	})
	t.SetFunc("goBack", func(_ context.Context, _ []any) (any, error) {
		c.mu.Lock()
		if c.index > 0 {
			c.index--
		}
		c.mu.Unlock()
		return nil, nil
	})
	t.SetFunc("getReloadCount", func(_ context.Context, _ []any) (any, error) {
		c.mu.Lock()
		defer c.mu.Unlock()
		return c.reloads, nil
	})
	return t
}
