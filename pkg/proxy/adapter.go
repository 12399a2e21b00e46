package proxy

import (
	"context"
	"sync"

	"github.com/morezero/capabilities-bridge/pkg/promise"
)

// Trees holds the public proxy trees of a session.
type Trees struct {
	Electron        *Node
	BrowserWindow   *Node
	WebContents     *Node
	RendererProcess *Node
	// MainProcess aliases Electron's remote.process branch.
	MainProcess *Node
}

// Clone structurally copies every tree, reusing the same leaf functions.
func (t Trees) Clone() Trees {
	return Trees{
		Electron:        t.Electron.Clone(),
		BrowserWindow:   t.BrowserWindow.Clone(),
		WebContents:     t.WebContents.Clone(),
		RendererProcess: t.RendererProcess.Clone(),
		MainProcess:     t.MainProcess.Clone(),
	}
}

// Handle is an asynchronous result that also carries the proxy trees, so
// callers can keep issuing namespaced calls off of it. Its result is
// whatever promise currently backs it; TransferPromiseness swaps that
// promise for the source's.
type Handle struct {
	mu      sync.RWMutex
	p       *promise.Promise
	trees   Trees
	swapped chan struct{}
}

// NewHandle wraps p with the given trees. A nil p starts a pending promise.
func NewHandle(p *promise.Promise, t Trees) *Handle {
	if p == nil {
		p = promise.New()
	}
	return &Handle{p: p, trees: t, swapped: make(chan struct{})}
}

// Promise returns the promise currently backing the handle.
func (h *Handle) Promise() *promise.Promise {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.p
}

func (h *Handle) state() (*promise.Promise, <-chan struct{}) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.p, h.swapped
}

// Await blocks until the backing promise settles or ctx ends. A transfer
// made while waiting redirects the wait to the new source.
func (h *Handle) Await(ctx context.Context) (any, error) {
	for {
		p, swapped := h.state()
		select {
		case <-p.Done():
			return p.Await(ctx)
		case <-swapped:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
}

// Done is closed once the promise backing the handle at call time settles.
func (h *Handle) Done() <-chan struct{} {
	return h.Promise().Done()
}

// Settled reports whether the backing promise has settled.
func (h *Handle) Settled() bool {
	return h.Promise().Settled()
}

// Trees returns the trees attached to the handle.
func (h *Handle) Trees() Trees {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.trees
}

func (h *Handle) Electron() *Node        { return h.Trees().Electron }
func (h *Handle) BrowserWindow() *Node   { return h.Trees().BrowserWindow }
func (h *Handle) WebContents() *Node     { return h.Trees().WebContents }
func (h *Handle) RendererProcess() *Node { return h.Trees().RendererProcess }
func (h *Handle) MainProcess() *Node     { return h.Trees().MainProcess }

// TransferPromiseness makes target resolve to whatever source resolves to,
// replacing any result of its own, and rebuilds source's trees on target.
// No command is registered again.
func TransferPromiseness(target, source *Handle) {
	if target == source {
		return
	}
	p := source.Promise()
	trees := source.Trees().Clone()

	target.mu.Lock()
	target.p = p
	target.trees = trees
	if target.swapped != nil {
		close(target.swapped)
	}
	target.swapped = make(chan struct{})
	target.mu.Unlock()
}
