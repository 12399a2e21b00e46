// Package proxy builds the driver-facing proxy trees that mirror a
// discovered mapping, and re-attaches them onto asynchronous results.
package proxy

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/morezero/capabilities-bridge/pkg/promise"
)

const nodeLogPrefix = "proxy:node"

var (
	// ErrNotFound is returned when a path does not exist in a tree.
	ErrNotFound = errors.New("proxy node not found")
	// ErrNotLeaf is returned when calling an intermediate node.
	ErrNotLeaf = errors.New("proxy node is not callable")
)

// LeafFunc performs one round trip and returns the unwrapped raw result.
type LeafFunc func(ctx context.Context, args ...any) (json.RawMessage, error)

// Node is one level of a proxy tree: either a branch holding child nodes or
// a callable leaf.
type Node struct {
	name     string
	id       string
	children map[string]*Node
	leaf     LeafFunc
}

// NewBranch returns an empty intermediate node.
func NewBranch(name string) *Node {
	return &Node{name: name, children: map[string]*Node{}}
}

// NewLeaf returns a callable node for command id.
func NewLeaf(name, id string, fn LeafFunc) *Node {
	return &Node{name: name, id: id, leaf: fn}
}

// Name returns the node's key in its parent.
func (n *Node) Name() string { return n.name }

// CommandID returns the command identifier of a leaf, or "" for a branch.
func (n *Node) CommandID() string { return n.id }

// IsLeaf reports whether the node is callable.
func (n *Node) IsLeaf() bool { return n != nil && n.leaf != nil }

// Set attaches child under its name, replacing any existing child.
func (n *Node) Set(child *Node) {
	if n.children == nil {
		n.children = map[string]*Node{}
	}
	n.children[child.name] = child
}

// Child returns the named child or nil.
func (n *Node) Child(name string) *Node {
	if n == nil {
		return nil
	}
	return n.children[name]
}

// Keys returns the child names, sorted.
func (n *Node) Keys() []string {
	if n == nil {
		return nil
	}
	keys := make([]string, 0, len(n.children))
	for k := range n.children {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Lookup walks a dotted path (e.g. "dialog.showMessageBox").
func (n *Node) Lookup(path string) (*Node, error) {
	cur := n
	if path == "" {
		if cur == nil {
			return nil, fmt.Errorf("%s - %w: <root>", nodeLogPrefix, ErrNotFound)
		}
		return cur, nil
	}
	for _, part := range strings.Split(path, ".") {
		cur = cur.Child(part)
		if cur == nil {
			return nil, fmt.Errorf("%s - %w: %s", nodeLogPrefix, ErrNotFound, path)
		}
	}
	return cur, nil
}

// Invoke runs the leaf and returns the raw result.
func (n *Node) Invoke(ctx context.Context, args ...any) (json.RawMessage, error) {
	if n == nil {
		return nil, fmt.Errorf("%s - %w", nodeLogPrefix, ErrNotFound)
	}
	if n.leaf == nil {
		return nil, fmt.Errorf("%s - %w: %s", nodeLogPrefix, ErrNotLeaf, n.name)
	}
	return n.leaf(ctx, args...)
}

// Call runs the leaf and decodes its result into a generic Go value.
func (n *Node) Call(ctx context.Context, args ...any) (any, error) {
	var out any
	if err := n.CallInto(ctx, &out, args...); err != nil {
		return nil, err
	}
	return out, nil
}

// CallInto runs the leaf and decodes its result into out.
func (n *Node) CallInto(ctx context.Context, out any, args ...any) error {
	raw, err := n.Invoke(ctx, args...)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%s - failed to decode result of %s: %w", nodeLogPrefix, n.id, err)
	}
	return nil
}

// Go starts the leaf call and returns its pending result. The round trip is
// detached from ctx cancellation: once issued it runs to completion or
// failure.
func (n *Node) Go(ctx context.Context, args ...any) *promise.Promise {
	return promise.Go(context.WithoutCancel(ctx), func(ctx context.Context) (any, error) {
		return n.Call(ctx, args...)
	})
}

// Walk visits every leaf under n with its dotted path relative to n.
func (n *Node) Walk(fn func(path string, leaf *Node)) {
	n.walk("", fn)
}

func (n *Node) walk(prefix string, fn func(string, *Node)) {
	if n == nil {
		return
	}
	for _, k := range n.Keys() {
		child := n.children[k]
		path := k
		if prefix != "" {
			path = prefix + "." + k
		}
		if child.IsLeaf() {
			fn(path, child)
			continue
		}
		child.walk(path, fn)
	}
}

// Flatten returns the explicit path -> call closure map of the tree.
func (n *Node) Flatten() map[string]LeafFunc {
	out := map[string]LeafFunc{}
	n.Walk(func(path string, leaf *Node) {
		out[path] = leaf.leaf
	})
	return out
}

// Clone copies the tree structure. Branches are new; leaves keep the exact
// same bound call function and command identifier.
func (n *Node) Clone() *Node {
	if n == nil {
		return nil
	}
	if n.IsLeaf() {
		return NewLeaf(n.name, n.id, n.leaf)
	}
	out := NewBranch(n.name)
	for k, child := range n.children {
		out.children[k] = child.Clone()
	}
	return out
}
