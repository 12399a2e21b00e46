// Package target implements the target-process side of the bridge: explicit
// capability registration, enumeration of the registered surface, and the
// dispatcher that resolves and invokes members on behalf of the driver.
package target

import (
	"context"
	"sync"
)

// Func is the only callable member shape. Arguments arrive exactly as the
// driver passed them, after one JSON round trip.
type Func func(ctx context.Context, args []any) (any, error)

// Object is a live, named grouping of members.
type Object interface {
	// Keys returns member names in a stable order.
	Keys() []string
	Get(name string) (any, bool)
}

// asFunc accepts both Func and an unnamed func of the same signature.
func asFunc(v any) (Func, bool) {
	switch fn := v.(type) {
	case Func:
		return fn, fn != nil
	case func(context.Context, []any) (any, error):
		return Func(fn), fn != nil
	}
	return nil, false
}

// Table is an insertion-ordered Object safe for concurrent use.
type Table struct {
	mu     sync.RWMutex
	keys   []string
	values map[string]any
}

// NewTable creates an empty Table.
func NewTable() *Table {
	return &Table{values: map[string]any{}}
}

// Set stores a value, keeping the original position of an existing key.
func (t *Table) Set(name string, value any) *Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.values[name]; !ok {
		t.keys = append(t.keys, name)
	}
	t.values[name] = value
	return t
}

// SetFunc stores a callable member.
func (t *Table) SetFunc(name string, fn Func) *Table {
	return t.Set(name, fn)
}

// Delete removes a member.
func (t *Table) Delete(name string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.values[name]; !ok {
		return
	}
	delete(t.values, name)
	for i, k := range t.keys {
		if k == name {
			t.keys = append(t.keys[:i], t.keys[i+1:]...)
			break
		}
	}
}

// Keys implements Object.
func (t *Table) Keys() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	out := make([]string, len(t.keys))
	copy(out, t.keys)
	return out
}

// Get implements Object.
func (t *Table) Get(name string) (any, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v, ok := t.values[name]
	return v, ok
}
