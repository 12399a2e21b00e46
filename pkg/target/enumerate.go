package target

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/morezero/capabilities-bridge/pkg/surface"
)

const enumerateLogPrefix = "target:enumerate"

// hostProcessNamespace is the synthetic remote namespace backed by
// Host.HostProcess.
const hostProcessNamespace = "process"

// ignoredModules are internal namespaces never exposed on the local or remote
// surface.
var ignoredModules = map[string]bool{
	"CallbacksRegistry":   true,
	"deprecate":           true,
	"deprecations":        true,
	"hideInternalModules": true,
}

// hidden reports whether a member name is private to the target.
func hidden(name string) bool {
	return name == "prototype" || strings.HasPrefix(name, "_")
}

// Discover enumerates the host's surface into a mapping. Namespaces with no
// visible members are kept as empty branches.
func Discover(h *Host) *surface.Mapping {
	m := surface.NewMapping()
	walk(h, func(d surface.Descriptor) { m.Add(d) }, func(c surface.Category, ns string) { m.AddNamespace(c, ns) })
	counts := m.Count()
	slog.Debug(fmt.Sprintf("%s - discovered local=%d remote=%d window=%d content=%d process=%d", enumerateLogPrefix,
		counts[surface.Local], counts[surface.Remote], counts[surface.Window], counts[surface.Content], counts[surface.Process]))
	return m
}

// Enumerate lists every visible member of the host with its shape.
func Enumerate(h *Host) []surface.Descriptor {
	var out []surface.Descriptor
	walk(h, func(d surface.Descriptor) { out = append(out, d) }, nil)
	return out
}

func walk(h *Host, emit func(surface.Descriptor), namespace func(surface.Category, string)) {
	if h == nil {
		return
	}
	if namespace == nil {
		namespace = func(surface.Category, string) {}
	}

	// local surface
	if h.Primary != nil {
		for _, ns := range h.Primary.Keys() {
			if ignoredModules[ns] || ns == "remote" {
				continue
			}
			walkNamespace(surface.Local, h.Primary, ns, emit, namespace)
		}
	}

	// remote surface, plus the host process namespace
	if h.Privileged != nil {
		for _, ns := range h.Privileged.Keys() {
			if ignoredModules[ns] || ns == hostProcessNamespace {
				continue
			}
			walkNamespace(surface.Remote, h.Privileged, ns, emit, namespace)
		}
	}
	namespace(surface.Remote, hostProcessNamespace)
	walkMembers(surface.Remote, hostProcessNamespace, h.HostProcess, emit)

	walkFuncs(surface.Window, h.window(), emit)
	walkFuncs(surface.Content, h.content(), emit)

	walkMembers(surface.Process, "", h.Process, emit)
}

func walkNamespace(c surface.Category, parent Object, ns string, emit func(surface.Descriptor), namespace func(surface.Category, string)) {
	v, ok := parent.Get(ns)
	if !ok {
		return
	}
	obj, ok := v.(Object)
	if !ok || obj == nil {
		return
	}
	namespace(c, ns)
	walkMembers(c, ns, obj, emit)
}

// walkMembers emits every non-hidden member regardless of type.
func walkMembers(c surface.Category, ns string, obj Object, emit func(surface.Descriptor)) {
	if obj == nil {
		return
	}
	for _, name := range obj.Keys() {
		if hidden(name) {
			continue
		}
		v, _ := obj.Get(name)
		emit(surface.Descriptor{Category: c, Namespace: ns, Member: name, Shape: shapeOf(v)})
	}
}

// walkFuncs emits only callable members.
func walkFuncs(c surface.Category, obj Object, emit func(surface.Descriptor)) {
	if obj == nil {
		return
	}
	for _, name := range obj.Keys() {
		v, _ := obj.Get(name)
		if _, ok := asFunc(v); ok {
			emit(surface.Descriptor{Category: c, Member: name, Shape: surface.ShapeFunc})
		}
	}
}

func shapeOf(v any) surface.Shape {
	if _, ok := asFunc(v); ok {
		return surface.ShapeFunc
	}
	return surface.ShapeValue
}
