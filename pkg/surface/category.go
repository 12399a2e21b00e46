// Package surface defines the capability vocabulary shared by the driver and
// the target: root categories, capability descriptors, command identifiers and
// the discovered mapping.
package surface

import "fmt"

// Category is one of the fixed root capability groupings exposed by a target.
type Category int

const (
	// Local is the primary exposed object (namespace -> member).
	Local Category = iota + 1
	// Remote is the privileged, cross-process exposed object (namespace -> member).
	Remote
	// Window is the currently active window object (flat).
	Window
	// Content is the currently active content/view object (flat).
	Content
	// Process is the target's process-info object (flat).
	Process
)

// Categories lists every root category in enumeration order.
var Categories = []Category{Local, Remote, Window, Content, Process}

// String returns the category's short name.
func (c Category) String() string {
	switch c {
	case Local:
		return "local"
	case Remote:
		return "remote"
	case Window:
		return "window"
	case Content:
		return "content"
	case Process:
		return "process"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// Prefix returns the command identifier prefix for the category. No prefix is
// a dotted extension of another except electron/electron.remote, which stay
// disjoint because the local surface never enumerates a "remote" namespace.
func (c Category) Prefix() string {
	switch c {
	case Local:
		return "electron"
	case Remote:
		return "electron.remote"
	case Window:
		return "browserWindow"
	case Content:
		return "webContents"
	case Process:
		return "process"
	default:
		return ""
	}
}

// Namespaced reports whether members of the category live under a namespace.
func (c Category) Namespaced() bool {
	return c == Local || c == Remote
}

// Procedure returns the name of the target-side dispatcher entry point for
// the category.
func (c Category) Procedure() string {
	if c.Prefix() == "" {
		return ""
	}
	return "call." + c.String()
}

// Valid reports whether c is one of the known root categories.
func (c Category) Valid() bool {
	return c >= Local && c <= Process
}

// CategoryForProcedure maps a dispatcher entry point back to its category.
func CategoryForProcedure(procedure string) (Category, bool) {
	for _, c := range Categories {
		if c.Procedure() == procedure {
			return c, true
		}
	}
	return 0, false
}
