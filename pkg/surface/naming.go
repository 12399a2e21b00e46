package surface

import (
	"fmt"
	"strings"
)

const namingLogPrefix = "surface:naming"

// Shape hints whether a member was a callable or a readable value at
// discovery time.
type Shape int

const (
	// ShapeValue is a plain readable property.
	ShapeValue Shape = iota
	// ShapeFunc is a callable member.
	ShapeFunc
)

func (s Shape) String() string {
	if s == ShapeFunc {
		return "func"
	}
	return "value"
}

// Descriptor describes one discovered member.
type Descriptor struct {
	Category  Category
	Namespace string // empty for flat categories
	Member    string
	Shape     Shape
}

// CommandID returns the descriptor's command identifier.
func (d Descriptor) CommandID() string {
	return CommandID(d.Category, d.Namespace, d.Member)
}

// CommandID builds the command identifier for a member:
// <prefix>.<namespace>.<member> for namespaced categories and
// <prefix>.<member> for flat ones.
func CommandID(c Category, namespace, member string) string {
	if c.Namespaced() {
		return c.Prefix() + "." + namespace + "." + member
	}
	return c.Prefix() + "." + member
}

// ParseCommandID reverses CommandID. Remote is tried before Local since its
// prefix extends the local one.
func ParseCommandID(id string) (Descriptor, error) {
	for _, c := range []Category{Remote, Local, Window, Content, Process} {
		rest, ok := strings.CutPrefix(id, c.Prefix()+".")
		if !ok || rest == "" {
			continue
		}
		if !c.Namespaced() {
			return Descriptor{Category: c, Member: rest}, nil
		}
		ns, member, ok := strings.Cut(rest, ".")
		if !ok || ns == "" || member == "" {
			return Descriptor{}, fmt.Errorf("%s - command %q has no member", namingLogPrefix, id)
		}
		return Descriptor{Category: c, Namespace: ns, Member: member}, nil
	}
	return Descriptor{}, fmt.Errorf("%s - command %q has no known prefix", namingLogPrefix, id)
}
