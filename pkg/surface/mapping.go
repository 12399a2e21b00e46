package surface

import "sort"

// Mapping is the discovered capability tree. It holds only command
// identifiers, so it is always transport-serializable.
type Mapping struct {
	Local   map[string]map[string]string `json:"render"`
	Remote  map[string]map[string]string `json:"main"`
	Window  map[string]string            `json:"browserWindow"`
	Content map[string]string            `json:"webContents"`
	Process map[string]string            `json:"process"`
}

// NewMapping returns an empty mapping with every category present.
func NewMapping() *Mapping {
	return &Mapping{
		Local:   map[string]map[string]string{},
		Remote:  map[string]map[string]string{},
		Window:  map[string]string{},
		Content: map[string]string{},
		Process: map[string]string{},
	}
}

// MappingFromDescriptors folds descriptors into a mapping.
func MappingFromDescriptors(descs []Descriptor) *Mapping {
	m := NewMapping()
	for _, d := range descs {
		m.Add(d)
	}
	return m
}

// AddNamespace makes sure a namespace exists, even if it ends up empty.
func (m *Mapping) AddNamespace(c Category, namespace string) {
	m.ensure()
	tree := m.Namespaced(c)
	if tree == nil {
		return
	}
	if _, ok := tree[namespace]; !ok {
		tree[namespace] = map[string]string{}
	}
}

// Add records a descriptor under its command identifier.
func (m *Mapping) Add(d Descriptor) {
	m.ensure()
	if d.Category.Namespaced() {
		m.AddNamespace(d.Category, d.Namespace)
		m.Namespaced(d.Category)[d.Namespace][d.Member] = d.CommandID()
		return
	}
	if flat := m.Flat(d.Category); flat != nil {
		flat[d.Member] = d.CommandID()
	}
}

func (m *Mapping) ensure() {
	if m.Local == nil {
		m.Local = map[string]map[string]string{}
	}
	if m.Remote == nil {
		m.Remote = map[string]map[string]string{}
	}
	if m.Window == nil {
		m.Window = map[string]string{}
	}
	if m.Content == nil {
		m.Content = map[string]string{}
	}
	if m.Process == nil {
		m.Process = map[string]string{}
	}
}

// Namespaced returns the namespace tree for Local or Remote.
func (m *Mapping) Namespaced(c Category) map[string]map[string]string {
	switch c {
	case Local:
		return m.Local
	case Remote:
		return m.Remote
	}
	return nil
}

// Flat returns the member table for Window, Content or Process.
func (m *Mapping) Flat(c Category) map[string]string {
	switch c {
	case Window:
		return m.Window
	case Content:
		return m.Content
	case Process:
		return m.Process
	}
	return nil
}

// Descriptors flattens the mapping, sorted by command identifier. Shape is
// not carried by the mapping and is reported as ShapeValue.
func (m *Mapping) Descriptors() []Descriptor {
	var out []Descriptor
	for _, c := range Categories {
		if c.Namespaced() {
			for ns, members := range m.Namespaced(c) {
				for member := range members {
					out = append(out, Descriptor{Category: c, Namespace: ns, Member: member})
				}
			}
			continue
		}
		for member := range m.Flat(c) {
			out = append(out, Descriptor{Category: c, Member: member})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CommandID() < out[j].CommandID() })
	return out
}

// CommandIDs returns every command identifier in the mapping, sorted.
func (m *Mapping) CommandIDs() []string {
	descs := m.Descriptors()
	ids := make([]string, len(descs))
	for i, d := range descs {
		ids[i] = d.CommandID()
	}
	return ids
}

// Count returns the number of members per category.
func (m *Mapping) Count() map[Category]int {
	counts := make(map[Category]int, len(Categories))
	for _, d := range m.Descriptors() {
		counts[d.Category]++
	}
	return counts
}
