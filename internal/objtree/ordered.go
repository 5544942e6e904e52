package objtree

// OrderedMap is a name-keyed map that preserves insertion order.
// Iteration order is observed by documentation output and tests, so a
// plain Go map is not enough here.
type OrderedMap[V any] struct {
	names []string
	slots map[string]V
}

// VarMap maps variable names to their slots in declaration order.
type VarMap = OrderedMap[*TypeVar]

// ProcMap maps proc names to their slots in declaration order.
type ProcMap = OrderedMap[*TypeProc]

// Get returns the value stored under name.
func (m *OrderedMap[V]) Get(name string) (V, bool) {
	v, ok := m.slots[name]
	return v, ok
}

// GetOrInsert returns the value stored under name, inserting the result
// of create first if the name is new.
func (m *OrderedMap[V]) GetOrInsert(name string, create func() V) V {
	if v, ok := m.slots[name]; ok {
		return v
	}
	if m.slots == nil {
		m.slots = make(map[string]V)
	}
	v := create()
	m.slots[name] = v
	m.names = append(m.names, name)
	return v
}

// Len returns the number of entries.
func (m *OrderedMap[V]) Len() int {
	return len(m.names)
}

// Names returns the keys in insertion order.
func (m *OrderedMap[V]) Names() []string {
	return m.names
}

// Each calls f for every entry in insertion order, stopping early if f
// returns false.
func (m *OrderedMap[V]) Each(f func(name string, value V) bool) {
	for _, name := range m.names {
		if !f(name, m.slots[name]) {
			return
		}
	}
}
