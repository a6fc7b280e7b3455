package assembler

// Symbol is a user-defined constant.
type Symbol struct {
	Name  string
	Value string
}

// Label is a name bound to a byte offset.
type Label struct {
	Name   string
	Offset int
}

// table is a write-once map that remembers definition order.
type table[V any] struct {
	order  []string
	values map[string]V
}

func newTable[V any]() table[V] {
	return table[V]{values: make(map[string]V)}
}

func (t *table[V]) get(name string) (V, bool) {
	v, ok := t.values[name]
	return v, ok
}

func (t *table[V]) has(name string) bool {
	_, ok := t.values[name]
	return ok
}

func (t *table[V]) set(name string, v V) {
	if !t.has(name) {
		t.order = append(t.order, name)
	}
	t.values[name] = v
}

// Unit is the output of pass 1: the node list and the completed tables.
// It is not modified after Compile returns.
type Unit struct {
	lines   []string
	nodes   []Node
	symbols table[string]
	labels  table[int]
	strings map[int]string
	size    int
}

func newUnit(lines []string) *Unit {
	return &Unit{
		lines:   lines,
		symbols: newTable[string](),
		labels:  newTable[int](),
		strings: make(map[int]string),
	}
}

// Nodes returns a copy of the node list in emission order.
func (u *Unit) Nodes() []Node {
	out := make([]Node, len(u.nodes))
	copy(out, u.nodes)
	return out
}

// Symbol returns the text a symbol was defined with.
func (u *Unit) Symbol(name string) (string, bool) {
	return u.symbols.get(name)
}

// Label returns the offset a label is bound to.
func (u *Unit) Label(name string) (int, bool) {
	return u.labels.get(name)
}

// StringAt returns the hex payload of the string stored at offset.
func (u *Unit) StringAt(offset int) (string, bool) {
	s, ok := u.strings[offset]
	return s, ok
}

// Symbols returns the symbol table in definition order.
func (u *Unit) Symbols() []Symbol {
	out := make([]Symbol, 0, len(u.symbols.order))
	for _, name := range u.symbols.order {
		out = append(out, Symbol{Name: name, Value: u.symbols.values[name]})
	}
	return out
}

// Labels returns the label table in definition order.
func (u *Unit) Labels() []Label {
	out := make([]Label, 0, len(u.labels.order))
	for _, name := range u.labels.order {
		out = append(out, Label{Name: name, Offset: u.labels.values[name]})
	}
	return out
}

// Size is the image size in bytes.
func (u *Unit) Size() int {
	return u.size
}

// Lines returns the source the unit was compiled from, split into lines.
func (u *Unit) Lines() []string {
	return u.lines
}

// Source returns the 1-based source line, or "" if it does not exist.
func (u *Unit) Source(line int) string {
	if line < 1 || line > len(u.lines) {
		return ""
	}
	return u.lines[line-1]
}

// Strings returns a copy of the string table, keyed by offset.
func (u *Unit) Strings() map[int]string {
	out := make(map[int]string, len(u.strings))
	for k, v := range u.strings {
		out[k] = v
	}
	return out
}
