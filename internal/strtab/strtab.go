// Package strtab interns identifier spellings into small integer handles.
package strtab

// StrId is an opaque handle into a Table. The zero value is the handle of
// "=", the first reserved identifier (see Eq).
type StrId int

// Table interns strings to StrIds and back. Not safe for concurrent use;
// a compilation owns exactly one Table.
type Table struct {
	byName map[string]StrId
	names  []string
}

// NewTable returns an empty Table with the reserved identifiers already
// interned, so their StrId values are stable across any Table instance.
func NewTable() *Table {
	t := &Table{byName: make(map[string]StrId), names: nil}
	for _, name := range reservedOrder {
		t.Intern(name)
	}
	return t
}

// Intern returns the StrId for name, allocating one if this is the first
// occurrence.
func (t *Table) Intern(name string) StrId {
	if id, ok := t.byName[name]; ok {
		return id
	}
	id := StrId(len(t.names))
	t.names = append(t.names, name)
	t.byName[name] = id
	return id
}

// Lookup reverses Intern. Panics on an id this Table never issued.
func (t *Table) Lookup(id StrId) string {
	return t.names[id]
}

// TryLookup is the non-panicking form of Lookup.
func (t *Table) TryLookup(id StrId) (string, bool) {
	if int(id) < 0 || int(id) >= len(t.names) {
		return "", false
	}
	return t.names[id], true
}

// reservedOrder fixes the allocation order of the well-known identifiers
// the grammar and checker need stable handles for. The order only matters
// in that it determines the numeric value of the exported constants below;
// callers must never hardcode those numbers themselves.
var reservedOrder = []string{
	"=", "::", "ref", "true", "false", "nil",
	"+", "-", "*", "/", "div", "mod",
	"<", ">", "<=", ">=", ":=",
}

// Reserved StrIds, stable across every Table (NewTable interns them in the
// same order every time). Mirrors the associated StrRef constants the
// Rust original carries for these same identifiers.
var (
	Eq    = StrId(0)
	Cons  = StrId(1)
	Ref   = StrId(2)
	True  = StrId(3)
	False = StrId(4)
	Nil   = StrId(5)
	Plus  = StrId(6)
	Minus = StrId(7)
	Star  = StrId(8)
	Slash = StrId(9)
	Div   = StrId(10)
	Mod   = StrId(11)
	Lt    = StrId(12)
	Gt    = StrId(13)
	Le    = StrId(14)
	Ge    = StrId(15)
	Assign = StrId(16)
)
