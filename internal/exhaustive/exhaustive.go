// Package exhaustive implements the matrix "usefulness" check used to
// decide whether a sequence of patterns is exhaustive and whether any
// pattern is made unreachable by the ones before it.
package exhaustive

import "github.com/funvibe/smlfront/internal/typesystem"

// Kind classifies one Pat node for the purposes of specialization.
type Kind int

const (
	Wildcard Kind = iota
	Ctor
	Literal
	Record
)

// Pat is a simplified, type-erased shape of one source pattern: enough
// structure to drive usefulness, nothing else. Or-patterns do not exist in
// Standard ML so there is no corresponding case here.
//
// Sym identifies the datatype a Ctor pattern's constructor belongs to —
// every constructor of one datatype shares the same Sym, so Name (not Sym)
// is what distinguishes one constructor from its siblings.
type Pat struct {
	Kind Kind
	Sym  typesystem.Sym // valid when Kind == Ctor: the owning datatype's Sym
	Name string         // constructor name (Ctor) or synthetic literal key (Literal)
	Args []Pat          // sub-patterns: 0 or 1 for Ctor, len(fields) for Record
}

// Sibling describes one constructor of the datatype another constructor
// belongs to, for completeness checking.
type Sibling struct {
	Sym   typesystem.Sym
	Name  string
	Arity int // 0 (nullary) or 1 (carries one, possibly tupled, argument)
}

// Completion returns every sibling constructor of the datatype that sym
// belongs to (including sym itself).
type Completion func(sym typesystem.Sym) []Sibling

// Result is the outcome of checking one match's rules in order.
type Result struct {
	Exhaustive  bool
	Unreachable []int // indices into the input pats slice
}

// Check runs the usefulness algorithm over pats (one pattern per match
// rule, in source order) and reports whether the sequence is exhaustive
// and which rules (if any) are unreachable given the ones before them.
func Check(pats []Pat, complete Completion) Result {
	var res Result
	matrix := make([][]Pat, 0, len(pats))
	for i, p := range pats {
		row := []Pat{p}
		if !useful(matrix, row, complete) {
			res.Unreachable = append(res.Unreachable, i)
		}
		matrix = append(matrix, row)
	}
	wildcardRow := []Pat{{Kind: Wildcard}}
	res.Exhaustive = !useful(matrix, wildcardRow, complete)
	return res
}

// useful reports whether q is useful with respect to matrix: whether
// there is a value matched by q that no row of matrix matches.
func useful(matrix [][]Pat, q []Pat, complete Completion) bool {
	if len(q) == 0 {
		return len(matrix) == 0
	}
	head := q[0]
	switch head.Kind {
	case Ctor, Literal, Record:
		specMatrix := specialize(matrix, head, complete)
		specQ := append(append([]Pat{}, head.Args...), q[1:]...)
		return useful(specMatrix, specQ, complete)
	default: // Wildcard
		heads := headsIn(matrix)
		if headsComplete(heads, complete) {
			for _, h := range heads {
				specMatrix := specialize(matrix, h, complete)
				specQ := make([]Pat, h.arity())
				for i := range specQ {
					specQ[i] = Pat{Kind: Wildcard}
				}
				specQ = append(specQ, q[1:]...)
				if useful(specMatrix, specQ, complete) {
					return true
				}
			}
			return false
		}
		d := defaultMatrix(matrix)
		return useful(d, q[1:], complete)
	}
}

func (p Pat) arity() int { return len(p.Args) }

// headsIn collects the distinct non-wildcard head patterns occurring in
// matrix's first column.
func headsIn(matrix [][]Pat) []Pat {
	var out []Pat
	seen := map[string]bool{}
	for _, row := range matrix {
		if len(row) == 0 {
			continue
		}
		h := row[0]
		if h.Kind == Wildcard {
			continue
		}
		key := headKey(h)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, h)
	}
	return out
}

func headKey(p Pat) string {
	switch p.Kind {
	case Ctor:
		return "c:" + p.Name
	case Literal:
		return "l:" + p.Name
	case Record:
		return "r"
	default:
		return "w"
	}
}

// headsComplete reports whether heads covers every constructor of its
// datatype (Record is always trivially complete: a record type has
// exactly one shape; Literal is never complete, since int/string/char/real
// literal sets are open).
func headsComplete(heads []Pat, complete Completion) bool {
	if len(heads) == 0 {
		return false
	}
	switch heads[0].Kind {
	case Record:
		return true
	case Literal:
		return false
	case Ctor:
		all := complete(heads[0].Sym)
		if all == nil {
			return false
		}
		seen := map[string]bool{}
		for _, h := range heads {
			seen[h.Name] = true
		}
		for _, s := range all {
			if !seen[s.Name] {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// specialize builds the specialized matrix for head: every row whose
// first pattern is compatible with head, with that first column expanded
// into head's sub-patterns (or wildcards standing in for them, for a row
// that started with a wildcard).
func specialize(matrix [][]Pat, head Pat, complete Completion) [][]Pat {
	arity := head.arity()
	if head.Kind == Ctor {
		arity = ctorArity(head, complete)
	}
	var out [][]Pat
	for _, row := range matrix {
		if len(row) == 0 {
			continue
		}
		first, rest := row[0], row[1:]
		switch first.Kind {
		case Wildcard:
			newRow := make([]Pat, 0, arity+len(rest))
			for i := 0; i < arity; i++ {
				newRow = append(newRow, Pat{Kind: Wildcard})
			}
			newRow = append(newRow, rest...)
			out = append(out, newRow)
		default:
			if headKey(first) != headKey(head) {
				continue
			}
			newRow := make([]Pat, 0, len(first.Args)+len(rest))
			newRow = append(newRow, first.Args...)
			newRow = append(newRow, rest...)
			out = append(out, newRow)
		}
	}
	return out
}

func ctorArity(head Pat, complete Completion) int {
	for _, s := range complete(head.Sym) {
		if s.Name == head.Name {
			return s.Arity
		}
	}
	return head.arity()
}

// defaultMatrix drops every row whose first pattern is not a wildcard, and
// drops that column from the rows that remain.
func defaultMatrix(matrix [][]Pat) [][]Pat {
	var out [][]Pat
	for _, row := range matrix {
		if len(row) == 0 {
			continue
		}
		if row[0].Kind == Wildcard {
			out = append(out, row[1:])
		}
	}
	return out
}
