// Package statics implements the Definition's semantic objects that sit
// above typesystem.Ty: value/type/structure environments, the Basis, the
// elaboration Context, and the single mutable State threaded through one
// compilation.
package statics

import "github.com/funvibe/smlfront/internal/typesystem"

// IdStatus classifies what kind of value identifier a ValInfo describes.
type IdStatus int

const (
	StatusVal IdStatus = iota
	StatusCtor
	StatusExn
)

// ValInfo is what the environment knows about one value identifier: its
// (possibly polymorphic) type scheme and its identifier status.
type ValInfo struct {
	Scheme typesystem.TyScheme
	Status IdStatus
}
