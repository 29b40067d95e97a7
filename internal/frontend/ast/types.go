package ast

import (
	"baa/internal/source"
)

// TypeSpec is unresolved type syntax: a primitive type keyword, optionally
// wrapped as an array. Resolution belongs to a later stage.
type TypeSpec struct {
	Name      string // the primitive type keyword as written
	IsArray   bool
	ArraySize Expression // nil for unsized arrays
	source.Location
}

func (t *TypeSpec) INode()                {}
func (t *TypeSpec) Loc() *source.Location { return &t.Location }
