package ast

import (
	"baa/internal/source"
)

// Parameter is one `type name` pair in a function definition.
type Parameter struct {
	Type *TypeSpec
	Name string
	source.Location
}

func (p *Parameter) INode()                {}
func (p *Parameter) Loc() *source.Location { return &p.Location }

// FunctionDecl is a full function definition with its body.
type FunctionDecl struct {
	Modifiers  Modifiers
	ReturnType *TypeSpec
	Name       string
	Parameters []*Parameter
	Body       *BlockStmt
	source.Location
}

func (f *FunctionDecl) INode()                {}
func (f *FunctionDecl) Stmt()                 {}
func (f *FunctionDecl) Loc() *source.Location { return &f.Location }
