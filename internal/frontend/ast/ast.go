package ast

import (
	"baa/internal/source"
)

// Node is any element of the syntax tree. Nodes own their children; the
// only borrowed pointer in the tree is the type descriptor inside literals.
type Node interface {
	INode()
	Loc() *source.Location
}

// Expression represents any node that produces a value
type Expression interface {
	Node
	Expr()
}

// Statement represents any node that doesn't produce a value
type Statement interface {
	Node
	Stmt()
}

// Program is the root node: the sequence of top-level declarations and
// statements of one translation unit.
type Program struct {
	FilePath     string
	Declarations []Node
	source.Location
}

func (p *Program) INode()                {}
func (p *Program) Loc() *source.Location { return &p.Location }

// Append adds a top-level node to the program.
func (p *Program) Append(n Node) {
	p.Declarations = append(p.Declarations, n)
}
