// Package testsyntax is a minimal in-memory implementation of the
// pkg/reduce/syntax contract, standing in for the real SystemVerilog
// parser/elaborator (out of scope per spec.md §1) in unit tests.
package testsyntax

import (
	"strings"

	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// Node builds a leaf syntax.Node: no children, Text() returns text
// verbatim.
func Node(kind syntax.Kind, kindName, text string, rng syntax.Range) syntax.Node {
	return &node{kind: kind, kindName: kindName, text: text, rng: rng}
}

// Branch builds a syntax.Node with children, all required (non-optional).
func Branch(kind syntax.Kind, kindName string, rng syntax.Range, children ...syntax.Node) syntax.Node {
	optional := make([]bool, len(children))
	return &node{kind: kind, kindName: kindName, rng: rng, children: children, optional: optional}
}

// BranchOptional builds a syntax.Node with children, some of which may
// be legally removed (ChildOptional(i) == true).
func BranchOptional(kind syntax.Kind, kindName string, rng syntax.Range, optional []bool, children ...syntax.Node) syntax.Node {
	return &node{kind: kind, kindName: kindName, rng: rng, children: children, optional: optional}
}

type node struct {
	kind     syntax.Kind
	kindName string
	text     string
	rng      syntax.Range
	children []syntax.Node
	optional []bool
}

func (n *node) Range() syntax.Range    { return n.rng }
func (n *node) Kind() syntax.Kind      { return n.kind }
func (n *node) KindName() string       { return n.kindName }
func (n *node) NumChildren() int       { return len(n.children) }
func (n *node) Text() string           { return n.text }
func (n *node) ChildOptional(i int) bool {
	if i < 0 || i >= len(n.optional) {
		return false
	}
	return n.optional[i]
}

func (n *node) Child(i int) syntax.Node {
	if i < 0 || i >= len(n.children) {
		return nil
	}
	return n.children[i]
}

// NewTree wraps root in a syntax.Tree.
func NewTree(root syntax.Node) syntax.Tree {
	return &tree{root: root}
}

type tree struct {
	root syntax.Node
}

func (t *tree) Root() syntax.Node { return t.root }

func (t *tree) Transform(edits []syntax.Edit) syntax.Tree {
	if len(edits) == 0 {
		return t
	}
	newRoot, changed := applyEdits(t.root, edits)
	if !changed {
		return t
	}
	return &tree{root: newRoot}
}

func (t *tree) Lines(r syntax.Range) int {
	if r.IsNoLocation() {
		return 0
	}
	return r.End.Line - r.Start.Line + 1
}

func (t *tree) Serialize() string {
	var sb strings.Builder
	collectText(t.root, &sb)
	return sb.String()
}

func collectText(n syntax.Node, sb *strings.Builder) {
	if n == nil {
		return
	}
	if n.NumChildren() == 0 {
		sb.WriteString(n.Text())
		return
	}
	for i := 0; i < n.NumChildren(); i++ {
		collectText(n.Child(i), sb)
	}
}

func applyEdits(n syntax.Node, edits []syntax.Edit) (syntax.Node, bool) {
	if n == nil {
		return nil, false
	}
	tn, ok := n.(*node)
	if !ok || tn.NumChildren() == 0 {
		return n, false
	}

	changedAny := false
	newChildren := make([]syntax.Node, len(tn.children))
	for i, c := range tn.children {
		if c == nil {
			continue
		}
		if e, found := findEdit(c.Range(), edits); found {
			newChildren[i] = e.Replacement
			changedAny = true
			continue
		}
		nc, changed := applyEdits(c, edits)
		newChildren[i] = nc
		if changed {
			changedAny = true
		}
	}
	if !changedAny {
		return n, false
	}
	clone := *tn
	clone.children = newChildren
	return &clone, true
}

func findEdit(r syntax.Range, edits []syntax.Edit) (syntax.Edit, bool) {
	for _, e := range edits {
		if e.Target == r {
			return e, true
		}
	}
	return syntax.Edit{}, false
}

// Symbol builds a syntax.Symbol optionally linked back to a node.
func Symbol(name string, originating syntax.Node) syntax.Symbol {
	return &symbol{name: name, node: originating}
}

type symbol struct {
	name string
	node syntax.Node
}

func (s *symbol) Name() string               { return s.name }
func (s *symbol) OriginatingNode() syntax.Node { return s.node }
