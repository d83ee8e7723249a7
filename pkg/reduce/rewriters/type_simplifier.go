package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("typeSimplifier", typeSimplifierHandler{})
}

// typeSimplifierHandler replaces non-primitive DataType nodes with a
// synthesized int keyword node (spec.md §4.8). Unlike every other
// instantiation it replaces rather than removes; ConsiderReplacement
// carries the same cursor bookkeeping as ConsiderRemoval.
type typeSimplifierHandler struct{}

func (typeSimplifierHandler) Name() string { return "typeSimplifier" }

func (typeSimplifierHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindDataType)
}

func (typeSimplifierHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	// Categories() only registers KindDataType; KindPrimitiveDataType
	// (integer types, keyword types, implicit types) is a distinct kind
	// and never reaches here, so every dispatched node is a candidate.
	tr.ConsiderReplacement(n, synthesizedInt(n.Range()))
	return syntax.VisitChildren
}

// intNode is a synthesized primitive-int DataType node with no children,
// a single leading space of trivia, and a source location equal to the
// replaced node's start (spec.md §4.8).
type intNode struct {
	rng syntax.Range
}

func synthesizedInt(orig syntax.Range) syntax.Node {
	return intNode{rng: syntax.Range{Start: orig.Start, End: orig.Start}}
}

func (n intNode) Range() syntax.Range       { return n.rng }
func (n intNode) Kind() syntax.Kind         { return syntax.KindPrimitiveDataType }
func (n intNode) KindName() string          { return "IntType" }
func (n intNode) NumChildren() int          { return 0 }
func (n intNode) Child(int) syntax.Node     { return nil }
func (n intNode) ChildOptional(int) bool    { return false }
func (n intNode) Text() string              { return " int" }
