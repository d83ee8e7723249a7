// Package syntax declares the contract the reduction engine requires of an
// external SystemVerilog parser/elaborator. The parser and elaborator
// themselves are out of scope for this repository (spec.md §1); this
// package only describes what the engine needs from them.
package syntax

import "fmt"

// Position is an absolute offset into a source file's token stream,
// expressed as a byte offset plus a 1-based line for diagnostics.
type Position struct {
	Offset int
	Line   int
	Col    int
}

// Range is a pair of absolute source positions identifying a syntactic
// region. Ranges are value-comparable: the engine keys node identity off
// ranges rather than pointer identity, because rewrites allocate fresh
// nodes that inherit the original's range (spec.md §3).
type Range struct {
	Start Position
	End   Position
}

// NoLocation denotes "absent" (spec.md §3).
var NoLocation = Range{}

// RemovalSet is an ordered collection of ranges that must be removed
// together because they are semantically coupled (spec.md §3): ports
// def+use, extern prototype+impl, struct field def+initializer, formal
// arg+all call-site arguments. Produced by the mapper package, consumed
// by the SetRewriter.
type RemovalSet []Range

// IsNoLocation reports whether r is the distinguished absent value.
func (r Range) IsNoLocation() bool {
	return r == NoLocation
}

func (r Range) String() string {
	if r.IsNoLocation() {
		return "<no-location>"
	}
	return fmt.Sprintf("%d:%d-%d:%d", r.Start.Line, r.Start.Col, r.End.Line, r.End.Col)
}

// Kind tags the shape of a SyntaxNode. The real parser owns the
// exhaustive list; the engine only switches on the subset named in
// spec.md §4.4's rewriter table. Values beyond KindOther are free for an
// adapter to define (e.g. as iota ranges above KindOther).
type Kind int

const (
	KindOther Kind = iota
	KindModuleDecl
	KindClassBody
	KindFunctionBody
	KindModuleBody
	KindBlockBody
	KindLoopGenerate
	KindConcurrentAssertion
	KindElseClause
	KindFunctionDecl
	KindModuleDeclHeader
	KindTypedefDecl
	KindClassDecl
	KindExtendsClause
	KindImplementsClause
	KindConstraintDecl
	KindMethodDecl
	KindMethodPrototype
	KindProceduralBlock
	KindStatement
	KindLocalVarDecl
	KindPackageImport
	KindDataDecl
	KindNetDecl
	KindStructUnionMember
	KindDeclarator
	KindParameterDecl
	KindClassProperty
	KindParamAssignment
	KindContinuousAssign
	KindModportDecl
	KindHierarchyInstantiation
	KindBindDirective
	KindNamedBlockEndLabel
	KindDataType
	KindPrimitiveDataType
	KindPortConnection
)

// Node is a single syntax-tree node (spec.md §3).
type Node interface {
	// Range is this node's source range.
	Range() Range
	// Kind identifies this node's shape for rewriter dispatch.
	Kind() Kind
	// KindName returns a human-readable name for Kind(). The debug
	// dumpers do not call it; they use debug.KindName(Kind())
	// (SPEC_FULL.md §C.2).
	KindName() string
	// NumChildren returns the number of child slots. Children are
	// ordered in source order.
	NumChildren() int
	// Child returns the i'th child, or nil if that slot is empty.
	Child(i int) Node
	// ChildOptional reports whether the i'th child slot was marked
	// optional by its parent — i.e. removing it is a syntactically
	// legal edit (spec.md §3, §4.4).
	ChildOptional(i int) bool
	// Text serializes this node back to source text.
	Text() string
}

// Visitor double-dispatches on a Node's Kind (spec.md §3: "visit(visitor)
// dispatch that double-dispatches to a typed handler"). VisitResult
// controls whether the traversal descends into the visited node's
// children.
type Visitor interface {
	Visit(n Node) VisitResult
}

// VisitResult is returned by a Visitor's handler.
type VisitResult int

const (
	VisitChildren VisitResult = iota
	DontVisitChildren
)

// Edit describes a single modification to be applied when materializing
// a candidate Tree: either the removal of a node (optionally one of
// several children removed from a list in one go) or the wholesale
// replacement of a node with a freshly synthesized one.
type Edit struct {
	Target      Range
	Replacement Node // nil for a removal
}

// Tree is an immutable, shareable syntax-tree snapshot (spec.md §3). A
// Transform call produces a new Tree; trees are treated as values. The
// adapter must guarantee: a transformed tree is identity-equal to its
// input iff no edits were applied (the "cheap identity check" invariant
// spec.md requires of Transform's caller).
type Tree interface {
	Root() Node
	// Transform returns a new Tree with every given edit applied. If
	// edits is empty, Transform must return the receiver itself
	// (pointer-equal), not a copy, so callers can test "unchanged" with
	// a cheap identity comparison.
	Transform(edits []Edit) Tree
	// Lines returns the serialized line count of the given range within
	// this tree (used by the size sieve).
	Lines(r Range) int
	// Serialize returns the tree's full source text.
	Serialize() string
}

// Symbol is an elaborated semantic artifact (ports, subroutines, formal
// arguments, …). It optionally links back to the SyntaxNode it
// originated from (spec.md §3).
type Symbol interface {
	Name() string
	OriginatingNode() Node // nil if this symbol has no syntax link
}

// SourceManager loads a Tree from a file path. OuterMinimizer calls Load
// on the same SourceManager every outer-loop iteration, so Load must
// return the file's current content on disk each time; the real parser
// caches file content by path, so an implementation over it creates a
// fresh parser source manager per Load. Load must also replace the first token's leading
// line-comment trivia with empty-text trivia of the same line count, so
// a comment at the top of the file is never treated as un-removable
// prelude while source ranges stay stable (spec.md §4.7).
type SourceManager interface {
	Load(path string) (Tree, error)
}

// Elaborator produces a fully-elaborated semantic view of a Tree. It is
// the counterpart of the out-of-scope parser that the Pair/Set Mapper
// (spec.md §4.3) depends on.
type Elaborator interface {
	Elaborate(t Tree) (Program, error)
}

// Program is the elaborated result: the symbols the four mappers in
// spec.md §4.3 need.
type Program interface {
	MethodPrototypes() []MethodPrototype
	ModuleInstances() []ModuleInstance
	StructAssignmentPatterns() []StructAssignmentPattern
	Subroutines() []Subroutine
	CallExpressions() []CallExpression

	// ForceElaborate forces an artificial "invalid specialization" of a
	// generic class so its body's members become visible, per
	// SPEC_FULL.md §C.4 / spec.md §4.3's external-method mapper note.
	ForceElaborate(proto MethodPrototype) (Symbol, error)
}

// MethodPrototype is an extern method prototype symbol, optionally
// paired with its out-of-line implementation.
type MethodPrototype struct {
	Symbol
	Implementation Symbol // nil if no out-of-line body is bound yet
	GenericClass   Symbol // nil if not a member of a generic class
	Specializations int
}

// ModuleInstance is an elaborated hierarchy instantiation, used by the
// port mapper.
type ModuleInstance struct {
	Symbol
	Ports []PortBinding
}

// PortBinding couples a port definition with its (optional) connection.
type PortBinding struct {
	PortDef        Symbol
	Connection     Symbol // nil if the port is declared but unconnected
	ConnectionExpr Range  // the inner expression range of the PortConnectionSyntax
}

// StructAssignmentPattern is a structured-assignment-pattern expression,
// used by the struct-field mapper.
type StructAssignmentPattern struct {
	Setters []FieldSetter
}

// FieldSetter couples a struct field's declaration with its initializer
// inside one assignment pattern.
type FieldSetter struct {
	FieldDef  Symbol
	FieldInit Symbol
}

// Subroutine is a function/task symbol (system calls are excluded by the
// adapter), used by the formal-argument mapper.
type Subroutine struct {
	Symbol
	Formals []Symbol
}

// CallExpression is a call site, used by the formal-argument mapper to
// find each formal's paired actual-argument ranges.
type CallExpression struct {
	Callee Symbol
	Args   []Symbol
}
