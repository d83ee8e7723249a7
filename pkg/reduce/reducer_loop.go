package reduce

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/trace"
)

// SingleSiteTransformer is satisfied by *OneTimeRewriter.
type SingleSiteTransformer interface {
	Transform(t syntax.Tree) (candidate syntax.Tree, traversalDone bool)
	Cursor() *Cursor
	RemovedKind() syntax.Kind
}

// BatchTransformer is satisfied by *SetRewriter.
type BatchTransformer interface {
	Transform(t syntax.Tree) (candidate syntax.Tree, traversalDone bool)
	RemovedTag() string
}

// Oracle is the subset of oracle.Runner the reducer loop needs, kept as
// an interface here so pkg/reduce does not import pkg/reduce/oracle
// (avoiding a dependency cycle risk and keeping the loop testable
// against a fake).
type Oracle interface {
	Test(idx int, candidate syntax.Tree, attemptIndex uint64) (accepted bool, err error)
	TestRaw(idx int, text string, attemptIndex uint64) (accepted bool, err error)
}

// RunSingleSite drives one OneTimeRewriter instance to traversal
// exhaustion against the input at inputIdx, per spec.md §4.6: repeatedly
// transform, test with the oracle, and commit or roll back. It returns
// the final current tree and whether any attempt committed.
func RunSingleSite(rw SingleSiteTransformer, current syntax.Tree, oracle Oracle, inputIdx int, pass int, stage, inputFile string, counter *trace.Counter, tr *trace.Tracker) (syntax.Tree, bool, error) {
	committedAny := false
	for {
		candidate, traversalDone := rw.Transform(current)
		if traversalDone && candidate == current {
			break
		}

		idx := counter.Next()
		rec := tr.Begin(pass, stage, current.Lines(current.Root().Range()), inputFile, idx)
		accepted, err := oracle.Test(inputIdx, candidate, idx)
		if err != nil {
			return current, committedAny, err
		}

		linesAfter := candidate.Lines(candidate.Root().Range())
		typeTag := ""
		if accepted {
			typeTag = kindName(rw.RemovedKind())
		}
		tr.End(rec, accepted, linesAfter, typeTag)

		if accepted {
			current = candidate
			rw.Cursor().AdvanceOnCommit()
			committedAny = true
		} else {
			rw.Cursor().AdvanceOnRollback()
		}

		if traversalDone {
			break
		}
	}
	return current, committedAny, nil
}

// RunBatch drives one SetRewriter instance (the Pair/Set family) to
// exhaustion, per spec.md §4.6. Unlike the single-site family there is
// no cursor to advance: popping the next removal set on the following
// Transform call is itself the advance, whether the attempt committed
// or not.
func RunBatch(rw BatchTransformer, current syntax.Tree, oracle Oracle, inputIdx int, pass int, stage, inputFile string, counter *trace.Counter, tr *trace.Tracker) (syntax.Tree, bool, error) {
	committedAny := false
	for {
		candidate, traversalDone := rw.Transform(current)
		if traversalDone && candidate == current {
			break
		}

		idx := counter.Next()
		rec := tr.Begin(pass, stage, current.Lines(current.Root().Range()), inputFile, idx)
		accepted, err := oracle.Test(inputIdx, candidate, idx)
		if err != nil {
			return current, committedAny, err
		}

		linesAfter := candidate.Lines(candidate.Root().Range())
		typeTag := ""
		if accepted {
			typeTag = rw.RemovedTag()
			current = candidate
			committedAny = true
		}
		tr.End(rec, accepted, linesAfter, typeTag)

		if traversalDone {
			break
		}
	}
	return current, committedAny, nil
}

// kindLabels names every syntax.Kind for the trace's type_info column.
// Kind itself carries no string (that's Node.KindName, only available
// while the node still exists); the reducer loop only has the Kind of
// whatever was just removed, so it needs its own lookup.
var kindLabels = map[syntax.Kind]string{
	syntax.KindOther:                 "other",
	syntax.KindModuleDecl:            "module-decl",
	syntax.KindClassBody:             "class-body",
	syntax.KindFunctionBody:          "function-body",
	syntax.KindModuleBody:            "module-body",
	syntax.KindBlockBody:             "block-body",
	syntax.KindLoopGenerate:          "loop-generate",
	syntax.KindConcurrentAssertion:   "concurrent-assertion",
	syntax.KindElseClause:            "else-clause",
	syntax.KindFunctionDecl:          "function-decl",
	syntax.KindModuleDeclHeader:      "module-decl-header",
	syntax.KindTypedefDecl:           "typedef-decl",
	syntax.KindClassDecl:             "class-decl",
	syntax.KindExtendsClause:         "extends-clause",
	syntax.KindImplementsClause:      "implements-clause",
	syntax.KindConstraintDecl:        "constraint-decl",
	syntax.KindMethodDecl:            "method-decl",
	syntax.KindMethodPrototype:       "method-prototype",
	syntax.KindProceduralBlock:       "procedural-block",
	syntax.KindStatement:             "statement",
	syntax.KindLocalVarDecl:          "local-var-decl",
	syntax.KindPackageImport:         "package-import",
	syntax.KindDataDecl:              "data-decl",
	syntax.KindNetDecl:               "net-decl",
	syntax.KindStructUnionMember:     "struct-union-member",
	syntax.KindDeclarator:            "declarator",
	syntax.KindParameterDecl:         "parameter-decl",
	syntax.KindClassProperty:         "class-property",
	syntax.KindParamAssignment:       "param-assignment",
	syntax.KindContinuousAssign:      "continuous-assign",
	syntax.KindModportDecl:           "modport-decl",
	syntax.KindHierarchyInstantiation: "hierarchy-instantiation",
	syntax.KindBindDirective:         "bind-directive",
	syntax.KindNamedBlockEndLabel:    "named-block-end-label",
	syntax.KindDataType:              "data-type",
	syntax.KindPrimitiveDataType:     "primitive-data-type",
	syntax.KindPortConnection:        "port-connection",
}

func kindName(k syntax.Kind) string {
	if s, ok := kindLabels[k]; ok {
		return s
	}
	return "unknown"
}
