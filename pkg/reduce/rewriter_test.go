package reduce

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/antmicro/sv-bugpoint/internal/testsyntax"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// statementRemover is a minimal Handler fixture: it removes any optional
// KindStatement leaf it visits, mirroring the shape of the real
// rewriters in pkg/reduce/rewriters without depending on that package
// (which itself imports pkg/reduce).
type statementRemover struct{}

func (statementRemover) Name() string                  { return "testStatementRemover" }
func (statementRemover) Categories() []syntax.Kind      { return []syntax.Kind{syntax.KindStatement} }
func (statementRemover) Handle(tr *OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}

// noOpHandler matches a Kind absent from every fixture tree in this
// file, so its traversal always runs to sieve exhaustion without ever
// finding a candidate.
type noOpHandler struct{}

func (noOpHandler) Name() string             { return "testNoOpHandler" }
func (noOpHandler) Categories() []syntax.Kind { return []syntax.Kind{syntax.KindModuleDecl} }
func (noOpHandler) Handle(tr *OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	return syntax.VisitChildren
}

// buildStatementTree builds: ModuleBody [optional Statement@1, required
// Statement@2, optional Statement@3].
func buildStatementTree() syntax.Tree {
	s1 := testsyntax.Node(syntax.KindStatement, "StatementSyntax", "a;", rangeAt(1))
	s2 := testsyntax.Node(syntax.KindStatement, "StatementSyntax", "b;", rangeAt(2))
	s3 := testsyntax.Node(syntax.KindStatement, "StatementSyntax", "c;", rangeAt(3))
	root := testsyntax.BranchOptional(syntax.KindModuleBody, "ModuleBodySyntax", rangeAt(0),
		[]bool{true, false, true}, s1, s2, s3)
	return testsyntax.NewTree(root)
}

func TestOneTimeRewriter(t *testing.T) {
	Convey("OneTimeRewriter", t, func() {
		Convey("removes one optional statement per Transform call", func() {
			tree := buildStatementTree()
			cursor := NewCursor()
			rw := NewOneTimeRewriter(statementRemover{}, cursor, DefaultSieve())

			candidate, done := rw.Transform(tree)
			So(done, ShouldBeFalse)
			So(candidate, ShouldNotEqual, tree)
			So(rw.RemovedKind(), ShouldEqual, syntax.KindStatement)
			So(len(AllChildren(candidate.Root())), ShouldEqual, 2)
		})

		Convey("skips the non-optional statement and exhausts after the optional ones are gone", func() {
			tree := buildStatementTree()
			cursor := NewCursor()
			rw := NewOneTimeRewriter(statementRemover{}, cursor, DefaultSieve())

			current := tree
			removed := 0
			for {
				candidate, done := rw.Transform(current)
				if done {
					break
				}
				current = candidate
				cursor.AdvanceOnCommit()
				removed++
				if removed > 10 {
					t.Fatal("traversal did not converge")
				}
			}
			So(removed, ShouldEqual, 2)
			remaining := AllChildren(current.Root())
			So(len(remaining), ShouldEqual, 1)
			So(remaining[0].Text(), ShouldEqual, "b;")
		})

		Convey("a handler matching no node category exhausts the sieve without editing", func() {
			tree := buildStatementTree()
			cursor := NewCursor()
			rw := NewOneTimeRewriter(noOpHandler{}, cursor, DefaultSieve())

			candidate, done := rw.Transform(tree)
			So(done, ShouldBeTrue)
			So(candidate, ShouldEqual, tree)
		})
	})
}

func TestConsiderChildListRemoval(t *testing.T) {
	Convey("ConsiderChildListRemoval", t, func() {
		s1 := testsyntax.Node(syntax.KindStatement, "StatementSyntax", "a;", rangeAt(1))
		s2 := testsyntax.Node(syntax.KindStatement, "StatementSyntax", "b;", rangeAt(2))
		body := testsyntax.Branch(syntax.KindFunctionBody, "FunctionBodySyntax", rangeAt(0), s1, s2)
		tree := testsyntax.NewTree(body)

		rw := NewOneTimeRewriter(statementRemover{}, NewCursor(), SizeSieve{Lower: 0, Upper: 0})
		rw.tree = tree

		ok := rw.ConsiderChildListRemoval(body, AllChildren(body))
		So(ok, ShouldBeTrue)
		So(rw.Cursor().RewritePoint, ShouldResemble, body.Range())
		So(rw.removedKind, ShouldEqual, syntax.KindFunctionBody)
	})
}
