package reduce

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/antmicro/sv-bugpoint/internal/testsyntax"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// buildPortTree builds a tiny module with two port-like leaves, standing
// in for the def+use pairs a real Pair/Set Mapper would produce.
func buildPortTree() (tree syntax.Tree, portA, portB, body syntax.Node) {
	portA = testsyntax.Node(syntax.KindPortConnection, "PortConnectionSyntax", "a", rangeAt(1))
	portB = testsyntax.Node(syntax.KindPortConnection, "PortConnectionSyntax", "b", rangeAt(2))
	body = testsyntax.Branch(syntax.KindModuleBody, "ModuleBodySyntax", rangeAt(0), portA, portB)
	return testsyntax.NewTree(body), portA, portB, body
}

func TestSetRewriter(t *testing.T) {
	Convey("SetRewriter", t, func() {
		Convey("removes every range in a set atomically", func() {
			tree, portA, portB, _ := buildPortTree()
			sets := []syntax.RemovalSet{{portA.Range(), portB.Range()}}
			rw := NewSetRewriter(sets)

			So(rw.Remaining(), ShouldEqual, 1)
			candidate, done := rw.Transform(tree)
			So(done, ShouldBeFalse)
			So(len(AllChildren(candidate.Root())), ShouldEqual, 0)
			So(rw.RemovedTag(), ShouldNotBeEmpty)
			So(rw.Remaining(), ShouldEqual, 0)
		})

		Convey("reports traversalDone once every set has been consumed", func() {
			tree, portA, _, _ := buildPortTree()
			sets := []syntax.RemovalSet{{portA.Range()}}
			rw := NewSetRewriter(sets)

			_, done := rw.Transform(tree)
			So(done, ShouldBeFalse)

			candidate, done := rw.Transform(tree)
			So(done, ShouldBeTrue)
			So(candidate, ShouldEqual, tree)
		})

		Convey("skips a set with an unreachable range and moves on to the next", func() {
			tree, portA, _, _ := buildPortTree()
			stale := rangeAt(99)
			sets := []syntax.RemovalSet{{stale}, {portA.Range()}}
			rw := NewSetRewriter(sets)

			candidate, done := rw.Transform(tree)
			So(done, ShouldBeFalse)
			So(len(AllChildren(candidate.Root())), ShouldEqual, 1)
			So(rw.Remaining(), ShouldEqual, 0)
		})

		Convey("a set containing only NoLocation ranges is skipped entirely", func() {
			tree, _, _, _ := buildPortTree()
			sets := []syntax.RemovalSet{{syntax.NoLocation}}
			rw := NewSetRewriter(sets)

			candidate, done := rw.Transform(tree)
			So(done, ShouldBeTrue)
			So(candidate, ShouldEqual, tree)
		})
	})
}
