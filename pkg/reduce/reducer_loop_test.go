package reduce

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/trace"
)

// fakeOracle accepts every candidate, or rejects every candidate when
// rejectAll is set.
type fakeOracle struct {
	rejectAll bool
}

func (f *fakeOracle) Test(idx int, candidate syntax.Tree, attemptIndex uint64) (bool, error) {
	return !f.rejectAll, nil
}

func (f *fakeOracle) TestRaw(idx int, text string, attemptIndex uint64) (bool, error) {
	return !f.rejectAll, nil
}

func newTracker() (*trace.Tracker, *trace.Counter) {
	return trace.NewTracker(discard{}), &trace.Counter{}
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }

func TestRunSingleSite(t *testing.T) {
	Convey("RunSingleSite", t, func() {
		tracker, counter := newTracker()

		Convey("drives the rewriter to exhaustion, committing every accepted candidate", func() {
			tree := buildStatementTree()
			rw := NewOneTimeRewriter(statementRemover{}, NewCursor(), DefaultSieve())
			oracle := &fakeOracle{}

			final, committedAny, err := RunSingleSite(rw, tree, oracle, 0, 1, "testStatementRemover", "in.sv", counter, tracker)
			So(err, ShouldBeNil)
			So(committedAny, ShouldBeTrue)
			So(len(AllChildren(final.Root())), ShouldEqual, 1)
		})

		Convey("rolls back every attempt when the oracle rejects everything", func() {
			tree := buildStatementTree()
			rw := NewOneTimeRewriter(statementRemover{}, NewCursor(), DefaultSieve())
			oracle := &fakeOracle{rejectAll: true}

			final, committedAny, err := RunSingleSite(rw, tree, oracle, 0, 1, "testStatementRemover", "in.sv", counter, tracker)
			So(err, ShouldBeNil)
			So(committedAny, ShouldBeFalse)
			So(final, ShouldEqual, tree)
		})
	})
}

func TestRunBatch(t *testing.T) {
	Convey("RunBatch", t, func() {
		tracker, counter := newTracker()

		Convey("commits every reachable set and stops once all are consumed", func() {
			tree, portA, portB, _ := buildPortTree()
			sets := []syntax.RemovalSet{{portA.Range()}, {portB.Range()}}
			rw := NewSetRewriter(sets)
			oracle := &fakeOracle{}

			final, committedAny, err := RunBatch(rw, tree, oracle, 0, 1, "testPortsRemover", "in.sv", counter, tracker)
			So(err, ShouldBeNil)
			So(committedAny, ShouldBeTrue)
			So(len(AllChildren(final.Root())), ShouldEqual, 0)
		})

		Convey("rejecting every set leaves the tree unchanged but still exhausts", func() {
			tree, portA, portB, _ := buildPortTree()
			sets := []syntax.RemovalSet{{portA.Range()}, {portB.Range()}}
			rw := NewSetRewriter(sets)
			oracle := &fakeOracle{rejectAll: true}

			final, committedAny, err := RunBatch(rw, tree, oracle, 0, 1, "testPortsRemover", "in.sv", counter, tracker)
			So(err, ShouldBeNil)
			So(committedAny, ShouldBeFalse)
			So(final, ShouldEqual, tree)
		})
	})
}
