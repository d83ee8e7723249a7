package mapper

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/antmicro/sv-bugpoint/internal/testsyntax"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// countingElaborator wraps a testsyntax.Elaborator fixture and counts how
// many times Elaborate actually ran, so request-coalescing can be
// observed.
type countingElaborator struct {
	inner syntax.Elaborator
	calls int
}

func (e *countingElaborator) Elaborate(t syntax.Tree) (syntax.Program, error) {
	e.calls++
	return e.inner.Elaborate(t)
}

func TestElaborationCache(t *testing.T) {
	Convey("ElaborationCache", t, func() {
		Convey("reuses the result for repeated calls with the same key", func() {
			elab := &countingElaborator{inner: &testsyntax.Elaborator{Program: &testsyntax.Program{}}}
			cache := NewElaborationCache(elab)

			p1, err1 := cache.Elaborate("gen-1", nil)
			p2, err2 := cache.Elaborate("gen-1", nil)

			So(err1, ShouldBeNil)
			So(err2, ShouldBeNil)
			So(p1, ShouldEqual, p2)
			So(elab.calls, ShouldEqual, 1)
		})

		Convey("re-elaborates under a different key", func() {
			elab := &countingElaborator{inner: &testsyntax.Elaborator{Program: &testsyntax.Program{}}}
			cache := NewElaborationCache(elab)

			cache.Elaborate("gen-1", nil)
			cache.Elaborate("gen-2", nil)

			So(elab.calls, ShouldEqual, 2)
		})

		Convey("Forget forces the next call for the same key to re-elaborate", func() {
			elab := &countingElaborator{inner: &testsyntax.Elaborator{Program: &testsyntax.Program{}}}
			cache := NewElaborationCache(elab)

			cache.Elaborate("gen-1", nil)
			cache.Forget("gen-1")
			cache.Elaborate("gen-1", nil)

			So(elab.calls, ShouldEqual, 2)
		})

		Convey("propagates the underlying elaborator's error", func() {
			elab := &countingElaborator{inner: &testsyntax.Elaborator{Err: testsyntax.ErrElaborationFailed}}
			cache := NewElaborationCache(elab)

			p, err := cache.Elaborate("gen-1", nil)
			So(err, ShouldNotBeNil)
			So(p, ShouldBeNil)
		})
	})
}
