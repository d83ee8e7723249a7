package reduce

import "github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"

// Handler is one instantiation of the OneTimeRewriter family (spec.md
// §4.4): a set of handled node categories, dispatched via typed handlers
// that call ConsiderRemoval/ConsiderChildListRemoval/ConsiderReplacement
// at most once per Transform. Grounded on pkg/graft/operators/op_grab.go's
// per-operator Setup/Phase/Run shape — here, Categories/Name/Handle.
type Handler interface {
	// Name identifies this rewriter instantiation for the trace and the
	// pass orchestrator's stage sequence (spec.md §2.6).
	Name() string
	// Categories lists the syntax.Kind values this instantiation cares
	// about.
	Categories() []syntax.Kind
	// Handle is invoked when the currently visited node's Kind is one of
	// Categories() and the traversal state permits handling. It may call
	// tr.ConsiderRemoval / tr.ConsiderChildListRemoval /
	// tr.ConsiderReplacement and returns whether the traversal should
	// still descend into this node's children.
	Handle(tr *OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult
}

// OneTimeRewriter drives one Handler's traversal/cursor state machine
// over a single Tree (spec.md §4.4). A fresh instance is created per
// reducer loop (spec.md §3 Lifecycle: "rewriter objects are created
// fresh at each stage").
type OneTimeRewriter struct {
	handler    Handler
	categories map[syntax.Kind]bool
	cursor     *Cursor
	sieve      SizeSieve

	tree syntax.Tree

	pendingEdits []syntax.Edit
	removedKind  syntax.Kind
}

// NewOneTimeRewriter constructs a fresh rewriter instance for handler,
// starting at the given cursor (carried across reducer-loop iterations)
// and sieve (reset to DefaultSieve() at the start of a stage).
func NewOneTimeRewriter(handler Handler, cursor *Cursor, sieve SizeSieve) *OneTimeRewriter {
	cats := make(map[syntax.Kind]bool, len(handler.Categories()))
	for _, k := range handler.Categories() {
		cats[k] = true
	}
	return &OneTimeRewriter{handler: handler, categories: cats, cursor: cursor, sieve: sieve}
}

// Sieve returns the rewriter's current size sieve.
func (r *OneTimeRewriter) Sieve() SizeSieve { return r.sieve }

// Cursor returns the rewriter's cursor (for the reducer loop to call
// AdvanceOnCommit/AdvanceOnRollback between attempts).
func (r *OneTimeRewriter) Cursor() *Cursor { return r.cursor }

// RemovedKind returns the syntax.Kind of the node targeted by the last
// successful Transform call, for the Attempt Record's type tag.
func (r *OneTimeRewriter) RemovedKind() syntax.Kind { return r.removedKind }

// ConsiderRemoval is called by a Handle implementation to propose
// removing a single optional child node. Returns true iff the proposal
// was accepted as this Transform's one edit.
func (r *OneTimeRewriter) ConsiderRemoval(n syntax.Node, isOptional bool) bool {
	rng := n.Range()
	if !eligible(r.cursor, isOptional, r.tree.Lines(rng), r.sieve) {
		return false
	}
	r.cursor.markRemoval(rng)
	r.pendingEdits = []syntax.Edit{{Target: rng}}
	r.removedKind = n.Kind()
	return true
}

// ConsiderChildListRemoval is called by a Handle implementation to
// propose removing every child in list in one edit (e.g. emptying a
// function body). The subtree must be non-empty. Per spec.md §9's open
// question, the rewrite point recorded is the parent's range, not any
// individual child's. When the handler then lets the traversal descend
// (bodyRemover does), the parent's first child is recorded as the
// ChildFallback, so a rollback resumes inside the parent at that child.
func (r *OneTimeRewriter) ConsiderChildListRemoval(parent syntax.Node, list []syntax.Node) bool {
	if len(list) == 0 {
		return false
	}
	rng := parent.Range()
	if r.cursor.State != RemovalAllowed || !r.sieve.Eligible(r.tree.Lines(rng)) {
		return false
	}
	r.cursor.markRemoval(rng)
	edits := make([]syntax.Edit, 0, len(list))
	for _, c := range list {
		edits = append(edits, syntax.Edit{Target: c.Range()})
	}
	r.pendingEdits = edits
	r.removedKind = parent.Kind()
	return true
}

// ConsiderReplacement is called by a Handle implementation (only the
// type simplifier uses this) to propose replacing n with replacement.
// Unlike removal, no isOptional gate applies: a type can always be
// swapped for another type (spec.md §4.8).
func (r *OneTimeRewriter) ConsiderReplacement(n, replacement syntax.Node) bool {
	rng := n.Range()
	if r.cursor.State != RemovalAllowed || !r.sieve.Eligible(r.tree.Lines(rng)) {
		return false
	}
	r.cursor.markRemoval(rng)
	r.pendingEdits = []syntax.Edit{{Target: rng, Replacement: replacement}}
	r.removedKind = n.Kind()
	return true
}

// Transform runs one traversal attempt over t (spec.md §4.4's "Size
// sieve integration"): it retries with a decayed sieve whenever a full
// traversal finds nothing eligible, until the sieve is exhausted, and
// decays the sieve after a candidate that left no child fallback and no
// successor to resume from. It
// returns the candidate tree (t itself, unchanged, if traversalDone) and
// whether the rewriter's traversal is now exhausted.
func (r *OneTimeRewriter) Transform(t syntax.Tree) (candidate syntax.Tree, traversalDone bool) {
	r.tree = t
	for {
		r.cursor.ResetForAttempt()
		r.pendingEdits = nil
		r.removedKind = syntax.KindOther

		r.walk(t.Root(), false)

		if r.cursor.Progressed() {
			// No resume point after this rewrite: it was the last candidate
			// at this sieve level, so the next attempt starts a smaller one.
			if r.cursor.ChildFallback.IsNoLocation() && r.cursor.Successor.IsNoLocation() && !r.sieve.Exhausted() {
				r.sieve = r.sieve.Decayed()
			}
			return t.Transform(r.pendingEdits), false
		}
		if r.sieve.Exhausted() {
			return t, true
		}
		r.sieve = r.sieve.Decayed()
	}
}

func (r *OneTimeRewriter) walk(n syntax.Node, isOptional bool) {
	if n == nil {
		return
	}
	rng := n.Range()
	if skip := r.cursor.step(rng); !skip {
		if r.categories[n.Kind()] {
			if r.handler.Handle(r, n, isOptional) == syntax.VisitChildren {
				r.descendChildren(n)
			}
		} else {
			r.descendChildren(n)
		}
	}
	r.cursor.exitCheck(rng)
}

func (r *OneTimeRewriter) descendChildren(n syntax.Node) {
	for i := 0; i < n.NumChildren(); i++ {
		c := n.Child(i)
		if c == nil {
			continue
		}
		r.walk(c, n.ChildOptional(i))
	}
}

// AllChildren returns every non-nil direct child of n, in source order.
// Handlers use this to build the list argument to
// ConsiderChildListRemoval.
func AllChildren(n syntax.Node) []syntax.Node {
	out := make([]syntax.Node, 0, n.NumChildren())
	for i := 0; i < n.NumChildren(); i++ {
		if c := n.Child(i); c != nil {
			out = append(out, c)
		}
	}
	return out
}
