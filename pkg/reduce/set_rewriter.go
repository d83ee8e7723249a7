package reduce

import "github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"

// SetRewriter is the batch rewriter family (spec.md §4.5): each
// Transform call pops one removal set produced by a Pair/Set Mapper and
// removes every range in it atomically, or discards the attempt and
// moves on to the next set if any range in the set is unreachable from
// the current tree.
type SetRewriter struct {
	sets       []syntax.RemovalSet
	removedTag string
}

// NewSetRewriter constructs a batch rewriter over the given removal
// sets, consumed destructively (spec.md §3 Lifecycle).
func NewSetRewriter(sets []syntax.RemovalSet) *SetRewriter {
	cp := make([]syntax.RemovalSet, len(sets))
	copy(cp, sets)
	return &SetRewriter{sets: cp}
}

// Remaining reports how many removal sets have not yet been attempted.
func (r *SetRewriter) Remaining() int { return len(r.sets) }

// RemovedTag returns a description of the last successfully-applied
// removal set, for the Attempt Record's type tag.
func (r *SetRewriter) RemovedTag() string { return r.removedTag }

// Transform implements spec.md §4.5. It has no cursor to advance between
// attempts — popping the next set on every call is itself the advance.
func (r *SetRewriter) Transform(t syntax.Tree) (candidate syntax.Tree, traversalDone bool) {
	for {
		if len(r.sets) == 0 {
			return t, true
		}
		set := r.sets[0]
		r.sets = r.sets[1:]

		pending := make(map[syntax.Range]bool, len(set))
		for _, rng := range set {
			if !rng.IsNoLocation() {
				pending[rng] = true
			}
		}
		if len(pending) == 0 {
			continue
		}

		var edits []syntax.Edit
		var walk func(n syntax.Node)
		walk = func(n syntax.Node) {
			if n == nil {
				return
			}
			rng := n.Range()
			if pending[rng] {
				edits = append(edits, syntax.Edit{Target: rng})
				delete(pending, rng)
				return
			}
			for i := 0; i < n.NumChildren(); i++ {
				walk(n.Child(i))
			}
		}
		walk(t.Root())

		if len(pending) != 0 {
			// One or more ranges in this set are no longer reachable
			// from the current tree (e.g. an earlier stage already
			// removed the enclosing node). Discard and try the next
			// set (spec.md §9 "Pair/Set rewriters require elaboration").
			continue
		}
		r.removedTag = describeSet(set)
		return t.Transform(edits), false
	}
}

func describeSet(set syntax.RemovalSet) string {
	if len(set) == 0 {
		return "empty-set"
	}
	return set[0].String()
}
