package reduce

import "github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"

// State is the six-state enum keyed to cursor position within a
// depth-first traversal (spec.md §3).
type State int

const (
	SkipToStart State = iota
	RemovalAllowed
	RegisterChild
	ExitRewritePoint
	RegisterSuccessor
	SkipToEnd
)

func (s State) String() string {
	switch s {
	case SkipToStart:
		return "SKIP_TO_START"
	case RemovalAllowed:
		return "REMOVAL_ALLOWED"
	case RegisterChild:
		return "REGISTER_CHILD"
	case ExitRewritePoint:
		return "EXIT_REWRITE_POINT"
	case RegisterSuccessor:
		return "REGISTER_SUCCESSOR"
	case SkipToEnd:
		return "SKIP_TO_END"
	default:
		return "UNKNOWN"
	}
}

// Cursor is the resumable traversal position described in spec.md §3:
// startPoint is set by the reducer loop after each attempt; rewritePoint,
// childFallback and successor are transient per Transform call.
type Cursor struct {
	State State

	StartPoint    syntax.Range
	RewritePoint  syntax.Range
	ChildFallback syntax.Range
	Successor     syntax.Range
}

// NewCursor returns a cursor ready for the very first transform attempt:
// REMOVAL_ALLOWED from the root, since there is no prior startPoint to
// skip to.
func NewCursor() *Cursor {
	return &Cursor{State: RemovalAllowed}
}

// ResetForAttempt clears the transient, per-Transform fields before a
// new traversal begins, and puts the cursor in SKIP_TO_START unless
// StartPoint is NoLocation (the very first attempt of a fresh rewriter
// instance, which starts already eligible at the root).
func (c *Cursor) ResetForAttempt() {
	c.RewritePoint = syntax.NoLocation
	c.ChildFallback = syntax.NoLocation
	c.Successor = syntax.NoLocation
	if c.StartPoint.IsNoLocation() {
		c.State = RemovalAllowed
	} else {
		c.State = SkipToStart
	}
}

// AdvanceOnCommit implements spec.md §4.4: startPoint <- successor;
// state <- SKIP_TO_START.
func (c *Cursor) AdvanceOnCommit() {
	c.StartPoint = c.Successor
	c.State = SkipToStart
}

// AdvanceOnRollback implements spec.md §4.4: startPoint <- childFallback
// if set else successor; state <- SKIP_TO_START. This is what drives
// exploration into a rejected subtree on the next attempt.
func (c *Cursor) AdvanceOnRollback() {
	if !c.ChildFallback.IsNoLocation() {
		c.StartPoint = c.ChildFallback
	} else {
		c.StartPoint = c.Successor
	}
	c.State = SkipToStart
}

// Progressed reports whether the traversal produced a candidate edit
// this Transform call (i.e. RewritePoint was set). Used by the size
// sieve integration to decide whether to decay.
func (c *Cursor) Progressed() bool {
	return !c.RewritePoint.IsNoLocation()
}

// step is invoked once per node visited in the depth-first traversal,
// before descending into the node's children. It implements steps 1-4 of
// spec.md §4.4's traversal algorithm and reports whether the caller
// should skip descending (true) or may proceed to check this node's own
// handler (false).
func (c *Cursor) step(r syntax.Range) (skipDescend bool) {
	switch c.State {
	case SkipToStart:
		if r == c.StartPoint {
			c.State = RemovalAllowed
		}
		return false
	case RegisterChild:
		if !r.IsNoLocation() && r != c.RewritePoint {
			c.ChildFallback = r
			c.State = ExitRewritePoint
			return true
		}
		return false
	case RegisterSuccessor:
		if !r.IsNoLocation() {
			c.Successor = r
			c.State = SkipToEnd
			return true
		}
		return false
	case SkipToEnd, ExitRewritePoint:
		return true
	default: // RemovalAllowed
		return false
	}
}

// exitCheck is invoked once per node after its children (if any) have
// been visited, implementing step 6 of spec.md §4.4's traversal
// algorithm: once the rewrite-point subtree has been fully exited,
// start looking for the commit-time successor.
func (c *Cursor) exitCheck(r syntax.Range) {
	if (c.State == RegisterChild || c.State == ExitRewritePoint) && r == c.RewritePoint {
		c.State = RegisterSuccessor
	}
}

// eligible implements the considerRemoval eligibility test of spec.md
// §4.4: state == REMOVAL_ALLOWED, isOptional, and the subtree's line
// count falls within the sieve.
func eligible(c *Cursor, isOptional bool, lines int, sieve SizeSieve) bool {
	return c.State == RemovalAllowed && isOptional && sieve.Eligible(lines)
}

// markRemoval records a successful candidate at r: sets rewritePoint,
// transitions to REGISTER_CHILD.
func (c *Cursor) markRemoval(r syntax.Range) {
	c.RewritePoint = r
	c.State = RegisterChild
}
