package reduce

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce/mapper"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/trace"
)

// mapperStages names the four stages driven by the Pair/Set Mapper
// instead of a Handler from the rewriters registry (spec.md §4.3's
// mappers feed the SetRewriter family, not OneTimeRewriter).
var mapperStages = map[string]bool{
	"externRemover":     true,
	"portsRemover":       true,
	"structFieldRemover": true,
	"argRemover":         true,
}

// StageHandlers is satisfied by rewriters.Registry, kept as a map here so
// pkg/reduce does not import pkg/reduce/rewriters (which itself imports
// pkg/reduce) — the orchestrator is handed the registry by its caller.
type StageHandlers map[string]Handler

// Input bundles one file under reduction with everything the
// orchestrator needs to run stages against it.
type Input struct {
	Index      int
	Path       string
	Elaborator syntax.Elaborator
}

// Orchestrator runs the fixed stage sequence (spec.md §2 item 6 plus the
// labelRemover/argRemover extension, rewriters.Sequence) to a pass-level
// fixed point for one input; OuterMinimizer wraps it in the outer
// multi-file fixed point (spec.md §4.7).
type Orchestrator struct {
	Handlers StageHandlers
	Stages   []string
	Oracle   Oracle
	Counter  *trace.Counter
	Tracker  *trace.Tracker
}

// RunPass runs every stage in Stages once, in order, against tree for
// the input at inputIdx. Each stage runs its reducer loop to traversal
// exhaustion before the next stage starts (spec.md §4.7: "each stage
// runs to completion under its own sieve"). Returns the resulting tree
// and whether any stage committed.
func (o *Orchestrator) RunPass(tree syntax.Tree, in Input, passNum int) (syntax.Tree, bool, error) {
	committedAny := false
	current := tree
	cache := mapper.NewElaborationCache(in.Elaborator)

	for _, stage := range o.Stages {
		var committed bool
		var err error
		if mapperStages[stage] {
			current, committed, err = o.runMapperStage(current, in, passNum, stage, cache)
		} else {
			handler, ok := o.Handlers[stage]
			if !ok {
				continue
			}
			rw := NewOneTimeRewriter(handler, NewCursor(), DefaultSieve())
			current, committed, err = RunSingleSite(rw, current, o.Oracle, in.Index, passNum, stage, in.Path, o.Counter, o.Tracker)
		}
		if err != nil {
			return current, committedAny, err
		}
		if committed {
			committedAny = true
			cache.Forget(in.Path)
		}
	}
	return current, committedAny, nil
}

func (o *Orchestrator) runMapperStage(current syntax.Tree, in Input, passNum int, stage string, cache *mapper.ElaborationCache) (syntax.Tree, bool, error) {
	program, err := cache.Elaborate(in.Path, current)
	if err != nil {
		return current, false, Fatal("elaborating "+in.Path+" for "+stage, err)
	}
	sets := mapper.ByName(stage, program)
	rw := NewSetRewriter(sets)
	return RunBatch(rw, current, o.Oracle, in.Index, passNum, stage, in.Path, o.Counter, o.Tracker)
}

// RunToFixedPoint repeats RunPass, starting passNum at 1, until a pass
// commits nothing (spec.md §4.7: "the outer loop per file repeats pass
// while the previous pass committed anything").
func (o *Orchestrator) RunToFixedPoint(tree syntax.Tree, in Input) (syntax.Tree, error) {
	current := tree
	pass := 1
	for {
		next, committed, err := o.RunPass(current, in, pass)
		if err != nil {
			return current, err
		}
		current = next
		if !committed {
			return current, nil
		}
		pass++
	}
}
