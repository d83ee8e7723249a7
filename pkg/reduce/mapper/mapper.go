// Package mapper implements the four Pair/Set Mappers (spec.md §4.3):
// given a fully-elaborated Program, each produces a list of removal sets
// — ranges that are semantically coupled and must be removed together.
package mapper

import (
	"github.com/mitchellh/hashstructure"

	"github.com/antmicro/sv-bugpoint/log"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// Mapper builds removal sets from an elaborated Program.
type Mapper interface {
	Name() string
	Map(p syntax.Program) []syntax.RemovalSet
}

// ExternalMethod implements the external-method mapper: for every method
// prototype symbol, emit [protoRange, implRange?]; prototypes belonging
// to a generic class with zero specializations are force-elaborated
// first so the mapper can see the class body's members (spec.md §4.3,
// SPEC_FULL.md §C.4).
type ExternalMethod struct{}

func (ExternalMethod) Name() string { return "externRemover" }

func (ExternalMethod) Map(p syntax.Program) []syntax.RemovalSet {
	var sets []syntax.RemovalSet
	for _, proto := range p.MethodPrototypes() {
		mp := proto
		if mp.GenericClass != nil && mp.Specializations == 0 {
			if _, err := p.ForceElaborate(mp); err != nil {
				log.WARN("external-method mapper: force-elaborating %s: %s", mp.Name(), err)
				continue
			}
		}
		protoRange := rangeOf(mp)
		implRange := syntax.NoLocation
		if mp.Implementation != nil {
			implRange = rangeOf(mp.Implementation)
		}
		set := skipEmpty(syntax.RemovalSet{protoRange, implRange})
		if set != nil {
			sets = append(sets, set)
		}
	}
	return sets
}

// Port implements the port mapper: for every module instance, emit
// [portDefRange, portConnRange] per connected port, [portDefRange] for
// unconnected ones (spec.md §4.3).
type Port struct{}

func (Port) Name() string { return "portsRemover" }

func (Port) Map(p syntax.Program) []syntax.RemovalSet {
	var sets []syntax.RemovalSet
	for _, inst := range p.ModuleInstances() {
		for _, pb := range inst.Ports {
			defRange := syntax.NoLocation
			if pb.PortDef != nil {
				defRange = rangeOf(pb.PortDef)
			}
			if pb.Connection == nil {
				set := skipEmpty(syntax.RemovalSet{defRange})
				if set != nil {
					sets = append(sets, set)
				}
				continue
			}
			set := skipEmpty(syntax.RemovalSet{defRange, pb.ConnectionExpr})
			if set != nil {
				sets = append(sets, set)
			}
		}
	}
	return sets
}

// StructField implements the struct-field mapper: for every structured
// assignment pattern, emit [fieldDefRange, fieldInitRange] per setter
// (spec.md §4.3).
type StructField struct{}

func (StructField) Name() string { return "structFieldRemover" }

func (StructField) Map(p syntax.Program) []syntax.RemovalSet {
	var sets []syntax.RemovalSet
	for _, pat := range p.StructAssignmentPatterns() {
		for _, setter := range pat.Setters {
			defRange, initRange := syntax.NoLocation, syntax.NoLocation
			if setter.FieldDef != nil {
				defRange = rangeOf(setter.FieldDef)
			}
			if setter.FieldInit != nil {
				initRange = rangeOf(setter.FieldInit)
			}
			set := skipEmpty(syntax.RemovalSet{defRange, initRange})
			if set != nil {
				sets = append(sets, set)
			}
		}
	}
	return sets
}

// FormalArgument implements the formal-argument mapper: every
// function/task formal's declaration range, joined with the argument
// range at its position in every call site (system calls excluded by
// the adapter). Positional matching is by index up to
// min(len(formals), len(args)) (spec.md §4.3).
type FormalArgument struct{}

func (FormalArgument) Name() string { return "argRemover" }

func (FormalArgument) Map(p syntax.Program) []syntax.RemovalSet {
	setByFormal := map[syntax.Symbol]*syntax.RemovalSet{}
	var order []syntax.Symbol
	for _, sub := range p.Subroutines() {
		for _, f := range sub.Formals {
			rs := syntax.RemovalSet{rangeOf(f)}
			setByFormal[f] = &rs
			order = append(order, f)
		}
	}
	for _, call := range p.CallExpressions() {
		sub := findSubroutine(p, call.Callee)
		if sub == nil {
			continue
		}
		n := len(sub.Formals)
		if len(call.Args) < n {
			n = len(call.Args)
		}
		for i := 0; i < n; i++ {
			formal := sub.Formals[i]
			rs, ok := setByFormal[formal]
			if !ok {
				continue
			}
			arg := call.Args[i]
			if arg != nil {
				*rs = append(*rs, rangeOf(arg))
			}
		}
	}
	// Collect in subroutine/formal declaration order rather than ranging
	// over setByFormal, whose Go map iteration order is randomized
	// (spec.md §5 requires the trace to reflect traversal order).
	var sets []syntax.RemovalSet
	for _, f := range order {
		set := skipEmpty(*setByFormal[f])
		if set != nil {
			sets = append(sets, set)
		}
	}
	return sets
}

func findSubroutine(p syntax.Program, callee syntax.Symbol) *syntax.Subroutine {
	if callee == nil {
		return nil
	}
	for _, sub := range p.Subroutines() {
		if sub.Name() == callee.Name() {
			s := sub
			return &s
		}
	}
	return nil
}

func rangeOf(sym syntax.Symbol) syntax.Range {
	if sym == nil {
		return syntax.NoLocation
	}
	if n := sym.OriginatingNode(); n != nil {
		return n.Range()
	}
	return syntax.NoLocation
}

// skipEmpty implements "each mapper skips pairs where both endpoints are
// NoLocation" (spec.md §4.3). A set with at least one real endpoint is
// kept even if others are absent, per DESIGN.md's NoLocation-propagation
// decision.
func skipEmpty(set syntax.RemovalSet) syntax.RemovalSet {
	for _, r := range set {
		if !r.IsNoLocation() {
			return set
		}
	}
	return nil
}

// Dedup drops any removal set that is a structural duplicate of one
// already seen this pass (two mappers occasionally propose the same
// coupled-range set from different symbols), keyed by a content hash
// rather than a deep-equal scan.
func Dedup(sets []syntax.RemovalSet) []syntax.RemovalSet {
	seen := make(map[uint64]bool, len(sets))
	out := make([]syntax.RemovalSet, 0, len(sets))
	for _, s := range sets {
		h, err := hashstructure.Hash(s, nil)
		if err != nil {
			out = append(out, s)
			continue
		}
		if seen[h] {
			continue
		}
		seen[h] = true
		out = append(out, s)
	}
	return out
}

// All runs every mapper over p and returns the deduplicated union of
// their removal sets, in mapper-declaration order.
func All(p syntax.Program) []syntax.RemovalSet {
	var sets []syntax.RemovalSet
	for _, m := range []Mapper{ExternalMethod{}, Port{}, StructField{}, FormalArgument{}} {
		sets = append(sets, m.Map(p)...)
	}
	return Dedup(sets)
}

// ByName returns only the given mapper's removal sets, deduplicated, for
// the orchestrator to drive a single named stage (externRemover,
// portsRemover, structFieldRemover, argRemover) independently.
func ByName(name string, p syntax.Program) []syntax.RemovalSet {
	for _, m := range []Mapper{ExternalMethod{}, Port{}, StructField{}, FormalArgument{}} {
		if m.Name() == name {
			return Dedup(m.Map(p))
		}
	}
	return nil
}
