// Package rewriters supplies the concrete Handler implementations for
// every OneTimeRewriter instantiation named in spec.md §4.4, and the
// stage Sequence (the four removal-set builders of spec.md §4.3 live in
// pkg/reduce/mapper). Each handler registers itself by name at init()
// time, mirroring graft's operator registry.
package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// Registry maps a stage name (spec.md §2.6's fixed sequence) to the
// Handler that implements it.
var Registry = map[string]reduce.Handler{}

// Register adds h to the registry under name, so the Pass Orchestrator
// can look stages up by the fixed sequence's names without every caller
// needing a direct import of the handler's defining file.
func Register(name string, h reduce.Handler) {
	Registry[name] = h
}

// Sequence is the fixed stage order a pass runs in. The first 16 entries
// are spec.md §2's orchestrator sequence verbatim. labelRemover and
// argRemover are appended per DESIGN.md's stage-sequence decision: both
// name a rewriter instantiation (§4.4's table / §4.3's formal-argument
// mapper) that the §2 sequence omits; every named instantiation must run
// somewhere, and appending after the named sequence preserves its
// relative order unchanged.
var Sequence = []string{
	"bodyRemover",
	"instantiationRemover",
	"bindRemover",
	"bodyPartsRemover",
	"externRemover",
	"declRemover",
	"statementsRemover",
	"importsRemover",
	"paramAssignRemover",
	"contAssignRemover",
	"memberRemover",
	"modportRemover",
	"portsRemover",
	"structFieldRemover",
	"moduleRemover",
	"typeSimplifier",
	"labelRemover",
	"argRemover",
}

func kindSet(ks ...syntax.Kind) []syntax.Kind { return ks }
