// Package frontend is the seam where the external SystemVerilog
// parser/elaborator plugs in. spec.md §1 deliberately puts the real
// parser/elaborator out of this repository's scope: "We assume such a
// library exists and describe only what the core requires of it."
// pkg/reduce/syntax is that description; this package is where a build
// links a concrete implementation of it against the CLI, the same way
// rewriters.Register lets a stage register itself without the
// orchestrator importing its defining file.
package frontend

import (
	"fmt"

	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// Factory constructs the SourceManager/Elaborator pair a run needs, given
// the work directory (so an implementation may, for instance, cache
// parsed files under it).
type Factory func(workDir string) (syntax.SourceManager, syntax.Elaborator, error)

var registered Factory

// Register installs the concrete parser/elaborator factory. Called from
// an implementation's init(), imported with a blank identifier by a
// build that links one in.
func Register(f Factory) {
	registered = f
}

// New constructs the SourceManager/Elaborator pair for workDir using the
// registered Factory. Returns an error if no frontend has been linked in
// — a configuration mistake the CLI treats as fatal (spec.md §7
// "Tree load failure on a file: fatal" covers the same failure mode one
// level down, once a frontend exists to fail).
func New(workDir string) (syntax.SourceManager, syntax.Elaborator, error) {
	if registered == nil {
		return nil, nil, fmt.Errorf("no SystemVerilog parser/elaborator frontend is linked into this build; " +
			"import a package that calls frontend.Register in its init()")
	}
	return registered(workDir)
}
