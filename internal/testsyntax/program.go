package testsyntax

import (
	"errors"

	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// Program is a fixed, test-populated syntax.Program.
type Program struct {
	MethodProtos    []syntax.MethodPrototype
	Instances       []syntax.ModuleInstance
	StructPatterns  []syntax.StructAssignmentPattern
	SubroutineList  []syntax.Subroutine
	CallExprs       []syntax.CallExpression
	ForceElabErr    error
	ForceElabResult syntax.Symbol
}

func (p *Program) MethodPrototypes() []syntax.MethodPrototype             { return p.MethodProtos }
func (p *Program) ModuleInstances() []syntax.ModuleInstance               { return p.Instances }
func (p *Program) StructAssignmentPatterns() []syntax.StructAssignmentPattern { return p.StructPatterns }
func (p *Program) Subroutines() []syntax.Subroutine                       { return p.SubroutineList }
func (p *Program) CallExpressions() []syntax.CallExpression               { return p.CallExprs }

func (p *Program) ForceElaborate(proto syntax.MethodPrototype) (syntax.Symbol, error) {
	if p.ForceElabErr != nil {
		return nil, p.ForceElabErr
	}
	if p.ForceElabResult != nil {
		return p.ForceElabResult, nil
	}
	return Symbol("forced-specialization", nil), nil
}

// Elaborator returns a fixed Program regardless of the tree passed in,
// or a fixed error if Err is set.
type Elaborator struct {
	Program syntax.Program
	Err     error
}

func (e *Elaborator) Elaborate(t syntax.Tree) (syntax.Program, error) {
	if e.Err != nil {
		return nil, e.Err
	}
	return e.Program, nil
}

// ErrElaborationFailed is a canned error for Elaborator fixtures that
// need to exercise an elaboration-failure path.
var ErrElaborationFailed = errors.New("testsyntax: elaboration failed")

// SourceManager loads a fresh syntax.Tree from a builder function on
// every Load call, mirroring the real parser's per-path caching the
// spec.md §4.7 SourceManager contract requires callers to work around.
type SourceManager struct {
	Builders map[string]func() syntax.Tree
	LoadErr  map[string]error
}

// NewSourceManager returns a SourceManager with no registered files.
func NewSourceManager() *SourceManager {
	return &SourceManager{
		Builders: make(map[string]func() syntax.Tree),
		LoadErr:  make(map[string]error),
	}
}

// Register associates path with a tree builder invoked on every Load.
func (sm *SourceManager) Register(path string, build func() syntax.Tree) {
	sm.Builders[path] = build
}

func (sm *SourceManager) Load(path string) (syntax.Tree, error) {
	if err, ok := sm.LoadErr[path]; ok {
		return nil, err
	}
	build, ok := sm.Builders[path]
	if !ok {
		return nil, errors.New("testsyntax: no fixture registered for " + path)
	}
	return build(), nil
}
