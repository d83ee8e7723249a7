package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("statementsRemover", statementsRemoverHandler{})
}

// statementsRemoverHandler removes procedural blocks, statements, and
// local variable declarations (spec.md §4.4's statementsRemover row).
type statementsRemoverHandler struct{}

func (statementsRemoverHandler) Name() string { return "statementsRemover" }

func (statementsRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindProceduralBlock, syntax.KindStatement, syntax.KindLocalVarDecl)
}

func (statementsRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.VisitChildren
}
