package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("bodyPartsRemover", bodyPartsRemoverHandler{})
}

// bodyPartsRemoverHandler removes loop-generate blocks, concurrent
// assertions and else-clauses as single optional children (spec.md
// §4.4's bodyPartsRemover row; scenario A exercises exactly this).
type bodyPartsRemoverHandler struct{}

func (bodyPartsRemoverHandler) Name() string { return "bodyPartsRemover" }

func (bodyPartsRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindLoopGenerate, syntax.KindConcurrentAssertion, syntax.KindElseClause)
}

func (bodyPartsRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.VisitChildren
}
