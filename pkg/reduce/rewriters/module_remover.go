package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("moduleRemover", moduleRemoverHandler{})
}

// moduleRemoverHandler removes whole module declarations (spec.md
// §4.4's moduleRemover row). declRemover also targets module
// declarations earlier in the sequence (scenario C) but descends into a
// rejected one; this handler, run near the end of a pass, does not.
type moduleRemoverHandler struct{}

func (moduleRemoverHandler) Name() string { return "moduleRemover" }

func (moduleRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindModuleDecl)
}

func (moduleRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}
