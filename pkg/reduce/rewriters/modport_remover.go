package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("modportRemover", modportRemoverHandler{})
}

// modportRemoverHandler removes modport declarations (spec.md §4.4's
// modportRemover row).
type modportRemoverHandler struct{}

func (modportRemoverHandler) Name() string { return "modportRemover" }

func (modportRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindModportDecl)
}

func (modportRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}
