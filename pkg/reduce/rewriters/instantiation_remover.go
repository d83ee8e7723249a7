package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("instantiationRemover", instantiationRemoverHandler{})
}

// instantiationRemoverHandler removes hierarchy instantiations (spec.md
// §4.4's instantiationRemover row).
type instantiationRemoverHandler struct{}

func (instantiationRemoverHandler) Name() string { return "instantiationRemover" }

func (instantiationRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindHierarchyInstantiation)
}

func (instantiationRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}
