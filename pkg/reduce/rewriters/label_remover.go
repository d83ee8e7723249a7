package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("labelRemover", labelRemoverHandler{})
}

// labelRemoverHandler removes named-block end-labels (spec.md §4.4's
// labelRemover row). Run after typeSimplifier in the stage sequence per
// DESIGN.md's stage-sequence decision.
type labelRemoverHandler struct{}

func (labelRemoverHandler) Name() string { return "labelRemover" }

func (labelRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindNamedBlockEndLabel)
}

func (labelRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}
