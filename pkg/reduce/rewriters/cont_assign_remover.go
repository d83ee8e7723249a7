package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("contAssignRemover", contAssignRemoverHandler{})
}

// contAssignRemoverHandler removes continuous assignments (spec.md
// §4.4's contAssignRemover row).
type contAssignRemoverHandler struct{}

func (contAssignRemoverHandler) Name() string { return "contAssignRemover" }

func (contAssignRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindContinuousAssign)
}

func (contAssignRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}
