package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("paramAssignRemover", paramAssignRemoverHandler{})
}

// paramAssignRemoverHandler removes parameter value assignments
// (spec.md §4.4's paramAssignRemover row).
type paramAssignRemoverHandler struct{}

func (paramAssignRemoverHandler) Name() string { return "paramAssignRemover" }

func (paramAssignRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindParamAssignment)
}

func (paramAssignRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}
