package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("bodyRemover", bodyRemoverHandler{})
}

// bodyRemoverHandler empties class/function/module/block bodies in one
// child-list removal (spec.md §4.4's bodyRemover row).
type bodyRemoverHandler struct{}

func (bodyRemoverHandler) Name() string { return "bodyRemover" }

func (bodyRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindClassBody, syntax.KindFunctionBody, syntax.KindModuleBody, syntax.KindBlockBody)
}

func (bodyRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	children := reduce.AllChildren(n)
	tr.ConsiderChildListRemoval(n, children)
	return syntax.VisitChildren
}
