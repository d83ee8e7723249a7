package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("bindRemover", bindRemoverHandler{})
}

// bindRemoverHandler removes bind directives (spec.md §4.4's
// bindRemover row).
type bindRemoverHandler struct{}

func (bindRemoverHandler) Name() string { return "bindRemover" }

func (bindRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindBindDirective)
}

func (bindRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}
