package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("declRemover", declRemoverHandler{})
}

// declRemoverHandler removes whole function/module/typedef/class
// declarations and their extends/implements/constraint/method
// headers (spec.md §4.4's declRemover row; scenario C's whole-module
// removal attempt is this handler, which descends into the module after
// a rejection).
type declRemoverHandler struct{}

func (declRemoverHandler) Name() string { return "declRemover" }

func (declRemoverHandler) Categories() []syntax.Kind {
	return kindSet(
		syntax.KindFunctionDecl, syntax.KindModuleDecl, syntax.KindTypedefDecl,
		syntax.KindClassDecl, syntax.KindExtendsClause, syntax.KindImplementsClause,
		syntax.KindConstraintDecl, syntax.KindMethodDecl, syntax.KindMethodPrototype,
	)
}

func (declRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.VisitChildren
}
