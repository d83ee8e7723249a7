package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("memberRemover", memberRemoverHandler{})
}

// memberRemoverHandler removes data/net declarations, struct-union
// members, declarators, parameter declarations and class properties.
// It does not descend once a candidate is considered (spec.md §4.4's
// memberRemover row: "don't"), since these are leaf-ish declarations
// whose children are never independently eligible.
type memberRemoverHandler struct{}

func (memberRemoverHandler) Name() string { return "memberRemover" }

func (memberRemoverHandler) Categories() []syntax.Kind {
	return kindSet(
		syntax.KindDataDecl, syntax.KindNetDecl, syntax.KindStructUnionMember,
		syntax.KindDeclarator, syntax.KindParameterDecl, syntax.KindClassProperty,
	)
}

func (memberRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.DontVisitChildren
}
