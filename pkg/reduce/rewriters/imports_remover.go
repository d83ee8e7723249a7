package rewriters

import (
	"github.com/antmicro/sv-bugpoint/pkg/reduce"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

func init() {
	Register("importsRemover", importsRemoverHandler{})
}

// importsRemoverHandler removes package import statements (spec.md
// §4.4's importsRemover row).
type importsRemoverHandler struct{}

func (importsRemoverHandler) Name() string { return "importsRemover" }

func (importsRemoverHandler) Categories() []syntax.Kind {
	return kindSet(syntax.KindPackageImport)
}

func (importsRemoverHandler) Handle(tr *reduce.OneTimeRewriter, n syntax.Node, isOptional bool) syntax.VisitResult {
	tr.ConsiderRemoval(n, isOptional)
	return syntax.VisitChildren
}
