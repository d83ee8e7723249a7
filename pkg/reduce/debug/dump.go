// Package debug implements the tree dumpers and diagnostics of spec.md
// §2 item 9: depth-first pretty printers for the syntax tree and the
// elaborated AST, a demangled Kind-name column, and a dump-diff used to
// show what the last committed stage changed.
package debug

import (
	"fmt"
	"strings"

	"golang.org/x/term"

	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

// KindName demangles a syntax.Kind into the human-readable name used in
// tree dumps. The syntax dumper uses it to label each node from its bare
// Kind value.
func KindName(k syntax.Kind) string {
	switch k {
	case syntax.KindOther:
		return "Other"
	case syntax.KindModuleDecl:
		return "ModuleDeclarationSyntax"
	case syntax.KindClassBody:
		return "ClassBodySyntax"
	case syntax.KindFunctionBody:
		return "FunctionBodySyntax"
	case syntax.KindModuleBody:
		return "ModuleBodySyntax"
	case syntax.KindBlockBody:
		return "BlockBodySyntax"
	case syntax.KindLoopGenerate:
		return "LoopGenerateSyntax"
	case syntax.KindConcurrentAssertion:
		return "ConcurrentAssertionStatementSyntax"
	case syntax.KindElseClause:
		return "ElseClauseSyntax"
	case syntax.KindFunctionDecl:
		return "FunctionDeclarationSyntax"
	case syntax.KindModuleDeclHeader:
		return "ModuleHeaderSyntax"
	case syntax.KindTypedefDecl:
		return "TypedefDeclarationSyntax"
	case syntax.KindClassDecl:
		return "ClassDeclarationSyntax"
	case syntax.KindExtendsClause:
		return "ExtendsClauseSyntax"
	case syntax.KindImplementsClause:
		return "ImplementsClauseSyntax"
	case syntax.KindConstraintDecl:
		return "ConstraintDeclarationSyntax"
	case syntax.KindMethodDecl:
		return "ClassMethodDeclarationSyntax"
	case syntax.KindMethodPrototype:
		return "ClassMethodPrototypeSyntax"
	case syntax.KindProceduralBlock:
		return "ProceduralBlockSyntax"
	case syntax.KindStatement:
		return "StatementSyntax"
	case syntax.KindLocalVarDecl:
		return "DataDeclarationSyntax"
	case syntax.KindPackageImport:
		return "PackageImportDeclarationSyntax"
	case syntax.KindDataDecl:
		return "DataDeclarationSyntax"
	case syntax.KindNetDecl:
		return "NetDeclarationSyntax"
	case syntax.KindStructUnionMember:
		return "StructUnionMemberSyntax"
	case syntax.KindDeclarator:
		return "DeclaratorSyntax"
	case syntax.KindParameterDecl:
		return "ParameterDeclarationSyntax"
	case syntax.KindClassProperty:
		return "ClassPropertyDeclarationSyntax"
	case syntax.KindParamAssignment:
		return "ParamAssignmentSyntax"
	case syntax.KindContinuousAssign:
		return "ContinuousAssignSyntax"
	case syntax.KindModportDecl:
		return "ModportDeclarationSyntax"
	case syntax.KindHierarchyInstantiation:
		return "HierarchyInstantiationSyntax"
	case syntax.KindBindDirective:
		return "BindDirectiveSyntax"
	case syntax.KindNamedBlockEndLabel:
		return "NamedBlockClauseSyntax"
	case syntax.KindDataType:
		return "DataTypeSyntax"
	case syntax.KindPrimitiveDataType:
		return "IntegerTypeSyntax"
	case syntax.KindPortConnection:
		return "PortConnectionSyntax"
	default:
		return fmt.Sprintf("UnknownKind(%d)", int(k))
	}
}

// dumpWidth returns the terminal width to wrap tree dumps at, falling
// back to 100 columns when stdout isn't a terminal (e.g. writing to the
// debug/syntax-dump file).
func dumpWidth(fd int) int {
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		return w
	}
	return 100
}

// DumpSyntaxTree renders a depth-first pretty-print of t's syntax, one
// line per node, indented by depth, annotated with each node's
// demangled Kind and source range.
func DumpSyntaxTree(t syntax.Tree) string {
	var sb strings.Builder
	width := dumpWidth(1)
	dumpNode(&sb, t.Root(), 0, width)
	return sb.String()
}

func dumpNode(sb *strings.Builder, n syntax.Node, depth, width int) {
	if n == nil {
		return
	}
	indent := strings.Repeat("  ", depth)
	line := fmt.Sprintf("%s%s @ %s", indent, KindName(n.Kind()), n.Range())
	if len(line) > width {
		line = line[:width-3] + "..."
	}
	sb.WriteString(line)
	sb.WriteByte('\n')
	for i := 0; i < n.NumChildren(); i++ {
		dumpNode(sb, n.Child(i), depth+1, width)
	}
}

// DumpProgram renders the elaborated-AST dump (debug/ast-dump): the
// number of symbols of each kind the four mappers (spec.md §4.3) read,
// as insertion-ordered JSON. The symbols themselves are not listed.
func DumpProgram(p syntax.Program) string {
	obj := newOrderedObject()
	obj.set("methodPrototypes", len(p.MethodPrototypes()))
	obj.set("moduleInstances", len(p.ModuleInstances()))
	obj.set("structAssignmentPatterns", len(p.StructAssignmentPatterns()))
	obj.set("subroutines", len(p.Subroutines()))
	obj.set("callExpressions", len(p.CallExpressions()))
	return obj.String()
}
