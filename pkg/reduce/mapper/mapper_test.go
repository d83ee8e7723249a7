package mapper

import (
	"errors"
	"fmt"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/antmicro/sv-bugpoint/internal/testsyntax"
	"github.com/antmicro/sv-bugpoint/pkg/reduce/syntax"
)

var errBoom = errors.New("boom")

func rangeAt(line int) syntax.Range {
	return syntax.Range{
		Start: syntax.Position{Offset: line * 10, Line: line, Col: 1},
		End:   syntax.Position{Offset: line*10 + 5, Line: line, Col: 6},
	}
}

func TestExternalMethodMapper(t *testing.T) {
	Convey("ExternalMethod", t, func() {
		Convey("pairs a prototype with its out-of-line implementation", func() {
			protoNode := testsyntax.Node(syntax.KindMethodPrototype, "MethodPrototypeSyntax", "extern function void f();", rangeAt(1))
			implNode := testsyntax.Node(syntax.KindMethodDecl, "MethodDeclSyntax", "function void C::f(); endfunction", rangeAt(5))
			proto := syntax.MethodPrototype{
				Symbol:         testsyntax.Symbol("f", protoNode),
				Implementation: testsyntax.Symbol("C::f", implNode),
			}
			p := &testsyntax.Program{MethodProtos: []syntax.MethodPrototype{proto}}

			sets := ExternalMethod{}.Map(p)
			So(sets, ShouldHaveLength, 1)
			So(sets[0], ShouldResemble, syntax.RemovalSet{protoNode.Range(), implNode.Range()})
		})

		Convey("emits only the prototype range when no implementation is bound", func() {
			protoNode := testsyntax.Node(syntax.KindMethodPrototype, "MethodPrototypeSyntax", "extern function void f();", rangeAt(1))
			proto := syntax.MethodPrototype{Symbol: testsyntax.Symbol("f", protoNode)}
			p := &testsyntax.Program{MethodProtos: []syntax.MethodPrototype{proto}}

			sets := ExternalMethod{}.Map(p)
			So(sets, ShouldHaveLength, 1)
			So(sets[0], ShouldResemble, syntax.RemovalSet{protoNode.Range(), syntax.NoLocation})
		})

		Convey("still maps a generic-class prototype once force-elaboration succeeds", func() {
			protoNode := testsyntax.Node(syntax.KindMethodPrototype, "MethodPrototypeSyntax", "extern function void f();", rangeAt(1))
			proto := syntax.MethodPrototype{
				Symbol:          testsyntax.Symbol("f", protoNode),
				GenericClass:    testsyntax.Symbol("C#(T)", nil),
				Specializations: 0,
			}
			p := &testsyntax.Program{MethodProtos: []syntax.MethodPrototype{proto}}

			sets := ExternalMethod{}.Map(p)
			So(sets, ShouldHaveLength, 1)
			So(sets[0][0], ShouldResemble, protoNode.Range())
		})

		Convey("skips a prototype whose force-elaboration fails, without panicking", func() {
			protoNode := testsyntax.Node(syntax.KindMethodPrototype, "MethodPrototypeSyntax", "extern function void f();", rangeAt(1))
			proto := syntax.MethodPrototype{
				Symbol:          testsyntax.Symbol("f", protoNode),
				GenericClass:    testsyntax.Symbol("C#(T)", nil),
				Specializations: 0,
			}
			p := &testsyntax.Program{MethodProtos: []syntax.MethodPrototype{proto}, ForceElabErr: errBoom}

			sets := ExternalMethod{}.Map(p)
			So(sets, ShouldBeEmpty)
		})
	})
}

func TestPortMapper(t *testing.T) {
	Convey("Port", t, func() {
		Convey("pairs a port definition with its connection expression", func() {
			defNode := testsyntax.Node(syntax.KindDataDecl, "PortDeclSyntax", ".clk", rangeAt(1))
			connExpr := rangeAt(2)
			inst := syntax.ModuleInstance{
				Symbol: testsyntax.Symbol("u_dut", nil),
				Ports: []syntax.PortBinding{
					{PortDef: testsyntax.Symbol("clk", defNode), Connection: testsyntax.Symbol("sys_clk", nil), ConnectionExpr: connExpr},
				},
			}
			p := &testsyntax.Program{Instances: []syntax.ModuleInstance{inst}}

			sets := Port{}.Map(p)
			So(sets, ShouldHaveLength, 1)
			So(sets[0], ShouldResemble, syntax.RemovalSet{defNode.Range(), connExpr})
		})

		Convey("emits only the port definition when the port is unconnected", func() {
			defNode := testsyntax.Node(syntax.KindDataDecl, "PortDeclSyntax", ".unused", rangeAt(1))
			inst := syntax.ModuleInstance{
				Symbol: testsyntax.Symbol("u_dut", nil),
				Ports:  []syntax.PortBinding{{PortDef: testsyntax.Symbol("unused", defNode)}},
			}
			p := &testsyntax.Program{Instances: []syntax.ModuleInstance{inst}}

			sets := Port{}.Map(p)
			So(sets, ShouldHaveLength, 1)
			So(sets[0], ShouldResemble, syntax.RemovalSet{defNode.Range()})
		})
	})
}

func TestStructFieldMapper(t *testing.T) {
	Convey("StructField", t, func() {
		Convey("pairs every setter's field declaration with its initializer", func() {
			defNode := testsyntax.Node(syntax.KindStructUnionMember, "StructMemberSyntax", "int x;", rangeAt(1))
			initNode := testsyntax.Node(syntax.KindParamAssignment, "ParamAssignmentSyntax", "x: 1", rangeAt(2))
			pat := syntax.StructAssignmentPattern{
				Setters: []syntax.FieldSetter{
					{FieldDef: testsyntax.Symbol("x", defNode), FieldInit: testsyntax.Symbol("1", initNode)},
				},
			}
			p := &testsyntax.Program{StructPatterns: []syntax.StructAssignmentPattern{pat}}

			sets := StructField{}.Map(p)
			So(sets, ShouldHaveLength, 1)
			So(sets[0], ShouldResemble, syntax.RemovalSet{defNode.Range(), initNode.Range()})
		})
	})
}

func TestFormalArgumentMapper(t *testing.T) {
	Convey("FormalArgument", t, func() {
		Convey("joins a formal's declaration with the argument at its position in every call", func() {
			formalNode := testsyntax.Node(syntax.KindDeclarator, "FormalArgSyntax", "int a", rangeAt(1))
			formal := testsyntax.Symbol("a", formalNode)
			sub := syntax.Subroutine{Symbol: testsyntax.Symbol("f", nil), Formals: []syntax.Symbol{formal}}

			argNode := testsyntax.Node(syntax.KindOther, "ExpressionSyntax", "1", rangeAt(2))
			arg := testsyntax.Symbol("1", argNode)
			call := syntax.CallExpression{Callee: testsyntax.Symbol("f", nil), Args: []syntax.Symbol{arg}}

			p := &testsyntax.Program{SubroutineList: []syntax.Subroutine{sub}, CallExprs: []syntax.CallExpression{call}}

			sets := FormalArgument{}.Map(p)
			So(sets, ShouldHaveLength, 1)
			So(sets[0], ShouldResemble, syntax.RemovalSet{formalNode.Range(), argNode.Range()})
		})

		Convey("only joins up to min(len(formals), len(args)) positions", func() {
			formalNode := testsyntax.Node(syntax.KindDeclarator, "FormalArgSyntax", "int a", rangeAt(1))
			formal := testsyntax.Symbol("a", formalNode)
			sub := syntax.Subroutine{Symbol: testsyntax.Symbol("f", nil), Formals: []syntax.Symbol{formal}}
			call := syntax.CallExpression{Callee: testsyntax.Symbol("f", nil), Args: nil}

			p := &testsyntax.Program{SubroutineList: []syntax.Subroutine{sub}, CallExprs: []syntax.CallExpression{call}}

			sets := FormalArgument{}.Map(p)
			So(sets, ShouldHaveLength, 1)
			So(sets[0], ShouldResemble, syntax.RemovalSet{formalNode.Range()})
		})

		Convey("ignores a call to a callee with no matching subroutine", func() {
			call := syntax.CallExpression{Callee: testsyntax.Symbol("$display", nil)}
			p := &testsyntax.Program{CallExprs: []syntax.CallExpression{call}}

			sets := FormalArgument{}.Map(p)
			So(sets, ShouldBeEmpty)
		})

		Convey("orders removal sets by declaration order, not map iteration order", func() {
			var formals []syntax.Symbol
			var nodes []syntax.Node
			for i := 1; i <= 8; i++ {
				n := testsyntax.Node(syntax.KindDeclarator, "FormalArgSyntax", "int a", rangeAt(i))
				nodes = append(nodes, n)
				formals = append(formals, testsyntax.Symbol(fmt.Sprintf("a%d", i), n))
			}
			sub := syntax.Subroutine{Symbol: testsyntax.Symbol("f", nil), Formals: formals}
			p := &testsyntax.Program{SubroutineList: []syntax.Subroutine{sub}}

			for i := 0; i < 20; i++ {
				sets := FormalArgument{}.Map(p)
				So(sets, ShouldHaveLength, len(nodes))
				for j, n := range nodes {
					So(sets[j], ShouldResemble, syntax.RemovalSet{n.Range()})
				}
			}
		})
	})
}

func TestDedup(t *testing.T) {
	Convey("Dedup drops structurally identical removal sets", t, func() {
		a := syntax.RemovalSet{rangeAt(1), rangeAt(2)}
		b := syntax.RemovalSet{rangeAt(1), rangeAt(2)}
		c := syntax.RemovalSet{rangeAt(3)}

		out := Dedup([]syntax.RemovalSet{a, b, c})
		So(out, ShouldHaveLength, 2)
		So(out[0], ShouldResemble, a)
		So(out[1], ShouldResemble, c)
	})
}

func TestAllAndByName(t *testing.T) {
	Convey("All runs every mapper and dedups the union", t, func() {
		defNode := testsyntax.Node(syntax.KindDataDecl, "PortDeclSyntax", ".clk", rangeAt(1))
		inst := syntax.ModuleInstance{
			Ports: []syntax.PortBinding{{PortDef: testsyntax.Symbol("clk", defNode)}},
		}
		p := &testsyntax.Program{Instances: []syntax.ModuleInstance{inst}}

		sets := All(p)
		So(sets, ShouldHaveLength, 1)

		named := ByName("portsRemover", p)
		So(named, ShouldHaveLength, 1)

		So(ByName("doesNotExist", p), ShouldBeNil)
	})
}
