// Package printer renders a decompiled AST back to ActionScript-flavored
// source text. Rendering is deterministic: the same Block always produces
// the same bytes, with no non-determinism from map iteration or pointer
// identity (the AST carries none).
package printer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/avm1go/decompiler/ast"
)

// Print renders block as a complete source listing.
func Print(block ast.Block) string {
	var b strings.Builder
	printBlock(&b, block, 0)
	return b.String()
}

func indent(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("    ", depth))
}

func printBlock(b *strings.Builder, block ast.Block, depth int) {
	for _, s := range block.Body {
		printStatement(b, s, depth)
	}
}

func printBraced(b *strings.Builder, block *ast.Block, depth int) {
	if block == nil {
		b.WriteString("{ /* unresolved */ }")
		return
	}
	if len(block.Body) == 0 {
		b.WriteString("{}")
		return
	}
	b.WriteString("{\n")
	printBlock(b, *block, depth+1)
	indent(b, depth)
	b.WriteString("}")
}

func printStatement(b *strings.Builder, s ast.Statement, depth int) {
	indent(b, depth)
	switch st := s.(type) {
	case ast.DefineLocal:
		fmt.Fprintf(b, "var %s = %s;\n", printReference(st.Name), printExpression(st.Value))
	case ast.DeclareLocal:
		fmt.Fprintf(b, "var %s;\n", printReference(st.Name))
	case ast.SetVariable:
		fmt.Fprintf(b, "%s = %s;\n", printReference(st.Name), printExpression(st.Value))
	case ast.SetMember:
		fmt.Fprintf(b, "%s.%s = %s;\n", printReference(st.Object), printReference(st.Name), printExpression(st.Value))
	case ast.If:
		b.WriteString("if (")
		b.WriteString(printExpression(st.Cond))
		b.WriteString(") ")
		if st.TrueBranch == nil && st.FalseBranch == nil {
			b.WriteString("{ /* unresolved */ }\n")
			return
		}
		printBraced(b, st.TrueBranch, depth)
		if st.FalseBranch != nil {
			b.WriteString(" else ")
			printBraced(b, st.FalseBranch, depth)
		}
		b.WriteString("\n")
	case ast.While:
		b.WriteString("while (")
		b.WriteString(printExpression(st.Cond))
		b.WriteString(") ")
		printBraced(b, &st.Body, depth)
		b.WriteString("\n")
	case ast.For:
		b.WriteString("for (")
		b.WriteString(strings.TrimSuffix(printInlineStatement(st.Declare), ";"))
		b.WriteString("; ")
		b.WriteString(printExpression(st.Cond))
		b.WriteString("; ")
		b.WriteString(strings.TrimSuffix(printInlineStatement(st.Increment), ";"))
		b.WriteString(") ")
		printBraced(b, &st.Body, depth)
		b.WriteString("\n")
	case ast.Trace:
		fmt.Fprintf(b, "trace(%s);\n", printExpression(st.Value))
	case ast.Return:
		if st.Value == nil {
			b.WriteString("return;\n")
			return
		}
		fmt.Fprintf(b, "return %s;\n", printExpression(st.Value))
	case ast.ExpressionStatement:
		fmt.Fprintf(b, "%s;\n", printExpression(st.Value))
	case ast.Pop:
		fmt.Fprintf(b, "%s;\n", printExpression(st.Value))
	case ast.DanglingStack:
		fmt.Fprintf(b, "%s; // dangling stack\n", printExpression(st.Value))
	case ast.Play:
		b.WriteString("play();\n")
	case ast.Stop:
		b.WriteString("stop();\n")
	case ast.GotoFrame:
		fmt.Fprintf(b, "gotoAndPlay(%d);\n", st.Frame)
	case ast.GotoLabel:
		fmt.Fprintf(b, "gotoAndPlay(%q);\n", st.Label)
	case ast.UnknownStatement:
		fmt.Fprintf(b, "??? %s\n", st.Debug)
	case ast.DecompileError:
		fmt.Fprintf(b, "/* Decompile Error: %s */\n", st.Message)
	default:
		fmt.Fprintf(b, "/* unrenderable statement %T */\n", s)
	}
}

// printInlineStatement renders a statement usable as a For clause, with no
// trailing newline or indentation. Loop recovery only places the shapes
// isAssignmentLike accepts (ExpressionStatement, SetVariable) in a clause;
// DefineLocal is rendered too, for a For built by other means.
func printInlineStatement(s ast.Statement) string {
	switch st := s.(type) {
	case ast.DefineLocal:
		return fmt.Sprintf("var %s = %s;", printReference(st.Name), printExpression(st.Value))
	case ast.SetVariable:
		return fmt.Sprintf("%s = %s;", printReference(st.Name), printExpression(st.Value))
	case ast.ExpressionStatement:
		return printExpression(st.Value) + ";"
	default:
		return fmt.Sprintf("/* unrenderable clause %T */;", s)
	}
}

func printReference(r ast.Reference) string {
	switch ref := r.(type) {
	case ast.Identifier:
		return string(ref)
	case ast.Variable:
		return string(ref)
	case ast.Register:
		return fmt.Sprintf("$%d", ref)
	case ast.ExprReference:
		return printExpression(ref.Expr)
	default:
		return fmt.Sprintf("/* unrenderable reference %T */", r)
	}
}

func printExpression(e ast.Expression) string {
	switch expr := e.(type) {
	case ast.ReferenceExpr:
		return printReference(expr.Ref)
	case ast.Function:
		return printFunction(expr)
	case ast.GetMember:
		if ident, ok := expr.Name.(ast.Identifier); ok {
			return fmt.Sprintf("%s.%s", printReference(expr.Object), string(ident))
		}
		return fmt.Sprintf("%s[%s]", printReference(expr.Object), printReference(expr.Name))
	case ast.Binary:
		return fmt.Sprintf("(%s %s %s)", printExpression(expr.Left), expr.Op.String(), printExpression(expr.Right))
	case ast.Unary:
		return printUnary(expr)
	case ast.Literal:
		return printValue(expr.Value)
	case ast.CallFunction:
		return fmt.Sprintf("%s(%s)", printReference(expr.Name), printArgs(expr.Args))
	case ast.CallMethod:
		return fmt.Sprintf("%s.%s(%s)", printReference(expr.Object), printReference(expr.Name), printArgs(expr.Args))
	case ast.StoreRegister:
		return fmt.Sprintf("($%d = %s)", expr.Register, printExpression(expr.Value))
	case ast.Ternary:
		return fmt.Sprintf("(%s ? %s : %s)", printExpression(expr.Cond), printExpression(expr.IfTrue), printExpression(expr.IfFalse))
	default:
		return fmt.Sprintf("/* unrenderable expression %T */", e)
	}
}

func printUnary(u ast.Unary) string {
	switch u.Op {
	case ast.OpIncrement:
		return fmt.Sprintf("(%s + 1)", printExpression(u.Target))
	case ast.OpDecrement:
		return fmt.Sprintf("(%s - 1)", printExpression(u.Target))
	case ast.OpNot:
		return fmt.Sprintf("!%s", printExpression(u.Target))
	case ast.OpToNumber:
		return fmt.Sprintf("Number(%s)", printExpression(u.Target))
	case ast.OpToInteger:
		return fmt.Sprintf("int(%s)", printExpression(u.Target))
	case ast.OpToString:
		return fmt.Sprintf("String(%s)", printExpression(u.Target))
	default:
		return fmt.Sprintf("/* unrenderable unary op */(%s)", printExpression(u.Target))
	}
}

func printArgs(args []ast.Expression) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = printExpression(a)
	}
	return strings.Join(parts, ", ")
}

func printFunction(fn ast.Function) string {
	var b strings.Builder
	b.WriteString("function")
	if fn.Name != nil {
		b.WriteString(" ")
		b.WriteString(*fn.Name)
	}
	b.WriteString("(")
	parts := make([]string, len(fn.Params))
	for i, p := range fn.Params {
		parts[i] = printReference(p)
	}
	b.WriteString(strings.Join(parts, ", "))
	b.WriteString(") ")
	printBraced(&b, &fn.Body, 0)
	return b.String()
}

func printValue(v ast.Value) string {
	switch val := v.(type) {
	case ast.Uninitialized:
		return "/* uninitialized */"
	case ast.Undefined:
		return "undefined"
	case ast.Null:
		return "null"
	case ast.Bool:
		if val {
			return "true"
		}
		return "false"
	case ast.Int:
		return strconv.FormatInt(int64(val), 10)
	case ast.Float:
		return formatFloat(float64(val), 32)
	case ast.Double:
		return formatFloat(float64(val), 64)
	case ast.String:
		return quoteString(string(val))
	case ast.Array:
		parts := make([]string, len(val))
		for i, e := range val {
			parts[i] = printExpression(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case ast.Object:
		parts := make([]string, len(val))
		for i, kv := range val {
			parts[i] = fmt.Sprintf("%s: %s", printExpression(kv.Key), printExpression(kv.Value))
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("/* unrenderable value %T */", v)
	}
}

// formatFloat renders a float/double the way AVM1 source debug output does:
// shortest round-tripping decimal, with `.0` appended to a bare integer so
// `1.0` doesn't collapse to `1`. Exponent forms (e.g. `1e+06`) get no `.0`.
func formatFloat(f float64, bitSize int) string {
	s := strconv.FormatFloat(f, 'g', -1, bitSize)
	if !strings.ContainsAny(s, ".eE") {
		s += ".0"
	}
	return s
}

// quoteString double-quotes s with naive backslash-escaping of quotes,
// backslashes, newlines and carriage returns only - this format's strings
// are not JS-style unicode-escaped.
func quoteString(s string) string {
	var b strings.Builder
	b.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			b.WriteString(`\"`)
		case '\\':
			b.WriteString(`\\`)
		case '\n':
			b.WriteString(`\n`)
		case '\r':
			b.WriteString(`\r`)
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('"')
	return b.String()
}
