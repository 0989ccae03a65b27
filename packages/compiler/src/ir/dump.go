package ir

import (
	"fmt"
	"strings"
)

// Dump renders node and everything it owns as an indented tree. References
// are rendered by the name of the declaration their symbol resolves to.
func Dump(table *SymbolTable, node Node) string {
	p := &dumper{table: table}
	p.node(node)
	return p.sb.String()
}

// RenderType renders t the way it would be written in source
func RenderType(table *SymbolTable, t Type) string {
	switch t := t.(type) {
	case nil:
		return "<none>"
	case *DynamicType:
		return "dynamic"
	case *FunctionType:
		params := make([]string, len(t.Parameters))
		for i, param := range t.Parameters {
			params[i] = RenderType(table, param)
		}
		rendered := fmt.Sprintf("(%s) -> %s", strings.Join(params, ", "), RenderType(table, t.Return))
		if t.Nullable {
			return "(" + rendered + ")?"
		}
		return rendered
	case *SimpleType:
		var sb strings.Builder
		sb.WriteString(symbolName(table, t.Classifier))
		if len(t.Arguments) > 0 {
			args := make([]string, len(t.Arguments))
			for i, arg := range t.Arguments {
				switch {
				case arg.IsStar():
					args[i] = "*"
				case arg.Variance != VarianceInvariant:
					args[i] = arg.Variance.String() + " " + RenderType(table, arg.Type)
				default:
					args[i] = RenderType(table, arg.Type)
				}
			}
			sb.WriteString("<" + strings.Join(args, ", ") + ">")
		}
		if t.Nullable {
			sb.WriteString("?")
		}
		return sb.String()
	default:
		return fmt.Sprintf("<%T>", t)
	}
}

func symbolName(table *SymbolTable, sym Symbol) string {
	if decl, ok := table.Lookup(sym); ok {
		return decl.GetName()
	}
	return fmt.Sprintf("<unbound #%d>", sym)
}

type dumper struct {
	table  *SymbolTable
	sb     strings.Builder
	indent int
}

func (p *dumper) line(format string, args ...interface{}) {
	p.sb.WriteString(strings.Repeat("  ", p.indent))
	p.sb.WriteString(fmt.Sprintf(format, args...))
	p.sb.WriteString("\n")
}

func (p *dumper) typ(t Type) string {
	return RenderType(p.table, t)
}

func (p *dumper) types(ts []Type) string {
	rendered := make([]string, len(ts))
	for i, t := range ts {
		rendered[i] = p.typ(t)
	}
	return "[" + strings.Join(rendered, ", ") + "]"
}

func (p *dumper) name(sym Symbol) string {
	return symbolName(p.table, sym)
}

func (p *dumper) children(n Node) {
	p.indent++
	n.AcceptChildren(p.node)
	p.indent--
}

func flags(pairs ...interface{}) string {
	var parts []string
	for i := 0; i+1 < len(pairs); i += 2 {
		if set, _ := pairs[i+1].(bool); set {
			parts = append(parts, pairs[i].(string))
		}
	}
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, " ")
}

func (p *dumper) node(n Node) {
	switch n := n.(type) {
	case *File:
		p.line("FILE name=%s package=%s", n.Name, n.Package)
		for _, imp := range n.Imports {
			p.line("  IMPORT %s", imp)
		}
	case *Class:
		p.line("CLASS name=%s kind=%s modality=%s visibility=%s supertypes=%s%s",
			n.Name, n.ClassKind, n.Modality, n.Visibility, p.types(n.SuperTypes), flags("external", n.IsExternal))
	case *Function:
		line := fmt.Sprintf("FUN name=%s returnType=%s modality=%s visibility=%s", n.Name, p.typ(n.ReturnType), n.Modality, n.Visibility)
		if len(n.Overridden) > 0 {
			names := make([]string, len(n.Overridden))
			for i, sym := range n.Overridden {
				names[i] = p.name(sym)
			}
			line += " overridden=[" + strings.Join(names, ", ") + "]"
		}
		if n.IsAccessor() {
			line += " correspondingProperty=" + p.name(n.CorrespondingProperty)
		}
		if n.Origin != OriginDefined {
			line += " origin=" + n.Origin.String()
		}
		p.line("%s%s", line, flags("static", n.IsStatic, "external", n.IsExternal))
	case *Constructor:
		p.line("CONSTRUCTOR name=%s returnType=%s visibility=%s%s", n.Name, p.typ(n.ReturnType), n.Visibility, flags("primary", n.IsPrimary))
	case *Property:
		p.line("PROPERTY name=%s modality=%s visibility=%s%s", n.Name, n.Modality, n.Visibility, flags("var", n.IsVar, "external", n.IsExternal))
	case *Field:
		line := fmt.Sprintf("FIELD name=%s type=%s visibility=%s", n.Name, p.typ(n.Type), n.Visibility)
		if n.CorrespondingProperty != NoSymbol {
			line += " correspondingProperty=" + p.name(n.CorrespondingProperty)
		}
		p.line("%s%s", line, flags("final", n.IsFinal, "static", n.IsStatic, "late", n.IsLate))
	case *ValueParameter:
		line := fmt.Sprintf("VALUE_PARAMETER name=%s index=%d type=%s", n.Name, n.Index, p.typ(n.Type))
		if n.VarargElementType != nil {
			line += " varargElementType=" + p.typ(n.VarargElementType)
		}
		p.line("%s", line)
	case *Variable:
		p.line("VAR name=%s type=%s%s", n.Name, p.typ(n.Type), flags("var", n.IsVar, "late", n.IsLate))
	case *TypeAlias:
		p.line("TYPEALIAS name=%s target=%s visibility=%s", n.Name, p.typ(n.Target), n.Visibility)
	case *TypeParameter:
		line := fmt.Sprintf("TYPE_PARAMETER name=%s index=%d", n.Name, n.Index)
		if n.Variance != VarianceInvariant {
			line += " variance=" + n.Variance.String()
		}
		p.line("%s superTypes=%s", line, p.types(n.SuperTypes))
	case *BlockBody:
		p.line("BLOCK_BODY")
	case *ExpressionBody:
		p.line("EXPRESSION_BODY")
	case *Const:
		p.line("CONST kind=%s value=%v type=%s", constKindName(n.Kind), n.Value, p.typ(n.Type))
	case *GetValue:
		p.line("GET_VALUE %s type=%s", p.name(n.Symbol), p.typ(n.Type))
	case *SetValue:
		p.line("SET_VALUE %s type=%s", p.name(n.Symbol), p.typ(n.Type))
	case *GetField:
		p.line("GET_FIELD %s type=%s", p.name(n.Symbol), p.typ(n.Type))
	case *SetField:
		p.line("SET_FIELD %s type=%s", p.name(n.Symbol), p.typ(n.Type))
	case *GetThis:
		p.line("GET_THIS %s type=%s", p.name(n.Class), p.typ(n.Type))
	case *GetObject:
		p.line("GET_OBJECT %s type=%s", p.name(n.Class), p.typ(n.Type))
	case *Call:
		line := fmt.Sprintf("CALL %s type=%s", p.name(n.Symbol), p.typ(n.Type))
		if len(n.TypeArguments) > 0 {
			line += " typeArguments=" + p.types(n.TypeArguments)
		}
		if n.Origin != OriginDefined {
			line += " origin=" + n.Origin.String()
		}
		p.line("%s", line)
	case *Return:
		p.line("RETURN target=%s type=%s", p.name(n.Target), p.typ(n.Type))
	case *Throw:
		p.line("THROW type=%s", p.typ(n.Type))
	case *Block:
		line := fmt.Sprintf("BLOCK type=%s", p.typ(n.Type))
		if n.Origin != OriginDefined {
			line += " origin=" + n.Origin.String()
		}
		p.line("%s", line)
	case *When:
		line := fmt.Sprintf("WHEN type=%s", p.typ(n.Type))
		if n.Origin != OriginDefined {
			line += " origin=" + n.Origin.String()
		}
		p.line("%s", line)
		p.indent++
		for _, branch := range n.Branches {
			p.line("BRANCH")
			p.indent++
			p.node(branch.Condition)
			p.node(branch.Result)
			p.indent--
		}
		p.indent--
		return
	case *TypeOperatorCall:
		p.line("TYPE_OP %s operand=%s type=%s", n.Operator, p.typ(n.Operand), p.typ(n.Type))
	case *Vararg:
		p.line("VARARG elementType=%s type=%s", p.typ(n.ElementType), p.typ(n.Type))
	case *FunctionExpr:
		p.line("FUN_EXPR type=%s", p.typ(n.Type))
	case *Conjunction:
		p.line("CONJUNCTION type=%s", p.typ(n.Type))
	case *Disjunction:
		p.line("DISJUNCTION type=%s", p.typ(n.Type))
	default:
		p.line("<%T>", n)
	}
	p.children(n)
}

func constKindName(kind ConstKind) string {
	switch kind {
	case ConstKindNull:
		return "Null"
	case ConstKindBoolean:
		return "Boolean"
	case ConstKindChar:
		return "Char"
	case ConstKindByte:
		return "Byte"
	case ConstKindShort:
		return "Short"
	case ConstKindInt:
		return "Int"
	case ConstKindLong:
		return "Long"
	case ConstKindDouble:
		return "Double"
	default:
		return "String"
	}
}
