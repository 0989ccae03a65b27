package serial

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"runtime"

	"dotlin-go/packages/compiler/src/ir"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
)

// Load reads and decodes the documents at paths concurrently, then builds
// them into a module called name. Files keep the order of paths.
func Load(ctx context.Context, name string, paths []string) (*ir.Module, error) {
	docs := make([]*document, len(paths))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i, path := range paths {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			data, err := os.ReadFile(path)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", path, err)
			}
			doc, err := decode(data)
			if err != nil {
				return fmt.Errorf("failed to decode %s: %w", path, err)
			}
			docs[i] = doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return build(name, docs)
}

// Parse builds a module called name from in-memory documents
func Parse(name string, sources ...[]byte) (*ir.Module, error) {
	docs := make([]*document, len(sources))
	for i, data := range sources {
		doc, err := decode(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode document %d: %w", i, err)
		}
		docs[i] = doc
	}
	return build(name, docs)
}

var declarationKinds = map[string]bool{
	"class":         true,
	"function":      true,
	"constructor":   true,
	"property":      true,
	"field":         true,
	"parameter":     true,
	"variable":      true,
	"typealias":     true,
	"typeparameter": true,
}

// builder turns documents into a module. Ids are allocated a symbol up front
// so references may point forward and across files.
type builder struct {
	module  *ir.Module
	symbols map[int]ir.Symbol
}

func build(name string, docs []*document) (*ir.Module, error) {
	b := &builder{module: ir.NewModule(name), symbols: make(map[int]ir.Symbol)}
	for _, doc := range docs {
		for _, n := range doc.Declarations {
			if err := b.declare(n); err != nil {
				return nil, errors.Wrapf(err, "in %s", doc.Name)
			}
		}
	}

	for _, doc := range docs {
		file := ir.NewFile(doc.Name, doc.Package)
		b.module.AddFile(file)
		for _, n := range doc.Declarations {
			decl, err := b.declaration(n, file)
			if err != nil {
				return nil, errors.Wrapf(err, "in %s", doc.Name)
			}
			file.AddDeclaration(decl)
		}
	}
	return b.module, nil
}

// declare allocates a symbol for every declaration under n
func (b *builder) declare(n *node) error {
	if declarationKinds[n.Kind] {
		if n.ID <= 0 {
			return errors.Errorf("%s %q has no id", n.Kind, n.Name)
		}
		if _, ok := b.symbols[n.ID]; ok {
			return errors.Errorf("id %d is declared twice", n.ID)
		}
		b.symbols[n.ID] = b.module.Symbols.Allocate()
	}
	for _, child := range n.children() {
		if err := b.declare(child); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) ref(id int) (ir.Symbol, error) {
	sym, ok := b.symbols[id]
	if !ok {
		return ir.NoSymbol, errors.Errorf("undeclared id %d", id)
	}
	return sym, nil
}

func (b *builder) refs(ids []int) ([]ir.Symbol, error) {
	var syms []ir.Symbol
	for _, id := range ids {
		sym, err := b.ref(id)
		if err != nil {
			return nil, err
		}
		syms = append(syms, sym)
	}
	return syms, nil
}

func (b *builder) bind(n *node, decl ir.Declaration, parent ir.DeclarationParent) {
	decl.SetParent(parent)
	b.module.Symbols.BindTo(b.symbols[n.ID], decl)
}

func (b *builder) declaration(n *node, parent ir.DeclarationParent) (ir.Declaration, error) {
	visibility, err := lookup(visibilities, "visibility", n.Visibility)
	if err != nil {
		return nil, err
	}
	modality, err := lookup(modalities, "modality", n.Modality)
	if err != nil {
		return nil, err
	}
	origin, err := lookup(origins, "origin", n.Origin)
	if err != nil {
		return nil, err
	}

	switch n.Kind {
	case "class":
		kind, err := lookup(classKinds, "class kind", n.ClassKind)
		if err != nil {
			return nil, err
		}
		class := ir.NewClass(n.Name, kind)
		class.Visibility = visibility
		class.Modality = modality
		class.IsExternal = n.External
		class.Origin = origin
		b.bind(n, class, parent)
		for _, tn := range n.TypeParameters {
			tp, err := b.typeParameter(tn, class)
			if err != nil {
				return nil, err
			}
			class.AddTypeParameter(tp)
		}
		if class.SuperTypes, err = b.types(n.SuperTypes); err != nil {
			return nil, err
		}
		for _, mn := range n.Declarations {
			member, err := b.declaration(mn, class)
			if err != nil {
				return nil, err
			}
			class.AddDeclaration(member)
		}
		return class, nil

	case "function":
		return b.function(n, parent, visibility, modality, origin)

	case "constructor":
		ctor := ir.NewConstructor(nil, n.Primary)
		if n.Name != "" {
			ctor.Name = n.Name
		}
		ctor.Visibility = visibility
		ctor.IsExternal = n.External
		ctor.Origin = origin
		b.bind(n, ctor, parent)
		if ctor.ReturnType, err = b.typ(n.ReturnType); err != nil {
			return nil, err
		}
		for _, vn := range n.ValueParameters {
			vp, err := b.valueParameter(vn, ctor)
			if err != nil {
				return nil, err
			}
			ctor.AddValueParameter(vp)
		}
		return ctor, b.body(n, &ctor.FunctionBase, ctor)

	case "property":
		prop := ir.NewProperty(n.Name, n.Var)
		prop.Visibility = visibility
		prop.Modality = modality
		prop.IsExternal = n.External
		prop.Origin = origin
		b.bind(n, prop, parent)
		if prop.Overridden, err = b.refs(n.Overridden); err != nil {
			return nil, err
		}
		// the field and accessors live next to the property
		if n.BackingField != nil {
			decl, err := b.declaration(n.BackingField, parent)
			if err != nil {
				return nil, err
			}
			field, ok := decl.(*ir.Field)
			if !ok {
				return nil, errors.Errorf("the backing field of %q is a %s", n.Name, n.BackingField.Kind)
			}
			field.CorrespondingProperty = prop.GetSymbol()
			prop.BackingField = field
		}
		if prop.Getter, err = b.accessor(n.Getter, prop, parent); err != nil {
			return nil, err
		}
		if prop.Setter, err = b.accessor(n.Setter, prop, parent); err != nil {
			return nil, err
		}
		return prop, nil

	case "field":
		field := ir.NewField(n.Name, nil)
		field.Visibility = visibility
		field.IsFinal = n.Final
		field.IsStatic = n.Static
		field.IsLate = n.Late
		field.Origin = origin
		b.bind(n, field, parent)
		if field.Type, err = b.typ(n.Type); err != nil {
			return nil, err
		}
		if field.Initializer, err = b.optionalExpression(n.Initializer, parent); err != nil {
			return nil, err
		}
		return field, nil

	case "parameter":
		return b.valueParameter(n, parent)

	case "variable":
		variable := ir.NewVariable(n.Name, nil, nil)
		variable.IsVar = n.Var
		variable.IsLate = n.Late
		variable.Origin = origin
		b.bind(n, variable, parent)
		if variable.Type, err = b.typ(n.Type); err != nil {
			return nil, err
		}
		if variable.Initializer, err = b.optionalExpression(n.Initializer, parent); err != nil {
			return nil, err
		}
		return variable, nil

	case "typealias":
		alias := ir.NewTypeAlias(n.Name, nil)
		alias.Visibility = visibility
		alias.Origin = origin
		b.bind(n, alias, parent)
		for i, tn := range n.TypeParameters {
			tp, err := b.typeParameter(tn, alias)
			if err != nil {
				return nil, err
			}
			tp.Index = i
			alias.TypeParameters = append(alias.TypeParameters, tp)
		}
		if alias.Target, err = b.typ(n.Target); err != nil {
			return nil, err
		}
		return alias, nil

	case "typeparameter":
		return nil, errors.Errorf("type parameter %q is not owned by a class, function or type alias", n.Name)
	}
	return nil, errors.Errorf("unknown declaration kind %q", n.Kind)
}

func (b *builder) function(n *node, parent ir.DeclarationParent, visibility ir.Visibility, modality ir.Modality, origin ir.Origin) (*ir.Function, error) {
	if n.Kind != "function" {
		return nil, errors.Errorf("expected a function, found %s %q", n.Kind, n.Name)
	}
	fn := ir.NewFunction(n.Name, nil)
	fn.Visibility = visibility
	fn.Modality = modality
	fn.IsExternal = n.External
	fn.IsStatic = n.Static
	fn.Origin = origin
	b.bind(n, fn, parent)

	var err error
	if fn.Overridden, err = b.refs(n.Overridden); err != nil {
		return nil, err
	}
	for _, tn := range n.TypeParameters {
		tp, err := b.typeParameter(tn, fn)
		if err != nil {
			return nil, err
		}
		fn.AddTypeParameter(tp)
	}
	if fn.ReturnType, err = b.typ(n.ReturnType); err != nil {
		return nil, err
	}
	for _, vn := range n.ValueParameters {
		vp, err := b.valueParameter(vn, fn)
		if err != nil {
			return nil, err
		}
		fn.AddValueParameter(vp)
	}
	return fn, b.body(n, &fn.FunctionBase, fn)
}

func (b *builder) body(n *node, fn *ir.FunctionBase, self ir.DeclarationParent) error {
	if n.Body == nil {
		return nil
	}
	switch n.Body.Kind {
	case "blockBody":
		statements, err := b.statements(n.Body.Statements, self)
		if err != nil {
			return err
		}
		fn.Body = ir.NewBlockBody(statements...)
	case "expressionBody":
		expr, err := b.expression(n.Body.Expression, self)
		if err != nil {
			return err
		}
		fn.Body = ir.NewExpressionBody(expr)
	default:
		return errors.Errorf("unknown body kind %q", n.Body.Kind)
	}
	return nil
}

func (b *builder) accessor(n *node, prop *ir.Property, parent ir.DeclarationParent) (*ir.Function, error) {
	if n == nil {
		return nil, nil
	}
	visibility, err := lookup(visibilities, "visibility", n.Visibility)
	if err != nil {
		return nil, err
	}
	modality, err := lookup(modalities, "modality", n.Modality)
	if err != nil {
		return nil, err
	}
	origin, err := lookup(origins, "origin", n.Origin)
	if err != nil {
		return nil, err
	}
	fn, err := b.function(n, parent, visibility, modality, origin)
	if err != nil {
		return nil, err
	}
	fn.CorrespondingProperty = prop.GetSymbol()
	return fn, nil
}

func (b *builder) valueParameter(n *node, parent ir.DeclarationParent) (*ir.ValueParameter, error) {
	if n.Kind != "parameter" {
		return nil, errors.Errorf("expected a parameter, found %s %q", n.Kind, n.Name)
	}
	vp := ir.NewValueParameter(n.Name, nil)
	b.bind(n, vp, parent)
	var err error
	if vp.Type, err = b.typ(n.Type); err != nil {
		return nil, err
	}
	if vp.VarargElementType, err = b.typ(n.VarargElementType); err != nil {
		return nil, err
	}
	if vp.Default, err = b.optionalExpression(n.Default, parent); err != nil {
		return nil, err
	}
	return vp, nil
}

func (b *builder) typeParameter(n *node, parent ir.DeclarationParent) (*ir.TypeParameter, error) {
	if n.Kind != "typeparameter" {
		return nil, errors.Errorf("expected a type parameter, found %s %q", n.Kind, n.Name)
	}
	variance, err := lookup(variances, "variance", n.Variance)
	if err != nil {
		return nil, err
	}
	tp := ir.NewTypeParameter(n.Name, variance)
	b.bind(n, tp, parent)
	if tp.SuperTypes, err = b.types(n.SuperTypes); err != nil {
		return nil, err
	}
	return tp, nil
}

func (b *builder) statements(nodes []*node, container ir.DeclarationParent) ([]ir.Statement, error) {
	statements := make([]ir.Statement, 0, len(nodes))
	for _, n := range nodes {
		var stmt ir.Statement
		var err error
		if declarationKinds[n.Kind] {
			stmt, err = b.declaration(n, container)
		} else {
			stmt, err = b.expression(n, container)
		}
		if err != nil {
			return nil, err
		}
		statements = append(statements, stmt)
	}
	return statements, nil
}

func (b *builder) optionalExpression(n *node, container ir.DeclarationParent) (ir.Expression, error) {
	if n == nil {
		return nil, nil
	}
	return b.expression(n, container)
}

func (b *builder) expressions(nodes []*node, container ir.DeclarationParent) ([]ir.Expression, error) {
	exprs := make([]ir.Expression, len(nodes))
	for i, n := range nodes {
		// an absent argument uses the parameter's default value
		expr, err := b.optionalExpression(n, container)
		if err != nil {
			return nil, err
		}
		exprs[i] = expr
	}
	return exprs, nil
}

func (b *builder) expression(n *node, container ir.DeclarationParent) (ir.Expression, error) {
	if n == nil {
		return nil, errors.New("missing expression")
	}
	t, err := b.typ(n.Type)
	if err != nil {
		return nil, err
	}
	origin, err := lookup(origins, "origin", n.Origin)
	if err != nil {
		return nil, err
	}
	// builtins have no id, so references to them name the builtin
	ref := func() (ir.Symbol, error) {
		if n.Builtin != "" {
			class, ok := b.module.Builtins.Lookup(n.Builtin)
			if !ok {
				return ir.NoSymbol, errors.Errorf("unknown builtin %q", n.Builtin)
			}
			return class.GetSymbol(), nil
		}
		return b.ref(n.Ref)
	}

	switch n.Kind {
	case "const":
		kind, err := lookup(constKinds, "constant kind", n.ConstKind)
		if err != nil {
			return nil, err
		}
		value, err := constValue(kind, n.Value)
		if err != nil {
			return nil, err
		}
		return ir.NewConst(kind, value, t), nil

	case "getValue":
		sym, err := ref()
		if err != nil {
			return nil, err
		}
		return ir.NewGetValue(sym, t), nil

	case "setValue":
		sym, err := ref()
		if err != nil {
			return nil, err
		}
		value, err := b.expression(n.Expression, container)
		if err != nil {
			return nil, err
		}
		return ir.NewSetValue(sym, value, t), nil

	case "getField":
		sym, err := ref()
		if err != nil {
			return nil, err
		}
		receiver, err := b.optionalExpression(n.Receiver, container)
		if err != nil {
			return nil, err
		}
		return ir.NewGetField(sym, receiver, t), nil

	case "setField":
		sym, err := ref()
		if err != nil {
			return nil, err
		}
		receiver, err := b.optionalExpression(n.Receiver, container)
		if err != nil {
			return nil, err
		}
		value, err := b.expression(n.Expression, container)
		if err != nil {
			return nil, err
		}
		return ir.NewSetField(sym, receiver, value, t), nil

	case "getThis":
		sym, err := ref()
		if err != nil {
			return nil, err
		}
		return ir.NewGetThis(sym, t), nil

	case "getObject":
		sym, err := ref()
		if err != nil {
			return nil, err
		}
		return ir.NewGetObject(sym, t), nil

	case "call":
		sym, err := ref()
		if err != nil {
			return nil, err
		}
		args, err := b.expressions(n.Arguments, container)
		if err != nil {
			return nil, err
		}
		call := ir.NewCall(sym, t, args...)
		call.Origin = origin
		if call.DispatchReceiver, err = b.optionalExpression(n.Receiver, container); err != nil {
			return nil, err
		}
		if call.TypeArguments, err = b.types(n.TypeArguments); err != nil {
			return nil, err
		}
		return call, nil

	case "return":
		sym, err := ref()
		if err != nil {
			return nil, err
		}
		value, err := b.optionalExpression(n.Expression, container)
		if err != nil {
			return nil, err
		}
		return ir.NewReturn(sym, value, t), nil

	case "throw":
		value, err := b.expression(n.Expression, container)
		if err != nil {
			return nil, err
		}
		return ir.NewThrow(value, t), nil

	case "block":
		statements, err := b.statements(n.Statements, container)
		if err != nil {
			return nil, err
		}
		block := ir.NewBlock(t, statements...)
		block.Origin = origin
		return block, nil

	case "when":
		branches := make([]*ir.Branch, len(n.Branches))
		for i, bn := range n.Branches {
			condition, err := b.expression(bn.Condition, container)
			if err != nil {
				return nil, err
			}
			result, err := b.expression(bn.Result, container)
			if err != nil {
				return nil, err
			}
			branches[i] = &ir.Branch{Condition: condition, Result: result}
		}
		return ir.NewWhen(t, origin, branches...), nil

	case "typeOperator":
		op, err := lookup(typeOperators, "type operator", n.Operator)
		if err != nil {
			return nil, err
		}
		argument, err := b.expression(n.Expression, container)
		if err != nil {
			return nil, err
		}
		operand, err := b.typ(n.Operand)
		if err != nil {
			return nil, err
		}
		return ir.NewTypeOperatorCall(op, argument, operand, t), nil

	case "vararg":
		elementType, err := b.typ(n.ElementType)
		if err != nil {
			return nil, err
		}
		elements, err := b.expressions(n.Elements, container)
		if err != nil {
			return nil, err
		}
		return ir.NewVararg(elementType, t, elements...), nil

	case "lambda":
		if n.Function == nil {
			return nil, errors.New("lambda has no function")
		}
		visibility, err := lookup(visibilities, "visibility", n.Function.Visibility)
		if err != nil {
			return nil, err
		}
		fn, err := b.function(n.Function, container, visibility, ir.ModalityFinal, origin)
		if err != nil {
			return nil, err
		}
		return ir.NewFunctionExpr(fn, t), nil

	case "conjunction", "disjunction":
		operands, err := b.expressions(n.Operands, container)
		if err != nil {
			return nil, err
		}
		if n.Kind == "conjunction" {
			return ir.NewConjunction(t, operands...), nil
		}
		return ir.NewDisjunction(t, operands...), nil
	}
	return nil, errors.Errorf("unknown node kind %q", n.Kind)
}

func constValue(kind ir.ConstKind, raw json.RawMessage) (interface{}, error) {
	if kind == ir.ConstKindNull {
		return nil, nil
	}
	if len(raw) == 0 {
		return nil, errors.New("constant has no value")
	}
	var err error
	switch {
	case kind == ir.ConstKindBoolean:
		var v bool
		err = json.Unmarshal(raw, &v)
		return v, err
	case kind == ir.ConstKindChar:
		var s string
		if err = json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		runes := []rune(s)
		if len(runes) != 1 {
			return nil, errors.Errorf("character constant %q is not one character", s)
		}
		return runes[0], nil
	case kind.IsInteger():
		var v int64
		err = json.Unmarshal(raw, &v)
		return v, err
	case kind == ir.ConstKindDouble:
		var v float64
		err = json.Unmarshal(raw, &v)
		return v, err
	}
	var s string
	err = json.Unmarshal(raw, &s)
	return s, err
}

func (b *builder) types(refs []*typeRef) ([]ir.Type, error) {
	if refs == nil {
		return nil, nil
	}
	types := make([]ir.Type, len(refs))
	for i, ref := range refs {
		t, err := b.typ(ref)
		if err != nil {
			return nil, err
		}
		types[i] = t
	}
	return types, nil
}

func (b *builder) typ(ref *typeRef) (ir.Type, error) {
	switch {
	case ref == nil:
		return nil, nil
	case ref.Dynamic:
		return ir.Dynamic, nil
	case ref.Return != nil:
		ret, err := b.typ(ref.Return)
		if err != nil {
			return nil, err
		}
		params, err := b.types(ref.Parameters)
		if err != nil {
			return nil, err
		}
		ft := ir.NewFunctionType(ret, params...)
		ft.Nullable = ref.Nullable
		return ft, nil
	}

	var classifier ir.Symbol
	if ref.Builtin != "" {
		class, ok := b.module.Builtins.Lookup(ref.Builtin)
		if !ok {
			return nil, errors.Errorf("unknown builtin %q", ref.Builtin)
		}
		classifier = class.GetSymbol()
	} else {
		sym, err := b.ref(ref.Classifier)
		if err != nil {
			return nil, err
		}
		classifier = sym
	}

	args := make([]ir.TypeArgument, len(ref.Arguments))
	for i, arg := range ref.Arguments {
		if arg.Star {
			args[i] = ir.StarArgument()
			continue
		}
		variance, err := lookup(variances, "variance", arg.Variance)
		if err != nil {
			return nil, err
		}
		t, err := b.typ(arg.Type)
		if err != nil {
			return nil, err
		}
		if t == nil {
			return nil, errors.New("type argument has no type")
		}
		args[i] = ir.TypeArgument{Variance: variance, Type: t}
	}
	st := ir.NewSimpleType(classifier, args...)
	st.Nullable = ref.Nullable
	return st, nil
}
