package lower

import (
	"fmt"

	"dotlin-go/packages/compiler/src/config"
	"dotlin-go/packages/compiler/src/ir"
	"dotlin-go/packages/compiler/src/ir/visit"
	"dotlin-go/packages/compiler/src/lower/compilation"
	"dotlin-go/packages/compiler/src/lower/phases"
	"dotlin-go/packages/compiler/src/lower/transform"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
)

// Granularity is the unit a phase is invoked on
type Granularity int

const (
	// GranularityFile - The phase receives every file and mutates it itself
	GranularityFile Granularity = iota
	// GranularityDeclaration - The phase receives every member and local declaration
	GranularityDeclaration
	// GranularityStatement - The phase receives every statement of every statement list
	GranularityStatement
	// GranularityExpression - The phase receives every expression, children first
	GranularityExpression
)

func (g Granularity) String() string {
	switch g {
	case GranularityFile:
		return "file"
	case GranularityDeclaration:
		return "declaration"
	case GranularityStatement:
		return "statement"
	case GranularityExpression:
		return "expression"
	}
	return fmt.Sprintf("Granularity(%d)", int(g))
}

type (
	FileFn        = func(ctx *compilation.Context, file *ir.File) error
	DeclarationFn = func(ctx *compilation.Context, decl ir.Declaration) (transform.Result[ir.Declaration], error)
	StatementFn   = func(ctx *compilation.Context, stmt ir.Statement, vctx visit.ExpressionContext) (transform.Result[ir.Statement], error)
	ExpressionFn  = func(ctx *compilation.Context, expr ir.Expression, vctx visit.ExpressionContext) (transform.Result[ir.Expression], error)
)

// Phase represents a lowering phase
type Phase struct {
	Name string
	Kind Granularity
	// Requires is a semver constraint on the target version. Empty means always.
	Requires string
	Fn       interface{} // FileFn | DeclarationFn | StatementFn | ExpressionFn
}

// Phases run in this order. A phase may assume every phase above it has
// completed over the whole module.
var phasesList = []Phase{
	{"InterfaceToAbstractClass", GranularityDeclaration, "< 3.0.0", phases.InterfaceToAbstractClass},
	{"PrivateNames", GranularityDeclaration, "", phases.PrivateNames},
	{"ConstructorNames", GranularityDeclaration, "", phases.ConstructorNames},
	{"DefaultConstructors", GranularityDeclaration, "", phases.DefaultConstructors},
	{"PropertySimplifying", GranularityDeclaration, "", phases.PropertySimplifying},
	{"PropertiesReferencingThis", GranularityFile, "", phases.PropertiesReferencingThis},
	{"Composites", GranularityStatement, "", phases.Composites},
	{"ConjunctionsDisjunctions", GranularityExpression, "", phases.ConjunctionsDisjunctions},
	{"RemoveIntegerLiteralCasts", GranularityExpression, "", phases.RemoveIntegerLiteralCasts},
	{"UnitReturns", GranularityExpression, "", phases.UnitReturns},
	{"Contravariant", GranularityFile, "", phases.Contravariant},
	{"CollectImports", GranularityFile, "", phases.CollectImports},
}

// Phases returns the names of the registered phases in order
func Phases() []string {
	names := make([]string, len(phasesList))
	for i, phase := range phasesList {
		names[i] = phase.Name
	}
	return names
}

// Lower runs every registered phase against module. After it returns without
// error the module only contains constructs the emitter understands.
func Lower(module *ir.Module, cfg *config.CompilerConfig) error {
	return Run(compilation.NewContext(module, cfg), phasesList)
}

// Run applies phaseList in order to every file of the context's module. The
// first error aborts the run, leaving the module partially lowered.
func Run(ctx *compilation.Context, phaseList []Phase) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = errors.Wrap(e, "lowering aborted")
				return
			}
			err = errors.Errorf("lowering aborted: %v", r)
		}
	}()

	for _, phase := range phaseList {
		enabled, err := phaseEnabled(ctx.Config, phase)
		if err != nil {
			return err
		}
		if !enabled {
			ctx.Logf("skipping %s", phase.Name)
			continue
		}
		ctx.Logf("running %s (%s)", phase.Name, phase.Kind)
		for _, file := range ctx.Module.Files {
			if ctx.Module.Builtins.IsBuiltinFile(file) {
				continue
			}
			if err := runPhase(ctx, phase, file); err != nil {
				return errors.Wrapf(err, "%s in %s", phase.Name, file.Name)
			}
		}
	}
	ctx.FlushImports()
	return nil
}

func phaseEnabled(cfg *config.CompilerConfig, phase Phase) (bool, error) {
	if cfg.IsPhaseDisabled(phase.Name) {
		return false, nil
	}
	if phase.Requires == "" || cfg.TargetVersion == nil {
		return true, nil
	}
	constraint, err := semver.NewConstraint(phase.Requires)
	if err != nil {
		return false, errors.Wrapf(err, "phase %s has an invalid constraint", phase.Name)
	}
	return constraint.Check(cfg.TargetVersion), nil
}

func runPhase(ctx *compilation.Context, phase Phase, file *ir.File) error {
	switch fn := phase.Fn.(type) {
	case FileFn:
		return fn(ctx, file)
	case DeclarationFn:
		return newDeclarationDriver(ctx, fn).file(file)
	case StatementFn:
		return newStatementDriver(ctx, fn).node(file, visit.NewExpressionContext(file))
	case ExpressionFn:
		return transformExpressions(ctx, file, fn)
	default:
		panic(fmt.Sprintf("phase %s: unexpected function type %T", phase.Name, phase.Fn))
	}
}
