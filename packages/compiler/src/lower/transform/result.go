package transform

import (
	"dotlin-go/packages/compiler/src/ir"
)

// StepKind is the kind of a single transformation step
type StepKind int

const (
	// StepReplace - Substitute a new element for the visited one (or Old)
	StepReplace StepKind = iota
	// StepAdd - Insert a sibling before or after the visited element
	StepAdd
	// StepRemove - Delete the visited element (or Old)
	StepRemove
)

func (k StepKind) String() string {
	switch k {
	case StepAdd:
		return "add"
	case StepRemove:
		return "remove"
	default:
		return "replace"
	}
}

// Position of an added sibling relative to the visited element
type Position int

const (
	PositionAfter Position = iota
	PositionBefore
)

// Step is one effect of a pass on a container
type Step[E comparable] struct {
	Kind StepKind
	// Old is the element affected by a replace or remove. The zero value
	// means the visited element.
	Old E
	// New is the replacement or the added element.
	New      E
	Position Position
	// Remap is the scope in which references to Old are redirected to New
	// after a replace.
	Remap ir.RemapLevel
	// Copied marks a replace by a deep copy that must have redirected the
	// references to Old itself.
	Copied bool
}

// Result is the effect of a pass on one visited element: a sequence of steps
// applied in order. The empty sequence means no change.
type Result[E comparable] struct {
	steps []Step[E]
}

// NoChange leaves the visited element as it is
func NoChange[E comparable]() Result[E] {
	return Result[E]{}
}

// Replace substitutes element for the visited element and redirects
// references to the old element within its file.
func Replace[E comparable](element E) Result[E] {
	return ReplaceAt(element, ir.RemapFile)
}

// ReplaceAt substitutes element for the visited element, redirecting
// references at level.
func ReplaceAt[E comparable](element E, level ir.RemapLevel) Result[E] {
	return Result[E]{steps: []Step[E]{{Kind: StepReplace, New: element, Remap: level}}}
}

// ReplaceWithCopy substitutes a deep copy that already redirected the
// references to the visited element.
func ReplaceWithCopy[E comparable](element E) Result[E] {
	return Result[E]{steps: []Step[E]{{Kind: StepReplace, New: element, Remap: ir.RemapNone, Copied: true}}}
}

// ReplaceElement substitutes replacement for old, a sibling of the visited element.
func ReplaceElement[E comparable](old, replacement E, level ir.RemapLevel) Result[E] {
	return Result[E]{steps: []Step[E]{{Kind: StepReplace, Old: old, New: replacement, Remap: level}}}
}

// Add inserts element after the visited element
func Add[E comparable](element E) Result[E] {
	return AddAt(element, PositionAfter)
}

// AddBefore inserts element before the visited element
func AddBefore[E comparable](element E) Result[E] {
	return AddAt(element, PositionBefore)
}

// AddAt inserts element at position relative to the visited element
func AddAt[E comparable](element E, position Position) Result[E] {
	return Result[E]{steps: []Step[E]{{Kind: StepAdd, New: element, Position: position}}}
}

// Remove deletes the visited element
func Remove[E comparable]() Result[E] {
	return Result[E]{steps: []Step[E]{{Kind: StepRemove}}}
}

// RemoveElement deletes old, a sibling of the visited element
func RemoveElement[E comparable](old E) Result[E] {
	return Result[E]{steps: []Step[E]{{Kind: StepRemove, Old: old}}}
}

// And returns the result of applying r and then other
func (r Result[E]) And(other Result[E]) Result[E] {
	if len(other.steps) == 0 {
		return r
	}
	if len(r.steps) == 0 {
		return other
	}
	steps := make([]Step[E], 0, len(r.steps)+len(other.steps))
	steps = append(steps, r.steps...)
	steps = append(steps, other.steps...)
	return Result[E]{steps: steps}
}

// Combine applies results in order
func Combine[E comparable](results ...Result[E]) Result[E] {
	combined := NoChange[E]()
	for _, r := range results {
		combined = combined.And(r)
	}
	return combined
}

// IsNoChange reports whether the result has no effect
func (r Result[E]) IsNoChange() bool {
	return len(r.steps) == 0
}

// Steps returns the steps of the result in order
func (r Result[E]) Steps() []Step[E] {
	return r.steps
}

// Map converts the elements of r with fn
func Map[E, F comparable](r Result[E], fn func(E) F) Result[F] {
	if len(r.steps) == 0 {
		return Result[F]{}
	}
	var zero E
	steps := make([]Step[F], len(r.steps))
	for i, step := range r.steps {
		mapped := Step[F]{Kind: step.Kind, Position: step.Position, Remap: step.Remap, Copied: step.Copied}
		if step.Old != zero {
			mapped.Old = fn(step.Old)
		}
		if step.New != zero {
			mapped.New = fn(step.New)
		}
		steps[i] = mapped
	}
	return Result[F]{steps: steps}
}
