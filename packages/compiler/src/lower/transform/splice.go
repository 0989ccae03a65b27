package transform

import (
	"slices"

	"github.com/pkg/errors"
)

// Splice applies r to list, in which the visited element sits at index. It
// returns the new list together with the start and length of the segment
// that now stands where the visited element stood: the elements added
// before it, the element itself or its replacement unless removed, and the
// elements added after it. Siblings the result does not name keep their
// relative order.
func Splice[E comparable](list []E, index int, r Result[E]) ([]E, int, int, error) {
	if index < 0 || index >= len(list) {
		return nil, 0, 0, errors.Errorf("splice index %d out of range [0, %d)", index, len(list))
	}
	if r.IsNoChange() {
		return list, index, 1, nil
	}

	var zero E
	visited := list[index]
	pre := slices.Clone(list[:index])
	post := slices.Clone(list[index+1:])
	var before, after []E
	current, present := visited, true

	isCurrent := func(e E) bool {
		return e == zero || e == visited || e == current
	}

	for _, step := range r.steps {
		switch step.Kind {
		case StepReplace:
			if isCurrent(step.Old) {
				if !present {
					return nil, 0, 0, errors.New("cannot replace an element that was removed")
				}
				current = step.New
				continue
			}
			replaced := false
			for _, siblings := range [][]E{pre, before, after, post} {
				if i := slices.Index(siblings, step.Old); i >= 0 {
					siblings[i] = step.New
					replaced = true
					break
				}
			}
			if !replaced {
				return nil, 0, 0, errors.New("the element to replace is not in the container")
			}
		case StepAdd:
			if step.Position == PositionBefore {
				before = append(before, step.New)
			} else {
				after = append(after, step.New)
			}
		case StepRemove:
			if isCurrent(step.Old) {
				if !present {
					return nil, 0, 0, errors.New("cannot remove an element twice")
				}
				present = false
				continue
			}
			removed := false
			for _, siblings := range []*[]E{&pre, &before, &after, &post} {
				if i := slices.Index(*siblings, step.Old); i >= 0 {
					*siblings = slices.Delete(*siblings, i, i+1)
					removed = true
					break
				}
			}
			if !removed {
				return nil, 0, 0, errors.New("the element to remove is not in the container")
			}
		}
	}

	result := make([]E, 0, len(pre)+len(before)+1+len(after)+len(post))
	result = append(result, pre...)
	result = append(result, before...)
	if present {
		result = append(result, current)
	}
	result = append(result, after...)
	result = append(result, post...)
	n := len(before) + len(after)
	if present {
		n++
	}
	return result, len(pre), n, nil
}

// ApplySingle applies r to an element held in a single slot. Only replace is
// legal, and remove when the slot is optional.
func ApplySingle[E comparable](current E, r Result[E], optional bool) (E, error) {
	var zero E
	for _, step := range r.steps {
		switch step.Kind {
		case StepReplace:
			if step.Old != zero && step.Old != current {
				return zero, errors.New("the element to replace is not in the slot")
			}
			current = step.New
		case StepAdd:
			return zero, errors.Errorf("cannot add %T next to an element held in a single slot", step.New)
		case StepRemove:
			if !optional {
				return zero, errors.Errorf("cannot remove the required %T", current)
			}
			current = zero
		}
	}
	return current, nil
}
