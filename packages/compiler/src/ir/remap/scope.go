package remap

import (
	"dotlin-go/packages/compiler/src/ir"
)

// Scope returns the roots a remap at level has to visit for a change of decl.
// Module scope covers every file of the module decl belongs to.
func Scope(decl ir.Declaration, level ir.RemapLevel) []ir.Node {
	switch level {
	case ir.RemapNone:
		return nil
	case ir.RemapParent:
		if parent := decl.GetParent(); parent != nil {
			return []ir.Node{parent}
		}
		return nil
	case ir.RemapClass:
		if class := ir.EnclosingClass(decl); class != nil {
			return []ir.Node{class}
		}
		return Scope(decl, ir.RemapFile)
	case ir.RemapFile:
		if file := ir.FileOf(decl); file != nil {
			return []ir.Node{file}
		}
		return nil
	case ir.RemapModule:
		file := ir.FileOf(decl)
		if file == nil {
			return nil
		}
		if file.Module == nil {
			return []ir.Node{file}
		}
		roots := make([]ir.Node, len(file.Module.Files))
		for i, f := range file.Module.Files {
			roots[i] = f
		}
		return roots
	}
	return nil
}

// AtLevel applies mapping to the scope of decl at level. A module level remap
// also forwards every old symbol to its replacement, since no reference to the
// old declaration can remain.
func AtLevel(table *ir.SymbolTable, decl ir.Declaration, level ir.RemapLevel, mapping Mapping) error {
	if level == ir.RemapNone || len(mapping) == 0 {
		return nil
	}
	if err := Validate(table, mapping); err != nil {
		return err
	}
	roots := Scope(decl, level)
	for _, root := range roots {
		if err := newRemapper(table, mapping).remap(root); err != nil {
			return err
		}
	}
	if level == ir.RemapModule {
		for from, to := range mapping {
			table.Forward(from, to)
		}
	}
	return nil
}
