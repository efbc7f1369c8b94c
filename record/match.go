package record

import (
	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// Shared low-level matching primitives. Every helper answers one exact
// structural question and nothing more; matchers compose them.

// anyCall unwraps Call and CallVirt uniformly. Most generated shapes are
// indifferent to the dispatch kind, the few that are not type-switch
// themselves.
func anyCall(inst il.Instruction) (*typesys.Method, []il.Instruction, bool) {
	switch v := inst.(type) {
	case *il.Call:
		return v.Method, v.Args, true
	case *il.CallVirt:
		return v.Method, v.Args, true
	}
	return nil, nil, false
}

// matchThis matches a load of the implicit receiver.
func matchThis(inst il.Instruction) bool {
	_, ok := inst.(*il.LoadThis)
	return ok
}

// matchParamLoad matches a load of the parameter at the given index.
func matchParamLoad(inst il.Instruction, index int) bool {
	ld, ok := inst.(*il.LoadLocal)
	return ok && ld.Variable != nil && ld.Variable.Kind == il.VarParameter && ld.Variable.Index == index
}

// matchLocalLoad matches a load of exactly the given local.
func matchLocalLoad(inst il.Instruction, v *il.Variable) bool {
	ld, ok := inst.(*il.LoadLocal)
	return ok && ld.Variable == v
}

// matchFieldLoad matches a load of exactly the given field where the
// target satisfies the predicate.
func matchFieldLoad(inst il.Instruction, f *typesys.Field, target func(il.Instruction) bool) bool {
	ld, ok := inst.(*il.LoadField)
	return ok && ld.Field == f && target(ld.Target)
}

// matchBuilderAppend matches a call to the builder type's Append where the
// receiver satisfies the predicate, and yields the appended value.
func (c *Classifier) matchBuilderAppend(inst il.Instruction, receiver func(il.Instruction) bool) (il.Instruction, bool) {
	m, args, ok := anyCall(inst)
	if !ok || m.Name != "Append" || len(args) != 2 {
		return nil, false
	}
	if !c.ts.IsKnownType(m.DeclaringType, typesys.KnownStringBuilder) {
		return nil, false
	}
	if !receiver(args[0]) {
		return nil, false
	}
	return args[1], true
}

// matchGetterCall matches a call to exactly the given accessor whose
// receiver satisfies the predicate.
func matchGetterCall(inst il.Instruction, getter *typesys.Method, receiver func(il.Instruction) bool) bool {
	m, args, ok := anyCall(inst)
	if !ok || getter == nil || m != getter {
		return false
	}
	return len(args) == 1 && receiver(args[0])
}
