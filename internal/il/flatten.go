package il

// FlattenAnd unpacks a left-associated chain of LogicalAnd nodes into the
// ordered list of its leaf conditions. A non-And instruction is its own
// single-element chain.
func FlattenAnd(inst Instruction) []Instruction {
	var conds []Instruction
	var walk func(Instruction)
	walk = func(n Instruction) {
		if and, ok := n.(*LogicalAnd); ok {
			walk(and.Left)
			walk(and.Right)
			return
		}
		conds = append(conds, n)
	}
	walk(inst)
	return conds
}

// ReturnValue unwraps a Return or Leave and yields the returned value.
// Reports false for any other node and for bare returns.
func ReturnValue(inst Instruction) (Instruction, bool) {
	switch v := inst.(type) {
	case *Return:
		return v.Value, v.Value != nil
	case *Leave:
		return v.Value, v.Value != nil
	}
	return nil, false
}

// BareReturn reports whether inst is a Return or Leave with no value.
func BareReturn(inst Instruction) bool {
	switch v := inst.(type) {
	case *Return:
		return v.Value == nil
	case *Leave:
		return v.Value == nil
	}
	return false
}
