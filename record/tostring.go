package record

import (
	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// isGeneratedToString matches the synthesized ToString override:
//
//	var b = new StringBuilder();
//	b.Append("TypeName");
//	b.Append(" { ");
//	if (PrintMembers(b)) b.Append(" ");
//	b.Append("}");
//	return b.ToString();
//
// The conditional is absent when the record has nothing to print; every
// other step must appear exactly once, in order, with exactly these
// literals.
func (c *Classifier) isGeneratedToString(m *typesys.Method) bool {
	assertf(m.Name == toStringName, "dispatched method must be named %s", toStringName)
	if !m.IsOverride || m.IsSealed || m.IsStatic {
		return false
	}
	if len(m.Attributes) != 0 || len(m.Params) != 0 {
		return false
	}
	if !c.ts.IsKnownType(m.ReturnType, typesys.KnownString) {
		return false
	}
	body, ok := c.bodies.Body(m)
	if !ok {
		return false
	}
	insts := body.Instructions
	pos := 0

	// var b = new StringBuilder();
	if pos >= len(insts) {
		return false
	}
	st, ok := insts[pos].(*il.StoreLocal)
	if !ok || st.Variable == nil || st.Variable.Kind != il.VarLocal {
		return false
	}
	ctor, ok := st.Value.(*il.NewObj)
	if !ok || len(ctor.Args) != 0 {
		return false
	}
	if !c.ts.IsKnownType(ctor.Ctor.DeclaringType, typesys.KnownStringBuilder) {
		return false
	}
	b := st.Variable
	builder := func(inst il.Instruction) bool { return matchLocalLoad(inst, b) }
	pos++

	if pos, ok = c.matchLiteralAppend(insts, pos, c.rec.Type.Name, builder); !ok {
		return false
	}
	if pos, ok = c.matchLiteralAppend(insts, pos, " { ", builder); !ok {
		return false
	}

	// if (PrintMembers(b)) b.Append(" ");  -- collapses away when the
	// record prints nothing.
	if pos < len(insts) {
		if ifThen, isIf := insts[pos].(*il.IfThen); isIf {
			if !c.matchSelfPrintCall(ifThen.Cond, b) {
				return false
			}
			val, ok := c.matchBuilderAppend(ifThen.Then, builder)
			if !ok {
				return false
			}
			s, ok := val.(*il.LoadString)
			if !ok || s.Value != " " {
				return false
			}
			pos++
		}
	}

	if pos, ok = c.matchLiteralAppend(insts, pos, "}", builder); !ok {
		return false
	}

	// return b.ToString();
	if pos >= len(insts) {
		return false
	}
	ret, ok := il.ReturnValue(insts[pos])
	if !ok {
		return false
	}
	conv, args, ok := anyCall(ret)
	if !ok || conv.Name != toStringName || len(args) != 1 || !matchLocalLoad(args[0], b) {
		return false
	}
	pos++
	return pos == len(insts)
}

// matchLiteralAppend consumes exactly one append of the given string
// constant.
func (c *Classifier) matchLiteralAppend(insts []il.Instruction, pos int, want string, builder func(il.Instruction) bool) (int, bool) {
	if pos >= len(insts) {
		return pos, false
	}
	val, ok := c.matchBuilderAppend(insts[pos], builder)
	if !ok {
		return pos, false
	}
	s, ok := val.(*il.LoadString)
	if !ok || s.Value != want {
		return pos, false
	}
	return pos + 1, true
}

// matchSelfPrintCall matches the virtual PrintMembers call inside the
// ToString conditional: receiver this, single builder argument b.
func (c *Classifier) matchSelfPrintCall(inst il.Instruction, b *il.Variable) bool {
	callee, args, ok := anyCall(inst)
	if !ok || callee.Name != printMembersName {
		return false
	}
	if len(callee.Params) != 1 || !c.ts.IsKnownType(callee.Params[0].Type, typesys.KnownStringBuilder) {
		return false
	}
	return len(args) == 2 && matchThis(args[0]) && matchLocalLoad(args[1], b)
}
