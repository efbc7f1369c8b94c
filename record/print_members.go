package record

import (
	"context"
	"strings"

	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// isGeneratedPrintMembers matches the synthesized PrintMembers method: for
// an inherited record a chained base call appending the ", " separator,
// then one literal-prefix-plus-value append run per printable member in
// canonical order, then a return of true when anything was printed. The
// literal text, the member order and the accessor identities must all
// match exactly; without a known canonical order nothing can.
func (c *Classifier) isGeneratedPrintMembers(ctx context.Context, m *typesys.Method) (bool, error) {
	assertf(m.Name == printMembersName, "dispatched method must be named %s", printMembersName)
	if !c.orderKnown {
		return false, nil
	}
	if !m.Overridable() || m.IsStatic || len(m.Attributes) != 0 {
		return false, nil
	}
	if len(m.Params) != 1 || !c.ts.IsKnownType(m.Params[0].Type, typesys.KnownStringBuilder) {
		return false, nil
	}
	if !c.ts.IsKnownType(m.ReturnType, typesys.KnownBoolean) {
		return false, nil
	}
	body, ok := c.bodies.Body(m)
	if !ok {
		return false, nil
	}
	insts := body.Instructions
	builder := func(inst il.Instruction) bool { return matchParamLoad(inst, 0) }

	pos := 0
	if c.rec.IsInherited() {
		// if (base.PrintMembers(builder)) builder.Append(", ");
		if pos >= len(insts) || !c.matchBasePrintCall(insts[pos]) {
			return false, nil
		}
		pos++
	}

	printed := 0
	for _, member := range c.order {
		if err := ctx.Err(); err != nil {
			return false, err
		}
		if !printable(member) {
			continue
		}
		prefix := member.MemberName() + " = "
		if printed > 0 {
			prefix = ", " + prefix
		}
		pos, ok = c.matchLiteralRun(insts, pos, prefix, builder)
		if !ok {
			return false, nil
		}
		if pos >= len(insts) {
			return false, nil
		}
		val, ok := c.matchBuilderAppend(insts[pos], builder)
		if !ok || !c.matchMemberValue(val, member) {
			return false, nil
		}
		pos++
		printed++
	}

	if pos >= len(insts) {
		return false, nil
	}
	ret, ok := il.ReturnValue(insts[pos])
	if !ok {
		return false, nil
	}
	b, ok := ret.(*il.LoadInt)
	if !ok {
		return false, nil
	}
	want := int64(0)
	if printed > 0 {
		want = 1
	}
	if b.Value != want {
		return false, nil
	}
	pos++
	return pos == len(insts), nil
}

// matchBasePrintCall matches the inherited-record prefix: a conditional on
// the base record's PrintMembers whose true branch appends the separator.
func (c *Classifier) matchBasePrintCall(inst il.Instruction) bool {
	ifThen, ok := inst.(*il.IfThen)
	if !ok {
		return false
	}
	callee, args, ok := anyCall(ifThen.Cond)
	if !ok || callee.Name != printMembersName {
		return false
	}
	if !callee.DeclaringType.Equals(c.rec.BaseRecord) {
		return false
	}
	if len(args) != 2 || !matchThis(args[0]) || !matchParamLoad(args[1], 0) {
		return false
	}
	val, ok := c.matchBuilderAppend(ifThen.Then, func(i il.Instruction) bool { return matchParamLoad(i, 0) })
	if !ok {
		return false
	}
	sep, ok := val.(*il.LoadString)
	return ok && sep.Value == ", "
}

// matchLiteralRun consumes one or more string-constant appends whose
// concatenation equals want exactly, returning the new position. The
// compiler may split a literal across appends but never reorders or pads
// it, so the run ends precisely when the concatenation reaches want.
func (c *Classifier) matchLiteralRun(insts []il.Instruction, pos int, want string, builder func(il.Instruction) bool) (int, bool) {
	got := ""
	for got != want {
		if pos >= len(insts) {
			return pos, false
		}
		val, ok := c.matchBuilderAppend(insts[pos], builder)
		if !ok {
			return pos, false
		}
		s, ok := val.(*il.LoadString)
		if !ok {
			return pos, false
		}
		got += s.Value
		if !strings.HasPrefix(want, got) {
			return pos, false
		}
		pos++
	}
	return pos, true
}

// matchMemberValue matches the appended value of one printed member: the
// member's own getter called on this, either directly or through a
// ToString conversion of the getter result (optionally via address-of).
func (c *Classifier) matchMemberValue(val il.Instruction, member typesys.Member) bool {
	p, ok := member.(*typesys.Property)
	if !ok {
		return false
	}
	if matchGetterCall(val, p.Getter, matchThis) {
		return true
	}
	conv, args, ok := anyCall(val)
	if !ok || conv.Name != toStringName || len(args) != 1 {
		return false
	}
	inner := args[0]
	if addr, ok := inner.(*il.AddressOf); ok {
		inner = addr.Operand
	}
	return matchGetterCall(inner, p.Getter, matchThis)
}
