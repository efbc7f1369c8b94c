package record

import (
	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// isGeneratedEquals classifies the one-parameter Equals overloads. The
// universal Equals(object) bridge is always generated, decided by
// signature alone; a deliberately malformed or absent body does not change
// that. Equals(R) for the record type R itself must be a single return of
// a left-associated conjunction:
//
//	return other != null
//	    && EqualityContract == other.EqualityContract
//	    && EqualityComparer<T>.Default.Equals(field, other.field) ...;
//
// with one comparer conjunct per member in canonical order that resolves
// to a field. Hand-declared properties without a backing field do not
// participate in generated equality and are skipped, not matched.
//
// Equals(R) on an inherited record is never matched: the generated shape
// chains through base.Equals and this matcher does not model it. That is
// a documented limitation, kept deliberately, and such members classify
// as hand-written.
func (c *Classifier) isGeneratedEquals(m *typesys.Method) bool {
	assertf(m.Name == equalsName, "dispatched method must be named %s", equalsName)
	param := m.Params[0].Type
	if c.ts.IsKnownType(param, typesys.KnownObject) {
		return true
	}
	if !param.Equals(c.rec.Type) {
		return false
	}
	if !m.Overridable() || m.IsStatic {
		return false
	}
	if !c.orderKnown {
		return false
	}
	if c.rec.IsInherited() {
		return false
	}
	ec := c.rec.PropertyNamed(equalityContractName)
	if ec == nil || ec.Getter == nil {
		return false
	}
	body, ok := c.bodies.Body(m)
	if !ok || len(body.Instructions) != 1 {
		return false
	}
	chain, ok := il.ReturnValue(body.Instructions[0])
	if !ok {
		return false
	}
	conds := il.FlattenAnd(chain)
	other := func(inst il.Instruction) bool { return matchParamLoad(inst, 0) }

	// other != null
	pos := 0
	if pos >= len(conds) {
		return false
	}
	nn, ok := conds[pos].(*il.IsNotNull)
	if !ok || !other(nn.Operand) {
		return false
	}
	pos++

	// EqualityContract == other.EqualityContract via the static equality
	// operator on the contract type.
	if pos >= len(conds) || !c.matchContractComparison(conds[pos], ec, other) {
		return false
	}
	pos++

	for _, member := range c.order {
		if !printable(member) {
			continue
		}
		f, ok := c.memberField(member)
		if !ok {
			continue
		}
		if pos >= len(conds) {
			return false
		}
		if !c.matchComparerEquals(conds[pos], f, other) {
			return false
		}
		pos++
	}

	// Pointwise pairing: no unexplained trailing conjuncts.
	return pos == len(conds)
}

// memberField resolves a canonical-order member to the field compared in
// generated equality: the field itself, or an automatic property's backing
// field. Properties without one report false and are excluded.
func (c *Classifier) memberField(member typesys.Member) (*typesys.Field, bool) {
	switch v := member.(type) {
	case *typesys.Field:
		return v, true
	case *typesys.Property:
		return c.backing.field(v)
	}
	return nil, false
}

// matchContractComparison matches the op_Equality call on the contract
// type with both operands routed through the EqualityContract getter.
func (c *Classifier) matchContractComparison(inst il.Instruction, ec *typesys.Property, other func(il.Instruction) bool) bool {
	op, args, ok := anyCall(inst)
	if !ok || op.Name != opEqualityName || !op.IsStatic || len(args) != 2 {
		return false
	}
	if !c.ts.IsKnownType(op.DeclaringType, typesys.KnownRuntimeType) {
		return false
	}
	return matchGetterCall(args[0], ec.Getter, matchThis) &&
		matchGetterCall(args[1], ec.Getter, other)
}

// matchComparerEquals matches one default-comparer conjunct:
// EqualityComparer<T>.Default.Equals(this.f, other.f) with T erasing to
// the field's exact type.
func (c *Classifier) matchComparerEquals(inst il.Instruction, f *typesys.Field, other func(il.Instruction) bool) bool {
	eq, args, ok := anyCall(inst)
	if !ok || eq.Name != equalsName || len(args) != 3 {
		return false
	}
	def, defArgs, ok := anyCall(args[0])
	if !ok || def.Name != "get_Default" || !def.IsStatic || len(defArgs) != 0 {
		return false
	}
	comparer := def.DeclaringType
	if !c.ts.IsKnownType(comparer, typesys.KnownEqualityComparer) || len(comparer.Args) != 1 {
		return false
	}
	if !c.ts.SameErasure(comparer.Args[0], f.Type) {
		return false
	}
	return matchFieldLoad(args[1], f, matchThis) && matchFieldLoad(args[2], f, other)
}
