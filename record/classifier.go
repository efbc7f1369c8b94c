// Package record classifies members of a compiled record type as
// compiler-synthesized or hand-written. Synthesized and hand-written
// members carry identical metadata, so the only reliable signal is the
// decompiled body: each candidate is lowered to a normalized instruction
// tree and matched against the exact shape the compiler emits. Anything
// that deviates, however slightly, is classified as hand-written.
package record

import (
	"context"

	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// Compiler-fixed member names the classifier dispatches on. The clone
// method's name is not expressable in source, so a user collision is
// impossible.
const (
	cloneMethodName      = "<Clone>$"
	equalityContractName = "EqualityContract"
	printMembersName     = "PrintMembers"
	toStringName         = "ToString"
	equalsName           = "Equals"
	opEqualityName       = "op_Equality"
	opInequalityName     = "op_Inequality"
)

// BodyProvider decompiles a method into its normalized instruction tree.
// It reports false for members without a body (abstract, extern, or
// missing metadata).
type BodyProvider interface {
	Body(m *typesys.Method) (*il.Block, bool)
}

// Classifier answers, per member of one record type, whether the member
// was synthesized by the compiler. Construction runs auto-property
// detection and member-order resolution once; afterwards the classifier
// is read-only and individual queries may be issued in any order.
// Concurrent use of one Classifier is not supported; distinct record
// types get distinct instances and are independent.
type Classifier struct {
	rec    *typesys.RecordType
	ts     typesys.TypeSystem
	bodies BodyProvider

	backing    backingFields
	order      []typesys.Member
	orderKnown bool
}

// New builds a classifier for rec. The only error is cancellation; every
// other irregularity is absorbed into not-generated verdicts later.
func New(ctx context.Context, rec *typesys.RecordType, ts typesys.TypeSystem, bodies BodyProvider) (*Classifier, error) {
	c := &Classifier{
		rec:     rec,
		ts:      ts,
		bodies:  bodies,
		backing: newBackingFields(),
	}
	if err := c.detectAutomaticProperties(ctx); err != nil {
		return nil, err
	}
	c.resolveMemberOrder()
	return c, nil
}

// MethodIsGenerated reports whether m is a compiler-synthesized member of
// the record. The error is non-nil only for cancellation.
func (c *Classifier) MethodIsGenerated(ctx context.Context, m *typesys.Method) (bool, error) {
	switch m.Name {
	case cloneMethodName:
		// Reserved name, unexpressable in source. Signature alone decides.
		return len(m.Params) == 0, nil
	case opEqualityName, opInequalityName:
		return c.isGeneratedOperator(m), nil
	case toStringName:
		if len(m.Params) == 0 {
			return c.isGeneratedToString(m), nil
		}
	case printMembersName:
		if len(m.Params) == 1 {
			return c.isGeneratedPrintMembers(ctx, m)
		}
	case equalsName:
		if len(m.Params) == 1 {
			return c.isGeneratedEquals(m), nil
		}
	}
	return false, nil
}

// PropertyIsGenerated reports whether p is a compiler-synthesized property.
// Only the equality contract qualifies; positional properties appear in
// source and are kept.
func (c *Classifier) PropertyIsGenerated(p *typesys.Property) bool {
	if p.Name != equalityContractName {
		return false
	}
	return c.isGeneratedEqualityContract(p)
}

// BackingField returns the compiler-named backing field of an automatic
// property, if p was recognized as one.
func (c *Classifier) BackingField(p *typesys.Property) (*typesys.Field, bool) {
	return c.backing.field(p)
}

// IsBackingField reports whether f backs a recognized automatic property.
func (c *Classifier) IsBackingField(f *typesys.Field) bool {
	_, ok := c.backing.property(f)
	return ok
}

// MemberOrder returns the canonical member order the generated methods
// agree on, or false when the order could not be derived.
func (c *Classifier) MemberOrder() ([]typesys.Member, bool) {
	if !c.orderKnown {
		return nil, false
	}
	out := make([]typesys.Member, len(c.order))
	copy(out, c.order)
	return out, true
}

// printable reports whether a member in canonical order participates in
// PrintMembers and Equals.
func printable(m typesys.Member) bool {
	if m.Static() || m.MemberName() == equalityContractName {
		return false
	}
	if p, ok := m.(*typesys.Property); ok && p.IsExplicitInterface {
		return false
	}
	return true
}
