package record

import (
	"context"

	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// backingFieldName is the compiler's fixed naming template for the field
// behind an automatic property. The comparison is exact, never a prefix or
// suffix heuristic.
func backingFieldName(propertyName string) string {
	return "<" + propertyName + ">k__BackingField"
}

// backingFields is the bidirectional property/field relation, always 1:1.
// It is a single table with two views; add is the only mutation and keeps
// both views in sync.
type backingFields struct {
	fieldOf map[*typesys.Property]*typesys.Field
	propOf  map[*typesys.Field]*typesys.Property
}

func newBackingFields() backingFields {
	return backingFields{
		fieldOf: make(map[*typesys.Property]*typesys.Field),
		propOf:  make(map[*typesys.Field]*typesys.Property),
	}
}

func (b backingFields) add(p *typesys.Property, f *typesys.Field) {
	assertf(b.fieldOf[p] == nil && b.propOf[f] == nil, "backing relation must stay 1:1")
	b.fieldOf[p] = f
	b.propOf[f] = p
}

func (b backingFields) field(p *typesys.Property) (*typesys.Field, bool) {
	f, ok := b.fieldOf[p]
	return f, ok
}

func (b backingFields) property(f *typesys.Field) (*typesys.Property, bool) {
	p, ok := b.propOf[f]
	return p, ok
}

// detectAutomaticProperties scans every declared property and records the
// ones whose accessors are exactly the compiler's automatic shapes. A
// property failing any condition leaves no partial state behind.
func (c *Classifier) detectAutomaticProperties(ctx context.Context) error {
	for _, p := range c.rec.Properties {
		if err := ctx.Err(); err != nil {
			return err
		}
		if p.IndexParams != 0 {
			continue
		}
		f := c.detectBackingField(p)
		if f == nil {
			continue
		}
		if f.Name != backingFieldName(p.Name) {
			continue
		}
		c.backing.add(p, f)
	}
	return nil
}

// detectBackingField decompiles the accessors of p and returns the single
// field both resolve to, or nil when the bodies deviate from the automatic
// shapes.
func (c *Classifier) detectBackingField(p *typesys.Property) *typesys.Field {
	if p.Getter == nil {
		return nil
	}
	body, ok := c.bodies.Body(p.Getter)
	if !ok || len(body.Instructions) != 1 {
		return nil
	}
	// Getter: a single return of a field load off this (or off no target
	// for a static property).
	val, ok := il.ReturnValue(body.Instructions[0])
	if !ok {
		return nil
	}
	ld, ok := val.(*il.LoadField)
	if !ok || !c.matchFieldTarget(ld.Target, p.IsStatic) {
		return nil
	}
	f := ld.Field
	if f == nil || !f.DeclaringType.Equals(c.rec.Type) {
		return nil
	}
	if p.Setter == nil {
		return f
	}
	// Setter: store of the first parameter into the same field, then a
	// bare return. Exactly two instructions, nothing else.
	body, ok = c.bodies.Body(p.Setter)
	if !ok || len(body.Instructions) != 2 {
		return nil
	}
	st, ok := body.Instructions[0].(*il.StoreField)
	if !ok || st.Field != f || !c.matchFieldTarget(st.Target, p.IsStatic) {
		return nil
	}
	if !matchParamLoad(st.Value, 0) {
		return nil
	}
	if !il.BareReturn(body.Instructions[1]) {
		return nil
	}
	return f
}

// matchFieldTarget accepts this for instance accessors and no target for
// static ones.
func (c *Classifier) matchFieldTarget(target il.Instruction, isStatic bool) bool {
	if isStatic {
		return target == nil
	}
	return matchThis(target)
}
