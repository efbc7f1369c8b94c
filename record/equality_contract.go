package record

import (
	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// isGeneratedEqualityContract matches the synthesized EqualityContract
// property: protected, get-only, overridable, the compiler's marker
// attribute on the getter and nothing else, and a getter body that is
// exactly `return typeof(R)` for this record type R.
func (c *Classifier) isGeneratedEqualityContract(p *typesys.Property) bool {
	assertf(p.Name == equalityContractName, "dispatched property must be named %s", equalityContractName)
	if p.Getter == nil || p.Setter != nil || p.IsStatic {
		return false
	}
	if p.Accessibility != typesys.AccessProtected {
		return false
	}
	if !p.Getter.Overridable() {
		return false
	}
	if len(p.Attributes) != 0 || len(p.Getter.Attributes) != 1 {
		return false
	}
	if !c.ts.IsKnownType(p.Type, typesys.KnownRuntimeType) {
		return false
	}
	body, ok := c.bodies.Body(p.Getter)
	if !ok || len(body.Instructions) != 1 {
		return false
	}
	val, ok := il.ReturnValue(body.Instructions[0])
	if !ok {
		return false
	}
	tok, ok := val.(*il.TypeToken)
	return ok && tok.Type.Equals(c.rec.Type)
}
