package record

import "github.com/synthlab/recscan/internal/typesys"

// resolveMemberOrder derives the canonical ordering the generated methods
// agree on. Synthesized methods interleave fields and properties in
// declaration order; reconstruction is only safe when every declared field
// is the backing field of a detected automatic property, in which case the
// property order is the member order verbatim. Any field outside that set
// means the order cannot be inferred without guessing, and the resolver
// declines rather than guess.
func (c *Classifier) resolveMemberOrder() {
	for _, f := range c.rec.Fields {
		if _, ok := c.backing.property(f); !ok {
			return
		}
	}
	order := make([]typesys.Member, 0, len(c.rec.Properties))
	for _, p := range c.rec.Properties {
		order = append(order, p)
	}
	c.order = order
	c.orderKnown = true
}
