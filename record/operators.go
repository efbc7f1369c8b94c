package record

import "github.com/synthlab/recscan/internal/typesys"

// isGeneratedOperator classifies op_Equality and op_Inequality. The
// compiler always synthesizes both and forbids user declarations with the
// exact (R, R) signature, so the signature alone is decisive and no body
// is inspected. A user overload with any other parameter type is left
// untouched.
func (c *Classifier) isGeneratedOperator(m *typesys.Method) bool {
	assertf(m.Name == opEqualityName || m.Name == opInequalityName,
		"dispatched method must be a comparison operator, got %s", m.Name)
	if !m.IsStatic || len(m.Params) != 2 {
		return false
	}
	return m.Params[0].Type.Equals(c.rec.Type) && m.Params[1].Type.Equals(c.rec.Type)
}
