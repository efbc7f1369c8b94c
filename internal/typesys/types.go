package typesys

import "strings"

// Type is the structural identity of a compiled type: a namespace-qualified
// name plus its type arguments. Two Types are the same type iff their full
// names and all type arguments match.
type Type struct {
	Namespace string
	Name      string
	Args      []*Type
}

// New builds a type identity with optional type arguments.
func New(namespace, name string, args ...*Type) *Type {
	return &Type{Namespace: namespace, Name: name, Args: args}
}

// Equals reports structural identity including type arguments.
func (t *Type) Equals(o *Type) bool {
	if t == nil || o == nil {
		return t == o
	}
	if t.Namespace != o.Namespace || t.Name != o.Name || len(t.Args) != len(o.Args) {
		return false
	}
	for i, a := range t.Args {
		if !a.Equals(o.Args[i]) {
			return false
		}
	}
	return true
}

// FullName returns the namespace-qualified name without type arguments.
func (t *Type) FullName() string {
	if t.Namespace == "" {
		return t.Name
	}
	return t.Namespace + "." + t.Name
}

func (t *Type) String() string {
	if len(t.Args) == 0 {
		return t.FullName()
	}
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.FullName() + "<" + strings.Join(parts, ", ") + ">"
}

// KnownType enumerates the well-known system types the classifier needs to
// recognize at its boundary.
type KnownType int

const (
	KnownNone KnownType = iota
	KnownObject
	KnownString
	KnownBoolean
	KnownRuntimeType      // System.Type
	KnownStringBuilder    // System.Text.StringBuilder
	KnownEqualityComparer // System.Collections.Generic.EqualityComparer<T>
)

// TypeSystem is the external type-system provider. The classifier only ever
// asks it the two questions below; richer providers (full metadata readers)
// can answer them however they like.
type TypeSystem interface {
	// IsKnownType reports whether t is the given well-known system type,
	// ignoring type arguments.
	IsKnownType(t *Type, k KnownType) bool

	// SameErasure reports whether a and b erase to the same type. Used for
	// exact backing-field type comparisons.
	SameErasure(a, b *Type) bool
}

// knownTypeNames maps each well-known type to its namespace and plain name.
var knownTypeNames = map[KnownType][2]string{
	KnownObject:           {"System", "Object"},
	KnownString:           {"System", "String"},
	KnownBoolean:          {"System", "Boolean"},
	KnownRuntimeType:      {"System", "Type"},
	KnownStringBuilder:    {"System.Text", "StringBuilder"},
	KnownEqualityComparer: {"System.Collections.Generic", "EqualityComparer"},
}

// DefaultTypeSystem resolves well-known types by their canonical namespace
// and name, and treats erasure as structural equality. Sufficient for dumps
// and fixtures; real metadata readers can substitute their own provider.
type DefaultTypeSystem struct{}

func (DefaultTypeSystem) IsKnownType(t *Type, k KnownType) bool {
	names, ok := knownTypeNames[k]
	if t == nil || !ok {
		return false
	}
	return t.Namespace == names[0] && t.Name == names[1]
}

func (DefaultTypeSystem) SameErasure(a, b *Type) bool {
	return a.Equals(b)
}
