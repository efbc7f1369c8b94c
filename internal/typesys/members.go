package typesys

// Accessibility of a member, most restrictive first.
type Accessibility int

const (
	AccessPrivate Accessibility = iota
	AccessProtected
	AccessInternal
	AccessPublic
)

// Attribute is a custom attribute applied to a member. Only its type
// identity matters to the classifier.
type Attribute struct {
	Type *Type
}

// Member is implemented by Field, Property and Method.
type Member interface {
	MemberName() string
	Static() bool
}

// Field is a declared field of a record type.
type Field struct {
	Name          string
	Type          *Type
	DeclaringType *Type
	IsStatic      bool
	Accessibility Accessibility
	Attributes    []Attribute
}

func (f *Field) MemberName() string { return f.Name }
func (f *Field) Static() bool       { return f.IsStatic }

// Parameter of a method.
type Parameter struct {
	Name string
	Type *Type
}

// Method is a declared method or accessor. Identity is the pointer; a
// Method value is constructed once per analysis session and never copied.
type Method struct {
	Name          string
	DeclaringType *Type
	Params        []Parameter
	ReturnType    *Type
	IsStatic      bool
	IsVirtual     bool
	IsOverride    bool
	IsSealed      bool
	IsAbstract    bool
	Accessibility Accessibility
	Attributes    []Attribute
}

func (m *Method) MemberName() string { return m.Name }
func (m *Method) Static() bool       { return m.IsStatic }

// Overridable reports whether the method participates in virtual dispatch
// and can still be overridden further.
func (m *Method) Overridable() bool {
	return (m.IsVirtual || m.IsOverride || m.IsAbstract) && !m.IsSealed
}

// Property is a declared property with optional accessors.
type Property struct {
	Name                string
	Type                *Type
	DeclaringType       *Type
	Getter              *Method
	Setter              *Method
	IsStatic            bool
	IsExplicitInterface bool
	IndexParams         int
	Accessibility       Accessibility
	Attributes          []Attribute
}

func (p *Property) MemberName() string { return p.Name }
func (p *Property) Static() bool       { return p.IsStatic }

// CanSet reports whether the property has a setter.
func (p *Property) CanSet() bool { return p.Setter != nil }

// RecordType is the aggregate under analysis: the record's own identity,
// its base record (nil for a root record) and its declared members in
// declaration order. Constructed once per analysis session, read-only
// afterward.
type RecordType struct {
	Type       *Type
	BaseRecord *Type
	Fields     []*Field
	Properties []*Property
	Methods    []*Method
}

// IsInherited reports whether the record derives from another record.
func (r *RecordType) IsInherited() bool { return r.BaseRecord != nil }

// PropertyNamed returns the declared property with the given name, or nil.
func (r *RecordType) PropertyNamed(name string) *Property {
	for _, p := range r.Properties {
		if p.Name == name {
			return p
		}
	}
	return nil
}
