// Package dump decodes a record-type dump: a YAML document carrying the
// type identity, declared members and normalized instruction-tree bodies
// of one compiled record type. A decoded dump doubles as the classifier's
// body provider, which makes it both the CLI input format and the fixture
// format for integration tests.
package dump

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// Dump is one decoded record type plus the bodies of its members.
type Dump struct {
	Record *typesys.RecordType

	bodies  map[*typesys.Method]*il.Block
	methods map[string]*typesys.Method
	fields  map[string]*typesys.Field
}

// Body implements the classifier's body provider over the decoded bodies.
func (d *Dump) Body(m *typesys.Method) (*il.Block, bool) {
	b, ok := d.bodies[m]
	return b, ok
}

// Load reads and decodes a dump file.
func Load(path string) (*Dump, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decoding %s: %w", path, err)
	}
	return d, nil
}

// Decode decodes one YAML record dump from r.
func Decode(r io.Reader) (*Dump, error) {
	var doc document
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil {
		return nil, err
	}
	return doc.Record.build()
}

type document struct {
	Record recordNode `yaml:"record"`
}

type typeRef struct {
	Namespace string     `yaml:"namespace"`
	Name      string     `yaml:"name"`
	Args      []*typeRef `yaml:"args,omitempty"`
}

func (t *typeRef) resolve() *typesys.Type {
	if t == nil {
		return nil
	}
	args := make([]*typesys.Type, len(t.Args))
	for i, a := range t.Args {
		args[i] = a.resolve()
	}
	return typesys.New(t.Namespace, t.Name, args...)
}

type recordNode struct {
	Namespace  string          `yaml:"namespace"`
	Name       string          `yaml:"name"`
	Base       *typeRef        `yaml:"base,omitempty"`
	Fields     []*fieldNode    `yaml:"fields,omitempty"`
	Properties []*propertyNode `yaml:"properties,omitempty"`
	Methods    []*methodNode   `yaml:"methods,omitempty"`
}

type fieldNode struct {
	Name   string   `yaml:"name"`
	Type   *typeRef `yaml:"type"`
	Static bool     `yaml:"static,omitempty"`
	Access string   `yaml:"access,omitempty"`
}

type propertyNode struct {
	Name        string        `yaml:"name"`
	Type        *typeRef      `yaml:"type"`
	Static      bool          `yaml:"static,omitempty"`
	Explicit    bool          `yaml:"explicit,omitempty"`
	IndexParams int           `yaml:"indexParams,omitempty"`
	Access      string        `yaml:"access,omitempty"`
	Attributes  []*typeRef    `yaml:"attributes,omitempty"`
	Getter      *accessorNode `yaml:"getter,omitempty"`
	Setter      *accessorNode `yaml:"setter,omitempty"`
}

type accessorNode struct {
	Virtual    bool        `yaml:"virtual,omitempty"`
	Override   bool        `yaml:"override,omitempty"`
	Sealed     bool        `yaml:"sealed,omitempty"`
	Attributes []*typeRef  `yaml:"attributes,omitempty"`
	Body       []*instNode `yaml:"body,omitempty"`
}

type paramNode struct {
	Name string   `yaml:"name"`
	Type *typeRef `yaml:"type"`
}

type methodNode struct {
	Name       string       `yaml:"name"`
	Params     []*paramNode `yaml:"params,omitempty"`
	Returns    *typeRef     `yaml:"returns,omitempty"`
	Static     bool         `yaml:"static,omitempty"`
	Virtual    bool         `yaml:"virtual,omitempty"`
	Override   bool         `yaml:"override,omitempty"`
	Sealed     bool         `yaml:"sealed,omitempty"`
	Abstract   bool         `yaml:"abstract,omitempty"`
	Access     string       `yaml:"access,omitempty"`
	Attributes []*typeRef   `yaml:"attributes,omitempty"`
	Body       []*instNode  `yaml:"body,omitempty"`
}

// methodRef names a callee inside an instruction. Record-local methods
// resolve to the declared Method value so pointer identity survives the
// round trip; foreign methods (builder, comparer, base record) are
// synthesized from the reference alone.
type methodRef struct {
	Name      string       `yaml:"name"`
	Declaring *typeRef     `yaml:"declaring"`
	Static    bool         `yaml:"static,omitempty"`
	Params    []*paramNode `yaml:"params,omitempty"`
}

type instNode struct {
	Op      string      `yaml:"op"`
	Value   *instNode   `yaml:"value,omitempty"`
	Target  *instNode   `yaml:"target,omitempty"`
	Cond    *instNode   `yaml:"cond,omitempty"`
	Then    *instNode   `yaml:"then,omitempty"`
	Left    *instNode   `yaml:"left,omitempty"`
	Right   *instNode   `yaml:"right,omitempty"`
	Operand *instNode   `yaml:"operand,omitempty"`
	Args    []*instNode `yaml:"args,omitempty"`
	Method  *methodRef  `yaml:"method,omitempty"`
	Field   string      `yaml:"field,omitempty"`
	Str     *string     `yaml:"str,omitempty"`
	Int     *int64      `yaml:"int,omitempty"`
	Local   string      `yaml:"local,omitempty"`
	Param   *int        `yaml:"param,omitempty"`
	Type    *typeRef    `yaml:"type,omitempty"`
}

func (rn *recordNode) build() (*Dump, error) {
	if rn.Name == "" {
		return nil, fmt.Errorf("record is missing a name")
	}
	d := &Dump{
		bodies:  make(map[*typesys.Method]*il.Block),
		methods: make(map[string]*typesys.Method),
		fields:  make(map[string]*typesys.Field),
	}
	recType := typesys.New(rn.Namespace, rn.Name)
	rec := &typesys.RecordType{
		Type:       recType,
		BaseRecord: rn.Base.resolve(),
	}
	d.Record = rec

	for _, fn := range rn.Fields {
		acc, err := parseAccess(fn.Access, typesys.AccessPrivate)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", fn.Name, err)
		}
		f := &typesys.Field{
			Name:          fn.Name,
			Type:          fn.Type.resolve(),
			DeclaringType: recType,
			IsStatic:      fn.Static,
			Accessibility: acc,
		}
		rec.Fields = append(rec.Fields, f)
		d.fields[f.Name] = f
	}

	// Declare every method before decoding any body, so bodies can call
	// forward.
	type pendingBody struct {
		method *typesys.Method
		insts  []*instNode
	}
	var pending []pendingBody

	for _, pn := range rn.Properties {
		acc, err := parseAccess(pn.Access, typesys.AccessPublic)
		if err != nil {
			return nil, fmt.Errorf("property %s: %w", pn.Name, err)
		}
		p := &typesys.Property{
			Name:                pn.Name,
			Type:                pn.Type.resolve(),
			DeclaringType:       recType,
			IsStatic:            pn.Static,
			IsExplicitInterface: pn.Explicit,
			IndexParams:         pn.IndexParams,
			Accessibility:       acc,
			Attributes:          resolveAttributes(pn.Attributes),
		}
		if pn.Getter != nil {
			p.Getter = pn.Getter.declare("get_"+pn.Name, recType, p.Type, nil, pn.Static, acc)
			d.declareMethod(p.Getter)
			if pn.Getter.Body != nil {
				pending = append(pending, pendingBody{p.Getter, pn.Getter.Body})
			}
		}
		if pn.Setter != nil {
			params := []*paramNode{{Name: "value", Type: pn.Type}}
			p.Setter = pn.Setter.declare("set_"+pn.Name, recType, nil, params, pn.Static, acc)
			d.declareMethod(p.Setter)
			if pn.Setter.Body != nil {
				pending = append(pending, pendingBody{p.Setter, pn.Setter.Body})
			}
		}
		rec.Properties = append(rec.Properties, p)
	}

	for _, mn := range rn.Methods {
		acc, err := parseAccess(mn.Access, typesys.AccessPublic)
		if err != nil {
			return nil, fmt.Errorf("method %s: %w", mn.Name, err)
		}
		m := &typesys.Method{
			Name:          mn.Name,
			DeclaringType: recType,
			Params:        resolveParams(mn.Params),
			ReturnType:    mn.Returns.resolve(),
			IsStatic:      mn.Static,
			IsVirtual:     mn.Virtual,
			IsOverride:    mn.Override,
			IsSealed:      mn.Sealed,
			IsAbstract:    mn.Abstract,
			Accessibility: acc,
			Attributes:    resolveAttributes(mn.Attributes),
		}
		rec.Methods = append(rec.Methods, m)
		d.declareMethod(m)
		if mn.Body != nil {
			pending = append(pending, pendingBody{m, mn.Body})
		}
	}
	for _, p := range rec.Properties {
		if p.Getter != nil {
			rec.Methods = append(rec.Methods, p.Getter)
		}
		if p.Setter != nil {
			rec.Methods = append(rec.Methods, p.Setter)
		}
	}

	for _, pb := range pending {
		block, err := d.decodeBody(pb.insts)
		if err != nil {
			return nil, fmt.Errorf("body of %s: %w", pb.method.Name, err)
		}
		d.bodies[pb.method] = block
	}
	return d, nil
}

func (an *accessorNode) declare(name string, declaring, returns *typesys.Type, params []*paramNode, static bool, acc typesys.Accessibility) *typesys.Method {
	return &typesys.Method{
		Name:          name,
		DeclaringType: declaring,
		Params:        resolveParams(params),
		ReturnType:    returns,
		IsStatic:      static,
		IsVirtual:     an.Virtual,
		IsOverride:    an.Override,
		IsSealed:      an.Sealed,
		Accessibility: acc,
		Attributes:    resolveAttributes(an.Attributes),
	}
}

// declareMethod indexes a record-local method by name. Overload sets (the
// two Equals methods) collapse to the first declaration; bodies only ever
// reference accessors and PrintMembers, which are unambiguous.
func (d *Dump) declareMethod(m *typesys.Method) {
	if _, exists := d.methods[m.Name]; !exists {
		d.methods[m.Name] = m
	}
}

func resolveParams(nodes []*paramNode) []typesys.Parameter {
	if len(nodes) == 0 {
		return nil
	}
	params := make([]typesys.Parameter, len(nodes))
	for i, pn := range nodes {
		params[i] = typesys.Parameter{Name: pn.Name, Type: pn.Type.resolve()}
	}
	return params
}

func resolveAttributes(refs []*typeRef) []typesys.Attribute {
	if len(refs) == 0 {
		return nil
	}
	attrs := make([]typesys.Attribute, len(refs))
	for i, r := range refs {
		attrs[i] = typesys.Attribute{Type: r.resolve()}
	}
	return attrs
}

// bodyScope tracks the local variables of one body so repeated mentions of
// a local name share one Variable identity.
type bodyScope struct {
	dump   *Dump
	locals map[string]*il.Variable
	params map[int]*il.Variable
}

func (d *Dump) decodeBody(nodes []*instNode) (*il.Block, error) {
	scope := &bodyScope{
		dump:   d,
		locals: make(map[string]*il.Variable),
		params: make(map[int]*il.Variable),
	}
	block := &il.Block{}
	for _, n := range nodes {
		inst, err := scope.decode(n)
		if err != nil {
			return nil, err
		}
		block.Instructions = append(block.Instructions, inst)
	}
	return block, nil
}

func (s *bodyScope) local(name string) *il.Variable {
	v, ok := s.locals[name]
	if !ok {
		v = &il.Variable{Name: name, Kind: il.VarLocal, Index: len(s.locals)}
		s.locals[name] = v
	}
	return v
}

func (s *bodyScope) param(index int) *il.Variable {
	v, ok := s.params[index]
	if !ok {
		v = &il.Variable{Kind: il.VarParameter, Index: index}
		s.params[index] = v
	}
	return v
}

func (s *bodyScope) decode(n *instNode) (il.Instruction, error) {
	if n == nil {
		return nil, nil
	}
	switch n.Op {
	case "return":
		val, err := s.decode(n.Value)
		if err != nil {
			return nil, err
		}
		return &il.Return{Value: val}, nil
	case "leave":
		val, err := s.decode(n.Value)
		if err != nil {
			return nil, err
		}
		return &il.Leave{Value: val}, nil
	case "ifthen":
		cond, err := s.decode(n.Cond)
		if err != nil {
			return nil, err
		}
		then, err := s.decode(n.Then)
		if err != nil {
			return nil, err
		}
		return &il.IfThen{Cond: cond, Then: then}, nil
	case "call", "callvirt", "newobj":
		return s.decodeCall(n)
	case "ldfld":
		target, err := s.decode(n.Target)
		if err != nil {
			return nil, err
		}
		f, err := s.field(n.Field)
		if err != nil {
			return nil, err
		}
		return &il.LoadField{Target: target, Field: f}, nil
	case "stfld":
		target, err := s.decode(n.Target)
		if err != nil {
			return nil, err
		}
		val, err := s.decode(n.Value)
		if err != nil {
			return nil, err
		}
		f, err := s.field(n.Field)
		if err != nil {
			return nil, err
		}
		return &il.StoreField{Target: target, Field: f, Value: val}, nil
	case "ldloc":
		if n.Param != nil {
			return &il.LoadLocal{Variable: s.param(*n.Param)}, nil
		}
		if n.Local == "" {
			return nil, fmt.Errorf("ldloc needs local or param")
		}
		return &il.LoadLocal{Variable: s.local(n.Local)}, nil
	case "stloc":
		val, err := s.decode(n.Value)
		if err != nil {
			return nil, err
		}
		if n.Local == "" {
			return nil, fmt.Errorf("stloc needs a local name")
		}
		return &il.StoreLocal{Variable: s.local(n.Local), Value: val}, nil
	case "and":
		left, err := s.decode(n.Left)
		if err != nil {
			return nil, err
		}
		right, err := s.decode(n.Right)
		if err != nil {
			return nil, err
		}
		return &il.LogicalAnd{Left: left, Right: right}, nil
	case "notnull":
		op, err := s.decode(n.Operand)
		if err != nil {
			return nil, err
		}
		return &il.IsNotNull{Operand: op}, nil
	case "ldthis":
		return &il.LoadThis{}, nil
	case "ldstr":
		if n.Str == nil {
			return nil, fmt.Errorf("ldstr needs str")
		}
		return &il.LoadString{Value: *n.Str}, nil
	case "ldint":
		if n.Int == nil {
			return nil, fmt.Errorf("ldint needs int")
		}
		return &il.LoadInt{Value: *n.Int}, nil
	case "addrof":
		op, err := s.decode(n.Operand)
		if err != nil {
			return nil, err
		}
		return &il.AddressOf{Operand: op}, nil
	case "typetoken":
		if n.Type == nil {
			return nil, fmt.Errorf("typetoken needs type")
		}
		return &il.TypeToken{Type: n.Type.resolve()}, nil
	case "":
		return nil, fmt.Errorf("instruction is missing op")
	default:
		return nil, fmt.Errorf("unknown op %q", n.Op)
	}
}

func (s *bodyScope) decodeCall(n *instNode) (il.Instruction, error) {
	if n.Method == nil {
		return nil, fmt.Errorf("%s needs a method reference", n.Op)
	}
	callee := s.dump.resolveMethod(n.Method)
	args := make([]il.Instruction, 0, len(n.Args))
	for _, an := range n.Args {
		a, err := s.decode(an)
		if err != nil {
			return nil, err
		}
		args = append(args, a)
	}
	switch n.Op {
	case "call":
		return &il.Call{Method: callee, Args: args}, nil
	case "callvirt":
		return &il.CallVirt{Method: callee, Args: args}, nil
	default:
		return &il.NewObj{Ctor: callee, Args: args}, nil
	}
}

// resolveMethod maps a method reference to a declared record method when
// the declaring type is the record itself, otherwise synthesizes a foreign
// method identity from the reference.
func (d *Dump) resolveMethod(ref *methodRef) *typesys.Method {
	declaring := ref.Declaring.resolve()
	if declaring.Equals(d.Record.Type) {
		if m, ok := d.methods[ref.Name]; ok {
			return m
		}
	}
	return &typesys.Method{
		Name:          ref.Name,
		DeclaringType: declaring,
		Params:        resolveParams(ref.Params),
		IsStatic:      ref.Static,
	}
}

func (s *bodyScope) field(name string) (*typesys.Field, error) {
	if name == "" {
		return nil, fmt.Errorf("field instruction needs a field name")
	}
	f, ok := s.dump.fields[name]
	if !ok {
		return nil, fmt.Errorf("unknown field %q", name)
	}
	return f, nil
}

func parseAccess(s string, fallback typesys.Accessibility) (typesys.Accessibility, error) {
	switch s {
	case "":
		return fallback, nil
	case "private":
		return typesys.AccessPrivate, nil
	case "protected":
		return typesys.AccessProtected, nil
	case "internal":
		return typesys.AccessInternal, nil
	case "public":
		return typesys.AccessPublic, nil
	default:
		return fallback, fmt.Errorf("unknown accessibility %q", s)
	}
}
