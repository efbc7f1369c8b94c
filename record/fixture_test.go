package record

import (
	"github.com/synthlab/recscan/internal/il"
	"github.com/synthlab/recscan/internal/typesys"
)

// pointFixture recreates the compiled form of `record Point(int X, int Y)`
// from the known compiler output: members, accessor bodies, and the
// generated method bodies, exactly as the decompiler would hand them over.
type pointFixture struct {
	ts     typesys.DefaultTypeSystem
	rec    *typesys.RecordType
	bodies map[*typesys.Method]*il.Block

	tInt, tString, tBool, tObject, tType, tBuilder *typesys.Type

	fX, fY             *typesys.Field
	propX, propY       *typesys.Property
	propContract       *typesys.Property
	mPrint, mToString  *typesys.Method
	mEqualsRecord      *typesys.Method
	mEqualsObject      *typesys.Method
	mOpEq, mOpNe       *typesys.Method
	mClone, mHashCode  *typesys.Method
	appendMethod       *typesys.Method
	builderCtor        *typesys.Method
	builderToString    *typesys.Method
	contractOpEquality *typesys.Method
	intToString        *typesys.Method
}

func (f *pointFixture) Body(m *typesys.Method) (*il.Block, bool) {
	b, ok := f.bodies[m]
	return b, ok
}

// appendCall builds one builder.Append(value) statement.
func (f *pointFixture) appendCall(receiver, value il.Instruction) il.Instruction {
	return &il.Call{Method: f.appendMethod, Args: []il.Instruction{receiver, value}}
}

func (f *pointFixture) builderParam() il.Instruction {
	return &il.LoadLocal{Variable: &il.Variable{Name: "builder", Kind: il.VarParameter, Index: 0}}
}

func (f *pointFixture) getter(m *typesys.Method, receiver il.Instruction) il.Instruction {
	return &il.Call{Method: m, Args: []il.Instruction{receiver}}
}

func (f *pointFixture) comparerEquals(elem *typesys.Type, field *typesys.Field, other il.Instruction) il.Instruction {
	comparer := typesys.New("System.Collections.Generic", "EqualityComparer", elem)
	getDefault := &typesys.Method{Name: "get_Default", DeclaringType: comparer, IsStatic: true}
	equals := &typesys.Method{Name: "Equals", DeclaringType: comparer}
	return &il.CallVirt{Method: equals, Args: []il.Instruction{
		&il.Call{Method: getDefault},
		&il.LoadField{Target: &il.LoadThis{}, Field: field},
		&il.LoadField{Target: other, Field: field},
	}}
}

func newPointFixture() *pointFixture {
	f := &pointFixture{bodies: make(map[*typesys.Method]*il.Block)}

	f.tInt = typesys.New("System", "Int32")
	f.tString = typesys.New("System", "String")
	f.tBool = typesys.New("System", "Boolean")
	f.tObject = typesys.New("System", "Object")
	f.tType = typesys.New("System", "Type")
	f.tBuilder = typesys.New("System.Text", "StringBuilder")
	point := typesys.New("Demo", "Point")

	compilerGenerated := typesys.Attribute{
		Type: typesys.New("System.Runtime.CompilerServices", "CompilerGeneratedAttribute"),
	}

	f.appendMethod = &typesys.Method{
		Name:          "Append",
		DeclaringType: f.tBuilder,
		Params:        []typesys.Parameter{{Name: "value", Type: f.tObject}},
		ReturnType:    f.tBuilder,
	}
	f.builderCtor = &typesys.Method{Name: ".ctor", DeclaringType: f.tBuilder}
	f.builderToString = &typesys.Method{Name: "ToString", DeclaringType: f.tBuilder, ReturnType: f.tString}
	f.contractOpEquality = &typesys.Method{Name: "op_Equality", DeclaringType: f.tType, IsStatic: true}

	f.fX = &typesys.Field{Name: "<X>k__BackingField", Type: f.tInt, DeclaringType: point}
	f.fY = &typesys.Field{Name: "<Y>k__BackingField", Type: f.tInt, DeclaringType: point}

	f.propX = f.autoProperty(point, "X", f.fX)
	f.propY = f.autoProperty(point, "Y", f.fY)

	contractGetter := &typesys.Method{
		Name:          "get_EqualityContract",
		DeclaringType: point,
		ReturnType:    f.tType,
		IsVirtual:     true,
		Accessibility: typesys.AccessProtected,
		Attributes:    []typesys.Attribute{compilerGenerated},
	}
	f.bodies[contractGetter] = &il.Block{Instructions: []il.Instruction{
		&il.Return{Value: &il.TypeToken{Type: point}},
	}}
	f.propContract = &typesys.Property{
		Name:          "EqualityContract",
		Type:          f.tType,
		DeclaringType: point,
		Getter:        contractGetter,
		Accessibility: typesys.AccessProtected,
	}

	f.mPrint = &typesys.Method{
		Name:          "PrintMembers",
		DeclaringType: point,
		Params:        []typesys.Parameter{{Name: "builder", Type: f.tBuilder}},
		ReturnType:    f.tBool,
		IsVirtual:     true,
		Accessibility: typesys.AccessProtected,
	}
	f.intToString = &typesys.Method{Name: "ToString", DeclaringType: f.tInt, ReturnType: f.tString}
	f.bodies[f.mPrint] = &il.Block{Instructions: []il.Instruction{
		f.appendCall(f.builderParam(), &il.LoadString{Value: "X = "}),
		f.appendCall(f.builderParam(), &il.Call{Method: f.intToString, Args: []il.Instruction{
			&il.AddressOf{Operand: f.getter(f.propX.Getter, &il.LoadThis{})},
		}}),
		f.appendCall(f.builderParam(), &il.LoadString{Value: ", Y = "}),
		f.appendCall(f.builderParam(), f.getter(f.propY.Getter, &il.LoadThis{})),
		&il.Return{Value: &il.LoadInt{Value: 1}},
	}}

	f.mToString = &typesys.Method{
		Name:          "ToString",
		DeclaringType: point,
		ReturnType:    f.tString,
		IsOverride:    true,
		Accessibility: typesys.AccessPublic,
	}
	b := &il.Variable{Name: "builder", Kind: il.VarLocal, Index: 0}
	loadB := func() il.Instruction { return &il.LoadLocal{Variable: b} }
	f.bodies[f.mToString] = &il.Block{Instructions: []il.Instruction{
		&il.StoreLocal{Variable: b, Value: &il.NewObj{Ctor: f.builderCtor}},
		f.appendCall(loadB(), &il.LoadString{Value: "Point"}),
		f.appendCall(loadB(), &il.LoadString{Value: " { "}),
		&il.IfThen{
			Cond: &il.CallVirt{Method: f.mPrint, Args: []il.Instruction{&il.LoadThis{}, loadB()}},
			Then: f.appendCall(loadB(), &il.LoadString{Value: " "}),
		},
		f.appendCall(loadB(), &il.LoadString{Value: "}"}),
		&il.Return{Value: &il.CallVirt{Method: f.builderToString, Args: []il.Instruction{loadB()}}},
	}}

	f.mEqualsRecord = &typesys.Method{
		Name:          "Equals",
		DeclaringType: point,
		Params:        []typesys.Parameter{{Name: "other", Type: point}},
		ReturnType:    f.tBool,
		IsVirtual:     true,
		Accessibility: typesys.AccessPublic,
	}
	other := func() il.Instruction {
		return &il.LoadLocal{Variable: &il.Variable{Name: "other", Kind: il.VarParameter, Index: 0}}
	}
	contractCompare := &il.Call{Method: f.contractOpEquality, Args: []il.Instruction{
		f.getter(contractGetter, &il.LoadThis{}),
		f.getter(contractGetter, other()),
	}}
	chain := &il.LogicalAnd{
		Left: &il.LogicalAnd{
			Left: &il.LogicalAnd{
				Left:  &il.IsNotNull{Operand: other()},
				Right: contractCompare,
			},
			Right: f.comparerEquals(f.tInt, f.fX, other()),
		},
		Right: f.comparerEquals(f.tInt, f.fY, other()),
	}
	f.bodies[f.mEqualsRecord] = &il.Block{Instructions: []il.Instruction{
		&il.Return{Value: chain},
	}}

	// The universal overload is classified by signature alone; give it no
	// body at all so a test can prove no inspection happens.
	f.mEqualsObject = &typesys.Method{
		Name:          "Equals",
		DeclaringType: point,
		Params:        []typesys.Parameter{{Name: "obj", Type: f.tObject}},
		ReturnType:    f.tBool,
		IsOverride:    true,
		Accessibility: typesys.AccessPublic,
	}

	operator := func(name string) *typesys.Method {
		return &typesys.Method{
			Name:          name,
			DeclaringType: point,
			Params:        []typesys.Parameter{{Name: "left", Type: point}, {Name: "right", Type: point}},
			ReturnType:    f.tBool,
			IsStatic:      true,
			Accessibility: typesys.AccessPublic,
		}
	}
	f.mOpEq = operator("op_Equality")
	f.mOpNe = operator("op_Inequality")

	f.mClone = &typesys.Method{Name: "<Clone>$", DeclaringType: point, ReturnType: point, IsVirtual: true}
	f.mHashCode = &typesys.Method{Name: "GetHashCode", DeclaringType: point, ReturnType: f.tInt, IsOverride: true}

	f.rec = &typesys.RecordType{
		Type:       point,
		Fields:     []*typesys.Field{f.fX, f.fY},
		Properties: []*typesys.Property{f.propContract, f.propX, f.propY},
		Methods: []*typesys.Method{
			f.mClone, f.mPrint, f.mToString, f.mOpNe, f.mOpEq,
			f.mEqualsObject, f.mEqualsRecord, f.mHashCode,
			f.propContract.Getter, f.propX.Getter, f.propX.Setter,
			f.propY.Getter, f.propY.Setter,
		},
	}
	return f
}

// autoProperty wires a property with the canonical automatic accessor
// bodies over the given backing field.
func (f *pointFixture) autoProperty(declaring *typesys.Type, name string, field *typesys.Field) *typesys.Property {
	getter := &typesys.Method{
		Name:          "get_" + name,
		DeclaringType: declaring,
		ReturnType:    field.Type,
		Accessibility: typesys.AccessPublic,
	}
	setter := &typesys.Method{
		Name:          "set_" + name,
		DeclaringType: declaring,
		Params:        []typesys.Parameter{{Name: "value", Type: field.Type}},
		Accessibility: typesys.AccessPublic,
	}
	f.bodies[getter] = &il.Block{Instructions: []il.Instruction{
		&il.Return{Value: &il.LoadField{Target: &il.LoadThis{}, Field: field}},
	}}
	f.bodies[setter] = &il.Block{Instructions: []il.Instruction{
		&il.StoreField{
			Target: &il.LoadThis{},
			Field:  field,
			Value:  &il.LoadLocal{Variable: &il.Variable{Name: "value", Kind: il.VarParameter, Index: 0}},
		},
		&il.Return{},
	}}
	return &typesys.Property{
		Name:          name,
		Type:          field.Type,
		DeclaringType: declaring,
		Getter:        getter,
		Setter:        setter,
		Accessibility: typesys.AccessPublic,
	}
}
