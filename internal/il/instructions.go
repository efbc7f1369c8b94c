// Package il defines the normalized low-level instruction tree produced by
// the body decompiler. The node set is closed: matchers destructure it with
// exhaustive type switches, so adding a kind means revisiting every matcher.
package il

import "github.com/synthlab/recscan/internal/typesys"

// Instruction is the sealed interface over all node kinds. Trees are
// immutable once produced; matchers only read them.
type Instruction interface {
	isInstruction()
}

// VariableKind distinguishes method parameters from compiler temporaries.
type VariableKind int

const (
	VarParameter VariableKind = iota
	VarLocal
)

// Variable is a local slot or parameter. Identity is the pointer; two loads
// of the same slot reference the same Variable.
type Variable struct {
	Name  string
	Kind  VariableKind
	Index int
}

// Block is an ordered sequence of instructions with a single entry.
type Block struct {
	Instructions []Instruction
}

// Return exits the method, with an optional value.
type Return struct {
	Value Instruction
}

// Leave exits an enclosing region with an optional value. Normalization
// leaves it in place of Return for block-structured bodies; matchers treat
// the two alike.
type Leave struct {
	Value Instruction
}

// IfThen evaluates Cond and runs Then when it is true. No else branch
// exists in normalized bodies the classifier inspects.
type IfThen struct {
	Cond Instruction
	Then Instruction
}

// Call is a direct (non-virtual) call. For instance methods the receiver is
// Args[0].
type Call struct {
	Method *typesys.Method
	Args   []Instruction
}

// CallVirt is a virtual call. Receiver is Args[0].
type CallVirt struct {
	Method *typesys.Method
	Args   []Instruction
}

// NewObj allocates and runs a constructor.
type NewObj struct {
	Ctor *typesys.Method
	Args []Instruction
}

// LoadField reads a field. Target is nil for static fields.
type LoadField struct {
	Target Instruction
	Field  *typesys.Field
}

// StoreField writes Value into a field. Target is nil for static fields.
type StoreField struct {
	Target Instruction
	Field  *typesys.Field
	Value  Instruction
}

// LoadLocal reads a local or parameter.
type LoadLocal struct {
	Variable *Variable
}

// StoreLocal writes Value into a local or parameter.
type StoreLocal struct {
	Variable *Variable
	Value    Instruction
}

// LogicalAnd is short-circuit conjunction. Generated equality chains are
// left-associated: And(And(a, b), c).
type LogicalAnd struct {
	Left  Instruction
	Right Instruction
}

// IsNotNull compares its operand against the null constant.
type IsNotNull struct {
	Operand Instruction
}

// LoadThis reads the implicit receiver.
type LoadThis struct{}

// LoadString pushes a string constant.
type LoadString struct {
	Value string
}

// LoadInt pushes an integer constant. Booleans are 0 and 1.
type LoadInt struct {
	Value int64
}

// AddressOf takes the address of its operand, as emitted before calling an
// instance method on a value-type temporary.
type AddressOf struct {
	Operand Instruction
}

// TypeToken evaluates to the runtime type of its static type operand.
type TypeToken struct {
	Type *typesys.Type
}

func (*Block) isInstruction()      {}
func (*Return) isInstruction()     {}
func (*Leave) isInstruction()      {}
func (*IfThen) isInstruction()     {}
func (*Call) isInstruction()       {}
func (*CallVirt) isInstruction()   {}
func (*NewObj) isInstruction()     {}
func (*LoadField) isInstruction()  {}
func (*StoreField) isInstruction() {}
func (*LoadLocal) isInstruction()  {}
func (*StoreLocal) isInstruction() {}
func (*LogicalAnd) isInstruction() {}
func (*IsNotNull) isInstruction()  {}
func (*LoadThis) isInstruction()   {}
func (*LoadString) isInstruction() {}
func (*LoadInt) isInstruction()    {}
func (*AddressOf) isInstruction()  {}
func (*TypeToken) isInstruction()  {}
