package program

import "github.com/earthengine/lincoln/lang/permutation"

// Entry is the sealed tagged union of the three bytecode instructions:
// Jump, Call and Return.
type Entry interface {
	isEntry()
}

// Jump reorders the context according to Per and transfers control to Cont.
type Jump struct {
	Cont CodeRef
	Per  permutation.Permutation
}

func (Jump) isEntry() {}

// Call keeps the first NumArgs values on the context, moves the remaining
// suffix into a closure over Cont, pushes the closure, and transfers control
// to Call.
type Call struct {
	Call    CodeRef
	Cont    GroupRef
	NumArgs uint8
}

func (Call) isEntry() {}

// Return pops the first value of the context, interprets it as a closure,
// and re-enters it at Variant.
type Return struct {
	Variant uint8
}

func (Return) isEntry() {}

// ExternKind tags the variant held by an Extern value.
type ExternKind uint8

const (
	// ExternKindEval marks a host function taking a mutable context and
	// returning the next CodeRef.
	ExternKindEval ExternKind = iota
	// ExternKindValue marks a nullary host thunk producing a value.
	ExternKindValue
)

// Extern is implemented by host-provided externals addressable through
// CodeRef::Extern. The concrete Eval/Value function fields live with the
// runtime's Value type (package machine), since only that package has the
// vocabulary (Context, Value) to call them; Program only needs to know an
// extern's name and kind.
type Extern interface {
	ExternName() string
	ExternKind() ExternKind
}

// Export is a (name, GroupRef) pair. If a name is exported more than once,
// the last add_export call for it wins when looking it up, though earlier
// entries remain present in the export table for enumeration.
type Export struct {
	Name  string
	Group GroupRef
}
