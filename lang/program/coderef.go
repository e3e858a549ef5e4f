// Package program implements the low-level bytecode data model: the
// append-only Program of entries, externs, exports and groups, and the
// index-typed references (CodeRef, GroupRef) that address them. This is the
// target of lowering performed by the pre-compile IR (package ir), and the
// table the runtime's evaluator (package machine) consults at each step.
package program

import "fmt"

// EntryRef addresses a single bytecode instruction in a Program.
type EntryRef uint32

// ExternRef addresses a host-provided extern in a Program.
type ExternRef uint32

// GroupRef addresses a group (an ordered, bounded-size sequence of CodeRef)
// in a Program.
type GroupRef uint32

// CodeRefKind tags the variant held by a CodeRef.
type CodeRefKind uint8

const (
	// RefEntry addresses an instruction slot.
	RefEntry CodeRefKind = iota
	// RefExtern addresses an extern.
	RefExtern
	// RefTermination marks end-of-execution. It carries no index.
	RefTermination
)

func (k CodeRefKind) String() string {
	switch k {
	case RefEntry:
		return "entry"
	case RefExtern:
		return "extern"
	case RefTermination:
		return "termination"
	default:
		return fmt.Sprintf("coderefkind(%d)", uint8(k))
	}
}

// CodeRef is a tagged reference to an instruction, an extern, or the
// distinguished Termination marker. Equality and hashing are by tag and
// index; Termination values compare equal only to other Termination values
// (they share the zero index, and no Entry/Extern ever compares equal to a
// Termination because the Kind differs).
type CodeRef struct {
	Kind  CodeRefKind
	Index uint32
}

// Termination is the distinguished CodeRef signaling end-of-execution.
var Termination = CodeRef{Kind: RefTermination}

// RefToEntry builds a CodeRef addressing the given entry.
func RefToEntry(e EntryRef) CodeRef { return CodeRef{Kind: RefEntry, Index: uint32(e)} }

// RefToExtern builds a CodeRef addressing the given extern.
func RefToExtern(e ExternRef) CodeRef { return CodeRef{Kind: RefExtern, Index: uint32(e)} }

// Entry returns the addressed EntryRef and true if Kind is RefEntry.
func (c CodeRef) Entry() (EntryRef, bool) {
	if c.Kind != RefEntry {
		return 0, false
	}
	return EntryRef(c.Index), true
}

// Extern returns the addressed ExternRef and true if Kind is RefExtern.
func (c CodeRef) Extern() (ExternRef, bool) {
	if c.Kind != RefExtern {
		return 0, false
	}
	return ExternRef(c.Index), true
}

// IsTermination reports whether c is the Termination marker.
func (c CodeRef) IsTermination() bool { return c.Kind == RefTermination }

func (c CodeRef) String() string {
	switch c.Kind {
	case RefEntry:
		return fmt.Sprintf("entry(%d)", c.Index)
	case RefExtern:
		return fmt.Sprintf("extern(%d)", c.Index)
	default:
		return "termination"
	}
}
