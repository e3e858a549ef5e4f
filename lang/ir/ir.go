// Package ir implements the pre-compile intermediate representation: named
// entries that mirror the bytecode instruction set but reference each
// other by name, plus the compile pass that dependency-sorts them and
// lowers them into a program.Program.
package ir

import (
	"log/slog"

	"github.com/dolthub/swiss"

	"github.com/earthengine/lincoln/lang/permutation"
	"github.com/earthengine/lincoln/lang/program"
)

// Ent is a named IR entry: a tagged union mirroring Jump/Call/Return plus
// the IR-only Group and Extern-placeholder shapes.
type Ent interface{ isEnt() }

// ExternEnt is a placeholder for a host external not yet resolved, or not
// yet defined as a concrete entry. Auto-created whenever a not-yet-defined
// name is referenced.
type ExternEnt struct{ Name string }

// JmpEnt mirrors program.Jump, referencing its continuation by name.
type JmpEnt struct {
	Cont string
	Per  permutation.Permutation
}

// CallEnt mirrors program.Call: Callee is the name of the entry to
// transfer to, CallCnt is the argument count (num_args), and CallCont
// names the group backing the call's continuation.
type CallEnt struct {
	Callee   string
	CallCnt  int
	CallCont string
}

// RetEnt mirrors program.Return.
type RetEnt struct{ Variant uint8 }

// GroupEnt names an ordered list of other entries, backing a multi-variant
// continuation.
type GroupEnt struct{ Elements []string }

func (ExternEnt) isEnt() {}
func (JmpEnt) isEnt()    {}
func (CallEnt) isEnt()   {}
func (RetEnt) isEnt()    {}
func (GroupEnt) isEnt()  {}

// IR is a mutable, named, pre-compile program. Names are resolved to
// bytecode indices only at Compile time.
type IR struct {
	names *swiss.Map[string, Ent]
	order []string // definition order, for deterministic compile/enumeration

	exports map[string]bool
}

// New returns an empty IR.
func New() *IR {
	return &IR{
		names:   swiss.NewMap[string, Ent](16),
		exports: make(map[string]bool),
	}
}

func (ir *IR) touch(name string) {
	if _, ok := ir.names.Get(name); !ok {
		ir.order = append(ir.order, name)
	}
}

// ensurePlaceholder auto-creates name as an Extern placeholder if it is not
// yet defined.
func (ir *IR) ensurePlaceholder(name string) {
	if _, ok := ir.names.Get(name); ok {
		return
	}
	ir.touch(name)
	ir.names.Put(name, ExternEnt{Name: name})
}

// defineReplacing installs ent under name, logging if this silently
// overwrites a real (non-placeholder) entry already defined under the same
// name — an observed, preserved behavior of the source this IR is modeled
// on (see the redefinition open question in the design ledger).
func (ir *IR) defineReplacing(name string, ent Ent) {
	if old, ok := ir.names.Get(name); ok {
		if _, isPlaceholder := old.(ExternEnt); !isPlaceholder {
			slog.Warn("ir: redefining entry", "name", name, "previous_kind", kindName(old), "new_kind", kindName(ent))
		}
	}
	ir.touch(name)
	ir.names.Put(name, ent)
}

func kindName(e Ent) string {
	switch e.(type) {
	case ExternEnt:
		return "extern"
	case JmpEnt:
		return "jmp"
	case CallEnt:
		return "call"
	case RetEnt:
		return "ret"
	case GroupEnt:
		return "group"
	default:
		return "unknown"
	}
}

// DefineJmp defines name as a Jump to cont with permutation per, auto-
// creating cont as an extern placeholder if undefined.
func (ir *IR) DefineJmp(name, cont string, per permutation.Permutation) {
	ir.ensurePlaceholder(cont)
	ir.defineReplacing(name, JmpEnt{Cont: cont, Per: per})
}

// DefineCall defines name as a Call to callee with callcnt arguments and
// continuation group callcont, auto-creating both referenced names as
// extern placeholders if undefined.
func (ir *IR) DefineCall(name, callee string, callcnt int, callcont string) {
	ir.ensurePlaceholder(callee)
	ir.ensurePlaceholder(callcont)
	ir.defineReplacing(name, CallEnt{Callee: callee, CallCnt: callcnt, CallCont: callcont})
}

// DefineRet defines name as a Return of the given variant.
func (ir *IR) DefineRet(name string, variant uint8) {
	ir.defineReplacing(name, RetEnt{Variant: variant})
}

// DefineGroup defines name as a Group over elements, auto-creating each
// referenced element as an extern placeholder if undefined.
func (ir *IR) DefineGroup(name string, elements []string) {
	for _, el := range elements {
		ir.ensurePlaceholder(el)
	}
	ir.defineReplacing(name, GroupEnt{Elements: append([]string(nil), elements...)})
}

// SetExport marks name, which must already be defined, as exported.
func (ir *IR) SetExport(name string) error {
	if _, ok := ir.names.Get(name); !ok {
		return &CompileError{Kind: "name_not_found", Name: name}
	}
	ir.exports[name] = true
	return nil
}

// DeleteEnt demotes name back to an extern placeholder of the same name.
func (ir *IR) DeleteEnt(name string) {
	ir.touch(name)
	ir.names.Put(name, ExternEnt{Name: name})
}

// Externs enumerates the names currently resolved to extern placeholders,
// in definition order.
func (ir *IR) Externs() []string {
	var out []string
	for _, n := range ir.order {
		ent, _ := ir.names.Get(n)
		if _, ok := ent.(ExternEnt); ok {
			out = append(out, n)
		}
	}
	return out
}

// DefineExtern explicitly declares name as an extern placeholder, without
// requiring some other entry to reference it first. Used by persistence to
// round-trip a placeholder that has no referrer.
func (ir *IR) DefineExtern(name string) { ir.ensurePlaceholder(name) }

// Names returns every defined name, in definition order.
func (ir *IR) Names() []string { return append([]string(nil), ir.order...) }

// Lookup returns the entry defined under name, if any.
func (ir *IR) Lookup(name string) (Ent, bool) { return ir.names.Get(name) }

// IsExported reports whether name is currently marked exported.
func (ir *IR) IsExported(name string) bool { return ir.exports[name] }

// Exports returns every exported name, in definition order.
func (ir *IR) Exports() []string {
	var out []string
	for _, n := range ir.order {
		if ir.exports[n] {
			out = append(out, n)
		}
	}
	return out
}

// Merge copies other's concrete (non-placeholder) entries and exports into
// ir, preserving names.
func (ir *IR) Merge(other *IR) {
	for _, n := range other.order {
		ent, _ := other.names.Get(n)
		if _, isPlaceholder := ent.(ExternEnt); isPlaceholder {
			continue
		}
		ir.defineReplacing(n, ent)
		if other.exports[n] {
			ir.exports[n] = true
		}
	}
}
