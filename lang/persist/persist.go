// Package persist serializes an ir.IR to and from a YAML document. The
// format is a named-field record mirroring the IR's own entry shapes; it
// carries no version marker and is addressed purely by structure, per the
// "content-addressed, not versioned" design of the IR persistence format.
package persist

import (
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/earthengine/lincoln/lang/ir"
	"github.com/earthengine/lincoln/lang/permutation"
)

// JmpDoc mirrors ir.JmpEnt. Per is the permutation rendered over the
// a..t alphabet, carried alongside its raw code for human readability;
// Code is authoritative on load, and a Per that does not match Code's
// rendering is rejected.
type JmpDoc struct {
	Cont string `yaml:"cont"`
	Per  string `yaml:"per"`
	Code uint64 `yaml:"per_code"`
}

// CallDoc mirrors ir.CallEnt.
type CallDoc struct {
	Callee   string `yaml:"callee"`
	CallCnt  int    `yaml:"callcnt"`
	CallCont string `yaml:"callcont"`
}

// RetDoc mirrors ir.RetEnt.
type RetDoc struct {
	Variant uint8 `yaml:"variant"`
}

// GroupDoc mirrors ir.GroupEnt.
type GroupDoc struct {
	Elements []string `yaml:"elements"`
}

// NamedEnt is one entry of the document, tagged by which of its optional
// fields is set; exactly one of Extern, Jmp, Call, Ret, Group applies.
type NamedEnt struct {
	Name   string    `yaml:"name"`
	Extern bool      `yaml:"extern,omitempty"`
	Jmp    *JmpDoc   `yaml:"jmp,omitempty"`
	Call   *CallDoc  `yaml:"call,omitempty"`
	Ret    *RetDoc   `yaml:"ret,omitempty"`
	Group  *GroupDoc `yaml:"group,omitempty"`
}

// Document is the on-disk shape of an ir.IR: every named entry, in
// definition order, plus the list of exported names.
type Document struct {
	Entries []NamedEnt `yaml:"entries"`
	Exports []string   `yaml:"exports,omitempty"`
}

// FromIR snapshots doc into a Document.
func FromIR(doc *ir.IR) *Document {
	d := &Document{Exports: doc.Exports()}
	for _, name := range doc.Names() {
		ent, _ := doc.Lookup(name)
		ne := NamedEnt{Name: name}
		switch e := ent.(type) {
		case ir.ExternEnt:
			ne.Extern = true
		case ir.JmpEnt:
			ne.Jmp = &JmpDoc{Cont: e.Cont, Per: e.Per.Render(), Code: uint64(e.Per)}
		case ir.CallEnt:
			ne.Call = &CallDoc{Callee: e.Callee, CallCnt: e.CallCnt, CallCont: e.CallCont}
		case ir.RetEnt:
			ne.Ret = &RetDoc{Variant: e.Variant}
		case ir.GroupEnt:
			ne.Group = &GroupDoc{Elements: append([]string(nil), e.Elements...)}
		}
		d.Entries = append(d.Entries, ne)
	}
	return d
}

// ToIR reconstructs an ir.IR from d.
func (d *Document) ToIR() (*ir.IR, error) {
	out := ir.New()
	for _, ne := range d.Entries {
		switch {
		case ne.Jmp != nil:
			per, err := decodePermutation(*ne.Jmp)
			if err != nil {
				return nil, fmt.Errorf("persist: entry %q: %w", ne.Name, err)
			}
			out.DefineJmp(ne.Name, ne.Jmp.Cont, per)
		case ne.Call != nil:
			out.DefineCall(ne.Name, ne.Call.Callee, ne.Call.CallCnt, ne.Call.CallCont)
		case ne.Ret != nil:
			out.DefineRet(ne.Name, ne.Ret.Variant)
		case ne.Group != nil:
			out.DefineGroup(ne.Name, ne.Group.Elements)
		default:
			out.DefineExtern(ne.Name)
		}
	}
	for _, name := range d.Exports {
		if err := out.SetExport(name); err != nil {
			return nil, fmt.Errorf("persist: export %q: %w", name, err)
		}
	}
	return out, nil
}

// decodePermutation trusts Code as authoritative but cross-checks it
// against the rendered string, catching a document hand-edited into an
// inconsistent state.
func decodePermutation(j JmpDoc) (permutation.Permutation, error) {
	p := permutation.Permutation(j.Code)
	if rendered := p.Render(); rendered != j.Per {
		return 0, fmt.Errorf("permutation code %d renders as %q, document says %q", j.Code, rendered, j.Per)
	}
	return p, nil
}

// Marshal renders doc as YAML.
func Marshal(doc *ir.IR) ([]byte, error) {
	return yaml.Marshal(FromIR(doc))
}

// Unmarshal parses YAML produced by Marshal back into an ir.IR.
func Unmarshal(data []byte) (*ir.IR, error) {
	var d Document
	if err := yaml.Unmarshal(data, &d); err != nil {
		return nil, fmt.Errorf("persist: %w", err)
	}
	return d.ToIR()
}
