package program

import "github.com/earthengine/lincoln/lang/permutation"

// Program owns, as four append-only tables in construction order, every
// entry, extern, export and group that makes up a compiled bytecode
// program. Indices handed out by the Add* methods (wrapped in CodeRef or
// GroupRef) are stable for the lifetime of the Program: no entry is ever
// mutated once added, and groups may only grow (append-only), never
// reorder.
//
// A Program is safe for concurrent read access by multiple evaluators once
// construction (the Add*/compile phase) is finished; it is never mutated
// during evaluation.
type Program struct {
	entries []Entry
	externs []Extern
	exports []Export
	groups  []*group

	// exportIndex maps an export name to the GroupRef most recently
	// registered for it via AddExport; see ErrNameUnknown doc on GetExport.
	exportIndex map[string]GroupRef
}

// New returns an empty Program.
func New() *Program {
	return &Program{exportIndex: make(map[string]GroupRef)}
}

// AddExtern appends ext to the extern table and returns a CodeRef
// addressing it.
func (p *Program) AddExtern(ext Extern) CodeRef {
	ref := ExternRef(len(p.externs))
	p.externs = append(p.externs, ext)
	return RefToExtern(ref)
}

// AddReturn appends a Return instruction and returns a CodeRef addressing
// it.
func (p *Program) AddReturn(variant uint8) CodeRef {
	return p.addEntry(Return{Variant: variant})
}

// AddJump appends a Jump instruction and returns a CodeRef addressing it.
func (p *Program) AddJump(cont CodeRef, per permutation.Permutation) CodeRef {
	return p.addEntry(Jump{Cont: cont, Per: per})
}

// AddCall appends a Call instruction and returns a CodeRef addressing it.
func (p *Program) AddCall(call CodeRef, numArgs uint8, cont GroupRef) CodeRef {
	return p.addEntry(Call{Call: call, NumArgs: numArgs, Cont: cont})
}

func (p *Program) addEntry(e Entry) CodeRef {
	ref := EntryRef(len(p.entries))
	p.entries = append(p.entries, e)
	return RefToEntry(ref)
}

// AddExport registers name as exporting g. A later call with the same name
// replaces which GroupRef GetExport/GetExportEnt resolve to, but does not
// remove the earlier Export record from enumeration.
func (p *Program) AddExport(name string, g GroupRef) {
	p.exports = append(p.exports, Export{Name: name, Group: g})
	p.exportIndex[name] = g
}

// AddEmptyGroup appends a new, empty group and returns its GroupRef.
func (p *Program) AddEmptyGroup() GroupRef {
	ref := GroupRef(len(p.groups))
	p.groups = append(p.groups, &group{})
	return ref
}

// AddGroupEntry appends cr to the group addressed by g, failing with a
// group_not_found BuildError if g does not exist.
func (p *Program) AddGroupEntry(g GroupRef, cr CodeRef) error {
	grp, err := p.group(g)
	if err != nil {
		return errGroupNotFound(g)
	}
	grp.append(cr)
	return nil
}

// GetExportEnt resolves name to its exported group and returns the CodeRef
// held at the given variant within it.
func (p *Program) GetExportEnt(name string, variant uint8) (CodeRef, error) {
	g, err := p.GetExport(name)
	if err != nil {
		return CodeRef{}, err
	}
	return p.GroupEntry(g, variant)
}

// GetExport resolves name to the GroupRef most recently exported under it.
func (p *Program) GetExport(name string) (GroupRef, error) {
	g, ok := p.exportIndex[name]
	if !ok {
		return 0, &ErrNameUnknown{Name: name}
	}
	return g, nil
}

// Exports returns the full, ordered export table (including any names that
// were later redefined).
func (p *Program) Exports() []Export { return append([]Export(nil), p.exports...) }

// Entry resolves e against the entry table.
func (p *Program) Entry(e EntryRef) (Entry, error) {
	if int(e) >= len(p.entries) {
		return nil, errEntryNotFound(e)
	}
	return p.entries[e], nil
}

// Extern resolves e against the extern table.
func (p *Program) Extern(e ExternRef) (Extern, error) {
	if int(e) >= len(p.externs) {
		return nil, errExternNotFound(e)
	}
	return p.externs[e], nil
}

// GroupLen reports how many CodeRef the group addressed by g holds.
func (p *Program) GroupLen(g GroupRef) (int, error) {
	grp, err := p.group(g)
	if err != nil {
		return 0, err
	}
	return grp.len(), nil
}

// GroupEntry returns the CodeRef held at the given variant (index) within
// the group addressed by g.
func (p *Program) GroupEntry(g GroupRef, variant uint8) (CodeRef, error) {
	grp, err := p.group(g)
	if err != nil {
		return CodeRef{}, err
	}
	if int(variant) >= grp.len() {
		return CodeRef{}, errVariantOutOfRange(variant, uint8(grp.len()))
	}
	return grp.at(int(variant)), nil
}

// GroupEntries copies out every CodeRef held by the group addressed by g, in
// order.
func (p *Program) GroupEntries(g GroupRef) ([]CodeRef, error) {
	grp, err := p.group(g)
	if err != nil {
		return nil, err
	}
	out := make([]CodeRef, grp.len())
	for i := range out {
		out[i] = grp.at(i)
	}
	return out, nil
}

// group resolves g strictly: an index equal to or beyond the table length is
// rejected (the source this runtime is patterned on used a one-past-the-end
// admitting `>` check in one path; this implementation always rejects with
// `>=`, per the corrected bounds-check design note).
func (p *Program) group(g GroupRef) (*group, error) {
	if int(g) >= len(p.groups) {
		return nil, errInvalidGroupIndex(g)
	}
	return p.groups[g], nil
}

// NumEntries, NumExterns, NumGroups and NumExports report the sizes of the
// four construction tables; used by tooling (e.g. the CLI's "compile"
// subcommand) to summarize a compiled Program.
func (p *Program) NumEntries() int { return len(p.entries) }
func (p *Program) NumExterns() int { return len(p.externs) }
func (p *Program) NumGroups() int  { return len(p.groups) }
func (p *Program) NumExports() int { return len(p.exports) }
