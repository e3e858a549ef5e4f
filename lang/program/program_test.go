package program

import (
	"testing"

	"github.com/earthengine/lincoln/lang/permutation"
)

type stubExtern struct {
	name string
	kind ExternKind
}

func (s stubExtern) ExternName() string  { return s.name }
func (s stubExtern) ExternKind() ExternKind { return s.kind }

func TestProgramTablesStable(t *testing.T) {
	p := New()
	e1 := p.AddExtern(stubExtern{name: "rec1", kind: ExternKindEval})
	e2 := p.AddExtern(stubExtern{name: "rec2", kind: ExternKindEval})

	ret := p.AddReturn(0)
	jmp := p.AddJump(ret, permutation.Identity())
	g := p.AddEmptyGroup()
	if err := p.AddGroupEntry(g, jmp); err != nil {
		t.Fatalf("AddGroupEntry: %v", err)
	}
	call := p.AddCall(e1, 2, g)

	p.AddExport("test", g)

	got, err := p.GetExportEnt("test", 0)
	if err != nil {
		t.Fatalf("GetExportEnt: %v", err)
	}
	if got != jmp {
		t.Errorf("GetExportEnt(test,0) = %v, want %v", got, jmp)
	}

	if ent, err := p.Entry(mustEntry(t, call)); err != nil {
		t.Fatalf("Entry: %v", err)
	} else if c, ok := ent.(Call); !ok || c.NumArgs != 2 {
		t.Errorf("unexpected call entry: %#v", ent)
	}

	if _, err := p.Extern(mustExtern(t, e2)); err != nil {
		t.Fatalf("Extern: %v", err)
	}
}

func mustEntry(t *testing.T, cr CodeRef) EntryRef {
	t.Helper()
	r, ok := cr.Entry()
	if !ok {
		t.Fatalf("%v is not an entry ref", cr)
	}
	return r
}

func mustExtern(t *testing.T, cr CodeRef) ExternRef {
	t.Helper()
	r, ok := cr.Extern()
	if !ok {
		t.Fatalf("%v is not an extern ref", cr)
	}
	return r
}

func TestGroupBoundsStrict(t *testing.T) {
	p := New()
	g := p.AddEmptyGroup()
	if err := p.AddGroupEntry(g, Termination); err != nil {
		t.Fatalf("AddGroupEntry: %v", err)
	}

	if _, err := p.GroupEntry(g, 1); err == nil {
		t.Error("expected out-of-range error for variant 1 on a 1-element group")
	}

	// a GroupRef equal to the table length must be rejected, not just one
	// past that.
	if _, err := p.GroupEntry(GroupRef(p.NumGroups()), 0); err == nil {
		t.Error("expected invalid group index error for ref == len(groups)")
	}
}

func TestGroupOverflowsInlineCapacity(t *testing.T) {
	p := New()
	g := p.AddEmptyGroup()
	for i := 0; i < groupInlineCap+3; i++ {
		if err := p.AddGroupEntry(g, RefToEntry(EntryRef(i))); err != nil {
			t.Fatalf("AddGroupEntry #%d: %v", i, err)
		}
	}
	entries, err := p.GroupEntries(g)
	if err != nil {
		t.Fatalf("GroupEntries: %v", err)
	}
	if len(entries) != groupInlineCap+3 {
		t.Fatalf("len(entries) = %d, want %d", len(entries), groupInlineCap+3)
	}
	for i, cr := range entries {
		if want := RefToEntry(EntryRef(i)); cr != want {
			t.Errorf("entries[%d] = %v, want %v", i, cr, want)
		}
	}
}

func TestUnknownExport(t *testing.T) {
	p := New()
	if _, err := p.GetExport("nope"); err == nil {
		t.Error("expected error for unknown export name")
	}
}
