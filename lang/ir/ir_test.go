package ir

import (
	"testing"

	"github.com/earthengine/lincoln/lang/machine"
	"github.com/earthengine/lincoln/lang/permutation"
	"github.com/earthengine/lincoln/lang/program"
)

func unwrapInt(t *testing.T, v machine.Value) int {
	t.Helper()
	d, err := v.Unwrap()
	if err != nil {
		t.Fatalf("Unwrap: %v", err)
	}
	n, ok := d.(int)
	if !ok {
		t.Fatalf("unwrapped %v is not an int", d)
	}
	return n
}

// TestCompileCallReturnIdentity builds S1 through the IR: test: call rec1 2
// rec2; rec1: ret 0, export test, and checks the compiled program behaves
// exactly like the hand-built program.Program version.
func TestCompileCallReturnIdentity(t *testing.T) {
	doc := New()
	doc.DefineCall("test", "rec1", 2, "rec2")
	doc.DefineRet("rec1", 0)
	if err := doc.SetExport("test"); err != nil {
		t.Fatal(err)
	}

	var got []int
	rec2 := machine.EvalExtern{Name: "rec2", Fn: func(ctx *machine.Context) (program.CodeRef, error) {
		for i := 0; i < 3; i++ {
			v, err := ctx.Pop()
			if err != nil {
				t.Fatalf("rec2: pop %d: %v", i, err)
			}
			got = append(got, unwrapInt(t, v))
		}
		return program.Termination, nil
	}}

	prog, err := doc.Compile([]program.Extern{rec2})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ctx := machine.NewContext()
	ctx.Push(machine.NewWrapped(1))
	ctx.Push(machine.NewWrapped(2))
	ctx.Push(machine.NewWrapped(3))

	entry, err := prog.GetExportEnt("test", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := machine.Run(prog, ctx, entry, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []int{3, 2, 1}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("got[%d] = %d, want %d", i, got[i], want[i])
		}
	}
}

// TestCompilePlainCall builds S2: the same IR minus the rec1 definition,
// so rec1 stays an extern placeholder resolved from the host's extern set.
func TestCompilePlainCall(t *testing.T) {
	doc := New()
	doc.DefineCall("test", "rec1", 2, "rec2")
	if err := doc.SetExport("test"); err != nil {
		t.Fatal(err)
	}

	var rec2Saw int
	rec2 := machine.EvalExtern{Name: "rec2", Fn: func(ctx *machine.Context) (program.CodeRef, error) {
		v, err := ctx.Pop()
		if err != nil {
			t.Fatal(err)
		}
		rec2Saw = unwrapInt(t, v)
		return program.Termination, nil
	}}
	var rec1Saw []int
	rec1 := machine.EvalExtern{Name: "rec1", Fn: func(ctx *machine.Context) (program.CodeRef, error) {
		cont, err := ctx.Pop()
		if err != nil {
			t.Fatal(err)
		}
		for i := 0; i < 2; i++ {
			v, err := ctx.Pop()
			if err != nil {
				t.Fatalf("rec1: pop %d: %v", i, err)
			}
			rec1Saw = append(rec1Saw, unwrapInt(t, v))
		}
		return cont.Evaluate(ctx, 0)
	}}

	prog, err := doc.Compile([]program.Extern{rec1, rec2})
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	ctx := machine.NewContext()
	ctx.Push(machine.NewWrapped(1))
	ctx.Push(machine.NewWrapped(2))
	ctx.Push(machine.NewWrapped(3))

	entry, err := prog.GetExportEnt("test", 0)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := machine.Run(prog, ctx, entry, 0); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(rec1Saw) != 2 || rec1Saw[0] != 3 || rec1Saw[1] != 2 {
		t.Errorf("rec1Saw = %v, want [3 2]", rec1Saw)
	}
	if rec2Saw != 1 {
		t.Errorf("rec2Saw = %d, want 1", rec2Saw)
	}
}

// TestCircularReference checks property 8: a mutually-recursive pair fails
// to compile, listing both names.
func TestCircularReference(t *testing.T) {
	doc := New()
	doc.DefineJmp("a", "b", permutation.Identity())
	doc.DefineJmp("b", "a", permutation.Identity())

	_, err := doc.Compile(nil)
	if err == nil {
		t.Fatal("expected a circular reference error")
	}
	ce, ok := err.(*CompileError)
	if !ok || ce.Kind != "circular_reference" {
		t.Fatalf("got %v, want CircularReference", err)
	}
	if len(ce.Names) != 2 {
		t.Fatalf("ce.Names = %v, want 2 names", ce.Names)
	}
}

// TestDependencySortCorrectness checks property 9: every CodeRef emitted
// for an instruction resolves against a table index that was already
// populated (i.e. the entry it names was emitted at an earlier or equal
// level), for a program with a longer dependency chain than the minimal
// scenarios exercise.
func TestDependencySortCorrectness(t *testing.T) {
	doc := New()
	doc.DefineRet("r", 0)
	doc.DefineJmp("j1", "r", permutation.Identity())
	doc.DefineJmp("j2", "j1", permutation.Identity())
	doc.DefineJmp("j3", "j2", permutation.Identity())
	if err := doc.SetExport("j3"); err != nil {
		t.Fatal(err)
	}

	prog, err := doc.Compile(nil)
	if err != nil {
		t.Fatalf("Compile: %v", err)
	}

	entry, err := prog.GetExportEnt("j3", 0)
	if err != nil {
		t.Fatal(err)
	}
	// j3 -> j2 -> j1 -> r (a Return); chase it by hand and confirm each
	// Jump resolves to an Entry that exists in the table at a lower index
	// than the Jump itself.
	seen := 0
	for {
		eref, ok := entry.Entry()
		if !ok {
			t.Fatalf("expected an entry ref, got %v", entry)
		}
		ent, err := prog.Entry(eref)
		if err != nil {
			t.Fatalf("dangling reference at step %d: %v", seen, err)
		}
		jmp, ok := ent.(program.Jump)
		if !ok {
			break
		}
		if next, ok := jmp.Cont.Entry(); ok && next >= eref {
			t.Errorf("jump at entry %d targets entry %d, want a lower index", eref, next)
		}
		entry = jmp.Cont
		seen++
		if seen > 10 {
			t.Fatal("chain did not terminate")
		}
	}
	if seen != 3 {
		t.Errorf("followed %d jumps, want 3", seen)
	}
}

// TestMergeSkipsPlaceholders checks that merging an IR copies concrete
// entries and their export status but leaves pure extern placeholders
// alone.
func TestMergeSkipsPlaceholders(t *testing.T) {
	src := New()
	src.DefineRet("r", 0)
	src.DefineJmp("j", "r", permutation.Identity())
	if err := src.SetExport("j"); err != nil {
		t.Fatal(err)
	}
	// "ext" stays a placeholder in src; it must not survive the merge.
	src.DefineJmp("uses_ext", "ext", permutation.Identity())

	dst := New()
	dst.Merge(src)

	if _, ok := dst.names.Get("ext"); ok {
		t.Error("merge copied a pure extern placeholder")
	}
	if !dst.exports["j"] {
		t.Error("merge did not preserve export status")
	}
	if ent, ok := dst.names.Get("r"); !ok {
		t.Error("merge did not copy concrete entry r")
	} else if _, ok := ent.(RetEnt); !ok {
		t.Errorf("merged r has kind %T, want RetEnt", ent)
	}
}

func TestSetExportUnknownName(t *testing.T) {
	doc := New()
	if err := doc.SetExport("nope"); err == nil {
		t.Error("expected error exporting an undefined name")
	}
}

func TestExterns(t *testing.T) {
	doc := New()
	doc.DefineJmp("a", "host_fn", permutation.Identity())
	exts := doc.Externs()
	if len(exts) != 1 || exts[0] != "host_fn" {
		t.Errorf("Externs() = %v, want [host_fn]", exts)
	}
}
