package maincmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/mna/mainer"

	"github.com/earthengine/lincoln/lang/ir"
	"github.com/earthengine/lincoln/lang/permutation"
	"github.com/earthengine/lincoln/lang/persist"
	"github.com/earthengine/lincoln/lang/program"
)

// noExterns stands in for cmd/lincoln's demonstration extern set: these
// tests exercise maincmd's own plumbing, not any particular extern.
func noExterns(mainer.Stdio) []program.Extern { return nil }

func writeDoc(t *testing.T, doc *ir.IR) string {
	t.Helper()
	data, err := persist.Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	path := filepath.Join(t.TempDir(), "doc.yaml")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// TestCompileNoExternsNeeded builds a document with no extern placeholders
// (a pure jmp/ret chain) so "compile" succeeds without any host externals.
func TestCompileNoExternsNeeded(t *testing.T) {
	doc := ir.New()
	doc.DefineRet("r", 0)
	doc.DefineJmp("j", "r", permutation.Identity())
	if err := doc.SetExport("j"); err != nil {
		t.Fatal(err)
	}
	path := writeDoc(t, doc)

	var out, errOut bytes.Buffer
	c := &Cmd{Externs: noExterns}
	if err := c.Compile(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path}); err != nil {
		t.Fatalf("Compile: %v (stderr: %s)", err, errOut.String())
	}
	want := "entries=2 externs=0 groups=1 exports=1\n"
	if out.String() != want {
		t.Errorf("stdout = %q, want %q", out.String(), want)
	}
}

// TestCompileReportsUnresolvedExterns checks that "compile" surfaces
// unresolved extern placeholders before failing (it is run with no host
// externals, so any such placeholder is necessarily unsatisfiable).
func TestCompileReportsUnresolvedExterns(t *testing.T) {
	doc := ir.New()
	doc.DefineCall("test", "rec1", 2, "rec2")
	doc.DefineRet("rec1", 0)
	if err := doc.SetExport("test"); err != nil {
		t.Fatal(err)
	}
	path := writeDoc(t, doc)

	var out, errOut bytes.Buffer
	c := &Cmd{Externs: noExterns}
	err := c.Compile(context.Background(), mainer.Stdio{Stdout: &out, Stderr: &errOut}, []string{path})
	if err == nil {
		t.Fatal("expected an error: rec2 is never resolved")
	}
	if !bytes.Contains(out.Bytes(), []byte("rec2")) {
		t.Errorf("stdout = %q, want a mention of the unresolved extern rec2", out.String())
	}
}

func TestValidateRejectsUnknownCommand(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"frobnicate"})
	if err := c.Validate(); err == nil {
		t.Error("expected an error for an unknown command")
	}
}

func TestValidateRejectsMissingArgs(t *testing.T) {
	c := &Cmd{}
	c.SetArgs([]string{"run", "only-one-arg"})
	if err := c.Validate(); err == nil {
		t.Error("expected an error for too few run arguments")
	}
}
