package persist

import (
	"testing"

	"github.com/earthengine/lincoln/lang/ir"
	"github.com/earthengine/lincoln/lang/permutation"
)

func buildSample(t *testing.T) *ir.IR {
	t.Helper()
	doc := ir.New()
	doc.DefineCall("test", "rec1", 2, "rec2")
	doc.DefineRet("rec1", 0)
	per, _ := permutation.Swap(0, 1)
	doc.DefineJmp("renamed", "rec1", per)
	doc.DefineGroup("variants", []string{"rec1", "renamed"})
	if err := doc.SetExport("test"); err != nil {
		t.Fatalf("SetExport: %v", err)
	}
	return doc
}

func TestRoundTrip(t *testing.T) {
	doc := buildSample(t)

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}

	got, err := Unmarshal(data)
	if err != nil {
		t.Fatalf("Unmarshal: %v\n--- yaml ---\n%s", err, data)
	}

	wantNames := doc.Names()
	gotNames := got.Names()
	if len(wantNames) != len(gotNames) {
		t.Fatalf("Names() = %v, want %v", gotNames, wantNames)
	}
	for i, n := range wantNames {
		if gotNames[i] != n {
			t.Errorf("Names()[%d] = %q, want %q", i, gotNames[i], n)
		}
		wantEnt, _ := doc.Lookup(n)
		gotEnt, ok := got.Lookup(n)
		if !ok {
			t.Errorf("round-tripped IR missing %q", n)
			continue
		}
		if fmtEnt(wantEnt) != fmtEnt(gotEnt) {
			t.Errorf("entry %q = %s, want %s", n, fmtEnt(gotEnt), fmtEnt(wantEnt))
		}
	}

	wantExports := doc.Exports()
	gotExports := got.Exports()
	if len(wantExports) != len(gotExports) || (len(wantExports) > 0 && wantExports[0] != gotExports[0]) {
		t.Errorf("Exports() = %v, want %v", gotExports, wantExports)
	}
}

func fmtEnt(e ir.Ent) string {
	switch v := e.(type) {
	case ir.ExternEnt:
		return "extern"
	case ir.JmpEnt:
		return "jmp:" + v.Cont + ":" + v.Per.String()
	case ir.CallEnt:
		return "call"
	case ir.RetEnt:
		return "ret"
	case ir.GroupEnt:
		return "group"
	default:
		return "?"
	}
}

func TestDecodePermutationMismatch(t *testing.T) {
	j := JmpDoc{Cont: "x", Per: "not-a-real-rendering", Code: 0}
	if _, err := decodePermutation(j); err == nil {
		t.Error("expected a mismatch error")
	}
}

func TestUnmarshalInvalidYAML(t *testing.T) {
	if _, err := Unmarshal([]byte("not: [valid")); err == nil {
		t.Error("expected a YAML parse error")
	}
}
