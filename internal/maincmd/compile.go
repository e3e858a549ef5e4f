package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/earthengine/lincoln/lang/persist"
)

// Compile loads a YAML IR document and compiles it against the CLI's
// demonstration extern set, printing a summary of the resulting bytecode
// tables. It exists mainly to validate a document's dependency structure
// (circular references, unresolved externs) without running anything.
func (c *Cmd) Compile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	doc, err := persist.Unmarshal(data)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	if externs := doc.Externs(); len(externs) > 0 {
		fmt.Fprintf(stdio.Stdout, "note: %d unresolved extern placeholder(s): %v\n", len(externs), externs)
	}

	prog, err := doc.Compile(c.Externs(stdio))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	fmt.Fprintf(stdio.Stdout, "entries=%d externs=%d groups=%d exports=%d\n",
		prog.NumEntries(), prog.NumExterns(), prog.NumGroups(), prog.NumExports())
	return nil
}
