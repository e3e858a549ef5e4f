package maincmd

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/mna/mainer"

	"github.com/earthengine/lincoln/lang/machine"
	"github.com/earthengine/lincoln/lang/persist"
)

// Run compiles a YAML IR document, resolves <export> at <variant>, pushes
// the remaining arguments as wrapped strings, and drives the evaluator to
// Termination, printing whatever values are left on the context.
func (c *Cmd) Run(ctx context.Context, stdio mainer.Stdio, args []string) error {
	file, exportName, variantArg, valueArgs := args[0], args[1], args[2], args[3:]

	data, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}
	doc, err := persist.Unmarshal(data)
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	variant, err := strconv.ParseUint(variantArg, 10, 8)
	if err != nil {
		err = fmt.Errorf("invalid variant %q: %w", variantArg, err)
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	prog, err := doc.Compile(c.Externs(stdio))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	entry, err := prog.GetExportEnt(exportName, uint8(variant))
	if err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	// Values are pushed in the order given, matching the host convention
	// used throughout the evaluator's scenarios: the last value pushed ends
	// up on top.
	mctx := machine.NewContext()
	for _, arg := range valueArgs {
		mctx.Push(machine.NewWrapped(arg))
	}

	if _, err := machine.Run(prog, mctx, entry, 0); err != nil {
		fmt.Fprintln(stdio.Stderr, err)
		return err
	}

	fmt.Fprintf(stdio.Stdout, "terminated with %d value(s) on the context:\n", mctx.Len())
	for !mctx.IsEmpty() {
		v, _ := mctx.Pop()
		if d, uerr := v.Unwrap(); uerr == nil {
			fmt.Fprintf(stdio.Stdout, "  %v\n", d)
		} else {
			fmt.Fprintf(stdio.Stdout, "  %s\n", v)
		}
	}
	return nil
}
