package main

import (
	"fmt"
	"io"

	"github.com/earthengine/lincoln/lang/machine"
	"github.com/earthengine/lincoln/lang/program"
)

// demonstrationExterns returns the small, fixed set of host functions that
// compile and run resolve a document against. They exist to give the CLI
// something concrete to link a document's extern placeholders to; a
// reusable extern library is out of scope.
func demonstrationExterns(out io.Writer) []program.Extern {
	return []program.Extern{
		machine.EvalExtern{Name: "print", Fn: externPrint(out)},
		machine.EvalExtern{Name: "concat", Fn: externConcat},
		machine.ValueExtern{Name: "empty_string", Fn: externEmptyString},
	}
}

// externPrint pops a continuation and a value, writes the value's unwrapped
// datum to out, pushes the value back unchanged, and invokes the
// continuation at variant 0.
func externPrint(out io.Writer) machine.EvalFunc {
	return func(ctx *machine.Context) (program.CodeRef, error) {
		cont, err := ctx.Pop()
		if err != nil {
			return program.CodeRef{}, err
		}
		v, err := ctx.Pop()
		if err != nil {
			return program.CodeRef{}, err
		}
		if d, uerr := v.Unwrap(); uerr == nil {
			fmt.Fprintln(out, d)
		} else {
			fmt.Fprintln(out, v)
		}
		ctx.Push(v)
		return machine.InvokeContinuation(ctx, cont, 0)
	}
}

// externConcat pops a continuation and two wrapped strings, pushes their
// concatenation, and invokes the continuation at variant 0.
func externConcat(ctx *machine.Context) (program.CodeRef, error) {
	cont, err := ctx.Pop()
	if err != nil {
		return program.CodeRef{}, err
	}
	a, err := ctx.Pop()
	if err != nil {
		return program.CodeRef{}, err
	}
	b, err := ctx.Pop()
	if err != nil {
		return program.CodeRef{}, err
	}
	sa, err := unwrapString(a)
	if err != nil {
		return program.CodeRef{}, err
	}
	sb, err := unwrapString(b)
	if err != nil {
		return program.CodeRef{}, err
	}
	ctx.Push(machine.NewWrapped(sa + sb))
	return machine.InvokeContinuation(ctx, cont, 0)
}

func unwrapString(v machine.Value) (string, error) {
	d, err := v.Unwrap()
	if err != nil {
		return "", err
	}
	s, ok := d.(string)
	if !ok {
		return "", fmt.Errorf("demonstration extern: expected a wrapped string, got %v", d)
	}
	return s, nil
}

// externEmptyString produces the empty string, wrapped.
func externEmptyString() (machine.Value, error) {
	return machine.NewWrapped(""), nil
}
