package machine

import (
	"fmt"

	"github.com/earthengine/lincoln/lang/program"
)

// Eval performs one instruction. It dispatches on cr's kind, mutates ctx as
// the instruction or extern requires, and returns the next CodeRef to
// transfer control to.
func Eval(prog *program.Program, ctx *Context, cr program.CodeRef) (program.CodeRef, error) {
	if cr.IsTermination() {
		return program.CodeRef{}, errEvalOnTermination()
	}
	if eref, ok := cr.Entry(); ok {
		return evalEntry(prog, ctx, eref)
	}
	if xref, ok := cr.Extern(); ok {
		return evalExtern(prog, ctx, xref)
	}
	return program.CodeRef{}, wrapEvalError(fmt.Errorf("eval: malformed coderef %v", cr))
}

func evalEntry(prog *program.Program, ctx *Context, eref program.EntryRef) (program.CodeRef, error) {
	ent, err := prog.Entry(eref)
	if err != nil {
		return program.CodeRef{}, wrapEvalError(err)
	}
	switch e := ent.(type) {
	case program.Jump:
		if err := ctx.Permutate(e.Per); err != nil {
			return program.CodeRef{}, wrapEvalError(err)
		}
		return e.Cont, nil

	case program.Call:
		suffix, err := ctx.Split(int(e.NumArgs))
		if err != nil {
			return program.CodeRef{}, wrapEvalError(err)
		}
		val, err := buildClosure(prog, e.Cont, suffix)
		if err != nil {
			return program.CodeRef{}, wrapEvalError(err)
		}
		ctx.Push(val)
		return e.Call, nil

	case program.Return:
		v, err := ctx.Pop()
		if err != nil {
			return program.CodeRef{}, wrapEvalError(err)
		}
		if _, ok := v.(*Wrapped); ok {
			return program.CodeRef{}, errReturnToExtern()
		}
		cr, err := v.Evaluate(ctx, e.Variant)
		return cr, wrapEvalError(err)

	default:
		return program.CodeRef{}, wrapEvalError(fmt.Errorf("eval: unknown entry type %T", ent))
	}
}

func evalExtern(prog *program.Program, ctx *Context, xref program.ExternRef) (program.CodeRef, error) {
	ext, err := prog.Extern(xref)
	if err != nil {
		return program.CodeRef{}, wrapEvalError(err)
	}
	switch ext.ExternKind() {
	case program.ExternKindEval:
		ee, ok := ext.(EvalExtern)
		if !ok {
			return program.CodeRef{}, wrapEvalError(fmt.Errorf("eval: extern %q kind mismatch", ext.ExternName()))
		}
		cr, err := callEvalExtern(ee, ctx)
		return cr, wrapEvalError(err)

	case program.ExternKindValue:
		ve, ok := ext.(ValueExtern)
		if !ok {
			return program.CodeRef{}, wrapEvalError(fmt.Errorf("eval: extern %q kind mismatch", ext.ExternName()))
		}
		if err := ctx.ExpectArgs(1); err != nil {
			return program.CodeRef{}, wrapEvalError(err)
		}
		cont, err := ctx.Pop()
		if err != nil {
			return program.CodeRef{}, wrapEvalError(err)
		}
		val, err := callValueExtern(ve)
		if err != nil {
			return program.CodeRef{}, wrapEvalError(err)
		}
		ctx.Push(val)
		return callContinuation(ctx, cont, 0)

	default:
		return program.CodeRef{}, wrapEvalError(fmt.Errorf("eval: extern %q has unknown kind", ext.ExternName()))
	}
}

// callEvalExtern invokes ee.Fn behind a recover boundary: a panicking host
// function must not corrupt the evaluator's state, it must surface as an
// ordinary EvalError instead.
func callEvalExtern(ee EvalExtern, ctx *Context) (cr program.CodeRef, err error) {
	defer func() {
		if r := recover(); r != nil {
			cr, err = program.CodeRef{}, errHostPanic(r)
		}
	}()
	return ee.Fn(ctx)
}

// callValueExtern is callEvalExtern's counterpart for ValueExtern.
func callValueExtern(ve ValueExtern) (v Value, err error) {
	defer func() {
		if r := recover(); r != nil {
			v, err = nil, errHostPanic(r)
		}
	}()
	return ve.Fn()
}

// buildClosure implements the closure-construction rule used by Call: a
// single-tag group whose tag is a Value-extern, entered with an empty
// suffix, collapses directly to the produced value instead of allocating a
// one-shot closure around it.
func buildClosure(prog *program.Program, cont program.GroupRef, suffix *Context) (Value, error) {
	tags, err := prog.GroupEntries(cont)
	if err != nil {
		return nil, err
	}
	if len(tags) == 1 && suffix.IsEmpty() {
		if xref, ok := tags[0].Extern(); ok {
			ext, err := prog.Extern(xref)
			if err != nil {
				return nil, err
			}
			if ext.ExternKind() == program.ExternKindValue {
				ve, ok := ext.(ValueExtern)
				if !ok {
					return nil, errExternNotValue()
				}
				return callValueExtern(ve)
			}
		}
	}
	return NewClosure(tags, suffix), nil
}

// Run drives Eval from cr until it yields Termination, an error occurs, or
// rounds instructions have executed. rounds <= 0 means no limit. It returns
// the CodeRef it stopped at: Termination on normal completion, the CodeRef
// whose evaluation failed on error, or the next CodeRef still to run when the
// round limit is reached.
func Run(prog *program.Program, ctx *Context, cr program.CodeRef, rounds int) (program.CodeRef, error) {
	for i := 0; rounds <= 0 || i < rounds; i++ {
		if cr.IsTermination() {
			return cr, nil
		}
		next, err := Eval(prog, ctx, cr)
		if err != nil {
			return cr, err
		}
		cr = next
	}
	return cr, nil
}
