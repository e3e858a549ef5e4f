package machine

import (
	"fmt"

	"github.com/earthengine/lincoln/lang/program"
)

// Value is a runtime value: a closure, a wrapped host datum, or a native
// closure. Every Value can be evaluated (consuming it, transferring
// control) and, optionally, unwrapped back to a host datum.
type Value interface {
	String() string
	Type() string

	// Evaluate consumes the value, transferring control at the given
	// variant. ctx is the context the value acts against.
	Evaluate(ctx *Context, variant uint8) (program.CodeRef, error)

	// Unwrap yields the underlying host datum, if this value carries one.
	Unwrap() (any, error)
}

// Closure bundles an ordered list of continuation tags with a captured
// context. Evaluating it merges the capture onto the caller's context and
// transfers to one of the tags, selected by variant, with two distinguished
// variants (1 "drop", 2 "copy") available whenever there is exactly one
// tag.
type Closure struct {
	Tags     []program.CodeRef
	Captured *Context
}

// NewClosure returns a Closure over tags, capturing captured (or a fresh
// empty context if nil).
func NewClosure(tags []program.CodeRef, captured *Context) *Closure {
	if captured == nil {
		captured = NewContext()
	}
	return &Closure{Tags: tags, Captured: captured}
}

func (c *Closure) String() string { return fmt.Sprintf("closure(%d variants)", len(c.Tags)) }
func (c *Closure) Type() string   { return "closure" }

func (c *Closure) Evaluate(ctx *Context, variant uint8) (program.CodeRef, error) {
	switch len(c.Tags) {
	case 0:
		ctx.Merge(c.Captured)
		return program.Termination, nil
	case 1:
		switch variant {
		case 0:
			ctx.Merge(c.Captured)
			return c.Tags[0], nil
		case 1:
			return c.evalDrop(ctx)
		case 2:
			return c.evalCopy(ctx)
		default:
			return program.CodeRef{}, errVariantOutOfBound(variant, 2)
		}
	default:
		if int(variant) >= len(c.Tags) {
			return program.CodeRef{}, errVariantOutOfBound(variant, uint8(len(c.Tags)-1))
		}
		ctx.Merge(c.Captured)
		return c.Tags[variant], nil
	}
}

// evalDrop implements the distinguished variant 1: discard the closure,
// keep only the continuation that was sitting on ctx. The expect-args check
// runs against ctx before the capture is merged in, since the continuation
// is the only thing the caller put there; the capture is merged in after,
// for the continuation itself to see.
func (c *Closure) evalDrop(ctx *Context) (program.CodeRef, error) {
	if err := ctx.ExpectArgs(1); err != nil {
		return program.CodeRef{}, wrapEvalError(err)
	}
	cont, err := ctx.Pop()
	if err != nil {
		return program.CodeRef{}, wrapEvalError(err)
	}
	ctx.Merge(c.Captured)
	return callContinuation(ctx, cont, 0)
}

// evalCopy implements the distinguished variant 2: duplicate the closure
// into two fresh, empty-captured handles before invoking the continuation.
// As with evalDrop, the expect-args check and pop happen before the capture
// is merged in.
func (c *Closure) evalCopy(ctx *Context) (program.CodeRef, error) {
	if err := ctx.ExpectArgs(1); err != nil {
		return program.CodeRef{}, wrapEvalError(err)
	}
	cont, err := ctx.Pop()
	if err != nil {
		return program.CodeRef{}, wrapEvalError(err)
	}
	ctx.Merge(c.Captured)
	ctx.Push(NewClosure(append([]program.CodeRef(nil), c.Tags...), nil))
	ctx.Push(NewClosure(append([]program.CodeRef(nil), c.Tags...), nil))
	return callContinuation(ctx, cont, 0)
}

func (c *Closure) Unwrap() (any, error) {
	if !c.Captured.IsEmpty() {
		return nil, errUnwrappingNonEmptyClosure()
	}
	if len(c.Tags) != 1 {
		return nil, errUnwrappingMultivariantClosure()
	}
	return nil, errUnwrapNotWrapped("closure")
}

// InvokeContinuation invokes v as a continuation at variant. It is the
// exported form of callContinuation, for host extern functions defined
// outside this package that need to hand control to a continuation the
// same way the evaluator's own call sites do.
func InvokeContinuation(ctx *Context, v Value, variant uint8) (program.CodeRef, error) {
	return callContinuation(ctx, v, variant)
}

// callContinuation invokes v as a continuation at variant, rejecting a
// wrapped (non-callable) value with CallingWrapped before calling it.
func callContinuation(ctx *Context, v Value, variant uint8) (program.CodeRef, error) {
	if _, ok := v.(*Wrapped); ok {
		return program.CodeRef{}, errCallingWrapped()
	}
	cr, err := v.Evaluate(ctx, variant)
	return cr, wrapEvalError(err)
}

// Wrapped carries an arbitrary host-owned datum. It is never callable.
type Wrapped struct {
	Datum any
}

// NewWrapped wraps a host datum as a Value.
func NewWrapped(datum any) *Wrapped { return &Wrapped{Datum: datum} }

func (w *Wrapped) String() string { return fmt.Sprintf("wrapped(%v)", w.Datum) }
func (w *Wrapped) Type() string   { return "wrapped" }

func (w *Wrapped) Evaluate(ctx *Context, variant uint8) (program.CodeRef, error) {
	return program.CodeRef{}, errCallingWrapped()
}

func (w *Wrapped) Unwrap() (any, error) { return w.Datum, nil }

// NativeFunc is a host-supplied single-shot evaluator, as used by
// NativeClosure.
type NativeFunc func(ctx *Context, variant uint8) (program.CodeRef, error)

// NativeClosure is a host function exposed as a Value directly, without
// going through the program's extern table; hosts typically push one as a
// top-level terminator before driving eval.
type NativeClosure struct {
	Name string
	Fn   NativeFunc
}

// NewNativeClosure returns a NativeClosure wrapping fn, displayed as name.
func NewNativeClosure(name string, fn NativeFunc) *NativeClosure {
	return &NativeClosure{Name: name, Fn: fn}
}

func (n *NativeClosure) String() string { return fmt.Sprintf("native(%s)", n.Name) }
func (n *NativeClosure) Type() string   { return "native closure" }

// Evaluate calls the wrapped host function behind a recover boundary: a
// panic from fn must not corrupt the evaluator's state, it surfaces as an
// EvalError instead.
func (n *NativeClosure) Evaluate(ctx *Context, variant uint8) (cr program.CodeRef, err error) {
	defer func() {
		if r := recover(); r != nil {
			cr, err = program.CodeRef{}, errHostPanic(r)
		}
	}()
	return n.Fn(ctx, variant)
}

func (n *NativeClosure) Unwrap() (any, error) { return nil, errUnwrapNotWrapped(n.Name) }
