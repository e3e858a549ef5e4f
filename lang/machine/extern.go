package machine

import "github.com/earthengine/lincoln/lang/program"

// EvalFunc is a host function given exclusive access to a context; it must
// return the next CodeRef to transfer control to (Entry, Extern, or
// Termination), or fail.
type EvalFunc func(ctx *Context) (program.CodeRef, error)

// EvalExtern is a host-provided evaluator, addressed through
// CodeRef::Extern and dispatched by Eval without producing a value of its
// own.
type EvalExtern struct {
	Name string
	Fn   EvalFunc
}

func (e EvalExtern) ExternName() string             { return e.Name }
func (e EvalExtern) ExternKind() program.ExternKind { return program.ExternKindEval }

// ValueFunc is a nullary host thunk producing a Value.
type ValueFunc func() (Value, error)

// ValueExtern is a host-provided nullary producer, addressed through
// CodeRef::Extern. Eval pops the single continuation expected on the
// context, pushes the produced value, and invokes the continuation at
// variant 0.
type ValueExtern struct {
	Name string
	Fn   ValueFunc
}

func (e ValueExtern) ExternName() string             { return e.Name }
func (e ValueExtern) ExternKind() program.ExternKind { return program.ExternKindValue }

var (
	_ program.Extern = EvalExtern{}
	_ program.Extern = ValueExtern{}
)
