package machine

import "fmt"

// ValueAccessError reports a failure of a Context or Value operation: a
// malformed split, a pop from an empty context, an attempt to unwrap a
// value that carries no wrapped datum, or an argument-count mismatch.
type ValueAccessError struct {
	Kind string

	At, Total      int    // SplitOutOfRange
	Msg            string // UnwrapNotWrapped
	Expect, Actual int    // UnexpectedArgs
}

func (e *ValueAccessError) Error() string {
	switch e.Kind {
	case "split_out_of_range":
		return fmt.Sprintf("value access: split out of range: at %d, total %d", e.At, e.Total)
	case "pop_from_empty":
		return "value access: pop from empty context"
	case "unwrap_not_wrapped":
		return fmt.Sprintf("value access: not a wrapped value: %s", e.Msg)
	case "unwrapping_nonempty_closure":
		return "value access: unwrapping a closure with a non-empty captured context"
	case "unwrapping_multivariant_closure":
		return "value access: unwrapping a closure with more than one variant"
	case "extern_not_value":
		return "value access: extern is not a value extern"
	case "cannot_turn_into_wrapped":
		return "value access: cannot turn value into a wrapped datum"
	case "unwrap_empty_value":
		return "value access: unwrap of empty value"
	case "unexpected_args":
		return fmt.Sprintf("value access: unexpected number of arguments: expected %d, got %d", e.Expect, e.Actual)
	default:
		return fmt.Sprintf("value access error (%s)", e.Kind)
	}
}

func errSplitOutOfRange(at, total int) error {
	return &ValueAccessError{Kind: "split_out_of_range", At: at, Total: total}
}

func errPopFromEmpty() error { return &ValueAccessError{Kind: "pop_from_empty"} }

func errUnwrapNotWrapped(msg string) error {
	return &ValueAccessError{Kind: "unwrap_not_wrapped", Msg: msg}
}

func errUnwrappingNonEmptyClosure() error {
	return &ValueAccessError{Kind: "unwrapping_nonempty_closure"}
}

func errUnwrappingMultivariantClosure() error {
	return &ValueAccessError{Kind: "unwrapping_multivariant_closure"}
}

func errExternNotValue() error { return &ValueAccessError{Kind: "extern_not_value"} }

func errUnexpectedArgs(expect, actual int) error {
	return &ValueAccessError{Kind: "unexpected_args", Expect: expect, Actual: actual}
}

// EvalError reports a failure of the one-step evaluator itself, as opposed
// to a failure of the context/value operations it drives (those are
// reported as ValueAccessError and wrapped here).
type EvalError struct {
	Kind string

	Given, Max uint8 // VariantOutOfBound
	Cause      error // wrapped CodeRefError, ValueAccessError, or host error
	Recovered  any   // HostPanic
}

func (e *EvalError) Error() string {
	switch e.Kind {
	case "eval_on_termination":
		return "eval: called on Termination"
	case "return_to_extern":
		return "eval: return popped a value that is not a closure"
	case "variant_out_of_bound":
		return fmt.Sprintf("eval: variant out of bound: given %d, max %d", e.Given, e.Max)
	case "calling_wrapped":
		return "eval: attempt to evaluate a wrapped (non-callable) value"
	case "host_panic":
		return fmt.Sprintf("eval: host function panicked: %v", e.Recovered)
	case "wrapped":
		return e.Cause.Error()
	default:
		return fmt.Sprintf("eval error (%s)", e.Kind)
	}
}

func (e *EvalError) Unwrap() error { return e.Cause }

func errEvalOnTermination() error { return &EvalError{Kind: "eval_on_termination"} }
func errReturnToExtern() error    { return &EvalError{Kind: "return_to_extern"} }
func errCallingWrapped() error    { return &EvalError{Kind: "calling_wrapped"} }

func errHostPanic(recovered any) error {
	return &EvalError{Kind: "host_panic", Recovered: recovered}
}

func errVariantOutOfBound(given, max uint8) error {
	return &EvalError{Kind: "variant_out_of_bound", Given: given, Max: max}
}

func wrapEvalError(cause error) error {
	if cause == nil {
		return nil
	}
	if _, ok := cause.(*EvalError); ok {
		return cause
	}
	return &EvalError{Kind: "wrapped", Cause: cause}
}
