package ir

import (
	"fmt"
	"strings"
)

// CompileError reports a failure of Compile: a circular reference among
// entries, a host external that no name in the supplied set matches, or a
// reference to a name that was never defined.
type CompileError struct {
	Kind string // "circular_reference", "extern_not_found", "name_not_found"

	Names []string // CircularReference
	Name  string   // ExternNotFound, NameNotFound
}

func (e *CompileError) Error() string {
	switch e.Kind {
	case "circular_reference":
		return fmt.Sprintf("ir: circular reference among: %s", strings.Join(e.Names, ", "))
	case "extern_not_found":
		return fmt.Sprintf("ir: no host external named %q", e.Name)
	case "name_not_found":
		return fmt.Sprintf("ir: undefined name %q", e.Name)
	default:
		return fmt.Sprintf("ir: compile error (%s)", e.Kind)
	}
}

func errCircularReference(names []string) error {
	return &CompileError{Kind: "circular_reference", Names: names}
}

func errExternNotFound(name string) error {
	return &CompileError{Kind: "extern_not_found", Name: name}
}

func errNameNotFound(name string) error {
	return &CompileError{Kind: "name_not_found", Name: name}
}
