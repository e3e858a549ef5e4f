package program

import "fmt"

// BuildError is returned by AddGroupEntry (unknown group) and by
// GroupEntry/GetExportEnt (variant beyond the group's length) when the
// request is malformed.
type BuildError struct {
	// Kind names which of the two BuildError shapes this is: "group_not_found"
	// or "variant_out_of_range".
	Kind string

	Group GroupRef // set for Kind == "group_not_found"

	Given, Max uint8 // set for Kind == "variant_out_of_range"
}

func (e *BuildError) Error() string {
	switch e.Kind {
	case "group_not_found":
		return fmt.Sprintf("program: group not found: %d", e.Group)
	case "variant_out_of_range":
		return fmt.Sprintf("program: variant out of range: given %d, max %d", e.Given, e.Max)
	default:
		return fmt.Sprintf("program: build error (%s)", e.Kind)
	}
}

func errGroupNotFound(g GroupRef) error {
	return &BuildError{Kind: "group_not_found", Group: g}
}

func errVariantOutOfRange(given, max uint8) error {
	return &BuildError{Kind: "variant_out_of_range", Given: given, Max: max}
}

// CodeRefError is returned when a CodeRef, EntryRef, ExternRef or GroupRef
// cannot be resolved against the Program's tables, or is used at the wrong
// kind.
type CodeRefError struct {
	Kind string // "invalid_group_index", "entry_not_found", "extern_not_found", "not_extern"

	Group  GroupRef
	Entry  EntryRef
	Extern ExternRef
}

func (e *CodeRefError) Error() string {
	switch e.Kind {
	case "invalid_group_index":
		return fmt.Sprintf("program: invalid group index: %d", e.Group)
	case "entry_not_found":
		return fmt.Sprintf("program: entry not found: %d", e.Entry)
	case "extern_not_found":
		return fmt.Sprintf("program: extern not found: %d", e.Extern)
	case "not_extern":
		return "program: coderef is not an extern"
	default:
		return fmt.Sprintf("program: coderef error (%s)", e.Kind)
	}
}

func errInvalidGroupIndex(g GroupRef) error {
	return &CodeRefError{Kind: "invalid_group_index", Group: g}
}

func errEntryNotFound(e EntryRef) error {
	return &CodeRefError{Kind: "entry_not_found", Entry: e}
}

func errExternNotFound(e ExternRef) error {
	return &CodeRefError{Kind: "extern_not_found", Extern: e}
}

// ErrNameUnknown is returned by GetExport/GetExportEnt for an unknown name.
type ErrNameUnknown struct{ Name string }

func (e *ErrNameUnknown) Error() string { return fmt.Sprintf("program: unknown export: %s", e.Name) }
