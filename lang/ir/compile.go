package ir

import "github.com/earthengine/lincoln/lang/program"

// Compile dependency-sorts ir's entries, resolves extern placeholders
// against externs by exact name match, and emits a program.Program.
//
// Compile algorithm:
//  1. Stratify entries into dependency levels, level 0 being every extern
//     placeholder.
//  2. If entries remain unclassified once levels stop growing, fail with a
//     CircularReference listing them.
//  3. Emit, in ascending level order: externs are matched by name against
//     externs; Ret/Jmp/Call/Group lower directly, consulting the name maps
//     built by earlier levels.
//  4. Export pass: each exported name becomes a program Export, wrapping
//     non-group referents in a fresh singleton group.
func (ir *IR) Compile(externs []program.Extern) (*program.Program, error) {
	levels, err := ir.stratify()
	if err != nil {
		return nil, err
	}

	externByName := make(map[string]program.Extern, len(externs))
	for _, e := range externs {
		externByName[e.ExternName()] = e
	}

	prog := program.New()
	codeRefs := make(map[string]program.CodeRef)
	groupRefs := make(map[string]program.GroupRef)

	for _, level := range levels {
		for _, name := range level {
			ent, _ := ir.names.Get(name)
			if err := ir.emit(prog, name, ent, externByName, codeRefs, groupRefs); err != nil {
				return nil, err
			}
		}
	}

	for _, name := range ir.order {
		if !ir.exports[name] {
			continue
		}
		if err := ir.exportName(prog, name, codeRefs, groupRefs); err != nil {
			return nil, err
		}
	}

	return prog, nil
}

func (ir *IR) emit(
	prog *program.Program,
	name string,
	ent Ent,
	externByName map[string]program.Extern,
	codeRefs map[string]program.CodeRef,
	groupRefs map[string]program.GroupRef,
) error {
	switch e := ent.(type) {
	case ExternEnt:
		ext, ok := externByName[name]
		if !ok {
			return errExternNotFound(name)
		}
		codeRefs[name] = prog.AddExtern(ext)

	case RetEnt:
		codeRefs[name] = prog.AddReturn(e.Variant)

	case JmpEnt:
		cont, ok := codeRefs[e.Cont]
		if !ok {
			return errNameNotFound(e.Cont)
		}
		codeRefs[name] = prog.AddJump(cont, e.Per)

	case CallEnt:
		callee, ok := codeRefs[e.Callee]
		if !ok {
			return errNameNotFound(e.Callee)
		}
		g, ok := groupRefs[e.CallCont]
		if !ok {
			g = prog.AddEmptyGroup()
			groupRefs[e.CallCont] = g
			if cr, ok := codeRefs[e.CallCont]; ok {
				if err := prog.AddGroupEntry(g, cr); err != nil {
					return err
				}
			}
		}
		codeRefs[name] = prog.AddCall(callee, uint8(e.CallCnt), g)

	case GroupEnt:
		g, ok := groupRefs[name]
		if !ok {
			g = prog.AddEmptyGroup()
			groupRefs[name] = g
		}
		for _, el := range e.Elements {
			cr, ok := codeRefs[el]
			if !ok {
				return errNameNotFound(el)
			}
			if err := prog.AddGroupEntry(g, cr); err != nil {
				return err
			}
		}
	}
	return nil
}

func (ir *IR) exportName(prog *program.Program, name string, codeRefs map[string]program.CodeRef, groupRefs map[string]program.GroupRef) error {
	if g, ok := groupRefs[name]; ok {
		prog.AddExport(name, g)
		return nil
	}
	cr, ok := codeRefs[name]
	if !ok {
		return errNameNotFound(name)
	}
	g := prog.AddEmptyGroup()
	if err := prog.AddGroupEntry(g, cr); err != nil {
		return err
	}
	prog.AddExport(name, g)
	return nil
}

// stratify orders ir.order's names into dependency levels: level 0 is
// every extern placeholder, and each later level holds every entry whose
// references are all satisfied by earlier levels.
func (ir *IR) stratify() ([][]string, error) {
	leveled := make(map[string]int, len(ir.order))
	ents := make(map[string]Ent, len(ir.order))
	for _, n := range ir.order {
		ent, _ := ir.names.Get(n)
		ents[n] = ent
	}

	var level0 []string
	for _, n := range ir.order {
		if _, ok := ents[n].(ExternEnt); ok {
			leveled[n] = 0
			level0 = append(level0, n)
		}
	}
	levels := [][]string{level0}

	for {
		var next []string
		for _, n := range ir.order {
			if _, done := leveled[n]; done {
				continue
			}
			if satisfied(ents[n], ents, leveled) {
				next = append(next, n)
			}
		}
		if len(next) == 0 {
			break
		}
		lvl := len(levels)
		for _, n := range next {
			leveled[n] = lvl
		}
		levels = append(levels, next)
	}

	if len(leveled) != len(ir.order) {
		var unresolved []string
		for _, n := range ir.order {
			if _, ok := leveled[n]; !ok {
				unresolved = append(unresolved, n)
			}
		}
		return nil, errCircularReference(unresolved)
	}
	return levels, nil
}

func satisfied(ent Ent, ents map[string]Ent, leveled map[string]int) bool {
	switch e := ent.(type) {
	case ExternEnt:
		return true
	case RetEnt:
		return true
	case JmpEnt:
		_, ok := leveled[e.Cont]
		return ok
	case GroupEnt:
		for _, el := range e.Elements {
			if _, ok := leveled[el]; !ok {
				return false
			}
		}
		return true
	case CallEnt:
		if _, ok := leveled[e.Callee]; !ok {
			return false
		}
		if _, ok := leveled[e.CallCont]; ok {
			return true
		}
		_, isGroup := ents[e.CallCont].(GroupEnt)
		return isGroup
	default:
		return false
	}
}
