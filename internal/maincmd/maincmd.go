// Package maincmd implements the lincoln command-line front end: a thin,
// non-interactive surface over lang/ir, lang/persist and lang/machine
// (compile a YAML document, run one of its exports against values supplied
// on the command line).
package maincmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/mna/mainer"

	"github.com/earthengine/lincoln/lang/program"
)

const binName = "lincoln"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <command> [<path>...]
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <command> [<path>...]
       %[1]s -h|--help
       %[1]s -v|--version

Compile and run closure-passing bytecode programs defined in YAML.

The <command> can be one of:
       compile <file>                   Compile a YAML IR document and
                                         print a summary of the resulting
                                         bytecode tables.
       run <file> <export> <variant> [<value>...]
                                         Compile <file>, resolve <export> at
                                         <variant>, push the given values
                                         (as wrapped strings) and run to
                                         Termination, printing whatever is
                                         left on the context.

Valid flag options are:
       -h --help                        Show this help and exit.
       -v --version                     Print version and exit.
`, binName)
)

// Cmd is the lincoln command-line program, driven by github.com/mna/mainer.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	// Externs builds the fixed set of demonstration host functions that
	// compile and run resolve a document against, given the stdio a
	// particular invocation is writing to. Set by cmd/lincoln/main.go.
	Externs func(mainer.Stdio) []program.Extern

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	args  []string
	cmdFn func(context.Context, mainer.Stdio, []string) error
}

func (c *Cmd) SetArgs(args []string)        { c.args = args }
func (c *Cmd) SetFlags(flags map[string]bool) {}

func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}
	if len(c.args) == 0 {
		return errors.New("no command specified")
	}

	cmdName := c.args[0]
	commands := buildCmds(c)
	c.cmdFn = commands[cmdName]
	if c.cmdFn == nil {
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	switch cmdName {
	case "compile":
		if len(c.args[1:]) != 1 {
			return errors.New("compile: expected exactly one file argument")
		}
	case "run":
		if len(c.args[1:]) < 3 {
			return errors.New("run: expected <file> <export> <variant> [<value>...]")
		}
	}
	return nil
}

// Main parses args and dispatches to the resolved subcommand.
func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.InvalidArgs
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.cmdFn(ctx, stdio, c.args[1:]); err != nil {
		return mainer.Failure
	}
	return mainer.Success
}

// buildCmds reflects over v's methods to find the subcommand handlers: any
// method taking (context.Context, mainer.Stdio, []string) and returning
// error becomes a command named after the lowercased method name.
func buildCmds(v interface{}) map[string]func(context.Context, mainer.Stdio, []string) error {
	cmds := make(map[string]func(context.Context, mainer.Stdio, []string) error)

	vv := reflect.ValueOf(v)
	vt := vv.Type()
	for i := 0; i < vt.NumMethod(); i++ {
		m := vt.Method(i)
		mt := m.Type
		if mt.NumIn() != 4 || mt.NumOut() != 1 {
			continue
		}
		if rt := mt.Out(0); rt.Kind() != reflect.Interface || rt.Name() != "error" {
			continue
		}
		if p0 := mt.In(0); p0.Kind() != reflect.Ptr || p0.Elem().Name() != "Cmd" {
			continue
		}
		if p1 := mt.In(1); p1.Kind() != reflect.Interface || p1.Name() != "Context" {
			continue
		}
		if p2 := mt.In(2); p2.Kind() != reflect.Struct || p2.Name() != "Stdio" {
			continue
		}
		if p3 := mt.In(3); p3.Kind() != reflect.Slice || p3.Elem().Name() != "string" {
			continue
		}
		cmds[strings.ToLower(m.Name)] = vv.Method(i).Interface().(func(context.Context, mainer.Stdio, []string) error)
	}
	return cmds
}
