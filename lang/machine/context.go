package machine

import "github.com/earthengine/lincoln/lang/permutation"

// Context is the VM's operand stack: an ordered sequence of Value. Index 0
// is the top: Push installs a value there, Pop removes it, and a Return
// instruction acts on it. No length bound is enforced: neither Push nor
// Merge rejects a context growing past 255 values.
type Context struct {
	vals []Value
}

// NewContext returns an empty Context.
func NewContext() *Context { return &Context{} }

// Len reports how many values the context holds.
func (c *Context) Len() int { return len(c.vals) }

// IsEmpty reports whether the context holds no values.
func (c *Context) IsEmpty() bool { return len(c.vals) == 0 }

// Push installs v as the new top (index 0).
func (c *Context) Push(v Value) {
	c.vals = append(c.vals, nil)
	copy(c.vals[1:], c.vals)
	c.vals[0] = v
}

// Pop removes and returns the top value.
func (c *Context) Pop() (Value, error) {
	if len(c.vals) == 0 {
		return nil, errPopFromEmpty()
	}
	v := c.vals[0]
	c.vals = c.vals[1:]
	return v, nil
}

// Split keeps the top `at` values in c and returns a new Context holding
// the remainder (the suffix, values from index at onward), in order.
func (c *Context) Split(at int) (*Context, error) {
	if at < 0 || at > len(c.vals) {
		return nil, errSplitOutOfRange(at, len(c.vals))
	}
	suffix := append([]Value(nil), c.vals[at:]...)
	c.vals = append([]Value(nil), c.vals[:at]...)
	return &Context{vals: suffix}, nil
}

// Merge appends other's values onto the end of c, in order, and empties
// other. The values that were on top of c remain on top.
func (c *Context) Merge(other *Context) {
	if other == nil || len(other.vals) == 0 {
		return
	}
	c.vals = append(c.vals, other.vals...)
	other.vals = nil
}

// Permutate reorders c's values in place according to p. Contexts may be
// longer than p's minimal length; the tail past that length is left
// untouched rather than treated as an error.
func (c *Context) Permutate(p permutation.Permutation) error {
	return permutation.Apply(p, c.vals)
}

// ExpectArgs succeeds iff c holds exactly n values.
func (c *Context) ExpectArgs(n int) error {
	if len(c.vals) != n {
		return errUnexpectedArgs(n, len(c.vals))
	}
	return nil
}
