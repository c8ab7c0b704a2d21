package models

import "fmt"

// Note is a single (label, value) annotation.
type Note struct {
	Label string
	Value string
}

// Context is an immutable chain of notes. Note returns a new Context sharing
// its parent, so sibling stages can extend the same base independently.
// The nil *Context is the empty context.
type Context struct {
	parent *Context
	note   Note
	depth  int
}

// Note returns a new context with label=value appended.
func (c *Context) Note(label string, value interface{}) *Context {
	depth := 1
	if c != nil {
		depth = c.depth + 1
	}
	return &Context{
		parent: c,
		note:   Note{Label: label, Value: render(value)},
		depth:  depth,
	}
}

// Len returns the number of notes.
func (c *Context) Len() int {
	if c == nil {
		return 0
	}
	return c.depth
}

// Trail returns the notes oldest first.
func (c *Context) Trail() []Note {
	if c == nil {
		return nil
	}
	notes := make([]Note, c.depth)
	for cur := c; cur != nil; cur = cur.parent {
		notes[cur.depth-1] = cur.note
	}
	return notes
}

// Lookup returns the newest value recorded under label.
func (c *Context) Lookup(label string) (string, bool) {
	for cur := c; cur != nil; cur = cur.parent {
		if cur.note.Label == label {
			return cur.note.Value, true
		}
	}
	return "", false
}

func render(value interface{}) string {
	switch v := value.(type) {
	case string:
		return v
	case *string:
		if v == nil {
			return "<none>"
		}
		return *v
	case error:
		return v.Error()
	case fmt.Stringer:
		return v.String()
	default:
		return fmt.Sprintf("%v", v)
	}
}
