// Package dependency turns "name = version expression" pairs from the
// configuration into RPM relationship constraints.
package dependency

import (
	"strings"
)

// Operator is the relation between a dependency and its version
type Operator int

const (
	Any Operator = iota
	Equal
	Less
	LessOrEqual
	Greater
	GreaterOrEqual
)

// String returns the RPM spelling of the operator
func (o Operator) String() string {
	switch o {
	case Equal:
		return "="
	case Less:
		return "<"
	case LessOrEqual:
		return "<="
	case Greater:
		return ">"
	case GreaterOrEqual:
		return ">="
	default:
		return ""
	}
}

// Constraint is a named dependency with an optional version requirement
type Constraint struct {
	Name    string
	Op      Operator
	Version string
}

// String renders the constraint the way rpm prints it, e.g. "glibc >= 2.17"
func (c Constraint) String() string {
	if c.Op == Any || c.Version == "" {
		return c.Name
	}
	return c.Name + " " + c.Op.String() + " " + c.Version
}

// prefixes are tried in order; the first match wins. Caret and tilde are
// plain lower bounds here, not semver ranges.
var prefixes = []struct {
	token string
	op    Operator
}{
	{"==", Equal},
	{"=", Equal},
	{"<=", LessOrEqual},
	{"<", Less},
	{">=", GreaterOrEqual},
	{">", Greater},
	{"^", GreaterOrEqual},
	{"~", GreaterOrEqual},
}

// Parse converts a name and version expression into a Constraint. It never fails.
func Parse(name, expr string) Constraint {
	name = strings.TrimSpace(name)

	for _, p := range prefixes {
		if rest, ok := strings.CutPrefix(expr, p.token); ok {
			return Constraint{Name: name, Op: p.op, Version: strings.TrimSpace(rest)}
		}
	}

	if expr == "*" || expr == "" {
		return Constraint{Name: name, Op: Any}
	}

	return Constraint{Name: name, Op: Equal, Version: strings.TrimSpace(expr)}
}
