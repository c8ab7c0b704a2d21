package models

import (
	"fmt"
	"strings"
)

// ErrorType represents different categories of errors
type ErrorType int

const (
	ErrConfigRead ErrorType = iota
	ErrConfigParse
	ErrInvalidConfig
	ErrFileAttach
	ErrScriptLoad
	ErrDependency
	ErrKeyRead
	ErrKeyParse
	ErrFinalize
	ErrOutput
	ErrInspect
)

// String returns the string representation of ErrorType
func (e ErrorType) String() string {
	switch e {
	case ErrConfigRead:
		return "ConfigRead"
	case ErrConfigParse:
		return "ConfigParse"
	case ErrInvalidConfig:
		return "InvalidConfig"
	case ErrFileAttach:
		return "FileAttach"
	case ErrScriptLoad:
		return "ScriptLoad"
	case ErrDependency:
		return "Dependency"
	case ErrKeyRead:
		return "SigningKeyRead"
	case ErrKeyParse:
		return "SigningKeyParse"
	case ErrFinalize:
		return "Finalize"
	case ErrOutput:
		return "Output"
	case ErrInspect:
		return "Inspect"
	default:
		return "Unknown"
	}
}

// BuildError represents an error raised while turning a configuration into a package.
// Context holds the annotations gathered on the way to the failure.
type BuildError struct {
	Type    ErrorType
	Context *Context
	Err     error
}

// NewError creates a BuildError of the given type
func NewError(t ErrorType, ctx *Context, err error) *BuildError {
	return &BuildError{Type: t, Context: ctx, Err: err}
}

// Errorf creates a BuildError with a formatted cause
func Errorf(t ErrorType, ctx *Context, format string, args ...interface{}) *BuildError {
	return &BuildError{Type: t, Context: ctx, Err: fmt.Errorf(format, args...)}
}

// Error implements the error interface
func (e *BuildError) Error() string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %v", e.Type, e.Err)
	for _, n := range e.Trail() {
		fmt.Fprintf(&b, "\n  %s: %s", n.Label, n.Value)
	}
	return b.String()
}

// Unwrap returns the wrapped error
func (e *BuildError) Unwrap() error {
	return e.Err
}

// Trail returns the context notes in the order they were added
func (e *BuildError) Trail() []Note {
	return e.Context.Trail()
}

// Lookup returns the most recent value noted under label
func (e *BuildError) Lookup(label string) (string, bool) {
	return e.Context.Lookup(label)
}
