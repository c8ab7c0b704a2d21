// Package builder is the package-builder abstraction the pipeline drives,
// with an implementation on top of rpmpack.
package builder

import (
	"time"

	"github.com/ralt/rpm-builder/internal/dependency"
)

// Relationship is the kind of dependency being registered
type Relationship int

const (
	Requires Relationship = iota
	Obsoletes
	Conflicts
	Provides
)

// String returns the configuration key of the relationship
func (r Relationship) String() string {
	switch r {
	case Requires:
		return "requires"
	case Obsoletes:
		return "obsoletes"
	case Conflicts:
		return "conflicts"
	case Provides:
		return "provides"
	default:
		return "unknown"
	}
}

// Hook is a scriptlet lifecycle point
type Hook int

const (
	PreInstall Hook = iota
	PostInstall
	PreUninstall
	PostUninstall
)

// String returns the configuration key of the hook
func (h Hook) String() string {
	switch h {
	case PreInstall:
		return "pre_install"
	case PostInstall:
		return "post_install"
	case PreUninstall:
		return "pre_uninstall"
	case PostUninstall:
		return "post_uninstall"
	default:
		return "unknown"
	}
}

// Metadata seeds a new builder
type Metadata struct {
	Name        string
	Version     string
	Release     string
	License     string
	Arch        string
	Description string
	Compressor  string
	BuildTime   time.Time
}

// FileOptions describes how a file is installed
type FileOptions struct {
	Destination string
	User        string
	Group       string
	Symlink     string
	Mode        *int64
	Doc         bool
	Config      bool
}

// Signer produces a detached binary OpenPGP signature
type Signer interface {
	Sign(data []byte) ([]byte, error)
}

// Builder accumulates package state until it is finalized
type Builder interface {
	// AddFile reads source and installs it according to opts
	AddFile(source string, opts FileOptions) error

	// AddChangelogEntry records one changelog entry
	AddChangelogEntry(author, text string, timestamp int32)

	// AddDependency registers a relationship constraint
	AddDependency(kind Relationship, c dependency.Constraint) error

	// SetScript sets the body of a scriptlet
	SetScript(hook Hook, body string)

	// Finalize produces the unsigned package
	Finalize() (*Package, error)

	// FinalizeAndSign produces a package signed by s
	FinalizeAndSign(s Signer) (*Package, error)
}
