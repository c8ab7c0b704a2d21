package builder

import (
	"bytes"
	"fmt"
	"io"
)

// Package is a finished RPM held in memory
type Package struct {
	Name    string
	Version string
	Release string
	Arch    string
	Signed  bool

	data []byte
}

// Bytes returns the encoded package
func (p *Package) Bytes() []byte {
	return p.data
}

// Size returns the encoded length in bytes
func (p *Package) Size() int64 {
	return int64(len(p.data))
}

// WriteTo implements io.WriterTo
func (p *Package) WriteTo(w io.Writer) (int64, error) {
	return bytes.NewReader(p.data).WriteTo(w)
}

// Filename returns the conventional name-version-release.arch.rpm file name
func (p *Package) Filename() string {
	arch := p.Arch
	if arch == "" {
		arch = "noarch"
	}
	if p.Release == "" {
		return fmt.Sprintf("%s-%s.%s.rpm", p.Name, p.Version, arch)
	}
	return fmt.Sprintf("%s-%s-%s.%s.rpm", p.Name, p.Version, p.Release, arch)
}
