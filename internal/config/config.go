// Package config holds the declarative description of a package: metadata,
// file placement, changelog, relationships, scripts and signing.
package config

import (
	"fmt"
	"sort"
	"strings"
)

// Config is the top level format for specifying how to build an RPM.
type Config struct {
	RPM       Metadata              `toml:"rpm" yaml:"rpm"`
	Contents  map[string]FileOption `toml:"contents" yaml:"contents"`
	Changelog Changelog             `toml:"changelog" yaml:"changelog"`
	Requires  map[string]string     `toml:"requires" yaml:"requires"`
	Obsoletes map[string]string     `toml:"obsoletes" yaml:"obsoletes"`
	Conflicts map[string]string     `toml:"conflicts" yaml:"conflicts"`
	Provides  map[string]string     `toml:"provides" yaml:"provides"`
	Scripts   *Scripts              `toml:"scripts" yaml:"scripts"`
	Signature *Signature            `toml:"signature" yaml:"signature"`
}

// Metadata holds the fields required to start an RPM build.
type Metadata struct {
	Name    string `toml:"name" yaml:"name"`
	Version string `toml:"version" yaml:"version"`
	License string `toml:"license" yaml:"license"`
	Arch    string `toml:"arch" yaml:"arch"`
	Desc    string `toml:"desc" yaml:"desc"`

	Release     *uint16 `toml:"release,omitempty" yaml:"release,omitempty"`
	Gzip        *bool   `toml:"gzip,omitempty" yaml:"gzip,omitempty"`
	Compression string  `toml:"compression,omitempty" yaml:"compression,omitempty"`
}

// Scripts are paths to the install/uninstall scriptlets. They are read at build time.
type Scripts struct {
	PreInstall    *string `toml:"pre_install,omitempty" yaml:"pre_install,omitempty"`
	PostInstall   *string `toml:"post_install,omitempty" yaml:"post_install,omitempty"`
	PreUninstall  *string `toml:"pre_uninstall,omitempty" yaml:"pre_uninstall,omitempty"`
	PostUninstall *string `toml:"post_uninstall,omitempty" yaml:"post_uninstall,omitempty"`
}

// Signature points at an ASCII-armored OpenPGP private key.
type Signature struct {
	RSAKeyPath string `toml:"rsa_key_path" yaml:"rsa_key_path"`
}

// Compressor returns the payload compressor setting, or "" for the builder default.
func (m Metadata) Compressor() string {
	if m.Compression != "" {
		return m.Compression
	}
	if m.Gzip != nil && *m.Gzip {
		return "gzip"
	}
	return ""
}

// ReleaseString returns the release number as text, or "" when unset.
func (m Metadata) ReleaseString() string {
	if m.Release == nil {
		return ""
	}
	return fmt.Sprintf("%d", *m.Release)
}

// Validate checks the constraints the decoder cannot express.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.RPM.Name) == "" {
		return fmt.Errorf("rpm.name is required")
	}
	if strings.TrimSpace(c.RPM.Version) == "" {
		return fmt.Errorf("rpm.version is required")
	}

	if c.RPM.Compression != "" {
		if err := checkCompression(c.RPM.Compression); err != nil {
			return fmt.Errorf("rpm.compression: %w", err)
		}
		name, _, _ := strings.Cut(c.RPM.Compression, ":")
		if c.RPM.Gzip != nil && *c.RPM.Gzip && name != "gzip" {
			return fmt.Errorf("rpm.gzip = true conflicts with rpm.compression = %q", c.RPM.Compression)
		}
	}

	for _, src := range SortedKeys(c.Contents) {
		if c.Contents[src].Destination() == "" {
			return fmt.Errorf("contents %q: destination is empty", src)
		}
	}

	if _, err := c.Changelog.Records(); err != nil {
		return err
	}

	if c.Signature != nil && strings.TrimSpace(c.Signature.RSAKeyPath) == "" {
		return fmt.Errorf("signature.rsa_key_path is required when [signature] is present")
	}

	return nil
}

// SortedKeys returns the keys of m in ascending order
func SortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
