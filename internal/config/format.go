package config

import (
	"bytes"

	"github.com/BurntSushi/toml"
)

// document mirrors Config with the FileOption union flattened to what the
// encoder can write: a string or a table.
type document struct {
	RPM       Metadata                  `toml:"rpm"`
	Contents  map[string]interface{}    `toml:"contents,omitempty"`
	Changelog map[string]ChangelogEntry `toml:"changelog,omitempty"`
	Requires  map[string]string         `toml:"requires,omitempty"`
	Obsoletes map[string]string         `toml:"obsoletes,omitempty"`
	Conflicts map[string]string         `toml:"conflicts,omitempty"`
	Provides  map[string]string         `toml:"provides,omitempty"`
	Scripts   *Scripts                  `toml:"scripts,omitempty"`
	Signature *Signature                `toml:"signature,omitempty"`
}

// FormatTOML renders the configuration in canonical TOML form.
func (c *Config) FormatTOML() ([]byte, error) {
	doc := document{
		RPM:       c.RPM,
		Changelog: c.Changelog,
		Requires:  c.Requires,
		Obsoletes: c.Obsoletes,
		Conflicts: c.Conflicts,
		Provides:  c.Provides,
		Scripts:   c.Scripts,
		Signature: c.Signature,
	}
	if len(c.Contents) > 0 {
		doc.Contents = make(map[string]interface{}, len(c.Contents))
		for src, opt := range c.Contents {
			doc.Contents[src] = opt.encodable()
		}
	}

	var buf bytes.Buffer
	enc := toml.NewEncoder(&buf)
	enc.Indent = ""
	if err := enc.Encode(doc); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
