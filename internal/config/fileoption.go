package config

import (
	"fmt"
	"sort"

	"gopkg.in/yaml.v3"
)

// FileOption says where a source file ends up. It is either a bare
// destination (Structured == nil) or a structured record.
type FileOption struct {
	Simple     string
	Structured *StructuredFile
}

// StructuredFile encodes RPM specific options for an individual file.
type StructuredFile struct {
	Dst     string  `toml:"dst" yaml:"dst"`
	User    *string `toml:"user,omitempty" yaml:"user,omitempty"`
	Group   *string `toml:"group,omitempty" yaml:"group,omitempty"`
	Symlink *string `toml:"symlink,omitempty" yaml:"symlink,omitempty"`
	Mode    *int64  `toml:"mode,omitempty" yaml:"mode,omitempty"`
	Doc     *bool   `toml:"doc,omitempty" yaml:"doc,omitempty"`
	Config  *bool   `toml:"config,omitempty" yaml:"config,omitempty"`
}

// SimpleFile returns a destination-only FileOption
func SimpleFile(dst string) FileOption {
	return FileOption{Simple: dst}
}

// Structured returns a FileOption carrying the full record
func Structured(s StructuredFile) FileOption {
	return FileOption{Structured: &s}
}

// IsStructured reports which shape was selected
func (f FileOption) IsStructured() bool {
	return f.Structured != nil
}

// Destination returns the install path regardless of shape
func (f FileOption) Destination() string {
	if f.Structured != nil {
		return f.Structured.Dst
	}
	return f.Simple
}

// UnmarshalTOML implements toml.Unmarshaler. A string is tried first, then a table.
func (f *FileOption) UnmarshalTOML(data interface{}) error {
	switch v := data.(type) {
	case string:
		*f = SimpleFile(v)
		return nil
	case map[string]interface{}:
		s, err := structuredFromMap(v)
		if err != nil {
			return err
		}
		*f = Structured(s)
		return nil
	default:
		return fmt.Errorf("file option must be a destination string or a table, got %T", data)
	}
}

// UnmarshalYAML implements yaml.Unmarshaler with the same discrimination as TOML.
func (f *FileOption) UnmarshalYAML(value *yaml.Node) error {
	switch value.Kind {
	case yaml.ScalarNode:
		var s string
		if err := value.Decode(&s); err != nil {
			return err
		}
		*f = SimpleFile(s)
		return nil
	case yaml.MappingNode:
		for i := 0; i+1 < len(value.Content); i += 2 {
			key := value.Content[i].Value
			if !structuredKeys[key] {
				return fmt.Errorf("line %d: unknown file option %q", value.Content[i].Line, key)
			}
		}
		var s StructuredFile
		if err := value.Decode(&s); err != nil {
			return err
		}
		if s.Dst == "" {
			return fmt.Errorf("line %d: file option is missing dst", value.Line)
		}
		*f = Structured(s)
		return nil
	default:
		return fmt.Errorf("line %d: file option must be a destination string or a mapping", value.Line)
	}
}

// encodable returns the value written back when formatting
func (f FileOption) encodable() interface{} {
	if f.Structured != nil {
		return *f.Structured
	}
	return f.Simple
}

var structuredKeys = map[string]bool{
	"dst":     true,
	"user":    true,
	"group":   true,
	"symlink": true,
	"mode":    true,
	"doc":     true,
	"config":  true,
}

func structuredFromMap(m map[string]interface{}) (StructuredFile, error) {
	var s StructuredFile

	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		raw := m[key]
		var err error
		switch key {
		case "dst":
			s.Dst, err = asString(key, raw)
		case "user":
			s.User, err = asStringPtr(key, raw)
		case "group":
			s.Group, err = asStringPtr(key, raw)
		case "symlink":
			s.Symlink, err = asStringPtr(key, raw)
		case "mode":
			n, ok := raw.(int64)
			if !ok {
				return s, fmt.Errorf("file option mode must be an integer, got %T", raw)
			}
			s.Mode = &n
		case "doc":
			s.Doc, err = asBoolPtr(key, raw)
		case "config":
			s.Config, err = asBoolPtr(key, raw)
		default:
			return s, fmt.Errorf("unknown file option %q", key)
		}
		if err != nil {
			return s, err
		}
	}

	if s.Dst == "" {
		return s, fmt.Errorf("file option is missing dst")
	}
	return s, nil
}

func asString(key string, raw interface{}) (string, error) {
	v, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("file option %s must be a string, got %T", key, raw)
	}
	return v, nil
}

func asStringPtr(key string, raw interface{}) (*string, error) {
	v, err := asString(key, raw)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

func asBoolPtr(key string, raw interface{}) (*bool, error) {
	v, ok := raw.(bool)
	if !ok {
		return nil, fmt.Errorf("file option %s must be a boolean, got %T", key, raw)
	}
	return &v, nil
}
