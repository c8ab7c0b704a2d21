package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/ralt/rpm-builder/internal/models"
	"gopkg.in/yaml.v3"
)

// Format is the syntax of a configuration document
type Format int

const (
	FormatTOML Format = iota
	FormatYAML
)

// FormatForPath picks the document format from the file extension
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case "", ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return FormatTOML, fmt.Errorf("unsupported config file type %q (supported: .toml, .yaml, .yml)", filepath.Ext(path))
	}
}

// Load reads, decodes and validates the configuration at path.
func Load(path string) (*Config, error) {
	ctx := (*models.Context)(nil).Note("config", path)

	format, err := FormatForPath(path)
	if err != nil {
		return nil, models.NewError(models.ErrConfigRead, ctx, err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, models.NewError(models.ErrConfigRead, ctx, fmt.Errorf("could not read config: %w", err))
	}

	cfg, err := Decode(data, format)
	if err != nil {
		var perr toml.ParseError
		if errors.As(err, &perr) {
			ctx = ctx.Note("line", perr.Position.Line)
			return nil, models.NewError(models.ErrConfigParse, ctx, errors.New(perr.ErrorWithPosition()))
		}
		return nil, models.NewError(models.ErrConfigParse, ctx, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, ctx, err)
	}
	return cfg, nil
}

// Decode parses a document without validating it.
func Decode(data []byte, format Format) (*Config, error) {
	cfg := &Config{}

	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(cfg); err != nil {
			if err == io.EOF {
				return cfg, nil
			}
			return nil, err
		}
		if err := dec.Decode(&struct{}{}); err != io.EOF {
			if err == nil {
				return nil, fmt.Errorf("unexpected extra YAML document")
			}
			return nil, err
		}
	default:
		md, err := toml.Decode(string(data), cfg)
		if err != nil {
			return nil, err
		}
		// contents entries reject unknown keys themselves
		var unknown []string
		for _, key := range md.Undecoded() {
			if len(key) > 0 && key[0] == "contents" {
				continue
			}
			unknown = append(unknown, key.String())
		}
		if len(unknown) > 0 {
			return nil, fmt.Errorf("unknown config keys: %v", unknown)
		}
	}

	return cfg, nil
}
