package pipeline

import (
	"fmt"
	"os"
	"time"

	"github.com/ralt/rpm-builder/internal/builder"
	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/dependency"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/sirupsen/logrus"
)

// Mutation is one step applied to the package builder
type Mutation interface {
	// Apply mutates b; failures are annotated on top of ctx
	Apply(b builder.Builder, ctx *models.Context) error

	fmt.Stringer
}

// AddFile attaches a source file
type AddFile struct {
	Source string
	Option config.FileOption
}

// Apply implements Mutation
func (m AddFile) Apply(b builder.Builder, ctx *models.Context) error {
	opts := FileOptions(m.Option)
	logrus.Debugf("Adding file %s -> %s", m.Source, opts.Destination)

	if err := b.AddFile(m.Source, opts); err != nil {
		ctx = ctx.Note("src", m.Source).Note("dst", opts.Destination)
		return models.NewError(models.ErrFileAttach, ctx, fmt.Errorf("failed to attach file: %w", err))
	}
	return nil
}

func (m AddFile) String() string {
	return fmt.Sprintf("file %s -> %s", m.Source, m.Option.Destination())
}

// FileOptions resolves either FileOption shape into builder options
func FileOptions(opt config.FileOption) builder.FileOptions {
	if !opt.IsStructured() {
		return builder.FileOptions{Destination: opt.Simple}
	}

	s := opt.Structured
	opts := builder.FileOptions{
		Destination: s.Dst,
		Mode:        s.Mode,
	}
	if s.User != nil {
		opts.User = *s.User
	}
	if s.Group != nil {
		opts.Group = *s.Group
	}
	if s.Symlink != nil {
		opts.Symlink = *s.Symlink
	}
	opts.Doc = s.Doc != nil && *s.Doc
	opts.Config = s.Config != nil && *s.Config
	return opts
}

// AddChangelog records a changelog entry
type AddChangelog struct {
	Author string
	Text   string
	Time   time.Time
}

// Apply implements Mutation. It never fails.
func (m AddChangelog) Apply(b builder.Builder, _ *models.Context) error {
	b.AddChangelogEntry(m.Author, m.Text, config.Unix32(m.Time))
	return nil
}

func (m AddChangelog) String() string {
	return fmt.Sprintf("changelog %s by %s", m.Time.UTC().Format(time.RFC3339), m.Author)
}

// InvalidChangelog stands in for a changelog whose keys could not be parsed
type InvalidChangelog struct {
	Err error
}

// Apply implements Mutation. It always fails.
func (m InvalidChangelog) Apply(_ builder.Builder, ctx *models.Context) error {
	return models.NewError(models.ErrConfigParse, ctx, m.Err)
}

func (m InvalidChangelog) String() string {
	return fmt.Sprintf("invalid changelog: %v", m.Err)
}

// AddDependency registers a relationship constraint
type AddDependency struct {
	Kind       builder.Relationship
	Constraint dependency.Constraint
}

// Apply implements Mutation
func (m AddDependency) Apply(b builder.Builder, ctx *models.Context) error {
	logrus.Debugf("Adding %s: %s", m.Kind, m.Constraint)

	if err := b.AddDependency(m.Kind, m.Constraint); err != nil {
		ctx = ctx.Note("relationship", m.Kind).Note("dependency", m.Constraint)
		return models.NewError(models.ErrDependency, ctx, err)
	}
	return nil
}

func (m AddDependency) String() string {
	return fmt.Sprintf("%s %s", m.Kind, m.Constraint)
}

// SetScript loads a scriptlet from disk and sets it on the builder
type SetScript struct {
	Hook builder.Hook
	Path string
}

// Apply implements Mutation
func (m SetScript) Apply(b builder.Builder, ctx *models.Context) error {
	body, err := os.ReadFile(m.Path)
	if err != nil {
		ctx = ctx.Note("hook", m.Hook).Note("path", m.Path)
		return models.NewError(models.ErrScriptLoad, ctx, fmt.Errorf("failed to read script: %w", err))
	}

	logrus.Debugf("Setting %s script from %s", m.Hook, m.Path)
	b.SetScript(m.Hook, string(body))
	return nil
}

func (m SetScript) String() string {
	return fmt.Sprintf("script %s from %s", m.Hook, m.Path)
}
