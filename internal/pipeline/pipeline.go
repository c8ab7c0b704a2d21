// Package pipeline turns a configuration into a finished package: it plans
// the builder mutations, applies them in order, then finalizes and signs.
package pipeline

import (
	"time"

	"github.com/ralt/rpm-builder/internal/builder"
	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/sirupsen/logrus"
)

// Pipeline builds packages from configurations
type Pipeline struct {
	newBuilder func(builder.Metadata) (builder.Builder, error)
	now        func() time.Time
}

// New creates a pipeline backed by the rpmpack builder
func New() *Pipeline {
	return &Pipeline{
		newBuilder: func(meta builder.Metadata) (builder.Builder, error) {
			return builder.New(meta)
		},
		now: time.Now,
	}
}

// Build converts cfg into a package. The first failure aborts the build.
func Build(cfg *config.Config, opts models.BuildOptions) (*builder.Package, error) {
	return New().Build(cfg, opts)
}

// Build converts cfg into a package. The first failure aborts the build.
func (p *Pipeline) Build(cfg *config.Config, opts models.BuildOptions) (*builder.Package, error) {
	ctx := RootContext(cfg)

	logrus.Infof("Building %s-%s", cfg.RPM.Name, cfg.RPM.Version)

	b, err := p.Assemble(cfg, opts, ctx)
	if err != nil {
		return nil, err
	}

	pkg, err := Finalize(b, cfg.Signature, opts.KeyPassphrase, ctx)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Built %s (%d bytes, signed: %v)", pkg.Filename(), pkg.Size(), pkg.Signed)
	return pkg, nil
}

// RootContext is the context every build error starts from
func RootContext(cfg *config.Config) *models.Context {
	return (*models.Context)(nil).
		Note("rpm", cfg.RPM.Name).
		Note("version", cfg.RPM.Version).
		Note("desc", cfg.RPM.Desc)
}

// Assemble creates a builder from the metadata and applies every mutation of
// the plan, ready for finalization
func (p *Pipeline) Assemble(cfg *config.Config, opts models.BuildOptions, ctx *models.Context) (builder.Builder, error) {
	buildTime := opts.BuildTime
	if buildTime.IsZero() {
		buildTime = p.now()
	}

	b, err := p.newBuilder(builder.Metadata{
		Name:        cfg.RPM.Name,
		Version:     cfg.RPM.Version,
		Release:     cfg.RPM.ReleaseString(),
		License:     cfg.RPM.License,
		Arch:        cfg.RPM.Arch,
		Description: cfg.RPM.Desc,
		Compressor:  cfg.RPM.Compressor(),
		BuildTime:   buildTime,
	})
	if err != nil {
		return nil, models.NewError(models.ErrInvalidConfig, ctx.Note("compression", cfg.RPM.Compressor()), err)
	}

	if err := Apply(b, Plan(cfg), ctx); err != nil {
		return nil, err
	}
	return b, nil
}

// Apply folds plan over b and stops at the first error
func Apply(b builder.Builder, plan []Mutation, ctx *models.Context) error {
	logrus.Debugf("Applying %d mutations", len(plan))

	for _, m := range plan {
		if err := m.Apply(b, ctx); err != nil {
			logrus.Debugf("Stopped at %s", m)
			return err
		}
	}
	return nil
}
