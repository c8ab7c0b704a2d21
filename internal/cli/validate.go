package cli

import (
	"io"
	"os"

	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/ralt/rpm-builder/internal/pipeline"
	"github.com/spf13/cobra"
)

// NewValidateCmd creates the validate command
func NewValidateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate CONFIG",
		Short: "Check CONFIG without building anything",
		Long: `Parses and validates CONFIG, then checks that every referenced source
file, script and signing key exists. Nothing is written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args[0], cmd.OutOrStdout())
		},
	}
}

func runValidate(path string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx := pipeline.RootContext(cfg)
	for _, src := range config.SortedKeys(cfg.Contents) {
		if _, err := os.Stat(src); err != nil {
			ctx = ctx.Note("src", src).Note("dst", cfg.Contents[src].Destination())
			return models.NewError(models.ErrFileAttach, ctx, err)
		}
	}

	plan := pipeline.Plan(cfg)
	for _, m := range plan {
		if s, ok := m.(pipeline.SetScript); ok {
			if _, err := os.Stat(s.Path); err != nil {
				return models.NewError(models.ErrScriptLoad, ctx.Note("hook", s.Hook).Note("path", s.Path), err)
			}
		}
	}

	if cfg.Signature != nil {
		if _, err := os.Stat(cfg.Signature.RSAKeyPath); err != nil {
			return models.NewError(models.ErrKeyRead, ctx.Note("rsa_key_path", cfg.Signature.RSAKeyPath), err)
		}
	}

	printf(out, "%s: %s %s is valid (%d build steps)\n", path, cfg.RPM.Name, cfg.RPM.Version, len(plan))
	return nil
}
