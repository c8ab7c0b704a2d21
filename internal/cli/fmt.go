package cli

import (
	"fmt"
	"io"

	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/ralt/rpm-builder/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// NewFmtCmd creates the fmt command
func NewFmtCmd() *cobra.Command {
	var toStdout bool

	cmd := &cobra.Command{
		Use:   "fmt CONFIG",
		Short: "Rewrite CONFIG in canonical TOML form",
		Long: `Parses CONFIG and writes it back in canonical TOML form: sorted keys,
simple contents entries as strings and structured ones as inline tables.
YAML configurations can only be converted with --stdout.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFmt(args[0], toStdout, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&toStdout, "stdout", false, "Print the result instead of rewriting CONFIG")

	return cmd
}

func runFmt(path string, toStdout bool, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx := (*models.Context)(nil).Note("config", path)

	data, err := cfg.FormatTOML()
	if err != nil {
		return models.Errorf(models.ErrConfigParse, ctx, "failed to serialize config: %w", err)
	}

	if toStdout {
		_, err := out.Write(data)
		return err
	}

	if format, _ := config.FormatForPath(path); format != config.FormatTOML {
		return models.Errorf(models.ErrInvalidConfig, ctx, "only TOML configs can be rewritten in place, use --stdout to convert")
	}

	if err := utils.WriteFile(path, data, 0644); err != nil {
		return models.Errorf(models.ErrOutput, ctx, "failed to write formatted config: %w", err)
	}
	logrus.Infof("Formatted %s", path)
	return nil
}

// printf ignores write errors on the command output
func printf(w io.Writer, format string, args ...interface{}) {
	_, _ = fmt.Fprintf(w, format, args...)
}
