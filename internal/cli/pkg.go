package cli

import (
	"os"
	"path/filepath"

	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/ralt/rpm-builder/internal/pipeline"
	"github.com/ralt/rpm-builder/internal/utils"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewPkgCmd creates the pkg command
func NewPkgCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "pkg CONFIG OUTPUT",
		Short: "Build the RPM described by CONFIG",
		Long: `Builds the RPM described by CONFIG and writes it to OUTPUT.
If OUTPUT is an existing directory the package is written inside it under
its conventional name-version-release.arch.rpm file name.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(v)
			if err != nil {
				return err
			}
			_, err = runPkg(args[0], args[1], opts)
			return err
		},
	}
}

// runPkg builds the package and returns the path it was written to
func runPkg(configPath, output string, opts models.BuildOptions) (string, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return "", err
	}

	pkg, err := pipeline.Build(cfg, opts)
	if err != nil {
		return "", err
	}

	if info, err := os.Stat(output); err == nil && info.IsDir() {
		output = filepath.Join(output, pkg.Filename())
	}

	if err := utils.WriteFileAtomic(output, pkg, 0644); err != nil {
		ctx := pipeline.RootContext(cfg).Note("output", output)
		return "", models.Errorf(models.ErrOutput, ctx, "failed to write package: %w", err)
	}

	logrus.Infof("Wrote %s (sha256 %s)", output, utils.CalculateChecksum(pkg.Bytes()))
	return output, nil
}
