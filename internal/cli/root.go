package cli

import (
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const envPrefix = "RPM_BUILDER"

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	v := newSettings()

	rootCmd := &cobra.Command{
		Use:   "rpm-builder",
		Short: "Build RPM packages from a declarative configuration",
		Long: `rpm-builder reads a TOML (or YAML) description of a package and
writes the corresponding RPM, without rpmbuild or a spec file.

The configuration lists package metadata, the files to install, the
changelog, dependency relationships, install/uninstall scripts and an
optional OpenPGP key to sign the result with.

Settings can also come from the environment:
  RPM_BUILDER_VERBOSE         same as --verbose
  RPM_BUILDER_KEY_PASSPHRASE  passphrase of an encrypted signing key
  SOURCE_DATE_EPOCH           build time, for reproducible packages`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			// Setup logging
			if v.GetBool("verbose") {
				logrus.SetLevel(logrus.DebugLevel)
			} else {
				logrus.SetLevel(logrus.InfoLevel)
			}
		},
	}

	// Global flags
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().String("key-passphrase", "", "Passphrase of an encrypted signing key")
	_ = v.BindPFlag("verbose", rootCmd.PersistentFlags().Lookup("verbose"))
	_ = v.BindPFlag("key_passphrase", rootCmd.PersistentFlags().Lookup("key-passphrase"))

	// Add subcommands
	rootCmd.AddCommand(NewPkgCmd(v))
	rootCmd.AddCommand(NewFmtCmd())
	rootCmd.AddCommand(NewValidateCmd())
	rootCmd.AddCommand(NewInspectCmd())
	rootCmd.AddCommand(NewPubkeyCmd(v))

	return rootCmd
}

// newSettings returns the tool settings, read from flags and RPM_BUILDER_* variables
func newSettings() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	// The reproducible-builds variable is not prefixed
	_ = v.BindEnv("source_date_epoch", "SOURCE_DATE_EPOCH")
	return v
}
