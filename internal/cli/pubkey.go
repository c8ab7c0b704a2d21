package cli

import (
	"io"

	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/ralt/rpm-builder/internal/pipeline"
	"github.com/ralt/rpm-builder/internal/signer"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// NewPubkeyCmd creates the pubkey command
func NewPubkeyCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "pubkey CONFIG",
		Short: "Print the public half of the signing key of CONFIG",
		Long: `Prints the ASCII-armored public key matching [signature].rsa_key_path,
ready to be imported with "rpm --import" on the machines that install the
package.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts, err := buildOptions(v)
			if err != nil {
				return err
			}
			return runPubkey(args[0], opts.KeyPassphrase, cmd.OutOrStdout())
		},
	}
}

func runPubkey(path, passphrase string, out io.Writer) error {
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	ctx := pipeline.RootContext(cfg)
	if cfg.Signature == nil {
		return models.Errorf(models.ErrInvalidConfig, ctx, "config has no [signature] section")
	}

	s, err := pipeline.LoadSigner(cfg.Signature, passphrase, ctx)
	if err != nil {
		return err
	}
	return writePublicKey(s, out)
}

func writePublicKey(s signer.Signer, out io.Writer) error {
	pub, err := s.GetPublicKey()
	if err != nil {
		return models.NewError(models.ErrKeyParse, nil, err)
	}
	_, err = out.Write(pub)
	return err
}
