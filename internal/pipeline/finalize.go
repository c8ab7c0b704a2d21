package pipeline

import (
	"fmt"
	"os"

	"github.com/ralt/rpm-builder/internal/builder"
	"github.com/ralt/rpm-builder/internal/config"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/ralt/rpm-builder/internal/signer"
	"github.com/sirupsen/logrus"
)

// Finalize turns the builder into a package, signing it when sig is set.
// It must run after every other mutation since the signature covers the
// final header and payload.
func Finalize(b builder.Builder, sig *config.Signature, passphrase string, ctx *models.Context) (*builder.Package, error) {
	if sig == nil {
		pkg, err := b.Finalize()
		if err != nil {
			return nil, models.NewError(models.ErrFinalize, ctx.Note("success", false), fmt.Errorf("failed to build rpm: %w", err))
		}
		return pkg, nil
	}

	s, err := LoadSigner(sig, passphrase, ctx)
	if err != nil {
		return nil, err
	}

	logrus.Infof("Signing with key %s", s.KeyID())
	pkg, err := b.FinalizeAndSign(s)
	if err != nil {
		ctx = ctx.Note("rsa_key_path", sig.RSAKeyPath).Note("success", false)
		return nil, models.NewError(models.ErrFinalize, ctx, fmt.Errorf("failed to build rpm: %w", err))
	}
	return pkg, nil
}

// LoadSigner reads and parses the signing key of a signature block
func LoadSigner(sig *config.Signature, passphrase string, ctx *models.Context) (*signer.GPGSigner, error) {
	ctx = ctx.Note("rsa_key_path", sig.RSAKeyPath)

	armored, err := os.ReadFile(sig.RSAKeyPath)
	if err != nil {
		return nil, models.NewError(models.ErrKeyRead, ctx, fmt.Errorf("failed to read signing key: %w", err))
	}

	s, err := signer.ParseArmored(armored, passphrase)
	if err != nil {
		return nil, models.NewError(models.ErrKeyParse, ctx, err)
	}
	return s, nil
}
