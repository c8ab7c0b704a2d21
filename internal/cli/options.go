package cli

import (
	"strconv"
	"strings"
	"time"

	"github.com/ralt/rpm-builder/internal/models"
	"github.com/spf13/viper"
)

// buildOptions collects the per-build settings that do not live in the
// package configuration
func buildOptions(v *viper.Viper) (models.BuildOptions, error) {
	opts := models.BuildOptions{
		KeyPassphrase: v.GetString("key_passphrase"),
	}

	if epoch := strings.TrimSpace(v.GetString("source_date_epoch")); epoch != "" {
		secs, err := strconv.ParseInt(epoch, 10, 64)
		if err != nil {
			ctx := (*models.Context)(nil).Note("SOURCE_DATE_EPOCH", epoch)
			return opts, models.Errorf(models.ErrInvalidConfig, ctx, "SOURCE_DATE_EPOCH is not a unix timestamp: %v", err)
		}
		opts.BuildTime = time.Unix(secs, 0).UTC()
	}

	return opts, nil
}
