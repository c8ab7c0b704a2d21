package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
)

// checkCompression validates a "name[:level]" payload compression setting
// with the level rules of the compressor libraries themselves
func checkCompression(setting string) error {
	name, level, hasLevel := strings.Cut(setting, ":")

	switch name {
	case "gzip":
		if !hasLevel {
			return nil
		}
		n, err := strconv.Atoi(level)
		if err != nil {
			return fmt.Errorf("gzip level %q is not a number", level)
		}
		if n < gzip.HuffmanOnly || n > gzip.BestCompression {
			return fmt.Errorf("gzip level %d is outside %d..%d", n, gzip.HuffmanOnly, gzip.BestCompression)
		}
	case "zstd":
		if !hasLevel {
			return nil
		}
		// Numeric levels are mapped to the closest encoder level
		if _, err := strconv.Atoi(level); err == nil {
			return nil
		}
		if ok, _ := zstd.EncoderLevelFromString(level); !ok {
			return fmt.Errorf("zstd level %q is neither a number nor one of fastest, default, better, best", level)
		}
	case "xz", "lzma":
		if hasLevel {
			return fmt.Errorf("%s does not take a level", name)
		}
	default:
		return fmt.Errorf("%q is not one of gzip, xz, lzma, zstd", name)
	}
	return nil
}
