package models

import "time"

// BuildOptions carries the settings of a build that do not come from the
// package configuration itself.
type BuildOptions struct {
	// BuildTime is recorded in the package header. Zero means now.
	BuildTime time.Time

	// KeyPassphrase decrypts the signing key when it is encrypted
	KeyPassphrase string
}
