// Package scanner finds built RPMs on disk.
package scanner

import "context"

// ScannedPackage is an RPM file found during scanning
type ScannedPackage struct {
	Path string
	Size int64
}

// Scanner finds RPM files
type Scanner interface {
	// Scan recursively scans a directory for RPMs
	Scan(ctx context.Context, dir string) ([]ScannedPackage, error)

	// IsRPM reports whether the file at path is an RPM
	IsRPM(path string) (bool, error)
}
