package scanner

import (
	"context"
	"fmt"
	"io/fs"
	"path/filepath"

	"github.com/sirupsen/logrus"
)

// FileSystemScanner implements Scanner interface for filesystem scanning
type FileSystemScanner struct{}

// NewFileSystemScanner creates a new filesystem scanner
func NewFileSystemScanner() *FileSystemScanner {
	return &FileSystemScanner{}
}

// Scan recursively scans a directory for RPMs, in lexical path order
func (s *FileSystemScanner) Scan(ctx context.Context, dir string) ([]ScannedPackage, error) {
	var packages []ScannedPackage

	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Check context cancellation
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if d.IsDir() || !d.Type().IsRegular() {
			return nil
		}

		ok, err := s.IsRPM(path)
		if err != nil {
			logrus.Warnf("Failed to read %s: %v", path, err)
			return nil
		}
		if !ok {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}

		logrus.Debugf("Found rpm: %s", path)
		packages = append(packages, ScannedPackage{
			Path: path,
			Size: info.Size(),
		})
		return nil
	})

	if err != nil {
		return nil, fmt.Errorf("failed to scan directory: %w", err)
	}

	logrus.Debugf("Found %d packages in %s", len(packages), dir)
	return packages, nil
}

// IsRPM determines whether a file is an RPM
func (s *FileSystemScanner) IsRPM(path string) (bool, error) {
	return DetectRPM(path)
}
