package models

// PackageInfo is the metadata read back from a built RPM
type PackageInfo struct {
	// Core metadata
	Name         string
	Version      string
	Release      string
	Architecture string
	Summary      string
	License      string
	BuildTime    int64

	// Relationships, rendered as "name op version"
	Requires  []string
	Provides  []string
	Conflicts []string
	Obsoletes []string

	Files     []string
	Changelog []ChangelogInfo
	Scripts   map[string]string

	// File information
	Filename  string
	Size      int64
	SHA256Sum string

	// Signature information, filled only when a keyring was supplied
	Signed     bool
	Signatures []string
}

// ChangelogInfo is one changelog record of a built RPM
type ChangelogInfo struct {
	Time   int32
	Author string
	Text   string
}
