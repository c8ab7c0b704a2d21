// Package inspect reads built RPMs back, for the inspect command and for
// checking what the pipeline wrote.
package inspect

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path"
	"strings"

	"github.com/ProtonMail/go-crypto/openpgp"
	"github.com/ralt/rpm-builder/internal/dependency"
	"github.com/ralt/rpm-builder/internal/models"
	"github.com/ralt/rpm-builder/internal/scanner"
	"github.com/ralt/rpm-builder/internal/utils"
	"github.com/sassoftware/go-rpmutils"
	xopenpgp "golang.org/x/crypto/openpgp" //nolint:staticcheck // rpmutils verifies with this package
)

// Header tags not exported by rpmutils under a stable name
const (
	tagPrein           = 1023
	tagPostin          = 1024
	tagPreun           = 1025
	tagPostun          = 1026
	tagProvideName     = 1047
	tagRequireFlags    = 1048
	tagRequireName     = 1049
	tagRequireVersion  = 1050
	tagConflictFlags   = 1053
	tagConflictName    = 1054
	tagConflictVersion = 1055
	tagChangelogTime   = 1080
	tagChangelogName   = 1081
	tagChangelogText   = 1082
	tagObsoleteName    = 1090
	tagProvideFlags    = 1112
	tagProvideVersion  = 1113
	tagObsoleteFlags   = 1114
	tagObsoleteVersion = 1115
	tagDirIndexes      = 1116
	tagBasenames       = 1117
	tagDirnames        = 1118
)

// RPMSENSE flag bits
const (
	senseLess    = 1 << 1
	senseGreater = 1 << 2
	senseEqual   = 1 << 3
)

// ParsePackage parses an RPM file and extracts metadata
func ParsePackage(path string) (*models.PackageInfo, error) {
	// Calculate checksums
	checksums, err := utils.CalculateChecksums(path)
	if err != nil {
		return nil, fmt.Errorf("failed to calculate checksums: %w", err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	pkg, err := Read(f)
	if err != nil {
		return nil, err
	}

	pkg.Filename = path
	pkg.Size = checksums.Size
	pkg.SHA256Sum = checksums.SHA256
	return pkg, nil
}

// Read parses an RPM stream
func Read(r io.Reader) (*models.PackageInfo, error) {
	magic := make([]byte, len(scanner.RPMMagic))
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, fmt.Errorf("failed to read RPM lead: %w", err)
	}
	if !scanner.HasRPMMagic(magic) {
		return nil, fmt.Errorf("not an RPM file")
	}

	rpm, err := rpmutils.ReadRpm(io.MultiReader(bytes.NewReader(magic), r))
	if err != nil {
		return nil, fmt.Errorf("failed to read RPM: %w", err)
	}

	pkg := &models.PackageInfo{
		Name:         getStringTag(rpm, rpmutils.NAME),
		Version:      getStringTag(rpm, rpmutils.VERSION),
		Release:      getStringTag(rpm, rpmutils.RELEASE),
		Architecture: getStringTag(rpm, rpmutils.ARCH),
		Summary:      getStringTag(rpm, rpmutils.SUMMARY),
		License:      getStringTag(rpm, rpmutils.LICENSE),
		BuildTime:    firstInt(getIntsTag(rpm, rpmutils.BUILDTIME)),
		Requires:     getRelations(rpm, tagRequireName, tagRequireFlags, tagRequireVersion),
		Provides:     getRelations(rpm, tagProvideName, tagProvideFlags, tagProvideVersion),
		Conflicts:    getRelations(rpm, tagConflictName, tagConflictFlags, tagConflictVersion),
		Obsoletes:    getRelations(rpm, tagObsoleteName, tagObsoleteFlags, tagObsoleteVersion),
		Files:        getFiles(rpm),
		Scripts:      make(map[string]string),
	}

	times := getIntsTag(rpm, tagChangelogTime)
	names := getStringSliceTag(rpm, tagChangelogName)
	texts := getStringSliceTag(rpm, tagChangelogText)
	for i := range times {
		entry := models.ChangelogInfo{Time: int32(times[i])}
		if i < len(names) {
			entry.Author = names[i]
		}
		if i < len(texts) {
			entry.Text = texts[i]
		}
		pkg.Changelog = append(pkg.Changelog, entry)
	}

	for hook, tag := range map[string]int{
		"pre_install":    tagPrein,
		"post_install":   tagPostin,
		"pre_uninstall":  tagPreun,
		"post_uninstall": tagPostun,
	} {
		if s := getStringTag(rpm, tag); s != "" {
			pkg.Scripts[hook] = s
		}
	}

	return pkg, nil
}

// VerifyFile checks the signatures of the RPM at path against keyring
func VerifyFile(path string, keyring openpgp.EntityList) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Verify(f, keyring)
}

// Verify checks every signature of the RPM and describes the ones found
func Verify(r io.Reader, keyring openpgp.EntityList) ([]string, error) {
	known, err := legacyKeyring(keyring)
	if err != nil {
		return nil, err
	}

	_, sigs, err := rpmutils.Verify(r, known)
	if err != nil {
		return nil, fmt.Errorf("signature verification failed: %w", err)
	}
	if len(sigs) == 0 {
		return nil, fmt.Errorf("package is not signed")
	}

	var out []string
	for _, sig := range sigs {
		scope := "header+payload"
		if sig.HeaderOnly {
			scope = "header"
		}
		out = append(out, fmt.Sprintf("%016X (%s)", sig.KeyId, scope))
	}
	return out, nil
}

// legacyKeyring re-reads the public half of keyring with the OpenPGP
// package rpmutils is built against
func legacyKeyring(keyring openpgp.EntityList) (xopenpgp.EntityList, error) {
	if len(keyring) == 0 {
		return nil, nil
	}

	var buf bytes.Buffer
	for _, e := range keyring {
		if err := e.Serialize(&buf); err != nil {
			return nil, fmt.Errorf("failed to serialize public key: %w", err)
		}
	}

	list, err := xopenpgp.ReadKeyRing(&buf)
	if err != nil {
		return nil, fmt.Errorf("failed to convert keyring: %w", err)
	}
	return list, nil
}

// ReadKeyring loads an armored or binary public keyring
func ReadKeyring(path string) (openpgp.EntityList, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	list, err := openpgp.ReadArmoredKeyRing(bytes.NewReader(data))
	if err != nil {
		list, err = openpgp.ReadKeyRing(bytes.NewReader(data))
		if err != nil {
			return nil, fmt.Errorf("failed to read keyring: %w", err)
		}
	}
	return list, nil
}

// getStringTag safely gets a string tag from RPM
func getStringTag(rpm *rpmutils.Rpm, tag int) string {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return ""
	}

	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case []string:
		if len(v) > 0 {
			return v[0]
		}
	default:
		return fmt.Sprintf("%v", v)
	}

	return ""
}

// getStringSliceTag safely gets a string slice tag from RPM
func getStringSliceTag(rpm *rpmutils.Rpm, tag int) []string {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return v
	case string:
		return []string{v}
	}
	return nil
}

// getIntsTag safely gets an integer array tag from RPM
func getIntsTag(rpm *rpmutils.Rpm, tag int) []int64 {
	val, err := rpm.Header.Get(tag)
	if err != nil {
		return nil
	}

	var out []int64
	switch v := val.(type) {
	case []int:
		for _, n := range v {
			out = append(out, int64(n))
		}
	case []int32:
		for _, n := range v {
			out = append(out, int64(n))
		}
	case []uint32:
		for _, n := range v {
			out = append(out, int64(n))
		}
	case []uint16:
		for _, n := range v {
			out = append(out, int64(n))
		}
	case []uint64:
		for _, n := range v {
			out = append(out, int64(n))
		}
	case []int64:
		out = v
	case int:
		out = []int64{int64(v)}
	case int64:
		out = []int64{v}
	}
	return out
}

func firstInt(v []int64) int64 {
	if len(v) == 0 {
		return 0
	}
	return v[0]
}

// getRelations renders the name/flags/version triplets of a dependency kind
func getRelations(rpm *rpmutils.Rpm, nameTag, flagsTag, versionTag int) []string {
	names := getStringSliceTag(rpm, nameTag)
	flags := getIntsTag(rpm, flagsTag)
	versions := getStringSliceTag(rpm, versionTag)

	var out []string
	for i, name := range names {
		c := dependency.Constraint{Name: strings.TrimSpace(name)}
		if i < len(versions) {
			c.Version = versions[i]
		}
		if i < len(flags) {
			c.Op = operator(flags[i])
		}
		out = append(out, c.String())
	}
	return out
}

func operator(flags int64) dependency.Operator {
	switch flags & (senseLess | senseGreater | senseEqual) {
	case senseEqual:
		return dependency.Equal
	case senseLess:
		return dependency.Less
	case senseLess | senseEqual:
		return dependency.LessOrEqual
	case senseGreater:
		return dependency.Greater
	case senseGreater | senseEqual:
		return dependency.GreaterOrEqual
	default:
		return dependency.Any
	}
}

// getFiles joins the compressed dirname/basename file list
func getFiles(rpm *rpmutils.Rpm) []string {
	dirs := getStringSliceTag(rpm, tagDirnames)
	bases := getStringSliceTag(rpm, tagBasenames)
	indexes := getIntsTag(rpm, tagDirIndexes)

	var files []string
	for i, base := range bases {
		if i >= len(indexes) || int(indexes[i]) >= len(dirs) {
			break
		}
		files = append(files, path.Join(dirs[indexes[i]], base))
	}
	return files
}
