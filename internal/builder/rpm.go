package builder

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/google/rpmpack"
	"github.com/ralt/rpm-builder/internal/dependency"
	"github.com/sirupsen/logrus"
)

// Header tags rpmpack has no field for
const (
	tagChangelogTime = 1080
	tagChangelogName = 1081
	tagChangelogText = 1082
)

// File type bits of an RPM file mode
const (
	modeRegular = 0o100000
	modeSymlink = 0o120000
	modePerm    = 0o7777
)

type changelogEntry struct {
	author string
	text   string
	time   int32
}

// RPM implements Builder with rpmpack
type RPM struct {
	meta      Metadata
	rpm       *rpmpack.RPM
	files     map[string]string
	changelog []changelogEntry
	finalized bool
}

// New creates an RPM builder from package metadata
func New(meta Metadata) (*RPM, error) {
	summary, _, _ := strings.Cut(meta.Description, "\n")

	r, err := rpmpack.NewRPM(rpmpack.RPMMetaData{
		Name:        meta.Name,
		Version:     meta.Version,
		Release:     meta.Release,
		Arch:        meta.Arch,
		Licence:     meta.License,
		Summary:     summary,
		Description: meta.Description,
		Compressor:  meta.Compressor,
		BuildTime:   meta.BuildTime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize rpm: %w", err)
	}

	return &RPM{
		meta:  meta,
		rpm:   r,
		files: make(map[string]string),
	}, nil
}

// AddFile reads source into memory and adds it at opts.Destination
func (r *RPM) AddFile(source string, opts FileOptions) error {
	if err := r.checkFileOptions(opts); err != nil {
		return err
	}

	info, err := os.Stat(source)
	if err != nil {
		return err
	}
	body, err := os.ReadFile(source)
	if err != nil {
		return err
	}

	perm := uint(info.Mode().Perm())
	if opts.Mode != nil {
		perm = uint(*opts.Mode)
	}

	f := rpmpack.RPMFile{
		Name:  opts.Destination,
		Body:  body,
		Mode:  modeRegular | perm,
		Owner: orDefault(opts.User, "root"),
		Group: orDefault(opts.Group, "root"),
		MTime: uint32(info.ModTime().Unix()),
		Type:  rpmpack.GenericFile,
	}
	if opts.Symlink != "" {
		if opts.Mode == nil {
			perm = 0o777
		}
		f.Body = []byte(opts.Symlink)
		f.Mode = modeSymlink | perm
	}
	if opts.Doc {
		f.Type |= rpmpack.DocFile
	}
	if opts.Config {
		f.Type |= rpmpack.ConfigFile
	}

	r.rpm.AddFile(f)
	r.files[opts.Destination] = source
	logrus.Debugf("Added %s (%d bytes) as %s", source, len(body), opts.Destination)
	return nil
}

func (r *RPM) checkFileOptions(opts FileOptions) error {
	dst := opts.Destination
	if dst == "" {
		return errors.New("destination is empty")
	}
	if !path.IsAbs(dst) {
		return fmt.Errorf("destination %q is not an absolute path", dst)
	}
	if path.Clean(dst) != dst {
		return fmt.Errorf("destination %q is not a clean path", dst)
	}
	if prev, ok := r.files[dst]; ok {
		return fmt.Errorf("destination %q is already provided by %s", dst, prev)
	}
	if opts.Mode != nil && (*opts.Mode < 0 || *opts.Mode > modePerm) {
		return fmt.Errorf("mode %#o is outside 0..07777", *opts.Mode)
	}
	return nil
}

// AddChangelogEntry records a changelog entry; tags are written at finalize time
func (r *RPM) AddChangelogEntry(author, text string, timestamp int32) {
	r.changelog = append(r.changelog, changelogEntry{author: author, text: text, time: timestamp})
}

// AddDependency registers c under kind
func (r *RPM) AddDependency(kind Relationship, c dependency.Constraint) error {
	var rel *rpmpack.Relations
	switch kind {
	case Requires:
		rel = &r.rpm.Requires
	case Obsoletes:
		rel = &r.rpm.Obsoletes
	case Conflicts:
		rel = &r.rpm.Conflicts
	case Provides:
		rel = &r.rpm.Provides
	default:
		return fmt.Errorf("unknown relationship %d", kind)
	}
	// rpmpack splits "name op version" on whitespace and operator characters
	if c.Name == "" || strings.ContainsAny(c.Name, " \t<=>") {
		return fmt.Errorf("dependency name %q is not a valid rpm name", c.Name)
	}
	if strings.ContainsAny(c.Version, " \t") {
		return fmt.Errorf("dependency version %q contains whitespace", c.Version)
	}
	if err := rel.Set(c.String()); err != nil {
		return fmt.Errorf("cannot express %q: %w", c.String(), err)
	}
	return nil
}

// SetScript sets the scriptlet for hook
func (r *RPM) SetScript(hook Hook, body string) {
	switch hook {
	case PreInstall:
		r.rpm.AddPrein(body)
	case PostInstall:
		r.rpm.AddPostin(body)
	case PreUninstall:
		r.rpm.AddPreun(body)
	case PostUninstall:
		r.rpm.AddPostun(body)
	}
}

// Finalize writes the unsigned package
func (r *RPM) Finalize() (*Package, error) {
	return r.write(false)
}

// FinalizeAndSign writes the package with header and payload signatures from s
func (r *RPM) FinalizeAndSign(s Signer) (*Package, error) {
	r.rpm.SetPGPSigner(s.Sign)
	return r.write(true)
}

func (r *RPM) write(signed bool) (*Package, error) {
	if r.finalized {
		return nil, errors.New("package was already finalized")
	}
	r.finalized = true

	if len(r.changelog) > 0 {
		times := make([]int32, len(r.changelog))
		names := make([]string, len(r.changelog))
		texts := make([]string, len(r.changelog))
		for i, e := range r.changelog {
			times[i] = e.time
			names[i] = e.author
			texts[i] = e.text
		}
		r.rpm.AddCustomTag(tagChangelogTime, rpmpack.EntryInt32(times))
		r.rpm.AddCustomTag(tagChangelogName, rpmpack.EntryStringSlice(names))
		r.rpm.AddCustomTag(tagChangelogText, rpmpack.EntryStringSlice(texts))
	}

	var buf bytes.Buffer
	if err := r.rpm.Write(&buf); err != nil {
		return nil, fmt.Errorf("failed to write rpm: %w", err)
	}

	return &Package{
		Name:    r.meta.Name,
		Version: r.meta.Version,
		Release: r.meta.Release,
		Arch:    r.rpm.Arch,
		Signed:  signed,
		data:    buf.Bytes(),
	}, nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
