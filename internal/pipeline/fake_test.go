package pipeline

import (
	"errors"
	"fmt"

	"github.com/ralt/rpm-builder/internal/builder"
	"github.com/ralt/rpm-builder/internal/dependency"
)

// recorder is a Builder that logs every call
type recorder struct {
	calls      []string
	times      []int32
	files      map[string]builder.FileOptions
	scripts    map[builder.Hook]string
	failOn     string
	finalErr   error
	signedWith builder.Signer
}

func newRecorder() *recorder {
	return &recorder{
		files:   make(map[string]builder.FileOptions),
		scripts: make(map[builder.Hook]string),
	}
}

func (r *recorder) AddFile(source string, opts builder.FileOptions) error {
	call := fmt.Sprintf("file %s %s", source, opts.Destination)
	r.calls = append(r.calls, call)
	if r.failOn == call {
		return errors.New("refused")
	}
	r.files[source] = opts
	return nil
}

func (r *recorder) AddChangelogEntry(author, text string, timestamp int32) {
	r.calls = append(r.calls, fmt.Sprintf("changelog %s %s", author, text))
	r.times = append(r.times, timestamp)
}

func (r *recorder) AddDependency(kind builder.Relationship, c dependency.Constraint) error {
	call := fmt.Sprintf("%s %s", kind, c)
	r.calls = append(r.calls, call)
	if r.failOn == call {
		return errors.New("refused")
	}
	return nil
}

func (r *recorder) SetScript(hook builder.Hook, body string) {
	r.calls = append(r.calls, fmt.Sprintf("script %s", hook))
	r.scripts[hook] = body
}

func (r *recorder) Finalize() (*builder.Package, error) {
	r.calls = append(r.calls, "finalize")
	if r.finalErr != nil {
		return nil, r.finalErr
	}
	return &builder.Package{Name: "fake"}, nil
}

func (r *recorder) FinalizeAndSign(s builder.Signer) (*builder.Package, error) {
	r.calls = append(r.calls, "finalize+sign")
	r.signedWith = s
	if r.finalErr != nil {
		return nil, r.finalErr
	}
	if _, err := s.Sign([]byte("payload")); err != nil {
		return nil, err
	}
	return &builder.Package{Name: "fake", Signed: true}, nil
}

// withRecorder returns a pipeline whose builders are all rec
func withRecorder(rec *recorder) *Pipeline {
	p := New()
	p.newBuilder = func(builder.Metadata) (builder.Builder, error) {
		return rec, nil
	}
	return p
}
