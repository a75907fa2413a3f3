package gateway

import (
	"context"
	"io"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/logging"
	"github.com/google/uuid"
)

// Op names a gateway operation for failure injection.
type Op string

const (
	OpCreateFolder Op = "create_folder"
	OpUploadFile   Op = "upload_file"
	OpDeleteFile   Op = "delete_file"
	OpDeleteFolder Op = "delete_folder"
)

const (
	demoFolderPrefix = "demo-folder-"
	demoFilePrefix   = "demo-file-"
)

// Simulated is an in-memory Gateway. It keeps track of what it created so
// uploads into unknown folders fail and deletes of unknown objects succeed.
type Simulated struct {
	createLatency time.Duration
	uploadLatency time.Duration
	deleteLatency time.Duration
	failureRate   float64
	failer        func(op Op, target string) bool
	log           logging.Logger

	mu      sync.Mutex
	folders map[string]struct{}
	files   map[string]string // file ref -> folder ref
}

type SimOption func(*Simulated)

// WithLatency sets the artificial latency of each operation kind.
func WithLatency(create, upload, remove time.Duration) SimOption {
	return func(s *Simulated) {
		s.createLatency, s.uploadLatency, s.deleteLatency = create, upload, remove
	}
}

// WithLatencyScale derives all latencies from the upload latency, keeping
// the default ratios (create 1/2, delete 3/10).
func WithLatencyScale(upload time.Duration) SimOption {
	return WithLatency(upload/2, upload, upload*3/10)
}

// WithFailureRate makes each call fail with probability r.
func WithFailureRate(r float64) SimOption {
	return func(s *Simulated) { s.failureRate = r }
}

// WithFailer injects deterministic failures: fn is asked before each call
// completes and the call fails when it returns true.
func WithFailer(fn func(op Op, target string) bool) SimOption {
	return func(s *Simulated) { s.failer = fn }
}

func WithLogger(l logging.Logger) SimOption {
	return func(s *Simulated) { s.log = l }
}

func NewSimulated(opts ...SimOption) *Simulated {
	s := &Simulated{
		createLatency: 500 * time.Millisecond,
		uploadLatency: time.Second,
		deleteLatency: 300 * time.Millisecond,
		log:           logging.Discard(),
		folders:       make(map[string]struct{}),
		files:         make(map[string]string),
	}
	for _, o := range opts {
		o(s)
	}
	s.log = s.log.With("component", "gateway", "backend", "demo")
	return s
}

func (s *Simulated) CreateFolder(ctx context.Context, name, description string) (models.Folder, error) {
	name, err := validName(name)
	if err != nil {
		return models.Folder{}, err
	}
	if err := sleep(ctx, s.createLatency); err != nil {
		return models.Folder{}, fail(ErrCreationFailed, err)
	}
	if s.shouldFail(OpCreateFolder, name) {
		return models.Folder{}, fail(ErrCreationFailed, ErrBackendUnavailable)
	}

	ref := demoFolderPrefix + uuid.NewString()

	s.mu.Lock()
	s.folders[ref] = struct{}{}
	s.mu.Unlock()

	s.log.Debug(ctx, "folder created", "ref", ref, "name", name)
	return models.Folder{Ref: ref, Name: name, Description: description}, nil
}

func (s *Simulated) UploadFile(ctx context.Context, folderRef string, p models.Payload) (string, error) {
	if !s.hasFolder(folderRef) {
		return "", fail(ErrUploadFailed, ErrInvalidRef)
	}

	rc, err := p.Open()
	if err != nil {
		return "", fail(ErrUploadFailed, err)
	}
	_, err = io.Copy(io.Discard, rc)
	rc.Close()
	if err != nil {
		return "", fail(ErrUploadFailed, err)
	}

	if err := sleep(ctx, s.uploadLatency); err != nil {
		return "", fail(ErrUploadFailed, err)
	}
	if s.shouldFail(OpUploadFile, p.Name) {
		return "", failf(ErrUploadFailed, "simulated network error")
	}

	ref := demoFilePrefix + uuid.NewString()

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.folders[folderRef]; !ok {
		return "", fail(ErrUploadFailed, ErrInvalidRef)
	}
	s.files[ref] = folderRef

	s.log.Debug(ctx, "file uploaded", "ref", ref, "name", p.Name, "size", p.Size)
	return ref, nil
}

func (s *Simulated) DeleteFile(ctx context.Context, remoteRef string) error {
	if err := sleep(ctx, s.deleteLatency); err != nil {
		return fail(ErrDeleteFailed, err)
	}
	if s.shouldFail(OpDeleteFile, remoteRef) {
		return failf(ErrDeleteFailed, "simulated network error")
	}

	s.mu.Lock()
	delete(s.files, remoteRef)
	s.mu.Unlock()

	s.log.Debug(ctx, "file deleted", "ref", remoteRef)
	return nil
}

func (s *Simulated) DeleteFolder(ctx context.Context, folderRef string) error {
	if err := sleep(ctx, s.deleteLatency); err != nil {
		return fail(ErrDeleteFailed, err)
	}
	if s.shouldFail(OpDeleteFolder, folderRef) {
		return failf(ErrDeleteFailed, "simulated network error")
	}

	s.mu.Lock()
	delete(s.folders, folderRef)
	for ref, parent := range s.files {
		if parent == folderRef {
			delete(s.files, ref)
		}
	}
	s.mu.Unlock()

	s.log.Debug(ctx, "folder deleted", "ref", folderRef)
	return nil
}

// Exists reports whether ref names a live folder or file.
func (s *Simulated) Exists(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.folders[ref]; ok {
		return true
	}
	_, ok := s.files[ref]
	return ok
}

func (s *Simulated) hasFolder(ref string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.folders[ref]
	return ok
}

func (s *Simulated) shouldFail(op Op, target string) bool {
	if s.failer != nil && s.failer(op, target) {
		return true
	}
	return s.failureRate > 0 && rand.Float64() < s.failureRate
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
