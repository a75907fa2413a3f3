package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"strings"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/logging"
	"github.com/google/uuid"
)

const folderMarker = ".venture.json"

// objectStore is the minimal blob API the object layout needs.
type objectStore interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	// Delete succeeds when the key does not exist.
	Delete(ctx context.Context, key string) error
	DeletePrefix(ctx context.Context, prefix string) error
}

// ObjectGateway maps ventures onto key prefixes of a bucket:
//
//	<prefix>/<yyyy>/<mm>/<uuid>/.venture.json     folder marker
//	<prefix>/<yyyy>/<mm>/<uuid>/<uuid>-<name>     uploaded files
//
// The folder ref is the prefix with its trailing slash, file refs are keys.
type ObjectGateway struct {
	store  objectStore
	prefix string
	now    func() time.Time
	log    logging.Logger
	closer io.Closer
}

func newObjectGateway(store objectStore, prefix, backend string, log logging.Logger) *ObjectGateway {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "ventures"
	}
	return &ObjectGateway{
		store:  store,
		prefix: prefix,
		now:    time.Now,
		log:    log.With("component", "gateway", "backend", backend),
	}
}

type folderMeta struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
}

func (g *ObjectGateway) folderKey() string {
	d := g.now()
	return fmt.Sprintf("%s/%d/%02d/%s/", g.prefix, d.Year(), d.Month(), uuid.New())
}

func (g *ObjectGateway) CreateFolder(ctx context.Context, name, description string) (models.Folder, error) {
	name, err := validName(name)
	if err != nil {
		return models.Folder{}, err
	}

	ref := g.folderKey()
	meta, err := json.Marshal(folderMeta{Name: name, Description: description, CreatedAt: g.now().UTC()})
	if err != nil {
		return models.Folder{}, fail(ErrCreationFailed, err)
	}
	if err := g.store.Put(ctx, ref+folderMarker, bytes.NewReader(meta), int64(len(meta)), "application/json"); err != nil {
		g.log.Warn(ctx, "create folder failed", "ref", ref, "err", err)
		return models.Folder{}, fmt.Errorf("%w: %w: %v", ErrCreationFailed, ErrBackendUnavailable, err)
	}

	g.log.Debug(ctx, "folder created", "ref", ref)
	return models.Folder{Ref: ref, Name: name, Description: description}, nil
}

func (g *ObjectGateway) UploadFile(ctx context.Context, folderRef string, p models.Payload) (string, error) {
	if !g.ownsFolder(folderRef) {
		return "", fail(ErrUploadFailed, ErrInvalidRef)
	}

	rc, err := p.Open()
	if err != nil {
		return "", fail(ErrUploadFailed, err)
	}
	defer rc.Close()

	key := folderRef + uuid.NewString() + "-" + objectName(p.Name)
	if err := g.store.Put(ctx, key, rc, p.Size, p.ContentType()); err != nil {
		g.log.Warn(ctx, "upload failed", "key", key, "err", err)
		return "", fail(ErrUploadFailed, err)
	}

	g.log.Debug(ctx, "file uploaded", "key", key, "size", p.Size)
	return key, nil
}

func (g *ObjectGateway) DeleteFile(ctx context.Context, remoteRef string) error {
	if remoteRef == "" || strings.HasSuffix(remoteRef, "/") {
		return fail(ErrDeleteFailed, ErrInvalidRef)
	}
	if err := g.store.Delete(ctx, remoteRef); err != nil {
		g.log.Warn(ctx, "delete failed", "key", remoteRef, "err", err)
		return fail(ErrDeleteFailed, err)
	}
	return nil
}

func (g *ObjectGateway) DeleteFolder(ctx context.Context, folderRef string) error {
	if !g.ownsFolder(folderRef) {
		return fail(ErrDeleteFailed, ErrInvalidRef)
	}
	if err := g.store.DeletePrefix(ctx, folderRef); err != nil {
		g.log.Warn(ctx, "delete folder failed", "ref", folderRef, "err", err)
		return fail(ErrDeleteFailed, err)
	}
	g.log.Debug(ctx, "folder deleted", "ref", folderRef)
	return nil
}

// Close releases the underlying client, if it holds one.
func (g *ObjectGateway) Close() error {
	if g.closer == nil {
		return nil
	}
	return g.closer.Close()
}

func (g *ObjectGateway) ownsFolder(ref string) bool {
	return strings.HasPrefix(ref, g.prefix+"/") && strings.HasSuffix(ref, "/")
}

// objectName keeps the base name and drops characters that would create
// pseudo directories.
func objectName(name string) string {
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "file"
	}
	return name
}
