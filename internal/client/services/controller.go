// Package services contains application services of the Genio client. The
// Controller drives attached files through their lifecycle: it issues
// gateway calls and feeds their results back into the venture store through
// Reduce, the only function that computes new file sequences.
package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/gateway"
	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/client/repositories/ventures"
	"github.com/dmitrijs2005/genio/internal/logging"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"
)

var (
	ErrFileBusy       = errors.New("file has an operation in progress")
	ErrFileNotFound   = errors.New("file not found")
	ErrNoRemoteFolder = errors.New("venture has no remote folder")
	ErrInvalidName    = ventures.ErrInvalidName
)

// Controller is the file lifecycle service used by the shell.
//
// Contract:
//   - CreateVenture: creates the remote folder first; the venture is stored
//     only when that succeeds.
//   - UploadFiles: records all payloads as uploading at once and returns
//     their tokens; uploads complete in the background.
//   - DeleteFile / ClearFiles / DeleteVenture: block until the backend
//     answers. Failed deletes keep the records.
//   - Wait: blocks until every background upload has been applied.
type Controller interface {
	CreateVenture(ctx context.Context, name, description string) (models.Venture, error)
	UpdateVenture(id string, patch ventures.Patch) error
	UploadFiles(ctx context.Context, ventureID string, payloads []models.Payload) ([]string, error)
	DeleteFile(ctx context.Context, ventureID, token string) error
	ClearFiles(ctx context.Context, ventureID string) error
	DeleteVenture(ctx context.Context, ventureID string) error
	Wait()
}

type controller struct {
	gw    gateway.Gateway
	repo  ventures.Repository
	log   logging.Logger
	newID func() string
	now   func() time.Time

	inflight sync.WaitGroup
}

func NewController(gw gateway.Gateway, repo ventures.Repository, log logging.Logger) Controller {
	return &controller{
		gw:    gw,
		repo:  repo,
		log:   log.With("component", "controller"),
		newID: uuid.NewString,
		now:   time.Now,
	}
}

func (c *controller) CreateVenture(ctx context.Context, name, description string) (models.Venture, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Venture{}, ErrInvalidName
	}
	description = strings.TrimSpace(description)

	folder, err := c.gw.CreateFolder(ctx, name, description)
	if err != nil {
		c.log.Warn(ctx, "venture creation failed", "name", name, "err", err)
		if !errors.Is(err, gateway.ErrCreationFailed) {
			err = fmt.Errorf("%w: %w", gateway.ErrCreationFailed, err)
		}
		return models.Venture{}, err
	}

	v := models.Venture{
		ID:          folder.ID,
		Name:        name,
		Description: description,
		FolderRef:   folder.Ref,
		CreatedAt:   c.now(),
	}
	if v.ID == "" {
		v.ID = c.newID()
	}

	err = c.repo.Add(v)
	if errors.Is(err, ventures.ErrDuplicateID) {
		c.log.Warn(ctx, "backend reused a venture id, assigning a local one", "id", v.ID)
		v.ID = c.newID()
		err = c.repo.Add(v)
	}
	if err != nil {
		return models.Venture{}, fmt.Errorf("store venture: %w", err)
	}

	c.log.Info(ctx, "venture created", "id", v.ID, "folder", v.FolderRef)
	return v, nil
}

func (c *controller) UpdateVenture(id string, patch ventures.Patch) error {
	return c.repo.Update(id, patch)
}

func (c *controller) UploadFiles(ctx context.Context, ventureID string, payloads []models.Payload) ([]string, error) {
	if len(payloads) == 0 {
		return nil, nil
	}

	v, err := c.repo.Get(ventureID)
	if err != nil {
		return nil, err
	}
	if v.FolderRef == "" {
		return nil, ErrNoRemoteFolder
	}

	records := make([]models.AttachedFile, len(payloads))
	tokens := make([]string, len(payloads))
	for i, p := range payloads {
		records[i] = models.AttachedFile{Token: c.newID(), Payload: p, Status: models.FileUploading}
		tokens[i] = records[i].Token
	}

	if err := c.apply(ctx, ventureID, FilesAdded{Files: records}); err != nil {
		return nil, err
	}

	uploadCtx := context.WithoutCancel(ctx)
	for _, rec := range records {
		c.inflight.Add(1)
		go func(rec models.AttachedFile) {
			defer c.inflight.Done()
			c.upload(uploadCtx, ventureID, v.FolderRef, rec)
		}(rec)
	}

	return tokens, nil
}

func (c *controller) upload(ctx context.Context, ventureID, folderRef string, rec models.AttachedFile) {
	ref, err := c.gw.UploadFile(ctx, folderRef, rec.Payload)
	if err != nil {
		c.log.Warn(ctx, "upload failed", "venture", ventureID, "token", rec.Token, "name", rec.Payload.Name, "err", err)
		_ = c.apply(ctx, ventureID, UploadFailed{Token: rec.Token, Reason: err.Error()})
		return
	}
	_ = c.apply(ctx, ventureID, UploadSucceeded{Token: rec.Token, RemoteRef: ref})
}

func (c *controller) DeleteFile(ctx context.Context, ventureID, token string) error {
	var (
		ref     string
		local   bool
		refusal error
	)

	err := c.repo.UpdateFiles(ventureID, func(files []models.AttachedFile) []models.AttachedFile {
		f, ok := find(files, token)
		switch {
		case !ok:
			refusal = ErrFileNotFound
			return files
		case f.Busy():
			refusal = ErrFileBusy
			return files
		case f.RemoteRef == "":
			local = true
			return Reduce(files, FileDiscarded{Token: token})
		default:
			ref = f.RemoteRef
			return Reduce(files, DeleteStarted{Token: token})
		}
	})
	if err != nil {
		return err
	}
	if refusal != nil {
		return refusal
	}
	if local {
		c.log.Debug(ctx, "discarded local record", "venture", ventureID, "token", token)
		return nil
	}

	c.log.Debug(ctx, "file deleting", "venture", ventureID, "token", token, "ref", ref)
	if err := c.gw.DeleteFile(ctx, ref); err != nil {
		c.log.Warn(ctx, "delete failed", "venture", ventureID, "token", token, "err", err)
		err = deleteError(err)
		_ = c.apply(ctx, ventureID, DeleteFailed{Token: token, Reason: err.Error()})
		return err
	}

	return settledApply(c.apply(ctx, ventureID, DeleteSucceeded{Token: token}))
}

func (c *controller) ClearFiles(ctx context.Context, ventureID string) error {
	prior := make(map[string]models.FileStatus)
	var tokens, refs []string

	err := c.repo.UpdateFiles(ventureID, func(files []models.AttachedFile) []models.AttachedFile {
		for _, f := range files {
			if !settled(f.Status) {
				continue
			}
			prior[f.Token] = f.Status
			tokens = append(tokens, f.Token)
			if f.RemoteRef != "" {
				refs = append(refs, f.RemoteRef)
			}
		}
		return Reduce(files, ClearStarted{Tokens: tokens})
	})
	if err != nil {
		return err
	}
	if len(tokens) == 0 {
		return nil
	}

	c.log.Debug(ctx, "clearing files", "venture", ventureID, "count", len(tokens), "remote", len(refs))

	var g errgroup.Group
	for _, ref := range refs {
		g.Go(func() error {
			return c.gw.DeleteFile(ctx, ref)
		})
	}

	if err := g.Wait(); err != nil {
		c.log.Warn(ctx, "clear failed, rolling back", "venture", ventureID, "err", err)
		_ = c.apply(ctx, ventureID, ClearRolledBack{Prior: prior})
		return deleteError(err)
	}

	return settledApply(c.apply(ctx, ventureID, ClearCommitted{Tokens: tokens}))
}

func (c *controller) DeleteVenture(ctx context.Context, ventureID string) error {
	v, err := c.repo.Get(ventureID)
	if err != nil {
		return err
	}

	if v.FolderRef != "" {
		if err := c.gw.DeleteFolder(ctx, v.FolderRef); err != nil {
			c.log.Warn(ctx, "venture deletion failed", "id", ventureID, "err", err)
			return deleteError(err)
		}
	}

	c.repo.Remove(ventureID)
	c.log.Info(ctx, "venture deleted", "id", ventureID)
	return nil
}

func (c *controller) Wait() {
	c.inflight.Wait()
}

// apply commits e to the venture's files. A venture removed while a call was
// in flight yields ErrNotFound; the result is dropped.
func (c *controller) apply(ctx context.Context, ventureID string, e Event) error {
	err := c.repo.UpdateFiles(ventureID, func(files []models.AttachedFile) []models.AttachedFile {
		return Reduce(files, e)
	})
	if errors.Is(err, ventures.ErrNotFound) {
		c.log.Debug(ctx, "venture gone, result dropped", "venture", ventureID, "event", fmt.Sprintf("%T", e))
		return err
	}
	if err != nil {
		return err
	}
	c.log.Debug(ctx, "transition applied", "venture", ventureID, "event", fmt.Sprintf("%T", e))
	return nil
}

// settledApply treats a venture removed after the backend confirmed the
// delete as success: the remote objects are gone either way.
func settledApply(err error) error {
	if errors.Is(err, ventures.ErrNotFound) {
		return nil
	}
	return err
}

func find(files []models.AttachedFile, token string) (models.AttachedFile, bool) {
	for _, f := range files {
		if f.Token == token {
			return f, true
		}
	}
	return models.AttachedFile{}, false
}

func deleteError(err error) error {
	if errors.Is(err, gateway.ErrDeleteFailed) {
		return err
	}
	return fmt.Errorf("%w: %w", gateway.ErrDeleteFailed, err)
}
