package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/genio/internal/client/auth"
	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/logging"
	"golang.org/x/oauth2"
	"google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"
)

const driveFolderMimeType = "application/vnd.google-apps.folder"

// DriveGateway stores ventures as Drive folders owned by the signed-in user.
type DriveGateway struct {
	files *drive.FilesService
	log   logging.Logger
}

// NewDrive builds a Drive client authorized by ts. Extra options are passed
// to drive.NewService after the token source.
func NewDrive(ctx context.Context, ts oauth2.TokenSource, log logging.Logger, opts ...option.ClientOption) (*DriveGateway, error) {
	if ts != nil {
		opts = append([]option.ClientOption{option.WithTokenSource(ts)}, opts...)
	}
	svc, err := drive.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("drive client: %w", err)
	}
	return &DriveGateway{
		files: svc.Files,
		log:   log.With("component", "gateway", "backend", "drive"),
	}, nil
}

func (g *DriveGateway) CreateFolder(ctx context.Context, name, description string) (models.Folder, error) {
	name, err := validName(name)
	if err != nil {
		return models.Folder{}, err
	}

	created, err := g.files.Create(&drive.File{
		Name:        name,
		Description: description,
		MimeType:    driveFolderMimeType,
	}).Fields("id", "name").Context(ctx).Do()
	if err != nil {
		g.log.Warn(ctx, "create folder failed", "name", name, "err", err)
		return models.Folder{}, mapDriveError(ErrCreationFailed, err)
	}

	g.log.Debug(ctx, "folder created", "ref", created.Id)
	return models.Folder{Ref: created.Id, Name: name, Description: description}, nil
}

func (g *DriveGateway) UploadFile(ctx context.Context, folderRef string, p models.Payload) (string, error) {
	if folderRef == "" {
		return "", fail(ErrUploadFailed, ErrInvalidRef)
	}

	rc, err := p.Open()
	if err != nil {
		return "", fail(ErrUploadFailed, err)
	}
	defer rc.Close()

	ct := p.ContentType()
	created, err := g.files.Create(&drive.File{
		Name:     p.Name,
		MimeType: ct,
		Parents:  []string{folderRef},
	}).Media(rc, googleapi.ContentType(ct)).Fields("id").Context(ctx).Do()
	if err != nil {
		g.log.Warn(ctx, "upload failed", "name", p.Name, "err", err)
		return "", mapDriveError(ErrUploadFailed, err)
	}

	g.log.Debug(ctx, "file uploaded", "ref", created.Id, "name", p.Name)
	return created.Id, nil
}

func (g *DriveGateway) DeleteFile(ctx context.Context, remoteRef string) error {
	return g.delete(ctx, remoteRef)
}

// DeleteFolder relies on Drive removing the children of a deleted folder.
func (g *DriveGateway) DeleteFolder(ctx context.Context, folderRef string) error {
	return g.delete(ctx, folderRef)
}

func (g *DriveGateway) delete(ctx context.Context, id string) error {
	if id == "" {
		return fail(ErrDeleteFailed, ErrInvalidRef)
	}
	err := g.files.Delete(id).Context(ctx).Do()
	if isDriveNotFound(err) {
		g.log.Debug(ctx, "already absent", "ref", id)
		return nil
	}
	if err != nil {
		g.log.Warn(ctx, "delete failed", "ref", id, "err", err)
		return mapDriveError(ErrDeleteFailed, err)
	}
	return nil
}

func isDriveNotFound(err error) bool {
	var gerr *googleapi.Error
	return errors.As(err, &gerr) && gerr.Code == http.StatusNotFound
}

func mapDriveError(kind, err error) error {
	if errors.Is(err, auth.ErrNotSignedIn) {
		return fail(kind, ErrAuthRequired)
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fail(kind, err)
	}

	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return fmt.Errorf("%w: %w: %v", kind, ErrBackendUnavailable, err)
	}

	msg := gerr.Message
	if msg == "" {
		msg = http.StatusText(gerr.Code)
	}
	switch {
	case gerr.Code == http.StatusUnauthorized || gerr.Code == http.StatusForbidden:
		return fmt.Errorf("%w: %w: %s", kind, ErrAuthRequired, msg)
	case gerr.Code == http.StatusBadRequest && kind == ErrCreationFailed:
		return fmt.Errorf("%w: %w: %s", kind, ErrInvalidName, msg)
	case gerr.Code >= 500 || gerr.Code == http.StatusTooManyRequests:
		return fmt.Errorf("%w: %w: %s", kind, ErrBackendUnavailable, msg)
	default:
		return failf(kind, "%s", msg)
	}
}
