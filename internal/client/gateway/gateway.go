package gateway

import (
	"context"

	"github.com/dmitrijs2005/genio/internal/client/models"
)

// Gateway is the remote storage contract.
//
// Contract:
//   - CreateFolder returns the handle of a new folder. Fails with
//     ErrInvalidName or ErrBackendUnavailable, wrapped in ErrCreationFailed.
//   - UploadFile stores p under folderRef and returns the object handle. An
//     error means nothing was stored.
//   - DeleteFile removes one object. Deleting an object that is already
//     gone succeeds.
//   - DeleteFolder removes a folder and everything inside it.
type Gateway interface {
	CreateFolder(ctx context.Context, name, description string) (models.Folder, error)
	UploadFile(ctx context.Context, folderRef string, p models.Payload) (string, error)
	DeleteFile(ctx context.Context, remoteRef string) error
	DeleteFolder(ctx context.Context, folderRef string) error
}
