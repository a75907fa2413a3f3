package ventures

import (
	"errors"

	"github.com/dmitrijs2005/genio/internal/client/models"
)

var (
	ErrDuplicateID = errors.New("venture id already exists")
	ErrNotFound    = errors.New("venture not found")
	ErrInvalidName = errors.New("venture name must not be empty")
)

// Patch is a partial update of the user-editable venture fields.
// Nil fields are left unchanged.
type Patch struct {
	Name        *string
	Description *string
}

// FilesTransform maps the current file sequence to its replacement.
type FilesTransform func(files []models.AttachedFile) []models.AttachedFile

// Repository describes the venture store operations.
type Repository interface {
	// Add appends a venture. Fails with ErrDuplicateID if the id is taken.
	Add(v models.Venture) error

	// Update applies a patch to one venture.
	Update(id string, patch Patch) error

	// Remove deletes a venture with all its records. Removing an absent id is
	// not an error.
	Remove(id string)

	// UpdateFiles atomically replaces the venture's file sequence with
	// transform(current).
	UpdateFiles(id string, transform FilesTransform) error

	// Get returns a copy of one venture.
	Get(id string) (models.Venture, error)

	// List returns copies of all ventures in creation order.
	List() []models.Venture

	// Subscribe registers fn to be called after each mutation.
	Subscribe(fn func(ventureID string)) (unsubscribe func())
}
