package gateway

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrBackendUnavailable = errors.New("backend unavailable")
	ErrInvalidName        = errors.New("invalid name")
	ErrCreationFailed     = errors.New("creation failed")
	ErrUploadFailed       = errors.New("upload failed")
	ErrDeleteFailed       = errors.New("delete failed")
	ErrAuthRequired       = errors.New("authentication required")
	ErrInvalidRef         = errors.New("invalid reference")
	ErrUnknownBackend     = errors.New("unknown backend")
)

// fail wraps cause into the failure kind.
func fail(kind, cause error) error {
	return fmt.Errorf("%w: %w", kind, cause)
}

// failf wraps a plain reason into the failure kind.
func failf(kind error, format string, args ...any) error {
	return fmt.Errorf("%w: %s", kind, fmt.Sprintf(format, args...))
}

func validName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", fail(ErrCreationFailed, ErrInvalidName)
	}
	return name, nil
}
