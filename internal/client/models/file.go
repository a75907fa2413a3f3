package models

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
)

// FileStatus is the lifecycle state of an attached file.
type FileStatus string

const (
	FileUploading FileStatus = "uploading"
	FileCompleted FileStatus = "completed"
	FileError     FileStatus = "error"
	FileDeleting  FileStatus = "deleting"
)

// DefaultMimeType is used when the type cannot be derived from the file name.
const DefaultMimeType = "application/octet-stream"

var ErrEmptyPayload = errors.New("payload has no content source")

// Payload is the user-supplied file: metadata plus either in-memory bytes or
// a path on local disk.
type Payload struct {
	Name     string
	Size     int64
	MimeType string

	// Data takes precedence over Path when both are set.
	Data []byte
	Path string
}

type bytesBody struct{ *bytes.Reader }

func (bytesBody) Close() error { return nil }

// Open returns a fresh reader over the payload content. The reader is
// seekable so signing transports can hash the body before sending it.
func (p Payload) Open() (io.ReadSeekCloser, error) {
	if p.Data != nil {
		return bytesBody{bytes.NewReader(p.Data)}, nil
	}
	if p.Path == "" {
		return nil, ErrEmptyPayload
	}
	f, err := os.Open(p.Path)
	if err != nil {
		return nil, fmt.Errorf("open payload: %w", err)
	}
	return f, nil
}

// ContentType returns MimeType or DefaultMimeType when it is empty.
func (p Payload) ContentType() string {
	if p.MimeType == "" {
		return DefaultMimeType
	}
	return p.MimeType
}

// PayloadFromPath stats a local file and builds a disk-backed Payload.
func PayloadFromPath(path string) (Payload, error) {
	st, err := os.Stat(path)
	if err != nil {
		return Payload{}, fmt.Errorf("stat %s: %w", path, err)
	}
	if st.IsDir() {
		return Payload{}, fmt.Errorf("%s is a directory", path)
	}
	return Payload{
		Name:     st.Name(),
		Size:     st.Size(),
		MimeType: MimeTypeFor(st.Name()),
		Path:     path,
	}, nil
}

// MimeTypeFor guesses a MIME type from the file extension.
func MimeTypeFor(name string) string {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		return DefaultMimeType
	}
	if t := mime.TypeByExtension(ext); t != "" {
		return t
	}
	return DefaultMimeType
}

// AttachedFile is one file record inside a venture.
//
// Token is generated when the record is created and is the only key used to
// find the record again; positions in the slice are not stable.
type AttachedFile struct {
	Token     string
	Payload   Payload
	Status    FileStatus
	RemoteRef string
	Error     string
}

// Busy reports whether a remote call is in flight for the record.
func (f AttachedFile) Busy() bool {
	return f.Status == FileUploading || f.Status == FileDeleting
}
