// Package models defines the client-side data model: ventures and the files
// attached to them.
package models

import "time"

// Venture is a named project folder backed by a remote storage location.
type Venture struct {
	// ID is unique within the store and never changes.
	ID string

	Name        string
	Description string

	// FolderRef is the backend handle of the folder; empty until the backend
	// confirmed creation. Written once.
	FolderRef string

	// Files keeps insertion order, newest last.
	Files []AttachedFile

	CreatedAt time.Time
}

// Clone returns a copy that shares no slice memory with v.
func (v Venture) Clone() Venture {
	c := v
	if v.Files != nil {
		c.Files = make([]AttachedFile, len(v.Files))
		copy(c.Files, v.Files)
	}
	return c
}

// FileByToken returns the record with the given token.
func (v Venture) FileByToken(token string) (AttachedFile, bool) {
	for _, f := range v.Files {
		if f.Token == token {
			return f, true
		}
	}
	return AttachedFile{}, false
}

// Folder is what a backend reports after creating a venture folder.
// ID is set only by backends that assign venture ids themselves.
type Folder struct {
	ID          string
	Ref         string
	Name        string
	Description string
}
