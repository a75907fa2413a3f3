package services

import (
	"github.com/dmitrijs2005/genio/internal/client/models"
)

// Event is a result fed into Reduce. Each concrete type is one transition of
// the attached-file state machine:
//
//	uploading --UploadSucceeded--> completed
//	uploading --UploadFailed-----> error
//	completed|error --DeleteStarted--> deleting
//	deleting --DeleteSucceeded--> (removed)
//	deleting --DeleteFailed-----> error
//	error (no remote ref) --FileDiscarded--> (removed)
//
// ClearStarted, ClearCommitted and ClearRolledBack move a whole batch.
type Event interface {
	event()
}

// FilesAdded appends new uploading records.
type FilesAdded struct {
	Files []models.AttachedFile
}

type UploadSucceeded struct {
	Token     string
	RemoteRef string
}

type UploadFailed struct {
	Token  string
	Reason string
}

type DeleteStarted struct {
	Token string
}

type DeleteSucceeded struct {
	Token string
}

type DeleteFailed struct {
	Token  string
	Reason string
}

// FileDiscarded removes a never-uploaded error record without a remote call.
type FileDiscarded struct {
	Token string
}

type ClearStarted struct {
	Tokens []string
}

type ClearCommitted struct {
	Tokens []string
}

// ClearRolledBack restores every cleared record to the status it had before
// ClearStarted.
type ClearRolledBack struct {
	Prior map[string]models.FileStatus
}

func (FilesAdded) event()      {}
func (UploadSucceeded) event() {}
func (UploadFailed) event()    {}
func (DeleteStarted) event()   {}
func (DeleteSucceeded) event() {}
func (DeleteFailed) event()    {}
func (FileDiscarded) event()   {}
func (ClearStarted) event()    {}
func (ClearCommitted) event()  {}
func (ClearRolledBack) event() {}

// Reduce returns the file sequence after e. files is never modified.
// Records are located by token; an event naming an unknown token, or a record
// in a state the transition does not start from, leaves the sequence as is.
func Reduce(files []models.AttachedFile, e Event) []models.AttachedFile {
	switch e := e.(type) {
	case FilesAdded:
		out := make([]models.AttachedFile, 0, len(files)+len(e.Files))
		out = append(out, files...)
		return append(out, e.Files...)

	case UploadSucceeded:
		return update(files, e.Token, func(f *models.AttachedFile) {
			if f.Status == models.FileUploading {
				f.Status = models.FileCompleted
				f.RemoteRef = e.RemoteRef
				f.Error = ""
			}
		})

	case UploadFailed:
		return update(files, e.Token, func(f *models.AttachedFile) {
			if f.Status == models.FileUploading {
				f.Status = models.FileError
				f.Error = e.Reason
			}
		})

	case DeleteStarted:
		return update(files, e.Token, func(f *models.AttachedFile) {
			if settled(f.Status) {
				f.Status = models.FileDeleting
			}
		})

	case DeleteSucceeded:
		return remove(files, func(f models.AttachedFile) bool {
			return f.Token == e.Token && f.Status == models.FileDeleting
		})

	case DeleteFailed:
		return update(files, e.Token, func(f *models.AttachedFile) {
			if f.Status == models.FileDeleting {
				f.Status = models.FileError
				f.Error = e.Reason
			}
		})

	case FileDiscarded:
		return remove(files, func(f models.AttachedFile) bool {
			return f.Token == e.Token && f.Status == models.FileError && f.RemoteRef == ""
		})

	case ClearStarted:
		set := tokenSet(e.Tokens)
		return updateAll(files, func(f *models.AttachedFile) {
			if _, ok := set[f.Token]; ok && settled(f.Status) {
				f.Status = models.FileDeleting
			}
		})

	case ClearCommitted:
		set := tokenSet(e.Tokens)
		return remove(files, func(f models.AttachedFile) bool {
			_, ok := set[f.Token]
			return ok && f.Status == models.FileDeleting
		})

	case ClearRolledBack:
		return updateAll(files, func(f *models.AttachedFile) {
			if prior, ok := e.Prior[f.Token]; ok && f.Status == models.FileDeleting {
				f.Status = prior
			}
		})
	}

	return clone(files)
}

func settled(s models.FileStatus) bool {
	return s == models.FileCompleted || s == models.FileError
}

func clone(files []models.AttachedFile) []models.AttachedFile {
	if files == nil {
		return nil
	}
	out := make([]models.AttachedFile, len(files))
	copy(out, files)
	return out
}

func update(files []models.AttachedFile, token string, fn func(*models.AttachedFile)) []models.AttachedFile {
	out := clone(files)
	for i := range out {
		if out[i].Token == token {
			fn(&out[i])
			break
		}
	}
	return out
}

func updateAll(files []models.AttachedFile, fn func(*models.AttachedFile)) []models.AttachedFile {
	out := clone(files)
	for i := range out {
		fn(&out[i])
	}
	return out
}

func remove(files []models.AttachedFile, drop func(models.AttachedFile) bool) []models.AttachedFile {
	out := make([]models.AttachedFile, 0, len(files))
	for _, f := range files {
		if !drop(f) {
			out = append(out, f)
		}
	}
	return out
}

func tokenSet(tokens []string) map[string]struct{} {
	set := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		set[t] = struct{}{}
	}
	return set
}
