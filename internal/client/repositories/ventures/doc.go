// Package ventures holds the authoritative in-memory collection of ventures
// and their attached-file records.
//
// # Overview
//
// The Repository is the single source of truth for the session. Every file
// lifecycle transition goes through UpdateFiles, which replaces a venture's
// whole file sequence with the output of a caller-supplied transform while
// holding the write lock. Transforms must locate records by
// models.AttachedFile.Token, never by position: uploads and deletes finish in
// any order and can remove entries between the call and its result.
//
// Reads (Get, List) return deep copies, so callers can never mutate store
// memory behind its back.
//
// Change notification
//
// Subscribe registers a listener that is invoked synchronously after every
// committed mutation with the affected venture id. Views derive their state
// from the repository on each notification; there is no second copy that
// could go stale.
//
// Typical Usage
//
//	repo := ventures.NewMemoryRepository()
//	_ = repo.Add(models.Venture{ID: id, Name: "Tower A", FolderRef: "f1"})
//	_ = repo.UpdateFiles(id, func(files []models.AttachedFile) []models.AttachedFile {
//	    return append(files, newRecords...)
//	})
package ventures
