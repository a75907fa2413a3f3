// Package view derives the read models shown by the shell from store
// snapshots. Nothing here keeps state: every call recomputes from the store.
package view

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/client/repositories/ventures"
)

// RecentLimit is how many file names a summary lists.
const RecentLimit = 3

// Summary is the card shown in the venture list.
type Summary struct {
	ID          string
	Name        string
	Description string
	CreatedAt   time.Time

	Completed int
	Uploading int
	Deleting  int
	Failed    int
	Total     int

	// Recent holds the names of the newest files, newest first.
	Recent []string
	// More counts the files not listed in Recent.
	More int
}

// FileView is one row of the detail listing.
type FileView struct {
	Token    string
	Name     string
	Size     string
	MimeType string
	Status   models.FileStatus
	Error    string
	// Busy rows have a remote call in flight and cannot be deleted.
	Busy bool
}

// VentureDetail is the detail/config view of one venture.
type VentureDetail struct {
	ID          string
	Name        string
	Description string
	FolderRef   string
	CreatedAt   time.Time
	Files       []FileView
	Summary     Summary
}

func Summaries(repo ventures.Repository) []Summary {
	list := repo.List()
	out := make([]Summary, 0, len(list))
	for _, v := range list {
		out = append(out, Summarize(v))
	}
	return out
}

func Summarize(v models.Venture) Summary {
	s := Summary{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		CreatedAt:   v.CreatedAt,
		Total:       len(v.Files),
	}

	for _, f := range v.Files {
		switch f.Status {
		case models.FileCompleted:
			s.Completed++
		case models.FileUploading:
			s.Uploading++
		case models.FileDeleting:
			s.Deleting++
		case models.FileError:
			s.Failed++
		}
	}

	for i := len(v.Files) - 1; i >= 0 && len(s.Recent) < RecentLimit; i-- {
		s.Recent = append(s.Recent, v.Files[i].Payload.Name)
	}
	s.More = s.Total - len(s.Recent)
	return s
}

func Detail(repo ventures.Repository, id string) (VentureDetail, error) {
	v, err := repo.Get(id)
	if err != nil {
		return VentureDetail{}, err
	}

	d := VentureDetail{
		ID:          v.ID,
		Name:        v.Name,
		Description: v.Description,
		FolderRef:   v.FolderRef,
		CreatedAt:   v.CreatedAt,
		Files:       make([]FileView, 0, len(v.Files)),
		Summary:     Summarize(v),
	}
	for _, f := range v.Files {
		d.Files = append(d.Files, FileView{
			Token:    f.Token,
			Name:     f.Payload.Name,
			Size:     FormatSize(f.Payload.Size),
			MimeType: f.Payload.ContentType(),
			Status:   f.Status,
			Error:    f.Error,
			Busy:     f.Busy(),
		})
	}
	return d, nil
}

var sizeUnits = []string{"Bytes", "KB", "MB", "GB"}

// FormatSize renders a byte count with 1024-based units: whole bytes below
// 1 KB ("0 Bytes", "512 Bytes"), two decimals above ("1.50 KB"). Sizes past
// GB stay in GB.
func FormatSize(bytes int64) string {
	if bytes <= 0 {
		return "0 Bytes"
	}

	i, div := 0, int64(1)
	for i < len(sizeUnits)-1 && bytes >= div*1024 {
		div *= 1024
		i++
	}
	if i == 0 {
		return fmt.Sprintf("%d Bytes", bytes)
	}
	return fmt.Sprintf("%.2f %s", float64(bytes)/float64(div), sizeUnits[i])
}
