package cli

import (
	"fmt"
	"strings"

	"github.com/dmitrijs2005/genio/internal/client/models"
	"github.com/dmitrijs2005/genio/internal/client/view"
)

const timeLayout = "2006-01-02 15:04"

func renderSummary(n int, s view.Summary) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("%d. %s", n, s.Name)))
	if s.Description != "" {
		b.WriteString(" " + mutedStyle.Render(s.Description))
	}
	b.WriteString("\n  " + renderCounts(s))
	if len(s.Recent) > 0 {
		b.WriteString("\n  recent: " + strings.Join(s.Recent, ", "))
		if s.More > 0 {
			b.WriteString(mutedStyle.Render(fmt.Sprintf(" (+%d more)", s.More)))
		}
	}
	return b.String()
}

func renderCounts(s view.Summary) string {
	if s.Total == 0 {
		return mutedStyle.Render("no files")
	}

	counts := []struct {
		st models.FileStatus
		n  int
	}{
		{models.FileCompleted, s.Completed},
		{models.FileUploading, s.Uploading},
		{models.FileDeleting, s.Deleting},
		{models.FileError, s.Failed},
	}
	parts := make([]string, 0, len(counts))
	for _, c := range counts {
		if c.n > 0 {
			parts = append(parts, fmt.Sprintf("%d %s", c.n, statusBadge(c.st)))
		}
	}
	return fmt.Sprintf("%d files: %s", s.Total, strings.Join(parts, ", "))
}

func renderDetail(d view.VentureDetail) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(d.Name) + "\n")
	if d.Description != "" {
		b.WriteString(d.Description + "\n")
	}
	folder := d.FolderRef
	if folder == "" {
		folder = "none"
	}
	b.WriteString(mutedStyle.Render(fmt.Sprintf("folder: %s  created: %s", folder, d.CreatedAt.Format(timeLayout))) + "\n")

	if len(d.Files) == 0 {
		b.WriteString(mutedStyle.Render("no files"))
		return b.String()
	}

	b.WriteString(renderCounts(d.Summary))
	for i, f := range d.Files {
		b.WriteString("\n" + renderFile(i+1, f))
	}
	return b.String()
}

func renderFile(n int, f view.FileView) string {
	line := fmt.Sprintf("  #%d %s  %s  %s  %s", n, f.Name, f.Size, mutedStyle.Render(f.MimeType), statusBadge(f.Status))
	if f.Busy {
		line += mutedStyle.Render(" (busy)")
	}
	if f.Error != "" {
		line += " " + errorStyle.Render(f.Error)
	}
	return line
}
