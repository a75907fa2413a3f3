package cli

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/dmitrijs2005/genio/internal/client/models"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	noticeStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("14"))
	demoBadge    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("0")).Background(lipgloss.Color("11"))
	statusStyles = map[models.FileStatus]lipgloss.Style{
		models.FileCompleted: lipgloss.NewStyle().Foreground(lipgloss.Color("10")),
		models.FileUploading: lipgloss.NewStyle().Foreground(lipgloss.Color("11")),
		models.FileDeleting:  lipgloss.NewStyle().Foreground(lipgloss.Color("13")),
		models.FileError:     lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
	}
)

// statusBadge renders a file status in its color.
func statusBadge(st models.FileStatus) string {
	s, ok := statusStyles[st]
	if !ok {
		return string(st)
	}
	return s.Render(string(st))
}
