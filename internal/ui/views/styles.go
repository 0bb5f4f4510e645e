package views

import (
	"github.com/charmbracelet/lipgloss"
)

// Styles contains all the style definitions for the UI
type Styles struct {
	Title       lipgloss.Style
	Dim         lipgloss.Style
	Unread      lipgloss.Style
	Source      lipgloss.Style
	Date        lipgloss.Style
	SelectionBg lipgloss.Style
	Sentinel    lipgloss.Style
	EndMarker   lipgloss.Style
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Filter      lipgloss.Style
	Help        lipgloss.Style
	DetailBox   lipgloss.Style
	DetailMeta  lipgloss.Style
}

// NewStyles creates a new Styles instance with default values
func NewStyles() *Styles {
	return &Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99")),
		Dim:         lipgloss.NewStyle().Faint(true),
		Unread:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("231")),
		Source:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		Date:        lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		SelectionBg: lipgloss.NewStyle().Background(lipgloss.Color("238")),
		Sentinel:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Italic(true),
		EndMarker:   lipgloss.NewStyle().Foreground(lipgloss.Color("241")).Faint(true),
		Status:      lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		StatusError: lipgloss.NewStyle().Foreground(lipgloss.Color("203")),
		Filter:      lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		Help:        lipgloss.NewStyle().Faint(true),
		DetailBox: lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			Padding(0, 1).
			BorderForeground(lipgloss.Color("241")),
		DetailMeta: lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
	}
}
