package ui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/noborus/ov/oviewer"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
)

// BodyPager shows newsletter bodies in the ov pager, taking over the
// terminal from Bubble Tea for the duration.
type BodyPager struct {
	program *tea.Program
}

// NewBodyPager creates a new body pager.
func NewBodyPager() *BodyPager {
	return &BodyPager{}
}

// SetProgram sets the program reference for terminal management.
func (p *BodyPager) SetProgram(prog *tea.Program) {
	p.program = prog
}

// Show renders the newsletter in the pager and blocks until it exits.
func (p *BodyPager) Show(n *domain.Newsletter) error {
	if p.program == nil {
		return fmt.Errorf("program not set")
	}

	if err := p.program.ReleaseTerminal(); err != nil {
		return err
	}
	defer func() {
		// Give ov a moment to fully exit before restoring the terminal
		time.Sleep(100 * time.Millisecond)
		_ = p.program.RestoreTerminal()
	}()

	root, err := oviewer.NewRoot(strings.NewReader(renderBody(n)))
	if err != nil {
		return err
	}

	cfg := oviewer.NewConfig()
	cfg.IsWriteOnExit = false
	cfg.IsWriteOriginal = false
	root.SetConfig(cfg)

	return root.Run()
}

// renderBody formats a newsletter for the pager.
func renderBody(n *domain.Newsletter) string {
	var b strings.Builder
	b.WriteString(n.Title)
	b.WriteString("\n")
	b.WriteString(n.SourceName)
	if n.Author != "" {
		b.WriteString(" · ")
		b.WriteString(n.Author)
	}
	b.WriteString(" · ")
	b.WriteString(n.ReceivedAt.Format("Mon, 02 Jan 2006 15:04"))
	b.WriteString("\n")
	if n.URL != "" {
		b.WriteString(n.URL)
		b.WriteString("\n")
	}
	b.WriteString(strings.Repeat("─", 72))
	b.WriteString("\n\n")
	if n.Content != "" {
		b.WriteString(n.Content)
	} else {
		b.WriteString(n.Summary)
	}
	b.WriteString("\n")
	return b.String()
}
