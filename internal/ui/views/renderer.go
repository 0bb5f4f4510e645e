package views

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
)

// SentinelKind is what the sentinel row displays.
type SentinelKind int

const (
	// SentinelLoading: a page fetch is in flight.
	SentinelLoading SentinelKind = iota

	// SentinelError: the last fetch failed and can be retried.
	SentinelError

	// SentinelEnd: the window covers the whole collection.
	SentinelEnd
)

// SentinelRow is the load indicator rendered below the last item.
type SentinelRow struct {
	Kind    SentinelKind
	Spinner string
	Message string
}

// StatusData is what the status bar shows.
type StatusData struct {
	Query      domain.FilterSort
	WindowSize int
	TotalCount *int
	Fetching   bool
	Message    string
	Err        string
}

// Renderer draws the list, detail, and status bar.
type Renderer struct {
	styles *Styles
}

// NewRenderer creates a new view renderer
func NewRenderer() *Renderer {
	return &Renderer{styles: NewStyles()}
}

// ListRow renders one newsletter line for the list view.
func (r *Renderer) ListRow(n *domain.Newsletter, selected bool, width int) string {
	marker := " "
	titleStyle := r.styles.Dim
	if !n.Read {
		marker = "●"
		titleStyle = r.styles.Unread
	}
	if n.Archived {
		marker = "⊞"
	}

	date := n.ReceivedAt.Format("Jan 02")
	source := truncate(n.SourceName, 20)
	title := n.Title

	// marker + padding + source + date take fixed room; title gets the rest
	titleWidth := width - 2 - 22 - 8
	if titleWidth < 10 {
		titleWidth = 10
	}
	title = truncate(title, titleWidth)

	line := fmt.Sprintf("%s %s %s %s",
		marker,
		r.styles.Source.Render(padRight(source, 20)),
		titleStyle.Render(padRight(title, titleWidth)),
		r.styles.Date.Render(date),
	)

	if selected {
		line = r.styles.SelectionBg.Render(padLine(line, width))
	}
	return line
}

// Sentinel renders the load indicator row.
func (r *Renderer) Sentinel(s SentinelRow) string {
	switch s.Kind {
	case SentinelLoading:
		return r.styles.Sentinel.Render(fmt.Sprintf("  %s loading more…", s.Spinner))
	case SentinelError:
		return r.styles.StatusError.Render(fmt.Sprintf("  ✗ %s (r to retry)", s.Message))
	case SentinelEnd:
		return r.styles.EndMarker.Render("  — end of newsletters —")
	default:
		return ""
	}
}

// Detail renders the reading view for one newsletter.
func (r *Renderer) Detail(n *domain.Newsletter, position string, width, height int) string {
	var b strings.Builder

	b.WriteString(r.styles.Title.Render(n.Title))
	b.WriteString("\n")

	meta := n.SourceName
	if n.Author != "" {
		meta += " · " + n.Author
	}
	meta += " · " + n.ReceivedAt.Format("Mon, 02 Jan 2006 15:04")
	b.WriteString(r.styles.DetailMeta.Render(meta))
	b.WriteString("\n")
	if n.URL != "" {
		b.WriteString(r.styles.Dim.Render(n.URL))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	body := n.Content
	if body == "" {
		body = n.Summary
	}
	b.WriteString(wrap(body, width-4))
	b.WriteString("\n\n")
	b.WriteString(r.styles.Dim.Render(position))

	box := r.styles.DetailBox.Width(width - 2)
	if height > 2 {
		box = box.MaxHeight(height)
	}
	return box.Render(b.String())
}

// StatusBar renders the bottom status line.
func (r *Renderer) StatusBar(s StatusData, width int) string {
	var parts []string

	parts = append(parts, r.styles.Filter.Render(fmt.Sprintf("[%s]", s.Query.Filter)))

	dir := "↓"
	if !s.Query.Desc {
		dir = "↑"
	}
	parts = append(parts, r.styles.Status.Render(fmt.Sprintf("sort:%s%s", s.Query.SortBy, dir)))

	count := fmt.Sprintf("%d loaded", s.WindowSize)
	if s.TotalCount != nil {
		count = fmt.Sprintf("%d/%d", s.WindowSize, *s.TotalCount)
	}
	parts = append(parts, r.styles.Status.Render(count))

	if s.Fetching {
		parts = append(parts, r.styles.Status.Render("fetching…"))
	}
	if s.Err != "" {
		parts = append(parts, r.styles.StatusError.Render(s.Err))
	} else if s.Message != "" {
		parts = append(parts, r.styles.Status.Render(s.Message))
	}

	line := strings.Join(parts, "  ")
	return padLine(line, width)
}

func truncate(s string, max int) string {
	if max <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}

func padRight(s string, width int) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}
	return s + strings.Repeat(" ", n)
}

func padLine(line string, width int) string {
	n := width - lipgloss.Width(line)
	if n <= 0 {
		return line
	}
	return line + strings.Repeat(" ", n)
}

// wrap breaks text into lines no longer than width, preserving paragraphs.
func wrap(text string, width int) string {
	if width < 20 {
		width = 20
	}
	var out []string
	for _, para := range strings.Split(text, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			if len(line)+1+len(w) > width {
				out = append(out, line)
				line = w
				continue
			}
			line += " " + w
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}
