package ui

import (
	"fmt"
	"strings"

	"github.com/zapidan/newsletter-hub-sub011/internal/ui/views"
)

// View renders the UI
func (m *Model) View() string {
	if m.width == 0 || m.inPagerMode {
		return ""
	}

	var body string
	if m.mode == modeDetail {
		body = m.detailView()
	} else {
		body = m.listView()
	}

	status := m.renderer.StatusBar(views.StatusData{
		Query:      m.coll.Query(),
		WindowSize: m.coll.Len(),
		TotalCount: m.coll.TotalCount(),
		Fetching:   m.coll.IsFetching(),
		Message:    m.statusMsg,
		Err:        m.errMsg,
	}, m.width)

	return body + "\n" + status + "\n" + m.help.View(m.keys)
}

func (m *Model) listView() string {
	h := m.listHeight()
	if h <= 0 {
		return ""
	}

	// One sentinel row sits below the last loaded item
	rowCount := m.coll.Len() + 1

	var lines []string
	for row := m.offset; row < m.offset+h && row < rowCount; row++ {
		if row == m.coll.Len() {
			lines = append(lines, m.sentinelView())
			continue
		}
		item := m.coll.At(row)
		lines = append(lines, m.renderer.ListRow(item, row == m.selected && m.mode == modeList, m.width))
	}

	if m.coll.Len() == 0 && !m.coll.IsFetching() && m.errMsg == "" {
		lines = []string{"", "  no newsletters"}
	}

	// Pad to full height so the status bar stays at the bottom
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) sentinelView() string {
	switch {
	case m.coll.IsFetching():
		return m.renderer.Sentinel(views.SentinelRow{Kind: views.SentinelLoading, Spinner: m.spinner.View()})
	case m.errMsg != "":
		return m.renderer.Sentinel(views.SentinelRow{Kind: views.SentinelError, Message: m.errMsg})
	case m.coll.HasReachedEnd():
		return m.renderer.Sentinel(views.SentinelRow{Kind: views.SentinelEnd})
	default:
		return ""
	}
}

func (m *Model) detailView() string {
	item := m.nav.Current()
	if item == nil {
		return "\n  newsletter no longer loaded (esc to go back)"
	}

	c := m.nav.Cursor()
	pos := fmt.Sprintf("%d of %d", c.Index+1, m.coll.Len())
	if t := m.coll.TotalCount(); t != nil {
		pos = fmt.Sprintf("%d of %d", c.Index+1, *t)
	}

	var nav []string
	if c.HasPrevious {
		nav = append(nav, "[ previous")
	}
	switch {
	case c.HasNext:
		nav = append(nav, "] next")
	case c.AtBoundary && m.pendingNext:
		nav = append(nav, "loading next…")
	case c.AtBoundary:
		nav = append(nav, "] load next")
	}
	if len(nav) > 0 {
		pos += "  ·  " + strings.Join(nav, "  ")
	}

	return m.renderer.Detail(item, pos, m.width, m.listHeight())
}
