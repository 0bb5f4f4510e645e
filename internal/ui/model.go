package ui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/zapidan/newsletter-hub-sub011/internal/collection"
	"github.com/zapidan/newsletter-hub-sub011/internal/config"
	"github.com/zapidan/newsletter-hub-sub011/internal/domain"
	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
	"github.com/zapidan/newsletter-hub-sub011/internal/feed"
	"github.com/zapidan/newsletter-hub-sub011/internal/logging"
	"github.com/zapidan/newsletter-hub-sub011/internal/navigation"
	"github.com/zapidan/newsletter-hub-sub011/internal/trigger"
	"github.com/zapidan/newsletter-hub-sub011/internal/ui/views"
)

type viewMode int

const (
	modeList viewMode = iota
	modeDetail
)

// Model represents the UI state
type Model struct {
	bus       eventbus.EventBus
	config    *config.Config
	configSvc config.ConfigService
	logger    zerolog.Logger

	coll    *collection.Service
	trig    *trigger.Service
	nav     *navigation.Service
	fetcher feed.Fetcher

	observer *Observer
	renderer *views.Renderer
	pager    *BodyPager
	keys     KeyMap
	help     help.Model
	spinner  spinner.Model

	width  int
	height int

	mode     viewMode
	selected int // list cursor row
	offset   int // first visible list row

	statusMsg string
	errMsg    string

	// wantFetch is set by the trigger callback and by explicit load
	// requests; drained into at most one fetch command per update.
	wantFetch     bool
	pendingNext   bool // advance the reading cursor once the next page lands
	tickScheduled bool
	inPagerMode   bool

	program *tea.Program
}

// NewModel creates a new UI model
func NewModel(bus eventbus.EventBus, cfg *config.Config, configSvc config.ConfigService,
	coll *collection.Service, fetcher feed.Fetcher) *Model {

	m := &Model{
		bus:       bus,
		config:    cfg,
		configSvc: configSvc,
		logger:    logging.NewLogger("ui"),
		coll:      coll,
		fetcher:   fetcher,
		renderer:  views.NewRenderer(),
		pager:     NewBodyPager(),
		keys:      DefaultKeyMap(),
		help:      help.New(),
	}

	m.trig = trigger.NewService(bus, coll, trigger.Options{
		MinLoadInterval: cfg.Viewer.MinLoadInterval,
		OnLoadMore:      func() { m.wantFetch = true },
	})
	m.nav = navigation.NewService(coll)
	m.observer = NewObserver(m.trig, cfg.Viewer.SentinelMargin)

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	m.spinner = sp

	return m
}

// SetProgram sets the program reference for terminal management
func (m *Model) SetProgram(p *tea.Program) {
	m.program = p
	m.pager.SetProgram(p)
}

// Init returns an initial command
func (m *Model) Init() tea.Cmd {
	m.observer.Connect()
	// Load the first page without waiting for a sentinel crossing
	m.wantFetch = true
	return tea.Batch(m.spinner.Tick, m.maybeFetch())
}

// Update handles messages
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.clampScroll()
		m.evaluateSentinel()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)

	case cooldownTickMsg:
		m.tickScheduled = false
		m.trig.HandleTick()
		m.evaluateSentinel()

	case pageLoadedMsg:
		m.coll.Complete(msg.handle, msg.page)
		m.errMsg = ""
		m.trig.WindowChanged()
		if m.pendingNext {
			m.pendingNext = false
			if id, ok := m.nav.NavigateToNext(); ok {
				m.coll.SetRead(id, true)
			}
		}
		m.clampScroll()
		m.evaluateSentinel()

	case pageFailedMsg:
		m.coll.Fail(msg.handle, msg.err)
		m.pendingNext = false
		m.errMsg = "load failed"
		m.logger.Warn().Err(msg.err).Msg("page load failed")

	case pagerDoneMsg:
		m.inPagerMode = false
		if msg.err != nil {
			m.errMsg = "pager failed"
			m.logger.Warn().Err(msg.err).Msg("pager failed")
		}

	case EventMsg:
		m.handleEvent(msg.Event)

	case tea.KeyMsg:
		if m.inPagerMode {
			break
		}
		var cmd tea.Cmd
		if m.mode == modeDetail {
			cmd = m.handleDetailKey(msg)
		} else {
			cmd = m.handleListKey(msg)
		}
		cmds = append(cmds, cmd)
	}

	if cmd := m.maybeFetch(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	if cmd := m.scheduleCooldownTick(); cmd != nil {
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func (m *Model) handleListKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()

	case key.Matches(msg, m.keys.Up):
		m.moveSelection(-1)

	case key.Matches(msg, m.keys.Down):
		m.moveSelection(1)

	case key.Matches(msg, m.keys.Top):
		m.selected = 0
		m.clampScroll()
		m.evaluateSentinel()

	case key.Matches(msg, m.keys.Bottom):
		m.selected = m.coll.Len() - 1
		m.clampScroll()
		m.evaluateSentinel()

	case key.Matches(msg, m.keys.Open):
		if item := m.coll.At(m.selected); item != nil {
			m.nav.SetTarget(item.ID)
			m.coll.SetRead(item.ID, true)
			m.mode = modeDetail
		}

	case key.Matches(msg, m.keys.Pager):
		if item := m.coll.At(m.selected); item != nil {
			m.coll.SetRead(item.ID, true)
			return m.pagerCmd(item)
		}

	case key.Matches(msg, m.keys.ToggleRead):
		if item := m.coll.At(m.selected); item != nil {
			m.coll.SetRead(item.ID, !item.Read)
		}

	case key.Matches(msg, m.keys.FilterUnread):
		m.setFilter(domain.FilterUnread)

	case key.Matches(msg, m.keys.FilterAll):
		m.setFilter(domain.FilterAll)

	case key.Matches(msg, m.keys.FilterArchived):
		m.setFilter(domain.FilterArchived)

	case key.Matches(msg, m.keys.Sort):
		m.cycleSort()

	case key.Matches(msg, m.keys.Reload):
		m.resetWindow(m.coll.Query())

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model) handleDetailKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Quit), key.Matches(msg, m.keys.Back):
		if i := m.nav.Cursor().Index; i >= 0 {
			m.selected = i
			m.clampScroll()
		}
		m.nav.ClearTarget()
		m.mode = modeList
		m.evaluateSentinel()

	case key.Matches(msg, m.keys.Prev):
		if id, ok := m.nav.NavigateToPrevious(); ok {
			m.coll.SetRead(id, true)
		}

	case key.Matches(msg, m.keys.Next):
		if id, ok := m.nav.NavigateToNext(); ok {
			m.coll.SetRead(id, true)
		} else if m.nav.Cursor().AtBoundary {
			// Load the next page, then advance once it lands
			m.pendingNext = true
			m.wantFetch = true
		}

	case key.Matches(msg, m.keys.Pager):
		if item := m.nav.Current(); item != nil {
			return m.pagerCmd(item)
		}

	case key.Matches(msg, m.keys.ToggleRead):
		if item := m.nav.Current(); item != nil {
			m.coll.SetRead(item.ID, !item.Read)
		}

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return nil
}

func (m *Model) handleEvent(e eventbus.DomainEvent) {
	switch e := e.(type) {
	case eventbus.ErrorEvent:
		m.errMsg = e.Message
	case eventbus.ConfigSavedEvent:
		m.statusMsg = "config saved"
	case eventbus.WindowResetEvent:
		m.statusMsg = ""
	}
}

// setFilter switches the active filter, resetting the window.
func (m *Model) setFilter(f domain.Filter) {
	q := m.coll.Query()
	if q.Filter == f {
		return
	}
	q.Filter = f
	m.resetWindow(q)
}

// cycleSort steps through received_at desc, received_at asc, title asc,
// title desc.
func (m *Model) cycleSort() {
	q := m.coll.Query()
	switch {
	case q.SortBy == domain.SortByReceivedAt && q.Desc:
		q.Desc = false
	case q.SortBy == domain.SortByReceivedAt:
		q.SortBy = domain.SortByTitle
		q.Desc = false
	case q.SortBy == domain.SortByTitle && !q.Desc:
		q.Desc = true
	default:
		q.SortBy = domain.SortByReceivedAt
		q.Desc = true
	}
	m.resetWindow(q)
}

// resetWindow discards the loaded window and starts over under query.
func (m *Model) resetWindow(query domain.FilterSort) {
	m.coll.Reset(query)
	m.nav.ClearTarget()
	m.mode = modeList
	m.selected = 0
	m.offset = 0
	m.errMsg = ""
	m.pendingNext = false
	m.trig.WindowChanged()
	m.wantFetch = true
	m.evaluateSentinel()
}

func (m *Model) quit() tea.Cmd {
	m.observer.Disconnect()

	q := m.coll.Query()
	m.config.Viewer.Filter = string(q.Filter)
	m.config.Viewer.SortBy = string(q.SortBy)
	m.config.Viewer.SortDesc = q.Desc
	if err := m.configSvc.Save(m.config); err != nil {
		m.logger.Warn().Err(err).Msg("could not save config")
	}
	return tea.Quit
}

func (m *Model) moveSelection(delta int) {
	m.selected += delta
	m.clampScroll()
	m.evaluateSentinel()
}

// clampScroll keeps the selection in range and scrolled into view.
func (m *Model) clampScroll() {
	maxRow := m.coll.Len() - 1
	if m.selected > maxRow {
		m.selected = maxRow
	}
	if m.selected < 0 {
		m.selected = 0
	}

	h := m.listHeight()
	if h <= 0 {
		return
	}
	if m.selected < m.offset {
		m.offset = m.selected
	}
	if m.selected >= m.offset+h {
		m.offset = m.selected - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

// listHeight is the number of rows available to the list, leaving room
// for the status bar and help line.
func (m *Model) listHeight() int {
	h := m.height - 2
	if m.help.ShowAll {
		h -= 4
	}
	return h
}

// evaluateSentinel reports the sentinel row's visibility to the trigger.
// The sentinel sits directly below the last loaded item.
func (m *Model) evaluateSentinel() {
	m.observer.Evaluate(m.offset, m.listHeight(), m.coll.Len())
}

// maybeFetch drains a pending load request into a fetch command.
func (m *Model) maybeFetch() tea.Cmd {
	if !m.wantFetch {
		return nil
	}
	m.wantFetch = false

	h, ok := m.coll.BeginFetch()
	if !ok {
		return nil
	}
	return m.fetchCmd(h)
}

func (m *Model) fetchCmd(h collection.FetchHandle) tea.Cmd {
	fetcher := m.fetcher
	return func() tea.Msg {
		page, err := fetcher.FetchPage(context.Background(), h.Query, h.Args)
		if err != nil {
			return pageFailedMsg{handle: h, err: err}
		}
		return pageLoadedMsg{handle: h, page: page}
	}
}

// scheduleCooldownTick arms a timer whenever the trigger is cooling so
// the Cooling state is re-evaluated once the interval elapses.
func (m *Model) scheduleCooldownTick() tea.Cmd {
	if m.tickScheduled || m.trig.State() != trigger.StateCooling {
		return nil
	}
	m.tickScheduled = true
	return tea.Tick(m.config.Viewer.MinLoadInterval, func(t time.Time) tea.Msg {
		return cooldownTickMsg(t)
	})
}

func (m *Model) pagerCmd(item *domain.Newsletter) tea.Cmd {
	m.inPagerMode = true
	n := *item
	pager := m.pager
	return func() tea.Msg {
		return pagerDoneMsg{err: pager.Show(&n)}
	}
}
