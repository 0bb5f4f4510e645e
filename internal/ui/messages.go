package ui

import (
	"time"

	"github.com/zapidan/newsletter-hub-sub011/internal/collection"
	"github.com/zapidan/newsletter-hub-sub011/internal/eventbus"
	"github.com/zapidan/newsletter-hub-sub011/internal/feed"
)

// EventMsg wraps a domain event for the UI
type EventMsg struct {
	Event eventbus.DomainEvent
}

// cooldownTickMsg is sent when the trigger cooldown should be re-evaluated
type cooldownTickMsg time.Time

// pageLoadedMsg carries a fetched page back into the update loop
type pageLoadedMsg struct {
	handle collection.FetchHandle
	page   *feed.Page
}

// pageFailedMsg carries a fetch failure back into the update loop
type pageFailedMsg struct {
	handle collection.FetchHandle
	err    error
}

// pagerDoneMsg signals that the body pager has exited
type pagerDoneMsg struct {
	err error
}
