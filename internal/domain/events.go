package domain

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventPageLoaded      EventType = "PageLoaded"
	EventPageLoadFailed  EventType = "PageLoadFailed"
	EventWindowReset     EventType = "WindowReset"
	EventLoadRequested   EventType = "LoadRequested"
	EventTriggerChanged  EventType = "TriggerChanged"
	EventNewsletterRead  EventType = "NewsletterRead"
	EventError           EventType = "Error"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// PageLoadedEvent is emitted when a page of newsletters has been appended
// to the loaded window.
type PageLoadedEvent struct {
	Appended   int
	WindowSize int
	HasNext    bool
	TotalCount *int
}

func (e PageLoadedEvent) Type() EventType { return EventPageLoaded }

// PageLoadFailedEvent is emitted when a page fetch fails. The window is
// unchanged; the failure is recoverable by re-arming the trigger.
type PageLoadFailedEvent struct {
	Err error
}

func (e PageLoadFailedEvent) Type() EventType { return EventPageLoadFailed }

// WindowResetEvent is emitted when the filter/sort changes and the loaded
// window starts over as a new identity.
type WindowResetEvent struct {
	Query FilterSort
}

func (e WindowResetEvent) Type() EventType { return EventWindowReset }

// LoadRequestedEvent is emitted when the load trigger decides more content
// should be fetched.
type LoadRequestedEvent struct{}

func (e LoadRequestedEvent) Type() EventType { return EventLoadRequested }

// TriggerChangedEvent is emitted on load-trigger state transitions.
type TriggerChangedEvent struct {
	From string
	To   string
}

func (e TriggerChangedEvent) Type() EventType { return EventTriggerChanged }

// NewsletterReadEvent is emitted when an item's local read flag changes.
type NewsletterReadEvent struct {
	ID   string
	Read bool
}

func (e NewsletterReadEvent) Type() EventType { return EventNewsletterRead }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Query FilterSort
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
