package ui

import "github.com/zapidan/newsletter-hub-sub011/internal/trigger"

// Observer watches the sentinel row at the bottom of the list and feeds
// visibility transitions into the load trigger. The margin extends the
// viewport downward so a load starts shortly before the sentinel scrolls
// into view.
type Observer struct {
	trigger   *trigger.Service
	margin    int
	connected bool
	visible   bool
}

// NewObserver creates an observer over the given trigger. Margin is in
// rows; negative values are treated as zero.
func NewObserver(t *trigger.Service, margin int) *Observer {
	if margin < 0 {
		margin = 0
	}
	return &Observer{trigger: t, margin: margin}
}

// Connect starts observation and enables the trigger.
func (o *Observer) Connect() {
	if o.connected {
		return
	}
	o.connected = true
	o.visible = false
	o.trigger.Enable()
}

// Disconnect stops observation and disables the trigger. Idempotent.
func (o *Observer) Disconnect() {
	if !o.connected {
		return
	}
	o.connected = false
	o.visible = false
	o.trigger.Disable()
}

// Evaluate recomputes sentinel visibility for the current scroll position
// and reports a transition to the trigger. top is the first visible row,
// height the number of visible rows, row the sentinel's position.
func (o *Observer) Evaluate(top, height, row int) {
	if !o.connected {
		return
	}
	visible := row >= top && row < top+height+o.margin
	if visible == o.visible {
		return
	}
	o.visible = visible
	o.trigger.HandleVisibility(visible)
}
