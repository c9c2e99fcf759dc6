package interaction

// Event is a pointer or scroll record produced during the input poll phase
type Event interface {
	event()
}

// PointerDown is a left-button press at a cursor position
type PointerDown struct {
	X, Y float64
}

// PointerUp is a left-button release
type PointerUp struct{}

// PointerMove is a cursor motion; Shift carries the modifier state at the time
type PointerMove struct {
	X, Y  float64
	Shift bool
}

// Scroll is a wheel movement with the cursor position when it happened
type Scroll struct {
	YOffset float64
	CursorX float64
	CursorY float64
}

func (PointerDown) event() {}
func (PointerUp) event()   {}
func (PointerMove) event() {}
func (Scroll) event()      {}

// EventQueue collects events pushed by window callbacks until the loop drains them.
// Callbacks and drains run on the same thread, so no locking is needed.
type EventQueue struct {
	events []Event
}

// Push appends an event
func (q *EventQueue) Push(ev Event) {
	q.events = append(q.events, ev)
}

// Drain returns all queued events in order and empties the queue
func (q *EventQueue) Drain() []Event {
	if len(q.events) == 0 {
		return nil
	}
	out := q.events
	q.events = nil
	return out
}

// Len returns the number of queued events
func (q *EventQueue) Len() int {
	return len(q.events)
}
