package task

import "sync"

// Event is a progress or result notification emitted during a batch
// operation.
type Event any

type (
	// EventProgress reports position within a batch.
	EventProgress struct {
		Step       string
		Message    string
		Current    int
		Total      int
		Percentage float64
	}

	// EventResult reports the outcome of a single item.
	EventResult struct {
		Message string
		Subject string
		Result  string
		Success bool
	}

	// EventDone reports that the whole batch finished or was stopped.
	EventDone struct {
		Message string
		Stopped bool
	}
)

// NewEventProgress creates an [EventProgress] with the percentage derived
// from current and total.
func NewEventProgress(current, total int, step, message string) EventProgress {
	var pct float64
	if total > 0 {
		pct = float64(current) / float64(total) * 100
	}

	return EventProgress{
		Current:    current,
		Total:      total,
		Percentage: pct,
		Step:       step,
		Message:    message,
	}
}

// Broadcaster fans events out to subscribed channels. Delivery is
// fire-and-forget: events are dropped for subscribers that cannot keep up,
// so a slow or absent consumer never blocks a batch.
type Broadcaster struct {
	mu        sync.Mutex
	listeners []chan<- Event
}

// Subscribe registers a channel to receive events.
func (b *Broadcaster) Subscribe(ch chan<- Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.listeners = append(b.listeners, ch)
}

// Broadcast sends evt to every subscriber without blocking.
func (b *Broadcaster) Broadcast(evt Event) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, ch := range b.listeners {
		select {
		case ch <- evt:
		default:
		}
	}
}
