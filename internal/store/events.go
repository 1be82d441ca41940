package store

import (
	"log/slog"
	"sync"

	"sixcities/internal/domain"
)

type EventKind string

const (
	EventFavoriteToggled EventKind = "favorite.toggled"
	EventLoggedIn        EventKind = "auth.logged_in"
	EventLoggedOut       EventKind = "auth.logged_out"
	EventCommentPosted   EventKind = "comment.posted"
)

// Event is what containers publish after a successful state change.
type Event struct {
	Kind    EventKind `json:"kind"`
	OfferID string    `json:"offerId,omitempty"`
	// Status is the favorite status that was requested.
	Status bool                `json:"status,omitempty"`
	Offer  *domain.Offer       `json:"offer,omitempty"`
	Review *domain.Review      `json:"review,omitempty"`
	User   *domain.UserProfile `json:"user,omitempty"`
}

type Listener func(Event)

// Bus delivers events synchronously, in subscription order, on the
// publishing goroutine.
type Bus struct {
	mu        sync.RWMutex
	listeners map[EventKind][]Listener
	any       []Listener
	log       *slog.Logger
}

func NewBus(log *slog.Logger) *Bus {
	return &Bus{
		listeners: make(map[EventKind][]Listener),
		log:       log.With("component", "event_bus"),
	}
}

func (b *Bus) On(kind EventKind, l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.listeners[kind] = append(b.listeners[kind], l)
}

// OnAny subscribes to every kind. Any-listeners run after the kind's own.
func (b *Bus) OnAny(l Listener) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.any = append(b.any, l)
}

func (b *Bus) Publish(e Event) {
	b.mu.RLock()
	handlers := make([]Listener, 0, len(b.listeners[e.Kind])+len(b.any))
	handlers = append(handlers, b.listeners[e.Kind]...)
	handlers = append(handlers, b.any...)
	b.mu.RUnlock()

	for _, h := range handlers {
		b.call(h, e)
	}
}

func (b *Bus) call(h Listener, e Event) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Error("event listener panicked", "kind", e.Kind, "panic", r)
		}
	}()
	h(e)
}
