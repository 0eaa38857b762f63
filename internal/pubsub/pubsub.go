// Package pubsub fans draft events out to in-process subscribers, with an
// optional upstream broker so several server instances share one event
// stream.
package pubsub

import (
	"sync"

	"github.com/draftroom/bestball-draft/internal/logger"
	"github.com/draftroom/bestball-draft/internal/models"
)

// Event types carried on the draft stream.
const (
	EventPick        = "draft:pick"
	EventReset       = "draft:reset"
	EventQueueUpdate = "queue:update"
	EventPlayerAdded = "draft:player_added"
)

// Event represents a pubsub event
type Event struct {
	Type    string                 `json:"type"`
	Payload map[string]interface{} `json:"payload,omitempty"`
}

// NewPickEvent announces a completed pick.
func NewPickEvent(pick *models.Pick) Event {
	return Event{
		Type: EventPick,
		Payload: map[string]interface{}{
			"pickNumber": pick.PickNumber,
			"playerId":   pick.Player.ID,
			"playerName": pick.Player.Name,
			"position":   string(pick.Player.Position),
		},
	}
}

// NewResetEvent announces that the draft was wiped back to its seed state.
func NewResetEvent() Event {
	return Event{Type: EventReset}
}

// NewQueueEvent announces a new queue order for one user.
func NewQueueEvent(userID string, playerIDs []string) Event {
	ids := make([]interface{}, len(playerIDs))
	for i, id := range playerIDs {
		ids[i] = id
	}
	return Event{
		Type: EventQueueUpdate,
		Payload: map[string]interface{}{
			"userId":    userID,
			"playerIds": ids,
		},
	}
}

// Upstream is a broker that broadcasts events across server instances.
type Upstream interface {
	Publish(Event)
	Subscribe() chan Event
	Unsubscribe(chan Event)
}

// PubSub delivers events to local subscriber channels. With an upstream
// configured, publishes route through the broker first and come back via
// the subscription, so every instance sees the same ordering.
type PubSub struct {
	mu          sync.RWMutex
	subscribers []chan Event
	upstream    Upstream
}

// New creates a local-only PubSub.
func New() *PubSub {
	return &PubSub{
		subscribers: []chan Event{},
	}
}

// NewWithUpstream creates a PubSub bridged to an upstream broker. Events
// arriving from the upstream are forwarded to local subscribers.
func NewWithUpstream(upstream Upstream) *PubSub {
	ps := &PubSub{
		subscribers: []chan Event{},
		upstream:    upstream,
	}

	go func() {
		ch := upstream.Subscribe()
		for event := range ch {
			ps.publishLocal(event)
		}
		logger.Debug("pubsub upstream channel closed")
	}()

	return ps
}

// Subscribe adds a subscriber and returns its event channel.
func (ps *PubSub) Subscribe() chan Event {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ch := make(chan Event, 10)
	ps.subscribers = append(ps.subscribers, ch)
	logger.Debug("pubsub subscriber added", "totalSubscribers", len(ps.subscribers))
	return ch
}

// Unsubscribe removes a subscriber and closes its channel.
func (ps *PubSub) Unsubscribe(ch chan Event) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	for i, sub := range ps.subscribers {
		if sub == ch {
			close(ch)
			ps.subscribers = append(ps.subscribers[:i], ps.subscribers[i+1:]...)
			break
		}
	}
}

// Publish sends an event to every subscriber. With an upstream configured
// the event goes through the broker and arrives back via the subscription.
func (ps *PubSub) Publish(event Event) {
	if ps.upstream != nil {
		ps.upstream.Publish(event)
		return
	}
	ps.publishLocal(event)
}

func (ps *PubSub) publishLocal(event Event) {
	ps.mu.RLock()
	subs := make([]chan Event, len(ps.subscribers))
	copy(subs, ps.subscribers)
	ps.mu.RUnlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
			// Slow subscriber, drop rather than block the draft.
		}
	}
}
