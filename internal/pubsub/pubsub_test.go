package pubsub

import (
	"sync"
	"testing"
	"time"

	"github.com/draftroom/bestball-draft/internal/models"
)

func TestSubscribeAndUnsubscribe(t *testing.T) {
	ps := New()

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()
	if ch1 == nil || ch2 == nil {
		t.Fatal("Subscribe() returned nil channel")
	}

	ps.Unsubscribe(ch1)

	ps.mu.RLock()
	n := len(ps.subscribers)
	ps.mu.RUnlock()
	if n != 1 {
		t.Fatalf("expected 1 subscriber after unsubscribe, got %d", n)
	}

	// The removed channel must be closed.
	select {
	case _, ok := <-ch1:
		if ok {
			t.Error("channel should be closed after unsubscribe")
		}
	default:
		t.Error("channel should be closed and readable")
	}
}

func TestPublishReachesEverySubscriber(t *testing.T) {
	ps := New()
	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()

	pick := &models.Pick{
		PickNumber: 7,
		Player:     &models.Player{ID: "p1", Name: "Puka Nacua", Position: models.PositionWR},
	}
	ps.Publish(NewPickEvent(pick))

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			if received.Type != EventPick {
				t.Errorf("subscriber %d: type = %s, want %s", i, received.Type, EventPick)
			}
			if received.Payload["playerId"] != "p1" {
				t.Errorf("subscriber %d: payload = %v", i, received.Payload)
			}
			if received.Payload["pickNumber"] != 7 {
				t.Errorf("subscriber %d: pickNumber = %v, want 7", i, received.Payload["pickNumber"])
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}

func TestPublishNoSubscribers(t *testing.T) {
	ps := New()
	// Must not panic or block.
	ps.Publish(NewResetEvent())
}

func TestPublishDropsWhenChannelFull(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	// Subscriber buffer is 10; anything past that is dropped, not blocked on.
	for i := 0; i < 15; i++ {
		ps.Publish(NewResetEvent())
	}

	count := 0
	for {
		select {
		case <-ch:
			count++
		default:
			if count != 10 {
				t.Fatalf("expected 10 buffered events, got %d", count)
			}
			return
		}
	}
}

func TestQueueEventPayload(t *testing.T) {
	ps := New()
	ch := ps.Subscribe()

	ps.Publish(NewQueueEvent("user-1", []string{"a", "b"}))

	select {
	case received := <-ch:
		if received.Type != EventQueueUpdate {
			t.Fatalf("type = %s, want %s", received.Type, EventQueueUpdate)
		}
		if received.Payload["userId"] != "user-1" {
			t.Fatalf("userId = %v", received.Payload["userId"])
		}
		ids, ok := received.Payload["playerIds"].([]interface{})
		if !ok || len(ids) != 2 || ids[0] != "a" || ids[1] != "b" {
			t.Fatalf("playerIds = %v", received.Payload["playerIds"])
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event")
	}
}

func TestConcurrentSubscribeUnsubscribe(t *testing.T) {
	ps := New()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			ch := ps.Subscribe()
			time.Sleep(time.Millisecond)
			ps.Unsubscribe(ch)
		}()
		go func() {
			defer wg.Done()
			ps.Publish(NewResetEvent())
		}()
	}
	wg.Wait()

	ps.mu.RLock()
	n := len(ps.subscribers)
	ps.mu.RUnlock()
	if n != 0 {
		t.Fatalf("expected 0 subscribers after all unsubscribed, got %d", n)
	}
}

// stubUpstream implements Upstream for testing the bridge path.
type stubUpstream struct {
	mu          sync.Mutex
	published   []Event
	subscribers []chan Event
}

func (s *stubUpstream) Publish(event Event) {
	s.mu.Lock()
	s.published = append(s.published, event)
	subs := make([]chan Event, len(s.subscribers))
	copy(subs, s.subscribers)
	s.mu.Unlock()

	for _, ch := range subs {
		select {
		case ch <- event:
		default:
		}
	}
}

func (s *stubUpstream) Subscribe() chan Event {
	s.mu.Lock()
	defer s.mu.Unlock()
	ch := make(chan Event, 100)
	s.subscribers = append(s.subscribers, ch)
	return ch
}

func (s *stubUpstream) Unsubscribe(ch chan Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, sub := range s.subscribers {
		if sub == ch {
			close(ch)
			s.subscribers = append(s.subscribers[:i], s.subscribers[i+1:]...)
			break
		}
	}
}

func (s *stubUpstream) publishedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.published)
}

func TestPublishRoutesThroughUpstream(t *testing.T) {
	upstream := &stubUpstream{}
	ps := NewWithUpstream(upstream)

	// Let the bridge goroutine attach its subscription.
	time.Sleep(10 * time.Millisecond)

	ch := ps.Subscribe()
	ps.Publish(NewResetEvent())

	time.Sleep(10 * time.Millisecond)
	if upstream.publishedCount() != 1 {
		t.Fatalf("upstream saw %d events, want 1", upstream.publishedCount())
	}

	// The event comes back to local subscribers via the broker.
	select {
	case received := <-ch:
		if received.Type != EventReset {
			t.Fatalf("type = %s, want %s", received.Type, EventReset)
		}
	case <-time.After(100 * time.Millisecond):
		t.Fatal("timeout waiting for event from upstream")
	}
}

func TestUpstreamEventsReachLocalSubscribers(t *testing.T) {
	upstream := &stubUpstream{}
	ps := NewWithUpstream(upstream)

	time.Sleep(10 * time.Millisecond)

	ch1 := ps.Subscribe()
	ch2 := ps.Subscribe()

	// Another instance publishes straight to the broker.
	upstream.Publish(Event{Type: EventPlayerAdded})

	for i, ch := range []chan Event{ch1, ch2} {
		select {
		case received := <-ch:
			if received.Type != EventPlayerAdded {
				t.Errorf("subscriber %d: type = %s", i, received.Type)
			}
		case <-time.After(100 * time.Millisecond):
			t.Errorf("subscriber %d: timeout waiting for event", i)
		}
	}
}
