// Package queue maintains a user's ranked list of not-yet-drafted players
// and the delayed reorder gestures the draft room UI exposes: drag-and-drop,
// single-tap move-up, and double-tap move-to-top.
package queue

import (
	"sync"
	"time"

	"github.com/draftroom/bestball-draft/internal/models"
)

// DefaultMoveDelay is the contract window for the tap-to-reorder gesture:
// a single tap waits this long before the one-step move, and a second tap
// inside the window upgrades it to a move-to-top delayed by a fresh window.
const DefaultMoveDelay = 700 * time.Millisecond

type pendingStage int

const (
	stageNone pendingStage = iota
	stageSingle
	stageDouble
)

// Options configures a Queue.
type Options struct {
	// MoveDelay overrides DefaultMoveDelay; tests use short windows.
	MoveDelay time.Duration
	// OnChange, when set, receives a snapshot of the queue after every
	// mutation that changed the order, including delayed timer fires.
	// It is called without the queue lock held.
	OnChange func([]models.Player)
}

// Queue is an ordered, duplicate-free list of players keyed by player ID.
// All state, including the pending gesture timer, belongs to the instance:
// two queues in different draft rooms can never interfere.
type Queue struct {
	mu       sync.Mutex
	entries  []models.Player
	delay    time.Duration
	onChange func([]models.Player)
	closed   bool

	// At most one delayed gesture is live at any time. gen guards
	// against stale timer fires after a cancel or re-arm.
	pendingID    string
	pendingStage pendingStage
	pendingTimer *time.Timer
	gen          int
}

// New returns a queue with the default gesture delay.
func New() *Queue {
	return NewWithOptions(Options{})
}

// NewWithOptions returns a queue configured by opts.
func NewWithOptions(opts Options) *Queue {
	delay := opts.MoveDelay
	if delay <= 0 {
		delay = DefaultMoveDelay
	}
	return &Queue{
		delay:    delay,
		onChange: opts.OnChange,
	}
}

// Players returns a copy of the current queue order.
func (q *Queue) Players() []models.Player {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.snapshotLocked()
}

// Len returns the number of queued players.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}

// HasPending reports whether a delayed gesture is currently armed.
func (q *Queue) HasPending() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.pendingStage != stageNone
}

// Enqueue appends the player unless it is already queued. Queueing an
// already-queued player is a no-op, not an error.
func (q *Queue) Enqueue(p models.Player) {
	q.mu.Lock()
	if q.closed || q.indexLocked(p.ID) >= 0 {
		q.mu.Unlock()
		return
	}
	q.entries = append(q.entries, p)
	snap := q.snapshotLocked()
	q.mu.Unlock()
	q.notify(snap)
}

// Dequeue removes the player by ID. Removing an absent player is a no-op:
// the UI races with the pick stream and that race is harmless. A pending
// gesture for the removed player is cancelled.
func (q *Queue) Dequeue(playerID string) {
	q.mu.Lock()
	idx := q.indexLocked(playerID)
	if idx < 0 {
		q.mu.Unlock()
		return
	}
	if q.pendingID == playerID {
		q.cancelPendingLocked()
	}
	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)
	snap := q.snapshotLocked()
	q.mu.Unlock()
	q.notify(snap)
}

// MoveToIndex applies a drag-and-drop result: the player leaves its
// current row and lands so that it sits immediately above the row that was
// at targetIndex, regardless of where the drag started. Dragging from
// above the target shifts the effective insertion point down by one to
// compensate for the removal.
func (q *Queue) MoveToIndex(playerID string, targetIndex int) {
	q.mu.Lock()
	idx := q.indexLocked(playerID)
	if idx < 0 {
		q.mu.Unlock()
		return
	}

	p := q.entries[idx]
	q.entries = append(q.entries[:idx], q.entries[idx+1:]...)

	if idx < targetIndex {
		targetIndex--
	}
	if targetIndex < 0 {
		targetIndex = 0
	}
	if targetIndex > len(q.entries) {
		targetIndex = len(q.entries)
	}

	q.entries = append(q.entries, models.Player{})
	copy(q.entries[targetIndex+1:], q.entries[targetIndex:])
	q.entries[targetIndex] = p

	snap := q.snapshotLocked()
	q.mu.Unlock()
	q.notify(snap)
}

// MoveToTop immediately reinserts the player at index 0. A no-op if the
// player is absent or already on top.
func (q *Queue) MoveToTop(playerID string) {
	q.mu.Lock()
	changed := q.moveToTopLocked(playerID)
	snap := q.snapshotLocked()
	q.mu.Unlock()
	if changed {
		q.notify(snap)
	}
}

// RequestMoveUp arms the delayed reorder gesture for the player. Nothing
// moves immediately:
//   - if the window elapses untouched, the player swaps with the entry
//     directly above it;
//   - a second request for the same player inside the window cancels the
//     single step and arms a move-to-top, itself delayed by a fresh
//     window so the interaction stays perceivable;
//   - a request for a different player cancels whatever was pending and
//     arms a new single step for that player.
//
// The gesture is never armed for the top row or for an absent player.
func (q *Queue) RequestMoveUp(playerID string) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if q.closed {
		return
	}
	idx := q.indexLocked(playerID)
	if idx <= 0 {
		return
	}

	if q.pendingStage != stageNone && q.pendingID == playerID {
		// Second tap: upgrade to move-to-top with a fresh window. Further
		// taps keep restarting the window.
		q.cancelPendingLocked()
		q.armLocked(playerID, stageDouble)
		return
	}

	q.cancelPendingLocked()
	q.armLocked(playerID, stageSingle)
}

// Close cancels any pending gesture and rejects further mutations. It must
// be called when the owning session goes away so a stale timer can never
// act on a dead queue.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.cancelPendingLocked()
	q.closed = true
}

func (q *Queue) armLocked(playerID string, stage pendingStage) {
	q.gen++
	gen := q.gen
	q.pendingID = playerID
	q.pendingStage = stage
	q.pendingTimer = time.AfterFunc(q.delay, func() {
		q.fire(gen)
	})
}

func (q *Queue) cancelPendingLocked() {
	if q.pendingTimer != nil {
		q.pendingTimer.Stop()
		q.pendingTimer = nil
	}
	q.pendingID = ""
	q.pendingStage = stageNone
	q.gen++
}

// fire runs when a gesture window elapses. The generation check drops
// fires that lost a race with a cancel or re-arm.
func (q *Queue) fire(gen int) {
	q.mu.Lock()
	if q.closed || gen != q.gen || q.pendingStage == stageNone {
		q.mu.Unlock()
		return
	}

	playerID := q.pendingID
	stage := q.pendingStage
	q.pendingID = ""
	q.pendingStage = stageNone
	q.pendingTimer = nil

	var changed bool
	switch stage {
	case stageSingle:
		changed = q.moveUpLocked(playerID)
	case stageDouble:
		changed = q.moveToTopLocked(playerID)
	}

	snap := q.snapshotLocked()
	q.mu.Unlock()
	if changed {
		q.notify(snap)
	}
}

// moveUpLocked swaps the player with the entry directly above it.
func (q *Queue) moveUpLocked(playerID string) bool {
	idx := q.indexLocked(playerID)
	if idx <= 0 {
		return false
	}
	q.entries[idx-1], q.entries[idx] = q.entries[idx], q.entries[idx-1]
	return true
}

func (q *Queue) moveToTopLocked(playerID string) bool {
	idx := q.indexLocked(playerID)
	if idx <= 0 {
		return false
	}
	p := q.entries[idx]
	copy(q.entries[1:idx+1], q.entries[:idx])
	q.entries[0] = p
	return true
}

func (q *Queue) indexLocked(playerID string) int {
	for i := range q.entries {
		if q.entries[i].ID == playerID {
			return i
		}
	}
	return -1
}

func (q *Queue) snapshotLocked() []models.Player {
	snap := make([]models.Player, len(q.entries))
	copy(snap, q.entries)
	return snap
}

func (q *Queue) notify(snap []models.Player) {
	if q.onChange != nil {
		q.onChange(snap)
	}
}
