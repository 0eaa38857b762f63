package handlers

import (
	"sync"

	"github.com/draftroom/bestball-draft/internal/dal"
	"github.com/draftroom/bestball-draft/internal/logger"
	"github.com/draftroom/bestball-draft/internal/models"
	"github.com/draftroom/bestball-draft/internal/pubsub"
	"github.com/draftroom/bestball-draft/internal/queue"
)

// QueueManager owns one reorder queue per authenticated user. Queues are
// created lazily, hydrated from the persisted order, and every change is
// written back and broadcast.
type QueueManager struct {
	mu     sync.Mutex
	dal    dal.DraftDAL
	ps     *pubsub.PubSub
	queues map[string]*queue.Queue
}

// NewQueueManager creates a QueueManager backed by the given storage.
func NewQueueManager(d dal.DraftDAL, ps *pubsub.PubSub) *QueueManager {
	return &QueueManager{
		dal:    d,
		ps:     ps,
		queues: make(map[string]*queue.Queue),
	}
}

// ForUser returns the user's queue, creating and hydrating it on first
// use. Persisted entries for players that were drafted or removed since
// the last session are silently dropped.
func (qm *QueueManager) ForUser(userID string) (*queue.Queue, error) {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	if q, ok := qm.queues[userID]; ok {
		return q, nil
	}

	savedIDs, err := qm.dal.LoadQueue(userID)
	if err != nil {
		return nil, err
	}
	state, err := qm.dal.GetState()
	if err != nil {
		return nil, err
	}

	byID := make(map[string]models.Player, len(state.Players))
	for _, p := range state.Players {
		byID[p.ID] = p
	}

	q := queue.NewWithOptions(queue.Options{
		OnChange: func(players []models.Player) {
			ids := make([]string, len(players))
			for i, p := range players {
				ids[i] = p.ID
			}
			if err := qm.dal.SaveQueue(userID, ids); err != nil {
				logger.Error("failed to persist queue", "error", err, "user", userID)
			}
			qm.ps.Publish(pubsub.NewQueueEvent(userID, ids))
		},
	})

	for _, id := range savedIDs {
		p, ok := byID[id]
		if !ok || p.Drafted {
			continue
		}
		q.Enqueue(p)
	}

	qm.queues[userID] = q
	return q, nil
}

// ExpelPlayer removes a drafted player from every live queue.
func (qm *QueueManager) ExpelPlayer(playerID string) {
	qm.mu.Lock()
	queues := make([]*queue.Queue, 0, len(qm.queues))
	for _, q := range qm.queues {
		queues = append(queues, q)
	}
	qm.mu.Unlock()

	for _, q := range queues {
		q.Dequeue(playerID)
	}
}

// Reset closes every live queue and forgets them. The next access per
// user rebuilds from storage.
func (qm *QueueManager) Reset() {
	qm.mu.Lock()
	defer qm.mu.Unlock()

	for _, q := range qm.queues {
		q.Close()
	}
	qm.queues = make(map[string]*queue.Queue)
}

// Close shuts down all queues. Used on server shutdown.
func (qm *QueueManager) Close() {
	qm.Reset()
}
