package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/draftroom/bestball-draft/internal/auth"
	"github.com/draftroom/bestball-draft/internal/dal"
	"github.com/draftroom/bestball-draft/internal/draft"
	"github.com/draftroom/bestball-draft/internal/logger"
	"github.com/draftroom/bestball-draft/internal/models"
	"github.com/draftroom/bestball-draft/internal/pubsub"
	"github.com/draftroom/bestball-draft/internal/queue"
)

// APIHandlers contains all API handler methods
type APIHandlers struct {
	dal    dal.DraftDAL
	pubsub *pubsub.PubSub
	cfg    draft.Config
	queues *QueueManager
}

// NewAPIHandlers creates a new API handlers instance
func NewAPIHandlers(d dal.DraftDAL, ps *pubsub.PubSub, cfg draft.Config) *APIHandlers {
	return &APIHandlers{
		dal:    d,
		pubsub: ps,
		cfg:    cfg,
		queues: NewQueueManager(d, ps),
	}
}

// Queues exposes the queue manager so the server can close it on shutdown.
func (h *APIHandlers) Queues() *QueueManager {
	return h.queues
}

func writeJSON(w http.ResponseWriter, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(v)
}

// GetDraftState returns the current draft state
func (h *APIHandlers) GetDraftState(w http.ResponseWriter, r *http.Request) {
	state, err := h.dal.GetState()
	if err != nil {
		logger.Error("failed to get draft state", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, state)
}

// DraftPick records the next overall pick for the requested player.
func (h *APIHandlers) DraftPick(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		logger.Warn("failed to decode pick request", "error", err)
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if req.PlayerID == "" {
		http.Error(w, "playerId is required", http.StatusBadRequest)
		return
	}

	pick, err := h.dal.MakePick(req.PlayerID)
	if err != nil {
		logger.Warn("pick rejected", "error", err, "player_id", req.PlayerID)
		status := http.StatusBadRequest
		if errors.Is(err, dal.ErrPlayerNotFound) {
			status = http.StatusNotFound
		}
		if errors.Is(err, dal.ErrAlreadyDrafted) || errors.Is(err, dal.ErrDraftComplete) {
			status = http.StatusConflict
		}
		http.Error(w, err.Error(), status)
		return
	}

	logger.Info("pick made", "pick_number", pick.PickNumber, "player", pick.Player.Name)

	// Drafted players leave every user's queue.
	h.queues.ExpelPlayer(req.PlayerID)
	h.pubsub.Publish(pubsub.NewPickEvent(pick))

	writeJSON(w, pick)
}

// ResetDraft resets the draft to initial state
func (h *APIHandlers) ResetDraft(w http.ResponseWriter, r *http.Request) {
	logger.Info("resetting draft")
	if err := h.dal.Reset(); err != nil {
		logger.Error("failed to reset draft", "error", err)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.queues.Reset()
	h.pubsub.Publish(pubsub.NewResetEvent())

	writeJSON(w, map[string]bool{"ok": true})
}

// GetRoster assembles a participant's picks into the slot template.
// The participant query parameter selects the seat.
func (h *APIHandlers) GetRoster(w http.ResponseWriter, r *http.Request) {
	idx, err := strconv.Atoi(r.URL.Query().Get("participant"))
	if err != nil {
		http.Error(w, "participant must be a seat index", http.StatusBadRequest)
		return
	}

	state, err := h.dal.GetState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	roster, err := draft.AssignRoster(state.Picks, idx, h.cfg.ParticipantCount, h.cfg.SlotTemplate)
	if err != nil {
		if errors.Is(err, draft.ErrInvalidArgument) {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, warning := range roster.Warnings {
		logger.Warn("inconsistent pick excluded from roster", "pick_number", warning.PickNumber, "reason", warning.Reason)
	}

	writeJSON(w, roster)
}

// GetPositionMix returns the position split of made picks. With a
// participant parameter it covers one seat's picks, otherwise the whole
// draft. A through parameter limits the view to pick numbers at or below
// it, for round-by-round trackers.
func (h *APIHandlers) GetPositionMix(w http.ResponseWriter, r *http.Request) {
	state, err := h.dal.GetState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	picks := state.Picks

	if through := r.URL.Query().Get("through"); through != "" {
		limit, err := strconv.Atoi(through)
		if err != nil || limit < 0 {
			http.Error(w, "through must be a pick number", http.StatusBadRequest)
			return
		}
		var limited []models.Pick
		for _, p := range picks {
			if p.PickNumber <= limit {
				limited = append(limited, p)
			}
		}
		picks = limited
	}

	if participant := r.URL.Query().Get("participant"); participant != "" {
		idx, err := strconv.Atoi(participant)
		if err != nil || idx < 0 || idx >= h.cfg.ParticipantCount {
			http.Error(w, "participant must be a seat index", http.StatusBadRequest)
			return
		}
		var mine []models.Pick
		for _, p := range picks {
			owner, err := draft.ResolveParticipant(p.PickNumber, h.cfg.ParticipantCount)
			if err != nil {
				continue
			}
			if owner == idx {
				mine = append(mine, p)
			}
		}
		picks = mine
	}

	writeJSON(w, draft.ComputeSegments(picks))
}

// ListPlayers returns the draft board sorted by ADP.
func (h *APIHandlers) ListPlayers(w http.ResponseWriter, r *http.Request) {
	state, err := h.dal.GetState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, state.Players)
}

// AddPlayer adds a new player to the board.
func (h *APIHandlers) AddPlayer(w http.ResponseWriter, r *http.Request) {
	var player models.Player
	if err := json.NewDecoder(r.Body).Decode(&player); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	if !player.Position.Valid() {
		http.Error(w, fmt.Sprintf("unknown position %q", player.Position), http.StatusBadRequest)
		return
	}

	result, err := h.dal.AddPlayer(&player)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	h.pubsub.Publish(pubsub.Event{
		Type:    pubsub.EventPlayerAdded,
		Payload: map[string]interface{}{"id": result.ID},
	})

	writeJSON(w, result)
}

// SetParticipantName renames a seat.
func (h *APIHandlers) SetParticipantName(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Index int    `json:"index"`
		Name  string `json:"name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := h.dal.SetParticipantName(req.Index, req.Name); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, dal.ErrParticipantNotFound) {
			status = http.StatusNotFound
		}
		http.Error(w, err.Error(), status)
		return
	}

	writeJSON(w, map[string]bool{"ok": true})
}

// userQueue resolves the calling user's queue or writes an error.
func (h *APIHandlers) userQueue(w http.ResponseWriter, r *http.Request) (*QueueUser, bool) {
	user := auth.GetUser(r)
	if user == nil {
		http.Error(w, "not authenticated", http.StatusUnauthorized)
		return nil, false
	}

	q, err := h.queues.ForUser(user.ID)
	if err != nil {
		logger.Error("failed to load queue", "error", err, "user", user.ID)
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}

	return &QueueUser{UserID: user.ID, Queue: q}, true
}

// QueueUser pairs a queue with its owner for handler use.
type QueueUser struct {
	UserID string
	Queue  *queue.Queue
}

// GetQueue returns the user's current queue order.
func (h *APIHandlers) GetQueue(w http.ResponseWriter, r *http.Request) {
	qu, ok := h.userQueue(w, r)
	if !ok {
		return
	}
	writeJSON(w, qu.Queue.Players())
}

// QueueAdd appends a player to the user's queue.
func (h *APIHandlers) QueueAdd(w http.ResponseWriter, r *http.Request) {
	qu, ok := h.userQueue(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	state, err := h.dal.GetState()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	for _, p := range state.Players {
		if p.ID == req.PlayerID {
			if p.Drafted {
				http.Error(w, "player already drafted", http.StatusConflict)
				return
			}
			qu.Queue.Enqueue(p)
			writeJSON(w, qu.Queue.Players())
			return
		}
	}
	http.Error(w, "player not found", http.StatusNotFound)
}

// QueueRemove removes a player from the user's queue. Removing a player
// that is not queued succeeds quietly.
func (h *APIHandlers) QueueRemove(w http.ResponseWriter, r *http.Request) {
	qu, ok := h.userQueue(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	qu.Queue.Dequeue(req.PlayerID)
	writeJSON(w, qu.Queue.Players())
}

// QueueMove applies a drag-and-drop reorder.
func (h *APIHandlers) QueueMove(w http.ResponseWriter, r *http.Request) {
	qu, ok := h.userQueue(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID    string `json:"playerId"`
		TargetIndex int    `json:"targetIndex"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	qu.Queue.MoveToIndex(req.PlayerID, req.TargetIndex)
	writeJSON(w, qu.Queue.Players())
}

// QueueTap arms the delayed move-up gesture. The response reflects the
// state before the gesture fires; the eventual reorder arrives over the
// event stream.
func (h *APIHandlers) QueueTap(w http.ResponseWriter, r *http.Request) {
	qu, ok := h.userQueue(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	qu.Queue.RequestMoveUp(req.PlayerID)
	writeJSON(w, map[string]bool{"pending": qu.Queue.HasPending()})
}

// QueueTop moves a player straight to the top of the queue.
func (h *APIHandlers) QueueTop(w http.ResponseWriter, r *http.Request) {
	qu, ok := h.userQueue(w, r)
	if !ok {
		return
	}

	var req struct {
		PlayerID string `json:"playerId"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	qu.Queue.MoveToTop(req.PlayerID)
	writeJSON(w, qu.Queue.Players())
}

// Health reports the service and its storage dependency. Degraded
// storage returns 503 so load balancers rotate traffic away.
func (h *APIHandlers) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	httpStatus := http.StatusOK
	checks := map[string]string{"database": "healthy"}

	if _, err := h.dal.GetState(); err != nil {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
		checks["database"] = err.Error()
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(httpStatus)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status":    status,
		"timestamp": time.Now().Unix(),
		"checks":    checks,
	})
}

// EventsSSE provides Server-Sent Events for realtime updates
func (h *APIHandlers) EventsSSE(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("Access-Control-Allow-Origin", "*")

	eventChan := h.pubsub.Subscribe()
	defer h.pubsub.Unsubscribe(eventChan)

	fmt.Fprintf(w, "data: {\"type\":\"connected\"}\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}

	for {
		select {
		case event := <-eventChan:
			data, _ := json.Marshal(event)
			fmt.Fprintf(w, "data: %s\n\n", data)
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		case <-r.Context().Done():
			logger.Debug("SSE client disconnected")
			return
		case <-time.After(30 * time.Second):
			fmt.Fprintf(w, ": keepalive\n\n")
			if f, ok := w.(http.Flusher); ok {
				f.Flush()
			}
		}
	}
}
