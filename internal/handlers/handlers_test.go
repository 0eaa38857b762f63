package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/draftroom/bestball-draft/internal/auth"
	"github.com/draftroom/bestball-draft/internal/dal"
	"github.com/draftroom/bestball-draft/internal/draft"
	"github.com/draftroom/bestball-draft/internal/logger"
	"github.com/draftroom/bestball-draft/internal/models"
	"github.com/draftroom/bestball-draft/internal/pubsub"
)

func init() {
	logger.Init()
}

// stubAuth injects a fixed user without any login flow.
type stubAuth struct {
	user *auth.User
}

func (s *stubAuth) LoginHandler(w http.ResponseWriter, r *http.Request)    {}
func (s *stubAuth) CallbackHandler(w http.ResponseWriter, r *http.Request) {}
func (s *stubAuth) LogoutHandler(w http.ResponseWriter, r *http.Request)   {}

func (s *stubAuth) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.user == nil {
			http.Error(w, "not authenticated", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), "user", s.user)
		next.ServeHTTP(w, r.WithContext(ctx))
	}
}

func newTestServer(t *testing.T) (http.Handler, *APIHandlers) {
	t.Helper()
	cfg, err := draft.NewConfig(12, 0)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	h := NewAPIHandlers(dal.NewMemoryDAL(cfg), pubsub.New(), cfg)
	provider := &stubAuth{user: &auth.User{ID: "u1", Username: "tester"}}
	return h.Routes(provider), h
}

func doJSON(t *testing.T, router http.Handler, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestGetDraftState(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodGet, "/api/draft", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var state models.DraftState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.CurrentPick != 1 {
		t.Errorf("CurrentPick = %d, want 1", state.CurrentPick)
	}
	if state.OnClockIndex != 0 {
		t.Errorf("OnClockIndex = %d, want 0", state.OnClockIndex)
	}
	if len(state.Participants) != 12 {
		t.Errorf("participants = %d, want 12", len(state.Participants))
	}
}

func TestDraftPickFlow(t *testing.T) {
	router, _ := newTestServer(t)

	rec := doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{"playerId": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var pick models.Pick
	if err := json.Unmarshal(rec.Body.Bytes(), &pick); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if pick.PickNumber != 1 || pick.Player == nil || pick.Player.ID != "1" {
		t.Fatalf("pick = %+v", pick)
	}

	// Picking the same player again conflicts.
	rec = doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{"playerId": "1"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("second pick status = %d, want %d", rec.Code, http.StatusConflict)
	}

	// Unknown players are a 404.
	rec = doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{"playerId": "nope"})
	if rec.Code != http.StatusNotFound {
		t.Fatalf("unknown player status = %d, want %d", rec.Code, http.StatusNotFound)
	}

	// Empty body is a 400.
	rec = doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("empty pick status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetRoster(t *testing.T) {
	router, _ := newTestServer(t)

	// Seat 0 takes the first pick; player 1 is a WR in the seed data.
	rec := doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{"playerId": "1"})
	if rec.Code != http.StatusOK {
		t.Fatalf("pick failed: %s", rec.Body.String())
	}

	rec = doJSON(t, router, http.MethodGet, "/api/draft/roster?participant=0", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var roster draft.Roster
	if err := json.Unmarshal(rec.Body.Bytes(), &roster); err != nil {
		t.Fatalf("decode: %v", err)
	}

	found := false
	for _, sa := range roster.Slots {
		if sa.Slot.ID == "WR1" {
			found = sa.Player != nil && sa.Player.ID == "1"
		}
	}
	if !found {
		t.Fatalf("WR1 not filled: %s", rec.Body.String())
	}

	// Seat index out of range is a client error.
	rec = doJSON(t, router, http.MethodGet, "/api/draft/roster?participant=99", nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("bad seat status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestGetPositionMix(t *testing.T) {
	router, _ := newTestServer(t)

	// Picks 1 and 2: a WR and an RB from the seed board.
	for _, id := range []string{"1", "2"} {
		if rec := doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{"playerId": id}); rec.Code != http.StatusOK {
			t.Fatalf("pick %s failed: %s", id, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/draft/positions", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var mix draft.PositionMix
	if err := json.Unmarshal(rec.Body.Bytes(), &mix); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mix.TotalPicks != 2 {
		t.Fatalf("TotalPicks = %d, want 2", mix.TotalPicks)
	}

	// Limited to the first pick only.
	rec = doJSON(t, router, http.MethodGet, "/api/draft/positions?through=1", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &mix); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mix.TotalPicks != 1 {
		t.Fatalf("TotalPicks through 1 = %d, want 1", mix.TotalPicks)
	}

	// Seat 1 has no picks yet.
	rec = doJSON(t, router, http.MethodGet, "/api/draft/positions?participant=1", nil)
	if err := json.Unmarshal(rec.Body.Bytes(), &mix); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if mix.TotalPicks != 0 {
		t.Fatalf("seat 1 TotalPicks = %d, want 0", mix.TotalPicks)
	}
}

func TestQueueEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	for _, id := range []string{"1", "2", "3"} {
		rec := doJSON(t, router, http.MethodPost, "/api/queue/add", map[string]string{"playerId": id})
		if rec.Code != http.StatusOK {
			t.Fatalf("queue add %s: %d %s", id, rec.Code, rec.Body.String())
		}
	}

	rec := doJSON(t, router, http.MethodGet, "/api/queue", nil)
	var players []models.Player
	if err := json.Unmarshal(rec.Body.Bytes(), &players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(players) != 3 || players[0].ID != "1" {
		t.Fatalf("queue = %+v", players)
	}

	// Drag player 3 to the top.
	rec = doJSON(t, router, http.MethodPost, "/api/queue/move", map[string]interface{}{"playerId": "3", "targetIndex": 0})
	if err := json.Unmarshal(rec.Body.Bytes(), &players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if players[0].ID != "3" {
		t.Fatalf("after move queue = %+v", players)
	}

	// Remove is quiet even for unknown players.
	rec = doJSON(t, router, http.MethodPost, "/api/queue/remove", map[string]string{"playerId": "zz"})
	if rec.Code != http.StatusOK {
		t.Fatalf("remove unknown: %d", rec.Code)
	}

	// Queueing a drafted player conflicts.
	if rec := doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{"playerId": "4"}); rec.Code != http.StatusOK {
		t.Fatalf("pick failed: %s", rec.Body.String())
	}
	rec = doJSON(t, router, http.MethodPost, "/api/queue/add", map[string]string{"playerId": "4"})
	if rec.Code != http.StatusConflict {
		t.Fatalf("queue drafted player status = %d, want %d", rec.Code, http.StatusConflict)
	}
}

func TestPickExpelsPlayerFromQueues(t *testing.T) {
	router, _ := newTestServer(t)

	for _, id := range []string{"1", "2"} {
		if rec := doJSON(t, router, http.MethodPost, "/api/queue/add", map[string]string{"playerId": id}); rec.Code != http.StatusOK {
			t.Fatalf("queue add %s failed", id)
		}
	}

	if rec := doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{"playerId": "1"}); rec.Code != http.StatusOK {
		t.Fatalf("pick failed")
	}

	rec := doJSON(t, router, http.MethodGet, "/api/queue", nil)
	var players []models.Player
	if err := json.Unmarshal(rec.Body.Bytes(), &players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(players) != 1 || players[0].ID != "2" {
		t.Fatalf("queue after pick = %+v", players)
	}
}

func TestQueueRequiresAuth(t *testing.T) {
	cfg, err := draft.NewConfig(12, 0)
	if err != nil {
		t.Fatalf("NewConfig: %v", err)
	}
	h := NewAPIHandlers(dal.NewMemoryDAL(cfg), pubsub.New(), cfg)
	router := h.Routes(&stubAuth{user: nil})

	rec := doJSON(t, router, http.MethodGet, "/api/queue", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestResetClearsQueuesAndPicks(t *testing.T) {
	router, _ := newTestServer(t)

	if rec := doJSON(t, router, http.MethodPost, "/api/queue/add", map[string]string{"playerId": "1"}); rec.Code != http.StatusOK {
		t.Fatalf("queue add failed")
	}
	if rec := doJSON(t, router, http.MethodPost, "/api/draft/pick", map[string]string{"playerId": "2"}); rec.Code != http.StatusOK {
		t.Fatalf("pick failed")
	}

	if rec := doJSON(t, router, http.MethodPost, "/api/draft/reset", nil); rec.Code != http.StatusOK {
		t.Fatalf("reset failed: %s", rec.Body.String())
	}

	rec := doJSON(t, router, http.MethodGet, "/api/draft", nil)
	var state models.DraftState
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(state.Picks) != 0 || state.CurrentPick != 1 {
		t.Fatalf("state after reset = %+v", state)
	}

	rec = doJSON(t, router, http.MethodGet, "/api/queue", nil)
	var players []models.Player
	if err := json.Unmarshal(rec.Body.Bytes(), &players); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(players) != 0 {
		t.Fatalf("queue after reset = %+v", players)
	}
}

func TestHealthEndpoints(t *testing.T) {
	router, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz", "/api/health"} {
		rec := doJSON(t, router, http.MethodGet, path, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rec.Code)
		}
	}
}
