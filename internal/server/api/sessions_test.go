package api

import (
	stdjson "encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ayusman/fingercount/internal/store"
)

// newTestStore creates a new Store with a temporary database for testing.
func newTestStore(t *testing.T) *store.Store {
	t.Helper()

	s, err := store.New(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() {
		s.Close()
	})

	return s
}

func seedSession(t *testing.T, s *store.Store) *store.Session {
	t.Helper()

	sess, err := s.Sessions().Create(0)
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	for i, total := range []int{2, 4} {
		err := s.Frames().Record(&store.FrameRecord{
			SessionID: sess.ID,
			Seq:       int64(i),
			Total:     total,
			Hands:     []store.HandRecord{{Handedness: "Right", Count: total}},
		})
		if err != nil {
			t.Fatalf("failed to record frame: %v", err)
		}
	}
	return sess
}

func TestSessionHandler_List(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)

	t.Run("empty store returns empty list", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		if got := strings.TrimSpace(rec.Body.String()); got != `{"sessions":[]}` {
			t.Errorf("unexpected body %q", got)
		}
	})

	t.Run("lists recorded sessions", func(t *testing.T) {
		sess := seedSession(t, s)

		req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		var response listSessionsResponse
		if err := stdjson.NewDecoder(rec.Body).Decode(&response); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		if len(response.Sessions) != 1 {
			t.Fatalf("expected 1 session, got %d", len(response.Sessions))
		}
		if response.Sessions[0].ID != sess.ID {
			t.Errorf("expected ID %s, got %s", sess.ID, response.Sessions[0].ID)
		}
	})
}

func TestSessionHandler_Get(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	sess := seedSession(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID, nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response sessionResponse
	if err := stdjson.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if response.Summary == nil {
		t.Fatal("expected summary in response")
	}
	if response.Summary.Frames != 2 || response.Summary.MaxTotal != 4 {
		t.Errorf("unexpected summary %+v", response.Summary)
	}
	if response.Summary.MeanTotal != 3 {
		t.Errorf("expected mean 3, got %f", response.Summary.MeanTotal)
	}
	if response.EndedAt != "" {
		t.Errorf("unfinished session should have no end time, got %s", response.EndedAt)
	}
}

func TestSessionHandler_Frames(t *testing.T) {
	s := newTestStore(t)
	handler := NewSessionHandler(s)
	sess := seedSession(t, s)

	req := httptest.NewRequest(http.MethodGet, "/api/sessions/"+sess.ID+"/frames", nil)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
	}

	var response framesResponse
	if err := stdjson.NewDecoder(rec.Body).Decode(&response); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(response.Frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(response.Frames))
	}
	if response.Frames[1].Total != 4 {
		t.Errorf("expected second frame total 4, got %d", response.Frames[1].Total)
	}
}

func TestSessionHandler_NotFound(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	paths := []string{
		"/api/sessions/missing",
		"/api/sessions/missing/frames",
		"/api/sessions/missing/other",
	}
	for _, p := range paths {
		req := httptest.NewRequest(http.MethodGet, p, nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusNotFound {
			t.Errorf("%s: expected status %d, got %d", p, http.StatusNotFound, rec.Code)
		}
	}
}

func TestSessionHandler_MethodNotAllowed(t *testing.T) {
	handler := NewSessionHandler(newTestStore(t))

	for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/api/sessions", nil)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("method %s: expected status %d, got %d", method, http.StatusMethodNotAllowed, rec.Code)
		}
	}
}
