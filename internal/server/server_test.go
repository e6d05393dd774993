package server

import (
	stdjson "encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ayusman/fingercount/internal/app"
	"github.com/ayusman/fingercount/internal/detector"
	"github.com/ayusman/fingercount/internal/fingers"
)

func serve(s *Server, method, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	s.ServeHTTP(rec, httptest.NewRequest(method, target, nil))
	return rec
}

func TestServer_Health(t *testing.T) {
	s := New(Config{})

	rec := serve(s, http.MethodGet, "/api/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))

	var body map[string]any
	require.NoError(t, stdjson.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
	assert.Contains(t, body, "uptime")
	assert.Equal(t, float64(0), body["subscribers"])
}

func TestServer_MethodNotAllowed(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/health", "/api/counts", "/api/stream"} {
		for _, method := range []string{http.MethodPost, http.MethodPut, http.MethodDelete} {
			rec := serve(s, method, path)
			assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, "%s %s", method, path)
		}
	}
}

func TestServer_NotFound(t *testing.T) {
	s := New(Config{})

	for _, path := range []string{"/api/nonexistent", "/", "/index.html"} {
		assert.Equal(t, http.StatusNotFound, serve(s, http.MethodGet, path).Code, path)
	}
}

func TestServer_StaticDir(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"index.html": "<html><body>Total fingers: 0</body></html>",
		"app.js":     "console.log('live');",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
	}

	s := New(Config{StaticDir: dir})

	tests := []struct {
		path string
		code int
		body string
	}{
		{"/", http.StatusOK, files["index.html"]},
		{"/app.js", http.StatusOK, files["app.js"]},
		{"/missing.css", http.StatusNotFound, ""},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			rec := serve(s, http.MethodGet, tt.path)
			assert.Equal(t, tt.code, rec.Code)
			if tt.body != "" {
				assert.Equal(t, tt.body, rec.Body.String())
			}
		})
	}

	// API routes win over the static tree.
	assert.Equal(t, http.StatusOK, serve(s, http.MethodGet, "/api/health").Code)
}

func TestNew(t *testing.T) {
	t.Run("creates hub when none given", func(t *testing.T) {
		s := New(Config{StaticDir: "/some/path"})

		if s.Hub() == nil {
			t.Fatal("expected non-nil hub")
		}
		if s.config.MaxRate != DefaultMaxRate {
			t.Errorf("expected MaxRate %d, got %v", DefaultMaxRate, s.config.MaxRate)
		}
	})

	t.Run("uses the given hub", func(t *testing.T) {
		hub := NewHub()
		s := New(Config{Hub: hub})

		if s.Hub() != hub {
			t.Error("expected configured hub")
		}
	})

	t.Run("server implements http.Handler", func(t *testing.T) {
		s := New(Config{})
		var _ http.Handler = s
	})
}

func TestServer_Counts(t *testing.T) {
	hub := NewHub()
	s := New(Config{Hub: hub})

	get := func(t *testing.T) countsMessage {
		t.Helper()
		req := httptest.NewRequest(http.MethodGet, "/api/counts", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status %d, got %d", http.StatusOK, rec.Code)
		}
		var msg countsMessage
		if err := stdjson.NewDecoder(rec.Body).Decode(&msg); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return msg
	}

	t.Run("zero before any frame", func(t *testing.T) {
		msg := get(t)
		if msg.Total != 0 || len(msg.Hands) != 0 {
			t.Errorf("expected empty counts, got %+v", msg)
		}
	})

	t.Run("latest frame after observe", func(t *testing.T) {
		hub.Observe(testFrame(1, 3, 2))
		hub.Observe(testFrame(2, 1))

		msg := get(t)
		if msg.Seq != 2 {
			t.Errorf("expected seq 2, got %d", msg.Seq)
		}
		if msg.Total != 1 {
			t.Errorf("expected total 1, got %d", msg.Total)
		}
		if len(msg.Hands) != 1 || msg.Hands[0].Handedness != detector.Right {
			t.Errorf("unexpected hands %+v", msg.Hands)
		}
	})

	t.Run("only allows GET method", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/counts", nil)
		rec := httptest.NewRecorder()

		s.ServeHTTP(rec, req)

		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("expected status %d, got %d", http.StatusMethodNotAllowed, rec.Code)
		}
	})
}

func TestServer_SessionsRouteRequiresStore(t *testing.T) {
	s := New(Config{})

	req := httptest.NewRequest(http.MethodGet, "/api/sessions", nil)
	rec := httptest.NewRecorder()

	s.ServeHTTP(rec, req)

	if rec.Code != http.StatusNotFound {
		t.Errorf("expected status %d, got %d", http.StatusNotFound, rec.Code)
	}
}

// testFrame builds a frame whose hands have the given counts. Hands
// alternate Right, Left.
func testFrame(seq int64, counts ...int) app.Frame {
	fc := fingers.FrameCount{Hands: []fingers.HandCount{}}
	for i, n := range counts {
		h := fingers.HandCount{Handedness: detector.Right, Count: n}
		if i%2 == 1 {
			h.Handedness = detector.Left
		}
		for f := 0; f < n; f++ {
			h.State[f] = true
		}
		fc.Hands = append(fc.Hands, h)
		fc.Total += n
	}
	return app.Frame{Seq: seq, At: time.Now(), JPEG: []byte{0xff, 0xd8, byte(seq), 0xff, 0xd9}, Count: fc}
}
