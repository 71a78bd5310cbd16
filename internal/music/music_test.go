package music

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/syamace/syaos/internal/log"
)

var library = []Track{
	{ID: "track-1", Title: "Blue Moon", Artist: "The Setters"},
	{ID: "track-2", Title: "Night Drive", Artist: "Neon Owls"},
}

// musicServer serves the library, failing every request once fail is set.
func musicServer(t *testing.T, fail *atomic.Bool) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("GET /tracks", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(library)
	})
	mux.HandleFunc("GET /tracks/{id}", func(w http.ResponseWriter, r *http.Request) {
		for _, tr := range library {
			if tr.ID == r.PathValue("id") {
				_ = json.NewEncoder(w).Encode(tr)
				return
			}
		}
		http.NotFound(w, r)
	})
	mux.HandleFunc("GET /tracks/{id}/lyrics", func(w http.ResponseWriter, r *http.Request) {
		if fail.Load() {
			http.Error(w, "upstream down", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode([]string{"Blue moon", "You saw me standing alone"})
	})
	mux.HandleFunc("GET /search", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Query", r.URL.Query().Get("q"))
		w.Header().Set("X-Max", r.URL.Query().Get("max"))
		_ = json.NewEncoder(w).Encode(library[:1])
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestClient_Tracks(t *testing.T) {
	var fail atomic.Bool
	srv := musicServer(t, &fail)
	c := NewClient(srv.URL, srv.Client(), log.NewNop())
	ctx := context.Background()

	tracks, err := c.Tracks(ctx)
	if err != nil {
		t.Fatalf("Tracks error = %v", err)
	}
	if len(tracks) != 2 || tracks[0].Title != "Blue Moon" {
		t.Fatalf("tracks = %+v", tracks)
	}

	// Upstream failure degrades to the cached copy.
	fail.Store(true)
	tracks, err = c.Tracks(ctx)
	if err != nil {
		t.Fatalf("Tracks with cache error = %v", err)
	}
	if len(tracks) != 2 {
		t.Errorf("cached tracks = %+v", tracks)
	}
}

func TestClient_TracksNoCacheErrors(t *testing.T) {
	var fail atomic.Bool
	fail.Store(true)
	srv := musicServer(t, &fail)
	c := NewClient(srv.URL, srv.Client(), log.NewNop())

	if _, err := c.Tracks(context.Background()); err == nil {
		t.Error("Tracks error = nil with no cache and a failing upstream")
	}
}

func TestClient_Lookup(t *testing.T) {
	var fail atomic.Bool
	srv := musicServer(t, &fail)
	c := NewClient(srv.URL, srv.Client(), log.NewNop())

	tr, err := c.Lookup(context.Background(), "track-2")
	if err != nil {
		t.Fatalf("Lookup error = %v", err)
	}
	if tr.Title != "Night Drive" {
		t.Errorf("track = %+v", tr)
	}

	if _, err := c.Lookup(context.Background(), "nope"); err == nil {
		t.Error("Lookup of unknown id succeeded")
	}
}

func TestClient_LyricsBestEffort(t *testing.T) {
	var fail atomic.Bool
	srv := musicServer(t, &fail)
	c := NewClient(srv.URL, srv.Client(), log.NewNop())
	ctx := context.Background()

	lines := c.Lyrics(ctx, "track-1")
	if len(lines) != 2 {
		t.Fatalf("lyrics = %v", lines)
	}

	fail.Store(true)
	if lines := c.Lyrics(ctx, "track-1"); lines != nil {
		t.Errorf("lyrics = %v on failure, want nil", lines)
	}
}

func TestClient_Search(t *testing.T) {
	var gotQuery, gotMax string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.Query().Get("q")
		gotMax = r.URL.Query().Get("max")
		_ = json.NewEncoder(w).Encode(library[:1])
	}))
	defer srv.Close()
	c := NewClient(srv.URL, srv.Client(), log.NewNop())

	tracks, err := c.Search(context.Background(), "blue moon", 5)
	if err != nil {
		t.Fatalf("Search error = %v", err)
	}
	if len(tracks) != 1 || tracks[0].ID != "track-1" {
		t.Errorf("tracks = %+v", tracks)
	}
	if gotQuery != "blue moon" || gotMax != "5" {
		t.Errorf("query = %q max = %q", gotQuery, gotMax)
	}
}
