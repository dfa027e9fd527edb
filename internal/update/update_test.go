package update

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestCheck(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Accept") != "application/vnd.github+json" {
			t.Errorf("unexpected Accept header %q", r.Header.Get("Accept"))
		}
		w.Write([]byte(`{"tag_name":"v1.3.0"}`))
	}))
	defer srv.Close()

	tests := []struct {
		current string
		newer   bool
	}{
		{"v1.3.0", false},
		{"1.3.0", false},
		{"1.2.9", true},
		{"dev", true},
	}
	c := NewChecker(srv.URL)
	for _, tt := range tests {
		res, err := c.Check(context.Background(), tt.current)
		if err != nil {
			t.Fatalf("Check(%q): %v", tt.current, err)
		}
		if res.Latest != "1.3.0" {
			t.Errorf("Latest = %q, want 1.3.0", res.Latest)
		}
		if res.Newer() != tt.newer {
			t.Errorf("Check(%q).Newer() = %v, want %v", tt.current, res.Newer(), tt.newer)
		}
	}
}

func TestCheckBadStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewChecker(srv.URL).Check(context.Background(), "1.0.0"); err == nil {
		t.Error("expected error for non-200 status")
	}
}
