package backend

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/JonMunkholm/shiftboard/internal/core"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := NewClient(ClientConfig{BaseURL: srv.URL, Timeout: 2 * time.Second, APIKey: "k1"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	return c
}

func TestNewClient_RejectsBadURL(t *testing.T) {
	tests := []struct {
		name string
		url  string
	}{
		{"empty", ""},
		{"no scheme", "localhost:8080"},
		{"ftp", "ftp://example.com"},
		{"no host", "http://"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewClient(ClientConfig{BaseURL: tt.url}); err == nil {
				t.Errorf("NewClient(%q) error = nil, want error", tt.url)
			}
		})
	}
}

func TestClient_FetchRows(t *testing.T) {
	var gotPath, gotKey, gotAccept string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("X-API-Key")
		gotAccept = r.Header.Get("Accept")
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`[{"id":1,"day":"Monday"},{"id":2,"day":"Tuesday"}]`))
	})

	rows, err := c.FetchRows(context.Background(), core.Request{URL: "/api/shift"})
	if err != nil {
		t.Fatalf("FetchRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("len(rows) = %d, want 2", len(rows))
	}
	if got := rows[1].String("day"); got != "Tuesday" {
		t.Errorf("rows[1].day = %q, want Tuesday", got)
	}
	if gotPath != "/api/shift" {
		t.Errorf("path = %q, want /api/shift", gotPath)
	}
	if gotKey != "k1" {
		t.Errorf("X-API-Key = %q, want k1", gotKey)
	}
	if gotAccept != "application/json" {
		t.Errorf("Accept = %q, want application/json", gotAccept)
	}
}

func TestClient_Do_MethodAndQuery(t *testing.T) {
	var gotMethod, gotQuery string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotQuery = r.URL.RawQuery
	})

	req := core.Request{
		Method: core.MethodDelete,
		URL:    "/api/ride_request",
		Params: url.Values{"id": {"7"}},
	}
	if _, err := c.Do(context.Background(), req); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotMethod != http.MethodDelete {
		t.Errorf("method = %q, want DELETE", gotMethod)
	}
	if gotQuery != "id=7" {
		t.Errorf("query = %q, want id=7", gotQuery)
	}
}

func TestClient_Do_BasePathPrefix(t *testing.T) {
	var gotPath string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
	}))
	defer srv.Close()

	c, err := NewClient(ClientConfig{BaseURL: srv.URL + "/backend/"})
	if err != nil {
		t.Fatalf("NewClient() error = %v", err)
	}
	if _, err := c.Do(context.Background(), core.Request{URL: "/api/admin/users"}); err != nil {
		t.Fatalf("Do() error = %v", err)
	}
	if gotPath != "/backend/api/admin/users" {
		t.Errorf("path = %q, want /backend/api/admin/users", gotPath)
	}
}

func TestClient_Do_StatusError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	_, err := c.Do(context.Background(), core.Request{Method: core.MethodPost, URL: "/api/shift/toggleAdmin"})
	var se *StatusError
	if !errors.As(err, &se) {
		t.Fatalf("Do() error = %v, want *StatusError", err)
	}
	if se.Code != http.StatusForbidden {
		t.Errorf("Code = %d, want 403", se.Code)
	}
	if msg := core.MapError(err); msg.Code != "API403" {
		t.Errorf("MapError code = %q, want API403", msg.Code)
	}
}

func TestClient_FetchRows_BadBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`"just a string"`))
	})

	_, err := c.FetchRows(context.Background(), core.Request{URL: "/api/shift"})
	if !errors.Is(err, core.ErrNotRows) {
		t.Errorf("FetchRows() error = %v, want ErrNotRows", err)
	}
}

func TestClient_Do_EmptyURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := c.Do(context.Background(), core.Request{}); !errors.Is(err, ErrEmptyURL) {
		t.Errorf("Do() error = %v, want ErrEmptyURL", err)
	}
}

func TestClient_Fetcher_ContextCancel(t *testing.T) {
	release := make(chan struct{})
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-release:
		}
	})
	defer close(release)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Fetcher(core.Request{URL: "/api/shift"})(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("fetch error = %v, want context.Canceled", err)
	}
}

func TestTruncate(t *testing.T) {
	tests := []struct {
		name string
		in   string
		n    int
		want string
	}{
		{"short", "not found", 512, "not found"},
		{"exact", "abcd", 4, "abcd"},
		{"ascii", "abcdef", 4, "abcd..."},
		{"inside multibyte rune", "abécd", 3, "ab..."},
		{"after multibyte rune", "abécd", 4, "abé..."},
		{"three byte rune", "日本", 4, "日..."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := truncate(tt.in, tt.n)
			if got != tt.want {
				t.Errorf("truncate(%q, %d) = %q, want %q", tt.in, tt.n, got, tt.want)
			}
			if !utf8.ValidString(got) {
				t.Errorf("truncate(%q, %d) = %q is not valid UTF-8", tt.in, tt.n, got)
			}
		})
	}
}
