package backend

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/fixtures"
)

type recordingDoer struct {
	mu   sync.Mutex
	reqs []core.Request
	err  error
	gate chan struct{}
}

func (d *recordingDoer) Do(ctx context.Context, req core.Request) ([]byte, error) {
	d.mu.Lock()
	d.reqs = append(d.reqs, req)
	gate, err := d.gate, d.err
	d.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if err != nil {
		return nil, err
	}
	return []byte(`{"ok":true}`), nil
}

func (d *recordingDoer) requests() []core.Request {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]core.Request(nil), d.reqs...)
}

type recordingInvalidator struct {
	mu   sync.Mutex
	keys []core.CacheKey
}

func (r *recordingInvalidator) Invalidate(keys ...core.CacheKey) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.keys = append(r.keys, keys...)
}

func (r *recordingInvalidator) invalidated() []core.CacheKey {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]core.CacheKey(nil), r.keys...)
}

func toggleAdminSpec() MutationSpec {
	return MutationSpec{
		Method:      core.MethodPost,
		URLTemplate: "/api/shift/toggleAdmin",
		Params: func(row core.Row) map[string]string {
			return map[string]string{"id": row.String("id")}
		},
		Invalidates: []core.CacheKey{"/api/shift", "/api/admin/users"},
	}
}

func TestNewMutation_Validation(t *testing.T) {
	doer := &recordingDoer{}
	tests := []struct {
		name   string
		client Doer
		spec   MutationSpec
	}{
		{"nil client", nil, toggleAdminSpec()},
		{"bad method", doer, MutationSpec{Method: "FETCH", URLTemplate: "/x"}},
		{"empty url", doer, MutationSpec{Method: core.MethodPost}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := NewMutation(tt.client, nil, tt.spec); err == nil {
				t.Error("NewMutation() error = nil, want error")
			}
		})
	}
}

func TestMutation_Request(t *testing.T) {
	doer := &recordingDoer{}
	row := fixtures.ThreeRides()[0]

	tests := []struct {
		name      string
		spec      MutationSpec
		wantURL   string
		wantQuery string
		wantErr   bool
	}{
		{
			name:      "query param",
			spec:      toggleAdminSpec(),
			wantURL:   "/api/shift/toggleAdmin",
			wantQuery: "id=" + row.String("id"),
		},
		{
			name: "path placeholder",
			spec: MutationSpec{
				Method:      core.MethodDelete,
				URLTemplate: "/api/ride_request/{id}",
				Params: func(r core.Row) map[string]string {
					return map[string]string{"id": r.String("id")}
				},
			},
			wantURL: "/api/ride_request/" + row.String("id"),
		},
		{
			name: "escapes path values",
			spec: MutationSpec{
				Method:      core.MethodPost,
				URLTemplate: "/api/notes/{name}",
				Params: func(core.Row) map[string]string {
					return map[string]string{"name": "a b/c"}
				},
			},
			wantURL: "/api/notes/a%20b%2Fc",
		},
		{
			name:    "missing placeholder",
			spec:    MutationSpec{Method: core.MethodPost, URLTemplate: "/api/x/{id}"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := NewMutation(doer, nil, tt.spec)
			if err != nil {
				t.Fatalf("NewMutation() error = %v", err)
			}
			req, err := m.Request(row)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Request() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if req.URL != tt.wantURL {
				t.Errorf("URL = %q, want %q", req.URL, tt.wantURL)
			}
			if got := req.Params.Encode(); got != tt.wantQuery {
				t.Errorf("query = %q, want %q", got, tt.wantQuery)
			}
		})
	}
}

func TestMutation_InvalidatesOnSuccess(t *testing.T) {
	doer := &recordingDoer{}
	inv := &recordingInvalidator{}
	m, err := NewMutation(doer, inv, toggleAdminSpec())
	if err != nil {
		t.Fatalf("NewMutation() error = %v", err)
	}

	row := fixtures.ThreeShifts()[1]
	if err := m.Do(context.Background(), row); err != nil {
		t.Fatalf("Do() error = %v", err)
	}

	reqs := doer.requests()
	if len(reqs) != 1 {
		t.Fatalf("requests = %d, want 1", len(reqs))
	}
	if got, want := reqs[0].String(), "POST /api/shift/toggleAdmin?id=2"; got != want {
		t.Errorf("request = %q, want %q", got, want)
	}
	if diff := cmp.Diff(m.Invalidates(), inv.invalidated()); diff != "" {
		t.Errorf("invalidated mismatch (-want +got):\n%s", diff)
	}
}

func TestMutation_FailureDoesNotInvalidate(t *testing.T) {
	boom := &StatusError{Code: 500}
	doer := &recordingDoer{err: boom}
	inv := &recordingInvalidator{}
	m, err := NewMutation(doer, inv, toggleAdminSpec())
	if err != nil {
		t.Fatalf("NewMutation() error = %v", err)
	}

	err = m.Do(context.Background(), fixtures.ThreeShifts()[0])
	if !errors.Is(err, boom) {
		t.Fatalf("Do() error = %v, want %v", err, boom)
	}
	if got := inv.invalidated(); len(got) != 0 {
		t.Errorf("invalidated = %v, want none", got)
	}
}

func TestMutation_EffectLifecycle(t *testing.T) {
	doer := &recordingDoer{gate: make(chan struct{})}
	inv := &recordingInvalidator{}
	m, err := NewMutation(doer, inv, toggleAdminSpec())
	if err != nil {
		t.Fatalf("NewMutation() error = %v", err)
	}

	eff := m.Invoke(context.Background(), fixtures.ThreeShifts()[0])
	if eff.ID == "" {
		t.Error("effect has no ID")
	}
	select {
	case <-eff.Done():
		t.Fatal("effect resolved before backend answered")
	default:
	}
	if eff.Err() != nil || eff.Body() != nil {
		t.Error("pending effect reports a result")
	}

	close(doer.gate)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := eff.Wait(ctx); err != nil {
		t.Fatalf("Wait() error = %v", err)
	}
	if string(eff.Body()) != `{"ok":true}` {
		t.Errorf("Body() = %q", eff.Body())
	}
	if len(inv.invalidated()) != 2 {
		t.Errorf("invalidated = %v, want both keys", inv.invalidated())
	}
}

func TestMutation_OverlappingInvocations(t *testing.T) {
	doer := &recordingDoer{}
	inv := &recordingInvalidator{}
	m, err := NewMutation(doer, inv, toggleAdminSpec())
	if err != nil {
		t.Fatalf("NewMutation() error = %v", err)
	}

	rows := fixtures.ThreeShifts()
	effects := make([]*Effect, 0, len(rows))
	for _, row := range rows {
		effects = append(effects, m.Invoke(context.Background(), row))
	}
	for _, eff := range effects {
		if err := eff.Wait(context.Background()); err != nil {
			t.Fatalf("Wait() error = %v", err)
		}
	}

	if got := len(doer.requests()); got != 3 {
		t.Errorf("requests = %d, want 3", got)
	}
	if got := len(inv.invalidated()); got != 6 {
		t.Errorf("invalidations = %d, want 6", got)
	}
}

func TestMutation_CancelledContext(t *testing.T) {
	doer := &recordingDoer{gate: make(chan struct{})}
	defer close(doer.gate)
	inv := &recordingInvalidator{}
	m, err := NewMutation(doer, inv, toggleAdminSpec())
	if err != nil {
		t.Fatalf("NewMutation() error = %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	eff := m.Invoke(ctx, fixtures.ThreeShifts()[0])
	cancel()

	<-eff.Done()
	if !errors.Is(eff.Err(), context.Canceled) {
		t.Errorf("Err() = %v, want context.Canceled", eff.Err())
	}
	if len(inv.invalidated()) != 0 {
		t.Error("cancelled mutation invalidated keys")
	}
}
