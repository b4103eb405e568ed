package backend

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/logging"
	"github.com/google/uuid"
)

// Invalidator marks cache keys stale.
type Invalidator interface {
	Invalidate(keys ...core.CacheKey)
}

// MutationSpec describes a write issued for a row.
//
// URLTemplate may contain {name} placeholders filled from Params; params not
// used in the path are sent as the query string.
type MutationSpec struct {
	Method      core.Method
	URLTemplate string
	Params      func(core.Row) map[string]string
	Invalidates []core.CacheKey
}

// Mutation performs a backend write for a row and, when it succeeds,
// invalidates the configured cache keys.
type Mutation struct {
	client      Doer
	cache       Invalidator
	method      core.Method
	urlTemplate string
	params      func(core.Row) map[string]string
	invalidates []core.CacheKey
}

var placeholderRe = regexp.MustCompile(`\{([A-Za-z0-9_]+)\}`)

// NewMutation validates spec. cache may be nil when nothing needs
// invalidating.
func NewMutation(client Doer, cache Invalidator, spec MutationSpec) (*Mutation, error) {
	if client == nil {
		return nil, errors.New("mutation: nil client")
	}
	method, err := core.ParseMethod(string(spec.Method))
	if err != nil {
		return nil, fmt.Errorf("mutation: %w", err)
	}
	if strings.TrimSpace(spec.URLTemplate) == "" {
		return nil, fmt.Errorf("mutation: %w", ErrEmptyURL)
	}

	keys := make([]core.CacheKey, len(spec.Invalidates))
	copy(keys, spec.Invalidates)

	return &Mutation{
		client:      client,
		cache:       cache,
		method:      method,
		urlTemplate: spec.URLTemplate,
		params:      spec.Params,
		invalidates: keys,
	}, nil
}

// Invalidates returns the keys invalidated after a successful write.
func (m *Mutation) Invalidates() []core.CacheKey {
	out := make([]core.CacheKey, len(m.invalidates))
	copy(out, m.invalidates)
	return out
}

// Request builds the backend request for row.
func (m *Mutation) Request(row core.Row) (core.Request, error) {
	var params map[string]string
	if m.params != nil {
		params = m.params(row)
	}

	used := make(map[string]bool)
	var missing []string
	path := placeholderRe.ReplaceAllStringFunc(m.urlTemplate, func(ph string) string {
		name := ph[1 : len(ph)-1]
		v, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return ph
		}
		used[name] = true
		return url.PathEscape(v)
	})
	if len(missing) > 0 {
		return core.Request{}, fmt.Errorf("mutation %s: missing params %v", m.urlTemplate, missing)
	}

	query := url.Values{}
	for k, v := range params {
		if !used[k] {
			query.Set(k, v)
		}
	}
	if len(query) == 0 {
		query = nil
	}

	return core.Request{Method: m.method, URL: path, Params: query}, nil
}

// Invoke starts the write for row and returns its pending effect.
// Overlapping invocations are independent.
func (m *Mutation) Invoke(ctx context.Context, row core.Row) *Effect {
	eff := &Effect{
		ID:   uuid.New().String(),
		done: make(chan struct{}),
	}

	req, err := m.Request(row)
	if err != nil {
		eff.finish(nil, err)
		return eff
	}
	eff.Request = req

	go func() {
		logger := logging.WithFields(ctx, "mutation_id", eff.ID, "request", req.String())
		start := time.Now()

		body, err := m.client.Do(ctx, req)
		if err != nil {
			logger.Warn("mutation failed",
				"duration_ms", time.Since(start).Milliseconds(),
				"error", err,
			)
			eff.finish(nil, err)
			return
		}

		if m.cache != nil && len(m.invalidates) > 0 {
			m.cache.Invalidate(m.invalidates...)
		}
		logger.Info("mutation succeeded",
			"duration_ms", time.Since(start).Milliseconds(),
			"invalidated", m.invalidates,
		)
		eff.finish(body, nil)
	}()

	return eff
}

// Do runs Invoke and waits for the effect to resolve.
func (m *Mutation) Do(ctx context.Context, row core.Row) error {
	return m.Invoke(ctx, row).Wait(ctx)
}

// Effect is the pending result of one mutation invocation.
type Effect struct {
	ID      string
	Request core.Request

	done chan struct{}
	body []byte
	err  error
}

func (e *Effect) finish(body []byte, err error) {
	e.body, e.err = body, err
	close(e.done)
}

// Done is closed once the effect resolves.
func (e *Effect) Done() <-chan struct{} {
	return e.done
}

// Wait blocks until the effect resolves or ctx ends.
func (e *Effect) Wait(ctx context.Context) error {
	select {
	case <-e.done:
		return e.err
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Err returns the failure once resolved; nil while pending or on success.
func (e *Effect) Err() error {
	select {
	case <-e.done:
		return e.err
	default:
		return nil
	}
}

// Body returns the response body once resolved.
func (e *Effect) Body() []byte {
	select {
	case <-e.done:
		return e.body
	default:
		return nil
	}
}
