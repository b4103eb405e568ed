// Package board ties pages to the cache: each page on a Board holds one
// binding and renders its current rows through the grid package.
package board

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/JonMunkholm/shiftboard/internal/backend"
	"github.com/JonMunkholm/shiftboard/internal/cache"
	"github.com/JonMunkholm/shiftboard/internal/grid"
	"github.com/JonMunkholm/shiftboard/internal/logging"
)

// Options configures a Board.
type Options struct {
	Client    *backend.Client
	Store     *cache.Store
	TimeStyle grid.TimeStyle
	Pages     []Definition // defaults to All()
}

// Board is a set of mounted pages. Safe for concurrent use.
type Board struct {
	pages map[string]*page
	order []string
}

type page struct {
	def         Definition
	descriptors []grid.Descriptor
	binding     *cache.Binding
}

// View is a page rendered against its current snapshot.
type View struct {
	Page     Definition
	Grid     grid.Grid
	Snapshot cache.Snapshot
}

// New builds every page's descriptors and subscribes it to the store.
// The store is not owned by the board.
func New(opts Options) (*Board, error) {
	if opts.Client == nil {
		return nil, errors.New("board: nil backend client")
	}
	if opts.Store == nil {
		return nil, errors.New("board: nil cache store")
	}

	defs := opts.Pages
	if defs == nil {
		defs = All()
	}
	if len(defs) == 0 {
		return nil, errors.New("board: no pages registered")
	}

	deps := Deps{Client: opts.Client, Cache: opts.Store, TimeStyle: opts.TimeStyle}
	b := &Board{pages: make(map[string]*page, len(defs))}

	for _, def := range defs {
		if _, dup := b.pages[def.Key]; dup {
			b.Close()
			return nil, fmt.Errorf("board: duplicate page %q", def.Key)
		}
		var descs []grid.Descriptor
		if def.Columns != nil {
			var err error
			if descs, err = def.Columns(deps); err != nil {
				b.Close()
				return nil, fmt.Errorf("board: page %s: %w", def.Key, err)
			}
		}
		b.pages[def.Key] = &page{
			def:         def,
			descriptors: descs,
			binding:     opts.Store.Subscribe(def.CacheKey(), opts.Client.Fetcher(def.Fetch)),
		}
		b.order = append(b.order, def.Key)
	}
	return b, nil
}

// Pages returns the mounted page definitions in display order.
func (b *Board) Pages() []Definition {
	defs := make([]Definition, 0, len(b.order))
	for _, key := range b.order {
		defs = append(defs, b.pages[key].def)
	}
	return defs
}

// View renders the page under key from its current snapshot.
func (b *Board) View(key string) (View, error) {
	p, err := b.page(key)
	if err != nil {
		return View{}, err
	}
	return p.view(p.binding.Snapshot()), nil
}

// Wait blocks until the page's current fetch settles and renders it.
func (b *Board) Wait(ctx context.Context, key string) (View, error) {
	p, err := b.page(key)
	if err != nil {
		return View{}, err
	}
	snap, err := p.binding.Wait(ctx)
	return p.view(snap), err
}

// Activate runs the action control controlID on the page's current grid.
// rowID is the record the caller saw under that control; when the rows have
// shifted since, Activate fails with grid.ErrStaleRow and nothing runs.
func (b *Board) Activate(ctx context.Context, key, controlID, rowID string) error {
	v, err := b.View(key)
	if err != nil {
		return err
	}
	return v.Grid.ActivateRow(ctx, controlID, rowID)
}

// Refetch reloads the page's rows.
func (b *Board) Refetch(key string) error {
	p, err := b.page(key)
	if err != nil {
		return err
	}
	p.binding.Refetch()
	return nil
}

// Prime waits for every page's first fetch. Fetch failures are logged, not
// returned; only ctx ending fails priming.
func (b *Board) Prime(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for _, key := range b.order {
		p := b.pages[key]
		g.Go(func() error {
			snap, err := p.binding.Wait(gctx)
			if err != nil {
				return fmt.Errorf("prime %s: %w", p.def.Key, err)
			}
			if snap.Status == cache.StatusError {
				logging.FromContext(ctx).Warn("page fetch failed",
					"page", p.def.Key,
					"error", snap.Err,
				)
			}
			return nil
		})
	}
	return g.Wait()
}

// Close unsubscribes every page.
func (b *Board) Close() {
	for _, p := range b.pages {
		p.binding.Close()
	}
}

func (b *Board) page(key string) (*page, error) {
	p, ok := b.pages[key]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownPage, key)
	}
	return p, nil
}

func (p *page) view(snap cache.Snapshot) View {
	return View{
		Page:     p.def,
		Grid:     grid.Render(snap.Data, p.descriptors, p.def.TestID),
		Snapshot: snap,
	}
}
