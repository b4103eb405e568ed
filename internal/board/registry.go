package board

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/JonMunkholm/shiftboard/internal/backend"
	"github.com/JonMunkholm/shiftboard/internal/core"
	"github.com/JonMunkholm/shiftboard/internal/grid"
)

// ErrUnknownPage is returned for a page key that is not on the board.
var ErrUnknownPage = errors.New("unknown page")

// Deps are handed to a page when its descriptors are built.
type Deps struct {
	Client    backend.Doer
	Cache     backend.Invalidator
	TimeStyle grid.TimeStyle
}

// Definition describes one board page: where its rows come from and how
// they are shown.
type Definition struct {
	Key    string // URL slug, e.g. "shifts"
	Title  string
	TestID string
	Order  int
	Fetch  core.Request

	// Columns builds the page descriptors. Actions usually wrap a
	// backend.Mutation built from deps.
	Columns func(deps Deps) ([]grid.Descriptor, error)
}

// CacheKey is the key the page's rows are cached under. It matches the
// fetch URL, so mutations invalidate pages by naming the endpoint.
func (d Definition) CacheKey() core.CacheKey {
	if len(d.Fetch.Params) == 0 {
		return core.CacheKey(d.Fetch.URL)
	}
	return core.CacheKey(d.Fetch.URL + "?" + d.Fetch.Params.Encode())
}

var (
	registry   = make(map[string]Definition)
	registryMu sync.RWMutex
)

// Register adds a page definition.
// Panics if a page with the same key is already registered.
func Register(def Definition) {
	registryMu.Lock()
	defer registryMu.Unlock()

	if def.Key == "" {
		panic("board: page registered without a key")
	}
	if _, exists := registry[def.Key]; exists {
		panic(fmt.Sprintf("page already registered: %s", def.Key))
	}
	registry[def.Key] = def
}

// Get returns a page definition by key.
func Get(key string) (Definition, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()

	def, ok := registry[key]
	return def, ok
}

// All returns every registered page, sorted by Order then Key.
func All() []Definition {
	registryMu.RLock()
	defer registryMu.RUnlock()

	result := make([]Definition, 0, len(registry))
	for _, def := range registry {
		result = append(result, def)
	}
	sortDefinitions(result)
	return result
}

// Clear removes all registered pages.
// Primarily useful for testing.
func Clear() {
	registryMu.Lock()
	defer registryMu.Unlock()
	registry = make(map[string]Definition)
}

func sortDefinitions(defs []Definition) {
	sort.Slice(defs, func(i, j int) bool {
		if defs[i].Order != defs[j].Order {
			return defs[i].Order < defs[j].Order
		}
		return defs[i].Key < defs[j].Key
	})
}
