// Package catalog holds the entity collection behind the list view: it
// loads the collection once (from the persistent slot, or from the API in a
// single all-or-nothing batch), and serves paginated and searched pages of it.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/Sternrassler/pokedex-browser/pkg/cache"
	"github.com/Sternrassler/pokedex-browser/pkg/logging"
	"github.com/Sternrassler/pokedex-browser/pkg/notify"
	"github.com/Sternrassler/pokedex-browser/pkg/pagination"
	"github.com/rs/zerolog"
)

// LoadFailedMessage is the toast shown when the bulk fetch fails.
const LoadFailedMessage = "Something went wrong..."

// ErrBusy is returned by Refresh while a load is in flight.
var ErrBusy = errors.New("catalog load in progress")

// State is the list view lifecycle.
type State int

const (
	// StateEmpty is the initial state before Load.
	StateEmpty State = iota
	// StateLoading means the bulk fetch is in flight.
	StateLoading
	// StateLoaded means the collection is available. Terminal.
	StateLoaded
	// StateError means the bulk fetch failed; the collection stays empty. Terminal.
	StateError
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateError:
		return "error"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// MarshalText renders the state name in JSON responses.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name as rendered by MarshalText.
func (s *State) UnmarshalText(text []byte) error {
	for _, st := range []State{StateEmpty, StateLoading, StateLoaded, StateError} {
		if st.String() == string(text) {
			*s = st
			return nil
		}
	}
	return fmt.Errorf("unknown catalog state %q", text)
}

// Config holds catalog configuration.
type Config struct {
	// Limit is the number of entities fetched (IDs 1..Limit)
	Limit int
	// PageSize is the number of cards per page
	PageSize int
	// CutCount is the number of page links in the pagination strip
	CutCount int
	// Batch configures the parallel bulk fetch
	Batch pagination.Config
}

// DefaultConfig returns the default catalog configuration.
func DefaultConfig() Config {
	return Config{
		Limit:    151,
		PageSize: 10,
		CutCount: pagination.DefaultCutCount,
		Batch:    pagination.DefaultConfig(),
	}
}

// ListPage is the render model of one list page.
type ListPage struct {
	State State          `json:"state"`
	Items []Summary      `json:"items"`
	Nav   pagination.Nav `json:"pagination"`
	Total int            `json:"total"`
	Query string         `json:"query,omitempty"`
	Toast []notify.Toast `json:"toasts,omitempty"`
	Err   string         `json:"error,omitempty"`
}

// Catalog is the list store. Safe for concurrent use.
type Catalog struct {
	mu         sync.RWMutex
	state      State
	refreshing bool
	items      []Summary
	index      searchIndex
	err        error
	loadedAt   time.Time

	slot     *cache.Slot[[]Summary]
	batch    *pagination.BatchFetcher[Summary]
	notifier notify.Notifier
	config   Config
	logger   zerolog.Logger
}

// New creates a catalog backed by slot that fetches through fetcher.
func New(slot *cache.Slot[[]Summary], fetcher pagination.Fetcher[Summary], notifier notify.Notifier, cfg Config) (*Catalog, error) {
	if slot == nil {
		return nil, fmt.Errorf("cache slot is required")
	}
	if fetcher == nil {
		return nil, fmt.Errorf("fetcher is required")
	}
	if cfg.Limit <= 0 {
		return nil, fmt.Errorf("limit must be > 0 (got %d)", cfg.Limit)
	}
	if cfg.PageSize <= 0 {
		return nil, fmt.Errorf("page size must be > 0 (got %d)", cfg.PageSize)
	}
	if cfg.CutCount <= 0 {
		cfg.CutCount = pagination.DefaultCutCount
	}
	if notifier == nil {
		notifier = notify.NewCenter(0)
	}

	return &Catalog{
		state:    StateEmpty,
		slot:     slot,
		batch:    pagination.NewBatchFetcher(fetcher, cfg.Batch),
		notifier: notifier,
		config:   cfg,
		logger:   logging.NewLogger("catalog"),
	}, nil
}

// State returns the current lifecycle state.
func (c *Catalog) State() State {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

// Err returns the error that moved the catalog into StateError.
func (c *Catalog) Err() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.err
}

// Len returns the number of loaded entities.
func (c *Catalog) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// LoadedAt returns when the collection was last loaded, zero if never.
func (c *Catalog) LoadedAt() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.loadedAt
}

// Config returns the catalog configuration.
func (c *Catalog) Config() Config {
	return c.config
}

// Snapshot returns a copy of the loaded collection.
func (c *Catalog) Snapshot() []Summary {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Summary, len(c.items))
	copy(out, c.items)
	return out
}

// Load brings the catalog out of StateEmpty. A non-empty persistent slot is
// used as-is with no network access. Otherwise all Limit entities are
// fetched in one batch; on success the collection replaces memory state and
// the slot, on failure the catalog ends in StateError with nothing cached.
//
// Only the call that finds the catalog empty does any work; other calls
// return the outcome recorded so far.
func (c *Catalog) Load(ctx context.Context) error {
	c.mu.Lock()
	if c.state != StateEmpty {
		err := c.err
		c.mu.Unlock()
		return err
	}
	c.state = StateLoading
	c.mu.Unlock()

	return c.load(ctx)
}

// load runs one load cycle. The caller must have moved the catalog into
// StateLoading.
func (c *Catalog) load(ctx context.Context) error {
	if items, ok := c.readSlot(ctx); ok {
		c.finish(items, nil)
		catalogLoads.WithLabelValues("cache").Inc()
		c.logger.Info().
			Int("items", len(items)).
			Msg("Catalog restored from cache")
		return nil
	}

	items, err := c.fetch(ctx)
	if err != nil {
		c.finish(nil, err)
		return err
	}
	c.finish(items, nil)
	return nil
}

// fetch runs the bulk fetch and writes the slot on success. On failure the
// slot is left as it was and a toast is raised.
func (c *Catalog) fetch(ctx context.Context) ([]Summary, error) {
	start := time.Now()
	c.logger.Info().
		Int("limit", c.config.Limit).
		Msg("Fetching catalog")

	items, err := c.batch.FetchRange(ctx, 1, c.config.Limit)
	if err != nil {
		catalogLoads.WithLabelValues("error").Inc()
		c.notifier.Error(LoadFailedMessage)
		c.logger.Error().
			Err(err).
			Dur("duration", time.Since(start)).
			Msg("Catalog fetch failed")
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	if err := c.slot.Save(ctx, items); err != nil {
		c.logger.Warn().Err(err).Msg("Failed to write catalog cache")
	}

	catalogLoads.WithLabelValues("fetch").Inc()
	c.logger.Info().
		Int("items", len(items)).
		Dur("duration", time.Since(start)).
		Msg("Catalog loaded")
	return items, nil
}

// readSlot returns the cached collection if the slot holds a non-empty one.
func (c *Catalog) readSlot(ctx context.Context) ([]Summary, bool) {
	items, err := c.slot.Load(ctx)
	if err != nil {
		if !cache.IsMiss(err) {
			c.logger.Warn().Err(err).Msg("Cache read failed - refetching")
		}
		return nil, false
	}
	if len(items) == 0 {
		return nil, false
	}
	return items, true
}

func (c *Catalog) finish(items []Summary, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.refreshing = false
	c.finishLocked(items, err)
}

// finishLocked must be called with c.mu held.
func (c *Catalog) finishLocked(items []Summary, err error) {
	if err != nil {
		c.state = StateError
		c.err = err
		c.items = nil
		c.index = nil
		catalogItems.Set(0)
		return
	}

	c.state = StateLoaded
	c.err = nil
	c.items = items
	c.index = newSearchIndex(items)
	c.loadedAt = time.Now()
	catalogItems.Set(float64(len(items)))
}

// Refresh refetches the whole collection, bypassing the slot. A loaded
// collection stays visible while the batch runs and is replaced, in memory
// and in the slot, only if the batch succeeds. A failed refresh keeps it.
// Without a loaded collection the catalog moves to StateLoading as in Load.
func (c *Catalog) Refresh(ctx context.Context) error {
	c.mu.Lock()
	if c.state == StateLoading || c.refreshing {
		c.mu.Unlock()
		return ErrBusy
	}
	keep := c.state == StateLoaded
	if keep {
		c.refreshing = true
	} else {
		c.state = StateLoading
		c.err = nil
	}
	c.mu.Unlock()

	c.logger.Info().Bool("keep_current", keep).Msg("Catalog refresh requested")

	items, err := c.fetch(ctx)
	if keep && err != nil {
		c.mu.Lock()
		c.refreshing = false
		c.mu.Unlock()
		return err
	}
	c.finish(items, err)
	return err
}

// Busy reports whether a load or refresh is in flight.
func (c *Catalog) Busy() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state == StateLoading || c.refreshing
}

// Page returns page (1-based) of the collection.
func (c *Catalog) Page(page int) ListPage {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pageOf(c.items, page, "")
}

// Search returns page (1-based) of the entities whose names match query.
// An empty query is the same as Page.
func (c *Catalog) Search(query string, page int) ListPage {
	c.mu.RLock()
	defer c.mu.RUnlock()

	if query == "" {
		return c.pageOf(c.items, page, "")
	}
	return c.pageOf(c.index.match(query), page, query)
}

// pageOf must be called with c.mu held.
func (c *Catalog) pageOf(items []Summary, page int, query string) ListPage {
	slice := pagination.Slice(items, page, c.config.PageSize)
	lp := ListPage{
		State: c.state,
		Items: make([]Summary, len(slice)),
		Nav:   pagination.Build(page, len(items), c.config.PageSize, c.config.CutCount),
		Total: len(items),
		Query: query,
	}
	copy(lp.Items, slice)
	if c.err != nil {
		lp.Err = c.err.Error()
	}
	return lp
}
