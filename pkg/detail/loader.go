package detail

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Sternrassler/pokedex-browser/pkg/catalog"
	"github.com/Sternrassler/pokedex-browser/pkg/logging"
	"github.com/Sternrassler/pokedex-browser/pkg/notify"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// LoadFailedMessage is the toast shown when a detail fetch fails.
const LoadFailedMessage = "Something went wrong! Please reload the page."

var detailLoads = promauto.NewCounterVec(prometheus.CounterOpts{
	Name: "pokedex_detail_loads_total",
	Help: "Detail view loads by result",
}, []string{"result"}) // "loaded", "not_found", "error"

// State is the detail view lifecycle of one visit.
type State string

const (
	StateIdle    State = "idle"
	StateLoading State = "loading"
	StateLoaded  State = "loaded"
	StateError   State = "error"
)

// Fetcher loads the extended record for an identifier.
type Fetcher interface {
	FetchAbility(ctx context.Context, id string) (*Detail, error)
}

// View is the render model of a detail page.
type View struct {
	State      State   `json:"state"`
	ID         string  `json:"id"`
	Detail     *Detail `json:"detail,omitempty"`
	Name       string  `json:"name"`
	Effect     string  `json:"effect"`
	Flavor     string  `json:"flavor"`
	Generation string  `json:"generation"`
	Color      string  `json:"color"`
	SpriteURL  string  `json:"sprite_url"`
	Err        string  `json:"error,omitempty"`
	NotFound   bool    `json:"not_found,omitempty"`
}

// Found reports whether the view has data to render.
func (v View) Found() bool {
	return v.State == StateLoaded && v.Detail != nil
}

// Config holds loader configuration.
type Config struct {
	// Locale selects localized names and texts
	Locale string
	// SpriteBaseURL is the sprite image base ({base}/{id}.png)
	SpriteBaseURL string
}

// Loader fetches detail views. It keeps no state between calls.
type Loader struct {
	fetcher  Fetcher
	notifier notify.Notifier
	config   Config
	logger   zerolog.Logger
}

// NewLoader creates a detail loader.
func NewLoader(fetcher Fetcher, notifier notify.Notifier, cfg Config) *Loader {
	if fetcher == nil {
		panic("detail fetcher cannot be nil")
	}
	if notifier == nil {
		notifier = notify.NewCenter(0)
	}
	if cfg.Locale == "" {
		cfg.Locale = DefaultLocale
	}
	return &Loader{
		fetcher:  fetcher,
		notifier: notifier,
		config:   cfg,
		logger:   logging.NewLogger("detail"),
	}
}

// Load fetches the detail for id and returns the resulting view.
// Failures raise a toast, are logged, and yield an error view without data.
func (l *Loader) Load(ctx context.Context, id string) View {
	id = strings.TrimSpace(id)
	start := time.Now()

	l.logger.Debug().
		Str("id", id).
		Str("state", string(StateLoading)).
		Msg("Loading detail")

	d, err := l.fetch(ctx, id)
	if err != nil {
		l.notifier.Error(LoadFailedMessage)

		v := l.view(StateError, id, nil)
		v.Err = err.Error()
		v.NotFound = isNotFound(err)

		event := l.logger.Error()
		result := "error"
		if v.NotFound {
			event = l.logger.Warn()
			result = "not_found"
		}
		detailLoads.WithLabelValues(result).Inc()
		event.
			Err(err).
			Str("id", id).
			Dur("duration", time.Since(start)).
			Msg("Detail fetch failed")
		return v
	}

	detailLoads.WithLabelValues("loaded").Inc()
	l.logger.Debug().
		Str("id", id).
		Dur("duration", time.Since(start)).
		Msg("Detail loaded")
	return l.view(StateLoaded, id, d)
}

// isNotFound reports whether err carries a "resource missing" answer from
// the API, as opposed to a transport or server failure.
func isNotFound(err error) bool {
	var nf interface{ NotFound() bool }
	return errors.As(err, &nf) && nf.NotFound()
}

func (l *Loader) fetch(ctx context.Context, id string) (*Detail, error) {
	if id == "" {
		return nil, fmt.Errorf("detail id is required")
	}
	d, err := l.fetcher.FetchAbility(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, fmt.Errorf("detail %s: empty response", id)
	}
	return d, nil
}

func (l *Loader) view(state State, id string, d *Detail) View {
	v := View{
		State:      state,
		ID:         id,
		Detail:     d,
		Name:       d.Name(l.config.Locale),
		Effect:     d.Effect(l.config.Locale),
		Flavor:     d.Flavor(l.config.Locale),
		Generation: d.GenerationLabel(),
		Color:      FallbackColor,
	}
	if d != nil {
		v.Color = AccentColor(d.Generation)
	}
	if id != "" && l.config.SpriteBaseURL != "" {
		v.SpriteURL = catalog.SpriteURL(l.config.SpriteBaseURL, id)
	}
	return v
}
