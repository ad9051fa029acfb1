// Package client provides the PokeAPI HTTP client used by the catalog and
// detail views, with request gating, metrics and error classification.
package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/Sternrassler/pokedex-browser/pkg/catalog"
	"github.com/Sternrassler/pokedex-browser/pkg/detail"
	"github.com/Sternrassler/pokedex-browser/pkg/logging"
	"github.com/Sternrassler/pokedex-browser/pkg/ratelimit"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog"
)

// Prometheus metrics for PokeAPI client operations.
var (
	requestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_requests_total",
		Help: "Total PokeAPI requests by endpoint and status",
	}, []string{"endpoint", "status"})

	requestDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "pokedex_request_duration_seconds",
		Help:    "PokeAPI request duration in seconds by endpoint",
		Buckets: []float64{0.05, 0.1, 0.5, 1, 2, 5, 10},
	}, []string{"endpoint"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "pokedex_errors_total",
		Help: "Total PokeAPI errors by class",
	}, []string{"class"})
)

// Endpoint labels.
const (
	endpointPokemon = "pokemon"
	endpointAbility = "ability"
)

// Default PokeAPI locations.
const (
	DefaultHomeURL   = "https://pokeapi.co/api/v2/pokemon/"
	DefaultDetailURL = "https://pokeapi.co/api/v2"
)

// maxBodySize bounds a decoded response body.
const maxBodySize = 4 << 20

// Client is the PokeAPI client.
type Client struct {
	httpClient *http.Client
	limiter    *ratelimit.Limiter
	config     Config
	logger     zerolog.Logger
}

// Config holds the client configuration.
type Config struct {
	// HomeURL is the summary endpoint prefix; the numeric id is appended as-is.
	HomeURL string

	// DetailURL is the API base for detail records ({DetailURL}/ability/{id}).
	DetailURL string

	// User-Agent header sent with every request
	UserAgent string

	// Timeout for a single HTTP request
	Timeout time.Duration

	// Limiter gates outgoing requests; nil disables gating
	Limiter *ratelimit.Limiter
}

// DefaultConfig returns a configuration pointing at the public PokeAPI.
func DefaultConfig(userAgent string) Config {
	return Config{
		HomeURL:   DefaultHomeURL,
		DetailURL: DefaultDetailURL,
		UserAgent: userAgent,
		Timeout:   15 * time.Second,
	}
}

// New creates a new PokeAPI client.
func New(cfg Config) (*Client, error) {
	if err := validateURL("home url", cfg.HomeURL); err != nil {
		return nil, err
	}
	if err := validateURL("detail url", cfg.DetailURL); err != nil {
		return nil, err
	}
	if cfg.UserAgent == "" {
		return nil, fmt.Errorf("user-agent is required")
	}
	if cfg.Timeout <= 0 {
		return nil, fmt.Errorf("timeout must be > 0 (got %s)", cfg.Timeout)
	}

	cfg.DetailURL = strings.TrimSuffix(cfg.DetailURL, "/")

	return &Client{
		httpClient: &http.Client{
			Timeout: cfg.Timeout,
		},
		limiter: cfg.Limiter,
		config:  cfg,
		logger:  logging.NewLogger("pokeapi-client"),
	}, nil
}

func validateURL(name, raw string) error {
	if raw == "" {
		return fmt.Errorf("%s is required", name)
	}
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("parse %s: %w", name, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("%s must be http(s) (got %q)", name, raw)
	}
	if u.Host == "" {
		return fmt.Errorf("%s has no host (got %q)", name, raw)
	}
	return nil
}

// SetHTTPClient sets a custom HTTP client (for testing).
func (c *Client) SetHTTPClient(client *http.Client) {
	c.httpClient = client
}

// namedResource is PokeAPI's {name, url} reference.
type namedResource struct {
	Name string `json:"name"`
	URL  string `json:"url"`
}

type pokemonResponse struct {
	ID    int    `json:"id"`
	Name  string `json:"name"`
	Types []struct {
		Slot int           `json:"slot"`
		Type namedResource `json:"type"`
	} `json:"types"`
}

type abilityResponse struct {
	ID            int `json:"id"`
	EffectEntries []struct {
		Effect      string        `json:"effect"`
		ShortEffect string        `json:"short_effect"`
		Language    namedResource `json:"language"`
	} `json:"effect_entries"`
	FlavorTextEntries []struct {
		FlavorText string        `json:"flavor_text"`
		Language   namedResource `json:"language"`
	} `json:"flavor_text_entries"`
	Names []struct {
		Name     string        `json:"name"`
		Language namedResource `json:"language"`
	} `json:"names"`
	Generation namedResource `json:"generation"`
}

// FetchPokemon fetches one entity by id and normalizes it into a summary.
func (c *Client) FetchPokemon(ctx context.Context, id int) (catalog.Summary, error) {
	var resp pokemonResponse
	if err := c.getJSON(ctx, endpointPokemon, c.config.HomeURL+strconv.Itoa(id), &resp); err != nil {
		return catalog.Summary{}, fmt.Errorf("fetch pokemon %d: %w", id, err)
	}

	types := make([]string, 0, len(resp.Types))
	for _, t := range resp.Types {
		types = append(types, t.Type.Name)
	}

	if resp.ID == 0 {
		resp.ID = id
	}
	return catalog.Normalize(resp.ID, resp.Name, types), nil
}

// Fetch implements pagination.Fetcher for the catalog batch.
func (c *Client) Fetch(ctx context.Context, id int) (catalog.Summary, error) {
	return c.FetchPokemon(ctx, id)
}

// FetchAbility fetches the detail record for id.
func (c *Client) FetchAbility(ctx context.Context, id string) (*detail.Detail, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, ErrEmptyID
	}

	endpoint := c.config.DetailURL + "/ability/" + url.PathEscape(id)

	var resp abilityResponse
	if err := c.getJSON(ctx, endpointAbility, endpoint, &resp); err != nil {
		return nil, fmt.Errorf("fetch ability %s: %w", id, err)
	}

	d := &detail.Detail{
		ID:          id,
		Effects:     make([]detail.Effect, 0, len(resp.EffectEntries)),
		FlavorTexts: make([]detail.LocalizedText, 0, len(resp.FlavorTextEntries)),
		Names:       make([]detail.LocalizedText, 0, len(resp.Names)),
		Generation:  resp.Generation.Name,
	}
	for _, e := range resp.EffectEntries {
		d.Effects = append(d.Effects, detail.Effect{
			Effect:      e.Effect,
			ShortEffect: e.ShortEffect,
			Locale:      e.Language.Name,
		})
	}
	for _, f := range resp.FlavorTextEntries {
		d.FlavorTexts = append(d.FlavorTexts, detail.LocalizedText{
			Text:   f.FlavorText,
			Locale: f.Language.Name,
		})
	}
	for _, n := range resp.Names {
		d.Names = append(d.Names, detail.LocalizedText{
			Text:   n.Name,
			Locale: n.Language.Name,
		})
	}
	return d, nil
}

// getJSON performs a gated GET and decodes a 2xx JSON body into v.
// There is no retry: any failure is returned to the caller.
func (c *Client) getJSON(ctx context.Context, endpoint, rawURL string, v any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	startTime := time.Now()
	defer func() {
		requestDuration.WithLabelValues(endpoint).Observe(time.Since(startTime).Seconds())
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)
	req.Header.Set("Accept", "application/json")

	c.logger.Debug().
		Str("endpoint", endpoint).
		Str("url", rawURL).
		Msg("Executing PokeAPI request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassNetwork)).Inc()
		requestsTotal.WithLabelValues(endpoint, "network_error").Inc()
		c.logger.Error().
			Err(err).
			Str("endpoint", endpoint).
			Str("error_class", string(ErrorClassNetwork)).
			Msg("HTTP request failed")
		return &APIError{ErrorClass: ErrorClassNetwork, URL: rawURL, Err: err}
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	requestsTotal.WithLabelValues(endpoint, status).Inc()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Drain so the connection can be reused.
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBodySize))

		class := classifyStatus(resp.StatusCode)
		errorsTotal.WithLabelValues(string(class)).Inc()
		c.logger.Warn().
			Str("endpoint", endpoint).
			Str("url", rawURL).
			Int("status", resp.StatusCode).
			Str("error_class", string(class)).
			Msg("PokeAPI request error")
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: class,
			URL:        rawURL,
			Message:    resp.Status,
		}
	}

	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBodySize)).Decode(v); err != nil {
		errorsTotal.WithLabelValues(string(ErrorClassDecode)).Inc()
		c.logger.Warn().
			Err(err).
			Str("endpoint", endpoint).
			Str("error_class", string(ErrorClassDecode)).
			Msg("Failed to decode PokeAPI response")
		return &APIError{
			StatusCode: resp.StatusCode,
			ErrorClass: ErrorClassDecode,
			URL:        rawURL,
			Message:    "decode body",
			Err:        err,
		}
	}
	return nil
}
