package detail

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"
	"time"

	"github.com/Sternrassler/pokedex-browser/pkg/notify"
)

type stubFetcher struct {
	calls  atomic.Int32
	detail *Detail
	err    error
	lastID string
}

func (s *stubFetcher) FetchAbility(ctx context.Context, id string) (*Detail, error) {
	s.calls.Add(1)
	s.lastID = id
	return s.detail, s.err
}

const testSpriteBase = "https://raw.githubusercontent.com/PokeAPI/sprites/master/sprites/pokemon"

func TestLoader_Load(t *testing.T) {
	fetcher := &stubFetcher{detail: sampleDetail()}
	center := notify.NewCenter(time.Minute)
	loader := NewLoader(fetcher, center, Config{SpriteBaseURL: testSpriteBase})

	v := loader.Load(context.Background(), "65")

	if v.State != StateLoaded || !v.Found() {
		t.Fatalf("State = %v, want loaded", v.State)
	}
	if v.Name != "Overgrow" {
		t.Errorf("Name = %q, want Overgrow", v.Name)
	}
	if v.Generation != "generation-iii" {
		t.Errorf("Generation = %q", v.Generation)
	}
	if v.Color != FallbackColor {
		t.Errorf("Color = %q, want fallback %q", v.Color, FallbackColor)
	}
	if v.SpriteURL != testSpriteBase+"/65.png" {
		t.Errorf("SpriteURL = %q", v.SpriteURL)
	}
	if len(center.Active()) != 0 {
		t.Error("successful load should not raise a toast")
	}
}

func TestLoader_Load_Error(t *testing.T) {
	fetcher := &stubFetcher{err: errors.New("404 not found")}
	center := notify.NewCenter(time.Minute)
	loader := NewLoader(fetcher, center, Config{})

	v := loader.Load(context.Background(), "99999")

	if v.State != StateError {
		t.Errorf("State = %v, want error", v.State)
	}
	if v.Found() || v.Detail != nil {
		t.Error("error view should carry no detail")
	}
	if v.Name != UnknownName {
		t.Errorf("Name = %q, want %q", v.Name, UnknownName)
	}

	toasts := center.Active()
	if len(toasts) != 1 || toasts[0].Message != LoadFailedMessage {
		t.Errorf("toasts = %+v, want one failure toast", toasts)
	}
}

func TestLoader_Load_NoCache(t *testing.T) {
	fetcher := &stubFetcher{detail: sampleDetail()}
	loader := NewLoader(fetcher, nil, Config{})

	loader.Load(context.Background(), "65")
	loader.Load(context.Background(), "65")

	if n := fetcher.calls.Load(); n != 2 {
		t.Errorf("fetch calls = %d, want 2 (every visit refetches)", n)
	}
}

func TestLoader_Load_EmptyID(t *testing.T) {
	fetcher := &stubFetcher{detail: sampleDetail()}
	loader := NewLoader(fetcher, nil, Config{})

	v := loader.Load(context.Background(), "  ")
	if v.State != StateError {
		t.Errorf("State = %v, want error", v.State)
	}
	if fetcher.calls.Load() != 0 {
		t.Error("empty id should not reach the fetcher")
	}
}

func TestLoader_Load_NilDetail(t *testing.T) {
	loader := NewLoader(&stubFetcher{}, nil, Config{})

	if v := loader.Load(context.Background(), "1"); v.State != StateError {
		t.Errorf("State = %v, want error for empty response", v.State)
	}
}

// missingErr mimics an API error for an unknown resource.
type missingErr struct{ status int }

func (e *missingErr) Error() string  { return fmt.Sprintf("status %d", e.status) }
func (e *missingErr) NotFound() bool { return e.status == 404 }

func TestLoader_Load_NotFound(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"404 wrapped", fmt.Errorf("fetch ability 9: %w", &missingErr{status: 404}), true},
		{"500", &missingErr{status: 500}, false},
		{"plain error", errors.New("connection refused"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			center := notify.NewCenter(time.Minute)
			loader := NewLoader(&stubFetcher{err: tt.err}, center, Config{})

			v := loader.Load(context.Background(), "9")
			if v.State != StateError || v.Found() {
				t.Fatalf("State = %v, want error view", v.State)
			}
			if v.NotFound != tt.want {
				t.Errorf("NotFound = %v, want %v", v.NotFound, tt.want)
			}
			if len(center.Active()) != 1 {
				t.Errorf("toasts = %d, want 1", len(center.Active()))
			}
		})
	}
}

func TestNewLoader_DefaultLocale(t *testing.T) {
	loader := NewLoader(&stubFetcher{}, nil, Config{})
	if loader.config.Locale != DefaultLocale {
		t.Errorf("Locale = %q, want %q", loader.config.Locale, DefaultLocale)
	}
}
