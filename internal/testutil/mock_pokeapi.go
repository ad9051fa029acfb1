// Package testutil provides testing utilities for the PokeAPI client and the
// views built on it.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"time"
)

// MockResponse defines the behavior for a mock endpoint response.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockPokeAPI is a configurable mock PokeAPI server for testing.
//
// Without overrides every /pokemon/{id} answers with a generated entity
// (see PokemonJSON) and every /ability/{id} with a generated ability.
type MockPokeAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)
	types    map[int][]string

	// Tracking
	RequestCount      int
	PokemonCount      int
	AbilityCount      int
	LastRequestHeader http.Header
}

// NewMockPokeAPI creates a new mock PokeAPI server.
func NewMockPokeAPI() *MockPokeAPI {
	mock := &MockPokeAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		types:    make(map[int][]string),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		switch {
		case strings.HasPrefix(r.URL.Path, "/pokemon/"):
			mock.PokemonCount++
		case strings.HasPrefix(r.URL.Path, "/ability/"):
			mock.AbilityCount++
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL (the detail base).
func (m *MockPokeAPI) URL() string {
	return m.server.URL
}

// HomeURL returns the summary endpoint prefix ids are appended to.
func (m *MockPokeAPI) HomeURL() string {
	return m.server.URL + "/pokemon/"
}

// Close shuts down the mock server.
func (m *MockPokeAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockPokeAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.PokemonCount = 0
	m.AbilityCount = 0
	m.LastRequestHeader = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockPokeAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a simple response for a path.
func (m *MockPokeAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		if resp.Delay > 0 {
			time.Sleep(resp.Delay)
		}
		for key, value := range resp.Headers {
			w.Header().Set(key, value)
		}
		w.WriteHeader(resp.StatusCode)
		if resp.Body != "" {
			w.Write([]byte(resp.Body))
		}
	})
}

// SetPokemonResponse configures the response for /pokemon/{id}.
func (m *MockPokeAPI) SetPokemonResponse(id int, resp MockResponse) {
	m.SetResponse(fmt.Sprintf("/pokemon/%d", id), resp)
}

// SetAbilityResponse configures the response for /ability/{id}.
func (m *MockPokeAPI) SetAbilityResponse(id string, resp MockResponse) {
	m.SetResponse("/ability/"+id, resp)
}

// SetTypes overrides the generated type list of entity id.
func (m *MockPokeAPI) SetTypes(id int, types ...string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.types[id] = types
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockPokeAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetPokemonCount returns the number of summary requests.
func (m *MockPokeAPI) GetPokemonCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.PokemonCount
}

// GetAbilityCount returns the number of detail requests.
func (m *MockPokeAPI) GetAbilityCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.AbilityCount
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockPokeAPI) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader.Clone()
}

// defaultHandler provides PokeAPI-like responses.
func (m *MockPokeAPI) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")

	switch {
	case strings.HasPrefix(r.URL.Path, "/pokemon/"):
		id, err := strconv.Atoi(strings.TrimPrefix(r.URL.Path, "/pokemon/"))
		if err != nil || id <= 0 {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		m.mu.RLock()
		types, ok := m.types[id]
		m.mu.RUnlock()
		if !ok {
			types = []string{"grass", "poison"}
		}
		w.Write([]byte(PokemonJSON(id, fmt.Sprintf("pokemon-%d", id), types...)))

	case strings.HasPrefix(r.URL.Path, "/ability/"):
		id := strings.TrimPrefix(r.URL.Path, "/ability/")
		if id == "" {
			http.Error(w, "Not Found", http.StatusNotFound)
			return
		}
		w.Write([]byte(AbilityJSON("ability-"+id, "generation-iii")))

	default:
		http.Error(w, "Not Found", http.StatusNotFound)
	}
}

// PokemonJSON renders a /pokemon/{id} body.
func PokemonJSON(id int, name string, types ...string) string {
	type ref struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	type slot struct {
		Slot int `json:"slot"`
		Type ref `json:"type"`
	}
	body := struct {
		ID    int    `json:"id"`
		Name  string `json:"name"`
		Types []slot `json:"types"`
	}{ID: id, Name: name, Types: make([]slot, 0, len(types))}

	for i, t := range types {
		body.Types = append(body.Types, slot{
			Slot: i + 1,
			Type: ref{Name: t, URL: "https://pokeapi.co/api/v2/type/" + t + "/"},
		})
	}

	data, _ := json.Marshal(body)
	return string(data)
}

// AbilityJSON renders an /ability/{id} body with entries in a Japanese,
// German and English locale, English last, so lookups cannot rely on position.
func AbilityJSON(name, generation string) string {
	lang := func(l string) map[string]string {
		return map[string]string{"name": l, "url": "https://pokeapi.co/api/v2/language/" + l + "/"}
	}
	body := map[string]any{
		"id":   1,
		"name": name,
		"effect_entries": []map[string]any{
			{"effect": "Langer Effekt.", "short_effect": "Kurzer Effekt.", "language": lang("de")},
			{"effect": "Long effect of " + name + ".", "short_effect": "Short effect of " + name + ".", "language": lang("en")},
		},
		"flavor_text_entries": []map[string]any{
			{"flavor_text": "ふしぎな ちから", "language": lang("ja")},
			{"flavor_text": "Flavor of " + name + ".", "language": lang("en")},
			{"flavor_text": "Second flavor of " + name + ".", "language": lang("en")},
		},
		"names": []map[string]any{
			{"name": "とくせい", "language": lang("ja")},
			{"name": "Fähigkeit", "language": lang("de")},
			{"name": strings.ToUpper(name[:1]) + name[1:], "language": lang("en")},
		},
		"generation": map[string]string{"name": generation, "url": "https://pokeapi.co/api/v2/generation/3/"},
	}

	data, _ := json.Marshal(body)
	return string(data)
}

// NewJSONResponse creates a standard 200 OK JSON response.
func NewJSONResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewNotFoundResponse creates a 404 response as PokeAPI sends it.
func NewNotFoundResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusNotFound,
		Body:       "Not Found",
		Headers: map[string]string{
			"Content-Type": "text/plain; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"error": "Internal server error"}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewMalformedResponse creates a 200 response whose body is not JSON.
func NewMalformedResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       `{"id": 1, "name": `,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}
