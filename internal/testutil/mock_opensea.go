// Package testutil provides a configurable mock OpenSea server for tests.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// MockOpenSea is a configurable mock OpenSea API server.
type MockOpenSea struct {
	server   *httptest.Server
	mu       sync.Mutex
	handlers map[string]http.HandlerFunc

	requests   map[string]int
	queries    map[string][]url.Values
	throttleN  int
	lastAPIKey string
}

// NewMockOpenSea creates a new mock server. Paths without a registered
// handler answer 200 with an empty JSON object.
func NewMockOpenSea() *MockOpenSea {
	mock := &MockOpenSea{
		handlers: make(map[string]http.HandlerFunc),
		requests: make(map[string]int),
		queries:  make(map[string][]url.Values),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.requests[r.URL.Path]++
		mock.queries[r.URL.Path] = append(mock.queries[r.URL.Path], r.URL.Query())
		mock.lastAPIKey = r.Header.Get("X-API-KEY")

		if mock.throttleN > 0 {
			mock.throttleN--
			mock.mu.Unlock()
			w.WriteHeader(http.StatusTooManyRequests)
			fmt.Fprint(w, `{"detail": "Request was throttled."}`)
			return
		}

		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		if exists {
			handler(w, r)
			return
		}
		fmt.Fprint(w, `{}`)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockOpenSea) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockOpenSea) Close() {
	m.server.Close()
}

// Handle sets a custom handler for a specific path.
func (m *MockOpenSea) Handle(path string, handler http.HandlerFunc) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// ThrottleNext makes the next n requests answer 429, whatever their path.
func (m *MockOpenSea) ThrottleNext(n int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.throttleN = n
}

// Requests returns the number of requests made to one path.
func (m *MockOpenSea) Requests(path string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.requests[path]
}

// TotalRequests returns the number of requests made across all paths.
func (m *MockOpenSea) TotalRequests() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	total := 0
	for _, n := range m.requests {
		total += n
	}
	return total
}

// QueriesFor returns the query values of every request made to one path.
func (m *MockOpenSea) QueriesFor(path string) []url.Values {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]url.Values(nil), m.queries[path]...)
}

// LastAPIKey returns the X-API-KEY header of the most recent request.
func (m *MockOpenSea) LastAPIKey() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastAPIKey
}

// PageSet builds a handler serving a cursor-chained page sequence: the
// first request (no cursor) gets pages[0], a request with cursor "p1" gets
// pages[1], and so on. Page bodies are raw JSON; their "next" field must
// name the cursor of the following page ("p1", "p2", ...) or be null.
func PageSet(pages ...string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		idx := 0
		if cursor := r.URL.Query().Get("cursor"); cursor != "" {
			if _, err := fmt.Sscanf(cursor, "p%d", &idx); err != nil {
				http.Error(w, "unknown cursor", http.StatusBadRequest)
				return
			}
		}
		if idx < 0 || idx >= len(pages) {
			http.Error(w, "cursor out of range", http.StatusBadRequest)
			return
		}
		fmt.Fprint(w, pages[idx])
	}
}
