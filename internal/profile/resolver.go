// Package profile resolves market addresses to human-readable display names
// through an optional profile REST API.
package profile

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Resolver fetches and caches the mapping from market address to display
// name. Lookups that miss the API are cached as empty so a dead endpoint is
// only retried once per TTL per address.
type Resolver struct {
	apiURL string
	mu     sync.RWMutex
	cache  map[string]cacheEntry
	ttl    time.Duration
	client *http.Client
}

type cacheEntry struct {
	name      string
	fetchedAt time.Time
}

// NewResolver returns nil when no API URL is configured; a nil resolver is
// valid and resolves everything to "".
func NewResolver(apiURL string) *Resolver {
	if apiURL == "" {
		return nil
	}
	return &Resolver{
		apiURL: strings.TrimSuffix(apiURL, "/"),
		cache:  map[string]cacheEntry{},
		ttl:    30 * time.Minute, // Profiles change rarely
		client: &http.Client{Timeout: 10 * time.Second},
	}
}

func (r *Resolver) Resolve(address string) string {
	if r == nil || address == "" {
		return ""
	}

	// Fast path: cached and fresh
	r.mu.RLock()
	entry, ok := r.cache[address]
	r.mu.RUnlock()
	if ok && time.Since(entry.fetchedAt) <= r.ttl {
		return entry.name
	}

	name := r.fetch(address)
	r.mu.Lock()
	r.cache[address] = cacheEntry{name: name, fetchedAt: time.Now()}
	r.mu.Unlock()
	return name
}

type profileResp struct {
	Address string `json:"address"`
	Name    string `json:"name"`
}

func (r *Resolver) fetch(address string) string {
	reqURL := fmt.Sprintf("%s/profiles/%s", r.apiURL, url.PathEscape(address))
	resp, err := r.client.Get(reqURL)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return ""
	}

	var payload profileResp
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return ""
	}
	return payload.Name
}
