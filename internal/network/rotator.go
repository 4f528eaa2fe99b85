package network

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"
)

var ErrNoProxies = errors.New("no proxies available")

const (
	defaultBanDuration = 10 * time.Minute
	// maxFailures consecutive transport errors bench a proxy.
	maxFailures = 3
)

type proxyState struct {
	url         *url.URL
	bannedUntil time.Time
	failures    int
}

// Rotator hands out proxies round-robin and benches the ones the site has
// started refusing or that keep failing at the transport level.
type Rotator struct {
	mu          sync.Mutex
	proxies     []*proxyState
	banDuration time.Duration
	index       int
	now         func() time.Time
}

// NewRotator parses raw proxy URLs. Blank entries and duplicates are
// skipped; a non-positive banDuration uses the default.
func NewRotator(raw []string, banDuration time.Duration) (*Rotator, error) {
	if banDuration <= 0 {
		banDuration = defaultBanDuration
	}
	rotator := &Rotator{banDuration: banDuration, now: time.Now}

	seen := map[string]struct{}{}
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		u, err := url.Parse(entry)
		if err != nil {
			return nil, fmt.Errorf("invalid proxy url %q: %w", entry, err)
		}
		if u.Scheme == "" || u.Host == "" {
			return nil, fmt.Errorf("invalid proxy url %q: scheme and host are required", entry)
		}
		if _, dup := seen[u.String()]; dup {
			continue
		}
		seen[u.String()] = struct{}{}
		rotator.proxies = append(rotator.proxies, &proxyState{url: u})
	}

	return rotator, nil
}

// Len returns the number of configured proxies.
func (r *Rotator) Len() int {
	if r == nil {
		return 0
	}
	return len(r.proxies)
}

// Available returns the number of proxies not currently benched.
func (r *Rotator) Available() int {
	if r == nil {
		return 0
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, state := range r.proxies {
		if !r.benched(state) {
			n++
		}
	}
	return n
}

func (r *Rotator) Next() (*url.URL, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for range r.proxies {
		state := r.proxies[r.index]
		r.index = (r.index + 1) % len(r.proxies)
		if !r.benched(state) {
			return state.url, nil
		}
	}
	return nil, ErrNoProxies
}

// Report records a response. 403, 429 and 503 (challenge pages) bench the
// proxy; any other status clears its failure count.
func (r *Rotator) Report(proxy *url.URL, status int) {
	state := r.lookup(proxy)
	if state == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	switch status {
	case 403, 429, 503:
		state.bannedUntil = r.now().Add(r.banDuration)
	default:
		state.failures = 0
	}
}

// Fail records a transport error for proxy.
func (r *Rotator) Fail(proxy *url.URL) {
	state := r.lookup(proxy)
	if state == nil {
		return
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	state.failures++
	if state.failures >= maxFailures {
		state.failures = 0
		state.bannedUntil = r.now().Add(r.banDuration)
	}
}

func (r *Rotator) lookup(proxy *url.URL) *proxyState {
	if r == nil || proxy == nil {
		return nil
	}
	key := proxy.String()
	for _, state := range r.proxies {
		if state.url.String() == key {
			return state
		}
	}
	return nil
}

func (r *Rotator) benched(state *proxyState) bool {
	return !state.bannedUntil.IsZero() && r.now().Before(state.bannedUntil)
}
