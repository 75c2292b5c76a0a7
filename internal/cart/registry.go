package cart

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"sync"
	"time"
)

const cartTokenBytes = 24

// Registry maps opaque session tokens to in-memory carts. Nothing is
// persisted; lifecycle matches the process.
type Registry struct {
	mu    sync.Mutex
	carts map[string]*entry
	now   func() time.Time
}

type entry struct {
	cart     *Cart
	lastSeen time.Time
}

// NewRegistry returns an empty cart registry.
func NewRegistry() *Registry {
	return &Registry{
		carts: make(map[string]*entry),
		now:   time.Now,
	}
}

// NewToken mints a fresh cart session token.
func NewToken() (string, error) {
	buf := make([]byte, cartTokenBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating cart token: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// Get returns the cart for the token, creating an empty one on first use.
func (r *Registry) Get(token string) *Cart {
	r.mu.Lock()
	defer r.mu.Unlock()

	e, ok := r.carts[token]
	if !ok {
		e = &entry{cart: New()}
		r.carts[token] = e
	}
	e.lastSeen = r.now()
	return e.cart
}

// Drop discards the cart tied to the token.
func (r *Registry) Drop(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.carts, token)
}

// Len reports how many carts are currently held.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.carts)
}

// PruneIdle drops carts untouched for longer than maxIdle and returns how
// many were removed. Called periodically so abandoned sessions do not
// accumulate.
func (r *Registry) PruneIdle(maxIdle time.Duration) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	cutoff := r.now().Add(-maxIdle)
	pruned := 0
	for token, e := range r.carts {
		if e.lastSeen.Before(cutoff) {
			delete(r.carts, token)
			pruned++
		}
	}
	return pruned
}
