package utils

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// KeyRotator hands out API keys round-robin and skips keys that were
// marked exhausted. Exhausted marks expire after the cooldown so keys
// come back once provider quotas reset.
type KeyRotator struct {
	mu        sync.Mutex
	keys      []string
	next      int
	exhausted map[int]time.Time
	cooldown  time.Duration
}

// NewKeyRotator builds a rotator from a comma-separated key list.
func NewKeyRotator(commaSeparated string, cooldown time.Duration) (*KeyRotator, error) {
	var keys []string
	for _, k := range strings.Split(commaSeparated, ",") {
		if k = strings.TrimSpace(k); k != "" {
			keys = append(keys, k)
		}
	}
	if len(keys) == 0 {
		return nil, fmt.Errorf("no API keys configured")
	}
	if cooldown <= 0 {
		cooldown = time.Hour
	}
	return &KeyRotator{
		keys:      keys,
		exhausted: make(map[int]time.Time),
		cooldown:  cooldown,
	}, nil
}

// GetNextKey returns the next usable key and its index.
func (r *KeyRotator) GetNextKey() (string, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	now := time.Now()
	for i := 0; i < len(r.keys); i++ {
		idx := (r.next + i) % len(r.keys)
		if until, ok := r.exhausted[idx]; ok {
			if now.Before(until) {
				continue
			}
			delete(r.exhausted, idx)
		}
		r.next = (idx + 1) % len(r.keys)
		return r.keys[idx], idx, nil
	}

	return "", -1, fmt.Errorf("all %d API keys are exhausted", len(r.keys))
}

// MarkKeyAsExhausted removes a key from rotation until the cooldown passes.
func (r *KeyRotator) MarkKeyAsExhausted(index int) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if index < 0 || index >= len(r.keys) {
		return fmt.Errorf("key index %d out of range", index)
	}
	r.exhausted[index] = time.Now().Add(r.cooldown)
	return nil
}

// GetTotalKeys returns the number of configured keys.
func (r *KeyRotator) GetTotalKeys() int {
	return len(r.keys)
}
