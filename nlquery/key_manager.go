package nlquery

import (
	"sync"
	"time"
)

// DefaultKeyCooldown is how long a rate-limited key is skipped.
const DefaultKeyCooldown = time.Minute

// KeyManager handles API key rotation
type KeyManager struct {
	mu       sync.Mutex
	keys     []string
	current  int
	cooldown time.Duration
	disabled map[string]time.Time
	now      func() time.Time
}

// NewKeyManager creates a new key manager over keys, in rotation order.
func NewKeyManager(keys []string) *KeyManager {
	return &KeyManager{
		keys:     append([]string(nil), keys...),
		cooldown: DefaultKeyCooldown,
		disabled: make(map[string]time.Time),
		now:      time.Now,
	}
}

// Len is the number of keys under rotation.
func (km *KeyManager) Len() int {
	return len(km.keys)
}

// GetNextKey returns the next API key in rotation. Keys marked failed are
// skipped until their cooldown passes; if every key is cooling down the
// plain rotation order is used.
func (km *KeyManager) GetNextKey() string {
	km.mu.Lock()
	defer km.mu.Unlock()

	if len(km.keys) == 0 {
		return ""
	}

	now := km.now()
	for i := 0; i < len(km.keys); i++ {
		key := km.keys[(km.current+i)%len(km.keys)]
		if until, ok := km.disabled[key]; ok && now.Before(until) {
			continue
		}
		delete(km.disabled, key)
		km.current = (km.current + i + 1) % len(km.keys)
		return key
	}

	key := km.keys[km.current]
	km.current = (km.current + 1) % len(km.keys)
	return key
}

// MarkKeyFailed temporarily disables a key that hit a rate limit.
func (km *KeyManager) MarkKeyFailed(key string) {
	km.mu.Lock()
	defer km.mu.Unlock()
	km.disabled[key] = km.now().Add(km.cooldown)
}
