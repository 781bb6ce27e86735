package providers

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/doodlesbykumbi/aiact-compliance/pkg/audit"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/logger"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/metrics"
	"github.com/doodlesbykumbi/aiact-compliance/pkg/model"
)

var ErrNoActiveKeys = errors.New("no active api keys")

// Key is a provider credential held by the KeyManager. Keys loaded from
// the environment have ID 0 and are never persisted.
type Key struct {
	ID         uint
	Provider   model.Provider
	Value      string
	Label      string
	Active     bool
	Failures   int
	LastError  string
	LastUsedAt time.Time

	// envLabel is set on a stored key that shadows an environment key
	// with the same value.
	envLabel string
}

func (k Key) Fingerprint() string {
	return model.Fingerprint(k.Value)
}

func (k Key) Stored() bool {
	return k.ID != 0
}

// KeyStateStore persists key state changes for stored keys.
type KeyStateStore interface {
	MarkUsed(ctx context.Context, id uint, at time.Time) error
	RecordFailure(ctx context.Context, id uint, reason string) error
	Deactivate(ctx context.Context, id uint, reason string, at time.Time) error
}

// KeyManager hands out provider keys in round-robin order.
type KeyManager struct {
	mu     sync.Mutex
	keys   map[model.Provider][]*Key
	cursor map[model.Provider]int

	maxRetries int
	retryDelay time.Duration
	states     KeyStateStore
	lggr       logger.Logger
	now        func() time.Time
}

type Option func(*KeyManager)

// WithMaxRetries bounds the attempts ExecuteWithRetry makes per provider.
func WithMaxRetries(n int) Option {
	return func(m *KeyManager) { m.maxRetries = n }
}

func WithRetryDelay(d time.Duration) Option {
	return func(m *KeyManager) { m.retryDelay = d }
}

// WithStateStore persists usage and deactivation of stored keys.
func WithStateStore(s KeyStateStore) Option {
	return func(m *KeyManager) { m.states = s }
}

func NewKeyManager(lggr logger.Logger, opts ...Option) *KeyManager {
	m := &KeyManager{
		keys:       make(map[model.Provider][]*Key),
		cursor:     make(map[model.Provider]int),
		maxRetries: 3,
		retryDelay: 500 * time.Millisecond,
		lggr:       lggr.Named("KeyManager"),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Add registers a key. A key whose value is already known for the
// provider is ignored, except that a stored key takes the place of an
// environment key so its database state applies. It reports whether the
// key was added.
func (m *KeyManager) Add(k Key) bool {
	k.Value = strings.TrimSpace(k.Value)
	if k.Value == "" {
		return false
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	fp := k.Fingerprint()
	for _, existing := range m.keys[k.Provider] {
		if existing.Fingerprint() != fp {
			continue
		}
		if !k.Stored() || existing.Stored() {
			return false
		}
		k.envLabel = existing.Label
		*existing = k
		m.publish(k.Provider)
		return true
	}
	m.keys[k.Provider] = append(m.keys[k.Provider], &k)
	m.publish(k.Provider)
	return true
}

// SetStored replaces all stored keys with keys, leaving environment keys in place.
func (m *KeyManager) SetStored(keys []model.APIKey) {
	m.mu.Lock()
	for p, list := range m.keys {
		kept := list[:0]
		for _, k := range list {
			switch {
			case !k.Stored():
				kept = append(kept, k)
			case k.envLabel != "":
				kept = append(kept, &Key{Provider: k.Provider, Value: k.Value, Label: k.envLabel, Active: true})
			}
		}
		m.keys[p] = kept
	}
	m.mu.Unlock()

	for _, k := range keys {
		key := Key{
			ID:        k.ID,
			Provider:  k.Provider,
			Value:     k.Key,
			Label:     k.Label,
			Active:    k.IsActive,
			Failures:  k.FailureCount,
			LastError: k.LastError,
		}
		if k.LastUsedAt != nil {
			key.LastUsedAt = *k.LastUsedAt
		}
		m.Add(key)
	}

	m.mu.Lock()
	for _, p := range model.Providers() {
		m.publish(p)
	}
	m.mu.Unlock()
}

// LoadFromEnv adds the comma separated keys of every provider's
// *_API_KEYS variable and returns how many were added.
func (m *KeyManager) LoadFromEnv() int {
	added := 0
	for _, p := range model.Providers() {
		for i, v := range strings.Split(os.Getenv(p.EnvVar()), ",") {
			if m.Add(Key{Provider: p, Value: v, Label: fmt.Sprintf("env:%d", i+1), Active: true}) {
				added++
			}
		}
	}
	return added
}

// NextKey returns the next active key for provider in round-robin order.
func (m *KeyManager) NextKey(provider model.Provider) (Key, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	list := m.keys[provider]
	n := len(list)
	for i := 0; i < n; i++ {
		idx := (m.cursor[provider] + i) % n
		if list[idx].Active {
			m.cursor[provider] = (idx + 1) % n
			return *list[idx], nil
		}
	}
	return Key{}, fmt.Errorf("%w for %s", ErrNoActiveKeys, provider)
}

// SetRetryPolicy changes the attempts and base delay of later ExecuteWithRetry calls.
func (m *KeyManager) SetRetryPolicy(maxRetries int, delay time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.maxRetries, m.retryDelay = maxRetries, delay
}

func (m *KeyManager) retryPolicy() (int, time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.maxRetries, m.retryDelay
}

// HasKeys reports whether provider has any key, active or not.
func (m *KeyManager) HasKeys(provider model.Provider) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.keys[provider]) > 0
}

// ActiveCount returns the number of active keys for provider.
func (m *KeyManager) ActiveCount(provider model.Provider) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.activeCount(provider)
}

func (m *KeyManager) activeCount(provider model.Provider) int {
	n := 0
	for _, k := range m.keys[provider] {
		if k.Active {
			n++
		}
	}
	return n
}

// Keys returns a snapshot of provider's keys.
func (m *KeyManager) Keys(provider model.Provider) []Key {
	m.mu.Lock()
	defer m.mu.Unlock()

	out := make([]Key, 0, len(m.keys[provider]))
	for _, k := range m.keys[provider] {
		out = append(out, *k)
	}
	return out
}

func (m *KeyManager) publish(provider model.Provider) {
	metrics.SetActiveKeys(string(provider), m.activeCount(provider))
}

func (m *KeyManager) find(k Key) *Key {
	fp := k.Fingerprint()
	for _, existing := range m.keys[k.Provider] {
		if existing.Fingerprint() == fp {
			return existing
		}
	}
	return nil
}

func (m *KeyManager) markSuccess(ctx context.Context, k Key) {
	now := m.now()

	m.mu.Lock()
	if existing := m.find(k); existing != nil {
		existing.Failures = 0
		existing.LastError = ""
		existing.LastUsedAt = now
	}
	m.mu.Unlock()

	if m.states != nil && k.Stored() {
		if err := m.states.MarkUsed(ctx, k.ID, now); err != nil {
			m.lggr.Warnw("Failed to record key usage", "provider", k.Provider, "key", k.Fingerprint(), "err", err)
		}
	}
}

func (m *KeyManager) recordFailure(ctx context.Context, k Key, cause error) {
	m.mu.Lock()
	if existing := m.find(k); existing != nil {
		existing.Failures++
		existing.LastError = cause.Error()
	}
	m.mu.Unlock()

	if m.states != nil && k.Stored() {
		if err := m.states.RecordFailure(ctx, k.ID, cause.Error()); err != nil {
			m.lggr.Warnw("Failed to record key failure", "provider", k.Provider, "key", k.Fingerprint(), "err", err)
		}
	}
}

// Deactivate marks k inactive and returns the number of active keys left
// for its provider.
func (m *KeyManager) Deactivate(ctx context.Context, k Key, cause error) int {
	now := m.now()

	m.mu.Lock()
	wasActive := false
	if existing := m.find(k); existing != nil {
		wasActive = existing.Active
		existing.Active = false
		existing.Failures++
		existing.LastError = cause.Error()
	}
	remaining := m.activeCount(k.Provider)
	m.publish(k.Provider)
	m.mu.Unlock()

	if !wasActive {
		return remaining
	}

	m.lggr.Warnw("API key deactivated", "provider", k.Provider, "key", k.Fingerprint(), "label", k.Label, "remaining", remaining, "err", cause)
	metrics.RecordProviderCall(string(k.Provider), "deactivated")
	audit.Log(audit.APIKeyEvent{
		Provider:     string(k.Provider),
		Fingerprint:  k.Fingerprint(),
		Label:        k.Label,
		Operation:    "deactivated",
		Success:      true,
		ErrorMessage: cause.Error(),
	})

	if m.states != nil && k.Stored() {
		if err := m.states.Deactivate(ctx, k.ID, cause.Error(), now); err != nil {
			m.lggr.Errorw("Failed to persist key deactivation", "provider", k.Provider, "key", k.Fingerprint(), "err", err)
		}
	}
	return remaining
}
