package testutil

import (
	"context"
	"sync"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	"github.com/phegonbank/webclient-go/internal/ports"
)

// MemoryCredentialStore is an in-memory CredentialStore for tests. Watch
// notifications fire on every Save/Clear, which approximates the other-tab
// storage event without a real shared medium.
type MemoryCredentialStore struct {
	mu       sync.Mutex
	cred     domainauth.Credential
	saves    int
	clears   int
	watchers []chan struct{}
}

var _ ports.CredentialStore = (*MemoryCredentialStore)(nil)

// NewMemoryCredentialStore creates an empty in-memory store.
func NewMemoryCredentialStore() *MemoryCredentialStore {
	return &MemoryCredentialStore{}
}

func (m *MemoryCredentialStore) Save(_ context.Context, cred domainauth.Credential) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = cred
	m.saves++
	m.notifyLocked()
	return nil
}

func (m *MemoryCredentialStore) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cred = domainauth.Credential{}
	m.clears++
	m.notifyLocked()
	return nil
}

func (m *MemoryCredentialStore) Load(_ context.Context) (domainauth.Credential, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cred, nil
}

func (m *MemoryCredentialStore) Watch(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	m.mu.Lock()
	m.watchers = append(m.watchers, ch)
	m.mu.Unlock()

	go func() {
		<-ctx.Done()
		m.mu.Lock()
		for i, w := range m.watchers {
			if w == ch {
				m.watchers = append(m.watchers[:i], m.watchers[i+1:]...)
				break
			}
		}
		m.mu.Unlock()
		close(ch)
	}()

	return ch
}

// SaveCount returns how many times Save has been called.
func (m *MemoryCredentialStore) SaveCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

// ClearCount returns how many times Clear has been called.
func (m *MemoryCredentialStore) ClearCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.clears
}

func (m *MemoryCredentialStore) notifyLocked() {
	for _, w := range m.watchers {
		select {
		case w <- struct{}{}:
		default:
		}
	}
}
