// Package session derives the reactive authentication state of the client
// from the credential store. The store is the single source of truth; the
// manager only re-reads it, never trusts its own cached flags, so the
// polling timer and the cross-process watch can race freely and still
// converge.
package session

import (
	"context"
	"errors"
	"log/slog"
	"slices"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	"github.com/phegonbank/webclient-go/internal/ports"
)

const defaultPollInterval = time.Second

// State is a derived, non-owned projection of the stored credential.
// Loading is true only until the first resync completes.
type State struct {
	Authenticated bool
	Roles         []domainauth.Role
	Loading       bool
}

// HasRole reports whether the state grants the given role. Exact,
// case-sensitive match; always false while no roles are held.
func (s State) HasRole(role domainauth.Role) bool {
	return slices.Contains(s.Roles, role)
}

// Options bundles dependencies for New.
type Options struct {
	Store ports.CredentialStore
	// PollInterval is how often the manager re-reads the store to catch
	// same-process mutations the watch channel cannot observe.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// Manager owns the session state and keeps it in sync with the store.
type Manager struct {
	store    ports.CredentialStore
	interval time.Duration
	logger   *slog.Logger

	mu     sync.RWMutex
	state  State
	writes int
	nextID int
	subs   map[int]func(State)

	sf singleflight.Group
}

// New creates a Manager whose state starts in Loading until the first
// resync resolves it.
func New(opts Options) *Manager {
	interval := opts.PollInterval
	if interval <= 0 {
		interval = defaultPollInterval
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Manager{
		store:    opts.Store,
		interval: interval,
		logger:   logger,
		state:    State{Loading: true},
		subs:     make(map[int]func(State)),
	}
}

// Snapshot returns the current derived state.
func (m *Manager) Snapshot() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Authenticated reports whether a token is currently held.
func (m *Manager) Authenticated() bool { return m.Snapshot().Authenticated }

// HasRole reports whether the current session grants the given role.
func (m *Manager) HasRole(role domainauth.Role) bool { return m.Snapshot().HasRole(role) }

// Resync re-derives the state from the store. It is idempotent, so the
// timer, the watch handler, and explicit callers can overlap without
// locking beyond the state swap; concurrent calls are collapsed into one
// store read. A snapshot read before a local write (Login, Logout,
// Invalidate) landed is stale and is discarded instead of published.
func (m *Manager) Resync(ctx context.Context) error {
	_, err, _ := m.sf.Do("resync", func() (any, error) {
		writes := m.writeCount()
		cred, err := m.store.Load(ctx)
		if err != nil {
			return nil, err
		}
		m.setStateIfWrites(State{
			Authenticated: cred.Present(),
			Roles:         cred.Roles,
			Loading:       false,
		}, writes)
		return nil, nil
	})
	return err
}

// Login persists the credential and then re-reads it, so the session never
// disagrees with the store of record even if the write was transformed or
// raced by another process. The read-back does not go through the resync
// dedup: a flight that started before the save holds a pre-login snapshot
// and must not serve this call.
func (m *Manager) Login(ctx context.Context, token string, roles []domainauth.Role) error {
	err := m.store.Save(ctx, domainauth.Credential{Token: token, Roles: roles})
	if err != nil {
		return err
	}
	writes := m.recordWrite()
	cred, err := m.store.Load(ctx)
	if err != nil {
		return err
	}
	m.setStateIfWrites(State{
		Authenticated: cred.Present(),
		Roles:         cred.Roles,
		Loading:       false,
	}, writes)
	return nil
}

// Logout clears the store and flips the local state directly; the next
// resync would reach the same answer, this just makes it immediate.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.store.Clear(ctx); err != nil {
		return err
	}
	m.Invalidate()
	return nil
}

// Invalidate marks the session unauthenticated without touching the store.
// The gateway's 401 handler calls this after it has already cleared the
// store itself.
func (m *Manager) Invalidate() {
	m.recordWrite()
	m.setState(State{Authenticated: false, Roles: nil, Loading: false})
}

// Subscribe registers fn to run on every state change. The returned func
// removes the subscription.
func (m *Manager) Subscribe(fn func(State)) (unsubscribe func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	m.subs[id] = fn

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Run drives the two resync triggers until ctx is done: a fixed-interval
// ticker (catches same-process store writes) and the store's watch channel
// (catches other-process writes). An initial resync runs first so guards
// leave their pending state promptly.
func (m *Manager) Run(ctx context.Context) error {
	if err := m.Resync(ctx); err != nil {
		m.logger.WarnContext(ctx, "initial session resync failed", "error", err)
	}

	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		ticker := time.NewTicker(m.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-ticker.C:
				if err := m.Resync(ctx); err != nil {
					m.logger.WarnContext(ctx, "session resync failed", "error", err)
				}
			}
		}
	})

	g.Go(func() error {
		changes := m.store.Watch(ctx)
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case _, ok := <-changes:
				if !ok {
					return ctx.Err()
				}
				if err := m.Resync(ctx); err != nil {
					m.logger.WarnContext(ctx, "session resync after store change failed", "error", err)
				}
			}
		}
	})

	err := g.Wait()
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

func (m *Manager) writeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

// recordWrite marks a local state-changing write (login, logout,
// invalidate) and returns the new count. Store reads taken before the
// write carry an older count and lose.
func (m *Manager) recordWrite() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writes++
	return m.writes
}

// setStateIfWrites publishes next only when no local write has landed since
// the caller observed writes; otherwise the snapshot predates that write
// and is dropped.
func (m *Manager) setStateIfWrites(next State, writes int) {
	m.mu.Lock()
	if m.writes != writes {
		m.mu.Unlock()
		return
	}
	m.commitLocked(next)
}

func (m *Manager) setState(next State) {
	m.mu.Lock()
	m.commitLocked(next)
}

// commitLocked swaps the state, releases m.mu, and then notifies
// subscribers on change.
func (m *Manager) commitLocked(next State) {
	changed := !statesEqual(m.state, next)
	m.state = next
	var notify []func(State)
	if changed {
		notify = make([]func(State), 0, len(m.subs))
		for _, fn := range m.subs {
			notify = append(notify, fn)
		}
	}
	m.mu.Unlock()

	for _, fn := range notify {
		fn(next)
	}
}

func statesEqual(a, b State) bool {
	return a.Authenticated == b.Authenticated &&
		a.Loading == b.Loading &&
		slices.Equal(a.Roles, b.Roles)
}
