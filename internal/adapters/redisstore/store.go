// Package redisstore keeps the session credential in Redis so that several
// client processes (the moral equivalent of browser tabs) share one session.
// Cross-process change notification uses pub/sub on a companion channel,
// published on every write.
package redisstore

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/redis/go-redis/v9"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	"github.com/phegonbank/webclient-go/internal/ports"
)

// Store is a Redis-backed credential store.
type Store struct {
	client redis.UniversalClient
	key    string
	logger *slog.Logger
}

var _ ports.CredentialStore = (*Store)(nil)

// Options bundles dependencies for New.
type Options struct {
	Client redis.UniversalClient
	// Prefix namespaces the credential key and change channel, so separate
	// profiles against the same Redis do not stomp each other.
	Prefix string
	Logger *slog.Logger
}

// New creates a Redis-backed store.
func New(opts Options) *Store {
	prefix := opts.Prefix
	if prefix == "" {
		prefix = "webclient"
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		client: opts.Client,
		key:    prefix + ":credential",
		logger: logger,
	}
}

// storedCredential mirrors the filestore shape: raw roles so corruption
// degrades instead of erroring.
type storedCredential struct {
	Token string          `json:"token"`
	Roles json.RawMessage `json:"roles"`
}

func (s *Store) changeChannel() string { return s.key + ":changed" }

// Save writes token and roles in one SET and then publishes a change event.
// No TTL: the credential is durable until logout or a 401 clears it.
func (s *Store) Save(ctx context.Context, cred domainauth.Credential) error {
	data, err := json.Marshal(storedCredential{
		Token: cred.Token,
		Roles: domainauth.EncodeRoles(cred.Roles),
	})
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	if err := s.client.Set(ctx, s.key, data, 0).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	s.publishChange(ctx)
	return nil
}

// Clear removes the credential and publishes a change event. Idempotent.
func (s *Store) Clear(ctx context.Context) error {
	if err := s.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	s.publishChange(ctx)
	return nil
}

// Load reads the stored credential. Missing key yields the zero Credential.
func (s *Store) Load(ctx context.Context) (domainauth.Credential, error) {
	data, err := s.client.Get(ctx, s.key).Result()
	if err != nil {
		if err == redis.Nil {
			return domainauth.Credential{}, nil
		}
		return domainauth.Credential{}, fmt.Errorf("redis get: %w", err)
	}

	var stored storedCredential
	if err := json.Unmarshal([]byte(data), &stored); err != nil {
		s.logger.Warn("stored credential malformed, treating as logged out", "key", s.key)
		return domainauth.Credential{}, nil
	}

	return domainauth.Credential{
		Token: stored.Token,
		Roles: domainauth.DecodeRoles(stored.Roles),
	}, nil
}

// Watch subscribes to the change channel and forwards each publication as
// an edge signal. The returned channel closes when ctx is done.
func (s *Store) Watch(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)
	sub := s.client.Subscribe(ctx, s.changeChannel())

	go func() {
		defer close(ch)
		defer func() {
			if err := sub.Close(); err != nil {
				s.logger.Debug("close credential subscription failed", "error", err)
			}
		}()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case _, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case ch <- struct{}{}:
				default:
					// Coalesce; the consumer re-reads the store.
				}
			}
		}
	}()

	return ch
}

// publishChange is best-effort: a missed notification is caught by the
// session manager's polling fallback.
func (s *Store) publishChange(ctx context.Context) {
	if err := s.client.Publish(ctx, s.changeChannel(), "changed").Err(); err != nil {
		s.logger.Debug("publish credential change failed", "error", err)
	}
}
