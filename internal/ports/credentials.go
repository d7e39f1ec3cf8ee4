package ports

// Package ports defines interfaces (hexagonal ports) for the session core.
// Implementations live in internal/adapters; orchestration in internal/session
// and internal/gateway.

import (
	"context"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
)

// CredentialStore persists the session credential durably and makes writes
// visible to other processes sharing the same store.
//
// Semantics every implementation must honor:
//   - Save overwrites token and roles together, atomically from the
//     caller's perspective.
//   - Clear removes both and is idempotent.
//   - Load returns the zero Credential (not an error) when nothing is
//     stored; stored roles that fail to decode degrade to an empty set.
//   - Watch delivers a notification whenever another process changes the
//     store; same-process writes may or may not be observed, so consumers
//     must also poll (see session.Manager).
type CredentialStore interface {
	Save(ctx context.Context, cred domainauth.Credential) error
	Clear(ctx context.Context) error
	Load(ctx context.Context) (domainauth.Credential, error)

	// Watch returns a channel that receives a value on external change.
	// The channel is closed when ctx is done. Notifications are
	// best-effort edge triggers; consumers re-read the store rather than
	// trusting any payload.
	Watch(ctx context.Context) <-chan struct{}
}
