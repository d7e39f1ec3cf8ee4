package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	return New(Options{
		Dir:          t.TempDir(),
		PollInterval: 10 * time.Millisecond,
	})
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cred := domainauth.Credential{
		Token: "tok-abc",
		Roles: []domainauth.Role{domainauth.RoleCustomer, domainauth.RoleAuditor},
	}

	require.NoError(t, store.Save(ctx, cred))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cred.Token, got.Token)
	assert.Equal(t, cred.Roles, got.Roles)
}

func TestStore_LoadMissingFile(t *testing.T) {
	store := newTestStore(t)

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Present())
	assert.Empty(t, got.Roles)
}

func TestStore_Clear(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Credential{Token: "tok"}))
	require.NoError(t, store.Clear(ctx))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.Present())

	// Clearing again is a no-op.
	require.NoError(t, store.Clear(ctx))
}

func TestStore_SaveOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Credential{
		Token: "old",
		Roles: []domainauth.Role{domainauth.RoleAdmin},
	}))
	require.NoError(t, store.Save(ctx, domainauth.Credential{
		Token: "new",
		Roles: []domainauth.Role{domainauth.RoleCustomer},
	}))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, "new", got.Token)
	assert.Equal(t, []domainauth.Role{domainauth.RoleCustomer}, got.Roles)
}

func TestStore_MalformedRolesDegradeToEmpty(t *testing.T) {
	dir := t.TempDir()
	store := New(Options{Dir: dir, PollInterval: 10 * time.Millisecond})

	// Token intact, roles truncated.
	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok","roles":["ADMIN"`), 0o600))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.False(t, got.Present())
	assert.Empty(t, got.Roles)
}

func TestStore_MalformedRolesValueDegradeToEmpty(t *testing.T) {
	dir := t.TempDir()
	store := New(Options{Dir: dir, PollInterval: 10 * time.Millisecond})

	// Valid JSON file, roles field is the wrong shape.
	path := filepath.Join(dir, "credentials.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"token":"tok","roles":"ADMIN"}`), 0o600))

	got, err := store.Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "tok", got.Token)
	assert.Empty(t, got.Roles)
	assert.False(t, got.HasRole(domainauth.RoleAdmin))
}

func TestStore_WatchSignalsExternalChange(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := store.Watch(ctx)

	// Give the watcher a beat to record the initial stamp, then mutate.
	time.Sleep(30 * time.Millisecond)
	require.NoError(t, store.Save(ctx, domainauth.Credential{Token: "tok"}))

	select {
	case _, ok := <-ch:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification after save")
	}
}

func TestStore_WatchClosesOnContextDone(t *testing.T) {
	store := newTestStore(t)
	ctx, cancel := context.WithCancel(context.Background())

	ch := store.Watch(ctx)
	cancel()

	select {
	case _, ok := <-ch:
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("watch channel did not close")
	}
}
