package redisstore

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	"github.com/phegonbank/webclient-go/internal/testutil"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })
	return New(Options{Client: client, Prefix: "webclient-test"})
}

func TestStore_SaveAndLoad(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	cred := domainauth.Credential{
		Token: "tok-redis",
		Roles: []domainauth.Role{domainauth.RoleAdmin},
	}

	require.NoError(t, store.Save(ctx, cred))
	t.Cleanup(func() { _ = store.Clear(ctx) })

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, cred.Token, got.Token)
	assert.Equal(t, cred.Roles, got.Roles)
}

func TestStore_LoadMissing(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Clear(ctx))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.Present())
}

func TestStore_ClearIdempotent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, domainauth.Credential{Token: "tok"}))
	require.NoError(t, store.Clear(ctx))
	require.NoError(t, store.Clear(ctx))

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.Present())
}

func TestStore_MalformedRolesDegradeToEmpty(t *testing.T) {
	client := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = client.Close() })

	store := New(Options{Client: client, Prefix: "webclient-test-malformed"})
	ctx := context.Background()

	require.NoError(t, client.Set(ctx, "webclient-test-malformed:credential",
		`{"token":"tok","roles":["ADMIN"`, 0).Err())
	t.Cleanup(func() { _ = store.Clear(ctx) })

	got, err := store.Load(ctx)
	require.NoError(t, err)
	assert.False(t, got.Present())
	assert.Empty(t, got.Roles)
}

func TestStore_WatchSeesOtherProcessWrites(t *testing.T) {
	// Two stores over separate connections simulate two tabs.
	clientA := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = clientA.Close() })
	clientB := testutil.SetupTestRedis(t)
	t.Cleanup(func() { _ = clientB.Close() })

	const prefix = "webclient-test-watch"
	writer := New(Options{Client: clientA, Prefix: prefix})
	watcher := New(Options{Client: clientB, Prefix: prefix})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch := watcher.Watch(ctx)

	// Let the subscription establish before publishing.
	time.Sleep(100 * time.Millisecond)
	require.NoError(t, writer.Save(ctx, domainauth.Credential{Token: "tok"}))
	t.Cleanup(func() { _ = writer.Clear(context.Background()) })

	select {
	case _, ok := <-ch:
		require.True(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("no change notification from other connection")
	}
}
