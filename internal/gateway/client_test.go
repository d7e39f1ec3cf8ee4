package gateway

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/phegonbank/webclient-go/internal/busy"
	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	apperrors "github.com/phegonbank/webclient-go/internal/errors"
	"github.com/phegonbank/webclient-go/internal/testutil"
)

func newTestClient(t *testing.T, handler http.Handler, store *testutil.MemoryCredentialStore) (*Client, *httptest.Server) {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := New(Options{
		BaseURL: srv.URL,
		Store:   store,
		Busy:    busy.New(),
	})
	return client, srv
}

func TestClient_AttachesBearerToken(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()
	require.NoError(t, store.Save(context.Background(), testutil.CustomerCredential("tok-123")))

	var gotAuth, gotRequestID string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		w.Write([]byte(`{}`))
	}), store)

	require.NoError(t, client.Get(context.Background(), "/users/me", nil))
	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.NotEmpty(t, gotRequestID)
}

func TestClient_NoTokenNoHeader(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()

	var gotAuth string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`{}`))
	}), store)

	require.NoError(t, client.Get(context.Background(), "/auth/health", nil))
	assert.Empty(t, gotAuth)
}

func TestClient_UnauthorizedClearsStoreAndFiresHook(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()
	require.NoError(t, store.Save(context.Background(), testutil.CustomerCredential("stale")))

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte(`{"message":"token expired","statusCode":401}`))
	}), store)

	var hookCalls int
	client.SetOnUnauthorized(func() { hookCalls++ })

	// The failing call can come from any endpoint; the side effect is global.
	err := client.Get(context.Background(), "/transactions/ACC-1", nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsUnauthorized(err))
	assert.Contains(t, err.Error(), "token expired")
	assert.Equal(t, 1, hookCalls)
	assert.Equal(t, 1, store.ClearCount())

	cred, lerr := store.Load(context.Background())
	require.NoError(t, lerr)
	assert.False(t, cred.Present())
}

func TestClient_OtherErrorsPassThrough(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
		w.Write([]byte(`{"message":"Email already registered","statusCode":409}`))
	}), store)

	err := client.Post(context.Background(), "/auth/register", map[string]string{}, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsConflict(err))
	assert.Equal(t, "email", apperrors.GetField(err))
	// A 4xx other than 401 must not touch the credential store.
	assert.Equal(t, 0, store.ClearCount())
}

func TestClient_BusyEdgesAcrossConcurrentRequests(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()

	release := make(chan struct{})
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		<-release
		w.Write([]byte(`{}`))
	}), store)

	var mu sync.Mutex
	var events []bool
	unsub := client.Busy().Subscribe(func(b bool) {
		mu.Lock()
		events = append(events, b)
		mu.Unlock()
	})
	defer unsub()

	const n = 8
	var wg sync.WaitGroup
	wg.Add(n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_ = client.Get(context.Background(), "/accounts/me", nil)
		}()
	}

	// Wait until all requests are in flight, then let them settle in
	// whatever order the scheduler picks.
	require.Eventually(t, func() bool { return client.Busy().InFlight() == n },
		2*time.Second, 5*time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, 0, client.Busy().InFlight())
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []bool{true, false}, events)
}

func TestClient_SettlesOnTransportFailure(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()
	b := busy.New()
	client := New(Options{
		BaseURL: "http://127.0.0.1:1", // nothing listens here
		Store:   store,
		Busy:    b,
	})

	err := client.Get(context.Background(), "/users/me", nil)

	require.Error(t, err)
	code := apperrors.GetCode(err)
	assert.Contains(t, []apperrors.ErrorCode{apperrors.ErrCodeNetwork, apperrors.ErrCodeTimeout}, code)
	assert.Equal(t, 0, b.InFlight())
}

func TestClient_TimeoutSurfacesAndSettles(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	t.Cleanup(srv.Close)

	b := busy.New()
	client := New(Options{
		BaseURL: srv.URL,
		Timeout: 50 * time.Millisecond,
		Store:   store,
		Busy:    b,
	})

	err := client.Get(context.Background(), "/slow", nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsTimeout(err))
	assert.Equal(t, 0, b.InFlight())
}

func TestClient_DecodesEnvelopedResponse(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"data":{"token":"tok","roles":["CUSTOMER"]},"message":"ok","statusCode":200}`))
	}), store)

	var out struct {
		Token string   `json:"token"`
		Roles []string `json:"roles"`
	}
	require.NoError(t, client.Post(context.Background(), "/auth/login", map[string]string{}, &out))
	assert.Equal(t, "tok", out.Token)
	assert.Equal(t, []string{"CUSTOMER"}, out.Roles)
}

func TestClient_PutMultipart(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()
	require.NoError(t, store.Save(context.Background(), testutil.CustomerCredential("tok")))

	var gotField, gotFile, gotContent string
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		file, header, err := r.FormFile("file")
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		defer file.Close()
		buf := make([]byte, header.Size)
		n, _ := file.Read(buf)
		gotField = "file"
		gotFile = header.Filename
		gotContent = string(buf[:n])
		w.Write([]byte(`{"data":{"id":1},"message":"ok","statusCode":200}`))
	}), store)

	var out struct {
		ID int `json:"id"`
	}
	err := client.PutMultipart(context.Background(), "/users/profile-picture",
		"file", "avatar.png", strings.NewReader("png-bytes"), &out)

	require.NoError(t, err)
	assert.Equal(t, "file", gotField)
	assert.Equal(t, "avatar.png", gotFile)
	assert.Equal(t, "png-bytes", gotContent)
	assert.Equal(t, 1, out.ID)
}

func TestClient_GetList(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"content":[{"id":"t1"},{"id":"t2"}],"totalElements":2}`))
	}), store)

	var out []struct {
		ID string `json:"id"`
	}
	require.NoError(t, client.GetList(context.Background(), "/transactions/ACC-1?page=0&size=10", &out))
	require.Len(t, out, 2)
	assert.Equal(t, "t1", out[0].ID)
}

func TestClient_LoginRoundTripAgainstRolePayload(t *testing.T) {
	store := testutil.NewMemoryCredentialStore()

	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data":{"token":"t","roles":["ADMIN","AUDITOR"]},"message":"ok","statusCode":200}`))
	}), store)

	var out struct {
		Token string            `json:"token"`
		Roles []domainauth.Role `json:"roles"`
	}
	require.NoError(t, client.Post(context.Background(), "/auth/login", nil, &out))
	assert.Equal(t, []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleAuditor}, out.Roles)
}
