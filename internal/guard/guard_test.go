package guard

import (
	"testing"

	"github.com/stretchr/testify/assert"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	"github.com/phegonbank/webclient-go/internal/session"
)

func resolved(authenticated bool, roles ...domainauth.Role) session.State {
	return session.State{Authenticated: authenticated, Roles: roles}
}

func TestRequireAuth(t *testing.T) {
	t.Run("pending while loading", func(t *testing.T) {
		d := RequireAuth(session.State{Loading: true}, "/wallet")
		assert.Equal(t, KindPending, d.Kind)
	})

	t.Run("unauthenticated redirects to login with origin", func(t *testing.T) {
		d := RequireAuth(resolved(false), "/wallet")
		assert.Equal(t, KindRedirect, d.Kind)
		assert.Equal(t, LoginPath, d.To)
		assert.Equal(t, "/wallet", d.From)
	})

	t.Run("authenticated renders", func(t *testing.T) {
		d := RequireAuth(resolved(true, domainauth.RoleCustomer), "/wallet")
		assert.Equal(t, KindRender, d.Kind)
	})
}

func TestAnonymousOnly(t *testing.T) {
	t.Run("pending while loading", func(t *testing.T) {
		d := AnonymousOnly(session.State{Loading: true})
		assert.Equal(t, KindPending, d.Kind)
	})

	t.Run("authenticated redirects home", func(t *testing.T) {
		d := AnonymousOnly(resolved(true, domainauth.RoleCustomer))
		assert.Equal(t, KindRedirect, d.Kind)
		assert.Equal(t, DefaultPath, d.To)
	})

	t.Run("unauthenticated renders", func(t *testing.T) {
		d := AnonymousOnly(resolved(false))
		assert.Equal(t, KindRender, d.Kind)
	})
}

func TestRequireRole(t *testing.T) {
	adminOnly := RoleConfig{
		Allowed: []domainauth.Role{domainauth.RoleAdmin},
		Target:  "/admin",
	}

	t.Run("unauthenticated redirects to login", func(t *testing.T) {
		d := RequireRole(resolved(false), adminOnly)
		assert.Equal(t, KindRedirect, d.Kind)
		assert.Equal(t, LoginPath, d.To)
		assert.Equal(t, "/admin", d.From)
	})

	t.Run("customer lacking admin role redirects home", func(t *testing.T) {
		d := RequireRole(resolved(true, domainauth.RoleCustomer), adminOnly)
		assert.Equal(t, KindRedirect, d.Kind)
		assert.Equal(t, DefaultPath, d.To)
	})

	t.Run("fallback shown when configured", func(t *testing.T) {
		cfg := adminOnly
		cfg.HasFallback = true
		d := RequireRole(resolved(true, domainauth.RoleCustomer), cfg)
		assert.Equal(t, KindFallback, d.Kind)
	})

	t.Run("any allowed role suffices", func(t *testing.T) {
		cfg := RoleConfig{Allowed: []domainauth.Role{domainauth.RoleAdmin, domainauth.RoleAuditor}}
		d := RequireRole(resolved(true, domainauth.RoleAuditor), cfg)
		assert.Equal(t, KindRender, d.Kind)
	})

	t.Run("empty roles never render", func(t *testing.T) {
		d := RequireRole(resolved(true), adminOnly)
		assert.Equal(t, KindRedirect, d.Kind)
	})

	t.Run("custom redirect target", func(t *testing.T) {
		cfg := adminOnly
		cfg.RedirectTo = "/forbidden"
		d := RequireRole(resolved(true, domainauth.RoleCustomer), cfg)
		assert.Equal(t, "/forbidden", d.To)
	})

	t.Run("never pending even while loading", func(t *testing.T) {
		// Role guards assume an outer RequireAuth resolved the session;
		// an unresolved state is treated as unauthenticated.
		d := RequireRole(session.State{Loading: true}, adminOnly)
		assert.Equal(t, KindRedirect, d.Kind)
		assert.Equal(t, LoginPath, d.To)
	})
}

func TestSafePath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "rooted path kept", in: "/wallet", want: "/wallet"},
		{name: "empty collapses", in: "", want: DefaultPath},
		{name: "absolute url rejected", in: "https://evil.example/", want: DefaultPath},
		{name: "scheme-relative rejected", in: "//evil.example", want: DefaultPath},
		{name: "relative rejected", in: "wallet", want: DefaultPath},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, safePath(tt.in, DefaultPath))
		})
	}
}
