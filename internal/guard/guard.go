// Package guard decides whether a page (or command) may render for the
// current session. Guards are pure functions of session state plus static
// configuration; they hold no state of their own and are re-evaluated on
// every session change.
package guard

import (
	"strings"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	"github.com/phegonbank/webclient-go/internal/session"
)

// Well-known navigation targets.
const (
	LoginPath   = "/login"
	DefaultPath = "/"
)

// Kind is the outcome of a guard evaluation.
type Kind int

const (
	// KindPending means the session is still resolving; render a neutral
	// placeholder rather than guessing and flashing the wrong view.
	KindPending Kind = iota
	// KindRender means the guarded content may be shown.
	KindRender
	// KindRedirect means navigate elsewhere; To carries the target and
	// From the attempted location for a post-login return.
	KindRedirect
	// KindFallback means show the configured fallback view (e.g. a 403
	// page) in place of the guarded content.
	KindFallback
)

// Decision is the result of evaluating a guard policy.
type Decision struct {
	Kind Kind
	To   string
	From string
}

// Render is the allow decision.
var Render = Decision{Kind: KindRender}

// Pending is the not-yet-resolved decision.
var Pending = Decision{Kind: KindPending}

// RedirectTo builds a redirect decision, keeping the attempted location so
// the login flow can return the user afterwards. Targets are sanitized to
// in-app paths.
func RedirectTo(to, from string) Decision {
	return Decision{Kind: KindRedirect, To: safePath(to, DefaultPath), From: safePath(from, "")}
}

// RequireAuth gates authenticated-only pages. target is the attempted
// location, preserved through the login redirect.
func RequireAuth(st session.State, target string) Decision {
	if st.Loading {
		return Pending
	}
	if !st.Authenticated {
		return RedirectTo(LoginPath, target)
	}
	return Render
}

// AnonymousOnly gates pages that make no sense for a signed-in user
// (login, register): authenticated users land on the default page.
func AnonymousOnly(st session.State) Decision {
	if st.Loading {
		return Pending
	}
	if st.Authenticated {
		return RedirectTo(DefaultPath, "")
	}
	return Render
}

// RoleConfig is the static configuration of a role-restricted page.
type RoleConfig struct {
	// Allowed lists the roles that may render; holding any one suffices.
	Allowed []domainauth.Role
	// Target is the attempted location, preserved on the login redirect.
	Target string
	// HasFallback indicates a fallback view exists for authenticated
	// users lacking the role; without one they are redirected.
	HasFallback bool
	// RedirectTo overrides the no-fallback redirect target (default "/").
	RedirectTo string
}

// RequireRole gates role-restricted pages. It never returns Pending: by
// the time a role-restricted page is reachable the session must already be
// resolved by an outer RequireAuth, and this guard must not become the
// first point of authentication resolution.
func RequireRole(st session.State, cfg RoleConfig) Decision {
	if !st.Authenticated {
		return RedirectTo(LoginPath, cfg.Target)
	}

	for _, role := range cfg.Allowed {
		if st.HasRole(role) {
			return Render
		}
	}

	if cfg.HasFallback {
		return Decision{Kind: KindFallback}
	}
	to := cfg.RedirectTo
	if to == "" {
		to = DefaultPath
	}
	return RedirectTo(to, "")
}

// safePath keeps redirect targets inside the app: they must be rooted
// single-slash paths. Anything else collapses to the fallback.
func safePath(p, fallback string) string {
	if p == "" {
		return fallback
	}
	if !strings.HasPrefix(p, "/") || strings.HasPrefix(p, "//") {
		return fallback
	}
	return p
}
