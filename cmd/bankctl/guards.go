package main

import (
	"errors"
	"fmt"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	"github.com/phegonbank/webclient-go/internal/guard"
)

var errNotSignedIn = errors.New("not signed in (run 'bankctl login')")

// guardAuth maps the page guard onto the CLI: a redirect to the login path
// becomes an instruction to run the login command.
func guardAuth(cmdCtx *commandContext, target string) error {
	d := guard.RequireAuth(cmdCtx.App.Session.Snapshot(), target)
	switch d.Kind {
	case guard.KindRender:
		return nil
	case guard.KindPending:
		return errors.New("session state unresolved; try again")
	default:
		return errNotSignedIn
	}
}

// guardRole additionally requires one of the allowed roles.
func guardRole(cmdCtx *commandContext, target string, allowed ...domainauth.Role) error {
	st := cmdCtx.App.Session.Snapshot()
	d := guard.RequireRole(st, guard.RoleConfig{Allowed: allowed, Target: target})
	switch d.Kind {
	case guard.KindRender:
		return nil
	case guard.KindRedirect:
		if d.To == guard.LoginPath {
			return errNotSignedIn
		}
		return fmt.Errorf("requires one of roles %v", allowed)
	default:
		return fmt.Errorf("requires one of roles %v", allowed)
	}
}
