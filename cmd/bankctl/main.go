// bankctl is a terminal client for the PhegonBank API. It drives the same
// session, gateway, and guard layers a graphical front end would, with one
// command per screen.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/phegonbank/webclient-go/internal/bootstrap"
)

type commandFn func(cmdCtx *commandContext, args []string) error

type command struct {
	name        string
	description string
	run         commandFn
}

type commandContext struct {
	Ctx context.Context
	App *bootstrap.App
}

const defaultCommandTimeout = 30 * time.Second

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(2)
	}

	cmdName := os.Args[1]
	cmd, ok := commands()[cmdName]
	if !ok {
		writef(os.Stderr, "unknown command %q\n\n", cmdName)
		printUsage()
		os.Exit(2)
	}

	cfg, err := bootstrap.LoadConfig()
	if err != nil {
		writef(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	logger := bootstrap.InitLogger(cfg.Observability.LogLevel)

	app, err := bootstrap.NewApp(cfg, logger)
	if err != nil {
		writef(os.Stderr, "initialize client: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if closeErr := app.Close(); closeErr != nil {
			logger.Warn("close client failed", "error", closeErr)
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), defaultCommandTimeout)
	defer cancel()

	// Resolve the session before any guard runs, so commands never see the
	// initial loading state.
	if err := app.Session.Resync(ctx); err != nil {
		logger.WarnContext(ctx, "session resync failed", "error", err)
	}

	cmdCtx := &commandContext{Ctx: ctx, App: app}
	if runErr := cmd.run(cmdCtx, os.Args[2:]); runErr != nil {
		writef(os.Stderr, "%s: %v\n", cmdName, runErr)
		os.Exit(1)
	}
}

func commands() map[string]command {
	return map[string]command{
		"login": {
			name:        "login",
			description: "Sign in and store the session credential",
			run:         runLogin,
		},
		"logout": {
			name:        "logout",
			description: "Clear the stored session credential",
			run:         runLogout,
		},
		"register": {
			name:        "register",
			description: "Create a new user account",
			run:         runRegister,
		},
		"whoami": {
			name:        "whoami",
			description: "Show the signed-in user's profile",
			run:         runWhoami,
		},
		"accounts": {
			name:        "accounts",
			description: "List the signed-in user's accounts",
			run:         runAccounts,
		},
		"transfer": {
			name:        "transfer",
			description: "Transfer funds between accounts",
			run:         runTransfer,
		},
		"deposit": {
			name:        "deposit",
			description: "Deposit funds into an account",
			run:         runDeposit,
		},
		"withdraw": {
			name:        "withdraw",
			description: "Withdraw funds from an account",
			run:         runWithdraw,
		},
		"history": {
			name:        "history",
			description: "Show an account's transaction history",
			run:         runHistory,
		},
		"audit-totals": {
			name:        "audit-totals",
			description: "Show system-wide totals (auditor or admin)",
			run:         runAuditTotals,
		},
		"prefs": {
			name:        "prefs",
			description: "Show or change display preferences",
			run:         runPrefs,
		},
	}
}

func printUsage() {
	writef(os.Stdout, "Usage: bankctl <command> [flags]\n\n")
	writef(os.Stdout, "Available commands:\n")
	for _, name := range []string{
		"login", "logout", "register", "whoami",
		"accounts", "transfer", "deposit", "withdraw", "history",
		"audit-totals", "prefs",
	} {
		c := commands()[name]
		writef(os.Stdout, "  %-14s %s\n", c.name, c.description)
	}
}

func writef(w io.Writer, format string, args ...any) {
	fmt.Fprintf(w, format, args...)
}
