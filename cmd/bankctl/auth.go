package main

import (
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"syscall"
	"text/tabwriter"

	"golang.org/x/term"

	"github.com/phegonbank/webclient-go/internal/api"
)

func runLogin(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("login", flag.ContinueOnError)
	email := fs.String("email", "", "account email (required)")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *email == "" {
		return errors.New("-email is required")
	}

	pw := *password
	if pw == "" {
		var err error
		pw, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	res, err := cmdCtx.App.Auth.Login(cmdCtx.Ctx, api.LoginRequest{Email: *email, Password: pw})
	if err != nil {
		return err
	}

	roles := make([]string, len(res.Roles))
	for i, r := range res.Roles {
		roles[i] = string(r)
	}
	writef(os.Stdout, "signed in as %s (%s)\n", *email, strings.Join(roles, ", "))
	return nil
}

func runLogout(cmdCtx *commandContext, _ []string) error {
	if err := cmdCtx.App.Auth.Logout(cmdCtx.Ctx); err != nil {
		return err
	}
	writef(os.Stdout, "signed out\n")
	return nil
}

func runRegister(cmdCtx *commandContext, args []string) error {
	fs := flag.NewFlagSet("register", flag.ContinueOnError)
	first := fs.String("first-name", "", "first name (required)")
	last := fs.String("last-name", "", "last name (required)")
	email := fs.String("email", "", "email (required)")
	phone := fs.String("phone", "", "phone number (required)")
	password := fs.String("password", "", "password (prompted when omitted)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	for name, v := range map[string]string{
		"-first-name": *first, "-last-name": *last, "-email": *email, "-phone": *phone,
	} {
		if v == "" {
			return fmt.Errorf("%s is required", name)
		}
	}

	pw := *password
	if pw == "" {
		var err error
		pw, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	u, err := cmdCtx.App.Auth.Register(cmdCtx.Ctx, api.RegisterRequest{
		FirstName:   *first,
		LastName:    *last,
		Email:       *email,
		PhoneNumber: *phone,
		Password:    pw,
	})
	if err != nil {
		return err
	}
	writef(os.Stdout, "registered %s %s (id %d); run 'bankctl login' to sign in\n",
		u.FirstName, u.LastName, u.ID)
	return nil
}

func runWhoami(cmdCtx *commandContext, _ []string) error {
	if err := guardAuth(cmdCtx, "/profile"); err != nil {
		return err
	}

	u, err := cmdCtx.App.Users.Me(cmdCtx.Ctx)
	if err != nil {
		return err
	}

	roles := make([]string, len(u.Roles))
	for i, r := range u.Roles {
		roles[i] = r.Name
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	writef(tw, "Name:\t%s %s\n", u.FirstName, u.LastName)
	writef(tw, "Email:\t%s\n", u.Email)
	writef(tw, "Phone:\t%s\n", u.PhoneNumber)
	writef(tw, "Roles:\t%s\n", strings.Join(roles, ", "))
	writef(tw, "Active:\t%t\n", u.Active)
	writef(tw, "Accounts:\t%d\n", len(u.Accounts))
	return tw.Flush()
}

func promptPassword(prompt string) (string, error) {
	writef(os.Stderr, "%s", prompt)
	data, err := term.ReadPassword(int(syscall.Stdin))
	writef(os.Stderr, "\n")
	if err != nil {
		return "", fmt.Errorf("read password: %w", err)
	}
	if len(data) == 0 {
		return "", errors.New("empty password")
	}
	return string(data), nil
}
