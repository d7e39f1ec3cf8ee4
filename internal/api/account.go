package api

import (
	"context"
	"net/url"

	"github.com/phegonbank/webclient-go/internal/gateway"
)

// AccountClient talks to the /accounts endpoints.
type AccountClient struct {
	gw *gateway.Client
}

// NewAccountClient creates an AccountClient.
func NewAccountClient(gw *gateway.Client) *AccountClient {
	return &AccountClient{gw: gw}
}

// Mine fetches the signed-in user's accounts.
func (c *AccountClient) Mine(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.gw.GetList(ctx, "/accounts/me", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}

// Get fetches a single account by number.
func (c *AccountClient) Get(ctx context.Context, accountNumber string) (Account, error) {
	var a Account
	if err := c.gw.Get(ctx, "/accounts/"+url.PathEscape(accountNumber), &a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// List fetches all accounts. Admin and auditor only on the backend.
func (c *AccountClient) List(ctx context.Context) ([]Account, error) {
	var accounts []Account
	if err := c.gw.GetList(ctx, "/accounts", &accounts); err != nil {
		return nil, err
	}
	return accounts, nil
}
