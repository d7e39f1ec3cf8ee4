package api

import (
	"context"
	"net/url"

	"github.com/phegonbank/webclient-go/internal/gateway"
)

// AuditClient talks to the auditor-facing /audit endpoints.
type AuditClient struct {
	gw *gateway.Client
}

// NewAuditClient creates an AuditClient.
func NewAuditClient(gw *gateway.Client) *AuditClient {
	return &AuditClient{gw: gw}
}

// Totals fetches the system-wide dashboard summary.
func (c *AuditClient) Totals(ctx context.Context) (SystemTotals, error) {
	var totals SystemTotals
	if err := c.gw.Get(ctx, "/audit/totals", &totals); err != nil {
		return SystemTotals{}, err
	}
	return totals, nil
}

// FindUsersByEmail searches users by email. The backend matches loosely and
// returns all hits.
func (c *AuditClient) FindUsersByEmail(ctx context.Context, email string) ([]User, error) {
	q := url.Values{"email": {email}}
	var users []User
	if err := c.gw.GetList(ctx, "/audit/users?"+q.Encode(), &users); err != nil {
		return nil, err
	}
	return users, nil
}

// FindAccountByNumber looks up a single account.
func (c *AuditClient) FindAccountByNumber(ctx context.Context, accountNumber string) (Account, error) {
	q := url.Values{"accountNumber": {accountNumber}}
	var a Account
	if err := c.gw.Get(ctx, "/audit/accounts?"+q.Encode(), &a); err != nil {
		return Account{}, err
	}
	return a, nil
}

// TransactionsByAccount fetches every transaction on an account for audit
// review.
func (c *AuditClient) TransactionsByAccount(ctx context.Context, accountNumber string) ([]Transaction, error) {
	q := url.Values{"accountNumber": {accountNumber}}
	var txns []Transaction
	if err := c.gw.GetList(ctx, "/audit/transactions/by-account?"+q.Encode(), &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// TransactionByID looks up a single transaction.
func (c *AuditClient) TransactionByID(ctx context.Context, id string) (Transaction, error) {
	q := url.Values{"id": {id}}
	var txn Transaction
	if err := c.gw.Get(ctx, "/audit/transactions/by-id?"+q.Encode(), &txn); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}
