package api

import (
	"context"
	"net/url"
	"strconv"

	"github.com/phegonbank/webclient-go/internal/gateway"
)

// TransactionClient talks to the /transactions endpoints.
type TransactionClient struct {
	gw *gateway.Client
}

// NewTransactionClient creates a TransactionClient.
func NewTransactionClient(gw *gateway.Client) *TransactionClient {
	return &TransactionClient{gw: gw}
}

// Create submits a transfer, deposit, or withdrawal.
func (c *TransactionClient) Create(ctx context.Context, req CreateTransactionRequest) (Transaction, error) {
	var txn Transaction
	if err := c.gw.Post(ctx, "/transactions", req, &txn); err != nil {
		return Transaction{}, err
	}
	return txn, nil
}

// Transfer moves funds between two accounts.
func (c *TransactionClient) Transfer(ctx context.Context, from, to string, amount float64, description string) (Transaction, error) {
	return c.Create(ctx, CreateTransactionRequest{
		TransactionType:          TransactionTransfer,
		Amount:                   amount,
		AccountNumber:            from,
		DestinationAccountNumber: to,
		Description:              description,
	})
}

// Deposit credits an account.
func (c *TransactionClient) Deposit(ctx context.Context, account string, amount float64) (Transaction, error) {
	return c.Create(ctx, CreateTransactionRequest{
		TransactionType: TransactionDeposit,
		Amount:          amount,
		AccountNumber:   account,
	})
}

// Withdraw debits an account.
func (c *TransactionClient) Withdraw(ctx context.Context, account string, amount float64) (Transaction, error) {
	return c.Create(ctx, CreateTransactionRequest{
		TransactionType: TransactionWithdrawal,
		Amount:          amount,
		AccountNumber:   account,
	})
}

// History fetches an account's transactions, newest first. page is
// zero-based; a size of 0 lets the backend default apply.
func (c *TransactionClient) History(ctx context.Context, accountNumber string, page, size int) ([]Transaction, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(page))
	if size > 0 {
		q.Set("size", strconv.Itoa(size))
	}
	path := "/transactions/account/" + url.PathEscape(accountNumber) + "?" + q.Encode()

	var txns []Transaction
	if err := c.gw.GetList(ctx, path, &txns); err != nil {
		return nil, err
	}
	return txns, nil
}

// List fetches all transactions. Admin and auditor only on the backend.
func (c *TransactionClient) List(ctx context.Context) ([]Transaction, error) {
	var txns []Transaction
	if err := c.gw.GetList(ctx, "/transactions", &txns); err != nil {
		return nil, err
	}
	return txns, nil
}
