// Package api provides thin typed clients for the banking backend, one per
// resource family. Each client is a wrapper over the shared gateway: all
// credential attachment, busy signaling, and 401 handling happens there.
package api

import (
	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
)

// LoginRequest is the credentials payload for POST /auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the payload for POST /auth/register.
type RegisterRequest struct {
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	PhoneNumber string `json:"phoneNumber"`
	Email       string `json:"email"`
	Password    string `json:"password"`
}

// ForgotPasswordRequest is the payload for POST /auth/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

// ResetPasswordRequest is the payload for POST /auth/reset-password.
type ResetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// UpdatePasswordRequest is the payload for PUT /users/update-password.
type UpdatePasswordRequest struct {
	OldPassword string `json:"oldPassword"`
	NewPassword string `json:"newPassword"`
}

// LoginResult is the unwrapped payload of a successful login or token
// refresh.
type LoginResult struct {
	Token string            `json:"token"`
	Roles []domainauth.Role `json:"roles"`
}

// UserRole is a role as the user endpoints render it (id plus name), as
// opposed to the bare strings the login endpoint returns.
type UserRole struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// User is a backend user profile. Accounts is populated on /users/me.
type User struct {
	ID             int        `json:"id"`
	FirstName      string     `json:"firstName"`
	LastName       string     `json:"lastName"`
	PhoneNumber    string     `json:"phoneNumber"`
	Email          string     `json:"email"`
	Active         bool       `json:"active"`
	Roles          []UserRole `json:"roles"`
	Accounts       []Account  `json:"accounts,omitempty"`
	ProfilePicture string     `json:"profilePicture,omitempty"`
	CreatedAt      string     `json:"createdAt,omitempty"`
	UpdatedAt      string     `json:"updatedAt,omitempty"`
}

// UserUpdateRequest is the payload for PUT /users/{id}. Empty fields are
// omitted so partial updates stay partial.
type UserUpdateRequest struct {
	FirstName   string `json:"firstName,omitempty"`
	LastName    string `json:"lastName,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phoneNumber,omitempty"`
}

// Account is a bank account owned by a user.
type Account struct {
	ID            string  `json:"id"`
	AccountNumber string  `json:"accountNumber"`
	AccountType   string  `json:"accountType"`
	Balance       float64 `json:"balance"`
	Currency      string  `json:"currency"`
	Status        string  `json:"status"`
	UserID        string  `json:"userId"`
	CreatedAt     string  `json:"createdAt"`
	UpdatedAt     string  `json:"updatedAt"`
}

// TransactionType enumerates the supported transaction kinds.
type TransactionType string

const (
	TransactionTransfer   TransactionType = "TRANSFER"
	TransactionWithdrawal TransactionType = "WITHDRAWAL"
	TransactionDeposit    TransactionType = "DEPOSIT"
)

// Transaction is a ledger entry. The backend has shipped two field sets
// over time; both are kept so either decodes.
type Transaction struct {
	ID              string          `json:"id"`
	TransactionType TransactionType `json:"transactionType"`
	Amount          float64         `json:"amount"`
	Description     string          `json:"description,omitempty"`
	Status          string          `json:"status"`

	// Current field set.
	SourceAccount      string `json:"sourceAccount,omitempty"`
	DestinationAccount string `json:"destinationAccount,omitempty"`
	TransactionDate    string `json:"transactionDate,omitempty"`

	// Legacy field set.
	AccountNumber          string `json:"accountNumber,omitempty"`
	RecipientAccountNumber string `json:"recipientAccountNumber,omitempty"`
	CreatedAt              string `json:"createdAt,omitempty"`
}

// Source returns the originating account, whichever field set carried it.
func (t Transaction) Source() string {
	if t.SourceAccount != "" {
		return t.SourceAccount
	}
	return t.AccountNumber
}

// Destination returns the receiving account, whichever field set carried it.
func (t Transaction) Destination() string {
	if t.DestinationAccount != "" {
		return t.DestinationAccount
	}
	return t.RecipientAccountNumber
}

// Date returns the transaction timestamp, whichever field set carried it.
func (t Transaction) Date() string {
	if t.TransactionDate != "" {
		return t.TransactionDate
	}
	return t.CreatedAt
}

// CreateTransactionRequest is the payload for POST /transactions.
// DestinationAccountNumber is required for transfers only.
type CreateTransactionRequest struct {
	TransactionType          TransactionType `json:"transactionType"`
	Amount                   float64         `json:"amount"`
	AccountNumber            string          `json:"accountNumber"`
	DestinationAccountNumber string          `json:"destinationAccountNumber,omitempty"`
	Description              string          `json:"description,omitempty"`
}

// SystemTotals is the auditor dashboard summary.
type SystemTotals struct {
	TotalUsers        int     `json:"totalUsers"`
	TotalAccounts     int     `json:"totalAccounts"`
	TotalTransactions int     `json:"totalTransactions"`
	TotalBalance      float64 `json:"totalBalance"`
}
