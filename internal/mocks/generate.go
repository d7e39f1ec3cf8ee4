// Package mocks holds generated test doubles for the session core's ports.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks.
// To regenerate after interface changes, run:
//
//	go generate ./internal/mocks
package mocks

// Generate mock for CredentialStore interface from internal/ports.
//go:generate go run go.uber.org/mock/mockgen -package=portsmock -destination=portsmock/credential_store_mock.go github.com/phegonbank/webclient-go/internal/ports CredentialStore
