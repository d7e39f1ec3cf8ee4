// Package filestore persists the session credential as a JSON file on disk.
// It is the default store for single-machine use; writes are visible to
// other processes through the filesystem, with change detection by
// modification-time polling.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	domainauth "github.com/phegonbank/webclient-go/internal/domain/auth"
	"github.com/phegonbank/webclient-go/internal/ports"
)

const (
	credentialFile = "credentials.json"
	dirMode        = 0o700
	fileMode       = 0o600
)

// Store is a file-backed credential store.
type Store struct {
	path         string
	pollInterval time.Duration
	logger       *slog.Logger
}

var _ ports.CredentialStore = (*Store)(nil)

// Options bundles dependencies for New.
type Options struct {
	// Dir is the state directory; created on first write.
	Dir string
	// PollInterval controls how often Watch checks for external changes.
	PollInterval time.Duration
	Logger       *slog.Logger
}

// New creates a file-backed store rooted at opts.Dir.
func New(opts Options) *Store {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	interval := opts.PollInterval
	if interval <= 0 {
		interval = time.Second
	}
	return &Store{
		path:         filepath.Join(opts.Dir, credentialFile),
		pollInterval: interval,
		logger:       logger,
	}
}

// storedCredential is the on-disk shape. Roles stay raw so a truncated or
// hand-edited file degrades to an empty role set instead of failing Load.
type storedCredential struct {
	Token string          `json:"token"`
	Roles json.RawMessage `json:"roles"`
}

// Save writes token and roles together via write-to-temp + rename, so a
// reader never observes a half-written credential.
func (s *Store) Save(_ context.Context, cred domainauth.Credential) error {
	if err := os.MkdirAll(filepath.Dir(s.path), dirMode); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}

	data, err := json.Marshal(storedCredential{
		Token: cred.Token,
		Roles: domainauth.EncodeRoles(cred.Roles),
	})
	if err != nil {
		return fmt.Errorf("marshal credential: %w", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), credentialFile+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err = tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write credential: %w", err)
	}
	if err = tmp.Chmod(fileMode); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("chmod credential: %w", err)
	}
	if err = tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close credential: %w", err)
	}
	if err = os.Rename(tmpName, s.path); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename credential: %w", err)
	}
	return nil
}

// Clear removes the credential file. Idempotent.
func (s *Store) Clear(_ context.Context) error {
	err := os.Remove(s.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("remove credential: %w", err)
	}
	return nil
}

// Load reads the stored credential. A missing or unreadable file yields the
// zero Credential: the session layer treats that as logged out rather than
// surfacing storage corruption to every caller.
func (s *Store) Load(_ context.Context) (domainauth.Credential, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return domainauth.Credential{}, nil
		}
		return domainauth.Credential{}, fmt.Errorf("read credential: %w", err)
	}

	var stored storedCredential
	if err := json.Unmarshal(data, &stored); err != nil {
		s.logger.Warn("credential file malformed, treating as logged out", "path", s.path)
		return domainauth.Credential{}, nil
	}

	return domainauth.Credential{
		Token: stored.Token,
		Roles: domainauth.DecodeRoles(stored.Roles),
	}, nil
}

// Watch polls the file's modification time and signals on change, the
// filesystem analogue of a cross-tab storage event. The returned channel
// closes when ctx is done.
func (s *Store) Watch(ctx context.Context) <-chan struct{} {
	ch := make(chan struct{}, 1)

	go func() {
		defer close(ch)

		last, lastOK := s.stamp()
		ticker := time.NewTicker(s.pollInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				cur, curOK := s.stamp()
				if cur != last || curOK != lastOK {
					last, lastOK = cur, curOK
					select {
					case ch <- struct{}{}:
					default:
						// Consumer is behind; it re-reads the store
						// anyway, a coalesced signal is enough.
					}
				}
			}
		}
	}()

	return ch
}

func (s *Store) stamp() (time.Time, bool) {
	info, err := os.Stat(s.path)
	if err != nil {
		return time.Time{}, false
	}
	return info.ModTime(), true
}
