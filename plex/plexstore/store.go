// Package plexstore persists each account's Plex topology: the auth
// token, the account identity captured at sign-in, and the last-fetched
// server list. Every value lives in its own slot file under the account's
// directory and is encrypted at rest.
package plexstore

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path"
	"sync"

	"github.com/spf13/afero"

	"github.com/chatplex/plexbot/plex/plexdir"
)

// slot names; one logical value per (account, purpose) pair
const (
	slotToken       = "token"
	slotAccountID   = "account-id"
	slotAccountUUID = "account-uuid"
	slotAvatar      = "avatar"
	slotServers     = "servers"
)

// Credentials is the account identity captured at sign-in.
type Credentials struct {
	Token       string
	AccountID   string
	AccountUUID string
	AvatarURL   string
}

// Store persists per-account topology on a filesystem. All writes are
// full replacements; reads of unwritten slots return os.ErrNotExist.
// The zero value is not usable; use New.
type Store struct {
	fs         afero.Fs
	dir        string
	passphrase string
	lock       sync.Mutex
}

// New returns a Store rooted at dir. Slot data is encrypted with a key
// derived from passphrase.
func New(dir, passphrase string) *Store {
	return newWithFS(afero.NewOsFs(), dir, passphrase)
}

func newWithFS(fs afero.Fs, dir, passphrase string) *Store {
	return &Store{fs: fs, dir: dir, passphrase: passphrase}
}

// SetCredentials replaces the account's credential slots. The four slots
// are written as one batch, but a concurrent reader may still observe the
// token before the server list lands; "servers absent" stays a distinct,
// handled state for that reason.
func (s *Store) SetCredentials(accountID string, credentials Credentials) error {
	s.lock.Lock()
	defer s.lock.Unlock()
	slots := map[string]string{
		slotToken:       credentials.Token,
		slotAccountID:   credentials.AccountID,
		slotAccountUUID: credentials.AccountUUID,
		slotAvatar:      credentials.AvatarURL,
	}
	for name, value := range slots {
		if err := s.write(accountID, name, []byte(value)); err != nil {
			return fmt.Errorf("%s: %w", name, err)
		}
	}
	return nil
}

// Token returns the account's stored auth token, or os.ErrNotExist when
// the account has never signed in.
func (s *Store) Token(accountID string) (string, error) {
	return s.readString(accountID, slotToken)
}

// AccountID returns the Plex account id stored at sign-in.
func (s *Store) AccountID(accountID string) (string, error) {
	return s.readString(accountID, slotAccountID)
}

// AccountUUID returns the Plex account uuid stored at sign-in.
func (s *Store) AccountUUID(accountID string) (string, error) {
	return s.readString(accountID, slotAccountUUID)
}

// AvatarURL returns the account's avatar URL stored at sign-in.
func (s *Store) AvatarURL(accountID string) (string, error) {
	return s.readString(accountID, slotAvatar)
}

// SetServers replaces the account's stored server list wholesale. There
// is no merging with a previously stored set.
func (s *Store) SetServers(accountID string, servers []plexdir.Server) error {
	body, err := json.Marshal(servers)
	if err != nil {
		return fmt.Errorf("encode servers: %w", err)
	}
	s.lock.Lock()
	defer s.lock.Unlock()
	return s.write(accountID, slotServers, body)
}

// Servers returns the account's stored server list, or os.ErrNotExist if
// none has been fetched yet.
func (s *Store) Servers(accountID string) ([]plexdir.Server, error) {
	s.lock.Lock()
	data, err := s.read(accountID, slotServers)
	s.lock.Unlock()
	if err != nil {
		return nil, err
	}
	var servers []plexdir.Server
	if err = json.Unmarshal(data, &servers); err != nil {
		return nil, fmt.Errorf("decode servers: %w", err)
	}
	return servers, nil
}

func (s *Store) readString(accountID, slot string) (string, error) {
	s.lock.Lock()
	defer s.lock.Unlock()
	data, err := s.read(accountID, slot)
	return string(data), err
}

func (s *Store) slotPath(accountID, slot string) string {
	return path.Join(s.dir, accountID, slot)
}

func (s *Store) write(accountID, slot string, value []byte) error {
	record, err := seal(value, s.passphrase)
	if err != nil {
		return err
	}
	body, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("encode record: %w", err)
	}
	if err = s.fs.MkdirAll(path.Join(s.dir, accountID), 0700); err != nil {
		return err
	}
	return afero.WriteFile(s.fs, s.slotPath(accountID, slot), body, 0600)
}

func (s *Store) read(accountID, slot string) ([]byte, error) {
	data, err := afero.ReadFile(s.fs, s.slotPath(accountID, slot))
	if err != nil {
		if errors.Is(err, afero.ErrFileNotFound) {
			return nil, os.ErrNotExist
		}
		return nil, err
	}
	var record sealedRecord
	if err = json.Unmarshal(data, &record); err != nil {
		return nil, fmt.Errorf("unrecognized slot format: %w", err)
	}
	return open(record, s.passphrase)
}
