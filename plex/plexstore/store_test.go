package plexstore

import (
	"errors"
	"os"
	"testing"

	"github.com/spf13/afero"

	"github.com/chatplex/plexbot/plex/plexdir"
)

func TestStore_Credentials(t *testing.T) {
	s := newWithFS(afero.NewMemMapFs(), "accounts", "my-passphrase")

	if _, err := s.Token("user-1"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Token before sign-in: want %v, got %v", os.ErrNotExist, err)
	}

	credentials := Credentials{
		Token:       "token-0000000000001",
		AccountID:   "12345",
		AccountUUID: "uuid-12345",
		AvatarURL:   "https://plex.tv/users/12345/avatar",
	}
	if err := s.SetCredentials("user-1", credentials); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	reads := []struct {
		name string
		fn   func(string) (string, error)
		want string
	}{
		{"token", s.Token, credentials.Token},
		{"account id", s.AccountID, credentials.AccountID},
		{"account uuid", s.AccountUUID, credentials.AccountUUID},
		{"avatar", s.AvatarURL, credentials.AvatarURL},
	}
	for _, read := range reads {
		got, err := read.fn("user-1")
		if err != nil {
			t.Fatalf("%s: %v", read.name, err)
		}
		if got != read.want {
			t.Fatalf("%s: want %q, got %q", read.name, read.want, got)
		}
	}

	// slots are per account
	if _, err := s.Token("user-2"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Token for other account: want %v, got %v", os.ErrNotExist, err)
	}
}

func TestStore_SetCredentials_Overwrites(t *testing.T) {
	s := newWithFS(afero.NewMemMapFs(), "accounts", "my-passphrase")

	if err := s.SetCredentials("user-1", Credentials{Token: "first"}); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}
	if err := s.SetCredentials("user-1", Credentials{Token: "second"}); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}
	got, err := s.Token("user-1")
	if err != nil {
		t.Fatalf("Token: %v", err)
	}
	if got != "second" {
		t.Fatalf("Token: want %q, got %q", "second", got)
	}
}

func TestStore_Servers(t *testing.T) {
	s := newWithFS(afero.NewMemMapFs(), "accounts", "my-passphrase")

	if _, err := s.Servers("user-1"); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("Servers before store: want %v, got %v", os.ErrNotExist, err)
	}

	servers := []plexdir.Server{
		{Name: "Home", Address: "10.0.0.5", Port: 32400, Scheme: "http", MachineID: "abc123", Owned: true},
		{Name: "Cabin", Address: "10.0.0.6", Port: 32400, Scheme: "http", MachineID: "def456"},
	}
	if err := s.SetServers("user-1", servers); err != nil {
		t.Fatalf("SetServers: %v", err)
	}
	got, err := s.Servers("user-1")
	if err != nil {
		t.Fatalf("Servers: %v", err)
	}
	if len(got) != 2 || got[0] != servers[0] || got[1] != servers[1] {
		t.Fatalf("Servers: want %+v, got %+v", servers, got)
	}

	// writes replace wholesale; no merging
	if err = s.SetServers("user-1", servers[:1]); err != nil {
		t.Fatalf("SetServers: %v", err)
	}
	if got, err = s.Servers("user-1"); err != nil {
		t.Fatalf("Servers: %v", err)
	}
	if len(got) != 1 || got[0].Name != "Home" {
		t.Fatalf("Servers after overwrite: got %+v", got)
	}
}

func TestStore_WrongPassphrase(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newWithFS(fs, "accounts", "my-passphrase")
	if err := s.SetCredentials("user-1", Credentials{Token: "token-0000000000001"}); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	other := newWithFS(fs, "accounts", "not-my-passphrase")
	if _, err := other.Token("user-1"); !errors.Is(err, ErrInvalidKey) {
		t.Fatalf("Token with wrong passphrase: want %v, got %v", ErrInvalidKey, err)
	}
}

func TestStore_EncryptedAtRest(t *testing.T) {
	fs := afero.NewMemMapFs()
	s := newWithFS(fs, "accounts", "my-passphrase")
	if err := s.SetCredentials("user-1", Credentials{Token: "token-0000000000001"}); err != nil {
		t.Fatalf("SetCredentials: %v", err)
	}

	raw, err := afero.ReadFile(fs, "accounts/user-1/token")
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(raw) == "token-0000000000001" {
		t.Fatal("token stored in plaintext")
	}
}
