package plex

import (
	"errors"
	"strconv"

	"github.com/chatplex/plexbot/plex/plextv"
)

var (
	// ErrNoCredentials indicates the account never signed in (or its
	// credentials were removed).
	ErrNoCredentials = errors.New("no credentials stored, sign in first")
	// ErrNoServers indicates no server list has been stored for the
	// account. Distinct from ErrNoCredentials: sign-in may have stored a
	// token while the server fetch failed.
	ErrNoServers = errors.New("no servers stored, sign in again")
	// ErrTokenExpired indicates Plex no longer honors the stored token.
	ErrTokenExpired = plextv.ErrTokenExpired

	// ErrNotOwned indicates the resolved player belongs to another account.
	ErrNotOwned = errors.New("not allowed to control another account's resource")
	// ErrNotPresent indicates the resolved player is currently offline.
	ErrNotPresent = errors.New("resource is not currently listening")
	// ErrNoConnection indicates the resolved player has no usable
	// playback connection.
	ErrNoConnection = errors.New("resource has no appropriate connection")

	// ErrInvalidAction indicates an unrecognized playback action.
	ErrInvalidAction = errors.New("invalid playback action")
	// ErrMediaIDRequired indicates a play request without a media id.
	ErrMediaIDRequired = errors.New("media id required to start playback")
)

var _ error = (*NotFoundError)(nil)

// NotFoundError indicates no stored record matched a name query.
type NotFoundError struct {
	Kind  string
	Query string
}

func (e *NotFoundError) Error() string {
	return "no " + e.Kind + " found matching " + strconv.Quote(e.Query)
}
