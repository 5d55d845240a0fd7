package plex

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/chatplex/plexbot/plex/plexdir"
	"github.com/chatplex/plexbot/plex/plextv"
)

// PlaybackAction is a remote control command understood by Plex players.
type PlaybackAction string

const (
	ActionPlay        PlaybackAction = "play"
	ActionPause       PlaybackAction = "pause"
	ActionStop        PlaybackAction = "stop"
	ActionRewind      PlaybackAction = "rewind"
	ActionSkipBack    PlaybackAction = "skip-back"
	ActionFastForward PlaybackAction = "fast-forward"
	ActionSkipForward PlaybackAction = "skip-forward"
)

// playbackCommands maps each action to the player endpoint it drives and
// the command id the player protocol expects for it.
var playbackCommands = map[PlaybackAction]struct {
	endpoint  string
	commandID int
}{
	ActionPlay:        {endpoint: "playMedia", commandID: 1},
	ActionPause:       {endpoint: "pause", commandID: 10},
	ActionStop:        {endpoint: "stop", commandID: 10},
	ActionRewind:      {endpoint: "seekTo", commandID: 2},
	ActionSkipBack:    {endpoint: "skipPrevious", commandID: 5},
	ActionFastForward: {endpoint: "seekTo", commandID: 6},
	ActionSkipForward: {endpoint: "skipNext", commandID: 8},
}

// PlaybackTarget is a fully resolved playback command: the player it
// controls, the connection chosen to reach it, and the request to send.
type PlaybackTarget struct {
	Resource   plexdir.Resource
	Connection plexdir.Connection
	URL        string
	Header     http.Header
	Params     url.Values
}

// ResolvePlayback resolves action against the account's topology into a
// ready-to-send playback command. The server is resolved by name; the
// target device by its exact client identifier, the stable id chat
// callers carry around. The server provides the machine identifier
// players require on every command.
func (c *Client) ResolvePlayback(ctx context.Context, accountID, serverQuery, clientID string, action PlaybackAction, mediaID string) (PlaybackTarget, error) {
	command, ok := playbackCommands[action]
	if !ok {
		return PlaybackTarget{}, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}
	if action == ActionPlay && mediaID == "" {
		return PlaybackTarget{}, ErrMediaIDRequired
	}
	token, err := c.token(accountID)
	if err != nil {
		return PlaybackTarget{}, err
	}
	server, err := c.Server(accountID, serverQuery)
	if err != nil {
		return PlaybackTarget{}, err
	}
	resources, err := c.plexTV.Resources(ctx, token)
	if err != nil {
		return PlaybackTarget{}, fmt.Errorf("fetch resources: %w", err)
	}
	var resource plexdir.Resource
	ok = false
	for _, r := range resources {
		if r.ClientIdentifier == clientID {
			resource, ok = r, true
			break
		}
	}
	if !ok {
		return PlaybackTarget{}, &NotFoundError{Kind: "resource", Query: clientID}
	}
	if !resource.Owned {
		return PlaybackTarget{}, ErrNotOwned
	}
	if !resource.Presence {
		return PlaybackTarget{}, ErrNotPresent
	}
	connection, ok := resource.AppropriateConnection()
	if !ok || !resource.HasAppropriateConnection {
		return PlaybackTarget{}, ErrNoConnection
	}

	header := make(http.Header)
	header.Set("X-Plex-Token", token.String())
	header.Set("X-Plex-Target-Client-Identifier", resource.ClientIdentifier)
	// players expect these two header names verbatim; http.Header.Set
	// would canonicalize them
	header["commandID"] = []string{strconv.Itoa(command.commandID)}
	header["machineIdentifier"] = []string{server.MachineID}

	params := url.Values{"offset": {"0"}}
	if action == ActionPlay {
		params.Set("key", "/library/metadata/"+mediaID)
	}

	return PlaybackTarget{
		Resource:   resource,
		Connection: connection,
		URL:        connection.URI + "/player/playback/" + command.endpoint,
		Header:     header,
		Params:     params,
	}, nil
}

// Playback resolves and sends a playback command to the targeted device.
func (c *Client) Playback(ctx context.Context, accountID, serverQuery, clientID string, action PlaybackAction, mediaID string) error {
	target, err := c.ResolvePlayback(ctx, accountID, serverQuery, clientID, action, mediaID)
	if err != nil {
		return err
	}

	requestURL := target.URL
	if len(target.Params) > 0 {
		requestURL += "?" + target.Params.Encode()
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, requestURL, nil)
	req.Header = target.Header

	c.logger.Debug("playback command", "account", accountID, "player", target.Resource.Name, "action", action)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return &plextv.UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}
	return nil
}
