package plex

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"

	"github.com/chatplex/plexbot/plex/plexdir"
	"github.com/chatplex/plexbot/plex/plexstore"
	"github.com/chatplex/plexbot/plex/plextv"
)

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(client *Client) {
		client.logger = logger
	}
}

// WithPlexTV overrides the plex.tv client. Mainly useful for testing.
func WithPlexTV(plexTV *plextv.Client) Option {
	return func(client *Client) {
		client.plexTV = plexTV
	}
}

// Client resolves and calls Plex on behalf of chat accounts. All
// lookups are scoped to the accountID passed per call.
type Client struct {
	store      *plexstore.Store
	plexTV     *plextv.Client
	httpClient *http.Client
	logger     *slog.Logger
}

func New(store *plexstore.Store, opts ...Option) *Client {
	client := Client{
		store:      store,
		plexTV:     plextv.New(),
		httpClient: &http.Client{},
		logger:     slog.New(slog.DiscardHandler),
	}
	for _, o := range opts {
		o(&client)
	}
	return &client
}

// Login signs the account in with Plex credentials, stores the
// resulting identity and refreshes the stored server list. The password
// is used once and never persisted.
func (c *Client) Login(ctx context.Context, accountID, username, password string) (plextv.User, []plexdir.Server, error) {
	user, err := c.plexTV.SignIn(ctx, username, password)
	if err != nil {
		return plextv.User{}, nil, fmt.Errorf("sign in: %w", err)
	}
	credentials := plexstore.Credentials{
		Token:       user.AuthToken,
		AccountID:   strconv.Itoa(user.ID),
		AccountUUID: user.UUID,
		AvatarURL:   user.Thumb,
	}
	if err = c.store.SetCredentials(accountID, credentials); err != nil {
		return plextv.User{}, nil, fmt.Errorf("store credentials: %w", err)
	}
	c.logger.Debug("signed in", "account", accountID)

	servers, err := c.RefreshServers(ctx, accountID)
	if err != nil {
		return plextv.User{}, nil, err
	}
	return user, servers, nil
}

// RefreshServers fetches the account's authorized servers from plex.tv
// and replaces the stored list.
func (c *Client) RefreshServers(ctx context.Context, accountID string) ([]plexdir.Server, error) {
	token, err := c.token(accountID)
	if err != nil {
		return nil, err
	}
	servers, err := c.plexTV.Servers(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("fetch servers: %w", err)
	}
	if err = c.store.SetServers(accountID, servers); err != nil {
		return nil, fmt.Errorf("store servers: %w", err)
	}
	c.logger.Debug("refreshed servers", "account", accountID, "count", len(servers))
	return servers, nil
}

// Servers returns the account's stored server list.
func (c *Client) Servers(accountID string) ([]plexdir.Server, error) {
	servers, err := c.store.Servers(accountID)
	if errors.Is(err, os.ErrNotExist) {
		return nil, ErrNoServers
	}
	return servers, err
}

// Server resolves a stored server by name. An empty query matches the
// first stored server.
func (c *Client) Server(accountID, query string) (plexdir.Server, error) {
	servers, err := c.Servers(accountID)
	if err != nil {
		return plexdir.Server{}, err
	}
	server, ok := plexdir.MatchName(servers, query, func(s plexdir.Server) string { return s.Name })
	if !ok {
		return plexdir.Server{}, &NotFoundError{Kind: "server", Query: query}
	}
	return server, nil
}

// Resources returns the devices registered to the account, resolved
// through its stored token.
func (c *Client) Resources(ctx context.Context, accountID string) ([]plexdir.Resource, error) {
	token, err := c.token(accountID)
	if err != nil {
		return nil, err
	}
	return c.plexTV.Resources(ctx, token)
}

// Devices returns the account's plex.tv device history, most recently
// seen first, resolved through its stored token.
func (c *Client) Devices(ctx context.Context, accountID string) ([]plextv.AccountDevice, error) {
	token, err := c.token(accountID)
	if err != nil {
		return nil, err
	}
	return c.plexTV.Devices(ctx, token)
}

func (c *Client) token(accountID string) (plextv.Token, error) {
	value, err := c.store.Token(accountID)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", ErrNoCredentials
		}
		return "", err
	}
	token := plextv.Token(value)
	if token.Expired() {
		return "", ErrTokenExpired
	}
	return token, nil
}

// Response is the raw result of a data request, along with the server
// that answered it.
type Response struct {
	Server plexdir.Server
	Body   []byte
}

// Data resolves serverQuery against the account's stored servers and
// performs a GET against the resolved server. The body is returned
// verbatim. A 400 response means the stored token is no longer honored.
func (c *Client) Data(ctx context.Context, accountID, serverQuery, endpoint string, params url.Values) (Response, error) {
	token, err := c.token(accountID)
	if err != nil {
		return Response{}, err
	}
	server, err := c.Server(accountID, serverQuery)
	if err != nil {
		return Response{}, err
	}

	target := server.URL() + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Plex-Token", token.String())

	c.logger.Debug("data request", "account", accountID, "server", server.Name, "endpoint", endpoint)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Response{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusBadRequest:
		// PMS answers 400, not 401, to an expired token
		return Response{}, ErrTokenExpired
	default:
		return Response{}, &plextv.UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Response{}, fmt.Errorf("read body: %w", err)
	}
	return Response{Server: server, Body: body}, nil
}

// container performs a data request and decodes the MediaContainer
// envelope every PMS data endpoint wraps its payload in.
func container[T any](ctx context.Context, c *Client, accountID, serverQuery, endpoint string, params url.Values) (T, error) {
	var envelope struct {
		MediaContainer T `json:"MediaContainer"`
	}
	resp, err := c.Data(ctx, accountID, serverQuery, endpoint, params)
	if err != nil {
		return envelope.MediaContainer, err
	}
	if err = json.Unmarshal(resp.Body, &envelope); err != nil {
		err = fmt.Errorf("decode: %w", err)
	}
	return envelope.MediaContainer, err
}
