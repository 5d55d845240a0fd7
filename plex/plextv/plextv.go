// Package plextv calls the public plex.tv endpoints this integration
// depends on: the legacy credentials sign-in, the authorized server
// listing, the resource directory, and the device history.
package plextv

import (
	"cmp"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/chatplex/plexbot/plex/plexdir"
)

const defaultURL = "https://plex.tv"

// ErrTokenExpired indicates Plex no longer honors the stored token. The
// user has to sign in again; retrying with the same token won't help.
var ErrTokenExpired = errors.New("token expired, reauthenticate")

var _ error = (*UpstreamError)(nil)

// UpstreamError is a plex.tv or Plex Media Server response outside the
// expected status codes.
type UpstreamError struct {
	Status     string
	StatusCode int
}

func (e *UpstreamError) Error() string {
	return "plex: " + cmp.Or(e.Status, strconv.Itoa(e.StatusCode))
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(client *Client) {
		client.httpClient = httpClient
	}
}

// WithDevice sets the device identity presented to plex.tv.
func WithDevice(device Device) Option {
	return func(client *Client) {
		client.device = device
	}
}

// WithURL overrides the plex.tv base URL. Mainly useful for testing.
func WithURL(u string) Option {
	return func(client *Client) {
		client.url = u
	}
}

// Client calls the plex.tv APIs.
type Client struct {
	httpClient *http.Client
	device     Device
	url        string
}

func New(opts ...Option) *Client {
	client := Client{
		httpClient: &http.Client{},
		device:     defaultDevice,
		url:        defaultURL,
	}
	for _, o := range opts {
		o(&client)
	}
	return &client
}

// User is the account identity returned by the sign-in call.
type User struct {
	UUID      string `json:"uuid"`
	Thumb     string `json:"thumb"`
	AuthToken string `json:"authToken"`
	ID        int    `json:"id"`
}

// SignIn authenticates with Plex username/password credentials and
// returns the account identity, including the auth token.
func (c *Client) SignIn(ctx context.Context, username, password string) (User, error) {
	v := make(url.Values)
	v.Set("user[login]", username)
	v.Set("user[password]", password)

	req, _ := http.NewRequestWithContext(ctx, http.MethodPost, c.url+"/users/sign_in.json", strings.NewReader(v.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	c.device.populateRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return User{}, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated {
		return User{}, &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var response struct {
		User struct {
			User
			// older plex.tv revisions used a different field name
			AuthenticationToken string `json:"authentication_token"`
		} `json:"user"`
	}
	if err = json.NewDecoder(resp.Body).Decode(&response); err != nil {
		return User{}, fmt.Errorf("decode: %w", err)
	}
	user := response.User.User
	user.AuthToken = cmp.Or(user.AuthToken, response.User.AuthenticationToken)
	if user.AuthToken == "" {
		return User{}, errors.New("no auth token in sign-in response")
	}
	return user, nil
}

// Servers returns the Plex Media Servers authorized for token, in
// directory order. A 401 response means the token is no longer honored.
func (c *Client) Servers(ctx context.Context, token Token) ([]plexdir.Server, error) {
	body, err := c.get(ctx, "/pms/servers", nil, token)
	if err != nil {
		return nil, err
	}
	return plexdir.ParseServers(body)
}

// Resources returns the devices registered to the account, including
// https and relay connection entries.
func (c *Client) Resources(ctx context.Context, token Token) ([]plexdir.Resource, error) {
	params := url.Values{"includeHttps": {"1"}, "includeRelay": {"1"}}
	body, err := c.get(ctx, "/api/resources", params, token)
	if err != nil {
		return nil, err
	}
	return plexdir.ParseResources(body)
}

// AccountDevice is an entry in the account's device history. Unlike a
// Resource it is purely informational: retired devices linger here long
// after they stop showing up in the resource directory.
type AccountDevice struct {
	Name             string `json:"name"`
	Product          string `json:"product"`
	ProductVersion   string `json:"productVersion"`
	Platform         string `json:"platform"`
	ClientIdentifier string `json:"clientIdentifier"`
	LastSeenAt       string `json:"lastSeenAt"`
	ID               int    `json:"id"`
}

// LastSeen returns the device's last-seen timestamp, or the zero time
// when the listing carries none we recognize.
func (d AccountDevice) LastSeen() time.Time {
	ts, _ := time.Parse(time.RFC3339, strings.TrimSpace(d.LastSeenAt))
	return ts
}

// Devices returns the account's device history, most recently seen
// first.
func (c *Client) Devices(ctx context.Context, token Token) ([]AccountDevice, error) {
	body, err := c.get(ctx, "/devices.json", nil, token)
	if err != nil {
		return nil, err
	}
	var devices []AccountDevice
	if err = json.Unmarshal([]byte(body), &devices); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	slices.SortStableFunc(devices, func(a, b AccountDevice) int {
		return b.LastSeen().Compare(a.LastSeen())
	})
	return devices, nil
}

func (c *Client) get(ctx context.Context, endpoint string, params url.Values, token Token) (string, error) {
	target := c.url + endpoint
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	req, _ := http.NewRequestWithContext(ctx, http.MethodGet, target, nil)
	req.Header.Set("X-Plex-Token", token.String())
	c.device.populateRequest(req)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized:
		return "", ErrTokenExpired
	default:
		return "", &UpstreamError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}
	return string(body), nil
}
