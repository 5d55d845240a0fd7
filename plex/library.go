package plex

import (
	"context"
	"net/url"
	"strings"
)

// Library is one library section on a Plex Media Server.
type Library struct {
	Key        string `json:"key"`
	Type       string `json:"type"`
	Title      string `json:"title"`
	Agent      string `json:"agent"`
	Scanner    string `json:"scanner"`
	Language   string `json:"language"`
	UUID       string `json:"uuid"`
	Refreshing bool   `json:"refreshing"`
}

// MediaItem is one movie, show or episode in a library listing.
type MediaItem struct {
	RatingKey        string `json:"ratingKey"`
	Key              string `json:"key"`
	Type             string `json:"type"`
	Title            string `json:"title"`
	GrandparentTitle string `json:"grandparentTitle"`
	ParentTitle      string `json:"parentTitle"`
	Summary          string `json:"summary"`
	Thumb            string `json:"thumb"`
	Index            int    `json:"index"`
	ParentIndex      int    `json:"parentIndex"`
	Year             int    `json:"year"`
	Duration         int    `json:"duration"`
}

// Playlist is one playlist on a Plex Media Server.
type Playlist struct {
	RatingKey    string `json:"ratingKey"`
	Key          string `json:"key"`
	Title        string `json:"title"`
	Summary      string `json:"summary"`
	PlaylistType string `json:"playlistType"`
	Duration     int    `json:"duration"`
	LeafCount    int    `json:"leafCount"`
	Smart        bool   `json:"smart"`
}

// Libraries returns the library sections of the resolved server.
func (c *Client) Libraries(ctx context.Context, accountID, serverQuery string) ([]Library, error) {
	type response struct {
		Directory []Library `json:"Directory"`
	}
	resp, err := container[response](ctx, c, accountID, serverQuery, "/library/sections", nil)
	return resp.Directory, err
}

// OnDeck returns the resolved server's continue-watching list.
func (c *Client) OnDeck(ctx context.Context, accountID, serverQuery string) ([]MediaItem, error) {
	type response struct {
		Metadata []MediaItem `json:"Metadata"`
	}
	resp, err := container[response](ctx, c, accountID, serverQuery, "/library/onDeck", nil)
	return resp.Metadata, err
}

// Playlists returns the playlists on the resolved server.
func (c *Client) Playlists(ctx context.Context, accountID, serverQuery string) ([]Playlist, error) {
	type response struct {
		Metadata []Playlist `json:"Metadata"`
	}
	resp, err := container[response](ctx, c, accountID, serverQuery, "/playlists", nil)
	return resp.Metadata, err
}

// Search searches the resolved server's libraries for query.
func (c *Client) Search(ctx context.Context, accountID, serverQuery, query string) ([]MediaItem, error) {
	type response struct {
		Metadata []MediaItem `json:"Metadata"`
	}
	params := url.Values{"query": {query}}
	resp, err := container[response](ctx, c, accountID, serverQuery, "/search", params)
	return resp.Metadata, err
}

// Scan triggers a rescan of one library section on the resolved server.
func (c *Client) Scan(ctx context.Context, accountID, serverQuery, sectionKey string) error {
	sectionKey = strings.ToLower(strings.TrimSpace(sectionKey))
	_, err := c.Data(ctx, accountID, serverQuery, "/library/sections/"+sectionKey+"/refresh", nil)
	return err
}
