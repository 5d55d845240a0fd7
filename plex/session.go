package plex

import (
	"context"
	"fmt"
	"strings"

	"codeberg.org/clambin/go-common/set"
)

// Sessions returns the streams currently playing on the resolved server.
func (c *Client) Sessions(ctx context.Context, accountID, serverQuery string) ([]Session, error) {
	type response struct {
		Metadata []Session `json:"Metadata"`
		Size     int       `json:"size"`
	}
	resp, err := container[response](ctx, c, accountID, serverQuery, "/status/sessions", nil)
	return resp.Metadata, err
}

// Session is one active stream on a Plex Media Server.
type Session struct {
	GrandparentTitle string           `json:"grandparentTitle"`
	ParentTitle      string           `json:"parentTitle"`
	Title            string           `json:"title"`
	Type             string           `json:"type"`
	User             SessionUser      `json:"User"`
	Player           SessionPlayer    `json:"Player"`
	TranscodeSession SessionTranscode `json:"TranscodeSession"`
	Media            []SessionMedia   `json:"Media"`
	Index            int              `json:"index"`
	ParentIndex      int              `json:"parentIndex"`
	Duration         int              `json:"duration"`
	ViewOffset       int              `json:"viewOffset"`
}

// SessionUser identifies the account streaming a Session.
type SessionUser struct {
	ID    string `json:"id"`
	Thumb string `json:"thumb"`
	Title string `json:"title"`
}

// SessionPlayer identifies the device playing a Session.
type SessionPlayer struct {
	Device            string `json:"device"`
	MachineIdentifier string `json:"machineIdentifier"`
	Product           string `json:"product"`
	State             string `json:"state"`
	Title             string `json:"title"`
	Local             bool   `json:"local"`
	Relayed           bool   `json:"relayed"`
}

// SessionTranscode describes the transcoder working on a Session. All
// fields are blank when the session plays without transcoding.
type SessionTranscode struct {
	VideoDecision string  `json:"videoDecision"`
	AudioDecision string  `json:"audioDecision"`
	Progress      float64 `json:"progress"`
	Speed         float64 `json:"speed"`
	Throttled     bool    `json:"throttled"`
}

// SessionMedia is one media item in a Session.
type SessionMedia struct {
	VideoResolution string        `json:"videoResolution"`
	Part            []SessionPart `json:"Part"`
}

// SessionPart is one part of a Session's media item.
type SessionPart struct {
	Decision string `json:"decision"`
}

// DisplayTitle returns the title of the movie or tv episode being
// played. For tv episodes, it includes the show, season and episode.
func (s Session) DisplayTitle() string {
	if s.Type == "episode" {
		return fmt.Sprintf("%s - S%02dE%02d - %s", s.GrandparentTitle, s.ParentIndex, s.Index, s.Title)
	}
	return s.Title
}

// Progress returns how much of the session has been watched, as a
// fraction between 0.0 and 1.0.
func (s Session) Progress() float64 {
	return float64(s.ViewOffset) / float64(s.Duration)
}

// VideoMode returns the session's video mode (transcode, directplay, etc).
func (s Session) VideoMode() string {
	decisions := set.New[string]()
	for _, media := range s.Media {
		for _, part := range media.Part {
			decision := part.Decision
			if decision == "transcode" {
				decision = s.TranscodeSession.VideoDecision
			}
			if decision == "" {
				decision = "unknown"
			}
			decisions.Add(decision)
		}
	}
	modes := decisions.ListOrdered()
	if len(modes) == 0 {
		return "unknown"
	}
	return strings.Join(modes, ",")
}
