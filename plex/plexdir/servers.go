package plexdir

import (
	"errors"
	"strconv"
	"strings"
)

// ErrMalformed indicates a directory listing could not be interpreted at
// all (e.g. an empty body). It is a reportable condition, not a fault.
var ErrMalformed = errors.New("malformed directory data")

// Server is one Plex Media Server authorized on the account. The set is
// replaced wholesale on every successful sign-in.
type Server struct {
	Name        string `json:"name"`
	Address     string `json:"address"`
	Scheme      string `json:"scheme"`
	AccessToken string `json:"accessToken"`
	Version     string `json:"version"`
	// SourceTitle names the server's true owner. Only meaningful when
	// Owned is false; the viewer is the owner otherwise.
	SourceTitle string `json:"sourceTitle"`
	OwnerID     string `json:"ownerId"`
	// MachineID is the stable identifier used to build Plex Web deep
	// links. A record without one cannot be linked to.
	MachineID string `json:"machineId"`
	Port      int    `json:"port"`
	Owned     bool   `json:"owned"`
}

// URL returns the server's base URL.
func (s Server) URL() string {
	return s.Scheme + "://" + s.Address + ":" + strconv.Itoa(s.Port)
}

// ParseServers parses the body of a /pms/servers response. A field missing
// from a <Server/> entry yields its zero value; the record is still
// emitted. Records without a name are naturally unreachable by name
// matching downstream.
func ParseServers(body string) ([]Server, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrMalformed
	}
	fragments := blocks(body, "Server")
	servers := make([]Server, 0, len(fragments))
	for _, fragment := range fragments {
		var server Server
		server.Name, _ = attr(fragment, "name")
		server.Address, _ = attr(fragment, "address")
		if port, ok := attr(fragment, "port"); ok {
			server.Port, _ = strconv.Atoi(port)
		}
		server.Scheme, _ = attr(fragment, "scheme")
		server.AccessToken, _ = attr(fragment, "accessToken")
		server.Version, _ = attr(fragment, "version")
		server.SourceTitle, _ = attr(fragment, "sourceTitle")
		server.OwnerID, _ = attr(fragment, "ownerId")
		// plex.tv emits machineIdentifier; the persisted JSON shape has
		// always called it machineId, so accept both on the way in.
		if machineID, ok := attr(fragment, "machineIdentifier"); ok {
			server.MachineID = machineID
		} else {
			server.MachineID, _ = attr(fragment, "machineId")
		}
		server.Owned = boolAttr(fragment, "owned")
		servers = append(servers, server)
	}
	return servers, nil
}
