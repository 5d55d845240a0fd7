package plexdir

import "strings"

// Resource is one device registered to the account: a media server, a
// player, or a browser. Resources are discovered via /api/resources,
// independently from the server list.
type Resource struct {
	Name             string       `json:"name"`
	Product          string       `json:"product"`
	ProductVersion   string       `json:"productVersion"`
	Platform         string       `json:"platform"`
	PlatformVersion  string       `json:"platformVersion"`
	Device           string       `json:"device"`
	ClientIdentifier string       `json:"clientIdentifier"`
	PublicAddress    string       `json:"publicAddress"`
	AccessToken      string       `json:"accessToken"`
	Connections      []Connection `json:"connections"`
	Owned            bool         `json:"owned"`
	HTTPSRequired    bool         `json:"httpsRequired"`
	Synced           bool         `json:"synced"`
	Relay            bool         `json:"relay"`
	DNSRebinding     bool         `json:"dnsRebindingProtection"`
	// Presence reports whether the device is currently online. A device
	// without presence can never be a playback target.
	Presence bool `json:"presence"`
	// HasAppropriateConnection is derived at parse time: true when the
	// device is not a browser and a usable playback connection exists.
	HasAppropriateConnection bool `json:"hasAppropriateConnection"`
}

// Connection is one network path to a Resource. Only URI is used to build
// playback command URLs; the remaining fields are kept for display.
type Connection struct {
	Protocol string `json:"protocol"`
	Address  string `json:"address"`
	Port     string `json:"port"`
	URI      string `json:"uri"`
	Local    bool   `json:"local"`
	Relay    bool   `json:"relay"`
}

// browsers don't accept remote playback commands reliably, so they are
// never eligible for connection selection. They stay in the parsed output
// for display.
var browsers = map[string]bool{
	"chrome":  true,
	"edge":    true,
	"firefox": true,
	"ie":      true,
}

// ParseResources parses the body of an /api/resources response, including
// each device's nested connection list in document order.
func ParseResources(body string) ([]Resource, error) {
	if strings.TrimSpace(body) == "" {
		return nil, ErrMalformed
	}
	fragments := blocks(body, "Device")
	resources := make([]Resource, 0, len(fragments))
	for _, fragment := range fragments {
		var resource Resource
		resource.Name, _ = attr(fragment, "name")
		resource.Product, _ = attr(fragment, "product")
		resource.ProductVersion, _ = attr(fragment, "productVersion")
		resource.Platform, _ = attr(fragment, "platform")
		resource.PlatformVersion, _ = attr(fragment, "platformVersion")
		resource.Device, _ = attr(fragment, "device")
		resource.ClientIdentifier, _ = attr(fragment, "clientIdentifier")
		resource.PublicAddress, _ = attr(fragment, "publicAddress")
		resource.AccessToken, _ = attr(fragment, "accessToken")
		resource.Owned = boolAttr(fragment, "owned")
		resource.HTTPSRequired = boolAttr(fragment, "httpsRequired")
		resource.Synced = boolAttr(fragment, "synced")
		resource.Relay = boolAttr(fragment, "relay")
		resource.DNSRebinding = boolAttr(fragment, "dnsRebindingProtection")
		resource.Presence = boolAttr(fragment, "presence")
		for _, conn := range blocks(fragment, "Connection") {
			var connection Connection
			connection.Protocol, _ = attr(conn, "protocol")
			connection.Address, _ = attr(conn, "address")
			connection.Port, _ = attr(conn, "port")
			connection.URI, _ = attr(conn, "uri")
			connection.Local = boolAttr(conn, "local")
			connection.Relay = boolAttr(conn, "relay")
			resource.Connections = append(resource.Connections, connection)
		}
		if !browsers[strings.ToLower(resource.Name)] {
			_, resource.HasAppropriateConnection = resource.AppropriateConnection()
		}
		resources = append(resources, resource)
	}
	return resources, nil
}

// AppropriateConnection selects the connection to use for playback
// control. Remote control needs a non-local path; when more than one
// remains, relay paths are preferred as guaranteed reachable. A single
// non-local candidate is accepted as-is, relay or not.
func (r Resource) AppropriateConnection() (Connection, bool) {
	candidates := make([]Connection, 0, len(r.Connections))
	for _, connection := range r.Connections {
		if !connection.Local {
			candidates = append(candidates, connection)
		}
	}
	if len(candidates) > 1 {
		relayed := candidates[:0]
		for _, connection := range candidates {
			if connection.Relay {
				relayed = append(relayed, connection)
			}
		}
		candidates = relayed
	}
	if len(candidates) == 0 {
		return Connection{}, false
	}
	return candidates[0], true
}
