package plex

import (
	"errors"
	"net/url"

	"github.com/chatplex/plexbot/plex/plexdir"
)

const webAppURL = "https://app.plex.tv/desktop"

// AccountLink points a user at the Plex web app, where they can find
// their account details and servers.
const AccountLink = webAppURL

// DeepLink returns a web app link to a media item on a server. Links
// are addressed by machine identifier, so servers parsed from a
// directory that omits it cannot be linked to.
func DeepLink(server plexdir.Server, key string) (string, error) {
	if server.MachineID == "" {
		return "", errors.New("server has no machine identifier")
	}
	return webAppURL + "#!/server/" + server.MachineID + "/details?key=" + url.QueryEscape(key), nil
}
