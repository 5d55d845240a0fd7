package plexdir_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chatplex/plexbot/plex/plexdir"
)

const serversBody = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer friendlyName="myPlex" identifier="com.plexapp.plugins.myplex" size="2">
  <Server accessToken="server-token-1" name="Home" address="93.184.216.34" port="32400" version="1.40.0.7998" scheme="http" host="93.184.216.34" localAddresses="10.0.0.5" machineIdentifier="abc123" owned="1"/>
  <Server accessToken="server-token-2" name="Cabin" address="203.0.113.9" port="32401" version="1.40.0.7998" scheme="https" machineIdentifier="def456" owned="0" sourceTitle="somebody-else" ownerId="67890"/>
</MediaContainer>`

func TestParseServers(t *testing.T) {
	servers, err := plexdir.ParseServers(serversBody)
	require.NoError(t, err)
	assert.Equal(t, []plexdir.Server{
		{
			Name:        "Home",
			Address:     "93.184.216.34",
			Port:        32400,
			Scheme:      "http",
			AccessToken: "server-token-1",
			Version:     "1.40.0.7998",
			MachineID:   "abc123",
			Owned:       true,
		},
		{
			Name:        "Cabin",
			Address:     "203.0.113.9",
			Port:        32401,
			Scheme:      "https",
			AccessToken: "server-token-2",
			Version:     "1.40.0.7998",
			SourceTitle: "somebody-else",
			OwnerID:     "67890",
			MachineID:   "def456",
			Owned:       false,
		},
	}, servers)
}

func TestParseServers_Repeatable(t *testing.T) {
	first, err := plexdir.ParseServers(serversBody)
	require.NoError(t, err)
	second, err := plexdir.ParseServers(serversBody)
	require.NoError(t, err)

	// the parser holds no state; the same text always yields the same
	// records
	assert.Equal(t, first, second)
}

func TestParseServers_Errors(t *testing.T) {
	t.Run("empty body", func(t *testing.T) {
		_, err := plexdir.ParseServers("")
		assert.ErrorIs(t, err, plexdir.ErrMalformed)
	})

	t.Run("blank body", func(t *testing.T) {
		_, err := plexdir.ParseServers("  \n\t")
		assert.ErrorIs(t, err, plexdir.ErrMalformed)
	})

	t.Run("no server entries", func(t *testing.T) {
		servers, err := plexdir.ParseServers(`<MediaContainer size="0"></MediaContainer>`)
		assert.NoError(t, err)
		assert.Empty(t, servers)
	})
}

func TestParseServers_PartialRecords(t *testing.T) {
	body := `<MediaContainer size="2">
  <Server address="10.0.0.5" port="32400" scheme="http" owned="1"/>
  <Server name="NoPort" address="10.0.0.6" scheme="http" machineId="ghi789"/>
</MediaContainer>`
	servers, err := plexdir.ParseServers(body)
	require.NoError(t, err)
	require.Len(t, servers, 2)

	// nameless records are kept; they're just unreachable by name
	assert.Empty(t, servers[0].Name)
	assert.True(t, servers[0].Owned)

	// older captures spell the identifier machineId
	assert.Equal(t, "ghi789", servers[1].MachineID)
	assert.Zero(t, servers[1].Port)
}

func TestServer_URL(t *testing.T) {
	server := plexdir.Server{Scheme: "http", Address: "10.0.0.5", Port: 32400}
	assert.Equal(t, "http://10.0.0.5:32400", server.URL())
}
