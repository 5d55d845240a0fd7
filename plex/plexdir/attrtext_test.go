package plexdir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_attr(t *testing.T) {
	tests := []struct {
		name     string
		fragment string
		attr     string
		want     string
		wantOK   bool
	}{
		{
			name:     "present",
			fragment: `name="Home" address="10.0.0.5"`,
			attr:     "address",
			want:     "10.0.0.5",
			wantOK:   true,
		},
		{
			name:     "absent",
			fragment: `name="Home"`,
			attr:     "address",
			wantOK:   false,
		},
		{
			name:     "empty value",
			fragment: `sourceTitle="" owned="1"`,
			attr:     "sourceTitle",
			want:     "",
			wantOK:   true,
		},
		{
			name:     "skips longer attribute with matching tail",
			fragment: `publicAddress="93.184.216.34" address="10.0.0.5"`,
			attr:     "address",
			want:     "10.0.0.5",
			wantOK:   true,
		},
		{
			name:     "tail match only",
			fragment: `publicAddress="93.184.216.34"`,
			attr:     "address",
			wantOK:   false,
		},
		{
			name:     "first occurrence wins",
			fragment: `uri="https://first" uri="https://second"`,
			attr:     "uri",
			want:     "https://first",
			wantOK:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, ok := attr(tt.fragment, tt.attr)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, value)
		})
	}
}

func Test_boolAttr(t *testing.T) {
	fragment := `owned="1" presence="0" relay="yes"`
	assert.True(t, boolAttr(fragment, "owned"))
	assert.False(t, boolAttr(fragment, "presence"))
	assert.False(t, boolAttr(fragment, "relay"))
	assert.False(t, boolAttr(fragment, "synced"))
}

func Test_blocks(t *testing.T) {
	t.Run("self-closing", func(t *testing.T) {
		text := `<MediaContainer size="2">
  <Server name="one" owned="1"/>
  <Server name="two" owned="0"/>
</MediaContainer>`
		got := blocks(text, "Server")
		assert.Equal(t, []string{`name="one" owned="1"`, `name="two" owned="0"`}, got)
	})

	t.Run("container keeps body visible", func(t *testing.T) {
		text := `<MediaContainer>
  <Device name="player">
    <Connection uri="https://a" local="1"/>
    <Connection uri="https://b" local="0"/>
  </Device>
</MediaContainer>`
		devices := blocks(text, "Device")
		assert.Len(t, devices, 1)
		connections := blocks(devices[0], "Connection")
		assert.Len(t, connections, 2)
		uri, _ := attr(connections[1], "uri")
		assert.Equal(t, "https://b", uri)
	})

	t.Run("quoted > does not end the tag", func(t *testing.T) {
		text := `<Server name="a > b" owned="1"/>`
		got := blocks(text, "Server")
		assert.Len(t, got, 1)
		name, _ := attr(got[0], "name")
		assert.Equal(t, "a > b", name)
	})

	t.Run("no matches", func(t *testing.T) {
		assert.Empty(t, blocks(`<MediaContainer size="0"></MediaContainer>`, "Server"))
	})
}
