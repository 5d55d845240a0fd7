// Package testutil provides canned plex.tv and Plex Media Server
// responses for tests.
package testutil

import (
	"net/http"

	"codeberg.org/clambin/go-common/testutils"
)

// WithToken rejects requests that don't carry the expected auth token.
// The sign-in endpoint is exempt: it is how a token is obtained, so it
// cannot carry one.
func WithToken(token string, next http.Handler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if request.URL.Path != "/users/sign_in.json" && request.Header.Get("X-Plex-Token") != token {
			writer.WriteHeader(http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(writer, request)
	}
}

// Token is the auth token embedded in SignInBody.
const Token = "token-00000000000001"

// SignInBody is a /users/sign_in.json response for account id 12345.
const SignInBody = `{"user": {
	"id": 12345,
	"uuid": "uuid-12345",
	"thumb": "https://plex.tv/users/12345/avatar",
	"authToken": "` + Token + `"
}}`

// ServersBody is a /pms/servers response with one owned and one shared
// server.
const ServersBody = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer friendlyName="myPlex" size="2">
  <Server accessToken="server-token-1" name="Home" address="93.184.216.34" port="32400" version="1.40.0.7998" scheme="http" owned="1" machineIdentifier="abc123"/>
  <Server accessToken="server-token-2" name="Home Theater" address="203.0.113.9" port="32400" version="1.40.0.7998" scheme="http" owned="0" sourceTitle="somebody-else" ownerId="67890" machineIdentifier="def456"/>
</MediaContainer>`

// ResourcesBody is an /api/resources response with a controllable
// player, a browser, an offline player, and another account's player.
const ResourcesBody = `<?xml version="1.0" encoding="UTF-8"?>
<MediaContainer size="4">
  <Device name="Living Room" product="Plex for Apple TV" productVersion="8.34" platform="tvOS" clientIdentifier="player-1" owned="1" presence="1" publicAddress="93.184.216.34">
    <Connection protocol="https" address="10.0.0.5" port="32400" uri="https://10-0-0-5.example.plex.direct:32400" local="1" relay="0"/>
    <Connection protocol="https" address="93.184.216.34" port="21324" uri="https://93-184-216-34.example.plex.direct:21324" local="0" relay="0"/>
    <Connection protocol="https" address="93.184.216.34" port="8443" uri="https://relay-1.plex.direct:8443" local="0" relay="1"/>
  </Device>
  <Device name="Chrome" product="Plex Web" productVersion="4.128" platform="Chrome" clientIdentifier="browser-1" owned="1" presence="1" publicAddress="93.184.216.34">
    <Connection protocol="https" address="93.184.216.34" port="32400" uri="https://93-184-216-34.example.plex.direct:32400" local="0" relay="0"/>
  </Device>
  <Device name="Bedroom" product="Plex for Roku" productVersion="6.2" platform="Roku" clientIdentifier="player-2" owned="1" presence="0" publicAddress="93.184.216.34">
    <Connection protocol="https" address="93.184.216.34" port="21325" uri="https://93-184-216-34.example.plex.direct:21325" local="0" relay="0"/>
  </Device>
  <Device name="Neighbor TV" product="Plex for Apple TV" productVersion="8.34" platform="tvOS" clientIdentifier="player-3" owned="0" presence="1" publicAddress="198.51.100.7">
    <Connection protocol="https" address="198.51.100.7" port="21326" uri="https://198-51-100-7.example.plex.direct:21326" local="0" relay="0"/>
  </Device>
</MediaContainer>`

// DevicesBody is a /devices.json device history listing, oldest first.
const DevicesBody = `[
  { "id": 1, "name": "Living Room", "product": "Plex for Apple TV", "productVersion": "8.34", "platform": "tvOS", "clientIdentifier": "player-1", "lastSeenAt": "2026-08-30T18:00:00Z" },
  { "id": 2, "name": "Chrome", "product": "Plex Web", "productVersion": "4.128", "platform": "Chrome", "clientIdentifier": "browser-1", "lastSeenAt": "2026-08-31T09:30:00Z" }
]`

// ignoreQuery drops the query string, so responses match on path alone.
func ignoreQuery(next http.Handler) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		request.URL.RawQuery = ""
		next.ServeHTTP(writer, request)
	}
}

// PlexTV serves the plex.tv endpoints the integration calls.
var PlexTV http.Handler = ignoreQuery(&plexTVResponses)

var plexTVResponses = testutils.TestServer{Responses: map[string]testutils.PathResponse{
	"/users/sign_in.json": {http.MethodPost: testutils.Response{Body: SignInBody, StatusCode: http.StatusCreated}},
	"/pms/servers":        {http.MethodGet: testutils.Response{Body: ServersBody, StatusCode: http.StatusOK}},
	"/api/resources":      {http.MethodGet: testutils.Response{Body: ResourcesBody, StatusCode: http.StatusOK}},
	"/devices.json":       {http.MethodGet: testutils.Response{Body: DevicesBody, StatusCode: http.StatusOK}},
}}

// PMS serves the Plex Media Server data endpoints the integration calls.
var PMS http.Handler = ignoreQuery(&pmsResponses)

var pmsResponses = testutils.TestServer{Responses: map[string]testutils.PathResponse{
	"/status/sessions": {http.MethodGet: testutils.Response{Body: `{ "MediaContainer": {
		"size": 2,
		"Metadata": [
			{ "User": { "title": "foo" }, "Player": { "product": "Plex Web", "state": "playing" }, "grandparentTitle": "series", "parentIndex": 1, "index": 2, "title": "pilot", "type": "episode", "duration": 100, "viewOffset": 25, "Media": [ { "Part": [ { "decision": "directplay" } ] } ] },
			{ "User": { "title": "bar" }, "Player": { "product": "Plex Web", "state": "paused" }, "TranscodeSession": { "throttled": true, "speed": 3.1, "videoDecision": "copy" }, "title": "movie 1", "duration": 100, "viewOffset": 50, "Media": [ { "Part": [ { "decision": "transcode" } ] } ] }
		]
	}}`, StatusCode: http.StatusOK}},
	"/library/sections": {http.MethodGet: testutils.Response{Body: `{ "MediaContainer": {
		"size": 2,
		"Directory": [
			{ "key": "1", "type": "movie", "title": "Movies" },
			{ "key": "2", "type": "show", "title": "Shows" }
		]
	}}`, StatusCode: http.StatusOK}},
	"/library/onDeck": {http.MethodGet: testutils.Response{Body: `{ "MediaContainer": {
		"Metadata": [
			{ "ratingKey": "101", "title": "pilot", "type": "episode", "grandparentTitle": "series", "parentIndex": 1, "index": 1 }
		]
	}}`, StatusCode: http.StatusOK}},
	"/playlists": {http.MethodGet: testutils.Response{Body: `{ "MediaContainer": {
		"Metadata": [
			{ "ratingKey": "201", "key": "/playlists/201/items", "title": "Favorites", "playlistType": "video", "leafCount": 3 }
		]
	}}`, StatusCode: http.StatusOK}},
	"/search": {http.MethodGet: testutils.Response{Body: `{ "MediaContainer": {
		"Metadata": [
			{ "ratingKey": "301", "title": "movie 1", "type": "movie", "year": 2021 }
		]
	}}`, StatusCode: http.StatusOK}},
	"/library/sections/1/refresh": {http.MethodGet: testutils.Response{Body: `{}`, StatusCode: http.StatusOK}},
}}
