// Package plex orchestrates per-account Plex access for a chat
// integration: sign-in, persisted topology, server and player
// resolution by name, data requests against a resolved Plex Media
// Server, and remote playback control.
//
// The package builds on three lower layers: plextv for the public
// plex.tv endpoints, plexdir for the pseudo-XML directory formats, and
// plexstore for the encrypted per-account persistence.
package plex
