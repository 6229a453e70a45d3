// Package google provides OAuth2 authentication and token management for the
// Google Calendar API.
//
// Client credentials come from a credentials.json downloaded from the Google
// Cloud console (an "installed" or "web" OAuth client). The first setup runs
// the installed-app loopback flow; the resulting token is stored as JSON and
// refreshed tokens are written back.
//
// The TokenProvider interface lets commands obtain an authenticated HTTP
// client without knowing where the token lives.
package google
