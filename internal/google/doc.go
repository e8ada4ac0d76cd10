// Package google handles OAuth2 authentication for the Google Docs API.
//
// The package supports multiple named accounts; each account's token is
// cached on disk under the user cache directory with 0600 permissions so
// that a sync run after the first authorization needs no interaction.
package google
