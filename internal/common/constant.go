// Package common contains shared constants and sentinel errors used across
// Parallax components.
package common

// AccessTokenHeaderName is the HTTP header used to carry the access token on
// outbound API requests.
const AccessTokenHeaderName = "Authorization"
