// Package common contains shared constants and sentinel errors used across
// scicatalog components.
package common

// AccessTokenCookieName is the cookie (and legacy header) key that carries
// the short-lived access token.
const AccessTokenCookieName = "access_token"

// RefreshTokenCookieName is the cookie key that carries the refresh token.
const RefreshTokenCookieName = "refresh_token"
