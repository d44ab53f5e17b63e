// Package common contains shared constants and sentinel errors used across
// carbontrack components.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer access token.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token in the Authorization header.
const BearerPrefix = "Bearer "

// DateLayout is the calendar date format used on the wire and in series output.
const DateLayout = "2006-01-02"
