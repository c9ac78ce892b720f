// Package common contains shared constants, sentinel errors and small helpers
// used by both the client and the development API server.
package common

// AuthorizationHeaderName is the HTTP header carrying the bearer token on
// expense requests.
const AuthorizationHeaderName = "Authorization"

// BearerPrefix precedes the token inside the Authorization header value.
const BearerPrefix = "Bearer "

// BiometricsEnabledMarker is the only preference value that counts as
// "biometrics enabled". Anything else, including absence, means disabled.
const BiometricsEnabledMarker = "true"
