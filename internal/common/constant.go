// Package common contains shared constants and sentinel errors used across
// DevConnector components.
package common

const (
	// AuthorizationHeaderName carries "Bearer <token>" on protected requests.
	AuthorizationHeaderName = "Authorization"

	// BearerScheme is the only scheme accepted in the Authorization header.
	BearerScheme = "Bearer"

	// LegacyTokenHeaderName is the header older clients send the raw token in.
	LegacyTokenHeaderName = "x-auth-token"
)
