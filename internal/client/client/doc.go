// Package client contains the DevConnector API client used by the CLI.
//
// # Overview
//
// Client is the transport-agnostic contract (Register, Login, Me) and
// HTTPClient is its REST implementation. HTTPClient keeps the token returned
// by Register or Login and sends it as "Authorization: Bearer <token>" on
// protected calls.
//
// # Error Handling
//
// Transport failures map to ErrUnavailable and a 401 from Me to
// ErrUnauthorized. Any other non-2xx answer, including a rejected login,
// becomes an *APIError carrying the server's messages. Callers match with errors.Is / errors.As.
package client
