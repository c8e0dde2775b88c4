// Package cli provides the interactive DevConnector command-line client.
//
// It wires configuration and the REST API client into a small REPL:
// register, login, me (show the authenticated profile) and logout. The token
// returned by register or login lives only in memory for the session.
//
// The REPL is started via App.Run(ctx), which blocks until the user exits.
package cli
