// Package client implements the CLI command groups that talk to a running
// server over its HTTP API.
package client
