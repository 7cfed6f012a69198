// Package httpserver exposes the logging service over a JSON HTTP API,
// including a Server-Sent Events tail endpoint for live reads.
package httpserver
