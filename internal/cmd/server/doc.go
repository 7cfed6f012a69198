// Package serverrun boots the server process: storage, logging, and the
// HTTP listener, with signal-driven shutdown.
package serverrun
