// Package runtime wires storage, configuration, and the domain facades
// into a single-node instance handle.
package runtime
