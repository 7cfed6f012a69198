// Package version exposes the build version reported by the CLI and the
// client API.
package version

// Version is the release version, overridable at build time via
// -ldflags "-X github.com/pluglog/pluglog/pkg/version.Version=...".
var Version = "0.1.0-dev"
