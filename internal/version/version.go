package version

// Version is the semantic version of the outboxtest harness. Overridden at
// build time via -ldflags for release builds.
var Version = "0.1.0-dev"
