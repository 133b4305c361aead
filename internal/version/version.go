// Package version provides the application version.
package version

// Version is the application version. Release builds override it with
// ldflags.
var Version = "0.1.0"
