// Package version holds the application version string, overridable at build
// time with -ldflags "-X ...".
package version

// Version is the application version.
var Version = "0.3.0"
