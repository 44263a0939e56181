// Package revatlas holds build information for the revatlas binary.
package revatlas

var (
	// Version of revatlas, set by build flags.
	Version = "v0.1.0"
	// Build timestamp, set by build flags.
	Build = "n/a"
)
