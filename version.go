// Package popsolver provides the version information for popsolver.
package popsolver

// Version is the current version of popsolver.
const Version = "0.1.0"

// GetVersion returns the current version string.
func GetVersion() string {
	return Version
}
