// Package config reads cyclectl settings from a YAML file and CYCLEKIT_*
// environment variables. Command-line flags are applied on top by the caller.
package config
