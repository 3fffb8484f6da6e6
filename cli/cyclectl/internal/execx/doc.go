// Package execx runs host binaries and captures their output.
//
// Set CYCLEKIT_DEBUG=1 to print every executed command to stderr.
package execx
