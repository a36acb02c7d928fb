// Package taskboard carries build metadata for the taskboard module.
package taskboard

// Version is the taskboard release version.
const Version = "0.1.0"
