// Package types defines the Store interface, the task and user entities,
// filter and statistics value types, and the standard errors shared by the
// taskboard packages.
package types
