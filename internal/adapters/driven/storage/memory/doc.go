// Package memory provides ephemeral in-memory implementations of the
// persistence ports. Used by tests and as the default backend when no data
// directory is configured.
package memory
