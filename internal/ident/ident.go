// Package ident generates unique identifiers for signals, gates, and
// networks. IDs are opaque strings; callers must not depend on their format.
package ident

import "github.com/google/uuid"

// New returns a new unique identifier.
func New() string {
	return uuid.NewString()
}

// WithPrefix returns a new unique identifier with a readable prefix,
// useful for debug output where the bare UUID carries no context.
func WithPrefix(prefix string) string {
	return prefix + "_" + uuid.NewString()
}
