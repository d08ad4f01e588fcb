// Package idgen produces the identifiers used across colorpaps: UUIDv7,
// time-sortable, with a short type prefix ("art_", "evt_") so an ID alone
// says what table it belongs to.
package idgen

import "github.com/google/uuid"

// Generator produces unique string identifiers. Constructors accept one so
// tests can pin IDs.
type Generator func() string

// UUIDv7 returns a Generator producing RFC 9562 UUID v7 strings.
func UUIDv7() Generator {
	return func() string {
		return uuid.Must(uuid.NewV7()).String()
	}
}

// Prefixed wraps a Generator and prepends a fixed prefix to every ID.
func Prefixed(prefix string, gen Generator) Generator {
	return func() string {
		return prefix + gen()
	}
}

// Default is the project default: bare UUIDv7.
var Default Generator = UUIDv7()

// New produces an ID using the Default generator.
func New() string {
	return Default()
}
