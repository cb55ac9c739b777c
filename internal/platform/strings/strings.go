// Package strings holds string checks used by module wiring and SQL writers
package strings

import std "strings"

// MustString returns s, panicking with "<name> is required" when s is blank
func MustString(s, name string) string {
	if std.TrimSpace(s) == "" {
		panic(name + " is required")
	}
	return s
}

// MustPrefix normalizes a route prefix such as "missions/" to "/missions".
// The root path is rejected.
func MustPrefix(s string) string {
	s = "/" + std.Trim(std.TrimSpace(s), "/")
	if s == "/" {
		panic("route prefix is required")
	}
	return s
}

// SQLNull maps blank text to a nil query argument so it is stored as NULL
func SQLNull(s string) any {
	if std.TrimSpace(s) == "" {
		return nil
	}
	return s
}
