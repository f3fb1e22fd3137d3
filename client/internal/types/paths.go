package types

import (
	"net/url"
	"strings"
)

// EscapeSegment percent-encodes a user supplied name so it occupies exactly
// one path segment. Request paths and generated resource URLs must both go
// through here. The dot segments "." and ".." are encoded too, since path
// normalisation would otherwise resolve them against the collection.
func EscapeSegment(name string) string {
	switch name {
	case ".":
		return "%2E"
	case "..":
		return "%2E%2E"
	}
	return url.PathEscape(name)
}

// ResourcePath joins a collection path and an escaped name, e.g.
// ResourcePath("/images", "a b.png") == "/images/a%20b.png".
func ResourcePath(collection, name string, suffix ...string) string {
	var b strings.Builder
	b.WriteString(collection)
	b.WriteByte('/')
	b.WriteString(EscapeSegment(name))
	for _, s := range suffix {
		b.WriteByte('/')
		b.WriteString(s)
	}
	return b.String()
}
