package types

import (
	"strings"

	"github.com/google/uuid"
)

// NewID generates a prefixed unique identifier, e.g. "session_<uuid>".
func NewID(prefix string) string {
	id := uuid.New().String()
	if prefix == "" {
		return id
	}
	return prefix + "_" + id
}

// DomainID slugs a domain name into its primary key form.
func DomainID(name string) string {
	return strings.ReplaceAll(strings.ToLower(name), " ", "_")
}
