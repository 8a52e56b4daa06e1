package credential

import (
	"fmt"
	"strings"
	"time"
)

// Record is one stored website/username/password triple.
type Record struct {
	ID        int64
	Website   string
	Username  string
	Password  string
	CreatedAt time.Time
}

// matches reports whether r holds the same website and username as the
// given pair under case-insensitive comparison.
func (r Record) matches(website, username string) bool {
	return strings.EqualFold(r.Website, website) && strings.EqualFold(r.Username, username)
}

// Field names a copyable attribute of a Record.
type Field string

const (
	FieldWebsite  Field = "website"
	FieldUsername Field = "username"
	FieldPassword Field = "password"
)

// ParseField converts a user-supplied name into a Field.
func ParseField(name string) (Field, error) {
	switch f := Field(strings.ToLower(strings.TrimSpace(name))); f {
	case FieldWebsite, FieldUsername, FieldPassword:
		return f, nil
	default:
		return "", fmt.Errorf("unknown field %q (want website, username or password)", name)
	}
}

// Value returns the attribute of r named by f.
func (r Record) Value(f Field) string {
	switch f {
	case FieldWebsite:
		return r.Website
	case FieldUsername:
		return r.Username
	case FieldPassword:
		return r.Password
	}
	return ""
}
