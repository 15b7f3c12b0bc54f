// Package auth implements the cleartext-password authentication table
// (A2): a user→password lookup loaded once at startup from the AUTH
// environment variable (spec.md §6: "formatted as user,pw;user,pw;...").
package auth

import (
	"fmt"
	"strings"
)

// Table is the immutable user→password lookup resolved at startup and
// shared read-only by every accepted connection (spec.md §5).
type Table struct {
	users map[string]string
}

// Parse reads AUTH's `user,pw;user,pw;...` format. A malformed entry
// (missing comma, empty username) is a fatal configuration error — this
// runs once at startup, before any connection is accepted, so failing
// loudly here is preferable to silently dropping a credential.
func Parse(raw string) (*Table, error) {
	users := map[string]string{}
	for _, pair := range strings.Split(raw, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		parts := strings.SplitN(pair, ",", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("invalid AUTH entry %q: expected user,password", pair)
		}
		user := strings.TrimSpace(parts[0])
		password := parts[1]
		if user == "" {
			return nil, fmt.Errorf("invalid AUTH entry %q: empty username", pair)
		}
		users[user] = password
	}
	if len(users) == 0 {
		return nil, fmt.Errorf("AUTH must define at least one user,password pair")
	}
	return &Table{users: users}, nil
}

// Password looks up the expected cleartext password for user. ok is false
// for a missing user (spec.md §6: "a missing user returns
// invalid-credentials"); the wire server never distinguishes a missing
// user from a wrong password to the client.
func (t *Table) Password(user string) (password string, ok bool) {
	password, ok = t.users[user]
	return password, ok
}
