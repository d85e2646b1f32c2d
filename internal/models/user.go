package models

import (
	"bytes"
	"fmt"
	"strings"

	json "github.com/goccy/go-json"
	"github.com/spf13/cast"
)

// UserID is the canonical identifier of a collaborator. External sources send
// it either as a JSON string or as a bare number; both decode to the same value.
type UserID string

func (u UserID) String() string {
	return string(u)
}

// UnmarshalJSON accepts "123", 123 and 123.0 alike.
func (u *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*u = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*u = CanonicalUserID(s)
		return nil
	}
	id := CanonicalUserID(string(data))
	if !isDecimal(string(id)) {
		return fmt.Errorf("user id %s: not an integer", data)
	}
	*u = id
	return nil
}

// CanonicalUserID normalizes any key-like value into a UserID: surrounding
// whitespace is dropped and integral numbers lose a trailing ".0".
func CanonicalUserID(v any) UserID {
	s := strings.TrimSpace(cast.ToString(v))
	if i := strings.IndexByte(s, '.'); i > 0 && isDecimal(s[:i]) && strings.Trim(s[i+1:], "0") == "" {
		s = s[:i]
	}
	return UserID(s)
}

func isDecimal(s string) bool {
	s = strings.TrimPrefix(s, "-")
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
