package model

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// ID is the opaque identifier the Users API assigns to a user.
// The API may encode it as a JSON string or a JSON number; both decode into the same textual form.
type ID string

// UnmarshalJSON accepts either a quoted string or a bare number.
func (id *ID) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || bytes.Equal(b, []byte("null")) {
		*id = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*id = ID(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("user id must be a string or number: %w", err)
	}
	*id = ID(n.String())
	return nil
}

func (id ID) String() string { return string(id) }

// User is a read-only copy of a record owned by the Users API.
type User struct {
	ID    ID     `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CreateUserRequest is the body sent when adding a user.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
