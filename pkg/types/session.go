package types

import (
	"encoding/json"
	"errors"
)

// User is the authenticated principal as returned by the backend and
// persisted under the "user" storage key.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
}

// UnmarshalJSON accepts both "id" and the backend's "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	type plain User
	var aux struct {
		plain
		MongoID string `json:"_id"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*u = User(aux.plain)
	if u.ID == "" {
		u.ID = aux.MongoID
	}
	return nil
}

// Session is the single active authenticated context. The zero value means
// logged out.
type Session struct {
	User  User
	Token string
}

// Errors returned by Session.Validate.
var (
	ErrMissingUserID = errors.New("session user id is empty")
	ErrInvalidRole   = errors.New("session role is not admin, agent or customer")
	ErrMissingToken  = errors.New("session token is empty")
)

// Validate reports why a session cannot be used, or nil.
func (s Session) Validate() error {
	switch {
	case s.User.ID == "":
		return ErrMissingUserID
	case !s.User.Role.Valid():
		return ErrInvalidRole
	case s.Token == "":
		return ErrMissingToken
	}
	return nil
}

// UserID is a shorthand for s.User.ID.
func (s Session) UserID() string {
	return s.User.ID
}

// Role is a shorthand for s.User.Role.
func (s Session) Role() Role {
	return s.User.Role
}
