package types

import (
	"encoding/json"
	"fmt"
)

// Ref points at a user. The backend sends it either as a bare id string or
// as an expanded object, so it must go through RefID before comparison.
type Ref struct {
	ID    string `json:"_id"`
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// RefID normalizes any reference shape to its id: a string, a Ref or *Ref,
// or a decoded JSON object with "_id" or "id". Anything else yields "".
func RefID(v any) string {
	switch r := v.(type) {
	case nil:
		return ""
	case string:
		return r
	case Ref:
		return r.ID
	case *Ref:
		if r == nil {
			return ""
		}
		return r.ID
	case map[string]any:
		if id, ok := r["_id"].(string); ok && id != "" {
			return id
		}
		if id, ok := r["id"].(string); ok {
			return id
		}
	}
	return ""
}

// NewRef builds a Ref from any reference shape accepted by RefID.
func NewRef(v any) Ref {
	switch r := v.(type) {
	case Ref:
		return r
	case *Ref:
		if r != nil {
			return *r
		}
	case map[string]any:
		ref := Ref{ID: RefID(r)}
		ref.Name, _ = r["name"].(string)
		ref.Email, _ = r["email"].(string)
		return ref
	}
	return Ref{ID: RefID(v)}
}

// IsZero reports whether the reference is empty.
func (r Ref) IsZero() bool {
	return r.ID == ""
}

// UnmarshalJSON accepts a bare id string or an object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	switch raw.(type) {
	case nil, string, map[string]any:
		*r = NewRef(raw)
		return nil
	}
	return fmt.Errorf("reference must be a string or an object, got %s", data)
}

// MarshalJSON writes a bare id unless the reference carries details.
func (r Ref) MarshalJSON() ([]byte, error) {
	if r.Name == "" && r.Email == "" {
		return json.Marshal(r.ID)
	}
	type plain Ref
	return json.Marshal(plain(r))
}
