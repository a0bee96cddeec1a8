package predictor

import (
	"encoding/json"

	"github.com/google/uuid"
)

// Ref identifies a semester or course in a draft. A persisted ref carries the
// id assigned by storage; a pending ref carries a local id for an entity that
// only exists in the draft.
type Ref struct {
	id      string
	pending bool
}

// Persisted refers to a stored entity.
func Persisted(id string) Ref {
	return Ref{id: id}
}

// Pending refers to an entity created in the draft.
func Pending(local string) Ref {
	return Ref{id: local, pending: true}
}

// NewPending allocates a fresh local ref.
func NewPending() Ref {
	return Pending(uuid.NewString())
}

// ID returns the storage id or the local id.
func (r Ref) ID() string { return r.id }

// IsPending reports whether the entity has not been stored yet.
func (r Ref) IsPending() bool { return r.pending }

// IsZero reports whether the ref is unset.
func (r Ref) IsZero() bool { return r.id == "" }

func (r Ref) String() string {
	if r.pending {
		return "pending:" + r.id
	}
	return r.id
}

type refJSON struct {
	ID      string `json:"id"`
	Pending bool   `json:"pending"`
}

// MarshalJSON encodes the ref as {"id": ..., "pending": ...}.
func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(refJSON{ID: r.id, Pending: r.pending})
}

// UnmarshalJSON decodes the object form written by MarshalJSON.
func (r *Ref) UnmarshalJSON(data []byte) error {
	var raw refJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*r = Ref{id: raw.ID, pending: raw.Pending}
	return nil
}
