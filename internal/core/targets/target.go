// Package targets models the entity a reaction points at as a tagged union
// and resolves raw (kind, id) request input into a validated reference.
package targets

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"Vidtube/internal/errs"
)

// Kind names the entity type of a target.
type Kind string

const (
	KindVideo   Kind = "video"
	KindComment Kind = "comment"
	KindTweet   Kind = "tweet"
)

// Valid reports whether k is one of the known target kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindVideo, KindComment, KindTweet:
		return true
	}
	return false
}

// Ref references exactly one video, comment or tweet. The fields are
// unexported so a Ref can only be built through Video, Comment, Tweet or
// Parse; the zero value is never a valid target.
type Ref struct {
	kind Kind
	id   uuid.UUID
}

func Video(id uuid.UUID) Ref { return Ref{kind: KindVideo, id: id} }
func Comment(id uuid.UUID) Ref { return Ref{kind: KindComment, id: id} }
func Tweet(id uuid.UUID) Ref { return Ref{kind: KindTweet, id: id} }

// New builds a Ref from a kind and id, rejecting unknown kinds and nil ids.
func New(kind Kind, id uuid.UUID) (Ref, error) {
	if !kind.Valid() {
		return Ref{}, errs.Validation(fmt.Sprintf("unknown target kind %q", kind), "targetKind")
	}
	if id == uuid.Nil {
		return Ref{}, errs.Validation("target id is required", "targetId")
	}
	return Ref{kind: kind, id: id}, nil
}

func (r Ref) Kind() Kind { return r.kind }
func (r Ref) ID() uuid.UUID { return r.id }
func (r Ref) IsZero() bool { return r.kind == "" || r.id == uuid.Nil }
func (r Ref) IsVideo() bool { return r.kind == KindVideo }
func (r Ref) String() string { return string(r.kind) + ":" + r.id.String() }

type refJSON struct {
	Kind Kind      `json:"kind"`
	ID   uuid.UUID `json:"id"`
}

func (r Ref) MarshalJSON() ([]byte, error) {
	return json.Marshal(refJSON{Kind: r.kind, ID: r.id})
}

func (r *Ref) UnmarshalJSON(data []byte) error {
	var raw refJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ref, err := New(raw.Kind, raw.ID)
	if err != nil {
		return err
	}
	*r = ref
	return nil
}

// ParseKind accepts the kind in any case, singular or plural.
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "s"))
	if !k.Valid() {
		return "", errs.Validation(fmt.Sprintf("unknown target kind %q", raw), "targetKind")
	}
	return k, nil
}

// ParseID parses an entity identifier. field names the request parameter in
// the error so clients can tell which id was malformed.
func ParseID(field, raw string) (uuid.UUID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return uuid.Nil, errs.Validation(field+" is required", field)
	}
	id, err := uuid.Parse(raw)
	if err != nil || id == uuid.Nil {
		return uuid.Nil, errs.Validation("invalid "+field, field)
	}
	return id, nil
}

// Parse validates raw kind and id without touching the store.
func Parse(rawKind, rawID string) (Ref, error) {
	kind, err := ParseKind(rawKind)
	if err != nil {
		return Ref{}, err
	}
	id, err := ParseID(string(kind)+"Id", rawID)
	if err != nil {
		return Ref{}, err
	}
	return Ref{kind: kind, id: id}, nil
}
