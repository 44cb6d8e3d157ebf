package reactions

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"Vidtube/internal/core/targets"
	"Vidtube/internal/errs"
)

// Kind is the reaction variant. Like and dislike are mutually exclusive per
// (actor, target) pair.
type Kind string

const (
	KindLike    Kind = "like"
	KindDislike Kind = "dislike"
)

// Valid reports whether k is like or dislike
func (k Kind) Valid() bool {
	return k == KindLike || k == KindDislike
}

// Opposite returns the other variant
func (k Kind) Opposite() Kind {
	if k == KindLike {
		return KindDislike
	}
	return KindLike
}

// ParseKind accepts "like", "likes", "dislike" or "dislikes" in any case
func ParseKind(raw string) (Kind, error) {
	k := Kind(strings.TrimSuffix(strings.ToLower(strings.TrimSpace(raw)), "s"))
	if !k.Valid() {
		return "", errs.Validation("reaction kind must be 'like' or 'dislike'", "kind")
	}
	return k, nil
}

// Reaction is one ledger entry. Target always holds exactly one entity.
type Reaction struct {
	CreatedAt time.Time   `json:"createdAt"`
	Target    targets.Ref `json:"target"`
	Kind      Kind        `json:"kind"`
	ID        uuid.UUID   `json:"id"`
	Actor     uuid.UUID   `json:"actor"`
}

// Action describes what a toggle did
type Action string

const (
	ActionAdded    Action = "added"
	ActionRemoved  Action = "removed"
	ActionSwitched Action = "switched"
)

// ToggleResult is returned by Toggle. Kind is set for added and removed;
// From and To are set for switched.
type ToggleResult struct {
	Target targets.Ref `json:"target"`
	Action Action      `json:"action"`
	Kind   Kind        `json:"kind,omitempty"`
	From   Kind        `json:"from,omitempty"`
	To     Kind        `json:"to,omitempty"`
}

// Counts holds live like and dislike totals for one target
type Counts struct {
	Likes    int `json:"likes"`
	Dislikes int `json:"dislikes"`
}

// Add increments the counter for kind
func (c *Counts) Add(kind Kind) {
	switch kind {
	case KindLike:
		c.Likes++
	case KindDislike:
		c.Dislikes++
	}
}
