package postgres

import (
	"fmt"

	"github.com/google/uuid"
)

// uuidStrings converts ids for pq.Array, which has no native uuid support
func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[i] = id.String()
	}
	return out
}

// parseUUIDs converts a scanned uuid[] column back into ids
func parseUUIDs(raw []string) ([]uuid.UUID, error) {
	out := make([]uuid.UUID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return nil, fmt.Errorf("invalid uuid %q in array column: %w", s, err)
		}
		out = append(out, id)
	}
	return out, nil
}
