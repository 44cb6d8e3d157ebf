package feeds

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Row is a document the in-process executor can read. Value returns the
// stored attribute named by a filter or sort field: string, bool, int,
// int64, float64, time.Time, uuid.UUID, []string or []uuid.UUID.
type Row interface {
	RowID() uuid.UUID
	Value(field string) any
}

// Apply filters, sorts and slices rows according to the plan. It returns the
// page items and the total number of matching rows. rows is not modified.
func Apply[T Row](rows []T, p *Plan) ([]T, int) {
	matched := make([]T, 0, len(rows))
	for _, r := range rows {
		if p.Match(r) {
			matched = append(matched, r)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return p.Less(matched[i], matched[j])
	})

	total := len(matched)
	start := p.Offset()
	if start < 0 || start >= total {
		return []T{}, total
	}
	end := start + p.Limit()
	if end > total || end < start {
		end = total
	}
	return matched[start:end], total
}

// Match reports whether r passes every filter of the plan
func (p *Plan) Match(r Row) bool {
	for _, f := range p.Filters {
		if !matchFilter(f, r) {
			return false
		}
	}
	return true
}

// Less orders rows by (sort key, row id), both in the plan direction, so
// rows sharing a sort value still have one reproducible order
func (p *Plan) Less(a, b Row) bool {
	var c int
	if p.Sort.Size {
		c = compareInts(size(a.Value(p.Sort.Field)), size(b.Value(p.Sort.Field)))
	} else {
		c = compareValues(a.Value(p.Sort.Field), b.Value(p.Sort.Field))
	}
	if c == 0 {
		c = strings.Compare(a.RowID().String(), b.RowID().String())
	}
	if p.Direction == Desc {
		return c > 0
	}
	return c < 0
}

func matchFilter(f Filter, r Row) bool {
	if f.IsAny() {
		for _, sub := range f.Any {
			if matchFilter(sub, r) {
				return true
			}
		}
		return false
	}

	v := r.Value(f.Field)
	switch f.Op {
	case OpEq:
		return strings.EqualFold(stringify(v), f.Value)
	case OpContains:
		return strings.Contains(strings.ToLower(stringify(v)), strings.ToLower(f.Value))
	case OpHasTag:
		for _, t := range stringSlice(v) {
			if strings.EqualFold(t, f.Value) {
				return true
			}
		}
	case OpTagContains:
		needle := strings.ToLower(f.Value)
		for _, t := range stringSlice(v) {
			if strings.Contains(strings.ToLower(t), needle) {
				return true
			}
		}
	}
	return false
}

func stringify(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case uuid.UUID:
		return t.String()
	default:
		return fmt.Sprint(t)
	}
}

func stringSlice(v any) []string {
	switch t := v.(type) {
	case []string:
		return t
	case []uuid.UUID:
		out := make([]string, len(t))
		for i, id := range t {
			out[i] = id.String()
		}
		return out
	}
	return nil
}

func size(v any) int {
	switch t := v.(type) {
	case []string:
		return len(t)
	case []uuid.UUID:
		return len(t)
	case int:
		return t
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

func compareValues(a, b any) int {
	switch x := a.(type) {
	case time.Time:
		y, _ := b.(time.Time)
		return x.Compare(y)
	case int:
		y, _ := b.(int)
		return compareInts(x, y)
	case int64:
		y, _ := b.(int64)
		return compareInts(int(x), int(y))
	case float64:
		y, _ := b.(float64)
		switch {
		case x < y:
			return -1
		case x > y:
			return 1
		}
		return 0
	case bool:
		y, _ := b.(bool)
		if x == y {
			return 0
		}
		if !x {
			return -1
		}
		return 1
	case uuid.UUID:
		y, _ := b.(uuid.UUID)
		return strings.Compare(x.String(), y.String())
	}
	return strings.Compare(strings.ToLower(stringify(a)), strings.ToLower(stringify(b)))
}
