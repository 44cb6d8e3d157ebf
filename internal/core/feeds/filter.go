package feeds

import (
	"fmt"
	"strings"
)

// Op is a filter predicate
type Op string

const (
	// OpEq matches when the field equals the value (case-insensitive for text)
	OpEq Op = "eq"
	// OpContains is a case-insensitive substring match on a text field
	OpContains Op = "contains"
	// OpHasTag matches when the array field holds the value
	OpHasTag Op = "hasTag"
	// OpTagContains matches when any element of the array field contains the value
	OpTagContains Op = "tagContains"
)

// Filter is one predicate. When Any is set the filter matches if any of its
// sub-filters match, and Field/Op/Value are ignored. Filters in a plan are
// combined with AND.
type Filter struct {
	Field string
	Op    Op
	Value string
	Any   []Filter
}

// Eq builds an equality filter. value is formatted with fmt.Sprint so ids,
// booleans and strings can be passed directly.
func Eq(field string, value any) Filter {
	return Filter{Field: field, Op: OpEq, Value: fmt.Sprint(value)}
}

func Contains(field, value string) Filter {
	return Filter{Field: field, Op: OpContains, Value: value}
}

func HasTag(field, tag string) Filter {
	return Filter{Field: field, Op: OpHasTag, Value: strings.ToLower(tag)}
}

// AnyOf matches when at least one of filters matches
func AnyOf(filters ...Filter) Filter {
	return Filter{Any: filters}
}

// TextQuery ORs a case-insensitive substring match across the collection's
// text fields and tags
func TextQuery(c *Collection, q string) Filter {
	alts := make([]Filter, 0, len(c.TextFields)+1)
	for _, f := range c.TextFields {
		alts = append(alts, Contains(f, q))
	}
	if c.TagField != "" {
		alts = append(alts, Filter{Field: c.TagField, Op: OpTagContains, Value: q})
	}
	return AnyOf(alts...)
}

// IsAny reports whether f is a disjunction
func (f Filter) IsAny() bool {
	return len(f.Any) > 0
}
