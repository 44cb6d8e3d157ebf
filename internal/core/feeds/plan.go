package feeds

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"Vidtube/internal/errs"
)

// RawSpec is the page spec as the transport layer receives it. Every field is
// an unparsed string; Build validates and coerces them.
type RawSpec struct {
	Filters       map[string]string
	Query         string
	SortBy        string
	SortDirection string
	Page          string
	PageSize      string
}

// Plan is a validated read plan for one collection
type Plan struct {
	Collection *Collection
	SortKey    string
	Sort       SortField
	Direction  Direction
	Filters    []Filter
	Page       int
	PageSize   int
}

// Offset is the number of rows skipped before the current page. It
// saturates instead of overflowing for plans not built by Build.
func (p *Plan) Offset() int {
	if p.Page < 1 || p.PageSize < 1 {
		return 0
	}
	if p.Page-1 > (math.MaxInt-p.PageSize)/p.PageSize {
		return math.MaxInt - p.PageSize
	}
	return (p.Page - 1) * p.PageSize
}

// Limit is the number of rows on one page
func (p *Plan) Limit() int {
	return p.PageSize
}

// Build validates raw against the collection and returns a plan. scope
// filters (owner, parent video, ...) are always ANDed in and cannot be
// overridden by raw input.
//
// sortBy outside the collection's allow-list and sortDirection other than
// asc/desc fail with ValidationError. page and pageSize are never rejected:
// non-numeric or non-positive values fall back to the defaults and pageSize
// is capped at the collection maximum. page is capped so the row offset
// never overflows.
func Build(c *Collection, raw RawSpec, scope ...Filter) (*Plan, error) {
	if c == nil {
		return nil, errs.Internal("build feed plan", fmt.Errorf("nil collection"))
	}

	sortKey := strings.TrimSpace(raw.SortBy)
	if sortKey == "" {
		sortKey = c.DefaultSort
	}
	field, ok := c.Sortable[sortKey]
	if !ok {
		return nil, errs.Validation(
			fmt.Sprintf("cannot sort %s by %q, allowed: %s", c.Name, sortKey, strings.Join(c.sortKeys(), ", ")),
			"sortBy")
	}

	dir := c.DefaultDirection
	if dir == "" {
		dir = Desc
	}
	if d := strings.ToLower(strings.TrimSpace(raw.SortDirection)); d != "" {
		switch Direction(d) {
		case Asc, Desc:
			dir = Direction(d)
		default:
			return nil, errs.Validation("sortDirection must be 'asc' or 'desc'", "sortDirection")
		}
	}

	filters := make([]Filter, 0, len(scope)+len(raw.Filters)+1)
	filters = append(filters, scope...)

	keys := make([]string, 0, len(raw.Filters))
	for k := range raw.Filters {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		v := strings.TrimSpace(raw.Filters[k])
		if v == "" {
			continue
		}
		op, ok := c.Filterable[k]
		if !ok {
			return nil, errs.Validation(fmt.Sprintf("cannot filter %s by %q", c.Name, k), k)
		}
		filters = append(filters, Filter{Field: k, Op: op, Value: normalize(op, v)})
	}

	if q := strings.TrimSpace(raw.Query); q != "" && (len(c.TextFields) > 0 || c.TagField != "") {
		filters = append(filters, TextQuery(c, q))
	}

	size := positiveOr(raw.PageSize, DefaultPageSize)
	if limit := c.maxPageSize(); size > limit {
		size = limit
	}

	// Keep Offset()+Limit() inside int for absurdly large page numbers
	page := positiveOr(raw.Page, DefaultPage)
	if maxPage := math.MaxInt / size; page > maxPage {
		page = maxPage
	}

	return &Plan{
		Collection: c,
		SortKey:    sortKey,
		Sort:       field,
		Direction:  dir,
		Filters:    filters,
		Page:       page,
		PageSize:   size,
	}, nil
}

func (c *Collection) sortKeys() []string {
	keys := make([]string, 0, len(c.Sortable))
	for k := range c.Sortable {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func normalize(op Op, v string) string {
	if op == OpHasTag {
		return strings.ToLower(v)
	}
	return v
}

// positiveOr parses raw as a positive integer, falling back to def
func positiveOr(raw string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 1 {
		return def
	}
	return n
}
