// Package feeds builds filtered, sorted and paginated read plans over a
// collection. A Plan is storage-agnostic: the memory store runs it in
// process with Apply, the Postgres store compiles it to SQL.
package feeds

const (
	DefaultPage        = 1
	DefaultPageSize    = 10
	DefaultMaxPageSize = 50
)

// Direction is the sort direction of a plan
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// SortField describes one allow-listed sort key. Field is the stored
// attribute behind the key; Size sorts by the length of an array attribute.
type SortField struct {
	Field string
	Size  bool
}

// Collection is the per-collection configuration a plan is built against.
// Only keys listed in Sortable and Filterable are ever accepted from input.
type Collection struct {
	Sortable         map[string]SortField
	Filterable       map[string]Op
	Name             string
	DefaultSort      string
	DefaultDirection Direction
	TagField         string
	TextFields       []string
	MaxPageSize      int
}

func (c *Collection) maxPageSize() int {
	if c.MaxPageSize <= 0 {
		return DefaultMaxPageSize
	}
	return c.MaxPageSize
}
