package feeds

import (
	"fmt"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Vidtube/internal/errs"
)

type doc struct {
	createdAt   time.Time
	title       string
	description string
	tags        []string
	likes       []uuid.UUID
	id          uuid.UUID
	owner       uuid.UUID
	views       int
}

func (d doc) RowID() uuid.UUID { return d.id }

func (d doc) Value(field string) any {
	switch field {
	case "createdAt":
		return d.createdAt
	case "title":
		return d.title
	case "description":
		return d.description
	case "tags":
		return d.tags
	case "likes":
		return d.likes
	case "owner":
		return d.owner
	case "views":
		return d.views
	}
	return nil
}

var testVideos = &Collection{
	Name: "videos",
	Sortable: map[string]SortField{
		"createdAt": {Field: "createdAt"},
		"views":     {Field: "views"},
		"likes":     {Field: "likes", Size: true},
	},
	Filterable:       map[string]Op{"tag": OpHasTag},
	DefaultSort:      "createdAt",
	DefaultDirection: Desc,
	TextFields:       []string{"title", "description"},
	TagField:         "tags",
}

func actors(n int) []uuid.UUID {
	out := make([]uuid.UUID, n)
	for i := range out {
		out[i] = uuid.New()
	}
	return out
}

func TestBuild_SortAllowList(t *testing.T) {
	_, err := Build(testVideos, RawSpec{SortBy: "owner"})
	require.Error(t, err)
	assert.True(t, errs.IsValidation(err))
	assert.Equal(t, []string{"sortBy"}, errs.DetailsOf(err))

	p, err := Build(testVideos, RawSpec{SortBy: "likes"})
	require.NoError(t, err)
	assert.True(t, p.Sort.Size)
}

func TestBuild_SortDirection(t *testing.T) {
	_, err := Build(testVideos, RawSpec{SortDirection: "sideways"})
	assert.True(t, errs.IsValidation(err))

	p, err := Build(testVideos, RawSpec{SortDirection: "ASC"})
	require.NoError(t, err)
	assert.Equal(t, Asc, p.Direction)

	p, err = Build(testVideos, RawSpec{})
	require.NoError(t, err)
	assert.Equal(t, Desc, p.Direction)
	assert.Equal(t, "createdAt", p.SortKey)
}

func TestBuild_CoercesPagination(t *testing.T) {
	tests := []struct {
		page, size         string
		wantPage, wantSize int
	}{
		{"", "", 1, 10},
		{"abc", "xyz", 1, 10},
		{"0", "-5", 1, 10},
		{"-3", "0", 1, 10},
		{"4", "25", 4, 25},
		{"2", "500", 2, 50},
		{"9223372036854775807", "", math.MaxInt / 10, 10},
		{"99999999999999999999", "", 1, 10},
	}

	for _, tt := range tests {
		t.Run(fmt.Sprintf("page=%q size=%q", tt.page, tt.size), func(t *testing.T) {
			p, err := Build(testVideos, RawSpec{Page: tt.page, PageSize: tt.size})
			require.NoError(t, err)
			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantSize, p.PageSize)
		})
	}
}

func TestApply_TiesFollowCreationOrder(t *testing.T) {
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	var rows []doc
	for i := 0; i < 6; i++ {
		rows = append(rows, doc{id: uuid.Must(uuid.NewV7()), createdAt: at})
	}
	shuffled := []doc{rows[3], rows[0], rows[5], rows[1], rows[4], rows[2]}

	asc, err := Build(testVideos, RawSpec{SortDirection: "asc"})
	require.NoError(t, err)
	items, _ := Apply(shuffled, asc)
	assert.Equal(t, rows, items)

	desc, err := Build(testVideos, RawSpec{SortDirection: "desc"})
	require.NoError(t, err)
	items, _ = Apply(shuffled, desc)
	assert.Equal(t, []doc{rows[5], rows[4], rows[3], rows[2], rows[1], rows[0]}, items)
}

func TestApply_HugePageIsEmpty(t *testing.T) {
	rows := []doc{{id: uuid.New()}, {id: uuid.New()}}

	p, err := Build(testVideos, RawSpec{Page: "9223372036854775807"})
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p.Offset(), 0)

	items, total := Apply(rows, p)
	assert.Empty(t, items)
	assert.Equal(t, 2, total)

	page := NewPage(items, total, p)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
}

func TestPlan_OffsetSaturates(t *testing.T) {
	p := &Plan{Page: math.MaxInt, PageSize: 50}
	assert.Equal(t, math.MaxInt-50, p.Offset())
	assert.Equal(t, 0, (&Plan{}).Offset())
}

func TestBuild_UnknownFilterRejected(t *testing.T) {
	_, err := Build(testVideos, RawSpec{Filters: map[string]string{"password": "x"}})
	assert.True(t, errs.IsValidation(err))

	p, err := Build(testVideos, RawSpec{Filters: map[string]string{"password": ""}})
	require.NoError(t, err)
	assert.Empty(t, p.Filters)
}

func TestApply_SortsByArraySize(t *testing.T) {
	rows := []doc{
		{id: uuid.New(), title: "zero", likes: actors(0)},
		{id: uuid.New(), title: "three", likes: actors(3)},
		{id: uuid.New(), title: "one", likes: actors(1)},
	}

	p, err := Build(testVideos, RawSpec{SortBy: "likes", SortDirection: "asc"})
	require.NoError(t, err)

	items, total := Apply(rows, p)
	require.Equal(t, 3, total)

	sizes := []int{len(items[0].likes), len(items[1].likes), len(items[2].likes)}
	assert.Equal(t, []int{0, 1, 3}, sizes)
}

func TestApply_PaginationIsDeterministic(t *testing.T) {
	// Many rows share every sort value so the id tie-break decides order.
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rows := make([]doc, 0, 37)
	for i := 0; i < 37; i++ {
		rows = append(rows, doc{id: uuid.New(), views: i % 3, createdAt: base})
	}

	for _, dir := range []string{"asc", "desc"} {
		t.Run(dir, func(t *testing.T) {
			seen := make(map[uuid.UUID]int)
			var ordered []doc
			for page := 1; ; page++ {
				p, err := Build(testVideos, RawSpec{SortBy: "views", SortDirection: dir, Page: fmt.Sprint(page), PageSize: "5"})
				require.NoError(t, err)

				items, total := Apply(rows, p)
				require.Equal(t, 37, total)
				pg := NewPage(items, total, p)
				for _, it := range pg.Items {
					seen[it.id]++
					ordered = append(ordered, it)
				}
				if !pg.HasNext {
					assert.Equal(t, 8, pg.TotalPages)
					break
				}
			}

			assert.Len(t, seen, 37)
			for id, n := range seen {
				assert.Equal(t, 1, n, "row %s appeared %d times", id, n)
			}

			p, _ := Build(testVideos, RawSpec{SortBy: "views", SortDirection: dir})
			for i := 1; i < len(ordered); i++ {
				assert.False(t, p.Less(ordered[i], ordered[i-1]), "rows %d and %d out of order", i-1, i)
			}
		})
	}
}

func TestApply_TextQueryORsFieldsAndANDsScope(t *testing.T) {
	owner := uuid.New()
	other := uuid.New()
	rows := []doc{
		{id: uuid.New(), owner: owner, title: "Go Concurrency"},
		{id: uuid.New(), owner: owner, description: "all about goroutines"},
		{id: uuid.New(), owner: owner, tags: []string{"golang"}},
		{id: uuid.New(), owner: owner, title: "cooking"},
		{id: uuid.New(), owner: other, title: "go fast"},
	}

	p, err := Build(testVideos, RawSpec{Query: "GO"}, Eq("owner", owner))
	require.NoError(t, err)

	items, total := Apply(rows, p)
	assert.Equal(t, 3, total)
	for _, it := range items {
		assert.Equal(t, owner, it.owner)
	}
}

func TestApply_TagFilter(t *testing.T) {
	rows := []doc{
		{id: uuid.New(), tags: []string{"music", "live"}},
		{id: uuid.New(), tags: []string{"musical"}},
	}

	p, err := Build(testVideos, RawSpec{Filters: map[string]string{"tag": "Music"}})
	require.NoError(t, err)

	_, total := Apply(rows, p)
	assert.Equal(t, 1, total)
}

func TestNewPage(t *testing.T) {
	p := &Plan{Page: 2, PageSize: 10}

	pg := NewPage([]int(nil), 25, p)
	assert.Equal(t, []int{}, pg.Items)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	assert.True(t, pg.HasPrev)

	empty := NewPage([]int{}, 0, &Plan{Page: 1, PageSize: 10})
	assert.Equal(t, 0, empty.TotalPages)
	assert.False(t, empty.HasNext)
	assert.False(t, empty.HasPrev)
}

func TestApply_PageBeyondEnd(t *testing.T) {
	rows := []doc{{id: uuid.New()}}
	items, total := Apply(rows, &Plan{Collection: testVideos, Sort: SortField{Field: "createdAt"}, Page: 5, PageSize: 10})
	assert.Empty(t, items)
	assert.Equal(t, 1, total)
}
