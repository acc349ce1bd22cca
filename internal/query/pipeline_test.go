package query

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/five82/postboard/internal/records"
)

func ids(items []records.Record) []int64 {
	out := make([]int64, 0, len(items))
	for _, r := range items {
		out = append(out, r.ID)
	}
	return out
}

func seq(n int) []records.Record {
	out := make([]records.Record, 0, n)
	for i := 1; i <= n; i++ {
		out = append(out, records.Record{ID: int64(i), Title: fmt.Sprintf("t%02d", i), OwnerID: int64((i-1)/10 + 1)})
	}
	return out
}

func TestCompute_AlphaBetaScenario(t *testing.T) {
	items := []records.Record{
		{ID: 1, Title: "Alpha", OwnerID: 1},
		{ID: 2, Title: "Beta", OwnerID: 2},
	}
	p := DefaultParams()
	p.Search = "al"

	view := Compute(items, p)
	assert.Equal(t, []records.Record{items[0]}, view.Items)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, 1, view.Filtered)
}

func TestCompute_SearchIsCaseInsensitiveAndBlankPassesThrough(t *testing.T) {
	items := []records.Record{
		{ID: 1, Title: "Qui est esse"},
		{ID: 2, Title: "QUIA molestiae"},
		{ID: 3, Title: "eum et est"},
	}
	p := DefaultParams()

	p.Search = "qui"
	assert.Equal(t, []int64{1, 2}, ids(Compute(items, p).Items))

	p.Search = "   "
	assert.Equal(t, []int64{1, 2, 3}, ids(Compute(items, p).Items))

	p.Search = "zzz"
	view := Compute(items, p)
	assert.Empty(t, view.Items)
	assert.Equal(t, 1, view.TotalPages)
	assert.Equal(t, 0, view.Filtered)
}

func TestCompute_OwnerFilter(t *testing.T) {
	p := DefaultParams()
	p.Owner = Owner(2)
	view := Compute(seq(25), p)
	assert.Equal(t, []int64{11, 12, 13, 14, 15, 16, 17, 18, 19, 20}, ids(view.Items))
	assert.Equal(t, 10, view.Filtered)
	assert.Equal(t, 1, view.TotalPages)
}

func TestCompute_SearchThenFilterThenSort(t *testing.T) {
	items := []records.Record{
		{ID: 5, Title: "go beta", OwnerID: 1},
		{ID: 3, Title: "rust", OwnerID: 1},
		{ID: 4, Title: "Go alpha", OwnerID: 2},
		{ID: 1, Title: "go gamma", OwnerID: 1},
	}
	p := DefaultParams()
	p.Search = "go"
	p.Owner = Owner(1)
	p.SortKey = SortByTitle
	p.Direction = Descending

	assert.Equal(t, []int64{1, 5}, ids(Compute(items, p).Items))
}

func TestCompute_SortKeys(t *testing.T) {
	items := []records.Record{
		{ID: 2, Title: "b", OwnerID: 3},
		{ID: 3, Title: "a", OwnerID: 1},
		{ID: 1, Title: "c", OwnerID: 2},
	}
	tests := []struct {
		key  SortKey
		dir  Direction
		want []int64
	}{
		{SortByID, Ascending, []int64{1, 2, 3}},
		{SortByID, Descending, []int64{3, 2, 1}},
		{SortByTitle, Ascending, []int64{3, 2, 1}},
		{SortByTitle, Descending, []int64{1, 2, 3}},
		{SortByOwner, Ascending, []int64{3, 1, 2}},
		{SortByOwner, Descending, []int64{2, 1, 3}},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%s_%s", tt.key, tt.dir), func(t *testing.T) {
			p := DefaultParams()
			p.SortKey, p.Direction = tt.key, tt.dir
			assert.Equal(t, tt.want, ids(Compute(items, p).Items))
		})
	}
}

func TestCompute_TitleOrderIsByteWise(t *testing.T) {
	items := []records.Record{{ID: 1, Title: "beta"}, {ID: 2, Title: "Zeta"}, {ID: 3, Title: "alpha"}}
	p := DefaultParams()
	p.SortKey = SortByTitle
	assert.Equal(t, []int64{2, 3, 1}, ids(Compute(items, p).Items))
}

func TestCompute_StableTiesKeepCollectionOrder(t *testing.T) {
	items := []records.Record{
		{ID: 9, OwnerID: 1},
		{ID: 3, OwnerID: 2},
		{ID: 7, OwnerID: 1},
		{ID: 1, OwnerID: 2},
	}
	p := DefaultParams()
	p.SortKey = SortByOwner

	assert.Equal(t, []int64{9, 7, 3, 1}, ids(Compute(items, p).Items))
	p.Direction = Descending
	assert.Equal(t, []int64{3, 1, 9, 7}, ids(Compute(items, p).Items))
}

func TestCompute_Pagination(t *testing.T) {
	items := seq(23)
	p := DefaultParams()

	p.Page = 3
	view := Compute(items, p)
	assert.Equal(t, []int64{21, 22, 23}, ids(view.Items))
	assert.Equal(t, 3, view.TotalPages)
	assert.Equal(t, 20, view.Start)
	assert.Equal(t, 23, view.End)

	p.Page = 4
	view = Compute(items, p)
	assert.Empty(t, view.Items)
	assert.Equal(t, 3, view.TotalPages, "the pipeline never clamps")

	p.Page = 1
	p.PageSize = 5
	assert.Equal(t, 5, Compute(items, p).TotalPages)
}

func TestCompute_DoesNotMutateInput(t *testing.T) {
	items := []records.Record{{ID: 2, Title: "b"}, {ID: 1, Title: "a"}}
	p := DefaultParams()
	p.Owner = Owner(5)
	Compute(items, p)
	p.Owner = nil
	Compute(items, p)
	assert.Equal(t, []int64{2, 1}, ids(items))
}

func TestCompute_NormalizesInvalidParams(t *testing.T) {
	view := Compute(seq(3), Params{Page: -2, PageSize: 0, SortKey: "bogus"})
	assert.Equal(t, []int64{1}, ids(view.Items))
	assert.Equal(t, 3, view.TotalPages)
}

func TestTotalPages(t *testing.T) {
	assert.Equal(t, 1, TotalPages(0, 10))
	assert.Equal(t, 1, TotalPages(10, 10))
	assert.Equal(t, 2, TotalPages(11, 10))
	assert.Equal(t, 7, TotalPages(7, 0))
}

func TestParseSortKeyAndDirection(t *testing.T) {
	for raw, want := range map[string]SortKey{"": SortByID, "ID": SortByID, "title": SortByTitle, "userId": SortByOwner, "owner": SortByOwner} {
		got, err := ParseSortKey(raw)
		require.NoError(t, err, raw)
		assert.Equal(t, want, got, raw)
	}
	_, err := ParseSortKey("body")
	assert.Error(t, err)

	d, err := ParseDirection("DESC")
	require.NoError(t, err)
	assert.Equal(t, Descending, d)
	assert.Equal(t, Ascending, d.Flip())
	_, err = ParseDirection("sideways")
	assert.Error(t, err)

	assert.Equal(t, SortByTitle, SortByID.Next())
	assert.Equal(t, SortByOwner, SortByTitle.Next())
	assert.Equal(t, SortByID, SortByOwner.Next())
}

func TestOwnersAndNextOwner(t *testing.T) {
	items := []records.Record{{ID: 1, OwnerID: 3}, {ID: 2, OwnerID: 1}, {ID: 3, OwnerID: 3}}
	assert.Equal(t, map[int64]int{1: 1, 3: 2}, OwnerCounts(items))
	assert.Equal(t, []int64{1, 3}, Owners(items))

	next := NextOwner(items, nil)
	require.NotNil(t, next)
	assert.Equal(t, int64(1), *next)
	next = NextOwner(items, next)
	require.NotNil(t, next)
	assert.Equal(t, int64(3), *next)
	assert.Nil(t, NextOwner(items, next))
	assert.Nil(t, NextOwner(nil, nil))

	// An owner that vanished from the data moves on to the next larger one.
	next = NextOwner(items, Owner(2))
	require.NotNil(t, next)
	assert.Equal(t, int64(3), *next)
}
