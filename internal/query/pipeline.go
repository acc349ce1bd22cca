// Package query computes the derived view of a record collection: search,
// owner filter, sort and pagination, in that order.
package query

import (
	"cmp"
	"slices"
	"strings"

	"golang.org/x/text/cases"

	"github.com/five82/postboard/internal/records"
)

// View is one page of the filtered, sorted collection.
type View struct {
	Items      []records.Record
	TotalPages int // never below 1
	Filtered   int // records left after search and filter
	Start      int // index of Items[0] within the filtered set
	End        int // exclusive end index within the filtered set
}

// Compute applies the four stages to items. It is pure: items is not
// modified and the same inputs always produce the same view. A page beyond
// TotalPages yields an empty Items slice.
func Compute(items []records.Record, p Params) View {
	p = p.Normalize()
	matched := Arrange(items, p)

	view := View{
		Filtered:   len(matched),
		TotalPages: TotalPages(len(matched), p.PageSize),
	}
	view.Start = (p.Page - 1) * p.PageSize
	if view.Start > len(matched) {
		view.Start = len(matched)
	}
	view.End = min(view.Start+p.PageSize, len(matched))
	view.Items = slices.Clone(matched[view.Start:view.End])
	return view
}

// Arrange runs the search, filter and sort stages without paginating.
func Arrange(items []records.Record, p Params) []records.Record {
	out := search(items, p.Search)
	out = filterOwner(out, p.Owner)
	sortRecords(out, p.SortKey, p.Direction)
	return out
}

// TotalPages is ceil(n/size) with a floor of one page.
func TotalPages(n, size int) int {
	if size < 1 {
		size = 1
	}
	return max(1, (n+size-1)/size)
}

// search always returns a fresh slice so later stages can sort in place.
func search(items []records.Record, text string) []records.Record {
	if strings.TrimSpace(text) == "" {
		return slices.Clone(items)
	}
	fold := cases.Fold()
	needle := fold.String(text)
	out := make([]records.Record, 0, len(items))
	for _, r := range items {
		if strings.Contains(fold.String(r.Title), needle) {
			out = append(out, r)
		}
	}
	return out
}

func filterOwner(items []records.Record, owner *int64) []records.Record {
	if owner == nil {
		return items
	}
	return slices.DeleteFunc(items, func(r records.Record) bool {
		return r.OwnerID != *owner
	})
}

func sortRecords(items []records.Record, key SortKey, dir Direction) {
	compare := comparator(key)
	if dir == Descending {
		slices.SortStableFunc(items, func(a, b records.Record) int { return -compare(a, b) })
		return
	}
	slices.SortStableFunc(items, compare)
}

func comparator(key SortKey) func(a, b records.Record) int {
	switch key {
	case SortByTitle:
		// Byte order of UTF-8, which matches code point order. It differs from
		// UTF-16 unit order only for astral characters against U+E000-U+FFFF.
		return func(a, b records.Record) int { return strings.Compare(a.Title, b.Title) }
	case SortByOwner:
		return func(a, b records.Record) int { return cmp.Compare(a.OwnerID, b.OwnerID) }
	default:
		return func(a, b records.Record) int { return cmp.Compare(a.ID, b.ID) }
	}
}
