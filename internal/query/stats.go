package query

import (
	"slices"

	"github.com/five82/postboard/internal/records"
)

// OwnerCounts tallies records per owner id.
func OwnerCounts(items []records.Record) map[int64]int {
	counts := make(map[int64]int)
	for _, r := range items {
		counts[r.OwnerID]++
	}
	return counts
}

// Owners returns the distinct owner ids in ascending order.
func Owners(items []records.Record) []int64 {
	counts := OwnerCounts(items)
	owners := make([]int64, 0, len(counts))
	for id := range counts {
		owners = append(owners, id)
	}
	slices.Sort(owners)
	return owners
}

// NextOwner cycles the owner filter through none → each owner → none.
func NextOwner(items []records.Record, current *int64) *int64 {
	owners := Owners(items)
	if len(owners) == 0 {
		return nil
	}
	if current == nil {
		return Owner(owners[0])
	}
	idx, found := slices.BinarySearch(owners, *current)
	if found {
		idx++
	}
	if idx >= len(owners) {
		return nil
	}
	return Owner(owners[idx])
}
