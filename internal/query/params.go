package query

import (
	"fmt"
	"strings"
)

// SortKey selects the record field the view is ordered by.
type SortKey string

const (
	SortByID    SortKey = "id"
	SortByTitle SortKey = "title"
	SortByOwner SortKey = "ownerId"
)

var sortKeyOrder = []SortKey{SortByID, SortByTitle, SortByOwner}

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

const (
	DefaultPageSize = 10
	firstPage       = 1
)

// Params are the inputs of the derived view.
type Params struct {
	Search    string
	Owner     *int64 // nil means no owner filter
	SortKey   SortKey
	Direction Direction
	Page      int // 1-based
	PageSize  int
}

// DefaultParams returns the parameters a new session starts with.
func DefaultParams() Params {
	return Params{
		SortKey:   SortByID,
		Direction: Ascending,
		Page:      firstPage,
		PageSize:  DefaultPageSize,
	}
}

// Normalize replaces out-of-domain values with defaults. It never clamps the
// page against the data; that is the coordinator's job.
func (p Params) Normalize() Params {
	if p.Page < firstPage {
		p.Page = firstPage
	}
	if p.PageSize < 1 {
		p.PageSize = 1
	}
	if _, err := ParseSortKey(string(p.SortKey)); err != nil {
		p.SortKey = SortByID
	}
	if p.Direction != Descending {
		p.Direction = Ascending
	}
	return p
}

// HasOwner reports whether an owner filter is set.
func (p Params) HasOwner() bool {
	return p.Owner != nil
}

// OwnerValue returns the owner filter, or zero when none is set.
func (p Params) OwnerValue() int64 {
	if p.Owner == nil {
		return 0
	}
	return *p.Owner
}

// Owner returns a filter value for Params.Owner.
func Owner(id int64) *int64 {
	return &id
}

// ParseSortKey accepts the canonical names plus "owner" and "userId".
func ParseSortKey(raw string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "id":
		return SortByID, nil
	case "title":
		return SortByTitle, nil
	case "ownerid", "owner", "userid":
		return SortByOwner, nil
	}
	return "", fmt.Errorf("unknown sort key %q", raw)
}

// Next cycles id → title → ownerId → id.
func (k SortKey) Next() SortKey {
	for i, key := range sortKeyOrder {
		if key == k {
			return sortKeyOrder[(i+1)%len(sortKeyOrder)]
		}
	}
	return SortByID
}

// ParseDirection accepts asc/ascending and desc/descending.
func ParseDirection(raw string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return "", fmt.Errorf("unknown sort direction %q", raw)
}

// Flip returns the opposite direction.
func (d Direction) Flip() Direction {
	if d == Descending {
		return Ascending
	}
	return Descending
}
