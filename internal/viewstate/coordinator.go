package viewstate

import (
	"strings"
	"sync"

	"github.com/five82/postboard/internal/query"
	"github.com/five82/postboard/internal/records"
)

// Source provides the collection the view is computed from.
type Source interface {
	Snapshot() []records.Record
}

// Trigger identifies what changed. Reactions subscribe to a mask of triggers.
type Trigger uint16

const (
	TriggerSearch Trigger = 1 << iota
	TriggerOwner
	TriggerSort
	TriggerPageSize
	TriggerPage
	TriggerFetched   // collection replaced by a fetch
	TriggerCreated   // record inserted by a create
	TriggerUpdated   // record replaced by an update
	TriggerDeleted   // record removed by a delete
	TriggerRefreshed // collection replaced by a background refresh
)

// ViewFunc computes the view for candidate parameters against the current
// collection.
type ViewFunc func(query.Params) query.View

// Reaction is a one-way rule from a trigger to a parameter correction.
type Reaction struct {
	Name  string
	On    Trigger
	Apply func(p query.Params, view ViewFunc) query.Params
}

// Coordinator owns the query parameters of a session. Parameters change only
// through its setters and collection notifications; after each change the
// reactions subscribed to the fired triggers run in registration order.
type Coordinator struct {
	mu        sync.Mutex
	params    query.Params
	version   uint64
	source    Source
	reactions []Reaction
}

// New builds a Coordinator starting from initial with DefaultReactions.
func New(source Source, initial query.Params) *Coordinator {
	return &Coordinator{
		params:    cloneParams(initial.Normalize()),
		source:    source,
		reactions: DefaultReactions(),
	}
}

// React registers an additional reaction after the existing ones.
func (c *Coordinator) React(r Reaction) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.reactions = append(c.reactions, r)
}

// Params returns a copy of the current parameters.
func (c *Coordinator) Params() query.Params {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneParams(c.params)
}

// Version increments whenever the parameters change.
func (c *Coordinator) Version() uint64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.version
}

// View computes the current page from the source.
func (c *Coordinator) View() query.View {
	return query.Compute(c.source.Snapshot(), c.Params())
}

func (c *Coordinator) SetSearch(text string) {
	c.change(TriggerSearch, func(p *query.Params) { p.Search = text })
}

func (c *Coordinator) ClearSearch() { c.SetSearch("") }

// SetOwner filters by owner. Any call resets the page, even with the
// current value.
func (c *Coordinator) SetOwner(owner int64) {
	c.change(TriggerOwner, func(p *query.Params) { p.Owner = query.Owner(owner) })
}

// ClearOwner removes the owner filter.
func (c *Coordinator) ClearOwner() {
	c.change(TriggerOwner, func(p *query.Params) { p.Owner = nil })
}

func (c *Coordinator) ClearFilter() { c.ClearOwner() }

// CycleOwner steps the owner filter through none and each owner present in
// the collection.
func (c *Coordinator) CycleOwner() {
	items := c.source.Snapshot()
	c.change(TriggerOwner, func(p *query.Params) { p.Owner = query.NextOwner(items, p.Owner) })
}

func (c *Coordinator) SetSort(key query.SortKey, dir query.Direction) {
	c.change(TriggerSort, func(p *query.Params) {
		p.SortKey = key
		p.Direction = dir
	})
}

func (c *Coordinator) CycleSortKey() {
	c.change(TriggerSort, func(p *query.Params) { p.SortKey = p.SortKey.Next() })
}

func (c *Coordinator) ToggleDirection() {
	c.change(TriggerSort, func(p *query.Params) { p.Direction = p.Direction.Flip() })
}

func (c *Coordinator) SetPageSize(size int) {
	c.change(TriggerPageSize, func(p *query.Params) { p.PageSize = size })
}

func (c *Coordinator) SetPage(page int) {
	c.change(TriggerPage, func(p *query.Params) { p.Page = page })
}

func (c *Coordinator) NextPage() {
	c.change(TriggerPage, func(p *query.Params) { p.Page++ })
}

func (c *Coordinator) PrevPage() {
	c.change(TriggerPage, func(p *query.Params) { p.Page-- })
}

// ClearAll restores search, filter, sort and page defaults. Page size is
// kept.
func (c *Coordinator) ClearAll() {
	c.change(TriggerSearch|TriggerOwner|TriggerSort, func(p *query.Params) {
		size := p.PageSize
		*p = query.DefaultParams()
		p.PageSize = size
	})
}

// Notify reports a collection change so subscribed reactions can repair the
// parameters.
func (c *Coordinator) Notify(t Trigger) {
	c.change(t, nil)
}

func (c *Coordinator) change(t Trigger, mutate func(*query.Params)) {
	c.mu.Lock()
	defer c.mu.Unlock()

	before := cloneParams(c.params)
	next := cloneParams(c.params)
	if mutate != nil {
		mutate(&next)
	}
	next = next.Normalize()

	view := c.viewFunc()
	for _, r := range c.reactions {
		if r.On&t != 0 {
			next = r.Apply(next, view).Normalize()
		}
	}

	c.params = next
	if !equalParams(before, next) {
		c.version++
	}
}

func (c *Coordinator) viewFunc() ViewFunc {
	var items []records.Record
	loaded := false
	return func(p query.Params) query.View {
		if !loaded {
			items = c.source.Snapshot()
			loaded = true
		}
		return query.Compute(items, p)
	}
}

// DefaultReactions are the pagination rules every session runs:
//
//   - search, owner filter, fetch or create → first page
//   - page size, page, update or background refresh → clamp to the last page
//   - delete that empties the current page → previous page
//
// Sort changes reorder the pages but never change their count, so nothing
// subscribes to TriggerSort.
func DefaultReactions() []Reaction {
	return []Reaction{
		{
			Name: "first-page",
			On:   TriggerSearch | TriggerOwner | TriggerFetched | TriggerCreated,
			Apply: func(p query.Params, _ ViewFunc) query.Params {
				p.Page = 1
				return p
			},
		},
		{
			Name: "clamp-to-last-page",
			On:   TriggerPageSize | TriggerPage | TriggerUpdated | TriggerRefreshed,
			Apply: func(p query.Params, view ViewFunc) query.Params {
				if pages := view(p).TotalPages; p.Page > pages {
					p.Page = max(1, pages)
				}
				return p
			},
		},
		{
			Name: "step-back-after-delete",
			On:   TriggerDeleted,
			Apply: func(p query.Params, view ViewFunc) query.Params {
				if p.Page > 1 && len(view(p).Items) == 0 {
					p.Page--
				}
				return p
			},
		},
	}
}

func (t Trigger) String() string {
	names := []string{"search", "owner", "sort", "page-size", "page", "fetched", "created", "updated", "deleted", "refreshed"}
	var parts []string
	for i, name := range names {
		if t&(1<<i) != 0 {
			parts = append(parts, name)
		}
	}
	if len(parts) == 0 {
		return "none"
	}
	return strings.Join(parts, "|")
}

func cloneParams(p query.Params) query.Params {
	if p.Owner != nil {
		p.Owner = query.Owner(*p.Owner)
	}
	return p
}

func equalParams(a, b query.Params) bool {
	if a.HasOwner() != b.HasOwner() || a.OwnerValue() != b.OwnerValue() {
		return false
	}
	a.Owner, b.Owner = nil, nil
	return a == b
}
