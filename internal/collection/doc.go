// Package collection holds the client-side copy of the remote record
// collection and the operation status shared by everything that mutates it.
//
// # Overview
//
// A session owns one Store and one Status. The mutation engine is the only
// writer; the query pipeline and the UI read snapshots.
//
//	Mutation engine                       Readers
//	┌───────────────────┐                ┌──────────────────┐
//	│ status.Begin()    │                │ store.Snapshot() │
//	│ gateway call ...  │                │ status.Snapshot()│
//	│ store.Replace()   │───────────────→│ query.Compute()  │
//	│ status.Settle()   │                │ render           │
//	└───────────────────┘                └──────────────────┘
//
// # Store Contract
//
//   - Snapshot: copy of the records in collection order
//   - Replace: swap the whole collection (after a fetch)
//   - InsertFront: prepend a record (after a create)
//   - ReplaceByID: swap one record wholesale (after an update)
//   - RemoveByID: drop one record (after a delete)
//
// Every mutator is total. ReplaceByID and RemoveByID report false and leave
// the collection unchanged when the id is absent; they never fail loudly.
// Each applied mutation increments Version, which callers use as a cache key.
//
// # Ordering
//
// Collection order is insertion order: the order of the last fetch, with
// created records prepended. It is not sorted; sorting is a view concern.
//
// # Identity
//
// Every record in the store has a unique id. Replace keeps the first
// occurrence of a duplicated id, and InsertFront evicts an existing entry
// with the same id. The public demo service hands out the same id for every
// create, so the second rule is exercised in practice.
//
// # Concurrency Model
//
// The mutex inside Store and Status guards individual calls only. It is never
// held across a remote call, so two operations in flight at once interleave
// freely: whichever settles last wins Status, and a RemoveByID that lands
// after a concurrent Replace can resurrect or drop a record depending on
// completion order. Status counts InFlight operations and Overlaps so tests
// can observe when that happened.
//
// # Status Semantics
//
//	status.Begin()        → Loading = true, LastError = nil, InFlight++
//	status.Settle(nil)    → Loading = false, LastError = nil, InFlight--
//	status.Settle(err)    → Loading = false, LastError = err, InFlight--
//
// LastError always reflects the most recently settled operation. Callers
// that need the outcome of a specific operation use the Result it returned.
package collection
