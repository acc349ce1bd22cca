// Package session is the mutation engine of postboard. A Session is the
// explicitly constructed context that owns a collection store, its shared
// operation status and a view-state coordinator; nothing in it is global.
//
// # Operations
//
// FetchAll, Refresh, Get, Create, Update and Delete follow one template:
//
//	status.Begin()            Loading = true, LastError = nil
//	validate input            ValidationError, no request sent
//	gateway call              the only blocking point
//	apply to the store        Replace / InsertFront / ReplaceByID / RemoveByID
//	notify the coordinator    pagination reactions run
//	status.Settle(err)        deferred, runs on every exit path
//
// Each returns a Result. LastError in Status only reflects whichever
// operation settled most recently.
//
// # Concurrency
//
// Operations may run concurrently from separate goroutines. They are not
// serialized: results apply in the order the remote answers, a superseded
// fetch still applies when it lands, and the status belongs to whoever
// settles last. Status().Overlaps counts how often that interleaving
// happened.
//
// # Write Strategy
//
// With ApplyEcho (default) the collection takes whatever the remote returned,
// even when the remote never stored it. ApplyDraft keeps the caller's input
// instead, retaining the server-assigned id on create.
package session
