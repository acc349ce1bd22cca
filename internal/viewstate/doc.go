// Package viewstate keeps a session's query parameters valid as the
// collection and the parameters change.
//
// Rules are declared once as Reactions keyed on a Trigger mask instead of
// being repeated at every call site, so any caller of a setter (the TUI, the
// CLI, tests) gets the same page corrections. After a setter or collection
// notification applies its change, the reactions subscribed to the fired
// triggers run in registration order against the latest collection snapshot.
// The page index therefore stays within [1, TotalPages] once a change has
// settled.
package viewstate
