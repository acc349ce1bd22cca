// Package ui is postboard's terminal interface, built on bubbletea.
//
// # Layout
//
// Three stacked regions:
//
//   - Header: loading/error state of the last operation, in-flight count
//     when operations overlap, filtered/total posts, page, sort, and the
//     active owner filter and search text.
//   - Body: the current page as a table, the body of one post in a
//     scrollable viewport, or the create/edit form.
//   - Footer: the last operation's outcome and the key help (toggle the
//     full list with ?).
//
// # Data Flow
//
// The model never keeps its own copy of the posts. Every frame renders from
// session.View(), which is cached by the session until the collection or the
// view parameters change. Session operations run as tea.Cmds and report back
// with opDoneMsg once the session has applied their outcome. A redraw tick
// picks up changes made by the background refresher.
//
// View parameter keys (/ o s r [ ] + - c) call the coordinator setters, so
// the same page corrections apply as for any other caller.
//
// # Preferences
//
// Theme, page size and sort are saved to prefs.toml when the theme changes
// and on quit.
package ui
