package ui

import "github.com/charmbracelet/bubbles/key"

// keyMap defines all keyboard bindings for the list view.
type keyMap struct {
	// Global
	Quit       key.Binding
	Help       key.Binding
	CycleTheme key.Binding
	Escape     key.Binding

	// Navigation
	Up       key.Binding
	Down     key.Binding
	PrevPage key.Binding
	NextPage key.Binding
	Open     key.Binding

	// View parameters
	Search     key.Binding
	CycleOwner key.Binding
	CycleSort  key.Binding
	FlipSort   key.Binding
	Grow       key.Binding
	Shrink     key.Binding
	ClearAll   key.Binding

	// Record actions
	New     key.Binding
	Edit    key.Binding
	Delete  key.Binding
	Refetch key.Binding
}

// DefaultKeyMap returns the default key bindings.
func DefaultKeyMap() keyMap {
	return keyMap{
		Quit: key.NewBinding(
			key.WithKeys("ctrl+c", "q"),
			key.WithHelp("q", "Quit"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "Toggle help"),
		),
		CycleTheme: key.NewBinding(
			key.WithKeys("t"),
			key.WithHelp("t", "Cycle theme"),
		),
		Escape: key.NewBinding(
			key.WithKeys("esc"),
			key.WithHelp("esc", "Back"),
		),

		Up: key.NewBinding(
			key.WithKeys("k", "up"),
			key.WithHelp("k/up", "Move up"),
		),
		Down: key.NewBinding(
			key.WithKeys("j", "down"),
			key.WithHelp("j/down", "Move down"),
		),
		PrevPage: key.NewBinding(
			key.WithKeys("[", "pgup"),
			key.WithHelp("[", "Previous page"),
		),
		NextPage: key.NewBinding(
			key.WithKeys("]", "pgdown"),
			key.WithHelp("]", "Next page"),
		),
		Open: key.NewBinding(
			key.WithKeys("enter"),
			key.WithHelp("enter", "Read body"),
		),

		Search: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "Search titles"),
		),
		CycleOwner: key.NewBinding(
			key.WithKeys("o"),
			key.WithHelp("o", "Cycle owner filter"),
		),
		CycleSort: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "Cycle sort key"),
		),
		FlipSort: key.NewBinding(
			key.WithKeys("r"),
			key.WithHelp("r", "Reverse sort"),
		),
		Grow: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+", "Larger pages"),
		),
		Shrink: key.NewBinding(
			key.WithKeys("-"),
			key.WithHelp("-", "Smaller pages"),
		),
		ClearAll: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "Clear search/filter/sort"),
		),

		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "New post"),
		),
		Edit: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "Edit post"),
		),
		Delete: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "Delete post"),
		),
		Refetch: key.NewBinding(
			key.WithKeys("R"),
			key.WithHelp("R", "Reload from remote"),
		),
	}
}

// ShortHelp returns key bindings for the short help view.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Search, k.CycleOwner, k.CycleSort, k.New, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Up, k.Down, k.PrevPage, k.NextPage, k.Open},
		{k.Search, k.CycleOwner, k.CycleSort, k.FlipSort, k.Grow, k.Shrink, k.ClearAll},
		{k.New, k.Edit, k.Delete, k.Refetch},
		{k.CycleTheme, k.Help, k.Quit},
	}
}
