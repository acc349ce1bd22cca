package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/postboard/internal/query"
	"github.com/five82/postboard/internal/records"
)

// renderHeader renders the status bar.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	status := m.session.Status()
	view := m.currentView()
	params := m.session.Params()
	sep := "  "

	parts := []string{styles.Logo.Render("postboard")}

	switch {
	case status.Loading:
		parts = append(parts, styles.WarningText.Render("● loading"))
	case status.LastError != nil:
		parts = append(parts, styles.DangerText.Render("● "+records.Kind(status.LastError)))
	default:
		parts = append(parts, styles.SuccessText.Render("● ready"))
	}
	if status.InFlight > 1 {
		parts = append(parts, styles.WarningText.Render(fmt.Sprintf("in flight: %d", status.InFlight)))
	}

	parts = append(parts,
		styles.MutedText.Render("Posts:")+" "+styles.Text.Render(fmt.Sprintf("%d/%d", view.Filtered, len(m.session.Records()))),
		styles.MutedText.Render("Page:")+" "+styles.Text.Render(fmt.Sprintf("%d/%d", params.Page, view.TotalPages)),
		styles.MutedText.Render("Sort:")+" "+styles.AccentText.Render(sortLabel(params)),
	)
	if params.HasOwner() {
		parts = append(parts, styles.MutedText.Render("Owner:")+" "+styles.OwnerStyle(params.OwnerValue()).Render(fmt.Sprint(params.OwnerValue())))
	}
	if params.Search != "" {
		parts = append(parts, styles.MutedText.Render("Search:")+" "+styles.InfoText.Render(fmt.Sprintf("%q", params.Search)))
	}
	if !m.lastUpdated.IsZero() && m.contentWidth() >= 100 {
		parts = append(parts, styles.FaintText.Render(m.lastUpdated.Format("15:04:05")))
	}

	return styles.Header.Width(m.contentWidth()).Render(strings.Join(parts, sep))
}

func sortLabel(p query.Params) string {
	arrow := "↑"
	if p.Direction == query.Descending {
		arrow = "↓"
	}
	return string(p.SortKey) + " " + arrow
}

const (
	idColumn    = 6
	ownerColumn = 8
)

// renderTable renders the current page, one row per record.
func (m Model) renderTable() string {
	styles := m.theme.Styles()
	width := m.contentWidth()
	titleWidth := max(10, width-idColumn-ownerColumn-4)
	view := m.currentView()

	var b strings.Builder
	b.WriteString(styles.ColumnHeader.Render(
		fmt.Sprintf(" %-*s %-*s %s", idColumn, "ID", ownerColumn, "OWNER", "TITLE")))
	b.WriteString("\n")

	if len(view.Items) == 0 {
		b.WriteString(styles.MutedText.Render(" No posts match."))
		return b.String()
	}

	for i, rec := range view.Items {
		owner := styles.OwnerStyle(rec.OwnerID).Render(fmt.Sprintf("%d", rec.OwnerID))
		ownerPad := strings.Repeat(" ", max(0, ownerColumn-lipgloss.Width(owner)))
		title := truncate(rec.Title, titleWidth)

		rowStyle := styles.Row
		if i%2 == 1 {
			rowStyle = styles.RowAlt
		}
		if i == m.cursor {
			rowStyle = styles.Selected
		}
		line := fmt.Sprintf(" %-*d ", idColumn, rec.ID) + owner + ownerPad + " " + rowStyle.Render(title)
		b.WriteString(line)
		if i < len(view.Items)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

// renderFooter shows the flash line plus either the search input, the delete
// prompt or the key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	var lines []string

	if m.flash != "" {
		style := styles.MutedText
		if m.flashErr {
			style = styles.DangerText
		}
		flash := style.Render(m.flash)
		if m.flashErr && m.logPath != "" {
			flash += "  " + styles.FaintText.Render("logs "+truncate(m.logPath, 50))
		}
		lines = append(lines, flash)
	}

	switch m.mode {
	case modeSearch:
		lines = append(lines, m.search.View())
	case modeConfirmDelete:
		lines = append(lines, styles.WarningText.Render(fmt.Sprintf("Delete #%d? y/N", m.pendingDelete)))
	case modeForm:
		lines = append(lines, styles.FaintText.Render("tab next field · enter save on last field · ctrl+s save · esc cancel"))
	case modeDetail:
		lines = append(lines, styles.FaintText.Render("j/k scroll · esc back"))
	default:
		lines = append(lines, m.help.View(m.keys))
	}
	return styles.Footer.Width(m.contentWidth()).Render(strings.Join(lines, "\n"))
}

// renderForm renders the create/edit form.
func (m Model) renderForm() string {
	styles := m.theme.Styles()
	title := "New post"
	if m.form.editing != 0 {
		title = fmt.Sprintf("Edit post #%d", m.form.editing)
	}

	var b strings.Builder
	b.WriteString(styles.AccentText.Bold(true).Render(title))
	b.WriteString("\n\n")
	for i, in := range m.form.inputs {
		label := styles.MutedText.Render(fmt.Sprintf("%-6s", fieldLabels[i]))
		if i == m.form.focus {
			label = styles.AccentText.Render(fmt.Sprintf("%-6s", fieldLabels[i]))
		}
		b.WriteString(label + " " + in.View() + "\n")
	}
	if m.form.err != "" {
		b.WriteString("\n" + styles.DangerText.Render(m.form.err))
	}
	return styles.Panel.Width(max(20, m.contentWidth()-4)).Render(b.String())
}
