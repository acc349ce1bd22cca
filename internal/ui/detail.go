package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/five82/postboard/internal/records"
)

func (m *Model) resizeDetail() {
	m.detail.Width = max(10, m.contentWidth()-4)
	m.detail.Height = max(3, m.height-6)
}

func (m *Model) openDetail(rec records.Record) {
	m.resizeDetail()
	styles := m.theme.Styles()
	wrap := lipgloss.NewStyle().Width(m.detail.Width)

	content := styles.AccentText.Bold(true).Render(wrap.Render(rec.Title)) + "\n" +
		styles.MutedText.Render(fmt.Sprintf("#%d by owner %d", rec.ID, rec.OwnerID)) + "\n\n" +
		styles.Text.Render(wrap.Render(rec.Body))
	m.detail.SetContent(content)
	m.detail.GotoTop()
	m.mode = modeDetail
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Escape), key.Matches(msg, m.keys.Open), key.Matches(msg, m.keys.Quit):
		m.mode = modeList
		return m, nil
	}
	var cmd tea.Cmd
	m.detail, cmd = m.detail.Update(msg)
	return m, cmd
}

func (m Model) renderDetail() string {
	return m.theme.Styles().Panel.Render(m.detail.View())
}
