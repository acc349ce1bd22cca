package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/postboard/internal/records"
	"github.com/five82/postboard/internal/session"
)

// opDoneMsg reports a settled session operation. The session has already
// applied the outcome; the model only reacts to it.
type opDoneMsg struct {
	op    string
	id    int64
	count int
	err   error
}

type redrawMsg time.Time

func (m Model) redrawCmd() tea.Cmd {
	return tea.Tick(m.redraw, func(t time.Time) tea.Msg { return redrawMsg(t) })
}

func (m Model) fetchCmd() tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		res := sess.FetchAll(ctx)
		return opDoneMsg{op: session.OpFetch, count: len(res.Data), err: res.Err}
	}
}

func (m Model) createCmd(draft records.Draft) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		res := sess.Create(ctx, draft)
		return opDoneMsg{op: session.OpCreate, id: res.Data.ID, err: res.Err}
	}
}

func (m Model) updateCmd(full records.Record) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		res := sess.Update(ctx, full)
		return opDoneMsg{op: session.OpUpdate, id: full.ID, err: res.Err}
	}
}

func (m Model) deleteCmd(id int64) tea.Cmd {
	sess, ctx := m.session, m.ctx
	return func() tea.Msg {
		res := sess.Delete(ctx, id)
		return opDoneMsg{op: session.OpDelete, id: id, err: res.Err}
	}
}
