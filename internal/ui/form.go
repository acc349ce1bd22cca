package ui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/postboard/internal/records"
)

const (
	fieldTitle = iota
	fieldBody
	fieldOwner
	fieldCount
)

var fieldLabels = [fieldCount]string{"Title", "Body", "Owner"}

// form edits one post. editing is zero while creating.
type form struct {
	editing int64
	inputs  []textinput.Model
	focus   int
	err     string
}

func newForm(existing *records.Record) form {
	f := form{inputs: make([]textinput.Model, fieldCount)}
	for i := range f.inputs {
		in := textinput.New()
		in.Prompt = ""
		in.Width = 60
		f.inputs[i] = in
	}
	f.inputs[fieldOwner].Placeholder = "1"
	f.inputs[fieldOwner].CharLimit = 12
	if existing != nil {
		f.editing = existing.ID
		f.inputs[fieldTitle].SetValue(existing.Title)
		f.inputs[fieldBody].SetValue(existing.Body)
		f.inputs[fieldOwner].SetValue(strconv.FormatInt(existing.OwnerID, 10))
	}
	return f
}

func (f *form) focusCmd() tea.Cmd {
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *form) move(delta int) tea.Cmd {
	f.focus = (f.focus + delta + fieldCount) % fieldCount
	return f.focusCmd()
}

// draft reads the inputs. Errors are shown in the form and nothing is sent.
func (f form) draft() (records.Draft, error) {
	ownerText := strings.TrimSpace(f.inputs[fieldOwner].Value())
	owner, err := strconv.ParseInt(ownerText, 10, 64)
	if err != nil {
		return records.Draft{}, &records.ValidationError{Field: "ownerId", Reason: "must be a whole number"}
	}
	d := records.Draft{
		Title:   f.inputs[fieldTitle].Value(),
		Body:    f.inputs[fieldBody].Value(),
		OwnerID: owner,
	}
	if err := d.Validate(); err != nil {
		return records.Draft{}, err
	}
	return d, nil
}

func (m Model) handleFormKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = modeList
		m.setFlash("edit cancelled", false)
		return m, nil
	case "tab", "down":
		return m, m.form.move(1)
	case "shift+tab", "up":
		return m, m.form.move(-1)
	case "enter":
		if m.form.focus < fieldCount-1 {
			return m, m.form.move(1)
		}
		return m.submitForm()
	case "ctrl+s":
		return m.submitForm()
	}

	var cmd tea.Cmd
	m.form.inputs[m.form.focus], cmd = m.form.inputs[m.form.focus].Update(msg)
	return m, cmd
}

func (m Model) submitForm() (tea.Model, tea.Cmd) {
	d, err := m.form.draft()
	if err != nil {
		m.form.err = err.Error()
		return m, nil
	}
	m.mode = modeList
	if m.form.editing != 0 {
		m.setFlash("saving…", false)
		return m, m.updateCmd(d.WithID(m.form.editing))
	}
	m.setFlash("creating…", false)
	return m, m.createCmd(d)
}
