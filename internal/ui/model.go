package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/five82/postboard/internal/prefs"
	"github.com/five82/postboard/internal/query"
	"github.com/five82/postboard/internal/records"
	"github.com/five82/postboard/internal/session"
)

// Options configure the UI runtime.
type Options struct {
	Context   context.Context
	Session   *session.Session
	Prefs     prefs.Prefs
	PrefsPath string        // empty disables saving preferences
	Redraw    time.Duration // status redraw cadence; zero uses DefaultRedraw
	LogPath   string        // shown next to errors
	Logger    *zap.Logger
}

// DefaultRedraw is how often the UI re-reads the session between keystrokes,
// so background refreshes become visible.
const DefaultRedraw = time.Second

type mode int

const (
	modeList mode = iota
	modeSearch
	modeForm
	modeDetail
	modeConfirmDelete
)

// pageSizes are the steps +/- move through.
var pageSizes = []int{5, 10, 20, 50}

// Model is the bubbletea model of the post board.
type Model struct {
	ctx       context.Context
	session   *session.Session
	keys      keyMap
	help      help.Model
	theme     Theme
	prefs     prefs.Prefs
	prefsPath string
	logPath   string
	logger    *zap.Logger
	redraw    time.Duration

	mode   mode
	width  int
	height int
	cursor int

	search        textinput.Model
	form          form
	detail        viewport.Model
	pendingDelete int64

	flash       string
	flashErr    bool
	lastUpdated time.Time
	quitting    bool
}

// New builds the model. Call Run to drive it in a terminal.
func New(opts Options) (Model, error) {
	if opts.Session == nil {
		return Model{}, errors.New("ui requires a session")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	redraw := opts.Redraw
	if redraw <= 0 {
		redraw = DefaultRedraw
	}

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "title contains…"

	return Model{
		ctx:       ctx,
		session:   opts.Session,
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.Prefs.Theme),
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		logPath:   opts.LogPath,
		logger:    logger.Named("ui"),
		redraw:    redraw,
		search:    search,
		detail:    viewport.New(0, 0),
		flash:     "loading posts…",
	}, nil
}

// Run starts the program on the alternate screen and blocks until quit.
func Run(opts Options) error {
	model, err := New(opts)
	if err != nil {
		return err
	}
	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(model.ctx))
	_, err = program.Run()
	if errors.Is(err, tea.ErrProgramKilled) && model.ctx.Err() != nil {
		return nil
	}
	return err
}

// Init loads the collection and starts the redraw ticker.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.fetchCmd(), m.redrawCmd())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.help.Width = msg.Width
		m.resizeDetail()
		return m, nil

	case redrawMsg:
		m.clampCursor()
		return m, m.redrawCmd()

	case opDoneMsg:
		m.handleOpDone(msg)
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m.quit()
		}
		switch m.mode {
		case modeSearch:
			return m.handleSearchKey(msg)
		case modeForm:
			return m.handleFormKey(msg)
		case modeDetail:
			return m.handleDetailKey(msg)
		case modeConfirmDelete:
			return m.handleConfirmKey(msg)
		}
		return m.handleListKey(msg)
	}
	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	coord := m.session.Coordinator()

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m.quit()
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
	case key.Matches(msg, m.keys.Escape):
		m.flash = ""

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.session.View().Items)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.PrevPage):
		coord.PrevPage()
		m.cursor = 0
	case key.Matches(msg, m.keys.NextPage):
		coord.NextPage()
		m.cursor = 0
	case key.Matches(msg, m.keys.Open):
		if rec, ok := m.selected(); ok {
			m.openDetail(rec)
		}

	case key.Matches(msg, m.keys.Search):
		m.mode = modeSearch
		m.search.SetValue(m.session.Params().Search)
		return m, m.search.Focus()
	case key.Matches(msg, m.keys.CycleOwner):
		coord.CycleOwner()
		m.cursor = 0
	case key.Matches(msg, m.keys.CycleSort):
		coord.CycleSortKey()
	case key.Matches(msg, m.keys.FlipSort):
		coord.ToggleDirection()
	case key.Matches(msg, m.keys.Grow):
		coord.SetPageSize(stepPageSize(m.session.Params().PageSize, 1))
		m.clampCursor()
	case key.Matches(msg, m.keys.Shrink):
		coord.SetPageSize(stepPageSize(m.session.Params().PageSize, -1))
		m.clampCursor()
	case key.Matches(msg, m.keys.ClearAll):
		coord.ClearAll()
		m.cursor = 0

	case key.Matches(msg, m.keys.New):
		m.form = newForm(nil)
		m.mode = modeForm
		return m, m.form.focusCmd()
	case key.Matches(msg, m.keys.Edit):
		if rec, ok := m.selected(); ok {
			m.form = newForm(&rec)
			m.mode = modeForm
			return m, m.form.focusCmd()
		}
	case key.Matches(msg, m.keys.Delete):
		if rec, ok := m.selected(); ok {
			m.pendingDelete = rec.ID
			m.mode = modeConfirmDelete
		}
	case key.Matches(msg, m.keys.Refetch):
		m.setFlash("reloading…", false)
		return m, m.fetchCmd()
	}
	return m, nil
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.mode = modeList
		m.search.Blur()
		return m, nil
	case tea.KeyEsc:
		m.mode = modeList
		m.search.Blur()
		m.search.SetValue("")
		m.session.Coordinator().ClearSearch()
		m.cursor = 0
		return m, nil
	}

	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	if value := m.search.Value(); value != m.session.Params().Search {
		m.session.Coordinator().SetSearch(value)
		m.cursor = 0
	}
	return m, cmd
}

func (m Model) handleConfirmKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	id := m.pendingDelete
	m.pendingDelete = 0
	m.mode = modeList
	if msg.String() != "y" && msg.String() != "Y" {
		m.setFlash("delete cancelled", false)
		return m, nil
	}
	m.setFlash(fmt.Sprintf("deleting #%d…", id), false)
	return m, m.deleteCmd(id)
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.savePrefs()
	m.quitting = true
	return m, tea.Quit
}

func (m *Model) savePrefs() {
	if m.prefsPath == "" {
		return
	}
	m.prefs.Theme = m.theme.Name
	m.prefs = m.prefs.Capture(m.session.Params())
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		m.logger.Warn("save preferences", zap.String("path", m.prefsPath), zap.Error(err))
	}
}

func (m *Model) handleOpDone(msg opDoneMsg) {
	if msg.err != nil {
		m.setFlash(fmt.Sprintf("%s failed (%s): %v", msg.op, records.Kind(msg.err), msg.err), true)
		m.clampCursor()
		return
	}
	switch msg.op {
	case session.OpFetch:
		m.lastUpdated = time.Now()
		m.setFlash(fmt.Sprintf("loaded %d posts", msg.count), false)
		m.cursor = 0
	case session.OpCreate:
		m.setFlash(fmt.Sprintf("created #%d", msg.id), false)
		m.cursor = 0
	case session.OpUpdate:
		m.setFlash(fmt.Sprintf("updated #%d", msg.id), false)
	case session.OpDelete:
		m.setFlash(fmt.Sprintf("deleted #%d", msg.id), false)
	}
	m.clampCursor()
}

func (m *Model) setFlash(text string, isErr bool) {
	m.flash = text
	m.flashErr = isErr
}

// selected returns the record under the cursor on the current page.
func (m Model) selected() (records.Record, bool) {
	items := m.session.View().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return records.Record{}, false
	}
	return items[m.cursor], true
}

func (m *Model) clampCursor() {
	n := len(m.session.View().Items)
	if m.cursor >= n {
		m.cursor = n - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
}

func (m Model) contentWidth() int {
	if m.width <= 0 {
		return 80
	}
	return m.width
}

func stepPageSize(current, dir int) int {
	if dir > 0 {
		for _, size := range pageSizes {
			if size > current {
				return size
			}
		}
		return pageSizes[len(pageSizes)-1]
	}
	for i := len(pageSizes) - 1; i >= 0; i-- {
		if pageSizes[i] < current {
			return pageSizes[i]
		}
	}
	return pageSizes[0]
}

// View implements tea.Model.
func (m Model) View() string {
	if m.quitting {
		return ""
	}
	var body string
	switch m.mode {
	case modeDetail:
		body = m.renderDetail()
	case modeForm:
		body = m.renderForm()
	default:
		body = m.renderTable()
	}
	return lipgloss.JoinVertical(lipgloss.Left, m.renderHeader(), body, m.renderFooter())
}

// currentView is a shorthand used by the renderers.
func (m Model) currentView() query.View {
	return m.session.View()
}
