package ui

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/blackconnect/internal/config"
	"github.com/five82/blackconnect/internal/document"
	"github.com/five82/blackconnect/internal/reformat"
	"github.com/five82/blackconnect/internal/state"
)

const (
	maxNotifications = 50
	defaultPollTick  = 250 * time.Millisecond
)

// Options configures the UI.
type Options struct {
	Context  context.Context
	Workflow *reformat.Workflow
	Bridge   *Bridge
	Store    *state.Store
	Buffers  []*document.Buffer
	Settings func() config.Settings
	// Endpoint is shown in the header next to the daemon status.
	Endpoint  string
	ThemeName string
	PollTick  time.Duration
}

// fileEntry is one buffer in the file list and its latest operation.
type fileEntry struct {
	buf *document.Buffer
	op  *reformat.Operation
}

// Model is the root application state for Bubble Tea.
type Model struct {
	ctx      context.Context
	workflow *reformat.Workflow
	store    *state.Store
	settings func() config.Settings
	endpoint string
	pollTick time.Duration

	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int

	files    []*fileEntry
	selected int
	daemon   state.DaemonSnapshot
	notes    []reformat.Notification
	message  string
}

// tickMsg drives periodic refresh of operation phases and daemon status.
type tickMsg time.Time

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	pollTick := opts.PollTick
	if pollTick <= 0 {
		pollTick = defaultPollTick
	}
	settings := opts.Settings
	if settings == nil {
		settings = config.Default
	}

	files := make([]*fileEntry, 0, len(opts.Buffers))
	for _, buf := range opts.Buffers {
		files = append(files, &fileEntry{buf: buf})
	}

	return Model{
		ctx:      ctx,
		workflow: opts.Workflow,
		store:    opts.Store,
		settings: settings,
		endpoint: opts.Endpoint,
		pollTick: pollTick,
		theme:    GetTheme(opts.ThemeName),
		keys:     DefaultKeyMap(),
		help:     help.New(),
		files:    files,
	}
}

// Run starts the TUI and blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Workflow == nil || opts.Bridge == nil {
		return fmt.Errorf("ui requires a workflow and a bridge")
	}
	if opts.Context == nil {
		opts.Context = ctx
	}

	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	opts.Bridge.Attach(p)

	_, err := p.Run()
	if err != nil && errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tickCmd(m.pollTick)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tickMsg:
		if m.store != nil {
			m.daemon = m.store.Snapshot()
		}
		return m, tickCmd(m.pollTick)

	case applyMsg:
		msg.fn()
		return m, nil

	case notifyMsg:
		m.notes = append(m.notes, reformat.Notification(msg))
		if len(m.notes) > maxNotifications {
			m.notes = m.notes[len(m.notes)-maxNotifications:]
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))

	case key.Matches(msg, m.keys.Up):
		if m.selected > 0 {
			m.selected--
		}

	case key.Matches(msg, m.keys.Down):
		if m.selected < len(m.files)-1 {
			m.selected++
		}

	case key.Matches(msg, m.keys.Format):
		if entry := m.current(); entry != nil {
			m.reformat(entry)
		}

	case key.Matches(msg, m.keys.FormatAll):
		for _, entry := range m.files {
			m.reformat(entry)
		}

	case key.Matches(msg, m.keys.Cancel):
		if entry := m.current(); entry != nil {
			if m.workflow.Cancel(entry.buf.ID()) {
				m.message = "Cancelled reformat of " + entry.buf.Name()
			} else {
				m.message = "Nothing to cancel"
			}
		}

	case key.Matches(msg, m.keys.Undo):
		if entry := m.current(); entry != nil {
			label, err := entry.buf.Undo()
			if err != nil {
				m.message = err.Error()
			} else {
				m.message = "Undid " + label
			}
		}

	case key.Matches(msg, m.keys.Write):
		if entry := m.current(); entry != nil {
			m.write(entry)
		}
	}
	return m, nil
}

func (m *Model) current() *fileEntry {
	if m.selected < 0 || m.selected >= len(m.files) {
		return nil
	}
	return m.files[m.selected]
}

func (m *Model) reformat(entry *fileEntry) {
	op, err := m.workflow.Process(m.ctx, entry.buf)
	if err != nil {
		m.message = err.Error()
		return
	}
	entry.op = op
	m.message = "Reformatting " + entry.buf.Name()
}

func (m *Model) write(entry *fileEntry) {
	if err := entry.buf.Save(); err != nil {
		m.message = err.Error()
		return
	}
	m.message = "Wrote " + entry.buf.Path()
	if m.settings().TriggerOnSave {
		m.reformat(entry)
	}
}
