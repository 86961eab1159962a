package tui

import (
	"log/slog"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"

	"github.com/csheth/ragdesk/internal/rag"
	"github.com/csheth/ragdesk/internal/session"
)

// Config wires runtime options into the TUI program.
type Config struct {
	Controller  *session.Controller
	Credentials rag.Credentials
	// APILabel is shown on both screens; "(same origin)" when no base is set.
	APILabel string
	// MarkdownStyle names a glamour standard style ("dark", "light", "notty").
	// Empty disables markdown rendering of answers.
	MarkdownStyle string
}

// New returns a tea.Model ready to be mounted into a Program.
func New(config Config) tea.Model {
	if config.Controller == nil {
		config.Controller = session.NewController(rag.New(rag.Config{}))
	}
	state := session.New(config.Credentials)

	// CharLimit 0 leaves the inputs unbounded. Values reach the service as typed.
	username := textinput.New()
	username.Placeholder = usernamePlaceholder
	username.CharLimit = 0
	username.Width = inputWidth
	username.SetValue(state.Credentials.Username)
	username.Focus()

	password := textinput.New()
	password.Placeholder = passwordPlaceholder
	password.EchoMode = textinput.EchoPassword
	password.EchoCharacter = '•'
	password.CharLimit = 0
	password.Width = inputWidth
	password.SetValue(state.Credentials.Password)

	question := textinput.New()
	question.Placeholder = questionPlaceholder
	question.CharLimit = 0
	question.Width = inputWidth

	spin := spinner.New()
	spin.Spinner = spinner.Dot

	layout := newPageLayout()
	vp := viewport.New(layout.viewportWidth, layout.viewportHeight)
	vp.MouseWheelEnabled = true

	m := &model{
		config:        config,
		state:         state,
		username:      username,
		password:      password,
		question:      question,
		focus:         fieldUsername,
		spinner:       spin,
		viewport:      vp,
		layout:        layout,
		jobs:          newJobBus(),
		running:       map[string]jobSnapshot{},
		keys:          defaultKeyMap(),
		viewportDirty: true,
	}
	m.renderer = m.newMarkdownRenderer()
	return m
}

type model struct {
	config   Config
	state    session.State
	identity rag.Identity

	username textinput.Model
	password textinput.Model
	question textinput.Model
	focus    loginField
	spinner  spinner.Model
	viewport viewport.Model
	layout   pageLayout
	keys     keyMap
	renderer *glamour.TermRenderer

	jobs          *jobBus
	running       map[string]jobSnapshot
	lastJob       jobSnapshot
	viewportDirty bool
}

func (m *model) Init() tea.Cmd {
	return textinput.Blink
}

func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		if len(m.running) > 0 {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, m.handleKey(msg)
	case tea.MouseMsg:
		if m.state.SignedIn() {
			var cmd tea.Cmd
			m.viewport, cmd = m.viewport.Update(msg)
			return m, cmd
		}
		return m, nil
	case jobSignalMsg:
		m.running[msg.Snapshot.ID] = msg.Snapshot
		return m, nil
	case jobResultEnvelope:
		delete(m.running, msg.Snapshot.ID)
		m.lastJob = msg.Snapshot
		if msg.Payload == nil {
			return m, nil
		}
		return m.Update(msg.Payload)
	case loginResultMsg:
		m.handleLoginResult(msg)
		return m, nil
	case askResultMsg:
		m.state = session.CompleteAsk(m.state, msg.outcome)
		m.markViewportDirty()
		return m, nil
	case tea.WindowSizeMsg:
		m.layout.Update(msg.Width, msg.Height)
		m.viewport.Width = m.layout.viewportWidth
		m.viewport.Height = m.layout.viewportHeight
		m.renderer = m.newMarkdownRenderer()
		m.markViewportDirty()
		return m, nil
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	switch m.state.Auth.(type) {
	case session.Authenticated:
		return m.handleQueryKey(msg)
	default:
		return m.handleLoginKey(msg)
	}
}

func (m *model) handleLoginKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.startLogin()
	case key.Matches(msg, m.keys.NextField), key.Matches(msg, m.keys.PrevField):
		m.toggleLoginFocus()
		return nil
	}

	var cmd tea.Cmd
	switch m.focus {
	case fieldPassword:
		m.password, cmd = m.password.Update(msg)
		m.dispatch(session.Event{Kind: session.PasswordChanged, Value: m.password.Value()})
	default:
		m.username, cmd = m.username.Update(msg)
		m.dispatch(session.Event{Kind: session.UsernameChanged, Value: m.username.Value()})
	}
	return cmd
}

func (m *model) handleQueryKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		return m.startAsk()
	case key.Matches(msg, m.keys.NextSource):
		m.dispatch(session.Event{Kind: session.SourceCycled, Step: 1})
		return nil
	case key.Matches(msg, m.keys.PrevSource):
		m.dispatch(session.Event{Kind: session.SourceCycled, Step: -1})
		return nil
	case key.Matches(msg, m.keys.ScrollUp):
		m.viewport.HalfViewUp()
		return nil
	case key.Matches(msg, m.keys.ScrollDown):
		m.viewport.HalfViewDown()
		return nil
	}

	var cmd tea.Cmd
	m.question, cmd = m.question.Update(msg)
	m.dispatch(session.Event{Kind: session.QuestionChanged, Value: m.question.Value()})
	return cmd
}

func (m *model) dispatch(ev session.Event) {
	m.state = session.Reduce(m.state, ev)
}

func (m *model) toggleLoginFocus() {
	if m.focus == fieldUsername {
		m.focus = fieldPassword
		m.username.Blur()
		m.password.Focus()
		return
	}
	m.focus = fieldUsername
	m.password.Blur()
	m.username.Focus()
}

func (m *model) startLogin() tea.Cmd {
	m.state = session.BeginLogin(m.state)
	job := m.jobs.Start(jobKindLogin, loginJob(m.config.Controller, m.state.Credentials))
	return tea.Batch(m.spinner.Tick, job)
}

func (m *model) startAsk() tea.Cmd {
	m.state = session.BeginAsk(m.state)
	m.markViewportDirty()
	job := m.jobs.Start(jobKindAsk, askJob(m.config.Controller, m.state.Token(), m.state.Draft))
	return tea.Batch(m.spinner.Tick, job)
}

func (m *model) handleLoginResult(msg loginResultMsg) {
	wasSignedIn := m.state.SignedIn()
	m.state = session.CompleteLogin(m.state, msg.outcome)
	if wasSignedIn || !m.state.SignedIn() {
		return
	}
	if identity, err := rag.Claims(m.state.Token()); err == nil {
		m.identity = identity
		slog.Info("signed in", "subject", identity.Subject, "role", identity.Role)
	} else {
		m.identity = rag.Identity{}
		slog.Info("signed in with an opaque token")
	}
	m.username.Blur()
	m.password.Blur()
	m.question.Focus()
	m.markViewportDirty()
}

func (m *model) markViewportDirty() {
	m.viewportDirty = true
}

func (m *model) refreshViewportIfDirty() {
	if !m.viewportDirty {
		return
	}
	m.viewportDirty = false
	content := resultContent(m.state.Result.Answer, m.state.Result.Sources, m.layout.wrapWidth(2), m.renderer)
	m.viewport.SetContent(content)
	m.viewport.GotoTop()
}

func (m *model) newMarkdownRenderer() *glamour.TermRenderer {
	if m.config.MarkdownStyle == "" {
		return nil
	}
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.config.MarkdownStyle),
		glamour.WithWordWrap(m.layout.wrapWidth(4)),
	)
	if err != nil {
		slog.Warn("markdown renderer unavailable", "style", m.config.MarkdownStyle, "err", err)
		return nil
	}
	return renderer
}
