package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/user/site-cloner/internal/client"
	"github.com/user/site-cloner/internal/preview"
	"github.com/user/site-cloner/internal/session"
	"go.uber.org/zap"
)

// chromeHeight is the number of lines around the result pane.
const chromeHeight = 12

type cloneDoneMsg struct {
	attempt session.Attempt
	resp    *client.Response
	err     error
}

type copyResetMsg struct {
	token uint64
}

// Options configures the terminal UI.
type Options struct {
	// PreviewURL builds the link shown for o. Nil hides the link.
	PreviewURL func(id string, device preview.Device) string
	Logger     *zap.Logger
}

type Model struct {
	ctx     context.Context
	sess    *session.Session
	opts    Options
	keys    keyMap
	help    help.Model
	input   textinput.Model
	spinner spinner.Model
	result  viewport.Model

	focus  focusArea
	notice string
}

func New(ctx context.Context, sess *session.Session, opts Options) Model {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	ti := textinput.New()
	ti.Placeholder = "https://info.cern.ch"
	ti.Prompt = "URL › "
	ti.CharLimit = 2048
	ti.Width = 60
	ti.SetValue(sess.Snapshot().Draft)
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(indigo)

	m := Model{
		ctx:     ctx,
		sess:    sess,
		opts:    opts,
		keys:    newKeyMap(),
		help:    help.New(),
		input:   ti,
		spinner: sp,
		result:  viewport.New(80, 20),
	}
	m.syncKeys()
	return m
}

func (m Model) Init() tea.Cmd {
	return textinput.Blink
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.input.Width = max(msg.Width-24, 10)
		m.result.Width = max(msg.Width-2, 10)
		m.result.Height = max(msg.Height-chromeHeight, 3)
		m.help.Width = msg.Width
		m.refreshResult()
		return m, nil

	case spinner.TickMsg:
		if !m.sess.Snapshot().Busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case cloneDoneMsg:
		if !m.sess.Resolve(msg.attempt, msg.resp, msg.err) {
			m.opts.Logger.Debug("dropped stale clone response", zap.Uint64("attempt", msg.attempt.ID))
			return m, nil
		}
		if msg.err != nil {
			m.opts.Logger.Debug("clone failed", zap.String("url", msg.attempt.URL), zap.Error(msg.err))
		}
		m.refreshResult()
		m.result.GotoTop()
		if m.sess.Snapshot().Result != "" {
			m.setFocus(focusResult)
		}
		return m, nil

	case copyResetMsg:
		m.sess.ResetCopied(msg.token)
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.focus):
		if m.focus == focusInput {
			m.setFocus(focusResult)
		} else {
			m.setFocus(focusInput)
		}
		return m, nil
	}

	if m.focus == focusInput {
		if key.Matches(msg, m.keys.submit) {
			return m.submit()
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		m.sess.SetDraft(m.input.Value())
		return m, cmd
	}

	switch {
	case key.Matches(msg, m.keys.preview):
		m.sess.ToggleView(session.ViewPreview)
		m.refreshResult()
	case key.Matches(msg, m.keys.code):
		m.sess.ToggleView(session.ViewCode)
		m.refreshResult()
	case key.Matches(msg, m.keys.desktop):
		m.sess.ToggleDevice(preview.DeviceDesktop)
		m.refreshResult()
	case key.Matches(msg, m.keys.mobile):
		m.sess.ToggleDevice(preview.DeviceMobile)
		m.refreshResult()
	case key.Matches(msg, m.keys.copy):
		return m.copy()
	case key.Matches(msg, m.keys.open):
		m.showPreviewURL()
	default:
		var cmd tea.Cmd
		m.result, cmd = m.result.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	if m.sess.Snapshot().Busy {
		return m, nil
	}

	m.notice = ""
	attempt, err := m.sess.Begin(m.input.Value())
	m.refreshResult()
	if err != nil {
		return m, nil
	}

	m.opts.Logger.Debug("clone submitted", zap.String("url", attempt.URL), zap.Uint64("attempt", attempt.ID))
	return m, tea.Batch(m.spinner.Tick, m.cloneCmd(attempt))
}

// cloneCmd runs the request off the event loop. A panic resolves the attempt
// as an unknown failure so busy is always cleared.
func (m Model) cloneCmd(attempt session.Attempt) tea.Cmd {
	sess, ctx := m.sess, m.ctx
	return func() (msg tea.Msg) {
		defer func() {
			if r := recover(); r != nil {
				msg = cloneDoneMsg{attempt: attempt, err: &client.TransportError{}}
			}
		}()
		resp, err := sess.Fetch(ctx, attempt)
		return cloneDoneMsg{attempt: attempt, resp: resp, err: err}
	}
}

func (m Model) copy() (tea.Model, tea.Cmd) {
	token, err := m.sess.Copy()
	if err != nil {
		m.notice = fmt.Sprintf("Copy failed: %v", err)
		return m, nil
	}
	m.notice = ""
	return m, tea.Tick(session.CopiedResetDelay, func(time.Time) tea.Msg {
		return copyResetMsg{token: token}
	})
}

func (m *Model) showPreviewURL() {
	st := m.sess.Snapshot()
	if m.opts.PreviewURL == nil || st.ResultID == "" {
		m.notice = "No preview link available for this result."
		return
	}
	m.notice = "Open in a browser: " + m.opts.PreviewURL(st.ResultID, st.Device)
}

func (m *Model) setFocus(f focusArea) {
	m.focus = f
	if f == focusInput {
		m.input.Focus()
	} else {
		m.input.Blur()
	}
}

// syncKeys enables only the bindings that apply to the current view.
func (m *Model) syncKeys() {
	st := m.sess.Snapshot()
	hasResult := st.Result != ""
	inPreview := st.View == session.ViewPreview

	m.keys.preview.SetEnabled(hasResult)
	m.keys.code.SetEnabled(hasResult)
	m.keys.desktop.SetEnabled(hasResult && inPreview)
	m.keys.mobile.SetEnabled(hasResult && inPreview)
	m.keys.copy.SetEnabled(hasResult && !inPreview)
	m.keys.open.SetEnabled(hasResult && inPreview)
	m.keys.scroll.SetEnabled(hasResult)
}

func (m *Model) refreshResult() {
	m.syncKeys()
	st := m.sess.Snapshot()
	switch {
	case st.Result == "":
		m.result.SetContent("")
	case st.View == session.ViewCode:
		m.result.SetContent(st.Result)
	default:
		m.result.SetContent(preview.Text(st.Result, st.Device))
	}
}

func (m Model) View() string {
	st := m.sess.Snapshot()
	var b strings.Builder

	b.WriteString(titleStyle.Render("Website Cloner"))
	b.WriteString("\n")
	b.WriteString(subtitleStyle.Render("Enter a URL to clone its design and layout."))
	b.WriteString("\n\n")

	button := buttonStyle.Render("Clone Website")
	if st.Busy {
		button = busyButtonStyle.Render(m.spinner.View() + " Cloning...")
	}
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Center, m.input.View(), "  ", button))
	b.WriteString("\n\n")

	if st.Err != "" {
		b.WriteString(errorStyle.Render("Error: " + st.Err))
		b.WriteString("\n\n")
	}

	if st.Result != "" {
		b.WriteString(m.toolbar(st))
		b.WriteString("\n")
		pane := paneStyle
		if m.focus == focusResult {
			pane = focusedPaneStyle
		}
		b.WriteString(pane.Render(m.result.View()))
		b.WriteString("\n")
	}

	if m.notice != "" {
		b.WriteString(noticeStyle.Render(m.notice))
		b.WriteString("\n")
	}

	b.WriteString(m.help.ShortHelpView(m.keys.shortHelp(m.focus)))
	return b.String()
}

// toolbar renders the view tabs plus the device toggle in preview or the
// copy button in code view.
func (m Model) toolbar(st session.State) string {
	tabs := tab("Preview", st.View == session.ViewPreview) + tab("Code", st.View == session.ViewCode)

	var extra string
	if st.View == session.ViewPreview {
		extra = tab("Desktop", st.Device == preview.DeviceDesktop) + tab("Mobile", st.Device == preview.DeviceMobile)
	} else if st.Copied {
		extra = copiedStyle.Render("Copied!")
	} else {
		extra = inactiveTabStyle.Render("Copy Code")
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs, "   ", extra)
}

// Run starts the UI on the alternate screen and blocks until it exits.
func Run(ctx context.Context, sess *session.Session, opts Options) error {
	p := tea.NewProgram(New(ctx, sess, opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}
