package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/rs/zerolog"

	"github.com/diogo/netchat/internal/chat"
	"github.com/diogo/netchat/internal/models"
	"github.com/diogo/netchat/internal/prompt"
	"github.com/diogo/netchat/internal/render"
	"github.com/diogo/netchat/internal/session"
)

const statusTTL = 3 * time.Second

// Animation tick message
type animationTickMsg time.Time

type (
	// replyMsg carries the model turn recorded by the controller
	replyMsg struct {
		turn models.Turn
	}
	clearStatusMsg struct {
		seq int
	}
)

// Options configures the chat TUI
type Options struct {
	ModelName string
	Markdown  render.Options
	// Copy writes text to the system clipboard; defaults to atotto/clipboard
	Copy   func(string) error
	Logger zerolog.Logger
}

// Model represents the TUI state
type Model struct {
	ctrl      *chat.Controller
	topic     string
	modelName string
	mdOpts    render.Options
	copy      func(string) error
	logger    zerolog.Logger

	viewport viewport.Model
	textarea textarea.Model
	spinner  spinner.Model

	loading        bool
	ready          bool
	animationFrame int

	status     string
	statusWarn bool
	statusSeq  int

	width  int
	height int
}

// NewChatModel creates a chat model driving ctrl
func NewChatModel(ctrl *chat.Controller, opts Options) Model {
	topic := ctrl.Instruction().Topic()

	ta := textarea.New()
	ta.Placeholder = prompt.Placeholder(topic)
	ta.CharLimit = 4000
	ta.ShowLineNumbers = false
	ta.SetHeight(2)
	ta.Focus()

	ta.FocusedStyle.CursorLine = lipgloss.NewStyle()
	ta.FocusedStyle.Base = lipgloss.NewStyle().Foreground(colorText)
	ta.FocusedStyle.Placeholder = lipgloss.NewStyle().Foreground(colorDim)
	ta.BlurredStyle = ta.FocusedStyle

	s := spinner.New()
	s.Spinner = spinner.Points
	s.Style = loadingStyle

	mdOpts := opts.Markdown
	if mdOpts.Style == "" {
		mdOpts = render.DefaultOptions()
	}

	copyFn := opts.Copy
	if copyFn == nil {
		copyFn = clipboard.WriteAll
	}

	ctrl.Await()

	return Model{
		ctrl:      ctrl,
		topic:     topic,
		modelName: opts.ModelName,
		mdOpts:    mdOpts,
		copy:      copyFn,
		logger:    opts.Logger,
		textarea:  ta,
		spinner:   s,
	}
}

// Init initializes the model
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		textarea.Blink,
		m.spinner.Tick,
	)
}

func animationTick() tea.Cmd {
	return tea.Tick(time.Millisecond*80, func(t time.Time) tea.Msg {
		return animationTickMsg(t)
	})
}

// isExitCommand reports whether input ends the session
func isExitCommand(input string) bool {
	switch strings.ToLower(input) {
	case "exit", "quit", "/exit", "/quit":
		return true
	}
	return false
}

// Update handles messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

		headerHeight := 4
		inputHeight := 6
		statusHeight := 2
		padding := 2

		vpHeight := m.height - headerHeight - inputHeight - statusHeight - padding
		if vpHeight < 5 {
			vpHeight = 5
		}

		contentWidth := m.width - 4

		if !m.ready {
			m.viewport = viewport.New(contentWidth, vpHeight)
			m.ready = true
		} else {
			if m.viewport.Width != contentWidth {
				// renderers are keyed by wrap width; old widths won't come back
				m.logger.Debug().Int("pools", render.CacheSize()).Msg("dropping markdown renderers")
				render.ClearCache()
			}
			m.viewport.Width = contentWidth
			m.viewport.Height = vpHeight
		}
		m.textarea.SetWidth(contentWidth - 4)
		m.updateViewport()

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit

		case "ctrl+l":
			cmd = m.reset()
			return m, cmd

		case "ctrl+y":
			cmd = m.copyLastReply()
			return m, cmd

		case "enter":
			if m.loading {
				return m, nil
			}
			return m.submit()
		}

	case replyMsg:
		m.loading = false
		if err := m.ctrl.LastError(); err != nil {
			m.logger.Debug().Err(err).Msg("reply replaced by error text")
		}
		m.ctrl.Await()
		m.updateViewport()
		m.viewport.GotoBottom()

	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}

	case spinner.TickMsg:
		if m.loading {
			m.spinner, cmd = m.spinner.Update(msg)
			cmds = append(cmds, cmd)
		}

	case animationTickMsg:
		if m.loading {
			m.animationFrame++
			cmds = append(cmds, animationTick())
		}
	}

	// Only key presses reach the textarea so escape sequences don't leak into it
	if !m.loading {
		if _, ok := msg.(tea.KeyMsg); ok {
			m.textarea, cmd = m.textarea.Update(msg)
			cmds = append(cmds, cmd)
		}
	}

	if scrollsViewport(msg) {
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// scrollsViewport reports whether msg may reach the viewport. Typed text
// belongs to the input, so letters and space must not trigger the
// viewport's single-key bindings.
func scrollsViewport(msg tea.Msg) bool {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return true
	}
	switch key.Type {
	case tea.KeyRunes, tea.KeySpace:
		return false
	}
	return true
}

// submit handles the enter key: local commands first, then a chat turn
func (m Model) submit() (tea.Model, tea.Cmd) {
	raw := m.textarea.Value()
	input := strings.TrimSpace(raw)

	switch {
	case input == "":
		m.textarea.Reset()
		return m, nil

	case isExitCommand(input):
		return m, tea.Quit

	case input == "/clear":
		m.textarea.Reset()
		cmd := m.reset()
		return m, cmd

	case input == "/save" || strings.HasPrefix(input, "/save "):
		m.textarea.Reset()
		cmd := m.save(strings.TrimSpace(strings.TrimPrefix(input, "/save")))
		return m, cmd
	}

	if _, ok := m.ctrl.Begin(raw); !ok {
		return m, nil
	}

	m.textarea.Reset()
	m.status = ""
	m.loading = true
	m.animationFrame = 0
	m.updateViewport()
	m.viewport.GotoBottom()

	return m, tea.Batch(
		m.completeTurn(),
		m.spinner.Tick,
		animationTick(),
	)
}

// completeTurn runs the inference call off the UI goroutine
func (m Model) completeTurn() tea.Cmd {
	ctrl := m.ctrl
	return func() tea.Msg {
		return replyMsg{turn: ctrl.Complete(context.Background())}
	}
}

func (m *Model) reset() tea.Cmd {
	if err := m.ctrl.Reset(); err != nil {
		return m.setStatus("Wait for the current reply before clearing", true)
	}
	m.ctrl.Await()
	m.updateViewport()
	m.viewport.GotoTop()
	return m.setStatus("Conversation cleared", false)
}

func (m *Model) copyLastReply() tea.Cmd {
	turn, ok := m.ctrl.Transcript().LastOf(models.RoleModel)
	if !ok {
		return m.setStatus("Nothing to copy yet", true)
	}
	if err := m.copy(turn.Content); err != nil {
		m.logger.Warn().Err(err).Msg("clipboard copy failed")
		return m.setStatus("Clipboard unavailable: "+err.Error(), true)
	}
	return m.setStatus("Last reply copied to clipboard", false)
}

func (m *Model) save(path string) tea.Cmd {
	t := m.ctrl.Transcript()
	if path == "" {
		path = fmt.Sprintf("netchat-%s.md", shortID(t.ID))
	}

	opts := session.ExportOptions{
		Title: "Expert Chat: " + m.topic,
		Model: m.modelName,
	}
	if err := session.WriteFile(path, t, opts); err != nil {
		m.logger.Error().Err(err).Str("path", path).Msg("export failed")
		return m.setStatus("Export failed: "+err.Error(), true)
	}
	return m.setStatus("Saved to "+path, false)
}

func (m *Model) setStatus(text string, warn bool) tea.Cmd {
	m.status = text
	m.statusWarn = warn
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTTL, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// View renders the TUI
func (m Model) View() string {
	if !m.ready {
		return loadingStyle.Render("  Initializing...")
	}

	var sections []string
	contentWidth := m.width - 4

	headerParts := []string{titleStyle.Render("✦ Expert Chat: " + m.topic)}
	if m.modelName != "" {
		headerParts = append(headerParts,
			hintStyle.Render("  •  "),
			subtitleStyle.Render(m.modelName),
		)
	}
	header := headerStyle.Width(contentWidth).Render(lipgloss.JoinHorizontal(lipgloss.Center, headerParts...))
	sections = append(sections, header)

	var messagesContent string
	if m.ctrl.Transcript().Len() == 0 {
		messagesContent = m.renderWelcome()
	} else {
		messagesContent = m.viewport.View()
	}
	messagesPanel := messagesAreaStyle.
		Width(contentWidth).
		Height(m.viewport.Height).
		Render(messagesContent)
	sections = append(sections, messagesPanel)

	var inputContent string
	if m.loading {
		inputContent = m.renderLoadingAnimation()
	} else {
		inputContent = lipgloss.JoinVertical(
			lipgloss.Left,
			inputLabelStyle.Render("You"),
			m.textarea.View(),
		)
	}
	sections = append(sections, inputPanelStyle.Width(contentWidth).Render(inputContent))

	sections = append(sections, m.renderStatusBar(contentWidth))

	if m.status != "" {
		style := noticeStyle
		if m.statusWarn {
			style = warningStyle
		}
		sections = append(sections, style.Width(contentWidth).Align(lipgloss.Center).Render(m.status))
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderWelcome() string {
	width := m.viewport.Width - 4
	height := m.viewport.Height

	icon := welcomeIconStyle.Width(width).Render("✦")
	title := welcomeTitleStyle.Width(width).Render("Expert Chat: " + m.topic)
	subtitle := welcomeStyle.Width(width).Render(prompt.Welcome(m.topic))

	content := lipgloss.JoinVertical(
		lipgloss.Center,
		"",
		icon,
		"",
		title,
		"",
		subtitle,
		"",
	)

	topPadding := (height - lipgloss.Height(content)) / 2
	if topPadding < 0 {
		topPadding = 0
	}

	return strings.Repeat("\n", topPadding) + content
}

// renderLoadingAnimation draws the thinking indicator in the palette gradient
func (m Model) renderLoadingAnimation() string {
	chars := []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}
	barChars := []string{"█", "█", "█", "█", "▓", "▒", "░"}

	frame := m.animationFrame
	colors := gradientColors
	if len(colors) == 0 {
		colors = []lipgloss.Color{colorAccent}
	}

	spin := lipgloss.NewStyle().
		Foreground(colors[frame%len(colors)]).
		Bold(true).
		Render(chars[frame%len(chars)])

	barWidth := 16
	var bar strings.Builder
	for i := 0; i < barWidth; i++ {
		style := lipgloss.NewStyle().Foreground(colors[(i+frame)%len(colors)])
		bar.WriteString(style.Render(barChars[(i+frame/2)%len(barChars)]))
	}

	var dots strings.Builder
	numDots := (frame / 3) % 4
	for i := 0; i < 3; i++ {
		if i < numDots {
			dots.WriteString(lipgloss.NewStyle().Foreground(colors[(frame+i)%len(colors)]).Render("●"))
		} else {
			dots.WriteString(lipgloss.NewStyle().Foreground(colorMute).Render("○"))
		}
	}

	text := lipgloss.NewStyle().Foreground(colorText).Render(" Thinking ")

	return fmt.Sprintf("%s %s %s %s", spin, bar.String(), text, dots.String())
}

func (m Model) renderStatusBar(width int) string {
	shortcuts := []struct {
		key  string
		desc string
	}{
		{"Enter", "Send"},
		{"Ctrl+L", "Clear"},
		{"Ctrl+Y", "Copy reply"},
		{"/save", "Export"},
		{"Esc", "Quit"},
	}

	items := make([]string, 0, len(shortcuts))
	for _, s := range shortcuts {
		items = append(items, statusKeyStyle.Render(s.key)+statusDescStyle.Render(" "+s.desc))
	}

	return statusBarStyle.Width(width).Align(lipgloss.Center).Render(strings.Join(items, "  │  "))
}

// updateViewport renders the transcript into the viewport
func (m *Model) updateViewport() {
	if !m.ready {
		return
	}

	var content strings.Builder
	bubbleWidth := m.viewport.Width - 6
	mdOpts := m.mdOpts.WithWidth(bubbleWidth - 4).WithCompact(true)

	for i, turn := range m.ctrl.Transcript().Turns() {
		if i > 0 {
			content.WriteString("\n")
		}

		if turn.Role == models.RoleUser {
			label := userLabelStyle.Render("⬤ You")
			bubble := userBubbleStyle.Width(bubbleWidth).Render(turn.Content)
			content.WriteString(label + "\n" + bubble)
		} else {
			label := modelLabelStyle.Render("✦ Expert")
			rendered := strings.TrimRight(render.MarkdownOrPlain(turn.Content, mdOpts), "\n")
			bubble := modelBubbleStyle.Width(bubbleWidth).Render(rendered)
			content.WriteString(label + "\n" + bubble)
		}
		content.WriteString("\n")
	}

	m.viewport.SetContent(content.String())
}

// RunChat starts the chat TUI and blocks until the user quits
func RunChat(ctrl *chat.Controller, opts Options) error {
	p := tea.NewProgram(
		NewChatModel(ctrl, opts),
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
