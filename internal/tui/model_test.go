package tui

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"google.golang.org/api/googleapi"

	"github.com/diogo/netchat/internal/api"
	"github.com/diogo/netchat/internal/chat"
	apierrors "github.com/diogo/netchat/internal/errors"
	"github.com/diogo/netchat/internal/models"
	"github.com/diogo/netchat/internal/prompt"
	"github.com/diogo/netchat/internal/render"
	"github.com/diogo/netchat/internal/session"
)

type fakeClipboard struct {
	text string
	err  error
}

func (f *fakeClipboard) write(s string) error {
	if f.err != nil {
		return f.err
	}
	f.text = s
	return nil
}

func newTestModel(t *testing.T, mock *api.MockGenerator) (Model, *chat.Controller, *fakeClipboard) {
	t.Helper()

	ctrl := chat.NewController(session.New(), api.NewInvoker(mock), prompt.Default())
	cb := &fakeClipboard{}
	m := NewChatModel(ctrl, Options{
		ModelName: "gemini-2.5-flash",
		Markdown:  render.DefaultOptions().WithStyle(render.StyleNoTTY),
		Copy:      cb.write,
	})

	updated, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return updated.(Model), ctrl, cb
}

func typeAndSubmit(m Model, text string) (Model, tea.Cmd) {
	m.textarea.SetValue(text)
	updated, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	return updated.(Model), cmd
}

func isQuit(cmd tea.Cmd) bool {
	if cmd == nil {
		return false
	}
	_, ok := cmd().(tea.QuitMsg)
	return ok
}

func TestNewChatModel(t *testing.T) {
	m, ctrl, _ := newTestModel(t, &api.MockGenerator{})

	if ctrl.State() != chat.AwaitingInput {
		t.Errorf("State() = %s, want awaiting_input", ctrl.State())
	}
	if m.topic != prompt.DefaultTopic {
		t.Errorf("topic = %q", m.topic)
	}
	if m.textarea.Placeholder != prompt.Placeholder(prompt.DefaultTopic) {
		t.Errorf("Placeholder = %q", m.textarea.Placeholder)
	}
	if !m.ready {
		t.Error("model should be ready after a window size message")
	}
}

func TestView_NotReady(t *testing.T) {
	ctrl := chat.NewController(session.New(), api.NewInvoker(&api.MockGenerator{}), prompt.Default())
	m := NewChatModel(ctrl, Options{})

	if !strings.Contains(m.View(), "Initializing") {
		t.Error("view before sizing should show the initializing message")
	}
}

func TestView_Welcome(t *testing.T) {
	m, _, _ := newTestModel(t, &api.MockGenerator{})

	view := m.View()
	if !strings.Contains(view, "Expert Chat: "+prompt.DefaultTopic) {
		t.Error("header should show the topic")
	}
	if !strings.Contains(view, "gemini-2.5-flash") {
		t.Error("header should show the model name")
	}
}

func TestSubmit_RoundTrip(t *testing.T) {
	mock := &api.MockGenerator{Reply: "# DNS\n\nDNS maps names to addresses."}
	m, ctrl, _ := newTestModel(t, mock)

	m, cmd := typeAndSubmit(m, "What is DNS?")
	if cmd == nil {
		t.Fatal("submit should return a command")
	}
	if !m.loading {
		t.Error("model should be loading after submit")
	}
	if ctrl.Transcript().Len() != 1 {
		t.Errorf("transcript has %d turns, want 1", ctrl.Transcript().Len())
	}
	if m.textarea.Value() != "" {
		t.Error("input should be cleared after submit")
	}

	updated, _ := m.Update(m.completeTurn()())
	m = updated.(Model)

	if m.loading {
		t.Error("model should stop loading after the reply")
	}
	turns := ctrl.Transcript().Turns()
	if len(turns) != 2 || turns[1].Role != models.RoleModel {
		t.Fatalf("transcript = %+v", turns)
	}
	if !strings.Contains(m.View(), "DNS maps names") {
		t.Error("view should show the rendered reply")
	}
	if ctrl.State() != chat.AwaitingInput {
		t.Errorf("State() = %s, want awaiting_input", ctrl.State())
	}
}

func TestSubmit_ErrorShownAsReply(t *testing.T) {
	mock := &api.MockGenerator{Err: errors.New("connection reset by peer")}
	m, ctrl, _ := newTestModel(t, mock)

	m, _ = typeAndSubmit(m, "ping")
	updated, _ := m.Update(m.completeTurn()())
	m = updated.(Model)

	last, _ := ctrl.Transcript().Last()
	if !strings.HasPrefix(last.Content, api.ErrorPrefix) {
		t.Errorf("last turn = %q", last.Content)
	}
	if !strings.Contains(m.View(), "connection reset by peer") {
		t.Error("error text should be rendered like a reply")
	}
}

func TestSubmit_IgnoresWhitespace(t *testing.T) {
	mock := &api.MockGenerator{Reply: "x"}
	m, ctrl, _ := newTestModel(t, mock)

	m, cmd := typeAndSubmit(m, "   \n ")

	if cmd != nil {
		t.Error("whitespace input should not produce a command")
	}
	if m.loading || ctrl.Transcript().Len() != 0 || mock.CallCount() != 0 {
		t.Error("whitespace input should be ignored")
	}
}

func TestSubmit_ExitCommands(t *testing.T) {
	for _, word := range []string{"exit", "quit", "/exit", "/quit", "EXIT"} {
		m, ctrl, _ := newTestModel(t, &api.MockGenerator{})

		_, cmd := typeAndSubmit(m, word)
		if !isQuit(cmd) {
			t.Errorf("%q should quit", word)
		}
		if ctrl.Transcript().Len() != 0 {
			t.Errorf("%q should not be recorded", word)
		}
	}
}

func TestQuitKeys(t *testing.T) {
	for _, key := range []tea.KeyType{tea.KeyEsc, tea.KeyCtrlC} {
		m, _, _ := newTestModel(t, &api.MockGenerator{})
		_, cmd := m.Update(tea.KeyMsg{Type: key})
		if !isQuit(cmd) {
			t.Errorf("key %v should quit", key)
		}
	}
}

func TestEnterIgnoredWhileLoading(t *testing.T) {
	mock := &api.MockGenerator{Reply: "x"}
	m, ctrl, _ := newTestModel(t, mock)

	m, _ = typeAndSubmit(m, "first")
	m, cmd := typeAndSubmit(m, "second")

	if cmd != nil {
		t.Error("enter while loading should do nothing")
	}
	if ctrl.Transcript().Len() != 1 {
		t.Errorf("transcript has %d turns, want 1", ctrl.Transcript().Len())
	}
}

func TestClear(t *testing.T) {
	mock := &api.MockGenerator{Reply: "reply"}
	m, ctrl, _ := newTestModel(t, mock)

	m, _ = typeAndSubmit(m, "q")
	updated, _ := m.Update(m.completeTurn()())
	m = updated.(Model)

	m, cmd := typeAndSubmit(m, "/clear")
	if cmd == nil {
		t.Error("clear should schedule the status timeout")
	}
	if ctrl.Transcript().Len() != 0 {
		t.Error("/clear should reset the transcript")
	}
	if m.status != "Conversation cleared" {
		t.Errorf("status = %q", m.status)
	}
	if mock.CallCount() != 1 {
		t.Error("/clear must not be sent to the model")
	}
}

func TestClear_CtrlL(t *testing.T) {
	m, ctrl, _ := newTestModel(t, &api.MockGenerator{Reply: "r"})
	m, _ = typeAndSubmit(m, "q")
	updated, _ := m.Update(m.completeTurn()())
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)

	if ctrl.Transcript().Len() != 0 {
		t.Error("ctrl+l should reset the transcript")
	}
}

func TestClear_WhileBusy(t *testing.T) {
	m, ctrl, _ := newTestModel(t, &api.MockGenerator{Reply: "r"})
	m, _ = typeAndSubmit(m, "q")

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	m = updated.(Model)

	if ctrl.Transcript().Len() != 1 {
		t.Error("reset should be refused while a reply is pending")
	}
	if !m.statusWarn {
		t.Error("refused reset should show a warning")
	}
}

func TestCopyLastReply(t *testing.T) {
	m, _, cb := newTestModel(t, &api.MockGenerator{Reply: "the answer"})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = updated.(Model)
	if m.status != "Nothing to copy yet" {
		t.Errorf("status = %q", m.status)
	}

	m, _ = typeAndSubmit(m, "q")
	updated, _ = m.Update(m.completeTurn()())
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = updated.(Model)

	if cb.text != "the answer" {
		t.Errorf("clipboard = %q", cb.text)
	}
	if m.statusWarn {
		t.Errorf("unexpected warning: %q", m.status)
	}
}

func TestCopyLastReply_ClipboardError(t *testing.T) {
	m, _, cb := newTestModel(t, &api.MockGenerator{Reply: "r"})
	cb.err = errors.New("no display")

	m, _ = typeAndSubmit(m, "q")
	updated, _ := m.Update(m.completeTurn()())
	m = updated.(Model)

	updated, _ = m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = updated.(Model)

	if !m.statusWarn || !strings.Contains(m.status, "no display") {
		t.Errorf("status = %q, warn = %v", m.status, m.statusWarn)
	}
}

func TestSave(t *testing.T) {
	m, ctrl, _ := newTestModel(t, &api.MockGenerator{Reply: "answer"})
	m, _ = typeAndSubmit(m, "question")
	updated, _ := m.Update(m.completeTurn()())
	m = updated.(Model)

	path := filepath.Join(t.TempDir(), "chat.md")
	m, _ = typeAndSubmit(m, "/save "+path)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("export not written: %v", err)
	}
	if !strings.Contains(string(data), "# Expert Chat: "+prompt.DefaultTopic) {
		t.Errorf("export missing title: %q", data)
	}
	if ctrl.Transcript().Len() != 2 {
		t.Error("/save must not be recorded as a turn")
	}
	if !strings.HasPrefix(m.status, "Saved to") {
		t.Errorf("status = %q", m.status)
	}
}

func TestSave_DefaultPath(t *testing.T) {
	dir := t.TempDir()
	wd, _ := os.Getwd()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
	defer os.Chdir(wd)

	m, ctrl, _ := newTestModel(t, &api.MockGenerator{})
	typeAndSubmit(m, "/save")

	want := filepath.Join(dir, "netchat-"+shortID(ctrl.Transcript().ID)+".md")
	if _, err := os.Stat(want); err != nil {
		t.Errorf("default export path not written: %v", err)
	}
}

func TestStatusClears(t *testing.T) {
	m, _, _ := newTestModel(t, &api.MockGenerator{})

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyCtrlY})
	m = updated.(Model)
	seq := m.statusSeq

	updated, _ = m.Update(clearStatusMsg{seq: seq - 1})
	m = updated.(Model)
	if m.status == "" {
		t.Error("stale clear message should be ignored")
	}

	updated, _ = m.Update(clearStatusMsg{seq: seq})
	m = updated.(Model)
	if m.status != "" {
		t.Error("matching clear message should clear the status")
	}
}

func TestRenderLoadingAnimation(t *testing.T) {
	m, _, _ := newTestModel(t, &api.MockGenerator{})

	for frame := 0; frame < 20; frame++ {
		m.animationFrame = frame
		if !strings.Contains(m.renderLoadingAnimation(), "Thinking") {
			t.Fatalf("frame %d missing label", frame)
		}
	}
}

func TestAnimationTickOnlyWhileLoading(t *testing.T) {
	m, _, _ := newTestModel(t, &api.MockGenerator{})

	updated, _ := m.Update(animationTickMsg{})
	if updated.(Model).animationFrame != 0 {
		t.Error("animation should not advance when idle")
	}
}

func TestFormatError(t *testing.T) {
	if FormatError(nil) != "" {
		t.Error("FormatError(nil) should be empty")
	}
	out := FormatError(errors.New("boom"))
	if !strings.Contains(out, "boom") {
		t.Errorf("FormatError() = %q", out)
	}
}

func TestFormatError_ShowsStatusForRejectedKey(t *testing.T) {
	err := apierrors.Classify(&googleapi.Error{Code: 403, Message: "API key not valid"})

	out := FormatError(err)
	if !strings.Contains(out, "HTTP Status: 403") {
		t.Errorf("FormatError() = %q, want HTTP status line", out)
	}
	if !strings.Contains(out, "Hint:") {
		t.Errorf("FormatError() = %q, want hint", out)
	}
}

func TestUpdateTheme(t *testing.T) {
	defer func() {
		render.SetPalette(render.DefaultPalette)
		UpdateTheme()
	}()

	render.SetPalette("dracula")
	UpdateTheme()

	p, _ := render.PaletteByName("dracula")
	if colorTitle != p.Title {
		t.Errorf("colorTitle = %v, want %v", colorTitle, p.Title)
	}
}

func longReply(lines int) string {
	var sb strings.Builder
	for i := 0; i < lines; i++ {
		sb.WriteString("line of troubleshooting output\n\n")
	}
	return sb.String()
}

func TestTypingDoesNotScrollTranscript(t *testing.T) {
	m, ctrl, _ := newTestModel(t, &api.MockGenerator{})
	ctrl.Transcript().Append(models.UserTurn("show me logs"))
	ctrl.Transcript().Append(models.ModelTurn(longReply(400)))
	m.updateViewport()
	m.viewport.GotoTop()

	for _, r := range "f d j b u k" {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{r}}
		}
		updated, _ := m.Update(msg)
		m = updated.(Model)
	}

	if got := m.textarea.Value(); got != "f d j b u k" {
		t.Errorf("textarea = %q", got)
	}
	if m.viewport.YOffset != 0 {
		t.Errorf("YOffset = %d after typing, want 0", m.viewport.YOffset)
	}

	updated, _ := m.Update(tea.KeyMsg{Type: tea.KeyPgDown})
	m = updated.(Model)
	if m.viewport.YOffset == 0 {
		t.Error("page down should still scroll the transcript")
	}
}

func TestResizeDropsStaleRenderers(t *testing.T) {
	m, ctrl, _ := newTestModel(t, &api.MockGenerator{})
	ctrl.Transcript().Append(models.ModelTurn("**bold** reply"))

	for _, width := range []int{90, 110, 130, 70} {
		updated, _ := m.Update(tea.WindowSizeMsg{Width: width, Height: 40})
		m = updated.(Model)
	}

	if got := render.CacheSize(); got != 1 {
		t.Errorf("CacheSize() = %d after resizes, want 1", got)
	}
}
