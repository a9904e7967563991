package tui

import (
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/cascade/internal/archive"
	"github.com/kingrea/cascade/internal/config"
)

func TestHappyPathLeavesSortedTranscript(t *testing.T) {
	app := newTestApp(t)

	typeLine(t, app, "3")
	typeLine(t, app, "1 5 3")
	typeLine(t, app, "2")
	cmd := typeLine(t, app, "2 2")

	assertQuit(t, cmd)
	if !app.step.IsTerminal() {
		t.Fatalf("expected terminal step, got %s", app.step)
	}

	banner := strings.Repeat("*", 67)
	want := strings.Join([]string{
		banner,
		"How many would you want to place in the first array? (max 10): 3",
		"Enter 3 elements: 1 5 3",
		banner,
		"How many would you want to place in the second array? (max 10): 2",
		"Enter 2 elements: 2 2",
		banner,
		"Merged and sorted array: 5 3 2 2 1",
	}, "\n") + "\n"
	if got := app.View(); got != want {
		t.Fatalf("final transcript mismatch\ngot:\n%s\nwant:\n%s", got, want)
	}
}

func TestSingleElementSequences(t *testing.T) {
	app := newTestApp(t)

	typeLine(t, app, "1")
	typeLine(t, app, "7")
	typeLine(t, app, "1")
	cmd := typeLine(t, app, "3")

	assertQuit(t, cmd)
	if !strings.Contains(app.View(), "Merged and sorted array: 7 3") {
		t.Fatalf("expected 7 3 result, view:\n%s", app.View())
	}
}

func TestSizeRetriesUntilPositiveWholeNumber(t *testing.T) {
	app := newTestApp(t)

	for _, bad := range []string{"abc", "0", "-2", "2.5"} {
		typeLine(t, app, bad)
		if app.step != stepFirstSize {
			t.Fatalf("size %q advanced the step to %s", bad, app.step)
		}
		if !strings.Contains(app.View(), retrySizePrompt) {
			t.Fatalf("retry prompt missing after %q, view:\n%s", bad, app.View())
		}
	}

	typeLine(t, app, "3")
	if app.step != stepFirstValues {
		t.Fatalf("valid size did not advance, step is %s", app.step)
	}
	if app.firstSize != 3 {
		t.Fatalf("firstSize = %d, want 3", app.firstSize)
	}
	// Every attempt, failed ones included, stays in the scrollback.
	joined := strings.Join(app.transcript, "\n")
	for _, echoed := range []string{"abc", promptFirstSize + "abc", retrySizePrompt + "0", retrySizePrompt + "3"} {
		if !strings.Contains(joined, echoed) {
			t.Fatalf("transcript missing %q:\n%s", echoed, joined)
		}
	}
}

func TestOversizedRequestIsClamped(t *testing.T) {
	app := newTestApp(t)

	typeLine(t, app, "15")
	if app.firstSize != 10 {
		t.Fatalf("firstSize = %d, want 10", app.firstSize)
	}
	if !strings.Contains(app.View(), "Enter 10 elements: ") {
		t.Fatalf("expected clamped element prompt, view:\n%s", app.View())
	}
}

func TestValuesSpreadAcrossLinesWithRetry(t *testing.T) {
	app := newTestApp(t)
	typeLine(t, app, "3")

	// One good value then a bad token: keep the 1, ask again.
	typeLine(t, app, "1 x")
	if len(app.first) != 1 || app.first[0] != 1 {
		t.Fatalf("good prefix not kept, first = %v", app.first)
	}
	if !strings.Contains(app.View(), retryValuePrompt) {
		t.Fatalf("value retry prompt missing, view:\n%s", app.View())
	}

	// The remaining two arrive on one line and complete the sequence.
	typeLine(t, app, "5 3")
	if app.step != stepSecondSize {
		t.Fatalf("expected second size step, got %s", app.step)
	}
	if len(app.first) != 3 {
		t.Fatalf("first = %v, want 3 values", app.first)
	}

	banner := strings.Repeat("*", 67)
	count := 0
	for _, line := range app.transcript {
		if line == banner {
			count++
		}
	}
	if count != 2 {
		t.Fatalf("expected 2 banners before the second size prompt, got %d", count)
	}
}

func TestExtraValueTokensAreIgnored(t *testing.T) {
	app := newTestApp(t)
	typeLine(t, app, "1")

	typeLine(t, app, "7 8 9")
	if len(app.first) != 1 || app.first[0] != 7 {
		t.Fatalf("first = %v, want [7]", app.first)
	}
	if app.step != stepSecondSize {
		t.Fatalf("expected second size step, got %s", app.step)
	}
}

func TestBlankLineKeepsWaiting(t *testing.T) {
	app := newTestApp(t)

	before := len(app.transcript)
	pressEnter(t, app)
	if len(app.transcript) != before {
		t.Fatalf("blank line changed the transcript: %v", app.transcript)
	}
	if app.retryPrompt != "" {
		t.Fatalf("blank line triggered a retry prompt: %q", app.retryPrompt)
	}
	if app.step != stepFirstSize {
		t.Fatalf("blank line advanced the step to %s", app.step)
	}
}

func TestCtrlCQuitsMidSession(t *testing.T) {
	app := newTestApp(t)
	typeLine(t, app, "2")

	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	asApp(t, model)
	assertQuit(t, cmd)
}

func TestLogPanelTogglePersists(t *testing.T) {
	app := newTestApp(t)

	model, _ := app.Update(tea.KeyMsg{Type: tea.KeyCtrlL})
	app = asApp(t, model)
	if !app.showLog {
		t.Fatalf("ctrl+l did not open the log panel")
	}
	if !strings.Contains(app.View(), "LOG · journey.log") {
		t.Fatalf("log panel not rendered, view:\n%s", app.View())
	}

	reloaded, err := config.NewConfig(app.config.WorkDir)
	if err != nil {
		t.Fatalf("reload config: %v", err)
	}
	if !reloaded.ShowLogPanel() {
		t.Fatalf("log panel preference was not persisted")
	}
}

func TestJourneyLogRecordsSession(t *testing.T) {
	app := newTestApp(t)

	typeLine(t, app, "11")
	typeLine(t, app, "1 2 3 4 5 6 7 8 9 10")
	typeLine(t, app, "1")
	typeLine(t, app, "0")

	lines := app.logbook.Tail(20)
	joined := strings.Join(lines, "\n")
	for _, want := range []string{"opened", "truncated to 10", "complete"} {
		if !strings.Contains(joined, want) {
			t.Fatalf("journey log missing %q:\n%s", want, joined)
		}
	}
	if !strings.Contains(joined, app.SessionID()) {
		t.Fatalf("journey log missing session id %s:\n%s", app.SessionID(), joined)
	}
}

func TestSessionArchiveWritten(t *testing.T) {
	app := newTestApp(t)

	typeLine(t, app, "2")
	typeLine(t, app, "5 3")
	typeLine(t, app, "1")
	cmd := typeLine(t, app, "2")
	assertQuit(t, cmd)

	store := archive.NewStore(app.config.ArchiveDir())
	paths, err := store.List()
	if err != nil {
		t.Fatalf("list archives: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected one archived session, got %v", paths)
	}
	if filepath.Base(paths[0]) != app.SessionID()+".md" {
		t.Fatalf("archive named %s, want %s.md", filepath.Base(paths[0]), app.SessionID())
	}

	rec, body, err := store.Load(paths[0])
	if err != nil {
		t.Fatalf("load archive: %v", err)
	}
	if rec.SessionID != app.SessionID() {
		t.Fatalf("archived session id %q, want %q", rec.SessionID, app.SessionID())
	}
	if rec.FirstCount != 2 || rec.SecondCount != 1 {
		t.Fatalf("archived counts %d/%d, want 2/1", rec.FirstCount, rec.SecondCount)
	}
	if rec.Result != "5 3 2" {
		t.Fatalf("archived result %q, want %q", rec.Result, "5 3 2")
	}
	// The archived body is the same text the final frame leaves on screen.
	if string(body) != app.View() {
		t.Fatalf("archived body differs from the final transcript:\ngot:\n%s\nwant:\n%s", body, app.View())
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	workDir := t.TempDir()
	if err := config.InitCascadeDir(workDir); err != nil {
		t.Fatalf("init cascade dir: %v", err)
	}
	cfg, err := config.NewConfig(workDir)
	if err != nil {
		t.Fatalf("new config: %v", err)
	}
	app := NewApp(cfg)
	t.Cleanup(func() { _ = app.Close() })
	return app
}

// typeLine feeds text into the input one key at a time and submits it,
// returning whatever command the submission produced.
func typeLine(t *testing.T, app *App, text string) tea.Cmd {
	t.Helper()
	for _, r := range text {
		msg := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
		if r == ' ' {
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		}
		model, _ := app.Update(msg)
		asApp(t, model)
	}
	return pressEnter(t, app)
}

func pressEnter(t *testing.T, app *App) tea.Cmd {
	t.Helper()
	model, cmd := app.Update(tea.KeyMsg{Type: tea.KeyEnter})
	asApp(t, model)
	return cmd
}

func asApp(t *testing.T, model tea.Model) *App {
	t.Helper()
	app, ok := model.(*App)
	if !ok {
		t.Fatalf("unexpected model type: %T", model)
	}
	return app
}

func assertQuit(t *testing.T, cmd tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if msg := cmd(); msg != nil {
		if _, ok := msg.(tea.QuitMsg); !ok {
			t.Fatalf("expected tea.QuitMsg, got %T", msg)
		}
	} else {
		t.Fatalf("expected quit message")
	}
}
