// internal/tui/app.go
//
// This is the interactive session screen for cascade.
// It uses bubbletea, which follows The Elm Architecture:
//
// 1. Model: Your application state
// 2. Update: A function that updates state based on messages
// 3. View: A function that renders state to a string
//
// The flow is: User Input -> Message -> Update -> New Model -> View -> Screen
//
// The screen behaves like a plain console transcript: every finished line
// moves into a scrollback and the active prompt sits under it with a text
// input. The program never enters the alt screen, so the transcript that
// is on screen when it quits stays in the terminal.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"
	"github.com/kingrea/cascade/internal/archive"
	"github.com/kingrea/cascade/internal/config"
	"github.com/kingrea/cascade/internal/intake"
	"github.com/kingrea/cascade/internal/logbook"
	"github.com/kingrea/cascade/internal/sequence"
)

// bannerWidth is how many asterisks wide the section separator is.
const bannerWidth = 67

// Prompt text shown to the user. The retry variants replace the standard
// prompt after a rejected entry until the next good one.
const (
	promptFirstSize  = "How many would you want to place in the first array? (max 10): "
	promptSecondSize = "How many would you want to place in the second array? (max 10): "
	retrySizePrompt  = "Invalid input. Please enter a positive whole number: "
	retryValuePrompt = "Invalid input. Please enter a valid number: "
	resultPrefix     = "Merged and sorted array: "
)

var bannerLine = strings.Repeat("*", bannerWidth)

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	config    *config.Config
	logbook   *logbook.Logbook
	archive   *archive.Store
	sessionID string

	step  step
	input textinput.Model

	// transcript holds every completed line, exactly as a scrolling
	// console would have printed it. The active prompt is not part of
	// it until the user submits the line.
	transcript []string

	// retryPrompt replaces the standard prompt after a rejected entry.
	// Empty means the current step shows its normal prompt.
	retryPrompt string

	// Collected data
	first      sequence.Sequence
	second     sequence.Sequence
	firstSize  int
	secondSize int
	merged     sequence.Sequence

	// UI state
	statusMsg string
	showLog   bool
	accent    lipgloss.Color

	// Window size (we get this from bubbletea)
	width  int
	height int
}

// NewApp creates a new App instance around loaded settings. A logbook
// that fails to open is tolerated; the session simply runs unlogged.
func NewApp(cfg *config.Config) *App {
	if cfg == nil {
		cfg = config.Default(".")
	}

	sessionID := uuid.NewString()
	lb, err := logbook.New(cfg.JourneyLogPath())
	if err == nil {
		lb.Info("Session %s opened · step: %s", sessionID, stepFirstSize.FriendlyName())
	}

	ti := textinput.New()
	ti.Prompt = "" // the screen draws its own prompt text
	ti.CharLimit = 256
	ti.Focus()

	return &App{
		config:     cfg,
		logbook:    lb,
		archive:    archive.NewStore(cfg.ArchiveDir()),
		sessionID:  sessionID,
		step:       stepFirstSize,
		input:      ti,
		transcript: []string{bannerLine},
		showLog:    cfg.ShowLogPanel(),
		accent:     lipgloss.Color(cfg.AccentColor()),
	}
}

// SessionID returns the identifier stamped on this session's log entries.
func (a *App) SessionID() string {
	return a.sessionID
}

// Close releases the session log. Call it after the bubbletea program ends.
func (a *App) Close() error {
	return a.logbook.Close()
}

func (a *App) logInfo(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Info(format, args...)
}

func (a *App) logWarn(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Warn(format, args...)
}

func (a *App) logError(format string, args ...any) {
	if a.logbook == nil {
		return
	}
	a.logbook.Error(format, args...)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return textinput.Blink
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		return a, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			a.logWarn("Session %s aborted at %s", a.sessionID, a.step.FriendlyName())
			return a, tea.Quit
		case "ctrl+l":
			return a.toggleLogPanel()
		case "enter":
			return a.handleSubmit()
		}
	}

	if a.step.IsTerminal() {
		return a, nil
	}
	var cmd tea.Cmd
	a.input, cmd = a.input.Update(msg)
	return a, cmd
}

// handleSubmit processes the line the user pressed enter on. Blank lines
// are ignored the way a console ignores them: the prompt keeps waiting.
func (a *App) handleSubmit() (tea.Model, tea.Cmd) {
	raw := a.input.Value()
	if strings.TrimSpace(raw) == "" {
		a.input.SetValue("")
		return a, nil
	}

	switch a.step {
	case stepFirstSize, stepSecondSize:
		return a.submitSize(raw)
	case stepFirstValues, stepSecondValues:
		return a.submitValues(raw)
	}
	return a, nil
}

// submitSize handles a line typed at one of the two size prompts. The
// echoed line always lands in the transcript, good or bad, because that
// is what the terminal would have shown.
func (a *App) submitSize(raw string) (tea.Model, tea.Cmd) {
	a.transcript = append(a.transcript, a.activePrompt()+raw)
	a.input.SetValue("")

	n, err := intake.ParseSize(raw)
	if err != nil {
		a.logWarn("Rejected size entry %q at %s", strings.TrimSpace(raw), a.step)
		a.retryPrompt = retrySizePrompt
		return a, nil
	}

	size := intake.ClampSize(n)
	if size != n {
		a.logInfo("Requested %d values, truncated to %d", n, size)
	}

	a.retryPrompt = ""
	if a.step == stepFirstSize {
		a.firstSize = size
		a.first = make(sequence.Sequence, 0, size)
	} else {
		a.secondSize = size
		a.second = make(sequence.Sequence, 0, size)
	}
	a.logInfo("Step %s accepted size %d", a.step, size)
	a.step = a.step.Next()
	return a, nil
}

// submitValues handles a line typed while collecting sequence values. A
// line may carry several numbers; a bad token keeps the good numbers in
// front of it and triggers the retry prompt for the rest.
func (a *App) submitValues(raw string) (tea.Model, tea.Cmd) {
	target, size := &a.first, a.firstSize
	if a.step == stepSecondValues {
		target, size = &a.second, a.secondSize
	}

	a.transcript = append(a.transcript, a.activePrompt()+raw)
	a.input.SetValue("")

	vals, err := intake.ParseValues(raw, size-len(*target))
	*target = append(*target, vals...)
	if err != nil {
		a.logWarn("Rejected value entry at %s: %v", a.step, err)
		a.retryPrompt = retryValuePrompt
		return a, nil
	}

	a.retryPrompt = ""
	if len(*target) < size {
		// Still short: the console would sit on a bare line waiting
		// for the remaining numbers, so no prompt is shown.
		return a, nil
	}

	a.logInfo("Step %s collected %d value(s)", a.step, size)
	a.step = a.step.Next()
	if a.step.IsTerminal() {
		return a, a.finish()
	}
	a.transcript = append(a.transcript, bannerLine)
	return a, nil
}

// finish merges the two sequences, sorts the result and closes out the
// session. The result line joins the transcript, which is the last frame
// bubbletea leaves on the terminal, and the whole transcript is archived
// under .cascade/archive. An archive that cannot be written is logged and
// otherwise ignored; it never stops the session from finishing.
func (a *App) finish() tea.Cmd {
	a.merged = sequence.Concat(a.first, a.second)
	sequence.SortDescending(a.merged)
	a.transcript = append(a.transcript, bannerLine, resultPrefix+a.merged.String())
	a.input.Blur()
	a.logInfo("Session %s complete · %d value(s) merged and sorted", a.sessionID, len(a.merged))

	if a.archive != nil {
		rec := archive.Record{
			SessionID:   a.sessionID,
			FirstCount:  len(a.first),
			SecondCount: len(a.second),
			Result:      a.merged.String(),
		}
		body := []byte(strings.Join(a.transcript, "\n") + "\n")
		if path, err := a.archive.Save(rec, body); err != nil {
			a.logError("Could not archive session %s: %v", a.sessionID, err)
		} else {
			a.logInfo("Archived transcript to %s", path)
		}
	}
	return tea.Quit
}

func (a *App) toggleLogPanel() (tea.Model, tea.Cmd) {
	a.showLog = !a.showLog
	if err := a.config.SetShowLogPanel(a.showLog); err != nil {
		a.logError("Could not save settings: %v", err)
		a.statusMsg = fmt.Sprintf("Could not save settings: %v", err)
		return a, nil
	}
	if a.showLog {
		a.statusMsg = "Log panel on"
	} else {
		a.statusMsg = "Log panel off"
	}
	return a, nil
}

// activePrompt returns the text shown in front of the input: the retry
// prompt after a rejected entry, the standard prompt otherwise. Value
// entry that continues across lines gets no prompt at all, matching a
// console that is still waiting for more numbers.
func (a *App) activePrompt() string {
	if a.retryPrompt != "" {
		return a.retryPrompt
	}
	switch a.step {
	case stepFirstSize:
		return promptFirstSize
	case stepSecondSize:
		return promptSecondSize
	case stepFirstValues:
		if len(a.first) > 0 {
			return ""
		}
		return fmt.Sprintf("Enter %d elements: ", a.firstSize)
	case stepSecondValues:
		if len(a.second) > 0 {
			return ""
		}
		return fmt.Sprintf("Enter %d elements: ", a.secondSize)
	}
	return ""
}

// View renders the whole screen. Once the session is terminal the chrome
// drops away and only the raw transcript remains, so the text left in
// the terminal matches what a plain console run would have printed.
func (a *App) View() string {
	if a.step.IsTerminal() {
		return strings.Join(a.transcript, "\n") + "\n"
	}

	lines := make([]string, 0, len(a.transcript)+1)
	for _, line := range a.transcript {
		if line == bannerLine {
			lines = append(lines, a.accentStyle().Render(line))
			continue
		}
		lines = append(lines, line)
	}

	promptStyle := lipgloss.NewStyle()
	if a.retryPrompt != "" {
		promptStyle = promptStyle.Foreground(lipgloss.Color("#FF6B6B"))
	}
	lines = append(lines, promptStyle.Render(a.activePrompt())+a.input.View())

	sections := []string{a.renderHeader(), strings.Join(lines, "\n")}
	if a.showLog {
		if logPanel := a.renderLogPanel(); logPanel != "" {
			sections = append(sections, logPanel)
		}
	}
	sections = append(sections, a.renderFooter())
	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	title := a.accentStyle().Render("≋ CASCADE")
	progress := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		Render(fmt.Sprintf("Step %d/%d · %s", a.step.Position(), stepCount, a.step.FriendlyName()))
	return lipgloss.NewStyle().
		MarginBottom(1).
		Render(title + "  " + progress)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines := a.logbook.Tail(a.config.TailLines())
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := a.accentStyle().Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#444444")).
		Padding(0, 1).
		Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderFooter() string {
	hint := "Enter → submit    Ctrl+L → log panel    Ctrl+C → quit"
	if a.statusMsg != "" {
		hint = a.statusMsg
	}
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#888888")).
		MarginTop(1).
		Render(hint)
}

func (a *App) accentStyle() lipgloss.Style {
	return lipgloss.NewStyle().Bold(true).Foreground(a.accent)
}
