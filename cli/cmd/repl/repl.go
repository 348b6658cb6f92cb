package repl

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/lipgloss"
	"github.com/sahilm/fuzzy"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/ardnew/bexl/lang"
	"github.com/ardnew/bexl/log"
)

// editVarsMsg carries the variables saved by the editor.
type editVarsMsg struct{ vars map[string]lang.Value }

// editCancelledMsg is sent when the user emptied the editor content.
type editCancelledMsg struct{}

// editDeclinedMsg is sent when the user discarded invalid edits.
type editDeclinedMsg struct{}

// editErrorMsg is sent when the editor could not be run.
type editErrorMsg struct{ err error }

// inputMode selects whether submitted lines are evaluated or run as
// control commands.
type inputMode int

const (
	modeEval inputMode = iota
	modeCtrl
)

func (m inputMode) prompt() string {
	if m == modeCtrl {
		return ctrlPromptStyle.Render(" :")
	}

	return promptStyle.Render("➜ ")
}

// prefix marks the mode of a line in the history file.
func (m inputMode) prefix() string {
	if m == modeCtrl {
		return "C:"
	}

	return "E:"
}

var (
	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true)
	ctrlPromptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("5")).
			Bold(true)
	inputStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("15"))
	resultStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	errorStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	hintStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	suggestionStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("4"))
	matchStyle      = suggestionStyle.Bold(true)
	selectedStyle   = lipgloss.NewStyle().
			Foreground(lipgloss.Color("0")).
			Background(lipgloss.Color("4"))
	selectedMatchStyle = selectedStyle.Bold(true)
)

// echo renders a submitted line after its prompt.
func echo(mode inputMode, line string) tea.Cmd {
	return tea.Println(mode.prompt() + inputStyle.Render(line))
}

// draft is the unsubmitted input of one mode.
type draft struct {
	text   string
	cursor int
}

// model is the Bubble Tea model for the REPL.
type model struct {
	sess         *session
	history      *History
	input        textinput.Model
	matches      fuzzy.Matches // ranked completions of the current word
	candidates   []string
	drafts       [2]draft // per inputMode
	preTabText   string   // input before tab-cycling began
	historyIdx   int
	wordStart    int
	wordEnd      int
	suggIdx      int
	preTabCursor int
	width        int
	mode         inputMode
	tabActive    bool
	quitting     bool
}

// Run starts an interactive session evaluating expressions against vars.
// History is kept in cacheDir. Changes to variables made in the session
// are visible through vars after Run returns.
func Run(
	ctx context.Context,
	vars *lang.VariableResolver,
	cacheDir string,
	logger log.Logger,
	debug bool,
) (err error) {
	ctx, cancel := context.WithCancelCause(ctx)

	defer func(err *error) { cancel(*err) }(&err)

	var histPath string
	if cacheDir != "" {
		histPath = filepath.Join(cacheDir, baseHistory)
	}

	history := NewHistory(histPath)
	if err := history.Load(); err != nil {
		logger.WarnContext(ctx, "could not load history",
			slog.String("path", histPath),
			slog.Any("error", err),
		)
	}

	sess := newSession(ctx, vars, logger, debug)

	logger.TraceContext(ctx, "repl start",
		slog.String("cache_dir", cacheDir),
		slog.Int("history", history.Len()),
		slog.Int("variables", sess.vars.Len()),
	)

	_, err = tea.NewProgram(newModel(sess, history), tea.WithContext(ctx)).Run()

	return err
}

const defaultWidth = 80

func newModel(sess *session, history *History) model {
	ti := textinput.New()
	ti.Prompt = modeEval.prompt()
	ti.CharLimit = 4096
	ti.Width = defaultWidth
	ti.Focus()

	return model{
		sess:       sess,
		history:    history,
		input:      ti,
		historyIdx: history.Len(),
		suggIdx:    -1,
		width:      defaultWidth,
	}
}

func (m model) Init() tea.Cmd { return textinput.Blink }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - lipgloss.Width(m.input.Prompt) - 2

		return m, nil

	case editVarsMsg:
		if err := m.sess.replace(msg.vars); err != nil {
			return m, tea.Println(errorStyle.Render("error: " + err.Error()))
		}

		return m, tea.Println(resultStyle.Render(
			fmt.Sprintf("✔ %d variables", m.sess.vars.Len())))

	case editCancelledMsg:
		return m, tea.Println(hintStyle.Render("edit cancelled"))

	case editDeclinedMsg:
		return m, tea.Println(hintStyle.Render("edit discarded"))

	case editErrorMsg:
		return m, tea.Println(errorStyle.Render("error: " + msg.err.Error()))
	}

	var cmd tea.Cmd

	m.input, cmd = m.input.Update(msg)

	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	return m.input.View() + "\n" + m.hint() + "\n"
}

// hint returns the line shown below the input.
func (m model) hint() string {
	input := m.input.Value()

	if m.historyIdx < m.history.Len() {
		pos := lipgloss.NewStyle().Bold(true).Render(strconv.Itoa(m.historyIdx + 1))

		return hintStyle.Render(pos + "/" + strconv.Itoa(m.history.Len()))
	}

	if strings.TrimSpace(input) == "" {
		if m.mode == modeEval {
			return hintStyle.Render("Type an expression, or press Esc for commands")
		}

		return hintStyle.Render("Type: " + strings.Join(commandNames(), ", ") +
			" (press Esc to return)")
	}

	if m.mode == modeEval && len(m.matches) == 0 {
		call := detectFunctionCall(input, m.input.Position())
		if call.inCall {
			return signatureHint(m.sess.reg, call)
		}
	}

	return renderCandidateBar(m.matches, m.suggIdx, m.tabActive, m.width, m.isFunction)
}

func (m model) isFunction(name string) bool {
	if m.mode == modeCtrl {
		return false
	}

	_, _, ok := m.sess.reg.Functions.Signatures(name)

	return ok
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	m.sess.logger.TraceContext(m.sess.ctx, "repl keypress",
		slog.String("key", msg.String()),
	)

	switch msg.Type {
	case tea.KeyCtrlC:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		m.tabActive = false
		m.historyIdx = m.history.Len()
		m.setInput("")

		return m, nil

	case tea.KeyCtrlD:
		if m.input.Value() == "" {
			m.quitting = true

			return m, tea.Quit
		}

		return m, nil

	case tea.KeyEnter:
		if m.tabActive && len(m.matches) > 0 {
			m.tabActive = false
			refreshMatches(&m, true)

			return m, nil
		}

		return m.submit()

	case tea.KeyTab:
		return m.cycle(1), nil

	case tea.KeyShiftTab:
		return m.cycle(-1), nil

	case tea.KeyUp:
		return m.recall(-1, false), nil

	case tea.KeyDown:
		return m.recall(1, false), nil

	case tea.KeyShiftUp:
		return m.recall(-1, true), nil

	case tea.KeyShiftDown:
		return m.recall(1, true), nil

	case tea.KeyEsc:
		if m.tabActive {
			m.tabActive = false
			m.input.SetValue(m.preTabText)
			m.input.SetCursor(m.preTabCursor)
			refreshMatches(&m, false)

			return m, nil
		}

		if m.mode == modeEval {
			return m.switchToMode(modeCtrl), nil
		}

		return m.switchToMode(modeEval), nil
	}

	// Typing continues a tab cycle; space or any other key accepts it.
	if msg.Type != tea.KeyRunes || msg.String() == " " {
		m.tabActive = false
	}

	var cmd tea.Cmd

	m.historyIdx = m.history.Len()
	m.input, cmd = m.input.Update(msg)
	refreshMatches(&m, msg.Type == tea.KeyRunes)

	return m, cmd
}

// cycle moves the tab selection by step, wrapping around. A sole
// candidate is inserted immediately.
func (m model) cycle(step int) model {
	n := len(m.matches)
	if n == 0 {
		return m
	}

	if n == 1 {
		replaceCurrentWord(&m, m.matches[0].Str)
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil

		return m
	}

	switch {
	case m.tabActive:
		m.suggIdx = (m.suggIdx + step + n) % n
	case step > 0:
		m.suggIdx = 0
	default:
		m.suggIdx = n - 1
	}

	if !m.tabActive {
		m.tabActive = true
		m.preTabText = m.input.Value()
		m.preTabCursor = m.input.Position()
	}

	replaceCurrentWord(&m, m.matches[m.suggIdx].Str)

	return m
}

// replaceCurrentWord substitutes replacement for the word being completed
// and moves the cursor after it.
func replaceCurrentWord(m *model, replacement string) {
	input := m.input.Value()

	m.input.SetValue(input[:m.wordStart] + replacement + input[m.wordEnd:])
	m.wordEnd = m.wordStart + len(replacement)
	m.input.SetCursor(m.wordEnd)
}

// refreshMatches recomputes completions for the current input. With
// autoConfirm, a word that already equals its only candidate is accepted,
// which hides the candidate bar. Deletions and cursor movement pass false
// so editing is never interrupted.
func refreshMatches(m *model, autoConfirm bool) {
	m.matches, m.candidates, m.wordStart, m.wordEnd = m.computeMatches()

	if !m.tabActive {
		m.suggIdx = -1
	}

	if !autoConfirm || len(m.matches) != 1 {
		return
	}

	if m.input.Value()[m.wordStart:m.wordEnd] == m.matches[0].Str {
		m.tabActive = false
		m.suggIdx = -1
		m.matches = nil
	}
}

// setInput replaces the input text, placing the cursor at its end.
func (m *model) setInput(text string) {
	m.input.SetValue(text)
	m.input.SetCursor(len(text))
	refreshMatches(m, false)
}

// submit records the input in history and evaluates it, or runs it as a
// command in control mode or when prefixed with ':'.
func (m model) submit() (model, tea.Cmd) {
	line := strings.TrimSpace(m.input.Value())
	if line == "" {
		return m, nil
	}

	mode := m.mode
	if rest, ok := strings.CutPrefix(line, ":"); ok && mode == modeEval {
		mode, line = modeCtrl, strings.TrimSpace(rest)
	}

	m.drafts = [2]draft{}
	m.tabActive = false
	m.setInput("")

	if err := m.history.Add(line, mode); err != nil {
		m.sess.logger.DebugContext(m.sess.ctx, "could not save history",
			slog.Any("error", err),
		)
	}

	m.historyIdx = m.history.Len()

	if mode == modeCtrl {
		return m.runCommand(line)
	}

	out, err := m.sess.eval(line)
	if err != nil {
		msg := strings.TrimSuffix(lang.FormatError(line, err), "\n")

		return m, tea.Sequence(echo(mode, line), tea.Println(errorStyle.Render(msg)))
	}

	return m, tea.Sequence(echo(mode, line), tea.Println(resultStyle.Render(out)))
}

func (m model) runCommand(line string) (model, tea.Cmd) {
	rep, err := m.sess.command(line)
	if err != nil {
		return m, tea.Sequence(
			echo(modeCtrl, line),
			tea.Println(errorStyle.Render("error: "+err.Error())),
		)
	}

	switch rep.act {
	case actQuit:
		m.quitting = true

		return m, tea.Sequence(echo(modeCtrl, line), tea.Quit)

	case actClear:
		return m, tea.ClearScreen

	case actEdit:
		return m, tea.Sequence(echo(modeCtrl, line), m.edit())
	}

	if rep.text == "" {
		return m, echo(modeCtrl, line)
	}

	return m, tea.Sequence(echo(modeCtrl, line), tea.Println(rep.text))
}

// edit suspends the program while the variables are edited.
func (m model) edit() tea.Cmd {
	cmd := &editVarsCommand{
		ctx:    m.sess.ctx,
		vars:   m.sess.vars.All(),
		logger: m.sess.logger,
	}

	return tea.Exec(cmd, func(err error) tea.Msg {
		switch {
		case errors.Is(err, ErrEditDeclined):
			return editDeclinedMsg{}
		case err != nil:
			return editErrorMsg{err: err}
		case cmd.result == nil:
			return editCancelledMsg{}
		}

		return editVarsMsg{vars: cmd.result}
	})
}

// recall moves through history by step. With sameMode, entries of the
// other mode are skipped; otherwise the mode follows the recalled entry.
// Moving past the newest entry restores an empty input.
func (m model) recall(step int, sameMode bool) model {
	for i := m.historyIdx + step; i >= 0 && i < m.history.Len(); i += step {
		entry, err := m.history.Entry(i)
		if err != nil {
			break
		}

		if sameMode && entry.Mode != m.mode {
			continue
		}

		if entry.Mode != m.mode {
			m = m.switchToMode(entry.Mode)
		}

		m.historyIdx = i
		m.setInput(entry.Line)

		return m
	}

	if step > 0 && m.historyIdx < m.history.Len() {
		m.historyIdx = m.history.Len()
		m.setInput("")
	}

	return m
}

// switchToMode saves the draft of the current mode and restores that of
// mode.
func (m model) switchToMode(mode inputMode) model {
	m.drafts[m.mode] = draft{text: m.input.Value(), cursor: m.input.Position()}

	m.mode = mode
	m.input.Prompt = mode.prompt()
	m.input.SetValue(m.drafts[mode].text)
	m.input.SetCursor(m.drafts[mode].cursor)
	refreshMatches(&m, false)

	return m
}
