package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mgomes/loxcore/lox"
	"github.com/spf13/cobra"
)

var (
	accentColor    = lipgloss.Color("#8B5CF6")
	successColor   = lipgloss.Color("#22C55E")
	errorColor     = lipgloss.Color("#F43F5E")
	mutedColor     = lipgloss.Color("#6B7280")
	highlightColor = lipgloss.Color("#EAB308")

	promptStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true)

	resultStyle = lipgloss.NewStyle().
			Foreground(successColor)

	errorStyle = lipgloss.NewStyle().
			Foreground(errorColor)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	headerStyle = lipgloss.NewStyle().
			Foreground(accentColor).
			Bold(true).
			Padding(0, 1)

	helpKeyStyle = lipgloss.NewStyle().
			Foreground(highlightColor)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(mutedColor)

	borderStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(accentColor).
			Padding(0, 1)
)

type historyEntry struct {
	input  string
	output string
	isErr  bool
}

type replModel struct {
	textInput   textinput.Model
	engine      *lox.Engine
	session     *lox.Session
	out         *bytes.Buffer
	history     []historyEntry
	cmdHistory  []string
	historyIdx  int
	width       int
	height      int
	showHelp    bool
	showVars    bool
	quitting    bool
	initialized bool
}

type keyMap struct {
	Up    key.Binding
	Down  key.Binding
	Enter key.Binding
	CtrlC key.Binding
	CtrlD key.Binding
	CtrlL key.Binding
	Tab   key.Binding
	CtrlV key.Binding
	CtrlK key.Binding
}

var keys = keyMap{
	Up:    key.NewBinding(key.WithKeys("up"), key.WithHelp("↑", "previous input")),
	Down:  key.NewBinding(key.WithKeys("down"), key.WithHelp("↓", "next input")),
	Enter: key.NewBinding(key.WithKeys("enter"), key.WithHelp("enter", "evaluate")),
	CtrlC: key.NewBinding(key.WithKeys("ctrl+c"), key.WithHelp("ctrl+c", "quit")),
	CtrlD: key.NewBinding(key.WithKeys("ctrl+d"), key.WithHelp("ctrl+d", "quit")),
	CtrlL: key.NewBinding(key.WithKeys("ctrl+l"), key.WithHelp("ctrl+l", "clear")),
	Tab:   key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "autocomplete")),
	CtrlV: key.NewBinding(key.WithKeys("ctrl+v"), key.WithHelp("ctrl+v", "toggle globals")),
	CtrlK: key.NewBinding(key.WithKeys("ctrl+k"), key.WithHelp("ctrl+k", "toggle help")),
}

func newREPLCommand() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "repl",
		Short: "Start an interactive session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return runREPL(cfg)
		},
	}
	cmd.Flags().StringVar(&configPath, "config", "", "YAML file setting step_quota and recursion_limit")
	return cmd
}

// newREPLModel builds the model around a session whose print output is
// captured so it can be shown inline with each result.
func newREPLModel(cfg lox.Config) replModel {
	ti := textinput.New()
	ti.Placeholder = "type a statement or expression..."
	ti.Focus()
	ti.CharLimit = 500
	ti.Width = 60
	ti.PromptStyle = promptStyle
	ti.Prompt = "lox> "

	out := &bytes.Buffer{}
	cfg.Stdout = out
	engine := lox.NewEngine(cfg)

	return replModel{
		textInput:  ti,
		engine:     engine,
		session:    engine.NewSession(),
		out:        out,
		history:    make([]historyEntry, 0),
		cmdHistory: make([]string, 0),
		historyIdx: -1,
	}
}

func (m replModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, tea.EnterAltScreen)
}

func (m replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.textInput.Width = msg.Width - 10
		m.initialized = true
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.CtrlC), key.Matches(msg, keys.CtrlD):
			m.quitting = true
			return m, tea.Quit

		case key.Matches(msg, keys.CtrlL):
			m.history = make([]historyEntry, 0)
			return m, nil

		case key.Matches(msg, keys.CtrlV):
			m.showVars = !m.showVars
			return m, nil

		case key.Matches(msg, keys.CtrlK):
			m.showHelp = !m.showHelp
			return m, nil

		case key.Matches(msg, keys.Up):
			return m.recall(-1), nil

		case key.Matches(msg, keys.Down):
			return m.recall(1), nil

		case key.Matches(msg, keys.Tab):
			return m.handleAutocomplete(), nil

		case key.Matches(msg, keys.Enter):
			return m.submit()
		}
	}

	m.textInput, cmd = m.textInput.Update(msg)
	return m, cmd
}

// recall steps through earlier inputs; stepping forward past the newest
// one clears the prompt.
func (m replModel) recall(step int) replModel {
	if len(m.cmdHistory) == 0 {
		return m
	}
	switch {
	case m.historyIdx == -1 && step < 0:
		m.historyIdx = len(m.cmdHistory) - 1
	case m.historyIdx == -1:
		return m
	default:
		m.historyIdx = max(m.historyIdx+step, 0)
	}

	if m.historyIdx >= len(m.cmdHistory) {
		m.historyIdx = -1
		m.textInput.SetValue("")
	} else {
		m.textInput.SetValue(m.cmdHistory[m.historyIdx])
	}
	m.textInput.CursorEnd()
	return m
}

func (m replModel) submit() (replModel, tea.Cmd) {
	input := strings.TrimSpace(m.textInput.Value())
	if input == "" {
		return m, nil
	}
	m.textInput.SetValue("")
	m.historyIdx = -1

	if strings.HasPrefix(input, ":") {
		return m.handleCommand(input)
	}

	output, isErr := m.evaluate(input)
	m.history = append(m.history, historyEntry{input: input, output: output, isErr: isErr})
	m.cmdHistory = append(m.cmdHistory, input)
	return m, nil
}

func (m replModel) handleCommand(input string) (replModel, tea.Cmd) {
	cmd := strings.Fields(input)[0]

	switch cmd {
	case ":help", ":h":
		m.showHelp = !m.showHelp
	case ":clear", ":c":
		m.history = make([]historyEntry, 0)
	case ":vars", ":v":
		m.showVars = !m.showVars
	case ":reset", ":r":
		m.session.Reset()
		m.history = append(m.history, historyEntry{input: input, output: "Session reset"})
	case ":quit", ":q":
		m.quitting = true
		return m, tea.Quit
	default:
		m.history = append(m.history, historyEntry{
			input:  input,
			output: fmt.Sprintf("Unknown command: %s", cmd),
			isErr:  true,
		})
	}
	return m, nil
}

func (m replModel) completions(prefix string) []string {
	var out []string
	for _, kw := range lox.Keywords() {
		if strings.HasPrefix(kw, prefix) {
			out = append(out, kw)
		}
	}
	for name := range m.engine.Builtins() {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	names, _ := m.session.Globals()
	for _, name := range names {
		if strings.HasPrefix(name, prefix) {
			out = append(out, name)
		}
	}
	return out
}

func (m replModel) handleAutocomplete() replModel {
	input := m.textInput.Value()
	words := strings.Fields(input)
	if len(words) == 0 {
		return m
	}
	lastWord := words[len(words)-1]

	completions := m.completions(lastWord)
	if len(completions) == 1 {
		prefix := strings.TrimSuffix(input, lastWord)
		m.textInput.SetValue(prefix + completions[0])
		m.textInput.CursorEnd()
	} else if len(completions) > 1 {
		m.history = append(m.history, historyEntry{output: "Completions: " + strings.Join(completions, ", ")})
	}
	return m
}

// evaluate runs one input in the session. A trailing semicolon is added
// when missing so bare expressions can be typed.
func (m replModel) evaluate(input string) (string, bool) {
	source := input
	if !strings.HasSuffix(source, ";") && !strings.HasSuffix(source, "}") {
		source += ";"
	}

	m.out.Reset()
	result, err := m.session.Eval(context.Background(), source)
	printed := strings.TrimSuffix(m.out.String(), "\n")

	if err != nil {
		var compileErr *lox.CompileError
		if errors.As(err, &compileErr) {
			var b bytes.Buffer
			if werr := lox.WriteDiagnostics(&b, compileErr.Program, compileErr.Diagnostics, uint(max(m.width-4, 40)), false); werr == nil {
				return joinOutput(printed, strings.TrimSpace(b.String())), true
			}
		}
		return joinOutput(printed, err.Error()), true
	}
	if printed != "" && result.IsNil() {
		return printed, false
	}
	return joinOutput(printed, result.String()), false
}

func joinOutput(parts ...string) string {
	var nonEmpty []string
	for _, p := range parts {
		if p != "" {
			nonEmpty = append(nonEmpty, p)
		}
	}
	return strings.Join(nonEmpty, "\n")
}

func (m replModel) View() string {
	if !m.initialized {
		return "Loading..."
	}

	if m.quitting {
		return mutedStyle.Render("Goodbye!\n")
	}

	var b strings.Builder

	b.WriteString(headerStyle.Render("Lox REPL") + " " + mutedStyle.Render(m.engine.ConfigSummary()) + "\n")
	b.WriteString(mutedStyle.Render(strings.Repeat("─", min(m.width-2, 60))) + "\n\n")

	names, values := m.session.Globals()
	reservedLines := 8
	if m.showHelp {
		reservedLines += 10
	}
	if m.showVars {
		reservedLines += len(names) + 3
	}
	availableHeight := m.height - reservedLines

	historyStart := 0
	if len(m.history) > availableHeight {
		historyStart = max(len(m.history)-availableHeight, 0)
	}

	for _, entry := range m.history[historyStart:] {
		if entry.input != "" {
			b.WriteString(mutedStyle.Render("  › ") + entry.input + "\n")
		}
		if entry.isErr {
			b.WriteString("  " + errorStyle.Render("✗ "+entry.output) + "\n")
		} else {
			b.WriteString("  " + resultStyle.Render("→ "+entry.output) + "\n")
		}
		b.WriteString("\n")
	}

	if m.showVars {
		b.WriteString(renderGlobalsPanel(names, values))
		b.WriteString("\n")
	}

	if m.showHelp {
		b.WriteString(renderHelpPanel())
		b.WriteString("\n")
	}

	b.WriteString(m.textInput.View() + "\n\n")

	footer := helpKeyStyle.Render("ctrl+k") + helpDescStyle.Render(" help  ") +
		helpKeyStyle.Render("ctrl+v") + helpDescStyle.Render(" globals  ") +
		helpKeyStyle.Render("ctrl+l") + helpDescStyle.Render(" clear  ") +
		helpKeyStyle.Render("ctrl+c") + helpDescStyle.Render(" quit")
	b.WriteString(footer)

	return b.String()
}

func renderGlobalsPanel(names []string, values map[string]lox.Value) string {
	if len(names) == 0 {
		return borderStyle.Render(mutedStyle.Render("No globals defined"))
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Globals")}
	nameStyle := lipgloss.NewStyle().Foreground(highlightColor)
	for _, name := range names {
		val := values[name]
		lines = append(lines, fmt.Sprintf("  %s = %s %s", nameStyle.Render(name), val.String(), mutedStyle.Render("("+val.Kind().String()+")")))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func renderHelpPanel() string {
	help := []struct {
		key  string
		desc string
	}{
		{"↑/↓", "Navigate input history"},
		{"Tab", "Autocomplete keywords and globals"},
		{"Enter", "Evaluate input"},
		{":help", "Toggle this help"},
		{":vars", "Toggle globals panel"},
		{":clear", "Clear history"},
		{":reset", "Discard every global"},
		{":quit", "Exit REPL"},
	}

	lines := []string{lipgloss.NewStyle().Bold(true).Foreground(accentColor).Render("Help")}
	for _, h := range help {
		lines = append(lines, fmt.Sprintf("  %s  %s",
			helpKeyStyle.Render(fmt.Sprintf("%-8s", h.key)),
			helpDescStyle.Render(h.desc)))
	}
	return borderStyle.Render(strings.Join(lines, "\n"))
}

func runREPL(cfg lox.Config) error {
	p := tea.NewProgram(newREPLModel(cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
