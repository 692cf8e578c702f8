package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/wippyai/script-runtime/binding"
	"github.com/wippyai/script-runtime/marshal"
	"github.com/wippyai/script-runtime/runtime"
	"github.com/wippyai/script-runtime/testbed"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

type interactiveModel struct {
	err      error
	rt       *runtime.Runtime
	game     *testbed.Game
	logger   *zap.Logger
	filename string
	result   string
	methods  []binding.MethodDescriptor
	inputs   []textinput.Model
	selected int
	focusIdx int
	state    modelState
}

type modelState int

const (
	stateSelectMethod modelState = iota
	stateInputArgs
	stateShowResult
)

func newInteractiveModel(filename string, logger *zap.Logger) *interactiveModel {
	return &interactiveModel{
		filename: filename,
		logger:   logger,
		state:    stateSelectMethod,
	}
}

type loadedMsg struct {
	err     error
	rt      *runtime.Runtime
	game    *testbed.Game
	methods []binding.MethodDescriptor
}

type callResultMsg struct {
	err    error
	result string
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.loadScript
}

func (m *interactiveModel) loadScript() tea.Msg {
	rt := runtime.New(runtime.WithLogger(m.logger))
	game := testbed.NewGame(m.logger)
	if err := rt.RegisterBinder(testbed.NewGameBinder(game, rt)); err != nil {
		rt.Close()
		return loadedMsg{err: err}
	}

	if err := rt.ExecuteFile(m.filename); err != nil {
		rt.Close()
		return loadedMsg{err: err}
	}

	return loadedMsg{
		rt:      rt,
		game:    game,
		methods: rt.Registry().Methods("game"),
	}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q":
			if m.rt != nil {
				m.rt.Close()
			}
			return m, tea.Quit

		case "up", "k":
			if m.state == stateSelectMethod && m.selected > 0 {
				m.selected--
			}

		case "down", "j":
			if m.state == stateSelectMethod && m.selected < len(m.methods)-1 {
				m.selected++
			}

		case "enter":
			switch m.state {
			case stateSelectMethod:
				m.prepareInputs()
				if len(m.inputs) == 0 {
					return m, m.callMethod
				}
				m.state = stateInputArgs

			case stateInputArgs:
				return m, m.callMethod

			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}

		case "tab":
			if m.state == stateInputArgs && len(m.inputs) > 1 {
				m.inputs[m.focusIdx].Blur()
				m.focusIdx = (m.focusIdx + 1) % len(m.inputs)
				m.inputs[m.focusIdx].Focus()
			}

		case "esc":
			switch m.state {
			case stateInputArgs:
				m.state = stateSelectMethod
				m.inputs = nil
			case stateShowResult:
				m.state = stateSelectMethod
				m.result = ""
				m.err = nil
			}
		}

	case loadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.rt = msg.rt
		m.game = msg.game
		m.methods = msg.methods

	case callResultMsg:
		m.result = msg.result
		m.err = msg.err
		m.state = stateShowResult
	}

	if m.state == stateInputArgs {
		var cmds []tea.Cmd
		for i := range m.inputs {
			var cmd tea.Cmd
			m.inputs[i], cmd = m.inputs[i].Update(msg)
			cmds = append(cmds, cmd)
		}
		return m, tea.Batch(cmds...)
	}

	return m, nil
}

func (m *interactiveModel) prepareInputs() {
	desc := m.methods[m.selected]
	m.inputs = make([]textinput.Model, len(desc.Params))
	for i, p := range desc.Params {
		ti := textinput.New()
		ti.Placeholder = string(p)
		ti.Prompt = fmt.Sprintf("arg%d: ", i)
		ti.Width = 40
		if i == 0 {
			ti.Focus()
		}
		m.inputs[i] = ti
	}
	m.focusIdx = 0
}

func (m *interactiveModel) callMethod() tea.Msg {
	desc := m.methods[m.selected]
	args := make([]any, len(m.inputs))
	for i, input := range m.inputs {
		args[i] = convertArg(input.Value(), desc.Params[i])
	}

	// ProcessPendingEvents keeps hot reload live while the TUI is up.
	m.rt.ProcessPendingEvents()

	res := m.rt.Registry().Call("game", desc.Name, args)
	if !res.OK {
		return callResultMsg{err: fmt.Errorf("%s", res.Error)}
	}
	return callResultMsg{result: fmt.Sprintf("%v", res.Value)}
}

func convertArg(value string, t marshal.TypeTag) any {
	switch t {
	case marshal.TypeFloat, marshal.TypeNumber:
		v, _ := strconv.ParseFloat(value, 64)
		return v
	case marshal.TypeInt:
		v, _ := strconv.Atoi(value)
		return v
	case marshal.TypeBool:
		return value == "true" || value == "1"
	default:
		return value
	}
}

func (m *interactiveModel) View() string {
	if m.err != nil && m.state != stateShowResult {
		return errorStyle.Render(fmt.Sprintf("Error: %v\n\nPress q to quit.", m.err))
	}

	if len(m.methods) == 0 {
		return "Loading script..."
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render("Script Runner"))
	b.WriteString(" ")
	b.WriteString(m.filename)
	b.WriteString("\n\n")

	switch m.state {
	case stateSelectMethod:
		b.WriteString("Select a game method to call:\n\n")
		for i, desc := range m.methods {
			cursor := "  "
			if i == m.selected {
				cursor = "> "
				b.WriteString(selectedStyle.Render(cursor + m.formatMethod(desc)))
			} else {
				b.WriteString(cursor + m.formatMethod(desc))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("↑/↓ select • enter call • q quit"))

	case stateInputArgs:
		desc := m.methods[m.selected]
		b.WriteString(fmt.Sprintf("Calling %s\n\n", funcStyle.Render(desc.Name)))
		for i, input := range m.inputs {
			b.WriteString(input.View())
			b.WriteString(" ")
			b.WriteString(typeStyle.Render(string(desc.Params[i])))
			b.WriteString("\n")
		}
		b.WriteString("\n")
		b.WriteString(helpStyle.Render("tab next field • enter call • esc back"))

	case stateShowResult:
		desc := m.methods[m.selected]
		b.WriteString(fmt.Sprintf("Result of %s:\n\n", funcStyle.Render(desc.Name)))
		if m.err != nil {
			b.WriteString(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		} else {
			b.WriteString(resultStyle.Render(m.result))
		}
		b.WriteString("\n\n")
		b.WriteString(helpStyle.Render("enter continue • q quit"))
	}

	return b.String()
}

func (m *interactiveModel) formatMethod(desc binding.MethodDescriptor) string {
	var params []string
	for _, p := range desc.Params {
		params = append(params, typeStyle.Render(string(p)))
	}
	result := ""
	if desc.Returns != "" && desc.Returns != marshal.TypeVoid {
		result = " -> " + typeStyle.Render(string(desc.Returns))
	}
	return funcStyle.Render(desc.Name) + "(" + strings.Join(params, ", ") + ")" + result
}

func runInteractive(filename string, logger *zap.Logger) error {
	p := tea.NewProgram(newInteractiveModel(filename, logger), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
