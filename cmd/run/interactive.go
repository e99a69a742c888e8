package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	lua "github.com/yuin/gopher-lua"
	"golang.org/x/term"

	"github.com/wippyai/lua-runtime/interp"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	promptStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	resultStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#90EE90"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))
)

const historyLines = 20

type replModel struct {
	ip      *interp.Interpreter
	input   textinput.Model
	history []string
}

func newReplModel(ip *interp.Interpreter) *replModel {
	ti := textinput.New()
	ti.Placeholder = "lua code"
	ti.Prompt = promptStyle.Render("> ")
	ti.Focus()

	return &replModel{
		ip:    ip,
		input: ti,
	}
}

func (m *replModel) Init() tea.Cmd {
	return textinput.Blink
}

func (m *replModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.Type {
		case tea.KeyCtrlC, tea.KeyCtrlD:
			return m, tea.Quit
		case tea.KeyEnter:
			line := strings.TrimSpace(m.input.Value())
			m.input.SetValue("")
			if line == "" {
				return m, nil
			}
			if line == "exit" || line == "quit" {
				return m, tea.Quit
			}
			m.push("> " + line)
			out, err := m.eval(line)
			if err != nil {
				m.push(errorStyle.Render(err.Error()))
			} else if out != "" {
				m.push(resultStyle.Render(out))
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *replModel) push(line string) {
	m.history = append(m.history, line)
	if len(m.history) > historyLines {
		m.history = m.history[len(m.history)-historyLines:]
	}
}

// eval runs one REPL line under the execution lock. Lines are tried as
// expressions first so bare `1 + 1` prints its value; statements fall
// back to a plain chunk.
func (m *replModel) eval(line string) (string, error) {
	state := m.ip.GILEnsure()
	defer m.ip.GILRelease(state)

	L := m.ip.State()
	if fn, err := L.LoadString("return " + line); err == nil {
		base := L.GetTop()
		L.Push(fn)
		if err := L.PCall(0, lua.MultRet, nil); err != nil {
			return "", err
		}
		top := L.GetTop()
		parts := make([]string, 0, top-base)
		for i := base + 1; i <= top; i++ {
			parts = append(parts, L.Get(i).String())
		}
		L.SetTop(base)
		return strings.Join(parts, "\t"), nil
	}

	return "", L.DoString(line)
}

func (m *replModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("lua-runtime " + m.ip.Version()))
	b.WriteString("\n\n")
	for _, line := range m.history {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteString(m.input.View())
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("enter: eval • ctrl+c: quit"))
	b.WriteString("\n")

	return b.String()
}

func runInteractive(ip *interp.Interpreter) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return fmt.Errorf("interactive mode requires a terminal")
	}

	p := tea.NewProgram(newReplModel(ip))
	_, err := p.Run()
	return err
}
