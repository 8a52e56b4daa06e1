package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/benaskins/locksmith/internal/generator"
)

const (
	inputWebsite = iota
	inputUsername
	inputPassword
)

// formModel collects a new credential and holds the generator options.
type formModel struct {
	focusIndex int
	inputs     []textinput.Model // 0: website, 1: username, 2: password
	length     int
	numbers    bool
	symbols    bool
	showPass   bool
}

func newFormModel(opts GeneratorOptions) formModel {
	m := formModel{
		inputs:  make([]textinput.Model, 3),
		length:  opts.Length,
		numbers: opts.Numbers,
		symbols: opts.Symbols,
	}

	for i := range m.inputs {
		t := textinput.New()
		t.Cursor.Style = focusedStyle
		t.CharLimit = 256
		t.Width = 40

		switch i {
		case inputWebsite:
			t.Prompt = "Website:  "
			t.Placeholder = "example.com"
		case inputUsername:
			t.Prompt = "Username: "
			t.Placeholder = "alice@example.com"
		case inputPassword:
			t.Prompt = "Password: "
			t.EchoMode = textinput.EchoPassword
			t.EchoCharacter = '•'
		}
		m.inputs[i] = t
	}
	m.inputs[inputWebsite].Focus()
	m.inputs[inputWebsite].TextStyle = focusedStyle
	return m
}

func (m formModel) values() (website, username, password string) {
	return m.inputs[inputWebsite].Value(), m.inputs[inputUsername].Value(), m.inputs[inputPassword].Value()
}

func (m *formModel) setFocus(i int) tea.Cmd {
	n := len(m.inputs)
	m.focusIndex = (i%n + n) % n
	var cmd tea.Cmd
	for j := range m.inputs {
		if j == m.focusIndex {
			cmd = m.inputs[j].Focus()
			m.inputs[j].TextStyle = focusedStyle
			continue
		}
		m.inputs[j].Blur()
		m.inputs[j].TextStyle = blurredStyle
	}
	return cmd
}

func (m *formModel) adjustLength(delta int) {
	m.length = min(max(m.length+delta, generator.MinLength), generator.MaxLength)
}

func (m *formModel) togglePasswordEcho() {
	m.showPass = !m.showPass
	if m.showPass {
		m.inputs[inputPassword].EchoMode = textinput.EchoNormal
	} else {
		m.inputs[inputPassword].EchoMode = textinput.EchoPassword
	}
}

// updateInputs forwards msg to the focused input only.
func (m formModel) updateInputs(msg tea.Msg) (formModel, tea.Cmd) {
	var cmd tea.Cmd
	m.inputs[m.focusIndex], cmd = m.inputs[m.focusIndex].Update(msg)
	return m, cmd
}

func (m formModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Add credential"))
	b.WriteString("\n")
	for i := range m.inputs {
		b.WriteString(m.inputs[i].View())
		b.WriteString("\n")
	}

	check := func(on bool) string {
		if on {
			return "[x]"
		}
		return "[ ]"
	}
	b.WriteString("\n")
	b.WriteString(detailStyle.Render(fmt.Sprintf(
		"Generator: length %d  %s numbers  %s symbols",
		m.length, check(m.numbers), check(m.symbols),
	)))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render(
		"tab/shift+tab: move • ctrl+g: generate • pgup/pgdn: length • ctrl+n: numbers • ctrl+o: symbols\n" +
			"ctrl+r: show/hide password • enter: save • esc: cancel",
	))
	return b.String()
}
