// Package tui is the interactive terminal front end for the credential
// store: a most-recent-first list with reveal, copy and delete, an add form
// with the password generator, and a transient status line for feedback.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/benaskins/locksmith/internal/clip"
	"github.com/benaskins/locksmith/internal/credential"
	"github.com/benaskins/locksmith/internal/generator"
)

// statusTimeout matches how long feedback stays on screen.
const statusTimeout = 3 * time.Second

// masked is shown in place of hidden passwords.
const masked = "••••••••"

// GeneratorOptions are the initial generator settings of the add form.
type GeneratorOptions struct {
	Length  int
	Numbers bool
	Symbols bool
}

// ReloadedMsg tells the model that the store was reloaded from disk.
type ReloadedMsg struct{}

// clearStatusMsg expires the status line set with the matching sequence.
type clearStatusMsg struct{ seq int }

type viewState int

const (
	listView viewState = iota
	formView
	confirmDeleteView
)

// Model is the bubbletea model for the credential manager.
type Model struct {
	store     *credential.Store
	gen       *generator.Generator
	clipboard clip.Clipboard
	genOpts   GeneratorOptions

	state    viewState
	records  []credential.Record
	cursor   int
	revealed map[int64]bool
	form     formModel

	status    string
	statusErr bool
	statusSeq int
}

// New creates the TUI model over store.
func New(store *credential.Store, gen *generator.Generator, cb clip.Clipboard, opts GeneratorOptions) Model {
	m := Model{
		store:     store,
		gen:       gen,
		clipboard: cb,
		genOpts:   opts,
		revealed:  make(map[int64]bool),
	}
	m.refresh()
	return m
}

// NewProgram wraps m in an alternate-screen program. Callers may Send a
// ReloadedMsg to it from another goroutine while it runs.
func NewProgram(m Model) *tea.Program {
	return tea.NewProgram(m, tea.WithAltScreen())
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m *Model) refresh() {
	m.records = m.store.List()
	if m.cursor >= len(m.records) {
		m.cursor = max(len(m.records)-1, 0)
	}
}

func (m *Model) setStatus(msg string, isErr bool) tea.Cmd {
	m.status = msg
	m.statusErr = isErr
	m.statusSeq++
	seq := m.statusSeq
	return tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{seq: seq}
	})
}

func (m Model) selected() (credential.Record, bool) {
	if len(m.records) == 0 {
		return credential.Record{}, false
	}
	return m.records[m.cursor], true
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case clearStatusMsg:
		if msg.seq == m.statusSeq {
			m.status = ""
		}
		return m, nil

	case ReloadedMsg:
		m.refresh()
		return m, m.setStatus("Credentials reloaded from disk", false)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		switch m.state {
		case formView:
			return m.updateForm(msg)
		case confirmDeleteView:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}

	if m.state == formView {
		var cmd tea.Cmd
		m.form, cmd = m.form.updateInputs(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		return m, tea.Quit

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}

	case "down", "j":
		if m.cursor < len(m.records)-1 {
			m.cursor++
		}

	case " ", "enter":
		if rec, ok := m.selected(); ok {
			m.revealed[rec.ID] = !m.revealed[rec.ID]
		}

	case "c":
		return m.copyField(credential.FieldPassword)

	case "u":
		return m.copyField(credential.FieldUsername)

	case "d", "delete":
		if _, ok := m.selected(); ok {
			m.state = confirmDeleteView
		}

	case "a":
		m.form = newFormModel(m.genOpts)
		m.state = formView
		return m, m.form.setFocus(inputWebsite)

	case "r":
		m.store.Reload()
		m.refresh()
	}
	return m, nil
}

func (m Model) copyField(f credential.Field) (tea.Model, tea.Cmd) {
	rec, ok := m.selected()
	if !ok {
		return m, nil
	}
	value, err := m.store.Field(rec.ID, f)
	if err != nil {
		return m, m.setStatus("Credential not found", true)
	}
	if err := m.clipboard.Copy(value); err != nil {
		return m, m.setStatus("Failed to copy: "+err.Error(), true)
	}
	name := string(f)
	return m, m.setStatus(strings.ToUpper(name[:1])+name[1:]+" copied to clipboard!", false)
}

func (m Model) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.state = listView
		rec, ok := m.selected()
		if !ok {
			return m, nil
		}
		removed, err := m.store.Remove(rec.ID)
		delete(m.revealed, rec.ID)
		m.refresh()
		switch {
		case errors.Is(err, credential.ErrNotFound):
			return m, m.setStatus("Password not found", true)
		case err != nil:
			return m, m.setStatus("Deleted, but saving failed: "+err.Error(), true)
		}
		return m, m.setStatus(fmt.Sprintf("Password for %s deleted", removed.Website), false)

	case "n", "N", "esc", "q":
		m.state = listView
	}
	return m, nil
}

func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = listView
		return m, nil

	case "tab", "down":
		return m, m.form.setFocus(m.form.focusIndex + 1)

	case "shift+tab", "up":
		return m, m.form.setFocus(m.form.focusIndex - 1)

	case "pgup":
		m.form.adjustLength(1)
		return m, nil

	case "pgdown":
		m.form.adjustLength(-1)
		return m, nil

	case "ctrl+n":
		m.form.numbers = !m.form.numbers
		return m, nil

	case "ctrl+o":
		m.form.symbols = !m.form.symbols
		return m, nil

	case "ctrl+r":
		m.form.togglePasswordEcho()
		return m, nil

	case "ctrl+g":
		pw, err := m.gen.Generate(m.form.length, m.form.numbers, m.form.symbols)
		if err != nil {
			return m, m.setStatus(err.Error(), true)
		}
		m.form.inputs[inputPassword].SetValue(pw)
		return m, m.setStatus("Password generated!", false)

	case "enter":
		return m.submit()
	}

	var cmd tea.Cmd
	m.form, cmd = m.form.updateInputs(msg)
	return m, cmd
}

func (m Model) submit() (tea.Model, tea.Cmd) {
	website, username, password := m.form.values()
	rec, err := m.store.Add(website, username, password)
	switch {
	case errors.Is(err, credential.ErrValidation):
		return m, m.setStatus("Please fill in all fields", true)
	case errors.Is(err, credential.ErrDuplicate):
		return m, m.setStatus("A password for this website and username combination already exists", true)
	}

	m.state = listView
	m.refresh()
	m.cursor = 0
	if err != nil {
		return m, m.setStatus("Saved in memory, but writing failed: "+err.Error(), true)
	}
	return m, m.setStatus(fmt.Sprintf("Password for %s saved!", rec.Website), false)
}

func (m Model) View() string {
	var b strings.Builder
	switch m.state {
	case formView:
		b.WriteString(m.form.View())
	default:
		b.WriteString(m.listView())
	}

	if m.status != "" {
		b.WriteString("\n\n")
		if m.statusErr {
			b.WriteString(errorStyle.Render(m.status))
		} else {
			b.WriteString(successStyle.Render(m.status))
		}
	}
	return docStyle.Render(b.String())
}

func (m Model) listView() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("Saved passwords (%d)", len(m.records))))
	b.WriteString("\n")

	if len(m.records) == 0 {
		b.WriteString(emptyStyle.Render("No passwords saved yet. Press a to add your first one."))
		b.WriteString("\n")
	}

	for i, rec := range m.records {
		pw := masked
		if m.revealed[rec.ID] {
			pw = rec.Password
		}
		line := fmt.Sprintf("%s  %s", rec.Website, rec.Username)
		if i == m.cursor {
			b.WriteString(selectedItemStyle.Render("▸ " + line))
		} else {
			b.WriteString(itemStyle.Render(line))
		}
		b.WriteString("\n")
		b.WriteString(detailStyle.Render(fmt.Sprintf("password: %s  added %s", pw, rec.CreatedAt.Local().Format(time.DateOnly))))
		b.WriteString("\n")
	}

	if m.state == confirmDeleteView {
		if rec, ok := m.selected(); ok {
			b.WriteString("\n")
			b.WriteString(specialStyle.Render(fmt.Sprintf("Delete password for %s (%s)? y/n", rec.Website, rec.Username)))
			b.WriteString("\n")
		}
	}

	b.WriteString(helpStyle.Render("↑/↓: move • space: show/hide • c: copy password • u: copy username • a: add • d: delete • r: reload • q: quit"))
	return b.String()
}
