package controller

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

type confirmKeyMap struct {
	Yes  key.Binding
	No   key.Binding
	Quit key.Binding
}

func defaultConfirmKeys() confirmKeyMap {
	return confirmKeyMap{
		Yes:  key.NewBinding(key.WithKeys("y", "Y"), key.WithHelp("y", "apply")),
		No:   key.NewBinding(key.WithKeys("n", "N", "enter"), key.WithHelp("n/enter", "cancel")),
		Quit: key.NewBinding(key.WithKeys("ctrl+c", "esc", "q"), key.WithHelp("esc", "cancel")),
	}
}

// confirmModel answers a single yes/no question. The default is no.
type confirmModel struct {
	prompt    string
	keys      confirmKeyMap
	answered  bool
	confirmed bool
}

func newConfirmModel(prompt string) confirmModel {
	return confirmModel{prompt: prompt, keys: defaultConfirmKeys()}
}

func (m confirmModel) Init() tea.Cmd {
	return nil
}

func (m confirmModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch {
	case key.Matches(keyMsg, m.keys.Yes):
		m.answered = true
		m.confirmed = true

		return m, tea.Quit
	case key.Matches(keyMsg, m.keys.No), key.Matches(keyMsg, m.keys.Quit):
		m.answered = true

		return m, tea.Quit
	}

	return m, nil
}

func (m confirmModel) View() string {
	if m.answered {
		answer := mutedStyle.Render("no")
		if m.confirmed {
			answer = successStyle.Render("yes")
		}

		return titleStyle.Render(m.prompt) + " " + answer + "\n"
	}

	help := mutedStyle.Render("y " + m.keys.Yes.Help().Desc + " • n " + m.keys.No.Help().Desc)

	return titleStyle.Render(m.prompt) + " [y/N] " + help + "\n"
}
