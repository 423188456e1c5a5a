// Package prompt asks for interactive confirmation before changes are applied.
package prompt

import (
	"errors"
	"os"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/conn-castle/steward/internal/messages"
	"github.com/conn-castle/steward/internal/terminal"
)

var (
	// ErrNotInteractive is returned when no terminal is attached.
	ErrNotInteractive = errors.New(messages.PromptRequiresTerminal)
	// ErrCancelled is returned when the user aborts with Esc or Ctrl+C.
	ErrCancelled = errors.New(messages.PromptCancelled)
)

// Confirmer asks a yes/no question.
type Confirmer interface {
	Confirm(title string, description string, value *bool) error
}

// HuhConfirmer implements Confirmer using charmbracelet/huh.
type HuhConfirmer struct {
	isTerminal func() bool
}

var runFormFunc = func(form *huh.Form) error { return form.Run() }

// New creates a HuhConfirmer using terminal.IsInteractive.
func New() *HuhConfirmer {
	return &HuhConfirmer{isTerminal: terminal.IsInteractive}
}

// Interactive reports whether a terminal is attached.
func (c *HuhConfirmer) Interactive() bool {
	checker := c.isTerminal
	if checker == nil {
		checker = terminal.IsInteractive
	}
	return checker()
}

// keyMap makes Esc and Ctrl+C abort the form.
func keyMap() *huh.KeyMap {
	km := huh.NewDefaultKeyMap()
	km.Quit = key.NewBinding(key.WithKeys("ctrl+c", "esc"), key.WithHelp("esc", "cancel"))
	return km
}

// interruptFilter converts InterruptMsg to QuitMsg so bubbletea clears the
// form output on the way out.
func interruptFilter(_ tea.Model, msg tea.Msg) tea.Msg {
	if _, ok := msg.(tea.InterruptMsg); ok {
		return tea.QuitMsg{}
	}
	return msg
}

// Confirm renders a yes/no prompt on stderr.
func (c *HuhConfirmer) Confirm(title string, description string, value *bool) error {
	if !c.Interactive() {
		return ErrNotInteractive
	}
	form := huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(title).
				Description(description).
				Affirmative(messages.PromptAffirmative).
				Negative(messages.PromptNegative).
				Value(value),
		),
	)
	form.WithKeyMap(keyMap())
	form.WithProgramOptions(
		tea.WithOutput(os.Stderr),
		tea.WithFilter(interruptFilter),
	)
	err := runFormFunc(form)
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCancelled
	}
	return err
}
