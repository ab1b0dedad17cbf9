package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pairplay/internal/library"
)

// viewState represents the currently active view.
type viewState int

const (
	viewBoard viewState = iota
	viewPunishments
	viewCards
	viewLibrary
	viewPomodoro
	viewHistory
	viewSettings
)

var viewNames = []string{"Board", "Punishments", "Cards", "Library", "Pomodoro", "History", "Settings"}

// --- Messages ---

type tickMsg time.Time

// stepMsg advances a running piece animation. seq ties each step to the
// animation run that scheduled it; stale steps from a reset game are
// dropped by comparing seq against the current counter.
type stepMsg struct {
	seq int
}

type statusMsg struct {
	text    string
	isError bool
}

type exportDoneMsg struct {
	path string
}

// --- Helpers ---

func statusCmd(text string) func() tea.Msg {
	return func() tea.Msg {
		return statusMsg{text: text}
	}
}

func errorCmd(err error) func() tea.Msg {
	return func() tea.Msg {
		return statusMsg{text: err.Error(), isError: true}
	}
}

func roleLabel(kind library.Kind, role library.Role) string {
	if label, ok := kind.Config().RoleLabels[role]; ok {
		return label
	}
	return string(role)
}

func roleStyleFor(role library.Role) lipgloss.Style {
	if role == library.RoleMale {
		return himStyle
	}
	return herStyle
}
