package tui

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sadopc/pairplay/internal/remote"
	"github.com/sadopc/pairplay/internal/store"
)

type pomodoroPhase int

const (
	pomodoroIdle pomodoroPhase = iota
	pomodoroFocus
	pomodoroBreak
)

type pomodoroModel struct {
	store  *store.Store
	client *remote.Client
	width  int
	height int

	phase     pomodoroPhase
	paused    bool
	remaining time.Duration
	phaseEnd  time.Time
	completed int

	focusDuration time.Duration
	breakDuration time.Duration
}

func newPomodoroModel(s *store.Store, client *remote.Client) pomodoroModel {
	m := pomodoroModel{store: s, client: client}
	m.loadSettings()
	return m
}

func (p *pomodoroModel) loadSettings() {
	settings := p.store.LoadSettings()
	p.focusDuration = time.Duration(settings.PomodoroFocusMinutes) * time.Minute
	p.breakDuration = time.Duration(settings.PomodoroBreakMinutes) * time.Minute
}

func (p *pomodoroModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p pomodoroModel) update(msg tea.Msg) (pomodoroModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		if p.phase != pomodoroIdle && !p.paused {
			p.remaining = time.Until(p.phaseEnd)
			if p.remaining <= 0 {
				return p.advancePhase()
			}
		}
		return p, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Start):
			switch p.phase {
			case pomodoroIdle:
				return p.startFocus()
			default:
				return p.togglePause()
			}
		case key.Matches(msg, keys.Stop):
			if p.phase != pomodoroIdle {
				p.phase = pomodoroIdle
				p.paused = false
				p.remaining = 0
				return p, statusCmd("Timer stopped")
			}
		case key.Matches(msg, keys.Roll):
			// Skip the break early.
			if p.phase == pomodoroBreak {
				return p.startFocus()
			}
		}
	}
	return p, nil
}

func (p pomodoroModel) startFocus() (pomodoroModel, tea.Cmd) {
	p.loadSettings()
	p.phase = pomodoroFocus
	p.paused = false
	p.remaining = p.focusDuration
	p.phaseEnd = time.Now().Add(p.focusDuration)
	return p, nil
}

func (p pomodoroModel) togglePause() (pomodoroModel, tea.Cmd) {
	if p.paused {
		p.paused = false
		p.phaseEnd = time.Now().Add(p.remaining)
		return p, statusCmd("Timer resumed")
	}
	p.paused = true
	p.remaining = time.Until(p.phaseEnd)
	return p, statusCmd("Timer paused")
}

func (p pomodoroModel) advancePhase() (pomodoroModel, tea.Cmd) {
	switch p.phase {
	case pomodoroFocus:
		p.completed++
		p.recordRound()
		p.phase = pomodoroBreak
		p.remaining = p.breakDuration
		p.phaseEnd = time.Now().Add(p.breakDuration)
		return p, statusCmd("Focus done! Break time \a")

	case pomodoroBreak:
		next, _ := p.startFocus()
		return next, statusCmd("Back to focus \a")
	}
	return p, nil
}

func (p pomodoroModel) recordRound() {
	duration := int64(p.focusDuration.Seconds())
	if err := p.store.RecordGame("pomodoro", "", duration, "", ""); err != nil {
		log.Error("record pomodoro round", "err", err)
	}
	client := p.client
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.RecordGame(ctx, store.GameRecord{
			GameType: "pomodoro",
			Duration: duration,
		}); err != nil {
			log.Error("mirror pomodoro round", "err", err)
		}
	}()
}

func (p pomodoroModel) view() string {
	w := p.width - 4

	title := titleStyle.Render("Pomodoro for Two")

	var timeDisplay, phaseLabel, hint string
	switch p.phase {
	case pomodoroIdle:
		timeDisplay = timerStyle.Width(w - 6).Render(formatCountdown(p.focusDuration))
		phaseLabel = mutedStyle.Render("Ready when you are")
		hint = mutedStyle.Render("s: start")
	case pomodoroFocus:
		style := accentStyle
		label := "FOCUS"
		if p.paused {
			style = warningStyle
			label = "PAUSED"
		}
		timeDisplay = style.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(p.remaining))
		phaseLabel = style.Bold(true).Render(label)
		hint = mutedStyle.Render("s: pause  x: stop")
	case pomodoroBreak:
		timeDisplay = successStyle.Bold(true).Width(w - 6).Align(lipgloss.Center).Render(formatCountdown(p.remaining))
		phaseLabel = successStyle.Bold(true).Render("BREAK, time together")
		hint = mutedStyle.Render("space: skip break  s: pause  x: stop")
	}

	rounds := ""
	if p.completed > 0 {
		rounds = subtitleStyle.Render(fmt.Sprintf("%d %s completed today",
			p.completed, plural(p.completed, "round", "rounds")))
	}

	content := lipgloss.JoinVertical(lipgloss.Center,
		title, "", timeDisplay, phaseLabel, "", rounds, "", hint,
	)
	return panelStyle.Width(w).Render(content)
}

func formatCountdown(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
