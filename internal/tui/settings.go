package tui

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sadopc/pairplay/internal/library"
	"github.com/sadopc/pairplay/internal/remote"
	"github.com/sadopc/pairplay/internal/store"
)

type settingsModel struct {
	store  *store.Store
	client *remote.Client
	width  int
	height int

	settings store.Settings
	players  []store.Player

	formActive bool
	form       *huh.Form

	// Form values as pointers (survive value copies)
	focusMin   *string
	breakMin   *string
	difficulty *string
	boardRows  *string
	boardCols  *string
	trigger    *string
	p1Name     *string
	p1Avatar   *string
	p2Name     *string
	p2Avatar   *string
}

func newSettingsModel(s *store.Store, client *remote.Client) settingsModel {
	fm, bm, df, br, bc, tc := "", "", "", "", "", ""
	n1, a1, n2, a2 := "", "", "", ""
	return settingsModel{
		store:      s,
		client:     client,
		focusMin:   &fm,
		breakMin:   &bm,
		difficulty: &df,
		boardRows:  &br,
		boardCols:  &bc,
		trigger:    &tc,
		p1Name:     &n1,
		p1Avatar:   &a1,
		p2Name:     &n2,
		p2Avatar:   &a2,
	}
}

func (s *settingsModel) setSize(w, h int) {
	s.width = w
	s.height = h
}

type settingsDataMsg struct {
	settings store.Settings
	players  []store.Player
}

func (s settingsModel) refresh() tea.Cmd {
	return func() tea.Msg {
		players, _ := s.store.LoadPlayers()
		return settingsDataMsg{settings: s.store.LoadSettings(), players: players}
	}
}

func (s settingsModel) update(msg tea.Msg) (settingsModel, tea.Cmd) {
	if s.formActive && s.form != nil {
		return s.updateForm(msg)
	}

	switch msg := msg.(type) {
	case settingsDataMsg:
		s.settings = msg.settings
		s.players = msg.players
		return s, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Enter), key.Matches(msg, keys.Edit):
			return s.showForm()
		}
	}
	return s, nil
}

func (s settingsModel) showForm() (settingsModel, tea.Cmd) {
	*s.focusMin = strconv.Itoa(s.settings.PomodoroFocusMinutes)
	*s.breakMin = strconv.Itoa(s.settings.PomodoroBreakMinutes)
	*s.difficulty = s.settings.ChessDifficulty
	*s.boardRows = strconv.Itoa(s.settings.BoardRows)
	*s.boardCols = strconv.Itoa(s.settings.BoardCols)
	*s.trigger = strconv.FormatFloat(s.settings.TriggerChance, 'f', -1, 64)
	if len(s.players) >= 2 {
		*s.p1Name = s.players[0].Name
		*s.p1Avatar = s.players[0].Avatar
		*s.p2Name = s.players[1].Name
		*s.p2Avatar = s.players[1].Avatar
	}

	diffOptions := make([]huh.Option[string], len(difficulties))
	for i, d := range difficulties {
		diffOptions[i] = huh.NewOption(d.label, d.value)
	}

	s.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().Title("Difficulty").Options(diffOptions...).Value(s.difficulty),
			huh.NewInput().Title("Board rows (5-15)").Value(s.boardRows),
			huh.NewInput().Title("Board columns (5-15)").Value(s.boardCols),
			huh.NewInput().Title("Task trigger chance (0-1)").Value(s.trigger),
		).Title("Board Game"),
		huh.NewGroup(
			huh.NewInput().Title("Focus (min)").Value(s.focusMin),
			huh.NewInput().Title("Break (min)").Value(s.breakMin),
		).Title("Pomodoro"),
		huh.NewGroup(
			huh.NewInput().Title("Player 1 name").Value(s.p1Name),
			huh.NewInput().Title("Player 1 avatar").Value(s.p1Avatar),
			huh.NewInput().Title("Player 2 name").Value(s.p2Name),
			huh.NewInput().Title("Player 2 avatar").Value(s.p2Avatar),
		).Title("Players"),
	).WithShowHelp(true).WithShowErrors(true)

	s.formActive = true
	return s, s.form.Init()
}

func (s settingsModel) updateForm(msg tea.Msg) (settingsModel, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			s.formActive = false
			s.form = nil
			return s, nil
		}
	}

	form, cmd := s.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		s.form = f
	}

	if s.form.State == huh.StateCompleted {
		s.formActive = false
		if err := s.save(); err != nil {
			return s, errorCmd(err)
		}
		return s, tea.Batch(s.refresh(), statusCmd("Settings saved"))
	}

	return s, cmd
}

func (s *settingsModel) save() error {
	next := s.settings
	next.PomodoroFocusMinutes = parseIntIn(*s.focusMin, 1, 180, next.PomodoroFocusMinutes)
	next.PomodoroBreakMinutes = parseIntIn(*s.breakMin, 1, 60, next.PomodoroBreakMinutes)
	next.ChessDifficulty = *s.difficulty
	next.BoardRows = parseIntIn(*s.boardRows, 5, 15, next.BoardRows)
	next.BoardCols = parseIntIn(*s.boardCols, 5, 15, next.BoardCols)
	if f, err := strconv.ParseFloat(*s.trigger, 64); err == nil && f >= 0 && f <= 1 {
		next.TriggerChance = f
	}
	if err := s.store.SaveSettings(next); err != nil {
		return err
	}
	s.settings = next

	if len(s.players) >= 2 {
		if *s.p1Name != "" {
			s.players[0].Name = *s.p1Name
		}
		if *s.p1Avatar != "" {
			s.players[0].Avatar = *s.p1Avatar
		}
		if *s.p2Name != "" {
			s.players[1].Name = *s.p2Name
		}
		if *s.p2Avatar != "" {
			s.players[1].Avatar = *s.p2Avatar
		}
		if err := s.store.SavePlayers(s.players); err != nil {
			return err
		}
	}

	s.mirror(next, s.players)
	return nil
}

// mirror pushes the saved settings and profiles to the remote backend.
// Failures are logged and ignored; the local store remains authoritative.
// The players slice is copied on the caller's goroutine; later saves
// mutate the live backing array.
func (s *settingsModel) mirror(settings store.Settings, live []store.Player) {
	client := s.client
	players := append([]store.Player(nil), live...)
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := client.UpsertSettings(ctx, settings); err != nil {
			log.Error("mirror settings", "err", err)
		}
		if err := client.UpsertProfile(ctx, players); err != nil {
			log.Error("mirror profile", "err", err)
		}
	}()
}

func parseIntIn(s string, lo, hi, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return fallback
	}
	return n
}

func (s settingsModel) view() string {
	w := s.width - 4

	if s.formActive && s.form != nil {
		return panelStyle.Width(w).Render(
			lipgloss.JoinVertical(lipgloss.Left, titleStyle.Render("Settings"), "", s.form.View()),
		)
	}

	label := func(name, value string) string {
		return fmt.Sprintf("  %s %s",
			lipgloss.NewStyle().Width(22).Render(name),
			highlightStyle.Render(value))
	}

	rows := []string{titleStyle.Render("Settings"), ""}
	rows = append(rows, label("Difficulty", s.settings.ChessDifficulty))
	rows = append(rows, label("Board", fmt.Sprintf("%dx%d (%d cells)",
		s.settings.BoardRows, s.settings.BoardCols, s.settings.TotalCells())))
	rows = append(rows, label("Trigger chance", strconv.FormatFloat(s.settings.TriggerChance, 'f', -1, 64)))
	rows = append(rows, label("Pomodoro focus", fmt.Sprintf("%d min", s.settings.PomodoroFocusMinutes)))
	rows = append(rows, label("Pomodoro break", fmt.Sprintf("%d min", s.settings.PomodoroBreakMinutes)))
	rows = append(rows, "")

	for _, p := range s.players {
		style := herStyle
		if p.Role == string(library.RoleMale) {
			style = himStyle
		}
		rows = append(rows, fmt.Sprintf("  %s %s", p.Avatar, style.Render(p.Name)))
	}

	rows = append(rows, "", mutedStyle.Render("enter: edit"))
	return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
