package tui

import (
	"context"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sadopc/pairplay/internal/library"
	"github.com/sadopc/pairplay/internal/remote"
	"github.com/sadopc/pairplay/internal/store"
)

// App is the root Bubble Tea model.
type App struct {
	store  *store.Store
	col    *library.Collection
	client *remote.Client
	width  int
	height int

	activeView viewState
	showHelp   bool

	board      boardModel
	punish     drawModel
	cards      drawModel
	libraryTab editorModel
	pomodoro   pomodoroModel
	history    historyModel
	settings   settingsModel

	help      help.Model
	status    string
	statusErr bool
}

func NewApp(s *store.Store, col *library.Collection, client *remote.Client) App {
	h := help.New()
	h.ShowAll = false

	// Every editor mutation persists the full snapshot locally and mirrors
	// it remotely, best effort. The clone is taken here, on the UI
	// goroutine, so the mirror never reads the live maps.
	ed := library.NewEditor(col, func() {
		if err := s.SaveCollection(col); err != nil {
			log.Error("persist libraries", "err", err)
		}
		go mirrorLibraries(client, col.Clone())
	})

	return App{
		store:      s,
		col:        col,
		client:     client,
		activeView: viewBoard,
		board:      newBoardModel(s, col, client),
		punish:     newDrawModel(col, library.KindPunishments),
		cards:      newDrawModel(col, library.KindPositionCards),
		libraryTab: newEditorModel(ed),
		pomodoro:   newPomodoroModel(s, client),
		history:    newHistoryModel(s),
		settings:   newSettingsModel(s, client),
		help:       h,
	}
}

func mirrorLibraries(client *remote.Client, col *library.Collection) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	for _, kind := range library.Kinds {
		if err := client.ReplaceLibrary(ctx, kind, col.Library(kind)); err != nil {
			log.Error("mirror library", "kind", kind, "err", err)
		}
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		a.settings.refresh(),
		tickCmd(),
	)
}

func tickCmd() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.board.setSize(a.width, contentHeight)
		a.punish.setSize(a.width, contentHeight)
		a.cards.setSize(a.width, contentHeight)
		a.libraryTab.setSize(a.width, contentHeight)
		a.pomodoro.setSize(a.width, contentHeight)
		a.history.setSize(a.width, contentHeight)
		a.settings.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Forms capture all input, including the global keys.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			return a.switchView(viewBoard)
		case key.Matches(msg, keys.Tab2):
			return a.switchView(viewPunishments)
		case key.Matches(msg, keys.Tab3):
			return a.switchView(viewCards)
		case key.Matches(msg, keys.Tab4):
			return a.switchView(viewLibrary)
		case key.Matches(msg, keys.Tab5):
			return a.switchView(viewPomodoro)
		case key.Matches(msg, keys.Tab6):
			return a.switchView(viewHistory)
		case key.Matches(msg, keys.Tab7):
			return a.switchView(viewSettings)
		case key.Matches(msg, keys.Tab):
			return a.switchView((a.activeView + 1) % 7)
		}

	case tickMsg:
		var cmd tea.Cmd
		a.pomodoro, cmd = a.pomodoro.update(msg)
		return a, tea.Batch(tickCmd(), cmd)

	case stepMsg:
		// Animation steps always reach the board, even from another tab.
		var cmd tea.Cmd
		a.board, cmd = a.board.update(msg)
		return a, cmd

	case statusMsg:
		a.status = msg.text
		a.statusErr = msg.isError
		return a, nil

	case exportDoneMsg:
		a.status = "Exported to " + msg.path
		a.statusErr = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) switchView(v viewState) (tea.Model, tea.Cmd) {
	a.activeView = v
	switch v {
	case viewBoard:
		a.board = a.board.refreshed()
		return a, nil
	case viewHistory:
		return a, a.history.refresh()
	case viewSettings:
		return a, a.settings.refresh()
	}
	return a, nil
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewBoard:
		a.board, cmd = a.board.update(msg)
	case viewPunishments:
		a.punish, cmd = a.punish.update(msg)
	case viewCards:
		a.cards, cmd = a.cards.update(msg)
	case viewLibrary:
		a.libraryTab, cmd = a.libraryTab.update(msg)
	case viewPomodoro:
		a.pomodoro, cmd = a.pomodoro.update(msg)
	case viewHistory:
		a.history, cmd = a.history.update(msg)
	case viewSettings:
		a.settings, cmd = a.settings.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	switch a.activeView {
	case viewLibrary:
		return a.libraryTab.formActive
	case viewSettings:
		return a.settings.formActive
	}
	return false
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewBoard:
		content = a.board.view()
	case viewPunishments:
		content = a.punish.view()
	case viewCards:
		content = a.cards.view()
	case viewLibrary:
		content = a.libraryTab.view()
	case viewPomodoro:
		content = a.pomodoro.view()
	case viewHistory:
		content = a.history.view()
	case viewSettings:
		content = a.settings.view()
	}

	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("pairplay ♥")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.statusErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}
