package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/pairplay/internal/export"
	"github.com/sadopc/pairplay/internal/store"
)

var winColors = []lipgloss.Color{colorHim, colorHer, colorSecondary, colorWarning}

type historyModel struct {
	store  *store.Store
	width  int
	height int

	records []store.GameRecord
	stats   store.GameStats

	chart barchart.Model
}

func newHistoryModel(s *store.Store) historyModel {
	return historyModel{
		store: s,
		chart: barchart.New(40, 8),
	}
}

func (h *historyModel) setSize(w, hgt int) {
	h.width = w
	h.height = hgt
}

type historyDataMsg struct {
	records []store.GameRecord
	stats   store.GameStats
}

func (h historyModel) refresh() tea.Cmd {
	return func() tea.Msg {
		records, _ := h.store.ListHistory(20)
		stats, _ := h.store.Stats()
		return historyDataMsg{records: records, stats: stats}
	}
}

func (h historyModel) update(msg tea.Msg) (historyModel, tea.Cmd) {
	switch msg := msg.(type) {
	case historyDataMsg:
		h.records = msg.records
		h.stats = msg.stats
		h.buildChart()
		return h, nil

	case tea.KeyMsg:
		if key.Matches(msg, keys.Export) {
			return h, h.exportCmd()
		}
	}
	return h, nil
}

func (h *historyModel) buildChart() {
	chartWidth := h.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	h.chart = barchart.New(chartWidth, 8)

	names := make([]string, 0, len(h.stats.WinsByName))
	for name := range h.stats.WinsByName {
		names = append(names, name)
	}
	sort.Strings(names)

	var bars []barchart.BarData
	for i, name := range names {
		style := lipgloss.NewStyle().Foreground(winColors[i%len(winColors)])
		bars = append(bars, barchart.BarData{
			Label: name,
			Values: []barchart.BarValue{{
				Name:  name,
				Value: float64(h.stats.WinsByName[name]),
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		bars = []barchart.BarData{{
			Label:  "-",
			Values: []barchart.BarValue{{Value: 0, Style: lipgloss.NewStyle().Foreground(colorSubtle)}},
		}}
	}

	h.chart.PushAll(bars)
	h.chart.Draw()
}

func (h historyModel) exportCmd() tea.Cmd {
	s := h.store
	return func() tea.Msg {
		records, err := s.ListHistory(0)
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		path := filepath.Join(home, fmt.Sprintf("pairplay-history-%s.csv", time.Now().Format("2006-01-02")))
		if err := export.HistoryToCSV(records, path); err != nil {
			return statusMsg{text: err.Error(), isError: true}
		}
		return exportDoneMsg{path: path}
	}
}

func (h historyModel) view() string {
	w := h.width - 4

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("History"), "  ",
		mutedStyle.Render(fmt.Sprintf("%d games", h.stats.TotalGames)),
	)

	chartTitle := subtitleStyle.Render("Wins")
	chartView := h.chart.View()

	tableView := h.renderTable(w)
	nav := mutedStyle.Render("  o: export csv")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartTitle, chartView, "", tableView, "", nav,
		),
	)
}

func (h historyModel) renderTable(w int) string {
	if len(h.records) == 0 {
		return mutedStyle.Render("  No games played yet")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %-10s %-12s %-8s %10s", "Date", "Game", "Winner", "Board", "Duration")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 56))))

	for _, r := range h.records {
		winner := r.Winner
		if winner == "" {
			winner = "-"
		}
		rows = append(rows, fmt.Sprintf("  %-12s %-10s %-12s %-8s %10s",
			r.CreatedAt.Format("Jan 02"), r.GameType, winner, r.BoardSize,
			formatSeconds(r.Duration),
		))
	}
	return strings.Join(rows, "\n")
}

func formatSeconds(secs int64) string {
	d := time.Duration(secs) * time.Second
	m := int(d.Minutes())
	s := int(d.Seconds()) % 60
	return fmt.Sprintf("%02d:%02d", m, s)
}
