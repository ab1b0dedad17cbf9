package tui

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/log"
	"github.com/sadopc/pairplay/internal/game"
	"github.com/sadopc/pairplay/internal/library"
	"github.com/sadopc/pairplay/internal/remote"
	"github.com/sadopc/pairplay/internal/store"
)

const stepInterval = 150 * time.Millisecond

var difficulties = []struct {
	value string
	label string
}{
	{library.DifficultyWarmup, "Warmup: draws from position cards"},
	{library.DifficultyIntimate, "Intimate: draws from board tasks"},
	{library.DifficultyAdventure, "Adventure: draws from punishments"},
}

// animState is the per-cell walk of the piece that just moved. It is pure
// presentation; the engine already resolved the move atomically.
type animState struct {
	seq    int
	player int
	pos    int
	to     int
}

type boardModel struct {
	store  *store.Store
	col    *library.Collection
	client *remote.Client
	width  int
	height int

	eng        *game.Engine
	rows       int
	cols       int
	profiles   []store.Player
	pending    *game.Task
	anim       *animState
	animSeq    int
	lastResult game.MoveResult

	picking    bool
	pickCursor int

	startedAt time.Time
	rng       *rand.Rand
}

func newBoardModel(s *store.Store, col *library.Collection, client *remote.Client) boardModel {
	b := boardModel{
		store:  s,
		col:    col,
		client: client,
		rng:    rand.New(rand.NewSource(time.Now().UnixNano())),
	}
	b.rebuild()
	return b
}

// rebuild constructs a fresh engine from persisted settings and players.
// Called at startup and whenever no game is in progress.
func (b *boardModel) rebuild() {
	settings := b.store.LoadSettings()
	profiles, err := b.store.LoadPlayers()
	if err != nil || len(profiles) < 2 {
		profiles = []store.Player{
			{Index: 0, Name: "Him", Avatar: "👦", Color: "#3B82F6", Role: string(library.RoleMale)},
			{Index: 1, Name: "Her", Avatar: "👧", Color: "#EC4899", Role: string(library.RoleFemale)},
		}
	}
	b.profiles = profiles

	players := make([]game.Player, len(profiles))
	for i, p := range profiles {
		players[i] = game.Player{
			ID:     p.Index,
			Name:   p.Name,
			Avatar: p.Avatar,
			Pos:    p.Position,
			Color:  p.Color,
			Role:   library.Role(p.Role),
		}
	}
	b.rows = settings.BoardRows
	b.cols = settings.BoardCols
	b.eng = game.New(b.col, players, game.Config{
		Rows:          settings.BoardRows,
		Cols:          settings.BoardCols,
		Difficulty:    settings.ChessDifficulty,
		TriggerChance: settings.TriggerChance,
	}, b.rng)
}

func (b *boardModel) setSize(w, h int) {
	b.width = w
	b.height = h
}

// refreshed reloads settings and players while no game is in progress, so
// edits from the settings view take effect on the next board.
func (b boardModel) refreshed() boardModel {
	phase := b.eng.Phase()
	if phase == game.PhaseIdle || phase == game.PhaseWon {
		b.rebuild()
	}
	return b
}

func stepCmd(seq int) tea.Cmd {
	return tea.Tick(stepInterval, func(time.Time) tea.Msg {
		return stepMsg{seq: seq}
	})
}

func (b boardModel) update(msg tea.Msg) (boardModel, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		return b.updateStep(msg)

	case tea.KeyMsg:
		if b.picking {
			return b.updatePicker(msg)
		}
		if b.pending != nil {
			if key.Matches(msg, keys.Enter) || key.Matches(msg, keys.Back) {
				return b.dismissTask()
			}
			return b, nil
		}
		if b.anim != nil {
			return b, nil
		}
		switch {
		case key.Matches(msg, keys.Start):
			return b.startGame()
		case key.Matches(msg, keys.Roll):
			return b.roll()
		case key.Matches(msg, keys.Reset):
			return b.resetGame()
		case key.Matches(msg, keys.Difficulty):
			b.picking = true
			b.pickCursor = difficultyIndex(b.eng.Difficulty())
			return b, nil
		}
	}
	return b, nil
}

func (b boardModel) startGame() (boardModel, tea.Cmd) {
	switch b.eng.Phase() {
	case game.PhaseIdle:
		b.eng.Start()
		b.startedAt = time.Now()
		return b, statusCmd(fmt.Sprintf("%s rolls first", b.eng.Current().Name))
	case game.PhaseWon:
		b.eng.Reset()
		b.animSeq++
		b.store.ResetPositions()
		b.eng.Start()
		b.startedAt = time.Now()
		return b, statusCmd("New game!")
	}
	return b, nil
}

func (b boardModel) roll() (boardModel, tea.Cmd) {
	mover := b.eng.CurrentIndex()
	dice, err := b.eng.Roll()
	if err != nil {
		return b, nil
	}
	res, err := b.eng.Resolve()
	if err != nil {
		return b, nil
	}
	b.animSeq++
	b.anim = &animState{seq: b.animSeq, player: mover, pos: res.From, to: res.To}
	b.lastResult = res
	return b, tea.Batch(
		statusCmd(fmt.Sprintf("🎲 %d", dice)),
		stepCmd(b.animSeq),
	)
}

func (b boardModel) updateStep(msg stepMsg) (boardModel, tea.Cmd) {
	if b.anim == nil || msg.seq != b.animSeq {
		return b, nil
	}
	if b.anim.pos < b.anim.to {
		b.anim.pos++
	}
	if b.anim.pos < b.anim.to {
		return b, stepCmd(b.anim.seq)
	}

	res := b.lastResult
	b.anim = nil
	b.persistPositions()

	if res.Won {
		b.recordWin(res)
	}
	if res.Task != nil {
		b.pending = res.Task
	}
	return b, nil
}

func (b boardModel) dismissTask() (boardModel, tea.Cmd) {
	task := b.pending
	b.pending = nil
	if task.Winner {
		return b, statusCmd("Press s for a new game")
	}
	if err := b.eng.NextTurn(); err != nil {
		return b, nil
	}
	return b, statusCmd(fmt.Sprintf("%s's turn", b.eng.Current().Name))
}

func (b boardModel) resetGame() (boardModel, tea.Cmd) {
	b.eng.Reset()
	b.animSeq++
	b.anim = nil
	b.pending = nil
	b.store.ResetPositions()
	b.rebuild()
	return b, statusCmd("Board reset")
}

// persistPositions writes the pieces' logical positions through to disk so
// an interrupted game resumes where it stood.
func (b *boardModel) persistPositions() {
	for i, p := range b.eng.Players() {
		if i < len(b.profiles) {
			b.profiles[i].Position = p.Pos
		}
	}
	if err := b.store.SavePlayers(b.profiles); err != nil {
		log.Error("persist positions", "err", err)
	}
}

func (b *boardModel) recordWin(res game.MoveResult) {
	winner := ""
	for _, p := range b.eng.Players() {
		if p.Pos == b.eng.TotalCells()-1 {
			winner = p.Name
		}
	}
	duration := int64(time.Since(b.startedAt).Seconds())
	size := fmt.Sprintf("%dx%d", b.rows, b.cols)
	difficulty := b.eng.Difficulty()

	if err := b.store.RecordGame("chess", winner, duration, size, difficulty); err != nil {
		log.Error("record game", "err", err)
	}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := b.client.RecordGame(ctx, store.GameRecord{
			GameType:   "chess",
			Winner:     winner,
			Duration:   duration,
			BoardSize:  size,
			Difficulty: difficulty,
		}); err != nil {
			log.Error("mirror game record", "err", err)
		}
	}()
}

func (b boardModel) updatePicker(msg tea.KeyMsg) (boardModel, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if b.pickCursor > 0 {
			b.pickCursor--
		}
	case key.Matches(msg, keys.Down):
		if b.pickCursor < len(difficulties)-1 {
			b.pickCursor++
		}
	case key.Matches(msg, keys.Enter):
		b.picking = false
		d := difficulties[b.pickCursor].value
		b.eng.SetDifficulty(d)
		if err := b.store.SetSetting("chess_difficulty", d); err != nil {
			log.Error("save difficulty", "err", err)
		}
		return b, statusCmd("Difficulty: " + d)
	case key.Matches(msg, keys.Back):
		b.picking = false
	}
	return b, nil
}

func difficultyIndex(d string) int {
	for i, opt := range difficulties {
		if opt.value == d {
			return i
		}
	}
	return 0
}

// displayPos returns where the player's piece is drawn, which trails the
// logical position while the walk animation runs.
func (b boardModel) displayPos(i int) int {
	if b.anim != nil && b.anim.player == i {
		return b.anim.pos
	}
	return b.eng.Players()[i].Pos
}

func (b boardModel) view() string {
	w := b.width - 4

	if b.picking {
		return b.renderPicker(w)
	}
	if b.pending != nil {
		return b.renderTask(w)
	}

	grid := b.renderGrid()
	side := b.renderSidebar()
	content := lipgloss.JoinHorizontal(lipgloss.Top, grid, "  ", side)

	return panelStyle.Width(w).Render(content)
}

func (b boardModel) renderGrid() string {
	cols := b.cols
	rows := b.rows
	last := b.eng.TotalCells() - 1

	occupied := map[int][]int{}
	for i := range b.eng.Players() {
		occupied[b.displayPos(i)] = append(occupied[b.displayPos(i)], i)
	}

	var lines []string
	for r := 0; r < rows; r++ {
		var cells []string
		for c := 0; c < cols; c++ {
			// Serpentine path: odd rows run right to left.
			idx := r*cols + c
			if r%2 == 1 {
				idx = r*cols + (cols - 1 - c)
			}
			cells = append(cells, b.renderCell(idx, last, occupied[idx]))
		}
		lines = append(lines, strings.Join(cells, " "))
	}
	return strings.Join(lines, "\n")
}

func (b boardModel) renderCell(idx, last int, players []int) string {
	switch len(players) {
	case 2:
		return "👫"
	case 1:
		p := b.eng.Players()[players[0]]
		style := roleStyleFor(p.Role)
		if p.Color != "" {
			style = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color(p.Color))
		}
		return style.Render(p.Avatar)
	}
	if idx == 0 {
		return cellStartStyle.Render("🏁")
	}
	if idx == last {
		return cellGoalStyle.Render("🏆")
	}
	return cellStyle.Render("··")
}

func (b boardModel) renderSidebar() string {
	var rows []string
	rows = append(rows, titleStyle.Render("Flight Chess"))
	rows = append(rows, "")

	for i, p := range b.eng.Players() {
		marker := "  "
		if i == b.eng.CurrentIndex() && b.eng.Phase() != game.PhaseIdle {
			marker = highlightStyle.Render("▸ ")
		}
		line := fmt.Sprintf("%s%s %s  %s", marker, p.Avatar, p.Name,
			mutedStyle.Render(fmt.Sprintf("cell %d/%d", b.displayPos(i)+1, b.eng.TotalCells())))
		rows = append(rows, line)
	}
	rows = append(rows, "")

	if b.eng.Dice() > 0 {
		rows = append(rows, accentStyle.Render(fmt.Sprintf("🎲 %d", b.eng.Dice())))
	}
	rows = append(rows, subtitleStyle.Render("difficulty: "+b.eng.Difficulty()))
	rows = append(rows, "")

	switch b.eng.Phase() {
	case game.PhaseIdle:
		rows = append(rows, mutedStyle.Render("s: start  f: difficulty"))
	case game.PhaseAwaitingRoll:
		if b.anim == nil {
			rows = append(rows, mutedStyle.Render("space: roll  R: reset"))
		}
	case game.PhaseWon:
		rows = append(rows, successStyle.Render("Game over!"))
		rows = append(rows, mutedStyle.Render("s: new game"))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (b boardModel) renderTask(w int) string {
	t := b.pending
	style := highlightStyle
	if t.Winner {
		style = successStyle
	} else if t.Warning {
		style = warningStyle
	}

	rows := []string{
		style.Bold(true).Render(t.Icon + " " + t.Title),
		"",
		normalItemStyle.Render(t.Content),
		"",
		mutedStyle.Render("enter: continue"),
	}
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (b boardModel) renderPicker(w int) string {
	counts := map[string]int{
		library.DifficultyWarmup:    b.col.PositionCards.Count(),
		library.DifficultyIntimate:  b.col.Tasks.Count(),
		library.DifficultyAdventure: b.col.Punishments.Count(),
	}

	rows := []string{titleStyle.Render("Difficulty"), ""}
	for i, opt := range difficulties {
		cursor := "  "
		style := normalItemStyle
		if i == b.pickCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+opt.label)+
			mutedStyle.Render(fmt.Sprintf("  (%d items)", counts[opt.value])))
	}
	rows = append(rows, "", mutedStyle.Render("  enter: select  esc: cancel"))
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}
