// Package game implements the board-game turn engine and the single-shot
// draw used by the punishment and position-card screens.
package game

import (
	"fmt"
	"math/rand"

	"github.com/sadopc/pairplay/internal/library"
)

// Phase is the turn engine state. Input is only accepted in the phases that
// name it: rolling in AwaitingRoll, task dismissal in TaskPending.
type Phase int

const (
	PhaseIdle Phase = iota
	PhaseAwaitingRoll
	PhaseAnimating
	PhaseTaskPending
	PhaseWon
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseAwaitingRoll:
		return "awaiting_roll"
	case PhaseAnimating:
		return "animating"
	case PhaseTaskPending:
		return "task_pending"
	case PhaseWon:
		return "won"
	}
	return "unknown"
}

// Player is one of the two pieces on the board.
type Player struct {
	ID     int
	Name   string
	Avatar string
	Pos    int
	Color  string
	Role   library.Role
}

// Task is what the board presents after a move: a drawn task, the win
// forfeit, or an empty-pool warning.
type Task struct {
	Title   string
	Content string
	Icon    string
	Winner  bool
	Warning bool
}

// Config tunes a game. Difficulty selects which library feeds the task
// trigger, not a tier within it. TriggerChance is taken at face value; a
// zero means tasks never fire. The settings layer supplies the default.
type Config struct {
	Rows          int
	Cols          int
	Difficulty    string
	TriggerChance float64
}

// MoveResult describes the resolved logical move of one turn.
type MoveResult struct {
	Steps int
	From  int
	To    int
	Won   bool
	Task  *Task
}

// Engine drives one board game: dice roll, movement with boundary clamp,
// probabilistic task trigger, win detection and turn rotation. It owns its
// player state exclusively while a game is active.
type Engine struct {
	cfg     Config
	col     *library.Collection
	players []Player
	current int
	dice    int
	phase   Phase
	rng     *rand.Rand
}

// New builds an engine over the given libraries and players. rng may be
// seeded for tests.
func New(col *library.Collection, players []Player, cfg Config, rng *rand.Rand) *Engine {
	return &Engine{
		cfg:     cfg,
		col:     col,
		players: players,
		phase:   PhaseIdle,
		rng:     rng,
	}
}

// TotalCells is the board size; the last cell index is TotalCells()-1.
func (e *Engine) TotalCells() int { return e.cfg.Rows * e.cfg.Cols }

func (e *Engine) Phase() Phase       { return e.phase }
func (e *Engine) Players() []Player  { return e.players }
func (e *Engine) CurrentIndex() int  { return e.current }
func (e *Engine) Current() *Player   { return &e.players[e.current] }
func (e *Engine) Dice() int          { return e.dice }
func (e *Engine) Difficulty() string { return e.cfg.Difficulty }

// SetDifficulty changes which library feeds the task trigger. Takes effect
// on the next trigger only.
func (e *Engine) SetDifficulty(d string) { e.cfg.Difficulty = d }

// Start begins a new game from Idle.
func (e *Engine) Start() {
	if e.phase == PhaseIdle {
		e.phase = PhaseAwaitingRoll
	}
}

// Roll produces a uniform dice value in [1,6] and enters Animating. Only
// valid while awaiting a roll.
func (e *Engine) Roll() (int, error) {
	if e.phase != PhaseAwaitingRoll {
		return 0, fmt.Errorf("cannot roll in phase %s", e.phase)
	}
	e.dice = 1 + e.rng.Intn(6)
	e.phase = PhaseAnimating
	return e.dice, nil
}

// Resolve applies the pending dice value as one atomic logical move:
// final position = min(start+steps, last cell). Landing on the last cell
// wins and presents the forfeit task; otherwise the task trigger may fire.
// Only valid after a roll. Any per-cell animation is presentation layered
// on top by the caller.
func (e *Engine) Resolve() (MoveResult, error) {
	if e.phase != PhaseAnimating {
		return MoveResult{}, fmt.Errorf("cannot resolve in phase %s", e.phase)
	}
	p := e.Current()
	last := e.TotalCells() - 1
	res := MoveResult{Steps: e.dice, From: p.Pos}
	p.Pos = min(p.Pos+e.dice, last)
	res.To = p.Pos

	if p.Pos == last {
		res.Won = true
		res.Task = &Task{
			Title:   "Game over!",
			Content: fmt.Sprintf("%s wins! The other side owes a small forfeit of the winner's choosing.", p.Name),
			Icon:    "🎉",
			Winner:  true,
		}
		e.phase = PhaseWon
		return res, nil
	}

	if e.rng.Float64() < e.cfg.TriggerChance {
		res.Task = e.drawTask(p.Role)
		e.phase = PhaseTaskPending
		return res, nil
	}

	e.rotate()
	return res, nil
}

// drawTask assembles the pool for the mover's role and picks uniformly.
// The difficulty setting selects the library; the pool is the union of all
// three of its sub-buckets.
func (e *Engine) drawTask(role library.Role) *Task {
	pool, source := e.taskPool(role)
	if len(pool) == 0 {
		return &Task{
			Title:   "Heads up",
			Content: fmt.Sprintf("The %s library for %s is empty. Add items in the library editor first!", source, role),
			Icon:    "⚠️",
			Warning: true,
		}
	}
	pick := pool[e.rng.Intn(len(pool))]
	return &Task{
		Title:   fmt.Sprintf("%s task (%s)", e.cfg.Difficulty, source),
		Content: pick.Content,
		Icon:    pick.Icon,
	}
}

func (e *Engine) taskPool(role library.Role) ([]library.Item, string) {
	var pool []library.Item
	switch e.cfg.Difficulty {
	case library.DifficultyWarmup:
		lib := e.col.PositionCards
		for _, mode := range library.KindPositionCards.Config().Subcategories {
			for _, card := range lib.Get(role, mode) {
				pool = append(pool, library.Item{
					Content: card.Title + ": " + card.Description,
					Icon:    card.Icon,
				})
			}
		}
		return pool, "position cards"
	case library.DifficultyIntimate:
		lib := e.col.Tasks
		for _, diff := range library.KindTasks.Config().Subcategories {
			pool = append(pool, lib.Get(role, diff)...)
		}
		return pool, "board tasks"
	case library.DifficultyAdventure:
		lib := e.col.Punishments
		for _, tier := range library.KindPunishments.Config().Subcategories {
			pool = append(pool, lib.Get(role, tier)...)
		}
		return pool, "punishments"
	}
	return nil, "board tasks"
}

// NextTurn dismisses the pending task and rotates to the other player.
// A won game stays ended until Reset.
func (e *Engine) NextTurn() error {
	if e.phase != PhaseTaskPending {
		return fmt.Errorf("cannot advance turn in phase %s", e.phase)
	}
	e.rotate()
	return nil
}

func (e *Engine) rotate() {
	e.current = (e.current + 1) % len(e.players)
	e.dice = 0
	e.phase = PhaseAwaitingRoll
}

// Reset returns every piece to the start and the engine to Idle. Valid in
// any phase.
func (e *Engine) Reset() {
	for i := range e.players {
		e.players[i].Pos = 0
	}
	e.current = 0
	e.dice = 0
	e.phase = PhaseIdle
}
