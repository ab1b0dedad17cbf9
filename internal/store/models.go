package store

import "time"

// Player is one of the two persisted player profiles, keyed by board index.
type Player struct {
	Index    int
	Name     string
	Avatar   string
	Position int
	Color    string
	Role     string
}

// Settings is the typed view of the settings table.
type Settings struct {
	PomodoroFocusMinutes int
	PomodoroBreakMinutes int
	ChessDifficulty      string
	BoardRows            int
	BoardCols            int
	TriggerChance        float64
}

// TotalCells is the board size implied by the settings.
func (s Settings) TotalCells() int { return s.BoardRows * s.BoardCols }

// GameRecord is one append-only game history row.
type GameRecord struct {
	ID         int64
	GameType   string
	Winner     string
	Duration   int64 // seconds
	BoardSize  string
	Difficulty string
	CreatedAt  time.Time
}

// GameStats aggregates the history for the stats view.
type GameStats struct {
	TotalGames  int
	GamesByType map[string]int
	WinsByName  map[string]int
}

type Setting struct {
	Key   string
	Value string
}
