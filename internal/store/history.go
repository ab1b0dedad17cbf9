package store

import (
	"fmt"
	"time"
)

// RecordGame appends one game to the history. winner may be empty for
// games without one (abandoned boards, pomodoro sessions).
func (s *Store) RecordGame(gameType, winner string, durationSecs int64, boardSize, difficulty string) error {
	_, err := s.db.Exec(`
		INSERT INTO game_history (game_type, winner, duration, board_size, difficulty)
		VALUES (?, ?, ?, ?, ?)`,
		gameType, winner, durationSecs, boardSize, difficulty,
	)
	if err != nil {
		return fmt.Errorf("record game: %w", err)
	}
	return nil
}

// ListHistory returns the most recent games, newest first.
func (s *Store) ListHistory(limit int) ([]GameRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.Query(`
		SELECT id, game_type, COALESCE(winner, ''), duration, board_size, difficulty, created_at
		FROM game_history
		ORDER BY id DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	defer rows.Close()

	var records []GameRecord
	for rows.Next() {
		var r GameRecord
		var created string
		if err := rows.Scan(&r.ID, &r.GameType, &r.Winner, &r.Duration, &r.BoardSize, &r.Difficulty, &created); err != nil {
			return nil, err
		}
		r.CreatedAt, _ = time.Parse("2006-01-02T15:04:05Z", created)
		records = append(records, r)
	}
	return records, rows.Err()
}

// Stats aggregates totals, per-type counts and wins per player name.
func (s *Store) Stats() (GameStats, error) {
	stats := GameStats{
		GamesByType: map[string]int{},
		WinsByName:  map[string]int{},
	}
	rows, err := s.db.Query(`SELECT game_type, COALESCE(winner, '') FROM game_history`)
	if err != nil {
		return stats, fmt.Errorf("game stats: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var gameType, winner string
		if err := rows.Scan(&gameType, &winner); err != nil {
			return stats, err
		}
		stats.TotalGames++
		stats.GamesByType[gameType]++
		if winner != "" {
			stats.WinsByName[winner]++
		}
	}
	return stats, rows.Err()
}
