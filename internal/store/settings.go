package store

import (
	"fmt"
	"strconv"

	"github.com/google/uuid"
)

func (s *Store) GetSetting(key string) (string, error) {
	var value string
	err := s.db.QueryRow(`SELECT value FROM settings WHERE key = ?`, key).Scan(&value)
	if err != nil {
		return "", fmt.Errorf("get setting %q: %w", key, err)
	}
	return value, nil
}

func (s *Store) SetSetting(key, value string) error {
	_, err := s.db.Exec(
		`INSERT INTO settings (key, value) VALUES (?, ?) ON CONFLICT(key) DO UPDATE SET value = excluded.value`,
		key, value,
	)
	return err
}

func (s *Store) GetAllSettings() ([]Setting, error) {
	rows, err := s.db.Query(`SELECT key, value FROM settings ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("list settings: %w", err)
	}
	defer rows.Close()

	var settings []Setting
	for rows.Next() {
		var s Setting
		if err := rows.Scan(&s.Key, &s.Value); err != nil {
			return nil, err
		}
		settings = append(settings, s)
	}
	return settings, rows.Err()
}

// LoadSettings reads the typed settings, falling back to defaults for any
// missing or malformed value. Board dimensions are clamped to [5,15].
func (s *Store) LoadSettings() Settings {
	out := Settings{
		PomodoroFocusMinutes: 25,
		PomodoroBreakMinutes: 5,
		ChessDifficulty:      "warmup",
		BoardRows:            8,
		BoardCols:            9,
		TriggerChance:        1,
	}
	// Zero or negative minutes would flip the timer on every tick.
	if n := s.getInt("pomodoro_focus", out.PomodoroFocusMinutes); n >= 1 {
		out.PomodoroFocusMinutes = n
	}
	if n := s.getInt("pomodoro_break", out.PomodoroBreakMinutes); n >= 1 {
		out.PomodoroBreakMinutes = n
	}
	if v, err := s.GetSetting("chess_difficulty"); err == nil && v != "" {
		out.ChessDifficulty = v
	}
	out.BoardRows = clampBoard(s.getInt("board_rows", out.BoardRows))
	out.BoardCols = clampBoard(s.getInt("board_cols", out.BoardCols))
	if v, err := s.GetSetting("trigger_chance"); err == nil {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 && f <= 1 {
			out.TriggerChance = f
		}
	}
	return out
}

// SaveSettings writes every typed setting back to the settings table.
func (s *Store) SaveSettings(st Settings) error {
	values := map[string]string{
		"pomodoro_focus":   strconv.Itoa(st.PomodoroFocusMinutes),
		"pomodoro_break":   strconv.Itoa(st.PomodoroBreakMinutes),
		"chess_difficulty": st.ChessDifficulty,
		"board_rows":       strconv.Itoa(clampBoard(st.BoardRows)),
		"board_cols":       strconv.Itoa(clampBoard(st.BoardCols)),
		"trigger_chance":   strconv.FormatFloat(st.TriggerChance, 'f', -1, 64),
	}
	for k, v := range values {
		if err := s.SetSetting(k, v); err != nil {
			return fmt.Errorf("save setting %q: %w", k, err)
		}
	}
	return nil
}

// DeviceID returns the opaque per-install identifier, generating and
// persisting one on first use. It is the sole tenancy key for the remote
// mirror.
func (s *Store) DeviceID() (string, error) {
	if id, err := s.GetSetting("device_id"); err == nil && id != "" {
		return id, nil
	}
	id := "device-" + uuid.NewString()
	if err := s.SetSetting("device_id", id); err != nil {
		return "", fmt.Errorf("persist device id: %w", err)
	}
	return id, nil
}

// RemoteMigrated reports whether the one-time local→remote sync ran.
func (s *Store) RemoteMigrated() bool {
	v, err := s.GetSetting("remote_migrated")
	return err == nil && v == "true"
}

func (s *Store) SetRemoteMigrated() error {
	return s.SetSetting("remote_migrated", "true")
}

func (s *Store) getInt(key string, fallback int) int {
	v, err := s.GetSetting(key)
	if err != nil {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}

func clampBoard(n int) int {
	if n < 5 {
		return 5
	}
	if n > 15 {
		return 15
	}
	return n
}
