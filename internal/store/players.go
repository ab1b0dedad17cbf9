package store

import "fmt"

// LoadPlayers returns the two player profiles in board order.
func (s *Store) LoadPlayers() ([]Player, error) {
	rows, err := s.db.Query(`SELECT idx, name, avatar, position, color, role FROM players ORDER BY idx`)
	if err != nil {
		return nil, fmt.Errorf("list players: %w", err)
	}
	defer rows.Close()

	var players []Player
	for rows.Next() {
		var p Player
		if err := rows.Scan(&p.Index, &p.Name, &p.Avatar, &p.Position, &p.Color, &p.Role); err != nil {
			return nil, err
		}
		players = append(players, p)
	}
	return players, rows.Err()
}

// SavePlayers upserts the player profiles by board index.
func (s *Store) SavePlayers(players []Player) error {
	for _, p := range players {
		_, err := s.db.Exec(`
			INSERT INTO players (idx, name, avatar, position, color, role)
			VALUES (?, ?, ?, ?, ?, ?)
			ON CONFLICT(idx) DO UPDATE SET
				name = excluded.name,
				avatar = excluded.avatar,
				position = excluded.position,
				color = excluded.color,
				role = excluded.role`,
			p.Index, p.Name, p.Avatar, p.Position, p.Color, p.Role,
		)
		if err != nil {
			return fmt.Errorf("save player %d: %w", p.Index, err)
		}
	}
	return nil
}

// ResetPositions moves every piece back to the start cell.
func (s *Store) ResetPositions() error {
	_, err := s.db.Exec(`UPDATE players SET position = 0`)
	return err
}
