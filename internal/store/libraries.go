package store

import (
	"fmt"

	"github.com/sadopc/pairplay/internal/library"
)

// SaveCollection persists the full library snapshot, replacing all stored
// items. Called from the editor's on-change hook after every mutation;
// last write wins.
func (s *Store) SaveCollection(col *library.Collection) error {
	for _, kind := range library.Kinds {
		if err := s.SaveLibrary(kind, col.Library(kind)); err != nil {
			return err
		}
	}
	return nil
}

// SaveLibrary replaces every stored row of one kind with the given
// library's items, preserving bucket order via the position column.
func (s *Store) SaveLibrary(kind library.Kind, lib library.Library) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin save %s: %w", kind, err)
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`DELETE FROM library_items WHERE kind = ?`, kind.String()); err != nil {
		return fmt.Errorf("clear %s items: %w", kind, err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO library_items
			(id, kind, role, subcategory, position, content, title, description, icon, color, text_color)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, role := range library.Roles {
		for _, sub := range kind.Config().Subcategories {
			for i, it := range lib.Get(role, sub) {
				if _, err := stmt.Exec(
					it.ID, kind.String(), string(role), sub, i,
					it.Content, it.Title, it.Description, it.Icon, it.Color, it.TextColor,
				); err != nil {
					return fmt.Errorf("insert %s item %s: %w", kind, it.ID, err)
				}
			}
		}
	}
	return tx.Commit()
}

// LoadCollection reconstructs the nested libraries from stored rows.
// Missing kinds come back as their defaults (empty normalized buckets).
func (s *Store) LoadCollection() (*library.Collection, error) {
	col := library.NewCollection()

	rows, err := s.db.Query(`
		SELECT id, kind, role, subcategory, content, title, description, icon, color, text_color
		FROM library_items
		ORDER BY kind, role, subcategory, position`)
	if err != nil {
		return nil, fmt.Errorf("load library items: %w", err)
	}
	defer rows.Close()

	byKind := map[string]library.Kind{}
	for _, k := range library.Kinds {
		byKind[k.String()] = k
	}

	for rows.Next() {
		var it library.Item
		var kindName, role, sub string
		if err := rows.Scan(&it.ID, &kindName, &role, &sub,
			&it.Content, &it.Title, &it.Description, &it.Icon, &it.Color, &it.TextColor); err != nil {
			return nil, err
		}
		kind, ok := byKind[kindName]
		if !ok {
			continue
		}
		lib := col.Library(kind)
		lib[library.Role(role)][sub] = append(lib[library.Role(role)][sub], it)
	}
	return col, rows.Err()
}
