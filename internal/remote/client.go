// Package remote mirrors profile, settings, library and history data to an
// optional row-store backend over HTTP. Every row is scoped by the opaque
// device identifier; there is no further authentication. All calls are
// best-effort: the local store stays the source of truth and callers log
// and ignore failures.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/sadopc/pairplay/internal/library"
	"github.com/sadopc/pairplay/internal/store"
)

// Client is a minimal REST client for the mirror backend.
type Client struct {
	BaseURL    string
	APIKey     string
	DeviceID   string
	HTTPClient *http.Client
}

// New creates a client with sane defaults. An empty baseURL yields a
// disabled client; every call becomes a no-op error-free return.
func New(baseURL, apiKey, deviceID string) *Client {
	return &Client{
		BaseURL:  baseURL,
		APIKey:   apiKey,
		DeviceID: deviceID,
		HTTPClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

// Enabled reports whether a mirror backend is configured.
func (c *Client) Enabled() bool {
	return c != nil && c.BaseURL != ""
}

type profileRow struct {
	DeviceID      string `json:"device_id"`
	Player1Name   string `json:"player1_name"`
	Player1Avatar string `json:"player1_avatar"`
	Player2Name   string `json:"player2_name"`
	Player2Avatar string `json:"player2_avatar"`
	UpdatedAt     string `json:"updated_at"`
}

type settingsRow struct {
	DeviceID        string  `json:"device_id"`
	PomodoroFocus   int     `json:"pomodoro_focus"`
	PomodoroBreak   int     `json:"pomodoro_break"`
	ChessDifficulty string  `json:"chess_difficulty"`
	BoardRows       int     `json:"board_rows"`
	BoardCols       int     `json:"board_cols"`
	TriggerChance   float64 `json:"trigger_chance"`
	UpdatedAt       string  `json:"updated_at"`
}

type itemRow struct {
	DeviceID    string `json:"device_id"`
	Kind        string `json:"kind"`
	Role        string `json:"role"`
	Subcategory string `json:"subcategory"`
	ItemID      string `json:"item_id"`
	Position    int    `json:"position"`
	Content     string `json:"content,omitempty"`
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
	Icon        string `json:"icon,omitempty"`
	Color       string `json:"color,omitempty"`
	TextColor   string `json:"text_color,omitempty"`
}

type gameRow struct {
	DeviceID   string `json:"device_id"`
	GameType   string `json:"game_type"`
	Winner     string `json:"winner,omitempty"`
	Duration   int64  `json:"duration_seconds"`
	BoardSize  string `json:"board_size"`
	Difficulty string `json:"difficulty"`
}

// UpsertProfile mirrors the two player profiles as one row per device.
func (c *Client) UpsertProfile(ctx context.Context, players []store.Player) error {
	if !c.Enabled() || len(players) < 2 {
		return nil
	}
	row := profileRow{
		DeviceID:      c.DeviceID,
		Player1Name:   players[0].Name,
		Player1Avatar: players[0].Avatar,
		Player2Name:   players[1].Name,
		Player2Avatar: players[1].Avatar,
		UpdatedAt:     time.Now().UTC().Format(time.RFC3339),
	}
	return c.upsert(ctx, "player_profiles", row)
}

// UpsertSettings mirrors the game settings as one row per device.
func (c *Client) UpsertSettings(ctx context.Context, st store.Settings) error {
	if !c.Enabled() {
		return nil
	}
	row := settingsRow{
		DeviceID:        c.DeviceID,
		PomodoroFocus:   st.PomodoroFocusMinutes,
		PomodoroBreak:   st.PomodoroBreakMinutes,
		ChessDifficulty: st.ChessDifficulty,
		BoardRows:       st.BoardRows,
		BoardCols:       st.BoardCols,
		TriggerChance:   st.TriggerChance,
		UpdatedAt:       time.Now().UTC().Format(time.RFC3339),
	}
	return c.upsert(ctx, "game_settings", row)
}

// ReplaceLibrary mirrors one library wholesale: the device's rows for the
// kind are deleted and the current items inserted, one row per item.
func (c *Client) ReplaceLibrary(ctx context.Context, kind library.Kind, lib library.Library) error {
	if !c.Enabled() {
		return nil
	}
	query := url.Values{}
	query.Set("device_id", "eq."+c.DeviceID)
	query.Set("kind", "eq."+kind.String())
	if err := c.do(ctx, http.MethodDelete, "library_items", query, nil); err != nil {
		return fmt.Errorf("clear remote %s: %w", kind, err)
	}

	var rows []itemRow
	for _, role := range library.Roles {
		for _, sub := range kind.Config().Subcategories {
			for i, it := range lib.Get(role, sub) {
				rows = append(rows, itemRow{
					DeviceID:    c.DeviceID,
					Kind:        kind.String(),
					Role:        string(role),
					Subcategory: sub,
					ItemID:      it.ID,
					Position:    i,
					Content:     it.Content,
					Title:       it.Title,
					Description: it.Description,
					Icon:        it.Icon,
					Color:       it.Color,
					TextColor:   it.TextColor,
				})
			}
		}
	}
	if len(rows) == 0 {
		return nil
	}
	return c.do(ctx, http.MethodPost, "library_items", nil, rows)
}

// RecordGame appends one game history row.
func (c *Client) RecordGame(ctx context.Context, rec store.GameRecord) error {
	if !c.Enabled() {
		return nil
	}
	row := gameRow{
		DeviceID:   c.DeviceID,
		GameType:   rec.GameType,
		Winner:     rec.Winner,
		Duration:   rec.Duration,
		BoardSize:  rec.BoardSize,
		Difficulty: rec.Difficulty,
	}
	return c.do(ctx, http.MethodPost, "game_history", nil, row)
}

func (c *Client) upsert(ctx context.Context, table string, row any) error {
	return c.do(ctx, http.MethodPost, table, url.Values{"on_conflict": {"device_id"}}, row)
}

func (c *Client) do(ctx context.Context, method, table string, query url.Values, body any) error {
	u := c.BaseURL + "/rest/v1/" + table
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal %s body: %w", table, err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, buf)
	if err != nil {
		return fmt.Errorf("build %s request: %w", table, err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.APIKey != "" {
		req.Header.Set("apikey", c.APIKey)
		req.Header.Set("Authorization", "Bearer "+c.APIKey)
	}
	if method == http.MethodPost {
		req.Header.Set("Prefer", "resolution=merge-duplicates")
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, table, err)
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: unexpected status %d", method, table, resp.StatusCode)
	}
	return nil
}
