package store

import (
	"strings"
	"testing"

	"github.com/sadopc/pairplay/internal/library"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := NewMemory()
	if err != nil {
		t.Fatalf("open memory store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

// ============================================================
// Migration
// ============================================================

func TestMigrationSetsVersion(t *testing.T) {
	s := newTestStore(t)

	var version int
	if err := s.db.QueryRow("PRAGMA user_version").Scan(&version); err != nil {
		t.Fatal(err)
	}
	if version != currentVersion {
		t.Fatalf("expected user_version %d, got %d", currentVersion, version)
	}
}

func TestMigrationIdempotent(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting("pomodoro_focus", "40"); err != nil {
		t.Fatal(err)
	}
	if err := s.migrate(); err != nil {
		t.Fatalf("re-running migrate: %v", err)
	}
	v, err := s.GetSetting("pomodoro_focus")
	if err != nil {
		t.Fatal(err)
	}
	if v != "40" {
		t.Fatalf("migration must not reset existing settings, got %q", v)
	}
}

// ============================================================
// Settings
// ============================================================

func TestSettingRoundTrip(t *testing.T) {
	s := newTestStore(t)

	if err := s.SetSetting("custom", "hello"); err != nil {
		t.Fatal(err)
	}
	v, err := s.GetSetting("custom")
	if err != nil {
		t.Fatal(err)
	}
	if v != "hello" {
		t.Fatalf("expected hello, got %q", v)
	}

	if err := s.SetSetting("custom", "world"); err != nil {
		t.Fatal(err)
	}
	v, _ = s.GetSetting("custom")
	if v != "world" {
		t.Fatalf("upsert should overwrite, got %q", v)
	}
}

func TestLoadSettingsDefaults(t *testing.T) {
	s := newTestStore(t)

	st := s.LoadSettings()
	if st.PomodoroFocusMinutes != 25 || st.PomodoroBreakMinutes != 5 {
		t.Fatalf("unexpected pomodoro defaults: %+v", st)
	}
	if st.ChessDifficulty != "warmup" {
		t.Fatalf("expected warmup default, got %q", st.ChessDifficulty)
	}
	if st.BoardRows != 8 || st.BoardCols != 9 {
		t.Fatalf("unexpected board defaults: %+v", st)
	}
	if st.TriggerChance != 1 {
		t.Fatalf("tasks should fire on every move by default, got %v", st.TriggerChance)
	}
	if st.TotalCells() != 72 {
		t.Fatalf("expected 72 cells, got %d", st.TotalCells())
	}
}

func TestSaveSettingsRoundTrip(t *testing.T) {
	s := newTestStore(t)

	want := Settings{
		PomodoroFocusMinutes: 50,
		PomodoroBreakMinutes: 10,
		ChessDifficulty:      "adventure",
		BoardRows:            6,
		BoardCols:            12,
		TriggerChance:        0.5,
	}
	if err := s.SaveSettings(want); err != nil {
		t.Fatal(err)
	}
	got := s.LoadSettings()
	if got != want {
		t.Fatalf("round trip mismatch:\nwant %+v\ngot  %+v", want, got)
	}
}

func TestLoadSettingsClampsBoard(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("board_rows", "2")
	s.SetSetting("board_cols", "99")
	st := s.LoadSettings()
	if st.BoardRows != 5 {
		t.Fatalf("rows should clamp up to 5, got %d", st.BoardRows)
	}
	if st.BoardCols != 15 {
		t.Fatalf("cols should clamp down to 15, got %d", st.BoardCols)
	}
}

func TestLoadSettingsIgnoresMalformed(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("pomodoro_focus", "soon")
	s.SetSetting("trigger_chance", "2.5")
	st := s.LoadSettings()
	if st.PomodoroFocusMinutes != 25 {
		t.Fatalf("malformed int should fall back, got %d", st.PomodoroFocusMinutes)
	}
	if st.TriggerChance != 1 {
		t.Fatalf("out-of-range chance should fall back, got %v", st.TriggerChance)
	}
}

func TestLoadSettingsRejectsNonPositiveMinutes(t *testing.T) {
	s := newTestStore(t)

	s.SetSetting("pomodoro_focus", "0")
	s.SetSetting("pomodoro_break", "-3")
	st := s.LoadSettings()
	if st.PomodoroFocusMinutes != 25 {
		t.Fatalf("zero focus should fall back, got %d", st.PomodoroFocusMinutes)
	}
	if st.PomodoroBreakMinutes != 5 {
		t.Fatalf("negative break should fall back, got %d", st.PomodoroBreakMinutes)
	}
}

func TestDeviceIDStable(t *testing.T) {
	s := newTestStore(t)

	id, err := s.DeviceID()
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(id, "device-") {
		t.Fatalf("unexpected id shape: %q", id)
	}
	again, err := s.DeviceID()
	if err != nil {
		t.Fatal(err)
	}
	if again != id {
		t.Fatalf("id must be stable across calls: %q vs %q", id, again)
	}
}

func TestRemoteMigratedFlag(t *testing.T) {
	s := newTestStore(t)

	if s.RemoteMigrated() {
		t.Fatal("fresh store should not be migrated")
	}
	if err := s.SetRemoteMigrated(); err != nil {
		t.Fatal(err)
	}
	if !s.RemoteMigrated() {
		t.Fatal("flag should stick")
	}
}

// ============================================================
// Players
// ============================================================

func TestSeededPlayers(t *testing.T) {
	s := newTestStore(t)

	players, err := s.LoadPlayers()
	if err != nil {
		t.Fatal(err)
	}
	if len(players) != 2 {
		t.Fatalf("expected 2 seeded players, got %d", len(players))
	}
	if players[0].Name != "Him" || players[0].Role != "male" {
		t.Fatalf("unexpected first player: %+v", players[0])
	}
	if players[1].Name != "Her" || players[1].Role != "female" {
		t.Fatalf("unexpected second player: %+v", players[1])
	}
	for _, p := range players {
		if p.Position != 0 {
			t.Fatalf("seeded players start at 0: %+v", p)
		}
	}
}

func TestSavePlayersUpserts(t *testing.T) {
	s := newTestStore(t)

	players, _ := s.LoadPlayers()
	players[0].Name = "Alex"
	players[0].Avatar = "🦊"
	players[1].Position = 7
	if err := s.SavePlayers(players); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadPlayers()
	if err != nil {
		t.Fatal(err)
	}
	if got[0].Name != "Alex" || got[0].Avatar != "🦊" {
		t.Fatalf("profile edit lost: %+v", got[0])
	}
	if got[1].Position != 7 {
		t.Fatalf("position edit lost: %+v", got[1])
	}
}

func TestResetPositions(t *testing.T) {
	s := newTestStore(t)

	players, _ := s.LoadPlayers()
	players[0].Position = 12
	players[1].Position = 30
	s.SavePlayers(players)

	if err := s.ResetPositions(); err != nil {
		t.Fatal(err)
	}
	got, _ := s.LoadPlayers()
	for _, p := range got {
		if p.Position != 0 {
			t.Fatalf("position not reset: %+v", p)
		}
	}
}

// ============================================================
// Libraries
// ============================================================

func TestCollectionRoundTrip(t *testing.T) {
	s := newTestStore(t)

	col := library.NewCollection()
	ed := library.NewEditor(col, nil)
	ed.AddItem(library.KindTasks, library.RoleMale, library.DifficultyWarmup, library.Item{Content: "first", Icon: "1️⃣"})
	ed.AddItem(library.KindTasks, library.RoleMale, library.DifficultyWarmup, library.Item{Content: "second", Icon: "2️⃣"})
	ed.AddItem(library.KindPositionCards, library.RoleFemale, library.ModeDeep, library.Item{Title: "Talk", Description: "One honest question each", Icon: "💬"})
	ed.AddItem(library.KindPunishments, library.RoleFemale, library.IntensityMedium, library.Item{Content: "cold shower", Icon: "🚿", Color: "#FF0000"})

	if err := s.SaveCollection(col); err != nil {
		t.Fatal(err)
	}

	got, err := s.LoadCollection()
	if err != nil {
		t.Fatal(err)
	}

	tasks := got.Tasks.Get(library.RoleMale, library.DifficultyWarmup)
	if len(tasks) != 2 {
		t.Fatalf("expected 2 tasks, got %d", len(tasks))
	}
	if tasks[0].Content != "first" || tasks[1].Content != "second" {
		t.Fatalf("bucket order lost: %+v", tasks)
	}

	cards := got.PositionCards.Get(library.RoleFemale, library.ModeDeep)
	if len(cards) != 1 || cards[0].Title != "Talk" || cards[0].Description != "One honest question each" {
		t.Fatalf("card mismatch: %+v", cards)
	}

	puns := got.Punishments.Get(library.RoleFemale, library.IntensityMedium)
	if len(puns) != 1 || puns[0].Color != "#FF0000" {
		t.Fatalf("punishment display tags lost: %+v", puns)
	}
}

func TestSaveLibraryReplacesWholesale(t *testing.T) {
	s := newTestStore(t)

	col := library.NewCollection()
	ed := library.NewEditor(col, nil)
	old, _ := ed.AddItem(library.KindTasks, library.RoleMale, library.DifficultyWarmup, library.Item{Content: "old"})
	s.SaveCollection(col)

	ed.DeleteItem(library.KindTasks, library.RoleMale, library.DifficultyWarmup, old.ID)
	ed.AddItem(library.KindTasks, library.RoleFemale, library.DifficultyIntimate, library.Item{Content: "new"})
	if err := s.SaveLibrary(library.KindTasks, col.Tasks); err != nil {
		t.Fatal(err)
	}

	got, _ := s.LoadCollection()
	if len(got.Tasks.Get(library.RoleMale, library.DifficultyWarmup)) != 0 {
		t.Fatal("replaced save should drop removed items")
	}
	if len(got.Tasks.Get(library.RoleFemale, library.DifficultyIntimate)) != 1 {
		t.Fatal("replaced save should carry new items")
	}
}

func TestLoadCollectionEmpty(t *testing.T) {
	s := newTestStore(t)

	col, err := s.LoadCollection()
	if err != nil {
		t.Fatal(err)
	}
	for _, k := range library.Kinds {
		if col.Library(k).Count() != 0 {
			t.Fatalf("fresh store should load empty %s library", k)
		}
		// Buckets must still be appendable.
		if col.Library(k)[library.RoleMale] == nil {
			t.Fatalf("%s library not normalized", k)
		}
	}
}

// ============================================================
// Game history
// ============================================================

func TestRecordAndListHistory(t *testing.T) {
	s := newTestStore(t)

	if err := s.RecordGame("chess", "Him", 300, "8x9", "warmup"); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordGame("pomodoro", "", 1500, "", ""); err != nil {
		t.Fatal(err)
	}
	if err := s.RecordGame("chess", "Her", 120, "5x5", "adventure"); err != nil {
		t.Fatal(err)
	}

	records, err := s.ListHistory(10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected 3 records, got %d", len(records))
	}
	if records[0].Winner != "Her" || records[2].Winner != "Him" {
		t.Fatalf("history should be newest first: %+v", records)
	}
	if records[1].GameType != "pomodoro" || records[1].Winner != "" {
		t.Fatalf("unexpected middle record: %+v", records[1])
	}
	if records[0].BoardSize != "5x5" || records[0].Difficulty != "adventure" {
		t.Fatalf("board metadata lost: %+v", records[0])
	}
	if records[0].CreatedAt.IsZero() {
		t.Fatal("created_at should parse")
	}
}

func TestListHistoryLimit(t *testing.T) {
	s := newTestStore(t)

	for i := 0; i < 5; i++ {
		s.RecordGame("chess", "Him", 60, "8x9", "warmup")
	}
	records, err := s.ListHistory(3)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 3 {
		t.Fatalf("expected limit 3, got %d", len(records))
	}
}

func TestStats(t *testing.T) {
	s := newTestStore(t)

	s.RecordGame("chess", "Him", 60, "8x9", "warmup")
	s.RecordGame("chess", "Him", 90, "8x9", "warmup")
	s.RecordGame("chess", "Her", 45, "8x9", "intimate")
	s.RecordGame("pomodoro", "", 1500, "", "")

	stats, err := s.Stats()
	if err != nil {
		t.Fatal(err)
	}
	if stats.TotalGames != 4 {
		t.Fatalf("expected 4 games, got %d", stats.TotalGames)
	}
	if stats.GamesByType["chess"] != 3 || stats.GamesByType["pomodoro"] != 1 {
		t.Fatalf("per-type counts wrong: %+v", stats.GamesByType)
	}
	if stats.WinsByName["Him"] != 2 || stats.WinsByName["Her"] != 1 {
		t.Fatalf("win counts wrong: %+v", stats.WinsByName)
	}
	if _, ok := stats.WinsByName[""]; ok {
		t.Fatal("empty winner must not count as a win")
	}
}
