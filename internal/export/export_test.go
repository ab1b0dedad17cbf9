package export

import (
	"encoding/csv"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sadopc/pairplay/internal/library"
	"github.com/sadopc/pairplay/internal/store"
)

// ============================================================
// Library files
// ============================================================

func TestWriteLibrary(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteLibrary(dir, library.KindPunishments, []byte(`{"male":{},"female":{}}`))
	if err != nil {
		t.Fatal(err)
	}

	name := filepath.Base(path)
	if !strings.HasPrefix(name, "pairplay-punishments-") || !strings.HasSuffix(name, ".json") {
		t.Fatalf("unexpected filename: %q", name)
	}
	if !strings.Contains(name, time.Now().Format("2006-01-02")) {
		t.Fatalf("filename should carry the export date: %q", name)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"male":{},"female":{}}` {
		t.Fatalf("payload mismatch: %s", data)
	}
}

func TestWriteTemplate(t *testing.T) {
	dir := t.TempDir()

	path, err := WriteTemplate(dir, library.KindTasks, []byte("{}"))
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "pairplay-tasks-template.json" {
		t.Fatalf("unexpected template name: %q", filepath.Base(path))
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatal(err)
	}
}

func TestReadLibraryFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "lib.json")
	if err := os.WriteFile(path, []byte(`{"male":{},"female":{}}`), 0o644); err != nil {
		t.Fatal(err)
	}

	data, err := ReadLibraryFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var lib library.Library
	if err := json.Unmarshal(data, &lib); err != nil {
		t.Fatalf("payload should stay decodable: %v", err)
	}

	if _, err := ReadLibraryFile(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("missing file should error")
	}
}

func TestExportedLibraryImportsBack(t *testing.T) {
	dir := t.TempDir()

	ed := library.NewEditor(library.NewCollection(), nil)
	ed.AddItem(library.KindTasks, library.RoleMale, library.DifficultyWarmup, library.Item{Content: "slow dance", Icon: "💃"})
	payload, err := ed.Export(library.KindTasks)
	if err != nil {
		t.Fatal(err)
	}

	path, err := WriteLibrary(dir, library.KindTasks, payload)
	if err != nil {
		t.Fatal(err)
	}
	read, err := ReadLibraryFile(path)
	if err != nil {
		t.Fatal(err)
	}

	other := library.NewEditor(library.NewCollection(), nil)
	if _, err := other.Import(read, library.KindTasks); err != nil {
		t.Fatal(err)
	}
	got := other.Collection().Tasks.Get(library.RoleMale, library.DifficultyWarmup)
	if len(got) != 1 || got[0].Content != "slow dance" {
		t.Fatalf("round trip lost the item: %+v", got)
	}
}

// ============================================================
// History CSV
// ============================================================

func TestHistoryToCSV(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "history.csv")

	when := time.Date(2026, 3, 14, 20, 30, 0, 0, time.UTC)
	records := []store.GameRecord{
		{ID: 2, GameType: "chess", Winner: "Her", Duration: 310, BoardSize: "8x9", Difficulty: "intimate", CreatedAt: when},
		{ID: 1, GameType: "pomodoro", Duration: 1500, CreatedAt: when},
	}
	if err := HistoryToCSV(records, path); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()

	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(rows))
	}
	if rows[0][0] != "id" || rows[0][6] != "played_at" {
		t.Fatalf("unexpected header: %v", rows[0])
	}
	if rows[1][1] != "chess" || rows[1][2] != "Her" || rows[1][3] != "310" {
		t.Fatalf("unexpected first row: %v", rows[1])
	}
	if rows[2][2] != "" {
		t.Fatalf("empty winner should stay empty: %v", rows[2])
	}
	if rows[1][6] != when.Format(time.RFC3339) {
		t.Fatalf("timestamp format mismatch: %q", rows[1][6])
	}
}

func TestHistoryToCSVEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "empty.csv")
	if err := HistoryToCSV(nil, path); err != nil {
		t.Fatal(err)
	}

	f, _ := os.Open(path)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 1 {
		t.Fatalf("empty history should still write the header, got %d rows", len(rows))
	}
}
