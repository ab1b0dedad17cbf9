package remote

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/sadopc/pairplay/internal/library"
	"github.com/sadopc/pairplay/internal/store"
)

type recordedRequest struct {
	method string
	path   string
	query  string
	body   []byte
}

// newTestBackend records every request and answers 201.
func newTestBackend(t *testing.T) (*Client, *[]recordedRequest) {
	t.Helper()
	var reqs []recordedRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		reqs = append(reqs, recordedRequest{
			method: r.Method,
			path:   r.URL.Path,
			query:  r.URL.RawQuery,
			body:   body,
		})
		w.WriteHeader(http.StatusCreated)
	}))
	t.Cleanup(srv.Close)
	return New(srv.URL, "test-key", "device-test"), &reqs
}

// ============================================================
// Disabled client
// ============================================================

func TestDisabledClientIsNoop(t *testing.T) {
	c := New("", "", "")
	if c.Enabled() {
		t.Fatal("empty base url should disable the client")
	}

	ctx := context.Background()
	if err := c.UpsertProfile(ctx, []store.Player{{}, {}}); err != nil {
		t.Fatal(err)
	}
	if err := c.UpsertSettings(ctx, store.Settings{}); err != nil {
		t.Fatal(err)
	}
	if err := c.ReplaceLibrary(ctx, library.KindTasks, library.Library{}); err != nil {
		t.Fatal(err)
	}
	if err := c.RecordGame(ctx, store.GameRecord{}); err != nil {
		t.Fatal(err)
	}

	var nilClient *Client
	if nilClient.Enabled() {
		t.Fatal("nil client should read as disabled")
	}
}

// ============================================================
// Row mirroring
// ============================================================

func TestRecordGame(t *testing.T) {
	c, reqs := newTestBackend(t)

	err := c.RecordGame(context.Background(), store.GameRecord{
		GameType:   "chess",
		Winner:     "Her",
		Duration:   120,
		BoardSize:  "8x9",
		Difficulty: "warmup",
	})
	if err != nil {
		t.Fatal(err)
	}

	if len(*reqs) != 1 {
		t.Fatalf("expected 1 request, got %d", len(*reqs))
	}
	req := (*reqs)[0]
	if req.method != http.MethodPost || req.path != "/rest/v1/game_history" {
		t.Fatalf("unexpected request: %s %s", req.method, req.path)
	}

	var row map[string]any
	if err := json.Unmarshal(req.body, &row); err != nil {
		t.Fatal(err)
	}
	if row["device_id"] != "device-test" {
		t.Fatalf("rows must carry the device id: %v", row)
	}
	if row["winner"] != "Her" || row["duration_seconds"] != float64(120) {
		t.Fatalf("unexpected row: %v", row)
	}
}

func TestUpsertSettings(t *testing.T) {
	c, reqs := newTestBackend(t)

	err := c.UpsertSettings(context.Background(), store.Settings{
		PomodoroFocusMinutes: 25,
		PomodoroBreakMinutes: 5,
		ChessDifficulty:      "intimate",
		BoardRows:            8,
		BoardCols:            9,
		TriggerChance:        0.8,
	})
	if err != nil {
		t.Fatal(err)
	}

	req := (*reqs)[0]
	if req.path != "/rest/v1/game_settings" {
		t.Fatalf("unexpected path: %s", req.path)
	}
	if req.query != "on_conflict=device_id" {
		t.Fatalf("upserts key on device_id: %q", req.query)
	}
}

func TestReplaceLibraryDeletesThenInserts(t *testing.T) {
	c, reqs := newTestBackend(t)

	lib := library.Library{}.Normalize(library.KindTasks.Config().Subcategories)
	lib[library.RoleMale][library.DifficultyWarmup] = []library.Item{
		{ID: "a", Content: "one", Icon: "1️⃣"},
		{ID: "b", Content: "two", Icon: "2️⃣"},
	}

	if err := c.ReplaceLibrary(context.Background(), library.KindTasks, lib); err != nil {
		t.Fatal(err)
	}

	if len(*reqs) != 2 {
		t.Fatalf("expected delete then insert, got %d requests", len(*reqs))
	}
	del := (*reqs)[0]
	if del.method != http.MethodDelete || del.path != "/rest/v1/library_items" {
		t.Fatalf("unexpected first request: %s %s", del.method, del.path)
	}

	ins := (*reqs)[1]
	var rows []map[string]any
	if err := json.Unmarshal(ins.body, &rows); err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows, got %d", len(rows))
	}
	if rows[0]["item_id"] != "a" || rows[0]["position"] != float64(0) {
		t.Fatalf("bucket order lost: %v", rows[0])
	}
	if rows[1]["item_id"] != "b" || rows[1]["position"] != float64(1) {
		t.Fatalf("bucket order lost: %v", rows[1])
	}
}

func TestReplaceEmptyLibrarySkipsInsert(t *testing.T) {
	c, reqs := newTestBackend(t)

	lib := library.Library{}.Normalize(library.KindTasks.Config().Subcategories)
	if err := c.ReplaceLibrary(context.Background(), library.KindTasks, lib); err != nil {
		t.Fatal(err)
	}
	if len(*reqs) != 1 || (*reqs)[0].method != http.MethodDelete {
		t.Fatalf("empty library should only clear remote rows: %+v", *reqs)
	}
}

func TestErrorStatusSurfaces(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	t.Cleanup(srv.Close)

	c := New(srv.URL, "bad-key", "device-test")
	if err := c.RecordGame(context.Background(), store.GameRecord{GameType: "chess"}); err == nil {
		t.Fatal("non-2xx status should error")
	}
}

// ============================================================
// One-time migration
// ============================================================

func TestMigrateIfNeeded(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	c, reqs := newTestBackend(t)
	col := library.NewCollection()

	if err := MigrateIfNeeded(context.Background(), s, c, col); err != nil {
		t.Fatal(err)
	}
	// Profile, settings and one delete per library kind.
	if len(*reqs) != 5 {
		t.Fatalf("expected 5 requests, got %d", len(*reqs))
	}
	if !s.RemoteMigrated() {
		t.Fatal("migration flag should persist")
	}

	// Second run is gated by the flag.
	before := len(*reqs)
	if err := MigrateIfNeeded(context.Background(), s, c, col); err != nil {
		t.Fatal(err)
	}
	if len(*reqs) != before {
		t.Fatal("migration must run only once")
	}
}

func TestMigrateDisabledClient(t *testing.T) {
	s, err := store.NewMemory()
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })

	if err := MigrateIfNeeded(context.Background(), s, New("", "", ""), library.NewCollection()); err != nil {
		t.Fatal(err)
	}
	if s.RemoteMigrated() {
		t.Fatal("a disabled client must not set the migration flag")
	}
}
