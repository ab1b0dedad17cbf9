package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/sadopc/pairplay/internal/remote"
	"github.com/sadopc/pairplay/internal/store"
	"github.com/sadopc/pairplay/internal/tui"
)

func main() {
	dbPath, err := store.DefaultDBPath()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	s, err := store.New(dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error opening database: %v\n", err)
		os.Exit(1)
	}
	defer s.Close()

	// After store.New so the config directory exists.
	setupLogging()

	col, err := s.LoadCollection()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error loading libraries: %v\n", err)
		os.Exit(1)
	}

	client := newRemoteClient(s)
	if client.Enabled() {
		// One-time push of local data; runs only after the local load so
		// defaults never clobber real remote rows. The migration works on
		// a clone because the TUI may already be editing the collection.
		snapshot := col.Clone()
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
			defer cancel()
			if err := remote.MigrateIfNeeded(ctx, s, client, snapshot); err != nil {
				log.Error("remote migration", "err", err)
			}
		}()
	}

	app := tui.NewApp(s, col, client)
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// setupLogging sends the structured log to a file; stdout belongs to the TUI.
func setupLogging() {
	path, err := store.DefaultLogPath()
	if err != nil {
		return
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	log.SetOutput(f)
	log.SetReportTimestamp(true)
}

// newRemoteClient builds the mirror client from the environment. Without
// PAIRPLAY_REMOTE_URL the client is disabled and every call is a no-op.
func newRemoteClient(s *store.Store) *remote.Client {
	baseURL := os.Getenv("PAIRPLAY_REMOTE_URL")
	if baseURL == "" {
		return remote.New("", "", "")
	}
	deviceID, err := s.DeviceID()
	if err != nil {
		log.Error("device id", "err", err)
		return remote.New("", "", "")
	}
	return remote.New(baseURL, os.Getenv("PAIRPLAY_REMOTE_KEY"), deviceID)
}
