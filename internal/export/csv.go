package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/sadopc/pairplay/internal/store"
)

// HistoryToCSV writes the game history to a CSV file at path.
func HistoryToCSV(records []store.GameRecord, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create csv file: %w", err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	defer w.Flush()

	header := []string{"id", "game_type", "winner", "duration_seconds", "board_size", "difficulty", "played_at"}
	if err := w.Write(header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}

	for _, r := range records {
		row := []string{
			strconv.FormatInt(r.ID, 10),
			r.GameType,
			r.Winner,
			strconv.FormatInt(r.Duration, 10),
			r.BoardSize,
			r.Difficulty,
			r.CreatedAt.Format(time.RFC3339),
		}
		if err := w.Write(row); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}

	return w.Error()
}
