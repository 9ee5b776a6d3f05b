package metrics

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Writer stores experiment output as CSV files in a timestamped run
// directory.
type Writer struct {
	baseDir string
}

func NewWriter(outDir string) (*Writer, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339)
	baseDir := filepath.Join(outDir, timestamp)
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create directory: %w", err)
	}
	return &Writer{baseDir: baseDir}, nil
}

// Dir returns the run directory files are written into.
func (w *Writer) Dir() string {
	return w.baseDir
}

func (w *Writer) writeCSV(name string, header []string, rows [][]string) error {
	path := filepath.Join(w.baseDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", name, err)
	}
	defer f.Close()

	writer := csv.NewWriter(f)
	defer writer.Flush()

	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write %s header: %w", name, err)
	}
	for _, row := range rows {
		if err := writer.Write(row); err != nil {
			return fmt.Errorf("failed to write %s row: %w", name, err)
		}
	}
	return nil
}

func (w *Writer) WritePlayerConfigs(configs []PlayerConfig) error {
	rows := make([][]string, 0, len(configs))
	for _, config := range configs {
		rows = append(rows, []string{
			strconv.Itoa(config.ID),
			config.Kind,
			strconv.FormatUint(config.Seed, 10),
		})
	}
	return w.writeCSV("player_configs.csv", []string{"id", "kind", "seed"}, rows)
}

func (w *Writer) WriteGameRecords(records []GameRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.ID),
			strconv.FormatUint(record.Seed, 10),
			strconv.Itoa(record.Player1),
			strconv.Itoa(record.Player2),
			record.Winner,
			strconv.Itoa(record.Turns),
			strconv.FormatFloat(record.Reward1, 'f', -1, 64),
			strconv.FormatFloat(record.Reward2, 'f', -1, 64),
			record.Duration.String(),
		})
	}
	header := []string{"id", "seed", "player1", "player2", "winner", "turns", "reward1", "reward2", "duration"}
	return w.writeCSV("game_records.csv", header, rows)
}

func (w *Writer) WriteMoveRecords(records []MoveRecord) error {
	rows := make([][]string, 0, len(records))
	for _, record := range records {
		rows = append(rows, []string{
			strconv.Itoa(record.Game),
			strconv.Itoa(record.Turn),
			record.Player,
			record.Action,
			strconv.Itoa(record.Legal),
			strconv.Itoa(record.DeckSize),
		})
	}
	header := []string{"game", "turn", "player", "action", "legal", "deck_size"}
	return w.writeCSV("move_records.csv", header, rows)
}
