// Package ops holds offline maintenance tooling for the snapshot file:
// backup, restore, inspection, and repair. Nothing here is used by the
// running server.
package ops

import (
	"compress/gzip"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/LifeXP-create/LifeXP/internal/model"
	"github.com/LifeXP-create/LifeXP/internal/progress"
)

// Summary is a quick operator view of a snapshot file.
type Summary struct {
	Path        string `json:"path"`
	LastReset   string `json:"lastReset"`
	Level       int    `json:"level"`
	XP          int    `json:"xp"`
	Streak      int    `json:"streak"`
	Quests      int    `json:"quests"`
	QuestsDone  int    `json:"questsDone"`
	Recurring   int    `json:"recurring"`
	AntiHabits  int    `json:"antiHabits"`
	Reminders   int    `json:"reminders"`
	Todos       int    `json:"todos"`
	Planets     int    `json:"planets"`
	HistoryDays int    `json:"historyDays"`
}

func readSnapshot(path string) (*model.Snapshot, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var snap model.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return nil, fmt.Errorf("parse snapshot %s: %w", path, err)
	}
	return &snap, nil
}

// Inspect reads a snapshot file and summarizes it without changing it.
func Inspect(path string) (Summary, error) {
	snap, err := readSnapshot(path)
	if err != nil {
		return Summary{}, err
	}

	done := 0
	for _, q := range snap.Quests {
		if q.Done {
			done++
		}
	}
	return Summary{
		Path:        path,
		LastReset:   snap.LastReset,
		Level:       snap.Profile.Level,
		XP:          snap.Profile.XP,
		Streak:      snap.Streak,
		Quests:      len(snap.Quests),
		QuestsDone:  done,
		Recurring:   len(snap.Recurring),
		AntiHabits:  len(snap.Habits),
		Reminders:   len(snap.Reminders),
		Todos:       len(snap.Todos),
		Planets:     len(snap.Planets),
		HistoryDays: len(snap.History),
	}, nil
}

// Repair normalizes a snapshot file in place: nil maps are seeded, items
// are re-sanitized, and overflowing XP is folded into levels. Returns
// whether the file changed.
func Repair(path string) (bool, error) {
	snap, err := readSnapshot(path)
	if err != nil {
		return false, err
	}

	before, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return false, err
	}

	snap.Normalize()
	progress.NormalizeSnapshot(snap)

	after, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return false, err
	}
	if string(before) == string(after) {
		return false, nil
	}

	if err := writeAtomic(path, after); err != nil {
		return false, err
	}
	return true, nil
}

// Backup writes a gzip copy of the snapshot file. The archive holds the
// raw JSON so it can be inspected with zcat alone.
func Backup(snapshotPath, archivePath string) error {
	snapshotPath = strings.TrimSpace(snapshotPath)
	archivePath = strings.TrimSpace(archivePath)
	if snapshotPath == "" || archivePath == "" {
		return fmt.Errorf("snapshot and archive paths are required")
	}

	// Fail early on corrupt input rather than archiving garbage.
	if _, err := readSnapshot(snapshotPath); err != nil {
		return err
	}

	src, err := os.Open(snapshotPath)
	if err != nil {
		return err
	}
	defer src.Close()

	if err := os.MkdirAll(filepath.Dir(archivePath), 0o755); err != nil {
		return err
	}
	dst, err := os.Create(archivePath)
	if err != nil {
		return err
	}
	defer dst.Close()

	gz := gzip.NewWriter(dst)
	if _, err := io.Copy(gz, src); err != nil {
		_ = gz.Close()
		return err
	}
	return gz.Close()
}

// Restore unpacks a backup archive over the snapshot path. The write goes
// through a temp file so an interrupted restore cannot corrupt the target.
func Restore(archivePath, snapshotPath string) error {
	archivePath = strings.TrimSpace(archivePath)
	snapshotPath = strings.TrimSpace(snapshotPath)
	if archivePath == "" || snapshotPath == "" {
		return fmt.Errorf("archive and snapshot paths are required")
	}

	src, err := os.Open(archivePath)
	if err != nil {
		return err
	}
	defer src.Close()

	gz, err := gzip.NewReader(src)
	if err != nil {
		return err
	}
	defer gz.Close()

	b, err := io.ReadAll(gz)
	if err != nil {
		return err
	}

	// Refuse archives that do not hold a parseable snapshot.
	var snap model.Snapshot
	if err := json.Unmarshal(b, &snap); err != nil {
		return fmt.Errorf("archive does not contain a valid snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(snapshotPath), 0o755); err != nil {
		return err
	}
	return writeAtomic(snapshotPath, b)
}

func writeAtomic(path string, b []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, b, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
