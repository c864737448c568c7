// Package snapshot reads and writes the dated CSV captures of export runs.
package snapshot

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	log "github.com/sirupsen/logrus"

	"wconcept/bestcrawl/internal/domain"
)

// Header is the fixed column order of every snapshot.
var Header = []string{"날짜", "시간", "브랜드명", "depth1_카테고리", "depth2_카테고리", "순위", "상품명", "가격", "상품URL"}

const (
	// DefaultPrefix starts every snapshot filename.
	DefaultPrefix = "wconcept_best"

	timestampLayout = "20060102_150405"
	fileExt         = ".csv"
)

// Writer persists snapshots under root/YYYY/MM/DD.
type Writer struct {
	root   string
	prefix string
}

func NewWriter(root, prefix string) *Writer {
	if prefix == "" {
		prefix = DefaultPrefix
	}
	return &Writer{root: root, prefix: prefix}
}

// DayDir returns root/YYYY/MM/DD for t.
func DayDir(root string, t time.Time) string {
	return filepath.Join(root, t.Format("2006"), t.Format("01"), t.Format("02"))
}

// FileName returns the snapshot filename for t.
func FileName(prefix string, t time.Time) string {
	return prefix + "_" + t.Format(timestampLayout) + fileExt
}

// Write stores rows in a new snapshot stamped with ts and returns its path.
// The header is written even when rows is empty.
func (w *Writer) Write(rows []domain.Row, ts time.Time) (string, error) {
	dir := DayDir(w.root, ts)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create snapshot dir: %w", err)
	}

	path := filepath.Join(dir, FileName(w.prefix, ts))

	tmp, err := os.CreateTemp(dir, ".snapshot-*.tmp")
	if err != nil {
		return "", fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	tmpPath := tmp.Name()
	defer func() {
		if tmpPath != "" {
			_ = os.Remove(tmpPath)
		}
	}()

	cw := csv.NewWriter(tmp)
	if err := cw.Write(Header); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to write snapshot header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(record(r)); err != nil {
			tmp.Close()
			return "", fmt.Errorf("failed to write snapshot row: %w", err)
		}
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		tmp.Close()
		return "", fmt.Errorf("failed to flush snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("failed to close snapshot: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return "", fmt.Errorf("failed to move snapshot into place: %w", err)
	}
	tmpPath = ""

	log.WithFields(log.Fields{"path": path, "rows": len(rows)}).Debug("💾 Snapshot written")
	return path, nil
}

func record(r domain.Row) []string {
	price := ""
	if r.HasPrice {
		price = strconv.Itoa(r.Price)
	}
	return []string{
		r.Date,
		r.Time,
		r.Brand,
		r.Depth1Name,
		r.Depth2Name,
		strconv.Itoa(r.Rank),
		r.Name,
		price,
		r.URL,
	}
}
