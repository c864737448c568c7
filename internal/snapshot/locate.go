package snapshot

import (
	"fmt"
	"path/filepath"
	"sort"
	"time"
)

// LatestPerDay returns, for each day in [start, end] with captures, the
// lexicographically last snapshot in that day's directory. Filenames embed a
// zero-padded timestamp so this is the most recent run. Results are ordered
// by day.
func LatestPerDay(root, prefix string, start, end time.Time) ([]string, error) {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	start = truncateDay(start)
	end = truncateDay(end)

	var files []string
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		matches, err := filepath.Glob(filepath.Join(DayDir(root, day), prefix+"_*"+fileExt))
		if err != nil {
			return nil, fmt.Errorf("failed to list snapshots for %s: %w", day.Format("2006-01-02"), err)
		}
		if len(matches) == 0 {
			continue
		}
		sort.Strings(matches)
		files = append(files, matches[len(matches)-1])
	}
	return files, nil
}

func truncateDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
