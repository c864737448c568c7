package snapshot

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/iancoleman/strcase"

	"wconcept/bestcrawl/internal/domain"
)

// ErrNoHeader is returned for an empty file.
var ErrNoHeader = errors.New("snapshot has no header")

// RowError describes one skipped row.
type RowError struct {
	Line int
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// File is a parsed snapshot.
type File struct {
	Path string
	// Day comes from the YYYY/MM/DD directory, or the first row's date.
	Day       time.Time
	Rows      []domain.Row
	Errors    []*RowError
	LineCount int
}

type column int

const (
	colDate column = iota
	colTime
	colBrand
	colDepth1
	colDepth2
	colRank
	colName
	colPrice
	colURL
	colID
	colDiscount
)

// Accepted header labels per column. Older captures used other labels.
var columnSynonyms = map[column][]string{
	colDate:     {"날짜", "date"},
	colTime:     {"시간", "time"},
	colBrand:    {"브랜드명", "브랜드", "brandName", "brand"},
	colDepth1:   {"depth1_카테고리", "메인 카테고리", "depth1_name", "depth1Name", "depth1"},
	colDepth2:   {"depth2_카테고리", "서브 카테고리", "depth2_name", "depth2Name", "depth2"},
	colRank:     {"순위", "rank"},
	colName:     {"상품명", "productName", "name"},
	colPrice:    {"가격", "salePrice", "price"},
	colURL:      {"상품URL", "productUrl", "url"},
	colID:       {"상품ID", "productId", "itemCd"},
	colDiscount: {"할인율", "discountRate", "saleRate"},
}

var headerIndex = buildHeaderIndex()

func buildHeaderIndex() map[string]column {
	idx := make(map[string]column)
	for col, labels := range columnSynonyms {
		for _, l := range labels {
			idx[normalizeHeader(l)] = col
		}
	}
	return idx
}

func normalizeHeader(s string) string {
	s = strings.TrimPrefix(s, "\uFEFF")
	return strcase.ToSnake(strings.TrimSpace(s))
}

// Read parses the snapshot at path. Malformed rows are skipped and listed in
// File.Errors; only IO failures and a missing header fail the call.
func Read(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read snapshot %s: %w", path, err)
	}

	f, err := Parse(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to parse snapshot %s: %w", path, err)
	}

	f.Path = path
	f.LineCount = bytes.Count(data, []byte{'\n'})
	if len(data) > 0 && data[len(data)-1] != '\n' {
		f.LineCount++
	}
	if day, ok := DayFromPath(path); ok {
		f.Day = day
	}
	for i := range f.Rows {
		f.Rows[i].SourceFile = path
		if !f.Day.IsZero() {
			f.Rows[i].Day = f.Day
		}
	}
	if f.Day.IsZero() {
		for _, r := range f.Rows {
			if !r.Day.IsZero() {
				f.Day = r.Day
				break
			}
		}
	}
	return f, nil
}

// Parse reads snapshot rows from r.
func Parse(r io.Reader) (*File, error) {
	buf := bufio.NewReader(r)
	if ch, _, err := buf.ReadRune(); err == nil && ch != '\uFEFF' {
		if err := buf.UnreadRune(); err != nil {
			return nil, fmt.Errorf("failed to rewind after BOM check: %w", err)
		}
	}

	cr := csv.NewReader(buf)
	cr.FieldsPerRecord = -1
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrNoHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	cols := make(map[column]int, len(header))
	for i, h := range header {
		if c, ok := headerIndex[normalizeHeader(h)]; ok {
			if _, dup := cols[c]; !dup {
				cols[c] = i
			}
		}
	}
	if _, ok := cols[colRank]; !ok {
		return nil, fmt.Errorf("header has no rank column: %v", header)
	}

	f := &File{}
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				f.Errors = append(f.Errors, &RowError{Line: pe.Line, Err: pe.Err})
				continue
			}
			return nil, fmt.Errorf("failed to read row: %w", err)
		}
		if isBlank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)

		row, err := parseRow(rec, cols)
		if err != nil {
			f.Errors = append(f.Errors, &RowError{Line: line, Err: err})
			continue
		}
		f.Rows = append(f.Rows, row)
	}
	return f, nil
}

func parseRow(rec []string, cols map[column]int) (domain.Row, error) {
	get := func(c column) string {
		i, ok := cols[c]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	rankText := get(colRank)
	rank, err := strconv.Atoi(rankText)
	if err != nil || rank < 1 {
		return domain.Row{}, fmt.Errorf("invalid rank %q", rankText)
	}

	row := domain.Row{
		Date:       get(colDate),
		Time:       get(colTime),
		Brand:      get(colBrand),
		Depth1Name: get(colDepth1),
		Depth2Name: get(colDepth2),
		Rank:       rank,
		Name:       get(colName),
		URL:        get(colURL),
		ID:         get(colID),
		Discount:   get(colDiscount),
	}
	if row.ProductKey() == "" {
		return domain.Row{}, errors.New("row has no product name, id or url")
	}
	row.Price, row.HasPrice = domain.ParsePrice(get(colPrice))
	if d, err := time.Parse("2006-01-02", row.Date); err == nil {
		row.Day = d
	}
	return row, nil
}

// DayFromPath extracts the date from a .../YYYY/MM/DD/file.csv path.
func DayFromPath(path string) (time.Time, bool) {
	dayDir := filepath.Dir(path)
	monthDir := filepath.Dir(dayDir)
	yearDir := filepath.Dir(monthDir)

	s := filepath.Base(yearDir) + "-" + filepath.Base(monthDir) + "-" + filepath.Base(dayDir)
	d, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return d, true
}

func isBlank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
