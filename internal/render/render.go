// Package render formats aggregated statistics as markdown and CSV.
package render

import (
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"wconcept/bestcrawl/internal/report"
)

// Name budgets, in runes, for the product lists.
const (
	dailyTopNameLimit  = 50
	dailyFullNameLimit = 60
	topListNameLimit   = 40
	categoryLimit      = 25
)

// Document is a rendered report. CSV is empty when the report has no export.
type Document struct {
	Markdown string
	CSV      string
}

type Options struct {
	// Title is the brand shown in headings.
	Title  string
	Source string
	// OutputRoot is the snapshot root; file links are built relative to it.
	OutputRoot string
	// LinkBaseURL, when set, turns snapshot references into links.
	LinkBaseURL string
	Location    *time.Location
	// Now overrides the generation time.
	Now func() time.Time
}

// Renderer turns aggregations into documents. Formatting only: nothing here
// changes which data is shown.
type Renderer struct {
	opts    Options
	printer *message.Printer
}

func New(opts Options) *Renderer {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Renderer{
		opts:    opts,
		printer: message.NewPrinter(language.Korean),
	}
}

func (r *Renderer) now() string {
	return r.opts.Now().In(r.opts.Location).Format("2006-01-02 15:04:05 MST")
}

// won formats a price as ₩1,234.
func (r *Renderer) won(v int) string {
	return r.printer.Sprintf("₩%d", v)
}

func (r *Renderer) price(v int, ok bool) string {
	if !ok {
		return "-"
	}
	return r.won(v)
}

// fileURL is the link to a snapshot, or "" when no base URL is configured.
func (r *Renderer) fileURL(path string) string {
	base := strings.TrimSuffix(r.opts.LinkBaseURL, "/")
	if base == "" || path == "" {
		return ""
	}
	rel := path
	if r.opts.OutputRoot != "" {
		if p, err := filepath.Rel(r.opts.OutputRoot, path); err == nil && !strings.HasPrefix(p, "..") {
			rel = p
		}
	}
	return base + "/" + filepath.ToSlash(rel)
}

// fileRef renders a snapshot reference, linked when possible.
func (r *Renderer) fileRef(path string, code bool) string {
	label := filepath.Base(path)
	if code {
		label = "`" + label + "`"
	}
	if u := r.fileURL(path); u != "" {
		return fmt.Sprintf("[%s](%s)", label, u)
	}
	return label
}

// truncate cuts s to limit runes and marks the cut with "...".
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + "..."
}

// productLink truncates name and links it when url is absolute.
func productLink(name, url string, limit int) string {
	name = truncate(name, limit)
	if strings.HasPrefix(url, "http") {
		return fmt.Sprintf("[%s](%s)", name, url)
	}
	return name
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}

// newTable returns a markdown table writer. aligns apply to columns in order.
func newTable(header table.Row, aligns ...text.Align) table.Writer {
	t := table.NewWriter()
	t.AppendHeader(header)

	configs := make([]table.ColumnConfig, 0, len(aligns))
	for i, a := range aligns {
		configs = append(configs, table.ColumnConfig{Number: i + 1, Align: a, AlignHeader: a})
	}
	t.SetColumnConfigs(configs)
	return t
}

func writeTable(b *strings.Builder, t table.Writer) {
	b.WriteString(t.RenderMarkdown())
	b.WriteString("\n")
}

func renderCSV(header []string, rows [][]string) (string, error) {
	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(header); err != nil {
		return "", fmt.Errorf("failed to write csv header: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write csv rows: %w", err)
	}
	return b.String(), nil
}

// Dir is output/<year>/<MM> for period reports.
func Dir(root string, p report.Period) string {
	return filepath.Join(root, fmt.Sprintf("%d", p.Year), fmt.Sprintf("%02d", p.Month))
}

// BaseName is the report filename without extension.
func BaseName(p report.Period) string {
	switch p.Kind {
	case report.Weekly:
		return fmt.Sprintf("%d년_%02d월_%d주차_통계", p.Year, p.Month, p.Week)
	case report.Monthly:
		return fmt.Sprintf("%d년_%02d월_월간통계", p.Year, p.Month)
	default:
		return p.Start.Format("20060102") + "_일일요약"
	}
}
