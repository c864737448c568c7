package service

import (
	"fmt"
	"os"
	"path/filepath"

	log "github.com/sirupsen/logrus"

	"wconcept/bestcrawl/internal/render"
	"wconcept/bestcrawl/internal/report"
)

// Written lists the files a report produced. CSV is empty for daily reports.
type Written struct {
	Markdown string
	CSV      string
}

// Reporter turns stored snapshots into report files.
type Reporter struct {
	aggregator *report.Aggregator
	renderer   *render.Renderer
	root       string
	prefix     string
}

func NewReporter(aggregator *report.Aggregator, renderer *render.Renderer, root, prefix string) *Reporter {
	return &Reporter{
		aggregator: aggregator,
		renderer:   renderer,
		root:       root,
		prefix:     prefix,
	}
}

// Daily summarizes one snapshot into a markdown file at outPath.
func (r *Reporter) Daily(csvPath, outPath string) (*Written, error) {
	if _, err := os.Stat(csvPath); err != nil {
		return nil, fmt.Errorf("%w: %v", report.ErrNoData, err)
	}

	agg, err := r.aggregator.AggregatePaths([]string{csvPath})
	if err != nil {
		return nil, err
	}

	doc := r.renderer.Daily(agg)
	if err := writeFile(outPath, doc.Markdown); err != nil {
		return nil, err
	}
	log.Infof("✅ Daily report written: %s", outPath)
	return &Written{Markdown: outPath}, nil
}

func (r *Reporter) Weekly(year, month, week int) (*Written, error) {
	p, err := report.WeekPeriod(year, month, week)
	if err != nil {
		return nil, err
	}
	agg, err := r.aggregator.AggregateRange(r.root, r.prefix, p)
	if err != nil {
		return nil, err
	}
	doc, err := r.renderer.Weekly(agg, p)
	if err != nil {
		return nil, fmt.Errorf("failed to render weekly report: %w", err)
	}
	return r.save(p, doc)
}

func (r *Reporter) Monthly(year, month int) (*Written, error) {
	p, err := report.MonthPeriod(year, month)
	if err != nil {
		return nil, err
	}
	agg, err := r.aggregator.AggregateRange(r.root, r.prefix, p)
	if err != nil {
		return nil, err
	}
	doc, err := r.renderer.Monthly(agg, p)
	if err != nil {
		return nil, fmt.Errorf("failed to render monthly report: %w", err)
	}
	return r.save(p, doc)
}

func (r *Reporter) save(p report.Period, doc *render.Document) (*Written, error) {
	base := filepath.Join(render.Dir(r.root, p), render.BaseName(p))
	w := &Written{Markdown: base + ".md", CSV: base + ".csv"}

	if err := writeFile(w.Markdown, doc.Markdown); err != nil {
		return nil, err
	}
	if err := writeFile(w.CSV, doc.CSV); err != nil {
		return nil, err
	}

	log.Infof("✅ %s report written: %s, %s", p.Kind, w.Markdown, w.CSV)
	return w, nil
}

func writeFile(path, content string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create report dir: %w", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write report %s: %w", path, err)
	}
	return nil
}
