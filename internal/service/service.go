// Package service runs the export and report pipelines.
package service

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"wconcept/bestcrawl/internal/category"
	"wconcept/bestcrawl/internal/client"
	"wconcept/bestcrawl/internal/domain"
	"wconcept/bestcrawl/internal/filter"
	"wconcept/bestcrawl/internal/snapshot"
)

// CategoryResolver yields the categories to export and the session to use.
type CategoryResolver interface {
	Resolve(ctx context.Context) (*category.Resolution, error)
}

// ExportOptions are the per-run switches of an export.
type ExportOptions struct {
	Brands   []string
	PageSize int
	// MaxPages caps pages per category; 0 means no cap.
	MaxPages int
	// TestMode exports only the first category, one page.
	TestMode bool
	Location *time.Location
	Now      func() time.Time
}

// ExportResult summarizes one export run.
type ExportResult struct {
	Path       string
	Categories int
	Fetched    int
	Rows       int
	Failed     []domain.CategoryPair
}

// Service fetches every category's best listing, keeps the allowed brands and
// writes one snapshot per run.
type Service struct {
	resolver CategoryResolver
	client   client.WConceptClient
	writer   *snapshot.Writer
	opts     ExportOptions
}

func NewService(resolver CategoryResolver, c client.WConceptClient, writer *snapshot.Writer, opts ExportOptions) *Service {
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Service{
		resolver: resolver,
		client:   c,
		writer:   writer,
		opts:     opts,
	}
}

func (s *Service) Export(ctx context.Context) (*ExportResult, error) {
	resolution, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	log.Infof("📂 Using %s", resolution)

	categories := resolution.Categories
	maxPages := s.opts.MaxPages
	if s.opts.TestMode && len(categories) > 0 {
		categories = categories[:1]
		maxPages = 1
		log.Warnf("🧪 Test mode: exporting %s only, one page", categories[0])
	}

	ts := s.opts.Now().In(s.opts.Location)
	result := &ExportResult{Categories: len(categories)}
	var rows []domain.Row

	for i, cat := range categories {
		log.Infof("🔄 Processing category %d/%d: %s (%s/%s)", i+1, len(categories), cat, cat.Depth1Code, cat.Depth2Code)

		products, err := s.client.FetchAll(ctx, resolution.Session, cat, s.opts.PageSize, maxPages)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return nil, ctxErr
			}
			log.Errorf("❌ Failed to fetch %s, skipping: %v", cat, err)
			result.Failed = append(result.Failed, cat)
			continue
		}

		matched := filter.FilterByBrand(products, s.opts.Brands)
		for _, p := range matched {
			rows = append(rows, domain.NewRow(p, cat, ts))
		}
		result.Fetched += len(products)

		log.Infof("✅ Completed %s: %d products, %d matched", cat, len(products), len(matched))
	}

	if len(categories) > 0 && len(result.Failed) == len(categories) {
		log.Warn("⚠️ Every category failed; writing an empty snapshot")
	}

	path, err := s.writer.Write(rows, ts)
	if err != nil {
		return nil, fmt.Errorf("failed to write snapshot: %w", err)
	}
	result.Path = path
	result.Rows = len(rows)

	log.WithFields(log.Fields{
		"categories": result.Categories,
		"failed":     len(result.Failed),
		"fetched":    result.Fetched,
		"rows":       result.Rows,
	}).Infof("💾 Snapshot written: %s", path)

	return result, nil
}

// ListCategories resolves categories without exporting.
func (s *Service) ListCategories(ctx context.Context) (*category.Resolution, error) {
	res, err := s.resolver.Resolve(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve categories: %w", err)
	}
	return res, nil
}
