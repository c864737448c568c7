// Package category turns the best page's category tree into the list of
// (depth1, depth2) pairs an export run iterates over.
package category

import (
	"context"
	"errors"
	"fmt"
	"os"

	log "github.com/sirupsen/logrus"

	"wconcept/bestcrawl/internal/client"
	"wconcept/bestcrawl/internal/domain"
)

// ErrNoCategories means the page, the cache and the compiled-in table all
// came up empty. An export run cannot continue.
var ErrNoCategories = errors.New("no categories available")

// Source tells where a category list came from.
type Source string

const (
	SourcePage     Source = "page"
	SourceProducts Source = "products"
	SourceCache    Source = "cache"
	SourceBuiltin  Source = "builtin"
)

// Fallback is used when neither the page nor the cache yields categories.
var Fallback = []domain.CategoryPair{
	{Depth1Code: "10102", Depth1Name: "의류", Depth2Code: "10102203", Depth2Name: "하의"},
}

// Resolution is the outcome of Resolver.Resolve.
type Resolution struct {
	Categories []domain.CategoryPair
	Source     Source
	// Session carries the headers captured with the best page, if fetched.
	Session client.Session
}

// Resolver resolves categories from the live page with cache and built-in
// fallbacks.
type Resolver struct {
	client     client.WConceptClient
	cache      *Cache
	fallback   []domain.CategoryPair
	session    client.Session
	skipUpdate bool
	seedSize   int
}

// NewResolver builds a Resolver. When skipUpdate is set the page is not
// fetched and the cache is left untouched.
func NewResolver(c client.WConceptClient, cache *Cache, defaultSession client.Session, skipUpdate bool) *Resolver {
	return &Resolver{
		client:     c,
		cache:      cache,
		fallback:   Fallback,
		session:    defaultSession,
		skipUpdate: skipUpdate,
		seedSize:   100,
	}
}

// WithFallback replaces the compiled-in table.
func (r *Resolver) WithFallback(pairs []domain.CategoryPair) *Resolver {
	r.fallback = pairs
	return r
}

func (r *Resolver) Resolve(ctx context.Context) (*Resolution, error) {
	res := &Resolution{Session: r.session}

	if !r.skipUpdate {
		pairs, source := r.fromLive(ctx, res)
		if len(pairs) > 0 {
			r.refreshCache(pairs)
			res.Categories = pairs
			res.Source = source
			log.Infof("✅ Resolved %d categories from %s", len(pairs), source)
			return res, nil
		}
		log.Warn("⚠️ No categories found on the best page, falling back")
	} else {
		log.Info("⏭️ Skipping category update")
	}

	cached, err := r.cache.Load()
	switch {
	case err == nil && len(cached) > 0:
		res.Categories = cached
		res.Source = SourceCache
		log.Infof("📂 Loaded %d categories from cache %s", len(cached), r.cache.Path())
		return res, nil
	case err != nil && !errors.Is(err, os.ErrNotExist):
		log.Warnf("⚠️ Category cache unusable: %v", err)
	}

	if len(r.fallback) > 0 {
		res.Categories = append([]domain.CategoryPair(nil), r.fallback...)
		res.Source = SourceBuiltin
		log.Warnf("⚠️ Using %d built-in categories", len(res.Categories))
		return res, nil
	}

	return nil, ErrNoCategories
}

func (r *Resolver) fromLive(ctx context.Context, res *Resolution) ([]domain.CategoryPair, Source) {
	page, err := r.client.FetchBestPage(ctx)
	if err != nil {
		log.Warnf("⚠️ Failed to fetch best page: %v", err)
		return nil, ""
	}
	res.Session = page.Session

	raw, err := ExtractBestCategories(page.HTML)
	if err != nil {
		log.Warnf("⚠️ %v", err)
	} else if pairs := Resolve(raw); len(pairs) > 0 {
		return pairs, SourcePage
	}

	seed, err := r.client.FetchProductPage(ctx, res.Session, domain.AllCategory(), 1, r.seedSize)
	if err != nil {
		log.Warnf("⚠️ Failed to fetch seed products: %v", err)
		return nil, ""
	}
	return FromProducts(seed.Products), SourceProducts
}

func (r *Resolver) refreshCache(pairs []domain.CategoryPair) {
	cached, err := r.cache.Load()
	if err == nil && domain.SameCategories(cached, pairs) {
		log.Debug("Category cache is up to date")
		return
	}

	if err := r.cache.Save(pairs); err != nil {
		log.Errorf("❌ Failed to update category cache: %v", err)
		return
	}
	log.WithFields(log.Fields{
		"before": len(cached),
		"after":  len(pairs),
		"delta":  len(pairs) - len(cached),
	}).Infof("💾 Category cache updated: %s", r.cache.Path())
}

// String is used in log lines.
func (r *Resolution) String() string {
	return fmt.Sprintf("%d categories from %s", len(r.Categories), r.Source)
}
