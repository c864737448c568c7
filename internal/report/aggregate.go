// Package report derives daily, weekly and monthly statistics from CSV
// snapshots.
package report

import (
	"errors"
	"fmt"
	"sort"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"wconcept/bestcrawl/internal/domain"
	"wconcept/bestcrawl/internal/filter"
	"wconcept/bestcrawl/internal/snapshot"
)

// ErrNoData means no snapshot could be found or read for the request.
var ErrNoData = errors.New("no snapshot data")

// Observation is one sighting of a product.
type Observation struct {
	Day        time.Time
	Rank       int
	SourceFile string
}

// ProductEntry merges every row sharing a product key.
//
// BestRank is the lowest rank observed and BestRankDate the first day it was
// reached. The row holding the best rank is the representative record: its
// name, URL and category are the ones displayed. Price and discount come from
// the most recently seen row.
type ProductEntry struct {
	Key        string
	Name       string
	URL        string
	Brand      string
	Depth1Name string
	Depth2Name string

	BestRank     int
	BestRankDate time.Time
	BestSource   string

	Price    int
	HasPrice bool
	Discount string
	LastSeen time.Time

	History []Observation
}

func (e *ProductEntry) Category() string {
	return domain.CategoryDisplay(e.Depth1Name, e.Depth2Name)
}

// DiscountLabel is the normalized last-seen discount.
func (e *ProductEntry) DiscountLabel() string {
	return NormalizeDiscount(e.Discount)
}

// Appearances is the number of rows merged into the entry.
func (e *ProductEntry) Appearances() int { return len(e.History) }

// MeanRank averages the rank over every sighting.
func (e *ProductEntry) MeanRank() float64 {
	ranks := make([]int, 0, len(e.History))
	for _, o := range e.History {
		ranks = append(ranks, o.Rank)
	}
	return meanInts(ranks)
}

func (e *ProductEntry) observe(r domain.Row) {
	e.History = append(e.History, Observation{Day: r.Day, Rank: r.Rank, SourceFile: r.SourceFile})

	if len(e.History) == 1 || r.Rank < e.BestRank || (r.Rank == e.BestRank && r.Day.Before(e.BestRankDate)) {
		e.BestRank = r.Rank
		e.BestRankDate = r.Day
		e.BestSource = r.SourceFile
		e.Name = r.Name
		e.URL = r.URL
		e.Brand = r.Brand
		e.Depth1Name = r.Depth1Name
		e.Depth2Name = r.Depth2Name
	}

	if len(e.History) == 1 || !r.Day.Before(e.LastSeen) {
		e.LastSeen = r.Day
		e.Price = r.Price
		e.HasPrice = r.HasPrice
		e.Discount = r.Discount
	}
}

// CategoryStat rolls up the rows of one display category.
type CategoryStat struct {
	Name   string
	Count  int
	Ranks  []int
	Prices []int
}

func (c *CategoryStat) MeanRank() float64  { return meanInts(c.Ranks) }
func (c *CategoryStat) BestRank() int      { return minInt(c.Ranks) }
func (c *CategoryStat) MeanPrice() float64 { return meanInts(c.Prices) }

// DayCount is the number of matching rows in a day's snapshot.
type DayCount struct {
	Day   time.Time
	Count int
	File  string
}

// WeekStat is the week-of-month rollup used for trends.
type WeekStat struct {
	Week         int
	Products     int
	Days         int
	DailyAverage float64
	Trend        Trend
}

// Aggregation is everything the renderers need. Rows keep snapshot order.
type Aggregation struct {
	Files      []*snapshot.File
	Rows       []domain.Row
	Days       []DayCount
	Categories []*CategoryStat
	Products   []*ProductEntry
	Weeks      []WeekStat
	// Skipped counts malformed snapshot rows.
	Skipped int
}

func (a *Aggregation) TotalRows() int { return len(a.Rows) }
func (a *Aggregation) TotalDays() int { return len(a.Days) }

func (a *Aggregation) AveragePerDay() float64 {
	if len(a.Days) == 0 {
		return 0
	}
	return float64(len(a.Rows)) / float64(len(a.Days))
}

// MeanRank is the mean over every matching row.
func (a *Aggregation) MeanRank() float64 {
	ranks := make([]int, 0, len(a.Rows))
	for _, r := range a.Rows {
		ranks = append(ranks, r.Rank)
	}
	return meanInts(ranks)
}

// Prices summarizes the rows that carry a price.
func (a *Aggregation) Prices() PriceStats {
	var prices []int
	for _, r := range a.Rows {
		if r.HasPrice {
			prices = append(prices, r.Price)
		}
	}
	return NewPriceStats(prices)
}

// Coverage is the share of periodDays that had a snapshot, in percent.
func (a *Aggregation) Coverage(periodDays int) float64 {
	if periodDays <= 0 {
		return 0
	}
	return float64(len(a.Days)) / float64(periodDays) * 100
}

// TopProducts returns up to n entries in best-rank order.
func (a *Aggregation) TopProducts(n int) []*ProductEntry {
	if n < len(a.Products) {
		return a.Products[:n]
	}
	return a.Products
}

// TopCategories returns up to n categories by descending count.
func (a *Aggregation) TopCategories(n int) []*CategoryStat {
	if n < len(a.Categories) {
		return a.Categories[:n]
	}
	return a.Categories
}

// Aggregator builds Aggregations for an allow-list of brands.
type Aggregator struct {
	matcher  *filter.Matcher
	collator *collate.Collator
}

func NewAggregator(brands []string) *Aggregator {
	return &Aggregator{
		matcher:  filter.NewMatcher(brands),
		collator: collate.New(language.Korean),
	}
}

// AggregateRange reads the latest snapshot of every day in p.
func (ag *Aggregator) AggregateRange(root, prefix string, p Period) (*Aggregation, error) {
	paths, err := snapshot.LatestPerDay(root, prefix, p.Start, p.End)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("%w: %s to %s", ErrNoData, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
	}
	return ag.AggregatePaths(paths)
}

// AggregatePaths reads each path and aggregates the readable ones.
func (ag *Aggregator) AggregatePaths(paths []string) (*Aggregation, error) {
	files := make([]*snapshot.File, 0, len(paths))
	for _, path := range paths {
		f, err := snapshot.Read(path)
		if err != nil {
			log.Errorf("❌ Failed to read snapshot: %v", err)
			continue
		}
		files = append(files, f)
	}
	return ag.Aggregate(files)
}

// Aggregate merges parsed snapshots. Files are ordered by day; each one counts
// as a day even when none of its rows match.
func (ag *Aggregator) Aggregate(files []*snapshot.File) (*Aggregation, error) {
	if len(files) == 0 {
		return nil, ErrNoData
	}

	files = append([]*snapshot.File(nil), files...)
	sort.SliceStable(files, func(i, j int) bool {
		if !files[i].Day.Equal(files[j].Day) {
			return files[i].Day.Before(files[j].Day)
		}
		return files[i].Path < files[j].Path
	})

	agg := &Aggregation{Files: files}
	categories := make(map[string]*CategoryStat)
	products := make(map[string]*ProductEntry)

	for _, f := range files {
		if len(f.Errors) > 0 {
			agg.Skipped += len(f.Errors)
			log.WithField("file", f.Path).Warnf("⚠️ Skipped %d malformed rows", len(f.Errors))
			for _, e := range f.Errors {
				log.Debugf("%s: %v", f.Path, e)
			}
		}

		count := 0
		for _, r := range f.Rows {
			if !ag.matcher.MatchesRow(r.Brand, r.Name) {
				continue
			}
			count++
			agg.Rows = append(agg.Rows, r)

			name := r.Category()
			cs, ok := categories[name]
			if !ok {
				cs = &CategoryStat{Name: name}
				categories[name] = cs
			}
			cs.Count++
			cs.Ranks = append(cs.Ranks, r.Rank)
			if r.HasPrice {
				cs.Prices = append(cs.Prices, r.Price)
			}

			key := r.ProductKey()
			pe, ok := products[key]
			if !ok {
				pe = &ProductEntry{Key: key}
				products[key] = pe
			}
			pe.observe(r)
		}

		agg.Days = append(agg.Days, DayCount{Day: f.Day, Count: count, File: f.Path})
	}

	agg.Categories = ag.sortCategories(categories)
	agg.Products = ag.sortProducts(products)
	agg.Weeks = weeklyTrend(agg.Days)

	log.WithFields(log.Fields{
		"files":      len(files),
		"rows":       len(agg.Rows),
		"products":   len(agg.Products),
		"categories": len(agg.Categories),
	}).Info("📊 Aggregated snapshots")

	return agg, nil
}

func (ag *Aggregator) sortCategories(m map[string]*CategoryStat) []*CategoryStat {
	out := make([]*CategoryStat, 0, len(m))
	for _, cs := range m {
		out = append(out, cs)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return ag.collator.CompareString(out[i].Name, out[j].Name) < 0
	})
	return out
}

func (ag *Aggregator) sortProducts(m map[string]*ProductEntry) []*ProductEntry {
	out := make([]*ProductEntry, 0, len(m))
	for _, pe := range m {
		out = append(out, pe)
	}
	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.BestRank != b.BestRank {
			return a.BestRank < b.BestRank
		}
		if !a.BestRankDate.Equal(b.BestRankDate) {
			return a.BestRankDate.Before(b.BestRankDate)
		}
		if c := ag.collator.CompareString(a.Name, b.Name); c != 0 {
			return c < 0
		}
		return a.Key < b.Key
	})
	return out
}

// weeklyTrend buckets days by week of month and compares consecutive weekly
// daily averages. The first week is always flat.
func weeklyTrend(days []DayCount) []WeekStat {
	byWeek := make(map[int]*WeekStat)
	for _, d := range days {
		if d.Day.IsZero() {
			continue
		}
		w := WeekOfMonth(d.Day.Day())
		ws, ok := byWeek[w]
		if !ok {
			ws = &WeekStat{Week: w}
			byWeek[w] = ws
		}
		ws.Products += d.Count
		ws.Days++
	}

	weeks := make([]WeekStat, 0, len(byWeek))
	for _, ws := range byWeek {
		if ws.Days > 0 {
			ws.DailyAverage = float64(ws.Products) / float64(ws.Days)
		}
		weeks = append(weeks, *ws)
	}
	sort.Slice(weeks, func(i, j int) bool { return weeks[i].Week < weeks[j].Week })

	for i := range weeks {
		if i == 0 {
			weeks[i].Trend = Flat
			continue
		}
		weeks[i].Trend = CompareTrend(weeks[i-1].DailyAverage, weeks[i].DailyAverage)
	}
	return weeks
}
