package report

import (
	"math"
	"sort"
	"strconv"
	"strings"
)

// Trend compares a week's daily average with the previous week's.
type Trend int

const (
	Flat Trend = iota
	Up
	Down
)

// Deadband around the previous average inside which a change counts as flat.
const trendDeadband = 0.10

// CompareTrend is Up above prev*1.1, Down below prev*0.9, Flat otherwise.
func CompareTrend(prev, cur float64) Trend {
	switch {
	case cur > prev*(1+trendDeadband):
		return Up
	case cur < prev*(1-trendDeadband):
		return Down
	default:
		return Flat
	}
}

// Symbol is the marker used in report tables.
func (t Trend) Symbol() string {
	switch t {
	case Up:
		return "📈"
	case Down:
		return "📉"
	default:
		return "➡️"
	}
}

func (t Trend) String() string {
	switch t {
	case Up:
		return "up"
	case Down:
		return "down"
	default:
		return "flat"
	}
}

// NoDiscount is shown when a discount is missing or unreadable.
const NoDiscount = "-"

// NormalizeDiscount renders a discount as a percentage. Values up to 1 are
// ratios and are scaled by 100. The result is rounded to one decimal and a
// trailing ".0" is dropped: 0.25 is "25%", "33.0" is "33%".
func NormalizeDiscount(raw string) string {
	s := strings.TrimSpace(raw)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSpace(s)
	if s == "" {
		return NoDiscount
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return NoDiscount
	}
	if v <= 1 {
		v *= 100
	}

	v = math.Round(v*10) / 10
	if v == math.Trunc(v) {
		return strconv.FormatFloat(v, 'f', 0, 64) + "%"
	}
	return strconv.FormatFloat(v, 'f', 1, 64) + "%"
}

// Grade rates a month by its average number of listed products per day.
func Grade(avgPerDay float64) string {
	switch {
	case avgPerDay >= 15:
		return "S"
	case avgPerDay >= 10:
		return "A"
	case avgPerDay >= 5:
		return "B"
	default:
		return "C"
	}
}

// Insight is the weekly performance tier.
type Insight int

const (
	NeedsAttention Insight = iota
	Good
	Excellent
)

// InsightFor tiers a week by its average number of listed products per day.
func InsightFor(avgPerDay float64) Insight {
	switch {
	case avgPerDay >= 10:
		return Excellent
	case avgPerDay >= 5:
		return Good
	default:
		return NeedsAttention
	}
}

// PriceStats summarizes known prices.
type PriceStats struct {
	Count  int
	Mean   float64
	Median float64
	Min    int
	Max    int
}

// NewPriceStats expects only known prices; blanks must be left out.
func NewPriceStats(prices []int) PriceStats {
	if len(prices) == 0 {
		return PriceStats{}
	}

	sorted := append([]int(nil), prices...)
	sort.Ints(sorted)

	st := PriceStats{
		Count: len(sorted),
		Min:   sorted[0],
		Max:   sorted[len(sorted)-1],
		Mean:  meanInts(sorted),
	}
	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		st.Median = float64(sorted[mid])
	} else {
		st.Median = float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return st
}

func meanInts(vs []int) float64 {
	if len(vs) == 0 {
		return 0
	}
	sum := 0
	for _, v := range vs {
		sum += v
	}
	return float64(sum) / float64(len(vs))
}

func minInt(vs []int) int {
	if len(vs) == 0 {
		return 0
	}
	m := vs[0]
	for _, v := range vs[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
