package report

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"wconcept/bestcrawl/internal/domain"
	"wconcept/bestcrawl/internal/snapshot"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var brands = []string{"HACIE", "하시에"}

func day(d int) time.Time {
	return time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
}

func row(d, rank int, name, brand string) domain.Row {
	return domain.Row{
		Date:       day(d).Format("2006-01-02"),
		Brand:      brand,
		Depth1Name: "의류",
		Depth2Name: "하의",
		Rank:       rank,
		Name:       name,
		URL:        "https://www.wconcept.co.kr/Product/" + name,
		Day:        day(d),
		SourceFile: day(d).Format("2006/01/02") + "/snap.csv",
	}
}

func file(d int, rows ...domain.Row) *snapshot.File {
	return &snapshot.File{Path: day(d).Format("2006/01/02") + "/snap.csv", Day: day(d), Rows: rows}
}

func TestAggregate_BestRankPrefersLowerRank(t *testing.T) {
	agg, err := NewAggregator(brands).Aggregate([]*snapshot.File{
		file(1, row(1, 5, "A", "HACIE")),
		file(2, row(2, 3, "A", "HACIE")),
	})
	require.NoError(t, err)
	require.Len(t, agg.Products, 1)

	p := agg.Products[0]
	assert.Equal(t, 3, p.BestRank)
	assert.Equal(t, day(2), p.BestRankDate)
	assert.Equal(t, 2, p.Appearances())
}

func TestAggregate_BestRankTieKeepsEarlierDate(t *testing.T) {
	// Files are passed out of order on purpose.
	agg, err := NewAggregator(brands).Aggregate([]*snapshot.File{
		file(2, row(2, 3, "A", "HACIE")),
		file(1, row(1, 3, "A", "HACIE")),
	})
	require.NoError(t, err)
	require.Len(t, agg.Products, 1)
	assert.Equal(t, 3, agg.Products[0].BestRank)
	assert.Equal(t, day(1), agg.Products[0].BestRankDate)
}

func TestAggregate_RepresentativeAndLastSeen(t *testing.T) {
	first := row(1, 2, "A", "HACIE")
	first.Depth2Name = "스커트"
	first.Price, first.HasPrice = 59000, true
	first.Discount = "0.1"

	later := row(3, 7, "A", "HACIE")
	later.Name = "A (renamed)"
	later.Price, later.HasPrice = 49000, true
	later.Discount = "0.25"

	agg, err := NewAggregator(brands).Aggregate([]*snapshot.File{file(1, first), file(3, later)})
	require.NoError(t, err)
	p := agg.Products[0]

	assert.Equal(t, "A", p.Name)
	assert.Equal(t, "의류 > 스커트", p.Category())
	assert.Equal(t, day(1).Format("2006/01/02")+"/snap.csv", p.BestSource)
	assert.Equal(t, 49000, p.Price)
	assert.Equal(t, "25%", p.DiscountLabel())
	assert.Equal(t, day(3), p.LastSeen)
}

func TestAggregate_ProductKeyFallsBackToIDThenName(t *testing.T) {
	a1 := domain.Row{Brand: "HACIE", Rank: 4, ID: "301", Name: "X", Day: day(1)}
	a2 := domain.Row{Brand: "HACIE", Rank: 2, ID: "301", Name: "X v2", Day: day(2)}
	b1 := domain.Row{Brand: "HACIE", Rank: 1, Name: "Y", Day: day(1)}
	b2 := domain.Row{Brand: "HACIE", Rank: 9, Name: "Y", Day: day(2)}

	agg, err := NewAggregator(brands).Aggregate([]*snapshot.File{file(1, a1, b1), file(2, a2, b2)})
	require.NoError(t, err)

	got := make(map[string]int)
	for _, p := range agg.Products {
		got[p.Key] = p.BestRank
	}
	assert.Equal(t, map[string]int{"301": 2, "Y": 1}, got)
	assert.Equal(t, "Y", agg.Products[0].Key)
}

func TestAggregate_FiltersBrands(t *testing.T) {
	agg, err := NewAggregator(brands).Aggregate([]*snapshot.File{
		file(1,
			row(1, 1, "A", "HACIE"),
			row(1, 2, "B", "Other"),
			row(1, 3, "하시에 니트", ""),
			row(1, 4, "C", "하시에 "),
			row(1, 5, "D", "hacie"),
		),
	})
	require.NoError(t, err)

	var names []string
	for _, r := range agg.Rows {
		names = append(names, r.Name)
	}
	assert.Equal(t, []string{"A", "하시에 니트", "C", "D"}, names)
	assert.Equal(t, []DayCount{{Day: day(1), Count: 4, File: file(1).Path}}, agg.Days)
}

func TestAggregate_DaysWithoutMatchesStillCount(t *testing.T) {
	agg, err := NewAggregator(brands).Aggregate([]*snapshot.File{
		file(1, row(1, 1, "A", "HACIE"), row(1, 2, "B", "HACIE")),
		file(2, row(2, 1, "Z", "Other")),
	})
	require.NoError(t, err)
	assert.Equal(t, 2, agg.TotalDays())
	assert.Equal(t, 2, agg.TotalRows())
	assert.InDelta(t, 1.0, agg.AveragePerDay(), 1e-9)
}

func TestAggregate_NoFiles(t *testing.T) {
	_, err := NewAggregator(brands).Aggregate(nil)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestAggregate_Categories(t *testing.T) {
	r1 := row(1, 4, "A", "HACIE")
	r1.Price, r1.HasPrice = 10000, true
	r2 := row(1, 2, "B", "HACIE")
	r2.Price, r2.HasPrice = 30000, true
	r3 := row(1, 8, "C", "HACIE")
	r3.Depth1Name, r3.Depth2Name = "가방", "가방"
	r4 := row(1, 6, "D", "HACIE")
	r4.Depth1Name, r4.Depth2Name = "신발", "운동화"

	agg, err := NewAggregator(brands).Aggregate([]*snapshot.File{file(1, r1, r2, r3, r4)})
	require.NoError(t, err)

	var names []string
	for _, c := range agg.Categories {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"의류 > 하의", "가방", "신발 > 운동화"}, names)

	top := agg.Categories[0]
	assert.Equal(t, 2, top.Count)
	assert.Equal(t, 2, top.BestRank())
	assert.InDelta(t, 3.0, top.MeanRank(), 1e-9)
	assert.InDelta(t, 20000.0, top.MeanPrice(), 1e-9)
	assert.Len(t, agg.TopCategories(1), 1)
}

func TestAggregateRange_UsesLatestFilePerDay(t *testing.T) {
	root := t.TempDir()
	w := snapshot.NewWriter(root, "")

	morning := time.Date(2025, 3, 4, 9, 0, 0, 0, time.UTC)
	evening := time.Date(2025, 3, 4, 21, 30, 0, 0, time.UTC)

	_, err := w.Write([]domain.Row{row(4, 1, "early", "HACIE")}, morning)
	require.NoError(t, err)
	latest, err := w.Write([]domain.Row{row(4, 2, "late", "HACIE")}, evening)
	require.NoError(t, err)

	p, err := WeekPeriod(2025, 3, 1)
	require.NoError(t, err)

	agg, err := NewAggregator(brands).AggregateRange(root, "", p)
	require.NoError(t, err)
	require.Len(t, agg.Rows, 1)
	assert.Equal(t, "late", agg.Rows[0].Name)
	assert.Equal(t, latest, agg.Rows[0].SourceFile)
	assert.Equal(t, day(4), agg.Days[0].Day)
}

func TestAggregateRange_NoData(t *testing.T) {
	p, err := MonthPeriod(2025, 2)
	require.NoError(t, err)
	_, err = NewAggregator(brands).AggregateRange(t.TempDir(), "", p)
	assert.ErrorIs(t, err, ErrNoData)
}

func TestWeeklyTrend(t *testing.T) {
	days := []DayCount{
		{Day: day(1), Count: 10},
		{Day: day(2), Count: 10},
		{Day: day(8), Count: 12},
		{Day: day(15), Count: 10},
		{Day: day(16), Count: 12},
		{Day: day(22), Count: 9},
	}

	got := weeklyTrend(days)
	want := []WeekStat{
		{Week: 1, Products: 20, Days: 2, DailyAverage: 10, Trend: Flat},
		{Week: 2, Products: 12, Days: 1, DailyAverage: 12, Trend: Up},
		{Week: 3, Products: 22, Days: 2, DailyAverage: 11, Trend: Flat},
		{Week: 4, Products: 9, Days: 1, DailyAverage: 9, Trend: Down},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("weeklyTrend() mismatch (-want +got):\n%s", diff)
	}
}

func TestCompareTrend_Deadband(t *testing.T) {
	assert.Equal(t, Flat, CompareTrend(10, 11))
	assert.Equal(t, Up, CompareTrend(10, 11.01))
	assert.Equal(t, Flat, CompareTrend(10, 9))
	assert.Equal(t, Down, CompareTrend(10, 8.99))
	assert.Equal(t, "📈", Up.Symbol())
	assert.Equal(t, "➡️", Flat.Symbol())
}

func TestNormalizeDiscount(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"0.25", "25%"},
		{"33.0", "33%"},
		{"33", "33%"},
		{"12.34", "12.3%"},
		{"0.125", "12.5%"},
		{"1", "100%"},
		{"40%", "40%"},
		{" 0 ", "0%"},
		{"", "-"},
		{"n/a", "-"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeDiscount(tt.in))
		})
	}
}

func TestWeekOfMonth(t *testing.T) {
	assert.Equal(t, 1, WeekOfMonth(1))
	assert.Equal(t, 1, WeekOfMonth(7))
	assert.Equal(t, 2, WeekOfMonth(8))
	assert.Equal(t, 5, WeekOfMonth(29))
	assert.Equal(t, 5, WeekOfMonth(31))
}

func TestWeekPeriod(t *testing.T) {
	p, err := WeekPeriod(2025, 3, 2)
	require.NoError(t, err)
	assert.Equal(t, day(8), p.Start)
	assert.Equal(t, day(14), p.End)
	assert.Equal(t, 7, p.Days())

	p, err = WeekPeriod(2025, 3, 5)
	require.NoError(t, err)
	assert.Equal(t, day(29), p.Start)
	assert.Equal(t, day(31), p.End)
	assert.Equal(t, "2025년 3월 5주차", p.String())

	_, err = WeekPeriod(2025, 2, 5)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = WeekPeriod(2025, 3, 0)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
	_, err = WeekPeriod(2025, 13, 1)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestMonthPeriod(t *testing.T) {
	p, err := MonthPeriod(2024, 2)
	require.NoError(t, err)
	assert.Equal(t, 29, p.Days())
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), p.End)

	p, err = MonthPeriod(2024, 12)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC), p.End)
}

func TestSummaryHelpers(t *testing.T) {
	assert.Equal(t, "S", Grade(15))
	assert.Equal(t, "A", Grade(10))
	assert.Equal(t, "B", Grade(5))
	assert.Equal(t, "C", Grade(4.9))

	assert.Equal(t, Excellent, InsightFor(10))
	assert.Equal(t, Good, InsightFor(5))
	assert.Equal(t, NeedsAttention, InsightFor(0))

	st := NewPriceStats([]int{30000, 10000, 20000, 40000})
	assert.Equal(t, PriceStats{Count: 4, Mean: 25000, Median: 25000, Min: 10000, Max: 40000}, st)
	assert.Equal(t, PriceStats{}, NewPriceStats(nil))

	agg := &Aggregation{Days: make([]DayCount, 15)}
	assert.InDelta(t, 50.0, agg.Coverage(30), 1e-9)
	assert.Zero(t, agg.Coverage(0))
}
