package render

import (
	"encoding/csv"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"wconcept/bestcrawl/internal/domain"
	"wconcept/bestcrawl/internal/report"
	"wconcept/bestcrawl/internal/snapshot"
)

const root = "/data/output"

func fixedNow() time.Time {
	return time.Date(2025, 3, 31, 9, 0, 0, 0, time.UTC)
}

func newRenderer(linkBase string) *Renderer {
	return New(Options{
		Title:       "HACIE",
		Source:      "W컨셉 베스트 페이지",
		OutputRoot:  root,
		LinkBaseURL: linkBase,
		Location:    time.UTC,
		Now:         fixedNow,
	})
}

func snap(d int, rows ...domain.Row) *snapshot.File {
	day := time.Date(2025, 3, d, 0, 0, 0, 0, time.UTC)
	path := filepath.Join(snapshot.DayDir(root, day), snapshot.FileName(snapshot.DefaultPrefix, day.Add(9*time.Hour)))
	for i := range rows {
		rows[i].Day = day
		rows[i].SourceFile = path
	}
	return &snapshot.File{Path: path, Day: day, Rows: rows, LineCount: len(rows) + 1}
}

func item(rank int, name, brand string, price int) domain.Row {
	return domain.Row{
		Brand:      brand,
		Depth1Name: "의류",
		Depth2Name: "하의",
		Rank:       rank,
		Name:       name,
		Price:      price,
		HasPrice:   price > 0,
		URL:        "https://www.wconcept.co.kr/Product/" + strings.ToLower(name),
	}
}

func aggregate(t *testing.T, files ...*snapshot.File) *report.Aggregation {
	t.Helper()
	agg, err := report.NewAggregator([]string{"HACIE", "하시에"}).Aggregate(files)
	require.NoError(t, err)
	return agg
}

func TestDaily_ListsOnlyAllowedBrand(t *testing.T) {
	agg := aggregate(t, snap(3,
		item(1, "Alpha", "HACIE", 59000),
		item(2, "Bravo", "Other", 10000),
	))

	doc := newRenderer("").Daily(agg)

	assert.Contains(t, doc.Markdown, "**발견된 HACIE 상품:** 1개")
	assert.Contains(t, doc.Markdown, "[Alpha](https://www.wconcept.co.kr/Product/alpha)")
	assert.Contains(t, doc.Markdown, "₩59,000")
	assert.NotContains(t, doc.Markdown, "Bravo")
	assert.Contains(t, doc.Markdown, "| 1 |")
	assert.Contains(t, doc.Markdown, "- 총 데이터 행 수: 3 줄")
	assert.Contains(t, doc.Markdown, "`wconcept_best_20250303_090000.csv`")
	assert.Empty(t, doc.CSV)
}

func TestDaily_NoMatches(t *testing.T) {
	agg := aggregate(t, snap(3, item(1, "Bravo", "Other", 0)))

	doc := newRenderer("").Daily(agg)
	assert.Contains(t, doc.Markdown, "**HACIE 상품이 발견되지 않았습니다.**")
	assert.NotContains(t, doc.Markdown, "<details>")
}

func TestDaily_TruncatesNames(t *testing.T) {
	long := strings.Repeat("가", 70)
	r := item(1, long, "HACIE", 0)
	r.URL = ""
	agg := aggregate(t, snap(3, r))

	doc := newRenderer("").Daily(agg)
	assert.Contains(t, doc.Markdown, strings.Repeat("가", 50)+"...")
	assert.Contains(t, doc.Markdown, strings.Repeat("가", 60)+"...")
	assert.NotContains(t, doc.Markdown, strings.Repeat("가", 61))
}

func TestWeekly(t *testing.T) {
	agg := aggregate(t,
		snap(3, item(5, "Alpha", "HACIE", 59000), item(7, "Charlie", "HACIE", 0)),
		snap(4, item(3, "Alpha", "HACIE", 49000)),
	)
	p, err := report.WeekPeriod(2025, 3, 1)
	require.NoError(t, err)

	doc, err := newRenderer("https://example.com/blob/master/output").Weekly(agg, p)
	require.NoError(t, err)

	md := doc.Markdown
	assert.Contains(t, md, "# 📊 HACIE 브랜드 주간 통계 리포트")
	assert.Contains(t, md, "2025년 03월 01일 ~ 2025년 03월 07일 (2025년 3월 1주차)")
	assert.Contains(t, md, "- **총 발견 상품:** 3개")
	assert.Contains(t, md, "- **고유 상품:** 2개")
	assert.Contains(t, md, "- **일평균 상품 수:** 1.5개")
	assert.Contains(t, md, "03월 03일")
	assert.Contains(t, md, "의류 > 하의")
	assert.Contains(t, md, "[03/04](https://example.com/blob/master/output/2025/03/04/wconcept_best_20250304_090000.csv)")
	assert.Contains(t, md, "⚠️ **개선 필요**")
	assert.Contains(t, md, "🎯 **주력 카테고리**: 의류 > 하의 (3회 진입)")
	assert.Contains(t, md, "*생성 일시: 2025-03-31 09:00:00 UTC*")

	records, err := csv.NewReader(strings.NewReader(doc.CSV)).ReadAll()
	require.NoError(t, err)
	want := [][]string{
		WeeklyCSVHeader,
		{"일별통계", "2025-03-03", "2", "", "", "", ""},
		{"일별통계", "2025-03-04", "1", "", "", "", ""},
		{"카테고리통계", "", "3", "의류 > 하의", "5.0", "3", ""},
		{"TOP1", "2025-03-04", "", "하의", "4.0", "3", "Alpha"},
		{"TOP2", "2025-03-03", "", "하의", "7.0", "7", "Charlie"},
	}
	if diff := cmp.Diff(want, records); diff != "" {
		t.Errorf("weekly csv mismatch (-want +got):\n%s", diff)
	}
}

func TestMonthly(t *testing.T) {
	a := item(2, "Alpha", "HACIE", 30000)
	a.Discount = "0.25"
	b := item(9, "Bravo", "하시에", 10000)

	agg := aggregate(t,
		snap(1, a, b),
		snap(9, item(4, "Alpha", "HACIE", 30000)),
	)
	p, err := report.MonthPeriod(2025, 3)
	require.NoError(t, err)

	doc, err := newRenderer("").Monthly(agg, p)
	require.NoError(t, err)

	md := doc.Markdown
	assert.Contains(t, md, "**분석 기간:** 2025년 3월 (2025-03-01 ~ 2025-03-31)")
	assert.Contains(t, md, "- **월 평균 순위:** 5.0위")
	assert.Contains(t, md, "1주차")
	assert.Contains(t, md, "📉")
	assert.Contains(t, md, "- **월간 평가:** C등급")
	assert.Contains(t, md, "- **분석 일수:** 2일 (6% 커버리지)")
	assert.Contains(t, md, "- **평균 가격:** ₩23,333")
	assert.Contains(t, md, "- **가격 범위:** ₩10,000 ~ ₩30,000")
	assert.Contains(t, md, "| 2025/03/09 | wconcept_best_20250309_090000.csv |")

	// Alpha was last seen on day 9 without a discount column.
	assert.NotContains(t, md, "25%")

	records, err := csv.NewReader(strings.NewReader(doc.CSV)).ReadAll()
	require.NoError(t, err)
	assert.Equal(t, MonthlyCSVHeader, records[0])
	assert.Equal(t, []string{"1주차", "1주차", "2", "2.0", "", "", "", ""}, records[1])
	assert.Equal(t, []string{"2주차", "2주차", "1", "1.0", "", "", "", ""}, records[2])
	assert.Equal(t, []string{"카테고리통계", "", "3", "", "의류 > 하의", "5.0", "23,333", ""}, records[3])
	assert.Equal(t, []string{"TOP1", "", "", "", "의류 > 하의", "2", "30000", "Alpha"}, records[4])
}

func TestMonthly_DiscountColumn(t *testing.T) {
	a := item(2, "Alpha", "HACIE", 30000)
	a.Discount = "33.0"
	agg := aggregate(t, snap(1, a))
	p, err := report.MonthPeriod(2025, 3)
	require.NoError(t, err)

	doc, err := newRenderer("").Monthly(agg, p)
	require.NoError(t, err)
	assert.Contains(t, doc.Markdown, "| 33% |")
}

func TestNames(t *testing.T) {
	w, err := report.WeekPeriod(2025, 3, 2)
	require.NoError(t, err)
	m, err := report.MonthPeriod(2025, 11)
	require.NoError(t, err)

	assert.Equal(t, "2025년_03월_2주차_통계", BaseName(w))
	assert.Equal(t, "2025년_11월_월간통계", BaseName(m))
	assert.Equal(t, filepath.Join("out", "2025", "11"), Dir("out", m))
}

func TestHelpers(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 3))
	assert.Equal(t, "ab...", truncate("abc", 2))
	assert.Equal(t, "[x](http://a)", productLink("x", "http://a", 10))
	assert.Equal(t, "x", productLink("x", "/Product/1", 10))
	assert.Equal(t, "-", orDash(" "))

	r := newRenderer("https://example.com/out/")
	assert.Equal(t, "[a.csv](https://example.com/out/2025/03/01/a.csv)", r.fileRef(filepath.Join(root, "2025", "03", "01", "a.csv"), false))
	assert.Equal(t, "`a.csv`", newRenderer("").fileRef("/x/a.csv", true))
	assert.Equal(t, "₩1,234,567", r.won(1234567))
}
