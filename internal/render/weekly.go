package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wconcept/bestcrawl/internal/report"
)

const (
	weeklyTopN        = 10
	weeklyCategoriesN = 10
)

// WeeklyCSVHeader is the column set of the weekly export.
var WeeklyCSVHeader = []string{"유형", "날짜", "상품수", "카테고리", "평균순위", "최고순위", "상품명"}

func weeklyInsight(title string, avgPerDay float64) string {
	switch report.InsightFor(avgPerDay) {
	case report.Excellent:
		return fmt.Sprintf("- ✅ **우수한 성과**: 일평균 10개 이상의 %s 상품이 베스트 순위에 진입했습니다.\n", title)
	case report.Good:
		return "- ✔️ **양호한 성과**: 일평균 5개 이상의 상품이 베스트 진입을 유지하고 있습니다.\n"
	default:
		return "- ⚠️ **개선 필요**: 베스트 진입 상품 수가 감소했습니다. 마케팅 강화가 필요합니다.\n"
	}
}

func (r *Renderer) Weekly(agg *report.Aggregation, p report.Period) (*Document, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# 📊 %s 브랜드 주간 통계 리포트\n\n", r.opts.Title)
	fmt.Fprintf(&b, "**기간:** %s ~ %s (%s)\n\n",
		p.Start.Format("2006년 01월 02일"), p.End.Format("2006년 01월 02일"), p)

	b.WriteString("## 📈 주간 요약\n\n")
	fmt.Fprintf(&b, "- **총 발견 상품:** %d개\n", agg.TotalRows())
	fmt.Fprintf(&b, "- **고유 상품:** %d개\n", len(agg.Products))
	fmt.Fprintf(&b, "- **분석 일수:** %d일\n", agg.TotalDays())
	fmt.Fprintf(&b, "- **일평균 상품 수:** %.1f개\n\n", agg.AveragePerDay())

	b.WriteString("## 📅 일별 통계\n\n")
	days := newTable(table.Row{"날짜", "발견 상품 수"}, text.AlignLeft, text.AlignRight)
	for _, d := range agg.Days {
		days.AppendRow(table.Row{d.Day.Format("01월 02일"), fmt.Sprintf("%d개", d.Count)})
	}
	writeTable(&b, days)

	b.WriteString("\n## 🏆 카테고리별 통계\n\n")
	cats := newTable(table.Row{"카테고리", "발견 횟수", "평균 순위", "최고 순위"},
		text.AlignLeft, text.AlignRight, text.AlignRight, text.AlignRight)
	for _, c := range agg.TopCategories(weeklyCategoriesN) {
		cats.AppendRow(table.Row{
			c.Name,
			fmt.Sprintf("%d회", c.Count),
			fmt.Sprintf("%.1f위", c.MeanRank()),
			fmt.Sprintf("%d위", c.BestRank()),
		})
	}
	writeTable(&b, cats)

	b.WriteString("\n## 🌟 주간 베스트 TOP 10\n\n")
	top := newTable(table.Row{"순위", "상품명", "카테고리", "최고 순위", "달성일", "가격"},
		text.AlignCenter, text.AlignLeft, text.AlignLeft, text.AlignRight, text.AlignCenter, text.AlignRight)
	for i, pe := range agg.TopProducts(weeklyTopN) {
		top.AppendRow(table.Row{
			i + 1,
			productLink(orDash(pe.Name), pe.URL, topListNameLimit),
			orDash(pe.Depth2Name),
			fmt.Sprintf("%d위", pe.BestRank),
			r.dayRef(pe),
			r.price(pe.Price, pe.HasPrice),
		})
	}
	writeTable(&b, top)

	b.WriteString("\n## 💡 주간 인사이트\n\n### 성과 분석\n")
	b.WriteString(weeklyInsight(r.opts.Title, agg.AveragePerDay()))
	if len(agg.Categories) > 0 {
		lead := agg.Categories[0]
		fmt.Fprintf(&b, "- 🎯 **주력 카테고리**: %s (%d회 진입)\n", lead.Name, lead.Count)
	}
	b.WriteString("\n### 추천 액션\n")
	b.WriteString("- 주간 베스트 상품 SNS 공유\n")
	b.WriteString("- 성과 좋은 카테고리 집중 마케팅\n")
	b.WriteString("- 저조한 카테고리 프로모션 검토\n")

	b.WriteString("\n---\n\n## 📎 참고 데이터 파일\n\n")
	writeTable(&b, r.fileTable(agg, "02일"))

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "*생성 일시: %s*  \n", r.now())
	fmt.Fprintf(&b, "*데이터 출처: %s*\n", r.opts.Source)

	csvText, err := renderCSV(WeeklyCSVHeader, weeklyRows(agg))
	if err != nil {
		return nil, err
	}
	return &Document{Markdown: b.String(), CSV: csvText}, nil
}

func weeklyRows(agg *report.Aggregation) [][]string {
	var rows [][]string
	for _, d := range agg.Days {
		rows = append(rows, []string{"일별통계", d.Day.Format("2006-01-02"), strconv.Itoa(d.Count), "", "", "", ""})
	}
	for _, c := range agg.Categories {
		rows = append(rows, []string{
			"카테고리통계", "", strconv.Itoa(c.Count), c.Name,
			fmt.Sprintf("%.1f", c.MeanRank()), strconv.Itoa(c.BestRank()), "",
		})
	}
	for i, pe := range agg.TopProducts(weeklyTopN) {
		rows = append(rows, []string{
			fmt.Sprintf("TOP%d", i+1), pe.BestRankDate.Format("2006-01-02"), "", pe.Depth2Name,
			fmt.Sprintf("%.1f", pe.MeanRank()), strconv.Itoa(pe.BestRank), pe.Name,
		})
	}
	return rows
}

// dayRef links the date a product reached its best rank to that day's snapshot.
func (r *Renderer) dayRef(pe *report.ProductEntry) string {
	if pe.BestRankDate.IsZero() {
		return "-"
	}
	label := pe.BestRankDate.Format("01/02")
	if u := r.fileURL(pe.BestSource); u != "" {
		return fmt.Sprintf("[%s](%s)", label, u)
	}
	return label
}

func (r *Renderer) fileTable(agg *report.Aggregation, dayLayout string) table.Writer {
	t := newTable(table.Row{"날짜", "파일명"}, text.AlignLeft, text.AlignLeft)
	for _, d := range agg.Days {
		t.AppendRow(table.Row{d.Day.Format(dayLayout), r.fileRef(d.File, false)})
	}
	return t
}
