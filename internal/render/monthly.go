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
	monthlyTopN        = 20
	monthlyCategoriesN = 15
	strongCategoriesN  = 3
)

// MonthlyCSVHeader is the column set of the monthly export.
var MonthlyCSVHeader = []string{"유형", "기간", "상품수", "일평균", "카테고리", "평균순위", "평균가격", "상품명"}

func gradeComment(grade, title string) string {
	switch grade {
	case "S":
		return fmt.Sprintf("탁월한 성과! %s 브랜드가 베스트 페이지에서 강력한 존재감을 보였습니다.", title)
	case "A":
		return "우수한 성과! 안정적으로 베스트 순위를 유지하고 있습니다."
	case "B":
		return "양호한 성과! 일부 카테고리에서 개선의 여지가 있습니다."
	default:
		return "개선 필요! 마케팅 전략 재검토가 필요합니다."
	}
}

func (r *Renderer) Monthly(agg *report.Aggregation, p report.Period) (*Document, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "# 📊 %s 브랜드 월간 통계 리포트\n\n", r.opts.Title)
	fmt.Fprintf(&b, "**분석 기간:** %s (%s ~ %s)\n\n", p, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))

	b.WriteString("## 📈 월간 요약\n\n")
	fmt.Fprintf(&b, "- **총 발견 상품:** %d개\n", agg.TotalRows())
	fmt.Fprintf(&b, "- **고유 상품:** %d개\n", len(agg.Products))
	fmt.Fprintf(&b, "- **분석 일수:** %d일\n", agg.TotalDays())
	fmt.Fprintf(&b, "- **일평균 상품 수:** %.1f개\n", agg.AveragePerDay())
	if agg.TotalRows() > 0 {
		fmt.Fprintf(&b, "- **월 평균 순위:** %.1f위\n", agg.MeanRank())
	}

	b.WriteString("\n## 📅 주별 추이\n\n")
	weeks := newTable(table.Row{"주차", "발견 상품 수", "일평균", "추이"},
		text.AlignCenter, text.AlignRight, text.AlignRight, text.AlignCenter)
	for _, w := range agg.Weeks {
		weeks.AppendRow(table.Row{
			fmt.Sprintf("%d주차", w.Week),
			fmt.Sprintf("%d개", w.Products),
			fmt.Sprintf("%.1f개", w.DailyAverage),
			w.Trend.Symbol(),
		})
	}
	writeTable(&b, weeks)

	b.WriteString("\n## 🏆 카테고리별 월간 통계\n\n")
	cats := newTable(table.Row{"순위", "카테고리", "진입 횟수", "평균 순위", "평균 가격"},
		text.AlignCenter, text.AlignLeft, text.AlignRight, text.AlignRight, text.AlignRight)
	for i, c := range agg.TopCategories(monthlyCategoriesN) {
		cats.AppendRow(table.Row{
			i + 1,
			c.Name,
			fmt.Sprintf("%d회", c.Count),
			fmt.Sprintf("%.1f위", c.MeanRank()),
			r.price(int(c.MeanPrice()), len(c.Prices) > 0),
		})
	}
	writeTable(&b, cats)

	b.WriteString("\n## 🌟 월간 베스트 TOP 20\n\n")
	top := newTable(table.Row{"순위", "상품명", "카테고리", "가격", "할인율", "최고 순위"},
		text.AlignCenter, text.AlignLeft, text.AlignLeft, text.AlignRight, text.AlignRight, text.AlignRight)
	for i, pe := range agg.TopProducts(monthlyTopN) {
		top.AppendRow(table.Row{
			i + 1,
			productLink(orDash(pe.Name), pe.URL, topListNameLimit),
			truncate(pe.Category(), categoryLimit),
			r.price(pe.Price, pe.HasPrice),
			pe.DiscountLabel(),
			fmt.Sprintf("%d위 (%s)", pe.BestRank, r.dayRef(pe)),
		})
	}
	writeTable(&b, top)

	grade := report.Grade(agg.AveragePerDay())
	b.WriteString("\n## 💡 월간 인사이트\n\n### 📊 전체 성과 분석\n\n")
	fmt.Fprintf(&b, "- **월간 평가:** %s등급\n", grade)
	fmt.Fprintf(&b, "- **종합 의견:** %s\n", gradeComment(grade, r.opts.Title))
	fmt.Fprintf(&b, "- **분석 일수:** %d일 (%.0f%% 커버리지)\n", agg.TotalDays(), agg.Coverage(p.Days()))

	b.WriteString("\n### 🎯 카테고리 분석\n")
	if len(agg.Categories) > 0 {
		b.WriteString("\n**강점 카테고리:**\n")
		for _, c := range agg.TopCategories(strongCategoriesN) {
			fmt.Fprintf(&b, "- **%s**: %d회 진입, 평균 %.1f위\n", c.Name, c.Count, c.MeanRank())
		}
	}

	b.WriteString("\n### 💰 가격대 분석\n")
	if ps := agg.Prices(); ps.Count > 0 {
		fmt.Fprintf(&b, "\n- **평균 가격:** %s\n", r.won(int(ps.Mean)))
		fmt.Fprintf(&b, "- **중간 가격:** %s\n", r.won(int(ps.Median)))
		fmt.Fprintf(&b, "- **가격 범위:** %s ~ %s\n", r.won(ps.Min), r.won(ps.Max))
	} else {
		b.WriteString("\n- 가격 정보가 없습니다.\n")
	}

	b.WriteString("\n### 📌 다음 달 액션 플랜\n\n")
	b.WriteString("**지속 강화**\n- 성과 좋은 카테고리 재고 확보\n- 베스트 상품 프로모션 강화\n- 고객 리뷰 수집 및 활용\n\n")
	b.WriteString("**개선 필요**\n- 저조한 카테고리 신상품 기획\n- 가격 정책 재검토\n- 계절별 마케팅 전략 수립\n")

	b.WriteString("\n---\n\n## 📎 참고 데이터 파일\n\n")
	writeTable(&b, r.fileTable(agg, "2006/01/02"))

	b.WriteString("\n---\n\n")
	fmt.Fprintf(&b, "*생성 일시: %s*  \n", r.now())
	fmt.Fprintf(&b, "*데이터 출처: %s (%d일간 데이터)*\n", r.opts.Source, agg.TotalDays())

	csvText, err := renderCSV(MonthlyCSVHeader, r.monthlyRows(agg))
	if err != nil {
		return nil, err
	}
	return &Document{Markdown: b.String(), CSV: csvText}, nil
}

func (r *Renderer) monthlyRows(agg *report.Aggregation) [][]string {
	var rows [][]string
	for _, w := range agg.Weeks {
		label := fmt.Sprintf("%d주차", w.Week)
		rows = append(rows, []string{label, label, strconv.Itoa(w.Products), fmt.Sprintf("%.1f", w.DailyAverage), "", "", "", ""})
	}
	for _, c := range agg.TopCategories(monthlyCategoriesN) {
		rows = append(rows, []string{
			"카테고리통계", "", strconv.Itoa(c.Count), "", c.Name,
			fmt.Sprintf("%.1f", c.MeanRank()), r.printer.Sprintf("%d", int(c.MeanPrice())), "",
		})
	}
	for i, pe := range agg.TopProducts(monthlyTopN) {
		price := ""
		if pe.HasPrice {
			price = strconv.Itoa(pe.Price)
		}
		rows = append(rows, []string{
			fmt.Sprintf("TOP%d", i+1), "", "", "", pe.Category(),
			strconv.Itoa(pe.BestRank), price, pe.Name,
		})
	}
	return rows
}
