package render

import (
	"fmt"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"wconcept/bestcrawl/internal/domain"
	"wconcept/bestcrawl/internal/report"
)

const dailyTopN = 10

// Daily renders the summary of a single snapshot. Rows are listed in snapshot
// order. Daily reports carry no CSV export.
func (r *Renderer) Daily(agg *report.Aggregation) *Document {
	var path string
	lines := 0
	if len(agg.Files) > 0 {
		path = agg.Files[0].Path
		lines = agg.Files[0].LineCount
	}
	fileText := r.fileRef(path, true)
	now := r.now()
	count := agg.TotalRows()

	var b strings.Builder
	b.WriteString("# 📊 일일 요약\n\n")
	fmt.Fprintf(&b, "**분석 시각:** %s  \n", now)
	fmt.Fprintf(&b, "**데이터 파일:** %s  \n", fileText)
	fmt.Fprintf(&b, "**발견된 %s 상품:** %d개\n\n", r.opts.Title, count)
	b.WriteString("---\n\n## 📋 상위 10개 상품\n\n")

	if count > 0 {
		top := agg.Rows
		if len(top) > dailyTopN {
			top = top[:dailyTopN]
		}
		writeTable(&b, r.dailyTable(top, dailyTopNameLimit))

		fmt.Fprintf(&b, "\n---\n\n## 📦 전체 %s 상품 목록\n\n", r.opts.Title)
		b.WriteString("<details>\n")
		fmt.Fprintf(&b, "<summary>펼쳐서 보기 (전체 %d개)</summary>\n\n", count)
		writeTable(&b, r.dailyTable(agg.Rows, dailyFullNameLimit))
		b.WriteString("\n</details>\n")
	} else {
		fmt.Fprintf(&b, "**%s 상품이 발견되지 않았습니다.**\n", r.opts.Title)
	}

	b.WriteString("\n---\n\n**📈 분석 정보**\n")
	fmt.Fprintf(&b, "- 총 데이터 행 수: %d 줄\n", lines)
	fmt.Fprintf(&b, "- CSV 파일: %s\n", fileText)
	fmt.Fprintf(&b, "- 생성 시각: %s\n", now)
	if agg.Skipped > 0 {
		fmt.Fprintf(&b, "- 건너뛴 행: %d 줄\n", agg.Skipped)
	}

	return &Document{Markdown: b.String()}
}

func (r *Renderer) dailyTable(rows []domain.Row, nameLimit int) table.Writer {
	t := newTable(table.Row{"순위", "카테고리", "상품명", "가격"},
		text.AlignCenter, text.AlignLeft, text.AlignLeft, text.AlignRight)
	for _, row := range rows {
		t.AppendRow(table.Row{
			row.Rank,
			orDash(row.Depth2Name),
			productLink(orDash(row.Name), row.URL, nameLimit),
			r.price(row.Price, row.HasPrice),
		})
	}
	return t
}
