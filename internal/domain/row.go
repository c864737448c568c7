package domain

import "time"

// Row is one line of a CSV snapshot.
type Row struct {
	Date       string
	Time       string
	Brand      string
	Depth1Name string
	Depth2Name string
	Rank       int
	Name       string
	Price      int
	HasPrice   bool
	URL        string

	// Not written to snapshots; filled on read when extra columns exist.
	ID       string
	Discount string

	// Set when a row is read back for reporting.
	Day        time.Time
	SourceFile string
}

// ProductKey identifies the same product across snapshots: URL, else ID, else name.
func (r Row) ProductKey() string {
	for _, k := range []string{r.URL, r.ID, r.Name} {
		if k != "" {
			return k
		}
	}
	return ""
}

// Category is the display string of the row's category pair.
func (r Row) Category() string {
	return CategoryDisplay(r.Depth1Name, r.Depth2Name)
}

// NewRow converts a filtered product into a snapshot row.
func NewRow(p Product, cat CategoryPair, at time.Time) Row {
	rank, _ := p.Rank()
	price, hasPrice := p.Price()
	return Row{
		Date:       at.Format("2006-01-02"),
		Time:       at.Format("15:04"),
		Brand:      p.Brand(),
		Depth1Name: cat.Depth1Label(),
		Depth2Name: cat.Depth2Label(),
		Rank:       rank,
		Name:       p.Name(),
		Price:      price,
		HasPrice:   hasPrice,
		URL:        p.URL(),
		ID:         p.ID(),
	}
}
