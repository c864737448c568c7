package domain

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// OriginalRankKey holds the 1-based position in the unfiltered listing.
const OriginalRankKey = "_original_rank"

// ProductURLFormat builds a product page URL from an ID.
const ProductURLFormat = "https://www.wconcept.co.kr/Product/%s"

// Synonym keys per logical field, most specific first.
var (
	NameKeys     = []string{"productName", "name", "goodsName", "itemName", "title"}
	BrandKeys    = []string{"brandName", "brandNameKr", "brandNameEn", "brand", "brand_name"}
	PriceKeys    = []string{"salePrice", "finalPrice", "price", "discountPrice", "sale_price", "customerPrice"}
	IDKeys       = []string{"productId", "itemCd", "productNo", "goodsNo", "itemNo", "id"}
	URLKeys      = []string{"productUrl", "linkUrl", "url", "landingUrl"}
	DiscountKeys = []string{"discountRate", "saleRate", "dcRate", "discount"}
	RankKeys     = []string{"rank", "ranking", "bestOrder", "exposeOrder", "order"}
)

// Product is one raw record of the product API. Field names vary between
// API versions so values are read through the accessors below.
type Product map[string]any

// Lookup returns the first present non-empty value among keys, as a string.
func (p Product) Lookup(keys ...string) string {
	for _, k := range keys {
		v, ok := p[k]
		if !ok {
			continue
		}
		if s := stringify(v); s != "" {
			return s
		}
	}
	return ""
}

func (p Product) Name() string  { return p.Lookup(NameKeys...) }
func (p Product) Brand() string { return p.Lookup(BrandKeys...) }
func (p Product) ID() string    { return p.Lookup(IDKeys...) }

// URL returns the product URL, building one from the ID when absent.
func (p Product) URL() string {
	if u := p.Lookup(URLKeys...); u != "" {
		return u
	}
	if id := p.ID(); id != "" {
		return fmt.Sprintf(ProductURLFormat, id)
	}
	return ""
}

// DiscountRate returns the raw discount value, unnormalized.
func (p Product) DiscountRate() string { return p.Lookup(DiscountKeys...) }

// Price returns the first parseable price.
func (p Product) Price() (int, bool) {
	for _, k := range PriceKeys {
		v, ok := p[k]
		if !ok {
			continue
		}
		if n, ok := ParsePrice(stringify(v)); ok {
			return n, true
		}
	}
	return 0, false
}

// OriginalRank returns the stamped pre-filter position.
func (p Product) OriginalRank() (int, bool) {
	return p.intValue(OriginalRankKey)
}

// Rank prefers a rank the API reports and falls back to the stamped position.
func (p Product) Rank() (int, bool) {
	for _, k := range RankKeys {
		if n, ok := p.intValue(k); ok && n > 0 {
			return n, true
		}
	}
	return p.OriginalRank()
}

func (p Product) intValue(key string) (int, bool) {
	v, ok := p[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	case string:
		i, err := strconv.Atoi(strings.TrimSpace(n))
		return i, err == nil
	}
	return 0, false
}

// ParsePrice parses "12,900", "12900.0" or "₩12,900" into whole units.
func ParsePrice(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "₩")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return int(f), true
}

func stringify(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(x)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case json.Number:
		return x.String()
	case bool:
		return ""
	case map[string]any, []any:
		return ""
	}
	return strings.TrimSpace(fmt.Sprint(v))
}
