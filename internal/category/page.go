package category

import (
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

// ErrNoCategoryData means the page carried no bestCategories payload.
var ErrNoCategoryData = errors.New("no bestCategories data in page")

const bestCategoriesKey = `"bestCategories":`

var flightPush = regexp.MustCompile(`(?s)self\.__next_f\.push\(\[(.*?)\]\)`)

// ExtractBestCategories pulls the raw bestCategories JSON out of the best
// page HTML: from the __NEXT_DATA__ script when present, otherwise from the
// streamed self.__next_f.push chunks.
func ExtractBestCategories(html string) ([]byte, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	if next := doc.Find("script#__NEXT_DATA__").First(); next.Length() > 0 {
		data := next.Text()
		if gjson.Valid(data) {
			if v := gjson.Get(data, "props.pageProps.initialData.bestCategories"); v.Exists() {
				return []byte(v.Raw), nil
			}
		} else {
			log.Warn("⚠️ __NEXT_DATA__ script is not valid JSON")
		}
	}

	var found []byte
	doc.Find("script").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		text := s.Text()
		if !strings.Contains(text, "self.__next_f.push") {
			return true
		}
		for _, m := range flightPush.FindAllStringSubmatch(text, -1) {
			if raw, ok := fromFlightChunk(m[1]); ok {
				found = raw
				return false
			}
		}
		return true
	})
	if found != nil {
		return found, nil
	}

	return nil, ErrNoCategoryData
}

// fromFlightChunk decodes one push([...]) argument list and cuts the
// bestCategories object out of its string payload.
func fromFlightChunk(args string) ([]byte, bool) {
	var items []any
	if err := json.Unmarshal([]byte("["+args+"]"), &items); err != nil {
		return nil, false
	}
	if len(items) < 2 {
		return nil, false
	}
	payload, ok := items[1].(string)
	if !ok || !strings.Contains(payload, "bestCategories") {
		return nil, false
	}

	fragment, ok := cutObject(payload, bestCategoriesKey)
	if !ok {
		return nil, false
	}
	v := gjson.Get("{"+fragment+"}", "bestCategories")
	if !v.Exists() {
		return nil, false
	}
	return []byte(v.Raw), true
}

// cutObject returns text from key through the brace closing the object that
// follows it, skipping braces inside strings.
func cutObject(text, key string) (string, bool) {
	start := strings.Index(text, key)
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		ch := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case ch == '\\':
			escaped = true
		case ch == '"':
			inString = !inString
		case inString:
		case ch == '{':
			depth++
		case ch == '}':
			depth--
			if depth == 0 {
				return text[start : i+1], true
			}
		}
	}
	return "", false
}
