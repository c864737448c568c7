package client

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"wconcept/bestcrawl/internal/domain"
	"wconcept/bestcrawl/internal/jsonscan"
)

// ErrInvalidBody is returned when the product API answers with non-JSON.
var ErrInvalidBody = errors.New("response body is not valid JSON")

var productListKeys = []string{"products", "productList", "list", "items", "bestProducts"}

// ExtractProducts finds the product list in an API response. It tries the
// usual list keys anywhere in the document, then data.content, then any
// list of product-shaped objects under data, result or the root.
func ExtractProducts(body []byte) ([]domain.Product, error) {
	if !gjson.ValidBytes(body) {
		return nil, ErrInvalidBody
	}
	root := gjson.ParseBytes(body)

	for _, key := range productListKeys {
		for _, v := range jsonscan.FindKey(root, key) {
			if jsonscan.IsObjectList(v) {
				return toProducts(v)
			}
		}
	}

	if content := root.Get("data.content"); jsonscan.IsObjectList(content) {
		return toProducts(content)
	}

	candidates := append(jsonscan.FindKey(root, "data"), jsonscan.FindKey(root, "result")...)
	candidates = append(candidates, root)
	for _, v := range candidates {
		if jsonscan.IsObjectList(v) && hasProductShape(v.Array()[0]) {
			return toProducts(v)
		}
	}
	return []domain.Product{}, nil
}

func hasProductShape(r gjson.Result) bool {
	found := false
	r.ForEach(func(k, _ gjson.Result) bool {
		switch strings.ToLower(k.String()) {
		case "productname", "name", "brandname":
			found = true
			return false
		}
		return true
	})
	return found
}

func toProducts(list gjson.Result) ([]domain.Product, error) {
	items := list.Array()
	out := make([]domain.Product, 0, len(items))
	for i, item := range items {
		m, ok := item.Value().(map[string]any)
		if !ok {
			return nil, fmt.Errorf("product %d is not an object", i)
		}
		out = append(out, domain.Product(m))
	}
	return out, nil
}
