package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInferHasNext(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		page      int
		size      int
		lastCount int
		want      bool
	}{
		{"explicit false beats full page", `{"hasNextPage":false}`, 1, 10, 10, false},
		{"explicit true beats short page", `{"data":{"hasMore":true}}`, 1, 10, 3, true},
		{"non-bool flag ignored", `{"next":"/page/2"}`, 1, 10, 3, false},
		{"total pages remaining", `{"totalPages":3}`, 2, 10, 10, true},
		{"total pages reached", `{"lastPage":2}`, 2, 10, 10, false},
		{"zero total pages falls through to count", `{"totalPages":0,"totalCount":25}`, 2, 10, 10, true},
		{"total count reached", `{"totalElements":20}`, 2, 10, 10, false},
		{"zero count means done", `{"count":0}`, 1, 10, 10, false},
		{"fractional total ignored", `{"totalPages":2.5}`, 1, 10, 4, false},
		{"first object with a signal wins", `{"meta":{"totalPages":1},"data":{"hasNext":true}}`, 1, 10, 10, false},
		{"outer object before nested", `{"totalCount":100,"data":{"hasNext":false}}`, 1, 10, 10, true},
		{"signal inside array", `{"pages":[{"x":1},{"hasNext":false}]}`, 1, 10, 10, false},
		{"no signal full page", `{"data":{"content":[]}}`, 1, 10, 10, true},
		{"no signal short page", `{"data":{"content":[]}}`, 1, 10, 9, false},
		{"invalid body falls back", `<html>`, 1, 10, 10, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, InferHasNext([]byte(tt.body), tt.page, tt.size, tt.lastCount))
		})
	}
}

func TestExtractProducts(t *testing.T) {
	tests := []struct {
		name  string
		body  string
		names []string
	}{
		{"products key", `{"result":{"products":[{"productName":"a"},{"productName":"b"}]}}`, []string{"a", "b"}},
		{"key order beats document order", `{"items":[{"name":"i"}],"productList":[{"name":"pl"}]}`, []string{"pl"}},
		{"skips empty and scalar lists", `{"products":[],"list":["x"],"bestProducts":[{"goodsName":"g"}]}`, []string{"g"}},
		{"data.content", `{"data":{"content":[{"productName":"c"}]}}`, []string{"c"}},
		{"product shaped list under data", `{"data":[{"brandName":"HACIE","title":"t"}]}`, []string{"t"}},
		{"root list", `[{"name":"r"}]`, []string{"r"}},
		{"shape mismatch", `{"data":[{"foo":1}]}`, nil},
		{"nothing", `{"ok":true}`, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			products, err := ExtractProducts([]byte(tt.body))
			require.NoError(t, err)

			var names []string
			for _, p := range products {
				names = append(names, p.Name())
			}
			assert.Equal(t, tt.names, names)
		})
	}
}

func TestExtractProducts_InvalidJSON(t *testing.T) {
	_, err := ExtractProducts([]byte("not json"))
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestExtractProducts_NumbersDecodeAsFloat(t *testing.T) {
	products, err := ExtractProducts([]byte(`{"products":[{"productName":"a","salePrice":12900,"itemCd":301234567}]}`))
	require.NoError(t, err)
	require.Len(t, products, 1)

	price, ok := products[0].Price()
	require.True(t, ok)
	assert.Equal(t, 12900, price)
	assert.Equal(t, "301234567", products[0].ID())
}
