package client

import (
	"github.com/tidwall/gjson"

	"wconcept/bestcrawl/internal/jsonscan"
)

var (
	hasNextKeys    = []string{"hasNext", "hasNextPage", "hasMore", "next"}
	totalPageKeys  = []string{"totalPages", "lastPage", "pages"}
	totalCountKeys = []string{"totalCount", "totalElements", "count"}
)

// InferHasNext decides whether another page follows. Every object in the
// body is visited depth first in document order and the first one carrying
// a signal decides: an explicit boolean flag, then a total page count, then
// a total item count. Without any signal a full page means more may follow.
func InferHasNext(body []byte, pageNo, pageSize, lastCount int) bool {
	if gjson.ValidBytes(body) {
		var next, found bool
		jsonscan.Objects(gjson.ParseBytes(body), func(obj gjson.Result) bool {
			next, found = objectContinuation(obj, pageNo, pageSize)
			return !found
		})
		if found {
			return next
		}
	}
	return lastCount >= pageSize
}

func objectContinuation(obj gjson.Result, pageNo, pageSize int) (bool, bool) {
	for _, key := range hasNextKeys {
		v := jsonscan.Field(obj, key)
		if v.Type == gjson.True || v.Type == gjson.False {
			return v.Bool(), true
		}
	}

	if total, ok := jsonscan.Integer(jsonscan.FirstTruthy(obj, totalPageKeys...)); ok && total > 0 {
		return int64(pageNo) < total, true
	}

	if total, ok := jsonscan.Integer(jsonscan.FirstTruthy(obj, totalCountKeys...)); ok && total >= 0 {
		return int64(pageNo)*int64(pageSize) < total, true
	}

	return false, false
}
