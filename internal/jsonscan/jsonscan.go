// Package jsonscan walks loosely shaped JSON documents.
package jsonscan

import (
	"strings"

	"github.com/tidwall/gjson"
)

// FindKey collects every value stored under key, depth first in document order.
func FindKey(r gjson.Result, key string) []gjson.Result {
	var out []gjson.Result
	switch {
	case r.IsObject():
		r.ForEach(func(k, v gjson.Result) bool {
			if k.String() == key {
				out = append(out, v)
			}
			out = append(out, FindKey(v, key)...)
			return true
		})
	case r.IsArray():
		r.ForEach(func(_, v gjson.Result) bool {
			out = append(out, FindKey(v, key)...)
			return true
		})
	}
	return out
}

// Objects visits r and every nested object in pre-order until fn returns false.
func Objects(r gjson.Result, fn func(obj gjson.Result) bool) bool {
	switch {
	case r.IsObject():
		if !fn(r) {
			return false
		}
		cont := true
		r.ForEach(func(_, v gjson.Result) bool {
			cont = Objects(v, fn)
			return cont
		})
		return cont
	case r.IsArray():
		cont := true
		r.ForEach(func(_, v gjson.Result) bool {
			cont = Objects(v, fn)
			return cont
		})
		return cont
	}
	return true
}

// Field returns obj[key] without interpreting path syntax in key.
func Field(obj gjson.Result, key string) gjson.Result {
	return obj.Get(gjson.Escape(key))
}

// FirstTruthy returns the first value under keys that is not zero, empty,
// false or null, or the value under the last key when none is.
func FirstTruthy(obj gjson.Result, keys ...string) gjson.Result {
	var v gjson.Result
	for _, key := range keys {
		v = Field(obj, key)
		if Truthy(v) {
			return v
		}
	}
	return v
}

// FirstString is FirstTruthy rendered as a string, "" when nothing is truthy.
func FirstString(obj gjson.Result, keys ...string) string {
	v := FirstTruthy(obj, keys...)
	if !Truthy(v) {
		return ""
	}
	return strings.TrimSpace(v.String())
}

// Truthy mirrors the usual notion of an empty value.
func Truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.True:
		return true
	case gjson.Number:
		return v.Float() != 0
	case gjson.String:
		return v.Str != ""
	case gjson.JSON:
		if v.IsArray() {
			return len(v.Array()) > 0
		}
		return len(v.Map()) > 0
	}
	return false
}

// Integer accepts whole JSON numbers written without a fraction or exponent.
func Integer(v gjson.Result) (int64, bool) {
	if v.Type != gjson.Number || strings.ContainsAny(v.Raw, ".eE") {
		return 0, false
	}
	return v.Int(), true
}

// IsNull reports a missing key or an explicit null.
func IsNull(v gjson.Result) bool {
	return !v.Exists() || v.Type == gjson.Null
}

// IsObjectList reports a non-empty array whose first element is an object.
func IsObjectList(r gjson.Result) bool {
	if !r.IsArray() {
		return false
	}
	items := r.Array()
	return len(items) > 0 && items[0].IsObject()
}
