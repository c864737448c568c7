package category

import (
	"github.com/tidwall/gjson"

	"wconcept/bestcrawl/internal/domain"
	"wconcept/bestcrawl/internal/jsonscan"
)

// Key synonyms seen across page versions.
var (
	depth1CodeKeys = []string{"depth1Code", "depth1Cd", "d1Code", "code"}
	depth1NameKeys = []string{"depth1Name", "d1Name", "name"}
	depth2CodeKeys = []string{"depth2Code", "depth2Cd", "d2Code"}
	depth2NameKeys = []string{"depth2Name", "d2Name", "name"}

	menuGroupKeys    = []string{"depth1Categories", "menuList", "menus"}
	menuChildrenKeys = []string{"depth2Categories", "subCategories", "subMenus", "children"}
	menuChildCode    = append(append([]string{}, depth2CodeKeys...), "code")
)

// Resolve flattens a category tree into unique (depth1, depth2) pairs.
//
// The primary shape is category1DepthList with per-group
// category2DepthList children; a null child list on the ALL group yields the
// catch-all pair. When that shape is absent the nested-menu shape is tried,
// then a brute-force scan under bestCategories or categories.
func Resolve(snapshot []byte) []domain.CategoryPair {
	if !gjson.ValidBytes(snapshot) {
		return nil
	}
	root := gjson.ParseBytes(snapshot)

	pairs := fromDepthLists(root)
	if len(pairs) == 0 {
		pairs = fromMenus(root)
	}
	if len(pairs) == 0 {
		pairs = bruteForce(root)
	}
	return domain.DedupeCategories(pairs)
}

func fromDepthLists(root gjson.Result) []domain.CategoryPair {
	var pairs []domain.CategoryPair
	for _, list := range jsonscan.FindKey(root, "category1DepthList") {
		if !list.IsArray() {
			continue
		}
		for _, group := range list.Array() {
			if !group.IsObject() {
				continue
			}
			d1Code := jsonscan.FirstString(group, "depth1Code")
			d1Name := jsonscan.FirstString(group, "depth1Name")

			children := jsonscan.Field(group, "category2DepthList")
			switch {
			case children.IsArray():
				for _, child := range children.Array() {
					pairs = append(pairs, domain.CategoryPair{
						Depth1Code: d1Code,
						Depth1Name: d1Name,
						Depth2Code: jsonscan.FirstString(child, "depth2Code"),
						Depth2Name: jsonscan.FirstString(child, "depth2Name"),
					})
				}
			case jsonscan.IsNull(children) && d1Code == domain.AllCode:
				pairs = append(pairs, domain.AllCategory())
			}
		}
	}
	return pairs
}

func fromMenus(root gjson.Result) []domain.CategoryPair {
	var pairs []domain.CategoryPair
	for _, key := range menuGroupKeys {
		for _, list := range jsonscan.FindKey(root, key) {
			for _, group := range list.Array() {
				if !group.IsObject() {
					continue
				}
				d1Code := jsonscan.FirstString(group, depth1CodeKeys...)
				d1Name := jsonscan.FirstString(group, depth1NameKeys...)
				if d1Code == "" {
					continue
				}
				for _, ck := range menuChildrenKeys {
					for _, child := range jsonscan.Field(group, ck).Array() {
						if !child.IsObject() {
							continue
						}
						pairs = append(pairs, domain.CategoryPair{
							Depth1Code: d1Code,
							Depth1Name: d1Name,
							Depth2Code: jsonscan.FirstString(child, menuChildCode...),
							Depth2Name: jsonscan.FirstString(child, depth2NameKeys...),
						})
					}
				}
			}
		}
		if len(pairs) > 0 {
			break
		}
	}
	return pairs
}

func bruteForce(root gjson.Result) []domain.CategoryPair {
	candidates := jsonscan.FindKey(root, "bestCategories")
	if len(candidates) == 0 {
		candidates = jsonscan.FindKey(root, "categories")
	}

	var pairs []domain.CategoryPair
	for _, arr := range candidates {
		if !arr.IsArray() {
			continue
		}
		for _, group := range arr.Array() {
			if !group.IsObject() {
				continue
			}
			d1Code := jsonscan.FirstString(group, depth1CodeKeys...)
			d1Name := jsonscan.FirstString(group, depth1NameKeys...)
			if d1Code == "" {
				jsonscan.Objects(group, func(obj gjson.Result) bool {
					code := jsonscan.FirstString(obj, depth1CodeKeys[:3]...)
					if code == "" {
						return true
					}
					d1Code = code
					if name := jsonscan.FirstString(obj, depth1NameKeys...); name != "" {
						d1Name = name
					}
					return false
				})
			}
			if d1Code == "" {
				continue
			}

			jsonscan.Objects(group, func(obj gjson.Result) bool {
				d2Code := jsonscan.FirstString(obj, depth2CodeKeys...)
				if d2Code != "" {
					pairs = append(pairs, domain.CategoryPair{
						Depth1Code: d1Code,
						Depth1Name: d1Name,
						Depth2Code: d2Code,
						Depth2Name: jsonscan.FirstString(obj, depth2NameKeys...),
					})
				}
				return true
			})
		}
	}
	return pairs
}

// Product fields that reveal a category.
var (
	productDepth1Code = []string{"depth1Code", "d1Code", "categoryDepth1Code"}
	productDepth2Code = []string{"depth2Code", "d2Code", "categoryDepth2Code"}
	productDepth1Name = []string{"depth1Name", "d1Name", "categoryDepth1Name"}
	productDepth2Name = []string{"depth2Name", "d2Name", "categoryDepth2Name"}
)

// FromProducts infers pairs from the category fields of listed products.
func FromProducts(products []domain.Product) []domain.CategoryPair {
	var pairs []domain.CategoryPair
	for _, p := range products {
		pairs = append(pairs, domain.CategoryPair{
			Depth1Code: p.Lookup(productDepth1Code...),
			Depth1Name: p.Lookup(productDepth1Name...),
			Depth2Code: p.Lookup(productDepth2Code...),
			Depth2Name: p.Lookup(productDepth2Name...),
		})
	}
	return domain.DedupeCategories(pairs)
}
