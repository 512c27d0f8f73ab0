package recipe

import (
	"sort"
	"strings"
	"time"
	"unicode"

	"recipe-box/internal/core/account"
)

// 用戶端寫入的日期格式不只一種：表單送出 toLocaleDateString（如 8/31/2026），
// 部分舊資料為 ISO 格式。依序嘗試解析，全部失敗時視為零值排在最後。
var dateLayouts = []string{
	"2006-01-02",
	"1/2/2006",
	"01/02/2006",
	"2006/01/02",
	"2.1.2006",
	time.RFC3339,
}

// ParseDate 解析食譜日期字串，無法解析時回傳零值
func ParseDate(s string) time.Time {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

// SortByName 依名稱排序，回傳新切片不改動輸入
func SortByName(recipes []account.Recipe, desc bool) []account.Recipe {
	out := account.CloneRecipes(recipes)
	sort.SliceStable(out, func(i, j int) bool {
		if desc {
			return out[i].Name > out[j].Name
		}
		return out[i].Name < out[j].Name
	})
	return out
}

// SortByDate 依日期排序（解析後比較，非字典序），回傳新切片不改動輸入
func SortByDate(recipes []account.Recipe, desc bool) []account.Recipe {
	out := account.CloneRecipes(recipes)
	sort.SliceStable(out, func(i, j int) bool {
		ti, tj := ParseDate(out[i].Date), ParseDate(out[j].Date)
		if desc {
			return ti.After(tj)
		}
		return ti.Before(tj)
	})
	return out
}

// NormalizeCategory 類別標籤正規化：轉小寫、去除空白與 &，
// 並去掉尾端的 dessert/desserts 綴詞（去掉後仍需非空）
func NormalizeCategory(s string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(s) {
		if unicode.IsSpace(r) || r == '&' {
			continue
		}
		b.WriteRune(r)
	}
	s = b.String()

	for _, suffix := range []string{"desserts", "dessert"} {
		if trimmed := strings.TrimSuffix(s, suffix); trimmed != "" && trimmed != s {
			return trimmed
		}
	}
	return s
}

// MatchesCategory 判斷食譜類別是否符合勾選的過濾值。
// 兩側各自正規化後，相等或互為子字串即視為符合，
// 因此 "Desserts & Sweets" 能對上勾選值 "dessert"。
func MatchesCategory(recipeType, filter string) bool {
	t := NormalizeCategory(recipeType)
	f := NormalizeCategory(filter)
	if t == "" || f == "" {
		return t == f
	}
	return t == f || strings.Contains(t, f) || strings.Contains(f, t)
}

// FilterByCategories 依勾選的類別過濾，未勾選任何值時回傳全部。
// 回傳新切片，不改動輸入；過濾與排序可以組合（先過濾再排序）。
func FilterByCategories(recipes []account.Recipe, checked []string) []account.Recipe {
	if len(checked) == 0 {
		return account.CloneRecipes(recipes)
	}

	out := make([]account.Recipe, 0, len(recipes))
	for _, r := range recipes {
		for _, c := range checked {
			if MatchesCategory(r.Type, c) {
				out = append(out, r)
				break
			}
		}
	}
	return out
}
