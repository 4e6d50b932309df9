package app

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"hotelbook/internal/domain"
)

/********** feed alias registry (single source of truth) **********/

var feedAliases = map[string][]string{
	"id":          {"id", "product_id", "productId"},
	"title":       {"title", "name", "product_title"},
	"price":       {"price", "amount", "price.value"},
	"image":       {"image", "image_url", "imageUrl", "thumbnail"},
	"description": {"description", "summary", "body"},
}

// dealCities is the rotation assigned to feed items in order; the feed has
// no geography of its own.
var dealCities = []string{
	"Cape Town", "Johannesburg", "Durban", "Pretoria", "Port Elizabeth", "Bloemfontein",
}

// usdToZAR is the fixed conversion the deals surface applies to feed prices.
var usdToZAR = decimal.NewFromInt(15)

/********** tiny helpers **********/

// lookupAny: safe nested lookup with dot paths on maps.
func lookupAny(m map[string]any, path string) any {
	cur := any(m)
	for _, part := range strings.Split(path, ".") {
		obj, ok := cur.(map[string]any)
		if !ok {
			return nil
		}
		v, ok := obj[part]
		if !ok {
			return nil
		}
		cur = v
	}
	return cur
}

// lookupStr returns string at path or "".
func lookupStr(m map[string]any, path string) string {
	if v := lookupAny(m, path); v != nil {
		if s, ok := v.(string); ok {
			return s
		}
	}
	return ""
}

// firstAliasStr: first non-empty string for a named alias set.
func firstAliasStr(m map[string]any, key string) string {
	for _, p := range feedAliases[key] {
		if s := lookupStr(m, p); s != "" {
			return s
		}
	}
	return ""
}

// firstAliasNum: number from the alias paths (float64/int/string forms).
func firstAliasNum(m map[string]any, key string) (float64, bool) {
	for _, p := range feedAliases[key] {
		switch v := lookupAny(m, p).(type) {
		case float64:
			return v, true
		case int:
			return float64(v), true
		case string:
			s := strings.TrimSpace(strings.ReplaceAll(v, ",", "."))
			if s == "" {
				continue
			}
			if f, err := strconv.ParseFloat(s, 64); err == nil {
				return f, true
			}
		}
	}
	return 0, false
}

func truncateTitle(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max] + "..."
}

/********** feed item -> hotel record **********/

// mapFeedItem reshapes one raw feed item into a hotel record. Items missing
// an id, title, or price are unusable and dropped; the caller substitutes
// the fallback set when nothing survives.
func mapFeedItem(m map[string]any, position int) (domain.Hotel, bool) {
	idNum, idOK := firstAliasNum(m, "id")
	id := firstAliasStr(m, "id")
	if id == "" && idOK {
		id = strconv.FormatInt(int64(idNum), 10)
	}
	title := firstAliasStr(m, "title")
	price, priceOK := firstAliasNum(m, "price")
	if id == "" || title == "" || !priceOK {
		return domain.Hotel{}, false
	}

	// feed prices arrive in USD; the surface shows ZAR, rounded to rand
	zar := decimal.NewFromFloat(price).Mul(usdToZAR).Round(0)

	// rating is derived from the item id so responses stay stable; the
	// surface advertises 4.0-5.0 like the original recommendations did
	rating := 4.0
	if idOK {
		rating += float64(int64(idNum)%11) / 10
	}

	return domain.Hotel{
		ID:          id,
		Name:        truncateTitle(title, 30),
		Location:    dealCities[position%len(dealCities)],
		Price:       zar,
		Rating:      rating,
		Description: firstAliasStr(m, "description"),
		Image:       firstAliasStr(m, "image"),
		Category:    "Recommended",
	}, true
}

func mapFeedHotels(items []map[string]any) []domain.Hotel {
	out := make([]domain.Hotel, 0, len(items))
	for i, m := range items {
		if h, ok := mapFeedItem(m, i); ok {
			out = append(out, h)
		}
	}
	return out
}
