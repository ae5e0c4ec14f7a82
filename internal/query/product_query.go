package query

import (
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	DefaultLimit = 12
	MaxLimit     = 100
	MaxPage      = 10000
)

// ProductQuery représente les filtres du catalogue lus dans l'URL
type ProductQuery struct {
	Search     string
	Categories []string
	Brands     []string
	Colors     []string
	Sizes      []string
	MinPrice   *float64
	MaxPrice   *float64
	InStock    bool
	Featured   bool
	OnSale     bool
	MinRating  float64
	Sort       string
	Page       int64
	Limit      int64
}

var productSorts = map[string]bson.D{
	"newest":     {{Key: "created_at", Value: -1}},
	"oldest":     {{Key: "created_at", Value: 1}},
	"price_asc":  {{Key: "final_price", Value: 1}},
	"price_desc": {{Key: "final_price", Value: -1}},
	"rating":     {{Key: "rating", Value: -1}, {Key: "num_reviews", Value: -1}},
	"name":       {{Key: "name", Value: 1}},
}

// ParseProductQuery lit les paramètres ; les valeurs invalides sont ignorées
func ParseProductQuery(v url.Values) ProductQuery {
	q := ProductQuery{
		Search:     strings.TrimSpace(first(v, "q", "search")),
		Categories: splitList(v.Get("category")),
		Brands:     splitList(v.Get("brand")),
		Colors:     splitList(v.Get("color")),
		Sizes:      splitList(v.Get("size")),
		InStock:    parseBool(v.Get("in_stock")),
		Featured:   parseBool(v.Get("featured")),
		OnSale:     parseBool(v.Get("discount")),
		Sort:       v.Get("sort"),
	}

	if r := v.Get("price"); r != "" {
		if lo, hi, ok := strings.Cut(r, "-"); ok {
			q.MinPrice = parseFloat(lo)
			q.MaxPrice = parseFloat(hi)
		}
	}
	if p := parseFloat(v.Get("min_price")); p != nil {
		q.MinPrice = p
	}
	if p := parseFloat(v.Get("max_price")); p != nil {
		q.MaxPrice = p
	}
	if r := parseFloat(v.Get("rating")); r != nil && *r > 0 {
		q.MinRating = *r
	}
	if _, ok := productSorts[q.Sort]; !ok {
		q.Sort = "newest"
	}

	q.Page, q.Limit = parsePaging(v)
	return q
}

// HasFilters indique un filtre autre que la recherche texte
func (q ProductQuery) HasFilters() bool {
	return len(q.Categories) > 0 || len(q.Brands) > 0 || len(q.Colors) > 0 || len(q.Sizes) > 0 ||
		q.MinPrice != nil || q.MaxPrice != nil || q.InStock || q.Featured || q.OnSale || q.MinRating > 0
}

// Filter construit le filtre MongoDB
func (q ProductQuery) Filter() bson.M {
	filter := bson.M{}

	if q.Search != "" {
		pattern := primitiveRegex(q.Search)
		filter["$or"] = bson.A{
			bson.M{"name": pattern},
			bson.M{"description": pattern},
			bson.M{"brand": pattern},
		}
	}
	if in := matchList(q.Categories); in != nil {
		filter["category"] = in
	}
	if in := matchList(q.Brands); in != nil {
		filter["brand"] = in
	}
	if len(q.Colors) > 0 {
		filter["colors"] = bson.M{"$in": q.Colors}
	}
	if len(q.Sizes) > 0 {
		filter["sizes"] = bson.M{"$in": q.Sizes}
	}

	price := bson.M{}
	if q.MinPrice != nil {
		price["$gte"] = *q.MinPrice
	}
	if q.MaxPrice != nil {
		price["$lte"] = *q.MaxPrice
	}
	if len(price) > 0 {
		filter["final_price"] = price
	}

	if q.InStock {
		filter["stock"] = bson.M{"$gt": 0}
	}
	if q.Featured {
		filter["is_featured"] = true
	}
	if q.OnSale {
		filter["discount"] = bson.M{"$gt": 0}
	}
	if q.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": q.MinRating}
	}
	return filter
}

func (q ProductQuery) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(productSorts[q.Sort]).
		SetSkip((q.Page - 1) * q.Limit).
		SetLimit(q.Limit)
}

// matchList : une valeur → égalité, plusieurs → $in
func matchList(values []string) interface{} {
	switch len(values) {
	case 0:
		return nil
	case 1:
		return values[0]
	}
	return bson.M{"$in": values}
}

func primitiveRegex(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(s), "$options": "i"}
}

func first(v url.Values, keys ...string) string {
	for _, k := range keys {
		if s := v.Get(k); s != "" {
			return s
		}
	}
	return ""
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseBool(s string) bool {
	b, _ := strconv.ParseBool(s)
	return b
}

func parseFloat(s string) *float64 {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || f < 0 {
		return nil
	}
	return &f
}

func parsePaging(v url.Values) (page, limit int64) {
	page, _ = strconv.ParseInt(v.Get("page"), 10, 64)
	if page < 1 {
		page = 1
	}
	if page > MaxPage {
		page = MaxPage
	}
	limit, err := strconv.ParseInt(v.Get("limit"), 10, 64)
	if err != nil || limit < 1 {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}
	return page, limit
}

// Pages retourne le nombre de pages pour total éléments
func Pages(total, limit int64) int64 {
	if limit <= 0 || total <= 0 {
		return 0
	}
	return (total + limit - 1) / limit
}
