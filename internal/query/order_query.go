package query

import (
	"net/url"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type OrderQuery struct {
	Status string
	UserID string
	From   *time.Time
	To     *time.Time
	Page   int64
	Limit  int64
}

// ParseOrderQuery lit les filtres de la liste des commandes admin ; les dates sont au format 2006-01-02
func ParseOrderQuery(v url.Values, isStatus func(string) bool) OrderQuery {
	q := OrderQuery{UserID: v.Get("user")}
	if s := v.Get("status"); s != "" && isStatus(s) {
		q.Status = s
	}
	if t, err := time.Parse(time.DateOnly, v.Get("from")); err == nil {
		q.From = &t
	}
	if t, err := time.Parse(time.DateOnly, v.Get("to")); err == nil {
		end := t.Add(24 * time.Hour)
		q.To = &end
	}
	q.Page, q.Limit = parsePaging(v)
	return q
}

func (q OrderQuery) Filter() bson.M {
	filter := bson.M{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	if q.UserID != "" {
		filter["user_id"] = q.UserID
	}
	created := bson.M{}
	if q.From != nil {
		created["$gte"] = *q.From
	}
	if q.To != nil {
		created["$lt"] = *q.To
	}
	if len(created) > 0 {
		filter["created_at"] = created
	}
	return filter
}

func (q OrderQuery) FindOptions() *options.FindOptions {
	return options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip((q.Page - 1) * q.Limit).
		SetLimit(q.Limit)
}
