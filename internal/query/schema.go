// server/internal/query/schema.go
package query

import (
	"math"
	"regexp"

	"workforce-ops-api-server/internal/apperr"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Field describes where a filter key lands in the document and which values it accepts.
// An empty Allowed list accepts any value.
type Field struct {
	Name    string
	Allowed []string
}

type SortKey struct {
	Field string
	Desc  bool
}

// Schema is the per-resource listing configuration.
type Schema struct {
	Fields       map[Key]Field
	SearchFields []string
	Sort         []SortKey
}

// DefaultSort: mới nhất trước.
var DefaultSort = []SortKey{{Field: "date", Desc: true}, {Field: "createdAt", Desc: true}}

type Condition struct {
	Field string
	Value string
}

// Query is a validated, store-independent list request.
type Query struct {
	Equals       []Condition
	Search       string
	SearchFields []string
	Sort         []SortKey
	Page         int
	Limit        int // 0 = không giới hạn
}

var filterKeys = []Key{KeyDepartment, KeyCategory, KeyStatus, KeyShift, KeyType}

// Build validates f against the schema and returns the query it describes.
func (s Schema) Build(f Filter) (Query, error) {
	q := Query{
		SearchFields: s.SearchFields,
		Sort:         s.Sort,
		Page:         f.Page,
		Limit:        f.Limit,
	}
	if q.Page < 1 {
		q.Page = DefaultPage
	}

	for _, key := range filterKeys {
		v := f.value(key)
		if v == "" || v == All {
			continue
		}
		field, ok := s.Fields[key]
		if !ok {
			return Query{}, apperr.Validation("filter %q is not supported for this resource", key)
		}
		if len(field.Allowed) > 0 && !contains(field.Allowed, v) {
			return Query{}, apperr.Validation("invalid %s: %s", key, v)
		}
		q.Equals = append(q.Equals, Condition{Field: field.Name, Value: v})
	}

	if f.Search != "" && len(s.SearchFields) > 0 {
		q.Search = f.Search
	}
	return q, nil
}

// Unpaged bỏ phân trang, dùng cho export và thống kê.
func (q Query) Unpaged() Query {
	q.Page, q.Limit = 1, 0
	return q
}

// Skip = (page-1)*limit, bão hòa ở MaxInt64 thay vì tràn số.
func (q Query) Skip() int64 {
	if q.Limit <= 0 || q.Page < 1 {
		return 0
	}
	pages, limit := int64(q.Page-1), int64(q.Limit)
	if pages > math.MaxInt64/limit {
		return math.MaxInt64
	}
	return pages * limit
}

// BSON renders the filter document for MongoDB.
func (q Query) BSON() bson.M {
	filter := bson.M{}
	for _, c := range q.Equals {
		filter[c.Field] = c.Value
	}
	if q.Search != "" {
		pattern := regexp.QuoteMeta(q.Search)
		or := make(bson.A, 0, len(q.SearchFields))
		for _, f := range q.SearchFields {
			or = append(or, bson.M{f: bson.M{"$regex": pattern, "$options": "i"}})
		}
		filter["$or"] = or
	}
	return filter
}

func (q Query) FindOptions() *options.FindOptions {
	opts := options.Find()
	if len(q.Sort) > 0 {
		sort := bson.D{}
		for _, k := range q.Sort {
			dir := 1
			if k.Desc {
				dir = -1
			}
			sort = append(sort, bson.E{Key: k.Field, Value: dir})
		}
		opts.SetSort(sort)
	}
	if q.Limit > 0 {
		opts.SetSkip(q.Skip()).SetLimit(int64(q.Limit))
	}
	return opts
}

func contains(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
