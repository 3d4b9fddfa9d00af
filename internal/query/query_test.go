package query

import (
	"math"
	"net/url"
	"testing"

	"workforce-ops-api-server/internal/apperr"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

var briefingSchema = Schema{
	Fields: map[Key]Field{
		KeyDepartment: {Name: "department"},
		KeyShift:      {Name: "shift", Allowed: []string{"morning", "evening", "night"}},
	},
	SearchFields: []string{"conductedBy", "site"},
	Sort:         DefaultSort,
}

func TestFromValuesDefaults(t *testing.T) {
	f, err := FromValues(url.Values{})
	require.NoError(t, err)
	assert.Equal(t, DefaultPage, f.Page)
	assert.Equal(t, DefaultLimit, f.Limit)
}

func TestFromValuesRejectsBadPagination(t *testing.T) {
	for _, v := range []url.Values{
		{"page": {"0"}},
		{"page": {"abc"}},
		{"page": {"9223372036854775807"}, "limit": {"10"}},
		{"page": {"10000001"}},
		{"limit": {"0"}},
		{"limit": {"101"}},
	} {
		_, err := FromValues(v)
		assert.Equal(t, apperr.KindValidation, apperr.KindOf(err), v.Encode())
	}
}

func TestSkipSaturatesInsteadOfOverflowing(t *testing.T) {
	assert.Equal(t, int64(20), Query{Page: 3, Limit: 10}.Skip())
	assert.Equal(t, int64((MaxPage-1)*MaxLimit), Query{Page: MaxPage, Limit: MaxLimit}.Skip())
	assert.Equal(t, int64(math.MaxInt64), Query{Page: math.MaxInt, Limit: 10}.Skip())
}

func TestBuildSkipsAllAndEmpty(t *testing.T) {
	q, err := briefingSchema.Build(Filter{Department: "all", Shift: "", Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Empty(t, q.Equals)
	assert.Equal(t, bson.M{}, q.BSON())
}

func TestBuildEqualityAndSearch(t *testing.T) {
	q, err := briefingSchema.Build(Filter{Department: "kitchen", Shift: "night", Search: "a.b", Page: 3, Limit: 20})
	require.NoError(t, err)

	filter := q.BSON()
	assert.Equal(t, "kitchen", filter["department"])
	assert.Equal(t, "night", filter["shift"])
	assert.Equal(t, bson.A{
		bson.M{"conductedBy": bson.M{"$regex": `a\.b`, "$options": "i"}},
		bson.M{"site": bson.M{"$regex": `a\.b`, "$options": "i"}},
	}, filter["$or"])
	assert.Equal(t, int64(40), q.Skip())

	opts := q.FindOptions()
	require.NotNil(t, opts.Limit)
	assert.Equal(t, int64(20), *opts.Limit)
	assert.Equal(t, bson.D{{Key: "date", Value: -1}, {Key: "createdAt", Value: -1}}, opts.Sort)
}

func TestBuildRejectsOutOfSetValue(t *testing.T) {
	_, err := briefingSchema.Build(Filter{Shift: "afternoon", Page: 1, Limit: 10})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestBuildRejectsUnknownKey(t *testing.T) {
	_, err := briefingSchema.Build(Filter{Status: "pending", Page: 1, Limit: 10})
	assert.Equal(t, apperr.KindValidation, apperr.KindOf(err))
}

func TestUnpagedHasNoLimit(t *testing.T) {
	q, err := briefingSchema.Build(Filter{Page: 4, Limit: 10})
	require.NoError(t, err)
	opts := q.Unpaged().FindOptions()
	assert.Nil(t, opts.Limit)
	assert.Nil(t, opts.Skip)
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 10, 0},
		{1, 10, 1},
		{10, 10, 1},
		{11, 10, 2},
		{95, 20, 5},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, TotalPages(c.total, c.limit))
	}
	p := NewPage(21, 2, 10)
	assert.Equal(t, 3, p.TotalPages)
}
