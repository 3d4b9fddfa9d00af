// server/internal/query/filter.go
package query

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"workforce-ops-api-server/internal/apperr"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
	// MaxPage giữ (page-1)*limit trong int64 với mọi limit hợp lệ.
	MaxPage = 10_000_000

	// All là giá trị client gửi khi không muốn lọc theo trường đó.
	All = "all"
)

// Key names a recognized list filter.
type Key string

const (
	KeyDepartment Key = "department"
	KeyCategory   Key = "category"
	KeyStatus     Key = "status"
	KeyShift      Key = "shift"
	KeyType       Key = "type"
)

// Filter enumerates every filter a list endpoint understands.
type Filter struct {
	Department string
	Category   string
	Status     string
	Shift      string
	Type       string
	Search     string
	Page       int
	Limit      int
}

func (f Filter) value(k Key) string {
	switch k {
	case KeyDepartment:
		return f.Department
	case KeyCategory:
		return f.Category
	case KeyStatus:
		return f.Status
	case KeyShift:
		return f.Shift
	case KeyType:
		return f.Type
	}
	return ""
}

// FromValues parses a query string into a Filter. page and limit fall back to defaults when
// absent and are rejected when malformed or out of range.
func FromValues(v url.Values) (Filter, error) {
	f := Filter{
		Department: strings.TrimSpace(v.Get(string(KeyDepartment))),
		Category:   strings.TrimSpace(v.Get(string(KeyCategory))),
		Status:     strings.TrimSpace(v.Get(string(KeyStatus))),
		Shift:      strings.TrimSpace(v.Get(string(KeyShift))),
		Type:       strings.TrimSpace(v.Get(string(KeyType))),
		Search:     strings.TrimSpace(v.Get("search")),
		Page:       DefaultPage,
		Limit:      DefaultLimit,
	}

	if raw := v.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 || page > MaxPage {
			return f, apperr.Validation("page must be between 1 and %d", MaxPage)
		}
		f.Page = page
	}
	if raw := v.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 || limit > MaxLimit {
			return f, apperr.Validation("limit must be between 1 and %d", MaxLimit)
		}
		f.Limit = limit
	}
	return f, nil
}

// Page is the pagination block of a list response.
type Page struct {
	Total      int64 `json:"total"`
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalPages int   `json:"totalPages"`
}

func NewPage(total int64, page, limit int) Page {
	return Page{Total: total, Page: page, Limit: limit, TotalPages: TotalPages(total, limit)}
}

// TotalPages = ceil(total/limit).
func TotalPages(total int64, limit int) int {
	if limit <= 0 {
		return 0
	}
	return int(math.Ceil(float64(total) / float64(limit)))
}
