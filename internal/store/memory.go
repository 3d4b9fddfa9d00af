// server/internal/store/memory.go
package store

import (
	"context"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"
	"time"

	"workforce-ops-api-server/internal/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Memory is an in-process Repository used when no MongoDB URI is configured and in tests.
// Documents are deep-copied through bson on every read and write, so callers never share
// slices with the stored copy.
type Memory[T any] struct {
	mu     sync.RWMutex
	docs   []T
	unique []string
}

// NewMemory tạo store trong bộ nhớ; unique là danh sách tên trường (bson) phải duy nhất.
func NewMemory[T any](unique ...string) *Memory[T] {
	return &Memory[T]{unique: unique}
}

func (m *Memory[T]) Insert(_ context.Context, doc *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := time.Now().UTC()
	base := meta(doc)
	if base.ID.IsZero() {
		base.ID = primitive.NewObjectID()
	}
	if base.CreatedAt.IsZero() {
		base.CreatedAt = now
	}
	base.UpdatedAt = now

	if err := m.checkUnique(doc, -1); err != nil {
		return err
	}
	stored, err := clone(doc)
	if err != nil {
		return err
	}
	m.docs = append(m.docs, *stored)
	return nil
}

func (m *Memory[T]) FindByID(_ context.Context, id primitive.ObjectID) (*T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	return clone(&m.docs[i])
}

func (m *Memory[T]) Find(_ context.Context, q query.Query) ([]T, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	matched := make([]*T, 0, len(m.docs))
	for i := range m.docs {
		if matches(&m.docs[i], q) {
			matched = append(matched, &m.docs[i])
		}
	}
	sort.SliceStable(matched, func(a, b int) bool {
		return less(matched[a], matched[b], q.Sort)
	})

	start := len(matched)
	if skip := q.Skip(); skip >= 0 && skip < int64(len(matched)) {
		start = int(skip)
	}
	end := len(matched)
	if q.Limit > 0 && q.Limit < end-start {
		end = start + q.Limit
	}

	out := make([]T, 0, end-start)
	for _, doc := range matched[start:end] {
		c, err := clone(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, nil
}

func (m *Memory[T]) Count(_ context.Context, q query.Query) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var n int64
	for i := range m.docs {
		if matches(&m.docs[i], q) {
			n++
		}
	}
	return n, nil
}

func (m *Memory[T]) Replace(_ context.Context, doc *T) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	base := meta(doc)
	i := m.indexOf(base.ID)
	if i < 0 {
		return ErrNotFound
	}
	if err := m.checkUnique(doc, i); err != nil {
		return err
	}
	base.UpdatedAt = time.Now().UTC()
	stored, err := clone(doc)
	if err != nil {
		return err
	}
	m.docs[i] = *stored
	return nil
}

func (m *Memory[T]) Delete(_ context.Context, id primitive.ObjectID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return ErrNotFound
	}
	m.docs = append(m.docs[:i], m.docs[i+1:]...)
	return nil
}

func (m *Memory[T]) AddToSet(_ context.Context, id primitive.ObjectID, field string, values ...string) (*T, error) {
	return m.mutateSet(id, field, func(current []string) []string {
		for _, v := range values {
			if !containsString(current, v) {
				current = append(current, v)
			}
		}
		return current
	})
}

func (m *Memory[T]) Pull(_ context.Context, id primitive.ObjectID, field, value string) (*T, error) {
	return m.mutateSet(id, field, func(current []string) []string {
		out := current[:0]
		for _, v := range current {
			if v != value {
				out = append(out, v)
			}
		}
		return out
	})
}

func (m *Memory[T]) mutateSet(id primitive.ObjectID, field string, fn func([]string) []string) (*T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	i := m.indexOf(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	fv, ok := lookup(reflect.ValueOf(&m.docs[i]), field)
	if !ok || fv.Type() != reflect.TypeOf([]string(nil)) {
		return nil, fmt.Errorf("field %q is not a string array", field)
	}
	current := append([]string(nil), fv.Interface().([]string)...)
	fv.Set(reflect.ValueOf(fn(current)))
	meta(&m.docs[i]).UpdatedAt = time.Now().UTC()
	return clone(&m.docs[i])
}

func (m *Memory[T]) indexOf(id primitive.ObjectID) int {
	for i := range m.docs {
		if meta(&m.docs[i]).ID == id {
			return i
		}
	}
	return -1
}

// checkUnique mô phỏng unique index của MongoDB. skip là vị trí của chính document đó.
func (m *Memory[T]) checkUnique(doc *T, skip int) error {
	for _, field := range m.unique {
		want, ok := lookup(reflect.ValueOf(doc), field)
		if !ok {
			continue
		}
		for i := range m.docs {
			if i == skip {
				continue
			}
			got, _ := lookup(reflect.ValueOf(&m.docs[i]), field)
			if got.IsValid() && reflect.DeepEqual(got.Interface(), want.Interface()) {
				return fmt.Errorf("%w: %s %v", ErrDuplicate, field, want.Interface())
			}
		}
	}
	return nil
}

func clone[T any](doc *T) (*T, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var out T
	if err := bson.Unmarshal(raw, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func matches(doc any, q query.Query) bool {
	v := reflect.ValueOf(doc)
	for _, c := range q.Equals {
		fv, ok := lookup(v, c.Field)
		if !ok || stringOf(fv) != c.Value {
			return false
		}
	}
	if q.Search == "" {
		return true
	}
	needle := strings.ToLower(q.Search)
	for _, f := range q.SearchFields {
		fv, ok := lookup(v, f)
		if !ok {
			continue
		}
		if fv.Kind() == reflect.Slice {
			for i := 0; i < fv.Len(); i++ {
				if strings.Contains(strings.ToLower(stringOf(fv.Index(i))), needle) {
					return true
				}
			}
			continue
		}
		if strings.Contains(strings.ToLower(stringOf(fv)), needle) {
			return true
		}
	}
	return false
}

func less(a, b any, keys []query.SortKey) bool {
	va, vb := reflect.ValueOf(a), reflect.ValueOf(b)
	for _, k := range keys {
		fa, okA := lookup(va, k.Field)
		fb, okB := lookup(vb, k.Field)
		if !okA || !okB {
			continue
		}
		c := compare(fa, fb)
		if c == 0 {
			continue
		}
		if k.Desc {
			return c > 0
		}
		return c < 0
	}
	return false
}

var timeType = reflect.TypeOf(time.Time{})

func compare(a, b reflect.Value) int {
	if a.Kind() == reflect.Pointer {
		if a.IsNil() || b.IsNil() {
			return boolCmp(!a.IsNil(), !b.IsNil())
		}
		a, b = a.Elem(), b.Elem()
	}
	switch {
	case a.Type() == timeType:
		return a.Interface().(time.Time).Compare(b.Interface().(time.Time))
	case a.Kind() == reflect.String:
		return strings.Compare(a.String(), b.String())
	case a.CanInt():
		return int(sign(float64(a.Int() - b.Int())))
	case a.CanFloat():
		return int(sign(a.Float() - b.Float()))
	}
	return 0
}

func boolCmp(a, b bool) int {
	switch {
	case a == b:
		return 0
	case a:
		return 1
	default:
		return -1
	}
}

func sign(f float64) float64 {
	switch {
	case f > 0:
		return 1
	case f < 0:
		return -1
	}
	return 0
}

// lookup finds a struct field by its bson name, descending into inline-embedded structs.
func lookup(v reflect.Value, name string) (reflect.Value, bool) {
	v = reflect.Indirect(v)
	if v.Kind() != reflect.Struct {
		return reflect.Value{}, false
	}
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		tagName, opts, _ := strings.Cut(sf.Tag.Get("bson"), ",")
		if strings.Contains(opts, "inline") {
			if fv, ok := lookup(v.Field(i), name); ok {
				return fv, true
			}
			continue
		}
		if tagName == name {
			return v.Field(i), true
		}
	}
	return reflect.Value{}, false
}

func stringOf(v reflect.Value) string {
	if v.Kind() == reflect.String {
		return v.String()
	}
	if id, ok := v.Interface().(primitive.ObjectID); ok {
		return id.Hex()
	}
	return fmt.Sprint(v.Interface())
}

func containsString(set []string, v string) bool {
	for _, s := range set {
		if s == v {
			return true
		}
	}
	return false
}
