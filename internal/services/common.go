// server/internal/services/common.go
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"time"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/store"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// resource gom các thao tác đọc/xóa giống nhau của mọi service.
type resource[T any] struct {
	name   string // dùng trong message lỗi, vd "Machine"
	repo   store.Repository[T]
	schema query.Schema
	log    *slog.Logger
}

func (r resource[T]) list(ctx context.Context, f query.Filter) ([]T, query.Page, error) {
	q, err := r.schema.Build(f)
	if err != nil {
		return nil, query.Page{}, err
	}
	items, total, err := store.List(ctx, r.repo, q)
	if err != nil {
		return nil, query.Page{}, r.wrap(err, "list")
	}
	return items, query.NewPage(total, q.Page, q.Limit), nil
}

// all loads every document matching f without pagination.
func (r resource[T]) all(ctx context.Context, f query.Filter) ([]T, error) {
	q, err := r.schema.Build(f)
	if err != nil {
		return nil, err
	}
	items, err := r.repo.Find(ctx, q.Unpaged())
	if err != nil {
		return nil, r.wrap(err, "load")
	}
	return items, nil
}

func (r resource[T]) get(ctx context.Context, id string) (*T, error) {
	oid, err := r.parseID(id)
	if err != nil {
		return nil, err
	}
	doc, err := r.repo.FindByID(ctx, oid)
	if err != nil {
		return nil, r.wrap(err, "get")
	}
	return doc, nil
}

func (r resource[T]) delete(ctx context.Context, id string) error {
	oid, err := r.parseID(id)
	if err != nil {
		return err
	}
	if err := r.repo.Delete(ctx, oid); err != nil {
		return r.wrap(err, "delete")
	}
	return nil
}

func (r resource[T]) addToSet(ctx context.Context, id, field string, values ...string) (*T, error) {
	oid, err := r.parseID(id)
	if err != nil {
		return nil, err
	}
	doc, err := r.repo.AddToSet(ctx, oid, field, values...)
	if err != nil {
		return nil, r.wrap(err, "update")
	}
	return doc, nil
}

func (r resource[T]) pull(ctx context.Context, id, field, value string) (*T, error) {
	oid, err := r.parseID(id)
	if err != nil {
		return nil, err
	}
	doc, err := r.repo.Pull(ctx, oid, field, value)
	if err != nil {
		return nil, r.wrap(err, "update")
	}
	return doc, nil
}

// Malformed ids are reported as not found, same as a well-formed id with no document.
func (r resource[T]) parseID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, apperr.NotFound("%s not found", r.name)
	}
	return oid, nil
}

// wrap chuyển lỗi của store sang lỗi có kiểu. Duplicate được xử lý riêng ở từng service
// vì message phụ thuộc vào khóa bị trùng.
func (r resource[T]) wrap(err error, op string) error {
	var typed *apperr.Error
	switch {
	case errors.As(err, &typed):
		return err
	case errors.Is(err, store.ErrNotFound):
		return apperr.NotFound("%s not found", r.name)
	default:
		return apperr.Internal(err, "failed to %s %s", op, strings.ToLower(r.name))
	}
}

// duplicate maps a unique-index violation to msg and anything else through wrap.
func (r resource[T]) duplicate(err error, op, msg string) error {
	if errors.Is(err, store.ErrDuplicate) {
		return apperr.Duplicate(err, "%s", msg)
	}
	return r.wrap(err, op)
}

// merge overlays the top-level keys of a JSON patch on the input form of the current
// document. Absent keys keep their current values; present keys replace them wholesale.
func merge[I any](current I, patch []byte) (I, error) {
	if len(bytes.TrimSpace(patch)) == 0 {
		return current, nil
	}
	var overlay map[string]json.RawMessage
	if err := json.Unmarshal(patch, &overlay); err != nil {
		return current, apperr.Validation("invalid request body: %v", err)
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return current, apperr.Internal(err, "failed to encode current document")
	}
	fields := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &fields); err != nil {
		return current, apperr.Internal(err, "failed to encode current document")
	}
	for k, v := range overlay {
		fields[k] = v
	}
	raw, err = json.Marshal(fields)
	if err != nil {
		return current, apperr.Internal(err, "failed to merge update")
	}

	var out I
	if err := json.Unmarshal(raw, &out); err != nil {
		return current, apperr.Validation("invalid request body: %v", err)
	}
	return out, nil
}

var dateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// parseDate accepts ISO-8601 dates with or without a time part.
func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, apperr.Validation("Invalid date: %s", s)
}

// parseOptionalDate returns nil for an empty string.
func parseOptionalDate(s string) (*time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return nil, nil
	}
	t, err := parseDate(s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// dateOr parses s, falling back to def when s is empty.
func dateOr(s string, def time.Time) (time.Time, error) {
	if strings.TrimSpace(s) == "" {
		return def.UTC(), nil
	}
	return parseDate(s)
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(time.RFC3339Nano)
}

func formatOptionalDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return formatDate(*t)
}

// cleanList trims entries, drops empty ones and removes duplicates keeping first occurrence.
func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, v := range in {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// enum validates v against set, applying def when v is empty.
func enum(field, v, def string, set []string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		v = def
	}
	if v == "" {
		return "", apperr.Validation("%s is required", field)
	}
	if !models.OneOf(v, set) {
		return "", apperr.Validation("invalid %s: %s", field, v)
	}
	return v, nil
}

// optionalEnum allows an empty value.
func optionalEnum(field, v string, set []string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	if !models.OneOf(v, set) {
		return "", apperr.Validation("invalid %s: %s", field, v)
	}
	return v, nil
}

func required(field, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", apperr.Validation("%s is required", field)
	}
	return v, nil
}
