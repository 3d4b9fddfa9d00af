package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/s3"

	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

// fakeAssets fails uploads for the names listed in fail.
type fakeAssets struct {
	mu    sync.Mutex
	fail  map[string]bool
	calls []string
}

func (f *fakeAssets) Upload(_ context.Context, folder, name string, body []byte) (s3.Object, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, name)
	if f.fail[name] {
		return s3.Object{}, errors.New("s3 unavailable")
	}
	return s3.Object{
		Key:         folder + "/" + name,
		URL:         "https://cdn.example.com/" + folder + "/" + name,
		ContentType: "application/pdf",
		Size:        int64(len(body)),
	}, nil
}

func requireKind(t *testing.T, err error, kind apperr.Kind) {
	t.Helper()
	require.Error(t, err)
	require.Equal(t, kind, apperr.KindOf(err), "unexpected error: %v", err)
}
