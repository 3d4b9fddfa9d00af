// server/internal/services/upload.go
package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"workforce-ops-api-server/internal/metrics"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/s3"
)

const (
	FolderBriefings = "briefings"
	FolderTrainings = "trainings"
)

// ErrAssetStoreDisabled is returned by DisabledAssets for every upload.
var ErrAssetStoreDisabled = errors.New("asset store is not configured")

// AssetStore is the external object store attachments are pushed to.
type AssetStore interface {
	Upload(ctx context.Context, folder, name string, body []byte) (s3.Object, error)
}

// DisabledAssets được dùng khi chưa cấu hình S3: mọi upload đều thất bại và bị bỏ qua.
type DisabledAssets struct{}

func (DisabledAssets) Upload(context.Context, string, string, []byte) (s3.Object, error) {
	return s3.Object{}, ErrAssetStoreDisabled
}

// File is one uploaded multipart part, already read into memory.
type File struct {
	Name     string
	MIMEType string
	Data     []byte
}

// FormatSize renders a byte count as megabytes with one decimal, e.g. "2.4 MB".
func FormatSize(n int64) string {
	return fmt.Sprintf("%.1f MB", float64(n)/(1024*1024))
}

// AttachmentTypeOf maps a MIME type to the coarse attachment category.
func AttachmentTypeOf(mime string) models.AttachmentType {
	switch {
	case strings.HasPrefix(mime, "image/"):
		return models.AttachmentImage
	case strings.HasPrefix(mime, "video/"):
		return models.AttachmentVideo
	default:
		return models.AttachmentDocument
	}
}

type uploader struct {
	assets AssetStore
	log    *slog.Logger
	now    func() time.Time
}

// attach uploads files one at a time. Empty files are ignored; a failed upload is logged and
// skipped so the remaining files and the record itself still go through.
func (u uploader) attach(ctx context.Context, folder string, files []File) []models.Attachment {
	out := make([]models.Attachment, 0, len(files))
	for _, f := range files {
		if len(f.Data) == 0 {
			continue
		}
		obj, err := u.assets.Upload(ctx, folder, f.Name, f.Data)
		if err != nil {
			metrics.AttachmentUploads.WithLabelValues(folder, "failed").Inc()
			u.log.Error("attachment upload failed, skipping", "folder", folder, "file", f.Name, "error", err)
			continue
		}
		metrics.AttachmentUploads.WithLabelValues(folder, "success").Inc()

		mime := f.MIMEType
		if mime == "" || mime == "application/octet-stream" {
			mime = obj.ContentType
		}
		out = append(out, models.Attachment{
			Name:       f.Name,
			Type:       AttachmentTypeOf(mime),
			URL:        obj.URL,
			Size:       FormatSize(obj.Size),
			UploadedAt: u.now().UTC(),
		})
	}
	return out
}
