// server/internal/s3/uploader.go
package s3

import (
	"bytes"
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"workforce-ops-api-server/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// Object mô tả một file đã upload thành công.
type Object struct {
	Key         string
	URL         string
	ContentType string
	Size        int64
}

type Uploader struct {
	Client           *s3.Client
	Bucket           string
	Region           string
	CloudFrontDomain string
	Endpoint         string
}

func NewUploader(ctx context.Context, cfg config.S3Config) (*Uploader, error) {
	sdkConfig, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion(cfg.Region),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(cfg.AccessKeyID, cfg.SecretAccessKey, "")),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	// Endpoint dùng cho MinIO hoặc S3 giả lập khi chạy local.
	s3Client := s3.NewFromConfig(sdkConfig, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	return &Uploader{
		Client:           s3Client,
		Bucket:           cfg.Bucket,
		Region:           cfg.Region,
		CloudFrontDomain: cfg.CloudFrontDomain,
		Endpoint:         strings.TrimRight(cfg.Endpoint, "/"),
	}, nil
}

// Upload pushes body under <folder>/<uuid>-<name>. The content type is sniffed from the bytes,
// not trusted from the client.
func (u *Uploader) Upload(ctx context.Context, folder, name string, body []byte) (Object, error) {
	key := ObjectKey(folder, name)
	contentType := mimetype.Detect(body).String()

	_, err := u.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(u.Bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(body),
		ContentType:   aws.String(contentType),
		ContentLength: aws.Int64(int64(len(body))),
	})
	if err != nil {
		return Object{}, fmt.Errorf("failed to upload file to S3: %w", err)
	}

	return Object{
		Key:         key,
		URL:         u.URLFor(key),
		ContentType: contentType,
		Size:        int64(len(body)),
	}, nil
}

// URLFor builds the public URL of key: CloudFront when configured, then a custom endpoint,
// then the regional S3 host.
func (u *Uploader) URLFor(key string) string {
	if u.CloudFrontDomain != "" {
		return fmt.Sprintf("https://%s/%s", u.CloudFrontDomain, key)
	}
	if u.Endpoint != "" {
		return fmt.Sprintf("%s/%s/%s", u.Endpoint, u.Bucket, key)
	}
	return fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", u.Bucket, u.Region, key)
}

// ObjectKey tạo key duy nhất, giữ lại tên file gốc (đã làm sạch).
func ObjectKey(folder, name string) string {
	return fmt.Sprintf("%s/%s-%s", folder, uuid.NewString(), cleanName(name))
}

func cleanName(name string) string {
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.', r == '-', r == '_':
			return r
		default:
			return '_'
		}
	}, name)
	if name == "" || name == "." || name == "_" {
		return "file"
	}
	return name
}
