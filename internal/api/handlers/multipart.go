// server/internal/api/handlers/multipart.go
package handlers

import (
	"encoding/json"
	"io"
	"mime"
	"path/filepath"
	"strings"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/services"

	"github.com/gin-gonic/gin"
)

const (
	formDataField        = "data"
	formAttachmentsField = "attachments"
)

// allowedUploads: extension -> MIME types chấp nhận cho extension đó.
var allowedUploads = map[string][]string{
	".jpg":  {"image/jpeg"},
	".jpeg": {"image/jpeg"},
	".png":  {"image/png"},
	".gif":  {"image/gif"},
	".webp": {"image/webp"},
	".pdf":  {"application/pdf"},
	".doc":  {"application/msword"},
	".docx": {"application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	".xls":  {"application/vnd.ms-excel"},
	".xlsx": {"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"},
	".ppt":  {"application/vnd.ms-powerpoint"},
	".pptx": {"application/vnd.openxmlformats-officedocument.presentationml.presentation"},
	".txt":  {"text/plain"},
	".csv":  {"text/csv", "text/plain"},
	".mp4":  {"video/mp4"},
	".mov":  {"video/quicktime"},
	".avi":  {"video/x-msvideo", "video/avi"},
	".webm": {"video/webm", "audio/webm"},
	".mp3":  {"audio/mpeg", "audio/mp3"},
	".wav":  {"audio/wav", "audio/x-wav", "audio/wave"},
	".m4a":  {"audio/mp4", "audio/x-m4a"},
}

// Uploads carries the upload limits into the handlers that accept attachments.
type Uploads struct {
	MaxFileSize int64
}

// checkFile validates the declared MIME type and the extension against the allow-list.
func checkFile(name, declared string) error {
	ext := strings.ToLower(filepath.Ext(name))
	types, ok := allowedUploads[ext]
	if !ok {
		return apperr.Validation("File type not allowed: %s", name)
	}
	mt, _, err := mime.ParseMediaType(declared)
	if err != nil {
		return apperr.Validation("File type not allowed: %s", name)
	}
	for _, t := range types {
		if t == mt {
			return nil
		}
	}
	return apperr.Validation("File type not allowed: %s (%s)", name, mt)
}

// readPayload decodes either a multipart form (JSON in the data field plus attachments) or a
// plain JSON body. into must be a pointer; raw receives the undecoded JSON for updates.
func (u Uploads) readPayload(c *gin.Context, into any) (raw []byte, files []services.File, err error) {
	if !strings.HasPrefix(c.ContentType(), "multipart/form-data") {
		raw, err = c.GetRawData()
		if err != nil {
			return nil, nil, apperr.Validation("failed to read request body")
		}
		if into != nil && len(raw) > 0 {
			if err := json.Unmarshal(raw, into); err != nil {
				return nil, nil, apperr.Validation("invalid request body: %v", err)
			}
		}
		return raw, nil, nil
	}

	form, err := c.MultipartForm()
	if err != nil {
		return nil, nil, apperr.Validation("invalid multipart form: %v", err)
	}
	if vals := form.Value[formDataField]; len(vals) > 0 {
		raw = []byte(vals[0])
		if into != nil {
			if err := json.Unmarshal(raw, into); err != nil {
				return nil, nil, apperr.Validation("invalid %s field: %v", formDataField, err)
			}
		}
	}

	for _, fh := range form.File[formAttachmentsField] {
		if u.MaxFileSize > 0 && fh.Size > u.MaxFileSize {
			return nil, nil, apperr.Validation("File too large: %s exceeds %s", fh.Filename, services.FormatSize(u.MaxFileSize))
		}
		declared := fh.Header.Get("Content-Type")
		if err := checkFile(fh.Filename, declared); err != nil {
			return nil, nil, err
		}
		f, err := fh.Open()
		if err != nil {
			return nil, nil, apperr.Internal(err, "failed to open upload %s", fh.Filename)
		}
		data, err := io.ReadAll(f)
		_ = f.Close()
		if err != nil {
			return nil, nil, apperr.Internal(err, "failed to read upload %s", fh.Filename)
		}
		mt, _, _ := mime.ParseMediaType(declared)
		files = append(files, services.File{Name: fh.Filename, MIMEType: mt, Data: data})
	}
	return raw, files, nil
}
