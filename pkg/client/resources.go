package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"mime"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"path/filepath"
	"strconv"

	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/stats"

	"github.com/gabriel-vasile/mimetype"
)

// allPageSize là limit tối đa server chấp nhận.
const allPageSize = 100

// Page là một trang kết quả list.
type Page[T any] struct {
	Items      []T
	Total      int64
	Page       int
	TotalPages int
}

type resource[T any] struct {
	c    *Client
	path string
}

func (r resource[T]) itemPath(id string, suffix ...string) string {
	p := r.path + "/" + url.PathEscape(id)
	for _, s := range suffix {
		p += "/" + s
	}
	return p
}

func (r resource[T]) List(ctx context.Context, f Filter) (Page[T], error) {
	var items []T
	m, err := r.c.do(ctx, request{method: http.MethodGet, path: r.path, query: f.values()}, &items)
	if err != nil {
		return Page[T]{}, err
	}
	// server cũ có thể trả về mảng trần, không có block phân trang
	p := Page[T]{Items: items, Total: int64(len(items)), Page: 1, TotalPages: 1}
	if m.Total != nil {
		p.Total = *m.Total
	}
	if m.Page != nil {
		p.Page = *m.Page
	}
	if m.TotalPages != nil {
		p.TotalPages = *m.TotalPages
	}
	return p, nil
}

// All đi qua mọi trang của f.
func (r resource[T]) All(ctx context.Context, f Filter) ([]T, error) {
	f.Limit = allPageSize
	var out []T
	for page := 1; ; page++ {
		f.Page = page
		p, err := r.List(ctx, f)
		if err != nil {
			return nil, err
		}
		out = append(out, p.Items...)
		if page >= p.TotalPages || len(p.Items) == 0 {
			return out, nil
		}
	}
}

func (r resource[T]) everything(ctx context.Context) ([]T, error) {
	return r.All(ctx, Filter{})
}

// withFallback đọc thống kê qua remote; khi remote lỗi thì tải cả danh sách và reduce cục bộ.
// Chỉ trả lỗi khi cả hai cùng hỏng.
func withFallback[S, T any](ctx context.Context, log *slog.Logger, name string,
	remote func(context.Context, any) error, list func(context.Context) ([]T, error), reduce func([]T) S) (S, error) {
	var out S
	err := remote(ctx, &out)
	if err == nil {
		return out, nil
	}
	log.Warn(name+" stats endpoint failed, computing locally", "error", err)
	items, listErr := list(ctx)
	if listErr != nil {
		return out, fmt.Errorf("stats: %w; fallback: %w", err, listErr)
	}
	return reduce(items), nil
}

func (r resource[T]) Get(ctx context.Context, id string) (*T, error) {
	return r.call(ctx, http.MethodGet, r.itemPath(id), nil)
}

func (r resource[T]) Create(ctx context.Context, payload any) (*T, error) {
	return r.call(ctx, http.MethodPost, r.path, payload)
}

// Update gửi PUT; payload chỉ cần chứa các field muốn đổi.
func (r resource[T]) Update(ctx context.Context, id string, payload any) (*T, error) {
	return r.call(ctx, http.MethodPut, r.itemPath(id), payload)
}

func (r resource[T]) Delete(ctx context.Context, id string) error {
	_, err := r.c.do(ctx, request{method: http.MethodDelete, path: r.itemPath(id)}, nil)
	return err
}

func (r resource[T]) call(ctx context.Context, method, path string, body any) (*T, error) {
	out := new(T)
	if _, err := r.c.do(ctx, request{method: method, path: path, body: body}, out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r resource[T]) setStatus(ctx context.Context, id, status, user string) (*T, error) {
	return r.call(ctx, http.MethodPatch, r.itemPath(id, "status"), map[string]string{"status": status, "user": user})
}

func (r resource[T]) stats(ctx context.Context, out any) error {
	_, err := r.c.do(ctx, request{method: http.MethodGet, path: r.path + "/stats"}, out)
	return err
}

// Upload là một file đính kèm gửi trong form multipart. ContentType rỗng thì đoán theo
// extension, rồi theo nội dung.
type Upload struct {
	Name        string
	ContentType string
	Data        []byte
}

func (u Upload) contentType() string {
	if u.ContentType != "" {
		return u.ContentType
	}
	if t := mime.TypeByExtension(filepath.Ext(u.Name)); t != "" {
		return t
	}
	return mimetype.Detect(u.Data).String()
}

// multipartBody: field "data" chứa JSON, mỗi file là một field "attachments".
func multipartBody(payload any, files []Upload) (*bytes.Buffer, string, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, "", fmt.Errorf("failed to encode form data: %w", err)
	}
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	if err := w.WriteField("data", string(data)); err != nil {
		return nil, "", err
	}
	for _, f := range files {
		h := textproto.MIMEHeader{}
		h.Set("Content-Disposition", fmt.Sprintf(`form-data; name="attachments"; filename=%q`, f.Name))
		h.Set("Content-Type", f.contentType())
		part, err := w.CreatePart(h)
		if err != nil {
			return nil, "", err
		}
		if _, err := part.Write(f.Data); err != nil {
			return nil, "", err
		}
	}
	if err := w.Close(); err != nil {
		return nil, "", err
	}
	return &buf, w.FormDataContentType(), nil
}

func (r resource[T]) sendForm(ctx context.Context, method, path string, payload any, files []Upload) (*T, error) {
	body, contentType, err := multipartBody(payload, files)
	if err != nil {
		return nil, err
	}
	out := new(T)
	if _, err := r.c.do(ctx, request{method: method, path: path, raw: body, contentType: contentType}, out); err != nil {
		return nil, err
	}
	return out, nil
}

// --- Inventory ---

type InventoryAPI struct {
	resource[models.InventoryItem]
}

func (a *InventoryAPI) AdjustQuantity(ctx context.Context, id string, delta int, reason string) (*models.InventoryItem, error) {
	return a.call(ctx, http.MethodPatch, a.itemPath(id, "quantity"), map[string]any{"delta": delta, "reason": reason})
}

func (a *InventoryAPI) LowStock(ctx context.Context, f Filter) ([]models.InventoryItem, error) {
	var items []models.InventoryItem
	_, err := a.c.do(ctx, request{method: http.MethodGet, path: a.path + "/low-stock", query: f.values()}, &items)
	return items, err
}

// Stats lấy thống kê từ server; nếu endpoint lỗi thì tự tính trên toàn bộ danh sách.
func (a *InventoryAPI) Stats(ctx context.Context) (stats.Inventory, error) {
	return withFallback(ctx, a.c.log, "inventory", a.stats, a.everything, stats.InventoryStats)
}

// --- Shifts ---

type ShiftAPI struct {
	resource[models.Shift]
}

func (a *ShiftAPI) AssignEmployees(ctx context.Context, id string, employeeIDs ...string) (*models.Shift, error) {
	return a.call(ctx, http.MethodPatch, a.itemPath(id, "employees"), map[string][]string{"employeeIds": employeeIDs})
}

func (a *ShiftAPI) RemoveEmployee(ctx context.Context, id, employeeID string) (*models.Shift, error) {
	return a.call(ctx, http.MethodDelete, a.itemPath(id, "employees", url.PathEscape(employeeID)), nil)
}

func (a *ShiftAPI) Stats(ctx context.Context) (stats.Shifts, error) {
	var out stats.Shifts
	return out, a.stats(ctx, &out)
}

// --- Briefings ---

type BriefingAPI struct {
	resource[models.StaffBriefing]
}

// CreateWithFiles tạo briefing kèm file đính kèm (multipart).
func (a *BriefingAPI) CreateWithFiles(ctx context.Context, payload any, files []Upload) (*models.StaffBriefing, error) {
	return a.sendForm(ctx, http.MethodPost, a.path, payload, files)
}

func (a *BriefingAPI) UpdateWithFiles(ctx context.Context, id string, payload any, files []Upload) (*models.StaffBriefing, error) {
	return a.sendForm(ctx, http.MethodPut, a.itemPath(id), payload, files)
}

func (a *BriefingAPI) UpdateActionItemStatus(ctx context.Context, id string, index int, status string) (*models.StaffBriefing, error) {
	return a.call(ctx, http.MethodPatch, a.itemPath(id, "action-items", strconv.Itoa(index), "status"), map[string]string{"status": status})
}

func (a *BriefingAPI) Stats(ctx context.Context) (stats.Briefings, error) {
	var out stats.Briefings
	return out, a.stats(ctx, &out)
}

// --- Trainings ---

type TrainingAPI struct {
	resource[models.TrainingSession]
}

func (a *TrainingAPI) CreateWithFiles(ctx context.Context, payload any, files []Upload) (*models.TrainingSession, error) {
	return a.sendForm(ctx, http.MethodPost, a.path, payload, files)
}

func (a *TrainingAPI) UpdateWithFiles(ctx context.Context, id string, payload any, files []Upload) (*models.TrainingSession, error) {
	return a.sendForm(ctx, http.MethodPut, a.itemPath(id), payload, files)
}

func (a *TrainingAPI) UpdateStatus(ctx context.Context, id, status string) (*models.TrainingSession, error) {
	return a.setStatus(ctx, id, status, "")
}

// AddFeedback gửi đánh giá 1-5 của một nhân viên.
func (a *TrainingAPI) AddFeedback(ctx context.Context, id, employeeID, name string, rating int, comment string) (*models.TrainingSession, error) {
	return a.call(ctx, http.MethodPost, a.itemPath(id, "feedback"), map[string]any{
		"employeeId": employeeID, "name": name, "rating": rating, "comment": comment,
	})
}

func (a *TrainingAPI) RegisterAttendee(ctx context.Context, id, employeeID string) (*models.TrainingSession, error) {
	return a.call(ctx, http.MethodPost, a.itemPath(id, "attendees"), map[string]string{"employeeId": employeeID})
}

func (a *TrainingAPI) Stats(ctx context.Context) (stats.Trainings, error) {
	var out stats.Trainings
	return out, a.stats(ctx, &out)
}

// --- Machines ---

type MachineAPI struct {
	resource[models.Machine]
}

func (a *MachineAPI) UpdateStatus(ctx context.Context, id, status string) (*models.Machine, error) {
	return a.setStatus(ctx, id, status, "")
}

// Stats giống InventoryAPI.Stats: server trước, tính cục bộ khi lỗi.
func (a *MachineAPI) Stats(ctx context.Context) (stats.Machines, error) {
	return withFallback(ctx, a.c.log, "machine", a.stats, a.everything, func(machines []models.Machine) stats.Machines {
		return stats.MachineStats(machines, a.c.now())
	})
}

// --- Finance ---

type InvoiceAPI struct {
	resource[models.Invoice]
}

func (a *InvoiceAPI) UpdateStatus(ctx context.Context, id, status string) (*models.Invoice, error) {
	return a.setStatus(ctx, id, status, "")
}

func (a *InvoiceAPI) Stats(ctx context.Context) (stats.Invoices, error) {
	var out stats.Invoices
	return out, a.stats(ctx, &out)
}

type PaymentAPI struct {
	resource[models.Payment]
}

func (a *PaymentAPI) UpdateStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	return a.setStatus(ctx, id, status, "")
}

func (a *PaymentAPI) Stats(ctx context.Context) (stats.Payments, error) {
	var out stats.Payments
	return out, a.stats(ctx, &out)
}

type ExpenseAPI struct {
	resource[models.Expense]
}

// UpdateStatus duyệt/từ chối expense; user rỗng thì server lấy từ token.
func (a *ExpenseAPI) UpdateStatus(ctx context.Context, id, status, user string) (*models.Expense, error) {
	return a.setStatus(ctx, id, status, user)
}

func (a *ExpenseAPI) Stats(ctx context.Context) (stats.Expenses, error) {
	var out stats.Expenses
	return out, a.stats(ctx, &out)
}

// --- Staff ---

type RosterAPI struct {
	resource[models.RosterEntry]
}

func (a *RosterAPI) UpdateStatus(ctx context.Context, id, status string) (*models.RosterEntry, error) {
	return a.setStatus(ctx, id, status, "")
}

type SupervisorAPI struct {
	resource[models.Supervisor]
}

func (a *SupervisorAPI) AssignEmployees(ctx context.Context, id string, employeeIDs ...string) (*models.Supervisor, error) {
	return a.call(ctx, http.MethodPatch, a.itemPath(id, "employees"), map[string][]string{"employeeIds": employeeIDs})
}

func (a *SupervisorAPI) RemoveEmployee(ctx context.Context, id, employeeID string) (*models.Supervisor, error) {
	return a.call(ctx, http.MethodDelete, a.itemPath(id, "employees", url.PathEscape(employeeID)), nil)
}

// --- Users ---

type UserAPI struct {
	resource[models.User]
}

func (a *UserAPI) Register(ctx context.Context, name, email, password string) (*models.User, error) {
	return a.call(ctx, http.MethodPost, a.path+"/register", map[string]string{"name": name, "email": email, "password": password})
}

// Login đăng nhập và lưu session vào store của client.
func (a *UserAPI) Login(ctx context.Context, email, password string) (Session, error) {
	var res Session
	_, err := a.c.do(ctx, request{
		method: http.MethodPost,
		path:   a.path + "/login",
		body:   map[string]string{"email": email, "password": password},
	}, &res)
	if err != nil {
		return Session{}, err
	}
	if err := a.c.sessions.Save(res); err != nil {
		return Session{}, err
	}
	return res, nil
}

func (a *UserAPI) Logout() error {
	return a.c.sessions.Clear()
}

func (a *UserAPI) Me(ctx context.Context) (*models.User, error) {
	return a.call(ctx, http.MethodGet, a.path+"/me", nil)
}

// --- Alerts ---

type AlertAPI struct {
	resource[models.Alert]
}

func (a *AlertAPI) Acknowledge(ctx context.Context, id, user string) (*models.Alert, error) {
	return a.call(ctx, http.MethodPatch, a.itemPath(id, "acknowledge"), map[string]string{"user": user})
}
