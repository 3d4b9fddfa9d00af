// Package client là wrapper có kiểu cho REST API /api/v1.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"workforce-ops-api-server/internal/models"
)

const (
	DefaultPort    = 5000
	DefaultTimeout = 30 * time.Second
	// EnvBaseURL ghi đè hoàn toàn base URL, e.g. "https://ops.example.com/api/v1".
	EnvBaseURL = "API_BASE_URL"

	maxResponseSize = 16 << 20
)

// BaseURL builds http://<host>:5000/api/v1 unless API_BASE_URL is set.
func BaseURL(host string) string {
	if v := strings.TrimSpace(os.Getenv(EnvBaseURL)); v != "" {
		return strings.TrimRight(v, "/")
	}
	if host == "" {
		host = "localhost"
	}
	return fmt.Sprintf("http://%s:%d/api/v1", host, DefaultPort)
}

// APIError is returned when the server answers with success:false or a non-2xx status.
type APIError struct {
	Status  int
	Message string
	Detail  string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("api error %d: %s (%s)", e.Status, e.Message, e.Detail)
	}
	return fmt.Sprintf("api error %d: %s", e.Status, e.Message)
}

type Option func(*Client)

// WithHTTPClient thay http.Client mặc định (timeout cố định DefaultTimeout).
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.http = hc }
}

func WithSessionStore(s SessionStore) Option {
	return func(c *Client) { c.sessions = s }
}

func WithLogger(log *slog.Logger) Option {
	return func(c *Client) { c.log = log }
}

type Client struct {
	baseURL  string
	http     *http.Client
	sessions SessionStore
	log      *slog.Logger
	now      func() time.Time

	Inventory   *InventoryAPI
	Shifts      *ShiftAPI
	Briefings   *BriefingAPI
	Trainings   *TrainingAPI
	Machines    *MachineAPI
	Invoices    *InvoiceAPI
	Payments    *PaymentAPI
	Expenses    *ExpenseAPI
	Roster      *RosterAPI
	Supervisors *SupervisorAPI
	Users       *UserAPI
	Alerts      *AlertAPI
}

func New(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		http:     &http.Client{Timeout: DefaultTimeout},
		sessions: NewMemoryStore(Session{}),
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}

	c.Inventory = &InventoryAPI{resource[models.InventoryItem]{c, "/inventory"}}
	c.Shifts = &ShiftAPI{resource[models.Shift]{c, "/shifts"}}
	c.Briefings = &BriefingAPI{resource[models.StaffBriefing]{c, "/briefings"}}
	c.Trainings = &TrainingAPI{resource[models.TrainingSession]{c, "/trainings"}}
	c.Machines = &MachineAPI{resource[models.Machine]{c, "/machines"}}
	c.Invoices = &InvoiceAPI{resource[models.Invoice]{c, "/invoices"}}
	c.Payments = &PaymentAPI{resource[models.Payment]{c, "/payments"}}
	c.Expenses = &ExpenseAPI{resource[models.Expense]{c, "/expenses"}}
	c.Roster = &RosterAPI{resource[models.RosterEntry]{c, "/roster"}}
	c.Supervisors = &SupervisorAPI{resource[models.Supervisor]{c, "/supervisors"}}
	c.Users = &UserAPI{resource[models.User]{c, "/users"}}
	c.Alerts = &AlertAPI{resource[models.Alert]{c, "/alerts"}}
	return c
}

// Session trả về session đang lưu trong store.
func (c *Client) Session() (Session, error) {
	return c.sessions.Load()
}

// meta là phần phân trang của envelope; nil khi server không gửi.
type meta struct {
	Total      *int64 `json:"total"`
	Page       *int   `json:"page"`
	TotalPages *int   `json:"totalPages"`
}

type request struct {
	method      string
	path        string
	query       url.Values
	body        any
	raw         io.Reader
	contentType string
}

// do gửi request, chuẩn hóa envelope rồi decode payload vào out (có thể nil).
func (c *Client) do(ctx context.Context, r request, out any) (meta, error) {
	var m meta
	u := c.baseURL + r.path
	if len(r.query) > 0 {
		u += "?" + r.query.Encode()
	}

	body := r.raw
	contentType := r.contentType
	if r.body != nil {
		data, err := json.Marshal(r.body)
		if err != nil {
			return m, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(data)
		contentType = "application/json"
	}

	req, err := http.NewRequestWithContext(ctx, r.method, u, body)
	if err != nil {
		return m, fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	s, err := c.sessions.Load()
	if err != nil {
		return m, err
	}
	if s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return m, fmt.Errorf("%s %s: %w", r.method, r.path, err)
	}
	defer resp.Body.Close()
	data, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseSize))
	if err != nil {
		return m, fmt.Errorf("failed to read response: %w", err)
	}
	return decodeEnvelope(resp.StatusCode, data, out)
}

// decodeEnvelope xử lý các response không đồng nhất: body có thể là envelope
// {success, data, ...} hoặc chính payload.
func decodeEnvelope(status int, data []byte, out any) (meta, error) {
	var m meta
	var env map[string]json.RawMessage
	isObject := json.Unmarshal(data, &env) == nil

	if status >= 300 || (isObject && isFalse(env["success"])) {
		apiErr := &APIError{Status: status, Message: http.StatusText(status)}
		if isObject {
			if msg := stringField(env["message"]); msg != "" {
				apiErr.Message = msg
			}
			apiErr.Detail = stringField(env["error"])
		}
		return m, apiErr
	}

	payload := data
	if isObject {
		if d, ok := env["data"]; ok {
			payload = d
		}
		_ = json.Unmarshal(data, &m)
	}
	if out == nil || len(bytes.TrimSpace(payload)) == 0 {
		return m, nil
	}
	payload, err := aliasIDs(payload)
	if err != nil {
		return m, fmt.Errorf("failed to decode response: %w", err)
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return m, fmt.Errorf("failed to decode response: %w", err)
	}
	return m, nil
}

func isFalse(raw json.RawMessage) bool {
	var b bool
	return raw != nil && json.Unmarshal(raw, &b) == nil && !b
}

func stringField(raw json.RawMessage) string {
	var s string
	if raw == nil || json.Unmarshal(raw, &s) != nil {
		return ""
	}
	return s
}

// aliasIDs chép "_id" sang "id" ở mọi object chưa có "id".
func aliasIDs(payload []byte) ([]byte, error) {
	if !bytes.Contains(payload, []byte(`"_id"`)) {
		return payload, nil
	}
	dec := json.NewDecoder(bytes.NewReader(payload))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, err
	}
	walkIDs(v)
	return json.Marshal(v)
}

func walkIDs(v any) {
	switch t := v.(type) {
	case map[string]any:
		if id, ok := t["_id"]; ok {
			if _, has := t["id"]; !has {
				t["id"] = id
			}
		}
		for _, child := range t {
			walkIDs(child)
		}
	case []any:
		for _, child := range t {
			walkIDs(child)
		}
	}
}

// Filter là các tham số query của endpoint list. Giá trị rỗng bị bỏ qua.
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

func (f Filter) values() url.Values {
	v := url.Values{}
	set := func(k, val string) {
		if val != "" {
			v.Set(k, val)
		}
	}
	set("department", f.Department)
	set("category", f.Category)
	set("status", f.Status)
	set("shift", f.Shift)
	set("type", f.Type)
	set("search", f.Search)
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	if f.Limit > 0 {
		v.Set("limit", strconv.Itoa(f.Limit))
	}
	return v
}
