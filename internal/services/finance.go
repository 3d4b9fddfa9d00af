// server/internal/services/finance.go
package services

import (
	"context"
	"log/slog"
	"math"
	"strings"
	"time"

	"workforce-ops-api-server/internal/apperr"
	"workforce-ops-api-server/internal/models"
	"workforce-ops-api-server/internal/query"
	"workforce-ops-api-server/internal/sequence"
	"workforce-ops-api-server/internal/stats"
	"workforce-ops-api-server/internal/store"
)

const (
	InvoicePrefix       = "INV"
	msgDuplicateInvoice = "Invoice with this number already exists"
)

var (
	invoiceSchema = query.Schema{
		Fields: map[query.Key]query.Field{
			query.KeyStatus: {Name: "status", Allowed: models.InvoiceStatuses},
		},
		SearchFields: []string{"invoiceNumber", "client", "notes"},
		Sort:         []query.SortKey{{Field: "issueDate", Desc: true}, {Field: "createdAt", Desc: true}},
	}
	paymentSchema = query.Schema{
		Fields: map[query.Key]query.Field{
			query.KeyStatus: {Name: "status", Allowed: models.PaymentStatuses},
			query.KeyType:   {Name: "method", Allowed: models.PaymentMethods},
		},
		SearchFields: []string{"invoiceNumber", "payer", "reference"},
		Sort:         query.DefaultSort,
	}
	expenseSchema = query.Schema{
		Fields: map[query.Key]query.Field{
			query.KeyDepartment: {Name: "department", Allowed: models.Departments},
			query.KeyCategory:   {Name: "category"},
			query.KeyStatus:     {Name: "status", Allowed: models.ExpenseStatuses},
		},
		SearchFields: []string{"title", "category", "submittedBy", "site"},
		Sort:         query.DefaultSort,
	}
)

// --- Invoices ---

type InvoiceItemInput struct {
	Description string  `json:"description"`
	Quantity    float64 `json:"quantity"`
	UnitPrice   float64 `json:"unitPrice"`
}

type InvoiceInput struct {
	InvoiceNumber string             `json:"invoiceNumber"`
	Client        string             `json:"client"`
	Items         []InvoiceItemInput `json:"items"`
	TaxRate       float64            `json:"taxRate"`
	Status        string             `json:"status"`
	IssueDate     string             `json:"issueDate"`
	DueDate       string             `json:"dueDate"`
	Notes         string             `json:"notes"`
}

// buildInvoice tính amount, subtotal, tax và total từ các dòng hàng.
func buildInvoice(in InvoiceInput, now time.Time) (models.Invoice, error) {
	var inv models.Invoice
	client, err := required("client", in.Client)
	if err != nil {
		return inv, err
	}
	if len(in.Items) == 0 {
		return inv, apperr.Validation("invoice must have at least one item")
	}
	if in.TaxRate < 0 || in.TaxRate > 100 {
		return inv, apperr.Validation("taxRate must be between 0 and 100")
	}
	status, err := enum("status", in.Status, string(models.InvoiceDraft), models.InvoiceStatuses)
	if err != nil {
		return inv, err
	}
	issued, err := dateOr(in.IssueDate, now)
	if err != nil {
		return inv, err
	}
	due, err := parseOptionalDate(in.DueDate)
	if err != nil {
		return inv, err
	}
	if due != nil && due.Before(issued) {
		return inv, apperr.Validation("dueDate cannot be before issueDate")
	}

	items := make([]models.InvoiceItem, 0, len(in.Items))
	subtotal := 0.0
	for i, it := range in.Items {
		desc, err := required("description", it.Description)
		if err != nil {
			return inv, apperr.Validation("items[%d]: %s", i, apperr.MessageOf(err))
		}
		if it.Quantity <= 0 || it.UnitPrice < 0 {
			return inv, apperr.Validation("items[%d]: quantity must be positive and unitPrice non-negative", i)
		}
		amount := money(it.Quantity * it.UnitPrice)
		subtotal += amount
		items = append(items, models.InvoiceItem{Description: desc, Quantity: it.Quantity, UnitPrice: it.UnitPrice, Amount: amount})
	}
	subtotal = money(subtotal)
	tax := money(subtotal * in.TaxRate / 100)

	return models.Invoice{
		InvoiceNumber: strings.ToUpper(strings.TrimSpace(in.InvoiceNumber)),
		Client:        client,
		Items:         items,
		Subtotal:      subtotal,
		TaxRate:       in.TaxRate,
		Tax:           tax,
		Total:         money(subtotal + tax),
		Status:        models.InvoiceStatus(status),
		IssueDate:     issued,
		DueDate:       due,
		Notes:         strings.TrimSpace(in.Notes),
	}, nil
}

func invoiceInput(inv models.Invoice) InvoiceInput {
	items := make([]InvoiceItemInput, 0, len(inv.Items))
	for _, it := range inv.Items {
		items = append(items, InvoiceItemInput{Description: it.Description, Quantity: it.Quantity, UnitPrice: it.UnitPrice})
	}
	return InvoiceInput{
		InvoiceNumber: inv.InvoiceNumber, Client: inv.Client, Items: items, TaxRate: inv.TaxRate,
		Status: string(inv.Status), IssueDate: formatDate(inv.IssueDate), DueDate: formatOptionalDate(inv.DueDate),
		Notes: inv.Notes,
	}
}

type InvoiceService struct {
	res     resource[models.Invoice]
	numbers sequence.Generator
	now     func() time.Time
}

func NewInvoiceService(repo store.Repository[models.Invoice], numbers sequence.Generator, log *slog.Logger) *InvoiceService {
	return &InvoiceService{
		res:     resource[models.Invoice]{name: "Invoice", repo: repo, schema: invoiceSchema, log: log},
		numbers: numbers,
		now:     time.Now,
	}
}

func (s *InvoiceService) List(ctx context.Context, f query.Filter) ([]models.Invoice, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *InvoiceService) Get(ctx context.Context, id string) (*models.Invoice, error) {
	return s.res.get(ctx, id)
}

// Create assigns an INV### number when the caller does not supply one.
func (s *InvoiceService) Create(ctx context.Context, in InvoiceInput) (*models.Invoice, error) {
	inv, err := buildInvoice(in, s.now())
	if err != nil {
		return nil, err
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber, err = s.numbers.Next(ctx)
		if err != nil {
			return nil, apperr.Internal(err, "failed to generate invoice number")
		}
	}
	if err := s.res.repo.Insert(ctx, &inv); err != nil {
		return nil, s.res.duplicate(err, "create", msgDuplicateInvoice)
	}
	return &inv, nil
}

func (s *InvoiceService) Update(ctx context.Context, id string, patch []byte) (*models.Invoice, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(invoiceInput(*current), patch)
	if err != nil {
		return nil, err
	}
	inv, err := buildInvoice(in, current.IssueDate)
	if err != nil {
		return nil, err
	}
	if inv.InvoiceNumber == "" {
		inv.InvoiceNumber = current.InvoiceNumber
	}
	inv.Base = current.Base
	if err := s.res.repo.Replace(ctx, &inv); err != nil {
		return nil, s.res.duplicate(err, "update", msgDuplicateInvoice)
	}
	return &inv, nil
}

func (s *InvoiceService) UpdateStatus(ctx context.Context, id, status string) (*models.Invoice, error) {
	st, err := enum("status", status, "", models.InvoiceStatuses)
	if err != nil {
		return nil, err
	}
	inv, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv.Status == models.InvoiceStatus(st) {
		return inv, nil
	}
	inv.Status = models.InvoiceStatus(st)
	if err := s.res.repo.Replace(ctx, inv); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return inv, nil
}

func (s *InvoiceService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

func (s *InvoiceService) Stats(ctx context.Context, f query.Filter) (stats.Invoices, error) {
	items, err := s.res.all(ctx, f)
	if err != nil {
		return stats.Invoices{}, err
	}
	return stats.InvoiceStats(items), nil
}

// --- Payments ---

type PaymentInput struct {
	InvoiceNumber string  `json:"invoiceNumber"`
	Payer         string  `json:"payer"`
	Amount        float64 `json:"amount"`
	Method        string  `json:"method"`
	Status        string  `json:"status"`
	Date          string  `json:"date"`
	Reference     string  `json:"reference"`
	Notes         string  `json:"notes"`
}

func buildPayment(in PaymentInput, now time.Time) (models.Payment, error) {
	var p models.Payment
	payer, err := required("payer", in.Payer)
	if err != nil {
		return p, err
	}
	if in.Amount <= 0 {
		return p, apperr.Validation("amount must be greater than 0")
	}
	method, err := enum("method", in.Method, "", models.PaymentMethods)
	if err != nil {
		return p, err
	}
	status, err := enum("status", in.Status, string(models.PaymentPending), models.PaymentStatuses)
	if err != nil {
		return p, err
	}
	date, err := dateOr(in.Date, now)
	if err != nil {
		return p, err
	}
	return models.Payment{
		InvoiceNumber: strings.ToUpper(strings.TrimSpace(in.InvoiceNumber)),
		Payer:         payer,
		Amount:        money(in.Amount),
		Method:        models.PaymentMethod(method),
		Status:        models.PaymentStatus(status),
		Date:          date,
		Reference:     strings.TrimSpace(in.Reference),
		Notes:         strings.TrimSpace(in.Notes),
	}, nil
}

func paymentInput(p models.Payment) PaymentInput {
	return PaymentInput{
		InvoiceNumber: p.InvoiceNumber, Payer: p.Payer, Amount: p.Amount, Method: string(p.Method),
		Status: string(p.Status), Date: formatDate(p.Date), Reference: p.Reference, Notes: p.Notes,
	}
}

type PaymentService struct {
	res resource[models.Payment]
	now func() time.Time
}

func NewPaymentService(repo store.Repository[models.Payment], log *slog.Logger) *PaymentService {
	return &PaymentService{
		res: resource[models.Payment]{name: "Payment", repo: repo, schema: paymentSchema, log: log},
		now: time.Now,
	}
}

func (s *PaymentService) List(ctx context.Context, f query.Filter) ([]models.Payment, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *PaymentService) Get(ctx context.Context, id string) (*models.Payment, error) {
	return s.res.get(ctx, id)
}

func (s *PaymentService) Create(ctx context.Context, in PaymentInput) (*models.Payment, error) {
	p, err := buildPayment(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.res.repo.Insert(ctx, &p); err != nil {
		return nil, s.res.wrap(err, "create")
	}
	return &p, nil
}

func (s *PaymentService) Update(ctx context.Context, id string, patch []byte) (*models.Payment, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(paymentInput(*current), patch)
	if err != nil {
		return nil, err
	}
	p, err := buildPayment(in, current.Date)
	if err != nil {
		return nil, err
	}
	p.Base = current.Base
	if err := s.res.repo.Replace(ctx, &p); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return &p, nil
}

func (s *PaymentService) UpdateStatus(ctx context.Context, id, status string) (*models.Payment, error) {
	st, err := enum("status", status, "", models.PaymentStatuses)
	if err != nil {
		return nil, err
	}
	p, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if p.Status == models.PaymentStatus(st) {
		return p, nil
	}
	p.Status = models.PaymentStatus(st)
	if err := s.res.repo.Replace(ctx, p); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return p, nil
}

func (s *PaymentService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

func (s *PaymentService) Stats(ctx context.Context, f query.Filter) (stats.Payments, error) {
	items, err := s.res.all(ctx, f)
	if err != nil {
		return stats.Payments{}, err
	}
	return stats.PaymentStats(items), nil
}

// --- Expenses ---

type ExpenseInput struct {
	Title       string  `json:"title"`
	Category    string  `json:"category"`
	Amount      float64 `json:"amount"`
	Date        string  `json:"date"`
	Site        string  `json:"site"`
	Department  string  `json:"department"`
	SubmittedBy string  `json:"submittedBy"`
	Status      string  `json:"status"`
	Notes       string  `json:"notes"`
}

func buildExpense(in ExpenseInput, now time.Time) (models.Expense, error) {
	var e models.Expense
	title, err := required("title", in.Title)
	if err != nil {
		return e, err
	}
	if in.Amount <= 0 {
		return e, apperr.Validation("amount must be greater than 0")
	}
	date, err := dateOr(in.Date, now)
	if err != nil {
		return e, err
	}
	dept, err := optionalEnum("department", in.Department, models.Departments)
	if err != nil {
		return e, err
	}
	status, err := enum("status", in.Status, string(models.ExpensePending), models.ExpenseStatuses)
	if err != nil {
		return e, err
	}
	return models.Expense{
		Title:       title,
		Category:    strings.TrimSpace(in.Category),
		Amount:      money(in.Amount),
		Date:        date,
		Site:        strings.TrimSpace(in.Site),
		Department:  dept,
		SubmittedBy: strings.TrimSpace(in.SubmittedBy),
		Status:      models.ExpenseStatus(status),
		Notes:       strings.TrimSpace(in.Notes),
	}, nil
}

func expenseInput(e models.Expense) ExpenseInput {
	return ExpenseInput{
		Title: e.Title, Category: e.Category, Amount: e.Amount, Date: formatDate(e.Date), Site: e.Site,
		Department: e.Department, SubmittedBy: e.SubmittedBy, Status: string(e.Status), Notes: e.Notes,
	}
}

type ExpenseService struct {
	res resource[models.Expense]
	now func() time.Time
}

func NewExpenseService(repo store.Repository[models.Expense], log *slog.Logger) *ExpenseService {
	return &ExpenseService{
		res: resource[models.Expense]{name: "Expense", repo: repo, schema: expenseSchema, log: log},
		now: time.Now,
	}
}

func (s *ExpenseService) List(ctx context.Context, f query.Filter) ([]models.Expense, query.Page, error) {
	return s.res.list(ctx, f)
}

func (s *ExpenseService) Get(ctx context.Context, id string) (*models.Expense, error) {
	return s.res.get(ctx, id)
}

func (s *ExpenseService) Create(ctx context.Context, in ExpenseInput) (*models.Expense, error) {
	e, err := buildExpense(in, s.now())
	if err != nil {
		return nil, err
	}
	if err := s.res.repo.Insert(ctx, &e); err != nil {
		return nil, s.res.wrap(err, "create")
	}
	return &e, nil
}

func (s *ExpenseService) Update(ctx context.Context, id string, patch []byte) (*models.Expense, error) {
	current, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	in, err := merge(expenseInput(*current), patch)
	if err != nil {
		return nil, err
	}
	e, err := buildExpense(in, current.Date)
	if err != nil {
		return nil, err
	}
	e.Base = current.Base
	e.ApprovedBy = current.ApprovedBy
	if err := s.res.repo.Replace(ctx, &e); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return &e, nil
}

// UpdateStatus records who approved or rejected the expense.
func (s *ExpenseService) UpdateStatus(ctx context.Context, id, status, user string) (*models.Expense, error) {
	st, err := enum("status", status, "", models.ExpenseStatuses)
	if err != nil {
		return nil, err
	}
	e, err := s.res.get(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.Status == models.ExpenseStatus(st) {
		return e, nil
	}
	e.Status = models.ExpenseStatus(st)
	if e.Status == models.ExpensePending {
		e.ApprovedBy = ""
	} else {
		e.ApprovedBy = userOrSystem(user)
	}
	if err := s.res.repo.Replace(ctx, e); err != nil {
		return nil, s.res.wrap(err, "update")
	}
	return e, nil
}

func (s *ExpenseService) Delete(ctx context.Context, id string) error {
	return s.res.delete(ctx, id)
}

func (s *ExpenseService) Stats(ctx context.Context, f query.Filter) (stats.Expenses, error) {
	items, err := s.res.all(ctx, f)
	if err != nil {
		return stats.Expenses{}, err
	}
	return stats.ExpenseStats(items), nil
}

func money(f float64) float64 { return math.Round(f*100) / 100 }
