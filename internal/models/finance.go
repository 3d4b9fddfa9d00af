// server/internal/models/finance.go
package models

import "time"

type InvoiceStatus string

const (
	InvoiceDraft     InvoiceStatus = "draft"
	InvoiceSent      InvoiceStatus = "sent"
	InvoicePaid      InvoiceStatus = "paid"
	InvoiceOverdue   InvoiceStatus = "overdue"
	InvoiceCancelled InvoiceStatus = "cancelled"
)

var InvoiceStatuses = []string{
	string(InvoiceDraft), string(InvoiceSent), string(InvoicePaid), string(InvoiceOverdue), string(InvoiceCancelled),
}

type InvoiceItem struct {
	Description string  `bson:"description" json:"description"`
	Quantity    float64 `bson:"quantity" json:"quantity"`
	UnitPrice   float64 `bson:"unitPrice" json:"unitPrice"`
	Amount      float64 `bson:"amount" json:"amount"` // quantity * unitPrice
}

type Invoice struct {
	Base          `bson:",inline"`
	InvoiceNumber string        `bson:"invoiceNumber" json:"invoiceNumber"`
	Client        string        `bson:"client" json:"client"`
	Items         []InvoiceItem `bson:"items" json:"items"`
	Subtotal      float64       `bson:"subtotal" json:"subtotal"`
	TaxRate       float64       `bson:"taxRate" json:"taxRate"` // percent
	Tax           float64       `bson:"tax" json:"tax"`
	Total         float64       `bson:"total" json:"total"`
	Status        InvoiceStatus `bson:"status" json:"status"`
	IssueDate     time.Time     `bson:"issueDate" json:"issueDate"`
	DueDate       *time.Time    `bson:"dueDate,omitempty" json:"dueDate,omitempty"`
	Notes         string        `bson:"notes" json:"notes"`
}

type PaymentMethod string

const (
	PaymentCash         PaymentMethod = "cash"
	PaymentCard         PaymentMethod = "card"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentCheque       PaymentMethod = "cheque"
)

var PaymentMethods = []string{
	string(PaymentCash), string(PaymentCard), string(PaymentBankTransfer), string(PaymentCheque),
}

type PaymentStatus string

const (
	PaymentPending   PaymentStatus = "pending"
	PaymentCompleted PaymentStatus = "completed"
	PaymentFailed    PaymentStatus = "failed"
	PaymentRefunded  PaymentStatus = "refunded"
)

var PaymentStatuses = []string{
	string(PaymentPending), string(PaymentCompleted), string(PaymentFailed), string(PaymentRefunded),
}

type Payment struct {
	Base          `bson:",inline"`
	InvoiceNumber string        `bson:"invoiceNumber" json:"invoiceNumber"`
	Payer         string        `bson:"payer" json:"payer"`
	Amount        float64       `bson:"amount" json:"amount"`
	Method        PaymentMethod `bson:"method" json:"method"`
	Status        PaymentStatus `bson:"status" json:"status"`
	Date          time.Time     `bson:"date" json:"date"`
	Reference     string        `bson:"reference" json:"reference"`
	Notes         string        `bson:"notes" json:"notes"`
}

type ExpenseStatus string

const (
	ExpensePending  ExpenseStatus = "pending"
	ExpenseApproved ExpenseStatus = "approved"
	ExpenseRejected ExpenseStatus = "rejected"
)

var ExpenseStatuses = []string{string(ExpensePending), string(ExpenseApproved), string(ExpenseRejected)}

type Expense struct {
	Base        `bson:",inline"`
	Title       string        `bson:"title" json:"title"`
	Category    string        `bson:"category" json:"category"`
	Amount      float64       `bson:"amount" json:"amount"`
	Date        time.Time     `bson:"date" json:"date"`
	Site        string        `bson:"site" json:"site"`
	Department  string        `bson:"department" json:"department"`
	SubmittedBy string        `bson:"submittedBy" json:"submittedBy"`
	ApprovedBy  string        `bson:"approvedBy" json:"approvedBy"`
	Status      ExpenseStatus `bson:"status" json:"status"`
	Notes       string        `bson:"notes" json:"notes"`
}
