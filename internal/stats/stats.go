// server/internal/stats/stats.go
package stats

import (
	"math"
	"time"

	"workforce-ops-api-server/internal/models"
)

// Các hàm trong package này là reducer thuần: cùng input luôn cho cùng output,
// được dùng chung bởi services phía server và fallback của API client.

type Inventory struct {
	TotalItems    int            `json:"totalItems"`
	TotalQuantity int            `json:"totalQuantity"`
	TotalValue    float64        `json:"totalValue"`
	LowStockItems int            `json:"lowStockItems"`
	ByDepartment  map[string]int `json:"byDepartment"`
	ByCategory    map[string]int `json:"byCategory"`
}

func InventoryStats(items []models.InventoryItem) Inventory {
	out := Inventory{ByDepartment: map[string]int{}, ByCategory: map[string]int{}}
	for _, it := range items {
		out.TotalItems++
		out.TotalQuantity += it.Quantity
		out.TotalValue += float64(it.Quantity) * it.Price
		if it.LowStock() {
			out.LowStockItems++
		}
		out.ByDepartment[string(it.Department)]++
		if it.Category != "" {
			out.ByCategory[it.Category]++
		}
	}
	out.TotalValue = round2(out.TotalValue)
	return out
}

type Shifts struct {
	TotalShifts          int `json:"totalShifts"`
	TotalEmployees       int `json:"totalEmployees"`
	UniqueEmployees      int `json:"uniqueEmployees"`
	AvgEmployeesPerShift int `json:"avgEmployeesPerShift"`
}

// ShiftStats: average employees per shift is rounded to the nearest integer.
func ShiftStats(shifts []models.Shift) Shifts {
	out := Shifts{TotalShifts: len(shifts)}
	unique := map[string]struct{}{}
	for _, s := range shifts {
		out.TotalEmployees += len(s.Employees)
		for _, e := range s.Employees {
			unique[e] = struct{}{}
		}
	}
	out.UniqueEmployees = len(unique)
	if out.TotalShifts > 0 {
		out.AvgEmployeesPerShift = int(math.Round(float64(out.TotalEmployees) / float64(out.TotalShifts)))
	}
	return out
}

type Briefings struct {
	TotalBriefings       int            `json:"totalBriefings"`
	TotalAttendees       int            `json:"totalAttendees"`
	AvgAttendees         float64        `json:"avgAttendees"`
	TotalActionItems     int            `json:"totalActionItems"`
	PendingActionItems   int            `json:"pendingActionItems"`
	CompletedActionItems int            `json:"completedActionItems"`
	TotalAttachments     int            `json:"totalAttachments"`
	ByDepartment         map[string]int `json:"byDepartment"`
	ByShift              map[string]int `json:"byShift"`
}

func BriefingStats(briefings []models.StaffBriefing) Briefings {
	out := Briefings{ByDepartment: map[string]int{}, ByShift: map[string]int{}}
	for _, b := range briefings {
		out.TotalBriefings++
		out.TotalAttendees += b.Attendees
		out.TotalAttachments += len(b.Attachments)
		for _, a := range b.ActionItems {
			out.TotalActionItems++
			switch a.Status {
			case models.ActionCompleted:
				out.CompletedActionItems++
			case models.ActionPending:
				out.PendingActionItems++
			}
		}
		if b.Department != "" {
			out.ByDepartment[b.Department]++
		}
		if b.Shift != "" {
			out.ByShift[string(b.Shift)]++
		}
	}
	if out.TotalBriefings > 0 {
		out.AvgAttendees = round1(float64(out.TotalAttendees) / float64(out.TotalBriefings))
	}
	return out
}

type Trainings struct {
	TotalSessions  int            `json:"totalSessions"`
	Upcoming       int            `json:"upcoming"`
	TotalAttendees int            `json:"totalAttendees"`
	AverageRating  float64        `json:"averageRating"`
	FeedbackCount  int            `json:"feedbackCount"`
	ByStatus       map[string]int `json:"byStatus"`
	ByType         map[string]int `json:"byType"`
}

// TrainingStats counts a session as upcoming when it is scheduled and dated after now.
func TrainingStats(sessions []models.TrainingSession, now time.Time) Trainings {
	out := Trainings{ByStatus: map[string]int{}, ByType: map[string]int{}}
	ratingSum := 0
	for _, s := range sessions {
		out.TotalSessions++
		out.TotalAttendees += len(s.Attendees)
		out.ByStatus[string(s.Status)]++
		out.ByType[string(s.Type)]++
		if s.Status == models.TrainingScheduled && s.Date.After(now) {
			out.Upcoming++
		}
		for _, f := range s.Feedback {
			ratingSum += f.Rating
			out.FeedbackCount++
		}
	}
	if out.FeedbackCount > 0 {
		out.AverageRating = round1(float64(ratingSum) / float64(out.FeedbackCount))
	}
	return out
}

type Machines struct {
	TotalMachines   int            `json:"totalMachines"`
	Operational     int            `json:"operational"`
	Maintenance     int            `json:"maintenance"`
	Breakdown       int            `json:"breakdown"`
	Idle            int            `json:"idle"`
	OperationalRate float64        `json:"operationalRate"` // phần trăm
	MaintenanceDue  int            `json:"maintenanceDue"`
	ByDepartment    map[string]int `json:"byDepartment"`
}

func MachineStats(machines []models.Machine, now time.Time) Machines {
	out := Machines{ByDepartment: map[string]int{}}
	for _, m := range machines {
		out.TotalMachines++
		switch m.Status {
		case models.MachineOperational:
			out.Operational++
		case models.MachineMaintenance:
			out.Maintenance++
		case models.MachineBreakdown:
			out.Breakdown++
		case models.MachineIdle:
			out.Idle++
		}
		if m.NextMaintenance != nil && !m.NextMaintenance.After(now) {
			out.MaintenanceDue++
		}
		if m.Department != "" {
			out.ByDepartment[m.Department]++
		}
	}
	if out.TotalMachines > 0 {
		out.OperationalRate = round1(float64(out.Operational) * 100 / float64(out.TotalMachines))
	}
	return out
}

type Payments struct {
	TotalPayments   int                `json:"totalPayments"`
	TotalAmount     float64            `json:"totalAmount"`
	CompletedAmount float64            `json:"completedAmount"`
	PendingAmount   float64            `json:"pendingAmount"`
	RefundedAmount  float64            `json:"refundedAmount"`
	ByMethod        map[string]float64 `json:"byMethod"`
	ByStatus        map[string]int     `json:"byStatus"`
}

func PaymentStats(payments []models.Payment) Payments {
	out := Payments{ByMethod: map[string]float64{}, ByStatus: map[string]int{}}
	for _, p := range payments {
		out.TotalPayments++
		out.TotalAmount += p.Amount
		out.ByStatus[string(p.Status)]++
		out.ByMethod[string(p.Method)] += p.Amount
		switch p.Status {
		case models.PaymentCompleted:
			out.CompletedAmount += p.Amount
		case models.PaymentPending:
			out.PendingAmount += p.Amount
		case models.PaymentRefunded:
			out.RefundedAmount += p.Amount
		}
	}
	out.TotalAmount = round2(out.TotalAmount)
	out.CompletedAmount = round2(out.CompletedAmount)
	out.PendingAmount = round2(out.PendingAmount)
	out.RefundedAmount = round2(out.RefundedAmount)
	for k, v := range out.ByMethod {
		out.ByMethod[k] = round2(v)
	}
	return out
}

type Expenses struct {
	TotalExpenses  int                `json:"totalExpenses"`
	TotalAmount    float64            `json:"totalAmount"`
	ApprovedAmount float64            `json:"approvedAmount"`
	PendingAmount  float64            `json:"pendingAmount"`
	ByCategory     map[string]float64 `json:"byCategory"`
	ByStatus       map[string]int     `json:"byStatus"`
}

func ExpenseStats(expenses []models.Expense) Expenses {
	out := Expenses{ByCategory: map[string]float64{}, ByStatus: map[string]int{}}
	for _, e := range expenses {
		out.TotalExpenses++
		out.TotalAmount += e.Amount
		out.ByStatus[string(e.Status)]++
		if e.Category != "" {
			out.ByCategory[e.Category] += e.Amount
		}
		switch e.Status {
		case models.ExpenseApproved:
			out.ApprovedAmount += e.Amount
		case models.ExpensePending:
			out.PendingAmount += e.Amount
		}
	}
	out.TotalAmount = round2(out.TotalAmount)
	out.ApprovedAmount = round2(out.ApprovedAmount)
	out.PendingAmount = round2(out.PendingAmount)
	for k, v := range out.ByCategory {
		out.ByCategory[k] = round2(v)
	}
	return out
}

type Invoices struct {
	TotalInvoices int            `json:"totalInvoices"`
	TotalBilled   float64        `json:"totalBilled"`
	PaidAmount    float64        `json:"paidAmount"`
	Outstanding   float64        `json:"outstanding"`
	Overdue       int            `json:"overdue"`
	ByStatus      map[string]int `json:"byStatus"`
}

// InvoiceStats excludes cancelled and draft invoices from the billed total.
func InvoiceStats(invoices []models.Invoice) Invoices {
	out := Invoices{ByStatus: map[string]int{}}
	for _, inv := range invoices {
		out.TotalInvoices++
		out.ByStatus[string(inv.Status)]++
		switch inv.Status {
		case models.InvoicePaid:
			out.TotalBilled += inv.Total
			out.PaidAmount += inv.Total
		case models.InvoiceSent:
			out.TotalBilled += inv.Total
			out.Outstanding += inv.Total
		case models.InvoiceOverdue:
			out.TotalBilled += inv.Total
			out.Outstanding += inv.Total
			out.Overdue++
		}
	}
	out.TotalBilled = round2(out.TotalBilled)
	out.PaidAmount = round2(out.PaidAmount)
	out.Outstanding = round2(out.Outstanding)
	return out
}

func round1(f float64) float64 { return math.Round(f*10) / 10 }
func round2(f float64) float64 { return math.Round(f*100) / 100 }
