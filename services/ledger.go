package services

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/ashishpimple94/hostel-backend/models"
)

// LedgerEntry is one dated charge or payment in a student's statement.
type LedgerEntry struct {
	Date          time.Time  `json:"date"`
	Type          string     `json:"type"` // "Fee" | "Payment"
	Description   string     `json:"description"`
	Debit         float64    `json:"debit"`
	Credit        float64    `json:"credit"`
	Balance       float64    `json:"balance"`
	Status        string     `json:"status"`
	PaidDate      *time.Time `json:"paid_date,omitempty"`
	PaymentMethod string     `json:"payment_method,omitempty"`
	TransactionID string     `json:"transaction_id,omitempty"`
	Semester      int        `json:"semester,omitempty"`
	Year          int        `json:"year,omitempty"`
	FeeID         uint       `json:"fee_id"`
}

type LedgerSummary struct {
	AdmissionDate      time.Time `json:"admission_date"`
	StayDurationDays   int       `json:"stay_duration_days"`
	StayDurationMonths int       `json:"stay_duration_months"`
	TotalFees          float64   `json:"total_fees"`
	TotalPaid          float64   `json:"total_paid"`
	TotalPending       float64   `json:"total_pending"`
	TotalDeposit       float64   `json:"total_deposit"`
	DepositPaid        float64   `json:"deposit_paid"`
	RefundableAmount   float64   `json:"refundable_amount"`
	CurrentBalance     float64   `json:"current_balance"`
	TotalDue           float64   `json:"total_due"`
	TotalTransactions  int       `json:"total_transactions"`
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

func chargeDescription(f models.Fee) string {
	desc := titleCase(f.FeeType) + " Fee"
	if f.Semester != 0 {
		desc += fmt.Sprintf(" - Semester %d", f.Semester)
	}
	if f.Year != 0 {
		desc += fmt.Sprintf(", Year %d", f.Year)
	}
	return desc
}

func paymentDescription(f models.Fee) string {
	method := f.PaymentMethod
	if method == "" {
		method = "N/A"
	}
	return fmt.Sprintf("Payment for %s fee via %s", f.FeeType, method)
}

// BuildLedger derives the chronological, balance-carrying statement for
// one student from their full fee history. Each fee emits a charge entry
// dated at its due date; a paid fee with a paid date additionally emits a
// payment entry. Entries are sorted by date ascending with emission order
// preserved on ties, then the running balance is computed in that final
// order. The computation is pure: no writes, no clock reads beyond the
// caller-supplied now.
func BuildLedger(student *models.Student, fees []models.Fee, now time.Time) ([]LedgerEntry, LedgerSummary) {
	entries := make([]LedgerEntry, 0, len(fees)*2)
	for _, f := range fees {
		entries = append(entries, LedgerEntry{
			Date:          f.DueDate,
			Type:          "Fee",
			Description:   chargeDescription(f),
			Debit:         f.Amount,
			Status:        f.Status,
			PaidDate:      f.PaidDate,
			PaymentMethod: f.PaymentMethod,
			TransactionID: f.TransactionID,
			Semester:      f.Semester,
			Year:          f.Year,
			FeeID:         f.ID,
		})
	}
	for _, f := range fees {
		if f.Status != models.FeePaid || f.PaidDate == nil {
			continue
		}
		entries = append(entries, LedgerEntry{
			Date:          *f.PaidDate,
			Type:          "Payment",
			Description:   paymentDescription(f),
			Credit:        f.Amount,
			Status:        models.FeePaid,
			PaymentMethod: f.PaymentMethod,
			TransactionID: f.TransactionID,
			FeeID:         f.ID,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Date.Before(entries[j].Date)
	})

	balance := 0.0
	for i := range entries {
		balance += entries[i].Debit - entries[i].Credit
		entries[i].Balance = balance
	}

	summary := LedgerSummary{
		AdmissionDate:     student.EnrollmentDate,
		CurrentBalance:    balance,
		TotalTransactions: len(entries),
	}
	if days := int(now.Sub(student.EnrollmentDate).Hours() / 24); days > 0 {
		summary.StayDurationDays = days
	}
	summary.StayDurationMonths = summary.StayDurationDays / 30

	for _, f := range fees {
		summary.TotalFees += f.Amount
		if f.Status == models.FeePaid {
			summary.TotalPaid += f.Amount
		} else {
			summary.TotalPending += f.Amount
		}
		if f.FeeType == models.FeeSecurity {
			summary.TotalDeposit += f.Amount
			if f.Status == models.FeePaid {
				summary.DepositPaid += f.Amount
			}
		}
	}
	// Paid security deposits are fully refundable.
	summary.RefundableAmount = summary.DepositPaid
	summary.TotalDue = summary.CurrentBalance - summary.RefundableAmount

	return entries, summary
}
