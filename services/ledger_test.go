package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ashishpimple94/hostel-backend/models"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestBuildLedger_SortsByDateAndCarriesBalance(t *testing.T) {
	paid := date(2024, 1, 15)
	student := &models.Student{EnrollmentDate: date(2023, 12, 1)}
	fees := []models.Fee{
		{ID: 1, FeeType: models.FeeHostel, Amount: 1000, DueDate: date(2024, 1, 1), Status: models.FeePending},
		{ID: 2, FeeType: models.FeeMess, Amount: 2000, DueDate: date(2024, 2, 1), Status: models.FeePaid, PaidDate: &paid, PaymentMethod: "upi"},
	}

	entries, summary := BuildLedger(student, fees, date(2024, 3, 1))

	require.Len(t, entries, 3)

	// The payment dated 2024-01-15 sorts between the two charges even
	// though it was emitted last.
	assert.Equal(t, "Fee", entries[0].Type)
	assert.Equal(t, date(2024, 1, 1), entries[0].Date)
	assert.Equal(t, 1000.0, entries[0].Debit)
	assert.Equal(t, 1000.0, entries[0].Balance)

	assert.Equal(t, "Payment", entries[1].Type)
	assert.Equal(t, date(2024, 1, 15), entries[1].Date)
	assert.Equal(t, 2000.0, entries[1].Credit)
	assert.Equal(t, -1000.0, entries[1].Balance)

	assert.Equal(t, "Fee", entries[2].Type)
	assert.Equal(t, date(2024, 2, 1), entries[2].Date)
	assert.Equal(t, 2000.0, entries[2].Debit)
	assert.Equal(t, 1000.0, entries[2].Balance)

	assert.Equal(t, 1000.0, summary.CurrentBalance)
	assert.Equal(t, 3000.0, summary.TotalFees)
	assert.Equal(t, 2000.0, summary.TotalPaid)
	assert.Equal(t, 1000.0, summary.TotalPending)
	assert.Equal(t, 3, summary.TotalTransactions)
}

func TestBuildLedger_ChargePrecedesItsPaymentOnSameDate(t *testing.T) {
	paid := date(2024, 1, 1)
	student := &models.Student{EnrollmentDate: date(2024, 1, 1)}
	fees := []models.Fee{
		{ID: 1, FeeType: models.FeeHostel, Amount: 500, DueDate: date(2024, 1, 1), Status: models.FeePaid, PaidDate: &paid},
	}

	entries, summary := BuildLedger(student, fees, date(2024, 1, 2))

	require.Len(t, entries, 2)
	assert.Equal(t, "Fee", entries[0].Type)
	assert.Equal(t, 500.0, entries[0].Balance)
	assert.Equal(t, "Payment", entries[1].Type)
	assert.Equal(t, 0.0, entries[1].Balance)
	assert.Equal(t, 0.0, summary.CurrentBalance)
}

func TestBuildLedger_PaidDepositIsRefundable(t *testing.T) {
	paid := date(2024, 1, 5)
	student := &models.Student{EnrollmentDate: date(2024, 1, 1)}
	fees := []models.Fee{
		{ID: 1, FeeType: models.FeeHostel, Amount: 1000, DueDate: date(2024, 1, 1), Status: models.FeePending},
		{ID: 2, FeeType: models.FeeSecurity, Amount: 2000, DueDate: date(2024, 1, 1), Status: models.FeePaid, PaidDate: &paid},
	}

	_, summary := BuildLedger(student, fees, date(2024, 2, 1))

	assert.Equal(t, 2000.0, summary.TotalDeposit)
	assert.Equal(t, 2000.0, summary.DepositPaid)
	assert.Equal(t, 2000.0, summary.RefundableAmount)
	assert.Equal(t, 1000.0, summary.CurrentBalance)
	// The paid deposit offsets the outstanding balance; the student is
	// owed a refund.
	assert.Equal(t, -1000.0, summary.TotalDue)
}

func TestBuildLedger_UnpaidDepositIsNotRefundable(t *testing.T) {
	student := &models.Student{EnrollmentDate: date(2024, 1, 1)}
	fees := []models.Fee{
		{ID: 1, FeeType: models.FeeSecurity, Amount: 2000, DueDate: date(2024, 1, 1), Status: models.FeePending},
	}

	_, summary := BuildLedger(student, fees, date(2024, 2, 1))

	assert.Equal(t, 2000.0, summary.TotalDeposit)
	assert.Equal(t, 0.0, summary.DepositPaid)
	assert.Equal(t, 2000.0, summary.CurrentBalance)
	assert.Equal(t, 2000.0, summary.TotalDue)
}

func TestBuildLedger_StayDuration(t *testing.T) {
	student := &models.Student{EnrollmentDate: date(2024, 1, 1)}

	_, summary := BuildLedger(student, nil, date(2024, 4, 1)) // 91 days

	assert.Equal(t, 91, summary.StayDurationDays)
	assert.Equal(t, 3, summary.StayDurationMonths)
	assert.Equal(t, 0.0, summary.CurrentBalance)
	assert.Equal(t, 0, summary.TotalTransactions)
}

func TestBuildLedger_Empty(t *testing.T) {
	student := &models.Student{EnrollmentDate: date(2024, 1, 1)}
	entries, summary := BuildLedger(student, []models.Fee{}, date(2024, 1, 1))
	assert.Empty(t, entries)
	assert.Equal(t, 0.0, summary.TotalDue)
}
