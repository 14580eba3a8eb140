package domain

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sendinvoices/sendinvoices/pkg/cryptox"
	"github.com/sendinvoices/sendinvoices/pkg/idx"
)

// Invoice statuses. The transition is monotonic: unpaid -> paid, never back.
const (
	StatusUnpaid = "unpaid"
	StatusPaid   = "paid"
)

// ReferenceLength is the number of digits in a human-readable invoice
// reference. References are random and not unique across invoices.
const ReferenceLength = 5

// Amount bounds in major units (dollars).
var (
	MinAmount = decimal.NewFromInt(1)
	MaxAmount = decimal.NewFromInt(10000)
)

// Invoice is a request for payment sent to a recipient email address.
// Charge holds the processor's raw charge result and is set exactly when
// Status is paid.
type Invoice struct {
	ID          string
	UserID      string
	Reference   string
	Email       string
	Amount      decimal.Decimal
	AmountMinor int64
	Charge      json.RawMessage // nil until paid
	Status      string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewInvoice builds a fully derived unpaid Invoice. The reference and minor
// amount are computed here, never at persistence time, so the store only
// ever sees complete records.
func NewInvoice(userID, email string, amount decimal.Decimal) Invoice {
	now := time.Now().UTC()
	return Invoice{
		ID:          idx.New().String(),
		UserID:      userID,
		Reference:   cryptox.MustGenerateNumericReference(ReferenceLength),
		Email:       email,
		Amount:      amount,
		AmountMinor: MinorUnits(amount),
		Status:      StatusUnpaid,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// MinorUnits converts a major-unit amount to minor units: round(amount*100).
// Computed in decimal space so 19.995 rounds to 2000, not 1999.
func MinorUnits(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func (i Invoice) Paid() bool { return i.Status == StatusPaid }
