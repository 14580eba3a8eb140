package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/sendinvoices/sendinvoices/internal/invoicing/domain"
	"github.com/sendinvoices/sendinvoices/internal/invoicing/store"
)

type invoicesRepo struct {
	db *sql.DB
}

const invoiceColumns = `id, user_id, reference, email, amount, amount_minor, charge, status, created_at, updated_at`

func (r *invoicesRepo) GetInvoiceByID(ctx context.Context, id string) (domain.Invoice, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE id = ?`, id)
	return scanInvoice(row)
}

func (r *invoicesRepo) CreateInvoice(ctx context.Context, inv domain.Invoice) error {
	var charge any
	if inv.Charge != nil {
		charge = string(inv.Charge)
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO invoices (id, user_id, reference, email, amount, amount_minor, charge, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.UserID, inv.Reference, inv.Email,
		inv.Amount.String(), inv.AmountMinor, charge, inv.Status,
		inv.CreatedAt, inv.UpdatedAt,
	)
	return err
}

// MarkInvoicePaid flips an invoice to paid and attaches the charge result.
// The status guard in the WHERE clause makes the transition atomic: of two
// concurrent payment attempts only one update matches a row, the other gets
// ErrConflict.
func (r *invoicesRepo) MarkInvoicePaid(ctx context.Context, invoiceID string, charge json.RawMessage) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE invoices SET status = ?, charge = ?, updated_at = ?
		 WHERE id = ? AND status = ?`,
		domain.StatusPaid, string(charge), time.Now().UTC(),
		invoiceID, domain.StatusUnpaid,
	)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return store.ErrConflict
	}
	return nil
}

func (r *invoicesRepo) ListInvoicesByUser(ctx context.Context, userID string) ([]domain.Invoice, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+invoiceColumns+` FROM invoices WHERE user_id = ? ORDER BY created_at DESC, id DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var invoices []domain.Invoice
	for rows.Next() {
		inv, err := scanInvoice(rows)
		if err != nil {
			return nil, err
		}
		invoices = append(invoices, inv)
	}
	return invoices, rows.Err()
}

func scanInvoice(row rowScanner) (domain.Invoice, error) {
	var (
		inv    domain.Invoice
		amount string
		charge sql.NullString
	)
	err := row.Scan(
		&inv.ID, &inv.UserID, &inv.Reference, &inv.Email,
		&amount, &inv.AmountMinor, &charge, &inv.Status,
		&inv.CreatedAt, &inv.UpdatedAt,
	)
	if err != nil {
		return domain.Invoice{}, mapNotFound(err)
	}

	inv.Amount, err = decimal.NewFromString(amount)
	if err != nil {
		return domain.Invoice{}, fmt.Errorf("corrupt amount %q for invoice %s: %w", amount, inv.ID, err)
	}
	if charge.Valid {
		inv.Charge = json.RawMessage(charge.String)
	}
	return inv, nil
}
