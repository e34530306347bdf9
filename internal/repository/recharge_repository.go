package repository

import (
	"context"
	"database/sql"
	"time"

	"campus-canteen/internal/model"
)

// RechargeRepo provides access to the recharge_history table.  The
// insert happens inside the same transaction as the wallet credit; the
// remaining methods are admin-facing history CRUD.
type RechargeRepo struct {
	db *sql.DB
}

// NewRechargeRepo returns a new RechargeRepo bound to the given database.
func NewRechargeRepo(db *sql.DB) *RechargeRepo { return &RechargeRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *RechargeRepo) DB() *sql.DB { return r.db }

// InsertTx appends a recharge row within an existing transaction and
// populates the generated ID.  Pairs with StudentRepo.AddBalanceTx.
func (r *RechargeRepo) InsertTx(ctx context.Context, tx *sql.Tx, h *model.RechargeHistory) error {
	res, err := tx.ExecContext(ctx,
		"INSERT INTO recharge_history (student_id, amount_added, payment_id, time_stamp) VALUES (?,?,?,?)",
		h.StudentID, h.AmountAdded, h.PaymentID, h.Timestamp.UTC().Format("2006-01-02 15:04:05"))
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	h.TransactionID = uint64(id)
	return nil
}

const rechargeCols = "transaction_id, student_id, amount_added, payment_id, time_stamp"

// ListByStudent returns a student's recharge history, newest first.
func (r *RechargeRepo) ListByStudent(ctx context.Context, studentID uint64) ([]model.RechargeHistory, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+rechargeCols+" FROM recharge_history WHERE student_id=? ORDER BY time_stamp DESC",
		studentID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.RechargeHistory, 0)
	for rows.Next() {
		var h model.RechargeHistory
		var ts time.Time
		if err := rows.Scan(&h.TransactionID, &h.StudentID, &h.AmountAdded, &h.PaymentID, &ts); err != nil {
			return nil, err
		}
		h.Timestamp = ts.UTC()
		out = append(out, h)
	}
	return out, rows.Err()
}

// GetByID returns one recharge row.  sql.ErrNoRows when absent.
func (r *RechargeRepo) GetByID(ctx context.Context, tranID uint64) (model.RechargeHistory, error) {
	var h model.RechargeHistory
	var ts time.Time
	err := r.db.QueryRowContext(ctx,
		"SELECT "+rechargeCols+" FROM recharge_history WHERE transaction_id=? LIMIT 1",
		tranID).Scan(&h.TransactionID, &h.StudentID, &h.AmountAdded, &h.PaymentID, &ts)
	if err != nil {
		return h, err
	}
	h.Timestamp = ts.UTC()
	return h, nil
}

// Update overwrites the external payment reference of a recharge row.
// An administrative correction; the amount and wallet balance are not
// rewritten here because the balance was credited at recharge time.
func (r *RechargeRepo) Update(ctx context.Context, tranID uint64, paymentID string) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE recharge_history SET payment_id=? WHERE transaction_id=?", paymentID, tranID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a recharge row.  The wallet balance is deliberately
// left alone; deleting history is bookkeeping, not a refund.
func (r *RechargeRepo) Delete(ctx context.Context, tranID uint64) error {
	res, err := r.db.ExecContext(ctx,
		"DELETE FROM recharge_history WHERE transaction_id=?", tranID)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return sql.ErrNoRows
	}
	return nil
}
