package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"campus-canteen/internal/model"
)

// DailyItemRepo manages the item_daily table: one row per (catalog
// item, date) carrying the day's initial and sold quantities.  This is
// the ledger the order workflow decrements, so the reserve path is
// written as a single conditional UPDATE; everything else is plain CRUD.
type DailyItemRepo struct {
	db *sql.DB
}

// NewDailyItemRepo returns a new DailyItemRepo bound to the given database.
func NewDailyItemRepo(db *sql.DB) *DailyItemRepo { return &DailyItemRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *DailyItemRepo) DB() *sql.DB { return r.db }

// DailyItemDetail is the menu projection returned to clients: the daily
// quantities joined with the catalog fields the frontend renders.
type DailyItemDetail struct {
	DailyID    uint64 `json:"dailyId"`
	ItemID     uint64 `json:"itemId"`
	Date       string `json:"date"`
	InitialQty int    `json:"initialQty"`
	SoldQty    int    `json:"soldQty"`
	Available  int    `json:"availableQty"`
	ItemName   string `json:"itemName"`
	ItemPrice  int64  `json:"itemPrice"`
	Category   string `json:"itemCategory"`
	Image      string `json:"itemImage"`
}

const dailyDetailQuery = `SELECT d.daily_id, d.item_id, d.item_date, d.init_qty, d.sold_qty,
	   m.item_name, m.item_price, m.item_category, m.item_image
  FROM item_daily d
  JOIN item_master m ON m.id = d.item_id`

func scanDailyDetail(row interface{ Scan(...interface{}) error }) (DailyItemDetail, error) {
	var d DailyItemDetail
	var date time.Time
	err := row.Scan(&d.DailyID, &d.ItemID, &date, &d.InitialQty, &d.SoldQty,
		&d.ItemName, &d.ItemPrice, &d.Category, &d.Image)
	if err != nil {
		return d, err
	}
	d.Date = date.Format("2006-01-02")
	d.Available = d.InitialQty - d.SoldQty
	return d, nil
}

// EnsureToday creates or refreshes today's entry for a catalog item.
// An existing (item, today) row gets its init_qty overwritten without
// touching sold_qty; otherwise a fresh row starts at sold_qty=0.  A
// duplicate-key error on the insert means another request created the
// row between our update and insert, reported as ErrConflict.  Returns
// true when a new row was created.
func (r *DailyItemRepo) EnsureToday(ctx context.Context, itemID uint64, initialQty int) (bool, error) {
	res, err := r.db.ExecContext(ctx,
		"UPDATE item_daily SET init_qty=? WHERE item_id=? AND item_date=CURDATE()",
		initialQty, itemID)
	if err != nil {
		return false, err
	}
	if n, err := res.RowsAffected(); err != nil {
		return false, err
	} else if n > 0 {
		return false, nil
	}
	_, err = r.db.ExecContext(ctx,
		"INSERT INTO item_daily (item_id, item_date, init_qty, sold_qty) VALUES (?, CURDATE(), ?, 0)",
		itemID, initialQty)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return false, ErrConflict
		}
		return false, err
	}
	return true, nil
}

// ListAll returns every daily entry joined with its catalog item.
func (r *DailyItemRepo) ListAll(ctx context.Context) ([]DailyItemDetail, error) {
	rows, err := r.db.QueryContext(ctx, dailyDetailQuery+" ORDER BY d.daily_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]DailyItemDetail, 0)
	for rows.Next() {
		d, err := scanDailyDetail(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

// GetByID returns one daily entry joined with its catalog item.
func (r *DailyItemRepo) GetByID(ctx context.Context, dailyID uint64) (DailyItemDetail, error) {
	row := r.db.QueryRowContext(ctx, dailyDetailQuery+" WHERE d.daily_id=? LIMIT 1", dailyID)
	return scanDailyDetail(row)
}

// Update overwrites init_qty and/or sold_qty of an entry.  Nil fields
// are left untouched.  This is the admin correction path; ordering goes
// through ReserveTx only.
func (r *DailyItemRepo) Update(ctx context.Context, dailyID uint64, initialQty, soldQty *int) error {
	sets := make([]string, 0, 2)
	args := make([]interface{}, 0, 3)
	if initialQty != nil {
		sets = append(sets, "init_qty=?")
		args = append(args, *initialQty)
	}
	if soldQty != nil {
		sets = append(sets, "sold_qty=?")
		args = append(args, *soldQty)
	}
	if len(sets) == 0 {
		return nil
	}
	args = append(args, dailyID)
	res, err := r.db.ExecContext(ctx,
		"UPDATE item_daily SET "+strings.Join(sets, ", ")+" WHERE daily_id=?", args...)
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

// Delete removes one daily entry.  Returns sql.ErrNoRows when absent.
func (r *DailyItemRepo) Delete(ctx context.Context, dailyID uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM item_daily WHERE daily_id=?", dailyID)
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

// ResetAll clears the whole ledger and reports how many entries were
// removed.  Safe to call on an empty table; used by the midnight reset
// and the admin "clear menu" endpoint.
func (r *DailyItemRepo) ResetAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, "DELETE FROM item_daily")
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// FindTodayByItem returns today's entry for a catalog item joined with
// its catalog fields.  sql.ErrNoRows when the item is not on today's menu.
func (r *DailyItemRepo) FindTodayByItem(ctx context.Context, itemID uint64) (DailyItemDetail, error) {
	row := r.db.QueryRowContext(ctx,
		dailyDetailQuery+" WHERE d.item_id=? AND d.item_date=CURDATE() LIMIT 1", itemID)
	return scanDailyDetail(row)
}

// FindTodayByItemTx resolves today's entry for a catalog item inside an
// existing transaction.  sql.ErrNoRows means the item was never added
// to today's menu, which the order workflow reports as a conflict.
func (r *DailyItemRepo) FindTodayByItemTx(ctx context.Context, tx *sql.Tx, itemID uint64) (model.ItemDaily, error) {
	var d model.ItemDaily
	err := tx.QueryRowContext(ctx,
		`SELECT daily_id, item_id, item_date, init_qty, sold_qty
		   FROM item_daily WHERE item_id=? AND item_date=CURDATE() LIMIT 1`,
		itemID).Scan(&d.DailyID, &d.ItemID, &d.Date, &d.InitialQty, &d.SoldQty)
	return d, err
}

// ReserveTx decrements available stock for one entry.  The check and
// increment are a single statement so two concurrent orders can never
// both pass the availability check and jointly oversell: the WHERE
// clause only matches while the requested quantity still fits, and a
// zero affected-row count means the reservation failed.  On failure the
// current availability is read back for the error message; the caller
// rolls back the surrounding transaction, discarding any reservations
// made earlier in the same placement.
func (r *DailyItemRepo) ReserveTx(ctx context.Context, tx *sql.Tx, dailyID uint64, qty int) (int, error) {
	res, err := tx.ExecContext(ctx,
		"UPDATE item_daily SET sold_qty = sold_qty + ? WHERE daily_id = ? AND sold_qty + ? <= init_qty",
		qty, dailyID, qty)
	if err != nil {
		return 0, err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if n > 0 {
		return 0, nil
	}
	var available int
	if err := tx.QueryRowContext(ctx,
		"SELECT init_qty - sold_qty FROM item_daily WHERE daily_id=?", dailyID).Scan(&available); err != nil {
		return 0, err
	}
	return available, &InsufficientStockError{Available: available, Requested: qty}
}
