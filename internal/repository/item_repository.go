package repository

import (
	"context"
	"database/sql"
	"strings"

	"campus-canteen/internal/model"
)

// ItemRepo provides CRUD access to the item_master catalog.  Catalog
// rows are the master product records; per-day availability lives in
// item_daily and is managed by DailyItemRepo.
type ItemRepo struct {
	db *sql.DB
}

// NewItemRepo returns a new ItemRepo bound to the given database.
func NewItemRepo(db *sql.DB) *ItemRepo { return &ItemRepo{db: db} }

// Create inserts a catalog item and populates the generated ID.
func (r *ItemRepo) Create(ctx context.Context, it *model.ItemMaster) error {
	res, err := r.db.ExecContext(ctx,
		"INSERT INTO item_master (item_name, item_price, item_category, item_image) VALUES (?,?,?,?)",
		it.Name, it.Price, it.Category, it.Image)
	if err != nil {
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	it.ID = uint64(id)
	return nil
}

// GetByID fetches a catalog item by id.
func (r *ItemRepo) GetByID(ctx context.Context, id uint64) (model.ItemMaster, error) {
	var it model.ItemMaster
	err := r.db.QueryRowContext(ctx,
		"SELECT id,item_name,item_price,item_category,item_image FROM item_master WHERE id=? LIMIT 1",
		id).Scan(&it.ID, &it.Name, &it.Price, &it.Category, &it.Image)
	return it, err
}

// GetByIDTx is GetByID within an existing transaction, used while
// placing an order so line items resolve against the same snapshot.
func (r *ItemRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.ItemMaster, error) {
	var it model.ItemMaster
	err := tx.QueryRowContext(ctx,
		"SELECT id,item_name,item_price,item_category,item_image FROM item_master WHERE id=? LIMIT 1",
		id).Scan(&it.ID, &it.Name, &it.Price, &it.Category, &it.Image)
	return it, err
}

// List returns the whole catalog ordered by id.
func (r *ItemRepo) List(ctx context.Context) ([]model.ItemMaster, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT id,item_name,item_price,item_category,item_image FROM item_master ORDER BY id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.ItemMaster, 0)
	for rows.Next() {
		var it model.ItemMaster
		if err := rows.Scan(&it.ID, &it.Name, &it.Price, &it.Category, &it.Image); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Update overwrites a catalog item.  Returns sql.ErrNoRows when absent.
func (r *ItemRepo) Update(ctx context.Context, it model.ItemMaster) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE item_master SET item_name=?, item_price=?, item_category=?, item_image=? WHERE id=?",
		it.Name, it.Price, it.Category, it.Image, it.ID)
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

// Delete removes a catalog item.  Cart lines keep a restricting FK on
// item_master, so deleting an item that has ever been ordered yields
// ErrConflict rather than orphaning order history.
func (r *ItemRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM item_master WHERE id=?", id)
	if err != nil {
		// 1451: row is referenced by a foreign key
		if strings.Contains(err.Error(), "1451") {
			return ErrConflict
		}
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
