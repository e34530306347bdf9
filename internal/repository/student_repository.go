package repository

import (
	"context"
	"database/sql"
	"strings"

	"campus-canteen/internal/model"
)

// StudentRepo provides data access to the students table.  Student rows
// always pair with a users row created in the same transaction; see the
// registration handler for the tx layout.
type StudentRepo struct {
	db *sql.DB
}

// NewStudentRepo returns a new StudentRepo bound to the given database.
func NewStudentRepo(db *sql.DB) *StudentRepo { return &StudentRepo{db: db} }

// DB exposes the underlying handle for handler-owned transactions.
func (r *StudentRepo) DB() *sql.DB { return r.db }

const studentCols = "student_id,name,email,password_hash,mobile_no,balance,dob,course_name,user_id,created_at"

func scanStudent(row interface{ Scan(...interface{}) error }) (model.Student, error) {
	var s model.Student
	var dob sql.NullTime
	err := row.Scan(&s.StudentID, &s.Name, &s.Email, &s.PasswordHash, &s.MobileNo,
		&s.Balance, &dob, &s.Course, &s.UserID, &s.CreatedAt)
	if dob.Valid {
		s.DOB = dob.Time
	}
	return s, err
}

// CreateTx inserts a student row within an existing transaction and
// populates the generated ID.  The caller has already inserted the
// linked users row and supplies its ID.
func (r *StudentRepo) CreateTx(ctx context.Context, tx *sql.Tx, s *model.Student) error {
	res, err := tx.ExecContext(ctx,
		`INSERT INTO students (name, email, password_hash, mobile_no, balance, dob, course_name, user_id)
		 VALUES (?,?,?,?,?,?,?,?)`,
		s.Name, strings.ToLower(strings.TrimSpace(s.Email)), s.PasswordHash, s.MobileNo,
		s.Balance, s.DOB.Format("2006-01-02"), s.Course, s.UserID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
		}
		return err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return err
	}
	s.StudentID = uint64(id)
	return nil
}

// GetByID fetches a student by id.
func (r *StudentRepo) GetByID(ctx context.Context, id uint64) (model.Student, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE student_id=? LIMIT 1", id)
	return scanStudent(row)
}

// GetByIDTx is GetByID inside an existing transaction.  The order
// placement flow resolves the student this way so the whole placement
// sees one consistent snapshot.
func (r *StudentRepo) GetByIDTx(ctx context.Context, tx *sql.Tx, id uint64) (model.Student, error) {
	row := tx.QueryRowContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE student_id=? LIMIT 1", id)
	return scanStudent(row)
}

// GetByEmail fetches a student by normalized email.
func (r *StudentRepo) GetByEmail(ctx context.Context, email string) (model.Student, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+studentCols+" FROM students WHERE email=? LIMIT 1",
		strings.ToLower(strings.TrimSpace(email)))
	return scanStudent(row)
}

// List returns all students ordered by id.
func (r *StudentRepo) List(ctx context.Context) ([]model.Student, error) {
	rows, err := r.db.QueryContext(ctx,
		"SELECT "+studentCols+" FROM students ORDER BY student_id")
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]model.Student, 0)
	for rows.Next() {
		s, err := scanStudent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

// Count returns the number of registered students.
func (r *StudentRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM students").Scan(&n)
	return n, err
}

// Update overwrites the mutable profile fields of a student.  Returns
// sql.ErrNoRows when the student does not exist.
func (r *StudentRepo) Update(ctx context.Context, s model.Student) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE students SET name=?, email=?, mobile_no=?, balance=?, dob=?, course_name=?
		 WHERE student_id=?`,
		s.Name, strings.ToLower(strings.TrimSpace(s.Email)), s.MobileNo,
		s.Balance, s.DOB.Format("2006-01-02"), s.Course, s.StudentID)
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "1062") {
			return ErrEmailExists
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

// Delete removes a student row.  The linked users row and owned orders
// and recharge history go with it via FK cascade.
func (r *StudentRepo) Delete(ctx context.Context, id uint64) error {
	res, err := r.db.ExecContext(ctx, "DELETE FROM students WHERE student_id=?", id)
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

// SetBalance is the administrative override: no validation beyond
// existence, documented as a blunt instrument rather than a ledger
// operation.
func (r *StudentRepo) SetBalance(ctx context.Context, id uint64, balance int64) error {
	res, err := r.db.ExecContext(ctx,
		"UPDATE students SET balance=? WHERE student_id=?", balance, id)
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

// AddBalanceTx credits a student's wallet inside an existing
// transaction.  The recharge handler pairs this with the history insert
// so both commit or neither does.
func (r *StudentRepo) AddBalanceTx(ctx context.Context, tx *sql.Tx, id uint64, amount int64) error {
	res, err := tx.ExecContext(ctx,
		"UPDATE students SET balance = balance + ? WHERE student_id=?", amount, id)
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

// UpdatePasswordTx overwrites the student's stored hash inside an
// existing transaction; the caller updates the linked users row with
// the same hash.
func (r *StudentRepo) UpdatePasswordTx(ctx context.Context, tx *sql.Tx, id uint64, passwordHash string) error {
	_, err := tx.ExecContext(ctx,
		"UPDATE students SET password_hash=? WHERE student_id=?", passwordHash, id)
	return err
}
