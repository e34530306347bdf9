package model

import "time"

// Student mirrors the `students` table.  A student owns zero or more
// orders and recharge history rows; those persist independently once
// created.  Balance is an integer amount of currency units and must
// never go negative.
//
// Fields:
//  StudentID    – primary key identifier.
//  Name         – display name.
//  Email        – unique email address, shared with the linked users row.
//  PasswordHash – bcrypt hashed password (duplicated on the users row).
//  MobileNo     – contact number.
//  Balance      – wallet balance in currency units.
//  DOB          – date of birth (date only).
//  Course       – enrolled course name (closed enum, stored as string).
//  UserID       – foreign key into users.
//  CreatedAt    – timestamp of creation.
type Student struct {
	StudentID    uint64    // students.student_id
	Name         string    // students.name
	Email        string    // students.email
	PasswordHash string    // students.password_hash
	MobileNo     string    // students.mobile_no
	Balance      int64     // students.balance
	DOB          time.Time // students.dob
	Course       string    // students.course_name
	UserID       uint64    // students.user_id
	CreatedAt    time.Time // students.created_at
}
