package model

import "time"

// Roles recognised by the authorization layer.  The value is stored in
// the users.role column and carried in the JWT "role" claim.
const (
	RoleStudent = "STUDENT"
	RoleAdmin   = "ADMIN"
)

// User represents an authentication identity as stored in the `users`
// table.  Student accounts have a matching row in `students` linked via
// students.user_id; the admin account is standalone.
//
// Fields:
//  ID           – primary key identifier of the user.
//  Email        – unique email address, always stored lower-cased.
//  PasswordHash – bcrypt hashed password.
//  Role         – STUDENT or ADMIN.
//  CreatedAt    – timestamp of creation.
type User struct {
	ID           uint64    // users.id
	Email        string    // users.email
	PasswordHash string    // users.password_hash
	Role         string    // users.role
	CreatedAt    time.Time // users.created_at
}
