package model

import "database/sql"

// User represents an account record as stored in the `users` table.
// Email is the login identifier and is unique across the table. The
// credential is treated as an opaque value: callers are expected to
// supply it already hashed, and it is compared verbatim.
//
// Fields:
//  ID       – primary key identifier, assigned on insert.
//  Name     – display name.
//  Email    – unique login identifier.
//  Password – opaque credential value.
//  Payment  – payment details blob; NULL when none are on file.
type User struct {
    ID       uint64         `db:"id"`       // users.id
    Name     string         `db:"name"`     // users.name
    Email    string         `db:"email"`    // users.email
    Password string         `db:"password"` // users.password
    Payment  sql.NullString `db:"payment"`  // users.payment (nullable)
}

// HasPayment reports whether payment details are on file.
func (u User) HasPayment() bool {
    return u.Payment.Valid
}
