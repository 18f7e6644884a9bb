// Sentinel errors shared by the repositories.  Handlers compare against
// these with errors.Is to pick the message returned to the caller; the
// wrapped driver error is only ever logged.
package repository

import (
	"errors"

	"github.com/go-sql-driver/mysql"
)

// ErrNotFound is returned when a lookup or a targeted delete matches no row.
var ErrNotFound = errors.New("not found")

// ErrDuplicate is returned when an insert collides with a unique or
// primary key, such as a second account with the same email or a second
// review of the same movie by the same user.
var ErrDuplicate = errors.New("duplicate key")

// ErrInvalidCredentials is returned when no user matches an email and
// credential pair.  It deliberately does not say which half was wrong.
var ErrInvalidCredentials = errors.New("invalid credentials")

// mysqlDuplicateEntry is ER_DUP_ENTRY.
const mysqlDuplicateEntry = 1062

func isDuplicateKeyError(err error) bool {
	var myErr *mysql.MySQLError
	return errors.As(err, &myErr) && myErr.Number == mysqlDuplicateEntry
}
