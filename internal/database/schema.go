package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/iliyamo/mbs-backend/internal/model"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

// tables lists the create statements in dependency order.  Tickets and
// reviews intentionally carry no foreign keys: deleting a user or a movie
// leaves them in place.  Credentials compare byte for byte, so the password
// column uses a binary collation instead of the case-insensitive default.
var tables = []struct {
	name string
	ddl  string
}{
	{"users", `CREATE TABLE IF NOT EXISTS users (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL DEFAULT '',
		email VARCHAR(255) NOT NULL,
		password VARCHAR(255) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL,
		payment TEXT NULL,
		UNIQUE KEY uq_users_email (email)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"theaters", `CREATE TABLE IF NOT EXISTS theaters (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		INDEX idx_theaters_name (name)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"movies", `CREATE TABLE IF NOT EXISTS movies (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		name VARCHAR(255) NOT NULL,
		showtime VARCHAR(64) NOT NULL,
		price DECIMAL(10,2) NOT NULL,
		rating ENUM('G','PG','PG13','R','NC17') NOT NULL,
		theater_id BIGINT UNSIGNED NULL,
		CHECK (price >= 0),
		INDEX idx_movies_name (name),
		INDEX idx_movies_theater (theater_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"tickets", `CREATE TABLE IF NOT EXISTS tickets (
		id BIGINT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		user_id BIGINT UNSIGNED NOT NULL,
		movie_id BIGINT UNSIGNED NOT NULL,
		quantity INT UNSIGNED NOT NULL DEFAULT 1,
		purchased_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		CHECK (quantity >= 1),
		INDEX idx_tickets_user (user_id),
		INDEX idx_tickets_movie (movie_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"admins", `CREATE TABLE IF NOT EXISTS admins (
		user_id BIGINT UNSIGNED NOT NULL PRIMARY KEY,
		CONSTRAINT fk_admins_user FOREIGN KEY (user_id) REFERENCES users (id) ON DELETE CASCADE
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
	{"reviews", `CREATE TABLE IF NOT EXISTS reviews (
		user_id BIGINT UNSIGNED NOT NULL,
		movie_id BIGINT UNSIGNED NOT NULL,
		review TEXT NOT NULL,
		PRIMARY KEY (user_id, movie_id),
		INDEX idx_reviews_movie (movie_id)
	) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4`},
}

// EnsureSchema creates the six relations if they are absent and seeds the
// default privileged account.  A rejected create statement is returned as
// an error; seed problems are logged and skipped.
func EnsureSchema(ctx context.Context, db *sqlx.DB, reserved string, log *zap.Logger) error {
	for _, t := range tables {
		if _, err := db.ExecContext(ctx, t.ddl); err != nil {
			return fmt.Errorf("create table %s: %w", t.name, err)
		}
		log.Debug("table ready", zap.String("table", t.name))
	}
	seedDefaultAdmin(ctx, db, reserved, log)
	return nil
}

// seedDefaultAdmin makes sure the reserved account exists and is an admin.
// The reserved identifier doubles as name, email, credential and payment.
func seedDefaultAdmin(ctx context.Context, db *sqlx.DB, reserved string, log *zap.Logger) {
	users := repository.NewUserRepo(db)

	var userID uint64
	u, err := users.GetByEmail(ctx, reserved)
	switch {
	case err == nil:
		userID = u.ID
	case errors.Is(err, repository.ErrNotFound):
	default:
		log.Error("seed: lookup default admin failed", zap.Error(err))
	}

	if userID == 0 {
		id, err := users.Create(ctx, model.User{
			Name:     reserved,
			Email:    reserved,
			Password: reserved,
			Payment:  sql.NullString{String: reserved, Valid: true},
		})
		if err != nil {
			log.Error("seed: create default admin failed", zap.Error(err))
			return
		}
		userID = id
		log.Warn("seeded default admin account; change its credentials before deploying",
			zap.String("email", reserved))
	}

	if err := repository.NewAdminRepo(db).EnsureGranted(ctx, userID); err != nil {
		log.Error("seed: grant default admin failed", zap.Error(err), zap.Uint64("user_id", userID))
	}
}
