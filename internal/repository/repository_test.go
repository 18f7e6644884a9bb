package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/go-sql-driver/mysql"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/mbs-backend/internal/model"
)

func newMockStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return NewStore(sqlx.NewDb(db, "mysql")), mock
}

var dupEntry = &mysql.MySQLError{Number: 1062, Message: "Duplicate entry"}

func userRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password", "payment"})
}

func TestUserCreate(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users (name, email, password, payment)")).
		WithArgs("Ann", "ann@example.com", "pw", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(5, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO users")).
		WillReturnError(dupEntry)

	err := store.WithConn(ctx, func(q DBTX) error {
		repo := NewUserRepo(q)
		id, err := repo.Create(ctx, model.User{Name: "Ann", Email: "ann@example.com", Password: "pw"})
		require.NoError(t, err)
		assert.Equal(t, uint64(5), id)

		_, err = repo.Create(ctx, model.User{Name: "Ann", Email: "ann@example.com", Password: "other"})
		assert.ErrorIs(t, err, ErrDuplicate)
		return nil
	})
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserGetByCredentials(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=? AND password=?")).
		WithArgs("ann@example.com", "pw").
		WillReturnRows(userRows().AddRow(3, "Ann", "ann@example.com", "pw", "visa"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=? AND password=?")).
		WithArgs("ann@example.com", "bad").
		WillReturnError(sql.ErrNoRows)

	_ = store.WithConn(ctx, func(q DBTX) error {
		u, err := NewUserRepo(q).GetByCredentials(ctx, "ann@example.com", "pw")
		require.NoError(t, err)
		assert.Equal(t, uint64(3), u.ID)
		assert.True(t, u.HasPayment())

		_, err = NewUserRepo(q).GetByCredentials(ctx, "ann@example.com", "bad")
		assert.ErrorIs(t, err, ErrInvalidCredentials)
		return nil
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserDeleteByCredentials(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM users WHERE email=? AND password=?")).
		WithArgs("a", "b").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := store.WithConn(ctx, func(q DBTX) error {
		return NewUserRepo(q).DeleteByCredentials(ctx, "a", "b")
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUserUpdatePaymentUnchangedValue(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	// Same value written again: zero rows affected, but the user exists.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET payment=?")).
		WithArgs("visa", "a", "b").
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=? AND password=?")).
		WillReturnRows(userRows().AddRow(1, "A", "a", "b", "visa"))

	// Wrong credentials: zero rows and no user.
	mock.ExpectExec(regexp.QuoteMeta("UPDATE users SET payment=?")).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectQuery(regexp.QuoteMeta("FROM users WHERE email=? AND password=?")).
		WillReturnError(sql.ErrNoRows)

	_ = store.WithConn(ctx, func(q DBTX) error {
		assert.NoError(t, NewUserRepo(q).UpdatePayment(ctx, "a", "b", "visa"))
		assert.ErrorIs(t, NewUserRepo(q).UpdatePayment(ctx, "a", "x", "visa"), ErrInvalidCredentials)
		return nil
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminGrantRevoke(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins (user_id) VALUES (?)")).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO admins (user_id) VALUES (?)")).
		WithArgs(7).WillReturnError(dupEntry)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admins WHERE user_id=?")).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM admins WHERE user_id=?")).
		WithArgs(7).WillReturnResult(sqlmock.NewResult(0, 0))

	_ = store.WithConn(ctx, func(q DBTX) error {
		repo := NewAdminRepo(q)
		assert.NoError(t, repo.Grant(ctx, 7))
		assert.ErrorIs(t, repo.Grant(ctx, 7), ErrDuplicate)
		assert.NoError(t, repo.Revoke(ctx, 7))
		assert.ErrorIs(t, repo.Revoke(ctx, 7), ErrNotFound)
		return nil
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieListFilters(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	cols := []string{"id", "name", "showtime", "price", "rating", "theater_id"}

	mock.ExpectQuery(regexp.QuoteMeta("FROM movies WHERE 1=1 ORDER BY id")).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(1, "Alien", "20:00", 9.5, "R", nil).
			AddRow(2, "Amelie", "18:00", 8.0, "PG", 3))
	mock.ExpectQuery(regexp.QuoteMeta("FROM movies WHERE name LIKE ? AND showtime = ? AND theater_id = ? ORDER BY id")).
		WithArgs(`50\%\_off%`, "20:00", 3).
		WillReturnRows(sqlmock.NewRows(cols))

	_ = store.WithConn(ctx, func(q DBTX) error {
		repo := NewMovieRepo(q)
		all, err := repo.List(ctx, MovieFilter{})
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, model.Rating("R"), all[0].Rating)
		assert.False(t, all[0].TheaterID.Valid)
		assert.Equal(t, int64(3), all[1].TheaterID.Int64)

		none, err := repo.List(ctx, MovieFilter{NamePrefix: "50%_off", Showtime: "20:00", TheaterID: 3})
		require.NoError(t, err)
		assert.Empty(t, none)
		assert.NotNil(t, none)
		return nil
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestMovieGetAndDeleteMissing(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectQuery(regexp.QuoteMeta("FROM movies WHERE id = ?")).
		WithArgs(9).WillReturnError(sql.ErrNoRows)
	mock.ExpectExec(regexp.QuoteMeta("DELETE FROM movies WHERE id = ?")).
		WithArgs(9).WillReturnResult(sqlmock.NewResult(0, 0))

	_ = store.WithConn(ctx, func(q DBTX) error {
		_, err := NewMovieRepo(q).GetByID(ctx, 9)
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, NewMovieRepo(q).Delete(ctx, 9), ErrNotFound)
		return nil
	})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestTicketListByUser(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

	mock.ExpectQuery(regexp.QuoteMeta("FROM tickets WHERE user_id=? AND movie_id=? ORDER BY id")).
		WithArgs(1, 4).
		WillReturnRows(sqlmock.NewRows([]string{"id", "user_id", "movie_id", "quantity", "purchased_at"}).
			AddRow(10, 1, 4, 2, at))

	var got []model.Ticket
	err := store.WithConn(ctx, func(q DBTX) error {
		var err error
		got, err = NewTicketRepo(q).ListByUser(ctx, 1, 4)
		return err
	})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, uint32(2), got[0].Quantity)
	assert.True(t, at.Equal(got[0].PurchasedAt))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestReviewDuplicate(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO reviews (user_id, movie_id, review)")).
		WithArgs(1, 2, "great").WillReturnError(dupEntry)

	err := store.WithConn(ctx, func(q DBTX) error {
		return NewReviewRepo(q).Create(ctx, model.Review{UserID: 1, MovieID: 2, Text: "great"})
	})
	assert.ErrorIs(t, err, ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCheckerIsAdminAndHasPayment(t *testing.T) {
	store, mock := newMockStore(t)
	ctx := context.Background()
	checker := NewChecker(store)

	mock.ExpectQuery(regexp.QuoteMeta("JOIN admins a ON a.user_id = u.id")).
		WithArgs("admin", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta("payment IS NOT NULL")).
		WithArgs("a", "b").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(0))

	ok, err := checker.IsAdmin(ctx, "admin", "admin")
	require.NoError(t, err)
	assert.True(t, ok)

	paid, err := checker.HasPayment(ctx, "a", "b")
	require.NoError(t, err)
	assert.False(t, paid)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestWithConnPropagatesError(t *testing.T) {
	store, _ := newMockStore(t)
	boom := errors.New("boom")
	err := store.WithConn(context.Background(), func(DBTX) error { return boom })
	assert.ErrorIs(t, err, boom)
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, `a\%b\_c\\d`, escapeLike(`a%b_c\d`))
	assert.Equal(t, "plain", escapeLike("plain"))
}
