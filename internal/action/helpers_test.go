package action

import (
	"context"
	"errors"
	"regexp"
	"sync"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/mbs-backend/internal/queue"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

type fakePublisher struct {
	mu     sync.Mutex
	events []queue.TicketPurchasedEvent
	err    error
}

func (f *fakePublisher) PublishTicketPurchased(_ context.Context, ev queue.TicketPurchasedEvent) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, ev)
	return f.err
}

type fixture struct {
	mock   sqlmock.Sqlmock
	events *fakePublisher
	h      *Handlers
	d      *Dispatcher
}

func newFixture(t *testing.T, policy DetailsPolicy) *fixture {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	events := &fakePublisher{}
	h := NewHandlers(repository.NewStore(sqlx.NewDb(db, "mysql")), Options{
		Events:        events,
		DetailsPolicy: policy,
	})
	reg, err := NewRegistry(h.Table())
	require.NoError(t, err)
	return &fixture{mock: mock, events: events, h: h, d: NewDispatcher(reg, nil)}
}

func (f *fixture) dispatch(raw string) Result {
	return f.d.Dispatch(context.Background(), raw)
}

func (f *fixture) done(t *testing.T) {
	t.Helper()
	require.NoError(t, f.mock.ExpectationsWereMet())
}

var (
	qIsAdmin      = regexp.QuoteMeta("JOIN admins a ON a.user_id = u.id")
	qHasPayment   = regexp.QuoteMeta("payment IS NOT NULL")
	qByCreds      = regexp.QuoteMeta("FROM users WHERE email=? AND password=?")
	qByEmail      = regexp.QuoteMeta("FROM users WHERE email=? LIMIT 1")
	qMovieExists  = regexp.QuoteMeta("SELECT COUNT(*) FROM movies WHERE id = ?")
	qTheaterCount = regexp.QuoteMeta("SELECT COUNT(*) FROM theaters WHERE id = ?")
	qAdminRow     = regexp.QuoteMeta("SELECT COUNT(*) FROM admins WHERE user_id=?")

	errDB = errors.New("connection reset")
)

func countRows(n int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"n"}).AddRow(n)
}

func userRow(id int, name, email, password string, payment any) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "email", "password", "payment"}).
		AddRow(id, name, email, password, payment)
}

func (f *fixture) expectAdmin(email, password string, admin bool) {
	n := 0
	if admin {
		n = 1
	}
	f.mock.ExpectQuery(qIsAdmin).WithArgs(email, password).WillReturnRows(countRows(n))
}
