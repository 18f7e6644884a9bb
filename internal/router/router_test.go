package router

import (
	"net/http"
	"net/http/httptest"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/iliyamo/mbs-backend/internal/action"
	"github.com/iliyamo/mbs-backend/internal/config"
	"github.com/iliyamo/mbs-backend/internal/middleware"
	"github.com/iliyamo/mbs-backend/internal/repository"
)

func newServer(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	xdb := sqlx.NewDb(db, "mysql")
	h := action.NewHandlers(repository.NewStore(xdb), action.Options{})
	reg, err := action.NewRegistry(h.Table())
	require.NoError(t, err)

	e := echo.New()
	RegisterRoutes(e, Options{
		Dispatcher: action.NewDispatcher(reg, nil),
		DB:         xdb,
		RateLimit: config.RateLimitConfig{
			Enabled: true, Burst: 100, Every: time.Second,
			Idle: time.Minute, KeyBy: config.RateKeyIPAction, Prefix: "test",
		},
		BrowserDenylist: middleware.DefaultBrowserTokens,
	})
	return e, mock
}

func get(e *echo.Echo, method, target, ua string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, nil)
	req.Header.Set("User-Agent", ua)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestActionEndpoint(t *testing.T) {
	e, mock := newServer(t)
	mock.ExpectQuery(regexp.QuoteMeta("JOIN admins a ON a.user_id = u.id")).
		WithArgs("admin", "admin").
		WillReturnRows(sqlmock.NewRows([]string{"n"}).AddRow(1))

	rec := get(e, http.MethodGet, "/?action=check_admin&email=admin&password=admin", "mbs-app/1.0")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"request":"0","message":"admin status checked","admin":true}`, rec.Body.String())
	assert.NotEmpty(t, rec.Header().Get(echo.HeaderXRequestID))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBrowserRefusedBeforeDispatch(t *testing.T) {
	e, mock := newServer(t)
	rec := get(e, http.MethodGet, "/?action=check_admin&email=admin&password=admin", "Mozilla/5.0 Firefox/120.0")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"request":"1","message":"browser clients are not supported, use the app"}`, rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestUnknownRoutesAndVerbs(t *testing.T) {
	e, _ := newServer(t)
	for _, tt := range []struct{ method, path string }{
		{http.MethodGet, "/movies"},
		{http.MethodPost, "/?action=list_movies"},
		{http.MethodPut, "/healthz"},
	} {
		rec := get(e, tt.method, tt.path, "mbs-app/1.0")
		assert.Equal(t, http.StatusNotFound, rec.Code, tt.method+" "+tt.path)
		assert.Equal(t, "Not found", rec.Body.String())
	}
}

func TestHealthAndMetrics(t *testing.T) {
	e, mock := newServer(t)
	mock.ExpectPing()

	rec := get(e, http.MethodGet, "/healthz", "kube-probe/1.29")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
	assert.NoError(t, mock.ExpectationsWereMet())

	rec = get(e, http.MethodGet, "/metrics", "prometheus/2.48")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "mbs_http_requests_total")
}
