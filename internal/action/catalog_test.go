package action

import (
	"database/sql"
	"encoding/json"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReviewRoundTrip(t *testing.T) {
	f := newFixture(t, DetailsAdminOnly)
	f.mock.ExpectQuery(qMovieExists).WithArgs(3).WillReturnRows(countRows(1))
	f.mock.ExpectQuery(qByCreds).WillReturnRows(userRow(9, "A", "a", "b", nil))
	f.mock.ExpectExec("INSERT INTO reviews").WithArgs(9, 3, "loved it").WillReturnResult(sqlmock.NewResult(0, 1))

	f.mock.ExpectQuery("FROM reviews WHERE movie_id=\\?").WithArgs(3).
		WillReturnRows(sqlmock.NewRows([]string{"user_id", "movie_id", "review"}).AddRow(9, 3, "loved it"))

	f.mock.ExpectQuery(qMovieExists).WithArgs(3).WillReturnRows(countRows(1))
	f.mock.ExpectQuery(qByCreds).WillReturnRows(userRow(9, "A", "a", "b", nil))
	f.mock.ExpectExec("INSERT INTO reviews").WillReturnError(dupEntry)

	assert.Equal(t, OK("review added"), f.dispatch("action=add_review&email=a&password=b&movie_id=3&review=loved+it"))

	res := f.dispatch("action=list_reviews&movie_id=3")
	assert.Equal(t, OK("reviews listed").With("reviews", []reviewView{{UserID: 9, Review: "loved it"}}), res)

	assert.Equal(t, Fail("failed to add review"), f.dispatch("action=add_review&email=a&password=b&movie_id=3&review=again"))
	f.done(t)
}

func TestAddReviewUnknownMovie(t *testing.T) {
	f := newFixture(t, DetailsAdminOnly)
	f.mock.ExpectQuery(qMovieExists).WithArgs(7).WillReturnRows(countRows(0))

	assert.Equal(t, Fail("invalid movie id"), f.dispatch("action=add_review&email=a&password=b&movie_id=7&review=x"))
	f.done(t)
}

func TestListReviewsEmptyIsArray(t *testing.T) {
	f := newFixture(t, DetailsAdminOnly)
	f.mock.ExpectQuery("FROM reviews WHERE movie_id=\\?").WillReturnRows(sqlmock.NewRows([]string{"user_id", "movie_id", "review"}))

	b, err := json.Marshal(f.dispatch("action=list_reviews&movie_id=3"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"request":"0","message":"reviews listed","reviews":[]}`, string(b))
	f.done(t)
}

func TestTheaterLifecycle(t *testing.T) {
	f := newFixture(t, DetailsAdminOnly)
	f.expectAdmin("admin", "admin", true)
	f.mock.ExpectExec("INSERT INTO theaters").WithArgs("Rex").WillReturnResult(sqlmock.NewResult(2, 1))

	f.mock.ExpectQuery("FROM theaters WHERE name = \\?").WithArgs("Rex").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name"}).AddRow(2, "Rex"))
	f.mock.ExpectQuery("FROM theaters WHERE name = \\?").WithArgs("Odeon").WillReturnError(sql.ErrNoRows)

	f.expectAdmin("admin", "admin", true)
	f.mock.ExpectExec("DELETE FROM theaters").WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 1))
	f.expectAdmin("admin", "admin", true)
	f.mock.ExpectExec("DELETE FROM theaters").WithArgs(2).WillReturnResult(sqlmock.NewResult(0, 0))

	f.expectAdmin("u", "p", false)
	f.expectAdmin("u", "p", false)

	assert.Equal(t, OK("theater added").With("theater_id", uint64(2)),
		f.dispatch("action=add_theater&email=admin&password=admin&theater_name=Rex"))
	assert.Equal(t, OK("theater retrieved").With("theater_id", uint64(2)), f.dispatch("action=get_theater&theater_name=Rex"))
	assert.Equal(t, Fail("theater not found"), f.dispatch("action=get_theater&theater_name=Odeon"))
	assert.Equal(t, OK("theater deleted"), f.dispatch("action=delete_theater&email=admin&password=admin&theater_id=2"))
	assert.Equal(t, Fail("theater not found"), f.dispatch("action=delete_theater&email=admin&password=admin&theater_id=2"))
	assert.Equal(t, Fail("permission denied"), f.dispatch("action=add_theater&email=u&password=p&theater_name=X"))
	assert.Equal(t, Fail("permission denied"), f.dispatch("action=delete_theater&email=u&password=p&theater_id=2"))
	assert.Equal(t, Fail("invalid theater id"), f.dispatch("action=delete_theater&email=admin&password=admin&theater_id=x"))
	f.done(t)
}

func TestStoreFaultIsGeneric(t *testing.T) {
	f := newFixture(t, DetailsAdminOnly)
	f.mock.ExpectQuery("FROM movies WHERE 1=1").WillReturnError(errDB)

	res := f.dispatch("action=list_movies")
	assert.Equal(t, Fail("failed to list movies"), res)
	assert.NotContains(t, res.Message, errDB.Error())
	f.done(t)
}
