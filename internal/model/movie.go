package model

import "database/sql"

// Rating is the audience rating of a movie.  Only the values listed in
// Ratings are accepted by the store.
type Rating string

const (
    RatingG    Rating = "G"
    RatingPG   Rating = "PG"
    RatingPG13 Rating = "PG13"
    RatingR    Rating = "R"
    RatingNC17 Rating = "NC17"
)

// Ratings lists every accepted rating in display order.
var Ratings = []Rating{RatingG, RatingPG, RatingPG13, RatingR, RatingNC17}

// Valid reports whether r is one of the enumerated ratings.
func (r Rating) Valid() bool {
    for _, v := range Ratings {
        if v == r {
            return true
        }
    }
    return false
}

// Movie represents a row in the `movies` table.  Showtime is an opaque
// string (for example a timestamp representation) and is not parsed by
// the backend.  TheaterID is optional.
type Movie struct {
    ID        uint64        `db:"id"`         // movies.id
    Name      string        `db:"name"`       // movies.name
    Showtime  string        `db:"showtime"`   // movies.showtime
    Price     float64       `db:"price"`      // movies.price, per ticket
    Rating    Rating        `db:"rating"`     // movies.rating
    TheaterID sql.NullInt64 `db:"theater_id"` // movies.theater_id (nullable)
}

// Theater represents a row in the `theaters` table.
type Theater struct {
    ID   uint64 `db:"id"`   // theaters.id
    Name string `db:"name"` // theaters.name
}
