package action

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/iliyamo/mbs-backend/internal/model"
)

var validate = validator.New()

// requireKeys reports a failure listing every required key when any of them
// is absent or empty.
func requireKeys(in Inputs, keys ...string) (Result, bool) {
	for _, k := range keys {
		if in.Get(k) == "" {
			return Fail("missing fields: needs " + strings.Join(keys, ", ")), false
		}
	}
	return Result{}, true
}

// parseID parses a positive decimal identifier.
func parseID(s string) (uint64, bool) {
	id, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, false
	}
	if err := validate.Var(id, "gt=0"); err != nil {
		return 0, false
	}
	return id, true
}

func parseQuantity(s string) (uint32, bool) {
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, false
	}
	if err := validate.Var(n, "gte=1"); err != nil {
		return 0, false
	}
	return uint32(n), true
}

type movieInput struct {
	Name     string  `validate:"required,max=255"`
	Showtime string  `validate:"required,max=64"`
	Price    float64 `validate:"gte=0,lte=99999999.99"`
	Rating   string  `validate:"oneof=G PG PG13 R NC17"`
}

// movieFields validates the user-supplied columns of a new movie and
// returns the failure message for the first bad field.
func movieFields(in Inputs) (model.Movie, string) {
	price, err := strconv.ParseFloat(in.Get(KeyPrice), 64)
	if err != nil || math.IsNaN(price) || math.IsInf(price, 0) {
		return model.Movie{}, MsgInvalidPrice
	}
	mi := movieInput{
		Name:     in.Get(KeyMovieName),
		Showtime: in.Get(KeyShowtime),
		Price:    price,
		Rating:   in.Get(KeyRating),
	}
	if err := validate.Struct(mi); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			switch verrs[0].Field() {
			case "Price":
				return model.Movie{}, MsgInvalidPrice
			case "Rating":
				return model.Movie{}, MsgInvalidRating
			case "Showtime":
				return model.Movie{}, "invalid showtime"
			}
		}
		return model.Movie{}, "invalid movie name"
	}
	return model.Movie{
		Name:     mi.Name,
		Showtime: mi.Showtime,
		Price:    mi.Price,
		Rating:   model.Rating(mi.Rating),
	}, ""
}
