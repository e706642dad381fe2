package services

import (
	"math"

	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

// Incremental maintenance of a tour's aggregate rating. The aggregate is the
// pair (current rating, review count); the count is always the length of the
// tour's review id list. Results are rounded half away from zero to 2 decimals
// to stay compatible with stored values, and clamped to [0,5].

// RatingAfterAdd returns the aggregate after a new review joins it.
func RatingAfterAdd(current float64, count int, rating int) float64 {
	if count == 0 {
		return clampRating(float64(rating))
	}
	return clampRating(round2((current*float64(count) + float64(rating)) / float64(count+1)))
}

// RatingAfterRemove returns the aggregate after a review leaves it.
func RatingAfterRemove(current float64, count int, rating int) float64 {
	if count <= 1 {
		return 0
	}
	return clampRating(round2((current*float64(count) - float64(rating)) / float64(count-1)))
}

// RatingAfterEdit returns the aggregate after one member's rating changes from
// oldRating to newRating. Editing against an empty aggregate is impossible.
func RatingAfterEdit(current float64, count int, oldRating, newRating int) (float64, error) {
	if count == 0 {
		return 0, apperrors.NewInvariantError("cannot edit a review on a tour with no reviews")
	}
	return clampRating(round2((current*float64(count) - float64(oldRating) + float64(newRating)) / float64(count))), nil
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func clampRating(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 5 {
		return 5
	}
	return v
}
