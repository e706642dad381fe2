package services_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/wanderlyst/backend/internal/application/services"
	apperrors "github.com/wanderlyst/backend/pkg/errors"
)

func TestRatingAfterAdd(t *testing.T) {
	t.Run("first review sets the rating directly", func(t *testing.T) {
		assert.Equal(t, 4.0, services.RatingAfterAdd(0, 0, 4))
	})

	t.Run("averages into an existing aggregate", func(t *testing.T) {
		// 4.0 with one review, add a 2 -> 3.0
		assert.Equal(t, 3.0, services.RatingAfterAdd(4.0, 1, 2))
	})

	t.Run("rounds half away from zero to 2 decimals", func(t *testing.T) {
		// (4.44*2 + 3) / 3 = 3.96
		assert.Equal(t, 3.96, services.RatingAfterAdd(4.44, 2, 3))
		// (4*3 + 5) / 4 = 4.25
		assert.Equal(t, 4.25, services.RatingAfterAdd(4.0, 3, 5))
	})
}

func TestRatingAfterRemove(t *testing.T) {
	t.Run("removing the last review resets to zero", func(t *testing.T) {
		assert.Equal(t, 0.0, services.RatingAfterRemove(4.0, 1, 4))
	})

	t.Run("removes a contribution from the mean", func(t *testing.T) {
		// rating 3.0 over 2 reviews, remove the 4 -> (3*2-4)/1 = 2.0
		assert.Equal(t, 2.0, services.RatingAfterRemove(3.0, 2, 4))
	})
}

func TestRatingAfterEdit(t *testing.T) {
	t.Run("replaces a contribution", func(t *testing.T) {
		// 3.0 over 2 reviews, 2 -> 4: (3*2-2+4)/2 = 4.0
		got, err := services.RatingAfterEdit(3.0, 2, 2, 4)
		assert.NoError(t, err)
		assert.Equal(t, 4.0, got)
	})

	t.Run("fails against an empty aggregate", func(t *testing.T) {
		_, err := services.RatingAfterEdit(0, 0, 2, 4)
		assert.Error(t, err)
		assert.True(t, apperrors.IsType(err, apperrors.ErrorTypeInvariant))
	})
}

func TestRatingRoundTrip(t *testing.T) {
	// Posting then immediately deleting a review must restore the aggregate.
	cases := []struct {
		rating float64
		count  int
		added  int
	}{
		{0, 0, 5},
		{4.0, 1, 2},
		{3.5, 2, 1},
		{4.33, 3, 5},
	}

	for _, tc := range cases {
		after := services.RatingAfterAdd(tc.rating, tc.count, tc.added)
		restored := services.RatingAfterRemove(after, tc.count+1, tc.added)
		if tc.count == 0 {
			assert.Equal(t, 0.0, restored)
			continue
		}
		assert.InDelta(t, tc.rating, restored, 0.011, "rating %v count %d added %d", tc.rating, tc.count, tc.added)
	}
}
