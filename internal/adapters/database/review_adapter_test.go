package database

import (
	"strings"
	"testing"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	"github.com/stretchr/testify/assert"
	"github.com/wanderlyst/backend/internal/domain/repositories"
)

func TestReviewListQuery_OrdersByRatingThenCreation(t *testing.T) {
	db := goqu.New("postgres", nil)

	query, _, err := reviewListQuery(db, repositories.ReviewFilter{})

	assert.NoError(t, err)
	assert.True(t, strings.HasSuffix(query, `ORDER BY "rating" DESC, "created_at" ASC`), query)
}

func TestReviewListQuery_AppliesFilter(t *testing.T) {
	db := goqu.New("postgres", nil)

	query, _, err := reviewListQuery(db, repositories.ReviewFilter{TourID: "tour-1", UserID: "user-1"})

	assert.NoError(t, err)
	assert.Contains(t, query, `"tour_id" = 'tour-1'`)
	assert.Contains(t, query, `"user_id" = 'user-1'`)
	assert.True(t, strings.HasSuffix(query, `ORDER BY "rating" DESC, "created_at" ASC`), query)
}
