package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/interfaces/mocks"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestCampgroundRow_RoundTrip(t *testing.T) {
	campground := models.Campground{
		ID:          "c1",
		Title:       "Misty Bluffs",
		Location:    "Moab, Utah",
		Geometry:    &models.Geometry{Type: models.GeometryTypePoint, Coordinates: []float64{-109.5, 38.5}},
		Price:       25.5,
		Description: "Red rock",
		Images:      []models.Image{{URL: "https://cdn/a.jpg", Filename: "YelpCamp/a"}},
		Author:      "u1",
		Reviews:     []string{"r1", "r2"},
	}

	columns, err := campgroundColumns(campground)
	require.NoError(t, err)
	assert.NotContains(t, columns, "author", "author is fixed at creation")

	row := campgroundRow{
		ID:          campground.ID,
		Title:       columns["title"].(string),
		Location:    columns["location"].(string),
		Geometry:    sql.NullString{String: columns["geometry"].(string), Valid: true},
		Price:       columns["price"].(float64),
		Description: columns["description"].(string),
		Images:      columns["images"].(string),
		Author:      campground.Author,
		Reviews:     columns["reviews"].(string),
	}
	got, err := row.toModel()
	require.NoError(t, err)
	assert.Equal(t, campground, got)
}

func TestCampgroundRow_EmptyCollections(t *testing.T) {
	columns, err := campgroundColumns(models.Campground{Title: "Bare"})
	require.NoError(t, err)
	assert.Nil(t, columns["geometry"])
	assert.Equal(t, "[]", columns["images"])
	assert.Equal(t, "[]", columns["reviews"])

	got, err := (&campgroundRow{ID: "c2", Images: "[]", Reviews: "[]"}).toModel()
	require.NoError(t, err)
	assert.Nil(t, got.Geometry)
	assert.Equal(t, []models.Image{}, got.Images)
	assert.Equal(t, []string{}, got.Reviews)

	_, err = (&campgroundRow{ID: "c3", Images: "{bad"}).toModel()
	assert.Error(t, err)
}

func TestPostgresUserRepository_AddUser(t *testing.T) {
	tests := []struct {
		name      string
		insertErr error
		wantErr   error
	}{
		{name: "created"},
		{name: "duplicate username", insertErr: &pq.Error{Code: uniqueViolation}, wantErr: models.ErrDuplicateUser},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db := mocks.NewMockDBClient(t)
			doc := map[string]interface{}{"username": "tim", "email": "tim@example.com", "hashed_password": "hash"}
			if tt.insertErr != nil {
				db.On("InsertOne", mock.Anything, constants.UsersCollection, doc).Return(nil, fmt.Errorf("exec: %w", tt.insertErr))
			} else {
				db.On("InsertOne", mock.Anything, constants.UsersCollection, doc).Return("u-1", nil)
			}

			repo, err := NewPostgresUserRepository(db)
			require.NoError(t, err)

			id, err := repo.AddUser(context.Background(), models.User{Username: "tim", Email: "tim@example.com", HashedPassword: "hash"})
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "u-1", id)
		})
	}
}

func TestPostgresCampgroundRepository_GetCampground_NotFound(t *testing.T) {
	db := mocks.NewMockDBClient(t)
	db.On("FindOne", mock.Anything, constants.CampgroundsCollection, map[string]interface{}{"id": "missing"}, mock.Anything).
		Return(fmt.Errorf("campgrounds: %w", interfaces.ErrNoDocuments))

	repo, err := NewPostgresCampgroundRepository(db)
	require.NoError(t, err)

	_, err = repo.GetCampground(context.Background(), "missing")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestPostgresReviewRepository_DeleteReviews(t *testing.T) {
	db := mocks.NewMockDBClient(t)
	db.On("DeleteMany", mock.Anything, constants.ReviewsCollection, map[string]interface{}{"id": []string{"r1", "r2"}}).
		Return(int64(2), nil)

	repo, err := NewPostgresReviewRepository(db)
	require.NoError(t, err)

	deleted, err := repo.DeleteReviews(context.Background(), []string{"r1", "r2"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)
}

func TestPostgresSessionRepository_CreateSession_PurgesExpired(t *testing.T) {
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	session := models.Session{ID: "s1", UserID: "u1", ExpiresAt: now.Add(time.Hour), TouchedAt: now}

	db := mocks.NewMockDBClient(t)
	db.On("DeleteMany", mock.Anything, constants.SessionsCollection, map[string]interface{}{
		"expires_at": map[string]interface{}{"$lt": now},
	}).Return(int64(3), nil)
	db.On("InsertOne", mock.Anything, constants.SessionsCollection, mock.Anything).Return("s1", nil)

	repo := &PostgresSessionRepository{dbClient: db, now: func() time.Time { return now }}
	require.NoError(t, repo.CreateSession(context.Background(), session))
}
