package interfaces

import (
	"context"

	"github.com/haguru/yelpcamp/internal/models"
)

// CampgroundRepository stores campgrounds. Missing ids yield models.ErrNotFound.
type CampgroundRepository interface {
	ListCampgrounds(ctx context.Context) ([]models.Campground, error)
	GetCampground(ctx context.Context, id string) (*models.Campground, error)
	AddCampground(ctx context.Context, campground models.Campground) (string, error)
	// UpdateCampground replaces every mutable field of the stored campground.
	UpdateCampground(ctx context.Context, campground models.Campground) error
	DeleteCampground(ctx context.Context, id string) error
	EnsureIndices(ctx context.Context) error
}

// ReviewRepository stores reviews.
type ReviewRepository interface {
	AddReview(ctx context.Context, review models.Review) (string, error)
	GetReview(ctx context.Context, id string) (*models.Review, error)
	GetReviewsByIDs(ctx context.Context, ids []string) ([]models.Review, error)
	DeleteReview(ctx context.Context, id string) error
	DeleteReviews(ctx context.Context, ids []string) (int64, error)
	EnsureIndices(ctx context.Context) error
}

// SessionRepository persists server-side sessions.
type SessionRepository interface {
	CreateSession(ctx context.Context, session models.Session) error
	GetSession(ctx context.Context, id string) (*models.Session, error)
	UpdateSession(ctx context.Context, session models.Session) error
	DeleteSession(ctx context.Context, id string) error
	EnsureIndices(ctx context.Context) error
}
