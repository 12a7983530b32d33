package interfaces

import (
	"context"
	"io"

	"github.com/haguru/yelpcamp/internal/models"
)

// Upload is one file received in a multipart request.
type Upload struct {
	Filename    string
	ContentType string
	Open        func() (io.ReadCloser, error)
}

// CampgroundInput carries the editable campground fields.
type CampgroundInput struct {
	Title        string
	Location     string
	Price        float64
	Description  string
	DeleteImages []string
}

type CampgroundService interface {
	ListCampgrounds(ctx context.Context) ([]models.Campground, error)
	GetCampground(ctx context.Context, id string) (*models.Campground, error)
	GetCampgroundDetail(ctx context.Context, id string) (*models.CampgroundDetail, error)
	CreateCampground(ctx context.Context, authorID string, input CampgroundInput, uploads []Upload) (*models.Campground, error)
	EditCampground(ctx context.Context, id string, input CampgroundInput, uploads []Upload) (*models.Campground, error)
	DeleteCampground(ctx context.Context, id string) error
	CreateReview(ctx context.Context, campgroundID, authorID, body string, rating int) (*models.Review, error)
	DeleteReview(ctx context.Context, campgroundID, reviewID, userID string) error
}
