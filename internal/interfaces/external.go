package interfaces

import (
	"context"
	"io"

	"github.com/haguru/yelpcamp/internal/models"
)

// MediaStore is the remote host for uploaded images, addressed by filename.
type MediaStore interface {
	Upload(ctx context.Context, originalName, contentType string, body io.Reader) (models.Image, error)
	Destroy(ctx context.Context, filename string) error
}

// Geocoder converts a free-text location into a point.
// It returns models.ErrLocationNotFound when the provider has no match.
type Geocoder interface {
	ForwardGeocode(ctx context.Context, query string) (*models.Geometry, error)
}
