package models

import (
	"github.com/thoas/go-funk"
)

const GeometryTypePoint = "Point"

// Geometry is a GeoJSON point as returned by the geocoder, coordinates are [lng, lat].
type Geometry struct {
	Type        string    `json:"type" bson:"type"`
	Coordinates []float64 `json:"coordinates" bson:"coordinates"`
}

// Image references an object in the media store.
type Image struct {
	URL      string `json:"url" bson:"url"`
	Filename string `json:"filename" bson:"filename"`
}

// Campground is the primary listing entity.
type Campground struct {
	ID          string    `json:"_id"`
	Title       string    `json:"title"`
	Location    string    `json:"location"`
	Geometry    *Geometry `json:"geometry,omitempty"`
	Price       float64   `json:"price"`
	Description string    `json:"description"`
	Images      []Image   `json:"images"`
	Author      string    `json:"author,omitempty"`
	Reviews     []string  `json:"reviews"`
}

// AttachImages appends images in order, skipping filenames that are already attached.
func (c *Campground) AttachImages(images ...Image) {
	for _, img := range images {
		if c.HasImage(img.Filename) {
			continue
		}
		c.Images = append(c.Images, img)
	}
}

// HasImage reports whether an image with the given filename is attached.
func (c *Campground) HasImage(filename string) bool {
	for _, img := range c.Images {
		if img.Filename == filename {
			return true
		}
	}
	return false
}

// DetachImages removes the images whose filename is listed and returns the removed ones.
// The remaining images keep their relative order.
func (c *Campground) DetachImages(filenames []string) []Image {
	if len(filenames) == 0 {
		return nil
	}

	kept := make([]Image, 0, len(c.Images))
	var detached []Image
	for _, img := range c.Images {
		if funk.ContainsString(filenames, img.Filename) {
			detached = append(detached, img)
			continue
		}
		kept = append(kept, img)
	}
	c.Images = kept

	return detached
}

// MediaFilenames lists the non-empty filenames of the attached images.
func (c *Campground) MediaFilenames() []string {
	names := make([]string, 0, len(c.Images))
	for _, img := range c.Images {
		if len(img.Filename) > 0 {
			names = append(names, img.Filename)
		}
	}
	return names
}

// RemoveReview drops a review reference, reporting whether it was present.
func (c *Campground) RemoveReview(reviewID string) bool {
	idx := funk.IndexOfString(c.Reviews, reviewID)
	if idx < 0 {
		return false
	}
	c.Reviews = append(c.Reviews[:idx], c.Reviews[idx+1:]...)
	return true
}

// CampgroundDetail is a campground with its author and reviews resolved.
type CampgroundDetail struct {
	ID          string         `json:"_id"`
	Title       string         `json:"title"`
	Location    string         `json:"location"`
	Geometry    *Geometry      `json:"geometry,omitempty"`
	Price       float64        `json:"price"`
	Description string         `json:"description"`
	Images      []Image        `json:"images"`
	Author      *User          `json:"author,omitempty"`
	Reviews     []ReviewDetail `json:"reviews"`
}

// NewCampgroundDetail copies the scalar fields of c; author and reviews are left for the caller.
func NewCampgroundDetail(c *Campground) *CampgroundDetail {
	return &CampgroundDetail{
		ID:          c.ID,
		Title:       c.Title,
		Location:    c.Location,
		Geometry:    c.Geometry,
		Price:       c.Price,
		Description: c.Description,
		Images:      c.Images,
		Reviews:     []ReviewDetail{},
	}
}
