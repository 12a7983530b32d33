package postgres

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/haguru/yelpcamp/internal/models"
)

// Row structs mirror the tables created by the embedded migrations.
// Nested values live in JSONB columns.

type userRow struct {
	ID             string `db:"id"`
	Username       string `db:"username"`
	Email          string `db:"email"`
	HashedPassword string `db:"hashed_password"`
}

type campgroundRow struct {
	ID          string         `db:"id"`
	Title       string         `db:"title"`
	Location    string         `db:"location"`
	Geometry    sql.NullString `db:"geometry"`
	Price       float64        `db:"price"`
	Description string         `db:"description"`
	Images      string         `db:"images"`
	Author      string         `db:"author"`
	Reviews     string         `db:"reviews"`
}

type reviewRow struct {
	ID         string `db:"id"`
	Body       string `db:"body"`
	Rating     int    `db:"rating"`
	Author     string `db:"author"`
	Campground string `db:"campground"`
}

type sessionRow struct {
	ID        string    `db:"id"`
	UserID    string    `db:"user_id"`
	ExpiresAt time.Time `db:"expires_at"`
	TouchedAt time.Time `db:"touched_at"`
}

func (r *userRow) toModel() models.User {
	return models.User{
		ID:             r.ID,
		Username:       r.Username,
		Email:          r.Email,
		HashedPassword: r.HashedPassword,
	}
}

// campgroundColumns renders the mutable columns of c; geometry is NULL when unset.
func campgroundColumns(c models.Campground) (map[string]interface{}, error) {
	var geometry interface{}
	if c.Geometry != nil {
		raw, err := json.Marshal(c.Geometry)
		if err != nil {
			return nil, fmt.Errorf("failed to encode geometry: %w", err)
		}
		geometry = string(raw)
	}

	images := c.Images
	if images == nil {
		images = []models.Image{}
	}
	rawImages, err := json.Marshal(images)
	if err != nil {
		return nil, fmt.Errorf("failed to encode images: %w", err)
	}

	reviews := c.Reviews
	if reviews == nil {
		reviews = []string{}
	}
	rawReviews, err := json.Marshal(reviews)
	if err != nil {
		return nil, fmt.Errorf("failed to encode reviews: %w", err)
	}

	return map[string]interface{}{
		"title":       c.Title,
		"location":    c.Location,
		"geometry":    geometry,
		"price":       c.Price,
		"description": c.Description,
		"images":      string(rawImages),
		"reviews":     string(rawReviews),
	}, nil
}

func (r *campgroundRow) toModel() (models.Campground, error) {
	campground := models.Campground{
		ID:          r.ID,
		Title:       r.Title,
		Location:    r.Location,
		Price:       r.Price,
		Description: r.Description,
		Author:      r.Author,
		Images:      []models.Image{},
		Reviews:     []string{},
	}

	if r.Geometry.Valid && r.Geometry.String != "" {
		campground.Geometry = &models.Geometry{}
		if err := json.Unmarshal([]byte(r.Geometry.String), campground.Geometry); err != nil {
			return models.Campground{}, fmt.Errorf("failed to decode geometry of %s: %w", r.ID, err)
		}
	}
	if r.Images != "" {
		if err := json.Unmarshal([]byte(r.Images), &campground.Images); err != nil {
			return models.Campground{}, fmt.Errorf("failed to decode images of %s: %w", r.ID, err)
		}
	}
	if r.Reviews != "" {
		if err := json.Unmarshal([]byte(r.Reviews), &campground.Reviews); err != nil {
			return models.Campground{}, fmt.Errorf("failed to decode reviews of %s: %w", r.ID, err)
		}
	}
	return campground, nil
}

func (r *reviewRow) toModel() models.Review {
	return models.Review{
		ID:         r.ID,
		Body:       r.Body,
		Rating:     r.Rating,
		Author:     r.Author,
		Campground: r.Campground,
	}
}

func (r *sessionRow) toModel() models.Session {
	return models.Session{
		ID:        r.ID,
		UserID:    r.UserID,
		ExpiresAt: r.ExpiresAt,
		TouchedAt: r.TouchedAt,
	}
}
