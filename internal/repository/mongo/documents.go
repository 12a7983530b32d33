package mongo

import (
	"fmt"
	"time"

	"github.com/haguru/yelpcamp/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Temporary structs to encode and decode MongoDB BSON. References are ObjectIDs
// in the database and hex strings in the models.

type userDocument struct {
	ID             primitive.ObjectID `bson:"_id,omitempty"`
	Username       string             `bson:"username"`
	Email          string             `bson:"email"`
	HashedPassword string             `bson:"hashed_password"`
}

type campgroundDocument struct {
	ID          primitive.ObjectID   `bson:"_id,omitempty"`
	Title       string               `bson:"title"`
	Location    string               `bson:"location"`
	Geometry    *models.Geometry     `bson:"geometry,omitempty"`
	Price       float64              `bson:"price"`
	Description string               `bson:"description"`
	Images      []models.Image       `bson:"images"`
	Author      primitive.ObjectID   `bson:"author,omitempty"`
	Reviews     []primitive.ObjectID `bson:"reviews"`
}

type reviewDocument struct {
	ID         primitive.ObjectID `bson:"_id,omitempty"`
	Body       string             `bson:"body"`
	Rating     int                `bson:"rating"`
	Author     primitive.ObjectID `bson:"author,omitempty"`
	Campground primitive.ObjectID `bson:"campground,omitempty"`
}

type sessionDocument struct {
	ID        string    `bson:"_id"`
	UserID    string    `bson:"user_id"`
	ExpiresAt time.Time `bson:"expires_at"`
	TouchedAt time.Time `bson:"touched_at"`
}

// objectID parses a hex id. Malformed ids cannot match any document, so they map to models.ErrNotFound.
func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("invalid id %q: %w", id, models.ErrNotFound)
	}
	return oid, nil
}

// optionalObjectID parses id, treating an empty string as unset.
func optionalObjectID(id string) (primitive.ObjectID, error) {
	if id == "" {
		return primitive.NilObjectID, nil
	}
	return objectID(id)
}

// objectIDs parses the valid ids and drops the rest.
func objectIDs(ids []string) []primitive.ObjectID {
	oids := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if oid, err := primitive.ObjectIDFromHex(id); err == nil {
			oids = append(oids, oid)
		}
	}
	return oids
}

func hexIDs(oids []primitive.ObjectID) []string {
	ids := make([]string, 0, len(oids))
	for _, oid := range oids {
		ids = append(ids, oid.Hex())
	}
	return ids
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}

func (d *userDocument) toModel() models.User {
	return models.User{
		ID:             d.ID.Hex(),
		Username:       d.Username,
		Email:          d.Email,
		HashedPassword: d.HashedPassword,
	}
}

func newCampgroundDocument(c models.Campground) (campgroundDocument, error) {
	author, err := optionalObjectID(c.Author)
	if err != nil {
		return campgroundDocument{}, err
	}
	images := c.Images
	if images == nil {
		images = []models.Image{}
	}
	return campgroundDocument{
		Title:       c.Title,
		Location:    c.Location,
		Geometry:    c.Geometry,
		Price:       c.Price,
		Description: c.Description,
		Images:      images,
		Author:      author,
		Reviews:     objectIDs(c.Reviews),
	}, nil
}

func (d *campgroundDocument) toModel() models.Campground {
	images := d.Images
	if images == nil {
		images = []models.Image{}
	}
	return models.Campground{
		ID:          d.ID.Hex(),
		Title:       d.Title,
		Location:    d.Location,
		Geometry:    d.Geometry,
		Price:       d.Price,
		Description: d.Description,
		Images:      images,
		Author:      hexOrEmpty(d.Author),
		Reviews:     hexIDs(d.Reviews),
	}
}

func (d *reviewDocument) toModel() models.Review {
	return models.Review{
		ID:         d.ID.Hex(),
		Body:       d.Body,
		Rating:     d.Rating,
		Author:     hexOrEmpty(d.Author),
		Campground: hexOrEmpty(d.Campground),
	}
}

func (d *sessionDocument) toModel() models.Session {
	return models.Session{
		ID:        d.ID,
		UserID:    d.UserID,
		ExpiresAt: d.ExpiresAt,
		TouchedAt: d.TouchedAt,
	}
}
