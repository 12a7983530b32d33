// Package campgroundservice implements the campground and review operations.
package campgroundservice

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/metrics"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/pkg/helper"
)

// Dependencies groups what CampgroundService needs.
type Dependencies struct {
	Campgrounds interfaces.CampgroundRepository
	Reviews     interfaces.ReviewRepository
	Users       interfaces.UserRepository
	Media       interfaces.MediaStore
	Geocoder    interfaces.Geocoder
	Transactor  interfaces.Transactor
	Logger      interfaces.Logger
	Metrics     interfaces.Metrics
}

// CampgroundService implements interfaces.CampgroundService.
// Mutations of one campground are serialized in-process and run in a transaction.
type CampgroundService struct {
	campgrounds interfaces.CampgroundRepository
	reviews     interfaces.ReviewRepository
	users       interfaces.UserRepository
	media       interfaces.MediaStore
	geocoder    interfaces.Geocoder
	tx          interfaces.Transactor
	logger      interfaces.Logger
	metrics     interfaces.Metrics
	locks       *keyedMutex
}

// NewCampgroundService validates deps and builds the service.
func NewCampgroundService(deps Dependencies) (*CampgroundService, error) {
	switch {
	case deps.Campgrounds == nil, deps.Reviews == nil, deps.Users == nil:
		return nil, fmt.Errorf("campground service: repositories cannot be nil")
	case deps.Media == nil:
		return nil, fmt.Errorf("campground service: media store cannot be nil")
	case deps.Geocoder == nil:
		return nil, fmt.Errorf("campground service: geocoder cannot be nil")
	case deps.Transactor == nil:
		return nil, fmt.Errorf("campground service: transactor cannot be nil")
	case deps.Logger == nil:
		return nil, fmt.Errorf("campground service: logger cannot be nil")
	case deps.Metrics == nil:
		return nil, fmt.Errorf("campground service: metrics cannot be nil")
	}

	return &CampgroundService{
		campgrounds: deps.Campgrounds,
		reviews:     deps.Reviews,
		users:       deps.Users,
		media:       deps.Media,
		geocoder:    deps.Geocoder,
		tx:          deps.Transactor,
		logger:      deps.Logger,
		metrics:     deps.Metrics,
		locks:       newKeyedMutex(),
	}, nil
}

// ListCampgrounds returns every campground, unfiltered.
func (s *CampgroundService) ListCampgrounds(ctx context.Context) ([]models.Campground, error) {
	campgrounds, err := s.campgrounds.ListCampgrounds(ctx)
	if err != nil {
		s.logger.Error(ErrFailedToListCampgrounds, "func", helper.GetFuncName(), "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToListCampgrounds, err)
	}
	if campgrounds == nil {
		campgrounds = []models.Campground{}
	}
	return campgrounds, nil
}

// GetCampground returns the stored campground without population.
func (s *CampgroundService) GetCampground(ctx context.Context, id string) (*models.Campground, error) {
	campground, err := s.campgrounds.GetCampground(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedToGetCampground, err)
	}
	return campground, nil
}

// GetCampgroundDetail returns the campground with its author, its reviews and
// every review author resolved.
func (s *CampgroundService) GetCampgroundDetail(ctx context.Context, id string) (*models.CampgroundDetail, error) {
	funcName := helper.GetFuncName()
	s.logger.Debug("Entering function", "func", funcName, "campground", id)
	defer s.logger.Debug("Exiting function", "func", funcName, "campground", id)

	campground, err := s.campgrounds.GetCampground(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedToGetCampground, err)
	}

	reviews, err := s.reviews.GetReviewsByIDs(ctx, campground.Reviews)
	if err != nil {
		s.logger.Error(ErrFailedToPopulate, "func", funcName, "campground", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToPopulate, err)
	}

	userIDs := make([]string, 0, len(reviews)+1)
	if campground.Author != "" {
		userIDs = append(userIDs, campground.Author)
	}
	for _, review := range reviews {
		userIDs = append(userIDs, review.Author)
	}
	users, err := s.users.GetUsersByIDs(ctx, userIDs)
	if err != nil {
		s.logger.Error(ErrFailedToPopulate, "func", funcName, "campground", id, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToPopulate, err)
	}
	byID := make(map[string]*models.User, len(users))
	for i := range users {
		byID[users[i].ID] = &users[i]
	}

	detail := models.NewCampgroundDetail(campground)
	detail.Author = byID[campground.Author]
	for _, review := range reviews {
		detail.Reviews = append(detail.Reviews, models.ReviewDetail{
			ID:         review.ID,
			Body:       review.Body,
			Rating:     review.Rating,
			Campground: review.Campground,
			Author:     byID[review.Author],
		})
	}
	return detail, nil
}

// CreateCampground geocodes the location, uploads the images and stores the
// campground. Uploaded objects are destroyed again when the save fails.
func (s *CampgroundService) CreateCampground(ctx context.Context, authorID string, input interfaces.CampgroundInput, uploads []interfaces.Upload) (*models.Campground, error) {
	funcName := helper.GetFuncName()
	s.logger.Debug("Entering function", "func", funcName, "title", input.Title)
	defer s.logger.Debug("Exiting function", "func", funcName, "title", input.Title)

	if err := checkInput(input); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedToCreateCampground, err)
	}

	geometry, err := s.geocode(ctx, input.Location)
	if err != nil {
		return nil, err
	}

	images, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	campground := models.Campground{
		Title:       input.Title,
		Location:    input.Location,
		Geometry:    geometry,
		Price:       input.Price,
		Description: input.Description,
		Images:      []models.Image{},
		Author:      authorID,
		Reviews:     []string{},
	}
	campground.AttachImages(images...)

	id, err := s.campgrounds.AddCampground(ctx, campground)
	if err != nil {
		s.logger.Error(ErrFailedToCreateCampground, "func", funcName, "error", err)
		s.destroyAll(ctx, images)
		return nil, fmt.Errorf("%s: %w", ErrFailedToCreateCampground, err)
	}
	campground.ID = id

	s.logger.Info("Campground created", "func", funcName, "campground", id, "images", len(images))
	return &campground, nil
}

// EditCampground re-geocodes the location, updates the scalar fields, appends
// the uploaded images and detaches input.DeleteImages in one transaction.
// Detached objects are destroyed after the commit; failures there are logged only.
func (s *CampgroundService) EditCampground(ctx context.Context, id string, input interfaces.CampgroundInput, uploads []interfaces.Upload) (*models.Campground, error) {
	funcName := helper.GetFuncName()
	s.logger.Debug("Entering function", "func", funcName, "campground", id)
	defer s.logger.Debug("Exiting function", "func", funcName, "campground", id)

	if err := checkInput(input); err != nil {
		return nil, fmt.Errorf("%s: %w", ErrFailedToEditCampground, err)
	}

	unlock := s.locks.Lock(id)
	defer unlock()

	geometry, err := s.geocode(ctx, input.Location)
	if err != nil {
		return nil, err
	}

	images, err := s.uploadAll(ctx, uploads)
	if err != nil {
		return nil, err
	}

	var (
		updated  *models.Campground
		detached []models.Image
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		campground, err := s.campgrounds.GetCampground(ctx, id)
		if err != nil {
			return err
		}

		campground.Title = input.Title
		campground.Location = input.Location
		campground.Price = input.Price
		campground.Description = input.Description
		campground.Geometry = geometry
		campground.AttachImages(images...)
		detached = campground.DetachImages(input.DeleteImages)

		if err := s.campgrounds.UpdateCampground(ctx, *campground); err != nil {
			return err
		}
		updated = campground
		return nil
	})
	if err != nil {
		s.logger.Error(ErrFailedToEditCampground, "func", funcName, "campground", id, "error", err)
		s.destroyAll(ctx, images)
		return nil, fmt.Errorf("%s: %w", ErrFailedToEditCampground, err)
	}

	s.destroyAll(ctx, detached)
	s.logger.Info("Campground updated", "func", funcName, "campground", id,
		"added", len(images), "removed", len(detached))
	return updated, nil
}

// DeleteCampground removes the reviews, the document and the remote images in
// one transaction. Media objects go last since their deletion cannot be rolled
// back. If the transaction still fails after some objects were destroyed, those
// images are detached from the surviving document so it never points at a
// missing object.
func (s *CampgroundService) DeleteCampground(ctx context.Context, id string) error {
	funcName := helper.GetFuncName()
	s.logger.Debug("Entering function", "func", funcName, "campground", id)
	defer s.logger.Debug("Exiting function", "func", funcName, "campground", id)

	unlock := s.locks.Lock(id)
	defer unlock()

	var destroyed []string
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		destroyed = nil

		campground, err := s.campgrounds.GetCampground(ctx, id)
		if err != nil {
			return err
		}

		if len(campground.Reviews) > 0 {
			deleted, err := s.reviews.DeleteReviews(ctx, campground.Reviews)
			if err != nil {
				return err
			}
			s.logger.Debug("Reviews deleted", "func", funcName, "campground", id, "count", deleted)
		}

		if err := s.campgrounds.DeleteCampground(ctx, id); err != nil {
			return err
		}

		for _, filename := range campground.MediaFilenames() {
			if err := s.media.Destroy(ctx, filename); err != nil {
				return fmt.Errorf("%s %s: %w", ErrFailedToDestroyImage, filename, err)
			}
			destroyed = append(destroyed, filename)
		}
		return nil
	})
	if err != nil {
		s.logger.Error(ErrFailedToDeleteCampground, "func", funcName, "campground", id, "error", err)
		s.detachDestroyed(ctx, id, destroyed)
		return fmt.Errorf("%s: %w", ErrFailedToDeleteCampground, err)
	}

	s.logger.Info("Campground deleted", "func", funcName, "campground", id)
	return nil
}

// detachDestroyed drops already deleted objects from a campground that
// survived a failed delete. A campground that is gone needs nothing.
func (s *CampgroundService) detachDestroyed(ctx context.Context, id string, filenames []string) {
	if len(filenames) == 0 {
		return
	}

	campground, err := s.campgrounds.GetCampground(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return
	}
	if err == nil && len(campground.DetachImages(filenames)) > 0 {
		err = s.campgrounds.UpdateCampground(ctx, *campground)
	}
	if err != nil {
		s.logger.Error(ErrFailedToDetachDestroyed, "campground", id, "images", filenames, "error", err)
	}
}

// CreateReview stores a review by authorID and links it to the campground.
func (s *CampgroundService) CreateReview(ctx context.Context, campgroundID, authorID, body string, rating int) (*models.Review, error) {
	funcName := helper.GetFuncName()

	if rating < MinRating || rating > MaxRating {
		return nil, fmt.Errorf("%s: %w", ErrInvalidRating, models.ErrInvalidInput)
	}
	if strings.TrimSpace(body) == "" {
		return nil, fmt.Errorf("%s: empty body: %w", ErrFailedToCreateReview, models.ErrInvalidInput)
	}

	unlock := s.locks.Lock(campgroundID)
	defer unlock()

	review := models.Review{
		Body:       body,
		Rating:     rating,
		Author:     authorID,
		Campground: campgroundID,
	}
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		campground, err := s.campgrounds.GetCampground(ctx, campgroundID)
		if err != nil {
			return err
		}

		reviewID, err := s.reviews.AddReview(ctx, review)
		if err != nil {
			return err
		}
		review.ID = reviewID

		campground.Reviews = append(campground.Reviews, reviewID)
		return s.campgrounds.UpdateCampground(ctx, *campground)
	})
	if err != nil {
		s.logger.Error(ErrFailedToCreateReview, "func", funcName, "campground", campgroundID, "error", err)
		return nil, fmt.Errorf("%s: %w", ErrFailedToCreateReview, err)
	}

	s.logger.Info("Review created", "func", funcName, "campground", campgroundID, "review", review.ID)
	return &review, nil
}

// DeleteReview removes a review; only its author may do so.
func (s *CampgroundService) DeleteReview(ctx context.Context, campgroundID, reviewID, userID string) error {
	funcName := helper.GetFuncName()

	unlock := s.locks.Lock(campgroundID)
	defer unlock()

	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		campground, err := s.campgrounds.GetCampground(ctx, campgroundID)
		if err != nil {
			return err
		}

		review, err := s.reviews.GetReview(ctx, reviewID)
		if err != nil {
			return err
		}
		if review.Campground != campgroundID {
			return fmt.Errorf("review %s on campground %s: %w", reviewID, campgroundID, models.ErrNotFound)
		}
		if review.Author != userID {
			return fmt.Errorf("review %s: %w", reviewID, models.ErrForbidden)
		}

		if campground.RemoveReview(reviewID) {
			if err := s.campgrounds.UpdateCampground(ctx, *campground); err != nil {
				return err
			}
		}
		return s.reviews.DeleteReview(ctx, reviewID)
	})
	if err != nil {
		if !errors.Is(err, models.ErrForbidden) && !errors.Is(err, models.ErrNotFound) {
			s.logger.Error(ErrFailedToDeleteReview, "func", funcName, "review", reviewID, "error", err)
		}
		return fmt.Errorf("%s: %w", ErrFailedToDeleteReview, err)
	}

	s.logger.Info("Review deleted", "func", funcName, "campground", campgroundID, "review", reviewID)
	return nil
}

func (s *CampgroundService) geocode(ctx context.Context, location string) (*models.Geometry, error) {
	geometry, err := s.geocoder.ForwardGeocode(ctx, location)
	if err != nil {
		if !errors.Is(err, models.ErrLocationNotFound) {
			s.logger.Error(ErrFailedToGeocode, "location", location, "error", err)
		}
		return nil, fmt.Errorf("%s: %w", ErrFailedToGeocode, err)
	}
	return geometry, nil
}

// uploadAll uploads in order. On failure the objects uploaded so far are destroyed.
func (s *CampgroundService) uploadAll(ctx context.Context, uploads []interfaces.Upload) ([]models.Image, error) {
	images := make([]models.Image, 0, len(uploads))
	for _, upload := range uploads {
		image, err := s.uploadOne(ctx, upload)
		if err != nil {
			s.logger.Error(ErrFailedToUploadImage, "file", upload.Filename, "error", err)
			s.destroyAll(ctx, images)
			return nil, fmt.Errorf("%s %s: %w", ErrFailedToUploadImage, upload.Filename, err)
		}
		images = append(images, image)
	}
	return images, nil
}

func (s *CampgroundService) uploadOne(ctx context.Context, upload interfaces.Upload) (models.Image, error) {
	body, err := upload.Open()
	if err != nil {
		return models.Image{}, err
	}
	defer body.Close()

	return s.media.Upload(ctx, upload.Filename, upload.ContentType, body)
}

// checkInput rejects prices that cannot be stored and encoded as JSON.
func checkInput(input interfaces.CampgroundInput) error {
	if math.IsNaN(input.Price) || math.IsInf(input.Price, 0) || input.Price < 0 {
		return fmt.Errorf("%s: %w", ErrInvalidPrice, models.ErrInvalidInput)
	}
	return nil
}

// destroyAll is best effort; objects that survive are counted as orphans.
func (s *CampgroundService) destroyAll(ctx context.Context, images []models.Image) {
	for _, image := range images {
		if image.Filename == "" {
			continue
		}
		if err := s.media.Destroy(ctx, image.Filename); err != nil {
			s.logger.Warn(ErrFailedToDestroyImage, "filename", image.Filename, "error", err)
			s.metrics.IncCounter(metrics.MediaOrphansTotal)
		}
	}
}
