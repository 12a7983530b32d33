package memory

import (
	"context"
	"fmt"
	"time"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/constants"

	"github.com/thoas/go-funk"
)

// UserRepository implements interfaces.UserRepository on a Store.
type UserRepository struct{ store *Store }

// CampgroundRepository implements interfaces.CampgroundRepository on a Store.
type CampgroundRepository struct{ store *Store }

// ReviewRepository implements interfaces.ReviewRepository on a Store.
type ReviewRepository struct{ store *Store }

// SessionRepository implements interfaces.SessionRepository on a Store.
type SessionRepository struct {
	store *Store
	now   func() time.Time
}

func NewUserRepository(store *Store) interfaces.UserRepository {
	return &UserRepository{store: store}
}

func NewCampgroundRepository(store *Store) interfaces.CampgroundRepository {
	return &CampgroundRepository{store: store}
}

func NewReviewRepository(store *Store) interfaces.ReviewRepository {
	return &ReviewRepository{store: store}
}

func NewSessionRepository(store *Store) interfaces.SessionRepository {
	return &SessionRepository{store: store, now: time.Now}
}

func (r *UserRepository) AddUser(_ context.Context, user models.User) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	for _, existing := range r.store.users {
		if existing.Username == user.Username {
			return "", fmt.Errorf("username '%s': %w", user.Username, models.ErrDuplicateUser)
		}
	}
	user.ID = newID()
	r.store.users[user.ID] = user
	return user.ID, nil
}

func (r *UserRepository) GetUserByUsername(_ context.Context, username string) (*models.User, error) {
	if len(username) == 0 || len(username) > constants.MaxLengthUsername {
		return nil, fmt.Errorf("invalid username: must be between 1 and %d characters", constants.MaxLengthUsername)
	}

	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	for _, user := range r.store.users {
		if user.Username == username {
			found := user
			return &found, nil
		}
	}
	return nil, nil
}

func (r *UserRepository) GetUsersByIDs(_ context.Context, ids []string) ([]models.User, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	users := make([]models.User, 0, len(ids))
	for _, id := range funk.UniqString(ids) {
		if user, ok := r.store.users[id]; ok {
			users = append(users, user)
		}
	}
	return users, nil
}

func (r *UserRepository) EnsureIndices(context.Context) error { return nil }

func (r *CampgroundRepository) ListCampgrounds(_ context.Context) ([]models.Campground, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	campgrounds := make([]models.Campground, 0, len(r.store.campgroundOrder))
	for _, id := range r.store.campgroundOrder {
		campgrounds = append(campgrounds, cloneCampground(r.store.campgrounds[id]))
	}
	return campgrounds, nil
}

func (r *CampgroundRepository) GetCampground(_ context.Context, id string) (*models.Campground, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	campground, ok := r.store.campgrounds[id]
	if !ok {
		return nil, fmt.Errorf("campground %s: %w", id, models.ErrNotFound)
	}
	cp := cloneCampground(campground)
	return &cp, nil
}

func (r *CampgroundRepository) AddCampground(_ context.Context, campground models.Campground) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	campground.ID = newID()
	r.store.campgrounds[campground.ID] = cloneCampground(campground)
	r.store.campgroundOrder = append(r.store.campgroundOrder, campground.ID)
	return campground.ID, nil
}

func (r *CampgroundRepository) UpdateCampground(_ context.Context, campground models.Campground) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.campgrounds[campground.ID]
	if !ok {
		return fmt.Errorf("campground %s: %w", campground.ID, models.ErrNotFound)
	}
	// author is fixed at creation
	campground.Author = stored.Author
	r.store.campgrounds[campground.ID] = cloneCampground(campground)
	return nil
}

func (r *CampgroundRepository) DeleteCampground(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.campgrounds[id]; !ok {
		return fmt.Errorf("campground %s: %w", id, models.ErrNotFound)
	}
	delete(r.store.campgrounds, id)
	if idx := funk.IndexOfString(r.store.campgroundOrder, id); idx >= 0 {
		order := append([]string{}, r.store.campgroundOrder[:idx]...)
		r.store.campgroundOrder = append(order, r.store.campgroundOrder[idx+1:]...)
	}
	return nil
}

func (r *CampgroundRepository) EnsureIndices(context.Context) error { return nil }

func (r *ReviewRepository) AddReview(_ context.Context, review models.Review) (string, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	review.ID = newID()
	r.store.reviews[review.ID] = review
	return review.ID, nil
}

func (r *ReviewRepository) GetReview(_ context.Context, id string) (*models.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	review, ok := r.store.reviews[id]
	if !ok {
		return nil, fmt.Errorf("review %s: %w", id, models.ErrNotFound)
	}
	return &review, nil
}

func (r *ReviewRepository) GetReviewsByIDs(_ context.Context, ids []string) ([]models.Review, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	reviews := make([]models.Review, 0, len(ids))
	for _, id := range ids {
		if review, ok := r.store.reviews[id]; ok {
			reviews = append(reviews, review)
		}
	}
	return reviews, nil
}

func (r *ReviewRepository) DeleteReview(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	if _, ok := r.store.reviews[id]; !ok {
		return fmt.Errorf("review %s: %w", id, models.ErrNotFound)
	}
	delete(r.store.reviews, id)
	return nil
}

func (r *ReviewRepository) DeleteReviews(_ context.Context, ids []string) (int64, error) {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	var deleted int64
	for _, id := range ids {
		if _, ok := r.store.reviews[id]; ok {
			delete(r.store.reviews, id)
			deleted++
		}
	}
	return deleted, nil
}

func (r *ReviewRepository) EnsureIndices(context.Context) error { return nil }

func (r *SessionRepository) CreateSession(_ context.Context, session models.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	now := r.now()
	for id, existing := range r.store.sessions {
		if existing.Expired(now) {
			delete(r.store.sessions, id)
		}
	}
	r.store.sessions[session.ID] = session
	return nil
}

func (r *SessionRepository) GetSession(_ context.Context, id string) (*models.Session, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	session, ok := r.store.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, models.ErrNotFound)
	}
	return &session, nil
}

func (r *SessionRepository) UpdateSession(_ context.Context, session models.Session) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	stored, ok := r.store.sessions[session.ID]
	if !ok {
		return fmt.Errorf("session %s: %w", session.ID, models.ErrNotFound)
	}
	stored.ExpiresAt = session.ExpiresAt
	stored.TouchedAt = session.TouchedAt
	r.store.sessions[session.ID] = stored
	return nil
}

func (r *SessionRepository) DeleteSession(_ context.Context, id string) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()

	delete(r.store.sessions, id)
	return nil
}

func (r *SessionRepository) EnsureIndices(context.Context) error { return nil }
