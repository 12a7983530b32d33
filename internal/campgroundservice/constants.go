package campgroundservice

const (
	ErrFailedToListCampgrounds  = "failed to list campgrounds"
	ErrFailedToGetCampground    = "failed to get campground"
	ErrFailedToPopulate         = "failed to populate campground"
	ErrFailedToGeocode          = "failed to geocode location"
	ErrFailedToUploadImage      = "failed to upload image"
	ErrFailedToCreateCampground = "failed to create campground"
	ErrFailedToEditCampground   = "failed to edit campground"
	ErrFailedToDeleteCampground = "failed to delete campground"
	ErrFailedToDestroyImage     = "failed to destroy image"
	ErrFailedToCreateReview     = "failed to create review"
	ErrFailedToDeleteReview     = "failed to delete review"
	ErrInvalidRating            = "rating must be between 1 and 5"
	ErrInvalidPrice             = "price must be a finite number >= 0"
	ErrFailedToDetachDestroyed  = "failed to detach destroyed images"

	MinRating = 1
	MaxRating = 5
)
