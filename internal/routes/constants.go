package routes

const (
	// API route constants
	CampgroundsRouteAPI    = "/campgrounds"
	CampgroundNewRouteAPI  = "/campgrounds/new"
	CampgroundRouteAPI     = "/campgrounds/{id}"
	CampgroundEditRouteAPI = "/campgrounds/{id}/edit"
	ReviewsRouteAPI        = "/campgrounds/{id}/reviews"
	ReviewRouteAPI         = "/campgrounds/{id}/reviews/{reviewId}"
	RegisterRouteAPI       = "/register"
	LoginRouteAPI          = "/login"
	LogoutRouteAPI         = "/logout"
	HealthRouteAPI         = "/healthz"
	MetricsRouteAPI        = "/metrics"

	// URL parameters
	ParamID       = "id"
	ParamReviewID = "reviewId"

	// form fields
	FieldTitle              = "title"
	FieldLocation           = "location"
	FieldPrice              = "price"
	FieldDescription        = "description"
	FieldDeleteImages       = "deleteImages"
	FieldDeleteImagesSuffix = "[]"

	// TagFinite is the validator tag for float fields that must be JSON encodable.
	TagFinite = "finite"

	// Content-Type constants
	ContentType     = "Content-Type"
	ContentTypeJson = "application/json"

	// campground operation labels
	OpList         = "list"
	OpShow         = "show"
	OpEdit         = "edit"
	OpUpdate       = "update"
	OpCreate       = "create"
	OpDelete       = "delete"
	OpReviewCreate = "review_create"
	OpReviewDelete = "review_delete"

	// message constants
	MsgRegistrationSuccessful = "Registration successful"
	MsgLoggedIn               = "Logged In"
	MsgGoodbye                = "Goodbye!"
	MsgCampgroundCreated      = "Successfully created campground"
	MsgCampgroundUpdated      = "Successfully updated campground"
	MsgCampgroundDeleted      = "Successfully deleted campground"
	MsgReviewCreated          = "Review created"
	MsgReviewDeleted          = "Review deleted"
	StatusOK                  = "ok"
	StatusUnavailable         = "unavailable"

	// Error messages
	ErrInvalidContentType      = "Request Content-Type must be application/json"
	ErrInvalidRequestBody      = "Invalid request body"
	ErrInvalidForm             = "Invalid form data"
	ErrRequestTooLarge         = "Request body too large"
	ErrValidationFailed        = "Data validation failed"
	ErrFailedToRegisterUser    = "Failed to register user"
	ErrFailedToEncodeResponse  = "failed to encode response"
	ErrFailedToGenerateToken   = "Failed to generate session token"
	ErrFailedToCreateSession   = "Failed to create session"
	ErrFailedToDestroySession  = "Failed to end session"
	ErrInvalidCredentials      = "Invalid username or password"
	ErrFailedToListCampgrounds = "Failed to list campgrounds"
	ErrFailedToGetCampground   = "Failed to get campground"
	ErrFailedToCreateCamp      = "Failed to create campground"
	ErrFailedToEditCampground  = "Failed to update campground"
	ErrFailedToDeleteCamp      = "Failed to delete campground"
	ErrFailedToCreateReview    = "Failed to create review"
	ErrFailedToDeleteReview    = "Failed to delete review"
	ErrDatabaseUnavailable     = "Database unavailable"
	ErrInvalidContentTypeFmt   = "invalid content-type: %s"
)
