package constants

const (
	UsersCollection       = "users"
	CampgroundsCollection = "campgrounds"
	ReviewsCollection     = "reviews"
	SessionsCollection    = "sessions"

	MaxLengthUsername = 64 // Maximum length for username
)
