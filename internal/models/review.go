package models

// Review is a user's rating of a campground.
type Review struct {
	ID         string `json:"_id"`
	Body       string `json:"body"`
	Rating     int    `json:"rating"`
	Author     string `json:"author"`
	Campground string `json:"campground"`
}

// ReviewDetail is a review with its author resolved.
type ReviewDetail struct {
	ID         string `json:"_id"`
	Body       string `json:"body"`
	Rating     int    `json:"rating"`
	Campground string `json:"campground"`
	Author     *User  `json:"author,omitempty"`
}
