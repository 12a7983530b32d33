package dto

import "github.com/haguru/yelpcamp/internal/models"

// CampgroundFormDTO is decoded from the multipart form of the new and edit routes.
type CampgroundFormDTO struct {
	Title        string   `mapstructure:"title" validate:"required"`
	Location     string   `mapstructure:"location" validate:"required"`
	Price        float64  `mapstructure:"price" validate:"finite,gte=0"`
	Description  string   `mapstructure:"description"`
	DeleteImages []string `mapstructure:"deleteImages"`
}

type CampgroundListResponseDTO struct {
	Campgrounds []models.Campground `json:"campgrounds"`
}

type CampgroundDetailResponseDTO struct {
	Campgrounds *models.CampgroundDetail `json:"campgrounds"`
}

type CampgroundEditResponseDTO struct {
	Campground *models.Campground `json:"campground"`
}

type CampgroundCreatedResponseDTO struct {
	Message    string             `json:"message"`
	Campground *models.Campground `json:"campground"`
}

type MessageResponseDTO struct {
	Message string `json:"message"`
}
