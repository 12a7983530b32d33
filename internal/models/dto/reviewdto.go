package dto

import "github.com/haguru/yelpcamp/internal/models"

type ReviewRequestDTO struct {
	Body   string `json:"body" validate:"required"`
	Rating int    `json:"rating" validate:"required,min=1,max=5"`
}

type ReviewCreatedResponseDTO struct {
	Message string         `json:"message"`
	Review  *models.Review `json:"review"`
}
