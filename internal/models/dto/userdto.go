package dto

type UserSignupRequestDTO struct {
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type UserSignupResponseDTO struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

type LogoutResponseDTO struct {
	Message string `json:"message"`
}
