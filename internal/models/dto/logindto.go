package dto

type LoginRequestDTO struct {
	Username string `json:"username" validate:"required,max=64"`
	Password string `json:"password" validate:"required,max=72"`
}

type LoginResponseDTO struct {
	Message string       `json:"message"`
	Data    LoginDataDTO `json:"data"`
}

// LoginDataDTO carries the issued token; ExpiryTime is in seconds.
type LoginDataDTO struct {
	User       string `json:"user"`
	Token      string `json:"token"`
	ExpiryTime int64  `json:"expiryTime"`
}
