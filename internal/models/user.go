package models

// User represents an internal user model for the application/database.
type User struct {
	ID             string `json:"_id" mapstructure:"id" db:"id"`
	Username       string `json:"username" mapstructure:"username" db:"username"`
	Email          string `json:"email" mapstructure:"email" db:"email"`
	HashedPassword string `json:"-" mapstructure:"hashed_password" db:"hashed_password"`
}

// NewUser creates a new User instance with the given identity and password hash.
// Note: No validation is performed here.
func NewUser(username, email, hashedPassword string) *User {
	return &User{
		Username:       username,
		Email:          email,
		HashedPassword: hashedPassword,
	}
}
