package users

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type User struct {
	Id       int64  `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`

	// never serialised
	PasswordHash string `json:"-"`
}

type RegisterData struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate only checks the presence of every field.
func (data RegisterData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Username, validation.Required),
		validation.Field(&data.Email, validation.Required),
		validation.Field(&data.Password, validation.Required),
	)
}

type LoginData struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (data LoginData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Username, validation.Required),
		validation.Field(&data.Password, validation.Required),
	)
}
