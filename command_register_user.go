package auth

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

// RegisterUserMessage is the signup payload
type RegisterUserMessage struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Nickname string `json:"nickname" form:"nickname"`
}

func (e RegisterUserMessage) Type() string { return "user.register" }

// Validate will validate the payload
func (e RegisterUserMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&e.Password, validation.Required, validation.Length(3, 100)),
		validation.Field(&e.Nickname, validation.Required, validation.Length(3, 50)),
	)
}

// LoginMessage is the authenticate payload
type LoginMessage struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

func (e LoginMessage) Type() string { return "user.login" }

// Validate will validate the payload
func (e LoginMessage) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.Username, validation.Required, validation.Length(3, 50)),
		validation.Field(&e.Password, validation.Required, validation.Length(3, 100)),
	)
}
