package request

import (
	validation "github.com/go-ozzo/ozzo-validation"
)

type CoachLoginRequest struct {
	Password string `json:"password"`
}

func (req *CoachLoginRequest) Validate() error {
	return validation.ValidateStruct(
		req,
		validation.Field(&req.Password, validation.Required),
	)
}
