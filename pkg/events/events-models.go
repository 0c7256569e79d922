package events

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Event is a gallery happening; its date is free text and isn't parsed.
type Event struct {
	Id          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

type AddEventData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Date        string `json:"date"`
}

func (data AddEventData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Title, validation.Required),
		validation.Field(&data.Description, validation.Required),
		validation.Field(&data.Date, validation.Required),
	)
}
