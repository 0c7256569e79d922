package artworks

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Artwork struct {
	Id          int64  `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	UserId      int64  `json:"user_id"`
}

type AddArtworkData struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Image       string `json:"image"`
	Category    string `json:"category"`
	UserId      int64  `json:"user_id"`
}

func (data AddArtworkData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Title, validation.Required),
		validation.Field(&data.Description, validation.Required),
		validation.Field(&data.Image, validation.Required),
		validation.Field(&data.Category, validation.Required),
		validation.Field(&data.UserId, validation.Required),
	)
}

// Feedback

type Feedback struct {
	Id        int64  `json:"id"`
	Content   string `json:"content"`
	UserId    int64  `json:"user_id"`
	ArtworkId int64  `json:"artwork_id"`
}

type AddFeedbackData struct {
	Content   string `json:"content"`
	UserId    int64  `json:"user_id"`
	ArtworkId int64  `json:"artwork_id"`
}

func (data AddFeedbackData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Content, validation.Required),
		validation.Field(&data.UserId, validation.Required),
		validation.Field(&data.ArtworkId, validation.Required),
	)
}
