package blog

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
)

type Post struct {
	Id      int64  `json:"id"`
	Title   string `json:"title"`
	Content string `json:"content"`
	UserId  int64  `json:"user_id"`
}

type AddPostData struct {
	Title   string `json:"title"`
	Content string `json:"content"`
	UserId  int64  `json:"user_id"`
}

func (data AddPostData) Validate() error {
	return validation.ValidateStruct(&data,
		validation.Field(&data.Title, validation.Required),
		validation.Field(&data.Content, validation.Required),
		validation.Field(&data.UserId, validation.Required),
	)
}
