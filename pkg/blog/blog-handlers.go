package blog

import (
	"errors"
	"net/http"

	JSON "github.com/silktrader/vernissage/pkg/json-utilities"
	"github.com/silktrader/vernissage/pkg/rest"
	"github.com/silktrader/vernissage/pkg/storage/sqlite"
)

func RegisterHandlers(engine *rest.Engine, store Storer) {
	engine.Post("/api/blog-posts", addPost(store))
	engine.Get("/api/blog-posts", getPosts(store))
}

func addPost(store Storer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		data, err := JSON.DecodeValidate[AddPostData](writer, request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if _, err = store.AddPost(request.Context(), data); err == nil {
			JSON.CreatedWithMessage(writer, "Blog post created successfully")
		} else if errors.Is(err, sqlite.ErrForeignKey) {
			JSON.BadRequestWithMessage(writer, "The referenced user doesn't exist")
		} else {
			rest.Logger(request).WithError(err).Error("error while adding blog post")
			JSON.InternalServerError(writer)
		}
	}
}

func getPosts(store Storer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		posts, err := store.GetPosts(request.Context())
		if err != nil {
			rest.Logger(request).WithError(err).Error("error while fetching blog posts")
			JSON.InternalServerError(writer)
			return
		}
		JSON.Ok(writer, posts)
	}
}
