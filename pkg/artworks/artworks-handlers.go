package artworks

import (
	"errors"
	"net/http"
	"strconv"

	JSON "github.com/silktrader/vernissage/pkg/json-utilities"
	"github.com/silktrader/vernissage/pkg/rest"
	"github.com/silktrader/vernissage/pkg/storage/sqlite"
)

func RegisterHandlers(engine *rest.Engine, store Storer) {
	engine.Post("/api/artworks", addArtwork(store))
	engine.Get("/api/artworks", getArtworks(store))
	engine.Get("/api/artworks/:id/feedback", getArtworkFeedback(store))
	engine.Post("/api/feedback", addFeedback(store))
}

// addArtwork handles the POST "/api/artworks" route
func addArtwork(store Storer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		// parse and validate the artwork data
		data, err := JSON.DecodeValidate[AddArtworkData](writer, request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		artwork, err := store.AddArtwork(request.Context(), data)
		switch {
		case err == nil:
			rest.Logger(request).WithField("artwork", artwork.Id).Debug("artwork uploaded")
			JSON.CreatedWithMessage(writer, "Artwork uploaded successfully")
		case errors.Is(err, sqlite.ErrForeignKey):
			JSON.BadRequestWithMessage(writer, "The referenced user doesn't exist")
		default:
			rest.Logger(request).WithError(err).Error("error while adding artwork")
			JSON.InternalServerError(writer)
		}
	}
}

// getArtworks handles the GET "/api/artworks" route
func getArtworks(store Storer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if artworks, err := store.GetArtworks(request.Context()); err == nil {
			JSON.Ok(writer, artworks)
		} else {
			rest.Logger(request).WithError(err).Error("error while fetching artworks")
			JSON.InternalServerError(writer)
		}
	}
}

// addFeedback handles the POST "/api/feedback" route
func addFeedback(store Storer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[AddFeedbackData](writer, request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if _, err = store.AddFeedback(request.Context(), data); err == nil {
			JSON.CreatedWithMessage(writer, "Feedback submitted successfully")
		} else if errors.Is(err, sqlite.ErrForeignKey) {
			JSON.BadRequestWithMessage(writer, "The referenced user or artwork doesn't exist")
		} else {
			rest.Logger(request).WithError(err).Error("error while adding feedback")
			JSON.InternalServerError(writer)
		}
	}
}

// getArtworkFeedback handles the GET "/api/artworks/:id/feedback" route
func getArtworkFeedback(store Storer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		artworkId, err := strconv.ParseInt(rest.GetParam(request, "id"), 10, 64)
		if err != nil {
			JSON.BadRequestWithMessage(writer, "Invalid artwork id")
			return
		}

		if feedback, err := store.GetArtworkFeedback(request.Context(), artworkId); err == nil {
			JSON.Ok(writer, feedback)
		} else {
			rest.Logger(request).WithError(err).Error("error while fetching feedback")
			JSON.InternalServerError(writer)
		}
	}
}
