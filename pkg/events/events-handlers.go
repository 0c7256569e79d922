package events

import (
	"net/http"

	JSON "github.com/silktrader/vernissage/pkg/json-utilities"
	"github.com/silktrader/vernissage/pkg/rest"
)

func RegisterHandlers(engine *rest.Engine, store Storer) {
	engine.Post("/api/events", addEvent(store))
	engine.Get("/api/events", getEvents(store))
}

func addEvent(store Storer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		data, err := JSON.DecodeValidate[AddEventData](writer, request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if _, err = store.AddEvent(request.Context(), data); err != nil {
			rest.Logger(request).WithError(err).Error("error while adding event")
			JSON.InternalServerError(writer)
			return
		}
		JSON.CreatedWithMessage(writer, "Event created successfully")
	}
}

func getEvents(store Storer) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		events, err := store.GetEvents(request.Context())
		if err != nil {
			rest.Logger(request).WithError(err).Error("error while fetching events")
			JSON.InternalServerError(writer)
			return
		}
		JSON.Ok(writer, events)
	}
}
