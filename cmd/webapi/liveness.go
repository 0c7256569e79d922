package main

import (
	"context"
	"net/http"

	JSON "github.com/silktrader/vernissage/pkg/json-utilities"
	"github.com/silktrader/vernissage/pkg/rest"
)

type pinger interface {
	Ping(ctx context.Context) error
}

// liveness reports whether the database is reachable.
func liveness(db pinger) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {
		if err := db.Ping(request.Context()); err != nil {
			rest.Logger(request).WithError(err).Warning("database unreachable")
			JSON.ServiceUnavailable(writer)
			return
		}
		JSON.OkWithMessage(writer, "OK")
	}
}
