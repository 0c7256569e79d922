package rest

import (
	"context"
	"io"
	"net/http"

	"github.com/gofrs/uuid"
	"github.com/gorilla/handlers"
	"github.com/sirupsen/logrus"
)

type contextKey int

const requestContextKey contextKey = iota

// RequestContext is the context of the request, for request-dependent parameters
type RequestContext struct {
	// ReqUUID is the request unique ID
	ReqUUID uuid.UUID

	// Logger is a custom field logger for the request
	Logger logrus.FieldLogger
}

// requestContext attaches a RequestContext, with its own identifier and logger, to every request.
func (e *Engine) requestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		reqUUID, err := uuid.NewV4()
		if err != nil {
			e.baseLogger.WithError(err).Error("can't generate a request UUID")
			writer.WriteHeader(http.StatusInternalServerError)
			return
		}
		var ctx = RequestContext{
			ReqUUID: reqUUID,
		}

		// Create a request-specific logger
		ctx.Logger = e.baseLogger.WithFields(logrus.Fields{
			"reqid":     ctx.ReqUUID.String(),
			"remote-ip": request.RemoteAddr,
		})

		// Call the next handler in chain (usually, the handler function for the path)
		next.ServeHTTP(writer, request.WithContext(context.WithValue(request.Context(), requestContextKey, ctx)))
	})
}

// GetRequestContext retrieves the RequestContext attached by the engine, if any.
func GetRequestContext(request *http.Request) (RequestContext, bool) {
	ctx, ok := request.Context().Value(requestContextKey).(RequestContext)
	return ctx, ok
}

// Logger returns the request's logger, or the standard logrus logger for requests served outside the engine.
func Logger(request *http.Request) logrus.FieldLogger {
	if ctx, ok := GetRequestContext(request); ok && ctx.Logger != nil {
		return ctx.Logger
	}
	return logrus.StandardLogger()
}

// accessLog writes one line per served request through the request's logger.
func accessLog(next http.Handler) http.Handler {
	return handlers.CustomLoggingHandler(io.Discard, next, func(_ io.Writer, params handlers.LogFormatterParams) {
		Logger(params.Request).WithFields(logrus.Fields{
			"method": params.Request.Method,
			"path":   params.URL.Path,
			"status": params.StatusCode,
			"size":   params.Size,
		}).Info("request served")
	})
}
