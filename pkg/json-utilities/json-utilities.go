package json_utilities

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"
)

// maxBodyBytes caps request payloads; every accepted payload is a handful of short strings.
const maxBodyBytes = 1 << 20

// ErrMalformed is returned when a request body isn't a JSON object matching the expected fields' types.
var ErrMalformed = errors.New("malformed request body")

const internalErrorMessage = "Internal server error"

type httpMessage struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func newHttpMessage(message string) *httpMessage {
	return &httpMessage{message, time.Now().UTC()}
}

func Created(writer http.ResponseWriter, payload interface{}) {
	encodeJSON(writer, http.StatusCreated, payload)
}

// CreatedWithMessage confirms a resource creation with a human-readable message.
func CreatedWithMessage(writer http.ResponseWriter, message string) {
	encodeJSON(writer, http.StatusCreated, newHttpMessage(message))
}

func Ok(writer http.ResponseWriter, payload interface{}) {
	encodeJSON(writer, http.StatusOK, payload)
}

func OkWithMessage(writer http.ResponseWriter, message string) {
	encodeJSON(writer, http.StatusOK, newHttpMessage(message))
}

func NotFound(writer http.ResponseWriter, message string) {
	encodeJSON(writer, http.StatusNotFound, newHttpMessage(message))
}

func BadRequestWithMessage(writer http.ResponseWriter, message string) {
	encodeJSON(writer, http.StatusBadRequest, newHttpMessage(message))
}

func Unauthorised(writer http.ResponseWriter, message string) {
	encodeJSON(writer, http.StatusUnauthorized, newHttpMessage(message))
}

func ServiceUnavailable(writer http.ResponseWriter) {
	encodeJSON(writer, http.StatusServiceUnavailable, newHttpMessage("Service unavailable"))
}

// InternalServerError never discloses the underlying error; callers log it.
func InternalServerError(writer http.ResponseWriter) {
	encodeJSON(writer, http.StatusInternalServerError, newHttpMessage(internalErrorMessage))
}

// ValidationError reports malformed or incomplete payloads with a 400 status.
func ValidationError(writer http.ResponseWriter, err error) {
	if errors.Is(err, ErrMalformed) {
		BadRequestWithMessage(writer, ErrMalformed.Error())
		return
	}
	BadRequestWithMessage(writer, err.Error())
}

func encodeJSON(writer http.ResponseWriter, status int, payload interface{}) {
	writer.Header().Set("Content-Type", "application/json")

	// encode beforehand, headers can't be rewritten once sent
	var body bytes.Buffer
	if err := json.NewEncoder(&body).Encode(payload); err != nil {
		writer.WriteHeader(http.StatusInternalServerError)
		_ = json.NewEncoder(writer).Encode(newHttpMessage(internalErrorMessage))
		return
	}
	writer.WriteHeader(status)
	_, _ = body.WriteTo(writer)
}

// DecodeValidate parses the request body into T and checks it with its own rules.
func DecodeValidate[T Validator](writer http.ResponseWriter, request *http.Request) (data T, err error) {
	var decoder = json.NewDecoder(http.MaxBytesReader(writer, request.Body, maxBodyBytes))
	if err = decoder.Decode(&data); err != nil {
		return data, fmt.Errorf("%w: %v", ErrMalformed, err)
	}
	return data, data.Validate()
}

type Validator interface {
	Validate() error
}
