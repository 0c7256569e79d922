package users

import (
	"errors"
	"net/http"

	"github.com/silktrader/vernissage/pkg/auth"
	JSON "github.com/silktrader/vernissage/pkg/json-utilities"
	"github.com/silktrader/vernissage/pkg/rest"
)

func RegisterHandlers(engine *rest.Engine, ur UserRepository) {
	engine.Post("/api/register", register(ur))
	engine.Post("/api/login", login(ur))
}

// register handles the POST "/api/register" route
func register(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		// parse and validate the user data
		data, err := JSON.DecodeValidate[RegisterData](writer, request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		user, err := ur.Register(request.Context(), data)
		switch {
		case err == nil:
			rest.Logger(request).WithField("user", user.Id).Info("user registered")
			JSON.CreatedWithMessage(writer, "User registered successfully")
		case errors.Is(err, ErrDuplicateUser):
			JSON.BadRequestWithMessage(writer, "User already exists")
		case auth.IsTooLong(err):
			JSON.BadRequestWithMessage(writer, "Password is too long")
		default:
			rest.Logger(request).WithError(err).Error("error while registering user")
			JSON.InternalServerError(writer)
		}
	}
}

// login handles the POST "/api/login" route; no token is issued, the outcome is merely reported
func login(ur UserRepository) http.HandlerFunc {
	return func(writer http.ResponseWriter, request *http.Request) {

		data, err := JSON.DecodeValidate[LoginData](writer, request)
		if err != nil {
			JSON.ValidationError(writer, err)
			return
		}

		if _, err = ur.Authenticate(request.Context(), data); err == nil {
			JSON.OkWithMessage(writer, "Login successful")
		} else if errors.Is(err, ErrInvalidCredentials) {
			JSON.Unauthorised(writer, "Invalid credentials")
		} else {
			rest.Logger(request).WithError(err).Error("error while authenticating user")
			JSON.InternalServerError(writer)
		}
	}
}
