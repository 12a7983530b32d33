package routes

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/auth"
	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/metrics"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/models/dto"

	structValidator "github.com/go-playground/validator/v10"
)

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Dependencies groups what the handlers need.
type Dependencies struct {
	Metrics           interfaces.Metrics
	Logger            interfaces.Logger
	UserService       interfaces.UserService
	CampgroundService interfaces.CampgroundService
	Sessions          *auth.SessionManager
	Validator         *structValidator.Validate
	Pinger            Pinger
	Secret            string
	Session           config.SessionConfig
	Upload            config.UploadConfig
}

type Route struct {
	Metrics           interfaces.Metrics
	Logger            interfaces.Logger
	UserService       interfaces.UserService
	CampgroundService interfaces.CampgroundService
	Sessions          *auth.SessionManager
	Pinger            Pinger
	secret            string
	session           config.SessionConfig
	upload            config.UploadConfig
	validator         *structValidator.Validate
}

// NewRoute creates a new Route instance.
func NewRoute(deps Dependencies) *Route {
	validator := deps.Validator
	if validator == nil {
		validator = structValidator.New()
	}
	// Only fails on an empty tag or a nil func.
	_ = validator.RegisterValidation(TagFinite, validateFinite)
	return &Route{
		Metrics:           deps.Metrics,
		Logger:            deps.Logger,
		UserService:       deps.UserService,
		CampgroundService: deps.CampgroundService,
		Sessions:          deps.Sessions,
		Pinger:            deps.Pinger,
		secret:            deps.Secret,
		session:           deps.Session,
		upload:            deps.Upload,
		validator:         validator,
	}
}

// Signup handles user registration: it stores the user, opens a session and
// returns a short-lived token.
func (r *Route) Signup(w http.ResponseWriter, req *http.Request) {
	r.Metrics.IncCounter(metrics.SignupRequestsTotal)
	startTime := time.Now()

	signupRequest := &dto.UserSignupRequestDTO{}
	if status, message, err := r.decodeJSON(req, signupRequest); err != nil {
		r.errorResponse(w, status, err, message)
		r.Metrics.IncCounter(metrics.SignupErrorsTotal)
		return
	}

	userID, err := r.UserService.RegisterUser(req.Context(), signupRequest.Email, signupRequest.Username, signupRequest.Password)
	if err != nil {
		r.errorResponse(w, statusFor(err), err, ErrFailedToRegisterUser)
		r.Metrics.IncCounter(metrics.SignupErrorsTotal)
		return
	}

	if err := r.startSession(w, req, userID); err != nil {
		r.errorResponse(w, http.StatusInternalServerError, err, ErrFailedToCreateSession)
		r.Metrics.IncCounter(metrics.SignupErrorsTotal)
		return
	}

	token, err := auth.CreateToken(userID, r.secret, auth.RegisterTokenTTL)
	if err != nil {
		r.errorResponse(w, http.StatusInternalServerError, err, ErrFailedToGenerateToken)
		r.Metrics.IncCounter(metrics.SignupErrorsTotal)
		return
	}

	r.Metrics.IncCounter(metrics.SignupSuccessTotal)
	r.Metrics.ObserveSince(metrics.SignupDurationSeconds, startTime)

	r.jsonResponse(w, http.StatusOK, &dto.UserSignupResponseDTO{
		Message: MsgRegistrationSuccessful,
		Token:   token,
	})
}

// Login handles user login requests.
func (r *Route) Login(w http.ResponseWriter, req *http.Request) {
	r.Metrics.IncCounter(metrics.LoginRequestsTotal)
	startTime := time.Now()

	loginRequest := &dto.LoginRequestDTO{}
	if status, message, err := r.decodeJSON(req, loginRequest); err != nil {
		r.errorResponse(w, status, err, message)
		r.Metrics.IncCounter(metrics.LoginFailedTotal)
		return
	}

	user, err := r.UserService.AuthenticateUser(req.Context(), loginRequest.Username, loginRequest.Password)
	if err != nil {
		status := statusFor(err)
		message := ErrInvalidCredentials
		if status != http.StatusUnauthorized {
			status = http.StatusInternalServerError
			message = err.Error()
		}
		r.errorResponse(w, status, err, message)
		r.Metrics.IncCounter(metrics.LoginFailedTotal)
		r.Metrics.ObserveSince(metrics.LoginDurationSeconds, startTime)
		return
	}

	if err := r.startSession(w, req, user.ID); err != nil {
		r.errorResponse(w, http.StatusInternalServerError, err, ErrFailedToCreateSession)
		r.Metrics.IncCounter(metrics.LoginFailedTotal)
		return
	}

	token, err := auth.CreateToken(user.ID, r.secret, auth.LoginTokenTTL())
	if err != nil {
		r.errorResponse(w, http.StatusInternalServerError, err, ErrFailedToGenerateToken)
		r.Metrics.IncCounter(metrics.LoginFailedTotal)
		return
	}

	r.Metrics.IncCounter(metrics.LoginSuccessTotal)
	r.Metrics.ObserveSince(metrics.LoginDurationSeconds, startTime)

	r.jsonResponse(w, http.StatusOK, &dto.LoginResponseDTO{
		Message: MsgLoggedIn,
		Data: dto.LoginDataDTO{
			User:       user.ID,
			Token:      token,
			ExpiryTime: auth.LoginExpirySeconds,
		},
	})
}

// Logout ends the server-side session and clears the cookie.
func (r *Route) Logout(w http.ResponseWriter, req *http.Request) {
	if cookie, err := req.Cookie(r.session.CookieName); err == nil {
		if err := r.Sessions.Destroy(req.Context(), cookie.Value); err != nil {
			r.errorResponse(w, http.StatusInternalServerError, err, ErrFailedToDestroySession)
			return
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     r.session.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   r.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	r.jsonResponse(w, http.StatusOK, &dto.LogoutResponseDTO{Message: MsgGoodbye})
}

// Health pings the database.
func (r *Route) Health(w http.ResponseWriter, req *http.Request) {
	if r.Pinger != nil {
		if err := r.Pinger.Ping(req.Context()); err != nil {
			r.Logger.Error(ErrDatabaseUnavailable, "error", err)
			r.jsonResponse(w, http.StatusServiceUnavailable, &dto.HealthResponseDTO{Status: StatusUnavailable})
			return
		}
	}
	r.jsonResponse(w, http.StatusOK, &dto.HealthResponseDTO{Status: StatusOK})
}

func (r *Route) startSession(w http.ResponseWriter, req *http.Request, userID string) error {
	session, err := r.Sessions.Create(req.Context(), userID)
	if err != nil {
		return err
	}
	http.SetCookie(w, &http.Cookie{
		Name:     r.session.CookieName,
		Value:    session.ID,
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(r.Sessions.MaxAge().Seconds()),
		HttpOnly: true,
		Secure:   r.session.Secure,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// decodeJSON reads and validates a JSON body into dst. On failure it returns
// the status, the client-facing message and the cause.
func (r *Route) decodeJSON(req *http.Request, dst interface{}) (int, string, error) {
	contentType := req.Header.Get(ContentType)
	if !strings.HasPrefix(contentType, ContentTypeJson) {
		return http.StatusBadRequest, ErrInvalidContentType, fmt.Errorf(ErrInvalidContentTypeFmt, contentType)
	}
	if err := json.NewDecoder(req.Body).Decode(dst); err != nil {
		return http.StatusBadRequest, ErrInvalidRequestBody, err
	}
	if err := r.validator.Struct(dst); err != nil {
		var validationErrors structValidator.ValidationErrors
		if errors.As(err, &validationErrors) {
			return http.StatusBadRequest, ErrValidationFailed, fmt.Errorf("invalid data: %s", validationErrors)
		}
		return http.StatusBadRequest, ErrValidationFailed, err
	}
	return 0, "", nil
}

// jsonResponse encodes body before writing the header, so an unencodable
// body becomes a 500 instead of an empty 200.
func (r *Route) jsonResponse(w http.ResponseWriter, status int, body interface{}) {
	payload, err := json.Marshal(body)
	if err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "status", status, "error", err)
		status = http.StatusInternalServerError
		payload, _ = json.Marshal(map[string]string{
			"error":   err.Error(),
			"message": ErrFailedToEncodeResponse,
		})
	}

	w.Header().Set(ContentType, ContentTypeJson)
	w.WriteHeader(status)
	if _, err := w.Write(append(payload, '\n')); err != nil {
		r.Logger.Error(ErrFailedToEncodeResponse, "error", err)
	}
}

// validateFinite rejects NaN and the infinities, which encoding/json cannot represent.
func validateFinite(fl structValidator.FieldLevel) bool {
	switch fl.Field().Kind() {
	case reflect.Float32, reflect.Float64:
		v := fl.Field().Float()
		return !math.IsNaN(v) && !math.IsInf(v, 0)
	default:
		return true
	}
}

// errorResponse writes {error, message}. Domain errors carry their sentinel
// text in error; anything else carries the raw message.
func (r *Route) errorResponse(w http.ResponseWriter, status int, err error, message string) {
	if status >= http.StatusInternalServerError {
		r.Logger.Error(message, "status", status, "error", err)
	}
	r.jsonResponse(w, status, map[string]string{
		"error":   publicError(err),
		"message": message,
	})
}

var domainErrors = []struct {
	err    error
	status int
}{
	{models.ErrNotFound, http.StatusNotFound},
	{models.ErrLocationNotFound, http.StatusUnprocessableEntity},
	{models.ErrDuplicateUser, http.StatusConflict},
	{models.ErrInvalidCredentials, http.StatusUnauthorized},
	{models.ErrForbidden, http.StatusForbidden},
	{models.ErrInvalidInput, http.StatusBadRequest},
}

func statusFor(err error) int {
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return d.status
		}
	}
	return http.StatusInternalServerError
}

func publicError(err error) string {
	for _, d := range domainErrors {
		if errors.Is(err, d.err) {
			return d.err.Error()
		}
	}
	return err.Error()
}
