package routes

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/haguru/yelpcamp/config"
	"github.com/haguru/yelpcamp/internal/auth"
	"github.com/haguru/yelpcamp/internal/campgroundservice"
	"github.com/haguru/yelpcamp/internal/interfaces/mocks"
	internalMetrics "github.com/haguru/yelpcamp/internal/metrics"
	"github.com/haguru/yelpcamp/internal/middleware"
	"github.com/haguru/yelpcamp/internal/models"
	"github.com/haguru/yelpcamp/internal/repository/memory"
	"github.com/haguru/yelpcamp/internal/server"
	"github.com/haguru/yelpcamp/internal/userservice"
	"github.com/haguru/yelpcamp/pkg/metrics"
	"github.com/haguru/yelpcamp/pkg/zerolog"
)

const (
	testSecret       = "routes-test-secret"
	testMaxBodyBytes = 64 << 10
)

type memoryMedia struct {
	mu     sync.Mutex
	seq    int
	stored map[string]bool
}

func (m *memoryMedia) Upload(_ context.Context, originalName, _ string, body io.Reader) (models.Image, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, err := io.ReadAll(body); err != nil {
		return models.Image{}, err
	}
	m.seq++
	name := fmt.Sprintf("YelpCamp/%d-%s", m.seq, originalName)
	m.stored[name] = true
	return models.Image{URL: "https://media.test/" + name, Filename: name}, nil
}

func (m *memoryMedia) Destroy(_ context.Context, filename string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stored, filename)
	return nil
}

type failingPinger struct{ err error }

func (p failingPinger) Ping(context.Context) error { return p.err }

type testApp struct {
	handler http.Handler
	route   *Route
	media   *memoryMedia
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	logger := zerolog.NewNopLogger()
	appMetrics := metrics.NewMetrics("yelpcamp")
	internalMetrics.Register(appMetrics)

	store := memory.NewStore()
	users := memory.NewUserRepository(store)
	media := &memoryMedia{stored: map[string]bool{}}

	geocoder := mocks.NewMockGeocoder(t)
	geocoder.On("ForwardGeocode", mock.Anything, "Moab, Utah").
		Return(&models.Geometry{Type: models.GeometryTypePoint, Coordinates: []float64{-109.5, 38.5}}, nil).Maybe()
	geocoder.On("ForwardGeocode", mock.Anything, "Atlantis").
		Return(nil, models.ErrLocationNotFound).Maybe()

	campgrounds, err := campgroundservice.NewCampgroundService(campgroundservice.Dependencies{
		Campgrounds: memory.NewCampgroundRepository(store),
		Reviews:     memory.NewReviewRepository(store),
		Users:       users,
		Media:       media,
		Geocoder:    geocoder,
		Transactor:  store,
		Logger:      logger,
		Metrics:     appMetrics,
	})
	require.NoError(t, err)

	sessionCfg := config.SessionConfig{CookieName: "session", MaxAge: time.Hour, TouchAfter: 24 * time.Hour}
	sessions := auth.NewSessionManager(memory.NewSessionRepository(store), sessionCfg)

	route := NewRoute(Dependencies{
		Metrics:           appMetrics,
		Logger:            logger,
		UserService:       userservice.NewUserService(users, logger),
		CampgroundService: campgrounds,
		Sessions:          sessions,
		Secret:            testSecret,
		Session:           sessionCfg,
		Upload:            config.UploadConfig{FieldName: "image", MaxMemory: 1 << 20, MaxBodyBytes: testMaxBodyBytes},
	})

	srv := server.NewServer("localhost", "0", "http://localhost:3001", logger)
	authn := middleware.NewAuthenticator(testSecret, sessionCfg.CookieName, sessions, logger)
	passThrough := func(next http.Handler) http.Handler { return next }
	require.NoError(t, route.Mount(srv, authn, passThrough))

	return &testApp{handler: srv.Handler(), route: route, media: media}
}

func (a *testApp) do(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, map[string]interface{}) {
	t.Helper()
	rr := httptest.NewRecorder()
	a.handler.ServeHTTP(rr, req)
	body := map[string]interface{}{}
	if rr.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body), rr.Body.String())
	}
	return rr, body
}

func jsonRequest(method, target, body string) *http.Request {
	req := httptest.NewRequest(method, target, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

type formFile struct {
	name    string
	content string
}

func multipartRequest(t *testing.T, target string, fields map[string][]string, files ...formFile) *http.Request {
	t.Helper()
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, values := range fields {
		for _, v := range values {
			require.NoError(t, writer.WriteField(key, v))
		}
	}
	for _, f := range files {
		part, err := writer.CreateFormFile("image", f.name)
		require.NoError(t, err)
		_, err = part.Write([]byte(f.content))
		require.NoError(t, err)
	}
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	return req
}

func (a *testApp) register(t *testing.T, username string) (string, *http.Cookie) {
	t.Helper()
	rr, body := a.do(t, jsonRequest(http.MethodPost, RegisterRouteAPI,
		fmt.Sprintf(`{"email":"%s@example.com","username":"%s","password":"pw"}`, username, username)))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	cookies := rr.Result().Cookies()
	require.NotEmpty(t, cookies)
	return body["token"].(string), cookies[0]
}

func TestRoute_Signup(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name           string
		contentType    string
		body           string
		wantStatusCode int
		wantMessage    string
	}{
		{
			name:           "Valid signup request",
			contentType:    "application/json",
			body:           `{"email":"ranger@example.com","username":"ranger","password":"pw"}`,
			wantStatusCode: http.StatusOK,
			wantMessage:    MsgRegistrationSuccessful,
		},
		{
			name:           "Duplicate username",
			contentType:    "application/json",
			body:           `{"email":"other@example.com","username":"ranger","password":"pw"}`,
			wantStatusCode: http.StatusConflict,
			wantMessage:    ErrFailedToRegisterUser,
		},
		{
			name:           "Missing Content-Type",
			body:           `{"email":"a@example.com","username":"a","password":"pw"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    ErrInvalidContentType,
		},
		{
			name:           "Invalid email",
			contentType:    "application/json",
			body:           `{"email":"not-an-email","username":"b","password":"pw"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    ErrValidationFailed,
		},
		{
			name:           "Invalid JSON body",
			contentType:    "application/json",
			body:           `{"username":"c""password":"pw"}`,
			wantStatusCode: http.StatusBadRequest,
			wantMessage:    ErrInvalidRequestBody,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, RegisterRouteAPI, bytes.NewBufferString(tt.body))
			if tt.contentType != "" {
				req.Header.Set("Content-Type", tt.contentType)
			}
			rr, body := app.do(t, req)

			assert.Equal(t, tt.wantStatusCode, rr.Code)
			assert.Equal(t, tt.wantMessage, body["message"])
			if tt.wantStatusCode != http.StatusOK {
				assert.NotEmpty(t, body["error"])
				return
			}
			claims, err := auth.VerifyToken(body["token"].(string), testSecret)
			require.NoError(t, err)
			assert.NotEmpty(t, claims.UserID)
			require.Len(t, rr.Result().Cookies(), 1)
			assert.Equal(t, "session", rr.Result().Cookies()[0].Name)
		})
	}
}

func TestRoute_Login(t *testing.T) {
	app := newTestApp(t)
	app.register(t, "testuser")

	tests := []struct {
		name           string
		body           string
		wantStatusCode int
	}{
		{name: "Valid login request", body: `{"username":"testuser","password":"pw"}`, wantStatusCode: http.StatusOK},
		{name: "Wrong password", body: `{"username":"testuser","password":"nope"}`, wantStatusCode: http.StatusUnauthorized},
		{name: "Unknown user", body: `{"username":"ghost","password":"pw"}`, wantStatusCode: http.StatusUnauthorized},
		{name: "Missing password", body: `{"username":"testuser"}`, wantStatusCode: http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := app.do(t, jsonRequest(http.MethodPost, LoginRouteAPI, tt.body))
			if rr.Code != tt.wantStatusCode {
				t.Fatalf("got status %d, want %d: %s", rr.Code, tt.wantStatusCode, rr.Body.String())
			}
			assert.Equal(t, ContentTypeJson, rr.Header().Get(ContentType))

			switch tt.wantStatusCode {
			case http.StatusOK:
				assert.Equal(t, MsgLoggedIn, body["message"])
				data := body["data"].(map[string]interface{})
				assert.Equal(t, float64(auth.LoginExpirySeconds), data["expiryTime"])
				claims, err := auth.VerifyToken(data["token"].(string), testSecret)
				require.NoError(t, err)
				assert.Equal(t, data["user"], claims.UserID)
			case http.StatusUnauthorized:
				assert.Equal(t, models.ErrInvalidCredentials.Error(), body["error"])
				assert.Equal(t, ErrInvalidCredentials, body["message"])
			}
		})
	}
}

func TestRoute_Logout(t *testing.T) {
	app := newTestApp(t)
	_, cookie := app.register(t, "ranger")

	req := httptest.NewRequest(http.MethodPost, LogoutRouteAPI, nil)
	req.AddCookie(cookie)
	rr, body := app.do(t, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MsgGoodbye, body["message"])
	require.Len(t, rr.Result().Cookies(), 1)
	assert.Equal(t, -1, rr.Result().Cookies()[0].MaxAge)

	// the old cookie no longer authenticates
	req = jsonRequest(http.MethodPost, "/campgrounds/any/reviews", `{"body":"nice","rating":4}`)
	req.AddCookie(cookie)
	rr, _ = app.do(t, req)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestRoute_CampgroundLifecycle(t *testing.T) {
	app := newTestApp(t)
	token, _ := app.register(t, "ranger")

	// create
	req := multipartRequest(t, CampgroundNewRouteAPI, map[string][]string{
		"title":       {"Arches Camp"},
		"location":    {"Moab, Utah"},
		"price":       {"25.5"},
		"description": {"red rocks"},
	}, formFile{"a.png", "aaa"}, formFile{"b.png", "bbb"})
	req.Header.Set("Authorization", "Bearer "+token)
	rr, body := app.do(t, req)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, MsgCampgroundCreated, body["message"])
	created := body["campground"].(map[string]interface{})
	id := created["_id"].(string)
	assert.Equal(t, 25.5, created["price"])
	assert.NotEmpty(t, created["author"])
	require.Len(t, created["images"], 2)

	// list
	rr, body = app.do(t, httptest.NewRequest(http.MethodGet, CampgroundsRouteAPI, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Len(t, body["campgrounds"], 1)

	// show with author populated
	rr, body = app.do(t, httptest.NewRequest(http.MethodGet, "/campgrounds/"+id, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	detail := body["campgrounds"].(map[string]interface{})
	assert.Equal(t, "ranger", detail["author"].(map[string]interface{})["username"])
	assert.NotContains(t, detail["author"], "hashed_password")

	// edit form
	rr, body = app.do(t, httptest.NewRequest(http.MethodGet, "/campgrounds/"+id+"/edit", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "Arches Camp", body["campground"].(map[string]interface{})["title"])

	// update, dropping the first image
	rr, body = app.do(t, multipartRequest(t, "/campgrounds/"+id+"/edit", map[string][]string{
		"title":          {"Arches Camp II"},
		"location":       {"Moab, Utah"},
		"price":          {"30"},
		"deleteImages[]": {"YelpCamp/1-a.png"},
	}, formFile{"c.png", "ccc"}))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, MsgCampgroundUpdated, body["message"])

	_, body = app.do(t, httptest.NewRequest(http.MethodGet, "/campgrounds/"+id+"/edit", nil))
	edited := body["campground"].(map[string]interface{})
	assert.Equal(t, "Arches Camp II", edited["title"])
	images := edited["images"].([]interface{})
	require.Len(t, images, 2)
	assert.Equal(t, "YelpCamp/2-b.png", images[0].(map[string]interface{})["filename"])
	assert.Equal(t, "YelpCamp/3-c.png", images[1].(map[string]interface{})["filename"])

	// delete
	rr, body = app.do(t, httptest.NewRequest(http.MethodDelete, "/campgrounds/"+id, nil))
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MsgCampgroundDeleted, body["message"])
	assert.Empty(t, app.media.stored)

	rr, body = app.do(t, httptest.NewRequest(http.MethodGet, "/campgrounds/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, models.ErrNotFound.Error(), body["error"])

	rr, _ = app.do(t, httptest.NewRequest(http.MethodDelete, "/campgrounds/"+id, nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoute_CreateCampground_Errors(t *testing.T) {
	app := newTestApp(t)

	tests := []struct {
		name           string
		fields         map[string][]string
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "location not found",
			fields:         map[string][]string{"title": {"Lost"}, "location": {"Atlantis"}, "price": {"1"}},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      models.ErrLocationNotFound.Error(),
		},
		{
			name:           "missing title",
			fields:         map[string][]string{"location": {"Moab, Utah"}, "price": {"1"}},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "price is not a number",
			fields:         map[string][]string{"title": {"Arches"}, "location": {"Moab, Utah"}, "price": {"cheap"}},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "price is infinite",
			fields:         map[string][]string{"title": {"Arches"}, "location": {"Moab, Utah"}, "price": {"Inf"}},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "price is NaN",
			fields:         map[string][]string{"title": {"Arches"}, "location": {"Moab, Utah"}, "price": {"NaN"}},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name:           "negative price",
			fields:         map[string][]string{"title": {"Arches"}, "location": {"Moab, Utah"}, "price": {"-1"}},
			wantStatusCode: http.StatusBadRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr, body := app.do(t, multipartRequest(t, CampgroundNewRouteAPI, tt.fields, formFile{"a.png", "aaa"}))
			assert.Equal(t, tt.wantStatusCode, rr.Code)
			if tt.wantError != "" {
				assert.Equal(t, tt.wantError, body["error"])
			}
			assert.Empty(t, app.media.stored)
		})
	}

	rr, body := app.do(t, httptest.NewRequest(http.MethodGet, CampgroundsRouteAPI, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Empty(t, body["campgrounds"])
}

func TestRoute_CampgroundForm_BodyTooLarge(t *testing.T) {
	app := newTestApp(t)
	fields := map[string][]string{"title": {"Arches"}, "location": {"Moab, Utah"}, "price": {"10"}}
	big := formFile{"big.png", strings.Repeat("x", 2*testMaxBodyBytes)}

	rr, body := app.do(t, multipartRequest(t, CampgroundNewRouteAPI, fields, big))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rr.Code)
	assert.Equal(t, ErrRequestTooLarge, body["message"])
	assert.Empty(t, app.media.stored)

	rr, _ = app.do(t, multipartRequest(t, CampgroundNewRouteAPI, fields, formFile{"small.png", "ok"}))
	assert.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
}

func TestRoute_JSONResponse_EncodeFailure(t *testing.T) {
	app := newTestApp(t)

	rr := httptest.NewRecorder()
	app.route.jsonResponse(rr, http.StatusOK, map[string]float64{"price": math.Inf(1)})

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	body := map[string]string{}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, ErrFailedToEncodeResponse, body["message"])
	assert.NotEmpty(t, body["error"])
}

func TestRoute_Reviews(t *testing.T) {
	app := newTestApp(t)
	authorToken, _ := app.register(t, "author")
	_, otherCookie := app.register(t, "other")

	rr, body := app.do(t, multipartRequest(t, CampgroundNewRouteAPI, map[string][]string{
		"title": {"Arches"}, "location": {"Moab, Utah"}, "price": {"10"},
	}))
	require.Equal(t, http.StatusOK, rr.Code)
	id := body["campground"].(map[string]interface{})["_id"].(string)
	reviewsPath := "/campgrounds/" + id + "/reviews"

	rr, _ = app.do(t, jsonRequest(http.MethodPost, reviewsPath, `{"body":"great","rating":5}`))
	assert.Equal(t, http.StatusUnauthorized, rr.Code, "anonymous review")

	req := jsonRequest(http.MethodPost, reviewsPath, `{"body":"great","rating":9}`)
	req.Header.Set("Authorization", "Bearer "+authorToken)
	rr, _ = app.do(t, req)
	assert.Equal(t, http.StatusBadRequest, rr.Code, "rating out of range")

	req = jsonRequest(http.MethodPost, reviewsPath, `{"body":"great","rating":5}`)
	req.Header.Set("Authorization", "Bearer "+authorToken)
	rr, body = app.do(t, req)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, MsgReviewCreated, body["message"])
	reviewID := body["review"].(map[string]interface{})["_id"].(string)

	_, body = app.do(t, httptest.NewRequest(http.MethodGet, "/campgrounds/"+id, nil))
	reviews := body["campgrounds"].(map[string]interface{})["reviews"].([]interface{})
	require.Len(t, reviews, 1)
	assert.Equal(t, "author", reviews[0].(map[string]interface{})["author"].(map[string]interface{})["username"])

	req = httptest.NewRequest(http.MethodDelete, reviewsPath+"/"+reviewID, nil)
	req.AddCookie(otherCookie)
	rr, body = app.do(t, req)
	assert.Equal(t, http.StatusForbidden, rr.Code)
	assert.Equal(t, models.ErrForbidden.Error(), body["error"])

	req = httptest.NewRequest(http.MethodDelete, reviewsPath+"/"+reviewID, nil)
	req.Header.Set("Authorization", "Bearer "+authorToken)
	rr, body = app.do(t, req)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, MsgReviewDeleted, body["message"])

	req = jsonRequest(http.MethodPost, "/campgrounds/missing/reviews", `{"body":"great","rating":5}`)
	req.Header.Set("Authorization", "Bearer "+authorToken)
	rr, _ = app.do(t, req)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestRoute_Health(t *testing.T) {
	app := newTestApp(t)

	rr, body := app.do(t, httptest.NewRequest(http.MethodGet, HealthRouteAPI, nil))
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, StatusOK, body["status"])

	app.route.Pinger = failingPinger{err: errors.New("connection refused")}
	rr, body = app.do(t, httptest.NewRequest(http.MethodGet, HealthRouteAPI, nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.Equal(t, StatusUnavailable, body["status"])
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{fmt.Errorf("wrapped: %w", models.ErrNotFound), http.StatusNotFound},
		{models.ErrLocationNotFound, http.StatusUnprocessableEntity},
		{models.ErrDuplicateUser, http.StatusConflict},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{models.ErrInvalidInput, http.StatusBadRequest},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			assert.Equal(t, tt.want, statusFor(tt.err))
		})
	}
}
