package routes

import (
	"fmt"
	"net/http"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/haguru/yelpcamp/internal/middleware"
)

// Mount registers every API route on s. limiter guards register and login.
func (r *Route) Mount(s interfaces.Server, authn *middleware.Authenticator, limiter func(http.Handler) http.Handler) error {
	type route struct {
		method      string
		path        string
		handler     http.HandlerFunc
		middlewares []func(http.Handler) http.Handler
	}

	table := []route{
		{http.MethodGet, HealthRouteAPI, r.Health, nil},
		{http.MethodPost, RegisterRouteAPI, r.Signup, []func(http.Handler) http.Handler{limiter}},
		{http.MethodPost, LoginRouteAPI, r.Login, []func(http.Handler) http.Handler{limiter}},
		{http.MethodPost, LogoutRouteAPI, r.Logout, nil},
		{http.MethodGet, CampgroundsRouteAPI, r.ListCampgrounds, nil},
		{http.MethodPost, CampgroundNewRouteAPI, r.CreateCampground, []func(http.Handler) http.Handler{authn.OptionalAuth}},
		{http.MethodGet, CampgroundRouteAPI, r.ShowCampground, nil},
		{http.MethodDelete, CampgroundRouteAPI, r.DeleteCampground, nil},
		{http.MethodGet, CampgroundEditRouteAPI, r.EditCampgroundForm, nil},
		{http.MethodPost, CampgroundEditRouteAPI, r.UpdateCampground, nil},
		{http.MethodPost, ReviewsRouteAPI, r.CreateReview, []func(http.Handler) http.Handler{authn.RequireAuth}},
		{http.MethodDelete, ReviewRouteAPI, r.DeleteReview, []func(http.Handler) http.Handler{authn.RequireAuth}},
	}

	for _, rt := range table {
		if err := s.AddRoute(rt.method, rt.path, rt.handler, rt.middlewares...); err != nil {
			return fmt.Errorf("failed to add %s %s route: %w", rt.method, rt.path, err)
		}
	}
	return nil
}
