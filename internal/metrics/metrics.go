package metrics

import (
	"github.com/haguru/yelpcamp/internal/interfaces"
)

var (
	DurationSecondsBuckets = []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10}
)

const (
	LabelOperation = "operation"
	LabelRoute     = "route"
	LabelMethod    = "method"
	LabelStatus    = "status"

	SignupRequestsTotal       = "signup_requests_total"
	SignupRequestsTotalHelp   = "Total number of signup requests received"
	SignupSuccessTotal        = "signup_success_total"
	SignupSuccessTotalHelp    = "Total number of successful signup requests"
	SignupErrorsTotal         = "signup_errors_total"
	SignupErrorsTotalHelp     = "Total number of errors during signup requests"
	SignupDurationSeconds     = "signup_duration_seconds"
	SignupDurationSecondsHelp = "Duration of signup requests in seconds"

	LoginRequestsTotal        = "login_requests_total"
	LoginRequestsTotalHelp    = "Total number of login requests received"
	LoginSuccessTotal         = "login_success_total"
	LoginSuccessTotalHelp     = "Total number of successful login requests"
	LoginFailedTotal          = "login_failed_total"
	LoginFailedTotalHelp      = "Total number of failed login requests"
	LoginDurationSeconds      = "login_duration_seconds"
	LoginDurationSecondsHelp  = "Duration of login requests in seconds"
	LoginRateLimitedTotal     = "rate_limited_total"
	LoginRateLimitedTotalHelp = "Total number of requests rejected by the rate limiter"

	CampgroundRequestsTotal       = "campground_requests_total"
	CampgroundRequestsTotalHelp   = "Total number of campground requests by operation"
	CampgroundErrorsTotal         = "campground_errors_total"
	CampgroundErrorsTotalHelp     = "Total number of failed campground requests by operation"
	CampgroundDurationSeconds     = "campground_duration_seconds"
	CampgroundDurationSecondsHelp = "Duration of campground operations in seconds"

	HTTPRequestsTotal     = "http_requests_total"
	HTTPRequestsTotalHelp = "Total number of HTTP requests by route, method and status"

	MediaOrphansTotal     = "media_orphans_total"
	MediaOrphansTotalHelp = "Remote media objects that could not be destroyed after a commit"
)

// Register adds every metric the service reports to m.
func Register(m interfaces.Metrics) {
	m.RegisterCounter(SignupRequestsTotal, SignupRequestsTotalHelp)
	m.RegisterCounter(SignupSuccessTotal, SignupSuccessTotalHelp)
	m.RegisterCounter(SignupErrorsTotal, SignupErrorsTotalHelp)
	m.RegisterHistogram(SignupDurationSeconds, SignupDurationSecondsHelp, DurationSecondsBuckets)

	m.RegisterCounter(LoginRequestsTotal, LoginRequestsTotalHelp)
	m.RegisterCounter(LoginSuccessTotal, LoginSuccessTotalHelp)
	m.RegisterCounter(LoginFailedTotal, LoginFailedTotalHelp)
	m.RegisterHistogram(LoginDurationSeconds, LoginDurationSecondsHelp, DurationSecondsBuckets)
	m.RegisterCounter(LoginRateLimitedTotal, LoginRateLimitedTotalHelp)

	m.RegisterCounterVec(CampgroundRequestsTotal, CampgroundRequestsTotalHelp, []string{LabelOperation})
	m.RegisterCounterVec(CampgroundErrorsTotal, CampgroundErrorsTotalHelp, []string{LabelOperation})
	m.RegisterHistogramVec(CampgroundDurationSeconds, CampgroundDurationSecondsHelp, DurationSecondsBuckets, []string{LabelOperation})

	m.RegisterCounterVec(HTTPRequestsTotal, HTTPRequestsTotalHelp, []string{LabelRoute, LabelMethod, LabelStatus})
	m.RegisterCounter(MediaOrphansTotal, MediaOrphansTotalHelp)
}
