package metrics

import (
	"strings"
	"testing"
	"time"

	pkgmetrics "github.com/haguru/yelpcamp/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T) {
	m := pkgmetrics.NewMetrics("test_service")
	Register(m)

	m.IncCounter(SignupRequestsTotal)
	m.IncCounterVec(CampgroundRequestsTotal, "create")
	m.IncCounterVec(CampgroundRequestsTotal, "create")
	m.ObserveSinceVec(CampgroundDurationSeconds, time.Now(), "create")
	m.IncCounterVec(HTTPRequestsTotal, "/campgrounds", "GET", "200")

	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)

	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["test_service_signup_requests_total"])
	assert.True(t, names["test_service_campground_requests_total"])
	assert.True(t, names["test_service_campground_duration_seconds"])
	assert.True(t, names["test_service_http_requests_total"])

	expected := `
# HELP test_service_campground_requests_total Total number of campground requests by operation
# TYPE test_service_campground_requests_total counter
test_service_campground_requests_total{operation="create"} 2
`
	assert.NoError(t, testutil.GatherAndCompare(m.GetRegistry(), strings.NewReader(expected), "test_service_campground_requests_total"))
}

func TestRegister_Twice(t *testing.T) {
	m := pkgmetrics.NewMetrics("test_service")
	Register(m)
	assert.NotPanics(t, func() { Register(m) })

	m.IncCounter(LoginRequestsTotal)
	count, err := testutil.GatherAndCount(m.GetRegistry(), "test_service_login_requests_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
