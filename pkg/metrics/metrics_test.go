package metrics

import (
	"testing"
	"time"

	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func family(t *testing.T, m *Metrics, name string) *dto.MetricFamily {
	t.Helper()
	families, err := m.GetRegistry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == name {
			return f
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return nil
}

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics("yelpcamp").(*Metrics)
	m.RegisterCounter("logins_total", "logins")
	m.RegisterCounterVec("requests_total", "requests", []string{"op"})

	m.IncCounter("logins_total")
	m.AddCounter("logins_total", 2)
	m.IncCounterVec("requests_total", "list")
	m.AddCounterVec("requests_total", 3, "show")
	m.IncCounter("unregistered_total")

	assert.Equal(t, 3.0, family(t, m, "yelpcamp_logins_total").GetMetric()[0].GetCounter().GetValue())

	values := map[string]float64{}
	for _, metric := range family(t, m, "yelpcamp_requests_total").GetMetric() {
		values[metric.GetLabel()[0].GetValue()] = metric.GetCounter().GetValue()
	}
	assert.Equal(t, map[string]float64{"list": 1, "show": 3}, values)
}

func TestMetrics_DuplicateRegistrationKeepsFirst(t *testing.T) {
	m := NewMetrics("yelpcamp").(*Metrics)
	m.RegisterCounter("orphans_total", "first")
	m.IncCounter("orphans_total")

	assert.NotPanics(t, func() { m.RegisterCounter("orphans_total", "first") })
	m.IncCounter("orphans_total")

	assert.Equal(t, 2.0, family(t, m, "yelpcamp_orphans_total").GetMetric()[0].GetCounter().GetValue())
}

func TestMetrics_HistogramsAndGauges(t *testing.T) {
	m := NewMetrics("yelpcamp").(*Metrics)
	m.RegisterHistogram("duration_seconds", "duration", []float64{0.1, 1})
	m.RegisterHistogramVec("op_duration_seconds", "op duration", []float64{0.1, 1}, []string{"op"})
	m.RegisterGauge("in_flight", "in flight")
	m.RegisterGaugeVec("locks", "locks", []string{"kind"})

	m.ObserveSince("duration_seconds", time.Now())
	m.ObserveHistogramVec("op_duration_seconds", 0.5, "edit")
	m.IncGauge("in_flight")
	m.IncGauge("in_flight")
	m.DecGauge("in_flight")
	m.SetGaugeVec("locks", 4, "campground")

	assert.Equal(t, uint64(1), family(t, m, "yelpcamp_duration_seconds").GetMetric()[0].GetHistogram().GetSampleCount())
	assert.Equal(t, 0.5, family(t, m, "yelpcamp_op_duration_seconds").GetMetric()[0].GetHistogram().GetSampleSum())
	assert.Equal(t, 1.0, family(t, m, "yelpcamp_in_flight").GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 4.0, family(t, m, "yelpcamp_locks").GetMetric()[0].GetGauge().GetValue())
}
