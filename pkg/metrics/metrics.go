package metrics

import (
	"errors"
	"sync"
	"time"

	"github.com/haguru/yelpcamp/internal/interfaces"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics is a flexible Prometheus metrics collector.
// Every metric is registered under the service namespace.
type Metrics struct {
	Registry      *prometheus.Registry
	namespace     string
	mu            sync.RWMutex
	counters      map[string]prometheus.Counter
	counterVecs   map[string]*prometheus.CounterVec
	histograms    map[string]prometheus.Histogram
	histogramVecs map[string]*prometheus.HistogramVec
	gauges        map[string]prometheus.Gauge
	gaugeVecs     map[string]*prometheus.GaugeVec
}

// NewMetrics creates a new flexible Metrics instance.
func NewMetrics(serviceName string) interfaces.Metrics {
	registry := prometheus.NewRegistry()
	return &Metrics{
		Registry:      registry,
		namespace:     serviceName,
		counters:      make(map[string]prometheus.Counter),
		histograms:    make(map[string]prometheus.Histogram),
		gauges:        make(map[string]prometheus.Gauge),
		counterVecs:   make(map[string]*prometheus.CounterVec),
		histogramVecs: make(map[string]*prometheus.HistogramVec),
		gaugeVecs:     make(map[string]*prometheus.GaugeVec),
	}
}

// GetRegistry returns the Prometheus registry.
func (m *Metrics) GetRegistry() *prometheus.Registry {
	return m.Registry
}

// RegisterCounter registers a new counter metric.
func (m *Metrics) RegisterCounter(name, help string) {
	counter := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
	})
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.register(counter) {
		m.counters[name] = counter
	}
}

// RegisterCounterVec registers a new counter metric with labels.
func (m *Metrics) RegisterCounterVec(name, help string, labels []string) {
	counterVec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
	}, labels)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.register(counterVec) {
		m.counterVecs[name] = counterVec
	}
}

// RegisterHistogram registers a new histogram metric.
func (m *Metrics) RegisterHistogram(name, help string, buckets []float64) {
	histogram := prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	})
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.register(histogram) {
		m.histograms[name] = histogram
	}
}

// RegisterHistogramVec registers a new histogram metric with labels.
func (m *Metrics) RegisterHistogramVec(name, help string, buckets []float64, labels []string) {
	histogramVec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
		Buckets:   buckets,
	}, labels)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.register(histogramVec) {
		m.histogramVecs[name] = histogramVec
	}
}

// RegisterGauge registers a new gauge metric.
func (m *Metrics) RegisterGauge(name, help string) {
	gauge := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
	})
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.register(gauge) {
		m.gauges[name] = gauge
	}
}

// RegisterGaugeVec registers a new gauge metric with labels.
func (m *Metrics) RegisterGaugeVec(name, help string, labels []string) {
	gaugeVec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Name:      name,
		Help:      help,
	}, labels)
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.register(gaugeVec) {
		m.gaugeVecs[name] = gaugeVec
	}
}

// register adds c to the registry. A collector that is already registered under
// the same name is kept and the new one is dropped.
func (m *Metrics) register(c prometheus.Collector) bool {
	if err := m.Registry.Register(c); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			return false
		}
		panic(err)
	}
	return true
}

// ObserveSince records the seconds elapsed since start in a histogram.
func (m *Metrics) ObserveSince(name string, start time.Time) {
	m.ObserveHistogram(name, time.Since(start).Seconds())
}

// ObserveSinceVec records the seconds elapsed since start in a labelled histogram.
func (m *Metrics) ObserveSinceVec(name string, start time.Time, labels ...string) {
	m.ObserveHistogramVec(name, time.Since(start).Seconds(), labels...)
}

// IncCounter increments a counter by 1.
func (m *Metrics) IncCounter(name string) {
	m.mu.RLock()
	counter, ok := m.counters[name]
	m.mu.RUnlock()
	if ok {
		counter.Inc()
	}
}

// AddCounter adds a value to a counter.
func (m *Metrics) AddCounter(name string, value float64) {
	m.mu.RLock()
	counter, ok := m.counters[name]
	m.mu.RUnlock()
	if ok {
		counter.Add(value)
	}
}

// IncCounterVec increments a counter in a CounterVec with labels.
func (m *Metrics) IncCounterVec(name string, labels ...string) {
	m.mu.RLock()
	counterVec, ok := m.counterVecs[name]
	m.mu.RUnlock()
	if ok {
		counterVec.WithLabelValues(labels...).Inc()
	}
}

// AddCounterVec adds a value to a CounterVec with labels.
func (m *Metrics) AddCounterVec(name string, value float64, labels ...string) {
	m.mu.RLock()
	counterVec, ok := m.counterVecs[name]
	m.mu.RUnlock()
	if ok {
		counterVec.WithLabelValues(labels...).Add(value)
	}
}

// ObserveHistogram observes a value in a histogram.
func (m *Metrics) ObserveHistogram(name string, value float64) {
	m.mu.RLock()
	histogram, ok := m.histograms[name]
	m.mu.RUnlock()
	if ok {
		histogram.Observe(value)
	}
}

// ObserveHistogramVec observes a value in a histogram with labels.
func (m *Metrics) ObserveHistogramVec(name string, value float64, labels ...string) {
	m.mu.RLock()
	histogramVec, ok := m.histogramVecs[name]
	m.mu.RUnlock()
	if ok {
		histogramVec.WithLabelValues(labels...).Observe(value)
	}
}

// AddGauge adds the given value to the Gauge. (The value can be negative,
// resulting in a decrease of the Gauge.)
func (m *Metrics) AddGauge(name string, value float64) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		gauge.Add(value)
	}
}

// SetGauge sets a gauge to a specific value.
func (m *Metrics) SetGauge(name string, value float64) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		gauge.Set(value)
	}
}

// IncGauge increments a gauge by 1.
func (m *Metrics) IncGauge(name string) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		gauge.Inc()
	}
}

// DecGauge decrements a gauge by 1.
func (m *Metrics) DecGauge(name string) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		gauge.Dec()
	}
}

// SubGauge subtracts the given value from the Gauge. (The value can be negative,
// resulting in an increase of the Gauge.)
func (m *Metrics) SubGauge(name string, value float64) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		gauge.Sub(value)
	}
}

// SetCurrentTimeGauge sets the gauge to the current time in seconds since epoch.
func (m *Metrics) SetCurrentTimeGauge(name string) {
	m.mu.RLock()
	gauge, ok := m.gauges[name]
	m.mu.RUnlock()
	if ok {
		gauge.SetToCurrentTime()
	}
}

// SetGaugeVec sets a gauge with labels to a specific value.
func (m *Metrics) SetGaugeVec(name string, value float64, labels ...string) {
	m.mu.RLock()
	gaugeVec, ok := m.gaugeVecs[name]
	m.mu.RUnlock()
	if ok {
		gaugeVec.WithLabelValues(labels...).Set(value)
	}
}

// IncGaugeVec increments a gauge with labels by 1.
func (m *Metrics) IncGaugeVec(name string, labels ...string) {
	m.mu.RLock()
	gaugeVec, ok := m.gaugeVecs[name]
	m.mu.RUnlock()
	if ok {
		gaugeVec.WithLabelValues(labels...).Inc()
	}
}

// DecGaugeVec decrements a gauge with labels by 1.
func (m *Metrics) DecGaugeVec(name string, labels ...string) {
	m.mu.RLock()
	gaugeVec, ok := m.gaugeVecs[name]
	m.mu.RUnlock()
	if ok {
		gaugeVec.WithLabelValues(labels...).Dec()
	}
}
