package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for resolution, login and registration.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Resolutions     *prometheus.CounterVec
	Logins          *prometheus.CounterVec
	WizardSteps     *prometheus.CounterVec
	ProfilesWritten *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	Panics          prometheus.Counter
}

// New creates a Metrics instance registered against reg
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		Resolutions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ofelia_resolutions_total",
			Help: "Bracelet ID resolutions by outcome",
		}, []string{"outcome"}),
		Logins: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ofelia_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		WizardSteps: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ofelia_wizard_transitions_total",
			Help: "Registration wizard transitions by step reached and result",
		}, []string{"step", "result"}),
		ProfilesWritten: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "ofelia_profiles_written_total",
			Help: "Profiles committed by wizard mode",
		}, []string{"mode"}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "ofelia_http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"method", "status"}),
		Panics: factory.NewCounter(prometheus.CounterOpts{
			Name: "ofelia_http_panics_total",
			Help: "Handler panics recovered by the HTTP middleware",
		}),
	}
}

// ObserveResolution records one resolver outcome
func (m *Metrics) ObserveResolution(outcome string) {
	if m == nil {
		return
	}
	m.Resolutions.WithLabelValues(outcome).Inc()
}

// ObserveLogin records a login attempt result ("ok", "invalid", "missing")
func (m *Metrics) ObserveLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// ObserveWizardStep records a transition attempt
func (m *Metrics) ObserveWizardStep(step, result string) {
	if m == nil {
		return
	}
	m.WizardSteps.WithLabelValues(step, result).Inc()
}

// IncrementProfilesWritten records a committed profile
func (m *Metrics) IncrementProfilesWritten(mode string) {
	if m == nil {
		return
	}
	m.ProfilesWritten.WithLabelValues(mode).Inc()
}

// ObserveRequest records the duration of an HTTP request.
// Call with time.Now() at the start of the request.
func (m *Metrics) ObserveRequest(method, status string, start time.Time) {
	if m == nil {
		return
	}
	m.RequestDuration.WithLabelValues(method, status).Observe(time.Since(start).Seconds())
}

// ObservePanic records a recovered handler panic
func (m *Metrics) ObservePanic() {
	if m == nil {
		return
	}
	m.Panics.Inc()
}
