package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline counters and gauges via Prometheus.
type Recorder struct {
	evaluations    *prometheus.CounterVec
	signalsEmitted *prometheus.CounterVec
	errorsTotal    *prometheus.CounterVec
	lastPrice      *prometheus.GaugeVec
	lastConfidence *prometheus.GaugeVec
}

// New creates a Prometheus metrics recorder on the default registry.
func New() *Recorder {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates a recorder on a specific registry. Tests pass their own to
// avoid duplicate registration on the process-wide default.
func NewWith(reg prometheus.Registerer) *Recorder {
	factory := promauto.With(reg)
	return &Recorder{
		evaluations: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_evaluations_total",
				Help: "Total number of instrument evaluations",
			},
			[]string{"instrument"},
		),
		signalsEmitted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_signals_emitted_total",
				Help: "Total number of signals approved and handed to delivery",
			},
			[]string{"instrument", "action"},
		),
		errorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fxsignals_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		lastPrice: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxsignals_last_price",
				Help: "Last observed close price for an instrument",
			},
			[]string{"instrument"},
		),
		lastConfidence: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "fxsignals_last_confidence",
				Help: "Last scored confidence for an instrument",
			},
			[]string{"instrument"},
		),
	}
}

// RecordEvaluation counts one completed instrument evaluation.
func (r *Recorder) RecordEvaluation(instrument string) {
	r.evaluations.WithLabelValues(instrument).Inc()
}

// RecordSignal counts one approved signal emission.
func (r *Recorder) RecordSignal(instrument, action string) {
	r.signalsEmitted.WithLabelValues(instrument, action).Inc()
}

// RecordError counts an error occurrence by kind.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordLastPrice records the last close price for an instrument.
func (r *Recorder) RecordLastPrice(instrument string, price float64) {
	r.lastPrice.WithLabelValues(instrument).Set(price)
}

// RecordLastConfidence records the last scored confidence for an instrument.
func (r *Recorder) RecordLastConfidence(instrument string, confidence int) {
	r.lastConfidence.WithLabelValues(instrument).Set(float64(confidence))
}
