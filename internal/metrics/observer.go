package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
	"github.com/tarungka/mapsources"
)

const (
	outcomeRewritten = "rewritten"
	outcomeFailed    = "failed"
)

// Observer exports rewriter outcomes to Prometheus.
type Observer struct {
	files   *prometheus.CounterVec
	sources prometheus.Counter
}

// NewObserver registers the rewriter metrics under namespace.
func NewObserver(namespace string, reg prometheus.Registerer) (*Observer, error) {
	if namespace == "" {
		namespace = "mapsources"
	}
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	o := &Observer{
		files: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "files_total",
			Help:      "Files seen by the rewriter, by outcome.",
		}, []string{"outcome"}),
		sources: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sources_rewritten_total",
			Help:      "Source map entries rewritten.",
		}),
	}
	if err := reg.Register(o.files); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register files counter: %w", err)
		}
		existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("register files counter: %w", err)
		}
		o.files = existing
	}
	if err := reg.Register(o.sources); err != nil {
		are, ok := err.(prometheus.AlreadyRegisteredError)
		if !ok {
			return nil, fmt.Errorf("register sources counter: %w", err)
		}
		existing, ok := are.ExistingCollector.(prometheus.Counter)
		if !ok {
			return nil, fmt.Errorf("register sources counter: %w", err)
		}
		o.sources = existing
	}
	return o, nil
}

func (o *Observer) FileSkipped(reason mapsources.SkipReason) {
	if o == nil {
		return
	}
	o.files.WithLabelValues(string(reason)).Inc()
}

func (o *Observer) FileRewritten(sources int) {
	if o == nil {
		return
	}
	o.files.WithLabelValues(outcomeRewritten).Inc()
	o.sources.Add(float64(sources))
}

func (o *Observer) FileFailed() {
	if o == nil {
		return
	}
	o.files.WithLabelValues(outcomeFailed).Inc()
}

var _ mapsources.Observer = (*Observer)(nil)

// WriteText gathers g and writes every metric family in the Prometheus text
// exposition format.
func WriteText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("error gathering metrics: %w", err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("error writing metric %s: %w", mf.GetName(), err)
		}
	}
	return nil
}
