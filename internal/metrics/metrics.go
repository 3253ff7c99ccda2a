package metrics

import "github.com/prometheus/client_golang/prometheus"

type Counter interface {
	Inc(labels ...string)
}

type Counters struct {
	LogsReceived Counter

	Dispatches Counter
}

type PrometheusCounter struct {
	counter *prometheus.CounterVec
}

func NewPrometheusCounter(name, help string, labels []string) *PrometheusCounter {
	c := &PrometheusCounter{
		counter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: name,
			Help: help,
		}, labels),
	}
	prometheus.MustRegister(c.counter)
	return c
}

func (p *PrometheusCounter) Inc(labels ...string) {
	p.counter.WithLabelValues(labels...).Inc()
}

func New() *Counters {
	return &Counters{
		LogsReceived: NewPrometheusCounter(
			"logs_received_total",
			"Log entries accepted per app and level",
			[]string{"app", "level"},
		),
		Dispatches: NewPrometheusCounter(
			"store_dispatches_total",
			"Coordinator dispatches per operation and status",
			[]string{"op", "status"},
		),
	}
}

func NewTestCounters() *Counters {
	reg := prometheus.NewRegistry()

	logsReceived := &PrometheusCounter{
		counter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "logs_received_total",
			Help: "Log entries accepted per app and level",
		}, []string{"app", "level"}),
	}

	dispatches := &PrometheusCounter{
		prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "store_dispatches_total",
			Help: "Coordinator dispatches per operation and status",
		}, []string{"op", "status"}),
	}

	reg.MustRegister(logsReceived.counter)
	reg.MustRegister(dispatches.counter)

	return &Counters{
		LogsReceived: logsReceived,
		Dispatches:   dispatches,
	}
}
