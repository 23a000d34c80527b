package vm

import (
	"errors"

	"github.com/govm-net/counter/core"
	"github.com/prometheus/client_golang/prometheus"
)

const (
	resultOK              = "ok"
	resultUnknownProgram  = "unknown_program"
	resultUnknownFunction = "unknown_function"
	resultDuplicate       = "duplicate"
	resultError           = "error"

	// program label for calls to an unregistered address
	unknownProgram = "unknown"
)

type metrics struct {
	calls *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) (*metrics, error) {
	m := &metrics{
		calls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "counter",
			Subsystem: "engine",
			Name:      "calls_total",
			Help:      "number of executed transactions by program, function and result",
		}, []string{"program", "function", "result"}),
	}
	if reg != nil {
		if err := reg.Register(m.calls); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *metrics) observe(program, function, result string) {
	m.calls.WithLabelValues(program, function, result).Inc()
}

var resultErrors = []struct {
	err   error
	label string
}{
	{core.ErrDuplicateTransaction, resultDuplicate},
	{core.ErrAuthentication, "unauthenticated"},
	{core.ErrUnauthorized, "unauthorized"},
	{core.ErrAllocation, "allocation"},
	{core.ErrNotFound, "not_found"},
	{core.ErrOverflow, "overflow"},
	{core.ErrInvalidArgument, "invalid_argument"},
}

func resultLabel(err error) string {
	for _, re := range resultErrors {
		if errors.Is(err, re.err) {
			return re.label
		}
	}
	return resultError
}
