// Copyright © 2025 jackelyj <dreamerlyj@gmail.com>
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in
// all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
// THE SOFTWARE.
//

package lifecycle

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics exposes Prometheus counters for connection attempts and shutdown
// outcomes.
type Metrics struct {
	connectAttempts  *prometheus.CounterVec
	shutdownOutcomes *prometheus.CounterVec
}

// NewMetrics creates the lifecycle collectors under namespace and registers
// them with reg.
func NewMetrics(namespace string, reg prometheus.Registerer) (*Metrics, error) {
	if namespace == "" {
		namespace = "signup"
	}
	if reg == nil {
		reg = prometheus.NewRegistry()
	}

	m := &Metrics{
		connectAttempts: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "connect_attempts_total",
				Help:      "Total number of connection attempts by target and result",
			},
			[]string{"target", "result"},
		),
		shutdownOutcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "shutdown_outcomes_total",
				Help:      "Total number of shutdown runs by outcome",
			},
			[]string{"outcome"},
		),
	}

	for _, c := range []prometheus.Collector{m.connectAttempts, m.shutdownOutcomes} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register lifecycle metrics: %w", err)
		}
	}
	return m, nil
}

// ConnectOptions returns Connect options that count attempts against target.
// Successful attempts are recorded by ObserveConnected.
func (m *Metrics) ConnectOptions(target string) []ConnectOption {
	return []ConnectOption{
		WithOnRetry(func(int, error, time.Duration) {
			m.connectAttempts.WithLabelValues(target, "failure").Inc()
		}),
		WithOnExhausted(func(error, int) {
			m.connectAttempts.WithLabelValues(target, "failure").Inc()
		}),
	}
}

// ObserveConnected records the successful attempt of a Connect call.
func (m *Metrics) ObserveConnected(target string) {
	m.connectAttempts.WithLabelValues(target, "success").Inc()
}

// ObserveOutcome is suitable for WithOutcomeHook.
func (m *Metrics) ObserveOutcome(o Outcome) {
	m.shutdownOutcomes.WithLabelValues(o.String()).Inc()
}
