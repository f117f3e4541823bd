// Copyright (c) 2025, NVIDIA CORPORATION.  All rights reserved.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package engine

import (
	"errors"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

type metrics struct {
	passDuration      prometheus.Histogram
	passTotal         *prometheus.CounterVec
	describerDuration *prometheus.HistogramVec
	describerFailures *prometheus.CounterVec
	graphItems        prometheus.Gauge
	danglingLinks     prometheus.Counter
}

var (
	defaultMetricsOnce sync.Once
	defaultMetrics     *metrics
)

// metricsFor returns the engine metrics registered on reg. The default
// registerer is populated once per process; other registerers reuse
// collectors already registered on them.
func metricsFor(reg prometheus.Registerer) *metrics {
	if reg == nil || reg == prometheus.DefaultRegisterer {
		defaultMetricsOnce.Do(func() {
			defaultMetrics = newMetrics(prometheus.DefaultRegisterer)
		})
		return defaultMetrics
	}
	return newMetrics(reg)
}

func newMetrics(reg prometheus.Registerer) *metrics {
	return &metrics{
		passDuration: register(reg, prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "autodoc_pass_duration_seconds",
				Help:    "Time taken by a complete documentation pass",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60},
			},
		)),
		passTotal: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autodoc_pass_total",
				Help: "Total number of documentation passes",
			},
			[]string{"status"}, // persisted or failed
		)),
		describerDuration: register(reg, prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "autodoc_describer_duration_seconds",
				Help:    "Time taken by individual describers",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5},
			},
			[]string{"describer"},
		)),
		describerFailures: register(reg, prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "autodoc_describer_failures_total",
				Help: "Total number of describer invocations that produced no items because of an error",
			},
			[]string{"describer", "code"},
		)),
		graphItems: register(reg, prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "autodoc_graph_items",
				Help: "Number of items in the last assembled snapshot",
			},
		)),
		danglingLinks: register(reg, prometheus.NewCounter(
			prometheus.CounterOpts{
				Name: "autodoc_dangling_links_total",
				Help: "Total number of relations skipped because an endpoint was missing",
			},
		)),
	}
}

func register[T prometheus.Collector](reg prometheus.Registerer, c T) T {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(T); ok {
				return existing
			}
		}
		panic(err)
	}
	return c
}
