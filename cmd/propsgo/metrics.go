// Licensed to the Apache Software Foundation (ASF) under one or more
// contributor license agreements.  See the NOTICE file distributed with
// this work for additional information regarding copyright ownership.
// The ASF licenses this file to You under the Apache License, Version 2.0
// (the "License"); you may not use this file except in compliance with
// the License.  You may obtain a copy of the License at
//
//    http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// writeMetrics writes the run counters to path in the Prometheus text
// format, for collection by a node exporter textfile collector.
func writeMetrics(path string, counters map[string]int64, finished time.Time) error {
	reg := prometheus.NewRegistry()
	elements := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "propsgo",
		Name:      "elements_total",
		Help:      "Elements counted by each transform in the last run.",
	}, []string{"counter"})
	lastRun := prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "propsgo",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix time the last run finished.",
	})
	reg.MustRegister(elements, lastRun)

	for name, v := range counters {
		elements.WithLabelValues(name).Add(float64(v))
	}
	lastRun.Set(float64(finished.Unix()))
	if err := prometheus.WriteToTextfile(path, reg); err != nil {
		return fmt.Errorf("writing metrics: %w", err)
	}
	return nil
}
