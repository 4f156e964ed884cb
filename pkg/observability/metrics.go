// Licensed to Apache Software Foundation (ASF) under one or more contributor
// license agreements. See the NOTICE file distributed with
// this work for additional information regarding copyright
// ownership. Apache Software Foundation (ASF) licenses this file to you under
// the Apache License, Version 2.0 (the "License"); you may
// not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing,
// software distributed under the License is distributed on an
// "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
// KIND, either express or implied.  See the License for the
// specific language governing permissions and limitations
// under the License.

package observability

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Collectors for the publish pipeline. Labeled by publish target name.
var (
	RunsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "distill",
		Subsystem: "publish",
		Name:      "runs_total",
		Help:      "Number of publish runs, by result.",
	}, []string{"target", "result"})

	UploadsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "distill",
		Subsystem: "publish",
		Name:      "uploads_total",
		Help:      "Number of files uploaded.",
	}, []string{"target"})

	SkipsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "distill",
		Subsystem: "publish",
		Name:      "skips_total",
		Help:      "Number of files skipped because the remote content matched.",
	}, []string{"target"})

	DeletesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "distill",
		Subsystem: "publish",
		Name:      "deletes_total",
		Help:      "Number of stale remote files deleted.",
	}, []string{"target"})

	BytesUploadedTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "distill",
		Subsystem: "publish",
		Name:      "bytes_uploaded_total",
		Help:      "Bytes uploaded.",
	}, []string{"target"})

	UploadDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: "distill",
		Subsystem: "publish",
		Name:      "upload_duration_seconds",
		Help:      "Duration of single file uploads.",
		Buckets:   prometheus.ExponentialBuckets(0.01, 2, 12),
	}, []string{"target"})
)
