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

package publish

import (
	"time"

	"github.com/montanaflynn/stats"
)

// Summary reports the outcome of one publish run.
type Summary struct {
	RunID             string  `json:"run_id"`
	Target            string  `json:"target"`
	Uploaded          int     `json:"uploaded"`
	Skipped           int     `json:"skipped"`
	Deleted           int     `json:"deleted"`
	BytesUploaded     int64   `json:"bytes_uploaded"`
	ElapsedSeconds    float64 `json:"elapsed_seconds"`
	UploadMeanSeconds float64 `json:"upload_mean_seconds"`
	UploadP50Seconds  float64 `json:"upload_p50_seconds"`
	UploadP95Seconds  float64 `json:"upload_p95_seconds"`
	DryRun            bool    `json:"dry_run"`
}

// aggregate fills the upload duration aggregates from the recorded samples.
func (s *Summary) aggregate(durations []time.Duration) {
	if len(durations) == 0 {
		return
	}
	samples := make(stats.Float64Data, 0, len(durations))
	for _, d := range durations {
		samples = append(samples, d.Seconds())
	}
	if mean, err := stats.Mean(samples); err == nil {
		s.UploadMeanSeconds = mean
	}
	if median, err := stats.Median(samples); err == nil {
		s.UploadP50Seconds = median
	}
	if p95, err := stats.Percentile(samples, 95); err == nil {
		s.UploadP95Seconds = p95
	}
}
