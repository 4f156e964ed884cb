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

// Package observability exposes the publish pipeline's metrics over HTTP.
package observability

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/jayfk/distill/pkg/logger"
	"github.com/jayfk/distill/pkg/run"
)

var (
	_ run.Service = (*metricService)(nil)
	_ run.Config  = (*metricService)(nil)

	errNoAddr = errors.New("no observability listener addr")
)

// Service exposes /metrics and /healthz on the configured listener address.
type Service interface {
	run.PreRunner
	run.Service
}

// NewMetricService returns a metric service.
func NewMetricService() Service {
	return &metricService{
		closer: run.NewCloser(1),
	}
}

type metricService struct {
	l            *logger.Logger
	svr          *http.Server
	closer       *run.Closer
	listenerAddr string
}

func (p *metricService) FlagSet() *run.FlagSet {
	flagS := run.NewFlagSet("observability")
	flagS.StringVar(&p.listenerAddr, "observability-listener-addr", ":2121", "listen addr for observability")
	return flagS
}

func (p *metricService) Validate() error {
	if p.listenerAddr == "" {
		return errNoAddr
	}
	return nil
}

func (p *metricService) Name() string {
	return "metric-service"
}

func (p *metricService) PreRun(_ context.Context) error {
	p.l = logger.GetLogger(p.Name())
	return nil
}

func (p *metricService) Serve() run.StopNotify {
	r := chi.NewRouter()
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	p.svr = &http.Server{
		Addr:              p.listenerAddr,
		Handler:           r,
		ReadHeaderTimeout: 3 * time.Second,
	}
	go func() {
		defer p.closer.Done()
		p.l.Info().Str("listened", p.listenerAddr).Msg("observability start")
		_ = p.svr.ListenAndServe()
	}()
	return p.closer.CloseNotify()
}

func (p *metricService) GracefulStop() {
	if p.svr != nil {
		_ = p.svr.Close()
	}
	p.closer.CloseThenWait()
}
