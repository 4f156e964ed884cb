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

package cmd

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/spf13/cobra"
	str2duration "github.com/xhit/go-str2duration/v2"

	"github.com/jayfk/distill/pkg/backend"
	"github.com/jayfk/distill/pkg/logger"
	"github.com/jayfk/distill/pkg/observability"
	"github.com/jayfk/distill/pkg/publish"
	"github.com/jayfk/distill/pkg/run"
	"github.com/jayfk/distill/pkg/scheduler"
	"github.com/jayfk/distill/pkg/signal"
)

type publishOptions struct {
	configPath string
	sourceDir  string
	webhookURL string
	schedule   string
	timeout    string
	dryRun     bool
}

func newPublishCmd() *cobra.Command {
	var opts publishOptions
	g := run.NewGroup("distill")
	svc := &publishService{}
	g.Register(&signal.Handler{}, observability.NewMetricService(), svc)

	cmd := &cobra.Command{
		Use:               "publish [target]",
		Short:             "Publish the built site to the named target",
		Args:              cobra.ExactArgs(1),
		DisableAutoGenTag: true,
		RunE: func(_ *cobra.Command, args []string) error {
			runOnce, err := buildRun(args[0], opts)
			if err != nil {
				return err
			}
			if opts.schedule == "" {
				return runOnce(context.Background())
			}
			svc.schedule = opts.schedule
			svc.runOnce = runOnce
			return g.Run(context.Background())
		},
	}
	cmd.Flags().StringVar(&opts.configPath, "config", defaultConfigFile, "path to the publish configuration file")
	cmd.Flags().StringVar(&opts.sourceDir, "source-dir", "", "directory holding the built site, overrides the config file")
	cmd.Flags().BoolVar(&opts.dryRun, "dry-run", false, "log the plan without uploading or deleting anything")
	cmd.Flags().StringVar(&opts.timeout, "timeout", "", "per-run timeout, e.g. 30m, 2h or 1d")
	cmd.Flags().StringVar(&opts.webhookURL, "webhook-url", "", "URL to POST the JSON run summary to, overrides the target option")
	cmd.Flags().StringVar(
		&opts.schedule,
		"schedule",
		"",
		"Schedule expression for periodic publishing. Options: @yearly, @monthly, @weekly, @daily, @hourly or @every <duration>",
	)
	cmd.Flags().AddFlagSet(g.RegisterFlags().FlagSet)
	return cmd
}

// buildRun resolves the target configuration into a closure executing one
// publish run, shared by the one-shot and scheduled modes.
func buildRun(targetName string, opts publishOptions) (func(context.Context) error, error) {
	cfg, err := publish.LoadConfig(opts.configPath)
	if err != nil {
		return nil, err
	}
	target, err := cfg.Target(targetName)
	if err != nil {
		return nil, err
	}
	sourceDir := opts.sourceDir
	if sourceDir == "" {
		sourceDir = cfg.SourceDir
	}
	if sourceDir == "" {
		return nil, backend.Errorf("no source dir: set --source-dir or source-dir in %s", opts.configPath)
	}
	webhookURL := opts.webhookURL
	if webhookURL == "" {
		webhookURL = target.Options.Get("WEBHOOK_URL")
	}
	var timeout time.Duration
	if opts.timeout != "" {
		if timeout, err = str2duration.ParseDuration(opts.timeout); err != nil {
			return nil, backend.Errorf("invalid timeout %q: %v", opts.timeout, err)
		}
	}
	notifier := publish.NewNotifier()

	return func(ctx context.Context) error {
		if timeout > 0 {
			var cancel context.CancelFunc
			ctx, cancel = context.WithTimeout(ctx, timeout)
			defer cancel()
		}
		b, err := backend.Open(target.Options)
		if err != nil {
			return err
		}
		defer b.Close()
		summary, err := publish.New(targetName, b, sourceDir, opts.dryRun).Run(ctx)
		if err != nil {
			return err
		}
		if webhookURL != "" {
			if nErr := notifier.Notify(ctx, webhookURL, summary); nErr != nil {
				logger.Warningf("failed to notify webhook: %v", nErr)
			}
		}
		return nil
	}, nil
}

var (
	_ run.PreRunner = (*publishService)(nil)
	_ run.Service   = (*publishService)(nil)
)

// publishService drives scheduled publish runs as a run.Service.
type publishService struct {
	l        *logger.Logger
	sch      *scheduler.Scheduler
	closer   *run.Closer
	runOnce  func(context.Context) error
	schedule string
}

func (p *publishService) Name() string {
	return "publish-scheduler"
}

func (p *publishService) PreRun(_ context.Context) error {
	p.l = logger.GetLogger(p.Name())
	p.closer = run.NewCloser(1)
	p.sch = scheduler.NewScheduler(p.l, scheduler.NewClock())
	p.l.Info().Str("schedule", p.schedule).Msg("publishing will run periodically")
	return p.sch.Register("publish", cron.Descriptor, p.schedule, func(_ time.Time, l *logger.Logger) bool {
		if err := p.runOnce(context.Background()); err != nil {
			l.Error().Err(err).Msg("publish run failed")
		} else {
			l.Info().Msg("publish run succeeded")
		}
		return true
	})
}

func (p *publishService) Serve() run.StopNotify {
	return p.closer.CloseNotify()
}

func (p *publishService) GracefulStop() {
	p.sch.Close()
	p.closer.Done()
	p.closer.CloseThenWait()
}
