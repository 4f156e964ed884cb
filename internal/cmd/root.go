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

// Package cmd assembles the distill command line tool.
package cmd

import (
	"github.com/spf13/cobra"

	"github.com/jayfk/distill/pkg/cgroups"
	"github.com/jayfk/distill/pkg/config"
	"github.com/jayfk/distill/pkg/logger"
	"github.com/jayfk/distill/pkg/version"

	// engines register themselves with the backend registry
	_ "github.com/jayfk/distill/pkg/backend/amazon"
	_ "github.com/jayfk/distill/pkg/backend/azure"
	_ "github.com/jayfk/distill/pkg/backend/google"
	_ "github.com/jayfk/distill/pkg/backend/local"
)

const defaultConfigFile = "distill.yaml"

// NewRoot returns the root command.
func NewRoot() *cobra.Command {
	logging := logger.Logging{}
	cmd := &cobra.Command{
		Use:               "distill",
		DisableAutoGenTag: true,
		Version:           version.Parse(),
		Short:             "distill publishes a locally built static site to cloud object storage",
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) (err error) {
			if err = config.Load("logging", cmd.Flags()); err != nil {
				return err
			}
			if err = logger.Init(logging); err != nil {
				return err
			}
			logger.GetLogger("distill").Debug().Int("cpus", cgroups.CPUs()).Msg("runtime ready")
			return nil
		},
	}
	cmd.PersistentFlags().StringVar(&logging.Env, "logging-env", "prod", "the logging environment")
	cmd.PersistentFlags().StringVar(&logging.Level, "logging-level", "info", "the root level of logging")
	cmd.PersistentFlags().StringSliceVar(&logging.Modules, "logging-modules", nil, "the specific module")
	cmd.PersistentFlags().StringSliceVar(&logging.Levels, "logging-levels", nil, "the level logging of logging")
	cmd.AddCommand(newPublishCmd())
	cmd.AddCommand(newTargetsCmd())
	return cmd
}
