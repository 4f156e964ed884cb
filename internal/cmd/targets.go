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
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jayfk/distill/pkg/publish"
)

func newTargetsCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:               "targets",
		Short:             "List the configured publish targets",
		DisableAutoGenTag: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := publish.LoadConfig(configPath)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "TARGET\tENGINE\tCONTAINER")
			for _, name := range cfg.TargetNames() {
				target, tErr := cfg.Target(name)
				if tErr != nil {
					return tErr
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", target.Name, target.Engine(), target.Container())
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&configPath, "config", defaultConfigFile, "path to the publish configuration file")
	return cmd
}
