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
	"sort"

	"github.com/spf13/viper"

	"github.com/jayfk/distill/pkg/backend"
)

// Target is one named publish destination from the configuration file.
type Target struct {
	Options backend.Options
	Name    string
}

// Engine returns the target's configured engine name.
func (t Target) Engine() string {
	return t.Options.Get(backend.OptionEngine)
}

// Container returns the target's configured container, bucket or root dir.
func (t Target) Container() string {
	for _, key := range []string{"BUCKET", "CONTAINER", "ROOT_DIR"} {
		if v := t.Options.Get(key); v != "" {
			return v
		}
	}
	return ""
}

// Config is the parsed publish configuration file.
type Config struct {
	targets   map[string]Target
	SourceDir string
}

// LoadConfig parses the YAML configuration file at path. The file holds a
// `source-dir` key and named targets under `publish.<name>`.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetConfigFile(path)
	if err := v.ReadInConfig(); err != nil {
		return nil, backend.Errorf("cannot read publish config %q: %v", path, err)
	}
	raw := v.GetStringMap("publish")
	if len(raw) == 0 {
		return nil, backend.Errorf("publish config %q defines no targets", path)
	}
	targets := make(map[string]Target, len(raw))
	for name := range raw {
		targets[name] = Target{
			Name:    name,
			Options: backend.NewOptions(v.GetStringMapString("publish." + name)),
		}
	}
	return &Config{
		targets:   targets,
		SourceDir: v.GetString("source-dir"),
	}, nil
}

// Target returns the named target. A missing name is a publish error.
func (c *Config) Target(name string) (Target, error) {
	t, ok := c.targets[name]
	if !ok {
		return Target{}, backend.Errorf("unknown publish target %q, configured targets: %v", name, c.TargetNames())
	}
	return t, nil
}

// TargetNames returns the sorted names of all configured targets.
func (c *Config) TargetNames() []string {
	names := make([]string, 0, len(c.targets))
	for name := range c.targets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
