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

package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"
)

const rootName = "root"

var root = rootLogger{}

type rootLogger struct {
	done uint32
	m    sync.Mutex
	l    *Logger
}

func (rl *rootLogger) verify() {
	if atomic.LoadUint32(&root.done) == 0 {
		rl.setDefault()
	}
}

func (rl *rootLogger) setDefault() {
	rl.m.Lock()
	defer rl.m.Unlock()
	if rl.done == 0 {
		defer atomic.StoreUint32(&rl.done, 1)
		var err error
		rl.l, err = getLogger(Logging{
			Env:   "prod",
			Level: "debug",
		})
		if err != nil {
			panic(err)
		}
	}
}

func (rl *rootLogger) set(cfg Logging) error {
	rl.m.Lock()
	defer rl.m.Unlock()
	var err error
	rl.l, err = getLogger(cfg)
	if err != nil {
		return err
	}
	atomic.StoreUint32(&rl.done, 1)
	return nil
}

// GetLogger return logger with a scope
func GetLogger(scope ...string) *Logger {
	root.verify()
	if len(scope) < 1 {
		return root.l
	}
	return root.l.Named(scope...)
}

// Init initializes a rs/zerolog logger from user config
func Init(cfg Logging) error {
	return root.set(cfg)
}

// Infof logs a formatted message at the info level through the root logger.
func Infof(format string, args ...interface{}) {
	root.verify()
	root.l.Info().Msgf(format, args...)
}

// Warningf logs a formatted message at the warn level through the root logger.
func Warningf(format string, args ...interface{}) {
	root.verify()
	root.l.Warn().Msgf(format, args...)
}

// Errorf logs a formatted message at the error level through the root logger.
func Errorf(format string, args ...interface{}) {
	root.verify()
	root.l.Error().Msgf(format, args...)
}

// getLogger initializes a root logger
func getLogger(cfg Logging) (*Logger, error) {
	lvl, err := zerolog.ParseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}
	if len(cfg.Modules) != len(cfg.Levels) {
		return nil, fmt.Errorf("modules and levels are not in pairs: %v vs %v", cfg.Modules, cfg.Levels)
	}
	modules := make(map[string]zerolog.Level, len(cfg.Modules))
	for i := range cfg.Modules {
		ml, mErr := zerolog.ParseLevel(cfg.Levels[i])
		if mErr != nil {
			return nil, mErr
		}
		modules[strings.ToUpper(cfg.Modules[i])] = ml
	}
	var w io.Writer
	development := false
	switch cfg.Env {
	case "dev":
		development = true
		cw := zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}
		cw.FormatLevel = func(i interface{}) string {
			return strings.ToUpper(fmt.Sprintf("| %-6s|", i))
		}
		cw.FormatFieldName = func(i interface{}) string {
			return fmt.Sprintf("%s:", i)
		}
		w = io.Writer(cw)
	default:
		w = os.Stdout
	}
	l := zerolog.New(w).Level(lvl).With().Timestamp().Logger()
	return &Logger{module: rootName, modules: modules, development: development, Logger: &l}, nil
}
