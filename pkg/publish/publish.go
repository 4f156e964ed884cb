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

// Package publish implements the pipeline that diffs a locally built site
// against a remote container and applies the difference.
package publish

import (
	"context"
	"os"
	"path"
	"path/filepath"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/multierr"

	"github.com/jayfk/distill/pkg/backend"
	"github.com/jayfk/distill/pkg/logger"
	"github.com/jayfk/distill/pkg/observability"
)

// Publisher drives one publish target. It owns the backend for its lifetime.
type Publisher struct {
	backend   backend.Backend
	l         *logger.Logger
	target    string
	sourceDir string
	dryRun    bool
}

// New returns a Publisher pushing sourceDir to the given backend.
func New(target string, b backend.Backend, sourceDir string, dryRun bool) *Publisher {
	return &Publisher{
		backend:   b,
		l:         logger.GetLogger("publish").Named(target),
		target:    target,
		sourceDir: sourceDir,
		dryRun:    dryRun,
	}
}

// Run authenticates, walks the source dir, uploads new and changed files,
// skips unchanged ones and deletes stale remote files. An upload failure
// aborts the run; delete failures are collected and surface at the end.
func (p *Publisher) Run(ctx context.Context) (*Summary, error) {
	start := time.Now()
	summary := &Summary{
		RunID:  uuid.NewString(),
		Target: p.target,
		DryRun: p.dryRun,
	}

	if err := p.backend.Authenticate(ctx); err != nil {
		observability.RunsTotal.WithLabelValues(p.target, "failed").Inc()
		return nil, errors.WithMessage(err, "authenticate")
	}

	localFiles, err := collectFiles(p.sourceDir)
	if err != nil {
		observability.RunsTotal.WithLabelValues(p.target, "failed").Inc()
		return nil, errors.WithMessagef(err, "walk source dir %s", p.sourceDir)
	}
	if len(localFiles) == 0 {
		observability.RunsTotal.WithLabelValues(p.target, "failed").Inc()
		return nil, backend.Errorf("source dir %q holds no files to publish", p.sourceDir)
	}
	p.l.Info().Str("run_id", summary.RunID).Int("local_files", len(localFiles)).Msg("starting publish run")

	remoteFiles, err := p.backend.ListRemoteFiles(ctx)
	if err != nil {
		observability.RunsTotal.WithLabelValues(p.target, "failed").Inc()
		return nil, errors.WithMessage(err, "list remote files")
	}

	if !p.dryRun {
		for _, dir := range parentDirs(localFiles) {
			if err = p.backend.CreateRemoteDir(ctx, dir); err != nil {
				observability.RunsTotal.WithLabelValues(p.target, "failed").Inc()
				return nil, errors.WithMessagef(err, "create remote dir %s", dir)
			}
		}
	}

	var uploadDurations []time.Duration
	for _, relPath := range localFiles {
		localPath := filepath.Join(p.sourceDir, filepath.FromSlash(relPath))
		upload := true
		if remoteFiles.Contains(relPath) {
			same, cmpErr := p.backend.CompareFile(ctx, localPath, relPath)
			if cmpErr != nil {
				observability.RunsTotal.WithLabelValues(p.target, "failed").Inc()
				return nil, errors.WithMessagef(cmpErr, "compare %s", relPath)
			}
			upload = !same
		}
		if !upload {
			summary.Skipped++
			observability.SkipsTotal.WithLabelValues(p.target).Inc()
			continue
		}
		if p.dryRun {
			p.l.Info().Str("file", relPath).Msg("would upload")
			summary.Uploaded++
			continue
		}
		uploadStart := time.Now()
		if err = p.backend.UploadFile(ctx, localPath, relPath); err != nil {
			observability.RunsTotal.WithLabelValues(p.target, "failed").Inc()
			return nil, errors.WithMessagef(err, "upload %s", relPath)
		}
		elapsed := time.Since(uploadStart)
		uploadDurations = append(uploadDurations, elapsed)
		summary.Uploaded++
		observability.UploadsTotal.WithLabelValues(p.target).Inc()
		observability.UploadDuration.WithLabelValues(p.target).Observe(elapsed.Seconds())
		if info, statErr := os.Stat(localPath); statErr == nil {
			summary.BytesUploaded += info.Size()
			observability.BytesUploadedTotal.WithLabelValues(p.target).Add(float64(info.Size()))
		}
		p.l.Debug().Str("file", relPath).Dur("dur", elapsed).Msg("uploaded")
	}

	var deleteErr error
	expected := make(map[string]struct{}, len(localFiles))
	for _, f := range localFiles {
		expected[f] = struct{}{}
	}
	remoteFiles.Each(func(_ int, value interface{}) {
		remoteName := value.(string)
		if _, exists := expected[remoteName]; exists {
			return
		}
		if p.dryRun {
			p.l.Info().Str("file", remoteName).Msg("would delete")
			summary.Deleted++
			return
		}
		if err := p.backend.DeleteRemoteFile(ctx, remoteName); err != nil {
			p.l.Warn().Str("file", remoteName).Err(err).Msg("failed to delete stale file")
			multierr.AppendInto(&deleteErr, errors.WithMessagef(err, "delete %s", remoteName))
			return
		}
		summary.Deleted++
		observability.DeletesTotal.WithLabelValues(p.target).Inc()
	})

	summary.ElapsedSeconds = time.Since(start).Seconds()
	summary.aggregate(uploadDurations)
	result := "succeeded"
	if deleteErr != nil {
		result = "partial"
	}
	observability.RunsTotal.WithLabelValues(p.target, result).Inc()
	p.l.Info().
		Str("run_id", summary.RunID).
		Int("uploaded", summary.Uploaded).
		Int("skipped", summary.Skipped).
		Int("deleted", summary.Deleted).
		Int64("bytes", summary.BytesUploaded).
		Float64("elapsed_seconds", summary.ElapsedSeconds).
		Bool("dry_run", summary.DryRun).
		Msg("publish run finished")
	return summary, deleteErr
}

// collectFiles walks root and returns the sorted slash-relative paths of all
// regular files.
func collectFiles(root string) ([]string, error) {
	var files []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			relPath, err := filepath.Rel(root, path)
			if err != nil {
				return err
			}
			files = append(files, filepath.ToSlash(relPath))
		}
		return nil
	})
	sort.Strings(files)
	return files, err
}

// parentDirs returns the sorted set of directories holding the given files,
// parents before children.
func parentDirs(files []string) []string {
	seen := make(map[string]struct{})
	for _, f := range files {
		for dir := path.Dir(f); dir != "." && dir != "/"; dir = path.Dir(dir) {
			seen[dir] = struct{}{}
		}
	}
	dirs := make([]string, 0, len(seen))
	for dir := range seen {
		dirs = append(dirs, dir)
	}
	sort.Strings(dirs)
	return dirs
}
