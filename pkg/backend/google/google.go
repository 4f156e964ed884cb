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

// Package google provides the Google Cloud Storage publish backend.
package google

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/emirpasic/gods/sets/treeset"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/jayfk/distill/pkg/backend"
)

// Engine is the name this backend registers under.
const Engine = "google"

// Option keys consumed by this backend.
const (
	OptionJSONCredentials = "JSON_CREDENTIALS"
	OptionBucket          = "BUCKET"
)

var _ backend.Backend = (*gcsBackend)(nil)

type gcsBackend struct {
	client *storage.Client
	bucket *storage.BucketHandle
	opts   backend.Options
}

func init() {
	backend.Register(Engine, backend.Descriptor{
		RequiredOptions: []string{backend.OptionEngine, OptionJSONCredentials, OptionBucket},
		New:             New,
	})
}

// New creates an unauthenticated GCS backend from its options.
func New(opts backend.Options) (backend.Backend, error) {
	return &gcsBackend{opts: opts}, nil
}

func (g *gcsBackend) AccountUsername() string {
	// GCS has no per-account username concept
	return ""
}

func (g *gcsBackend) AccountContainer() string {
	return g.opts.Get(OptionBucket)
}

// Authenticate constructs the storage client from the service account key
// file and resolves the configured bucket. The credentials are passed to the
// client constructor explicitly instead of through process environment.
// When STORAGE_EMULATOR_HOST is set the key file check is skipped and the
// client connects to the emulator without authentication.
func (g *gcsBackend) Authenticate(ctx context.Context) error {
	var client *storage.Client
	var err error
	if os.Getenv("STORAGE_EMULATOR_HOST") != "" {
		client, err = storage.NewClient(ctx, option.WithoutAuthentication())
	} else {
		credentials := g.opts.Get(OptionJSONCredentials)
		if _, statErr := os.Stat(credentials); statErr != nil {
			return backend.Errorf("google storage credentials file %q does not exist", credentials)
		}
		client, err = storage.NewClient(ctx, option.WithCredentialsFile(credentials))
	}
	if err != nil {
		return fmt.Errorf("failed to create GCS client: %w", err)
	}

	bucket := client.Bucket(g.opts.Get(OptionBucket))
	if _, err = bucket.Attrs(ctx); err != nil {
		_ = client.Close()
		return fmt.Errorf("failed to resolve bucket %q: %w", g.opts.Get(OptionBucket), err)
	}
	g.client = client
	g.bucket = bucket
	return nil
}

func (g *gcsBackend) ListRemoteFiles(ctx context.Context) (*treeset.Set, error) {
	if g.bucket == nil {
		return nil, backend.ErrNotAuthenticated
	}
	names := backend.NewNameSet()
	it := g.bucket.Objects(ctx, nil)
	for {
		attrs, err := it.Next()
		if errors.Is(err, iterator.Done) {
			break
		}
		if err != nil {
			return nil, err
		}
		names.Add(attrs.Name)
	}
	return names, nil
}

func (g *gcsBackend) DeleteRemoteFile(ctx context.Context, remoteName string) error {
	if g.bucket == nil {
		return backend.ErrNotAuthenticated
	}
	return g.bucket.Object(remoteName).Delete(ctx)
}

// CompareFile matches the local file's MD5 against the MD5 the bucket stores
// for the object. The SDK delivers the wire field already base64 decoded, so
// both sides are compared hex encoded.
func (g *gcsBackend) CompareFile(ctx context.Context, localName, remoteName string) (bool, error) {
	if g.bucket == nil {
		return false, backend.ErrNotAuthenticated
	}
	attrs, err := g.bucket.Object(remoteName).Attrs(ctx)
	if err != nil {
		return false, fmt.Errorf("failed to get attrs of %q: %w", remoteName, err)
	}
	localSum, err := backend.FileMD5(localName)
	if err != nil {
		return false, err
	}
	return localSum == hex.EncodeToString(attrs.MD5), nil
}

// UploadFile writes the local file to the named object and marks it publicly
// readable, which is what serving a published static site needs.
func (g *gcsBackend) UploadFile(ctx context.Context, localName, remoteName string) error {
	if g.bucket == nil {
		return backend.ErrNotAuthenticated
	}
	f, err := os.Open(localName)
	if err != nil {
		return err
	}
	defer f.Close()

	w := g.bucket.Object(remoteName).NewWriter(ctx)
	if _, err = io.Copy(w, f); err != nil {
		_ = w.Close()
		return fmt.Errorf("failed to write object %q: %w", remoteName, err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("failed to close writer of %q: %w", remoteName, err)
	}
	return g.bucket.Object(remoteName).ACL().Set(ctx, storage.AllUsers, storage.RoleReader)
}

func (g *gcsBackend) CreateRemoteDir(_ context.Context, _ string) error {
	// object storage is flat, there is nothing to create
	return nil
}

func (g *gcsBackend) Close() error {
	if g.client == nil {
		return nil
	}
	return g.client.Close()
}
