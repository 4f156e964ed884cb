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

// Package local provides a publish backend writing into a local directory
// tree, the target for file servers and tests.
package local

import (
	"context"
	"io"
	"os"
	"path/filepath"

	"github.com/emirpasic/gods/sets/treeset"

	"github.com/jayfk/distill/pkg/backend"
)

// Engine is the name this backend registers under.
const Engine = "local"

// OptionRootDir is the option key holding the publish root directory.
const OptionRootDir = "ROOT_DIR"

const dirPerm = 0o755

// hashCacheSize bounds the per-backend cache of destination file hashes.
const hashCacheSize = 4096

var _ backend.Backend = (*dirBackend)(nil)

type dirBackend struct {
	opts   backend.Options
	hashes *backend.HashCache
	root   string
}

func init() {
	backend.Register(Engine, backend.Descriptor{
		RequiredOptions: []string{backend.OptionEngine, OptionRootDir},
		New:             New,
	})
}

// New creates an unauthenticated local backend from its options.
func New(opts backend.Options) (backend.Backend, error) {
	hashes, err := backend.NewHashCache(hashCacheSize)
	if err != nil {
		return nil, err
	}
	return &dirBackend{opts: opts, hashes: hashes}, nil
}

func (d *dirBackend) AccountUsername() string {
	return ""
}

func (d *dirBackend) AccountContainer() string {
	return d.opts.Get(OptionRootDir)
}

// Authenticate resolves the root directory to an absolute path and creates it.
func (d *dirBackend) Authenticate(_ context.Context) error {
	root, err := filepath.Abs(d.opts.Get(OptionRootDir))
	if err != nil {
		return backend.Errorf("invalid root dir %q: %v", d.opts.Get(OptionRootDir), err)
	}
	if err := os.MkdirAll(root, dirPerm); err != nil {
		return backend.Errorf("cannot create root dir %q: %v", root, err)
	}
	d.root = root
	return nil
}

func (d *dirBackend) ListRemoteFiles(_ context.Context) (*treeset.Set, error) {
	if d.root == "" {
		return nil, backend.ErrNotAuthenticated
	}
	names := backend.NewNameSet()
	err := filepath.Walk(d.root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			relPath, err := filepath.Rel(d.root, path)
			if err != nil {
				return err
			}
			names.Add(filepath.ToSlash(relPath))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return names, nil
}

func (d *dirBackend) DeleteRemoteFile(_ context.Context, remoteName string) error {
	if d.root == "" {
		return backend.ErrNotAuthenticated
	}
	return os.Remove(filepath.Join(d.root, filepath.FromSlash(remoteName)))
}

func (d *dirBackend) CompareFile(_ context.Context, localName, remoteName string) (bool, error) {
	if d.root == "" {
		return false, backend.ErrNotAuthenticated
	}
	// destination files only change through this tool, so their hashes cache well
	remoteSum, err := d.hashes.FileMD5(filepath.Join(d.root, filepath.FromSlash(remoteName)))
	if err != nil {
		return false, err
	}
	localSum, err := backend.FileMD5(localName)
	if err != nil {
		return false, err
	}
	return localSum == remoteSum, nil
}

func (d *dirBackend) UploadFile(_ context.Context, localName, remoteName string) error {
	if d.root == "" {
		return backend.ErrNotAuthenticated
	}
	src, err := os.Open(localName)
	if err != nil {
		return err
	}
	defer src.Close()

	fullPath := filepath.Join(d.root, filepath.FromSlash(remoteName))
	if err := os.MkdirAll(filepath.Dir(fullPath), dirPerm); err != nil {
		return err
	}
	dst, err := os.Create(fullPath)
	if err != nil {
		return err
	}
	defer dst.Close()

	_, err = io.Copy(dst, src)
	return err
}

// CreateRemoteDir creates the directory; this store has real directories.
func (d *dirBackend) CreateRemoteDir(_ context.Context, remoteDirName string) error {
	if d.root == "" {
		return backend.ErrNotAuthenticated
	}
	if remoteDirName == "" {
		return nil
	}
	return os.MkdirAll(filepath.Join(d.root, filepath.FromSlash(remoteDirName)), dirPerm)
}

func (d *dirBackend) Close() error {
	return nil
}
