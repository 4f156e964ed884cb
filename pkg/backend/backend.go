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

// Package backend defines the contract a publish target storage provider
// implements, and a registry of the available engines.
package backend

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/pkg/errors"
)

// OptionEngine is the option key selecting the engine.
const OptionEngine = "ENGINE"

// Options holds the backend configuration supplied once at construction.
// Keys are normalized to upper snake case. Read-only after construction.
type Options map[string]string

// NewOptions normalizes the keys of the given raw mapping.
// Viper lowercases configuration keys, flag names carry dashes; both forms
// end up as upper snake case here.
func NewOptions(raw map[string]string) Options {
	opts := make(Options, len(raw))
	for k, v := range raw {
		opts[normalizeKey(k)] = v
	}
	return opts
}

func normalizeKey(k string) string {
	return strings.ToUpper(strings.ReplaceAll(strings.ReplaceAll(k, "-", "_"), ".", "_"))
}

// Get returns the value stored under the normalized key, or "" when absent.
func (o Options) Get(key string) string {
	return o[normalizeKey(key)]
}

// Backend is the generic protocol every publish target storage provider
// implements. Authenticate must be called, and succeed, before any other
// operation is invoked. A Backend owns one session and is not safe for
// concurrent use.
type Backend interface {
	// AccountUsername returns the provider account username, or "" when the
	// provider has no such concept.
	AccountUsername() string
	// AccountContainer returns the configured container/bucket name, or "".
	AccountContainer() string
	// Authenticate validates the credentials, constructs the provider client
	// and resolves the container into session state.
	Authenticate(ctx context.Context) error
	// ListRemoteFiles returns the set of all object names in the container.
	ListRemoteFiles(ctx context.Context) (*treeset.Set, error)
	// DeleteRemoteFile deletes the named object. The provider error
	// propagates when the object does not exist.
	DeleteRemoteFile(ctx context.Context, remoteName string) error
	// CompareFile reports whether the local file's content hash equals the
	// remote object's stored content hash.
	CompareFile(ctx context.Context, localName, remoteName string) (bool, error)
	// UploadFile uploads the local file's bytes to the remote object name.
	UploadFile(ctx context.Context, localName, remoteName string) error
	// CreateRemoteDir creates a remote directory where the provider has such
	// a concept; a no-op success on flat object stores.
	CreateRemoteDir(ctx context.Context, remoteDirName string) error
	// Close releases the provider client.
	Close() error
}

// Error is the distinguishable publish error. Validation and precondition
// failures surface as an Error; provider failures propagate unwrapped.
type Error struct {
	msg string
}

func (e *Error) Error() string {
	return e.msg
}

// Errorf formats a new publish Error.
func Errorf(format string, args ...interface{}) *Error {
	return &Error{msg: fmt.Sprintf(format, args...)}
}

// IsPublishError reports whether err is, or wraps, a publish Error.
func IsPublishError(err error) bool {
	var pe *Error
	return errors.As(err, &pe)
}

// ErrNotAuthenticated is returned by operations invoked before a successful
// Authenticate call.
var ErrNotAuthenticated = Errorf("backend is not authenticated: call Authenticate first")

// Factory constructs a Backend from its options.
type Factory func(opts Options) (Backend, error)

// Descriptor describes a registered engine.
type Descriptor struct {
	New             Factory
	RequiredOptions []string
}

var (
	registryMu sync.RWMutex
	registry   = make(map[string]Descriptor)
)

// Register adds an engine to the registry. Engines call it from init().
func Register(name string, d Descriptor) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("backend: engine registered twice: " + name)
	}
	registry[name] = d
}

// Engines returns the sorted names of all registered engines.
func Engines() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open validates the required option keys of the engine selected by the
// ENGINE option and constructs the backend. A missing engine or option key
// is reported as a publish Error.
func Open(opts Options) (Backend, error) {
	engine := opts.Get(OptionEngine)
	if engine == "" {
		return nil, Errorf("missing required option %s", OptionEngine)
	}
	registryMu.RLock()
	d, ok := registry[engine]
	registryMu.RUnlock()
	if !ok {
		return nil, Errorf("unknown engine %q, available engines: %s", engine, strings.Join(Engines(), ", "))
	}
	for _, key := range d.RequiredOptions {
		if opts.Get(key) == "" {
			return nil, Errorf("engine %q requires option %s", engine, key)
		}
	}
	return d.New(opts)
}

// NewNameSet builds a deduplicated, deterministically ordered set from the
// given object names.
func NewNameSet(names ...string) *treeset.Set {
	set := treeset.NewWithStringComparator()
	for _, name := range names {
		set.Add(name)
	}
	return set
}
