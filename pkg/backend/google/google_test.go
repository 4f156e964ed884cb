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

package google

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayfk/distill/pkg/backend"
)

func newTestBackend(t *testing.T, raw map[string]string) backend.Backend {
	t.Helper()
	b, err := backend.Open(backend.NewOptions(raw))
	require.NoError(t, err)
	return b
}

func TestAuthenticateMissingCredentials(t *testing.T) {
	t.Setenv("STORAGE_EMULATOR_HOST", "")
	missing := filepath.Join(t.TempDir(), "absent.json")
	b := newTestBackend(t, map[string]string{
		"ENGINE":           Engine,
		"JSON_CREDENTIALS": missing,
		"BUCKET":           "my-site",
	})
	err := b.Authenticate(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsPublishError(err), "expected a publish error, got %T: %v", err, err)
	assert.Contains(t, err.Error(), missing)
}

func TestAccountContainer(t *testing.T) {
	b := newTestBackend(t, map[string]string{
		"ENGINE":           Engine,
		"JSON_CREDENTIALS": "key.json",
		"BUCKET":           "my-site",
	})
	assert.Equal(t, "my-site", b.AccountContainer())

	unset, err := New(backend.NewOptions(map[string]string{"ENGINE": Engine}))
	require.NoError(t, err)
	assert.Equal(t, "", unset.AccountContainer())
}

func TestAccountUsername(t *testing.T) {
	b := newTestBackend(t, map[string]string{
		"ENGINE":           Engine,
		"JSON_CREDENTIALS": "key.json",
		"BUCKET":           "my-site",
	})
	assert.Equal(t, "", b.AccountUsername())
}

func TestCreateRemoteDirIsNoop(t *testing.T) {
	b := newTestBackend(t, map[string]string{
		"ENGINE":           Engine,
		"JSON_CREDENTIALS": "key.json",
		"BUCKET":           "my-site",
	})
	for _, dir := range []string{"", "assets", "assets/css/"} {
		assert.NoError(t, b.CreateRemoteDir(context.Background(), dir))
	}
}

func TestOperationsBeforeAuthenticate(t *testing.T) {
	b := newTestBackend(t, map[string]string{
		"ENGINE":           Engine,
		"JSON_CREDENTIALS": "key.json",
		"BUCKET":           "my-site",
	})
	ctx := context.Background()

	_, err := b.ListRemoteFiles(ctx)
	assert.True(t, backend.IsPublishError(err))

	err = b.DeleteRemoteFile(ctx, "remote.txt")
	assert.True(t, backend.IsPublishError(err))

	_, err = b.CompareFile(ctx, "local.txt", "remote.txt")
	assert.True(t, backend.IsPublishError(err))

	err = b.UploadFile(ctx, "local.txt", "remote.txt")
	assert.True(t, backend.IsPublishError(err))

	assert.NoError(t, b.Close())
}
