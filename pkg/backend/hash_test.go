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

package backend

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileMD5(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))
	sum, err := FileMD5(path)
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sum)

	_, err = FileMD5(filepath.Join(t.TempDir(), "absent.txt"))
	assert.Error(t, err)
}

func TestHashCacheInvalidation(t *testing.T) {
	path := filepath.Join(t.TempDir(), "local.txt")
	require.NoError(t, os.WriteFile(path, []byte("hello world"), 0o600))
	cache, err := NewHashCache(16)
	require.NoError(t, err)

	sum, err := cache.FileMD5(path)
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sum)

	// cached
	sum, err = cache.FileMD5(path)
	require.NoError(t, err)
	assert.Equal(t, "5eb63bbbe01eeed093cb22bb8f5acdc3", sum)

	// a rewrite with a different size and mtime invalidates the entry
	require.NoError(t, os.WriteFile(path, []byte("hello brave new world"), 0o600))
	require.NoError(t, os.Chtimes(path, time.Now(), time.Now().Add(time.Second)))
	sum2, err := cache.FileMD5(path)
	require.NoError(t, err)
	assert.NotEqual(t, sum, sum2)
}
