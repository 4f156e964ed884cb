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
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	lru "github.com/hashicorp/golang-lru"
)

// FileMD5 returns the hex encoded MD5 digest of the local file's content.
// MD5 is the content hash the object stores report, not an integrity
// mechanism of this tool.
func FileMD5(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	h := md5.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to hash %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

type hashEntry struct {
	modTime time.Time
	hash    string
	size    int64
}

// HashCache memoizes local file hashes across publish runs. An entry is
// valid while the file's size and modification time are unchanged, so
// scheduled runs skip re-hashing an unchanged site.
type HashCache struct {
	cache *lru.Cache
}

// NewHashCache returns a bounded cache holding up to size entries.
func NewHashCache(size int) (*HashCache, error) {
	c, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &HashCache{cache: c}, nil
}

// FileMD5 returns the hex encoded MD5 digest of the local file's content,
// consulting the cache first.
func (h *HashCache) FileMD5(path string) (string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return "", err
	}
	if v, ok := h.cache.Get(path); ok {
		e := v.(hashEntry)
		if e.size == info.Size() && e.modTime.Equal(info.ModTime()) {
			return e.hash, nil
		}
	}
	sum, err := FileMD5(path)
	if err != nil {
		return "", err
	}
	h.cache.Add(path, hashEntry{size: info.Size(), modTime: info.ModTime(), hash: sum})
	return sum, nil
}
