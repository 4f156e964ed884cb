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
	"fmt"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOptionsNormalizesKeys(t *testing.T) {
	opts := NewOptions(map[string]string{
		"engine":           "google",
		"json-credentials": "/tmp/key.json",
		"bucket":           "my-site",
	})
	assert.Equal(t, "google", opts.Get("ENGINE"))
	assert.Equal(t, "/tmp/key.json", opts.Get("JSON_CREDENTIALS"))
	assert.Equal(t, "my-site", opts.Get("bucket"))
	assert.Equal(t, "", opts.Get("MISSING"))
}

func TestOpenValidation(t *testing.T) {
	tests := []struct {
		name string
		opts Options
	}{
		{
			name: "missing engine",
			opts: NewOptions(map[string]string{"BUCKET": "b"}),
		},
		{
			name: "unknown engine",
			opts: NewOptions(map[string]string{"ENGINE": "gopher-drive"}),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, err := Open(tt.opts)
			require.Error(t, err)
			assert.Nil(t, b)
			assert.True(t, IsPublishError(err), "expected a publish error, got %T", err)
		})
	}
}

func TestOpenRequiredOptions(t *testing.T) {
	Register("fake", Descriptor{
		RequiredOptions: []string{"ENGINE", "TOKEN"},
		New: func(_ Options) (Backend, error) {
			return nil, fmt.Errorf("factory must not run")
		},
	})
	_, err := Open(NewOptions(map[string]string{"ENGINE": "fake"}))
	require.Error(t, err)
	assert.True(t, IsPublishError(err))
	assert.Contains(t, err.Error(), "TOKEN")
}

func TestIsPublishError(t *testing.T) {
	assert.True(t, IsPublishError(Errorf("boom")))
	assert.True(t, IsPublishError(errors.WithMessage(Errorf("boom"), "opening backend")))
	assert.False(t, IsPublishError(errors.New("boom")))
	assert.False(t, IsPublishError(nil))
}

func TestNewNameSetDeduplicates(t *testing.T) {
	set := NewNameSet("index.html", "css/site.css", "index.html", "index.html")
	assert.Equal(t, 2, set.Size())
	assert.True(t, set.Contains("index.html"))
	assert.True(t, set.Contains("css/site.css"))
	// deterministic iteration order
	assert.Equal(t, []interface{}{"css/site.css", "index.html"}, set.Values())
}
