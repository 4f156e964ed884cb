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

package cmd

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zenizh/go-capturer"
)

func TestTargetsCommand(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "distill.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`source-dir: public
publish:
  production:
    engine: google
    json-credentials: /etc/distill/key.json
    bucket: my-site
  staging:
    engine: local
    root-dir: /var/www/staging
`), 0o600))

	out := capturer.CaptureStdout(func() {
		root := NewRoot()
		root.SetArgs([]string{"targets", "--config", configPath})
		require.NoError(t, root.Execute())
	})
	assert.Contains(t, out, "production")
	assert.Contains(t, out, "google")
	assert.Contains(t, out, "my-site")
	assert.Contains(t, out, "staging")
	assert.Contains(t, out, "/var/www/staging")
}

func TestTargetsCommandMissingConfig(t *testing.T) {
	root := NewRoot()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"targets", "--config", filepath.Join(t.TempDir(), "absent.yaml")})
	assert.Error(t, root.Execute())
}

func TestPublishCommandUnknownTarget(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "distill.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte(`source-dir: public
publish:
  production:
    engine: local
    root-dir: /var/www/site
`), 0o600))

	root := NewRoot()
	root.SetOut(io.Discard)
	root.SetErr(io.Discard)
	root.SetArgs([]string{"publish", "qa", "--config", configPath})
	err := root.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "qa")
}
