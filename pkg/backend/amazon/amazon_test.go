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

package amazon

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayfk/distill/pkg/backend"
)

func TestOpenRequiresCredentialOptions(t *testing.T) {
	_, err := backend.Open(backend.NewOptions(map[string]string{
		"ENGINE": Engine,
		"BUCKET": "my-site",
	}))
	require.Error(t, err)
	assert.True(t, backend.IsPublishError(err))
	assert.Contains(t, err.Error(), OptionAccessKeyID)
}

func TestAccountIdentity(t *testing.T) {
	b, err := backend.Open(backend.NewOptions(map[string]string{
		"ENGINE":            Engine,
		"ACCESS_KEY_ID":     "AKIAEXAMPLE",
		"SECRET_ACCESS_KEY": "secret",
		"BUCKET":            "my-site",
	}))
	require.NoError(t, err)
	assert.Equal(t, "", b.AccountUsername())
	assert.Equal(t, "my-site", b.AccountContainer())
}

func TestOperationsBeforeAuthenticate(t *testing.T) {
	b, err := backend.Open(backend.NewOptions(map[string]string{
		"ENGINE":            Engine,
		"ACCESS_KEY_ID":     "AKIAEXAMPLE",
		"SECRET_ACCESS_KEY": "secret",
		"BUCKET":            "my-site",
	}))
	require.NoError(t, err)
	ctx := context.Background()

	_, listErr := b.ListRemoteFiles(ctx)
	assert.True(t, backend.IsPublishError(listErr))
	assert.True(t, backend.IsPublishError(b.DeleteRemoteFile(ctx, "remote.txt")))
	assert.NoError(t, b.CreateRemoteDir(ctx, "assets"))
	assert.NoError(t, b.Close())
}
