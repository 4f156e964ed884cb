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

package publish

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/emirpasic/gods/sets/treeset"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayfk/distill/pkg/backend"
)

// mockBackend keeps remote state in memory and records mutations.
type mockBackend struct {
	objects       map[string]string
	container     string
	deleted       []string
	uploaded      []string
	createdDirs   []string
	authenticated bool
	failDelete    bool
	failUpload    bool
}

func newMockBackend(objects map[string]string) *mockBackend {
	if objects == nil {
		objects = make(map[string]string)
	}
	return &mockBackend{objects: objects, container: "mock-container"}
}

func (m *mockBackend) AccountUsername() string  { return "" }
func (m *mockBackend) AccountContainer() string { return m.container }

func (m *mockBackend) Authenticate(_ context.Context) error {
	m.authenticated = true
	return nil
}

func (m *mockBackend) ListRemoteFiles(_ context.Context) (*treeset.Set, error) {
	if !m.authenticated {
		return nil, backend.ErrNotAuthenticated
	}
	names := backend.NewNameSet()
	for name := range m.objects {
		names.Add(name)
	}
	return names, nil
}

func (m *mockBackend) DeleteRemoteFile(_ context.Context, remoteName string) error {
	if m.failDelete {
		return fmt.Errorf("delete of %s rejected", remoteName)
	}
	if _, ok := m.objects[remoteName]; !ok {
		return fmt.Errorf("object %s does not exist", remoteName)
	}
	delete(m.objects, remoteName)
	m.deleted = append(m.deleted, remoteName)
	return nil
}

func (m *mockBackend) CompareFile(_ context.Context, localName, remoteName string) (bool, error) {
	remote, ok := m.objects[remoteName]
	if !ok {
		return false, fmt.Errorf("object %s does not exist", remoteName)
	}
	content, err := os.ReadFile(localName)
	if err != nil {
		return false, err
	}
	return string(content) == remote, nil
}

func (m *mockBackend) UploadFile(_ context.Context, localName, remoteName string) error {
	if m.failUpload {
		return fmt.Errorf("upload of %s rejected", remoteName)
	}
	content, err := os.ReadFile(localName)
	if err != nil {
		return err
	}
	m.objects[remoteName] = string(content)
	m.uploaded = append(m.uploaded, remoteName)
	return nil
}

func (m *mockBackend) CreateRemoteDir(_ context.Context, remoteDirName string) error {
	m.createdDirs = append(m.createdDirs, remoteDirName)
	return nil
}

func (m *mockBackend) Close() error { return nil }

func writeSite(t *testing.T, files map[string]string) string {
	t.Helper()
	root := t.TempDir()
	for name, content := range files {
		full := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(full), 0o755))
		require.NoError(t, os.WriteFile(full, []byte(content), 0o600))
	}
	return root
}

func TestRunUploadsSkipsAndDeletes(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html":     "<html>home</html>",
		"about.html":     "<html>about</html>",
		"css/site.css":   "body{}",
		"img/logo/a.png": "png-bytes",
	})
	mock := newMockBackend(map[string]string{
		"about.html": "<html>about</html>", // unchanged
		"index.html": "<html>old home</html>",
		"stale.html": "<html>gone</html>",
	})

	summary, err := New("prod", mock, root, false).Run(context.Background())
	require.NoError(t, err)

	want := &Summary{
		Target:   "prod",
		Uploaded: 3,
		Skipped:  1,
		Deleted:  1,
	}
	ignore := cmpopts.IgnoreFields(Summary{},
		"RunID", "BytesUploaded", "ElapsedSeconds",
		"UploadMeanSeconds", "UploadP50Seconds", "UploadP95Seconds")
	if diff := cmp.Diff(want, summary, ignore); diff != "" {
		t.Errorf("unexpected summary (-want +got):\n%s", diff)
	}
	assert.NotEmpty(t, summary.RunID)
	assert.Positive(t, summary.BytesUploaded)
	assert.ElementsMatch(t, []string{"index.html", "css/site.css", "img/logo/a.png"}, mock.uploaded)
	assert.Equal(t, []string{"stale.html"}, mock.deleted)
	assert.ElementsMatch(t, []string{"css", "img", "img/logo"}, mock.createdDirs)
	assert.Equal(t, "<html>home</html>", mock.objects["index.html"])
}

func TestRunDryRunMutatesNothing(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": "<html>home</html>",
	})
	mock := newMockBackend(map[string]string{
		"stale.html": "<html>gone</html>",
	})

	summary, err := New("prod", mock, root, true).Run(context.Background())
	require.NoError(t, err)
	assert.True(t, summary.DryRun)
	assert.Equal(t, 1, summary.Uploaded)
	assert.Equal(t, 1, summary.Deleted)
	assert.Empty(t, mock.uploaded)
	assert.Empty(t, mock.deleted)
	assert.Empty(t, mock.createdDirs)
	assert.Contains(t, mock.objects, "stale.html")
}

func TestRunUploadFailureAborts(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": "<html>home</html>",
	})
	mock := newMockBackend(nil)
	mock.failUpload = true

	_, err := New("prod", mock, root, false).Run(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "upload index.html")
}

func TestRunDeleteFailuresAreCollected(t *testing.T) {
	root := writeSite(t, map[string]string{
		"index.html": "<html>home</html>",
	})
	mock := newMockBackend(map[string]string{
		"stale-a.html": "a",
		"stale-b.html": "b",
	})
	mock.failDelete = true

	summary, err := New("prod", mock, root, false).Run(context.Background())
	require.Error(t, err)
	// the run itself finished, uploads happened despite delete failures
	require.NotNil(t, summary)
	assert.Equal(t, 1, summary.Uploaded)
	assert.Equal(t, 0, summary.Deleted)
	assert.Contains(t, err.Error(), "stale-a.html")
	assert.Contains(t, err.Error(), "stale-b.html")
}

func TestRunEmptySourceDir(t *testing.T) {
	_, err := New("prod", newMockBackend(nil), t.TempDir(), false).Run(context.Background())
	require.Error(t, err)
	assert.True(t, backend.IsPublishError(err))
}

func TestParentDirs(t *testing.T) {
	dirs := parentDirs([]string{
		"index.html",
		"css/site.css",
		"img/logo/a.png",
		"img/logo/b.png",
	})
	assert.Equal(t, []string{"css", "img", "img/logo"}, dirs)
}

func TestCollectFiles(t *testing.T) {
	root := writeSite(t, map[string]string{
		"b.html":     "b",
		"a/a.html":   "a",
		"a/b/c.html": "c",
	})
	files, err := collectFiles(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"a/a.html", "a/b/c.html", "b.html"}, files)
}
