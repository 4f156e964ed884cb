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

// Package backendsuite holds the storage contract checks shared by the
// per-engine integration suites.
package backendsuite

import (
	"context"
	"os"
	"path/filepath"

	"github.com/onsi/gomega"

	"github.com/jayfk/distill/pkg/backend"
)

// WriteSite lays out a small static site under dir and returns the
// slash-separated names of the files it wrote.
func WriteSite(dir string) []string {
	gomega.Expect(os.MkdirAll(filepath.Join(dir, "css"), 0o755)).To(gomega.Succeed())
	gomega.Expect(os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>home</html>"), 0o600)).To(gomega.Succeed())
	gomega.Expect(os.WriteFile(filepath.Join(dir, "css", "site.css"), []byte("body{margin:0}"), 0o600)).To(gomega.Succeed())
	return []string{"css/site.css", "index.html"}
}

// Exercise drives one backend through the full storage contract against a
// live endpoint: authenticate, upload, list, compare, re-upload and delete.
func Exercise(ctx context.Context, b backend.Backend, dir string) {
	WriteSite(dir)

	gomega.Expect(b.Authenticate(ctx)).To(gomega.Succeed())
	gomega.Expect(b.CreateRemoteDir(ctx, "css")).To(gomega.Succeed())
	gomega.Expect(b.UploadFile(ctx, filepath.Join(dir, "index.html"), "index.html")).To(gomega.Succeed())
	gomega.Expect(b.UploadFile(ctx, filepath.Join(dir, "css", "site.css"), "css/site.css")).To(gomega.Succeed())

	names, err := b.ListRemoteFiles(ctx)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(names.Contains("index.html")).To(gomega.BeTrue())
	gomega.Expect(names.Contains("css/site.css")).To(gomega.BeTrue())

	same, err := b.CompareFile(ctx, filepath.Join(dir, "index.html"), "index.html")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(same).To(gomega.BeTrue())

	gomega.Expect(os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>changed</html>"), 0o600)).To(gomega.Succeed())
	same, err = b.CompareFile(ctx, filepath.Join(dir, "index.html"), "index.html")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(same).To(gomega.BeFalse())

	gomega.Expect(b.UploadFile(ctx, filepath.Join(dir, "index.html"), "index.html")).To(gomega.Succeed())
	same, err = b.CompareFile(ctx, filepath.Join(dir, "index.html"), "index.html")
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(same).To(gomega.BeTrue())

	gomega.Expect(b.DeleteRemoteFile(ctx, "css/site.css")).To(gomega.Succeed())
	names, err = b.ListRemoteFiles(ctx)
	gomega.Expect(err).NotTo(gomega.HaveOccurred())
	gomega.Expect(names.Contains("css/site.css")).To(gomega.BeFalse())
	gomega.Expect(names.Contains("index.html")).To(gomega.BeTrue())

	gomega.Expect(b.DeleteRemoteFile(ctx, "index.html")).To(gomega.Succeed())
	gomega.Expect(b.Close()).To(gomega.Succeed())
}
