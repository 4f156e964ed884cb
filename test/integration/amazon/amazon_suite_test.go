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

//go:build integration

package amazon_test

import (
	"context"
	"testing"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/jayfk/distill/pkg/backend"
	_ "github.com/jayfk/distill/pkg/backend/amazon"
	"github.com/jayfk/distill/test/integration/backendsuite"
	"github.com/jayfk/distill/test/integration/dockertesthelper"
)

func TestAmazonBackend(t *testing.T) {
	gomega.RegisterFailHandler(ginkgo.Fail)
	ginkgo.RunSpecs(t, "Amazon Backend Suite")
}

var _ = ginkgo.BeforeSuite(func() {
	gomega.Expect(dockertesthelper.InitMinioContainer()).To(gomega.Succeed())
})

var _ = ginkgo.AfterSuite(func() {
	gomega.Expect(dockertesthelper.CloseMinioContainer()).To(gomega.Succeed())
})

var _ = ginkgo.Describe("Amazon S3 backend", func() {
	ginkgo.It("round-trips a site through the storage contract", func() {
		b, err := backend.Open(backend.NewOptions(map[string]string{
			"engine":            "amazon",
			"access-key-id":     dockertesthelper.MinioRootUser,
			"secret-access-key": dockertesthelper.MinioRootPassword,
			"bucket":            dockertesthelper.S3BucketName,
			"region":            "us-east-1",
			"endpoint":          "http://" + dockertesthelper.MinioEndpoint,
		}))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		backendsuite.Exercise(context.Background(), b, ginkgo.GinkgoT().TempDir())
	})
})
