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

package dockertesthelper

import (
	"context"
	"fmt"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

var (
	minioPool *dockertest.Pool
	minioRes  *dockertest.Resource
)

// InitMinioContainer starts a MinIO container and provisions the test bucket.
func InitMinioContainer() error {
	var err error
	minioPool, err = dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("docker unavailable: %w", err)
	}

	removeContainer(minioPool, MinioContainerName)

	minioRes, err = minioPool.RunWithOptions(&dockertest.RunOptions{
		Repository: "minio/minio",
		Tag:        "latest",
		Cmd:        []string{"server", "/data"},
		Env: []string{
			"MINIO_ROOT_USER=" + MinioRootUser,
			"MINIO_ROOT_PASSWORD=" + MinioRootPassword,
		},
		Name: MinioContainerName,
	}, func(cfg *docker.HostConfig) {
		cfg.AutoRemove = true
		cfg.RestartPolicy = docker.RestartPolicy{Name: "no"}
		cfg.PortBindings = map[docker.Port][]docker.PortBinding{
			"9000/tcp": {{HostIP: "0.0.0.0", HostPort: MinioPort}},
		}
	})
	if err != nil {
		return fmt.Errorf("cannot start minio container: %w", err)
	}

	client, err := minio.New(MinioEndpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(MinioRootUser, MinioRootPassword, ""),
		Secure: false,
	})
	if err != nil {
		return err
	}
	err = minioPool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, lerr := client.ListBuckets(ctx)
		return lerr
	})
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	exists, err := client.BucketExists(ctx, S3BucketName)
	if err != nil {
		return err
	}
	if !exists {
		return client.MakeBucket(ctx, S3BucketName, minio.MakeBucketOptions{Region: "us-east-1"})
	}
	return nil
}

// CloseMinioContainer stops and removes the MinIO container.
func CloseMinioContainer() error {
	if minioPool == nil || minioRes == nil {
		return nil
	}
	return minioPool.Purge(minioRes)
}
