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

// Package amazon provides the Amazon S3 publish backend. It also serves any
// S3 compatible store through the ENDPOINT option.
package amazon

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/jayfk/distill/pkg/backend"
)

// Engine is the name this backend registers under.
const Engine = "amazon"

// Option keys consumed by this backend.
const (
	OptionAccessKeyID     = "ACCESS_KEY_ID"
	OptionSecretAccessKey = "SECRET_ACCESS_KEY"
	OptionBucket          = "BUCKET"
	OptionRegion          = "REGION"
	OptionEndpoint        = "ENDPOINT"
)

var _ backend.Backend = (*s3Backend)(nil)

type s3Backend struct {
	client *s3.Client
	opts   backend.Options
	bucket string
}

func init() {
	backend.Register(Engine, backend.Descriptor{
		RequiredOptions: []string{backend.OptionEngine, OptionAccessKeyID, OptionSecretAccessKey, OptionBucket},
		New:             New,
	})
}

// New creates an unauthenticated S3 backend from its options.
func New(opts backend.Options) (backend.Backend, error) {
	return &s3Backend{opts: opts}, nil
}

func (s *s3Backend) AccountUsername() string {
	// access keys are not usernames
	return ""
}

func (s *s3Backend) AccountContainer() string {
	return s.opts.Get(OptionBucket)
}

// Authenticate builds the S3 client with static credentials and verifies the
// configured bucket with a HeadBucket call.
func (s *s3Backend) Authenticate(ctx context.Context) error {
	region := s.opts.Get(OptionRegion)
	if region == "" {
		region = "us-east-1"
	}
	awsCfg, err := config.LoadDefaultConfig(ctx,
		config.WithRegion(region),
		config.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(
			s.opts.Get(OptionAccessKeyID), s.opts.Get(OptionSecretAccessKey), "")),
	)
	if err != nil {
		return fmt.Errorf("load AWS config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint := s.opts.Get(OptionEndpoint); endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			// S3 compatible stores rarely support virtual-hosted addressing
			o.UsePathStyle = true
		}
	})

	bucket := s.opts.Get(OptionBucket)
	if _, err = client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(bucket)}); err != nil {
		return fmt.Errorf("failed to resolve bucket %q: %w", bucket, err)
	}
	s.client = client
	s.bucket = bucket
	return nil
}

func (s *s3Backend) ListRemoteFiles(ctx context.Context) (*treeset.Set, error) {
	if s.client == nil {
		return nil, backend.ErrNotAuthenticated
	}
	names := backend.NewNameSet()
	paginator := s3.NewListObjectsV2Paginator(s.client, &s3.ListObjectsV2Input{
		Bucket: aws.String(s.bucket),
	})
	for paginator.HasMorePages() {
		page, err := paginator.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, obj := range page.Contents {
			names.Add(aws.ToString(obj.Key))
		}
	}
	return names, nil
}

func (s *s3Backend) DeleteRemoteFile(ctx context.Context, remoteName string) error {
	if s.client == nil {
		return backend.ErrNotAuthenticated
	}
	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remoteName),
	})
	return err
}

// CompareFile matches the local file's MD5 against the object's ETag. For
// the single part uploads this backend produces the ETag is the MD5 of the
// object's bytes.
func (s *s3Backend) CompareFile(ctx context.Context, localName, remoteName string) (bool, error) {
	if s.client == nil {
		return false, backend.ErrNotAuthenticated
	}
	head, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remoteName),
	})
	if err != nil {
		return false, fmt.Errorf("failed to head %q: %w", remoteName, err)
	}
	localSum, err := backend.FileMD5(localName)
	if err != nil {
		return false, err
	}
	return localSum == strings.Trim(aws.ToString(head.ETag), `"`), nil
}

// UploadFile writes the local file to the named object with a public-read
// canned ACL, which is what serving a published static site needs.
func (s *s3Backend) UploadFile(ctx context.Context, localName, remoteName string) error {
	if s.client == nil {
		return backend.ErrNotAuthenticated
	}
	f, err := os.Open(localName)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(remoteName),
		Body:   f,
		ACL:    types.ObjectCannedACLPublicRead,
	})
	return err
}

func (s *s3Backend) CreateRemoteDir(_ context.Context, _ string) error {
	// object storage is flat, there is nothing to create
	return nil
}

func (s *s3Backend) Close() error {
	// the S3 client holds no resources to close
	return nil
}
