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

// Package azure provides the Azure Blob Storage publish backend.
package azure

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"os"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/emirpasic/gods/sets/treeset"

	"github.com/jayfk/distill/pkg/backend"
)

// Engine is the name this backend registers under.
const Engine = "azure"

// Option keys consumed by this backend.
const (
	OptionConnectionString = "CONNECTION_STRING"
	OptionContainer        = "CONTAINER"
)

var _ backend.Backend = (*blobBackend)(nil)

type blobBackend struct {
	client    *azblob.Client
	container *container.Client
	opts      backend.Options
	name      string
}

func init() {
	backend.Register(Engine, backend.Descriptor{
		RequiredOptions: []string{backend.OptionEngine, OptionConnectionString, OptionContainer},
		New:             New,
	})
}

// New creates an unauthenticated Azure Blob backend from its options.
func New(opts backend.Options) (backend.Backend, error) {
	return &blobBackend{opts: opts}, nil
}

func (b *blobBackend) AccountUsername() string {
	// the storage account is addressed through the connection string
	return ""
}

func (b *blobBackend) AccountContainer() string {
	return b.opts.Get(OptionContainer)
}

// Authenticate builds the blob service client from the connection string and
// verifies the configured container exists.
func (b *blobBackend) Authenticate(ctx context.Context) error {
	client, err := azblob.NewClientFromConnectionString(b.opts.Get(OptionConnectionString), nil)
	if err != nil {
		return backend.Errorf("invalid azure connection string: %v", err)
	}
	name := b.opts.Get(OptionContainer)
	containerClient := client.ServiceClient().NewContainerClient(name)
	if _, err = containerClient.GetProperties(ctx, nil); err != nil {
		var respErr *azcore.ResponseError
		if errors.As(err, &respErr) && respErr.ErrorCode == "ContainerNotFound" {
			return backend.Errorf("azure container %q does not exist", name)
		}
		return fmt.Errorf("failed to resolve container %q: %w", name, err)
	}
	b.client = client
	b.container = containerClient
	b.name = name
	return nil
}

func (b *blobBackend) ListRemoteFiles(ctx context.Context) (*treeset.Set, error) {
	if b.client == nil {
		return nil, backend.ErrNotAuthenticated
	}
	names := backend.NewNameSet()
	pager := b.client.NewListBlobsFlatPager(b.name, nil)
	for pager.More() {
		page, err := pager.NextPage(ctx)
		if err != nil {
			return nil, err
		}
		for _, item := range page.Segment.BlobItems {
			names.Add(*item.Name)
		}
	}
	return names, nil
}

func (b *blobBackend) DeleteRemoteFile(ctx context.Context, remoteName string) error {
	if b.client == nil {
		return backend.ErrNotAuthenticated
	}
	_, err := b.client.DeleteBlob(ctx, b.name, remoteName, nil)
	return err
}

// CompareFile matches the local file's MD5 against the Content-MD5 property
// the blob store keeps. Both sides are compared hex encoded.
func (b *blobBackend) CompareFile(ctx context.Context, localName, remoteName string) (bool, error) {
	if b.client == nil {
		return false, backend.ErrNotAuthenticated
	}
	props, err := b.container.NewBlobClient(remoteName).GetProperties(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("failed to get properties of %q: %w", remoteName, err)
	}
	localSum, err := backend.FileMD5(localName)
	if err != nil {
		return false, err
	}
	return localSum == hex.EncodeToString(props.ContentMD5), nil
}

// UploadFile writes the local file to the named blob. Visibility follows the
// container's access level, so there is no per-blob ACL step.
func (b *blobBackend) UploadFile(ctx context.Context, localName, remoteName string) error {
	if b.client == nil {
		return backend.ErrNotAuthenticated
	}
	f, err := os.Open(localName)
	if err != nil {
		return err
	}
	defer f.Close()

	_, err = b.client.UploadFile(ctx, b.name, remoteName, f, nil)
	if err != nil {
		return fmt.Errorf("failed to upload blob %q: %w", remoteName, err)
	}
	return nil
}

func (b *blobBackend) CreateRemoteDir(_ context.Context, _ string) error {
	// blob storage is flat, there is nothing to create
	return nil
}

func (b *blobBackend) Close() error {
	// azblob.Client is stateless, nothing to close
	return nil
}
