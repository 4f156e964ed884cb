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
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/ory/dockertest/v3"
	"github.com/ory/dockertest/v3/docker"
)

var (
	azuritePool *dockertest.Pool
	azuriteRes  *dockertest.Resource
)

// InitAzuriteContainer starts an Azurite container and provisions the test
// blob container.
func InitAzuriteContainer() error {
	var err error
	azuritePool, err = dockertest.NewPool("")
	if err != nil {
		return fmt.Errorf("docker unavailable: %w", err)
	}

	removeContainer(azuritePool, AzuriteContainerName)

	azuriteRes, err = azuritePool.RunWithOptions(&dockertest.RunOptions{
		Repository: "mcr.microsoft.com/azure-storage/azurite",
		Tag:        "latest",
		Cmd:        []string{"azurite-blob", "--blobHost", "0.0.0.0", "--blobPort", AzuritePort},
		Name:       AzuriteContainerName,
	}, func(cfg *docker.HostConfig) {
		cfg.AutoRemove = true
		cfg.RestartPolicy = docker.RestartPolicy{Name: "no"}
		cfg.PortBindings = map[docker.Port][]docker.PortBinding{
			AzuritePort + "/tcp": {{HostIP: "0.0.0.0", HostPort: AzuritePort}},
		}
	})
	if err != nil {
		return fmt.Errorf("cannot start azurite container: %w", err)
	}

	client, err := azblob.NewClientFromConnectionString(AzuriteConnStr, nil)
	if err != nil {
		return err
	}
	return azuritePool.Retry(func() error {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_, cerr := client.CreateContainer(ctx, AzuriteContainer, nil)
		if cerr != nil && strings.Contains(cerr.Error(), "ContainerAlreadyExists") {
			return nil
		}
		return cerr
	})
}

// CloseAzuriteContainer stops and removes the Azurite container.
func CloseAzuriteContainer() error {
	if azuritePool == nil || azuriteRes == nil {
		return nil
	}
	return azuritePool.Purge(azuriteRes)
}
