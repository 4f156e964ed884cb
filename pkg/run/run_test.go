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

package run_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jayfk/distill/pkg/run"
)

func TestGroupRunStopsWhenServiceStops(t *testing.T) {
	g := run.NewGroup("test-group")
	tester, stop := run.NewTester("tester")
	assert.Equal(t, []bool{true}, g.Register(tester))
	require.NoError(t, g.RegisterFlags().Parse(nil))

	done := make(chan error, 1)
	go func() {
		done <- g.Run(context.Background())
	}()
	g.WaitTillReady()
	stop()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("group did not stop after the service stopped")
	}
}

func TestCloserCloseThenWait(t *testing.T) {
	c := run.NewCloser(1)
	released := make(chan struct{})
	go func() {
		<-c.CloseNotify()
		c.Done()
		close(released)
	}()
	c.CloseThenWait()
	select {
	case <-released:
	default:
		t.Fatal("CloseThenWait returned before the task finished")
	}
	assert.True(t, c.Closed())
	assert.False(t, c.AddRunning())
}
