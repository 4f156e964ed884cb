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
	"time"

	"github.com/go-resty/resty/v2"
)

// Notifier posts the JSON summary of a publish run to a webhook URL.
type Notifier struct {
	client *resty.Client
}

// NewNotifier returns a Notifier with a bounded request timeout.
func NewNotifier() *Notifier {
	return &Notifier{
		client: resty.New().SetTimeout(10 * time.Second),
	}
}

// Notify posts the summary. The response body is discarded; a non-2xx status
// is an error so the caller can log it.
func (n *Notifier) Notify(ctx context.Context, url string, summary *Summary) error {
	resp, err := n.client.R().
		SetContext(ctx).
		SetHeader("Content-Type", "application/json").
		SetBody(summary).
		Post(url)
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("webhook %s responded with status %s", url, resp.Status())
	}
	return nil
}
