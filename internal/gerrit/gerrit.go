// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gerrit resolves the state of code review changes.
package gerrit

import (
	"context"
	"net/http"

	"go.chromium.org/luci/common/api/gerrit"
	"go.chromium.org/luci/common/errors"
	gerritpb "go.chromium.org/luci/common/proto/gerrit"
	"google.golang.org/grpc"
)

// GerritClient provides a subset of the generated gerrit RPC client.
type GerritClient interface {
	GetChange(ctx context.Context, in *gerritpb.GetChangeRequest, opts ...grpc.CallOption) (*gerritpb.ChangeInfo, error)
}

// Enforce that the GerritClient interface is a subset of the generated client
// interface.
var _ GerritClient = (gerritpb.GerritClient)(nil)

// GerritClientFactory creates clients for accessing each necessary gerrit
// instance.
type GerritClientFactory func(ctx context.Context, host string) (GerritClient, error)

var ctxKey = "tryflag/internal/gerrit.GerritClientFactory"

// UseGerritClientFactory returns a context that causes new Client instances to
// use the given factory when getting gerrit clients.
func UseGerritClientFactory(ctx context.Context, factory GerritClientFactory) context.Context {
	return context.WithValue(ctx, &ctxKey, factory)
}

// Client looks up changes, caching one RPC client per host.
type Client struct {
	clients map[string]GerritClient
	factory GerritClientFactory
}

// NewClient returns a client. Unless a factory was installed with
// UseGerritClientFactory, REST clients are created on top of httpClient,
// which should already carry the gerrit OAuth scope.
func NewClient(ctx context.Context, httpClient *http.Client) *Client {
	factory, _ := ctx.Value(&ctxKey).(GerritClientFactory)
	if factory == nil {
		factory = func(ctx context.Context, host string) (GerritClient, error) {
			return gerrit.NewRESTClient(httpClient, host, true)
		}
	}
	return &Client{
		clients: map[string]GerritClient{},
		factory: factory,
	}
}

func (c *Client) gerritClientForHost(ctx context.Context, host string) (GerritClient, error) {
	if client, ok := c.clients[host]; ok {
		return client, nil
	}
	client, err := c.factory(ctx, host)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, errors.Reason("returned client for %s is nil", host).Err()
	}
	c.clients[host] = client
	return client, nil
}

// CurrentPatchset returns the number of the latest patchset of a change.
func (c *Client) CurrentPatchset(ctx context.Context, host, project string, change int64) (int32, error) {
	gerritClient, err := c.gerritClientForHost(ctx, host)
	if err != nil {
		return 0, err
	}
	info, err := gerritClient.GetChange(ctx, &gerritpb.GetChangeRequest{
		Project: project,
		Number:  change,
		Options: []gerritpb.QueryOption{gerritpb.QueryOption_CURRENT_REVISION},
	})
	if err != nil {
		return 0, errors.Annotate(err, "get change %s/%d", host, change).Err()
	}
	rev, ok := info.GetRevisions()[info.GetCurrentRevision()]
	if !ok {
		return 0, errors.Reason("%s/c/%s/+/%d has no current revision", host, project, change).Err()
	}
	return rev.GetNumber(), nil
}
