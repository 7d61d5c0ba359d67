// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package gerrit serves fake gerrit data for tests.
package gerrit

import (
	"context"
	"fmt"

	"tryflag/internal/gerrit"

	"go.chromium.org/luci/common/errors"
	gerritpb "go.chromium.org/luci/common/proto/gerrit"
	"google.golang.org/grpc"
)

// Change is the fake data for a gerrit change.
type Change struct {
	// Patchsets is the number of patchsets uploaded. Zero is treated as one.
	Patchsets int32
}

// Host is the fake data for a gerrit host.
type Host struct {
	// Changes maps change numbers to their details.
	//
	// Missing keys will have a default fake change. A nil value indicates
	// that the change does not exist.
	Changes map[int64]*Change
}

// Client is the client that will serve fake data for a given host.
type Client struct {
	hostname string
	gerrit   *Host
}

// Factory creates a factory that returns RPC clients that use fake data to
// respond to requests.
//
// Missing keys will have a default Host. A nil value indicates that the given
// host is not a gerrit instance.
func Factory(fakes map[string]*Host) gerrit.GerritClientFactory {
	return func(ctx context.Context, host string) (gerrit.GerritClient, error) {
		fake, ok := fakes[host]
		if !ok {
			fake = &Host{}
		} else if fake == nil {
			return nil, errors.Reason("%s is not a gerrit host", host).Err()
		}
		return &Client{host, fake}, nil
	}
}

// GetChange implements gerrit.GerritClient.
func (c *Client) GetChange(ctx context.Context, request *gerritpb.GetChangeRequest, opts ...grpc.CallOption) (*gerritpb.ChangeInfo, error) {
	change, ok := c.gerrit.Changes[request.Number]
	if !ok {
		change = &Change{}
	} else if change == nil {
		return nil, errors.Reason("change %d does not exist on host %#v", request.Number, c.hostname).Err()
	}
	max := change.Patchsets
	if max < 1 {
		max = 1
	}
	revisions := map[string]*gerritpb.RevisionInfo{}
	var current string
	for i := int32(1); i <= max; i++ {
		current = fmt.Sprintf("fake-revision|%s|%s|%d|%d", c.hostname, request.Project, request.Number, i)
		revisions[current] = &gerritpb.RevisionInfo{Number: i}
	}
	return &gerritpb.ChangeInfo{
		Project:         request.Project,
		Number:          request.Number,
		CurrentRevision: current,
		Revisions:       revisions,
	}, nil
}
