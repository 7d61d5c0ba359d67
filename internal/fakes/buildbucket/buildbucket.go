// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package buildbucket provides a fake Buildbucket BuildsClient for tests.
package buildbucket

import (
	"context"
	"fmt"

	buildbucketpb "go.chromium.org/luci/buildbucket/proto"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/proto"
)

// BuildsClient records scheduled builds and answers searches from Builds.
type BuildsClient struct {
	// Builds maps builder name to its builds, newest first.
	Builds map[string][]*buildbucketpb.Build

	// ScheduleErrs maps builder name to the error ScheduleBuild returns.
	ScheduleErrs map[string]error
	// SearchErrs maps builder name to the error SearchBuilds returns.
	SearchErrs map[string]error

	// Scheduled holds every successful ScheduleBuild request.
	Scheduled []*buildbucketpb.ScheduleBuildRequest
	// Searched holds every SearchBuilds request.
	Searched []*buildbucketpb.SearchBuildsRequest

	nextID int64
}

// ScheduleBuild implements buildbucket.BuildsClient.
func (c *BuildsClient) ScheduleBuild(ctx context.Context, in *buildbucketpb.ScheduleBuildRequest, opts ...grpc.CallOption) (*buildbucketpb.Build, error) {
	builder := in.GetBuilder().GetBuilder()
	if err := c.ScheduleErrs[builder]; err != nil {
		return nil, err
	}
	c.Scheduled = append(c.Scheduled, in)
	c.nextID++
	return &buildbucketpb.Build{
		Id:      8000000000000000000 + c.nextID,
		Builder: proto.Clone(in.GetBuilder()).(*buildbucketpb.BuilderID),
		Status:  buildbucketpb.Status_SCHEDULED,
	}, nil
}

// SearchBuilds implements buildbucket.BuildsClient.
func (c *BuildsClient) SearchBuilds(ctx context.Context, in *buildbucketpb.SearchBuildsRequest, opts ...grpc.CallOption) (*buildbucketpb.SearchBuildsResponse, error) {
	c.Searched = append(c.Searched, in)
	builder := in.GetPredicate().GetBuilder().GetBuilder()
	if builder == "" {
		return nil, fmt.Errorf("fake SearchBuilds requires a builder predicate")
	}
	if err := c.SearchErrs[builder]; err != nil {
		return nil, err
	}
	builds := c.Builds[builder]
	if n := int(in.GetPageSize()); n > 0 && len(builds) > n {
		builds = builds[:n]
	}
	return &buildbucketpb.SearchBuildsResponse{Builds: builds}, nil
}
