// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package buildbucket provides a Buildbucket client with helper methods for
// scheduling and finding try builds of a Gerrit change.
package buildbucket

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"tryflag/internal/site"

	buildbucketpb "go.chromium.org/luci/buildbucket/proto"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/grpc/prpc"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/fieldmaskpb"
)

// BuildsClient is the subset of buildbucketpb.BuildsClient used here.
type BuildsClient interface {
	ScheduleBuild(ctx context.Context, in *buildbucketpb.ScheduleBuildRequest, opts ...grpc.CallOption) (*buildbucketpb.Build, error)
	SearchBuilds(ctx context.Context, in *buildbucketpb.SearchBuildsRequest, opts ...grpc.CallOption) (*buildbucketpb.SearchBuildsResponse, error)
}

var _ BuildsClient = (buildbucketpb.BuildsClient)(nil)

// searchBuildFields is the list of build fields needed to locate results.
var searchBuildFields = []string{
	"builds.*.id",
	"builds.*.builder",
	"builds.*.number",
	"builds.*.status",
	"builds.*.create_time",
}

// Client provides helper methods to interact with Buildbucket builds.
type Client struct {
	client  BuildsClient
	project string
}

// NewClient returns a new client talking to the Buildbucket service at host
// on behalf of the given LUCI project.
func NewClient(httpClient *http.Client, host, project string) *Client {
	options := *prpc.DefaultOptions()
	options.UserAgent = site.UserAgent
	return &Client{
		client: buildbucketpb.NewBuildsPRPCClient(&prpc.Client{
			C:       httpClient,
			Host:    host,
			Options: &options,
		}),
		project: project,
	}
}

// NewClientForTesting returns a client backed by the given BuildsClient.
func NewClientForTesting(client BuildsClient, project string) *Client {
	return &Client{client: client, project: project}
}

// BuilderID returns the Buildbucket identity of a builder in the given pool.
//
// A pool is either "<project>/<bucket>", a bare bucket of the client's
// project, or one of the legacy tryserver master names in site.LegacyPools.
func (c *Client) BuilderID(builder, pool string) *buildbucketpb.BuilderID {
	id := &buildbucketpb.BuilderID{Project: c.project, Bucket: pool, Builder: builder}
	if bucket, ok := site.LegacyPools[pool]; ok {
		id.Bucket = bucket
	} else if parts := strings.SplitN(pool, "/", 2); len(parts) == 2 {
		id.Project, id.Bucket = parts[0], parts[1]
	}
	return id
}

// ScheduleTryBuild schedules a build of builder for the given change.
func (c *Client) ScheduleTryBuild(ctx context.Context, builder, pool string, change *buildbucketpb.GerritChange) (*buildbucketpb.Build, error) {
	req := &buildbucketpb.ScheduleBuildRequest{
		RequestId:     fmt.Sprintf("tryflag/%s/%d/%d/%s", change.GetHost(), change.GetChange(), change.GetPatchset(), builder),
		Builder:       c.BuilderID(builder, pool),
		GerritChanges: []*buildbucketpb.GerritChange{change},
		Tags:          bbTags(map[string]string{"user_agent": site.UserAgent}),
	}
	build, err := c.client.ScheduleBuild(ctx, req)
	if err != nil {
		return nil, errors.Annotate(err, "schedule build of %s", builder).Err()
	}
	return build, nil
}

// LatestTryBuild returns the most recent build of builder for the given
// change, or nil if there is none.
func (c *Client) LatestTryBuild(ctx context.Context, builder, pool string, change *buildbucketpb.GerritChange) (*buildbucketpb.Build, error) {
	req := &buildbucketpb.SearchBuildsRequest{
		Predicate: &buildbucketpb.BuildPredicate{
			Builder:       c.BuilderID(builder, pool),
			GerritChanges: []*buildbucketpb.GerritChange{change},
		},
		Fields:   &fieldmaskpb.FieldMask{Paths: searchBuildFields},
		PageSize: 1,
	}
	// Builds are returned newest first.
	res, err := c.client.SearchBuilds(ctx, req)
	if err != nil {
		return nil, errors.Annotate(err, "search builds of %s", builder).Err()
	}
	if len(res.GetBuilds()) == 0 {
		return nil, nil
	}
	return res.Builds[0], nil
}

// BuildURL constructs the URL for the LUCI page of the build.
func BuildURL(build *buildbucketpb.Build) string {
	b := build.GetBuilder()
	return fmt.Sprintf("https://ci.chromium.org/ui/p/%s/builders/%s/%s/b%d",
		b.GetProject(), b.GetBucket(), b.GetBuilder(), build.GetId())
}

// bbTags converts the given map[string]string of Buildbucket tags to the
// required []*buildbucketpb.StringPair type for Buildbucket requests.
func bbTags(tags map[string]string) []*buildbucketpb.StringPair {
	var bbTagList []*buildbucketpb.StringPair
	for key, val := range tags {
		bbTagList = append(bbTagList, &buildbucketpb.StringPair{
			Key:   strings.Trim(key, " "),
			Value: strings.Trim(val, " "),
		})
	}
	return bbTagList
}
