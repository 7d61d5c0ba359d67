// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tryflag

import (
	"context"

	"tryflag/internal/buildbucket"
	"tryflag/internal/builders"
	"tryflag/internal/gerrit"
	"tryflag/internal/git"
	"tryflag/internal/results"

	buildbucketpb "go.chromium.org/luci/buildbucket/proto"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
)

// IssueSource finds the code review issue of the current branch.
type IssueSource interface {
	Issue(ctx context.Context) (*git.Issue, error)
}

var _ IssueSource = (*git.Client)(nil)

// LUCIFarm is the BuildFarm of Chromium's LUCI try builders.
//
// The change is the issue of the checkout's current branch at its latest
// patchset, resolved on first use.
type LUCIFarm struct {
	Issues      IssueSource
	Gerrit      *gerrit.Client
	Buildbucket *buildbucket.Client
	Results     *results.Fetcher

	change *buildbucketpb.GerritChange
}

var _ BuildFarm = (*LUCIFarm)(nil)

func (f *LUCIFarm) gerritChange(ctx context.Context) (*buildbucketpb.GerritChange, error) {
	if f.change != nil {
		return f.change, nil
	}
	issue, err := f.Issues.Issue(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "find issue").Err()
	}
	patchset, err := f.Gerrit.CurrentPatchset(ctx, issue.GerritHost, issue.GerritProject, issue.Number)
	if err != nil {
		return nil, errors.Annotate(err, "find patchset").Err()
	}
	f.change = &buildbucketpb.GerritChange{
		Host:     issue.GerritHost,
		Project:  issue.GerritProject,
		Change:   issue.Number,
		Patchset: int64(patchset),
	}
	logging.Debugf(ctx, "change is %s/c/%s/+/%d/%d", f.change.Host, f.change.Project, f.change.Change, f.change.Patchset)
	return f.change, nil
}

func handle(build *buildbucketpb.Build) *JobHandle {
	return &JobHandle{
		Build:  Build{Builder: build.GetBuilder().GetBuilder(), Number: int64(build.GetNumber())},
		ID:     build.GetId(),
		Status: build.GetStatus().String(),
		URL:    buildbucket.BuildURL(build),
	}
}

// TriggerTryJob implements BuildFarm.
func (f *LUCIFarm) TriggerTryJob(ctx context.Context, builder, pool string) (*JobHandle, error) {
	change, err := f.gerritChange(ctx)
	if err != nil {
		return nil, err
	}
	build, err := f.Buildbucket.ScheduleTryBuild(ctx, builder, pool, change)
	if err != nil {
		return nil, err
	}
	return handle(build), nil
}

// LatestTryJobs implements BuildFarm.
//
// Builds that have not started yet have no number and are left out.
func (f *LUCIFarm) LatestTryJobs(ctx context.Context, bs []builders.Builder) (map[Build]*JobHandle, error) {
	change, err := f.gerritChange(ctx)
	if err != nil {
		return nil, err
	}
	jobs := map[Build]*JobHandle{}
	var merr errors.MultiError
	for _, b := range bs {
		build, err := f.Buildbucket.LatestTryBuild(ctx, b.Name, b.Pool, change)
		switch {
		case err != nil:
			merr = append(merr, err)
		case build == nil:
			logging.Infof(ctx, "no try job of %s for this change", b.Name)
		case build.GetNumber() == 0:
			logging.Infof(ctx, "try job of %s has not started: %s", b.Name, buildbucket.BuildURL(build))
		default:
			h := handle(build)
			jobs[h.Build] = h
		}
	}
	if len(merr) > 0 {
		return jobs, merr
	}
	return jobs, nil
}

// FetchResults implements BuildFarm.
func (f *LUCIFarm) FetchResults(ctx context.Context, job *JobHandle, includeRetries bool) ([]results.RawResult, error) {
	return f.Results.Fetch(ctx, job.Builder, job.Number, includeRetries)
}

// ResultsURL implements BuildFarm.
func (f *LUCIFarm) ResultsURL(builder string, buildNumber int64) string {
	return f.Results.URL(builder, buildNumber)
}
