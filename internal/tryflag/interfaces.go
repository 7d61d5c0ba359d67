// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tryflag

import (
	"context"

	"tryflag/internal/builders"
	"tryflag/internal/git"
	"tryflag/internal/results"
)

// VersionControl commits to the local checkout and uploads for review.
type VersionControl interface {
	Add(ctx context.Context, paths []string) error
	CommitLocally(ctx context.Context, message string) error
	Upload(ctx context.Context, opts git.UploadOptions) error
}

var _ VersionControl = (*git.Client)(nil)

// Build identifies one build of a builder.
type Build struct {
	Builder string
	Number  int64
}

// JobHandle is a try job known to the build farm.
type JobHandle struct {
	Build
	// ID is the build farm's identifier of the job.
	ID     int64
	Status string
	// URL is the page of the job.
	URL string
}

// BuildFarm schedules try jobs and serves their results.
type BuildFarm interface {
	// TriggerTryJob schedules one try job of builder for the uploaded
	// change.
	TriggerTryJob(ctx context.Context, builder, pool string) (*JobHandle, error)
	// LatestTryJobs returns the latest started try job of each builder for
	// the uploaded change. Builders without one are absent. On partial
	// failure both the jobs found and an error are returned.
	LatestTryJobs(ctx context.Context, bs []builders.Builder) (map[Build]*JobHandle, error)
	// FetchResults returns the results of a job. With includeRetries, tests
	// that passed on retry are included.
	FetchResults(ctx context.Context, job *JobHandle, includeRetries bool) ([]results.RawResult, error)
	// ResultsURL is the directory holding the results of a build.
	ResultsURL(builder string, buildNumber int64) string
}
