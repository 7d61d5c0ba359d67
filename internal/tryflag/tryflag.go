// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package tryflag runs web tests with an experimental driver flag on the
// try builders, and collects the tests whose outcome the flag changes.
package tryflag

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"tryflag/internal/builders"
	"tryflag/internal/expectations"
	"tryflag/internal/git"
	"tryflag/internal/results"
	"tryflag/internal/site"

	"github.com/spf13/afero"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
	"go.chromium.org/luci/common/sync/parallel"
)

// CollaboratorFailure tags errors returned by version control or the build
// farm.
var CollaboratorFailure = errors.BoolTag{Key: errors.NewTagKey("collaborator_failure")}

// DefaultJobs is the default number of result sets fetched at once.
const DefaultJobs = 4

// TryFlag triggers flag try jobs and reports their results.
type TryFlag struct {
	Registry *builders.Registry
	VCS      VersionControl
	Farm     BuildFarm
	// FS is rooted at the filesystem root; Root is the checkout in it.
	FS   afero.Fs
	Root string
	// Out receives the report.
	Out io.Writer
	// Bug is the crbug.com issue recorded on expectation lines. Optional.
	Bug string
	// Jobs bounds concurrent result fetches.
	Jobs int
}

func collaboratorError(err error, format string, args ...interface{}) error {
	return errors.Annotate(err, format, args...).Tag(CollaboratorFailure).Err()
}

// Trigger commits and uploads flag, if not empty, then schedules a try job
// on every builder.
//
// With regenerate, the flag's expectations file is emptied in a separate
// commit so the try jobs report every failure the flag causes.
func (t *TryFlag) Trigger(ctx context.Context, flag string, regenerate bool) error {
	if flag != "" {
		if err := t.commitFlag(ctx, flag, regenerate); err != nil {
			return err
		}
	} else if regenerate {
		logging.Warningf(ctx, "-regenerate has no effect without -flag")
	}

	var merr errors.MultiError
	bs := t.Registry.Builders()
	for _, b := range bs {
		job, err := t.Farm.TriggerTryJob(ctx, b.Name, b.Pool)
		if err != nil {
			err = collaboratorError(err, "trigger try job on %s", b.Name)
			logging.Errorf(ctx, "%s", err)
			merr = append(merr, err)
			continue
		}
		logging.Infof(ctx, "triggered try job on %s: %s", b.Name, job.URL)
	}
	if len(merr) > 0 {
		return collaboratorError(merr, "%d of %d try jobs failed", len(merr), len(bs))
	}
	return nil
}

func (t *TryFlag) commitFlag(ctx context.Context, flag string, regenerate bool) error {
	if err := t.writeAndCommit(ctx, site.FlagFile, flag+"\n",
		fmt.Sprintf("Flag try job: force %s for run-webkit-tests.", flag)); err != nil {
		return err
	}
	if regenerate {
		path := filepath.Join(site.FlagExpectationsDir, strings.TrimLeft(flag, "-"))
		if err := t.writeAndCommit(ctx, path, "",
			fmt.Sprintf("Flag try job: clear expectations for %s.", flag)); err != nil {
			return err
		}
	}
	err := t.VCS.Upload(ctx, git.UploadOptions{
		Message:     fmt.Sprintf("Flag try job for %s.", flag),
		BypassHooks: true,
		Force:       true,
	})
	if err != nil {
		return collaboratorError(err, "upload")
	}
	return nil
}

// writeAndCommit writes contents to path, relative to the checkout, and
// commits it alone.
func (t *TryFlag) writeAndCommit(ctx context.Context, path, contents, message string) error {
	full := filepath.Join(t.Root, path)
	if err := t.FS.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return errors.Annotate(err, "write %s", path).Err()
	}
	if err := afero.WriteFile(t.FS, full, []byte(contents), 0644); err != nil {
		return errors.Annotate(err, "write %s", path).Err()
	}
	if err := t.VCS.Add(ctx, []string{path}); err != nil {
		return collaboratorError(err, "stage %s", path)
	}
	if err := t.VCS.CommitLocally(ctx, message); err != nil {
		return collaboratorError(err, "commit %s", path)
	}
	logging.Infof(ctx, "committed %s", path)
	return nil
}

// fetched is the outcome of fetching one job's results.
type fetched struct {
	results []results.RawResult
	err     error
}

// Update fetches the results of the latest try job of every builder and
// prints the unexpected passes and failures.
//
// A job whose results cannot be fetched, or a result that cannot be
// parsed, is logged and skipped.
func (t *TryFlag) Update(ctx context.Context) error {
	fmt.Fprintln(t.Out, "Fetching results...")
	found, err := t.Farm.LatestTryJobs(ctx, t.Registry.Builders())
	if err != nil {
		if len(found) == 0 {
			return collaboratorError(err, "find try jobs")
		}
		logging.Errorf(ctx, "%s", collaboratorError(err, "find try jobs"))
	}

	jobs := t.sortedJobs(ctx, found)
	for _, job := range jobs {
		config, _ := t.Registry.Configuration(job.Builder)
		fmt.Fprintf(t.Out, "-- %s: %s/results.html\n", config.Version, t.Farm.ResultsURL(job.Builder, job.Number))
	}

	slots := t.fetchAll(ctx, jobs)
	model := expectations.NewModel(t.Registry, t.Bug)
	for i, job := range jobs {
		if slots[i].err != nil {
			logging.Errorf(ctx, "%s", collaboratorError(slots[i].err, "fetch results of %s #%d", job.Builder, job.Number))
			continue
		}
		t.processResults(ctx, model, job.Builder, slots[i].results)
	}

	t.report(model)
	return nil
}

// sortedJobs returns the jobs of registry builders ordered by builder name
// then build number.
func (t *TryFlag) sortedJobs(ctx context.Context, found map[Build]*JobHandle) []*JobHandle {
	names := t.Registry.NameSet()
	jobs := make([]*JobHandle, 0, len(found))
	for build, job := range found {
		if !names.Has(build.Builder) {
			err := errors.Reason("try job of builder %q is not in the registry", build.Builder).Tag(expectations.UnknownBuilder).Err()
			logging.Warningf(ctx, "%s", err)
			continue
		}
		jobs = append(jobs, job)
	}
	sort.Slice(jobs, func(i, j int) bool {
		if jobs[i].Builder != jobs[j].Builder {
			return jobs[i].Builder < jobs[j].Builder
		}
		return jobs[i].Number < jobs[j].Number
	})
	return jobs
}

// fetchAll fetches the full results of every job, concurrently. Slot i
// holds the outcome for jobs[i].
func (t *TryFlag) fetchAll(ctx context.Context, jobs []*JobHandle) []fetched {
	slots := make([]fetched, len(jobs))
	workers := t.Jobs
	if workers <= 0 {
		workers = DefaultJobs
	}
	_ = parallel.WorkPool(workers, func(work chan<- func() error) {
		for i, job := range jobs {
			i, job := i, job
			work <- func() error {
				res, err := t.Farm.FetchResults(ctx, job, true)
				slots[i] = fetched{res, err}
				return nil
			}
		}
	})
	return slots
}

// processResults feeds the results of one build of builder to model.
func (t *TryFlag) processResults(ctx context.Context, model *expectations.Model, builder string, rs []results.RawResult) {
	for _, r := range rs {
		if err := model.RecordIfUnexpected(builder, r); err != nil {
			logging.Warningf(ctx, "skipping result: %s", err)
		}
	}
}
