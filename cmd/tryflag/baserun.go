// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"context"
	"fmt"
	"io/ioutil"

	"tryflag/internal/buildbucket"
	"tryflag/internal/builders"
	"tryflag/internal/gerrit"
	"tryflag/internal/git"
	"tryflag/internal/results"
	"tryflag/internal/site"
	"tryflag/internal/tryflag"

	"github.com/maruel/subcommands"
	"github.com/spf13/afero"

	"go.chromium.org/luci/auth"
	"go.chromium.org/luci/auth/client/authcli"
	"go.chromium.org/luci/common/data/text"
	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
)

// ExitCodeCommandFailure indicates that a command failed, either because
// of invalid flags or because a collaborator failed.
const ExitCodeCommandFailure = 2

// baseRun provides the flags and setup shared by trigger and update.
type baseRun struct {
	subcommands.CommandRunBase

	authFlags authcli.Flags
	logLevel  logging.Level

	bug        string
	flag       string
	regenerate bool

	checkout        string
	buildersFile    string
	buildbucketHost string
	resultsHost     string
	jobs            int
}

func (r *baseRun) RegisterGlobalFlags() {
	r.authFlags.Register(&r.Flags, site.DefaultAuthOptions())
	r.logLevel = logging.Info
	r.Flags.Var(&r.logLevel, "log-level", text.Doc(`
		Logging level: debug, info, warning or error.
	`))
	r.Flags.StringVar(&r.bug, "bug", "", text.Doc(`
		crbug.com issue number recorded on the expectation lines.
	`))
	r.Flags.StringVar(&r.flag, "flag", "", text.Doc(`
		Driver flag to force on, e.g. --enable-features=Foo. Used by trigger.
	`))
	r.Flags.BoolVar(&r.regenerate, "regenerate", false, text.Doc(`
		Empty the flag's FlagExpectations file before triggering, so every
		failure the flag causes is reported. Used by trigger.
	`))
	r.Flags.StringVar(&r.checkout, "checkout", "", text.Doc(`
		Directory inside the Chromium checkout. Defaults to the current
		directory.
	`))
	r.Flags.StringVar(&r.buildersFile, "builders", "", text.Doc(`
		YAML or JSON file describing the builders, in the builders.json shape.
		Defaults to the Linux, Mac and Windows CQ builders.
	`))
	r.Flags.StringVar(&r.buildbucketHost, "buildbucket-host", site.BuildbucketHost, "Buildbucket service host.")
	r.Flags.StringVar(&r.resultsHost, "results-host", site.ResultsHost, "Host of the test-results server.")
	r.Flags.IntVar(&r.jobs, "jobs", tryflag.DefaultJobs, "Number of result sets fetched in parallel.")
}

func (r *baseRun) validate(args []string) error {
	if len(args) > 0 {
		return errors.Reason("unexpected positional arguments: %q", args).Err()
	}
	if r.jobs < 1 {
		return errors.Reason("-jobs must be positive").Err()
	}
	return nil
}

func (r *baseRun) registry() (*builders.Registry, error) {
	if r.buildersFile == "" {
		return builders.Default(), nil
	}
	data, err := ioutil.ReadFile(r.buildersFile)
	if err != nil {
		return nil, errors.Annotate(err, "read -builders").Err()
	}
	reg, err := builders.Load(data)
	if err != nil {
		return nil, errors.Annotate(err, "load %s", r.buildersFile).Err()
	}
	return reg, nil
}

// newTryFlag wires the orchestrator to the checkout and the LUCI services.
func (r *baseRun) newTryFlag(ctx context.Context, a subcommands.Application) (*tryflag.TryFlag, error) {
	reg, err := r.registry()
	if err != nil {
		return nil, err
	}

	dir := r.checkout
	if dir == "" {
		dir = "."
	}
	gitClient := git.NewClient(dir)
	root, err := gitClient.Root(ctx)
	if err != nil {
		return nil, errors.Annotate(err, "find checkout").Err()
	}
	gitClient.Dir = root

	authOpts, err := r.authFlags.Options()
	if err != nil {
		return nil, err
	}
	authedClient, err := auth.NewAuthenticator(ctx, auth.SilentLogin, authOpts).Client()
	if err != nil {
		return nil, errors.Annotate(err, "create authenticated client; run `tryflag login`").Err()
	}

	return &tryflag.TryFlag{
		Registry: reg,
		VCS:      gitClient,
		Farm: &tryflag.LUCIFarm{
			Issues:      gitClient,
			Gerrit:      gerrit.NewClient(ctx, authedClient),
			Buildbucket: buildbucket.NewClient(authedClient, r.buildbucketHost, site.BuildbucketProject),
			Results:     &results.Fetcher{URLBase: site.ResultsURLBase(r.resultsHost)},
		},
		FS:   afero.NewOsFs(),
		Root: root,
		Out:  a.GetOut(),
		Bug:  r.bug,
		Jobs: r.jobs,
	}, nil
}

func (r *baseRun) done(a subcommands.Application, err error) int {
	if err != nil {
		fmt.Fprintf(a.GetErr(), "%s: %s\n", a.GetName(), err)
		return ExitCodeCommandFailure
	}
	return 0
}
