// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"github.com/maruel/subcommands"

	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/data/text"
	"go.chromium.org/luci/common/logging"
)

func cmdUpdate() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "update [-bug BUG] [flags]",
		ShortDesc: "print the unexpected results of the latest try jobs",
		LongDesc: text.Doc(`
			Fetches the results of the latest try job of every builder for the
			current branch's change and prints, in TestExpectations syntax, the
			tests that unexpectedly passed and those that unexpectedly failed.

			A job whose results cannot be fetched is skipped.
		`),
		CommandRun: func() subcommands.CommandRun {
			r := &updateRun{}
			r.RegisterGlobalFlags()
			return r
		},
	}
}

type updateRun struct {
	baseRun
}

func (r *updateRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if err := r.validate(args); err != nil {
		return r.done(a, err)
	}
	ctx := cli.GetContext(a, r, env)
	ctx = logging.SetLevel(ctx, r.logLevel)
	if r.flag != "" || r.regenerate {
		logging.Debugf(ctx, "-flag and -regenerate are ignored by update")
	}

	tf, err := r.newTryFlag(ctx, a)
	if err != nil {
		return r.done(a, err)
	}
	return r.done(a, tf.Update(ctx))
}
