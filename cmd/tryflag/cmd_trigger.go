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

func cmdTrigger() *subcommands.Command {
	return &subcommands.Command{
		UsageLine: "trigger [-flag FLAG] [-regenerate] [flags]",
		ShortDesc: "commit a driver flag, upload it and trigger try jobs",
		LongDesc: text.Doc(`
			With -flag, writes the flag to additional-driver-flag.setting and
			commits it to the current branch; with -regenerate the flag's
			FlagExpectations file is emptied in a second commit. The branch is
			then uploaded for review.

			A try job is then triggered on every builder for the uploaded
			change. A builder that cannot be triggered does not stop the
			others.
		`),
		CommandRun: func() subcommands.CommandRun {
			r := &triggerRun{}
			r.RegisterGlobalFlags()
			return r
		},
	}
}

type triggerRun struct {
	baseRun
}

func (r *triggerRun) Run(a subcommands.Application, args []string, env subcommands.Env) int {
	if err := r.validate(args); err != nil {
		return r.done(a, err)
	}
	ctx := cli.GetContext(a, r, env)
	ctx = logging.SetLevel(ctx, r.logLevel)

	tf, err := r.newTryFlag(ctx, a)
	if err != nil {
		return r.done(a, err)
	}
	return r.done(a, tf.Trigger(ctx, r.flag, r.regenerate))
}
