// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Command tryflag runs the web tests on the try builders with an
// experimental driver flag forced on, and reports the tests whose results
// the flag changes.
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"tryflag/internal/site"

	"github.com/maruel/subcommands"

	"go.chromium.org/luci/auth/client/authcli"
	"go.chromium.org/luci/common/cli"
	"go.chromium.org/luci/common/flag/fixflagpos"
	"go.chromium.org/luci/common/logging/gologger"
)

func newApplication() *cli.Application {
	return &cli.Application{
		Name:  "tryflag",
		Title: "Triggers flag try jobs and collects their unexpected web test results.",
		Context: func(ctx context.Context) context.Context {
			logCfg := gologger.LoggerConfig{
				Format: `%{message}`,
				Out:    os.Stderr,
			}
			return logCfg.Use(ctx)
		},
		Commands: []*subcommands.Command{
			cmdTrigger(),
			cmdUpdate(),

			subcommands.Section("Authentication"),
			authcli.SubcommandLogin(site.DefaultAuthOptions(), "login", false),
			authcli.SubcommandLogout(site.DefaultAuthOptions(), "logout", false),
			authcli.SubcommandInfo(site.DefaultAuthOptions(), "whoami", false),

			{}, // a separator
			subcommands.CmdHelp,
		},
	}
}

// checkAction reports whether args start with one of a's commands. Any
// other first argument is rejected before flags are parsed, so nothing is
// touched.
func checkAction(a *cli.Application, args []string) bool {
	if len(args) == 0 {
		return false
	}
	for _, c := range a.Commands {
		if c.CommandRun != nil && c.Name() == args[0] {
			return true
		}
	}
	return false
}

func run(stderr io.Writer, args []string) int {
	application := newApplication()
	if !checkAction(application, args) {
		fmt.Fprintln(stderr, `specify "trigger" or "update"`)
		subcommands.Usage(stderr, application, false)
		return 1
	}
	return subcommands.Run(application, fixflagpos.FixSubcommands(args))
}

func main() {
	os.Exit(run(os.Stderr, os.Args[1:]))
}
