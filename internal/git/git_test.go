// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package git

import (
	"context"
	"testing"

	"tryflag/internal/cmd"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

func TestClient(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	Convey("Client", t, func() {
		runner := &cmd.FakeCommandRunner{ExpectedDir: "/src"}
		c := &Client{Dir: "/src", Runner: runner}

		Convey("Add stages paths", func() {
			runner.Commands = []cmd.FakeCommand{
				{ExpectedCmd: []string{"git", "add", "--", "/src/a.setting"}},
			}
			So(c.Add(ctx, []string{"/src/a.setting"}), ShouldBeNil)
			So(runner.Calls, ShouldHaveLength, 1)
		})

		Convey("Add with no paths is a no-op", func() {
			So(c.Add(ctx, nil), ShouldBeNil)
			So(runner.Calls, ShouldBeEmpty)
		})

		Convey("CommitLocally", func() {
			Convey("commits", func() {
				runner.Commands = []cmd.FakeCommand{
					{ExpectedCmd: []string{"git", "commit", "-m", "msg"}},
				}
				So(c.CommitLocally(ctx, "msg"), ShouldBeNil)
			})
			Convey("reports nothing to commit", func() {
				runner.Commands = []cmd.FakeCommand{
					{Stdout: "nothing to commit, working tree clean", FailError: "exit status 1"},
				}
				So(c.CommitLocally(ctx, "msg"), ShouldErrLike, "nothing to commit")
			})
			Convey("includes stderr in errors", func() {
				runner.Commands = []cmd.FakeCommand{
					{Stderr: "fatal: not a git repository\n", FailError: "exit status 128"},
				}
				So(c.CommitLocally(ctx, "msg"), ShouldErrLike, "fatal: not a git repository")
			})
		})

		Convey("Upload builds git-cl arguments", func() {
			runner.Commands = []cmd.FakeCommand{
				{ExpectedCmd: []string{"git", "cl", "upload", "--bypass-hooks", "-f", "-m", "Flag try job for --foo."}},
			}
			err := c.Upload(ctx, UploadOptions{Message: "Flag try job for --foo.", BypassHooks: true, Force: true})
			So(err, ShouldBeNil)
		})

		Convey("Root", func() {
			runner.Commands = []cmd.FakeCommand{
				{ExpectedCmd: []string{"git", "rev-parse", "--show-toplevel"}, Stdout: "/src\n"},
			}
			root, err := c.Root(ctx)
			So(err, ShouldBeNil)
			So(root, ShouldEqual, "/src")
		})

		Convey("Issue", func() {
			Convey("parses git-cl json", func() {
				runner.Commands = []cmd.FakeCommand{{
					ExpectedCmd: []string{"git", "cl", "issue", "--json", "-"},
					Stdout: `Issue number: 1234 (https://chromium-review.googlesource.com/1234)
{"gerrit_host": "chromium-review.googlesource.com", "gerrit_project": "chromium/src", "issue": 1234, "issue_url": "https://chromium-review.googlesource.com/1234"}
`,
				}}
				issue, err := c.Issue(ctx)
				So(err, ShouldBeNil)
				So(issue, ShouldResemble, &Issue{
					Number:        1234,
					URL:           "https://chromium-review.googlesource.com/1234",
					GerritHost:    "chromium-review.googlesource.com",
					GerritProject: "chromium/src",
				})
			})
			Convey("fails without an issue", func() {
				runner.Commands = []cmd.FakeCommand{{
					Stdout: `Issue number: None (None)
{"gerrit_host": "chromium-review.googlesource.com", "gerrit_project": "chromium/src", "issue": null, "issue_url": null}`,
				}}
				_, err := c.Issue(ctx)
				So(err, ShouldErrLike, "no associated issue")
			})
			Convey("fails without json", func() {
				runner.Commands = []cmd.FakeCommand{{Stdout: "garbage"}}
				_, err := c.Issue(ctx)
				So(err, ShouldErrLike, "no issue json")
			})
		})
	})
}
