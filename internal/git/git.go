// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package git drives the local checkout through git and depot_tools'
// git-cl.
package git

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"

	"tryflag/internal/cmd"

	"go.chromium.org/luci/common/errors"
)

// CommandOutput contains stdout/stderr for a command.
type CommandOutput struct {
	Stdout string
	Stderr string
}

// Client runs git commands in one checkout.
type Client struct {
	// Dir is the checkout the commands run in.
	Dir    string
	Runner cmd.CommandRunner
}

// NewClient returns a client for the checkout at dir.
func NewClient(dir string) *Client {
	return &Client{Dir: dir, Runner: cmd.RealCommandRunner{}}
}

// RunGit runs the specified git command in the checkout. It returns
// stdout and stderr.
func (c *Client) RunGit(ctx context.Context, args ...string) (CommandOutput, error) {
	var stdoutBuf, stderrBuf bytes.Buffer
	err := c.Runner.RunCommand(ctx, &stdoutBuf, &stderrBuf, c.Dir, "git", args...)
	output := CommandOutput{stdoutBuf.String(), stderrBuf.String()}
	if err != nil {
		return output, errors.Annotate(err, "git %s: %s", strings.Join(args, " "), strings.TrimSpace(output.Stderr)).Err()
	}
	return output, nil
}

// Root returns the top-level directory of the checkout.
func (c *Client) Root(ctx context.Context) (string, error) {
	output, err := c.RunGit(ctx, "rev-parse", "--show-toplevel")
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(output.Stdout), nil
}

// Add stages the given paths.
func (c *Client) Add(ctx context.Context, paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	_, err := c.RunGit(ctx, append([]string{"add", "--"}, paths...)...)
	return err
}

// CommitLocally commits whatever is staged with the given message.
func (c *Client) CommitLocally(ctx context.Context, message string) error {
	output, err := c.RunGit(ctx, "commit", "-m", message)
	if err != nil && strings.Contains(output.Stdout, "nothing to commit") {
		return errors.Reason("nothing to commit for %q", message).Err()
	}
	return err
}

// UploadOptions controls `git cl upload`.
type UploadOptions struct {
	Message     string
	BypassHooks bool
	// Force skips the interactive confirmation prompts.
	Force bool
}

func (o UploadOptions) args() []string {
	args := []string{"cl", "upload"}
	if o.BypassHooks {
		args = append(args, "--bypass-hooks")
	}
	if o.Force {
		args = append(args, "-f")
	}
	if o.Message != "" {
		args = append(args, "-m", o.Message)
	}
	return args
}

// Upload uploads the pending local commits for review.
func (c *Client) Upload(ctx context.Context, opts UploadOptions) error {
	_, err := c.RunGit(ctx, opts.args()...)
	return err
}

// Issue describes the code review issue of the current branch.
type Issue struct {
	Number        int64  `json:"issue"`
	URL           string `json:"issue_url"`
	GerritHost    string `json:"gerrit_host"`
	GerritProject string `json:"gerrit_project"`
}

// Issue returns the code review issue associated with the current branch.
func (c *Client) Issue(ctx context.Context) (*Issue, error) {
	output, err := c.RunGit(ctx, "cl", "issue", "--json", "-")
	if err != nil {
		return nil, err
	}
	return parseIssue(output.Stdout)
}

// parseIssue extracts the JSON document git-cl writes after its
// human-readable "Issue number: ..." line.
func parseIssue(stdout string) (*Issue, error) {
	start := strings.Index(stdout, "{")
	if start < 0 {
		return nil, errors.Reason("no issue json in %q", stdout).Err()
	}
	issue := &Issue{}
	if err := json.Unmarshal([]byte(stdout[start:]), issue); err != nil {
		return nil, errors.Annotate(err, "parse issue json").Err()
	}
	if issue.Number == 0 {
		return nil, errors.Reason("current branch has no associated issue; upload it first").Err()
	}
	return issue, nil
}
