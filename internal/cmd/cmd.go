// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package cmd provides support for running external commands.
package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
)

// CommandRunner is the common interface for this module.
type CommandRunner interface {
	RunCommand(ctx context.Context, stdoutBuf, stderrBuf *bytes.Buffer, dir, name string, args ...string) error
}

// RealCommandRunner actually runs commands.
type RealCommandRunner struct{}

// RunCommand runs a command.
func (c RealCommandRunner) RunCommand(ctx context.Context, stdoutBuf, stderrBuf *bytes.Buffer, dir, name string, args ...string) error {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = stdoutBuf
	cmd.Stderr = stderrBuf
	cmd.Dir = dir
	return cmd.Run()
}

// FakeCommand is one expected invocation served by FakeCommandRunner.
type FakeCommand struct {
	// ExpectedCmd is the full command line, including the program name.
	// Empty matches anything.
	ExpectedCmd []string
	Stdout      string
	Stderr      string
	// FailError, if set, is returned after stdout/stderr are written.
	FailError string
}

// FakeCommandRunner does not actually run commands. It serves the
// Commands in order and records every invocation in Calls.
//
// It is used for testing.
type FakeCommandRunner struct {
	Commands    []FakeCommand
	ExpectedDir string

	// Calls holds every command line seen, space-joined.
	Calls []string
}

// RunCommand runs a command (not actually).
func (c *FakeCommandRunner) RunCommand(ctx context.Context, stdoutBuf, stderrBuf *bytes.Buffer, dir, name string, args ...string) error {
	cmd := append([]string{name}, args...)
	c.Calls = append(c.Calls, strings.Join(cmd, " "))
	if len(c.Calls) > len(c.Commands) {
		return fmt.Errorf("unexpected cmd %s", strings.Join(cmd, " "))
	}
	fake := c.Commands[len(c.Calls)-1]
	stdoutBuf.WriteString(fake.Stdout)
	stderrBuf.WriteString(fake.Stderr)
	if len(fake.ExpectedCmd) > 0 && !equal(cmd, fake.ExpectedCmd) {
		return fmt.Errorf("wrong cmd; expected %s got %s", strings.Join(fake.ExpectedCmd, " "), strings.Join(cmd, " "))
	}
	if c.ExpectedDir != "" && dir != c.ExpectedDir {
		return fmt.Errorf("wrong cmd dir; expected %s got %s", c.ExpectedDir, dir)
	}
	if fake.FailError != "" {
		return fmt.Errorf("%s", fake.FailError)
	}
	return nil
}

func equal(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
