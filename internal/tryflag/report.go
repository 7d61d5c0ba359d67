// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package tryflag

import (
	"fmt"
	"io"

	"tryflag/internal/builders"
	"tryflag/internal/expectations"
)

func (t *TryFlag) report(model *expectations.Model) {
	passes, failures := model.Partition()
	c := t.Registry.Converter()
	printLines(t.Out, c, "unexpected passes", passes)
	printLines(t.Out, c, "unexpected failures", failures)
}

// printLines prints a "### <count> <title>:" header then one expectation
// per line.
func printLines(w io.Writer, c *builders.Converter, title string, lines []*expectations.Line) {
	fmt.Fprintf(w, "\n### %d %s:\n", len(lines), title)
	for _, l := range lines {
		fmt.Fprintln(w, l.Format(c))
	}
}
