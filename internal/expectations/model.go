// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package expectations classifies web test results from several builders
// into unexpected passes and unexpected failures.
package expectations

import (
	"tryflag/internal/builders"
	"tryflag/internal/results"

	"go.chromium.org/luci/common/errors"
)

// lineKey identifies the line a result merges into.
type lineKey struct {
	testName string
	outcomes OutcomeSet
}

// Model accumulates the unexpected results of one update run.
//
// A Model is not safe for concurrent use.
type Model struct {
	registry *builders.Registry
	bug      string

	lines  []*Line
	byKey  map[lineKey]*Line
	byTest map[string][]*Line
}

// NewModel returns an empty model. bug, if not empty, is recorded on every
// line.
func NewModel(registry *builders.Registry, bug string) *Model {
	return &Model{
		registry: registry,
		bug:      bug,
		byKey:    map[lineKey]*Line{},
		byTest:   map[string][]*Line{},
	}
}

// RecordIfUnexpected records result as observed on builder, unless the
// test ran as expected.
//
// A result with the same test name and outcomes as an existing line widens
// that line's configurations; the existing bugs and raw outcomes are kept.
func (m *Model) RecordIfUnexpected(builder string, result results.RawResult) error {
	if result.DidRunAsExpected {
		return nil
	}
	config, ok := m.registry.Configuration(builder)
	if !ok {
		return errors.Reason("builder %q is not in the registry", builder).Tag(UnknownBuilder).Err()
	}
	line, err := NewLine(result, config, m.bug)
	if err != nil {
		return errors.Annotate(err, "builder %s", builder).Err()
	}

	key := lineKey{line.TestName, line.Outcomes}
	if existing, ok := m.byKey[key]; ok {
		existing.Configurations.AddAll(line.Configurations)
		return nil
	}
	m.lines = append(m.lines, line)
	m.byKey[key] = line
	m.byTest[line.TestName] = append(m.byTest[line.TestName], line)
	return nil
}

// Lines returns every line in the order it was first recorded.
func (m *Model) Lines() []*Line {
	return append([]*Line(nil), m.lines...)
}

// LinesForTest returns the lines recorded for one test.
func (m *Model) LinesForTest(testName string) []*Line {
	return append([]*Line(nil), m.byTest[testName]...)
}

// Partition splits the lines into unexpected passes and unexpected
// failures, each in recording order. A line is a pass only if every
// attempt passed.
func (m *Model) Partition() (passes, failures []*Line) {
	for _, l := range m.lines {
		if l.IsPass() {
			passes = append(passes, l)
		} else {
			failures = append(failures, l)
		}
	}
	return passes, failures
}
