// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expectations

import (
	"fmt"
	"strings"

	"tryflag/internal/builders"
	"tryflag/internal/results"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
)

// NoBug is the bug reference of lines recorded without a bug.
const NoBug = "Bug(none)"

// Line records how one test diverged from its expectation on one or more
// configurations.
type Line struct {
	TestName string
	Bugs     []string
	// RawOutcomes are the observed tokens in the order they were reported.
	RawOutcomes []string
	Outcomes    OutcomeSet
	// Configurations may grow as results from other builders are merged.
	Configurations builders.ConfigurationSet
	// Specifiers are the specifiers of the first configuration recorded.
	Specifiers []string
}

// NewLine builds a line from one result observed on config.
//
// bug is a crbug.com issue number and may be empty.
func NewLine(result results.RawResult, config builders.TestConfiguration, bug string) (*Line, error) {
	tokens := strings.Fields(result.Actual)
	if len(tokens) == 0 {
		return nil, errors.Reason("test %q: no actual outcome", result.TestName).Err()
	}
	var outcomes OutcomeSet
	for _, tok := range tokens {
		o, err := ParseOutcome(tok)
		if err != nil {
			return nil, errors.Annotate(err, "test %q", result.TestName).Err()
		}
		outcomes = outcomes.Add(o)
	}

	bugs := []string{NoBug}
	if bug != "" {
		bugs = []string{"crbug.com/" + bug}
	}
	return &Line{
		TestName:       result.TestName,
		Bugs:           bugs,
		RawOutcomes:    tokens,
		Outcomes:       outcomes,
		Configurations: builders.NewConfigurationSet(config),
		Specifiers:     []string{config.Version},
	}, nil
}

// IsPass reports whether the test passed cleanly on every attempt.
func (l *Line) IsPass() bool {
	return l.Outcomes == NewOutcomeSet(Pass)
}

// Keywords returns the sorted TestExpectations keywords of the line.
//
// Pass is dropped next to Skip or Slow, which already allow a pass.
func (l *Line) Keywords() []string {
	kw := stringset.New(l.Outcomes.Len())
	for _, o := range l.Outcomes.Outcomes() {
		kw.Add(o.Keyword())
	}
	if kw.Has("Pass") && (kw.Has("Skip") || kw.Has("Slow")) {
		kw.Del("Pass")
	}
	return kw.ToSortedSlice()
}

// String renders the line with its own specifiers.
func (l *Line) String() string {
	return l.format(l.Specifiers)
}

// Format renders the line in TestExpectations syntax, one row per
// specifier group c selects for the line's configurations.
func (l *Line) Format(c *builders.Converter) string {
	var rows []string
	for _, specifiers := range c.SpecifierSets(l.Configurations) {
		rows = append(rows, l.format(specifiers))
	}
	return strings.Join(rows, "\n")
}

func (l *Line) format(specifiers []string) string {
	var b strings.Builder
	b.WriteString(strings.Join(l.Bugs, " "))
	if len(specifiers) > 0 {
		fmt.Fprintf(&b, " [ %s ]", strings.Join(specifiers, " "))
	}
	fmt.Fprintf(&b, " %s [ %s ]", l.TestName, strings.Join(l.Keywords(), " "))
	return b.String()
}
