// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expectations

import (
	"strings"

	"go.chromium.org/luci/common/errors"
)

// Outcome is a canonical test outcome as reported by run-webkit-tests.
type Outcome int

// Outcomes, in the order they are listed in the results format.
const (
	Pass Outcome = iota
	Fail
	Text
	Image
	ImageText
	Audio
	Timeout
	Crash
	Leak
	Missing
	Skip
	Slow
	Rebaseline
	NeedsRebaseline
	NeedsManualRebaseline
	WontFix

	numOutcomes
)

var outcomeTokens = [numOutcomes]string{
	Pass:                  "PASS",
	Fail:                  "FAIL",
	Text:                  "TEXT",
	Image:                 "IMAGE",
	ImageText:             "IMAGE+TEXT",
	Audio:                 "AUDIO",
	Timeout:               "TIMEOUT",
	Crash:                 "CRASH",
	Leak:                  "LEAK",
	Missing:               "MISSING",
	Skip:                  "SKIP",
	Slow:                  "SLOW",
	Rebaseline:            "REBASELINE",
	NeedsRebaseline:       "NEEDSREBASELINE",
	NeedsManualRebaseline: "NEEDSMANUALREBASELINE",
	WontFix:               "WONTFIX",
}

// outcomeKeywords are the TestExpectations keywords for each outcome.
// Every kind of failure is written as Failure.
var outcomeKeywords = [numOutcomes]string{
	Pass:                  "Pass",
	Fail:                  "Failure",
	Text:                  "Failure",
	Image:                 "Failure",
	ImageText:             "Failure",
	Audio:                 "Failure",
	Timeout:               "Timeout",
	Crash:                 "Crash",
	Leak:                  "Leak",
	Missing:               "Missing",
	Skip:                  "Skip",
	Slow:                  "Slow",
	Rebaseline:            "Rebaseline",
	NeedsRebaseline:       "NeedsRebaseline",
	NeedsManualRebaseline: "NeedsManualRebaseline",
	WontFix:               "WontFix",
}

var tokenOutcomes = func() map[string]Outcome {
	m := make(map[string]Outcome, numOutcomes)
	for o, tok := range outcomeTokens {
		m[tok] = Outcome(o)
	}
	return m
}()

// ParseOutcome parses a results token such as "FAIL" or "image+text".
func ParseOutcome(token string) (Outcome, error) {
	if o, ok := tokenOutcomes[strings.ToUpper(token)]; ok {
		return o, nil
	}
	return 0, errors.Reason("unknown outcome %q", token).Tag(UnknownOutcomeToken).Err()
}

func (o Outcome) String() string {
	if o < 0 || o >= numOutcomes {
		return "UNKNOWN"
	}
	return outcomeTokens[o]
}

// Keyword returns the TestExpectations keyword for o.
func (o Outcome) Keyword() string {
	if o < 0 || o >= numOutcomes {
		return ""
	}
	return outcomeKeywords[o]
}

// OutcomeSet is a set of outcomes. Being comparable, it can be part of a
// map key.
type OutcomeSet uint32

// NewOutcomeSet returns the set holding outcomes.
func NewOutcomeSet(outcomes ...Outcome) OutcomeSet {
	var s OutcomeSet
	for _, o := range outcomes {
		s = s.Add(o)
	}
	return s
}

// Add returns s with o added.
func (s OutcomeSet) Add(o Outcome) OutcomeSet {
	return s | 1<<uint(o)
}

// Has reports whether o is in s.
func (s OutcomeSet) Has(o Outcome) bool {
	return s&(1<<uint(o)) != 0
}

// Len returns the number of outcomes in s.
func (s OutcomeSet) Len() int {
	n := 0
	for o := Outcome(0); o < numOutcomes; o++ {
		if s.Has(o) {
			n++
		}
	}
	return n
}

// Outcomes returns the members of s in canonical order.
func (s OutcomeSet) Outcomes() []Outcome {
	var ret []Outcome
	for o := Outcome(0); o < numOutcomes; o++ {
		if s.Has(o) {
			ret = append(ret, o)
		}
	}
	return ret
}

func (s OutcomeSet) String() string {
	var toks []string
	for _, o := range s.Outcomes() {
		toks = append(toks, o.String())
	}
	return strings.Join(toks, " ")
}
