// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package results reads web test results in Chromium's JSON Test Results
// format, as archived by try builders.
package results

import (
	"bytes"
	"encoding/json"
	"io"
	"io/ioutil"
	"sort"
	"strings"

	"go.chromium.org/luci/common/errors"
)

const defaultPathDelimiter = "/"

// jsonpPrefix and jsonpSuffix wrap results served for the results viewer.
const (
	jsonpPrefix = "ADD_RESULTS("
	jsonpSuffix = ");"
)

// RawResult is one test's outcome in one build.
type RawResult struct {
	TestName string
	// DidRunAsExpected is false when the builder flagged the outcome as
	// unexpected.
	DidRunAsExpected bool
	// Actual is the space-delimited list of observed outcomes, one per
	// attempt, e.g. "FAIL PASS".
	Actual string
	// Expected is the space-delimited list of expected outcomes.
	Expected string
}

// TestFields is a leaf of the tests trie.
type TestFields struct {
	Actual       string `json:"actual"`
	Expected     string `json:"expected"`
	IsUnexpected bool   `json:"is_unexpected"`
	IsRegression bool   `json:"is_regression"`
	Bugs         string `json:"bugs"`
}

// JSONTestResults is the top level of a full_results.json file.
type JSONTestResults struct {
	Version       int32  `json:"version"`
	Interrupted   bool   `json:"interrupted"`
	PathDelimiter string `json:"path_delimiter"`
	BuilderName   string `json:"builder_name"`
	BuildNumber   string `json:"build_number"`

	NumFailuresByType map[string]int `json:"num_failures_by_type"`

	TestsRaw json.RawMessage `json:"tests"`

	// Tests is the flattened trie, keyed by full test name.
	Tests map[string]*TestFields `json:"-"`
}

// ConvertFromJSON reads the provided reader into the receiver.
//
// The JSONP wrapper used by the results viewer is accepted.
func (r *JSONTestResults) ConvertFromJSON(reader io.Reader) error {
	data, err := ioutil.ReadAll(reader)
	if err != nil {
		return err
	}
	data = stripJSONP(data)

	r.Tests = make(map[string]*TestFields)
	if err := json.Unmarshal(data, r); err != nil {
		return err
	}
	if len(r.TestsRaw) == 0 {
		return errors.Reason(`no "tests" in results`).Err()
	}
	return r.convertTests("", r.TestsRaw)
}

func stripJSONP(data []byte) []byte {
	trimmed := bytes.TrimSpace(data)
	if bytes.HasPrefix(trimmed, []byte(jsonpPrefix)) && bytes.HasSuffix(trimmed, []byte(jsonpSuffix)) {
		return trimmed[len(jsonpPrefix) : len(trimmed)-len(jsonpSuffix)]
	}
	return data
}

// convertTests flattens the trie below curPath into r.Tests.
//
// A node is a leaf when it has an "actual" string field.
func (r *JSONTestResults) convertTests(curPath string, curNode json.RawMessage) error {
	var maybeLeaf struct {
		Actual *string `json:"actual"`
	}
	// Interior nodes holding a child test named "actual" would fail this
	// unmarshal; they are objects, so fall through to the map below.
	if err := json.Unmarshal(curNode, &maybeLeaf); err == nil && maybeLeaf.Actual != nil {
		leaf := &TestFields{}
		if err := json.Unmarshal(curNode, leaf); err != nil {
			return errors.Annotate(err, "test %q", curPath).Err()
		}
		r.Tests[curPath] = leaf
		return nil
	}

	var children map[string]json.RawMessage
	if err := json.Unmarshal(curNode, &children); err != nil {
		return errors.Annotate(err, "node %q", curPath).Err()
	}
	delim := r.PathDelimiter
	if delim == "" {
		delim = defaultPathDelimiter
	}
	for name, child := range children {
		path := name
		if curPath != "" {
			path = strings.Join([]string{curPath, name}, delim)
		}
		if err := r.convertTests(path, child); err != nil {
			return err
		}
	}
	return nil
}

// RawResults returns one RawResult per test, sorted by test name.
func (r *JSONTestResults) RawResults() []RawResult {
	names := make([]string, 0, len(r.Tests))
	for name := range r.Tests {
		names = append(names, name)
	}
	sort.Strings(names)

	ret := make([]RawResult, 0, len(names))
	for _, name := range names {
		t := r.Tests[name]
		ret = append(ret, RawResult{
			TestName:         name,
			DidRunAsExpected: !t.IsUnexpected,
			Actual:           t.Actual,
			Expected:         t.Expected,
		})
	}
	return ret
}
