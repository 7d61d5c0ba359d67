// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package site

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.chromium.org/luci/auth"
	"go.chromium.org/luci/common/api/gerrit"
)

func TestResultsURLBase(t *testing.T) {
	t.Parallel()
	expected := "https://test-results.appspot.com/data/layout_results"
	if diff := cmp.Diff(expected, ResultsURLBase(ResultsHost)); diff != "" {
		t.Errorf("unexpected diff (-want +got): %s", diff)
	}
}

func TestDefaultAuthOptions(t *testing.T) {
	t.Parallel()
	expected := []string{auth.OAuthScopeEmail, gerrit.OAuthScope}
	if diff := cmp.Diff(expected, DefaultAuthOptions().Scopes); diff != "" {
		t.Errorf("unexpected diff (-want +got): %s", diff)
	}
}

func TestPaths(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		FlagFile:            "third_party/WebKit/LayoutTests/additional-driver-flag.setting",
		FlagExpectationsDir: "third_party/WebKit/LayoutTests/FlagExpectations",
	}
	for got, want := range cases {
		if diff := cmp.Diff(want, got); diff != "" {
			t.Errorf("unexpected diff (-want +got): %s", diff)
		}
	}
}
