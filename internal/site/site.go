// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package site contains site-local constants for the tryflag tool.
package site

import (
	"fmt"
	"path/filepath"

	"go.chromium.org/luci/auth"
	"go.chromium.org/luci/common/api/gerrit"
	"go.chromium.org/luci/hardcoded/chromeinfra"
)

const progName = "tryflag"

const (
	// BuildbucketHost is the production Buildbucket service.
	BuildbucketHost = "cr-buildbucket.appspot.com"
	// BuildbucketProject is the LUCI project owning the try builders.
	BuildbucketProject = "chromium"
	// ResultsHost is the test-results server builders archive web test
	// results to.
	ResultsHost = "test-results.appspot.com"

	// UserAgent identifies the tool to RPC services and in build tags.
	UserAgent = progName
)

// Paths relative to the root of a Chromium checkout.
var (
	// LayoutTestsDir holds the web tests and their settings.
	LayoutTestsDir = filepath.Join("third_party", "WebKit", "LayoutTests")
	// FlagFile holds the driver flag forced on by a flag try job.
	FlagFile = filepath.Join(LayoutTestsDir, "additional-driver-flag.setting")
	// FlagExpectationsDir holds one expectations file per flag.
	FlagExpectationsDir = filepath.Join(LayoutTestsDir, "FlagExpectations")
)

// ResultsURLBase returns the root of the web test results archived on a
// test-results server.
func ResultsURLBase(host string) string {
	return fmt.Sprintf("https://%s/data/layout_results", host)
}

// DefaultAuthOptions is an auth.Options struct prefilled with chrome-infra
// defaults and the scopes needed to talk to Gerrit and Buildbucket.
func DefaultAuthOptions() auth.Options {
	o := chromeinfra.DefaultAuthOptions()
	o.Scopes = []string{auth.OAuthScopeEmail, gerrit.OAuthScope}
	return o
}

// LegacyPools maps the tryserver master names still used to describe
// builders to their Buildbucket bucket.
var LegacyPools = map[string]string{
	"tryserver.chromium.linux": "try",
	"tryserver.chromium.mac":   "try",
	"tryserver.chromium.win":   "try",
}
