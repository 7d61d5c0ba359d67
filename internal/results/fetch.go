// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package results

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"

	"go.chromium.org/luci/common/errors"
	"go.chromium.org/luci/common/logging"
)

var unsafeBuilderChars = regexp.MustCompile(`[ .()]`)

// Fetcher downloads archived results from the test-results server.
type Fetcher struct {
	Client *http.Client
	// URLBase is the layout_results root, see site.ResultsURLBase.
	URLBase string
}

// URL returns the directory holding the results of one build. A zero
// build number selects the accumulated results of the builder.
func (f *Fetcher) URL(builder string, buildNumber int64) string {
	base := fmt.Sprintf("%s/%s", strings.TrimRight(f.URLBase, "/"), unsafeBuilderChars.ReplaceAllString(builder, "_"))
	if buildNumber == 0 {
		return base + "/results/layout-test-results"
	}
	return fmt.Sprintf("%s/%d/layout-test-results", base, buildNumber)
}

// Fetch returns the results of one build, sorted by test name.
//
// With full set, every test is returned, including tests that were retried
// and eventually passed; otherwise only failing tests are.
func (f *Fetcher) Fetch(ctx context.Context, builder string, buildNumber int64, full bool) ([]RawResult, error) {
	name := "failing_results.json"
	if full {
		name = "full_results.json"
	}
	url := fmt.Sprintf("%s/%s", f.URL(builder, buildNumber), name)
	logging.Debugf(ctx, "fetching %s", url)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errors.Annotate(err, "fetch %s", url).Err()
	}
	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	res, err := client.Do(req)
	if err != nil {
		return nil, errors.Annotate(err, "fetch %s", url).Err()
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, errors.Reason("fetch %s: %s", url, res.Status).Err()
	}

	jsonResults := &JSONTestResults{}
	if err := jsonResults.ConvertFromJSON(res.Body); err != nil {
		return nil, errors.Annotate(err, "parse %s", url).Err()
	}
	return jsonResults.RawResults(), nil
}
