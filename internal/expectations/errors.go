// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package expectations

import "go.chromium.org/luci/common/errors"

// UnknownOutcomeToken tags errors caused by an outcome token that is not
// part of the results format.
var UnknownOutcomeToken = errors.BoolTag{Key: errors.NewTagKey("unknown_outcome_token")}

// UnknownBuilder tags errors caused by a builder missing from the registry.
var UnknownBuilder = errors.BoolTag{Key: errors.NewTagKey("unknown_builder")}
