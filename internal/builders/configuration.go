// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package builders

import (
	"fmt"
	"sort"
	"strings"
)

// TestConfiguration identifies the platform a builder runs tests on.
//
// It is comparable and used as a map key.
type TestConfiguration struct {
	// Version is the platform specifier, e.g. "Linux", "Mac", "Win".
	Version string
	// Variant is an optional build-variant tag, e.g. an architecture.
	Variant string
	// BuildType is "release" or "debug".
	BuildType string
}

func (c TestConfiguration) String() string {
	parts := []string{c.Version}
	if c.Variant != "" {
		parts = append(parts, c.Variant)
	}
	return fmt.Sprintf("<%s>", strings.Join(append(parts, c.BuildType), ", "))
}

func (c TestConfiguration) less(o TestConfiguration) bool {
	if c.Version != o.Version {
		return c.Version < o.Version
	}
	if c.Variant != o.Variant {
		return c.Variant < o.Variant
	}
	return c.BuildType < o.BuildType
}

// ConfigurationSet is a set of TestConfiguration.
type ConfigurationSet map[TestConfiguration]struct{}

// NewConfigurationSet returns a set holding configs.
func NewConfigurationSet(configs ...TestConfiguration) ConfigurationSet {
	s := make(ConfigurationSet, len(configs))
	for _, c := range configs {
		s.Add(c)
	}
	return s
}

// Add adds c to the set.
func (s ConfigurationSet) Add(c TestConfiguration) {
	s[c] = struct{}{}
}

// Has reports whether c is in the set.
func (s ConfigurationSet) Has(c TestConfiguration) bool {
	_, ok := s[c]
	return ok
}

// Len returns the number of configurations in the set.
func (s ConfigurationSet) Len() int {
	return len(s)
}

// AddAll adds every member of o to the set.
func (s ConfigurationSet) AddAll(o ConfigurationSet) {
	for c := range o {
		s.Add(c)
	}
}

// Equal reports whether both sets hold the same configurations.
func (s ConfigurationSet) Equal(o ConfigurationSet) bool {
	if len(s) != len(o) {
		return false
	}
	for c := range s {
		if !o.Has(c) {
			return false
		}
	}
	return true
}

// Dup returns a copy of the set.
func (s ConfigurationSet) Dup() ConfigurationSet {
	d := make(ConfigurationSet, len(s))
	d.AddAll(s)
	return d
}

// ToSortedSlice returns the members ordered by version, variant, build type.
func (s ConfigurationSet) ToSortedSlice() []TestConfiguration {
	ret := make([]TestConfiguration, 0, len(s))
	for c := range s {
		ret = append(ret, c)
	}
	sort.Slice(ret, func(i, j int) bool { return ret[i].less(ret[j]) })
	return ret
}
