// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package builders

import (
	"sort"
	"strings"
)

// wildcard marks a category that no longer needs a specifier.
const wildcard = "*"

// Converter turns sets of configurations into the shortest lists of
// specifiers that select exactly those configurations out of a universe.
type Converter struct {
	all ConfigurationSet
	// versionOrder ranks versions so output is stable.
	versionOrder map[string]int
}

// NewConverter returns a converter over the universe all.
func NewConverter(all ConfigurationSet) *Converter {
	c := &Converter{all: all.Dup(), versionOrder: map[string]int{}}
	for _, config := range c.all.ToSortedSlice() {
		if _, ok := c.versionOrder[config.Version]; !ok {
			c.versionOrder[config.Version] = len(c.versionOrder)
		}
	}
	return c
}

// collapsed is a configuration in which some categories may be wildcards.
type collapsed struct {
	version, variant, buildType string
}

// SpecifierSets returns the specifier groups selecting configs.
//
// Each group is one line's worth of specifiers. A single empty group means
// configs is the whole universe. Build types are title-cased ("Release").
//
// The reduction first drops categories that configs covers completely for
// a given version, then merges groups that differ only by version:
//
//	{Linux/release, Mac/release} of {Linux, Mac, Win}/release -> [[Linux Mac]]
func (c *Converter) SpecifierSets(configs ConfigurationSet) [][]string {
	if configs.Len() == 0 {
		return nil
	}
	if configs.Equal(c.all) {
		return [][]string{{}}
	}

	// Collapse build types that are fully covered for a (version, variant).
	byVariant := map[collapsed]map[string]bool{}
	for config := range configs {
		k := collapsed{config.Version, config.Variant, ""}
		if byVariant[k] == nil {
			byVariant[k] = map[string]bool{}
		}
		byVariant[k][config.BuildType] = true
	}
	step1 := map[collapsed]bool{}
	for k, types := range byVariant {
		if c.covers(types, func(u TestConfiguration) (string, bool) {
			return u.BuildType, u.Version == k.version && u.Variant == k.variant
		}) {
			step1[collapsed{k.version, k.variant, wildcard}] = true
			continue
		}
		for t := range types {
			step1[collapsed{k.version, k.variant, t}] = true
		}
	}

	// Collapse variants that are fully covered for a (version, build type).
	byType := map[collapsed]map[string]bool{}
	for k := range step1 {
		key := collapsed{k.version, "", k.buildType}
		if byType[key] == nil {
			byType[key] = map[string]bool{}
		}
		byType[key][k.variant] = true
	}
	step2 := map[collapsed]bool{}
	for k, variants := range byType {
		if c.covers(variants, func(u TestConfiguration) (string, bool) {
			return u.Variant, u.Version == k.version && (k.buildType == wildcard || u.BuildType == k.buildType)
		}) {
			step2[collapsed{k.version, wildcard, k.buildType}] = true
			continue
		}
		for v := range variants {
			step2[collapsed{k.version, v, k.buildType}] = true
		}
	}

	// Merge groups that differ only by version.
	versions := map[collapsed][]string{}
	for k := range step2 {
		rest := collapsed{"", k.variant, k.buildType}
		versions[rest] = append(versions[rest], k.version)
	}
	var ret [][]string
	for rest, vs := range versions {
		sort.Slice(vs, func(i, j int) bool { return c.versionOrder[vs[i]] < c.versionOrder[vs[j]] })
		var specifiers []string
		if !c.allVersions(vs) || rest.variant != wildcard || rest.buildType != wildcard {
			specifiers = append(specifiers, vs...)
		}
		if rest.variant != wildcard && rest.variant != "" {
			specifiers = append(specifiers, rest.variant)
		}
		if rest.buildType != wildcard {
			specifiers = append(specifiers, strings.Title(rest.buildType))
		}
		ret = append(ret, specifiers)
	}
	sort.Slice(ret, func(i, j int) bool { return strings.Join(ret[i], " ") < strings.Join(ret[j], " ") })
	return ret
}

// covers reports whether values holds every value project yields for the
// universe members it selects.
func (c *Converter) covers(values map[string]bool, project func(TestConfiguration) (string, bool)) bool {
	for u := range c.all {
		if v, ok := project(u); ok && !values[v] {
			return false
		}
	}
	return true
}

func (c *Converter) allVersions(vs []string) bool {
	return len(vs) == len(c.versionOrder)
}
