// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

// Package builders holds the immutable registry of try builders a flag try
// job runs on, and the configurations they test.
package builders

import (
	"sort"
	"strings"

	"go.chromium.org/luci/common/data/stringset"
	"go.chromium.org/luci/common/errors"
	"sigs.k8s.io/yaml"
)

// Builder is one try builder.
type Builder struct {
	Name          string
	Configuration TestConfiguration
	// Pool is the build-farm pool the builder's try jobs are submitted to.
	Pool string
}

// Registry maps builder names to their configuration and pool.
//
// A Registry is never mutated after construction.
type Registry struct {
	builders map[string]Builder
	names    []string
	configs  ConfigurationSet
}

// NewRegistry validates builders and returns a registry holding them.
func NewRegistry(builders ...Builder) (*Registry, error) {
	if len(builders) == 0 {
		return nil, errors.Reason("no builders").Err()
	}
	r := &Registry{
		builders: make(map[string]Builder, len(builders)),
		configs:  NewConfigurationSet(),
	}
	for _, b := range builders {
		switch {
		case b.Name == "":
			return nil, errors.Reason("builder with empty name").Err()
		case b.Pool == "":
			return nil, errors.Reason("builder %q: no pool", b.Name).Err()
		case b.Configuration.Version == "":
			return nil, errors.Reason("builder %q: no version specifier", b.Name).Err()
		case b.Configuration.BuildType == "":
			return nil, errors.Reason("builder %q: no build type", b.Name).Err()
		}
		if _, ok := r.builders[b.Name]; ok {
			return nil, errors.Reason("builder %q listed twice", b.Name).Err()
		}
		r.builders[b.Name] = b
		r.names = append(r.names, b.Name)
		r.configs.Add(b.Configuration)
	}
	sort.Strings(r.names)
	return r, nil
}

// Default returns the registry of the Chromium CQ builders that run web
// tests.
func Default() *Registry {
	r, err := NewRegistry(
		Builder{"linux_chromium_rel_ng", TestConfiguration{"Linux", "", "release"}, "tryserver.chromium.linux"},
		Builder{"mac_chromium_rel_ng", TestConfiguration{"Mac", "", "release"}, "tryserver.chromium.mac"},
		Builder{"win7_chromium_rel_ng", TestConfiguration{"Win", "", "release"}, "tryserver.chromium.win"},
	)
	if err != nil {
		panic(err)
	}
	return r
}

// Names returns the builder names in lexicographic order.
func (r *Registry) Names() []string {
	return append([]string(nil), r.names...)
}

// Builders returns the builders sorted by name.
func (r *Registry) Builders() []Builder {
	ret := make([]Builder, 0, len(r.names))
	for _, name := range r.names {
		ret = append(ret, r.builders[name])
	}
	return ret
}

// NameSet returns the builder names as a set.
func (r *Registry) NameSet() stringset.Set {
	return stringset.NewFromSlice(r.names...)
}

// Configuration returns the configuration a builder tests.
func (r *Registry) Configuration(name string) (TestConfiguration, bool) {
	b, ok := r.builders[name]
	return b.Configuration, ok
}

// Pool returns the pool a builder's try jobs are submitted to.
func (r *Registry) Pool(name string) (string, bool) {
	b, ok := r.builders[name]
	return b.Pool, ok
}

// Configurations returns every configuration tested by the registry.
func (r *Registry) Configurations() ConfigurationSet {
	return r.configs.Dup()
}

// Converter returns a converter over every configuration in the registry.
func (r *Registry) Converter() *Converter {
	return NewConverter(r.configs)
}

// builderEntry is one value of a builders.json file.
type builderEntry struct {
	Specifiers   []string `json:"specifiers"`
	Bucket       string   `json:"bucket"`
	Master       string   `json:"master"`
	IsTryBuilder *bool    `json:"is_try_builder"`
}

// Load parses a registry in the builders.json shape, as YAML or JSON:
//
//	{"linux_chromium_rel_ng": {"specifiers": ["Linux", "Release"], "bucket": "try"}}
//
// Specifiers are [version, (variant,) build type]. The pool is "bucket",
// falling back to "master". Entries with "is_try_builder": false are
// skipped.
func Load(data []byte) (*Registry, error) {
	entries := map[string]builderEntry{}
	if err := yaml.Unmarshal(data, &entries); err != nil {
		return nil, errors.Annotate(err, "parse builders").Err()
	}
	var builders []Builder
	for name, e := range entries {
		if e.IsTryBuilder != nil && !*e.IsTryBuilder {
			continue
		}
		config, err := parseSpecifiers(e.Specifiers)
		if err != nil {
			return nil, errors.Annotate(err, "builder %q", name).Err()
		}
		pool := e.Bucket
		if pool == "" {
			pool = e.Master
		}
		builders = append(builders, Builder{Name: name, Configuration: config, Pool: pool})
	}
	return NewRegistry(builders...)
}

func parseSpecifiers(specifiers []string) (TestConfiguration, error) {
	switch len(specifiers) {
	case 2:
		return TestConfiguration{Version: specifiers[0], BuildType: strings.ToLower(specifiers[1])}, nil
	case 3:
		return TestConfiguration{Version: specifiers[0], Variant: specifiers[1], BuildType: strings.ToLower(specifiers[2])}, nil
	default:
		return TestConfiguration{}, errors.Reason("want [version, (variant,) build type] specifiers, got %q", specifiers).Err()
	}
}
