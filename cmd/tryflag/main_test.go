// Copyright 2022 The Chromium Authors. All rights reserved.
// Use of this source code is governed by a BSD-style license that can be
// found in the LICENSE file.

package main

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	. "github.com/smartystreets/goconvey/convey"
	. "go.chromium.org/luci/common/testing/assertions"
)

func TestAction(t *testing.T) {
	t.Parallel()

	Convey("checkAction", t, func() {
		a := newApplication()
		So(checkAction(a, []string{"trigger", "-flag", "--foo"}), ShouldBeTrue)
		So(checkAction(a, []string{"update"}), ShouldBeTrue)
		So(checkAction(a, []string{"login"}), ShouldBeTrue)
		So(checkAction(a, []string{"help"}), ShouldBeTrue)
		So(checkAction(a, []string{"rebaseline"}), ShouldBeFalse)
		So(checkAction(a, []string{"-flag", "--foo", "trigger"}), ShouldBeFalse)
		So(checkAction(a, nil), ShouldBeFalse)
		So(checkAction(a, []string{""}), ShouldBeFalse)
	})

	Convey("run rejects unknown actions", t, func() {
		var stderr bytes.Buffer
		So(run(&stderr, []string{"frobnicate"}), ShouldEqual, 1)
		So(stderr.String(), ShouldStartWith, "specify \"trigger\" or \"update\"\n")
		So(stderr.String(), ShouldContainSubstring, "trigger")
		So(stderr.String(), ShouldContainSubstring, "update")

		stderr.Reset()
		So(run(&stderr, nil), ShouldEqual, 1)
		So(stderr.String(), ShouldStartWith, "specify \"trigger\" or \"update\"\n")
	})
}

func TestBaseRun(t *testing.T) {
	t.Parallel()

	Convey("baseRun", t, func() {
		r := &triggerRun{}
		r.RegisterGlobalFlags()

		Convey("parses flags", func() {
			err := r.Flags.Parse([]string{"-flag", "--enable-foo", "-regenerate", "-bug", "123", "-jobs", "8", "-log-level", "debug"})
			So(err, ShouldBeNil)
			So(r.flag, ShouldEqual, "--enable-foo")
			So(r.regenerate, ShouldBeTrue)
			So(r.bug, ShouldEqual, "123")
			So(r.jobs, ShouldEqual, 8)
			So(r.validate(r.Flags.Args()), ShouldBeNil)
		})

		Convey("accepts double-dash flags", func() {
			So(r.Flags.Parse([]string{"--flag=--enable-foo", "--bug=7"}), ShouldBeNil)
			So(r.flag, ShouldEqual, "--enable-foo")
			So(r.bug, ShouldEqual, "7")
		})

		Convey("rejects positional arguments", func() {
			So(r.Flags.Parse([]string{"extra"}), ShouldBeNil)
			So(r.validate(r.Flags.Args()), ShouldErrLike, "unexpected positional")
		})

		Convey("rejects non-positive -jobs", func() {
			So(r.Flags.Parse([]string{"-jobs", "0"}), ShouldBeNil)
			So(r.validate(nil), ShouldErrLike, "-jobs")
		})

		Convey("uses the default registry", func() {
			reg, err := r.registry()
			So(err, ShouldBeNil)
			So(reg.Names(), ShouldHaveLength, 3)
		})

		Convey("loads a registry file", func() {
			dir, err := ioutil.TempDir("", "tryflag")
			So(err, ShouldBeNil)
			defer os.RemoveAll(dir)
			path := filepath.Join(dir, "builders.yaml")
			So(ioutil.WriteFile(path, []byte("linux_rel:\n  specifiers: [Linux, Release]\n  bucket: try\n"), 0644), ShouldBeNil)

			So(r.Flags.Parse([]string{"-builders", path}), ShouldBeNil)
			reg, err := r.registry()
			So(err, ShouldBeNil)
			So(reg.Names(), ShouldResemble, []string{"linux_rel"})
		})

		Convey("reports a missing registry file", func() {
			So(r.Flags.Parse([]string{"-builders", "/nonexistent/builders.json"}), ShouldBeNil)
			_, err := r.registry()
			So(err, ShouldErrLike, "read -builders")
		})
	})
}
